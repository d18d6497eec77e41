// Package pkcs5 implements the RFC 2898 padding scheme used in front of the
// block ciphers in this module.
//
// Padding always adds at least one byte: an input that is already aligned to
// the block size receives a whole extra block whose bytes all equal blockSize.
package pkcs5

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPadding = errors.New("pkcs5: invalid padding")
	ErrInvalidLength  = errors.New("pkcs5: padded length is not a multiple of the block size")
)

// MaxBlockSize is the largest block size whose pad count fits in one byte.
const MaxBlockSize = 255

func checkBlockSize(blockSize int) {
	if blockSize <= 0 || blockSize > MaxBlockSize {
		panic(fmt.Sprintf("pkcs5: block size %d out of range", blockSize))
	}
}

// PaddedLength returns length rounded up to the next multiple of blockSize.
// An already aligned length grows by a full block.
func PaddedLength(length, blockSize int) int {
	checkBlockSize(blockSize)
	if length < 0 {
		panic("pkcs5: negative length")
	}
	return length + blockSize - length%blockSize
}

// Pad writes the padding bytes into data[length:PaddedLength(length, blockSize)].
// The caller provisions data; it must be at least the padded length long.
func Pad(data []byte, length, blockSize int) {
	padded := PaddedLength(length, blockSize)
	if len(data) < padded {
		panic("pkcs5: buffer smaller than padded length")
	}
	value := byte(padded - length)
	for i := length; i < padded; i++ {
		data[i] = value
	}
}

// Append returns a new slice holding data followed by its padding.
func Append(data []byte, blockSize int) []byte {
	out := make([]byte, PaddedLength(len(data), blockSize))
	copy(out, data)
	Pad(out, len(data), blockSize)
	return out
}

// UnpaddedLength returns the original length of a padded buffer by reading
// the pad count from its last byte. The remaining pad bytes are not checked;
// use Unpad when the input is untrusted.
func UnpaddedLength(data []byte) int {
	if len(data) == 0 {
		panic("pkcs5: empty padded buffer")
	}
	count := int(data[len(data)-1])
	if count > len(data) {
		panic("pkcs5: pad count exceeds buffer length")
	}
	return len(data) - count
}

// Unpad validates the padding of data and returns the unpadded prefix.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	checkBlockSize(blockSize)
	if len(data) == 0 || !CheckLength(len(data), blockSize) {
		return nil, ErrInvalidLength
	}
	count := int(data[len(data)-1])
	if count == 0 || count > blockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-count:] {
		if int(b) != count {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-count], nil
}

// CheckLength reports whether length is an exact multiple of blockSize.
func CheckLength(length, blockSize int) bool {
	checkBlockSize(blockSize)
	return length%blockSize == 0
}
