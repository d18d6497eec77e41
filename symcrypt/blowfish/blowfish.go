// Package blowfish implements Bruce Schneier's Blowfish block cipher.
//
// The key schedule is a bootstrap: after the key is folded into the subkeys,
// the cipher encrypts with its own partially initialized state to produce the
// final P-array and S-boxes. The order of that process is part of the
// algorithm and is reproduced exactly.
package blowfish

import (
	"encoding/binary"
	"errors"
	"strconv"
)

const (
	// BlockSize is the Blowfish block size in bytes.
	BlockSize = 8

	// MaxKeyBytes is the longest key accepted by Initialize.
	MaxKeyBytes = 56

	rounds = 16
)

var (
	ErrNotInitialized = errors.New("blowfish: context not initialized")
	ErrInvalidLength  = errors.New("blowfish: input not a positive multiple of the block size")
	ErrShortBuffer    = errors.New("blowfish: output smaller than input")
)

// KeySizeError is returned for keys that are empty or longer than MaxKeyBytes.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "blowfish: invalid key size " + strconv.Itoa(int(k))
}

// Context holds the key-dependent subkeys and S-boxes. It is immutable after
// Initialize and safe for concurrent use.
type Context struct {
	p           [rounds + 2]uint32
	s           [4][256]uint32
	initialized bool
}

// NewContext returns a Context keyed with key, 1 to 56 bytes long.
func NewContext(key []byte) (*Context, error) {
	c := &Context{}
	if err := c.Initialize(key); err != nil {
		return nil, err
	}
	return c, nil
}

// Initialize runs the key schedule. On error the context is left as it was.
func (c *Context) Initialize(key []byte) error {
	if k := len(key); k < 1 || k > MaxKeyBytes {
		return KeySizeError(k)
	}

	var next Context
	next.p = initP
	next.s = initS

	j := 0
	for i := range next.p {
		var d uint32
		for k := 0; k < 4; k++ {
			d = d<<8 | uint32(key[j])
			j++
			if j >= len(key) {
				j = 0
			}
		}
		next.p[i] ^= d
	}

	var l, r uint32
	for i := 0; i < len(next.p); i += 2 {
		l, r = next.encrypt(l, r)
		next.p[i], next.p[i+1] = l, r
	}
	for b := range next.s {
		for i := 0; i < 256; i += 2 {
			l, r = next.encrypt(l, r)
			next.s[b][i], next.s[b][i+1] = l, r
		}
	}

	next.initialized = true
	*c = next
	return nil
}

// IsInitialized reports whether the context holds a key schedule.
func (c *Context) IsInitialized() bool { return c.initialized }

// BlockSize returns the Blowfish block size, 8 bytes.
func (c *Context) BlockSize() int { return BlockSize }

func (c *Context) f(x uint32) uint32 {
	return ((c.s[0][x>>24] + c.s[1][x>>16&0xff]) ^ c.s[2][x>>8&0xff]) + c.s[3][x&0xff]
}

func (c *Context) encrypt(l, r uint32) (uint32, uint32) {
	l ^= c.p[0]
	for i := 1; i <= rounds; i += 2 {
		r ^= c.f(l) ^ c.p[i]
		l ^= c.f(r) ^ c.p[i+1]
	}
	r ^= c.p[rounds+1]
	return r, l
}

func (c *Context) decrypt(l, r uint32) (uint32, uint32) {
	l ^= c.p[rounds+1]
	for i := rounds; i >= 1; i -= 2 {
		r ^= c.f(l) ^ c.p[i]
		l ^= c.f(r) ^ c.p[i-1]
	}
	r ^= c.p[0]
	return r, l
}

func (c *Context) check(dst, src []byte) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if len(src) == 0 || len(src)%BlockSize != 0 {
		return ErrInvalidLength
	}
	if len(dst) < len(src) {
		return ErrShortBuffer
	}
	return nil
}

func (c *Context) encryptBlock(dst, src []byte) {
	l, r := c.encrypt(binary.BigEndian.Uint32(src[0:4]), binary.BigEndian.Uint32(src[4:8]))
	binary.BigEndian.PutUint32(dst[0:4], l)
	binary.BigEndian.PutUint32(dst[4:8], r)
}

func (c *Context) decryptBlock(dst, src []byte) {
	l, r := c.decrypt(binary.BigEndian.Uint32(src[0:4]), binary.BigEndian.Uint32(src[4:8]))
	binary.BigEndian.PutUint32(dst[0:4], l)
	binary.BigEndian.PutUint32(dst[4:8], r)
}

// Encrypt encrypts src into dst block by block. len(src) must be a positive
// multiple of BlockSize; dst and src may be the same slice.
func Encrypt(c *Context, dst, src []byte) error {
	if err := c.check(dst, src); err != nil {
		return err
	}
	for i := 0; i < len(src); i += BlockSize {
		c.encryptBlock(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	return nil
}

// Decrypt decrypts src into dst block by block.
func Decrypt(c *Context, dst, src []byte) error {
	if err := c.check(dst, src); err != nil {
		return err
	}
	for i := 0; i < len(src); i += BlockSize {
		c.decryptBlock(dst[i:i+BlockSize], src[i:i+BlockSize])
	}
	return nil
}

// EncryptBlocks is Encrypt as a method.
func (c *Context) EncryptBlocks(dst, src []byte) error { return Encrypt(c, dst, src) }

// DecryptBlocks is Decrypt as a method.
func (c *Context) DecryptBlocks(dst, src []byte) error { return Decrypt(c, dst, src) }
