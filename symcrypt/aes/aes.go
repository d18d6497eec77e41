// Package aes implements the Rijndael block cipher (AES) with 128, 192 and
// 256-bit keys in ECB and CBC modes.
//
// The implementation is table driven: each round is four table lookups per
// output word, and decryption uses the equivalent inverse cipher so it shares
// the round structure of encryption.
//
// A Context holds the expanded key schedules, the initialization vector and
// the mode. It is not modified by Encrypt or Decrypt: CBC chaining state lives
// for the duration of a single call. An initialized Context is therefore safe
// for concurrent use.
package aes

import (
	"encoding/binary"
	"errors"
	"strconv"
)

const (
	Key128Bytes = 16
	Key192Bytes = 24
	Key256Bytes = 32

	// BlockSize is the AES block size in bytes.
	BlockSize = 16

	scheduleWords = 60
)

var (
	ErrInvalidIV      = errors.New("aes: IV length must equal block size")
	ErrInvalidMode    = errors.New("aes: unsupported mode")
	ErrNotInitialized = errors.New("aes: context not initialized")
	ErrInvalidLength  = errors.New("aes: input not a positive multiple of the block size")
	ErrShortBuffer    = errors.New("aes: output smaller than input")
)

// KeySizeError is returned for keys that are not 16, 24 or 32 bytes long.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "aes: invalid key size " + strconv.Itoa(int(k))
}

// Mode selects how successive blocks are chained.
type Mode int8

const (
	ModeNone Mode = -1
	ModeECB  Mode = 0
	ModeCBC  Mode = 1
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeECB:
		return "ecb"
	case ModeCBC:
		return "cbc"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Context is an expanded AES key together with its IV and mode.
// The zero value is uninitialized.
type Context struct {
	ek   [scheduleWords]uint32
	dk   [scheduleWords]uint32
	iv   [4]uint32
	nr   uint8
	mode Mode
	set  bool
}

// NewContext returns an initialized Context. iv may be nil, in which case an
// all-zero IV is used; it is ignored in ECB mode.
func NewContext(iv, key []byte, mode Mode) (*Context, error) {
	c := &Context{mode: ModeNone}
	if err := c.Initialize(iv, key, mode); err != nil {
		return nil, err
	}
	return c, nil
}

// Initialize expands key and stores iv and mode. On error the context is left
// as it was.
func (c *Context) Initialize(iv, key []byte, mode Mode) error {
	switch len(key) {
	case Key128Bytes, Key192Bytes, Key256Bytes:
	default:
		return KeySizeError(len(key))
	}
	if iv != nil && len(iv) != BlockSize {
		return ErrInvalidIV
	}
	switch mode {
	case ModeECB, ModeCBC:
	default:
		return ErrInvalidMode
	}

	var next Context
	next.nr = expandKey(&next.ek, &next.dk, key)
	if iv != nil {
		for i := range next.iv {
			next.iv[i] = binary.BigEndian.Uint32(iv[4*i:])
		}
	}
	next.mode = mode
	next.set = true
	*c = next
	return nil
}

// IsInitialized reports whether the context holds a key schedule.
func (c *Context) IsInitialized() bool {
	return c.set && c.mode != ModeNone
}

// Rounds returns the number of rounds: 10, 12 or 14.
func (c *Context) Rounds() int { return int(c.nr) }

// Mode returns the chaining mode, or ModeNone for an uninitialized context.
func (c *Context) Mode() Mode {
	if !c.set {
		return ModeNone
	}
	return c.mode
}

// BlockSize returns the AES block size, 16 bytes.
func (c *Context) BlockSize() int { return BlockSize }

func (c *Context) check(dst, src []byte) error {
	if !c.IsInitialized() {
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

// Encrypt encrypts src into dst and returns the number of bytes written.
// len(src) must be a positive multiple of BlockSize. dst and src must overlap
// entirely or not at all.
func Encrypt(c *Context, dst, src []byte) (int, error) {
	if err := c.check(dst, src); err != nil {
		return 0, err
	}
	iv := c.iv
	switch c.mode {
	case ModeECB:
		for i := 0; i < len(src); i += BlockSize {
			encryptBlock(c, dst[i:i+BlockSize], src[i:i+BlockSize], nil)
		}
	case ModeCBC:
		for i := 0; i < len(src); i += BlockSize {
			encryptBlock(c, dst[i:i+BlockSize], src[i:i+BlockSize], &iv)
		}
	default:
		return 0, ErrInvalidMode
	}
	return len(src), nil
}

// Decrypt decrypts src into dst and returns the number of bytes written.
// The same length and overlap rules as Encrypt apply.
func Decrypt(c *Context, dst, src []byte) (int, error) {
	if err := c.check(dst, src); err != nil {
		return 0, err
	}
	iv := c.iv
	switch c.mode {
	case ModeECB:
		for i := 0; i < len(src); i += BlockSize {
			decryptBlock(c, dst[i:i+BlockSize], src[i:i+BlockSize], nil)
		}
	case ModeCBC:
		for i := 0; i < len(src); i += BlockSize {
			decryptBlock(c, dst[i:i+BlockSize], src[i:i+BlockSize], &iv)
		}
	default:
		return 0, ErrInvalidMode
	}
	return len(src), nil
}

// EncryptBlocks is Encrypt as a method.
func (c *Context) EncryptBlocks(dst, src []byte) error {
	_, err := Encrypt(c, dst, src)
	return err
}

// DecryptBlocks is Decrypt as a method.
func (c *Context) DecryptBlocks(dst, src []byte) error {
	_, err := Decrypt(c, dst, src)
	return err
}
