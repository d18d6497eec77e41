// Package arcfour implements the RC4 (ARCFOUR) stream cipher.
//
// A Context carries the cipher's permutation together with the i and j
// indexes, so successive calls continue one keystream. Encrypting two
// messages with the same Context without calling Initialize again does not
// restart the keystream.
//
// RC4 is cryptographically broken and should not be used for new protocols.
package arcfour

import (
	"errors"
	"sync"
)

const (
	StateSize = 256
	StateMask = 0xFF
)

var (
	ErrInvalidKeySize = errors.New("arcfour: key must not be empty")
	ErrNotInitialized = errors.New("arcfour: context not initialized")
)

// Context is the RC4 permutation state. The keystream advances on every
// Encrypt, Decrypt or XORKeyStream call; concurrent callers are serialized.
type Context struct {
	mu          sync.Mutex
	s           [StateSize]byte
	i, j        uint8
	initialized bool
}

// NewContext returns a Context keyed with key.
func NewContext(key []byte) (*Context, error) {
	c := &Context{}
	if err := c.Initialize(key); err != nil {
		return nil, err
	}
	return c, nil
}

// Initialize runs the key-scheduling algorithm and restarts the keystream.
func (c *Context) Initialize(key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKeySize
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.s {
		c.s[i] = byte(i)
	}
	var j uint8
	for i := 0; i < StateSize; i++ {
		j += c.s[i] + key[i%len(key)]
		c.s[i], c.s[j] = c.s[j], c.s[i]
	}
	c.i, c.j = 0, 0
	c.initialized = true
	return nil
}

// IsInitialized reports whether the context has been keyed.
func (c *Context) IsInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Reset zeroes the permutation and returns the context to the uninitialized state.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s = [StateSize]byte{}
	c.i, c.j = 0, 0
	c.initialized = false
}

// XORKeyStream sets dst to src XORed with the keystream. It satisfies
// crypto/cipher.Stream and panics, like the standard library streams, if dst
// is shorter than src or the context is not initialized.
func (c *Context) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("arcfour: output smaller than input")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		panic(ErrNotInitialized.Error())
	}
	c.xor(dst[:len(src)], src)
}

func (c *Context) xor(dst, src []byte) {
	i, j := c.i, c.j
	for k, v := range src {
		i++
		x := c.s[i]
		j += x
		y := c.s[j]
		c.s[i], c.s[j] = y, x
		dst[k] = v ^ c.s[x+y]
	}
	c.i, c.j = i, j
}

// Encrypt XORs data with the keystream in place and returns the number of
// bytes processed.
func Encrypt(c *Context, data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return 0, ErrNotInitialized
	}
	c.xor(data, data)
	return len(data), nil
}

// Decrypt is the same operation as Encrypt.
func Decrypt(c *Context, data []byte) (int, error) {
	return Encrypt(c, data)
}
