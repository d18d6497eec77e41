package arcfour

import (
	"bytes"
	"crypto/rc4"
	"encoding/hex"
	"sync"
	"testing"
)

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		key, plaintext, want string
	}{
		{"Key", "Plaintext", "BBF316E8D940AF0AD3"},
		{"Wiki", "pedia", "1021BF0420"},
		{"Secret", "Attack at dawn", "45A01F645FC35B383552544B9BF5"},
	}
	for _, tt := range tests {
		c, err := NewContext([]byte(tt.key))
		if err != nil {
			t.Fatalf("NewContext: %v", err)
		}
		data := []byte(tt.plaintext)
		n, err := Encrypt(c, data)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if n != len(tt.plaintext) {
			t.Fatalf("Encrypt returned %d, want %d", n, len(tt.plaintext))
		}
		want, _ := hex.DecodeString(tt.want)
		if !bytes.Equal(data, want) {
			t.Fatalf("key %q: got %X, want %s", tt.key, data, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	key := []byte("round trip key")
	msg := bytes.Repeat([]byte("symcrypt arcfour "), 37)

	enc, _ := NewContext(key)
	data := append([]byte(nil), msg...)
	if _, err := Encrypt(enc, data); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(data, msg) {
		t.Fatalf("ciphertext equals plaintext")
	}

	dec, _ := NewContext(key)
	if _, err := Decrypt(dec, data); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(data, msg) {
		t.Fatalf("round trip mismatch")
	}
}

func TestKeystreamAdvances(t *testing.T) {
	c, _ := NewContext([]byte("Key"))
	first := []byte("Plaintext")
	second := []byte("Plaintext")
	_, _ = Encrypt(c, first)
	_, _ = Encrypt(c, second)
	if bytes.Equal(first, second) {
		t.Fatalf("two sequential calls produced the same output")
	}

	// Re-initializing restarts the stream.
	if err := c.Initialize([]byte("Key")); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	again := []byte("Plaintext")
	_, _ = Encrypt(c, again)
	if !bytes.Equal(first, again) {
		t.Fatalf("re-initialized keystream differs")
	}
}

func TestMatchesStandardLibrary(t *testing.T) {
	key := make([]byte, 300) // longer than the state; only 256 bytes are used
	for i := range key {
		key[i] = byte(i * 7)
	}
	ref, err := rc4.NewCipher(key[:256])
	if err != nil {
		t.Fatalf("rc4.NewCipher: %v", err)
	}
	c, err := NewContext(key)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	src := make([]byte, 4096)
	for i := range src {
		src[i] = byte(i)
	}
	want := make([]byte, len(src))
	got := make([]byte, len(src))
	// Split the stream across calls to check that i and j carry over.
	for off := 0; off < len(src); off += 1000 {
		end := off + 1000
		if end > len(src) {
			end = len(src)
		}
		ref.XORKeyStream(want[off:end], src[off:end])
		c.XORKeyStream(got[off:end], src[off:end])
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("keystream differs from crypto/rc4")
	}
}

func TestUninitialized(t *testing.T) {
	var c Context
	if c.IsInitialized() {
		t.Fatalf("zero context reports initialized")
	}
	if _, err := Encrypt(&c, []byte("x")); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := NewContext(nil); err != ErrInvalidKeySize {
		t.Fatalf("expected ErrInvalidKeySize, got %v", err)
	}

	c2, _ := NewContext([]byte("k"))
	c2.Reset()
	if c2.IsInitialized() {
		t.Fatalf("Reset did not clear the context")
	}
}

func TestConcurrentCallersSerialize(t *testing.T) {
	const workers, size = 8, 512
	c, _ := NewContext([]byte("shared"))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, size)
			_, _ = Encrypt(c, buf)
		}()
	}
	wg.Wait()

	// The shared context consumed exactly workers*size bytes of keystream.
	ref, _ := NewContext([]byte("shared"))
	skip := make([]byte, workers*size)
	_, _ = Encrypt(ref, skip)

	next, want := make([]byte, 16), make([]byte, 16)
	_, _ = Encrypt(c, next)
	_, _ = Encrypt(ref, want)
	if !bytes.Equal(next, want) {
		t.Fatalf("keystream position diverged under concurrency")
	}
}

func BenchmarkEncrypt(b *testing.B) {
	c, _ := NewContext([]byte("benchmark key"))
	buf := make([]byte, 64*1024)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encrypt(c, buf)
	}
}
