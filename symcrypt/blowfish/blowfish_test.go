package blowfish

import (
	"bytes"
	"crypto/cipher"
	"encoding/hex"
	"testing"

	"github.com/go-test/deep"
	xblowfish "golang.org/x/crypto/blowfish"

	"github.com/TheusHen/symcrypt/symcrypt"
)

var _ symcrypt.BlockCipher = (*Context)(nil)

func TestSchneierVectors(t *testing.T) {
	tests := []struct {
		key, plaintext, ciphertext string
	}{
		{"0000000000000000", "0000000000000000", "4EF997456198DD78"},
		{"FFFFFFFFFFFFFFFF", "FFFFFFFFFFFFFFFF", "51866FD5B85ECB8A"},
		{"3000000000000000", "1000000000000001", "7D856F9A613063F2"},
		{"1111111111111111", "1111111111111111", "2466DD878B963C9D"},
		{"0123456789ABCDEF", "1111111111111111", "61F9C3802281B096"},
		{"FEDCBA9876543210", "0123456789ABCDEF", "0ACEAB0FC6A0A28D"},
	}
	for _, tt := range tests {
		key, _ := hex.DecodeString(tt.key)
		pt, _ := hex.DecodeString(tt.plaintext)
		want, _ := hex.DecodeString(tt.ciphertext)

		c, err := NewContext(key)
		if err != nil {
			t.Fatalf("NewContext: %v", err)
		}
		got := make([]byte, BlockSize)
		if err := Encrypt(c, got, pt); err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("key %s: got %X, want %s", tt.key, got, tt.ciphertext)
		}
		if err := Decrypt(c, got, got); err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, pt) {
			t.Fatalf("key %s: decrypt got %X", tt.key, got)
		}
	}
}

func TestMatchesXCrypto(t *testing.T) {
	src := make([]byte, 64*BlockSize)
	for i := range src {
		src[i] = byte(i * 13)
	}
	for keyLen := 1; keyLen <= MaxKeyBytes; keyLen++ {
		key := make([]byte, keyLen)
		for i := range key {
			key[i] = byte(i*7 + keyLen)
		}

		ref, err := xblowfish.NewCipher(key)
		if err != nil {
			t.Fatalf("x/crypto NewCipher(%d): %v", keyLen, err)
		}
		want := make([]byte, len(src))
		for i := 0; i < len(src); i += BlockSize {
			ref.Encrypt(want[i:], src[i:])
		}

		c, err := NewContext(key)
		if err != nil {
			t.Fatalf("NewContext(%d): %v", keyLen, err)
		}
		got := make([]byte, len(src))
		if err := Encrypt(c, got, src); err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("key length %d: output differs from x/crypto/blowfish", keyLen)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	c, _ := NewContext([]byte("a moderately long blowfish key"))
	for blocks := 1; blocks <= 16; blocks++ {
		src := bytes.Repeat([]byte{byte(blocks)}, blocks*BlockSize)
		ct := make([]byte, len(src))
		pt := make([]byte, len(src))
		if err := c.EncryptBlocks(ct, src); err != nil {
			t.Fatalf("EncryptBlocks: %v", err)
		}
		if err := c.DecryptBlocks(pt, ct); err != nil {
			t.Fatalf("DecryptBlocks: %v", err)
		}
		if !bytes.Equal(pt, src) {
			t.Fatalf("round trip failed for %d blocks", blocks)
		}
	}
}

func TestContextImmutable(t *testing.T) {
	c, _ := NewContext([]byte("immutable"))
	before := *c
	src := []byte("sixteen byte msg")
	first := make([]byte, len(src))
	second := make([]byte, len(src))
	_ = Encrypt(c, first, src)
	_ = Encrypt(c, second, src)
	if !bytes.Equal(first, second) {
		t.Fatalf("sequential encryptions differ")
	}
	if diff := deep.Equal(before.p, c.p); diff != nil {
		t.Fatalf("P-array changed: %v", diff)
	}
	if before != *c {
		t.Fatalf("context changed by Encrypt")
	}
}

func TestBootstrapRewritesEverySubkey(t *testing.T) {
	c, _ := NewContext([]byte{0})
	for i := range c.p {
		if c.p[i] == initP[i] {
			t.Fatalf("P[%d] still holds its initial constant", i)
		}
	}
	changed := 0
	for b := range c.s {
		for i := range c.s[b] {
			if c.s[b][i] != initS[b][i] {
				changed++
			}
		}
	}
	if changed < 4*256-4 {
		t.Fatalf("only %d S-box entries were rewritten", changed)
	}
}

func TestKeySizeErrors(t *testing.T) {
	for _, n := range []int{0, MaxKeyBytes + 1, 72} {
		_, err := NewContext(make([]byte, n))
		if err != KeySizeError(n) {
			t.Fatalf("key length %d: got %v", n, err)
		}
	}
	var c Context
	if err := c.Initialize(nil); err != KeySizeError(0) {
		t.Fatalf("nil key: got %v", err)
	}
	if c.IsInitialized() {
		t.Fatalf("context initialized after failed Initialize")
	}
}

func TestPreconditions(t *testing.T) {
	var zero Context
	if err := Encrypt(&zero, make([]byte, 8), make([]byte, 8)); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	c, _ := NewContext([]byte("k"))
	for _, n := range []int{0, 1, 7, 9, 15} {
		if err := Encrypt(c, make([]byte, 16), make([]byte, n)); err != ErrInvalidLength {
			t.Fatalf("len %d: expected ErrInvalidLength, got %v", n, err)
		}
		if err := Decrypt(c, make([]byte, 16), make([]byte, n)); err != ErrInvalidLength {
			t.Fatalf("len %d: expected ErrInvalidLength, got %v", n, err)
		}
	}
	if err := Decrypt(c, make([]byte, 8), make([]byte, 16)); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestNewCipherWithCBC(t *testing.T) {
	key := []byte("cbc key")
	iv := []byte("8bytesIV")
	src := bytes.Repeat([]byte("blowfish"), 10)

	block, err := NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	ref, _ := xblowfish.NewCipher(key)

	got := make([]byte, len(src))
	want := make([]byte, len(src))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(got, src)
	cipher.NewCBCEncrypter(ref, iv).CryptBlocks(want, src)
	if !bytes.Equal(got, want) {
		t.Fatalf("CBC output differs from x/crypto/blowfish")
	}

	cipher.NewCBCDecrypter(block, iv).CryptBlocks(got, got)
	if !bytes.Equal(got, src) {
		t.Fatalf("CBC decrypt mismatch")
	}
}

func BenchmarkInitialize(b *testing.B) {
	key := []byte("benchmark key material")
	var c Context
	for i := 0; i < b.N; i++ {
		_ = c.Initialize(key)
	}
}

func BenchmarkEncrypt(b *testing.B) {
	c, _ := NewContext([]byte("benchmark key material"))
	buf := make([]byte, 64*1024)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encrypt(c, buf, buf)
	}
}
