package aes

import (
	"bytes"
	stdaes "crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"

	"github.com/TheusHen/symcrypt/symcrypt"
)

var _ symcrypt.BlockCipher = (*Context)(nil)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

func TestFIPS197Vectors(t *testing.T) {
	tests := []struct {
		key, want string
		rounds    int
	}{
		{"000102030405060708090a0b0c0d0e0f", "69c4e0d86a7b0430d8cdb78070b4c55a", 10},
		{"000102030405060708090a0b0c0d0e0f1011121314151617", "dda97ca4864cdfe06eaf70a0ec0d7191", 12},
		{"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "8ea2b7ca516745bfeafc49904b496089", 14},
	}
	plaintext := mustHex(t, "00112233445566778899aabbccddeeff")

	for _, tt := range tests {
		c, err := NewContext(nil, mustHex(t, tt.key), ModeECB)
		if err != nil {
			t.Fatalf("NewContext: %v", err)
		}
		if c.Rounds() != tt.rounds {
			t.Fatalf("Rounds: got %d, want %d", c.Rounds(), tt.rounds)
		}

		ct := make([]byte, BlockSize)
		n, err := Encrypt(c, ct, plaintext)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if n != BlockSize {
			t.Fatalf("Encrypt returned %d", n)
		}
		if got := hex.EncodeToString(ct); got != tt.want {
			t.Fatalf("key %s: got %s, want %s", tt.key, got, tt.want)
		}

		pt := make([]byte, BlockSize)
		if _, err := Decrypt(c, pt, ct); err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(pt, plaintext) {
			t.Fatalf("decrypt mismatch: %x", pt)
		}
	}
}

func TestSP80038ACBC(t *testing.T) {
	key := mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c")
	iv := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	plaintext := mustHex(t, "6bc1bee22e409f96e93d7e117393172a"+
		"ae2d8a571e03ac9c9eb76fac45af8e51"+
		"30c81c46a35ce411e5fbc1191a0a52ef"+
		"f69f2445df4f9b17ad2b417be66c3710")
	want := mustHex(t, "7649abac8119b246cee98e9b12e9197d"+
		"5086cb9b507219ee95db113a917678b2"+
		"73bed6b8e3c1743b7116e69e22229516"+
		"3ff1caa1681fac09120eca307586e1a7")

	c, err := NewContext(iv, key, ModeCBC)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	ct := make([]byte, len(plaintext))
	if _, err := Encrypt(c, ct, plaintext); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(ct, want) {
		t.Fatalf("CBC ciphertext mismatch:\n got %x\nwant %x", ct, want)
	}

	// In place.
	buf := append([]byte(nil), ct...)
	if _, err := Decrypt(c, buf, buf); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(buf, plaintext) {
		t.Fatalf("CBC in-place decrypt mismatch")
	}
}

func TestRoundTripAllKeySizes(t *testing.T) {
	for _, keyLen := range []int{Key128Bytes, Key192Bytes, Key256Bytes} {
		key := make([]byte, keyLen)
		for i := range key {
			key[i] = byte(i*31 + keyLen)
		}
		iv := bytes.Repeat([]byte{0xa5}, BlockSize)

		for _, mode := range []Mode{ModeECB, ModeCBC} {
			c, err := NewContext(iv, key, mode)
			if err != nil {
				t.Fatalf("NewContext(%d, %v): %v", keyLen, mode, err)
			}
			for blocks := 1; blocks <= 8; blocks++ {
				src := make([]byte, blocks*BlockSize)
				for i := range src {
					src[i] = byte(i * blocks)
				}
				ct := make([]byte, len(src))
				pt := make([]byte, len(src))
				if _, err := Encrypt(c, ct, src); err != nil {
					t.Fatalf("Encrypt: %v", err)
				}
				if _, err := Decrypt(c, pt, ct); err != nil {
					t.Fatalf("Decrypt: %v", err)
				}
				if !bytes.Equal(pt, src) {
					t.Fatalf("round trip failed: key %d, mode %v, blocks %d", keyLen, mode, blocks)
				}
			}
		}
	}
}

func TestMatchesStandardLibrary(t *testing.T) {
	key := mustHex(t, "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4")
	iv := mustHex(t, "f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff")
	src := make([]byte, 20*BlockSize)
	for i := range src {
		src[i] = byte(i ^ 0x5c)
	}

	ref, err := stdaes.NewCipher(key)
	if err != nil {
		t.Fatalf("crypto/aes.NewCipher: %v", err)
	}

	want := make([]byte, len(src))
	cipher.NewCBCEncrypter(ref, iv).CryptBlocks(want, src)

	c, _ := NewContext(iv, key, ModeCBC)
	got := make([]byte, len(src))
	if _, err := Encrypt(c, got, src); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("CBC output differs from crypto/cipher")
	}

	block, err := NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(got, src)
	if !bytes.Equal(got, want) {
		t.Fatalf("NewCipher in crypto/cipher CBC differs")
	}

	back := make([]byte, len(src))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(back, want)
	if !bytes.Equal(back, src) {
		t.Fatalf("NewCipher decrypt mismatch")
	}
}

func TestContextNotAdvanced(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	iv := mustHex(t, "0f0e0d0c0b0a09080706050403020100")
	src := bytes.Repeat([]byte("0123456789abcdef"), 4)

	for _, mode := range []Mode{ModeECB, ModeCBC} {
		c, _ := NewContext(iv, key, mode)
		before := *c

		first := make([]byte, len(src))
		second := make([]byte, len(src))
		_, _ = Encrypt(c, first, src)
		_, _ = Encrypt(c, second, src)
		if !bytes.Equal(first, second) {
			t.Fatalf("%v: sequential encryptions differ", mode)
		}
		if diff := deep.Equal(before.iv, c.iv); diff != nil {
			t.Fatalf("%v: IV changed: %v", mode, diff)
		}
	}
}

func TestECBBlocksIndependent(t *testing.T) {
	c, _ := NewContext(nil, make([]byte, 16), ModeECB)
	src := bytes.Repeat([]byte{0x42}, 3*BlockSize)
	ct := make([]byte, len(src))
	_, _ = Encrypt(c, ct, src)
	if !bytes.Equal(ct[:16], ct[16:32]) || !bytes.Equal(ct[:16], ct[32:]) {
		t.Fatalf("ECB blocks with equal plaintext differ")
	}

	cbc, _ := NewContext(nil, make([]byte, 16), ModeCBC)
	_, _ = Encrypt(cbc, ct, src)
	if bytes.Equal(ct[:16], ct[16:32]) {
		t.Fatalf("CBC blocks with equal plaintext should differ")
	}
}

func TestInitializeErrors(t *testing.T) {
	var c Context
	if c.IsInitialized() || c.Mode() != ModeNone {
		t.Fatalf("zero context should be uninitialized")
	}

	for _, n := range []int{0, 1, 15, 17, 31, 33, 64} {
		err := c.Initialize(nil, make([]byte, n), ModeECB)
		if _, ok := err.(KeySizeError); !ok {
			t.Fatalf("key length %d: expected KeySizeError, got %v", n, err)
		}
	}
	if err := c.Initialize(nil, nil, ModeCBC); err != KeySizeError(0) {
		t.Fatalf("nil key: got %v", err)
	}
	if err := c.Initialize(make([]byte, 8), make([]byte, 16), ModeCBC); err != ErrInvalidIV {
		t.Fatalf("expected ErrInvalidIV, got %v", err)
	}
	for _, m := range []Mode{ModeNone, Mode(2), Mode(-7)} {
		if err := c.Initialize(nil, make([]byte, 16), m); err != ErrInvalidMode {
			t.Fatalf("mode %v: expected ErrInvalidMode, got %v", m, err)
		}
	}
	if c.IsInitialized() {
		t.Fatalf("failed Initialize left the context initialized")
	}

	if err := c.Initialize(nil, make([]byte, 24), ModeCBC); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !c.IsInitialized() || c.Mode() != ModeCBC || c.Rounds() != 12 {
		t.Fatalf("unexpected state after Initialize: %s", spew.Sdump(c.Mode(), c.Rounds()))
	}

	// A failed re-initialization keeps the previous schedule.
	snapshot := c
	_ = c.Initialize(nil, make([]byte, 5), ModeECB)
	if diff := deep.Equal(snapshot.ek, c.ek); diff != nil {
		t.Fatalf("schedule modified by failed Initialize: %v", diff)
	}
	if snapshot != c {
		t.Fatalf("context modified by failed Initialize")
	}
}

func TestEncryptPreconditions(t *testing.T) {
	var zero Context
	buf := make([]byte, 32)
	if _, err := Encrypt(&zero, buf, buf); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := Decrypt(&zero, buf, buf); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	c, _ := NewContext(nil, make([]byte, 16), ModeECB)
	for _, n := range []int{0, 1, 15, 17, 33} {
		if _, err := Encrypt(c, make([]byte, 64), make([]byte, n)); err != ErrInvalidLength {
			t.Fatalf("len %d: expected ErrInvalidLength, got %v", n, err)
		}
		if _, err := Decrypt(c, make([]byte, 64), make([]byte, n)); err != ErrInvalidLength {
			t.Fatalf("len %d: expected ErrInvalidLength, got %v", n, err)
		}
	}
	if _, err := Encrypt(c, make([]byte, 16), make([]byte, 32)); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	if err := c.DecryptBlocks(make([]byte, 16), make([]byte, 32)); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{ModeNone: "none", ModeECB: "ecb", ModeCBC: "cbc", Mode(5): "mode(5)"} {
		if m.String() != want {
			t.Fatalf("Mode(%d).String() = %q, want %q", int(m), m.String(), want)
		}
	}
}

func BenchmarkEncryptCBC(b *testing.B) {
	c, _ := NewContext(make([]byte, 16), make([]byte, 32), ModeCBC)
	buf := make([]byte, 64*1024)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encrypt(c, buf, buf)
	}
}

func BenchmarkDecryptCBC(b *testing.B) {
	c, _ := NewContext(make([]byte, 16), make([]byte, 32), ModeCBC)
	buf := make([]byte, 64*1024)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decrypt(c, buf, buf)
	}
}
