package envelope

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/text/unicode/norm"
)

var ErrEmptyPassphrase = errors.New("envelope: empty passphrase")

const passphraseInfo = "symcrypt-passphrase"

// DeriveKey derives a key of the specified length using HKDF-SHA256.
// salt can be nil (uses zero salt), info provides context binding.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	hk := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(hk, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveKeyIV derives a key and an IV from one HKDF stream. ivLen may be 0
// for ciphers that take no IV, in which case the returned IV is nil.
func DeriveKeyIV(secret, salt, info []byte, keyLen, ivLen int) (key, iv []byte, err error) {
	material, err := DeriveKey(secret, salt, info, keyLen+ivLen)
	if err != nil {
		return nil, nil, err
	}
	key = material[:keyLen:keyLen]
	if ivLen > 0 {
		iv = material[keyLen:]
	}
	return key, iv, nil
}

// DerivePassphrase derives a key and IV from a human-entered passphrase.
// The passphrase is NFKC normalized first so that equivalent Unicode input
// yields the same key. HKDF does no key stretching; use a random per-message
// salt or a dedicated password hash when the passphrase is weak.
func DerivePassphrase(passphrase string, salt []byte, keyLen, ivLen int) (key, iv []byte, err error) {
	if passphrase == "" {
		return nil, nil, ErrEmptyPassphrase
	}
	secret := norm.NFKC.String(passphrase)
	return DeriveKeyIV([]byte(secret), salt, []byte(passphraseInfo), keyLen, ivLen)
}
