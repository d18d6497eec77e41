package aes

import "crypto/cipher"

// blockCipher adapts an ECB context to crypto/cipher.Block so the cipher can
// be used with the standard library's modes.
type blockCipher struct {
	ctx Context
}

// NewCipher returns a single-block AES cipher for the given key.
func NewCipher(key []byte) (cipher.Block, error) {
	b := &blockCipher{}
	if err := b.ctx.Initialize(nil, key, ModeECB); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *blockCipher) BlockSize() int { return BlockSize }

func (b *blockCipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}
	encryptBlock(&b.ctx, dst, src, nil)
}

func (b *blockCipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}
	decryptBlock(&b.ctx, dst, src, nil)
}
