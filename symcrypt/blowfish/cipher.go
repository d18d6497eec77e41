package blowfish

import "crypto/cipher"

type blockCipher struct {
	ctx Context
}

// NewCipher returns a single-block Blowfish cipher for use with the modes in
// crypto/cipher.
func NewCipher(key []byte) (cipher.Block, error) {
	b := &blockCipher{}
	if err := b.ctx.Initialize(key); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *blockCipher) BlockSize() int { return BlockSize }

func (b *blockCipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("blowfish: buffer not full block")
	}
	b.ctx.encryptBlock(dst, src)
}

func (b *blockCipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("blowfish: buffer not full block")
	}
	b.ctx.decryptBlock(dst, src)
}
