package symcrypt

// BlockCipher is a keyed block cipher that transforms whole buffers.
// Implementations reject inputs whose length is not a positive multiple of
// BlockSize. dst and src must overlap entirely or not at all.
type BlockCipher interface {
	BlockSize() int
	EncryptBlocks(dst, src []byte) error
	DecryptBlocks(dst, src []byte) error
}
