package envelope

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/TheusHen/symcrypt/symcrypt"
	"github.com/TheusHen/symcrypt/symcrypt/aes"
	"github.com/TheusHen/symcrypt/symcrypt/arcfour"
	"github.com/TheusHen/symcrypt/symcrypt/blowfish"
	"github.com/TheusHen/symcrypt/symcrypt/keycache"
	"github.com/TheusHen/symcrypt/symcrypt/pkcs5"
)

var (
	ErrUnknownAlgorithm = errors.New("envelope: unknown algorithm")
	ErrInvalidFrame     = errors.New("envelope: malformed frame")
	ErrCiphertextLength = errors.New("envelope: ciphertext not a positive multiple of the block size")
	ErrInvalidPadding   = errors.New("envelope: invalid padding")
)

// Algorithm names a cipher and, for AES, its chaining mode.
type Algorithm string

const (
	AESECB   Algorithm = "aes-ecb"
	AESCBC   Algorithm = "aes-cbc"
	Blowfish Algorithm = "blowfish"
	ARCFOUR  Algorithm = "arcfour"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{AESECB, AESCBC, Blowfish, ARCFOUR}

// ParseAlgorithm returns the Algorithm named by s.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// BlockSize returns the cipher block size, or 1 for the stream cipher.
func (a Algorithm) BlockSize() int {
	switch a {
	case AESECB, AESCBC:
		return aes.BlockSize
	case Blowfish:
		return blowfish.BlockSize
	default:
		return 1
	}
}

// IVSize returns the IV length the algorithm uses, 0 if it takes none.
func (a Algorithm) IVSize() int {
	if a == AESCBC {
		return aes.BlockSize
	}
	return 0
}

const flagCompressed byte = 1 << 0

// NonceSize is the length of the per-message nonce that follows the flag
// byte in ARCFOUR frames.
const NonceSize = 16

const arcfourInfo = "symcrypt-arcfour-message"

// Option configures an Envelope.
type Option func(*Envelope)

// WithCompression enables LZ4 compression before encryption.
func WithCompression(level CompressionLevel) Option {
	return func(e *Envelope) { e.level = level }
}

// WithCache takes block cipher contexts from cache instead of running the
// key schedule for every Envelope.
func WithCache(cache *keycache.Cache) Option {
	return func(e *Envelope) { e.cache = cache }
}

// WithMaxDecompressed caps the size a compressed payload may expand to in
// Open. The default is DefaultMaxDecompressed.
func WithMaxDecompressed(n int) Option {
	return func(e *Envelope) { e.maxDecompressed = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Envelope) { e.log = log }
}

// Envelope seals and opens messages with one algorithm and key. It is safe
// for concurrent use.
type Envelope struct {
	alg             Algorithm
	block           symcrypt.BlockCipher
	key             []byte // ARCFOUR only
	level           CompressionLevel
	maxDecompressed int
	cache           *keycache.Cache
	log             logrus.FieldLogger
}

// New returns an Envelope for alg. iv is used by AESCBC only; nil selects an
// all-zero IV. The key is validated up front.
func New(alg Algorithm, key, iv []byte, opts ...Option) (*Envelope, error) {
	e := &Envelope{alg: alg}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = symcrypt.NopLogger()
	}

	var err error
	switch alg {
	case AESECB:
		e.block, err = e.aesContext(nil, key, aes.ModeECB)
	case AESCBC:
		e.block, err = e.aesContext(iv, key, aes.ModeCBC)
	case Blowfish:
		e.block, err = e.blowfishContext(key)
	case ARCFOUR:
		if _, err = arcfour.NewContext(key); err == nil {
			e.key = append([]byte(nil), key...)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
	if err != nil {
		return nil, fmt.Errorf("envelope: %s: %w", alg, err)
	}

	e.log.WithFields(logrus.Fields{
		"alg":         string(alg),
		"compression": e.level.String(),
	}).Debug("envelope ready")
	return e, nil
}

func (e *Envelope) aesContext(iv, key []byte, mode aes.Mode) (symcrypt.BlockCipher, error) {
	if e.cache != nil {
		return e.cache.AES(iv, key, mode)
	}
	return aes.NewContext(iv, key, mode)
}

func (e *Envelope) blowfishContext(key []byte) (symcrypt.BlockCipher, error) {
	if e.cache != nil {
		return e.cache.Blowfish(key)
	}
	return blowfish.NewContext(key)
}

// Algorithm returns the algorithm the Envelope was built for.
func (e *Envelope) Algorithm() Algorithm { return e.alg }

// messageStream keys an ARCFOUR context for one message from the envelope
// key and that message's nonce.
func (e *Envelope) messageStream(nonce []byte) (*arcfour.Context, error) {
	n := len(e.key)
	if n > arcfour.StateSize {
		n = arcfour.StateSize
	}
	key, err := DeriveKey(e.key, nonce, []byte(arcfourInfo), n)
	if err != nil {
		return nil, err
	}
	return arcfour.NewContext(key)
}

// Seal compresses (if enabled and useful), pads and encrypts plaintext.
// ARCFOUR frames carry a random nonce after the flag byte, so sealing the
// same plaintext twice gives different output.
func (e *Envelope) Seal(plaintext []byte) ([]byte, error) {
	payload, compressed, err := shrink(plaintext, e.level)
	if err != nil {
		e.log.WithError(err).Warn("compression failed, sealing uncompressed")
	}
	var flags byte
	if compressed {
		flags |= flagCompressed
	}

	if e.block == nil {
		out := make([]byte, 1+NonceSize+len(payload))
		out[0] = flags
		nonce, body := out[1:1+NonceSize], out[1+NonceSize:]
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, fmt.Errorf("envelope: reading nonce: %w", err)
		}
		rc, err := e.messageStream(nonce)
		if err != nil {
			return nil, err
		}
		rc.XORKeyStream(body, payload)
		return out, nil
	}

	bs := e.block.BlockSize()
	n := pkcs5.PaddedLength(len(payload), bs)
	out := make([]byte, 1+n)
	out[0] = flags
	body := out[1:]
	copy(body, payload)
	pkcs5.Pad(body, len(payload), bs)
	if err := e.block.EncryptBlocks(body, body); err != nil {
		return nil, err
	}
	return out, nil
}

// Open reverses Seal.
func (e *Envelope) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < 1 || sealed[0]&^flagCompressed != 0 {
		return nil, ErrInvalidFrame
	}
	flags, body := sealed[0], sealed[1:]

	var payload []byte
	if e.block == nil {
		if len(body) < NonceSize {
			return nil, ErrInvalidFrame
		}
		nonce := body[:NonceSize]
		body = body[NonceSize:]
		rc, err := e.messageStream(nonce)
		if err != nil {
			return nil, err
		}
		payload = make([]byte, len(body))
		rc.XORKeyStream(payload, body)
	} else {
		if !pkcs5.CheckLength(len(body), e.block.BlockSize()) || len(body) == 0 {
			return nil, ErrCiphertextLength
		}
		buf := make([]byte, len(body))
		if err := e.block.DecryptBlocks(buf, body); err != nil {
			return nil, err
		}
		var err error
		payload, err = pkcs5.Unpad(buf, e.block.BlockSize())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPadding, err)
		}
	}

	if flags&flagCompressed == 0 {
		return payload, nil
	}
	plaintext, err := Decompress(payload, e.maxDecompressed)
	if err != nil {
		e.log.WithError(err).Debug("decompression failed")
		return nil, err
	}
	return plaintext, nil
}
