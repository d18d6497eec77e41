// Package selftest runs known-answer tests against the symcrypt ciphers.
//
// A vector names an algorithm, a key, an optional IV and a plaintext and
// ciphertext pair. Each vector is checked three ways: encryption must yield
// the ciphertext, decryption must yield the plaintext, and for block ciphers a
// second encryption with the same context must match the first.
package selftest

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/TheusHen/symcrypt/symcrypt"
	"github.com/TheusHen/symcrypt/symcrypt/aes"
	"github.com/TheusHen/symcrypt/symcrypt/arcfour"
	"github.com/TheusHen/symcrypt/symcrypt/blowfish"
	"github.com/TheusHen/symcrypt/symcrypt/envelope"
)

//go:embed vectors.yaml
var defaultVectors []byte

var (
	ErrFailed    = errors.New("selftest: vectors failed")
	ErrMismatch  = errors.New("selftest: output mismatch")
	ErrNoVectors = errors.New("selftest: no vectors")
)

const textPrefix = "text:"

// Vector is one known-answer test. Byte fields are hex, or ASCII when
// prefixed with "text:".
type Vector struct {
	Name       string `mapstructure:"name"`
	Algorithm  string `mapstructure:"algorithm"`
	Key        string `mapstructure:"key"`
	IV         string `mapstructure:"iv"`
	Plaintext  string `mapstructure:"plaintext"`
	Ciphertext string `mapstructure:"ciphertext"`
}

// Failure records why a vector did not pass.
type Failure struct {
	Name string
	Err  error
}

// Report summarizes a run.
type Report struct {
	Passed   int
	Failed   int
	Failures []Failure
}

// Err returns nil when every vector passed.
func (r Report) Err() error {
	if r.Failed == 0 {
		return nil
	}
	errs := []error{fmt.Errorf("%w: %d of %d", ErrFailed, r.Failed, r.Passed+r.Failed)}
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Name, f.Err))
	}
	return errors.Join(errs...)
}

// Default returns the built-in vector suite.
func Default() ([]Vector, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultVectors)); err != nil {
		return nil, fmt.Errorf("selftest: reading built-in vectors: %w", err)
	}
	return unmarshalVectors(v)
}

// LoadFile reads a vector suite from a YAML, JSON or TOML file with a
// top-level "vectors" list.
func LoadFile(path string) ([]Vector, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("selftest: reading %s: %w", path, err)
	}
	return unmarshalVectors(v)
}

func unmarshalVectors(v *viper.Viper) ([]Vector, error) {
	var vectors []Vector
	if err := v.UnmarshalKey("vectors", &vectors); err != nil {
		return nil, fmt.Errorf("selftest: decoding vectors: %w", err)
	}
	if len(vectors) == 0 {
		return nil, ErrNoVectors
	}
	return vectors, nil
}

func decodeField(s string) ([]byte, error) {
	if strings.HasPrefix(s, textPrefix) {
		return []byte(strings.TrimPrefix(s, textPrefix)), nil
	}
	return hex.DecodeString(s)
}

// Runner checks vectors. The zero value logs nothing and runs every vector.
type Runner struct {
	Log      logrus.FieldLogger
	FailFast bool
}

// Run checks vectors with a default Runner that logs to log.
func Run(vectors []Vector, log logrus.FieldLogger) Report {
	return Runner{Log: log}.Run(vectors)
}

// Run checks every vector and returns the tally. With FailFast set it stops
// at the first failure.
func (r Runner) Run(vectors []Vector) Report {
	log := r.Log
	if log == nil {
		log = symcrypt.NopLogger()
	}

	var rep Report
	for _, vec := range vectors {
		entry := log.WithFields(logrus.Fields{
			"vector": vec.Name,
			"alg":    vec.Algorithm,
		})
		if err := Check(vec); err != nil {
			rep.Failed++
			rep.Failures = append(rep.Failures, Failure{Name: vec.Name, Err: err})
			entry.WithError(err).Error("vector failed")
			if r.FailFast {
				break
			}
			continue
		}
		rep.Passed++
		entry.Debug("vector passed")
	}

	log.WithFields(logrus.Fields{
		"passed": rep.Passed,
		"failed": rep.Failed,
	}).Info("self-test complete")
	return rep
}

// Check runs a single vector.
func Check(vec Vector) error {
	alg, err := envelope.ParseAlgorithm(vec.Algorithm)
	if err != nil {
		return err
	}
	key, err := decodeField(vec.Key)
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}
	iv, err := decodeField(vec.IV)
	if err != nil {
		return fmt.Errorf("iv: %w", err)
	}
	if len(iv) == 0 {
		iv = nil
	}
	pt, err := decodeField(vec.Plaintext)
	if err != nil {
		return fmt.Errorf("plaintext: %w", err)
	}
	ct, err := decodeField(vec.Ciphertext)
	if err != nil {
		return fmt.Errorf("ciphertext: %w", err)
	}
	if len(pt) != len(ct) {
		return fmt.Errorf("plaintext and ciphertext lengths differ (%d, %d)", len(pt), len(ct))
	}

	switch alg {
	case envelope.AESECB:
		c, err := aes.NewContext(iv, key, aes.ModeECB)
		if err != nil {
			return err
		}
		return checkBlock(c, pt, ct)
	case envelope.AESCBC:
		c, err := aes.NewContext(iv, key, aes.ModeCBC)
		if err != nil {
			return err
		}
		return checkBlock(c, pt, ct)
	case envelope.Blowfish:
		c, err := blowfish.NewContext(key)
		if err != nil {
			return err
		}
		return checkBlock(c, pt, ct)
	default:
		return checkStream(key, pt, ct)
	}
}

func checkBlock(c symcrypt.BlockCipher, pt, ct []byte) error {
	got := make([]byte, len(pt))
	if err := c.EncryptBlocks(got, pt); err != nil {
		return err
	}
	if !bytes.Equal(got, ct) {
		return fmt.Errorf("%w: encrypt got %x", ErrMismatch, got)
	}

	again := make([]byte, len(pt))
	if err := c.EncryptBlocks(again, pt); err != nil {
		return err
	}
	if !bytes.Equal(again, got) {
		return fmt.Errorf("%w: second encryption differs", ErrMismatch)
	}

	if err := c.DecryptBlocks(got, ct); err != nil {
		return err
	}
	if !bytes.Equal(got, pt) {
		return fmt.Errorf("%w: decrypt got %x", ErrMismatch, got)
	}
	return nil
}

func checkStream(key, pt, ct []byte) error {
	c, err := arcfour.NewContext(key)
	if err != nil {
		return err
	}
	buf := append([]byte(nil), pt...)
	if _, err := arcfour.Encrypt(c, buf); err != nil {
		return err
	}
	if !bytes.Equal(buf, ct) {
		return fmt.Errorf("%w: encrypt got %x", ErrMismatch, buf)
	}

	if err := c.Initialize(key); err != nil {
		return err
	}
	if _, err := arcfour.Decrypt(c, buf); err != nil {
		return err
	}
	if !bytes.Equal(buf, pt) {
		return fmt.Errorf("%w: decrypt got %q", ErrMismatch, buf)
	}
	return nil
}
