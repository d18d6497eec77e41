// Package keycache keeps initialized cipher contexts so that repeated use of
// the same key does not rerun the key schedule.
//
// Only immutable contexts are cached. An ARCFOUR context advances its
// keystream on every call and is never shared.
package keycache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/TheusHen/symcrypt/symcrypt"
	"github.com/TheusHen/symcrypt/symcrypt/aes"
	"github.com/TheusHen/symcrypt/symcrypt/blowfish"
)

const (
	DefaultTTL             = 10 * time.Minute
	DefaultCleanupInterval = time.Minute
)

// Cache maps key fingerprints to initialized contexts. Entries expire after
// the configured TTL. Keys themselves are not stored, only their SHA-256
// fingerprint.
type Cache struct {
	cacheInstance *gocache.Cache
	log           logrus.FieldLogger
}

// New returns a cache whose entries live for ttl. A ttl of -1 keeps entries
// until Flush. A nil log discards output.
func New(ttl, cleanup time.Duration, log logrus.FieldLogger) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	if log == nil {
		log = symcrypt.NopLogger()
	}
	return &Cache{
		cacheInstance: gocache.New(ttl, cleanup),
		log:           log,
	}
}

func fingerprint(alg string, mode int, iv, key []byte) string {
	h := sha256.New()
	h.Write([]byte(alg))
	h.Write([]byte{byte(mode), byte(len(iv)), byte(len(key))})
	h.Write(iv)
	h.Write(key)
	return alg + ":" + hex.EncodeToString(h.Sum(nil))
}

// AES returns an initialized AES context for (iv, key, mode), building and
// storing it on a miss. Initialization errors are returned and not cached.
func (c *Cache) AES(iv, key []byte, mode aes.Mode) (*aes.Context, error) {
	id := fingerprint("aes", int(mode), iv, key)
	if v, ok := c.cacheInstance.Get(id); ok {
		return v.(*aes.Context), nil
	}

	ctx, err := aes.NewContext(iv, key, mode)
	if err != nil {
		return nil, err
	}
	c.cacheInstance.SetDefault(id, ctx)
	c.log.WithFields(logrus.Fields{
		"alg":  "aes",
		"mode": mode.String(),
		"bits": len(key) * 8,
	}).Debug("cached new key schedule")
	return ctx, nil
}

// Blowfish returns an initialized Blowfish context for key.
func (c *Cache) Blowfish(key []byte) (*blowfish.Context, error) {
	id := fingerprint("blowfish", 0, nil, key)
	if v, ok := c.cacheInstance.Get(id); ok {
		return v.(*blowfish.Context), nil
	}

	ctx, err := blowfish.NewContext(key)
	if err != nil {
		return nil, err
	}
	c.cacheInstance.SetDefault(id, ctx)
	c.log.WithFields(logrus.Fields{
		"alg":  "blowfish",
		"bits": len(key) * 8,
	}).Debug("cached new key schedule")
	return ctx, nil
}

// Len returns the number of cached contexts, including expired ones that
// have not been cleaned up yet.
func (c *Cache) Len() int {
	return c.cacheInstance.ItemCount()
}

// Flush drops every cached context.
func (c *Cache) Flush() {
	c.cacheInstance.Flush()
	c.log.Debug("flushed key cache")
}
