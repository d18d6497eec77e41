// Package config loads symcrypt settings with viper and builds the logger the
// outer layers share.
//
// Settings come from an optional YAML file and from SYMCRYPT_* environment
// variables; nested keys use underscores, so cache.ttl is SYMCRYPT_CACHE_TTL.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/TheusHen/symcrypt/symcrypt/envelope"
	"github.com/TheusHen/symcrypt/symcrypt/keycache"
)

const envVarPrefix = "SYMCRYPT"

// neverExpire is go-cache's NoExpiration.
const neverExpire = time.Duration(-1)

// Config contains every option available to the symcrypt tools.
type Config struct {
	Logging struct {
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
	} `mapstructure:"logging"`

	Cache struct {
		// How long an initialized context stays cached, e.g. 10m. -1 never expires.
		TTL time.Duration `mapstructure:"ttl"`
		// How often expired contexts are removed.
		CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	} `mapstructure:"cache"`

	Selftest struct {
		// Vector suite to run instead of the built-in one.
		VectorsFile string `mapstructure:"vectors_file"`
		// Stop at the first failing vector.
		FailFast bool `mapstructure:"fail_fast"`
	} `mapstructure:"selftest"`

	Envelope struct {
		// Compression applied before encryption. Options: none, fast, default, best
		Compression string `mapstructure:"compression"`
	} `mapstructure:"envelope"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.log_level", "info")
	v.SetDefault("logging.log_file_path", "")
	v.SetDefault("cache.ttl", keycache.DefaultTTL)
	v.SetDefault("cache.cleanup_interval", keycache.DefaultCleanupInterval)
	v.SetDefault("selftest.vectors_file", "")
	v.SetDefault("selftest.fail_fast", false)
	v.SetDefault("envelope.compression", "none")
}

// Load reads the config file at path. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, cache.ttl can be set using: SYMCRYPT_CACHE_TTL
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("config: binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	// A bare -1 has no unit and would fail duration parsing.
	if strings.TrimSpace(v.GetString("cache.ttl")) == "-1" {
		v.Set("cache.ttl", neverExpire)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	if _, err := config.CompressionLevel(); err != nil {
		return nil, err
	}
	if _, err := logrus.ParseLevel(config.Logging.LogLevel); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return config, nil
}

// CompressionLevel returns the configured envelope compression.
func (c *Config) CompressionLevel() (envelope.CompressionLevel, error) {
	return envelope.ParseCompressionLevel(c.Envelope.Compression)
}

// NewKeyCache returns a key cache sized by the cache section.
func (c *Config) NewKeyCache(log logrus.FieldLogger) *keycache.Cache {
	return keycache.New(c.Cache.TTL, c.Cache.CleanupInterval, log)
}

// NewLogger builds a logger from the logging section. The caller closes the
// returned io.Closer, which is a no-op when logging to stdout.
func (c *Config) NewLogger() (*logrus.Logger, io.Closer, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if c.Logging.LogFilePath != "" {
		f, err := os.OpenFile(c.Logging.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("config: opening log file: %w", err)
		}
		w, closer = f, f
	}

	logLvl, err := logrus.ParseLevel(c.Logging.LogLevel)
	if err != nil {
		_ = closer.Close()
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	return &logrus.Logger{
		Out: w,
		Formatter: &logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			DisableSorting:  true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logLvl,
	}, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
