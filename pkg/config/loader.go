package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var defaultEnvLoaded sync.Once

func loadDotenv() {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
}

// Load parses environment variables into the provided struct using env tags.
// The default .env file is read once per process before the first parse.
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL,required"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	loadDotenv()
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// ParseEnv applies environment overrides to v, reading only variables that
// start with prefix. Fields whose variables are unset keep their values.
func ParseEnv[T any](v *T, prefix string) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDotenv()
	if err := env.ParseWithOptions(v, env.Options{Prefix: prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

type layer struct {
	path     string
	optional bool
}

type layeredConfig struct {
	layers    []layer
	envPrefix string
	skipEnv   bool
}

// Option configures LoadLayered.
type Option func(*layeredConfig)

// WithFile adds a file layer that must exist.
func WithFile(path string) Option {
	return func(c *layeredConfig) {
		c.layers = append(c.layers, layer{path: path})
	}
}

// WithOptionalFile adds a file layer that is skipped when absent.
func WithOptionalFile(path string) Option {
	return func(c *layeredConfig) {
		c.layers = append(c.layers, layer{path: path, optional: true})
	}
}

// WithEnvPrefix restricts environment overrides to variables with the prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *layeredConfig) {
		c.envPrefix = prefix
	}
}

// WithoutEnv disables the environment override layer.
func WithoutEnv() Option {
	return func(c *layeredConfig) {
		c.skipEnv = true
	}
}

// LoadLayered decodes file layers in order into v, then applies environment
// overrides. Later layers overwrite the keys they set; map entries are
// replaced per key. The decoder is picked by extension: .toml, .yaml or .yml.
//
//	err := config.LoadLayered(&s,
//		config.WithFile("config/default.toml"),
//		config.WithOptionalFile("config/production.toml"),
//		config.WithEnvPrefix("AUTH_"),
//	)
func LoadLayered[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}
	cfg := &layeredConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	for _, l := range cfg.layers {
		if err := decodeFile(l.path, v); err != nil {
			if l.optional && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
	}

	if cfg.skipEnv {
		return nil
	}
	return ParseEnv(v, cfg.envPrefix)
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrReadingFile, path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), v); err != nil {
			return fmt.Errorf("%w %s: %w", ErrDecodingFile, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w %s: %w", ErrDecodingFile, path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// FindFile returns the first existing path among base+ext for the supported
// extensions, or "" when none exists.
func FindFile(base string) string {
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return ""
}
