// Package config loads configuration structs from environment variables and
// layered TOML or YAML files.
//
// Load wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is read once, then env tags populate the struct. It is
// used for process level settings such as the listen address or the Redis URL.
//
// LoadLayered decodes a sequence of files into the same struct, each layer
// overwriting the keys it sets, and finishes with an environment override
// pass. Files are decoded with github.com/BurntSushi/toml or gopkg.in/yaml.v3
// depending on the extension. A typical stack is a default file, an optional
// file named after the runtime environment and a prefixed set of environment
// variables:
//
//	var s Settings
//	err := config.LoadLayered(&s,
//		config.WithFile(filepath.Join(dir, "default.toml")),
//		config.WithOptionalFile(filepath.Join(dir, "production.toml")),
//		config.WithEnvPrefix("AUTH_"),
//	)
//
// Unlike Load, LoadLayered never caches: every call re-reads every layer so
// it can back a hot reload.
package config
