package main

import (
	"github.com/EdmundsEcho/data-join-oauth/pkg/config"
	"github.com/EdmundsEcho/data-join-oauth/pkg/cookie"
	"github.com/EdmundsEcho/data-join-oauth/pkg/environment"
	"github.com/EdmundsEcho/data-join-oauth/pkg/httpserver"
	"github.com/EdmundsEcho/data-join-oauth/pkg/ratelimit"
	"github.com/EdmundsEcho/data-join-oauth/pkg/redis"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
)

// processConfig is read from the environment (and an optional .env file).
// Provider endpoints and credentials live in the settings files instead.
type processConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	SettingsDir string `env:"SETTINGS_DIR" envDefault:"config"`
	LogLevel    string `env:"LOG_LEVEL"`
	LogFormat   string `env:"LOG_FORMAT"`

	HTTP      httpserver.Config
	Redis     redis.Config
	Session   session.Config
	Cookie    cookie.Config
	RateLimit ratelimit.Config
}

type rootFlags struct {
	settingsDir string
	env         string
}

func loadConfig(flags *rootFlags) (processConfig, environment.Environment, error) {
	var cfg processConfig
	if err := config.Load(&cfg); err != nil {
		return cfg, "", err
	}
	if flags.settingsDir != "" {
		cfg.SettingsDir = flags.settingsDir
	}
	if flags.env != "" {
		cfg.Env = flags.env
	}
	env, err := environment.Parse(cfg.Env)
	if err != nil {
		return cfg, "", err
	}
	return cfg, env, nil
}
