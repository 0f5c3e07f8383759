package settings

import "errors"

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrMissingValue    = errors.New("missing value")
	ErrInvalidURL      = errors.New("invalid url")
	ErrNoSettingsFile  = errors.New("no default settings file")
)
