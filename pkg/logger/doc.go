// Package logger builds the service's *slog.Logger.
//
// New takes functional options for format, level, static attributes and
// context extractors. WithEnvironment applies the defaults for a runtime
// mode. Every record passes through a ReplaceAttr hook that redacts values
// stored under credential keys (client_secret, access_token, code, ...), so a
// careless log call cannot leak provider credentials.
//
// Attribute helpers keep key names consistent across packages:
//
//	log.WarnContext(ctx, "callback rejected",
//		logger.Flow("login"),
//		logger.Provider("google"),
//		logger.Error(err),
//	)
package logger
