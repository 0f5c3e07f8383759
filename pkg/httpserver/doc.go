// Package httpserver runs the service's http.Handler with graceful shutdown
// and provides the liveness and readiness probes.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithStartHook(func(l *slog.Logger, addr string) {
//			l.Info("listening", slog.String("addr", addr))
//		}),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns when ctx is cancelled or the process receives SIGINT or
// SIGTERM, after in-flight requests drain.
package httpserver
