package broker

import (
	"log/slog"
	"net/http"
)

// Option configures a Service.
type Option func(*Service)

// WithExchanger replaces the default exchange client.
func WithExchanger(x Exchanger) Option {
	return func(s *Service) {
		s.exchanger = x
	}
}

// WithRegistrarFactory replaces the default registrar client.
func WithRegistrarFactory(f RegistrarFactory) Option {
	return func(s *Service) {
		s.newRegistrar = f
	}
}

// WithHTTPClient sets the client used by the default exchanger and registrar.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
