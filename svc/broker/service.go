// Package broker sequences the two authorization code flows the gateway
// runs: login against an identity provider and drive authorization against a
// storage provider. Each step either succeeds or aborts the whole flow; the
// caller restarts at kick-off.
package broker

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/exchange"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
	"github.com/EdmundsEcho/data-join-oauth/pkg/registrar"
	"github.com/EdmundsEcho/data-join-oauth/pkg/registry"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
	"github.com/EdmundsEcho/data-join-oauth/pkg/settings"
)

// Exchanger performs the server to server calls of a flow.
type Exchanger interface {
	ExchangeCode(ctx context.Context, x exchange.CodeExchange) (*oauth2.Token, error)
	Fetch(ctx context.Context, req exchange.Request) ([]byte, error)
}

// Registrar hands canonical models to the downstream account service.
type Registrar interface {
	RegisterUser(ctx context.Context, reg canonical.Registration) ([]*http.Cookie, error)
	RegisterDriveToken(ctx context.Context, tok canonical.DriveToken, account *http.Cookie) error
}

// RegistrarFactory builds a Registrar for the options of one settings
// generation.
type RegistrarFactory func(settings.Options) Registrar

// Sessions stores the per-attempt flow secrets behind a cookie.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, rec session.Record) error
	Retrieve(ctx context.Context, r *http.Request) (*session.Record, error)
	Finish(ctx context.Context, w http.ResponseWriter, rec *session.Record) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Redirect is the outcome of a flow step that sends the user agent elsewhere.
// Cookies are extra cookies to set alongside the session cookie.
type Redirect struct {
	URL     string
	Status  int
	Cookies []*http.Cookie
}

func found(url string, cookies ...*http.Cookie) *Redirect {
	return &Redirect{URL: url, Status: http.StatusFound, Cookies: cookies}
}

// Service runs the login and drive flows against the current registry
// generation.
type Service struct {
	registries   *registry.Handle
	sessions     Sessions
	exchanger    Exchanger
	newRegistrar RegistrarFactory
	httpClient   *http.Client
	logger       *slog.Logger
}

// New creates a Service. Unless overridden, the exchanger and the registrar
// share one http.Client.
func New(registries *registry.Handle, sessions Sessions, opts ...Option) (*Service, error) {
	if registries == nil {
		return nil, ErrNoRegistry
	}
	if sessions == nil {
		return nil, ErrNoSessions
	}

	s := &Service{
		registries: registries,
		sessions:   sessions,
		httpClient: &http.Client{},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.exchanger == nil {
		s.exchanger = exchange.New(
			exchange.WithHTTPClient(s.httpClient),
			exchange.WithLogger(s.logger),
		)
	}
	if s.newRegistrar == nil {
		s.newRegistrar = s.defaultRegistrar
	}
	return s, nil
}

func (s *Service) defaultRegistrar(o settings.Options) Registrar {
	return registrar.New(
		registrar.Endpoints{Register: o.RegisterEndpoint, DriveToken: o.DriveTokenEndpoint},
		registrar.WithHTTPClient(s.httpClient),
		registrar.WithUserAgent(o.UserAgent),
		registrar.WithTimeout(o.RegistrarTimeout),
		registrar.WithLogger(s.logger),
	)
}

// Logout destroys the caller's flow session, if any, and always redirects
// to "/".
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) *Redirect {
	if err := s.sessions.Destroy(ctx, w, r); err != nil {
		s.logger.WarnContext(ctx, "logout: session not destroyed", logger.Error(err))
	}
	return found("/")
}
