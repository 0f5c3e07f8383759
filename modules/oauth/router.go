// Package oauth mounts the gateway's HTTP surface: the login and drive
// flows, the drive file listing, logout, probes and metrics.
package oauth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EdmundsEcho/data-join-oauth/binder"
	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/handler"
	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/clientip"
	"github.com/EdmundsEcho/data-join-oauth/pkg/httpserver"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
	"github.com/EdmundsEcho/data-join-oauth/pkg/ratelimit"
	"github.com/EdmundsEcho/data-join-oauth/pkg/requestid"
	"github.com/EdmundsEcho/data-join-oauth/svc/broker"
)

// Flows runs the login and drive flows. *broker.Service implements it.
type Flows interface {
	InitiateLogin(ctx context.Context, w http.ResponseWriter, provider string) (*broker.Redirect, error)
	CompleteLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, provider string, cb broker.Callback) (*broker.Redirect, error)
	InitiateDrive(ctx context.Context, w http.ResponseWriter, provider, project string) (*broker.Redirect, error)
	CompleteDrive(ctx context.Context, w http.ResponseWriter, r *http.Request, provider string, cb broker.Callback) (*broker.Redirect, error)
	ListFiles(ctx context.Context, provider, project, accessToken string) (*canonical.FileListing, error)
	Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) *broker.Redirect
}

// Module is the gateway's router.
type Module struct {
	flows     Flows
	logger    *slog.Logger
	reload    func(context.Context) error
	readiness []httpserver.Check
	limiter   ratelimit.Limiter
}

// New creates a Module serving flows.
func New(flows Flows, opts ...Option) *Module {
	m := &Module{
		flows:  flows,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handler builds the router.
func (m *Module) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware,
		m.accessLog,
		middleware.Recoverer,
	)

	errs := handler.NewErrorHandler(m.logger, handler.ErrorHandlerConfig{})
	loginErrs := handler.NewErrorHandler(m.logger, handler.ErrorHandlerConfig{RetryURL: loginRetryURL})
	path := binder.Path(chi.URLParam)
	query := binder.Query()

	r.Get("/livez", httpserver.Livez())
	r.Get("/readyz", httpserver.Readyz(m.logger, m.readiness...))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if m.limiter != nil {
			r.Use(ratelimit.Middleware(m.limiter, ratelimit.ByIP,
				ratelimit.WithOnLimitReached(m.rejectKickoff(errs)),
				ratelimit.WithOnError(func(r *http.Request, err error) {
					m.logger.WarnContext(r.Context(), "rate limiter failed open", logger.Error(err))
				}),
			))
		}
		r.Get("/auth/{provider}", handler.Wrap(m.initiateLogin,
			handler.WithBinders[kickoffRequest](path),
			handler.WithErrorHandler[kickoffRequest](errs),
		))
		r.Get("/drive/{provider}/{project_id}", handler.Wrap(m.initiateDrive,
			handler.WithBinders[driveKickoffRequest](path),
			handler.WithErrorHandler[driveKickoffRequest](errs),
		))
	})

	r.Get("/auth/authorized/{provider}", handler.Wrap(m.completeLogin,
		handler.WithBinders[callbackRequest](path, query),
		handler.WithErrorHandler[callbackRequest](loginErrs),
	))
	r.Get("/drive/authorized/{provider}", handler.Wrap(m.completeDrive,
		handler.WithBinders[callbackRequest](path, query),
		handler.WithErrorHandler[callbackRequest](errs),
	))
	r.Get("/drive/{provider}/{project_id}/filesystem", handler.Wrap(m.listFiles,
		handler.WithBinders[filesRequest](path, query),
		handler.WithErrorHandler[filesRequest](errs),
	))
	r.Get("/api/logout", handler.Wrap(m.logout))

	if m.reload != nil {
		r.Post("/reload", handler.Wrap(m.reloadSettings,
			handler.WithErrorHandler[struct{}](errs),
		))
	}

	notFound := handler.Wrap(func(handler.Context, struct{}) handler.Response {
		return handler.Fail(core.E(core.KindNotFound))
	})
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func loginRetryURL(r *http.Request) string {
	p := chi.URLParam(r, "provider")
	if p == "" {
		return ""
	}
	return "/auth/" + url.PathEscape(p)
}

// rejectKickoff renders a throttled kick-off as the rate_limited kind.
func (m *Module) rejectKickoff(errs handler.ErrorHandler) ratelimit.LimitHandler {
	return func(w http.ResponseWriter, r *http.Request, _ *ratelimit.Result) {
		errs(handler.NewContext(w, r), core.E(core.KindRateLimited))
	}
}
