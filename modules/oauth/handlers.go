package oauth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/handler"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
	"github.com/EdmundsEcho/data-join-oauth/svc/broker"
)

func redirect(r *broker.Redirect) handler.Response {
	return handler.Redirect(r.URL, r.Status, r.Cookies...)
}

func (m *Module) initiateLogin(ctx handler.Context, req kickoffRequest) handler.Response {
	to, err := m.flows.InitiateLogin(ctx, ctx.ResponseWriter(), req.Provider)
	if err != nil {
		return handler.Fail(err)
	}
	return redirect(to)
}

func (m *Module) completeLogin(ctx handler.Context, req callbackRequest) handler.Response {
	to, err := m.flows.CompleteLogin(ctx, ctx.ResponseWriter(), ctx.Request(), req.Provider, req.callback())
	if err != nil {
		return handler.Fail(err)
	}
	return redirect(to)
}

func (m *Module) initiateDrive(ctx handler.Context, req driveKickoffRequest) handler.Response {
	to, err := m.flows.InitiateDrive(ctx, ctx.ResponseWriter(), req.Provider, req.ProjectID)
	if err != nil {
		return handler.Fail(err)
	}
	return redirect(to)
}

func (m *Module) completeDrive(ctx handler.Context, req callbackRequest) handler.Response {
	to, err := m.flows.CompleteDrive(ctx, ctx.ResponseWriter(), ctx.Request(), req.Provider, req.callback())
	if err != nil {
		return handler.Fail(err)
	}
	return redirect(to)
}

func (m *Module) listFiles(ctx handler.Context, req filesRequest) handler.Response {
	listing, err := m.flows.ListFiles(ctx, req.Provider, req.ProjectID, req.AccessToken)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(listing)
}

func (m *Module) logout(ctx handler.Context, _ struct{}) handler.Response {
	return redirect(m.flows.Logout(ctx, ctx.ResponseWriter(), ctx.Request()))
}

func (m *Module) reloadSettings(ctx handler.Context, _ struct{}) handler.Response {
	if err := m.reload(ctx); err != nil {
		return handler.Fail(core.Wrap(core.KindConfig, err))
	}
	m.logger.InfoContext(ctx, "settings reloaded on request")
	return handler.Empty()
}

// accessLog records one line per request. Query strings are left out since
// callbacks carry authorization codes and listings carry access tokens.
func (m *Module) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.logger.LogAttrs(r.Context(), slog.LevelInfo, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Status(status),
			slog.Int("bytes", ww.BytesWritten()),
			logger.Duration(time.Since(start)),
		)
	})
}
