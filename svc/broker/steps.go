package broker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/core"
	"github.com/EdmundsEcho/data-join-oauth/pkg/exchange"
	"github.com/EdmundsEcho/data-join-oauth/pkg/logger"
	"github.com/EdmundsEcho/data-join-oauth/pkg/session"
)

func (s *Service) exchangeCode(ctx context.Context, x exchange.CodeExchange) (*oauth2.Token, error) {
	start := time.Now()
	defer observeCall(callTokenExchange, start)
	return s.exchanger.ExchangeCode(ctx, x)
}

func (s *Service) fetch(ctx context.Context, req exchange.Request) ([]byte, error) {
	start := time.Now()
	defer observeCall(callResource, start)
	return s.exchanger.Fetch(ctx, req)
}

// finish consumes the flow session. A record that cannot be deleted expires
// with its TTL, so the flow continues.
func (s *Service) finish(ctx context.Context, w http.ResponseWriter, rec *session.Record) {
	if err := s.sessions.Finish(ctx, w, rec); err != nil {
		s.logger.WarnContext(ctx, "flow session not deleted",
			logger.Provider(rec.Provider),
			logger.Error(err),
		)
	}
}

// tag attaches provider context to a classified error that lacks it.
func tag(err error, provider string) error {
	var ce *core.Error
	if errors.As(err, &ce) && ce.Provider == "" {
		ce.Provider = provider
	}
	return err
}
