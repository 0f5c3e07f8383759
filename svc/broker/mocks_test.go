package broker_test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/EdmundsEcho/data-join-oauth/pkg/canonical"
	"github.com/EdmundsEcho/data-join-oauth/pkg/exchange"
)

// MockExchanger is a mock implementation of broker.Exchanger.
type MockExchanger struct {
	mock.Mock
}

func (m *MockExchanger) ExchangeCode(ctx context.Context, x exchange.CodeExchange) (*oauth2.Token, error) {
	args := m.Called(ctx, x)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockExchanger) Fetch(ctx context.Context, req exchange.Request) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockRegistrar is a mock implementation of broker.Registrar.
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) RegisterUser(ctx context.Context, reg canonical.Registration) ([]*http.Cookie, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*http.Cookie), args.Error(1)
}

func (m *MockRegistrar) RegisterDriveToken(ctx context.Context, tok canonical.DriveToken, account *http.Cookie) error {
	args := m.Called(ctx, tok, account)
	return args.Error(0)
}
