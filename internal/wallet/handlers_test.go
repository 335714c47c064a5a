package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matheusmosca/growth-storefront/internal/identity"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) GetWallet(ctx context.Context, userID string) (*Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockUseCase) ListTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockUseCase) Fund(ctx context.Context, userID string, amount decimal.Decimal) (*Wallet, *Transaction, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Wallet), args.Get(1).(*Transaction), args.Error(2)
}

func newTestRouter(uc UseCaseInterface, principal *identity.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) {
		if principal != nil {
			identity.Set(c, *principal)
		}
	})
	NewHandler(uc, noop.NewTracerProvider().Tracer("test")).Register(api)
	return r
}

func TestHandler_Fund(t *testing.T) {
	// Arrange
	uc := new(MockUseCase)
	w := walletWithBalance("1500.50")
	uc.On("Fund", mock.Anything, "user-1", mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(decimal.RequireFromString("1500.5"))
	})).Return(w, &Transaction{}, nil)

	r := newTestRouter(uc, &identity.Principal{UserID: "user-1", Role: identity.RoleUser})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/fund", strings.NewReader(`{"amount": 1500.5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// Act
	r.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success    bool            `json:"success"`
		NewBalance decimal.Decimal `json:"newBalance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.NewBalance.Equal(decimal.RequireFromString("1500.50")))
	uc.AssertExpectations(t)
}

func TestHandler_FundInvalidAmount(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("Fund", mock.Anything, "user-1", mock.Anything).Return(nil, nil, ErrInvalidAmount)

	r := newTestRouter(uc, &identity.Principal{UserID: "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/fund", strings.NewReader(`{"amount": -3}`))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Amount must be greater than zero"}`, rec.Body.String())
}

func TestHandler_FundMalformedBody(t *testing.T) {
	uc := new(MockUseCase)
	r := newTestRouter(uc, &identity.Principal{UserID: "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/fund", strings.NewReader(`{"amount": "abc"}`))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "Fund", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_GetWalletNotFound(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("GetWallet", mock.Anything, "user-1").Return(nil, ErrWalletNotFound)

	r := newTestRouter(uc, &identity.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ListTransactionsInternalError(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("ListTransactions", mock.Anything, "user-1").Return(nil, errors.New("connection reset"))

	r := newTestRouter(uc, &identity.Principal{UserID: "user-1"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load transactions"}`, rec.Body.String())
}

func TestHandler_RequiresPrincipal(t *testing.T) {
	r := newTestRouter(new(MockUseCase), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/wallet", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
