package orders

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/matheusmosca/growth-storefront/internal/catalog"
	"github.com/matheusmosca/growth-storefront/internal/identity"
	"github.com/matheusmosca/growth-storefront/internal/wallet"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PlaceOrderResult), args.Error(1)
}

func (m *MockUseCase) ListOrders(ctx context.Context, userID string, all bool) ([]Order, error) {
	args := m.Called(ctx, userID, all)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockUseCase) UpdateStatus(ctx context.Context, orderID, status string) (*Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func newTestRouter(uc UseCaseInterface, principal identity.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", func(c *gin.Context) { identity.Set(c, principal) })
	adminOnly := func(c *gin.Context) {
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		}
	}
	NewHandler(uc, noop.NewTracerProvider().Tracer("test")).Register(api, adminOnly)
	return r
}

var (
	customer = identity.Principal{UserID: "u1", Role: identity.RoleUser}
	admin    = identity.Principal{UserID: "a1", Role: identity.RoleAdmin}
)

func TestHandler_PlaceOrder(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("PlaceOrder", mock.Anything, "u1", PlaceOrderRequest{
		ServiceID:      "svc-1",
		Link:           "https://instagram.com/ada",
		Quantity:       500,
		IdempotencyKey: "checkout-1",
	}).Return(&PlaceOrderResult{Order: &Order{ID: "o1", OrderNumber: "DB-20260501-123456"}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		strings.NewReader(`{"serviceId":"svc-1","link":"https://instagram.com/ada","quantity":500}`))
	req.Header.Set("Idempotency-Key", "checkout-1")
	rec := httptest.NewRecorder()
	newTestRouter(uc, customer).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"orderNumber":"DB-20260501-123456","orderId":"o1"}`, rec.Body.String())
}

func TestHandler_PlaceOrderErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantBody   string
	}{
		{wallet.ErrInsufficientBalance, http.StatusBadRequest, `{"error":"Insufficient balance"}`},
		{catalog.ErrServiceNotFound, http.StatusNotFound, `{"error":"Service not found"}`},
		{ErrInvalidQuantity, http.StatusBadRequest, `{"error":"quantity is outside the service limits"}`},
		{context.Canceled, http.StatusInternalServerError, `{"error":"Order failed"}`},
	}

	for _, tt := range tests {
		uc := new(MockUseCase)
		uc.On("PlaceOrder", mock.Anything, "u1", mock.Anything).Return(nil, tt.err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"serviceId":"svc-1","link":"l","quantity":1}`))
		rec := httptest.NewRecorder()
		newTestRouter(uc, customer).ServeHTTP(rec, req)

		assert.Equal(t, tt.wantStatus, rec.Code)
		assert.JSONEq(t, tt.wantBody, rec.Body.String())
	}
}

func TestHandler_ListOrdersScopesByRole(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("ListOrders", mock.Anything, "u1", false).Return([]Order{{ID: "o1"}}, nil)
	uc.On("ListOrders", mock.Anything, "a1", true).Return([]Order{{ID: "o1"}, {ID: "o2"}}, nil)

	rec := httptest.NewRecorder()
	newTestRouter(uc, customer).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orders":[`)

	rec = httptest.NewRecorder()
	newTestRouter(uc, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"o2"`)

	uc.AssertExpectations(t)
}

func TestHandler_UpdateStatus(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("UpdateStatus", mock.Anything, "o1", StatusCompleted).Return(&Order{ID: "o1", Status: StatusCompleted}, nil)
	uc.On("UpdateStatus", mock.Anything, "o2", StatusPending).Return(nil, ErrInvalidTransition)
	uc.On("UpdateStatus", mock.Anything, "o3", StatusCompleted).Return(nil, ErrOrderNotFound)

	patch := func(p identity.Principal, id, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+id+"/status", strings.NewReader(body))
		newTestRouter(uc, p).ServeHTTP(rec, req)
		return rec
	}

	rec := patch(admin, "o1", `{"status":"completed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"status":"completed"}`, rec.Body.String())

	assert.Equal(t, http.StatusConflict, patch(admin, "o2", `{"status":"pending"}`).Code)
	assert.Equal(t, http.StatusNotFound, patch(admin, "o3", `{"status":"completed"}`).Code)

	assert.Equal(t, http.StatusForbidden, patch(customer, "o1", `{"status":"completed"}`).Code)
	uc.AssertNumberOfCalls(t, "UpdateStatus", 3)
}
