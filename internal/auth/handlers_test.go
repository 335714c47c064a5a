package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockUseCase) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockUseCase) Me(ctx context.Context, userID string) (*UserView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserView), args.Error(1)
}

func newHandlerRouter(uc UseCaseInterface, tokens *TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(uc, noop.NewTracerProvider().Tracer("test")).Register(r.Group("/api/v1/auth"), Authenticate(tokens))
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_SignUp(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("Register", mock.Anything, RegisterRequest{Email: "ada@example.com", Password: "password123", FullName: "Ada"}).
		Return(&Session{Token: "tok", User: UserView{ID: "u1", Email: "ada@example.com", FullName: "Ada", Role: "user"}}, nil)

	rec := postJSON(newHandlerRouter(uc, nil), "/api/v1/auth/register",
		`{"email":"ada@example.com","password":"password123","fullName":"Ada"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"tok","user":{"id":"u1","email":"ada@example.com","fullName":"Ada","role":"user"}}`, rec.Body.String())
}

func TestHandler_SignUpValidation(t *testing.T) {
	uc := new(MockUseCase)
	r := newHandlerRouter(uc, nil)

	for _, body := range []string{
		`{"email":"not-an-email","password":"password123","fullName":"Ada"}`,
		`{"email":"ada@example.com","password":"short","fullName":"Ada"}`,
		`{"email":"ada@example.com","password":"password123"}`,
		`not json`,
	} {
		rec := postJSON(r, "/api/v1/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestHandler_SignUpEmailTaken(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("Register", mock.Anything, mock.Anything).Return(nil, ErrEmailTaken)

	rec := postJSON(newHandlerRouter(uc, nil), "/api/v1/auth/register",
		`{"email":"ada@example.com","password":"password123","fullName":"Ada"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, rec.Body.String())
}

func TestHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantBody   string
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{ErrAccountDisabled, http.StatusForbidden, `{"error":"Account is not active"}`},
		{context.DeadlineExceeded, http.StatusInternalServerError, `{"error":"Server error"}`},
	}

	for _, tt := range tests {
		uc := new(MockUseCase)
		uc.On("Login", mock.Anything, mock.Anything).Return(nil, tt.err)

		rec := postJSON(newHandlerRouter(uc, nil), "/api/v1/auth/login", `{"email":"a@b.c","password":"whatever1"}`)

		assert.Equal(t, tt.wantStatus, rec.Code)
		assert.JSONEq(t, tt.wantBody, rec.Body.String())
	}
}

func TestHandler_Me(t *testing.T) {
	tokens := NewTokenIssuer(testSecret, time.Hour)
	token, err := tokens.Issue("u1", "user")
	require.NoError(t, err)

	uc := new(MockUseCase)
	uc.On("Me", mock.Anything, "u1").Return(&UserView{ID: "u1", Email: "ada@example.com", FullName: "Ada", Role: "user"}, nil)
	r := newHandlerRouter(uc, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"ada@example.com"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
