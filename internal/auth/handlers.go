package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/growth-storefront/internal/identity"
)

// UseCaseInterface define o que os handlers precisam do use case
type UseCaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	Me(ctx context.Context, userID string) (*UserView, error)
}

// Handler contém os handlers HTTP de autenticação
type Handler struct {
	useCase UseCaseInterface
	tracer  trace.Tracer
}

// NewHandler cria uma nova instância de Handler
func NewHandler(useCase UseCaseInterface, tracer trace.Tracer) *Handler {
	return &Handler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// Register registra as rotas de /auth. authenticate protege apenas /me.
func (h *Handler) Register(rg *gin.RouterGroup, authenticate gin.HandlerFunc) {
	rg.POST("/register", h.SignUp)
	rg.POST("/login", h.Login)
	rg.GET("/me", authenticate, h.Me)
}

// SignUp cadastra um novo usuário
func (h *Handler) SignUp(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "auth.register")
	defer span.End()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	session, err := h.useCase.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		writeError(c, err, "Registration failed")
		return
	}

	span.SetAttributes(attribute.String("user_id", session.User.ID))
	c.JSON(http.StatusOK, session)
}

// Login autentica por email e senha
func (h *Handler) Login(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "auth.login")
	defer span.End()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	session, err := h.useCase.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		writeError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, session)
}

// Me devolve o perfil do usuário autenticado
func (h *Handler) Me(c *gin.Context) {
	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.useCase.Me(c.Request.Context(), principal.UserID)
	if err != nil {
		writeError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration data"})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is not active"})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
