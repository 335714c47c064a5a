package wallet

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/growth-storefront/internal/identity"
)

// UseCaseInterface define o que os handlers precisam do use case
type UseCaseInterface interface {
	GetWallet(ctx context.Context, userID string) (*Wallet, error)
	ListTransactions(ctx context.Context, userID string) ([]Transaction, error)
	Fund(ctx context.Context, userID string, amount decimal.Decimal) (*Wallet, *Transaction, error)
}

// FundRequest representa a requisição de depósito
type FundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Handler contém os handlers HTTP da carteira
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

// Register registra as rotas da carteira num grupo já autenticado
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/wallet", h.GetWallet)
	rg.POST("/wallet/fund", h.Fund)
	rg.GET("/transactions", h.ListTransactions)
}

// GetWallet devolve a carteira do usuário autenticado
func (h *Handler) GetWallet(c *gin.Context) {
	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wallet, err := h.useCase.GetWallet(c.Request.Context(), principal.UserID)
	if err != nil {
		writeError(c, err, "Failed to load wallet")
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// Fund credita a carteira do usuário autenticado
func (h *Handler) Fund(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "wallet.fund")
	defer span.End()

	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	span.SetAttributes(
		attribute.String("user_id", principal.UserID),
		attribute.String("amount", req.Amount.String()),
	)

	wallet, _, err := h.useCase.Fund(ctx, principal.UserID, req.Amount)
	if err != nil {
		span.RecordError(err)
		writeError(c, err, "Funding failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"newBalance": wallet.Balance,
	})
}

// ListTransactions devolve o extrato do usuário autenticado
func (h *Handler) ListTransactions(c *gin.Context) {
	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	transactions, err := h.useCase.ListTransactions(c.Request.Context(), principal.UserID)
	if err != nil {
		writeError(c, err, "Failed to load transactions")
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
	case errors.Is(err, ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
	case errors.Is(err, ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than zero"})
	case errors.Is(err, ErrAmountTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount exceeds the maximum deposit"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
