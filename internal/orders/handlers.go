package orders

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/growth-storefront/internal/catalog"
	"github.com/matheusmosca/growth-storefront/internal/identity"
	"github.com/matheusmosca/growth-storefront/internal/wallet"
)

// UseCaseInterface define o que os handlers precisam do use case
type UseCaseInterface interface {
	PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResult, error)
	ListOrders(ctx context.Context, userID string, all bool) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*Order, error)
}

// Handler contém os handlers HTTP de pedidos
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

// Register registra as rotas de pedidos num grupo autenticado.
// adminOnly protege a mudança de status.
func (h *Handler) Register(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.POST("/orders", h.PlaceOrder)
	rg.GET("/orders", h.ListOrders)
	rg.PATCH("/orders/:id/status", adminOnly, h.UpdateStatus)
}

// PlaceOrder cria um pedido pago com o saldo da carteira
func (h *Handler) PlaceOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.PlaceOrder")
	defer span.End()

	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	span.SetAttributes(
		attribute.String("user_id", principal.UserID),
		attribute.String("service_id", req.ServiceID),
		attribute.Int("quantity", req.Quantity),
	)

	result, err := h.useCase.PlaceOrder(ctx, principal.UserID, req)
	if err != nil {
		span.RecordError(err)
		writeError(c, err, "Order failed")
		return
	}

	span.SetAttributes(
		attribute.String("order_id", result.Order.ID),
		attribute.Bool("replayed", result.Replayed),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderNumber": result.Order.OrderNumber,
		"orderId":     result.Order.ID,
	})
}

// ListOrders lista os pedidos do usuário (todos, para administradores)
func (h *Handler) ListOrders(c *gin.Context) {
	principal, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := h.useCase.ListOrders(c.Request.Context(), principal.UserID, principal.IsAdmin())
	if err != nil {
		writeError(c, err, "Failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateStatus muda o status de um pedido (somente administradores)
func (h *Handler) UpdateStatus(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "orders.UpdateStatus")
	defer span.End()

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	orderID := c.Param("id")
	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.String("status", req.Status),
	)

	order, err := h.useCase.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		span.RecordError(err)
		writeError(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": order.Status})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidIdempotencyKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, wallet.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
	case errors.Is(err, catalog.ErrServiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
	case errors.Is(err, wallet.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
