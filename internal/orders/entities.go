package orders

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matheusmosca/growth-storefront/internal/wallet"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidOrder            = errors.New("serviceId, link and a positive quantity are required")
	ErrInvalidQuantity         = errors.New("quantity is outside the service limits")
	ErrInvalidStatus           = errors.New("unknown order status")
	ErrInvalidTransition       = errors.New("order status transition not allowed")
	ErrInvalidIdempotencyKey   = errors.New("idempotency key is too long")
	errDuplicateOrderNumber    = errors.New("order number already taken")
	errDuplicateIdempotencyKey = errors.New("idempotency key already used")
)

// Status de pedido
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	maxLinkLength           = 2048
	maxIdempotencyKeyLength = 255
)

// transitions lista os destinos permitidos a partir de cada status.
// completed e failed são terminais.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

// Order representa um pedido de serviço
type Order struct {
	ID              string          `json:"id" db:"id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	UserID          string          `json:"user_id" db:"user_id"`
	ServiceID       string          `json:"service_id" db:"service_id"`
	ServiceName     string          `json:"service_name,omitempty" db:"service_name"`
	ServicePlatform string          `json:"-" db:"platform"`
	Link            string          `json:"link" db:"link"`
	Quantity        int             `json:"quantity" db:"quantity"`
	TotalCost       decimal.Decimal `json:"total_cost" db:"total_cost"`
	Status          string          `json:"status" db:"status"`
	IdempotencyKey  *string         `json:"-" db:"idempotency_key"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PlaceOrderRequest representa a requisição de compra
type PlaceOrderRequest struct {
	ServiceID string `json:"serviceId"`
	Link      string `json:"link"`
	Quantity  int    `json:"quantity"`

	// IdempotencyKey vem do header Idempotency-Key
	IdempotencyKey string `json:"-"`
}

// Validate normaliza e valida os campos obrigatórios
func (r *PlaceOrderRequest) Validate() error {
	r.ServiceID = strings.TrimSpace(r.ServiceID)
	r.Link = strings.TrimSpace(r.Link)
	r.IdempotencyKey = strings.TrimSpace(r.IdempotencyKey)

	if r.ServiceID == "" || r.Link == "" || r.Quantity <= 0 {
		return ErrInvalidOrder
	}
	if len(r.Link) > maxLinkLength {
		return ErrInvalidOrder
	}
	if len(r.IdempotencyKey) > maxIdempotencyKeyLength {
		return ErrInvalidIdempotencyKey
	}
	return nil
}

// UpdateStatusRequest representa a requisição de mudança de status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// PlaceOrderResult é o resultado de PlaceOrder. Replayed indica que o pedido
// já existia para a mesma chave de idempotência e nada foi debitado.
type PlaceOrderResult struct {
	Order    *Order
	Replayed bool
}

// IsKnownStatus informa se status é um status de pedido
func IsKnownStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransition informa se um pedido pode ir de from para to
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CalculateCost calcula price_per_1000 / 1000 × quantity em duas casas
func CalculateCost(pricePer1000 decimal.Decimal, quantity int) decimal.Decimal {
	return wallet.RoundMoney(pricePer1000.Mul(decimal.NewFromInt(int64(quantity))).Div(decimal.NewFromInt(1000)))
}

// NewOrderNumber gera DB-YYYYMMDD-NNNNNN (data UTC, seis dígitos aleatórios)
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("DB-%s-%06d", now.UTC().Format("20060102"), 100000+rand.Intn(900000))
}

// NewOrder cria um pedido pendente
func NewOrder(userID string, req PlaceOrderRequest, totalCost decimal.Decimal, now time.Time) *Order {
	order := &Order{
		ID:          uuid.New().String(),
		OrderNumber: NewOrderNumber(now),
		UserID:      userID,
		ServiceID:   req.ServiceID,
		Link:        req.Link,
		Quantity:    req.Quantity,
		TotalCost:   totalCost,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		order.IdempotencyKey = &key
	}
	return order
}
