package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/matheusmosca/growth-storefront/internal/catalog"
	"github.com/matheusmosca/growth-storefront/internal/database"
	"github.com/matheusmosca/growth-storefront/internal/wallet"
)

// orderNumberAttempts limita as novas tentativas quando o número sorteado colide
const orderNumberAttempts = 3

// ServiceLookup busca serviços ativos do catálogo
type ServiceLookup interface {
	GetService(ctx context.Context, id string) (*catalog.Service, error)
}

// WalletLedger movimenta carteiras dentro de uma transação do chamador
type WalletLedger interface {
	Debit(ctx context.Context, tx database.Tx, m wallet.Movement) (*wallet.Wallet, *wallet.Transaction, error)
	Credit(ctx context.Context, tx database.Tx, m wallet.Movement) (*wallet.Wallet, *wallet.Transaction, error)
}

// GoalTracker credita progresso de metas dentro de uma transação do chamador
type GoalTracker interface {
	AddProgress(ctx context.Context, tx database.Tx, userID, platform string, amount int) error
}

// UseCase contém a lógica de negócio de pedidos
type UseCase struct {
	repository    Repository
	services      ServiceLookup
	wallets       WalletLedger
	goals         GoalTracker
	logger        logrus.FieldLogger
	now           func() time.Time
	placedTotal   metric.Int64Counter
	statusChanges metric.Int64Counter
}

// NewUseCase cria uma nova instância de UseCase
func NewUseCase(repository Repository, services ServiceLookup, wallets WalletLedger, goals GoalTracker, logger logrus.FieldLogger) *UseCase {
	meter := otel.Meter("storefront/orders")
	placed, _ := meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Orders placed and paid from the wallet"),
	)
	changes, _ := meter.Int64Counter(
		"order_status_changes_total",
		metric.WithDescription("Order status transitions applied by administrators"),
	)

	return &UseCase{
		repository:    repository,
		services:      services,
		wallets:       wallets,
		goals:         goals,
		logger:        logger.WithField("component", "orders"),
		now:           func() time.Time { return time.Now().UTC() },
		placedTotal:   placed,
		statusChanges: changes,
	}
}

// PlaceOrder valida a compra, debita a carteira, cria o pedido e registra o
// lançamento numa única transação. Com chave de idempotência já usada, devolve
// o pedido existente sem tocar na carteira.
func (uc *UseCase) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := uc.repository.FindByIdempotencyKey(ctx, userID, req.IdempotencyKey)
		if err == nil {
			return &PlaceOrderResult{Order: existing, Replayed: true}, nil
		}
		if !errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
	}

	service, err := uc.services.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.AcceptsQuantity(req.Quantity) {
		return nil, ErrInvalidQuantity
	}

	totalCost := CalculateCost(service.PricePer1000, req.Quantity)
	if !totalCost.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	var order *Order
	for attempt := 1; ; attempt++ {
		order = NewOrder(userID, req, totalCost, uc.now())
		err = uc.placeOrderTx(ctx, order)
		if !errors.Is(err, errDuplicateOrderNumber) || attempt == orderNumberAttempts {
			break
		}
		uc.logger.WithField("order_number", order.OrderNumber).Warn("↩️ Order number collision, retrying")
	}

	if errors.Is(err, errDuplicateIdempotencyKey) {
		// Requisição concorrente com a mesma chave venceu a corrida
		existing, findErr := uc.repository.FindByIdempotencyKey(ctx, userID, req.IdempotencyKey)
		if findErr != nil {
			return nil, findErr
		}
		return &PlaceOrderResult{Order: existing, Replayed: true}, nil
	}
	if err != nil {
		return nil, err
	}

	order.ServiceName = service.Name
	order.ServicePlatform = service.Platform

	uc.placedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("platform", service.Platform)))
	uc.logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total_cost":   totalCost.StringFixed(2),
	}).Info("✅ [ORDER] Order placed and paid")

	return &PlaceOrderResult{Order: order}, nil
}

func (uc *UseCase) placeOrderTx(ctx context.Context, order *Order) error {
	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	// O pedido entra primeiro: o lançamento do extrato referencia order_id
	if err := uc.repository.CreateOrder(ctx, tx, order); err != nil {
		return err
	}

	// Debit trava a carteira (FOR UPDATE) e confere o saldo sob o lock
	if _, _, err := uc.wallets.Debit(ctx, tx, wallet.Movement{
		UserID:      order.UserID,
		Amount:      order.TotalCost,
		Type:        wallet.TransactionTypeOrderPayment,
		OrderID:     order.ID,
		Description: "Order #" + order.OrderNumber,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao comitar pedido: %w", err)
	}
	return nil
}

// ListOrders lista os pedidos do usuário; administradores veem todos
func (uc *UseCase) ListOrders(ctx context.Context, userID string, all bool) ([]Order, error) {
	if all {
		return uc.repository.ListAll(ctx)
	}
	return uc.repository.ListByUser(ctx, userID)
}

// UpdateStatus aplica a transição de status e seus efeitos numa única transação:
// completed credita progresso nas metas da plataforma, failed estorna o valor pago.
func (uc *UseCase) UpdateStatus(ctx context.Context, orderID, status string) (*Order, error) {
	if !IsKnownStatus(status) {
		return nil, ErrInvalidStatus
	}

	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	order, err := uc.repository.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}
	if !CanTransition(order.Status, status) {
		uc.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"from":     order.Status,
			"to":       status,
		}).Warn("❌ Invalid order status transition")
		return nil, ErrInvalidTransition
	}

	previous := order.Status
	order.Status = status
	order.UpdatedAt = uc.now()

	if err := uc.repository.UpdateStatus(ctx, tx, order.ID, order.Status, order.UpdatedAt); err != nil {
		return nil, err
	}

	switch status {
	case StatusCompleted:
		if err := uc.goals.AddProgress(ctx, tx, order.UserID, order.ServicePlatform, order.Quantity); err != nil {
			return nil, fmt.Errorf("erro ao atualizar metas: %w", err)
		}
	case StatusFailed:
		if _, _, err := uc.wallets.Credit(ctx, tx, wallet.Movement{
			UserID:      order.UserID,
			Amount:      order.TotalCost,
			Type:        wallet.TransactionTypeRefund,
			OrderID:     order.ID,
			Description: "Refund for order #" + order.OrderNumber,
		}); err != nil {
			return nil, fmt.Errorf("erro ao estornar pedido: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("erro ao comitar status: %w", err)
	}

	uc.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	uc.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     previous,
		"to":       status,
	}).Info("✅ [ORDER] Status updated")

	return order, nil
}
