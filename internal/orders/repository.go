package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/growth-storefront/internal/database"
)

// Repository define a interface para operações de banco de dados de pedidos
type Repository interface {
	BeginTx(ctx context.Context) (database.Tx, error)

	// CreateOrder insere o pedido dentro de tx
	CreateOrder(ctx context.Context, tx database.Tx, order *Order) error

	// FindByIdempotencyKey busca o pedido do usuário com a chave informada
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error)

	// GetOrderForUpdate obtém o pedido com lock pessimista (FOR UPDATE)
	GetOrderForUpdate(ctx context.Context, tx database.Tx, orderID string) (*Order, error)

	UpdateStatus(ctx context.Context, tx database.Tx, orderID, status string, updatedAt time.Time) error

	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

// PostgresRepository implementa Repository usando PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewRepository cria uma nova instância de PostgresRepository
func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectOrders = `
	SELECT o.id, o.order_number, o.user_id, o.service_id, s.name, s.platform, o.link,
	       o.quantity, o.total_cost, o.status, o.idempotency_key, o.created_at, o.updated_at
	FROM orders o
	JOIN services s ON o.service_id = s.id`

func (r *PostgresRepository) BeginTx(ctx context.Context) (database.Tx, error) {
	return database.BeginTx(ctx, r.db)
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, tx database.Tx, order *Order) error {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return err
	}

	_, err = pgTx.Exec(ctx, `
		INSERT INTO orders (id, order_number, user_id, service_id, link, quantity, total_cost, status, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, order.ID, order.OrderNumber, order.UserID, order.ServiceID, order.Link, order.Quantity,
		order.TotalCost, order.Status, order.IdempotencyKey, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, "orders_user_idempotency_key"):
			return errDuplicateIdempotencyKey
		case database.IsUniqueViolation(err, "orders_order_number_key"):
			return errDuplicateOrderNumber
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error) {
	row := r.db.QueryRow(ctx, selectOrders+`
		WHERE o.user_id = $1 AND o.idempotency_key = $2
	`, userID, key)
	return scanOrder(row)
}

func (r *PostgresRepository) GetOrderForUpdate(ctx context.Context, tx database.Tx, orderID string) (*Order, error) {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgTx.QueryRow(ctx, selectOrders+`
		WHERE o.id = $1
		FOR UPDATE OF o
	`, orderID)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order with lock: %w", err)
	}
	return order, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, tx database.Tx, orderID, status string, updatedAt time.Time) error {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return err
	}

	tag, err := pgTx.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    updated_at = $2
		WHERE id = $3
	`, status, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, selectOrders+` WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, selectOrders+` ORDER BY o.created_at DESC`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.ServiceID,
		&o.ServiceName,
		&o.ServicePlatform,
		&o.Link,
		&o.Quantity,
		&o.TotalCost,
		&o.Status,
		&o.IdempotencyKey,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}
