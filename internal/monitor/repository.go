package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StalledOrder é um pedido pendente há mais tempo que o limite
type StalledOrder struct {
	ID          string
	OrderNumber string
	CreatedAt   time.Time
}

// SystemLog é uma linha de system_logs
type SystemLog struct {
	ID        string
	Level     string
	Component string
	Message   string
	CreatedAt time.Time
}

// NewSystemLog cria uma linha de log do monitor
func NewSystemLog(level, message string, now time.Time) SystemLog {
	return SystemLog{
		ID:        uuid.New().String(),
		Level:     level,
		Component: component,
		Message:   message,
		CreatedAt: now,
	}
}

// Repository define as consultas do monitor
type Repository interface {
	ListStalled(ctx context.Context, createdBefore time.Time) ([]StalledOrder, error)
	InsertSystemLog(ctx context.Context, entry SystemLog) error
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

func (r *PostgresRepository) ListStalled(ctx context.Context, createdBefore time.Time) ([]StalledOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_number, created_at
		FROM orders
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at
	`, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list stalled orders: %w", err)
	}
	defer rows.Close()

	var stalled []StalledOrder
	for rows.Next() {
		var o StalledOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stalled order: %w", err)
		}
		stalled = append(stalled, o)
	}
	return stalled, rows.Err()
}

func (r *PostgresRepository) InsertSystemLog(ctx context.Context, entry SystemLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO system_logs (id, level, component, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, entry.Level, entry.Component, entry.Message, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert system log: %w", err)
	}
	return nil
}
