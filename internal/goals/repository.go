package goals

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/growth-storefront/internal/database"
)

// Repository define a interface para operações de banco de dados de metas
type Repository interface {
	List(ctx context.Context, userID string) ([]Goal, error)
	Create(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, userID, goalID string) error

	// ListActiveForUpdate trava as metas ativas do usuário na plataforma dentro de tx
	ListActiveForUpdate(ctx context.Context, tx database.Tx, userID, platform string) ([]Goal, error)
	UpdateProgress(ctx context.Context, tx database.Tx, goal *Goal) error
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

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, platform, target_value, current_value, status, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		var g Goal
		if err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Name,
			&g.Platform,
			&g.TargetValue,
			&g.CurrentValue,
			&g.Status,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, goal *Goal) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO goals (id, user_id, name, platform, target_value, current_value, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, goal.ID, goal.UserID, goal.Name, goal.Platform, goal.TargetValue, goal.CurrentValue,
		goal.Status, goal.CreatedAt, goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, goalID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *PostgresRepository) ListActiveForUpdate(ctx context.Context, tx database.Tx, userID, platform string) ([]Goal, error) {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return nil, err
	}

	rows, err := pgTx.Query(ctx, `
		SELECT id, user_id, name, platform, target_value, current_value, status, created_at, updated_at
		FROM goals
		WHERE user_id = $1 AND platform = $2 AND status = 'active'
		ORDER BY created_at
		FOR UPDATE
	`, userID, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to lock goals: %w", err)
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		var g Goal
		if err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Name,
			&g.Platform,
			&g.TargetValue,
			&g.CurrentValue,
			&g.Status,
			&g.CreatedAt,
			&g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *PostgresRepository) UpdateProgress(ctx context.Context, tx database.Tx, goal *Goal) error {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return err
	}

	_, err = pgTx.Exec(ctx, `
		UPDATE goals
		SET current_value = $1, status = $2, updated_at = $3
		WHERE id = $4
	`, goal.CurrentValue, goal.Status, goal.UpdatedAt, goal.ID)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	return nil
}
