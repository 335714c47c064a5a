package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository define as consultas do catálogo (somente leitura)
type Repository interface {
	ListServices(ctx context.Context) ([]Service, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetService(ctx context.Context, id string) (*Service, error)
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

const selectServices = `
	SELECT s.id, COALESCE(s.category_id, ''), COALESCE(c.name, ''), s.name, s.slug,
	       COALESCE(s.description, ''), s.platform, s.min_quantity, s.max_quantity,
	       s.price_per_1000, s.is_active, s.is_featured, s.created_at, s.updated_at
	FROM services s
	LEFT JOIN service_categories c ON s.category_id = c.id
	WHERE s.is_active = TRUE`

func (r *PostgresRepository) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := r.db.Query(ctx, selectServices+` ORDER BY s.is_featured DESC, s.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := []Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

func (r *PostgresRepository) GetService(ctx context.Context, id string) (*Service, error) {
	return scanService(r.db.QueryRow(ctx, selectServices+` AND s.id = $1`, id))
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, COALESCE(icon, ''), COALESCE(description, ''), sort_order, is_active, created_at
		FROM service_categories
		WHERE is_active = TRUE
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Slug,
			&c.Icon,
			&c.Description,
			&c.SortOrder,
			&c.IsActive,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(
		&s.ID,
		&s.CategoryID,
		&s.CategoryName,
		&s.Name,
		&s.Slug,
		&s.Description,
		&s.Platform,
		&s.MinQuantity,
		&s.MaxQuantity,
		&s.PricePer1000,
		&s.IsActive,
		&s.IsFeatured,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to scan service: %w", err)
	}
	return &s, nil
}
