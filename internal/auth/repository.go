package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/growth-storefront/internal/database"
)

// Repository define a interface para operações de banco de dados de usuários
type Repository interface {
	BeginTx(ctx context.Context) (database.Tx, error)
	CreateUser(ctx context.Context, tx database.Tx, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
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

func (r *PostgresRepository) BeginTx(ctx context.Context) (database.Tx, error) {
	return database.BeginTx(ctx, r.db)
}

func (r *PostgresRepository) CreateUser(ctx context.Context, tx database.Tx, user *User) error {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return err
	}

	_, err = pgTx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Email, user.PasswordHash, user.FullName, user.Role, user.Status, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// Dois cadastros simultâneos com o mesmo email: a constraint decide
		if database.IsUniqueViolation(err, "") {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, "email", email)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, "id", id)
}

func (r *PostgresRepository) getUser(ctx context.Context, column, value string) (*User, error) {
	var user User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, full_name, role, status, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
