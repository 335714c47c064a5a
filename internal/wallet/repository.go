package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/growth-storefront/internal/database"
)

// Repository define a interface para operações de banco de dados de carteiras
type Repository interface {
	BeginTx(ctx context.Context) (database.Tx, error)

	// CreateWallet insere uma carteira nova dentro de tx
	CreateWallet(ctx context.Context, tx database.Tx, wallet *Wallet) error

	// GetWalletByUserID busca a carteira sem lock
	GetWalletByUserID(ctx context.Context, userID string) (*Wallet, error)

	// GetWalletForUpdate obtém a carteira com lock pessimista (FOR UPDATE)
	GetWalletForUpdate(ctx context.Context, tx database.Tx, userID string) (*Wallet, error)

	// SaveMovement grava o novo saldo e o lançamento do extrato na mesma transação
	SaveMovement(ctx context.Context, tx database.Tx, wallet *Wallet, entry *Transaction) error

	// ListTransactions lista o extrato do usuário, mais recentes primeiro
	ListTransactions(ctx context.Context, userID string) ([]Transaction, error)
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

// BeginTx inicia uma nova transação
func (r *PostgresRepository) BeginTx(ctx context.Context) (database.Tx, error) {
	return database.BeginTx(ctx, r.db)
}

func (r *PostgresRepository) CreateWallet(ctx context.Context, tx database.Tx, wallet *Wallet) error {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return err
	}

	_, err = pgTx.Exec(ctx, `
		INSERT INTO wallets (id, user_id, balance, locked_balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, wallet.ID, wallet.UserID, wallet.Balance, wallet.LockedBalance, wallet.Currency, wallet.CreatedAt, wallet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetWalletByUserID(ctx context.Context, userID string) (*Wallet, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, balance, locked_balance, currency, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
	`, userID)

	return scanWallet(row)
}

func (r *PostgresRepository) GetWalletForUpdate(ctx context.Context, tx database.Tx, userID string) (*Wallet, error) {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return nil, err
	}

	row := pgTx.QueryRow(ctx, `
		SELECT id, user_id, balance, locked_balance, currency, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		FOR UPDATE
	`, userID)

	wallet, err := scanWallet(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet with lock: %w", err)
	}
	return wallet, nil
}

func (r *PostgresRepository) SaveMovement(ctx context.Context, tx database.Tx, wallet *Wallet, entry *Transaction) error {
	pgTx, err := database.PgxTx(tx)
	if err != nil {
		return err
	}

	// 1. Atualiza o saldo (o lock FOR UPDATE já está com a transação)
	tag, err := pgTx.Exec(ctx, `
		UPDATE wallets
		SET balance = $1,
		    updated_at = $2
		WHERE id = $3
	`, wallet.Balance, wallet.UpdatedAt, wallet.ID)
	if err != nil {
		if database.IsCheckViolation(err, "wallets_balance_non_negative") {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("failed to update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWalletNotFound
	}

	// 2. Registra o lançamento no extrato
	_, err = pgTx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, wallet_id, order_id, type, amount, balance_before, balance_after, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, entry.ID, entry.UserID, entry.WalletID, entry.OrderID, entry.Type, entry.Amount,
		entry.BalanceBefore, entry.BalanceAfter, entry.Description, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction record: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, wallet_id, order_id, type, amount, balance_before, balance_after,
		       COALESCE(description, ''), created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.WalletID,
			&t.OrderID,
			&t.Type,
			&t.Amount,
			&t.BalanceBefore,
			&t.BalanceAfter,
			&t.Description,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func scanWallet(row pgx.Row) (*Wallet, error) {
	var wallet Wallet
	err := row.Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.LockedBalance,
		&wallet.Currency,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}
