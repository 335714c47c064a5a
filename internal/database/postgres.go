package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	pingAttempts = 30

	// uniqueViolation é o SQLSTATE do Postgres para violação de UNIQUE
	uniqueViolation = "23505"
	// checkViolation é o SQLSTATE do Postgres para violação de CHECK
	checkViolation = "23514"
)

// Tx representa uma transação de banco de dados compartilhada entre repositórios
type Tx interface {
	Commit() error
	Rollback() error
}

// PostgresTx implementa a interface Tx sobre pgx
type PostgresTx struct {
	tx pgx.Tx
}

func (t *PostgresTx) Commit() error {
	return t.tx.Commit(context.Background())
}

func (t *PostgresTx) Rollback() error {
	err := t.tx.Rollback(context.Background())
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// BeginTx inicia uma nova transação no pool
func BeginTx(ctx context.Context, pool *pgxpool.Pool) (Tx, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &PostgresTx{tx: tx}, nil
}

// PgxTx extrai a transação pgx de um Tx criado por BeginTx
func PgxTx(tx Tx) (pgx.Tx, error) {
	pgTx, ok := tx.(*PostgresTx)
	if !ok || pgTx == nil {
		return nil, fmt.Errorf("unsupported transaction type %T", tx)
	}
	return pgTx.tx, nil
}

// IsUniqueViolation informa se err é uma violação de UNIQUE (opcionalmente de uma constraint específica)
func IsUniqueViolation(err error, constraint string) bool {
	return isPgError(err, uniqueViolation, constraint)
}

// IsCheckViolation informa se err é uma violação de CHECK (opcionalmente de uma constraint específica)
func IsCheckViolation(err error, constraint string) bool {
	return isPgError(err, checkViolation, constraint)
}

func isPgError(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Connect cria o pool de conexões e espera o banco ficar disponível
func Connect(ctx context.Context, dsn string, logger logrus.FieldLogger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure connection pool
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Wait for database to be ready
	for i := 0; i < pingAttempts; i++ {
		if err := pool.Ping(ctx); err == nil {
			logger.Info("✅ Connected to database with connection pool")
			return pool, nil
		}
		logger.Infof("⏳ Waiting for database... (%d/%d)", i+1, pingAttempts)

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts", pingAttempts)
}
