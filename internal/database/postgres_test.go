package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func TestPgxTx_RejectsForeignTx(t *testing.T) {
	_, err := PgxTx(fakeTx{})

	assert.ErrorContains(t, err, "unsupported transaction type")
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("insert user: %w", pgErr)

	assert.True(t, IsUniqueViolation(wrapped, ""))
	assert.True(t, IsUniqueViolation(wrapped, "users_email_key"))
	assert.False(t, IsUniqueViolation(wrapped, "orders_order_number_key"))
	assert.False(t, IsUniqueViolation(fmt.Errorf("boom"), ""))
	assert.False(t, IsCheckViolation(wrapped, ""))
}

func TestIsCheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", ConstraintName: "wallets_balance_non_negative"}

	assert.True(t, IsCheckViolation(pgErr, "wallets_balance_non_negative"))
}

func TestConnect_InvalidDSN(t *testing.T) {
	_, err := Connect(context.Background(), "://not-a-dsn", nil)

	assert.ErrorContains(t, err, "failed to parse database config")
}
