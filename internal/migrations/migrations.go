// Package migrations cria o schema do Postgres e popula os dados iniciais.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// statements são idempotentes e aplicados em ordem
var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		status        TEXT NOT NULL DEFAULT 'active',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wallets (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		balance        NUMERIC(14,2) NOT NULL DEFAULT 0,
		locked_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		currency       TEXT NOT NULL DEFAULT 'NGN',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT wallets_balance_non_negative CHECK (balance >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS service_categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		slug        TEXT UNIQUE NOT NULL,
		icon        TEXT,
		description TEXT,
		sort_order  INTEGER NOT NULL DEFAULT 0,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id             TEXT PRIMARY KEY,
		category_id    TEXT REFERENCES service_categories(id) ON DELETE SET NULL,
		name           TEXT NOT NULL,
		slug           TEXT UNIQUE NOT NULL,
		description    TEXT,
		platform       TEXT NOT NULL,
		min_quantity   INTEGER NOT NULL,
		max_quantity   INTEGER NOT NULL,
		price_per_1000 NUMERIC(14,2) NOT NULL,
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		is_featured    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id              TEXT PRIMARY KEY,
		order_number    TEXT UNIQUE NOT NULL,
		user_id         TEXT NOT NULL REFERENCES users(id),
		service_id      TEXT NOT NULL REFERENCES services(id),
		link            TEXT NOT NULL,
		quantity        INTEGER NOT NULL,
		total_cost      NUMERIC(14,2) NOT NULL,
		status          TEXT NOT NULL DEFAULT 'pending',
		idempotency_key TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT orders_user_idempotency_key UNIQUE (user_id, idempotency_key)
	)`,
	`CREATE INDEX IF NOT EXISTS orders_status_created_at_idx ON orders (status, created_at)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users(id),
		wallet_id      TEXT NOT NULL REFERENCES wallets(id),
		order_id       TEXT REFERENCES orders(id),
		type           TEXT NOT NULL,
		amount         NUMERIC(14,2) NOT NULL,
		balance_before NUMERIC(14,2) NOT NULL,
		balance_after  NUMERIC(14,2) NOT NULL,
		description    TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS system_logs (
		id         TEXT PRIMARY KEY,
		level      TEXT NOT NULL,
		component  TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		platform      TEXT NOT NULL,
		target_value  INTEGER NOT NULL,
		current_value INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL DEFAULT 'active',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS goals_user_platform_status_idx ON goals (user_id, platform, status)`,
}

// Apply executa todas as migrations na ordem
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Count devolve o número de migrations conhecidas
func Count() int {
	return len(statements)
}
