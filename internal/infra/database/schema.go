package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Cross-store references (leads.assigned_to, opportunities.lead_id,
// call_logs.lead_id/opportunity_id, line item product_id) carry no
// foreign keys on purpose: deleted referents must leave dangling ids,
// not block deletes or cascade across stores.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL UNIQUE,
		full_name   TEXT NOT NULL,
		role        TEXT NOT NULL DEFAULT 'sales_rep',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		email       TEXT,
		phone       TEXT,
		company     TEXT,
		source      TEXT,
		status      TEXT NOT NULL DEFAULT 'new',
		assigned_to TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS lead_notes (
		id          TEXT PRIMARY KEY,
		seq         BIGSERIAL,
		lead_id     TEXT NOT NULL,
		content     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lead_notes_lead_id ON lead_notes (lead_id)`,
	`CREATE TABLE IF NOT EXISTS opportunities (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		value_cents         BIGINT NOT NULL DEFAULT 0,
		lead_id             TEXT NOT NULL,
		stage               TEXT NOT NULL DEFAULT 'qualified',
		expected_close_date TIMESTAMPTZ,
		notes               TEXT,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS opportunity_line_items (
		opportunity_id    TEXT NOT NULL,
		position          INT NOT NULL,
		product_id        TEXT NOT NULL,
		product_name      TEXT NOT NULL,
		quantity          INT NOT NULL,
		unit_price_cents  BIGINT NOT NULL,
		total_price_cents BIGINT NOT NULL,
		PRIMARY KEY (opportunity_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS call_logs (
		id               TEXT PRIMARY KEY,
		call_type        TEXT NOT NULL,
		duration_minutes INT,
		notes            TEXT,
		lead_id          TEXT,
		opportunity_id   TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		price_cents BIGINT NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the schema on startup. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
