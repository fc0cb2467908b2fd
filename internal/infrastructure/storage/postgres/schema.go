package postgres

import (
	"context"
	"fmt"

	"stockbook/pkg/logger"
)

// schema is applied at startup. Statements are idempotent so repeated
// boots are safe; real migrations would replace this for schema
// changes that alter existing columns.
const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id          bigserial PRIMARY KEY,
	name        text NOT NULL,
	description text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS projects (
	id          bigserial PRIMARY KEY,
	name        text NOT NULL,
	description text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
	id          bigserial PRIMARY KEY,
	name        text NOT NULL,
	barcode     text NOT NULL DEFAULT '',
	category_id bigint REFERENCES categories(id),
	stock       numeric(15,4) NOT NULL DEFAULT 0,
	unit_cost   numeric(15,4) NOT NULL DEFAULT 0,
	stock_value numeric(15,4) NOT NULL DEFAULT 0,
	min_stock   numeric(15,4) NOT NULL DEFAULT 0,
	created_at  timestamptz NOT NULL DEFAULT now(),
	updated_at  timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id                bigserial PRIMARY KEY,
	product_id        bigint NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	kind              text NOT NULL CHECK (kind IN ('IN', 'OUT')),
	quantity          numeric(15,4) NOT NULL CHECK (quantity > 0),
	unit_price        numeric(15,4) NOT NULL DEFAULT 0,
	total_price       numeric(15,4) NOT NULL DEFAULT 0,
	stock_before      numeric(15,4) NOT NULL,
	stock_after       numeric(15,4) NOT NULL,
	unit_cost_after   numeric(15,4) NOT NULL,
	stock_value_after numeric(15,4) NOT NULL,
	requester         text NOT NULL DEFAULT '',
	purpose           text NOT NULL DEFAULT '',
	project_id        bigint REFERENCES projects(id),
	created_at        timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_product_created
	ON ledger_entries (product_id, created_at, id);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_created
	ON ledger_entries (created_at, id);

CREATE TABLE IF NOT EXISTS monthly_snapshots (
	id              bigserial PRIMARY KEY,
	year            integer NOT NULL,
	month           integer NOT NULL CHECK (month BETWEEN 1 AND 12),
	product_id      bigint NOT NULL,
	closing_stock   numeric(15,4) NOT NULL DEFAULT 0,
	closing_cost    numeric(15,4) NOT NULL DEFAULT 0,
	closing_value   numeric(15,4) NOT NULL DEFAULT 0,
	in_qty          numeric(15,4) NOT NULL DEFAULT 0,
	out_qty         numeric(15,4) NOT NULL DEFAULT 0,
	net_qty         numeric(15,4) NOT NULL DEFAULT 0,
	in_value        numeric(15,4) NOT NULL DEFAULT 0,
	out_value       numeric(15,4) NOT NULL DEFAULT 0,
	net_value       numeric(15,4) NOT NULL DEFAULT 0,
	movement_count  integer NOT NULL DEFAULT 0,
	product_name    text NOT NULL DEFAULT '',
	product_barcode text NOT NULL DEFAULT '',
	category_id     bigint,
	category_name   text,
	created_at      timestamptz NOT NULL DEFAULT now(),
	UNIQUE (year, month, product_id)
);

CREATE INDEX IF NOT EXISTS idx_monthly_snapshots_period
	ON monthly_snapshots (year, month);
`

// Bootstrap applies the schema.
func Bootstrap(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info(ctx, "database schema applied")
	return nil
}
