package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cotizador/go_backend/internal/domain/catalog"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS catalog_snapshots (
	key        text PRIMARY KEY,
	products   jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// Catalog persists the product list as one jsonb document under Key.
type Catalog struct {
	db  *DB
	Key string
}

var _ catalog.Persistence = (*Catalog)(nil)

func NewCatalog(ctx context.Context, db *DB, key string) (*Catalog, error) {
	if _, err := db.Pool.Exec(ctx, catalogSchema); err != nil {
		return nil, fmt.Errorf("create catalog_snapshots: %w", err)
	}
	return &Catalog{db: db, Key: key}, nil
}

func (c *Catalog) Load(ctx context.Context) ([]catalog.Product, error) {
	var raw []byte
	err := c.db.Pool.QueryRow(ctx, `SELECT products FROM catalog_snapshots WHERE key = $1`, c.Key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, catalog.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	var out []catalog.Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return out, nil
}

func (c *Catalog) Save(ctx context.Context, products []catalog.Product) error {
	if products == nil {
		products = []catalog.Product{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	_, err = c.db.Pool.Exec(ctx, `
		INSERT INTO catalog_snapshots (key, products, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET products = EXCLUDED.products, updated_at = now()`,
		c.Key, raw)
	if err != nil {
		return fmt.Errorf("upsert catalog: %w", err)
	}
	return nil
}
