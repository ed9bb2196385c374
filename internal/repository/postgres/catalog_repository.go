package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

const productColumns = `id, sku, name, category, supplier_id, unit_cost, unit_price, pack_size, created_at, updated_at`

func (r *catalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *catalogRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY id`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &products, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	return products, nil
}

func (r *catalogRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	query := `
		SELECT id, name, code, is_warehouse, city, state, created_at, updated_at
		FROM locations
		ORDER BY name
	`

	var locations []domain.Location
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &locations, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

const supplierColumns = `id, name, code, lead_time_days, payment_terms_days, has_delays, created_at, updated_at`

func (r *catalogRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name`

	var suppliers []domain.Supplier
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *catalogRepository) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`

	var supplier domain.Supplier
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &supplier, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("supplier %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &supplier, nil
}
