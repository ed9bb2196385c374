package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListInventoryRows(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRow, error) {
	where, args := buildInventoryFilterClause(filter, 1)

	query := `
		SELECT
			i.id,
			i.product_id,
			i.location_id,
			i.on_hand,
			i.on_order,
			i.inventory_age_days,
			p.sku,
			p.name AS product_name,
			COALESCE(p.category, '') AS category,
			p.unit_cost,
			p.unit_price,
			l.name AS location_name,
			s.id AS supplier_id,
			s.name AS supplier_name,
			s.lead_time_days
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		JOIN locations l ON l.id = i.location_id
		JOIN suppliers s ON s.id = p.supplier_id` + where + `
		ORDER BY i.id`

	var rows []domain.InventoryRow
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory rows: %w", err)
	}
	return rows, nil
}

func (r *inventoryRepository) GetInventory(ctx context.Context, productID, locationID int64) (*domain.InventoryRecord, error) {
	query := `
		SELECT id, product_id, location_id, on_hand, on_order, inventory_age_days, updated_at
		FROM inventory
		WHERE product_id = $1 AND location_id = $2
	`

	var rec domain.InventoryRecord
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &rec, query, productID, locationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("inventory for product %d at location %d: %w", productID, locationID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return &rec, nil
}

// ApplyReceipt is a single relative UPDATE so concurrent receipts serialize on the row lock.
func (r *inventoryRepository) ApplyReceipt(ctx context.Context, productID, locationID int64, qty int) (bool, error) {
	query := `
		UPDATE inventory
		SET on_hand = on_hand + $3,
			on_order = GREATEST(0, on_order - $3),
			inventory_age_days = 0,
			updated_at = NOW()
		WHERE product_id = $1 AND location_id = $2
	`

	res, err := r.db.ext(ctx).ExecContext(ctx, query, productID, locationID, qty)
	if err != nil {
		return false, fmt.Errorf("failed to apply receipt: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read receipt result: %w", err)
	}
	return affected > 0, nil
}

func (r *inventoryRepository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(i.on_hand * p.unit_cost), 0)
		FROM inventory i
		JOIN products p ON p.id = i.product_id
	`

	var total decimal.Decimal
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &total, query); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum inventory value: %w", err)
	}
	return total, nil
}
