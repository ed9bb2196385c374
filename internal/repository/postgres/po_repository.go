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

type purchaseOrderRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) *purchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

const purchaseOrderColumns = `id, po_number, supplier_id, location_id, status, total_cost,
	expected_delivery_date, ordered_at, received_at, created_at, updated_at`

func (r *purchaseOrderRepository) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders ORDER BY created_at DESC, id DESC`

	var orders []domain.PurchaseOrder
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &orders, query); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *purchaseOrderRepository) ListPurchaseOrdersByStatus(ctx context.Context, statuses []domain.POStatus) ([]domain.PurchaseOrder, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE status = ANY($1) ORDER BY id`

	var orders []domain.PurchaseOrder
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &orders, query, pq.Array(statusLabels(statuses))); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders by status: %w", err)
	}
	return orders, nil
}

func (r *purchaseOrderRepository) GetPurchaseOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1`

	var po domain.PurchaseOrder
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &po, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchase order %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	orders := []domain.PurchaseOrder{po}
	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *purchaseOrderRepository) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	return r.db.RunInTx(ctx, func(ctx context.Context) error {
		ext := r.db.ext(ctx)

		header := `
			INSERT INTO purchase_orders (
				po_number, supplier_id, location_id, status, total_cost,
				expected_delivery_date, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`
		err := ext.QueryRowxContext(ctx, header,
			po.PONumber,
			po.SupplierID,
			po.LocationID,
			string(po.Status),
			po.TotalCost,
			po.ExpectedDeliveryDate,
		).Scan(&po.ID, &po.CreatedAt, &po.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}

		line := `
			INSERT INTO purchase_order_lines (purchase_order_id, product_id, qty, unit_cost, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			RETURNING id
		`
		for i := range po.Lines {
			po.Lines[i].PurchaseOrderID = po.ID
			err := ext.QueryRowxContext(ctx, line,
				po.ID,
				po.Lines[i].ProductID,
				po.Lines[i].Qty,
				po.Lines[i].UnitCost,
			).Scan(&po.Lines[i].ID)
			if err != nil {
				return fmt.Errorf("failed to insert purchase order line: %w", err)
			}
		}

		return nil
	})
}

// UpdatePurchaseOrderStatus is a compare-and-set on the previous status.
func (r *purchaseOrderRepository) UpdatePurchaseOrderStatus(ctx context.Context, po *domain.PurchaseOrder, from domain.POStatus) error {
	query := `
		UPDATE purchase_orders
		SET status = $2,
			ordered_at = $3,
			received_at = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = $5
		RETURNING updated_at
	`

	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		po.ID,
		string(po.Status),
		po.OrderedAt,
		po.ReceivedAt,
		string(from),
	).Scan(&po.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("purchase order %d is no longer %s: %w", po.ID, from, domain.ErrInvalidTransition)
	}
	if err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}
	return nil
}

func (r *purchaseOrderRepository) attachLines(ctx context.Context, orders []domain.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Lines = []domain.PurchaseOrderLine{}
	}

	query := `
		SELECT id, purchase_order_id, product_id, qty, unit_cost
		FROM purchase_order_lines
		WHERE purchase_order_id = ANY($1)
		ORDER BY id
	`

	var lines []domain.PurchaseOrderLine
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &lines, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to list purchase order lines: %w", err)
	}

	for _, l := range lines {
		if i, ok := index[l.PurchaseOrderID]; ok {
			orders[i].Lines = append(orders[i].Lines, l)
		}
	}
	return nil
}
