package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/shopspring/decimal"
)

type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	ListLocations(ctx context.Context) ([]domain.Location, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
}

type InventoryRepository interface {
	ListInventoryRows(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRow, error)
	GetInventory(ctx context.Context, productID, locationID int64) (*domain.InventoryRecord, error)
	// ApplyReceipt adds qty to on_hand, draws down on_order (floored at 0) and resets the
	// age of the record. It reports false when no record exists for the pair.
	ApplyReceipt(ctx context.Context, productID, locationID int64, qty int) (bool, error)
	// InventoryValue is the sum of on_hand * unit_cost across all records.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}

// SalesRepository reads sales facts. All date bounds are inclusive calendar dates.
type SalesRepository interface {
	SumUnitsSold(ctx context.Context, productID, locationID int64, from, to time.Time) (int64, error)
	UnitsSoldByPair(ctx context.Context, from, to time.Time) ([]domain.PairUnits, error)
	ListSales(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.SalesTransaction, error)
	RevenueByMonth(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.MonthlyRevenue, error)
}

type CashRepository interface {
	// GetCashSettings returns domain.UnconfiguredCashSettings when no settings row exists.
	GetCashSettings(ctx context.Context) (domain.CashSettings, error)
	ListCashEventsUntil(ctx context.Context, until time.Time) ([]domain.CashEvent, error)
	ListCashEventsBetween(ctx context.Context, from, to time.Time, eventType domain.CashEventType) ([]domain.CashEvent, error)
	// UpsertCashEvent inserts or refreshes the event keyed by (reference_type, reference_id).
	UpsertCashEvent(ctx context.Context, event domain.CashEvent) (domain.CashEvent, error)
}

// TxRunner runs fn in a single transaction. Repositories called with the ctx passed to fn
// join that transaction; any error returned by fn rolls every write back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles every repository over one backing database.
type Store interface {
	TxRunner
	CatalogRepository
	InventoryRepository
	SalesRepository
	CashRepository
	PurchaseOrderRepository
}
