// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location represents a store or warehouse
type Location struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	IsWarehouse bool      `json:"is_warehouse" db:"is_warehouse"`
	City        *string   `json:"city" db:"city"`
	State       *string   `json:"state" db:"state"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Supplier represents a vendor with its lead time and payment terms
type Supplier struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Code             string    `json:"code" db:"code"`
	LeadTimeDays     int       `json:"lead_time_days" db:"lead_time_days"`
	PaymentTermsDays int       `json:"payment_terms_days" db:"payment_terms_days"`
	HasDelays        bool      `json:"has_delays" db:"has_delays"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Product is catalog reference data
type Product struct {
	ID         int64           `json:"id" db:"id"`
	SKU        string          `json:"sku" db:"sku"`
	Name       string          `json:"name" db:"name"`
	Category   string          `json:"category" db:"category"`
	SupplierID int64           `json:"supplier_id" db:"supplier_id"`
	UnitCost   decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	UnitPrice  decimal.Decimal `json:"unit_price" db:"unit_price"`
	PackSize   int             `json:"pack_size" db:"pack_size"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// InventoryRecord is the stock position of one product at one location
type InventoryRecord struct {
	ID               int64     `json:"id" db:"id"`
	ProductID        int64     `json:"product_id" db:"product_id"`
	LocationID       int64     `json:"location_id" db:"location_id"`
	OnHand           int       `json:"on_hand" db:"on_hand"`
	OnOrder          int       `json:"on_order" db:"on_order"`
	InventoryAgeDays int       `json:"inventory_age_days" db:"inventory_age_days"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// InventoryRow is an inventory record joined with its product, supplier and location
type InventoryRow struct {
	ID               int64           `db:"id"`
	ProductID        int64           `db:"product_id"`
	LocationID       int64           `db:"location_id"`
	OnHand           int             `db:"on_hand"`
	OnOrder          int             `db:"on_order"`
	InventoryAgeDays int             `db:"inventory_age_days"`
	SKU              string          `db:"sku"`
	ProductName      string          `db:"product_name"`
	Category         string          `db:"category"`
	UnitCost         decimal.Decimal `db:"unit_cost"`
	UnitPrice        decimal.Decimal `db:"unit_price"`
	LocationName     string          `db:"location_name"`
	SupplierID       int64           `db:"supplier_id"`
	SupplierName     string          `db:"supplier_name"`
	LeadTimeDays     int             `db:"lead_time_days"`
}

// InventoryFilter narrows the joined inventory rows
type InventoryFilter struct {
	LocationID *int64
	SupplierID *int64
}

// SalesTransaction is an immutable sales fact
type SalesTransaction struct {
	ID         int64           `json:"id" db:"id"`
	Date       time.Time       `json:"date" db:"date"`
	ProductID  int64           `json:"product_id" db:"product_id"`
	LocationID int64           `json:"location_id" db:"location_id"`
	UnitsSold  int             `json:"units_sold" db:"units_sold"`
	Revenue    decimal.Decimal `json:"revenue" db:"revenue"`
}

// PairKey identifies a (product, location) pair
type PairKey struct {
	ProductID  int64
	LocationID int64
}

// PairUnits is the units sold by a (product, location) pair over a window
type PairUnits struct {
	ProductID  int64 `db:"product_id"`
	LocationID int64 `db:"location_id"`
	UnitsSold  int64 `db:"units_sold"`
}

// MonthlyRevenue is a revenue bucket for a calendar month
type MonthlyRevenue struct {
	Month   time.Time       `db:"month"`
	Revenue decimal.Decimal `db:"revenue"`
}
