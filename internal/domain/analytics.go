package domain

import "time"

// Severity of a stockout risk
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// InventoryFlag selects enriched rows; several flags combine with OR.
type InventoryFlag string

const (
	FlagStockout  InventoryFlag = "stockout"
	FlagDeadStock InventoryFlag = "dead_stock"
	FlagLowMargin InventoryFlag = "low_margin"
)

// StockoutRisk reports whether cover falls below lead time plus safety stock
type StockoutRisk struct {
	HasRisk   bool     `json:"has_risk"`
	Severity  Severity `json:"severity,omitempty"`
	Threshold int      `json:"threshold,omitempty"`
}

// DeadStock reports aged, slow-moving, still-present inventory
type DeadStock struct {
	IsDeadStock bool     `json:"is_dead_stock"`
	Reason      string   `json:"reason,omitempty"`
	AgeDays     *int     `json:"age_days,omitempty"`
	Velocity    *float64 `json:"velocity,omitempty"`
}

// EnrichedInventory is an inventory record with replenishment analytics attached
type EnrichedInventory struct {
	ID                  int64        `json:"id"`
	ProductID           int64        `json:"product_id"`
	LocationID          int64        `json:"location_id"`
	SKU                 string       `json:"sku"`
	ProductName         string       `json:"product_name"`
	Category            string       `json:"category"`
	LocationName        string       `json:"location_name"`
	SupplierName        string       `json:"supplier_name"`
	SupplierID          int64        `json:"supplier_id"`
	OnHand              int          `json:"on_hand"`
	OnOrder             int          `json:"on_order"`
	UnitCost            float64      `json:"unit_cost"`
	UnitPrice           float64      `json:"unit_price"`
	Margin              float64      `json:"margin"`
	MarginPercent       float64      `json:"margin_percent"`
	Velocity            float64      `json:"velocity"`
	DaysOnHand          float64      `json:"days_on_hand"`
	LeadTimeDays        int          `json:"lead_time_days"`
	SafetyStockDays     int          `json:"safety_stock_days"`
	ReorderPoint        int          `json:"reorder_point"`
	SuggestedReorderQty int          `json:"suggested_reorder_qty"`
	StockoutRisk        StockoutRisk `json:"stockout_risk"`
	DeadStock           DeadStock    `json:"dead_stock"`
	InventoryAgeDays    int          `json:"inventory_age_days"`
}

// InventoryQuery is the input of the enrichment pipeline
type InventoryQuery struct {
	LocationID *int64
	SupplierID *int64
	Flags      []InventoryFlag
}

// ThresholdSnapshot is a computed high-velocity threshold and when it was computed
type ThresholdSnapshot struct {
	Value      float64   `json:"value"`
	PairCount  int       `json:"pair_count"`
	ComputedAt time.Time `json:"computed_at"`
}
