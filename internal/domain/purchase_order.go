package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is a replenishment order placed with a single supplier for a single location
type PurchaseOrder struct {
	ID                   int64               `json:"id" db:"id"`
	PONumber             string              `json:"po_number" db:"po_number"`
	SupplierID           int64               `json:"supplier_id" db:"supplier_id"`
	LocationID           int64               `json:"location_id" db:"location_id"`
	Status               POStatus            `json:"status" db:"status"`
	TotalCost            decimal.Decimal     `json:"total_cost" db:"total_cost"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date" db:"expected_delivery_date"`
	OrderedAt            *time.Time          `json:"ordered_at" db:"ordered_at"`
	ReceivedAt           *time.Time          `json:"received_at" db:"received_at"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at" db:"updated_at"`
	Lines                []PurchaseOrderLine `json:"lines" db:"-"`
}

// PurchaseOrderLine is one product line of a purchase order
type PurchaseOrderLine struct {
	ID              int64           `json:"id" db:"id"`
	PurchaseOrderID int64           `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	Qty             int             `json:"qty" db:"qty"`
	UnitCost        decimal.Decimal `json:"unit_cost" db:"unit_cost"`
}

// Clone returns a deep copy so callers can mutate without aliasing the lines slice.
func (po PurchaseOrder) Clone() PurchaseOrder {
	c := po
	if po.Lines != nil {
		c.Lines = append([]PurchaseOrderLine(nil), po.Lines...)
	}
	if po.OrderedAt != nil {
		t := *po.OrderedAt
		c.OrderedAt = &t
	}
	if po.ReceivedAt != nil {
		t := *po.ReceivedAt
		c.ReceivedAt = &t
	}
	if po.ExpectedDeliveryDate != nil {
		t := *po.ExpectedDeliveryDate
		c.ExpectedDeliveryDate = &t
	}
	return c
}
