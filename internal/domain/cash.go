package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashEventType is the direction of a ledger entry
type CashEventType string

const (
	CashInflow  CashEventType = "inflow"
	CashOutflow CashEventType = "outflow"
)

// ReferencePurchaseOrder is the reference_type of ledger entries created for purchase orders.
const ReferencePurchaseOrder = "purchase_order"

// CashSettings is the singleton cash configuration. Configured is false when no
// settings row exists; the forecast then degrades instead of failing.
type CashSettings struct {
	StartingCash               decimal.Decimal `json:"starting_cash" db:"starting_cash"`
	RevenueCollectionDelayDays int             `json:"revenue_collection_delay_days" db:"revenue_collection_delay_days"`
	PaymentTermsDays           int             `json:"payment_terms_days" db:"payment_terms_days"`
	Configured                 bool            `json:"configured" db:"-"`
}

// UnconfiguredCashSettings is the explicit "no settings" value.
func UnconfiguredCashSettings() CashSettings {
	return CashSettings{StartingCash: decimal.Zero}
}

// CashEvent is a persisted ledger entry, unique per (reference_type, reference_id)
type CashEvent struct {
	ID            int64           `json:"id" db:"id"`
	Date          time.Time       `json:"date" db:"date"`
	Type          CashEventType   `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	ReferenceType string          `json:"reference_type" db:"reference_type"`
	ReferenceID   int64           `json:"reference_id" db:"reference_id"`
	Description   string          `json:"description" db:"description"`
}

// ReferenceKey identifies the business object a ledger entry belongs to
type ReferenceKey struct {
	Type string
	ID   int64
}

// Key returns the idempotency key of the event.
func (e CashEvent) Key() ReferenceKey {
	return ReferenceKey{Type: e.ReferenceType, ID: e.ReferenceID}
}
