package analytics

import (
	"context"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func daysFromToday(n int) time.Time {
	return dateOf(fixedNow).AddDate(0, 0, n)
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrInt64(v int64) *int64 { return &v }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// fakeStore is an in-package read model over plain slices.
type fakeStore struct {
	settings  domain.CashSettings
	events    []domain.CashEvent
	sales     []domain.SalesTransaction
	orders    []domain.PurchaseOrder
	rows      []domain.InventoryRow
	pairScans int
}

func (f *fakeStore) GetCashSettings(ctx context.Context) (domain.CashSettings, error) {
	return f.settings, nil
}

func (f *fakeStore) ListCashEventsUntil(ctx context.Context, until time.Time) ([]domain.CashEvent, error) {
	var out []domain.CashEvent
	for _, ev := range f.events {
		if !dateOf(ev.Date).After(dateOf(until)) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCashEventsBetween(ctx context.Context, from, to time.Time, eventType domain.CashEventType) ([]domain.CashEvent, error) {
	var out []domain.CashEvent
	for _, ev := range f.events {
		if ev.Type == eventType && withinDates(dateOf(ev.Date), dateOf(from), dateOf(to)) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertCashEvent(ctx context.Context, event domain.CashEvent) (domain.CashEvent, error) {
	for i, ev := range f.events {
		if ev.Key() == event.Key() {
			event.ID = ev.ID
			f.events[i] = event
			return event, nil
		}
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeStore) ListSales(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.SalesTransaction, error) {
	var out []domain.SalesTransaction
	for _, s := range f.sales {
		if locationID != nil && s.LocationID != *locationID {
			continue
		}
		if withinDates(dateOf(s.Date), dateOf(from), dateOf(to)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) SumUnitsSold(ctx context.Context, productID, locationID int64, from, to time.Time) (int64, error) {
	var total int64
	for _, s := range f.sales {
		if s.ProductID == productID && s.LocationID == locationID && withinDates(dateOf(s.Date), dateOf(from), dateOf(to)) {
			total += int64(s.UnitsSold)
		}
	}
	return total, nil
}

func (f *fakeStore) UnitsSoldByPair(ctx context.Context, from, to time.Time) ([]domain.PairUnits, error) {
	f.pairScans++
	totals := make(map[domain.PairKey]int64)
	var order []domain.PairKey
	for _, s := range f.sales {
		if !withinDates(dateOf(s.Date), dateOf(from), dateOf(to)) {
			continue
		}
		key := domain.PairKey{ProductID: s.ProductID, LocationID: s.LocationID}
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += int64(s.UnitsSold)
	}

	out := make([]domain.PairUnits, 0, len(order))
	for _, key := range order {
		out = append(out, domain.PairUnits{ProductID: key.ProductID, LocationID: key.LocationID, UnitsSold: totals[key]})
	}
	return out, nil
}

func (f *fakeStore) ListPurchaseOrdersByStatus(ctx context.Context, statuses []domain.POStatus) ([]domain.PurchaseOrder, error) {
	var out []domain.PurchaseOrder
	for _, po := range f.orders {
		for _, s := range statuses {
			if po.Status == s {
				out = append(out, po)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListInventoryRows(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRow, error) {
	var out []domain.InventoryRow
	for _, r := range f.rows {
		if filter.LocationID != nil && r.LocationID != *filter.LocationID {
			continue
		}
		if filter.SupplierID != nil && r.SupplierID != *filter.SupplierID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// sellDaily records units sold per day for the last n days, today included.
func (f *fakeStore) sellDaily(productID, locationID int64, unitsPerDay, n int) {
	for i := 0; i < n; i++ {
		f.sales = append(f.sales, domain.SalesTransaction{
			Date:       daysFromToday(-i),
			ProductID:  productID,
			LocationID: locationID,
			UnitsSold:  unitsPerDay,
			Revenue:    decimal.Zero,
		})
	}
}

type memoryThresholdStore struct {
	snap domain.ThresholdSnapshot
	ok   bool
	sets int
}

func (m *memoryThresholdStore) GetThreshold(ctx context.Context) (domain.ThresholdSnapshot, bool, error) {
	return m.snap, m.ok, nil
}

func (m *memoryThresholdStore) SetThreshold(ctx context.Context, snapshot domain.ThresholdSnapshot) error {
	m.snap, m.ok = snapshot, true
	m.sets++
	return nil
}

func (m *memoryThresholdStore) InvalidateThreshold(ctx context.Context) error {
	m.ok = false
	return nil
}
