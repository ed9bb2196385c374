package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) (*Store, domain.Product, domain.Location) {
	t.Helper()

	s := NewStore()
	sup := s.AddSupplier(domain.Supplier{Name: "Global Supply Co", LeadTimeDays: 60, PaymentTermsDays: 30})
	loc := s.AddLocation(domain.Location{Name: "Downtown", Code: "DT"})
	p := s.AddProduct(domain.Product{SKU: "SKU-1", Name: "Widget", SupplierID: sup.ID, UnitCost: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(20)})
	s.AddInventory(domain.InventoryRecord{ProductID: p.ID, LocationID: loc.ID, OnHand: 5, OnOrder: 3, InventoryAgeDays: 90})
	return s, p, loc
}

func TestApplyReceipt(t *testing.T) {
	s, p, loc := seeded(t)
	ctx := context.Background()

	ok, err := s.ApplyReceipt(ctx, p.ID, loc.ID, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := s.GetInventory(ctx, p.ID, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, rec.OnHand)
	assert.Equal(t, 0, rec.OnOrder)
	assert.Equal(t, 0, rec.InventoryAgeDays)

	ok, err = s.ApplyReceipt(ctx, p.ID, 999, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertCashEventIsKeyedByReference(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	date := time.Date(2024, 7, 15, 13, 0, 0, 0, time.UTC)

	first, err := s.UpsertCashEvent(ctx, domain.CashEvent{Date: date, Type: domain.CashOutflow, Amount: decimal.NewFromInt(10), ReferenceType: domain.ReferencePurchaseOrder, ReferenceID: 1})
	require.NoError(t, err)
	second, err := s.UpsertCashEvent(ctx, domain.CashEvent{Date: date, Type: domain.CashOutflow, Amount: decimal.NewFromInt(25), ReferenceType: domain.ReferencePurchaseOrder, ReferenceID: 1})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	events, err := s.ListCashEventsBetween(ctx, date, date, domain.CashOutflow)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Amount.Equal(decimal.NewFromInt(25)))
}

func TestRunInTxRestoresStateOnError(t *testing.T) {
	s, p, loc := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.ApplyReceipt(ctx, p.ID, loc.ID, 10); err != nil {
			return err
		}
		if _, err := s.UpsertCashEvent(ctx, domain.CashEvent{Date: time.Now(), Type: domain.CashOutflow, ReferenceType: "x", ReferenceID: 1}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rec, err := s.GetInventory(ctx, p.ID, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.OnHand)

	events, err := s.ListCashEventsUntil(ctx, time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWritesOutsideTxSurviveRollback(t *testing.T) {
	s, p, loc := seeded(t)
	ctx := context.Background()
	boom := errors.New("boom")
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	written := make(chan struct{})
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		go func() {
			s.AddSale(domain.SalesTransaction{Date: day, ProductID: p.ID, LocationID: loc.ID, UnitsSold: 2, Revenue: decimal.NewFromInt(40)})
			s.SetCashSettings(domain.CashSettings{StartingCash: decimal.NewFromInt(1000)})
			close(written)
		}()

		select {
		case <-written:
			t.Error("write outside the transaction did not wait for it")
		case <-time.After(50 * time.Millisecond):
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("write outside the transaction never completed")
	}

	sales, err := s.ListSales(ctx, day, day, nil)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	settings, err := s.GetCashSettings(ctx)
	require.NoError(t, err)
	assert.True(t, settings.Configured)
	assert.True(t, settings.StartingCash.Equal(decimal.NewFromInt(1000)))
}

func TestUpdatePurchaseOrderStatusCompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	po := &domain.PurchaseOrder{PONumber: "PO-1", Status: domain.POStatusDraft, Lines: []domain.PurchaseOrderLine{{ProductID: 1, Qty: 2}}}
	require.NoError(t, s.CreatePurchaseOrder(ctx, po))
	assert.NotZero(t, po.ID)
	assert.Equal(t, po.ID, po.Lines[0].PurchaseOrderID)

	po.Status = domain.POStatusSubmitted
	require.NoError(t, s.UpdatePurchaseOrderStatus(ctx, po, domain.POStatusDraft))

	po.Status = domain.POStatusApproved
	err := s.UpdatePurchaseOrderStatus(ctx, po, domain.POStatusDraft)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := s.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.POStatusSubmitted, stored.Status)
	assert.Len(t, stored.Lines, 1)

	headers, err := s.ListPurchaseOrdersByStatus(ctx, []domain.POStatus{domain.POStatusSubmitted})
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Nil(t, headers[0].Lines)

	err = s.CreatePurchaseOrder(ctx, &domain.PurchaseOrder{PONumber: "PO-1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListInventoryRowsJoinsAndFilters(t *testing.T) {
	s, p, loc := seeded(t)
	other := s.AddLocation(domain.Location{Name: "Airport", Code: "AP"})
	s.AddInventory(domain.InventoryRecord{ProductID: p.ID, LocationID: other.ID, OnHand: 1})
	ctx := context.Background()

	rows, err := s.ListInventoryRows(ctx, domain.InventoryFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.ListInventoryRows(ctx, domain.InventoryFilter{LocationID: &loc.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget", rows[0].ProductName)
	assert.Equal(t, "Global Supply Co", rows[0].SupplierName)
	assert.Equal(t, 60, rows[0].LeadTimeDays)

	value, err := s.InventoryValue(ctx)
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(60)))
}

func TestRevenueByMonth(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.AddSale(domain.SalesTransaction{Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(10)})
	s.AddSale(domain.SalesTransaction{Date: time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(5)})
	s.AddSale(domain.SalesTransaction{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(7)})

	months, err := s.RevenueByMonth(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.True(t, months[0].Revenue.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, time.June, months[1].Month.Month())
}
