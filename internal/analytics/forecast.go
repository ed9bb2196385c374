package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultForecastPeriods are the horizons used when a caller asks for none.
var DefaultForecastPeriods = []int{30, 60, 90}

// CashLedger is the persisted cash state: the settings singleton and its events.
type CashLedger interface {
	GetCashSettings(ctx context.Context) (domain.CashSettings, error)
	ListCashEventsUntil(ctx context.Context, until time.Time) ([]domain.CashEvent, error)
	ListCashEventsBetween(ctx context.Context, from, to time.Time, eventType domain.CashEventType) ([]domain.CashEvent, error)
	UpsertCashEvent(ctx context.Context, event domain.CashEvent) (domain.CashEvent, error)
}

// SalesHistory lists sales facts between two inclusive dates.
type SalesHistory interface {
	ListSales(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.SalesTransaction, error)
}

// OrderBook lists purchase order headers by status.
type OrderBook interface {
	ListPurchaseOrdersByStatus(ctx context.Context, statuses []domain.POStatus) ([]domain.PurchaseOrder, error)
}

type ForecastOptions struct {
	// DefaultPeriods replaces DefaultForecastPeriods when non-empty.
	DefaultPeriods []int
	// DedupePOOutflows drops persisted outflow events that reference a purchase order
	// whose payment is already projected from the order itself.
	DedupePOOutflows bool
}

// CashForecastEngine projects the cash position from settings, ledger events, sales and
// open purchase orders. Every method is a pure function of that state and today's date.
type CashForecastEngine struct {
	ledger CashLedger
	sales  SalesHistory
	orders OrderBook
	opts   ForecastOptions
	now    Clock
}

func NewCashForecastEngine(ledger CashLedger, sales SalesHistory, orders OrderBook, opts ForecastOptions, now Clock) *CashForecastEngine {
	if now == nil {
		now = SystemClock
	}
	return &CashForecastEngine{
		ledger: ledger,
		sales:  sales,
		orders: orders,
		opts:   opts,
		now:    now,
	}
}

// cashFlow is a single dated movement of money.
type cashFlow struct {
	date   time.Time
	amount decimal.Decimal
	ref    *domain.ReferenceKey
}

// Forecast projects each requested horizon and the low water mark over the longest one.
// Without cash settings it returns a zero position and no projections.
func (e *CashForecastEngine) Forecast(ctx context.Context, periods []int) (domain.Forecast, error) {
	if len(periods) == 0 {
		periods = e.defaultPeriods()
	}

	settings, err := e.ledger.GetCashSettings(ctx)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("get cash settings: %w", err)
	}
	if !settings.Configured {
		return domain.Forecast{
			CurrentCash: 0,
			Projections: map[int]domain.Projection{},
		}, nil
	}

	current, err := e.CurrentCash(ctx, settings)
	if err != nil {
		return domain.Forecast{}, err
	}

	projections := make(map[int]domain.Projection, len(periods))
	maxDays := periods[0]
	for _, days := range periods {
		p, err := e.Projection(ctx, settings, current, days)
		if err != nil {
			return domain.Forecast{}, err
		}
		projections[days] = p
		if days > maxDays {
			maxDays = days
		}
	}

	lwm, err := e.LowWaterMark(ctx, settings, current, maxDays)
	if err != nil {
		return domain.Forecast{}, err
	}

	return domain.Forecast{
		CurrentCash:  current.Round(2).InexactFloat64(),
		Projections:  projections,
		LowWaterMark: &lwm,
	}, nil
}

// CurrentCash is starting cash plus every inflow and minus every outflow dated up to today.
func (e *CashForecastEngine) CurrentCash(ctx context.Context, settings domain.CashSettings) (decimal.Decimal, error) {
	events, err := e.ledger.ListCashEventsUntil(ctx, e.today())
	if err != nil {
		return decimal.Zero, fmt.Errorf("list cash events: %w", err)
	}

	cash := settings.StartingCash
	for _, ev := range events {
		if ev.Type == domain.CashInflow {
			cash = cash.Add(ev.Amount)
		} else {
			cash = cash.Sub(ev.Amount)
		}
	}
	return cash, nil
}

// Projection is the cash position at today + days.
func (e *CashForecastEngine) Projection(ctx context.Context, settings domain.CashSettings, current decimal.Decimal, days int) (domain.Projection, error) {
	today := e.today()
	target := today.AddDate(0, 0, days)

	inflows, outflows, err := e.flows(ctx, settings, today, target)
	if err != nil {
		return domain.Projection{}, err
	}

	totalIn := sumFlows(inflows)
	totalOut := sumFlows(outflows)

	return domain.Projection{
		Date:          target.Format(dateLayout),
		ProjectedCash: current.Add(totalIn).Sub(totalOut).Round(2).InexactFloat64(),
		TotalInflows:  totalIn.Round(2).InexactFloat64(),
		TotalOutflows: totalOut.Round(2).InexactFloat64(),
	}, nil
}

// LowWaterMark walks the daily net flows over [today, today+maxDays] from current cash and
// returns the lowest running balance with the earliest date it is reached.
func (e *CashForecastEngine) LowWaterMark(ctx context.Context, settings domain.CashSettings, current decimal.Decimal, maxDays int) (domain.LowWaterMark, error) {
	today := e.today()
	end := today.AddDate(0, 0, maxDays)

	inflows, outflows, err := e.flows(ctx, settings, today, end)
	if err != nil {
		return domain.LowWaterMark{}, err
	}

	daily := make(map[string]decimal.Decimal)
	for _, f := range inflows {
		key := f.date.Format(dateLayout)
		daily[key] = daily[key].Add(f.amount)
	}
	for _, f := range outflows {
		key := f.date.Format(dateLayout)
		daily[key] = daily[key].Sub(f.amount)
	}

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	cash := current
	low := current
	lowDate := today.Format(dateLayout)
	for _, d := range dates {
		cash = cash.Add(daily[d])
		if cash.LessThan(low) {
			low = cash
			lowDate = d
		}
	}

	return domain.LowWaterMark{
		Amount: low.Round(2).InexactFloat64(),
		Date:   lowDate,
	}, nil
}

// RecordCashEventForOrder upserts the payment outflow of an approved order that carries
// an ordered_at stamp. It reports whether an event was written.
func (e *CashForecastEngine) RecordCashEventForOrder(ctx context.Context, po domain.PurchaseOrder) (bool, error) {
	if po.Status != domain.POStatusApproved || po.OrderedAt == nil {
		return false, nil
	}

	settings, err := e.ledger.GetCashSettings(ctx)
	if err != nil {
		return false, fmt.Errorf("get cash settings: %w", err)
	}
	if !settings.Configured {
		log.Warn().Int64("po_id", po.ID).Msg("cash forecast: no cash settings, payment dated on order date")
	}

	event := domain.CashEvent{
		Date:          dateOf(*po.OrderedAt).AddDate(0, 0, settings.PaymentTermsDays),
		Type:          domain.CashOutflow,
		Amount:        po.TotalCost,
		ReferenceType: domain.ReferencePurchaseOrder,
		ReferenceID:   po.ID,
		Description:   fmt.Sprintf("Payment for PO %s", po.PONumber),
	}

	if _, err := e.ledger.UpsertCashEvent(ctx, event); err != nil {
		return false, fmt.Errorf("upsert cash event for po %d: %w", po.ID, err)
	}
	return true, nil
}

func (e *CashForecastEngine) flows(ctx context.Context, settings domain.CashSettings, from, to time.Time) ([]cashFlow, []cashFlow, error) {
	inflows, err := e.projectedInflows(ctx, settings, from, to)
	if err != nil {
		return nil, nil, err
	}
	outflows, err := e.projectedOutflows(ctx, settings, from, to)
	if err != nil {
		return nil, nil, err
	}
	return inflows, outflows, nil
}

// projectedInflows are sales whose collection date lands in [from, to].
func (e *CashForecastEngine) projectedInflows(ctx context.Context, settings domain.CashSettings, from, to time.Time) ([]cashFlow, error) {
	delay := settings.RevenueCollectionDelayDays

	sales, err := e.sales.ListSales(ctx, from.AddDate(0, 0, -delay), to.AddDate(0, 0, -delay), nil)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	flows := make([]cashFlow, 0, len(sales))
	for _, s := range sales {
		collected := dateOf(s.Date).AddDate(0, 0, delay)
		if !withinDates(collected, from, to) {
			continue
		}
		flows = append(flows, cashFlow{date: collected, amount: s.Revenue})
	}
	return flows, nil
}

// projectedOutflows are payments of approved and ordered purchase orders due in [from, to]
// plus persisted outflow events dated in the same window.
func (e *CashForecastEngine) projectedOutflows(ctx context.Context, settings domain.CashSettings, from, to time.Time) ([]cashFlow, error) {
	orders, err := e.orders.ListPurchaseOrdersByStatus(ctx, []domain.POStatus{domain.POStatusApproved, domain.POStatusOrdered})
	if err != nil {
		return nil, fmt.Errorf("list open purchase orders: %w", err)
	}

	var flows []cashFlow
	projected := make(map[domain.ReferenceKey]struct{})
	for _, po := range orders {
		if po.OrderedAt == nil {
			continue
		}
		due := dateOf(*po.OrderedAt).AddDate(0, 0, settings.PaymentTermsDays)
		if !withinDates(due, from, to) {
			continue
		}
		ref := domain.ReferenceKey{Type: domain.ReferencePurchaseOrder, ID: po.ID}
		projected[ref] = struct{}{}
		flows = append(flows, cashFlow{date: due, amount: po.TotalCost, ref: &ref})
	}

	events, err := e.ledger.ListCashEventsBetween(ctx, from, to, domain.CashOutflow)
	if err != nil {
		return nil, fmt.Errorf("list scheduled outflows: %w", err)
	}

	for _, ev := range events {
		if e.opts.DedupePOOutflows {
			if _, ok := projected[ev.Key()]; ok {
				continue
			}
		}
		flows = append(flows, cashFlow{date: dateOf(ev.Date), amount: ev.Amount})
	}

	return flows, nil
}

func (e *CashForecastEngine) defaultPeriods() []int {
	if len(e.opts.DefaultPeriods) > 0 {
		return e.opts.DefaultPeriods
	}
	return DefaultForecastPeriods
}

func (e *CashForecastEngine) today() time.Time {
	return dateOf(e.now())
}

func sumFlows(flows []cashFlow) decimal.Decimal {
	total := decimal.Zero
	for _, f := range flows {
		total = total.Add(f.amount)
	}
	return total
}
