package service

import (
	"context"
	"sort"
	"time"

	"github.com/andresuchdata/stockcash/internal/analytics"
	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/andresuchdata/stockcash/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardTopListSize   = 10
	dashboardTrendMonths   = 12
	dashboardRevenueDays   = 30
	dashboardTurnoverDays  = 365
	dashboardMonthLabelFmt = "Jan 2006"
)

// DashboardStore is the read model of the executive dashboard.
type DashboardStore interface {
	repository.CatalogRepository
	repository.SalesRepository
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}

type DashboardService struct {
	inventory *InventoryService
	forecasts *ForecastService
	store     DashboardStore
	now       analytics.Clock
}

func NewDashboardService(inventory *InventoryService, forecasts *ForecastService, store DashboardStore, now analytics.Clock) *DashboardService {
	if now == nil {
		now = analytics.SystemClock
	}
	return &DashboardService{inventory: inventory, forecasts: forecasts, store: store, now: now}
}

// Executive assembles KPIs, charts and ranked lists, optionally for one location.
func (s *DashboardService) Executive(ctx context.Context, locationID *int64) (*domain.ExecutiveDashboard, error) {
	var (
		enriched    []domain.EnrichedInventory
		forecast    *domain.Forecast
		recentSales []domain.SalesTransaction
		products    []domain.Product
		trend       []domain.MonthlyRevenue
		yearSales   []domain.SalesTransaction
		stockValue  decimal.Decimal
	)

	now := s.now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		enriched, err = s.inventory.GetEnrichedInventory(gctx, domain.InventoryQuery{LocationID: locationID})
		return err
	})
	g.Go(func() (err error) {
		forecast, err = s.forecasts.GetForecast(gctx, analytics.DefaultForecastPeriods)
		return err
	})
	g.Go(func() (err error) {
		recentSales, err = s.store.ListSales(gctx, now.AddDate(0, 0, -dashboardRevenueDays), now, locationID)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.store.ListProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		trend, err = s.store.RevenueByMonth(gctx, trendStart(now), now, locationID)
		return err
	})
	g.Go(func() (err error) {
		yearSales, err = s.store.ListSales(gctx, now.AddDate(0, 0, -dashboardTurnoverDays), now, nil)
		return err
	})
	g.Go(func() (err error) {
		stockValue, err = s.store.InventoryValue(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	charts := buildCharts(enriched, trend, now)

	return &domain.ExecutiveDashboard{
		KPIs:     buildKPIs(enriched, forecast, recentSales, products, yearSales, stockValue),
		Charts:   charts,
		TopLists: buildTopLists(enriched, forecast),
	}, nil
}

func buildKPIs(
	enriched []domain.EnrichedInventory,
	forecast *domain.Forecast,
	recentSales []domain.SalesTransaction,
	products []domain.Product,
	yearSales []domain.SalesTransaction,
	stockValue decimal.Decimal,
) domain.DashboardKPIs {
	unitCost := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		unitCost[p.ID] = p.UnitCost
	}

	revenue := decimal.Zero
	cost := decimal.Zero
	for _, sale := range recentSales {
		revenue = revenue.Add(sale.Revenue)
		cost = cost.Add(unitCost[sale.ProductID].Mul(decimal.NewFromInt(int64(sale.UnitsSold))))
	}
	margin := revenue.Sub(cost)

	marginPercent := decimal.Zero
	if revenue.IsPositive() {
		marginPercent = margin.Div(revenue).Mul(decimal.NewFromInt(100))
	}

	yearRevenue := decimal.Zero
	for _, sale := range yearSales {
		yearRevenue = yearRevenue.Add(sale.Revenue)
	}
	turnover := decimal.Zero
	if stockValue.IsPositive() {
		turnover = yearRevenue.Div(stockValue)
	}

	stockouts := 0
	for _, item := range enriched {
		if item.StockoutRisk.HasRisk {
			stockouts++
		}
	}

	return domain.DashboardKPIs{
		Revenue30d:         money(revenue),
		GrossMargin30d:     money(margin),
		GrossMarginPercent: money(marginPercent),
		CurrentCash:        forecast.CurrentCash,
		Cash30d:            forecast.Projections[30].ProjectedCash,
		Cash60d:            forecast.Projections[60].ProjectedCash,
		Cash90d:            forecast.Projections[90].ProjectedCash,
		StockoutRiskCount:  stockouts,
		DeadStockValue:     money(deadStockTotal(enriched)),
		InventoryTurnover:  money(turnover),
	}
}

func buildCharts(enriched []domain.EnrichedInventory, trend []domain.MonthlyRevenue, now time.Time) domain.DashboardCharts {
	byMonth := make(map[string]decimal.Decimal, len(trend))
	for _, m := range trend {
		byMonth[m.Month.Format("2006-01")] = m.Revenue
	}

	start := trendStart(now)
	points := make([]domain.RevenuePoint, 0, dashboardTrendMonths)
	for i := 0; i < dashboardTrendMonths; i++ {
		month := start.AddDate(0, i, 0)
		points = append(points, domain.RevenuePoint{
			Month:   month.Format(dashboardMonthLabelFmt),
			Revenue: money(byMonth[month.Format("2006-01")]),
		})
	}

	var breakdown domain.StockoutRiskBreakdown
	dead := domain.DeadStockSummary{}
	for _, item := range enriched {
		if item.StockoutRisk.HasRisk {
			if item.StockoutRisk.Severity == domain.SeverityCritical {
				breakdown.Critical++
			} else {
				breakdown.Warning++
			}
		}
		if item.DeadStock.IsDeadStock {
			dead.SKUCount++
		}
	}
	dead.TotalValue = money(deadStockTotal(enriched))

	return domain.DashboardCharts{
		RevenueTrend:      points,
		StockoutRiskTrend: breakdown,
		DeadStockTrend:    dead,
	}
}

func buildTopLists(enriched []domain.EnrichedInventory, forecast *domain.Forecast) domain.DashboardTopLists {
	atRisk := make([]domain.EnrichedInventory, 0)
	exposures := make([]domain.DeadStockExposure, 0)
	for _, item := range enriched {
		if item.StockoutRisk.HasRisk {
			atRisk = append(atRisk, item)
		}
		if item.DeadStock.IsDeadStock {
			exposures = append(exposures, domain.DeadStockExposure{
				EnrichedInventory: item,
				DeadStockValue:    money(stockValueOf(item)),
			})
		}
	}

	sort.SliceStable(atRisk, func(i, j int) bool { return atRisk[i].DaysOnHand < atRisk[j].DaysOnHand })
	sort.SliceStable(exposures, func(i, j int) bool {
		return stockValueOf(exposures[i].EnrichedInventory).GreaterThan(stockValueOf(exposures[j].EnrichedInventory))
	})

	return domain.DashboardTopLists{
		TopStockoutRisk:  head(atRisk, dashboardTopListSize),
		TopDeadStock:     head(exposures, dashboardTopListSize),
		CashLowWaterMark: forecast.LowWaterMark,
	}
}

func deadStockTotal(enriched []domain.EnrichedInventory) decimal.Decimal {
	total := decimal.Zero
	for _, item := range enriched {
		if item.DeadStock.IsDeadStock {
			total = total.Add(stockValueOf(item))
		}
	}
	return total
}

func stockValueOf(item domain.EnrichedInventory) decimal.Decimal {
	return decimal.NewFromFloat(item.UnitCost).Mul(decimal.NewFromInt(int64(item.OnHand)))
}

// trendStart is the first day of the month eleven months before now.
func trendStart(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(dashboardTrendMonths - 1), 0)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
