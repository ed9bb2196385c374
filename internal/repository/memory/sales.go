package memory

import (
	"context"
	"sort"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
)

func (s *Store) SumUnitsSold(ctx context.Context, productID, locationID int64, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, sale := range s.state.sales {
		if sale.ProductID == productID && sale.LocationID == locationID && between(sale.Date, from, to) {
			total += int64(sale.UnitsSold)
		}
	}
	return total, nil
}

func (s *Store) UnitsSoldByPair(ctx context.Context, from, to time.Time) ([]domain.PairUnits, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[domain.PairKey]int64)
	for _, sale := range s.state.sales {
		if !between(sale.Date, from, to) {
			continue
		}
		totals[domain.PairKey{ProductID: sale.ProductID, LocationID: sale.LocationID}] += int64(sale.UnitsSold)
	}

	out := make([]domain.PairUnits, 0, len(totals))
	for key, units := range totals {
		out = append(out, domain.PairUnits{ProductID: key.ProductID, LocationID: key.LocationID, UnitsSold: units})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out, nil
}

func (s *Store) ListSales(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.SalesTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.SalesTransaction
	for _, sale := range s.state.sales {
		if locationID != nil && sale.LocationID != *locationID {
			continue
		}
		if between(sale.Date, from, to) {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) RevenueByMonth(ctx context.Context, from, to time.Time, locationID *int64) ([]domain.MonthlyRevenue, error) {
	sales, err := s.ListSales(ctx, from, to, locationID)
	if err != nil {
		return nil, err
	}

	var out []domain.MonthlyRevenue
	for _, sale := range sales {
		d := dateOf(sale.Date)
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		if n := len(out); n > 0 && out[n-1].Month.Equal(month) {
			out[n-1].Revenue = out[n-1].Revenue.Add(sale.Revenue)
			continue
		}
		out = append(out, domain.MonthlyRevenue{Month: month, Revenue: sale.Revenue})
	}
	return out, nil
}
