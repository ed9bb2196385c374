package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockcash/internal/domain"
)

// SalesSource is the read model the velocity math needs. Date bounds are inclusive.
type SalesSource interface {
	SumUnitsSold(ctx context.Context, productID, locationID int64, from, to time.Time) (int64, error)
	UnitsSoldByPair(ctx context.Context, from, to time.Time) ([]domain.PairUnits, error)
}

// VelocityEstimator computes trailing average daily sales per (product, location).
type VelocityEstimator struct {
	sales      SalesSource
	windowDays int
	now        Clock
}

func NewVelocityEstimator(sales SalesSource, windowDays int, now Clock) *VelocityEstimator {
	if windowDays <= 0 {
		windowDays = DefaultVelocityWindowDays
	}
	if now == nil {
		now = SystemClock
	}
	return &VelocityEstimator{sales: sales, windowDays: windowDays, now: now}
}

// WindowDays is the default trailing window.
func (v *VelocityEstimator) WindowDays() int {
	return v.windowDays
}

// Velocity is units sold for the pair over [today - windowDays, today] divided by windowDays.
func (v *VelocityEstimator) Velocity(ctx context.Context, productID, locationID int64, windowDays int) (float64, error) {
	if windowDays <= 0 {
		return 0, nil
	}

	from, to := v.window(windowDays)
	total, err := v.sales.SumUnitsSold(ctx, productID, locationID, from, to)
	if err != nil {
		return 0, fmt.Errorf("sum units sold for product %d at location %d: %w", productID, locationID, err)
	}

	return float64(total) / float64(windowDays), nil
}

// Velocities returns the velocity of every pair that sold in the window, from a single
// aggregate read. Pairs absent from the map have velocity 0.
func (v *VelocityEstimator) Velocities(ctx context.Context, windowDays int) (map[domain.PairKey]float64, error) {
	result := make(map[domain.PairKey]float64)
	if windowDays <= 0 {
		return result, nil
	}

	from, to := v.window(windowDays)
	rows, err := v.sales.UnitsSoldByPair(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("units sold by pair: %w", err)
	}

	for _, r := range rows {
		key := domain.PairKey{ProductID: r.ProductID, LocationID: r.LocationID}
		result[key] += float64(r.UnitsSold) / float64(windowDays)
	}

	return result, nil
}

func (v *VelocityEstimator) window(windowDays int) (time.Time, time.Time) {
	today := dateOf(v.now())
	return today.AddDate(0, 0, -windowDays), today
}
