package analytics

import (
	"testing"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysOnHand(t *testing.T) {
	tests := []struct {
		name     string
		onHand   int
		velocity float64
		want     float64
	}{
		{name: "zero velocity", onHand: 50, velocity: 0, want: InfiniteDaysOnHand},
		{name: "below epsilon", onHand: 1000000, velocity: 0.0009, want: InfiniteDaysOnHand},
		{name: "zero stock and no sales", onHand: 0, velocity: 0, want: InfiniteDaysOnHand},
		{name: "at epsilon", onHand: 1, velocity: 0.001, want: 1000},
		{name: "regular", onHand: 15, velocity: 2.5, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DaysOnHand(tt.onHand, tt.velocity), 1e-9)
		})
	}
}

func TestReplenishmentExample(t *testing.T) {
	velocity := 2.5
	lead := 60
	safety := SafetyStockHighVelocityDays

	assert.Equal(t, 203, ReorderPoint(velocity, lead, safety))
	assert.Equal(t, 210, SuggestedReorderQty(velocity, lead, 15, 0))

	doh := DaysOnHand(15, velocity)
	assert.InDelta(t, 6.0, doh, 1e-9)

	risk := ClassifyStockoutRisk(doh, lead, safety)
	assert.True(t, risk.HasRisk)
	assert.Equal(t, domain.SeverityCritical, risk.Severity)
	assert.Equal(t, 81, risk.Threshold)
}

func TestSuggestedReorderQtyFlooredAtZero(t *testing.T) {
	assert.Equal(t, 0, SuggestedReorderQty(1, 10, 500, 0))
	assert.Equal(t, 0, SuggestedReorderQty(1, 10, 0, 500))
	assert.Equal(t, 0, SuggestedReorderQty(0, 60, 0, 0))
}

func TestReplenishmentMonotonicity(t *testing.T) {
	velocities := []float64{0, 0.01, 0.3, 1, 2.5, 7.25, 40}
	leads := []int{0, 7, 30, 60, 90}

	for i := 1; i < len(velocities); i++ {
		for _, lead := range leads {
			assert.GreaterOrEqual(t, ReorderPoint(velocities[i], lead, 14), ReorderPoint(velocities[i-1], lead, 14))
			assert.GreaterOrEqual(t, SuggestedReorderQty(velocities[i], lead, 20, 5), SuggestedReorderQty(velocities[i-1], lead, 20, 5))
		}
	}

	for i := 1; i < len(leads); i++ {
		for _, v := range velocities {
			assert.GreaterOrEqual(t, ReorderPoint(v, leads[i], 21), ReorderPoint(v, leads[i-1], 21))
			assert.GreaterOrEqual(t, SuggestedReorderQty(v, leads[i], 20, 5), SuggestedReorderQty(v, leads[i-1], 20, 5))
		}
	}

	prev := SuggestedReorderQty(2.5, 60, 0, 0)
	for stock := 1; stock <= 400; stock += 13 {
		byOnHand := SuggestedReorderQty(2.5, 60, stock, 0)
		byOnOrder := SuggestedReorderQty(2.5, 60, 0, stock)
		assert.LessOrEqual(t, byOnHand, prev)
		assert.Equal(t, byOnHand, byOnOrder)
		assert.GreaterOrEqual(t, byOnHand, 0)
		prev = byOnHand
	}
}

func TestClassifyStockoutRisk(t *testing.T) {
	tests := []struct {
		name       string
		daysOnHand float64
		wantRisk   bool
		wantSev    domain.Severity
	}{
		{name: "at threshold", daysOnHand: 74, wantRisk: false},
		{name: "above threshold", daysOnHand: 120, wantRisk: false},
		{name: "infinite cover", daysOnHand: InfiniteDaysOnHand, wantRisk: false},
		{name: "between lead and threshold", daysOnHand: 65, wantRisk: true, wantSev: domain.SeverityWarning},
		{name: "exactly lead time", daysOnHand: 60, wantRisk: true, wantSev: domain.SeverityWarning},
		{name: "below lead time", daysOnHand: 59.9, wantRisk: true, wantSev: domain.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk := ClassifyStockoutRisk(tt.daysOnHand, 60, 14)
			assert.Equal(t, tt.wantRisk, risk.HasRisk)
			assert.Equal(t, tt.wantSev, risk.Severity)
			if tt.wantRisk {
				assert.Equal(t, 74, risk.Threshold)
			}
		})
	}
}

func TestClassifyDeadStock(t *testing.T) {
	t.Run("aged and slow", func(t *testing.T) {
		ds := ClassifyDeadStock(121, 0.0333, 10)
		require.True(t, ds.IsDeadStock)
		assert.Equal(t, "Low velocity + aged inventory", ds.Reason)
		require.NotNil(t, ds.AgeDays)
		assert.Equal(t, 121, *ds.AgeDays)
		require.NotNil(t, ds.Velocity)
		assert.Equal(t, 0.033, *ds.Velocity)
	})

	tests := []struct {
		name     string
		age      int
		velocity float64
		onHand   int
	}{
		{name: "no stock", age: 400, velocity: 0, onHand: 0},
		{name: "age at limit", age: 120, velocity: 0, onHand: 5},
		{name: "velocity at limit", age: 200, velocity: 0.05, onHand: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := ClassifyDeadStock(tt.age, tt.velocity, tt.onHand)
			assert.False(t, ds.IsDeadStock)
			assert.Empty(t, ds.Reason)
			assert.Nil(t, ds.AgeDays)
		})
	}
}

func TestHighVelocityThreshold(t *testing.T) {
	tests := []struct {
		name  string
		in    []float64
		want  float64
		wantN int
	}{
		{name: "empty", in: nil, want: DefaultHighVelocityThreshold},
		{name: "no positive", in: []float64{0, 0, -1}, want: DefaultHighVelocityThreshold},
		{name: "single", in: []float64{0.4}, want: 0.4, wantN: 1},
		{name: "nine values pick the max", in: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, want: 9, wantN: 9},
		{name: "ten values pick second", in: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, want: 9, wantN: 10},
		{name: "zeros ignored", in: []float64{0, 3, 0, 1, 2}, want: 3, wantN: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := HighVelocityThreshold(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestSafetyStockDaysFor(t *testing.T) {
	assert.Equal(t, 21, SafetyStockDaysFor(10, 10))
	assert.Equal(t, 21, SafetyStockDaysFor(12, 10))
	assert.Equal(t, 14, SafetyStockDaysFor(9.99, 10))
}

func TestDisplayDaysOnHand(t *testing.T) {
	assert.Equal(t, 999.0, displayDaysOnHand(InfiniteDaysOnHand))
	assert.Equal(t, 999.0, displayDaysOnHand(1500))
	assert.Equal(t, 6.7, displayDaysOnHand(6.66667))
}
