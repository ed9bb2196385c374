package analytics

import (
	"math"

	"github.com/andresuchdata/stockcash/internal/domain"
)

const (
	velocityEpsilon = 0.001

	// InfiniteDaysOnHand stands in for "never runs out" when velocity is negligible.
	InfiniteDaysOnHand = 999999.0
	// DaysOnHandDisplayCap is the largest days-on-hand value reported to callers.
	DaysOnHandDisplayCap = 999.0

	DefaultVelocityWindowDays = 30

	SafetyStockDefaultDays      = 14
	SafetyStockHighVelocityDays = 21

	// DefaultHighVelocityThreshold is used when no pair has sold anything in the window.
	DefaultHighVelocityThreshold = 10.0
	highVelocityTopShare         = 0.10

	TargetCoverageDays = 30

	DeadStockAgeThresholdDays  = 120
	DeadStockVelocityThreshold = 0.05
	deadStockReason            = "Low velocity + aged inventory"

	LowMarginPercent = 20.0
)

// DaysOnHand is on-hand units divided by velocity, or InfiniteDaysOnHand when velocity < 0.001.
func DaysOnHand(onHand int, velocity float64) float64 {
	if velocity < velocityEpsilon {
		return InfiniteDaysOnHand
	}
	return float64(onHand) / velocity
}

// SafetyStockDaysFor picks the buffer for a velocity given the current high-velocity threshold.
func SafetyStockDaysFor(velocity, threshold float64) int {
	if velocity >= threshold {
		return SafetyStockHighVelocityDays
	}
	return SafetyStockDefaultDays
}

// ReorderPoint = ceil(velocity × (lead time + safety stock days)).
func ReorderPoint(velocity float64, leadTimeDays, safetyStockDays int) int {
	return int(math.Ceil(velocity * float64(leadTimeDays+safetyStockDays)))
}

// SuggestedReorderQty tops inventory up to lead time plus TargetCoverageDays of demand,
// net of what is on hand and already on order. Never negative.
func SuggestedReorderQty(velocity float64, leadTimeDays, onHand, onOrder int) int {
	targetCoverage := leadTimeDays + TargetCoverageDays
	targetInventory := velocity * float64(targetCoverage)
	needed := targetInventory - float64(onHand+onOrder)

	return int(math.Max(0, math.Ceil(needed)))
}

// ClassifyStockoutRisk flags cover below lead time plus safety stock. Cover below the
// lead time alone is critical.
func ClassifyStockoutRisk(daysOnHand float64, leadTimeDays, safetyStockDays int) domain.StockoutRisk {
	threshold := leadTimeDays + safetyStockDays
	if daysOnHand >= float64(threshold) {
		return domain.StockoutRisk{HasRisk: false}
	}

	severity := domain.SeverityWarning
	if daysOnHand < float64(leadTimeDays) {
		severity = domain.SeverityCritical
	}

	return domain.StockoutRisk{
		HasRisk:   true,
		Severity:  severity,
		Threshold: threshold,
	}
}

// ClassifyDeadStock is true iff the stock is older than 120 days, sells under 0.05/day
// and is still physically present.
func ClassifyDeadStock(inventoryAgeDays int, velocity float64, onHand int) domain.DeadStock {
	if inventoryAgeDays > DeadStockAgeThresholdDays &&
		velocity < DeadStockVelocityThreshold &&
		onHand > 0 {
		age := inventoryAgeDays
		v := roundFloat(velocity, 3)
		return domain.DeadStock{
			IsDeadStock: true,
			Reason:      deadStockReason,
			AgeDays:     &age,
			Velocity:    &v,
		}
	}

	return domain.DeadStock{IsDeadStock: false}
}

// displayDaysOnHand caps the sentinel for presentation.
func displayDaysOnHand(daysOnHand float64) float64 {
	if daysOnHand > DaysOnHandDisplayCap {
		return DaysOnHandDisplayCap
	}
	return roundFloat(daysOnHand, 1)
}

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
