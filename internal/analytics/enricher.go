package analytics

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/shopspring/decimal"
)

// InventorySource returns inventory joined with product, supplier and location data.
type InventorySource interface {
	ListInventoryRows(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryRow, error)
}

// InventoryEnricher attaches replenishment and risk analytics to inventory records.
type InventoryEnricher struct {
	inventory InventorySource
	velocity  *VelocityEstimator
	policy    *SafetyStockPolicy
}

func NewInventoryEnricher(inventory InventorySource, velocity *VelocityEstimator, policy *SafetyStockPolicy) *InventoryEnricher {
	return &InventoryEnricher{
		inventory: inventory,
		velocity:  velocity,
		policy:    policy,
	}
}

// enrichment carries the unrounded values the flag filter classifies on.
type enrichment struct {
	record        domain.EnrichedInventory
	marginPercent float64
}

// Enrich returns the enriched inventory narrowed by location and supplier. When flags are
// given, a record is kept if it matches any of them.
func (e *InventoryEnricher) Enrich(ctx context.Context, query domain.InventoryQuery) ([]domain.EnrichedInventory, error) {
	rows, err := e.inventory.ListInventoryRows(ctx, domain.InventoryFilter{
		LocationID: query.LocationID,
		SupplierID: query.SupplierID,
	})
	if err != nil {
		return nil, fmt.Errorf("list inventory rows: %w", err)
	}

	velocities, err := e.velocity.Velocities(ctx, e.velocity.WindowDays())
	if err != nil {
		return nil, err
	}

	threshold, err := e.policy.Threshold(ctx)
	if err != nil {
		return nil, fmt.Errorf("high velocity threshold: %w", err)
	}

	result := make([]domain.EnrichedInventory, 0, len(rows))
	for _, row := range rows {
		v := velocities[domain.PairKey{ProductID: row.ProductID, LocationID: row.LocationID}]
		item := enrichRow(row, v, threshold)

		if len(query.Flags) > 0 && !matchesAnyFlag(item, query.Flags) {
			continue
		}
		result = append(result, item.record)
	}

	return result, nil
}

func enrichRow(row domain.InventoryRow, velocity, threshold float64) enrichment {
	daysOnHand := DaysOnHand(row.OnHand, velocity)
	safetyDays := SafetyStockDaysFor(velocity, threshold)

	margin := row.UnitPrice.Sub(row.UnitCost)
	marginPercent := 0.0
	if !row.UnitPrice.IsZero() {
		marginPercent = margin.Div(row.UnitPrice).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return enrichment{
		marginPercent: marginPercent,
		record: domain.EnrichedInventory{
			ID:                  row.ID,
			ProductID:           row.ProductID,
			LocationID:          row.LocationID,
			SKU:                 row.SKU,
			ProductName:         row.ProductName,
			Category:            row.Category,
			LocationName:        row.LocationName,
			SupplierName:        row.SupplierName,
			SupplierID:          row.SupplierID,
			OnHand:              row.OnHand,
			OnOrder:             row.OnOrder,
			UnitCost:            row.UnitCost.InexactFloat64(),
			UnitPrice:           row.UnitPrice.InexactFloat64(),
			Margin:              margin.Round(2).InexactFloat64(),
			MarginPercent:       roundFloat(marginPercent, 2),
			Velocity:            roundFloat(velocity, 2),
			DaysOnHand:          displayDaysOnHand(daysOnHand),
			LeadTimeDays:        row.LeadTimeDays,
			SafetyStockDays:     safetyDays,
			ReorderPoint:        ReorderPoint(velocity, row.LeadTimeDays, safetyDays),
			SuggestedReorderQty: SuggestedReorderQty(velocity, row.LeadTimeDays, row.OnHand, row.OnOrder),
			StockoutRisk:        ClassifyStockoutRisk(daysOnHand, row.LeadTimeDays, safetyDays),
			DeadStock:           ClassifyDeadStock(row.InventoryAgeDays, velocity, row.OnHand),
			InventoryAgeDays:    row.InventoryAgeDays,
		},
	}
}

func matchesAnyFlag(item enrichment, flags []domain.InventoryFlag) bool {
	for _, flag := range flags {
		switch flag {
		case domain.FlagStockout:
			if item.record.StockoutRisk.HasRisk {
				return true
			}
		case domain.FlagDeadStock:
			if item.record.DeadStock.IsDeadStock {
				return true
			}
		case domain.FlagLowMargin:
			if item.marginPercent < LowMarginPercent {
				return true
			}
		}
	}
	return false
}
