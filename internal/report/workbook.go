package report

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/stockcash/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	InventorySheet = "Inventory"
	ForecastSheet  = "Forecast"
)

var inventoryHeadings = []interface{}{
	"SKU", "Product", "Category", "Location", "Supplier",
	"On Hand", "On Order", "Unit Cost", "Unit Price", "Margin %",
	"Velocity", "Days On Hand", "Lead Time", "Safety Stock", "Reorder Point",
	"Suggested Qty", "Stockout Risk", "Dead Stock", "Age Days",
}

var forecastHeadings = []interface{}{"Horizon (days)", "Date", "Projected Cash", "Inflows", "Outflows"}

// BuildWorkbook lays out one row per enriched inventory record and one row per forecast horizon.
func BuildWorkbook(items []domain.EnrichedInventory, forecast *domain.Forecast) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ForecastSheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, InventorySheet, 1, inventoryHeadings); err != nil {
		return nil, err
	}
	for i, item := range items {
		if err := writeRow(f, InventorySheet, i+2, inventoryRow(item)); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, ForecastSheet, 1, forecastHeadings); err != nil {
		return nil, err
	}
	if forecast == nil {
		return f, nil
	}

	horizons := make([]int, 0, len(forecast.Projections))
	for days := range forecast.Projections {
		horizons = append(horizons, days)
	}
	sort.Ints(horizons)

	row := 2
	for _, days := range horizons {
		p := forecast.Projections[days]
		if err := writeRow(f, ForecastSheet, row, []interface{}{days, p.Date, p.ProjectedCash, p.TotalInflows, p.TotalOutflows}); err != nil {
			return nil, err
		}
		row++
	}

	row++
	if err := writeRow(f, ForecastSheet, row, []interface{}{"Current Cash", "", forecast.CurrentCash}); err != nil {
		return nil, err
	}
	if forecast.LowWaterMark != nil {
		lwm := forecast.LowWaterMark
		if err := writeRow(f, ForecastSheet, row+1, []interface{}{"Low Water Mark", lwm.Date, lwm.Amount}); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func inventoryRow(item domain.EnrichedInventory) []interface{} {
	risk := "none"
	if item.StockoutRisk.HasRisk {
		risk = string(item.StockoutRisk.Severity)
	}
	dead := "no"
	if item.DeadStock.IsDeadStock {
		dead = "yes"
	}

	return []interface{}{
		item.SKU, item.ProductName, item.Category, item.LocationName, item.SupplierName,
		item.OnHand, item.OnOrder, item.UnitCost, item.UnitPrice, item.MarginPercent,
		item.Velocity, item.DaysOnHand, item.LeadTimeDays, item.SafetyStockDays, item.ReorderPoint,
		item.SuggestedReorderQty, risk, dead, item.InventoryAgeDays,
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
