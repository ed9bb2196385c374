package domain

// DashboardKPIs represents the KPI tiles of the executive dashboard
type DashboardKPIs struct {
	Revenue30d         float64 `json:"revenue_30d"`
	GrossMargin30d     float64 `json:"gross_margin_30d"`
	GrossMarginPercent float64 `json:"gross_margin_percent"`
	CurrentCash        float64 `json:"current_cash"`
	Cash30d            float64 `json:"cash_30d"`
	Cash60d            float64 `json:"cash_60d"`
	Cash90d            float64 `json:"cash_90d"`
	StockoutRiskCount  int     `json:"stockout_risk_count"`
	DeadStockValue     float64 `json:"dead_stock_value"`
	InventoryTurnover  float64 `json:"inventory_turnover"`
}

// RevenuePoint is one month of the revenue trend chart
type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// StockoutRiskBreakdown counts at-risk rows per severity
type StockoutRiskBreakdown struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// DeadStockSummary totals dead stock exposure
type DeadStockSummary struct {
	TotalValue float64 `json:"total_value"`
	SKUCount   int     `json:"sku_count"`
}

// DashboardCharts aggregates the chart data
type DashboardCharts struct {
	RevenueTrend      []RevenuePoint        `json:"revenue_trend"`
	StockoutRiskTrend StockoutRiskBreakdown `json:"stockout_risk_trend"`
	DeadStockTrend    DeadStockSummary      `json:"dead_stock_trend"`
}

// DeadStockExposure is an enriched row with its dead stock value
type DeadStockExposure struct {
	EnrichedInventory
	DeadStockValue float64 `json:"dead_stock_value"`
}

// DashboardTopLists holds the ranked lists
type DashboardTopLists struct {
	TopStockoutRisk  []EnrichedInventory `json:"top_stockout_risk"`
	TopDeadStock     []DeadStockExposure `json:"top_dead_stock"`
	CashLowWaterMark *LowWaterMark       `json:"cash_low_water_mark"`
}

// ExecutiveDashboard aggregates all dashboard data
type ExecutiveDashboard struct {
	KPIs     DashboardKPIs     `json:"kpis"`
	Charts   DashboardCharts   `json:"charts"`
	TopLists DashboardTopLists `json:"top_lists"`
}
