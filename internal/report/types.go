package report

// Summary is the pre-aggregated overview returned by the backend.
type Summary struct {
	TotalAssets    int            `json:"total_assets"`
	AssetsByStatus map[string]int `json:"assets_by_status"`
	ActiveBorrows  int            `json:"active_borrows"`
	OverdueBorrows int            `json:"overdue_borrows"`
	TotalValue     float64        `json:"total_value"`
}

// OverdueRate formats the overdue share of active borrows.
func (s *Summary) OverdueRate() float64 {
	return Percent(s.OverdueBorrows, s.ActiveBorrows)
}

// TrendPoint is one bucket of a borrow trend series.
type TrendPoint struct {
	Date     string `json:"date"`
	Borrowed int    `json:"borrowed"`
	Returned int    `json:"returned"`
}

// BorrowTrend is the borrow/return series for a date range.
type BorrowTrend struct {
	Points []TrendPoint `json:"points"`
}

// InventoryBreakdown is the per-result tally of a stock-taking task set.
type InventoryBreakdown struct {
	TotalRecords int            `json:"total_records"`
	ByResult     map[string]int `json:"by_result"`
}

// ResultRate formats one result's share of all records.
func (b *InventoryBreakdown) ResultRate(result string) float64 {
	return Percent(b.ByResult[result], b.TotalRecords)
}
