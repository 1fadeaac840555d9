package model

// PortfolioSummary holds the computed valuation of one portfolio.
// Recomputed on demand, never cached across requests.
type PortfolioSummary struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Invested         float64 `json:"invested"`
	CurrentValue     float64 `json:"currentValue"`
	Profit           float64 `json:"profit"`
	ProfitPercentage float64 `json:"profitPercentage"`
}

// AllocationEntry is one row of the global allocation breakdown,
// sorted descending by value.
type AllocationEntry struct {
	Ticker     string  `json:"ticker"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// DividendMonth is the summed dividend cash flow for one calendar month.
// Month uses the "YYYY-MM" key format.
type DividendMonth struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// GlobalSummary aggregates valuation across all of a user's portfolios.
type GlobalSummary struct {
	Invested         float64            `json:"invested"`
	CurrentValue     float64            `json:"currentValue"`
	Profit           float64            `json:"profit"`
	ProfitPercentage float64            `json:"profitPercentage"`
	Portfolios       []PortfolioSummary `json:"portfolios"`
	Allocation       []AllocationEntry  `json:"allocation"`
	Dividends        []DividendMonth    `json:"dividends"`
}
