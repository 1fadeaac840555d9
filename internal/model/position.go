package model

// Position is the derived holding for one ticker, recomputed on every read
// from the full transaction history. Never persisted.
type Position struct {
	Ticker       string  `json:"ticker"`
	Quantity     float64 `json:"quantity"`
	CostBasis    float64 `json:"costBasis"`
	AveragePrice float64 `json:"averagePrice"`
}

// ValuedPosition is a position valued at a resolved market price.
// PriceResolved distinguishes "quote unavailable" from a legitimate zero:
// when false, Price, MarketValue and UnrealizedGain are zero and the UI is
// expected to surface the position as unvalued rather than as a loss.
type ValuedPosition struct {
	Position
	Price          float64 `json:"price"`
	MarketValue    float64 `json:"marketValue"`
	UnrealizedGain float64 `json:"unrealizedGain"`
	PriceResolved  bool    `json:"priceResolved"`
}
