package model

import "time"

// TransactionKind enumerates the event types recorded in the ledger.
type TransactionKind string

const (
	KindBuy      TransactionKind = "buy"
	KindSell     TransactionKind = "sell"
	KindDividend TransactionKind = "dividend"
	KindSplit    TransactionKind = "split"
)

// Transaction represents one immutable ledger event for an asset.
// For split events Quantity holds the split factor (2 means 1-for-2),
// not a share count, and UnitPrice is unused.
type Transaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Ticker      string          `json:"ticker"`
	Kind        TransactionKind `json:"kind"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   float64         `json:"unitPrice"`
	Fees        float64         `json:"fees"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
