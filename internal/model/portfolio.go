package model

// Portfolio represents a user portfolio. Portfolios own transactions; the
// engine only ever reads them.
type Portfolio struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsArchived  bool   `json:"isArchived"`
}
