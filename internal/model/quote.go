package model

import "time"

// QuoteSource identifies which resolution tier produced a quote. The source
// determines the freshness window used when the quote is cached.
type QuoteSource string

const (
	SourceBatch    QuoteSource = "batch"
	SourceFallback QuoteSource = "fallback"
)

// Quote is a resolved market price for one symbol. Transient: lives only in
// the quote cache for its freshness window. A zero price never appears in a
// Quote; "unresolved" is modelled by absence.
type Quote struct {
	Symbol    string      `json:"symbol"`
	Price     float64     `json:"price"`
	FetchedAt time.Time   `json:"fetchedAt"`
	Source    QuoteSource `json:"source"`
}
