package marketdata

// batchQuoteResponse represents the raw JSON response of the batch quote
// endpoint: one result entry per resolved symbol.
type batchQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string  `json:"symbol"`
			RegularMarketPrice float64 `json:"regularMarketPrice"`
			Currency           string  `json:"currency"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"quoteResponse"`
}

// chartResponse represents the raw JSON response of the single-symbol chart
// endpoint, used both for the fallback quote tier (meta price or previous
// close) and for historical series (parallel timestamp/close arrays).
// Close values are pointers because the upstream emits null for days
// without data.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// BatchQuote is one symbol's price from the batch endpoint.
type BatchQuote struct {
	Symbol string
	Price  float64
}
