package model

import (
	"time"

	"github.com/mverbeek/portfolio-valuation-engine/internal/apperrors"
)

// HistoryRange identifies a supported historical lookback window.
type HistoryRange string

const (
	Range1Mo HistoryRange = "1mo"
	Range3Mo HistoryRange = "3mo"
	Range6Mo HistoryRange = "6mo"
	Range1Y  HistoryRange = "1y"
	RangeMax HistoryRange = "max"
)

// ParseHistoryRange validates a range string from an API request.
func ParseHistoryRange(s string) (HistoryRange, error) {
	switch HistoryRange(s) {
	case Range1Mo, Range3Mo, Range6Mo, Range1Y, RangeMax:
		return HistoryRange(s), nil
	}
	return "", apperrors.ErrInvalidRange
}

// HistoryPoint is one trading day's close for one symbol. Series are sparse:
// non-trading days and delisted periods leave gaps that consumers must
// forward-fill, never assume contiguous.
type HistoryPoint struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
}

// NetWorthPoint is one entry of the reconstructed portfolio value series.
type NetWorthPoint struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	Invested float64   `json:"invested"`
}
