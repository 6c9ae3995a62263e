package core

import (
	"context"
	"time"
)

// BarFilter selects stored bars
type BarFilter func(bar Bar) bool

// BarStorage persists bars per symbol
type BarStorage interface {
	// SaveBars stores bars, replacing any bar with the same symbol and time
	SaveBars(ctx context.Context, symbol string, bars ...Bar) error

	// Bars returns the bars of symbol in time order
	Bars(ctx context.Context, symbol string, filters ...BarFilter) ([]Bar, error)

	// Symbols lists the stored symbols in alphabetical order
	Symbols(ctx context.Context) ([]string, error)

	Close() error
}

// WithPeriod keeps bars between start and end, inclusive
func WithPeriod(start, end time.Time) BarFilter {
	return func(bar Bar) bool {
		return !bar.Time.Before(start) && !bar.Time.After(end)
	}
}

// WithTimeAfterOrEqual keeps bars from t onwards
func WithTimeAfterOrEqual(t time.Time) BarFilter {
	return func(bar Bar) bool {
		return !bar.Time.Before(t)
	}
}

// MatchBar reports whether bar passes every filter
func MatchBar(bar Bar, filters ...BarFilter) bool {
	for _, filter := range filters {
		if !filter(bar) {
			return false
		}
	}
	return true
}
