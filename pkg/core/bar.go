package core

import (
	"strconv"
	"time"
)

// Bar is one OHLCV record
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// Additional columns from CSV inputs
	Metadata map[string]float64
}

// IsEmpty checks if the bar carries no prices
func (b Bar) IsEmpty() bool {
	return b.Time.IsZero() && b.Open == 0 && b.Close == 0 && b.Volume == 0
}

// ToSlice renders the bar in the column order used by the CSV feed:
// time, open, close, low, high, volume.
func (b Bar) ToSlice(precision int) []string {
	return []string{
		strconv.FormatInt(b.Time.Unix(), 10),
		strconv.FormatFloat(b.Open, 'f', precision, 64),
		strconv.FormatFloat(b.Close, 'f', precision, 64),
		strconv.FormatFloat(b.Low, 'f', precision, 64),
		strconv.FormatFloat(b.High, 'f', precision, 64),
		strconv.FormatFloat(b.Volume, 'f', precision, 64),
	}
}

// Merge folds next into b as if both belonged to the same, larger period
func (b Bar) Merge(next Bar) Bar {
	b.High = max(b.High, next.High)
	b.Low = min(b.Low, next.Low)
	b.Close = next.Close
	b.Volume += next.Volume
	return b
}
