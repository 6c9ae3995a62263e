// Package indicator holds the technical analysis algorithms. Every function
// reads 1-based core.Field values and returns a freshly allocated
// core.Recordset; inputs are never modified.
package indicator

import (
	"errors"
	"fmt"

	"github.com/raykavin/tasdk/pkg/core"
)

var (
	ErrUnknownMAType        = errors.New("unknown moving average type")
	ErrUnknownPivotDuration = errors.New("unknown pivot points duration")
)

// MAType selects the smoothing used by composite indicators
type MAType int

const (
	SMA  MAType = iota // Simple Moving Average
	EMA                // Exponential Moving Average
	TSMA               // Time Series Moving Average
	TMA                // Triangular Moving Average
	VMA                // Variable Moving Average
	VIDYAType          // Volatility Index Dynamic Average
	WWS                // Welles Wilder Smoothing
	WMA                // Weighted Moving Average
)

const (
	maStart = SMA
	maEnd   = WMA

	// r2 scale used whenever VIDYA is selected through an MAType
	defaultVIDYAScale = 0.65
)

var maTypeNames = map[MAType]string{
	SMA:       "Simple",
	EMA:       "Exponential",
	TSMA:      "Time Series",
	TMA:       "Triangular",
	VMA:       "Variable",
	VIDYAType: "VIDYA",
	WWS:       "Welles Wilder",
	WMA:       "Weighted",
}

// Valid reports whether t is a known moving average type
func (t MAType) Valid() bool {
	return t >= maStart && t <= maEnd
}

func (t MAType) String() string {
	if name, ok := maTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MAType(%d)", int(t))
}

// MovingAverageSwitch runs the moving average selected by maType. An unknown
// type yields nil.
func MovingAverageSwitch(source *core.Field, periods int, maType MAType, alias string) *core.Recordset {
	switch maType {
	case SMA:
		return SimpleMovingAverage(source, periods, alias)
	case EMA:
		return ExponentialMovingAverage(source, periods, alias)
	case TSMA:
		return TimeSeriesMovingAverage(source, periods, alias)
	case TMA:
		return TriangularMovingAverage(source, periods, alias)
	case VMA:
		return VariableMovingAverage(source, periods, alias)
	case VIDYAType:
		return VIDYA(source, periods, defaultVIDYAScale, alias)
	case WWS:
		return WellesWilderSmoothing(source, periods, alias)
	case WMA:
		return WeightedMovingAverage(source, periods, alias)
	}
	return nil
}

// MovingAverage is the checked form of MovingAverageSwitch
func MovingAverage(source *core.Field, periods int, maType MAType, alias string) (*core.Recordset, error) {
	if !maType.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMAType, int(maType))
	}
	return MovingAverageSwitch(source, periods, maType, alias), nil
}

// maField runs a moving average and returns only its output field. Unknown
// types produce a zero filled field so callers stay total.
func maField(source *core.Field, periods int, maType MAType, alias string) *core.Field {
	rs := MovingAverageSwitch(source, periods, maType, alias)
	if rs == nil || !rs.Has(alias) {
		return core.NewField(source.RecordCount, alias)
	}
	return rs.Field(alias)
}

// field allocates an output field sized like source
func newField(source *core.Field, name string) *core.Field {
	return core.NewField(source.RecordCount, name)
}

// window copies the values of f from index start to end inclusive, using
// Value semantics for out of range indices.
func window(f *core.Field, start, end int) []float64 {
	if end < start {
		return nil
	}
	out := make([]float64, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, f.Value(i))
	}
	return out
}
