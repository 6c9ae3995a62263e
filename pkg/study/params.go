package study

import (
	"fmt"
	"maps"
	"strings"

	"github.com/raykavin/tasdk/pkg/indicator"
	"github.com/spf13/cast"
)

// Parameter keys understood by the indicator definitions
const (
	ParamSource             = "Source"
	ParamSource2            = "Source 2"
	ParamPeriods            = "Periods"
	ParamStdDevs            = "Standard Deviations"
	ParamMAType             = "Moving Average Type"
	ParamShift              = "Shift"
	ParamMultiplier         = "Multiplier"
	ParamMinTick            = "Min Tick Value"
	ParamLimitMove          = "Limit Move Value"
	ParamKPeriods           = "%K Periods"
	ParamKSmoothing         = "%K Smoothing"
	ParamKDoubleSmoothing   = "%K Double Smoothing"
	ParamDPeriods           = "%D Periods"
	ParamDMAType            = "%D Moving Average Type"
	ParamBarHistory         = "Bar History"
	ParamR2Scale            = "R2 Scale"
	ParamCycle1             = "Cycle 1"
	ParamCycle2             = "Cycle 2"
	ParamCycle3             = "Cycle 3"
	ParamShortTerm          = "Short Term"
	ParamLongTerm           = "Long Term"
	ParamPointsOrPercent    = "Points or Percent"
	ParamRateOfChange       = "Rate of Change"
	ParamShortCycle         = "Short Cycle"
	ParamLongCycle          = "Long Cycle"
	ParamSignalPeriods      = "Signal Periods"
	ParamMinAF              = "Min AF"
	ParamMaxAF              = "Max AF"
	ParamLevels             = "Levels"
	ParamDuration           = "duration"
	ParamConversionPeriods  = "Conversion Line Periods"
	ParamBasePeriods        = "Base Line Periods"
	ParamLeadingSpanPeriods = "Leading Span B Periods"
	ParamDisplacement       = "Displacement"
)

// Params holds the input parameters of a study. Values may be of any
// type cast can coerce, so "14", 14 and 14.0 are equivalent periods.
type Params map[string]any

// Int reads key as an int, 0 when absent
func (p Params) Int(key string) int {
	return cast.ToInt(p[key])
}

// Float reads key as a float64, 0 when absent
func (p Params) Float(key string) float64 {
	return cast.ToFloat64(p[key])
}

// String reads key as a string
func (p Params) String(key string) string {
	s, err := cast.ToStringE(p[key])
	if err != nil {
		// named string types such as indicator.PivotDuration
		return fmt.Sprint(p[key])
	}
	return s
}

// MAType reads key as a moving average type. Names such as "Exponential"
// are accepted along with the numeric codes.
func (p Params) MAType(key string) indicator.MAType {
	if t, ok := p[key].(indicator.MAType); ok {
		return t
	}
	if s, ok := p[key].(string); ok {
		for t := indicator.SMA; t <= indicator.WMA; t++ {
			if strings.EqualFold(t.String(), s) {
				return t
			}
		}
	}
	return indicator.MAType(cast.ToInt(p[key]))
}

// Has reports whether key is set
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Clone returns an independent copy of p
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

func (p Params) merge(other Params) {
	for k, v := range other {
		p[k] = v
	}
}
