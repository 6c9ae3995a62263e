package study

import (
	"fmt"
	"strings"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/indicator"
	"github.com/spf13/cast"
)

// Output field names shared by the definitions
const (
	FieldIndicator       = "Indicator"
	FieldIndicatorHigh   = "Indicator High"
	FieldIndicatorLow    = "Indicator Low"
	FieldSignal          = "IndicatorSignal"
	FieldSpacedSignal    = "Indicator Signal"
	FieldTrigger         = "Indicator Trigger"
	FieldHistogram       = "Indicator Histogram"
	FieldHistogramHigh   = indicator.FieldHistogramHigh
	FieldHistogramLow    = indicator.FieldHistogramLow
	FieldTop             = "Top"
	FieldMedian          = "Median"
	FieldBottom          = "Bottom"
	FieldFractalHigh     = indicator.FieldFractalHigh
	FieldFractalLow      = indicator.FieldFractalLow
	FieldPctK            = "%K"
	FieldPctD            = "%D"
	FieldADX             = indicator.FieldADX
	FieldDIPlus          = indicator.FieldDIPlus
	FieldDIMinus         = indicator.FieldDIMinus
	FieldAroonUp         = "Aroon Up"
	FieldAroonDown       = "Aroon Down"
	FieldAroonOscillator = "Aroon Oscillator"
	FieldBullPower       = "Bull Power"
	FieldBearPower       = "Bear Power"
	FieldSuperTrend      = "Supertrend"
	FieldSuperTrendColor = indicator.FieldSuperTrendColor
	FieldVolume          = "Volume"
	FieldVolumeUp        = "Volume Up"
	FieldRSquared        = indicator.FieldRSquared
	FieldForecast        = indicator.FieldForecast
	FieldSlope           = indicator.FieldSlope
	FieldIntercept       = indicator.FieldIntercept
	FieldPivot           = indicator.FieldPivot
	FieldTenkanSen       = "Tenkan Sen"
	FieldKijunSen        = "Kijun Sen"
	FieldChikouSpan      = "Chikou Span"
	FieldSenkouSpanA     = "Senkou Span A"
	FieldSenkouSpanB     = "Senkou Span B"
	FieldDarvasTop       = indicator.FieldDarvasTop
	FieldDarvasBottom    = indicator.FieldDarvasBottom
)

// plotNames maps an output field to the suffix of its data series name.
// Fields missing here use the bare study title.
var plotNames = map[string]string{
	FieldIndicatorHigh:   "High",
	FieldIndicatorLow:    "Low",
	FieldFractalHigh:     "High",
	FieldFractalLow:      "Low",
	FieldSignal:          "Signal",
	FieldSpacedSignal:    "Signal",
	FieldTrigger:         "Trigger",
	FieldHistogram:       "Histogram",
	FieldHistogramHigh:   "Histogram High",
	FieldHistogramLow:    "Histogram Low",
	FieldTop:             "Top",
	FieldMedian:          "Median",
	FieldBottom:          "Bottom",
	FieldPctK:            "%K",
	FieldPctD:            "%D",
	FieldADX:             "ADX",
	FieldDIPlus:          "DI+",
	FieldDIMinus:         "DI-",
	FieldAroonUp:         "Up",
	FieldAroonDown:       "Down",
	FieldBullPower:       "Bull Power",
	FieldBearPower:       "Bear Power",
	FieldSuperTrendColor: "Color",
	FieldVolume:          "Volume",
	FieldVolumeUp:        "Up",
	indicator.FieldS1:    "S1",
	indicator.FieldS2:    "S2",
	indicator.FieldS3:    "S3",
	indicator.FieldR1:    "R1",
	indicator.FieldR2:    "R2",
	indicator.FieldR3:    "R3",
	FieldTenkanSen:       "Tenkan Sen",
	FieldKijunSen:        "Kijun Sen",
	FieldChikouSpan:      "Chikou Span",
	FieldSenkouSpanA:     "Senkou Span A",
	FieldSenkouSpanB:     "Senkou Span B",
	FieldDarvasTop:       "Top",
	FieldDarvasBottom:    "Bottom",
}

// definition describes one indicator: its names, outputs, defaults and how
// to compute it from the input channels.
type definition struct {
	name     string
	short    string
	alias    string
	overlay  bool
	fields   []string
	defaults Params

	// start is the first record worth presenting. Nil means Periods+1.
	start   func(p Params) int
	compute func(in *input) output
}

type output struct {
	rs    *core.Recordset
	title []any
}

func (d *definition) startIndex(p Params) int {
	if d.start != nil {
		return d.start(p)
	}
	return p.Int(ParamPeriods) + 1
}

func fixedStart(n int) func(Params) int {
	return func(Params) int { return n }
}

func periodsTimes(k float64) func(Params) int {
	return func(p Params) int { return int(float64(p.Int(ParamPeriods)) * k) }
}

func periodsPlus(n int) func(Params) int {
	return func(p Params) int { return p.Int(ParamPeriods) + n }
}

// maxPlusOne starts one record after the longest of the given windows
func maxPlusOne(keys ...string) func(Params) int {
	return func(p Params) int {
		longest := 0
		for _, k := range keys {
			longest = max(longest, p.Int(k))
		}
		return longest + 1
	}
}

var registry = map[ID]*definition{}

func register(id ID, def *definition) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("study: duplicate definition for %d", id))
	}
	if def.defaults == nil {
		def.defaults = Params{}
	}
	registry[id] = def
}

// input reads the channels a compute function needs. The first missing
// channel is remembered in err and an empty field is returned instead.
type input struct {
	src      Source
	params   Params
	interval time.Duration
	err      error
}

func (in *input) channel(suffix string) *core.Field {
	ds := in.src.DataSeries(suffix)
	if ds == nil {
		if in.err == nil {
			in.err = fmt.Errorf("%w: %s", ErrMissingChannel, suffix)
		}
		return core.NewField(0, channelField(suffix))
	}
	return ds.ToField(channelField(suffix))
}

func (in *input) source() *core.Field {
	return in.channel(in.params.String(ParamSource))
}

func (in *input) sourceName() string {
	return channelField(in.params.String(ParamSource))
}

func (in *input) ohlcv() *core.Recordset {
	return indicator.NewOHLCV(
		in.channel(core.SuffixOpen),
		in.channel(core.SuffixHigh),
		in.channel(core.SuffixLow),
		in.channel(core.SuffixClose),
		in.channel(core.SuffixVolume),
	)
}

func (in *input) periods() int { return in.params.Int(ParamPeriods) }

func (in *input) maType() indicator.MAType { return in.params.MAType(ParamMAType) }

// chartInterval returns the configured bar interval, or the distance
// between the first two dates.
func (in *input) chartInterval() time.Duration {
	if in.interval > 0 {
		return in.interval
	}
	dates := in.src.DataSeries(core.SuffixDate)
	if dates == nil || dates.Len() < 2 {
		return 0
	}
	first, _ := dates.TimeAt(0)
	second, _ := dates.TimeAt(1)
	return second.Sub(first)
}

// rename moves fields of rs to new names, given as old/new pairs
func rename(rs *core.Recordset, pairs ...string) *core.Recordset {
	if rs == nil {
		return nil
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		rs.RenameField(pairs[i], pairs[i+1])
	}
	return rs
}

func title(short string, params []any) string {
	if len(params) == 0 {
		return short
	}
	parts := make([]string, len(params))
	for i, p := range params {
		if t, ok := p.(indicator.MAType); ok {
			parts[i] = t.String()
			continue
		}
		parts[i] = cast.ToString(p)
	}
	return short + "(" + strings.Join(parts, ", ") + ")"
}

func equalFold(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
