// Package parity cross-checks study outputs against go-talib.
package parity

import (
	"context"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/study"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

// DefaultTolerance is the largest deviation an exact check accepts
const DefaultTolerance = 1e-8

// Inputs are the bar columns handed to reference functions
type Inputs struct {
	Open, High, Low, Close, Volume []float64
}

// NewInputs splits bars into columns
func NewInputs(bars []core.Bar) Inputs {
	column := func(get func(core.Bar) float64) []float64 {
		return lo.Map(bars, func(b core.Bar, _ int) float64 { return get(b) })
	}
	return Inputs{
		Open:   column(func(b core.Bar) float64 { return b.Open }),
		High:   column(func(b core.Bar) float64 { return b.High }),
		Low:    column(func(b core.Bar) float64 { return b.Low }),
		Close:  column(func(b core.Bar) float64 { return b.Close }),
		Volume: column(func(b core.Bar) float64 { return b.Volume }),
	}
}

// Check pairs a study with its go-talib counterpart
type Check struct {
	Name      string
	Study     study.ID
	Params    study.Params
	Reference func(Inputs) []float64

	// Exact checks fail the report when they exceed the tolerance. Others
	// are computed differently on purpose and only reported.
	Exact bool
}

// Row is the outcome of one check
type Row struct {
	Name        string
	Series      string
	Compared    int
	MaxAbsDiff  float64
	MeanAbsDiff float64
	Exact       bool
	Pass        bool
}

// Report collects every row of a run
type Report struct {
	Tolerance float64
	Rows      []Row
}

// Passed reports whether every exact check passed
func (r Report) Passed() bool {
	return lo.EveryBy(r.Rows, func(row Row) bool { return !row.Exact || row.Pass })
}

// Failed lists the exact checks above the tolerance
func (r Report) Failed() []Row {
	return lo.Filter(r.Rows, func(row Row, _ int) bool { return row.Exact && !row.Pass })
}

// DefaultChecks covers the studies with a direct go-talib equivalent
func DefaultChecks(periods int) []Check {
	p := study.Params{study.ParamPeriods: periods}
	return []Check{
		{
			Name: "SMA", Study: study.SimpleMovingAverage, Params: p, Exact: true,
			Reference: func(in Inputs) []float64 { return talib.Sma(in.Close, periods) },
		},
		{
			Name: "EMA", Study: study.ExponentialMovingAverage, Params: p, Exact: true,
			Reference: func(in Inputs) []float64 { return talib.Ema(in.Close, periods) },
		},
		{
			Name: "WMA", Study: study.WeightedMovingAverage, Params: p, Exact: true,
			Reference: func(in Inputs) []float64 { return talib.Wma(in.Close, periods) },
		},
		{
			Name: "TRANGE", Study: study.TrueRange, Exact: true,
			Reference: func(in Inputs) []float64 { return talib.TRange(in.High, in.Low, in.Close) },
		},
		{
			// the momentum oscillator is ROC shifted to center on 100
			Name: "MOM", Study: study.MomentumOscillator, Params: p, Exact: true,
			Reference: func(in Inputs) []float64 {
				roc := talib.Roc(in.Close, periods)
				for i := periods; i < len(roc); i++ {
					roc[i] += 100
				}
				return roc
			},
		},
		{
			Name: "RSI", Study: study.RelativeStrengthIndex, Params: p, Exact: true,
			Reference: func(in Inputs) []float64 { return talib.Rsi(in.Close, periods) },
		},
		{
			// simple average of the true range against Wilder smoothing
			Name: "ATR", Study: study.AverageTrueRange, Params: p,
			Reference: func(in Inputs) []float64 { return talib.Atr(in.High, in.Low, in.Close, periods) },
		},
	}
}

// Run calculates every check over bars and measures its deviation from
// go-talib. Indices where the study has no value are skipped.
func Run(ctx context.Context, bars []core.Bar, tolerance float64, checks ...Check) (Report, error) {
	report := Report{Tolerance: tolerance}

	studies := make([]*study.Study, len(checks))
	for i, check := range checks {
		s, err := study.New(check.Study, study.WithParams(check.Params))
		if err != nil {
			return report, fmt.Errorf("%s: %w", check.Name, err)
		}
		studies[i] = s
	}

	results, err := study.CalculateAll(ctx, study.BarSource(bars), studies...)
	if err != nil {
		return report, err
	}

	in := NewInputs(bars)
	for i, check := range checks {
		series := results[i].Series
		if len(series) == 0 {
			return report, fmt.Errorf("%s: study produced no output", check.Name)
		}
		row := compare(series[0], check.Reference(in), tolerance)
		row.Name = check.Name
		row.Exact = check.Exact
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

func compare(ds *core.DataSeries, reference []float64, tolerance float64) Row {
	row := Row{Series: ds.Name()}

	var got, want []float64
	for i, v := range ds.Values() {
		if i >= len(reference) || math.IsNaN(v) {
			continue
		}
		got = append(got, v)
		want = append(want, reference[i])
	}

	row.Compared = len(got)
	if row.Compared > 0 {
		row.MaxAbsDiff = floats.Distance(got, want, math.Inf(1))
		row.MeanAbsDiff = floats.Distance(got, want, 1) / float64(row.Compared)
	}
	row.Pass = row.Compared > 0 && row.MaxAbsDiff <= tolerance
	return row
}
