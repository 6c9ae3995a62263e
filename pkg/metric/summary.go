// Package metric summarizes indicator outputs.
package metric

import (
	"math"
	"slices"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the valid values of one series
type Summary struct {
	Name   string
	Count  int
	Nulls  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Q25    float64
	Median float64
	Q75    float64
}

// Valid drops NaN and null values
func Valid(values []float64) []float64 {
	return lo.Filter(values, func(v float64, _ int) bool {
		return !math.IsNaN(v) && v != core.NullValue
	})
}

// Mean is the arithmetic mean, zero for an empty sample
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev is the sample standard deviation, zero below two values
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Median sorts values in place and returns the middle one
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	slices.Sort(values)
	return stat.Quantile(0.5, stat.Empirical, values, nil)
}

// Summarize describes values, ignoring NaN and null entries
func Summarize(name string, values []float64) Summary {
	valid := Valid(values)
	s := Summary{Name: name, Count: len(valid), Nulls: len(values) - len(valid)}
	if len(valid) == 0 {
		return s
	}

	sorted := slices.Clone(valid)
	slices.Sort(sorted)

	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Mean = Mean(sorted)
	s.StdDev = StdDev(sorted)
	s.Q25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.Q75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return s
}

// SummarizeSeries describes a data series
func SummarizeSeries(ds *core.DataSeries) Summary {
	return Summarize(ds.Name(), ds.Values())
}
