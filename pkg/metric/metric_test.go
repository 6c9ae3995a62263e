package metric

import (
	"math"
	"testing"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	values := []float64{math.NaN(), 4, 1, core.NullValue, 3, 2, 5}

	s := Summarize("RSI(Close, 14)", values)
	assert.Equal(t, "RSI(Close, 14)", s.Name)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 2, s.Nulls)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Mean)
	assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
	assert.Equal(t, 2.0, s.Q25)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Q75)

	// input order is preserved
	assert.Equal(t, 4.0, values[1])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize("x", []float64{math.NaN()})
	assert.Zero(t, s.Count)
	assert.Equal(t, 1, s.Nulls)
	assert.Zero(t, s.Mean)
}

func TestSummarizeSeries(t *testing.T) {
	ds := core.NewDataSeries("SMA(Close, 3)", math.NaN(), 2, 4)
	s := SummarizeSeries(ds)
	assert.Equal(t, "SMA(Close, 3)", s.Name)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 3.0, s.Mean)
}

func TestMeasures(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.Zero(t, StdDev([]float64{1}))
	assert.Zero(t, Median(nil))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
}

func TestBootstrap(t *testing.T) {
	constant := Bootstrap([]float64{2, 2, 2, 2}, Mean, 200, 0.95)
	assert.Equal(t, BootstrapInterval{Lower: 2, Upper: 2, Mean: 2}, constant)

	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	interval := Bootstrap(values, Mean, 500, 0.9)
	assert.LessOrEqual(t, interval.Lower, interval.Mean)
	assert.GreaterOrEqual(t, interval.Upper, interval.Mean)
	assert.InDelta(t, 49.5, interval.Mean, 5)
	assert.Positive(t, interval.StdDev)

	assert.Equal(t, BootstrapInterval{}, Bootstrap(nil, Mean, 10, 0.95))
}
