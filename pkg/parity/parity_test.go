package parity

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waveBars(n int) []core.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, n)
	for i := range bars {
		x := float64(i)
		c := 100 + 10*math.Sin(x/5) + 0.1*x
		o := c - math.Cos(x/3)
		bars[i] = core.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   o,
			High:   math.Max(o, c) + 1,
			Low:    math.Min(o, c) - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestRun_DefaultChecks(t *testing.T) {
	report, err := Run(context.Background(), waveBars(200), DefaultTolerance, DefaultChecks(14)...)
	require.NoError(t, err)
	require.Len(t, report.Rows, 7)

	for _, row := range report.Rows {
		assert.Positive(t, row.Compared, row.Name)
		if row.Exact {
			assert.True(t, row.Pass, "%s deviates by %g", row.Name, row.MaxAbsDiff)
		}
	}
	assert.True(t, report.Passed())
	assert.Empty(t, report.Failed())

	atr := report.Rows[6]
	assert.Equal(t, "ATR", atr.Name)
	assert.False(t, atr.Exact)
	assert.Positive(t, atr.MaxAbsDiff)
	assert.Equal(t, "ATR(14)", atr.Series)
}

func TestRun_DetectsDeviation(t *testing.T) {
	check := Check{
		Name: "SMA", Study: study.SimpleMovingAverage, Params: study.Params{study.ParamPeriods: 5}, Exact: true,
		Reference: func(in Inputs) []float64 {
			return append([]float64(nil), in.Close...)
		},
	}

	report, err := Run(context.Background(), waveBars(50), DefaultTolerance, check)
	require.NoError(t, err)
	assert.False(t, report.Passed())
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, 45, report.Rows[0].Compared)
}

func TestRun_UnknownStudy(t *testing.T) {
	_, err := Run(context.Background(), waveBars(10), DefaultTolerance, Check{Name: "bogus", Study: study.ID(86)})
	assert.ErrorIs(t, err, study.ErrUnknownIndicator)
}

func TestNewInputs(t *testing.T) {
	in := NewInputs(waveBars(3))
	assert.Len(t, in.Close, 3)
	assert.Equal(t, 1000.0, in.Volume[2])
	assert.Greater(t, in.High[1], in.Low[1])
}
