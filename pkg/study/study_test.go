package study

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleBars(n int) []core.Bar {
	bars := make([]core.Bar, n)
	for i := range bars {
		x := float64(i)
		c := 100 + 10*math.Sin(x/5) + 0.1*x
		o := c - math.Cos(x/3)
		bars[i] = core.Bar{
			Time:   epoch.Add(time.Duration(i) * time.Hour),
			Open:   o,
			High:   math.Max(o, c) + 1,
			Low:    math.Min(o, c) - 1,
			Close:  c,
			Volume: 1000 + float64(i%7)*100,
		}
	}
	return bars
}

func closesSource(values ...float64) Source {
	bars := make([]core.Bar, len(values))
	for i, v := range values {
		bars[i] = core.Bar{Time: epoch.Add(time.Duration(i) * time.Hour), Open: v, High: v, Low: v, Close: v, Volume: 1}
	}
	return BarSource(bars)
}

func TestRegistry_CoversEveryID(t *testing.T) {
	ids := IDs()
	require.Len(t, ids, 94)
	assert.Equal(t, SimpleMovingAverage, ids[0])
	assert.Equal(t, ColoredVolume, ids[len(ids)-1])

	for _, id := range ids {
		def := registry[id]
		assert.NotEmpty(t, def.name, "id %d", id)
		assert.NotEmpty(t, def.alias, "id %d", id)
		assert.NotEmpty(t, def.fields, "id %d", id)
		assert.NotNil(t, def.compute, "id %d", id)
	}
	assert.False(t, ID(86).Known())
	assert.Equal(t, 92, int(PivotPoints))
	assert.Equal(t, 87, int(IchimokuCloud))
}

func TestNew_UnknownIndicator(t *testing.T) {
	_, err := New(ID(86))
	require.ErrorIs(t, err, ErrUnknownIndicator)
	assert.EqualError(t, err, "unknown indicator: 86")
}

func TestCalculate_EveryIndicatorWithDefaults(t *testing.T) {
	const n = 150
	src := BarSource(sampleBars(n))

	for _, id := range IDs() {
		t.Run(id.String(), func(t *testing.T) {
			s, err := New(id)
			require.NoError(t, err)

			series, err := s.Calculate(src)
			require.NoError(t, err)
			require.Len(t, series, len(s.Fields()))

			names := map[string]bool{}
			for _, ds := range series {
				assert.False(t, names[ds.Name()], "duplicate series %q", ds.Name())
				names[ds.Name()] = true
				assert.LessOrEqual(t, ds.Len(), n+s.Params().Int(ParamDisplacement))
			}
		})
	}
}

func TestCalculate_SimpleMovingAverage(t *testing.T) {
	s, err := New(SimpleMovingAverage, WithParam(ParamPeriods, "3"))
	require.NoError(t, err)
	assert.Equal(t, 4, s.StartIndex())

	series, err := s.Calculate(closesSource(1, 2, 3, 4, 5))
	require.NoError(t, err)
	require.Len(t, series, 1)

	ds := series[0]
	assert.Equal(t, "SMA(Close, 3)", ds.Name())
	values := ds.Values()
	require.Len(t, values, 5)
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(values[i]), "index %d", i)
	}
	assert.Equal(t, 3.0, values[3])
	assert.Equal(t, 4.0, values[4])
}

func TestCalculate_SeriesNames(t *testing.T) {
	src := BarSource(sampleBars(80))

	cases := []struct {
		id    ID
		opts  []Option
		names []string
	}{
		{
			id: BollingerBands,
			names: []string{
				"Bollinger(Close, 14, 2, Simple).Top",
				"Bollinger(Close, 14, 2, Simple).Median",
				"Bollinger(Close, 14, 2, Simple).Bottom",
			},
		},
		{
			id: MACD,
			names: []string{
				"MACD(Close, 3, 25, 13, Simple)",
				"MACD(Close, 3, 25, 13, Simple).Signal",
				"MACD(Close, 3, 25, 13, Simple).Histogram",
			},
		},
		{
			id:    ParabolicSAR,
			opts:  []Option{WithParam(ParamMaxAF, 0.3)},
			names: []string{"PSAR(0.02, 0.3)"},
		},
		{
			id:    TrueRange,
			names: []string{"True Range"},
		},
		{
			id:    DirectionalMovementSystem,
			names: []string{"Directional Movement System(14).ADX", "Directional Movement System(14).DI+", "Directional Movement System(14).DI-"},
		},
		{
			id:    SuperTrend,
			names: []string{"Supertrend(Close, 14, 3)", "Supertrend(Close, 14, 3).Color"},
		},
		{
			id:    ExponentialMovingAverage,
			opts:  []Option{WithParams(Params{ParamSource: core.SuffixHigh, ParamPeriods: 9.0})},
			names: []string{"EMA(High, 9)"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.id.String(), func(t *testing.T) {
			s, err := New(tc.id, tc.opts...)
			require.NoError(t, err)
			series, err := s.Calculate(src)
			require.NoError(t, err)

			names := make([]string, len(series))
			for i, ds := range series {
				names[i] = ds.Name()
			}
			assert.Equal(t, tc.names, names)
		})
	}
}

func TestCalculate_MACDHistogramMatchesLines(t *testing.T) {
	s, err := New(MACD)
	require.NoError(t, err)
	series, err := s.Calculate(BarSource(sampleBars(120)))
	require.NoError(t, err)

	line, signal, hist := series[0].Values(), series[1].Values(), series[2].Values()
	for i := s.StartIndex(); i < len(hist); i++ {
		assert.InDelta(t, line[i]-signal[i], hist[i], 1e-9)
	}
}

func TestCalculate_UnknownMAType(t *testing.T) {
	s, err := New(BollingerBands, WithParam(ParamMAType, 42))
	require.NoError(t, err)

	_, err = s.Calculate(BarSource(sampleBars(30)))
	assert.ErrorIs(t, err, indicator.ErrUnknownMAType)
}

func TestCalculate_MATypeByName(t *testing.T) {
	s, err := New(MovingAverageEnvelope, WithParam(ParamMAType, "exponential"))
	require.NoError(t, err)

	series, err := s.Calculate(BarSource(sampleBars(30)))
	require.NoError(t, err)
	assert.Equal(t, "MA Env(Close, 14, 5, Exponential).Top", series[0].Name())
}

func TestCalculate_MissingChannel(t *testing.T) {
	m := core.NewDataManager()
	_, err := m.AddDataSeries(core.NewDataSeries(core.SuffixClose, 1, 2, 3), false)
	require.NoError(t, err)

	sma, err := New(SimpleMovingAverage, WithParam(ParamPeriods, 2))
	require.NoError(t, err)
	_, err = sma.Calculate(ManagerSource{Manager: m})
	require.NoError(t, err)

	atr, err := New(AverageTrueRange)
	require.NoError(t, err)
	_, err = atr.Calculate(ManagerSource{Manager: m})
	assert.ErrorIs(t, err, ErrMissingChannel)
}

func TestCalculate_OutOfRangeParamsGiveEmptySeries(t *testing.T) {
	s, err := New(BollingerBands, WithParam(ParamPeriods, 500))
	require.NoError(t, err)

	series, err := s.Calculate(BarSource(sampleBars(30)))
	require.NoError(t, err)
	require.Len(t, series, 3)
	for _, ds := range series {
		assert.Zero(t, ds.Len())
	}
}

func TestCalculate_IchimokuDisplacement(t *testing.T) {
	const n = 100
	bars := sampleBars(n)
	s, err := New(IchimokuCloud)
	require.NoError(t, err)

	series, err := s.Calculate(BarSource(bars))
	require.NoError(t, err)
	byName := map[string]*core.DataSeries{}
	for _, ds := range series {
		byName[ds.Name()] = ds
	}

	prefix := "Ichimoku Kinko Hyo(9, 26, 52, 26)."
	chikou := byName[prefix+"Chikou Span"]
	require.NotNil(t, chikou)
	assert.Equal(t, bars[26].Close, chikou.Values()[0])
	assert.True(t, math.IsNaN(chikou.LastValue()))

	spanA := byName[prefix+"Senkou Span A"]
	require.NotNil(t, spanA)
	assert.Equal(t, n+26, spanA.Len())
	for i := 0; i < 26; i++ {
		assert.True(t, math.IsNaN(spanA.Values()[i]))
	}
}

func TestCalculate_PivotPointsDuration(t *testing.T) {
	s, err := New(PivotPoints, WithParam(ParamDuration, "hourly"))
	require.NoError(t, err)
	_, err = s.Calculate(BarSource(sampleBars(48)))
	assert.ErrorIs(t, err, indicator.ErrUnknownPivotDuration)

	s, err = New(PivotPoints, WithParam(ParamDuration, "daily"), WithInterval(time.Hour))
	require.NoError(t, err)
	series, err := s.Calculate(BarSource(sampleBars(48)))
	require.NoError(t, err)
	require.Len(t, series, 7)
	assert.Equal(t, "Pivot Points(daily)", series[0].Name())
	assert.Equal(t, "Pivot Points(daily).S1", series[1].Name())
	assert.False(t, math.IsNaN(series[0].LastValue()))
}

func TestCalculate_ColoredVolume(t *testing.T) {
	bars := []core.Bar{
		{Time: epoch, Open: 10, Close: 11, High: 12, Low: 9, Volume: 100},
		{Time: epoch.Add(time.Hour), Open: 11, Close: 10, High: 12, Low: 9, Volume: 200},
	}
	s, err := New(ColoredVolume)
	require.NoError(t, err)

	series, err := s.Calculate(BarSource(bars))
	require.NoError(t, err)
	assert.Equal(t, "Colored Volume.Volume", series[0].Name())
	assert.Equal(t, []float64{100, 200}, []float64(series[0].Values()))
	assert.Equal(t, []float64{1, 0}, []float64(series[1].Values()))
}

func TestCalculate_TrendWarmUpIsTwicePeriods(t *testing.T) {
	const periods = 14
	src := BarSource(sampleBars(60))

	for _, id := range []ID{DirectionalMovementSystem, Aroon, AroonOscillator} {
		t.Run(id.String(), func(t *testing.T) {
			s, err := New(id, WithParam(ParamPeriods, periods))
			require.NoError(t, err)
			assert.Equal(t, 2*periods, s.StartIndex())

			series, err := s.Calculate(src)
			require.NoError(t, err)

			values := series[0].Values()
			require.Len(t, values, 60)
			for i := 0; i < 2*periods-1; i++ {
				assert.True(t, math.IsNaN(values[i]), "%s[%d] = %v", series[0].Name(), i, values[i])
			}
			for i := 2*periods - 1; i < len(values); i++ {
				assert.False(t, math.IsNaN(values[i]), "%s[%d]", series[0].Name(), i)
			}
		})
	}
}

func TestCalculate_AverageTrueRangeHidesPartialWindow(t *testing.T) {
	const periods = 5
	bars := sampleBars(30)

	s, err := New(AverageTrueRange, WithParam(ParamPeriods, periods))
	require.NoError(t, err)
	series, err := s.Calculate(BarSource(bars))
	require.NoError(t, err)
	values := series[0].Values()

	// the first record has no previous close, so the window covering it stays hidden
	for i := 0; i < periods; i++ {
		assert.True(t, math.IsNaN(values[i]), "index %d", i)
	}

	trueRange := func(i int) float64 {
		b, prev := bars[i], bars[i-1].Close
		return math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prev), math.Abs(prev-b.Low)))
	}
	for i := periods; i < len(bars); i++ {
		sum := 0.0
		for j := i - periods + 1; j <= i; j++ {
			sum += trueRange(j)
		}
		assert.InDelta(t, sum/periods, values[i], 1e-9, "index %d", i)
	}
}

func TestLookup(t *testing.T) {
	id, ok := Lookup("rsi")
	require.True(t, ok)
	assert.Equal(t, RelativeStrengthIndex, id)

	id, ok = Lookup("Bollinger Bands")
	require.True(t, ok)
	assert.Equal(t, BollingerBands, id)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestParams_Coercion(t *testing.T) {
	p := Params{"a": "14", "b": 2.5, "c": indicator.EMA, "d": "Welles Wilder", "e": 7}
	assert.Equal(t, 14, p.Int("a"))
	assert.Equal(t, 2.5, p.Float("b"))
	assert.Equal(t, indicator.EMA, p.MAType("c"))
	assert.Equal(t, indicator.WWS, p.MAType("d"))
	assert.Equal(t, indicator.WMA, p.MAType("e"))
	assert.Zero(t, p.Int("missing"))

	clone := p.Clone()
	clone["a"] = 1
	assert.Equal(t, "14", p["a"])
}

func TestRunner_KeepsOrder(t *testing.T) {
	src := BarSource(sampleBars(100))
	var studies []*Study
	for _, id := range []ID{RelativeStrengthIndex, BollingerBands, MACD, Volume} {
		s, err := New(id)
		require.NoError(t, err)
		studies = append(studies, s)
	}

	var done atomic.Int32
	r := NewRunner(nil, 2)
	r.OnDone = func(*Study) { done.Add(1) }

	results, err := r.Run(context.Background(), src, studies...)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, int32(4), done.Load())
	for i, res := range results {
		assert.Same(t, studies[i], res.Study)
		assert.Len(t, res.Series, len(studies[i].Fields()))
	}
}

func TestCalculateAll_StopsOnError(t *testing.T) {
	bad, err := New(QStick, WithParam(ParamMAType, 99))
	require.NoError(t, err)
	good, err := New(SimpleMovingAverage)
	require.NoError(t, err)

	_, err = CalculateAll(context.Background(), BarSource(sampleBars(40)), good, bad)
	assert.ErrorIs(t, err, indicator.ErrUnknownMAType)
}
