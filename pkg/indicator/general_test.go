package indicator

import (
	"testing"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHHVAndLLV(t *testing.T) {
	src := fieldOf("c", 1, 5, 2, 3, 4)

	hhv := HHV(src, 2, "HHV").Field("HHV")
	assert.Equal(t, []float64{5, 5, 4}, hhv.Values()[3:])

	llv := LLV(src, 2, "LLV").Field("LLV")
	assert.Equal(t, []float64{1, 2, 2}, llv.Values()[3:])
}

func TestIsPrime(t *testing.T) {
	for _, v := range []float64{2, 3, 5, 7, 11, 13, 29, 97} {
		assert.True(t, IsPrime(v), "%v", v)
	}
	for _, v := range []float64{4, 9, 15, 25, 49, 91, 100} {
		assert.False(t, IsPrime(v), "%v", v)
	}
}

func TestPriceComposites(t *testing.T) {
	ohlcv := NewOHLCV(nil, fieldOf("h", 12), fieldOf("l", 6), fieldOf("c", 9), nil)

	assert.Equal(t, 6.0, HighMinusLow(ohlcv, "x").Value("x", 1))
	assert.Equal(t, 9.0, MedianPrice(ohlcv, "x").Value("x", 1))
	assert.Equal(t, 9.0, TypicalPrice(ohlcv, "x").Value("x", 1))
	assert.Equal(t, 9.0, WeightedClose(ohlcv, "x").Value("x", 1))
}

func TestRateOfChange(t *testing.T) {
	roc := PriceROC(fieldOf("c", 10, 20, 15), 1, "ROC").Field("ROC")
	assert.Equal(t, 100.0, roc.Value(2))
	assert.Equal(t, -25.0, roc.Value(3))

	vroc := VolumeROC(fieldOf("v", 100, 0, 50), 1, "VROC").Field("VROC")
	assert.Equal(t, -100.0, vroc.Value(2))
	assert.Equal(t, -100.0, vroc.Value(3)) // zero base repeats the last value
}

func TestStandardDeviation(t *testing.T) {
	sd := StandardDeviation(constantField(10, 4), 3, 2, SMA, "SD").Field("SD")
	for rec := 4; rec <= 10; rec++ {
		assert.Zero(t, sd.Value(rec))
	}

	sd = StandardDeviation(fieldOf("c", 0, 2, 4, 6), 2, 1, SMA, "SD").Field("SD")
	assert.Equal(t, 1.0, sd.Value(3))
	assert.Equal(t, 1.0, sd.Value(4))
}

func TestCorrelationAnalysis(t *testing.T) {
	flat := constantField(10, 1)
	assert.Equal(t, 1.0, CorrelationAnalysis(flat, flat))
}

func hourlyDates(start time.Time, n int) *core.Field {
	dates := core.NewField(n, "Date")
	for i := 1; i <= n; i++ {
		dates.SetValue(i, core.TimeToValue(start.Add(time.Duration(i-1)*time.Hour)))
	}
	return dates
}

func TestPivotPoints_Daily(t *testing.T) {
	const n = 48
	high, low, close := core.NewField(n, FieldHigh), core.NewField(n, FieldLow), core.NewField(n, FieldClose)
	for i := 1; i <= n; i++ {
		high.SetValue(i, float64(10+i))
		low.SetValue(i, float64(i))
		close.SetValue(i, float64(5+i))
	}
	dates := hourlyDates(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), n)

	rs, err := PivotPoints(NewOHLCV(nil, high, low, close, nil), dates, PivotDaily, time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{FieldPivot, FieldS1, FieldR1, FieldS2, FieldR2, FieldS3, FieldR3}, rs.Names())

	assert.Equal(t, core.NullValue, rs.Value(FieldPivot, 1))
	assert.Equal(t, core.NullValue, rs.Value(FieldPivot, 24))

	// first day: high 34, low 1, last close 29
	pp := 64.0 / 3
	assert.Equal(t, pp, rs.Value(FieldPivot, 25))
	assert.Equal(t, 2*pp-34, rs.Value(FieldS1, 25))
	assert.Equal(t, 2*pp-1, rs.Value(FieldR1, 25))
	assert.Equal(t, pp-33, rs.Value(FieldS2, 25))
	assert.Equal(t, pp+33, rs.Value(FieldR2, 25))
	assert.Equal(t, pp, rs.Value(FieldPivot, 48))
}

func TestPivotPoints_Durations(t *testing.T) {
	ohlcv := randomBars(4, 1)
	dates := hourlyDates(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 4)

	_, err := PivotPoints(ohlcv, dates, PivotDuration("hourly"), time.Hour)
	require.ErrorIs(t, err, ErrUnknownPivotDuration)

	rs, err := PivotPoints(ohlcv, dates, PivotAuto, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, core.NullValue, rs.Value(FieldPivot, 4))

	assert.Equal(t, PivotDaily, autoPivotDuration(5*time.Minute))
	assert.Equal(t, PivotWeekly, autoPivotDuration(time.Hour))
	assert.Equal(t, PivotMonthly, autoPivotDuration(core.Day))
	assert.Equal(t, PivotYearly, autoPivotDuration(core.Week))
}

func TestPeriodChanged(t *testing.T) {
	sunday := time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC)
	monday := sunday.Add(2 * time.Hour)

	assert.True(t, periodChanged(PivotDaily, sunday, monday))
	assert.True(t, periodChanged(PivotWeekly, sunday, monday))
	// weeks run Monday to Sunday, so Sunday closes the week Saturday belongs to
	assert.False(t, periodChanged(PivotWeekly, sunday.AddDate(0, 0, -1), sunday))
	assert.False(t, periodChanged(PivotMonthly, sunday, monday))
	assert.True(t, periodChanged(PivotYearly, sunday, sunday.AddDate(1, 0, 0)))
}

func TestVWAP_ResetsDaily(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	dates := core.NewField(4, "Date")
	for i, offset := range []time.Duration{0, 12 * time.Hour, 24 * time.Hour, 36 * time.Hour} {
		dates.SetValue(i+1, core.TimeToValue(start.Add(offset)))
	}

	vwap := VWAP(fieldOf("tp", 10, 20, 30, 40), fieldOf("v", 1, 3, 1, 1), dates, "VWAP").Field("VWAP")
	assert.Equal(t, 10.0, vwap.Value(1))
	assert.Equal(t, 17.5, vwap.Value(2))
	assert.Equal(t, 30.0, vwap.Value(3))
	assert.Equal(t, 35.0, vwap.Value(4))
}
