package indicator

import (
	"testing"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleMovingAverage(t *testing.T) {
	sma := SimpleMovingAverage(fieldOf("c", 1, 2, 3, 4, 5), 3, "SMA").Field("SMA")

	assert.Equal(t, 0.0, sma.Value(2))
	assert.Equal(t, 2.0, sma.Value(3))
	assert.Equal(t, 3.0, sma.Value(4))
	assert.Equal(t, 4.0, sma.Value(5))
	assert.Equal(t, core.NullValue, sma.Value(6))
}

func TestExponentialMovingAverage(t *testing.T) {
	ema := ExponentialMovingAverage(fieldOf("c", 2, 4, 6, 8, 10), 3, "EMA").Field("EMA")

	// seed is the mean of the first three values
	assert.Equal(t, 4.0, ema.Value(3))
	assert.Equal(t, 6.0, ema.Value(4))
	assert.Equal(t, 8.0, ema.Value(5))

	t.Run("periods beyond data", func(t *testing.T) {
		ema := ExponentialMovingAverage(fieldOf("c", 1, 2), 5, "EMA").Field("EMA")
		assert.Equal(t, []float64{0, 0, 0}, ema.Values())
	})
}

func TestWeightedMovingAverage(t *testing.T) {
	wma := WeightedMovingAverage(fieldOf("c", 1, 2, 3, 4, 5), 3, "WMA").Field("WMA")
	assert.InDelta(t, 20.0/6, wma.Value(4), 1e-12)
	assert.InDelta(t, 26.0/6, wma.Value(5), 1e-12)
}

func TestWellesWilderSmoothing(t *testing.T) {
	wws := WellesWilderSmoothing(fieldOf("c", 10, 10, 10), 2, "WWS").Field("WWS")
	assert.Equal(t, 5.0, wws.Value(2))
	assert.Equal(t, 7.5, wws.Value(3))
}

func TestTriangularMovingAverage_ConstantInput(t *testing.T) {
	for _, periods := range []int{4, 5} {
		tma := TriangularMovingAverage(fieldOf("c", 3, 3, 3, 3, 3, 3, 3, 3, 3, 3), periods, "TMA").Field("TMA")
		for rec := 2 * periods; rec <= 10; rec++ {
			assert.InDelta(t, 3.0, tma.Value(rec), 1e-12, "periods %d rec %d", periods, rec)
		}
	}
}

func TestRegression_Line(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 2*float64(i+1) + 1
	}
	rs := Regression(fieldOf("c", values...), 5)

	assert.Equal(t, []string{FieldSlope, FieldIntercept, FieldForecast, FieldRSquared}, rs.Names())
	assert.Equal(t, 0.0, rs.Value(FieldSlope, 5))
	for rec := 6; rec <= 20; rec++ {
		assert.InDelta(t, 2.0, rs.Value(FieldSlope, rec), 1e-9)
		assert.InDelta(t, 1.0, rs.Value(FieldRSquared, rec), 1e-9)
	}

	tsf := TimeSeriesForecast(fieldOf("c", values...), 5, "TSF")
	assert.Equal(t, []string{"TSF"}, tsf.Names())
	assert.Equal(t, rs.Value(FieldForecast, 10), tsf.Value("TSF", 10))
}

func TestMovingAverage_UnknownType(t *testing.T) {
	src := fieldOf("c", 1, 2, 3)

	assert.Nil(t, MovingAverageSwitch(src, 2, MAType(42), "MA"))

	_, err := MovingAverage(src, 2, MAType(42), "MA")
	require.ErrorIs(t, err, ErrUnknownMAType)

	rs, err := MovingAverage(src, 2, SMA, "MA")
	require.NoError(t, err)
	assert.True(t, rs.Has("MA"))
}

func TestMovingAverageSwitch_AllTypes(t *testing.T) {
	close := randomBars(120, 7).Field(FieldClose)
	for maType := SMA; maType <= WMA; maType++ {
		t.Run(maType.String(), func(t *testing.T) {
			rs := MovingAverageSwitch(close, 14, maType, "MA")
			require.NotNil(t, rs)
			require.True(t, rs.Has("MA"))
			assert.Equal(t, close.RecordCount, rs.Field("MA").RecordCount)
			requireIdentical(t, rs, MovingAverageSwitch(close, 14, maType, "MA"))
		})
	}
}
