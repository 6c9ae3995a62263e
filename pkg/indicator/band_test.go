package indicator

import (
	"testing"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantField(n int, v float64) *core.Field {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return fieldOf("c", values...)
}

func TestBollingerBands(t *testing.T) {
	t.Run("invalid arguments", func(t *testing.T) {
		src := constantField(10, 3)
		assert.Nil(t, BollingerBands(src, 0, 2, SMA))
		assert.Nil(t, BollingerBands(src, 11, 2, SMA))
		assert.Nil(t, BollingerBands(src, 5, -1, SMA))
		assert.Nil(t, BollingerBands(src, 5, 101, SMA))
		assert.Nil(t, BollingerBands(src, 5, 2, MAType(-1)))
	})

	t.Run("constant input collapses", func(t *testing.T) {
		rs := BollingerBands(constantField(20, 3), 5, 2, SMA)
		require.Equal(t, []string{FieldBollingerMedian, FieldBollingerBottom, FieldBollingerTop}, rs.Names())
		for rec := 6; rec <= 20; rec++ {
			assert.Equal(t, 3.0, rs.Value(FieldBollingerTop, rec))
			assert.Equal(t, 3.0, rs.Value(FieldBollingerBottom, rec))
		}
	})

	t.Run("top above bottom", func(t *testing.T) {
		rs := BollingerBands(randomBars(60, 1).Field(FieldClose), 20, 2, SMA)
		for rec := 21; rec <= 60; rec++ {
			assert.Greater(t, rs.Value(FieldBollingerTop, rec), rs.Value(FieldBollingerMedian, rec))
			assert.Less(t, rs.Value(FieldBollingerBottom, rec), rs.Value(FieldBollingerMedian, rec))
		}
	})
}

func TestMovingAverageEnvelope(t *testing.T) {
	assert.Nil(t, MovingAverageEnvelope(constantField(10, 3), 5, SMA, 150))

	rs := MovingAverageEnvelope(constantField(10, 3), 5, SMA, 10)
	require.Equal(t, []string{FieldEnvelopeMedian, FieldEnvelopeTop, FieldEnvelopeBottom}, rs.Names())
	assert.InDelta(t, 3.3, rs.Value(FieldEnvelopeTop, 7), 1e-12)
	assert.InDelta(t, 2.7, rs.Value(FieldEnvelopeBottom, 7), 1e-12)
}

func TestHighLowBands(t *testing.T) {
	ohlcv := randomBars(40, 3)
	high, low, close := ohlcv.Field(FieldHigh), ohlcv.Field(FieldLow), ohlcv.Field(FieldClose)

	assert.Nil(t, HighLowBands(high, low, close, 5))
	assert.Nil(t, HighLowBands(high, low, close, 41))

	rs := HighLowBands(high, low, close, 14)
	assert.Equal(t, []string{FieldHighLowTop, FieldHighLowMedian, FieldHighLowBottom}, rs.Names())
}

func TestKeltner(t *testing.T) {
	rs := Keltner(randomBars(50, 4), 20, 2, EMA, "Keltner")
	require.Equal(t, []string{"Keltner Top", "Keltner Median", "Keltner Bottom"}, rs.Names())
	for rec := 21; rec <= 50; rec++ {
		mid := rs.Value("Keltner Median", rec)
		assert.InDelta(t, mid-rs.Value("Keltner Bottom", rec), rs.Value("Keltner Top", rec)-mid, 1e-9)
	}
}

func TestPrimeNumberBands(t *testing.T) {
	rs := PrimeNumberBands(fieldOf("h", 14, 20), fieldOf("l", 14, 10))
	assert.Equal(t, 17.0, rs.Value(FieldPrimeTop, 1))
	assert.Equal(t, 13.0, rs.Value(FieldPrimeBottom, 1))
	assert.Equal(t, 23.0, rs.Value(FieldPrimeTop, 2))
	assert.Equal(t, 7.0, rs.Value(FieldPrimeBottom, 2))
}

func TestIchimoku(t *testing.T) {
	ohlcv := trendingBars(60)
	rs := Ichimoku(ohlcv, 9, 26, 52)
	require.Equal(t, []string{FieldTenkanSen, FieldKijunSen, FieldChikouSpan, FieldSenkouSpanB, FieldSenkouSpanA}, rs.Names())

	assert.Equal(t, core.NullValue, rs.Value(FieldTenkanSen, 8))
	assert.Equal(t, 5.5, rs.Value(FieldTenkanSen, 9)) // lows 1..9, highs 2..10
	assert.Equal(t, core.NullValue, rs.Value(FieldKijunSen, 25))
	assert.Equal(t, core.NullValue, rs.Value(FieldSenkouSpanA, 25))
	assert.Equal(t, core.NullValue, rs.Value(FieldSenkouSpanB, 51))
	assert.Equal(t, 27.0, rs.Value(FieldSenkouSpanB, 52))

	kijun := rs.Value(FieldKijunSen, 30)
	tenkan := rs.Value(FieldTenkanSen, 30)
	assert.Equal(t, (kijun+tenkan)/2, rs.Value(FieldSenkouSpanA, 30))
	assert.Equal(t, ohlcv.Value(FieldClose, 30), rs.Value(FieldChikouSpan, 30))
}

func TestDarvasBox(t *testing.T) {
	rs := DarvasBox(trendingBars(20), 5)
	assert.Equal(t, core.NullValue, rs.Value(FieldDarvasTop, 4))
	assert.Equal(t, 6.0, rs.Value(FieldDarvasTop, 5))
	assert.Equal(t, 1.0, rs.Value(FieldDarvasBottom, 3))
	assert.Equal(t, 6.0, rs.Value(FieldDarvasBottom, 10))
}

func TestFractalChaosBands(t *testing.T) {
	ohlcv := randomBars(120, 5)
	rs := FractalChaosBands(ohlcv, 20)
	require.Equal(t, []string{FieldFractalHigh, FieldFractalLow}, rs.Names())
	requireIdentical(t, rs, FractalChaosBands(ohlcv, 20))
}
