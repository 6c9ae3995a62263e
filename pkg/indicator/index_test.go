package indicator

import (
	"testing"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeStrengthIndex(t *testing.T) {
	close := randomBars(100, 4).Field(FieldClose)
	rsi := RelativeStrengthIndex(close, 14, "RSI").Field("RSI")

	for rec := 1; rec <= 15; rec++ {
		assert.Equal(t, core.NullValue, rsi.Value(rec), "rec %d", rec)
	}
	for rec := 16; rec <= 100; rec++ {
		v := rsi.Value(rec)
		assert.Greater(t, v, 0.0)
		assert.Less(t, v, 100.0)
	}

	t.Run("seeded with the mean change", func(t *testing.T) {
		// gains 1, 1 seed avgUp at 1; then a loss of 1 and a gain of 1
		rsi := RelativeStrengthIndex(fieldOf("c", 1, 2, 3, 2, 3), 2, "RSI").Field("RSI")
		assert.Equal(t, core.NullValue, rsi.Value(3))
		assert.InDelta(t, 50.0, rsi.Value(4), 1e-12)
		assert.InDelta(t, 75.0, rsi.Value(5), 1e-12)
	})

	t.Run("too short", func(t *testing.T) {
		rsi := RelativeStrengthIndex(fieldOf("c", 1, 2, 3), 14, "RSI").Field("RSI")
		for rec := 1; rec <= 3; rec++ {
			assert.Equal(t, core.NullValue, rsi.Value(rec))
		}
	})
}

func TestOnBalanceVolume(t *testing.T) {
	obv := OnBalanceVolume(fieldOf("c", 1, 2, 1, 1), fieldOf("v", 10, 20, 30, 40), "OBV").Field("OBV")
	assert.Equal(t, []float64{0, 0, 20, -10, -10}, obv.Values())
}

func TestMoneyFlowIndex_InvalidPeriods(t *testing.T) {
	ohlcv := randomBars(20, 1)
	assert.Nil(t, MoneyFlowIndex(ohlcv, 0, "MFI"))
	assert.Nil(t, MoneyFlowIndex(ohlcv, 21, "MFI"))

	mfi := MoneyFlowIndex(ohlcv, 14, "MFI").Field("MFI")
	for rec := 15; rec <= 20; rec++ {
		assert.GreaterOrEqual(t, mfi.Value(rec), 0.0)
		assert.LessOrEqual(t, mfi.Value(rec), 100.0)
	}
}

func TestNilOnInvalidArguments(t *testing.T) {
	ohlcv := randomBars(30, 2)
	assert.Nil(t, MassIndex(ohlcv, 0, "MI"))
	assert.Nil(t, MassIndex(ohlcv, 31, "MI"))
	assert.Nil(t, SwingIndex(ohlcv, 0, "SI"))
	assert.Nil(t, AccumulativeSwingIndex(ohlcv, -1, "ASI"))
	assert.Nil(t, QStick(ohlcv, 5, MAType(99), "QS"))
}

func TestAccumulativeSwingIndex_SumsSwingIndex(t *testing.T) {
	ohlcv := randomBars(50, 6)
	si := SwingIndex(ohlcv, 10, "SI").Field("SI")
	asi := AccumulativeSwingIndex(ohlcv, 10, "ASI").Field("ASI")

	sum := 0.0
	for rec := 2; rec <= 50; rec++ {
		sum += si.Value(rec)
		assert.InDelta(t, sum, asi.Value(rec), 1e-9)
	}
}

func TestComparativeRelativeStrength(t *testing.T) {
	crs := ComparativeRelativeStrength(fieldOf("a", 2, 3, 4), fieldOf("b", 1, 3, 8), "CRS").Field("CRS")
	assert.Equal(t, 2.0, crs.Value(1))
	assert.Equal(t, core.NullValue, crs.Value(2))
	assert.Equal(t, 0.5, crs.Value(3))
}

func TestVolumeIndices(t *testing.T) {
	close := fieldOf("c", 10, 11, 12, 6)
	volume := fieldOf("v", 100, 200, 150, 300)

	pvi := PositiveVolumeIndex(close, volume, "PVI").Field("PVI")
	assert.InDelta(t, 1.1, pvi.Value(2), 1e-12)
	assert.InDelta(t, 1.1, pvi.Value(3), 1e-12)
	assert.InDelta(t, 0.55, pvi.Value(4), 1e-12)

	nvi := NegativeVolumeIndex(close, volume, "NVI").Field("NVI")
	assert.Equal(t, 1.0, nvi.Value(2))
	assert.InDelta(t, 12.0/11, nvi.Value(3), 1e-12)
	assert.InDelta(t, 12.0/11, nvi.Value(4), 1e-12)
}

func TestPerformance(t *testing.T) {
	perf := Performance(fieldOf("c", 50, 75, 25), "P").Field("P")
	assert.Equal(t, 50.0, perf.Value(2))
	assert.Equal(t, -50.0, perf.Value(3))
}

func TestStochasticMomentumIndex_FieldOrder(t *testing.T) {
	ohlcv := randomBars(80, 8)

	rs := StochasticMomentumIndex(ohlcv, 13, 25, 2, 9, EMA, EMA)
	assert.Equal(t, []string{"%D", "%K"}, rs.Names())

	rs = StochasticMomentumIndex(ohlcv, 13, 25, 2, 1, EMA, EMA)
	assert.Equal(t, []string{"%K"}, rs.Names())
}

func TestCommodityChannelIndex_Warmup(t *testing.T) {
	cci := CommodityChannelIndex(randomBars(60, 12), 10, "CCI").Field("CCI")
	for rec := 1; rec < 20; rec++ {
		assert.Zero(t, cci.Value(rec))
	}
	assert.NotZero(t, cci.Value(20))
}

func TestRandomWalkIndex(t *testing.T) {
	rs := RandomWalkIndex(randomBars(40, 13), 8, "RWI")
	require.Equal(t, []string{"RWI High", "RWI Low"}, rs.Names())
	assert.Zero(t, rs.Value("RWI High", 15))
	assert.NotZero(t, rs.Value("RWI High", 16))

	short := RandomWalkIndex(randomBars(40, 13), 1, "RWI")
	assert.Zero(t, short.Value("RWI High", 40))
}

func TestElderIndices(t *testing.T) {
	ohlcv := NewOHLCV(nil,
		fieldOf("h", 10, 12),
		fieldOf("l", 8, 7),
		fieldOf("c", 9, 11),
		fieldOf("v", 100, 50),
	)
	assert.Equal(t, -100.0, ElderForceIndex(ohlcv, "EFI").Value("EFI", 2))
	assert.Equal(t, 2.0, ElderThermometer(ohlcv, "ET").Value("ET", 2))
}

func TestIndices_Idempotent(t *testing.T) {
	ohlcv := randomBars(150, 21)
	close, volume := ohlcv.Field(FieldClose), ohlcv.Field(FieldVolume)

	runs := map[string]func() *core.Recordset{
		"tvi":      func() *core.Recordset { return TradeVolumeIndex(close, volume, 0.25, "TVI") },
		"pvt":      func() *core.Recordset { return PriceVolumeTrend(close, volume, "PVT") },
		"mass":     func() *core.Recordset { return MassIndex(ohlcv, 25, "MI") },
		"cmf":      func() *core.Recordset { return ChaikinMoneyFlow(ohlcv, 20, "CMF") },
		"mfi":      func() *core.Recordset { return MarketFacilitationIndex(ohlcv, "MFI") },
		"qstick":   func() *core.Recordset { return QStick(ohlcv, 14, SMA, "QS") },
		"gapo":     func() *core.Recordset { return GopalakrishnanRangeIndex(ohlcv, 5, "GAPO") },
		"imi":      func() *core.Recordset { return IntradayMomentumIndex(ohlcv, "IMI") },
		"ravi":     func() *core.Recordset { return RAVI(close, 7, 65, "RAVI") },
		"tii":      func() *core.Recordset { return TrendIntensityIndex(close, 7, 65, "TII") },
		"twiggs":   func() *core.Recordset { return TwiggsMoneyFlow(ohlcv, 21, "TMF") },
		"hv":       func() *core.Recordset { return HistoricalVolatility(close, 30, 365, 2, "HV") },
		"smi":      func() *core.Recordset { return StochasticMomentumIndex(ohlcv, 13, 25, 2, 9, EMA, SMA) },
		"rsi":      func() *core.Recordset { return RelativeStrengthIndex(close, 14, "RSI") },
		"swing":    func() *core.Recordset { return SwingIndex(ohlcv, 5, "SI") },
		"rwi":      func() *core.Recordset { return RandomWalkIndex(ohlcv, 14, "RWI") },
		"cci":      func() *core.Recordset { return CommodityChannelIndex(ohlcv, 20, "CCI") },
		"elderRay": func() *core.Recordset { return ElderRay(ohlcv, 13, SMA, "ER") },
	}
	for name, run := range runs {
		t.Run(name, func(t *testing.T) {
			requireIdentical(t, run(), run())
		})
	}
}
