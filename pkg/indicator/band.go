package indicator

import (
	"math"

	"github.com/raykavin/tasdk/pkg/core"
)

// Band field names
const (
	FieldBollingerTop    = "Bollinger Band Top"
	FieldBollingerMedian = "Bollinger Band Median"
	FieldBollingerBottom = "Bollinger Band Bottom"

	FieldEnvelopeTop    = "Envelope Top"
	FieldEnvelopeMedian = "Envelope Median"
	FieldEnvelopeBottom = "Envelope Bottom"

	FieldHighLowTop    = "High Low Bands Top"
	FieldHighLowMedian = "High Low Bands Median"
	FieldHighLowBottom = "High Low Bands Bottom"

	FieldFractalHigh = "Fractal High"
	FieldFractalLow  = "Fractal Low"

	FieldPrimeTop    = "Prime Bands Top"
	FieldPrimeBottom = "Prime Bands Bottom"

	FieldTenkanSen   = "Ichimoku Tenkan Sen"
	FieldKijunSen    = "Ichimoku Kijun Sen"
	FieldChikouSpan  = "Ichimoku Chikou Span"
	FieldSenkouSpanA = "Ichimoku Senkou Span A"
	FieldSenkouSpanB = "Ichimoku Senkou Span B"

	FieldDarvasTop    = "Top Line"
	FieldDarvasBottom = "Bottom Line"
)

// BollingerBands places bands stdDevs population deviations around a moving
// average. Invalid arguments yield nil.
func BollingerBands(source *core.Field, periods int, stdDevs float64, maType MAType) *core.Recordset {
	n := source.RecordCount
	if !maType.Valid() || periods < 1 || periods > n || stdDevs < 0 || stdDevs > 100 {
		return nil
	}

	median := maField(source, periods, maType, FieldBollingerMedian)
	top, bottom := newField(source, FieldBollingerTop), newField(source, FieldBollingerBottom)
	for rec := periods + 1; rec <= n; rec++ {
		mean, sum := median.Value(rec), 0.0
		for i := rec - periods + 1; i <= rec; i++ {
			d := source.Value(i) - mean
			sum += d * d
		}
		shift := stdDevs * math.Sqrt(sum/float64(periods))
		bottom.SetValue(rec, mean-shift)
		top.SetValue(rec, mean+shift)
	}
	return core.NewRecordset(median, bottom, top)
}

// MovingAverageEnvelope shifts a moving average up and down by shift
// percent. Invalid arguments yield nil.
func MovingAverageEnvelope(source *core.Field, periods int, maType MAType, shift float64) *core.Recordset {
	n := source.RecordCount
	if !maType.Valid() || periods < 1 || periods > n || shift < 0 || shift > 100 {
		return nil
	}

	median := maField(source, periods, maType, FieldEnvelopeMedian)
	top, bottom := newField(source, FieldEnvelopeTop), newField(source, FieldEnvelopeBottom)
	ratio := shift / 100
	for rec := 1; rec <= n; rec++ {
		v := median.Value(rec)
		top.SetValue(rec, v+v*ratio)
		bottom.SetValue(rec, v-v*ratio)
	}
	return core.NewRecordset(median, top, bottom)
}

// HighLowBands smooths high and low with VIDYA over periods and close over
// half of it. Periods below 6 or beyond the data yield nil.
func HighLowBands(high, low, close *core.Field, periods int) *core.Recordset {
	if periods < 6 || periods > high.RecordCount {
		return nil
	}
	const scale = 0.8
	return core.NewRecordset(
		VIDYA(high, periods, scale, FieldHighLowTop).Field(FieldHighLowTop),
		VIDYA(close, periods/2, scale, FieldHighLowMedian).Field(FieldHighLowMedian),
		VIDYA(low, periods, scale, FieldHighLowBottom).Field(FieldHighLowBottom),
	)
}

// Keltner surrounds a moving average of the close with factor times the
// simple average true range. STARC bands use the same construction.
func Keltner(ohlcv *core.Recordset, periods int, factor float64, maType MAType, alias string) *core.Recordset {
	b := readBars(ohlcv)
	top, bottom := b.field(alias+" Top"), b.field(alias+" Bottom")

	tr := TrueRange(ohlcv, "atr").Field("atr")
	atr := SimpleMovingAverage(tr, periods, "atr").Field("atr")
	median := maField(b.close, periods, maType, alias+" Median")
	for rec := 1; rec <= b.count; rec++ {
		shift := factor * atr.Value(rec)
		top.SetValue(rec, median.Value(rec)+shift)
		bottom.SetValue(rec, median.Value(rec)-shift)
	}
	return core.NewRecordset(top, median, bottom)
}

// FractalChaosBands step to the high (low) of the middle bar of each five bar
// fractal and hold it until the next one. Zero levels are reported as
// NullValue. Periods below 1 default to 100.
func FractalChaosBands(ohlcv *core.Recordset, periods int) *core.Recordset {
	b := readBars(ohlcv)
	if periods < 1 {
		periods = 100
	}

	lag := func(f *core.Field, rec, back int) float64 {
		if rec < 5 {
			return 0
		}
		return f.Value(rec - back)
	}

	third := b.field(FieldFractalHigh)
	for rec := 1; rec <= b.count; rec++ {
		third.SetValue(rec, (b.high.Value(rec)+b.low.Value(rec))/3)
	}
	hi := SimpleMovingAverage(third, periods, FieldFractalHigh).Field(FieldFractalHigh)
	lo := SimpleMovingAverage(b.field(FieldFractalLow), periods, FieldFractalLow).Field(FieldFractalLow)
	for rec := 1; rec <= b.count; rec++ {
		hi.SetValue(rec, lag(b.high, rec, 2)+hi.Value(rec))
		lo.SetValue(rec, lag(b.low, rec, 2)-lo.Value(rec))
	}

	for rec := 2; rec <= b.count; rec++ {
		h1, h2, h3, h4 := lag(b.high, rec, 4), lag(b.high, rec, 3), lag(b.high, rec, 2), lag(b.high, rec, 1)
		l1, l2, l3, l4 := lag(b.low, rec, 4), lag(b.low, rec, 3), lag(b.low, rec, 2), lag(b.low, rec, 1)

		fractal := 0.0
		if h3 > h1 && h3 > h2 && h3 >= h4 && h3 >= b.high.Value(rec) {
			fractal = hi.Value(rec)
		}
		if !truthy(fractal) && l3 < l1 && l3 < l2 && l3 <= l4 && l3 <= b.low.Value(rec) {
			fractal = lo.Value(rec)
		}

		if hi.Value(rec) == fractal {
			hi.SetValue(rec, h3)
		} else {
			hi.SetValue(rec, hi.Value(rec-1))
		}
		if lo.Value(rec) == fractal {
			lo.SetValue(rec, l3)
		} else {
			lo.SetValue(rec, lo.Value(rec-1))
		}
	}

	for rec := 2; rec <= b.count; rec++ {
		if !truthy(lo.Value(rec)) {
			lo.SetValue(rec, core.NullValue)
		}
		if !truthy(hi.Value(rec)) {
			hi.SetValue(rec, core.NullValue)
		}
	}
	return core.NewRecordset(hi, lo)
}

// PrimeNumberBands bound each bar by the nearest prime at or below the low
// and at or above the high. A bar without a match repeats the previous bound.
func PrimeNumberBands(high, low *core.Field) *core.Recordset {
	top, bottom := newField(high, FieldPrimeTop), newField(high, FieldPrimeBottom)

	t, bt := 0.0, 0.0
	for rec := 1; rec <= high.RecordCount; rec++ {
		v := low.Value(rec)
		for n := v; n > 1; n-- {
			if IsPrime(n) {
				bt = n
				break
			}
		}
		bottom.SetValue(rec, bt)

		v = high.Value(rec)
		for n := v; n < v*2; n++ {
			if IsPrime(n) {
				t = n
				break
			}
		}
		top.SetValue(rec, t)
	}
	return core.NewRecordset(top, bottom)
}

// Ichimoku computes the conversion, base and leading span B lines as the
// midpoint of the high/low range over their periods, span A as the mean of
// conversion and base, and the lagging span as the close. Lines without a
// full window hold NullValue.
func Ichimoku(ohlcv *core.Recordset, conversionPeriods, basePeriods, spanBPeriods int) *core.Recordset {
	b := readBars(ohlcv)
	tenkan, kijun := b.field(FieldTenkanSen), b.field(FieldKijunSen)
	chikou := b.field(FieldChikouSpan)
	spanB, spanA := b.field(FieldSenkouSpanB), b.field(FieldSenkouSpanA)

	for rec := 1; rec <= b.count; rec++ {
		lo, hi := b.low.Value(rec), b.high.Value(rec)
		conv, base, lead := core.NullValue, core.NullValue, core.NullValue
		for i := 0; i < spanBPeriods && rec-i >= 1; i++ {
			lo = math.Min(lo, b.low.Value(rec-i))
			hi = math.Max(hi, b.high.Value(rec-i))
			mid := (lo + hi) / 2
			if i+1 == conversionPeriods {
				conv = mid
			}
			if i+1 == basePeriods {
				base = mid
			}
			if i+1 == spanBPeriods {
				lead = mid
			}
		}

		leadA := core.NullValue
		if !core.IsNull(conv) && !core.IsNull(base) {
			leadA = (conv + base) / 2
		}
		tenkan.SetValue(rec, conv)
		kijun.SetValue(rec, base)
		chikou.SetValue(rec, b.close.Value(rec))
		spanB.SetValue(rec, lead)
		spanA.SetValue(rec, leadA)
	}
	return core.NewRecordset(tenkan, kijun, chikou, spanB, spanA)
}

// DarvasBox tracks the highest high over periods bars as the top line and
// the lowest low over the available part of that window as the bottom line.
func DarvasBox(ohlcv *core.Recordset, periods int) *core.Recordset {
	b := readBars(ohlcv)
	top, bottom := b.field(FieldDarvasTop), b.field(FieldDarvasBottom)

	for rec := 1; rec <= b.count; rec++ {
		lo, hi := b.low.Value(rec), b.high.Value(rec)
		t, bt := core.NullValue, core.NullValue
		for i := 0; i < periods && rec-i >= 1; i++ {
			hi = math.Max(hi, b.high.Value(rec-i))
			lo = math.Min(lo, b.low.Value(rec-i))
			if i+1 == periods {
				t = hi
			}
			bt = lo
		}
		top.SetValue(rec, t)
		bottom.SetValue(rec, bt)
	}
	return core.NewRecordset(top, bottom)
}
