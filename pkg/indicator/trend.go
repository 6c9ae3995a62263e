package indicator

import (
	"math"

	"github.com/raykavin/tasdk/pkg/core"
)

// Directional movement field names
const (
	FieldADX     = "ADX"
	FieldADXR    = "ADXR"
	FieldDX      = "DX"
	FieldTRSum   = "TRSum"
	FieldDIMinus = "DI-"
	FieldDIPlus  = "DI+"
)

// Rainbow histogram field names
const (
	FieldHistogramHigh = "Indicator Histogram High"
	FieldHistogramLow  = "Indicator Histogram Low"
)

// ParabolicSAR trails price with a stop that accelerates by minAF on every
// new extreme, up to maxAF, and flips side when price crosses it.
func ParabolicSAR(high, low *core.Field, minAF, maxAF float64, alias string) *core.Recordset {
	out := newField(high, alias)
	if high.RecordCount < 2 {
		return core.NewRecordset(out)
	}

	hi, lo := high.Value(1), low.Value(1)
	position, prevSAR := 1, lo
	if high.Value(2)-high.Value(1) < low.Value(2)-low.Value(1) {
		position, prevSAR = -1, hi
	}
	af, prevAF := minAF, minAF
	prevHi, prevLo := hi, lo

	for rec := 2; rec <= high.RecordCount; rec++ {
		sar := prevSAR
		switch position {
		case 1:
			if h := high.Value(rec); h > hi {
				hi = h
				if af < maxAF {
					af += minAF
				}
			}
			sar = prevSAR + prevAF*(prevHi-prevSAR)
			if l := low.Value(rec); l < sar {
				position, af, sar = -1, minAF, prevHi
				hi, lo = 0, l
			}
		case -1:
			if l := low.Value(rec); l < lo {
				lo = l
				if af < maxAF {
					af += minAF
				}
			}
			sar = prevSAR + prevAF*(prevLo-prevSAR)
			if h := high.Value(rec); h > sar {
				position, af, sar = 1, minAF, prevLo
				lo, hi = 0, h
			}
		}
		prevHi, prevLo, prevSAR, prevAF = hi, lo, sar, af
		out.SetValue(rec, sar)
	}
	return core.NewRecordset(out)
}

// DirectionalMovementSystem returns ADX, ADXR, DX, the smoothed true range
// and both directional indicators. ADX starts at 2*periods with the mean DX
// of the preceding periods bars.
func DirectionalMovementSystem(ohlcv *core.Recordset, periods int) *core.Recordset {
	b := readBars(ohlcv)
	tr := TrueRange(ohlcv, "TR").Field("TR")
	trSum := WellesWilderSmoothing(tr, periods, FieldTRSum).Field(FieldTRSum)

	upDM, downDM := b.field("UpDMI"), b.field("DnDMI")
	for rec := 2; rec <= b.count; rec++ {
		hdif := b.high.Value(rec) - b.high.Value(rec-1)
		ldif := b.low.Value(rec-1) - b.low.Value(rec)
		switch {
		case (hdif < 0 && ldif < 0) || hdif == ldif:
		case hdif > ldif:
			upDM.SetValue(rec, hdif)
		case hdif < ldif:
			downDM.SetValue(rec, ldif)
		}
	}
	upSum := WellesWilderSmoothing(upDM, periods, "DM+Sum").Field("DM+Sum")
	downSum := WellesWilderSmoothing(downDM, periods, "DM-Sum").Field("DM-Sum")

	diPlus, diMinus, dx := b.field(FieldDIPlus), b.field(FieldDIMinus), b.field(FieldDX)
	for rec := 2; rec <= b.count; rec++ {
		plus := 100 * upSum.Value(rec) / trSum.Value(rec)
		minus := 100 * downSum.Value(rec) / trSum.Value(rec)
		diPlus.SetValue(rec, plus)
		diMinus.SetValue(rec, minus)

		spread := math.Abs(math.Trunc(plus - minus))
		if total := plus + minus; spread > 0 && total > 0 {
			dx.SetValue(rec, 100*spread/total)
		}
	}

	adx, adxr := b.field(FieldADX), b.field(FieldADXR)
	if periods >= 1 {
		sum := 0.0
		for rec := periods + 1; rec <= b.count && rec <= 2*periods; rec++ {
			sum += dx.Value(rec)
		}
		p := float64(periods)
		adx.SetValue(2*periods, sum/p)
		for rec := 2*periods + 1; rec <= b.count; rec++ {
			adx.SetValue(rec, (adx.Value(rec-1)*(p-1)+dx.Value(rec))/p)
		}
		for rec := 2*periods + 1; rec <= b.count; rec++ {
			adxr.SetValue(rec, (adx.Value(rec)+adx.Value(rec-1))/2)
		}
	}

	return core.NewRecordset(adx, adxr, dx, trSum, diMinus, diPlus)
}

// Aroon measures how many bars have passed since the highest high and the
// lowest low of the window.
func Aroon(ohlcv *core.Recordset, periods int) *core.Recordset {
	b := readBars(ohlcv)
	up, down, osc := b.field("Aroon Up"), b.field("Aroon Down"), b.field("Aroon Oscillator")
	if periods < 1 {
		return core.NewRecordset(up, down, osc)
	}

	p := float64(periods)
	for rec := periods + 1; rec <= b.count; rec++ {
		hh, ll := b.high.Value(rec), b.low.Value(rec)
		highAt, lowAt := rec, rec
		for i := rec - periods; i < rec; i++ {
			if h := b.high.Value(i); h > hh {
				hh, highAt = h, i
			}
			if l := b.low.Value(i); l < ll {
				ll, lowAt = l, i
			}
		}
		u := (p - float64(rec-highAt)) / p * 100
		d := (p - float64(rec-lowAt)) / p * 100
		up.SetValue(rec, u)
		down.SetValue(rec, d)
		osc.SetValue(rec, u-d)
	}
	return core.NewRecordset(up, down, osc)
}

// RainbowOscillator stacks periods recursive averages of length levels and
// compares their spread and their mean with the ten bar price range.
// Positive histogram values go to FieldHistogramHigh, negative ones to
// FieldHistogramLow.
func RainbowOscillator(source *core.Field, levels int, maType MAType, periods int, highAlias, lowAlias string) *core.Recordset {
	n := source.RecordCount
	values := source.Values()
	hh, ll := newField(source, "HH"), newField(source, "LL")
	for i := max(periods, 1); i < len(values); i++ {
		w := values[max(1, i-10):i]
		if len(w) == 0 {
			continue
		}
		lo, hi := w[0], w[0]
		for _, v := range w[1:] {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		hh.SetValue(i, hi)
		ll.SetValue(i, lo)
	}

	high, low := newField(source, highAlias), newField(source, lowAlias)
	histHigh, histLow := newField(source, FieldHistogramHigh), newField(source, FieldHistogramLow)
	if periods < 1 {
		return core.NewRecordset(high, low, histHigh, histLow)
	}

	xma := make([]*core.Field, periods)
	xma[0] = SimpleMovingAverage(source, levels, "MA").Field("MA")
	for level := 1; level < periods; level++ {
		xma[level] = maField(xma[level-1], levels, maType, "MA")
	}

	for rec := periods; rec <= n; rec++ {
		lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, f := range xma {
			v := f.Value(rec)
			sum += v
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		span := hh.Value(rec) - ll.Value(rec)
		width := 100 * (hi - lo) / span
		high.SetValue(rec, width)
		low.SetValue(rec, -width)

		hist := 100 * (source.Value(rec) - sum/float64(periods)) / span
		if hist >= 0 {
			histHigh.SetValue(rec, hist)
		} else {
			histLow.SetValue(rec, hist)
		}
	}
	return core.NewRecordset(high, low, histHigh, histLow)
}

// EhlerFisherTransform maps the median price position inside its range onto
// a Gaussian like scale. The trigger is the transform delayed by one bar.
func EhlerFisherTransform(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	if periods < 1 {
		periods = 10
	}
	fish, trigger := b.field(alias), b.field(alias+" Trigger")

	price := MedianPrice(ohlcv, "price").Field("price")
	maxH := HHV(price, periods, "maxh").Field("maxh")
	minL := LLV(price, periods, "minl").Field("minl")

	value, prevValue, prevFish := 0.0, 0.0, 0.0
	for rec := 1; rec <= b.count; rec++ {
		mh, ml := maxH.Value(rec), minL.Value(rec)
		value = 0
		if mh != ml {
			value = 0.33*2*((price.Value(rec)-ml)/(mh-ml)-0.5) + 0.67*prevValue
		}
		if value > 0.99 {
			value = 0.999
		}
		if value < -0.99 {
			value = -0.999
		}

		f := 0.5*math.Log((1+value)/(1-value)) + 0.5*prevFish
		fish.SetValue(rec, f)
		trigger.SetValue(rec, prevFish)
		prevValue, prevFish = value, f
	}
	return core.NewRecordset(fish, trigger)
}

// SchaffTrendCycle runs a double stochastic over a fast MACD line, smoothing
// each pass by half.
func SchaffTrendCycle(source *core.Field, periods, shortCycle, longCycle int, maType MAType, alias string) *core.Recordset {
	const factor = 0.5
	n := source.RecordCount

	xmac := MACD(source, 2, longCycle, shortCycle, maType, "x").Field("x")
	lowest := LLV(xmac, periods, "x").Field("x")
	span := HHV(xmac, periods, "x").Field("x")
	for rec := 1; rec <= n; rec++ {
		span.SetValue(rec, span.Value(rec)-lowest.Value(rec))
	}

	frac1, pf := newField(source, "x"), newField(source, "x")
	for rec := 2; rec <= n; rec++ {
		if s := span.Value(rec); s > 0 {
			frac1.SetValue(rec, (xmac.Value(rec)-lowest.Value(rec))/s*100)
		} else {
			frac1.SetValue(rec, frac1.Value(rec-1))
		}
		pf.SetValue(rec, pf.Value(rec-1)+factor*(frac1.Value(rec)-pf.Value(rec-1)))
	}

	pfLowest := LLV(pf, periods, "x").Field("x")
	pfSpan := HHV(pf, periods, "x").Field("x")
	for rec := 1; rec <= n; rec++ {
		pfSpan.SetValue(rec, pfSpan.Value(rec)-pfLowest.Value(rec))
	}

	// the second pass is gated on the MACD span, not the smoothed one
	frac2, pff := newField(source, "x"), newField(source, alias)
	for rec := 2; rec <= n; rec++ {
		if span.Value(rec) > 0 {
			frac2.SetValue(rec, (pf.Value(rec)-pfLowest.Value(rec))/pfSpan.Value(rec)*100)
		} else {
			frac2.SetValue(rec, frac2.Value(rec-1))
		}
		pff.SetValue(rec, pff.Value(rec-1)+factor*(frac2.Value(rec)-pff.Value(rec-1)))
	}
	return core.NewRecordset(pff)
}
