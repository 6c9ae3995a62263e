package indicator

import (
	"math"

	"github.com/raykavin/tasdk/pkg/core"
)

// MoneyFlowIndex is a volume weighted RSI of the typical price. Volumes
// below 1 count as 1. Invalid periods yield nil.
func MoneyFlowIndex(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	if periods < 1 || periods > b.count {
		return nil
	}
	out := b.field(alias)
	tp := TypicalPrice(ohlcv, "TP").Field("TP")

	for rec := periods + 2; rec <= b.count+1; rec++ {
		pos, neg := 0.0, 0.0
		for i := rec - periods; i < rec; i++ {
			prev, price := tp.Value(i-1), tp.Value(i)
			v := math.Max(b.volume.Value(i), 1)
			switch {
			case price > prev:
				pos += price * v
			case price < prev:
				neg += price * v
			}
		}
		if truthy(pos) && truthy(neg) {
			out.SetValue(rec-1, 100-100/(1+pos/neg))
		}
	}
	return core.NewRecordset(out)
}

// TradeVolumeIndex adds volume while price rises by more than minTick and
// subtracts it while price falls, keeping the last direction in between.
// The running total is scaled down by 10000 on every bar.
func TradeVolumeIndex(source, volume *core.Field, minTick float64, alias string) *core.Recordset {
	out := newField(source, alias)

	direction, tvi := 0, 0.0
	for rec := 2; rec <= source.RecordCount; rec++ {
		change := source.Value(rec) - source.Value(rec-1)
		switch {
		case change > minTick:
			direction = 1
		case change < -minTick:
			direction = -1
		}
		switch direction {
		case 1:
			tvi += volume.Value(rec)
		case -1:
			tvi -= volume.Value(rec)
		}
		tvi /= 10000
		out.SetValue(rec, tvi)
	}
	return core.NewRecordset(out)
}

// SwingIndex is Wilder's swing index scaled by the limit move. A non
// positive limit yields nil.
func SwingIndex(ohlcv *core.Recordset, limitMove float64, alias string) *core.Recordset {
	if limitMove <= 0 {
		return nil
	}
	b := readBars(ohlcv)
	out := b.field(alias)

	r := 0.0
	for rec := 2; rec <= b.count; rec++ {
		prevOpen, open := b.open.Value(rec-1), b.open.Value(rec)
		high, low := b.high.Value(rec), b.low.Value(rec)
		prevClose, close := b.close.Value(rec-1), b.close.Value(rec)

		hc, lc, hl := math.Abs(high-prevClose), math.Abs(low-prevClose), math.Abs(high-low)
		k := math.Max(hc, lc)
		oc := 0.25 * math.Abs(prevClose-prevOpen)
		switch {
		case hc > lc && hc > hl:
			r = hc - 0.5*lc + oc
		case lc > hc && lc > hl:
			r = lc - 0.5*hc + oc
		case hl > hc && hl > lc:
			r = hl + oc
		}

		value := 0.0
		if r > 0 {
			value = 50 * (close - prevClose + 0.5*(close-open) + 0.25*(prevClose-prevOpen)) / r * k / limitMove
		}
		out.SetValue(rec, value)
	}
	return core.NewRecordset(out)
}

// AccumulativeSwingIndex is the running sum of SwingIndex
func AccumulativeSwingIndex(ohlcv *core.Recordset, limitMove float64, alias string) *core.Recordset {
	si := SwingIndex(ohlcv, limitMove, "SI")
	if si == nil {
		return nil
	}
	raw := si.Field("SI")
	out := newField(raw, alias)
	for rec := 2; rec <= raw.RecordCount; rec++ {
		out.SetValue(rec, raw.Value(rec)+out.Value(rec-1))
	}
	return core.NewRecordset(out)
}

// ComparativeRelativeStrength is source1/source2. A ratio of exactly 1 is
// reported as NullValue.
func ComparativeRelativeStrength(source1, source2 *core.Field, alias string) *core.Recordset {
	out := newField(source1, alias)
	for rec := 1; rec <= source1.RecordCount; rec++ {
		v := source1.Value(rec) / source2.Value(rec)
		if v == 1 {
			v = core.NullValue
		}
		out.SetValue(rec, v)
	}
	return core.NewRecordset(out)
}

// PriceVolumeTrend accumulates volume weighted percent changes, scaled by 1/10000
func PriceVolumeTrend(source, volume *core.Field, alias string) *core.Recordset {
	out := newField(source, alias)
	for rec := 2; rec <= source.RecordCount; rec++ {
		prev := source.Value(rec - 1)
		v := (source.Value(rec)-prev)/prev*volume.Value(rec) + out.Value(rec-1)
		out.SetValue(rec, v/10000)
	}
	return core.NewRecordset(out)
}

// volumeIndex compounds percent price changes on bars selected by take,
// starting from 1.
func volumeIndex(source, volume *core.Field, alias string, take func(v, prev float64) bool) *core.Recordset {
	out := newField(source, alias)
	out.SetValue(1, 1)
	for rec := 2; rec <= source.RecordCount; rec++ {
		last := out.Value(rec - 1)
		if take(volume.Value(rec), volume.Value(rec-1)) {
			prev := source.Value(rec - 1)
			last += (source.Value(rec) - prev) / prev * last
		}
		out.SetValue(rec, last)
	}
	return core.NewRecordset(out)
}

// PositiveVolumeIndex moves only on bars where volume rises
func PositiveVolumeIndex(source, volume *core.Field, alias string) *core.Recordset {
	return volumeIndex(source, volume, alias, func(v, prev float64) bool { return v > prev })
}

// NegativeVolumeIndex moves only on bars where volume falls
func NegativeVolumeIndex(source, volume *core.Field, alias string) *core.Recordset {
	return volumeIndex(source, volume, alias, func(v, prev float64) bool { return v < prev })
}

// Performance is the percent change from the first value
func Performance(source *core.Field, alias string) *core.Recordset {
	out := newField(source, alias)
	first := source.Value(1)
	for rec := 2; rec <= source.RecordCount; rec++ {
		out.SetValue(rec, (source.Value(rec)-first)/first*100)
	}
	return core.NewRecordset(out)
}

// MassIndex sums the ratio of the single and double 9 bar exponential
// averages of the bar range over periods bars. Invalid periods yield nil.
func MassIndex(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	if periods < 1 || periods > b.count {
		return nil
	}
	out := b.field(alias)

	hml := HighMinusLow(ohlcv, "HML").Field("HML")
	ema1 := ExponentialMovingAverage(hml, 9, "EMA").Field("EMA")
	ema2 := ExponentialMovingAverage(ema1, 9, "EMA").Field("EMA")
	for rec := 2*periods + 1; rec <= b.count+1; rec++ {
		sum := 0.0
		for i := rec - periods; i < rec; i++ {
			if e2 := ema2.Value(i); e2 != 0 {
				sum += ema1.Value(i) / e2
			}
		}
		out.SetValue(rec-1, sum)
	}
	return core.NewRecordset(out)
}

// ChaikinMoneyFlow is the money flow volume over total volume across
// periods bars. A bar with no range or a close at the midpoint reuses the
// multiplier of the bar after it.
func ChaikinMoneyFlow(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	for rec := periods + 1; rec <= b.count; rec++ {
		mfm, mfv, sumV := 0.0, 0.0, 0.0
		for n := 0; n < periods; n++ {
			i := rec - n
			close, low, high := b.close.Value(i), b.low.Value(i), b.high.Value(i)
			a, r := close-low-(high-close), high-low
			if a != 0 && r != 0 {
				mfm = a / r
			}
			v := b.volume.Value(i)
			mfv += mfm * v
			sumV += v
		}
		out.SetValue(rec, mfv/sumV)
	}
	return core.NewRecordset(out)
}

// CommodityChannelIndex relates the typical price distance from its simple
// average to the mean deviation. The first 2*periods-1 records are zero.
func CommodityChannelIndex(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	tp := TypicalPrice(ohlcv, "TP").Field("TP")
	tpma := SimpleMovingAverage(tp, periods, "TPMA").Field("TPMA")
	for rec := 2 * periods; rec <= b.count; rec++ {
		mean, dev := tpma.Value(rec), 0.0
		for i := rec - periods + 1; i <= rec; i++ {
			dev += math.Abs(tp.Value(i) - mean)
		}
		dev /= float64(periods)
		out.SetValue(rec, (tp.Value(rec)-mean)/(dev*0.015))
	}
	return core.NewRecordset(out)
}

// StochasticMomentumIndex measures the close against the midpoint of the
// high/low range, both smoothed twice. %D uses dMAType and is only present
// when dPeriods > 1.
func StochasticMomentumIndex(ohlcv *core.Recordset, kPeriods, kSmooth, kDoubleSmooth, dPeriods int, maType, dMAType MAType) *core.Recordset {
	b := readBars(ohlcv)
	k := b.field("%K")
	kSmooth++

	hhv := HHV(b.high, kPeriods, "HHV").Field("HHV")
	llv := LLV(b.low, kPeriods, "LLV").Field("LLV")
	hhll, chhll := b.field("HHLL"), b.field("CHHLL")
	for rec := 1; rec <= b.count; rec++ {
		hhll.SetValue(rec, hhv.Value(rec)-llv.Value(rec))
		chhll.SetValue(rec, b.close.Value(rec)-0.5*(hhv.Value(rec)+llv.Value(rec)))
	}
	for _, periods := range []int{kSmooth, kDoubleSmooth} {
		if periods > 1 {
			chhll = maField(chhll, periods, maType, "CHHLL")
			hhll = maField(hhll, periods, maType, "HHLL")
		}
	}

	value := 0.0
	for rec := kPeriods + 1; rec <= b.count; rec++ {
		a, half := chhll.Value(rec), 0.5*hhll.Value(rec)
		if a != half && truthy(half) {
			value = 100 * a / half
		}
		k.SetValue(rec, value)
	}

	rs := core.NewRecordset()
	if dPeriods > 1 {
		rs.AddField(maField(k, dPeriods, dMAType, "%D"))
	}
	rs.AddField(k)
	return rs
}

// ElderForceIndex is the one bar close change times volume, measured from
// the current bar back to the previous one.
func ElderForceIndex(ohlcv *core.Recordset, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)
	for rec := 2; rec <= b.count; rec++ {
		out.SetValue(rec, (b.close.Value(rec-1)-b.close.Value(rec))*b.volume.Value(rec))
	}
	return core.NewRecordset(out)
}

// ElderThermometer is the larger of the high and low extensions beyond the
// previous bar.
func ElderThermometer(ohlcv *core.Recordset, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)
	for rec := 2; rec <= b.count; rec++ {
		hmh := math.Abs(b.high.Value(rec) - b.high.Value(rec-1))
		lml := math.Abs(b.low.Value(rec-1) - b.low.Value(rec))
		out.SetValue(rec, math.Max(hmh, lml))
	}
	return core.NewRecordset(out)
}

// MarketFacilitationIndex is the bar range per hundred million units of volume
func MarketFacilitationIndex(ohlcv *core.Recordset, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)
	for rec := 2; rec <= b.count; rec++ {
		out.SetValue(rec, (b.high.Value(rec)-b.low.Value(rec))/(b.volume.Value(rec)/100000000))
	}
	return core.NewRecordset(out)
}

// QStick is a moving average of the bar range. An unknown maType yields nil.
func QStick(ohlcv *core.Recordset, periods int, maType MAType, alias string) *core.Recordset {
	rng := HighMinusLow(ohlcv, alias).Field(alias)
	rs := MovingAverageSwitch(rng, periods, maType, alias)
	if rs == nil {
		return nil
	}
	return core.NewRecordset(rs.Field(alias))
}

// GopalakrishnanRangeIndex is log(range over periods)/log(periods). The
// first periods records are zero.
func GopalakrishnanRangeIndex(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	hhv := HHV(b.high, periods, "x").Field("x")
	llv := LLV(b.low, periods, "x").Field("x")
	base := math.Log(float64(periods))
	for rec := periods + 1; rec <= b.count; rec++ {
		out.SetValue(rec, math.Log(hhv.Value(rec)-llv.Value(rec))/base)
	}
	return core.NewRecordset(out)
}

// IntradayMomentumIndex is the cumulative share of up candle bodies in all
// candle bodies.
func IntradayMomentumIndex(ohlcv *core.Recordset, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	up, down := 0.0, 0.0
	for rec := 2; rec <= b.count; rec++ {
		open, close := b.open.Value(rec), b.close.Value(rec)
		if close > open {
			up += close - open
		} else {
			down += open - close
		}
		out.SetValue(rec, 100*(up/(up+down)))
	}
	return core.NewRecordset(out)
}

// vidyaSpread is the percent gap between a short and a long VIDYA. The
// first longCycle records are zero.
func vidyaSpread(source *core.Field, shortCycle, longCycle int, alias string) *core.Recordset {
	out := newField(source, alias)
	short := VIDYA(source, shortCycle, defaultVIDYAScale, "x").Field("x")
	long := VIDYA(source, longCycle, defaultVIDYAScale, "x").Field("x")
	for rec := max(longCycle+1, 1); rec <= source.RecordCount; rec++ {
		l := long.Value(rec)
		out.SetValue(rec, 100*(math.Abs(short.Value(rec)-l)/l))
	}
	return core.NewRecordset(out)
}

// RAVI is the range action verification index
func RAVI(source *core.Field, shortCycle, longCycle int, alias string) *core.Recordset {
	return vidyaSpread(source, shortCycle, longCycle, alias)
}

// TrendIntensityIndex shares the RAVI construction
func TrendIntensityIndex(source *core.Field, shortCycle, longCycle int, alias string) *core.Recordset {
	return vidyaSpread(source, shortCycle, longCycle, alias)
}

// RandomWalkIndex compares the move from the bar periods-1 back with the
// range expected from a random walk. The first 2*periods-1 records are zero.
func RandomWalkIndex(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	high, low := b.field(alias+" High"), b.field(alias+" Low")
	if periods < 2 {
		return core.NewRecordset(high, low)
	}

	tr := TrueRange(ohlcv, "x").Field("x")
	atr := SimpleMovingAverage(tr, periods, "x").Field("x")
	for rec := 2 * periods; rec <= b.count; rec++ {
		n := rec - periods + 1
		scale := atr.Value(n) * math.Sqrt(float64(n))
		high.SetValue(rec, (b.high.Value(rec)-b.low.Value(n))/scale)
		low.SetValue(rec, (b.high.Value(n)-b.low.Value(rec))/scale)
	}
	return core.NewRecordset(high, low)
}

// TwiggsMoneyFlow is the exponentially smoothed true range accumulation
// divided by the smoothed volume. The first periods records are zero.
func TwiggsMoneyFlow(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	ad := b.field(alias)
	for rec := 2; rec <= b.count; rec++ {
		close := b.close.Value(rec)
		th := math.Max(b.high.Value(rec), b.close.Value(rec-1))
		tl := math.Min(b.low.Value(rec), b.close.Value(rec-1))
		ad.SetValue(rec, (close-tl-(th-close))/(th-tl)*b.volume.Value(rec))
	}

	vol := ExponentialMovingAverage(b.volume, periods, "x").Field("x")
	out := ExponentialMovingAverage(ad, periods, alias).Field(alias)
	for rec := 2; rec <= b.count; rec++ {
		out.SetValue(rec, out.Value(rec)/vol.Value(rec))
	}
	for rec := 1; rec <= periods; rec++ {
		out.SetValue(rec, 0)
	}
	return core.NewRecordset(out)
}

// OnBalanceVolume adds volume on up closes and subtracts it on down closes
func OnBalanceVolume(source, volume *core.Field, alias string) *core.Recordset {
	out := newField(source, alias)
	for rec := 2; rec <= source.RecordCount; rec++ {
		v, prev := source.Value(rec), source.Value(rec-1)
		obv := out.Value(rec - 1)
		switch {
		case prev < v:
			obv += volume.Value(rec)
		case v < prev:
			obv -= volume.Value(rec)
		}
		out.SetValue(rec, obv)
	}
	return core.NewRecordset(out)
}

// HistoricalVolatility is the standard deviation of log returns annualised
// by the square root of barHistory.
func HistoricalVolatility(source *core.Field, periods, barHistory int, stdDevs float64, alias string) *core.Recordset {
	returns := newField(source, alias)
	for rec := 2; rec <= source.RecordCount; rec++ {
		returns.SetValue(rec, math.Log(source.Value(rec)/source.Value(rec-1)))
	}

	sd := StandardDeviation(returns, periods, stdDevs, SMA, "STDV").Field("STDV")
	scale := math.Sqrt(float64(barHistory))
	for rec := 2; rec <= source.RecordCount; rec++ {
		returns.SetValue(rec, sd.Value(rec)*scale)
	}
	return core.NewRecordset(returns)
}

// RelativeStrengthIndex is Wilder's RSI. Average gain and loss are seeded
// with the plain mean of the first periods changes; records up to periods+1
// hold NullValue.
func RelativeStrengthIndex(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	n := source.RecordCount
	for rec := 1; rec <= min(periods+1, n); rec++ {
		out.SetValue(rec, core.NullValue)
	}
	if periods < 1 || n < periods+1 {
		return core.NewRecordset(out)
	}

	change := func(rec int) (up, down float64) {
		v, prev := source.Value(rec), source.Value(rec-1)
		if core.IsNull(v) {
			return 0, 0
		}
		switch {
		case v > prev:
			return v - prev, 0
		case v < prev:
			return 0, prev - v
		}
		return 0, 0
	}

	p := float64(periods)
	avgUp, avgDown := 0.0, 0.0
	for rec := 2; rec <= periods+1; rec++ {
		up, down := change(rec)
		avgUp += up
		avgDown += down
	}
	avgUp /= p
	avgDown /= p

	for rec := periods + 2; rec <= n; rec++ {
		up, down := change(rec)
		avgUp = (avgUp*(p-1) + up) / p
		avgDown = (avgDown*(p-1) + down) / p

		denominator := avgDown
		if !truthy(denominator) {
			denominator = avgUp
		}
		out.SetValue(rec, 100-100/(1+avgUp/denominator))
	}
	return core.NewRecordset(out)
}
