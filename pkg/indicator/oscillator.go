package indicator

import (
	"math"

	"github.com/raykavin/tasdk/pkg/core"
)

// Volume oscillator output modes
const (
	VolumeOscPoints  = 1
	VolumeOscPercent = 2
)

// ChandeMomentumOscillator compares the sum of gains with the sum of losses
// over periods changes. A window without movement yields NullValue.
func ChandeMomentumOscillator(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	for rec := periods + 2; rec <= source.RecordCount+1; rec++ {
		up, down := 0.0, 0.0
		for i := rec - periods; i < rec; i++ {
			today, yesterday := source.Value(i), source.Value(i-1)
			switch {
			case today > yesterday:
				up += today - yesterday
			case today < yesterday:
				down += yesterday - today
			}
		}

		value := core.NullValue
		if truthy(up + down) {
			value = 100 * (up - down) / (up + down)
		}
		out.SetValue(rec-1, value)
	}
	return core.NewRecordset(out)
}

// TRIX is the one bar percent change of a triple smoothed exponential average
func TRIX(source *core.Field, periods int, alias string) *core.Recordset {
	ema := ExponentialMovingAverage(source, periods, "EMA1").Field("EMA1")
	ema = ExponentialMovingAverage(ema, periods, "EMA2").Field("EMA2")
	ema = ExponentialMovingAverage(ema, periods, "EMA3").Field("EMA3")

	out := newField(source, alias)
	for rec := 2; rec <= source.RecordCount; rec++ {
		prev := ema.Value(rec - 1)
		if truthy(prev) {
			out.SetValue(rec, (ema.Value(rec)-prev)/prev*100)
		}
	}
	return core.NewRecordset(out)
}

// pressure sums buying pressure and true range over count bars starting at from
func (b bars) pressure(from, count int) (bp, tr float64) {
	for i := from; i < from+count; i++ {
		prevClose := b.close.Value(i - 1)
		high, low := b.high.Value(i), b.low.Value(i)

		trueLow := prevClose
		if low < prevClose {
			trueLow = low
		}
		bp += b.close.Value(i) - trueLow

		r := high - low
		if r < high-prevClose {
			r = high - prevClose
		}
		if r < prevClose-low {
			r = prevClose - low
		}
		tr += r
	}
	return bp, tr
}

// UltimateOscillator weights buying pressure over three cycles 4:2:1
func UltimateOscillator(ohlcv *core.Recordset, cycle1, cycle2, cycle3 int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	start := max(cycle1, cycle2, cycle3) + 2
	for rec := start; rec <= b.count+1; rec++ {
		bp1, tr1 := b.pressure(rec-cycle1, cycle1)
		bp2, tr2 := b.pressure(rec-cycle2, cycle2)
		bp3, tr3 := b.pressure(rec-cycle3, cycle3)
		out.SetValue(rec-1, (4*(bp1/tr1)+2*(bp2/tr2)+bp3/tr3)/7*100)
	}
	return core.NewRecordset(out)
}

// VerticalHorizontalFilter is the window range divided by the sum of absolute
// changes. The low seed comes from the newest bar on the first window and from
// the bar before the window end afterwards.
func VerticalHorizontalFilter(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	start := periods + 2
	for rec := start; rec <= source.RecordCount+1; rec++ {
		seed := rec - 1
		if rec == start {
			seed = rec
		}
		hcp, lcp, sum := 0.0, source.Value(seed), 0.0
		for i := rec - periods; i < rec; i++ {
			v := source.Value(i)
			if v < lcp {
				lcp = v
			} else if v > hcp {
				hcp = v
			}
			sum += math.Abs(v - source.Value(i-1))
		}
		out.SetValue(rec-1, math.Abs((hcp-lcp)/sum))
	}
	return core.NewRecordset(out)
}

// WilliamsPctR places the close inside the high/low range of the window,
// scaled from 0 to -100.
func WilliamsPctR(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	start := periods + 2
	for rec := start; rec <= b.count+1; rec++ {
		seed := rec - 1
		if rec == start {
			seed = rec
		}
		hh, ll := 0.0, b.low.Value(seed)
		for i := rec - periods; i < rec; i++ {
			if h := b.high.Value(i); h > hh {
				hh = h
			}
			if l := b.low.Value(i); l < ll {
				ll = l
			}
		}
		out.SetValue(rec-1, (hh-b.close.Value(rec-1))/(hh-ll)*-100)
	}
	return core.NewRecordset(out)
}

// WilliamsAccumulationDistribution accumulates the close distance from the
// true low on up days and from the true high on down days.
func WilliamsAccumulationDistribution(ohlcv *core.Recordset, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	for rec := 2; rec <= b.count; rec++ {
		prevClose, close := b.close.Value(rec-1), b.close.Value(rec)
		trueHigh := math.Max(prevClose, b.high.Value(rec))
		trueLow := math.Min(prevClose, b.low.Value(rec))

		value := 0.0
		switch {
		case close > prevClose:
			value = close - trueLow
		case close < prevClose:
			value = close - trueHigh
		}
		out.SetValue(rec, value+out.Value(rec-1))
	}
	return core.NewRecordset(out)
}

// VolumeOscillator compares a short and a long simple average of volume,
// either in points or in percent of the long average. In percent mode a non
// positive long average repeats the previous value.
func VolumeOscillator(volume *core.Field, shortTerm, longTerm, mode int, alias string) *core.Recordset {
	out := newField(volume, alias)
	short := SimpleMovingAverage(volume, shortTerm, "MA1").Field("MA1")
	long := SimpleMovingAverage(volume, longTerm, "MA2").Field("MA2")

	value := 0.0
	for rec := 1; rec <= volume.RecordCount; rec++ {
		switch mode {
		case VolumeOscPoints:
			value = short.Value(rec) - long.Value(rec)
		case VolumeOscPercent:
			if l := long.Value(rec); l > 0 {
				value = (short.Value(rec) - l) / l * 100
			}
		}
		out.SetValue(rec, value)
	}
	return core.NewRecordset(out)
}

// ChaikinVolatility is the rate of change of the smoothed high-low spread
func ChaikinVolatility(ohlcv *core.Recordset, periods, roc int, maType MAType, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	hl := b.field("HL")
	for rec := 1; rec <= b.count; rec++ {
		hl.SetValue(rec, b.high.Value(rec)-b.low.Value(rec))
	}
	hlma := maField(hl, periods, maType, "HLMA")

	value := 0.0
	for rec := roc + 1; rec <= b.count; rec++ {
		ma1, ma2 := hlma.Value(rec-roc), hlma.Value(rec)
		if truthy(ma1) && truthy(ma2) {
			value = (ma1 - ma2) / ma1 * -100
		}
		out.SetValue(rec, value)
	}
	return core.NewRecordset(out)
}

// StochasticOscillator returns %K and %D. A flat window leaves %K at its
// zero initial value.
func StochasticOscillator(ohlcv *core.Recordset, kPeriods, kSlowing, dPeriods int, maType MAType) *core.Recordset {
	b := readBars(ohlcv)
	k := b.field("%K")

	if kPeriods >= 1 {
		for rec := kPeriods + 2; rec <= b.count+1; rec++ {
			hh, ll := b.high.Value(rec-kPeriods), b.low.Value(rec-kPeriods)
			for i := rec - kPeriods; i < rec; i++ {
				hh = math.Max(hh, b.high.Value(i))
				ll = math.Min(ll, b.low.Value(i))
			}
			if hh == ll {
				continue
			}
			k.SetValue(rec-1, (b.close.Value(rec-1)-ll)/(hh-ll)*100)
		}
	}

	if kSlowing > 1 {
		k = maField(k, kSlowing, maType, "%K")
	}
	rs := core.NewRecordset(k)
	if d := MovingAverageSwitch(k, dPeriods, maType, "%D"); d != nil {
		rs.AddField(d.Field("%D"))
	}
	return rs
}

// PriceOscillator is the percent spread between a short and a long average.
// It is empty unless longCycle exceeds shortCycle.
func PriceOscillator(source *core.Field, longCycle, shortCycle int, maType MAType, alias string) *core.Recordset {
	if longCycle <= shortCycle {
		return core.NewRecordset()
	}

	out := newField(source, alias)
	long := maField(source, longCycle, maType, "MA")
	short := maField(source, shortCycle, maType, "MA")
	for rec := longCycle; rec <= source.RecordCount; rec++ {
		value := 0.0
		if l := long.Value(rec); l != 0 {
			value = (short.Value(rec) - l) / l * 100
		}
		out.SetValue(rec, value)
	}
	return core.NewRecordset(out)
}

// EaseOfMovement relates midpoint movement to volume per unit of range, then
// smooths the result.
func EaseOfMovement(ohlcv *core.Recordset, periods int, maType MAType, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	boxRatio := 0.0
	for rec := 2; rec <= b.count; rec++ {
		high, low := b.high.Value(rec), b.low.Value(rec)
		mpm := (high+low)/2 - (b.high.Value(rec-1)+b.low.Value(rec-1))/2
		if spread := high - low; truthy(spread) {
			boxRatio = b.volume.Value(rec) / spread
		}
		out.SetValue(rec, mpm/boxRatio*10000)
	}

	if rs := MovingAverageSwitch(out, periods, maType, "MA"); rs != nil {
		out = rs.Field("MA").Clone(alias)
	}
	return core.NewRecordset(out)
}

// DetrendedPriceOscillator subtracts an average displaced by periods/2+1 bars
func DetrendedPriceOscillator(source *core.Field, periods int, maType MAType, alias string) *core.Recordset {
	out := newField(source, alias)
	ma := maField(source, periods, maType, "MA")
	shift := periods/2 + 1

	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		out.SetValue(rec, source.Value(rec)-ma.Value(rec-shift))
	}
	return core.NewRecordset(out)
}

// FractalChaosOscillator marks a fractal high with 1 and a fractal low with -1.
// A bar matching both patterns is reported as a low.
func FractalChaosOscillator(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	lag := func(f *core.Field, rec, back int) float64 {
		if rec < 5 {
			return 0
		}
		return f.Value(rec - back)
	}

	for rec := 2; rec <= b.count; rec++ {
		h1, h2, h3, h4 := lag(b.high, rec, 4), lag(b.high, rec, 3), lag(b.high, rec, 2), lag(b.high, rec, 1)
		if h3 > h1 && h3 > h2 && h3 >= h4 && h3 >= b.high.Value(rec) {
			out.SetValue(rec, 1)
		}
		l1, l2, l3, l4 := lag(b.low, rec, 4), lag(b.low, rec, 3), lag(b.low, rec, 2), lag(b.low, rec, 1)
		if l3 < l1 && l3 < l2 && l3 <= l4 && l3 <= b.low.Value(rec) {
			out.SetValue(rec, -1)
		}
	}
	return core.NewRecordset(out)
}

// PrimeNumberOscillator is the distance from each value to its nearest
// prime. Values below 10 are scaled by 10 first.
func PrimeNumberOscillator(source *core.Field, alias string) *core.Recordset {
	out := newField(source, alias)

	top, bottom := 0.0, 0.0
	for rec := 1; rec <= source.RecordCount; rec++ {
		value := source.Value(rec)
		if value < 10 {
			value *= 10
		}
		for n := value; n > 1; n-- {
			if IsPrime(n) {
				bottom = n
				break
			}
		}
		for n := value; n < value*2; n++ {
			if IsPrime(n) {
				top = n
				break
			}
		}

		if math.Abs(value-top) < math.Abs(value-bottom) {
			out.SetValue(rec, value-top)
		} else {
			out.SetValue(rec, value-bottom)
		}
	}
	return core.NewRecordset(out)
}

// ElderRay splits price into bull power (high over average) and bear power
// (average over low). Periods below 1 default to 13.
func ElderRay(ohlcv *core.Recordset, periods int, maType MAType, alias string) *core.Recordset {
	b := readBars(ohlcv)
	if periods < 1 {
		periods = 13
	}
	bull := b.field(alias + " Bull Power")
	bear := b.field(alias + " Bear Power")

	ma := maField(b.close, periods, maType, "ema")
	for rec := periods + 1; rec <= b.count; rec++ {
		bull.SetValue(rec, b.high.Value(rec)-ma.Value(rec))
		bear.SetValue(rec, ma.Value(rec)-b.low.Value(rec))
	}
	return core.NewRecordset(bull, bear)
}

// CenterOfGravity weights recent values more heavily and negates the ratio
func CenterOfGravity(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)

	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		num, den := 0.0, 0.0
		count := 1
		for n := rec - 1; n > rec-periods; n-- {
			v := source.Value(n)
			num += v * float64(count+1)
			den += v
			count++
		}
		out.SetValue(rec, -num/den)
	}
	return core.NewRecordset(out)
}

// CoppockCurve is a 10 bar weighted average of the 14 and 11 bar rates of change
func CoppockCurve(source *core.Field, alias string) *core.Recordset {
	sum := newField(source, alias)
	roc14 := PriceROC(source, 14, "x").Field("x")
	roc11 := PriceROC(source, 11, "x").Field("x")
	for rec := 1; rec <= source.RecordCount; rec++ {
		sum.SetValue(rec, roc14.Value(rec)+roc11.Value(rec))
	}
	return WeightedMovingAverage(sum, 10, alias)
}

// ChandeForecastOscillator is the percent distance between the value and its
// regression forecast. The first periods records are zero.
func ChandeForecastOscillator(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	forecast := TimeSeriesForecast(source, periods, "x").Field("x")

	for rec := 1; rec <= source.RecordCount; rec++ {
		v := source.Value(rec)
		out.SetValue(rec, (v-forecast.Value(rec))/v*100)
	}
	for rec := 1; rec <= periods; rec++ {
		out.SetValue(rec, 0)
	}
	return core.NewRecordset(out)
}

// KlingerVolumeOscillator runs MACD over volume signed by the typical price trend
func KlingerVolumeOscillator(ohlcv *core.Recordset, signalPeriods, longCycle, shortCycle int, maType MAType, alias string) *core.Recordset {
	b := readBars(ohlcv)
	tp := TypicalPrice(ohlcv, "x").Field("x")

	sv := b.field("sv")
	for rec := 2; rec <= b.count; rec++ {
		v := b.volume.Value(rec)
		if tp.Value(rec) < tp.Value(rec-1) {
			v = -v
		}
		sv.SetValue(rec, v)
	}
	return MACD(sv, signalPeriods, longCycle, shortCycle, maType, alias)
}

// PrettyGoodOscillator measures the close distance from its simple average
// in units of averaged true range. The first periods records are zero.
func PrettyGoodOscillator(ohlcv *core.Recordset, periods int, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)

	sma := SimpleMovingAverage(b.close, periods, "x").Field("x")
	tr := TrueRange(ohlcv, "x").Field("x")
	ema := ExponentialMovingAverage(tr, periods, "x").Field("x")
	for rec := 2; rec <= b.count; rec++ {
		if e := ema.Value(rec); e != 0 {
			out.SetValue(rec, (b.close.Value(rec)-sma.Value(rec))/e)
		}
	}
	for rec := 1; rec <= periods; rec++ {
		out.SetValue(rec, 0)
	}
	return core.NewRecordset(out)
}

// Momentum is the value relative to the value periods bars back, centered on 100
func Momentum(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	for rec := periods + 2; rec <= source.RecordCount; rec++ {
		prev := source.Value(rec - periods)
		out.SetValue(rec, 100+(source.Value(rec)-prev)/prev*100)
	}
	return core.NewRecordset(out)
}

// TrueRange is the greatest of the bar range and the gaps to the previous
// close. Record 1 has no previous close and stays zero.
func TrueRange(ohlcv *core.Recordset, alias string) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)
	for rec := 2; rec <= b.count; rec++ {
		high, low, prevClose := b.high.Value(rec), b.low.Value(rec), b.close.Value(rec-1)
		value := 0.0
		for _, v := range []float64{high - low, math.Abs(high - prevClose), math.Abs(prevClose - low)} {
			if v > value {
				value = v
			}
		}
		out.SetValue(rec, value)
	}
	return core.NewRecordset(out)
}

// macdLine is the short average minus the long average
func macdLine(source *core.Field, longCycle, shortCycle int, maType MAType, alias string) *core.Field {
	long := maField(source, longCycle, maType, "MA")
	short := maField(source, shortCycle, maType, "MA")
	line := newField(source, alias)
	for rec := 1; rec <= source.RecordCount; rec++ {
		line.SetValue(rec, short.Value(rec)-long.Value(rec))
	}
	return line
}

// MACD returns the oscillator line under alias and its smoothed signal under
// alias+"Signal".
func MACD(source *core.Field, signalPeriods, longCycle, shortCycle int, maType MAType, alias string) *core.Recordset {
	line := macdLine(source, longCycle, shortCycle, maType, alias)
	signal := maField(line, signalPeriods, maType, "MA").Clone(alias + "Signal")
	return core.NewRecordset(line, signal)
}

// MACDHistogram is the MACD line minus its signal, named alias
func MACDHistogram(source *core.Field, signalPeriods, longCycle, shortCycle int, maType MAType, alias string) *core.Recordset {
	line := macdLine(source, longCycle, shortCycle, maType, alias)
	signal := maField(line, signalPeriods, maType, "MA")

	histogram := newField(source, alias)
	for rec := 1; rec <= source.RecordCount; rec++ {
		histogram.SetValue(rec, line.Value(rec)-signal.Value(rec))
	}
	return core.NewRecordset(histogram)
}
