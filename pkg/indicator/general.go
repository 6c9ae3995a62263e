package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
)

// PivotDuration selects how often pivot points are recomputed
type PivotDuration string

const (
	PivotDaily   PivotDuration = "daily"
	PivotWeekly  PivotDuration = "weekly"
	PivotMonthly PivotDuration = "monthly"
	PivotYearly  PivotDuration = "yearly"
	PivotAuto    PivotDuration = "auto"
)

// Pivot point field names
const (
	FieldPivot = "Pivot Points"
	FieldS1    = "S1"
	FieldS2    = "S2"
	FieldS3    = "S3"
	FieldR1    = "R1"
	FieldR2    = "R2"
	FieldR3    = "R3"
)

// priceComposite maps every bar through fn
func priceComposite(ohlcv *core.Recordset, alias string, fn func(b bars, rec int) float64) *core.Recordset {
	b := readBars(ohlcv)
	out := b.field(alias)
	for rec := 1; rec <= b.count; rec++ {
		out.SetValue(rec, fn(b, rec))
	}
	return core.NewRecordset(out)
}

// HighMinusLow is the bar range
func HighMinusLow(ohlcv *core.Recordset, alias string) *core.Recordset {
	return priceComposite(ohlcv, alias, func(b bars, rec int) float64 {
		return b.high.Value(rec) - b.low.Value(rec)
	})
}

// MedianPrice is (high+low)/2
func MedianPrice(ohlcv *core.Recordset, alias string) *core.Recordset {
	return priceComposite(ohlcv, alias, func(b bars, rec int) float64 {
		return (b.high.Value(rec) + b.low.Value(rec)) / 2
	})
}

// TypicalPrice is (high+low+close)/3
func TypicalPrice(ohlcv *core.Recordset, alias string) *core.Recordset {
	return priceComposite(ohlcv, alias, func(b bars, rec int) float64 {
		return (b.high.Value(rec) + b.low.Value(rec) + b.close.Value(rec)) / 3
	})
}

// WeightedClose is (high+low+2*close)/4
func WeightedClose(ohlcv *core.Recordset, alias string) *core.Recordset {
	return priceComposite(ohlcv, alias, func(b bars, rec int) float64 {
		return (b.high.Value(rec) + b.low.Value(rec) + b.close.Value(rec)*2) / 4
	})
}

// VolumeROC is the percent change of volume over periods bars. A zero base
// volume repeats the previous value.
func VolumeROC(volume *core.Field, periods int, alias string) *core.Recordset {
	out := newField(volume, alias)
	value := 0.0
	for rec := periods + 1; rec <= volume.RecordCount; rec++ {
		if prev := volume.Value(rec - periods); truthy(prev) {
			value = (volume.Value(rec) - prev) / prev * 100
		}
		out.SetValue(rec, value)
	}
	return core.NewRecordset(out)
}

// PriceROC is the percent change of source over periods bars
func PriceROC(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		prev := source.Value(rec - periods)
		out.SetValue(rec, (source.Value(rec)-prev)/prev*100)
	}
	return core.NewRecordset(out)
}

// CorrelationAnalysis returns one minus the mean product of the absolute bar
// to bar changes of both sources.
func CorrelationAnalysis(source1, source2 *core.Field) float64 {
	total := 0.0
	for rec := 2; rec <= source1.RecordCount; rec++ {
		a := math.Abs(source1.Value(rec) - source1.Value(rec-1))
		b := math.Abs(source2.Value(rec) - source2.Value(rec-1))
		total += a * b
	}
	return 1 - total/float64(source1.RecordCount-2)
}

// HHV is the highest value over the current bar and the periods bars before it
func HHV(source *core.Field, periods int, alias string) *core.Recordset {
	return extreme(source, periods, alias, math.Max)
}

// LLV is the lowest value over the current bar and the periods bars before it
func LLV(source *core.Field, periods int, alias string) *core.Recordset {
	return extreme(source, periods, alias, math.Min)
}

func extreme(source *core.Field, periods int, alias string, pick func(a, b float64) float64) *core.Recordset {
	out := newField(source, alias)
	for rec := max(periods+1, 1); rec <= source.RecordCount; rec++ {
		v := source.Value(rec)
		for n := rec - periods; n < rec; n++ {
			v = pick(v, source.Value(n))
		}
		out.SetValue(rec, v)
	}
	return core.NewRecordset(out)
}

// IsPrime tests primality by trial division over 6k±1 candidates. Values
// with a fractional part never divide evenly and therefore test prime.
func IsPrime(value float64) bool {
	if value > 3 {
		if math.Mod(value, 2) == 0 || math.Mod(value, 3) == 0 {
			return false
		}
	}

	maxDivisor := math.Sqrt(value) + 1
	for divisor, step := 5.0, 2.0; divisor <= maxDivisor; divisor, step = divisor+step, 6-step {
		if math.Mod(value, divisor) == 0 {
			return false
		}
	}
	return true
}

// StandardDeviation is stdDevs times the population deviation of each window
// around the moving average selected by maType.
func StandardDeviation(source *core.Field, periods int, stdDevs float64, maType MAType, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	ma := maField(source, periods, maType, "Temp")
	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		mean, sum := ma.Value(rec), 0.0
		for i := rec - periods + 1; i <= rec; i++ {
			d := source.Value(i) - mean
			sum += d * d
		}
		out.SetValue(rec, stdDevs*math.Sqrt(sum/float64(periods)))
	}
	return core.NewRecordset(out)
}

// VWAP accumulates typical price times volume over volume, restarting on
// every new calendar day of dates.
func VWAP(typicalPrice, volume, dates *core.Field, alias string) *core.Recordset {
	out := newField(typicalPrice, alias)

	var day time.Time
	priceVolume, totalVolume := 0.0, 0.0
	for rec := 1; rec <= typicalPrice.RecordCount; rec++ {
		next := dayStart(dates.Value(rec))
		if rec == 1 || !next.Equal(day) {
			priceVolume, totalVolume = 0, 0
			day = next
		}
		v := volume.Value(rec)
		priceVolume += typicalPrice.Value(rec) * v
		totalVolume += v
		out.SetValue(rec, priceVolume/totalVolume)
	}
	return core.NewRecordset(out)
}

func dayStart(value float64) time.Time {
	return core.ValueToTime(value).UTC().Truncate(core.Day)
}

// periodChanged reports whether two bar times fall into different pivot periods
func periodChanged(duration PivotDuration, a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	switch duration {
	case PivotDaily:
		return a.YearDay() != b.YearDay() || a.Year() != b.Year()
	case PivotWeekly:
		ya, wa := a.ISOWeek()
		yb, wb := b.ISOWeek()
		return wa != wb || ya != yb
	case PivotMonthly:
		return a.Month() != b.Month() || a.Year() != b.Year()
	case PivotYearly:
		return a.Year() != b.Year()
	}
	return false
}

// autoPivotDuration picks the pivot period from the bar interval
func autoPivotDuration(interval time.Duration) PivotDuration {
	switch {
	case interval < 30*time.Minute:
		return PivotDaily
	case interval < core.Day:
		return PivotWeekly
	case interval < core.Week:
		return PivotMonthly
	}
	return PivotYearly
}

// PivotPoints computes floor pivots with three support and three resistance
// levels from the high, low and close of the previous period. Values are
// carried forward until the period changes. PivotAuto chooses the period
// from interval.
func PivotPoints(ohlcv *core.Recordset, dates *core.Field, duration PivotDuration, interval time.Duration) (*core.Recordset, error) {
	switch duration {
	case PivotDaily, PivotWeekly, PivotMonthly, PivotYearly:
	case PivotAuto:
		duration = autoPivotDuration(interval)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPivotDuration, string(duration))
	}

	b := readBars(ohlcv)
	n := dates.RecordCount
	pivot := core.NewField(n, FieldPivot)
	s1, r1 := core.NewField(n, FieldS1), core.NewField(n, FieldR1)
	s2, r2 := core.NewField(n, FieldS2), core.NewField(n, FieldR2)
	s3, r3 := core.NewField(n, FieldS3), core.NewField(n, FieldR3)
	levels := []*core.Field{pivot, s1, r1, s2, r2, s3, r3}
	if n == 0 {
		return core.NewRecordset(levels...), nil
	}
	for _, f := range levels {
		f.SetValue(1, core.NullValue)
	}

	prev := core.ValueToTime(dates.Value(1))
	high, low, close := b.high.Value(1), b.low.Value(1), b.close.Value(1)
	for rec := 2; rec <= n; rec++ {
		next := core.ValueToTime(dates.Value(rec))
		if !periodChanged(duration, next, prev) {
			for _, f := range levels {
				f.SetValue(rec, f.Value(rec-1))
			}
			high = math.Max(high, b.high.Value(rec))
			low = math.Min(low, b.low.Value(rec))
			close = b.close.Value(rec)
			continue
		}

		pp := (high + low + close) / 3
		pivot.SetValue(rec, pp)
		s1.SetValue(rec, 2*pp-high)
		r1.SetValue(rec, 2*pp-low)
		s2.SetValue(rec, pp-(high-low))
		r2.SetValue(rec, pp+(high-low))
		s3.SetValue(rec, low-2*(high-pp))
		r3.SetValue(rec, high+2*(pp-low))

		prev = next
		high, low, close = b.high.Value(rec), b.low.Value(rec), b.close.Value(rec)
	}
	return core.NewRecordset(levels...), nil
}
