package indicator

import (
	"github.com/raykavin/tasdk/pkg/core"
	"gonum.org/v1/gonum/floats"
)

// SimpleMovingAverage is the rolling mean of periods values. The first full
// window ends at index periods.
func SimpleMovingAverage(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods >= 1 {
		for rec := periods; rec <= source.RecordCount; rec++ {
			out.SetValue(rec, floats.Sum(window(source, rec-periods+1, rec))/float64(periods))
		}
	}
	return core.NewRecordset(out)
}

// ExponentialMovingAverage is seeded at index periods with the mean of the
// first periods values, then smoothed with k = 2/(periods+1).
func ExponentialMovingAverage(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods < 1 || periods > source.RecordCount {
		return core.NewRecordset(out)
	}

	k := 2 / float64(periods+1)
	out.SetValue(periods, floats.Sum(window(source, 1, periods))/float64(periods))
	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		out.SetValue(rec, out.Value(rec-1)*(1-k)+source.Value(rec)*k)
	}
	return core.NewRecordset(out)
}

// TimeSeriesMovingAverage copies the regression forecast into alias. The
// regression fields are returned alongside.
func TimeSeriesMovingAverage(source *core.Field, periods int, alias string) *core.Recordset {
	rs := Regression(source, periods)
	out := newField(source, alias)
	for rec := 1; rec <= source.RecordCount; rec++ {
		out.SetValue(rec, rs.Value(FieldForecast, rec))
	}
	rs.AddField(out)
	return rs
}

// VariableMovingAverage weights each price by the absolute Chande momentum.
func VariableMovingAverage(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	rs := ChandeMomentumOscillator(source, periods, "CMO")

	for rec := 2; rec <= source.RecordCount; rec++ {
		cmo := rs.Value("CMO", rec) / 100
		if cmo < 0 {
			cmo = -cmo
		}
		out.SetValue(rec, cmo*source.Value(rec)+(1-cmo)*out.Value(rec-1))
	}
	rs.AddField(out)
	return rs
}

// TriangularMovingAverage averages a moving average. Odd periods use two
// windows of periods/2+1, even periods use periods/2 then periods/2+1.
func TriangularMovingAverage(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	ma1 := periods / 2
	ma2 := ma1 + 1
	if periods%2 > 0 {
		ma1 = periods/2 + 1
		ma2 = ma1
	}

	first := newField(source, "MA1")
	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		first.SetValue(rec, floats.Sum(window(source, rec-ma1+1, rec))/float64(ma1))
	}
	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		out.SetValue(rec, floats.Sum(window(first, rec-ma2+1, rec))/float64(ma2))
	}
	return core.NewRecordset(out)
}

// WeightedMovingAverage gives the newest value weight periods and the oldest weight 1.
func WeightedMovingAverage(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	weights := make([]float64, periods)
	for i := range weights {
		weights[i] = float64(i + 1)
	}
	total := floats.Sum(weights)

	for rec := periods + 1; rec <= source.RecordCount; rec++ {
		out.SetValue(rec, floats.Dot(weights, window(source, rec-periods+1, rec))/total)
	}
	return core.NewRecordset(out)
}

// VIDYA blends each value with the previous source value using the scaled
// regression r-squared as weight.
func VIDYA(source *core.Field, periods int, r2Scale float64, alias string) *core.Recordset {
	out := newField(source, alias)
	rs := Regression(source, periods)

	for rec := 2; rec <= source.RecordCount; rec++ {
		scaled := rs.Value(FieldRSquared, rec) * r2Scale
		out.SetValue(rec, scaled*source.Value(rec)+(1-scaled)*source.Value(rec-1))
	}
	rs.AddField(out)
	return rs
}

// WellesWilderSmoothing is v[i] = v[i-1] + (src[i]-v[i-1])/periods
func WellesWilderSmoothing(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	if periods < 1 {
		return core.NewRecordset(out)
	}

	for rec := 2; rec <= source.RecordCount; rec++ {
		prev := out.Value(rec - 1)
		out.SetValue(rec, prev+(source.Value(rec)-prev)/float64(periods))
	}
	return core.NewRecordset(out)
}

// McGinleyDynamic tracks an exponential average with a speed factor that
// adapts to the ratio between price and average.
func McGinleyDynamic(source *core.Field, periods int, alias string) *core.Recordset {
	out := newField(source, alias)
	ema := ExponentialMovingAverage(source, periods, "MA").Field("MA")

	for rec := 2; rec <= source.RecordCount; rec++ {
		prev, price := ema.Value(rec-1), source.Value(rec)
		out.SetValue(rec, prev+(price-prev)/((price/prev)*125))
	}
	return core.NewRecordset(out)
}
