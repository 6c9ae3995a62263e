package indicator

import (
	"math"

	"github.com/raykavin/tasdk/pkg/core"
	"gonum.org/v1/gonum/floats"
)

// Regression field names
const (
	FieldSlope     = "Slope"
	FieldIntercept = "Intercept"
	FieldForecast  = "Forecast"
	FieldRSquared  = "RSquared"
)

// truthy mirrors a numeric truth test: zero and NaN are false.
func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// Regression fits a least squares line over each trailing window of periods
// values, x running from 1 to periods. Output starts at periods+1. When the
// window is flat the previous r-squared is carried forward.
func Regression(source *core.Field, periods int) *core.Recordset {
	slope := newField(source, FieldSlope)
	intercept := newField(source, FieldIntercept)
	forecast := newField(source, FieldForecast)
	rSquared := newField(source, FieldRSquared)
	rs := core.NewRecordset(slope, intercept, forecast, rSquared)
	if periods < 1 {
		return rs
	}

	x := make([]float64, periods)
	for i := range x {
		x[i] = float64(i + 1)
	}
	n := float64(periods)
	xSum, xSquaredSum := floats.Sum(x), floats.Dot(x, x)
	q2 := xSquaredSum - xSum*xSum/n
	half := float64(periods / 2)

	r2 := 0.0
	for rec := periods; rec <= source.RecordCount; rec++ {
		y := window(source, rec-periods+1, rec)
		ySum := floats.Sum(y)
		q1 := floats.Dot(x, y) - xSum*ySum/n
		q3 := floats.Dot(y, y) - ySum*ySum/n

		b := q1 / q2
		a := ySum/n - half*b
		if truthy(q1*q1) && truthy(q2*q3) {
			r2 = q1 * q1 / (q2 * q3)
		}

		if rec > periods {
			slope.SetValue(rec, b)
			intercept.SetValue(rec, a)
			forecast.SetValue(rec, n*b+a)
			rSquared.SetValue(rec, r2)
		}
	}
	return rs
}

// TimeSeriesForecast keeps only the regression forecast, renamed to alias
func TimeSeriesForecast(source *core.Field, periods int, alias string) *core.Recordset {
	rs := Regression(source, periods)
	rs.RenameField(FieldForecast, alias)
	rs.RemoveField(FieldSlope)
	rs.RemoveField(FieldIntercept)
	rs.RemoveField(FieldRSquared)
	return rs
}
