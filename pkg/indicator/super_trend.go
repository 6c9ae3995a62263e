package indicator

import "github.com/raykavin/tasdk/pkg/core"

// FieldSuperTrendColor flags each bar: 0 when the trend line sits at or
// above the source, 1 below.
const FieldSuperTrendColor = "CF"

// SuperTrendOscillator trails the source with final upper and lower bands
// built from the median price plus or minus multiplier times the range
// field. The trend line follows the lower band while price holds above it
// and switches to the upper band once price closes under it, and the
// other way round.
func SuperTrendOscillator(source, averageTrueRange *core.Field, periods int, alias string, multiplier float64, high, low *core.Field) *core.Recordset {
	n := averageTrueRange.RecordCount
	finalUpper := core.NewField(n, "FUB")
	finalLower := core.NewField(n, "FLB")
	trend := core.NewField(n, alias)
	color := core.NewField(n, FieldSuperTrendColor)

	for rec := max(periods, 1); rec <= n; rec++ {
		median := (high.Value(rec) + low.Value(rec)) / 2
		upper := median + multiplier*averageTrueRange.Value(rec)
		lower := median - multiplier*averageTrueRange.Value(rec)

		prevUpper, prevLower, prevSource := finalUpper.Value(rec-1), finalLower.Value(rec-1), source.Value(rec-1)
		if upper < prevUpper || prevSource > prevUpper {
			finalUpper.SetValue(rec, upper)
		} else {
			finalUpper.SetValue(rec, prevUpper)
		}
		if lower > prevLower || prevSource < prevLower {
			finalLower.SetValue(rec, lower)
		} else {
			finalLower.SetValue(rec, prevLower)
		}

		price := source.Value(rec)
		fu, fl := finalUpper.Value(rec), finalLower.Value(rec)
		switch prev := trend.Value(rec - 1); {
		case prev == prevUpper && prev != prevLower:
			if fu <= price {
				trend.SetValue(rec, fl)
			} else {
				trend.SetValue(rec, fu)
			}
		default:
			if fl >= price {
				trend.SetValue(rec, fu)
			} else {
				trend.SetValue(rec, fl)
			}
		}

		if trend.Value(rec) >= price {
			color.SetValue(rec, 0)
		} else {
			color.SetValue(rec, 1)
		}
	}
	return core.NewRecordset(trend, color)
}
