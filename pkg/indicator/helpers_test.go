package indicator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/stretchr/testify/require"
)

func fieldOf(name string, values ...float64) *core.Field {
	f := core.NewField(len(values), name)
	for i, v := range values {
		f.SetValue(i+1, v)
	}
	return f
}

// randomBars returns a deterministic OHLCV random walk
func randomBars(n int, seed int64) *core.Recordset {
	rng := rand.New(rand.NewSource(seed))
	open, high := core.NewField(n, FieldOpen), core.NewField(n, FieldHigh)
	low, close := core.NewField(n, FieldLow), core.NewField(n, FieldClose)
	volume := core.NewField(n, FieldVolume)

	price := 100.0
	for i := 1; i <= n; i++ {
		o := price
		price += rng.NormFloat64()
		c := price
		open.SetValue(i, o)
		close.SetValue(i, c)
		high.SetValue(i, math.Max(o, c)+rng.Float64())
		low.SetValue(i, math.Min(o, c)-rng.Float64())
		volume.SetValue(i, 1000+float64(rng.Intn(5000)))
	}
	return core.NewRecordset(open, high, low, close, volume)
}

// trendingBars rises by one every bar: low=i, close=i+0.5, high=i+1
func trendingBars(n int) *core.Recordset {
	open, high := core.NewField(n, FieldOpen), core.NewField(n, FieldHigh)
	low, close := core.NewField(n, FieldLow), core.NewField(n, FieldClose)
	volume := core.NewField(n, FieldVolume)
	for i := 1; i <= n; i++ {
		x := float64(i)
		open.SetValue(i, x+0.25)
		high.SetValue(i, x+1)
		low.SetValue(i, x)
		close.SetValue(i, x+0.5)
		volume.SetValue(i, 100)
	}
	return core.NewRecordset(open, high, low, close, volume)
}

// requireIdentical compares two recordsets bit for bit, NaN included
func requireIdentical(t *testing.T, want, got *core.Recordset) {
	t.Helper()
	require.Equal(t, want.Names(), got.Names())
	for _, name := range want.Names() {
		a, b := want.Field(name).Values(), got.Field(name).Values()
		require.Len(t, b, len(a), name)
		for i := range a {
			require.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]), "%s[%d]", name, i)
		}
	}
}

// swingBars is a fixed 40 bar set with a rally, a pullback and a second rally
func swingBars() *core.Recordset {
	return NewOHLCV(
		fieldOf("o", 100, 101.5, 101.58, 103.74, 107.85, 107.23, 108.39, 111.28, 109.27, 108.97,
			110.42, 107.09, 105.65, 106.23, 102.33, 100.69, 101.43, 98.05, 97.24, 99.08,
			97.01, 97.63, 100.93, 100.26, 102.13, 106.46, 106.53, 108.82, 113.2, 112.96,
			114.58, 118, 116.56, 116.81, 118.78, 115.89, 114.8, 115.6, 111.79, 110.1),
		fieldOf("h", 101.9, 102.08, 104.34, 108.55, 108.25, 108.89, 111.88, 111.98, 109.67, 110.92,
			111.02, 107.79, 106.63, 106.73, 102.93, 102.13, 101.83, 98.55, 99.68, 99.78,
			98.03, 101.43, 101.53, 102.83, 106.86, 107.03, 109.42, 113.9, 113.6, 115.08,
			118.6, 118.7, 117.21, 119.28, 119.38, 116.59, 116, 116.1, 112.39, 111.34),
		fieldOf("l", 99.7, 101.1, 101.08, 103.14, 106.53, 106.93, 107.99, 108.77, 108.37, 108.27,
			106.79, 105.25, 105.15, 101.73, 99.99, 100.39, 97.65, 96.74, 96.64, 96.31,
			96.71, 97.23, 99.76, 99.66, 101.43, 106.16, 106.13, 108.32, 112.36, 112.26,
			114.28, 116.16, 116.06, 116.21, 115.19, 114.5, 114.4, 111.29, 109.5, 109.4),
		fieldOf("c", 101.5, 101.58, 103.74, 107.85, 107.23, 108.39, 111.28, 109.27, 108.97, 110.42,
			107.09, 105.65, 106.23, 102.33, 100.69, 101.43, 98.05, 97.24, 99.08, 97.01,
			97.63, 100.93, 100.26, 102.13, 106.46, 106.53, 108.82, 113.2, 112.96, 114.58,
			118, 116.56, 116.81, 118.78, 115.89, 114.8, 115.6, 111.79, 110.1, 110.64),
		fieldOf("v", 1000, 1187, 1374, 1561, 1548, 1735, 1100, 1287, 1274, 1461,
			1648, 1835, 1000, 1187, 1374, 1561, 1548, 1735, 1100, 1287,
			1274, 1461, 1648, 1835, 1000, 1187, 1374, 1561, 1548, 1735,
			1100, 1287, 1274, 1461, 1648, 1835, 1000, 1187, 1374, 1561),
	)
}
