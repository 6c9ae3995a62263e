package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBars(start time.Time, n int) []core.Bar {
	bars := make([]core.Bar, n)
	for i := range bars {
		price := float64(100 + i)
		bars[i] = core.Bar{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: float64(10 * (i + 1)),
		}
	}
	return bars
}

func stores(t *testing.T) map[string]core.BarStorage {
	t.Helper()

	bunt, err := NewBuntFromMemory(nil)
	require.NoError(t, err)

	sql, err := NewFromSQLite(filepath.Join(t.TempDir(), "bars.sqlite"), DefaultConfig(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, bunt.Close())
		assert.NoError(t, sql.Close())
	})

	return map[string]core.BarStorage{"buntdb": bunt, "sqlite": sql}
}

func TestBarStorage(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			bars := testBars(start, 5)

			// stored out of order, read back in time order
			require.NoError(t, store.SaveBars(ctx, "ETHUSDT", bars[3], bars[4]))
			require.NoError(t, store.SaveBars(ctx, "ETHUSDT", bars[:3]...))
			require.NoError(t, store.SaveBars(ctx, "BTCUSDT", bars[0]))
			require.NoError(t, store.SaveBars(ctx, "BTCUSDT"))

			got, err := store.Bars(ctx, "ETHUSDT")
			require.NoError(t, err)
			require.Len(t, got, 5)
			for i, bar := range got {
				assert.Equal(t, bars[i].Time.Unix(), bar.Time.Unix())
				assert.Equal(t, bars[i].Close, bar.Close)
				assert.Equal(t, bars[i].Volume, bar.Volume)
			}

			symbols, err := store.Symbols(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, symbols)

			none, err := store.Bars(ctx, "SOLUSDT")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestBarStorage_ReplacesSameTime(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			bar := testBars(start, 1)[0]
			require.NoError(t, store.SaveBars(ctx, "BTCUSDT", bar))

			bar.Close = 42
			bar.Metadata = map[string]float64{"trades": 7}
			require.NoError(t, store.SaveBars(ctx, "BTCUSDT", bar))

			got, err := store.Bars(ctx, "BTCUSDT")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, 42.0, got[0].Close)
			assert.Equal(t, 7.0, got[0].Metadata["trades"])
		})
	}
}

func TestBarStorage_Filters(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.SaveBars(ctx, "BTCUSDT", testBars(start, 10)...))

			got, err := store.Bars(ctx, "BTCUSDT", core.WithPeriod(start.Add(2*time.Hour), start.Add(4*time.Hour)))
			require.NoError(t, err)
			assert.Len(t, got, 3)

			got, err = store.Bars(ctx, "BTCUSDT", core.WithTimeAfterOrEqual(start.Add(8*time.Hour)))
			require.NoError(t, err)
			assert.Len(t, got, 2)
		})
	}
}

func TestBuntBars_CanceledContext(t *testing.T) {
	store, err := NewBuntFromMemory(nil)
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SaveBars(ctx, "BTCUSDT", core.Bar{}), context.Canceled)
	_, err = store.Bars(ctx, "BTCUSDT")
	assert.ErrorIs(t, err, context.Canceled)
}
