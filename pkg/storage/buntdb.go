package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/logger"
	"github.com/tidwall/buntdb"
)

const barKeyPrefix = "bar:"

// BuntBars implements core.BarStorage using BuntDB. Keys are
// bar:<symbol>:<unix millis>, zero padded so key order is time order.
type BuntBars struct {
	db  *buntdb.DB
	log logger.Logger
}

// BuntConfig holds configuration options for BuntDB
type BuntConfig struct {
	// SyncPolicy determines how often data is synchronized to disk
	SyncPolicy buntdb.SyncPolicy
}

// DefaultBuntConfig returns the default configuration for BuntDB
func DefaultBuntConfig() BuntConfig {
	return BuntConfig{SyncPolicy: buntdb.EverySecond}
}

// barRecord is the JSON form of a bar inside BuntDB
type barRecord struct {
	Time     int64              `json:"t"`
	Open     float64            `json:"o"`
	High     float64            `json:"h"`
	Low      float64            `json:"l"`
	Close    float64            `json:"c"`
	Volume   float64            `json:"v"`
	Metadata map[string]float64 `json:"m,omitempty"`
}

func toRecord(bar core.Bar) barRecord {
	return barRecord{
		Time:     bar.Time.UnixMilli(),
		Open:     bar.Open,
		High:     bar.High,
		Low:      bar.Low,
		Close:    bar.Close,
		Volume:   bar.Volume,
		Metadata: bar.Metadata,
	}
}

func (r barRecord) bar() core.Bar {
	return core.Bar{
		Time:     time.UnixMilli(r.Time).UTC(),
		Open:     r.Open,
		High:     r.High,
		Low:      r.Low,
		Close:    r.Close,
		Volume:   r.Volume,
		Metadata: r.Metadata,
	}
}

// NewBuntFromMemory creates an in-memory bar store
func NewBuntFromMemory(log logger.Logger) (*BuntBars, error) {
	return NewBuntBars(":memory:", DefaultBuntConfig(), log)
}

// NewBuntBars opens a BuntDB bar store at sourceFile
func NewBuntBars(sourceFile string, config BuntConfig, log logger.Logger) (*BuntBars, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open buntdb")
	}

	if err := db.SetConfig(buntdb.Config{SyncPolicy: config.SyncPolicy}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to configure buntdb")
	}

	return &BuntBars{db: db, log: log}, nil
}

func barKey(symbol string, t time.Time) string {
	return fmt.Sprintf("%s%s:%020d", barKeyPrefix, symbol, t.UnixMilli())
}

// SaveBars stores bars under symbol
func (b *BuntBars) SaveBars(ctx context.Context, symbol string, bars ...core.Bar) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *buntdb.Tx) error {
		for _, bar := range bars {
			content, err := json.Marshal(toRecord(bar))
			if err != nil {
				return errors.Wrap(err, "failed to marshal bar")
			}
			if _, _, err := tx.Set(barKey(symbol, bar.Time), string(content), nil); err != nil {
				return errors.Wrap(err, "failed to store bar")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.log.WithFields(map[string]any{"symbol": symbol, "bars": len(bars)}).Debug("bars stored")
	return nil
}

// Bars returns the stored bars of symbol that pass every filter
func (b *BuntBars) Bars(ctx context.Context, symbol string, filters ...core.BarFilter) ([]core.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars := make([]core.Bar, 0)
	err := b.db.View(func(tx *buntdb.Tx) error {
		var iterErr error
		err := tx.AscendKeys(barKeyPrefix+symbol+":*", func(key, value string) bool {
			var record barRecord
			if err := json.Unmarshal([]byte(value), &record); err != nil {
				iterErr = errors.Wrapf(err, "failed to unmarshal bar %s", key)
				return false
			}

			bar := record.bar()
			if core.MatchBar(bar, filters...) {
				bars = append(bars, bar)
			}
			return true
		})
		if err != nil {
			return errors.Wrap(err, "failed to iterate over bars")
		}
		return iterErr
	})
	if err != nil {
		return nil, err
	}

	return bars, nil
}

// Symbols lists the stored symbols
func (b *BuntBars) Symbols(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var symbols []string
	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(barKeyPrefix+"*", func(key, _ string) bool {
			rest := strings.TrimPrefix(key, barKeyPrefix)
			if i := strings.LastIndexByte(rest, ':'); i > 0 {
				symbol := rest[:i]
				if !slices.Contains(symbols, symbol) {
					symbols = append(symbols, symbol)
				}
			}
			return true
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list symbols")
	}

	slices.Sort(symbols)
	return symbols, nil
}

// Close closes the database
func (b *BuntBars) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
