package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/raykavin/tasdk/internal/config"
	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/feed"
	"github.com/raykavin/tasdk/pkg/storage"
	"github.com/raykavin/tasdk/pkg/study"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("either --input or --symbol is required")

// inputFlags selects the bars a command runs on
type inputFlags struct {
	file      string
	timeframe string
	symbol    string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "input", "i", "", "CSV file with OHLCV bars")
	cmd.Flags().StringVar(&f.timeframe, "input-timeframe", "", "Timeframe of the CSV rows, needed to resample (e.g. 1h)")
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "Symbol to read from the configured bar store")
}

// loadBars reads bars from the CSV input or from the store, then keeps at
// most compute.max_bars of them
func (a *app) loadBars(cmd *cobra.Command, f inputFlags) ([]core.Bar, error) {
	var (
		bars []core.Bar
		err  error
	)

	switch {
	case f.file != "":
		bars, err = a.readCSV(f)
	case f.symbol != "":
		bars, err = a.readStore(cmd, f.symbol)
	default:
		return nil, errNoInput
	}
	if err != nil {
		return nil, err
	}

	if limit := a.cfg.Compute.MaxBars; limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}

	a.log.WithField("bars", len(bars)).Debug("input loaded")
	return bars, nil
}

func (a *app) readCSV(f inputFlags) ([]core.Bar, error) {
	target := a.cfg.Data.Timeframe
	if target != "" && f.timeframe == "" {
		return nil, fmt.Errorf("--input-timeframe is required to resample to %s", target)
	}
	if _, err := a.cfg.Data.Window(); err != nil {
		return nil, fmt.Errorf("invalid timeframe %q: %w", target, err)
	}

	var feeder core.Feeder
	feeder, err := feed.NewCSVFeed(target, feed.Source{Name: f.file, File: f.file, Timeframe: f.timeframe})
	if err != nil {
		return nil, err
	}
	return feeder.Bars(f.file)
}

func (a *app) readStore(cmd *cobra.Command, symbol string) ([]core.Bar, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Bars(cmd.Context(), symbol)
}

// openStore opens the bar store named by data.store
func (a *app) openStore() (core.BarStorage, error) {
	kind, file, err := a.cfg.Data.StoreLocation()
	if err != nil {
		return nil, err
	}

	switch kind {
	case config.StoreBunt:
		return storage.NewBuntBars(file, storage.DefaultBuntConfig(), a.log)
	case config.StoreSQLite:
		return storage.NewFromSQLite(file, storage.DefaultConfig(), a.log)
	}
	return nil, errors.New("no bar store configured, set data.store or --store")
}

// resolveStudies builds studies from aliases or names. all selects every
// registered indicator with its defaults.
func resolveStudies(names []string, all bool, params map[string]string) ([]*study.Study, error) {
	ids := study.IDs()
	if !all {
		ids = ids[:0:0]
		for _, name := range names {
			id, ok := study.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", study.ErrUnknownIndicator, name)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errors.New("no study selected, use --study or --all")
	}

	overrides := parseParams(params)
	studies := make([]*study.Study, 0, len(ids))
	for _, id := range ids {
		s, err := study.New(id)
		if err != nil {
			return nil, err
		}
		// overrides only apply to parameters the study declares
		applicable := study.Params{}
		for k, v := range overrides {
			if s.Params().Has(k) {
				applicable[k] = v
			}
		}
		if s, err = study.New(id, study.WithParams(applicable)); err != nil {
			return nil, err
		}
		studies = append(studies, s)
	}
	return studies, nil
}

// parseParams turns --param flags into study parameters. Source values may
// be given as channel names such as close or high.
func parseParams(raw map[string]string) study.Params {
	params := study.Params{}
	for k, v := range raw {
		if (k == study.ParamSource || k == study.ParamSource2) && !strings.HasPrefix(v, ".") {
			v = "." + strings.ToLower(v)
		}
		params[k] = v
	}
	return params
}

// sortedKeys renders params as key=value pairs in key order
func sortedKeys(params study.Params) []string {
	pairs := make([]string, 0, len(params))
	for k := range params {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, params.String(k)))
	}
	slices.Sort(pairs)
	return pairs
}
