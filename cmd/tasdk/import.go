package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func buildImportCmd(a *app) *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:     "import",
		Short:   "Load a CSV file into the configured bar store",
		Example: "  tasdk import -i btc-1m.csv --input-timeframe 1m --timeframe 1h -s BTCUSDT --store sqlite:bars.db",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runImport(cmd, input)
		},
	}

	input.register(cmd)
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("symbol")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, input inputFlags) error {
	if input.file == "" || input.symbol == "" {
		return errors.New("import needs --input and --symbol")
	}

	bars, err := a.readCSV(input)
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveBars(cmd.Context(), input.symbol, bars...); err != nil {
		return err
	}

	a.log.WithFields(map[string]any{"symbol": input.symbol, "bars": len(bars)}).Info("bars imported")
	return nil
}
