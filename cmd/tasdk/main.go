package main

import (
	"fmt"
	"os"

	"github.com/raykavin/tasdk/internal/config"
	"github.com/raykavin/tasdk/pkg/logger"
	zlog "github.com/raykavin/tasdk/pkg/logger/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds what every command needs once flags and config are parsed
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log logger.Logger
}

// Command line flags
var (
	configFile string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:           "tasdk",
		Short:         "Technical indicator studies over OHLCV bars",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Configuration file (yaml, json or toml)")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("store", "", "Bar store, bunt:<file> or sqlite:<file>")
	flags.String("timeframe", "", "Resample input bars to this timeframe (e.g. 4h)")
	flags.Int("workers", 0, "Concurrent studies")
	a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	a.v.BindPFlag("data.store", flags.Lookup("store"))
	a.v.BindPFlag("data.timeframe", flags.Lookup("timeframe"))
	a.v.BindPFlag("compute.workers", flags.Lookup("workers"))

	rootCmd.AddCommand(
		buildListCmd(a),
		buildComputeCmd(a),
		buildDescribeCmd(a),
		buildVerifyCmd(a),
		buildImportCmd(a),
	)

	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, configFile)
	if err != nil {
		return err
	}

	log, err := zlog.New(zlog.Options{
		Level:      cfg.Log.Level,
		TimeLayout: cfg.Log.TimeLayout,
		Colored:    cfg.Log.Colored,
		JSON:       cfg.Log.JSON,
	})
	if err != nil {
		return fmt.Errorf("invalid log configuration: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}
