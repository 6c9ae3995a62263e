// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	EnvPrefix         = "TASDK"
	DefaultTimeLayout = "2006-01-02 15:04:05"
)

var ErrInvalidStore = errors.New("invalid store location, want bunt:<file> or sqlite:<file>")

// Config holds the application configuration
type Config struct {
	Log     LogConfig
	Data    DataConfig
	Compute ComputeConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string
	Colored    bool
	JSON       bool
	TimeLayout string
}

// DataConfig holds input data configuration
type DataConfig struct {
	Timeframe string
	Store     string
}

// ComputeConfig holds study execution configuration
type ComputeConfig struct {
	Workers int
	MaxBars int
}

// StoreKind names a bar store backend
type StoreKind string

const (
	StoreNone   StoreKind = ""
	StoreBunt   StoreKind = "bunt"
	StoreSQLite StoreKind = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.colored", true)
	v.SetDefault("log.json", false)
	v.SetDefault("log.time_layout", DefaultTimeLayout)
	v.SetDefault("data.timeframe", "")
	v.SetDefault("data.store", "")
	v.SetDefault("compute.workers", 4)
	v.SetDefault("compute.max_bars", 0)
}

// New returns a viper instance with defaults and environment binding
// (TASDK_LOG_LEVEL, TASDK_COMPUTE_WORKERS, ...) applied.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional configuration file at path into v and builds the
// configuration. An empty path uses defaults and environment only.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Colored:    v.GetBool("log.colored"),
			JSON:       v.GetBool("log.json"),
			TimeLayout: v.GetString("log.time_layout"),
		},
		Data: DataConfig{
			Timeframe: v.GetString("data.timeframe"),
			Store:     v.GetString("data.store"),
		},
		Compute: ComputeConfig{
			Workers: v.GetInt("compute.workers"),
			MaxBars: v.GetInt("compute.max_bars"),
		},
	}
	if _, _, err := cfg.Data.StoreLocation(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StoreLocation splits data.store into its backend and file
func (d DataConfig) StoreLocation() (StoreKind, string, error) {
	if d.Store == "" {
		return StoreNone, "", nil
	}
	kind, file, ok := strings.Cut(d.Store, ":")
	if !ok || file == "" {
		return StoreNone, "", fmt.Errorf("%w: %q", ErrInvalidStore, d.Store)
	}
	switch StoreKind(kind) {
	case StoreBunt, StoreSQLite:
		return StoreKind(kind), file, nil
	}
	return StoreNone, "", fmt.Errorf("%w: %q", ErrInvalidStore, d.Store)
}

// Window returns the resampling timeframe, zero when bars are used as read.
// Day and week units such as "1d" are accepted.
func (d DataConfig) Window() (time.Duration, error) {
	if d.Timeframe == "" {
		return 0, nil
	}
	return str2duration.ParseDuration(d.Timeframe)
}
