package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/logger"
	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// SQLBars implements core.BarStorage using a SQL database via GORM
type SQLBars struct {
	db  *gorm.DB
	log logger.Logger
}

// Config holds the configuration for SQL database connections
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	BatchSize       int
}

// DefaultConfig returns a default configuration for SQL connections
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
		BatchSize:       500,
	}
}

// BarModel is the table row of one bar
type BarModel struct {
	Symbol   string             `gorm:"primaryKey;size:64"`
	Time     time.Time          `gorm:"primaryKey"`
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Metadata map[string]float64 `gorm:"serializer:json"`
}

// TableName overrides the GORM default of bar_models
func (BarModel) TableName() string { return "bars" }

func newBarModel(symbol string, bar core.Bar) BarModel {
	return BarModel{
		Symbol:   symbol,
		Time:     bar.Time.UTC(),
		Open:     bar.Open,
		High:     bar.High,
		Low:      bar.Low,
		Close:    bar.Close,
		Volume:   bar.Volume,
		Metadata: bar.Metadata,
	}
}

func (m BarModel) bar() core.Bar {
	return core.Bar{
		Time:     m.Time.UTC(),
		Open:     m.Open,
		High:     m.High,
		Low:      m.Low,
		Close:    m.Close,
		Volume:   m.Volume,
		Metadata: m.Metadata,
	}
}

// NewFromSQLite opens a SQLite bar store
func NewFromSQLite(dbPath string, config Config, log logger.Logger, opts ...gorm.Option) (*SQLBars, error) {
	return NewFromSQL(sqlite.Open(dbPath), config, log, opts...)
}

// NewFromSQL opens a bar store over any GORM dialect
func NewFromSQL(dialect gorm.Dialector, config Config, log logger.Logger, opts ...gorm.Option) (*SQLBars, error) {
	if log == nil {
		log = logger.Nop()
	}

	opts = append([]gorm.Option{&gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}}, opts...)

	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database instance")
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err = db.AutoMigrate(&BarModel{}); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	batch := config.BatchSize
	if batch <= 0 {
		batch = DefaultConfig().BatchSize
	}
	db = db.Session(&gorm.Session{CreateBatchSize: batch})

	return &SQLBars{db: db, log: log}, nil
}

// SaveBars upserts bars under symbol
func (s *SQLBars) SaveBars(ctx context.Context, symbol string, bars ...core.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	models := lo.Map(bars, func(bar core.Bar, _ int) BarModel {
		return newBarModel(symbol, bar)
	})

	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true})
	if result := tx.Create(&models); result.Error != nil {
		return errors.Wrap(result.Error, "failed to store bars")
	}

	s.log.WithFields(map[string]any{"symbol": symbol, "bars": len(bars)}).Debug("bars stored")
	return nil
}

// Bars returns the stored bars of symbol that pass every filter
func (s *SQLBars) Bars(ctx context.Context, symbol string, filters ...core.BarFilter) ([]core.Bar, error) {
	var models []BarModel
	result := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("time").
		Find(&models)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to fetch bars")
	}

	bars := lo.Map(models, func(m BarModel, _ int) core.Bar { return m.bar() })
	if len(filters) > 0 {
		bars = lo.Filter(bars, func(bar core.Bar, _ int) bool {
			return core.MatchBar(bar, filters...)
		})
	}
	return bars, nil
}

// Symbols lists the stored symbols
func (s *SQLBars) Symbols(ctx context.Context) ([]string, error) {
	var symbols []string
	result := s.db.WithContext(ctx).
		Model(&BarModel{}).
		Distinct("symbol").
		Order("symbol").
		Pluck("symbol", &symbols)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to list symbols")
	}
	return symbols, nil
}

// WithTransaction executes fn within a database transaction
func (s *SQLBars) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn)
}

// Close closes the database connection
func (s *SQLBars) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database instance")
	}
	return sqlDB.Close()
}
