package zerolog

import (
	"fmt"

	"github.com/raykavin/tasdk/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter exposes a zerolog.Logger through logger.Logger
type Adapter struct {
	l *zerolog.Logger
}

var _ logger.Logger = (*Adapter)(nil)

func NewAdapter(l *zerolog.Logger) *Adapter {
	return &Adapter{l: l}
}

// GetLevel implements logger.Logger.
func (a *Adapter) GetLevel() logger.Level {
	return toLevel(a.l.GetLevel())
}

// SetLevel changes the level of this logger only
func (a *Adapter) SetLevel(level logger.Level) {
	l := a.l.Level(toZerologLevel(level))
	a.l = &l
}

func (a *Adapter) Print(args ...any) { a.l.Print(args...) }

func (a *Adapter) Trace(args ...any) { a.l.Trace().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Debug(args ...any) { a.l.Debug().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Info(args ...any) { a.l.Info().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Warn(args ...any) { a.l.Warn().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Error(args ...any) { a.l.Error().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Fatal(args ...any) { a.l.Fatal().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Panic(args ...any) { a.l.Panic().Msg(fmt.Sprint(args...)) }

func (a *Adapter) Printf(format string, args ...any) { a.l.Printf(format, args...) }

func (a *Adapter) Tracef(format string, args ...any) { a.l.Trace().Msgf(format, args...) }

func (a *Adapter) Debugf(format string, args ...any) { a.l.Debug().Msgf(format, args...) }

func (a *Adapter) Infof(format string, args ...any) { a.l.Info().Msgf(format, args...) }

func (a *Adapter) Warnf(format string, args ...any) { a.l.Warn().Msgf(format, args...) }

func (a *Adapter) Errorf(format string, args ...any) { a.l.Error().Msgf(format, args...) }

func (a *Adapter) Fatalf(format string, args ...any) { a.l.Fatal().Msgf(format, args...) }

func (a *Adapter) Panicf(format string, args ...any) { a.l.Panic().Msgf(format, args...) }

// WithError implements logger.Logger.
func (a *Adapter) WithError(err error) logger.Logger {
	l := a.l.With().Stack().Err(err).Logger()
	return &Adapter{l: &l}
}

// WithField implements logger.Logger.
func (a *Adapter) WithField(key string, value any) logger.Logger {
	l := a.l.With().Interface(key, value).Logger()
	return &Adapter{l: &l}
}

// WithFields implements logger.Logger.
func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	l := a.l.With().Fields(fields).Logger()
	return &Adapter{l: &l}
}
