// Package study turns indicator algorithms into named, parameterised
// studies. A Study reads input channels from a Source, runs its algorithm
// and returns one DataSeries per output, named "<title>.<plot>".
package study

import (
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/indicator"
)

var (
	ErrUnknownIndicator = errors.New("unknown indicator")
	ErrMissingChannel   = errors.New("missing input channel")
)

// Study is one configured indicator
type Study struct {
	id       ID
	def      *definition
	params   Params
	interval time.Duration
}

// Option configures a Study
type Option func(*Study)

// WithParams overrides default parameters
func WithParams(params Params) Option {
	return func(s *Study) {
		s.params.merge(params)
	}
}

// WithParam overrides a single default parameter
func WithParam(key string, value any) Option {
	return func(s *Study) {
		s.params[key] = value
	}
}

// WithInterval sets the bar interval used by time based studies such as
// pivot points. Without it the interval is read from the first two dates.
func WithInterval(interval time.Duration) Option {
	return func(s *Study) {
		s.interval = interval
	}
}

// New creates a study for id with its default parameters
func New(id ID, opts ...Option) (*Study, error) {
	def, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownIndicator, int(id))
	}

	s := &Study{id: id, def: def, params: def.defaults.Clone()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Study) ID() ID            { return s.id }
func (s *Study) Name() string      { return s.def.name }
func (s *Study) ShortName() string { return s.def.short }
func (s *Study) Alias() string     { return s.def.alias }
func (s *Study) Overlay() bool     { return s.def.overlay }

// Params returns a copy of the effective parameters
func (s *Study) Params() Params {
	return s.params.Clone()
}

// Fields lists the output fields in presentation order
func (s *Study) Fields() []string {
	return append([]string(nil), s.def.fields...)
}

// StartIndex is the first 1-based record of every output that carries a value
func (s *Study) StartIndex() int {
	return s.def.startIndex(s.params)
}

// Calculate runs the study over src. Outputs the algorithm could not produce,
// because of out of range parameters, come back as empty series.
func (s *Study) Calculate(src Source) ([]*core.DataSeries, error) {
	if s.params.Has(ParamMAType) && !s.params.MAType(ParamMAType).Valid() {
		return nil, fmt.Errorf("%s: %w: %v", s.def.short, indicator.ErrUnknownMAType, s.params[ParamMAType])
	}

	in := &input{src: src, params: s.params, interval: s.interval}
	out := s.def.compute(in)
	if in.err != nil {
		return nil, fmt.Errorf("%s: %w", s.def.short, in.err)
	}

	name := title(s.def.short, out.title)
	start := s.StartIndex()
	series := make([]*core.DataSeries, 0, len(s.def.fields))
	for _, field := range s.def.fields {
		ds := core.NewDataSeries(s.seriesName(name, field))
		if out.rs != nil && out.rs.Has(field) {
			ds.FromField(out.rs.Field(field), start)
		}
		series = append(series, ds)
	}
	return series, nil
}

func (s *Study) seriesName(title, field string) string {
	plot := plotNames[field]
	if len(s.def.fields) == 1 || plot == "" {
		return title
	}
	return title + "." + plot
}
