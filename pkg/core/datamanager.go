package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/StudioSol/set"
)

// OHLCDataSeries groups the price channels of one symbol
type OHLCDataSeries struct {
	Open  *DataSeries
	High  *DataSeries
	Low   *DataSeries
	Close *DataSeries
}

// BarDataSeries groups every channel of one symbol
type BarDataSeries struct {
	OHLCDataSeries
	Date   *DataSeries
	Volume *DataSeries
}

// Complete reports whether every channel is present
func (b BarDataSeries) Complete() bool {
	return b.Date != nil && b.Open != nil && b.High != nil && b.Low != nil && b.Close != nil && b.Volume != nil
}

// DataManager owns the named data series of a chart
type DataManager struct {
	series map[string]*DataSeries
	names  *set.LinkedHashSetString
}

// NewDataManager creates an empty manager
func NewDataManager() *DataManager {
	return &DataManager{
		series: make(map[string]*DataSeries),
		names:  set.NewLinkedHashSetString(),
	}
}

// Names returns the registered series names in insertion order
func (m *DataManager) Names() []string {
	names := make([]string, 0, len(m.series))
	for name := range m.names.Iter() {
		names = append(names, name)
	}
	return names
}

// AddDataSeries registers ds. It fails when the name is empty, or already
// taken unless replace is set.
func (m *DataManager) AddDataSeries(ds *DataSeries, replace bool) (*DataSeries, error) {
	if ds == nil || ds.Name() == "" {
		return nil, ErrEmptySeriesName
	}
	if _, ok := m.series[ds.Name()]; ok && !replace {
		return nil, fmt.Errorf("%w: %s", ErrSeriesExists, ds.Name())
	}
	m.series[ds.Name()] = ds
	m.names.Add(ds.Name())
	return ds, nil
}

// AddNamed creates and registers an empty series
func (m *DataManager) AddNamed(name string) (*DataSeries, error) {
	return m.AddDataSeries(NewDataSeries(name), false)
}

// DataSeries returns the series called name, or nil
func (m *DataManager) DataSeries(name string) *DataSeries {
	return m.series[name]
}

// GetOrAdd returns the series called name, creating it when missing
func (m *DataManager) GetOrAdd(name string) (*DataSeries, error) {
	if ds, ok := m.series[name]; ok {
		return ds, nil
	}
	return m.AddNamed(name)
}

// FindDataSeries returns the first series, in insertion order, whose name ends with suffix.
func (m *DataManager) FindDataSeries(suffix string) *DataSeries {
	for name := range m.names.Iter() {
		if strings.HasSuffix(name, suffix) {
			return m.series[name]
		}
	}
	return nil
}

// RemoveDataSeries drops one series by name, or all of them when name is empty
func (m *DataManager) RemoveDataSeries(name string) {
	if name == "" {
		m.series = make(map[string]*DataSeries)
		m.names = set.NewLinkedHashSetString()
		return
	}
	delete(m.series, name)
	m.names.Remove(name)
}

// Clear empties one series, or all of them when name is empty
func (m *DataManager) Clear(name string) {
	if name != "" {
		if ds := m.series[name]; ds != nil {
			ds.Clear()
		}
		return
	}
	for _, ds := range m.series {
		ds.Clear()
	}
}

// Trim keeps at most maxLength values in every series
func (m *DataManager) Trim(maxLength int) {
	for _, ds := range m.series {
		ds.Trim(maxLength)
	}
}

// AddBarDataSeries registers the six bar channels for prefix
func (m *DataManager) AddBarDataSeries(prefix string) (BarDataSeries, error) {
	var (
		bars BarDataSeries
		err  error
	)
	targets := []struct {
		suffix string
		dst    **DataSeries
	}{
		{SuffixDate, &bars.Date},
		{SuffixOpen, &bars.Open},
		{SuffixHigh, &bars.High},
		{SuffixLow, &bars.Low},
		{SuffixClose, &bars.Close},
		{SuffixVolume, &bars.Volume},
	}
	for _, t := range targets {
		if *t.dst, err = m.AddNamed(prefix + t.suffix); err != nil {
			return BarDataSeries{}, err
		}
	}
	return bars, nil
}

func (m *DataManager) lookup(name string, create bool) *DataSeries {
	if create {
		ds, _ := m.GetOrAdd(name)
		return ds
	}
	return m.DataSeries(name)
}

// BarDataSeries returns the bar channels of prefix. Missing channels are nil
// unless create is set.
func (m *DataManager) BarDataSeries(prefix string, create bool) BarDataSeries {
	return BarDataSeries{
		OHLCDataSeries: m.OHLCDataSeries(prefix, create),
		Date:           m.lookup(prefix+SuffixDate, create),
		Volume:         m.lookup(prefix+SuffixVolume, create),
	}
}

// OHLCDataSeries returns the price channels of prefix
func (m *DataManager) OHLCDataSeries(prefix string, create bool) OHLCDataSeries {
	return OHLCDataSeries{
		Open:  m.lookup(prefix+SuffixOpen, create),
		High:  m.lookup(prefix+SuffixHigh, create),
		Low:   m.lookup(prefix+SuffixLow, create),
		Close: m.lookup(prefix+SuffixClose, create),
	}
}

// AppendBars adds bars at the end of the prefix channels, creating them if needed.
func (m *DataManager) AppendBars(prefix string, bars ...Bar) {
	ds := m.BarDataSeries(prefix, true)
	for _, b := range bars {
		ds.Date.AddTime(b.Time)
		ds.Open.Add(b.Open)
		ds.High.Add(b.High)
		ds.Low.Add(b.Low)
		ds.Close.Add(b.Close)
		ds.Volume.Add(b.Volume)
	}
}

// InsertBars inserts bars before index in the prefix channels
func (m *DataManager) InsertBars(prefix string, index int, bars ...Bar) {
	n := len(bars)
	dates := make([]float64, n)
	open, high, low := make([]float64, n), make([]float64, n), make([]float64, n)
	closes, volume := make([]float64, n), make([]float64, n)
	for i, b := range bars {
		dates[i] = TimeToValue(b.Time)
		open[i], high[i], low[i], closes[i], volume[i] = b.Open, b.High, b.Low, b.Close, b.Volume
	}

	ds := m.BarDataSeries(prefix, true)
	ds.Date.Insert(index, dates...)
	ds.Open.Insert(index, open...)
	ds.High.Insert(index, high...)
	ds.Low.Insert(index, low...)
	ds.Close.Insert(index, closes...)
	ds.Volume.Insert(index, volume...)
}

// IndexByDate returns the index of the bar stamped t, or -1
func (m *DataManager) IndexByDate(prefix string, t time.Time) int {
	dates := m.DataSeries(prefix + SuffixDate)
	if dates == nil {
		return -1
	}
	if i := dates.BinaryIndexOf(TimeToValue(t)); i >= 0 {
		return i
	}
	return -1
}

// Bar reassembles the bar stored at index. ok is false when index is out of range.
func (m *DataManager) Bar(prefix string, index int) (Bar, bool) {
	ds := m.BarDataSeries(prefix, false)
	if !ds.Complete() || index < 0 || index >= ds.Date.Len() {
		return Bar{}, false
	}

	value := func(s *DataSeries) float64 {
		v, _ := s.ValueAt(index)
		return v
	}
	t, _ := ds.Date.TimeAt(index)
	return Bar{
		Time:   t,
		Open:   value(ds.Open),
		High:   value(ds.High),
		Low:    value(ds.Low),
		Close:  value(ds.Close),
		Volume: value(ds.Volume),
	}, true
}

// Bars reassembles every stored bar of prefix
func (m *DataManager) Bars(prefix string) []Bar {
	ds := m.BarDataSeries(prefix, false)
	if !ds.Complete() {
		return nil
	}
	bars := make([]Bar, 0, ds.Date.Len())
	for i := 0; i < ds.Date.Len(); i++ {
		if b, ok := m.Bar(prefix, i); ok {
			bars = append(bars, b)
		}
	}
	return bars
}
