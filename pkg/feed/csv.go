// Package feed loads OHLCV bars from CSV files and resamples them to a
// coarser timeframe.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/raykavin/tasdk/pkg/core"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/xhit/go-str2duration/v2"
)

var (
	ErrEmptyFile        = errors.New("empty csv file")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
	ErrUnknownSource    = errors.New("unknown source")

	defaultHeaderMap = map[string]int{
		"time": 0, "open": 1, "close": 2, "low": 3, "high": 4, "volume": 5,
	}
)

// Source describes one CSV file and the timeframe of its rows
type Source struct {
	Name      string
	File      string
	Timeframe string
}

var _ core.Feeder = (*CSVFeed)(nil)

// CSVFeed holds the bars of every source, already resampled
type CSVFeed struct {
	Timeframe string
	Sources   map[string]Source
	bars      map[string][]core.Bar
}

// NewCSVFeed reads every source and resamples it to targetTimeframe. An
// empty target keeps the rows as read.
func NewCSVFeed(targetTimeframe string, sources ...Source) (*CSVFeed, error) {
	f := &CSVFeed{
		Timeframe: targetTimeframe,
		Sources:   make(map[string]Source, len(sources)),
		bars:      make(map[string][]core.Bar, len(sources)),
	}

	for _, src := range sources {
		bars, err := ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}

		if targetTimeframe != "" {
			bars, err = Resample(bars, src.Timeframe, targetTimeframe)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", src.Name, err)
			}
		}

		f.Sources[src.Name] = src
		f.bars[src.Name] = bars
	}

	return f, nil
}

// Names lists the loaded sources in alphabetical order
func (f *CSVFeed) Names() []string {
	names := lo.Keys(f.Sources)
	slices.Sort(names)
	return names
}

// Bars returns the bars of a source
func (f *CSVFeed) Bars(name string) ([]core.Bar, error) {
	bars, ok := f.bars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}
	return bars, nil
}

// BarsByPeriod returns the bars of a source between start and end, inclusive
func (f *CSVFeed) BarsByPeriod(name string, start, end time.Time) ([]core.Bar, error) {
	bars, err := f.Bars(name)
	if err != nil {
		return nil, err
	}
	return lo.Filter(bars, func(b core.Bar, _ int) bool {
		return !b.Time.Before(start) && !b.Time.After(end)
	}), nil
}

// Limit keeps only the bars newer than duration before each source's last bar
func (f *CSVFeed) Limit(duration time.Duration) *CSVFeed {
	for name, bars := range f.bars {
		if len(bars) == 0 {
			continue
		}

		start := bars[len(bars)-1].Time.Add(-duration)
		f.bars[name] = lo.Filter(bars, func(b core.Bar, _ int) bool {
			return b.Time.After(start)
		})
	}
	return f
}

// ReadFile reads bars from a CSV file
func ReadFile(path string) ([]core.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// Read parses CSV rows into bars. The first row is a header unless its first
// cell is numeric, in which case the columns are time, open, close, low, high,
// volume. Header columns other than those land in Bar.Metadata.
func Read(r io.Reader) ([]core.Bar, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	headerMap, additional, hasHeaders := parseHeaders(lines[0])
	if hasHeaders {
		lines = lines[1:]
	}

	bars := make([]core.Bar, 0, len(lines))
	for i, line := range lines {
		bar, err := parseBar(line, headerMap, additional)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Write renders bars in the headerless column order accepted by Read
func Write(w io.Writer, bars []core.Bar, precision int) error {
	writer := csv.NewWriter(w)
	for _, bar := range bars {
		if err := writer.Write(bar.ToSlice(precision)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseHeaders(headers []string) (headerMap map[string]int, additional []string, hasHeaders bool) {
	if _, err := strconv.Atoi(headers[0]); err == nil {
		return defaultHeaderMap, nil, false
	}

	headerMap = make(map[string]int, len(headers))
	for index, header := range headers {
		headerMap[header] = index
		if _, exists := defaultHeaderMap[header]; !exists {
			additional = append(additional, header)
		}
	}
	return headerMap, additional, true
}

func parseBar(line []string, headerMap map[string]int, additional []string) (core.Bar, error) {
	column := func(name string) (string, error) {
		index, ok := headerMap[name]
		if !ok || index >= len(line) {
			return "", fmt.Errorf("missing column %q", name)
		}
		return line[index], nil
	}

	var bar core.Bar

	raw, err := column("time")
	if err != nil {
		return bar, err
	}
	if bar.Time, err = parseTime(raw); err != nil {
		return bar, err
	}

	for name, dst := range map[string]*float64{
		"open": &bar.Open, "high": &bar.High, "low": &bar.Low, "close": &bar.Close, "volume": &bar.Volume,
	} {
		if raw, err = column(name); err != nil {
			return bar, err
		}
		if *dst, err = strconv.ParseFloat(raw, 64); err != nil {
			return bar, err
		}
	}

	if len(additional) > 0 {
		bar.Metadata = make(map[string]float64, len(additional))
		for _, header := range additional {
			if raw, err = column(header); err != nil {
				return bar, err
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return bar, err
			}
			bar.Metadata[header] = value
		}
	}

	return bar, nil
}

// parseTime accepts Unix seconds or any layout known to cast
func parseTime(raw string) (time.Time, error) {
	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Resample merges bars of timeframe from into bars of timeframe to. Bars
// before the first complete period and a trailing incomplete period are
// dropped.
func Resample(bars []core.Bar, from, to string) ([]core.Bar, error) {
	if len(bars) == 0 || from == to {
		return slices.Clone(bars), nil
	}

	fromDuration, err := str2duration.ParseDuration(from)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeframe, from)
	}
	if _, err := isTimeOnPeriodBoundary(time.Time{}, to); err != nil {
		return nil, err
	}

	start := -1
	for i := range bars {
		first, err := isTimeOnPeriodBoundary(bars[i].Time, to)
		if err != nil {
			return nil, err
		}
		if first {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil
	}

	out := make([]core.Bar, 0, len(bars)/2)
	var current core.Bar
	inPeriod := false

	for _, bar := range bars[start:] {
		if !inPeriod {
			current = bar
			inPeriod = true
		} else {
			current = current.Merge(bar)
		}

		last, err := isTimeOnPeriodBoundary(bar.Time.Add(fromDuration).UTC(), to)
		if err != nil {
			return nil, err
		}
		if last {
			out = append(out, current)
			inPeriod = false
		}
	}

	return out, nil
}

// isTimeOnPeriodBoundary reports whether t opens a period of timeframe.
// Weeks open on Sunday; shorter timeframes must divide a day evenly.
func isTimeOnPeriodBoundary(t time.Time, timeframe string) (bool, error) {
	t = t.UTC()
	if timeframe == "1w" {
		return t.Weekday() == time.Sunday && t.Equal(t.Truncate(core.Day)), nil
	}

	d, err := str2duration.ParseDuration(timeframe)
	if err != nil || d <= 0 || core.Day%d != 0 {
		return false, fmt.Errorf("%w: %s", ErrInvalidTimeframe, timeframe)
	}
	return t.Equal(t.Truncate(d)), nil
}
