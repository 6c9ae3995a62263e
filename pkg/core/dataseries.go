package core

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// Well known data series suffixes. A bar data series is named "<prefix><suffix>".
const (
	SuffixDate   = ".date"
	SuffixOpen   = ".open"
	SuffixHigh   = ".high"
	SuffixLow    = ".low"
	SuffixClose  = ".close"
	SuffixVolume = ".volume"
)

// DataSeries is a 0-based sequence of numbers or dates. Dates are stored as
// Unix milliseconds and a missing value is NaN.
type DataSeries struct {
	name   string
	values Series[float64]
}

// Null returns the value a DataSeries uses for a missing entry
func Null() float64 {
	return math.NaN()
}

// NewDataSeries creates a data series holding a copy of values
func NewDataSeries(name string, values ...float64) *DataSeries {
	ds := &DataSeries{name: name, values: make(Series[float64], 0, len(values))}
	ds.values = append(ds.values, values...)
	return ds
}

// NewDateDataSeries creates a chronological series from times
func NewDateDataSeries(name string, times ...time.Time) *DataSeries {
	ds := NewDataSeries(name)
	ds.AddTime(times...)
	return ds
}

func (d *DataSeries) Name() string        { return d.name }
func (d *DataSeries) SetName(name string) { d.name = name }
func (d *DataSeries) Len() int            { return len(d.values) }

// Values exposes the stored values
func (d *DataSeries) Values() Series[float64] {
	return d.values
}

// SetValues replaces the content of the series. Accepted inputs are []float64,
// []time.Time, []*float64 (nil meaning missing) and []any holding numbers,
// times or nil.
func (d *DataSeries) SetValues(values any) error {
	switch v := values.(type) {
	case []float64:
		d.values = Series[float64](slices.Clone(v))
	case Series[float64]:
		d.values = slices.Clone(v)
	case []time.Time:
		d.values = make(Series[float64], len(v))
		for i, t := range v {
			d.values[i] = TimeToValue(t)
		}
	case []*float64:
		d.values = make(Series[float64], len(v))
		for i, p := range v {
			d.values[i] = math.NaN()
			if p != nil {
				d.values[i] = *p
			}
		}
	case []any:
		converted := make(Series[float64], len(v))
		for i, item := range v {
			f, err := anyToValue(item)
			if err != nil {
				return fmt.Errorf("value at index %d: %w", i, err)
			}
			converted[i] = f
		}
		d.values = converted
	default:
		return fmt.Errorf("%w: got %T", ErrInvalidValues, values)
	}
	return nil
}

func anyToValue(item any) (float64, error) {
	switch x := item.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case time.Time:
		return TimeToValue(x), nil
	default:
		return 0, fmt.Errorf("%w: unsupported element %T", ErrInvalidValues, item)
	}
}

// TimeToValue converts t into the numeric form kept by date series
func TimeToValue(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// ValueToTime is the inverse of TimeToValue
func ValueToTime(v float64) time.Time {
	return time.UnixMilli(int64(v)).UTC()
}

// NameSuffix returns the name part starting at the last dot, or "" when the
// name has no dot.
func (d *DataSeries) NameSuffix() string {
	if i := strings.LastIndexByte(d.name, '.'); i >= 0 {
		return d.name[i:]
	}
	return ""
}

func (d *DataSeries) IsDateDataSeries() bool  { return d.NameSuffix() == SuffixDate }
func (d *DataSeries) IsValueDataSeries() bool { return !d.IsDateDataSeries() }

// FirstValue returns the first value. ok is false on an empty series.
func (d *DataSeries) FirstValue() (float64, bool) {
	if len(d.values) == 0 {
		return math.NaN(), false
	}
	return d.values[0], true
}

// LastValue returns the last value, NaN when empty
func (d *DataSeries) LastValue() float64 {
	if len(d.values) == 0 {
		return math.NaN()
	}
	return d.values[len(d.values)-1]
}

// ValueAt returns the value at index i. ok is false for an index outside the series.
func (d *DataSeries) ValueAt(i int) (float64, bool) {
	if i < 0 || i >= len(d.values) {
		return math.NaN(), false
	}
	return d.values[i], true
}

// TimeAt reads index i of a date series
func (d *DataSeries) TimeAt(i int) (time.Time, bool) {
	v, ok := d.ValueAt(i)
	if !ok || math.IsNaN(v) {
		return time.Time{}, false
	}
	return ValueToTime(v), true
}

// SetValueAt writes v at index i, growing the series with missing values when
// i is past the end.
func (d *DataSeries) SetValueAt(i int, v float64) {
	if i < 0 {
		return
	}
	for len(d.values) <= i {
		d.values = append(d.values, math.NaN())
	}
	d.values[i] = v
}

// Add appends values
func (d *DataSeries) Add(values ...float64) {
	d.values = append(d.values, values...)
}

// AddTime appends dates
func (d *DataSeries) AddTime(times ...time.Time) {
	for _, t := range times {
		d.values = append(d.values, TimeToValue(t))
	}
}

// Insert places values before index. The index is clamped to the series bounds.
func (d *DataSeries) Insert(index int, values ...float64) {
	index = max(0, min(index, len(d.values)))
	out := make(Series[float64], 0, len(d.values)+len(values))
	out = append(out, d.values[:index]...)
	out = append(out, values...)
	d.values = append(out, d.values[index:]...)
}

// UpdateLast replaces the last value. It does nothing on an empty series.
func (d *DataSeries) UpdateLast(v float64) {
	if n := len(d.values); n > 0 {
		d.values[n-1] = v
	}
}

// Clear removes all values
func (d *DataSeries) Clear() {
	d.values = d.values[:0]
}

// Trim drops the oldest values so at most maxLength remain and returns how
// many were removed.
func (d *DataSeries) Trim(maxLength int) int {
	overhead := len(d.values) - max(maxLength, 0)
	if overhead <= 0 {
		return 0
	}
	d.values = append(Series[float64]{}, d.values[overhead:]...)
	return overhead
}

// ItemsCountBetweenValues counts non-missing values inside [start, end]
func (d *DataSeries) ItemsCountBetweenValues(start, end float64) int {
	count := 0
	for _, v := range d.values {
		if !math.IsNaN(v) && v >= start && v <= end {
			count++
		}
	}
	return count
}

// MinMaxValues searches count values from startIndex, skipping missing ones.
// A negative count scans to the end. An empty range returns +Inf, -Inf.
func (d *DataSeries) MinMaxValues(startIndex, count int) (lo, hi float64) {
	n := len(d.values)
	if startIndex < 0 || startIndex >= n-1 {
		startIndex = 0
	}
	if count < 0 {
		count = n - startIndex
	}

	lo, hi = math.Inf(1), math.Inf(-1)
	end := min(startIndex+count-1, n-1)
	for i := startIndex; i <= end; i++ {
		v := d.values[i]
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// BinaryIndexOf returns the index of x in a sorted series, or the bitwise
// complement of the index where x would be inserted.
func (d *DataSeries) BinaryIndexOf(x float64) int {
	i := d.values.lowerBound(x)
	if i < len(d.values) && d.values[i] == x {
		return i
	}
	return ^i
}

// FloorIndex returns the greatest index holding a value <= x, or -1.
func (d *DataSeries) FloorIndex(x float64) int {
	return d.values.upperBound(x) - 1
}

// CeilIndex returns the smallest index holding a value >= x, or Len() when
// every value is smaller.
func (d *DataSeries) CeilIndex(x float64) int {
	return d.values.lowerBound(x)
}

// LeftNearestVisibleValueIndex scans left from index for a non-missing value
func (d *DataSeries) LeftNearestVisibleValueIndex(index int) int {
	for i := min(index, len(d.values)-1); i >= 0; i-- {
		if !math.IsNaN(d.values[i]) {
			return i
		}
	}
	return 0
}

// RightNearestVisibleValueIndex scans right from index for a non-missing value
func (d *DataSeries) RightNearestVisibleValueIndex(index int) int {
	for i := max(index, 0); i < len(d.values); i++ {
		if !math.IsNaN(d.values[i]) {
			return i
		}
	}
	return len(d.values) - 1
}

// Crossover reports whether d crossed above ref on the last value
func (d *DataSeries) Crossover(ref *DataSeries) bool {
	return d.values.Crossover(ref.values)
}

// Crossunder reports whether d crossed below ref on the last value
func (d *DataSeries) Crossunder(ref *DataSeries) bool {
	return d.values.Crossunder(ref.values)
}

// ToField exports the series as a 1-based field: one leading zero, every
// value, one trailing zero. Missing values are exported as NullValue.
func (d *DataSeries) ToField(name string) *Field {
	if name == "" {
		name = d.name
	}
	values := make([]float64, len(d.values)+2)
	for i, v := range d.values {
		if math.IsNaN(v) {
			v = NullValue
		}
		values[i+1] = v
	}
	return FieldFromValues(name, len(d.values), values)
}

// FromField loads the values of f. The first startIndex-1 values become
// missing, as do values equal to NullValue.
func (d *DataSeries) FromField(f *Field, startIndex int) {
	count := f.RecordCount
	raw := f.Values()
	end := min(max(startIndex, 1)+count, len(raw), count+1)

	values := make(Series[float64], 0, count)
	if end > 1 {
		values = append(values, raw[1:end]...)
	}

	i := 0
	for ; i < startIndex-1 && i < len(values); i++ {
		values[i] = math.NaN()
	}
	for ; i < len(values); i++ {
		if values[i] == NullValue {
			values[i] = math.NaN()
		}
	}
	d.values = values
}

// DataSeriesFromField creates a series named after f from its values
func DataSeriesFromField(f *Field, startIndex int) *DataSeries {
	ds := &DataSeries{name: f.Name}
	ds.FromField(f, startIndex)
	return ds
}
