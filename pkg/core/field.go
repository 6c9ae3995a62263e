package core

// NullValue marks a missing numeric value inside a Field.
const NullValue = -987653421.0

// Field is a named numeric sequence addressed from 1. Index 0 is reserved and
// never holds a meaningful value.
type Field struct {
	Name        string
	RecordCount int
	values      []float64
}

// NewField returns a zero filled field able to hold count records
func NewField(count int, name string) *Field {
	if count < 0 {
		count = 0
	}
	return &Field{
		Name:        name,
		RecordCount: count,
		values:      make([]float64, count+1),
	}
}

// FieldFromValues builds a field around an already 1-based slice.
// The slice is used as is, values[0] being the reserved slot.
func FieldFromValues(name string, recordCount int, values []float64) *Field {
	return &Field{Name: name, RecordCount: recordCount, values: values}
}

// Value returns the value stored at index i, or NullValue when i is out of range.
func (f *Field) Value(i int) float64 {
	if f == nil || i <= 0 || i >= len(f.values) {
		return NullValue
	}
	return f.values[i]
}

// SetValue stores v at index i. Writes outside the backing storage are dropped.
func (f *Field) SetValue(i int, v float64) {
	if i < 0 || i >= len(f.values) {
		return
	}
	f.values[i] = v
}

// Values exposes the backing slice, reserved index included.
func (f *Field) Values() []float64 {
	return f.values
}

// Clone returns a deep copy named name
func (f *Field) Clone(name string) *Field {
	values := make([]float64, len(f.values))
	copy(values, f.values)
	return &Field{Name: name, RecordCount: f.RecordCount, values: values}
}

// IsNull reports whether v is the null sentinel
func IsNull(v float64) bool {
	return v == NullValue
}
