package core

// Recordset is an ordered collection of fields produced by one computation.
// Field names are unique; adding a field with an existing name replaces it.
type Recordset struct {
	fields []*Field
}

// NewRecordset creates a recordset holding the given fields in order
func NewRecordset(fields ...*Field) *Recordset {
	rs := &Recordset{}
	for _, f := range fields {
		rs.AddField(f)
	}
	return rs
}

// AddField appends f, or replaces the field already registered under f.Name
func (r *Recordset) AddField(f *Field) {
	if f == nil {
		return
	}
	if i := r.index(f.Name); i != -1 {
		r.fields[i] = f
		return
	}
	r.fields = append(r.fields, f)
}

func (r *Recordset) index(name string) int {
	if r == nil {
		return -1
	}
	for i, f := range r.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether a field called name exists
func (r *Recordset) Has(name string) bool {
	return r != nil && r.index(name) != -1
}

// RenameField changes the name of a field. Missing fields are ignored.
func (r *Recordset) RenameField(oldName, newName string) {
	if i := r.index(oldName); i != -1 {
		r.fields[i].Name = newName
	}
}

// RemoveField drops a field by name
func (r *Recordset) RemoveField(name string) {
	if i := r.index(name); i != -1 {
		r.fields = append(r.fields[:i], r.fields[i+1:]...)
	}
}

// Value reads record i of field name, returning -1 when the field does not exist.
func (r *Recordset) Value(name string, i int) float64 {
	if idx := r.index(name); idx != -1 {
		return r.fields[idx].Value(i)
	}
	return -1
}

// Field returns the field called name. A missing field yields an empty field
// whose every value reads as NullValue, so callers never deal with nil.
func (r *Recordset) Field(name string) *Field {
	if r != nil {
		if i := r.index(name); i != -1 {
			return r.fields[i]
		}
	}
	return &Field{}
}

// FieldByIndex returns the field at position i or an empty field
func (r *Recordset) FieldByIndex(i int) *Field {
	if r != nil && i >= 0 && i < len(r.fields) {
		return r.fields[i]
	}
	return &Field{}
}

// CopyField copies every record of field name into dst
func (r *Recordset) CopyField(dst *Field, name string) {
	i := r.index(name)
	if i == -1 {
		return
	}
	src := r.fields[i]
	for rec := 1; rec <= src.RecordCount; rec++ {
		dst.SetValue(rec, src.Value(rec))
	}
}

// Name returns the name of the field at position i, or "" when out of range.
func (r *Recordset) Name(i int) string {
	if i >= 0 && i < len(r.fields) {
		return r.fields[i].Name
	}
	return ""
}

// Names lists field names in insertion order
func (r *Recordset) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of fields
func (r *Recordset) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Merge moves every field of other into r
func (r *Recordset) Merge(other *Recordset) {
	if other == nil {
		return
	}
	for _, f := range other.fields {
		r.AddField(f)
	}
}
