package indicator

import "github.com/raykavin/tasdk/pkg/core"

// Price field names expected in an OHLCV recordset
const (
	FieldOpen   = "Open"
	FieldHigh   = "High"
	FieldLow    = "Low"
	FieldClose  = "Close"
	FieldVolume = "Volume"
)

// NewOHLCV bundles price fields into the recordset layout consumed by the
// bar based indicators. Nil fields are skipped.
func NewOHLCV(open, high, low, close, volume *core.Field) *core.Recordset {
	rs := core.NewRecordset()
	names := []string{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume}
	for i, f := range []*core.Field{open, high, low, close, volume} {
		if f != nil {
			rs.AddField(f.Clone(names[i]))
		}
	}
	return rs
}

type bars struct {
	open, high, low, close, volume *core.Field
	count                          int
}

func readBars(rs *core.Recordset) bars {
	b := bars{
		open:   rs.Field(FieldOpen),
		high:   rs.Field(FieldHigh),
		low:    rs.Field(FieldLow),
		close:  rs.Field(FieldClose),
		volume: rs.Field(FieldVolume),
	}
	if first := rs.FieldByIndex(0); first != nil {
		b.count = first.RecordCount
	}
	return b
}

// field allocates an output sized like the bars
func (b bars) field(name string) *core.Field {
	return core.NewField(b.count, name)
}
