package study

import (
	"github.com/raykavin/tasdk/pkg/core"
)

// Source provides the input channels of a study, keyed by data series
// suffix (core.SuffixClose, core.SuffixVolume, ...).
type Source interface {
	DataSeries(suffix string) *core.DataSeries
}

// ManagerSource reads the channels of one symbol stored in a DataManager
type ManagerSource struct {
	Manager *core.DataManager
	Prefix  string
}

func (s ManagerSource) DataSeries(suffix string) *core.DataSeries {
	return s.Manager.DataSeries(s.Prefix + suffix)
}

// BarSource loads bars into a fresh DataManager and reads them back
func BarSource(bars []core.Bar) Source {
	m := core.NewDataManager()
	m.AppendBars("", bars...)
	return ManagerSource{Manager: m}
}

var channelFields = map[string]string{
	core.SuffixDate:   "Date",
	core.SuffixOpen:   "Open",
	core.SuffixHigh:   "High",
	core.SuffixLow:    "Low",
	core.SuffixClose:  "Close",
	core.SuffixVolume: "Volume",
}

func channelField(suffix string) string {
	if name, ok := channelFields[suffix]; ok {
		return name
	}
	return suffix
}
