package core

import (
	"time"
)

// Feeder provides historical bars by source name
type Feeder interface {
	Names() []string
	Bars(name string) ([]Bar, error)
	BarsByPeriod(name string, start, end time.Time) ([]Bar, error)
}
