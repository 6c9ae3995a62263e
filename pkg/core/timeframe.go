package core

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xhit/go-str2duration/v2"
)

// Calendar spans used to convert time frames into durations
const (
	Year   = 31556926000 * time.Millisecond
	Month  = 2629743830 * time.Millisecond
	Week   = 7 * 24 * time.Hour
	Day    = 24 * time.Hour
	Hour   = time.Hour
	Minute = time.Minute
	Second = time.Second
)

// Periodicity is the unit of a TimeFrame
type Periodicity string

const (
	Tick         Periodicity = "t"
	SecondPeriod Periodicity = "s"
	MinutePeriod Periodicity = ""
	HourPeriod   Periodicity = "h"
	DayPeriod    Periodicity = "d"
	WeekPeriod   Periodicity = "w"
	MonthPeriod  Periodicity = "m"
	YearPeriod   Periodicity = "y"
)

const unknownSpelled = "unknown"

var periodicityNames = map[Periodicity][2]string{
	Tick:         {"tick", "tick"},
	SecondPeriod: {"second", "sec"},
	MinutePeriod: {"minute", "min"},
	HourPeriod:   {"hour", "hr"},
	DayPeriod:    {"day", "day"},
	WeekPeriod:   {"week", "wk"},
	MonthPeriod:  {"month", "mo"},
	YearPeriod:   {"year", "yr"},
}

var periodicityUnits = map[Periodicity]time.Duration{
	SecondPeriod: Second,
	MinutePeriod: Minute,
	HourPeriod:   Hour,
	DayPeriod:    Day,
	WeekPeriod:   Week,
	MonthPeriod:  Month,
	YearPeriod:   Year,
}

// Name returns the long spelling of p
func (p Periodicity) Name() (string, error) {
	names, ok := periodicityNames[p]
	if !ok {
		return unknownSpelled, fmt.Errorf("%w: %q", ErrUnsupportedPeriodicity, string(p))
	}
	return names[0], nil
}

// ShortName returns the abbreviated spelling of p
func (p Periodicity) ShortName() (string, error) {
	names, ok := periodicityNames[p]
	if !ok {
		return unknownSpelled, fmt.Errorf("%w: %q", ErrUnsupportedPeriodicity, string(p))
	}
	return names[1], nil
}

// TimeFrame is an interval count of a periodicity, e.g. 15 minutes
type TimeFrame struct {
	Periodicity Periodicity
	Interval    float64
}

// NewTimeFrame builds a time frame. A non positive interval defaults to 1.
func NewTimeFrame(p Periodicity, interval float64) TimeFrame {
	if interval <= 0 {
		interval = 1
	}
	return TimeFrame{Periodicity: p, Interval: interval}
}

func (tf TimeFrame) String() string {
	name, _ := tf.Periodicity.Name()
	return strconv.FormatFloat(tf.Interval, 'f', -1, 64) + " " + name
}

// Duration converts the time frame into a time interval. Ticks count as
// milliseconds and unknown periodicities yield 0.
func (tf TimeFrame) Duration() time.Duration {
	if tf.Periodicity == Tick {
		return time.Duration(tf.Interval * float64(time.Millisecond))
	}
	unit, ok := periodicityUnits[tf.Periodicity]
	if !ok {
		return 0
	}
	return time.Duration(tf.Interval * float64(unit))
}

// TimeFrameFromDuration picks the largest periodicity fitting d. Weeks are only
// chosen for exact multiples.
func TimeFrameFromDuration(d time.Duration) (TimeFrame, error) {
	ratio := func(unit time.Duration) float64 { return float64(d) / float64(unit) }

	switch {
	case d >= Year:
		return TimeFrame{YearPeriod, ratio(Year)}, nil
	case d >= Month:
		return TimeFrame{MonthPeriod, ratio(Month)}, nil
	case d >= Week && d%Week == 0:
		return TimeFrame{WeekPeriod, ratio(Week)}, nil
	case d >= Day:
		return TimeFrame{DayPeriod, ratio(Day)}, nil
	case d >= Hour:
		return TimeFrame{HourPeriod, ratio(Hour)}, nil
	case d >= Minute:
		return TimeFrame{MinutePeriod, ratio(Minute)}, nil
	case d >= Second:
		return TimeFrame{SecondPeriod, ratio(Second)}, nil
	}
	return TimeFrame{}, fmt.Errorf("%w: %s", ErrUnsupportedTimeInterval, d)
}

// ParseTimeFrame reads strings such as "15m", "4h" or "1w"
func ParseTimeFrame(s string) (TimeFrame, error) {
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return TimeFrame{}, fmt.Errorf("parse time frame %q: %w", s, err)
	}
	return TimeFrameFromDuration(d)
}
