package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeFrame_Names(t *testing.T) {
	tf := NewTimeFrame(HourPeriod, 4)
	assert.Equal(t, "4 hour", tf.String())
	assert.Equal(t, "1 minute", NewTimeFrame(MinutePeriod, 0).String())

	short, err := WeekPeriod.ShortName()
	require.NoError(t, err)
	assert.Equal(t, "wk", short)

	_, err = Periodicity("q").Name()
	require.ErrorIs(t, err, ErrUnsupportedPeriodicity)
	_, err = Periodicity("q").ShortName()
	require.ErrorIs(t, err, ErrUnsupportedPeriodicity)
}

func TestTimeFrame_Duration(t *testing.T) {
	assert.Equal(t, 15*time.Minute, NewTimeFrame(MinutePeriod, 15).Duration())
	assert.Equal(t, 2*Week, NewTimeFrame(WeekPeriod, 2).Duration())
	assert.Equal(t, 5*time.Millisecond, NewTimeFrame(Tick, 5).Duration())
	assert.Zero(t, TimeFrame{Periodicity: "q", Interval: 1}.Duration())
}

func TestTimeFrameFromDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want TimeFrame
	}{
		{30 * time.Second, TimeFrame{SecondPeriod, 30}},
		{5 * time.Minute, TimeFrame{MinutePeriod, 5}},
		{4 * time.Hour, TimeFrame{HourPeriod, 4}},
		{Day, TimeFrame{DayPeriod, 1}},
		{Week, TimeFrame{WeekPeriod, 1}},
		{10 * Day, TimeFrame{DayPeriod, 10}},
		{Month, TimeFrame{MonthPeriod, 1}},
		{Year, TimeFrame{YearPeriod, 1}},
	}
	for _, c := range cases {
		got, err := TimeFrameFromDuration(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, c.in.String())
	}

	_, err := TimeFrameFromDuration(500 * time.Millisecond)
	require.ErrorIs(t, err, ErrUnsupportedTimeInterval)
}

func TestParseTimeFrame(t *testing.T) {
	tf, err := ParseTimeFrame("15m")
	require.NoError(t, err)
	assert.Equal(t, TimeFrame{MinutePeriod, 15}, tf)

	tf, err = ParseTimeFrame("1w")
	require.NoError(t, err)
	assert.Equal(t, TimeFrame{WeekPeriod, 1}, tf)

	_, err = ParseTimeFrame("fast")
	require.Error(t, err)
}
