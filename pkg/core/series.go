package core

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Series is a 0-based run of ordered values
type Series[T constraints.Ordered] []T

// Length returns the number of values in the series
func (s Series[T]) Length() int {
	return len(s)
}

// Last returns the value at a position counted from the end,
// 0 being the last value.
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// LastValues returns at most size trailing values
func (s Series[T]) LastValues(size int) Series[T] {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// Crossover reports whether s moved above ref on the last value
func (s Series[T]) Crossover(ref Series[T]) bool {
	if len(s) < 2 || len(ref) < 2 {
		return false
	}
	return s.Last(0) > ref.Last(0) && s.Last(1) <= ref.Last(1)
}

// Crossunder reports whether s moved to or below ref on the last value
func (s Series[T]) Crossunder(ref Series[T]) bool {
	if len(s) < 2 || len(ref) < 2 {
		return false
	}
	return s.Last(0) <= ref.Last(0) && s.Last(1) > ref.Last(1)
}

// lowerBound is the first index whose value is >= x. s must be sorted.
func (s Series[T]) lowerBound(x T) int {
	return sort.Search(len(s), func(i int) bool { return s[i] >= x })
}

// upperBound is the first index whose value is > x. s must be sorted.
func (s Series[T]) upperBound(x T) int {
	return sort.Search(len(s), func(i int) bool { return s[i] > x })
}

// NumDecPlaces returns the number of decimal places of v
func NumDecPlaces(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i > -1 {
		return len(s) - i - 1
	}
	return 0
}
