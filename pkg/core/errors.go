package core

import "errors"

var (
	ErrInvalidValues           = errors.New("data series values must be a slice")
	ErrEmptySeriesName         = errors.New("data series name cannot be empty")
	ErrSeriesExists            = errors.New("data series already exists")
	ErrSeriesNotFound          = errors.New("data series not found")
	ErrUnsupportedPeriodicity  = errors.New("unsupported periodicity")
	ErrUnsupportedTimeInterval = errors.New("unsupported time interval")
)
