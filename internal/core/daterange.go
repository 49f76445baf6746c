package core

import (
	"errors"
	"fmt"
	"time"
)

// Time periods accepted by the query surface. The period decides the
// granularity of the date inputs: day expects YYYY-MM-DD, month YYYY-MM,
// year YYYY.
const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

var (
	ErrNoDates             = errors.New("a date, or a startDate and endDate, is required")
	ErrIncompleteDateRange = errors.New("this method requires both a startDate and endDate")
	ErrSwappedDateRange    = errors.New("startDate must be earlier than endDate")
	ErrUnknownTimePeriod   = errors.New("unknown time period")
	ErrInvalidDate         = errors.New("invalid date")
)

// DateRange is a half-open UTC interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the interval.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func periodLayout(period string) (string, error) {
	switch period {
	case PeriodDay:
		return "2006-01-02", nil
	case PeriodMonth:
		return "2006-01", nil
	case PeriodYear:
		return "2006", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTimePeriod, period)
	}
}

func parsePeriodDate(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t.UTC(), nil
}

// ResolveDateRange turns a time period plus either a single reference date
// or an explicit start/end pair into a half-open UTC interval.
//
// A single reference date expands to the whole unit it names: the day
// itself, the calendar month (plus one trailing day, matching long-standing
// query behavior) or the calendar year. An explicit pair spans from the
// start of the first unit to the end of the last; for months the trailing
// day is not added.
//
// Validation short-circuits in order: no dates at all, an incomplete pair,
// then a swapped pair.
func ResolveDateRange(period, date, startDate, endDate string) (DateRange, error) {
	if date == "" && startDate == "" && endDate == "" {
		return DateRange{}, ErrNoDates
	}
	if date == "" && (startDate == "" || endDate == "") {
		return DateRange{}, ErrIncompleteDateRange
	}

	layout, err := periodLayout(period)
	if err != nil {
		return DateRange{}, err
	}

	if date != "" {
		ref, err := parsePeriodDate(layout, date)
		if err != nil {
			return DateRange{}, err
		}
		return singleRange(period, ref), nil
	}

	start, err := parsePeriodDate(layout, startDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := parsePeriodDate(layout, endDate)
	if err != nil {
		return DateRange{}, err
	}
	if end.Before(start) {
		return DateRange{}, ErrSwappedDateRange
	}
	return pairRange(period, start, end), nil
}

func singleRange(period string, ref time.Time) DateRange {
	switch period {
	case PeriodDay:
		return DateRange{Start: ref, End: ref.AddDate(0, 0, 1)}
	case PeriodMonth:
		// The month window carries one extra trailing day.
		return DateRange{Start: ref, End: ref.AddDate(0, 1, 1)}
	default: // PeriodYear
		return DateRange{Start: ref, End: ref.AddDate(1, 0, 0)}
	}
}

func pairRange(period string, start, end time.Time) DateRange {
	switch period {
	case PeriodDay:
		return DateRange{Start: start, End: end.AddDate(0, 0, 1)}
	case PeriodMonth:
		return DateRange{Start: start, End: end.AddDate(0, 1, 0)}
	default: // PeriodYear
		return DateRange{Start: start, End: end.AddDate(1, 0, 0)}
	}
}
