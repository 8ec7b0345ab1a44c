package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	errorvalues "github.com/limbo/questboard/internal/error_values"
)

// parseDueDate merges date (YYYY-MM-DD or RFC3339) with optional clock
// (HH:MM). A plain date without clock means midnight in loc.
func parseDueDate(date string, clock *string, loc *time.Location) (time.Time, error) {
	var due time.Time
	if d, err := time.ParseInLocation(dateLayout, date, loc); err == nil {
		due = d
	} else if d, err := time.Parse(time.RFC3339, date); err == nil {
		due = d
	} else {
		return time.Time{}, errors.Join(errorvalues.ErrValidation, errors.New("bad due_date: "+date))
	}
	if clock == nil || *clock == "" {
		return due, nil
	}
	return withClock(due, *clock)
}

// withClock replaces hour and minute of t keeping its date and location.
func withClock(t time.Time, clock string) (time.Time, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, errors.Join(errorvalues.ErrValidation, errors.New("bad due_time: "+clock))
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, errors.Join(errorvalues.ErrValidation, errors.New("bad due_time: "+clock))
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, errors.Join(errorvalues.ErrValidation, errors.New("bad due_time: "+clock))
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location()), nil
}

// dayBounds returns [start of day, start of next day) of t in loc.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
