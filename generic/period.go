package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// WINDOW - Inclusive day range
// =============================================================================

// Window is an inclusive calendar range [Start, End].
type Window struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the day is within [Start, End].
func (w Window) Contains(t TimePoint) bool {
	return t.AfterOrEqual(w.Start) && t.BeforeOrEqual(w.End)
}

// Len is the number of calendar days in the window, counting both ends.
func (w Window) Len() int {
	if w.End.Before(w.Start) {
		return 0
	}
	return DaysBetween(w.Start, w.End) + 1
}

// Days returns all days in the window.
func (w Window) Days() []TimePoint {
	var days []TimePoint
	for current := w.Start; current.BeforeOrEqual(w.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (w Window) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// =============================================================================
// MONTH KEY
// =============================================================================

const MonthKeyLayout = "2006-01"

// MonthKey identifies a calendar month, written YYYY-MM.
type MonthKey struct {
	Year  int
	Month time.Month
}

func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse(MonthKeyLayout, strings.TrimSpace(s))
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

func (m MonthKey) FirstDay() TimePoint { return StartOfMonth(m.Year, m.Month) }
func (m MonthKey) LastDay() TimePoint  { return EndOfMonth(m.Year, m.Month) }
func (m MonthKey) Days() int           { return DaysInMonth(m.Year, m.Month) }
func (m MonthKey) Window() Window      { return Window{Start: m.FirstDay(), End: m.LastDay()} }
func (m MonthKey) IsZero() bool        { return m.Year == 0 && m.Month == 0 }

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// =============================================================================
// PAY PERIOD - Month key or explicit range
// =============================================================================

// PayPeriod is either a calendar month or an explicit inclusive date range.
// When both are present the range wins; the month is kept only as a label.
type PayPeriod struct {
	Month MonthKey
	Range *Window
}

// MonthPeriod builds a month-keyed period.
func MonthPeriod(m MonthKey) PayPeriod {
	return PayPeriod{Month: m}
}

// RangePeriod builds an explicit-range period. from must not be after to.
func RangePeriod(from, to TimePoint) (PayPeriod, error) {
	if to.Before(from) {
		return PayPeriod{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, from, to)
	}
	return PayPeriod{Month: from.MonthKey(), Range: &Window{Start: from, End: to}}, nil
}

// ResolvePeriod builds a period from raw request values. An explicit
// from/to pair takes precedence over the month key.
func ResolvePeriod(month, from, to string) (PayPeriod, error) {
	if from != "" || to != "" {
		if from == "" || to == "" {
			return PayPeriod{}, fmt.Errorf("%w: both from and to are required", ErrInvalidPeriod)
		}
		start, err := ParseDate(from)
		if err != nil {
			return PayPeriod{}, fmt.Errorf("%w: from: %v", ErrInvalidPeriod, err)
		}
		end, err := ParseDate(to)
		if err != nil {
			return PayPeriod{}, fmt.Errorf("%w: to: %v", ErrInvalidPeriod, err)
		}
		p, err := RangePeriod(start, end)
		if err != nil {
			return PayPeriod{}, err
		}
		if month != "" {
			if m, err := ParseMonthKey(month); err == nil {
				p.Month = m
			}
		}
		return p, nil
	}
	if month == "" {
		return PayPeriod{}, fmt.Errorf("%w: month or from/to is required", ErrInvalidPeriod)
	}
	m, err := ParseMonthKey(month)
	if err != nil {
		return PayPeriod{}, err
	}
	return MonthPeriod(m), nil
}

// IsRange reports whether the explicit range is active.
func (p PayPeriod) IsRange() bool { return p.Range != nil }

// Window returns the calendar days the period covers.
func (p PayPeriod) Window() Window {
	if p.Range != nil {
		return *p.Range
	}
	return p.Month.Window()
}

// Key is the natural key used to persist provisioned salaries.
func (p PayPeriod) Key() string {
	if p.Range != nil {
		return p.Range.Start.String() + ".." + p.Range.End.String()
	}
	return p.Month.String()
}

// Equal compares the active representation only.
func (p PayPeriod) Equal(o PayPeriod) bool {
	return p.Key() == o.Key()
}

func (p PayPeriod) String() string {
	return p.Key()
}
