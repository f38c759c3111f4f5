package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - A calendar date (leave is always booked in whole dates)
// =============================================================================

// DateLayout is the wire format for dates.
const DateLayout = "2006-01-02"

// TimePoint is a calendar date. The zero value is "no date"; every date built
// through a constructor is set, including 0001-01-01.
type TimePoint struct {
	Time time.Time
	set  bool
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), set: true}
}

// DateOf drops the clock and location of t, keeping its calendar date.
func DateOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date. RFC3339 timestamps are accepted and
// truncated to their calendar date.
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return TimePoint{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// epochDay counts days since 1970-01-01; negative before it.
func (tp TimePoint) epochDay() int64 {
	return tp.normalize().Unix() / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return DateOf(tp.Time.AddDate(0, 0, n)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return !tp.set }

func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (tp TimePoint) IsWorkday() bool { return !tp.IsWeekend() }

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(DateLayout)
}

// =============================================================================
// SALARY MONTH - The month a payroll run is computed for
// =============================================================================

type SalaryMonth struct {
	Year  int
	Month time.Month
}

func NewSalaryMonth(year int, month time.Month) (SalaryMonth, error) {
	m := SalaryMonth{Year: year, Month: month}
	if err := m.Validate(); err != nil {
		return SalaryMonth{}, err
	}
	return m, nil
}

// ParseSalaryMonth parses "YYYY-MM".
func ParseSalaryMonth(s string) (SalaryMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return SalaryMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return SalaryMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (m SalaryMonth) Validate() error {
	if m.Year < 1 || m.Year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidMonth, m.Year)
	}
	if m.Month < time.January || m.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidMonth, int(m.Month))
	}
	return nil
}

func (m SalaryMonth) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// Period returns the first through last day of the month.
func (m SalaryMonth) Period() Period {
	return Period{Start: StartOfMonth(m.Year, m.Month), End: EndOfMonth(m.Year, m.Month)}
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func StartOfYear(year int) TimePoint                    { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint                      { return NewTimePoint(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	return DateOf(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}
