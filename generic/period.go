package generic

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive range of calendar dates. A leave request spans a
// Period; so does a salary month and a quota year.
//
// Examples:
//   - Leave Mar 7 - Mar 10: four dates, two of them a weekend
//   - Calendar year 2025: Jan 1 - Dec 31
type Period struct {
	Start TimePoint
	End   TimePoint
}

// YearPeriod returns Jan 1 - Dec 31 of year.
func YearPeriod(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// Validate rejects missing dates and ranges that end before they start.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return ErrInvalidDate
	}
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two periods share at least one date.
func (p Period) Overlaps(other Period) bool {
	return !p.End.Before(other.Start) && !other.End.Before(p.Start)
}

// Intersect returns the dates both periods share. ok is false when they
// share none.
func (p Period) Intersect(other Period) (Period, bool) {
	if !p.Overlaps(other) {
		return Period{}, false
	}
	out := p
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	return out, true
}

// Each calls fn for every date of the period in order. An invalid period
// yields no dates.
func (p Period) Each(fn func(TimePoint)) {
	if p.Validate() != nil {
		return
	}
	for day := p.Start; day.BeforeOrEqual(p.End); day = day.AddDays(1) {
		fn(day)
	}
}

// Len is the number of calendar days in the period.
func (p Period) Len() int {
	if p.Validate() != nil {
		return 0
	}
	return int(p.End.epochDay()-p.Start.epochDay()) + 1
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
