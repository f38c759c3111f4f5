package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// March 2025: the 1st is a Saturday, so Mon 3 .. Fri 7, Sat 8, Sun 9, Mon 10.

func date(month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(2025, month, day)
}

func req(id string, cat leave.Category, start, end generic.TimePoint, dt leave.DayType) leave.Request {
	return leave.Request{
		ID:         id,
		EmployeeID: "emp-1",
		Category:   cat,
		RawType:    string(cat),
		Start:      start,
		End:        end,
		DayType:    dt,
		Status:     leave.StatusApproved,
	}
}

func alloc(cat leave.Category, quota string) leave.Allocation {
	return leave.Allocation{EmployeeID: "emp-1", Category: cat, Quota: decimal.RequireFromString(quota)}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestComputeMonthlyLOP_NoCasualQuota_TwoWeekdaysAreLOP(t *testing.T) {
	// GIVEN: 0 Casual allocated
	// WHEN: two full Casual days on weekdays in March
	// THEN: 2 LOP days

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{req("r1", leave.CategoryCasual, date(time.March, 4), date(time.March, 5), leave.FullDay)}

	lop := r.ComputeMonthlyLOP("emp-1", 2025, time.March, leaves, []leave.Allocation{alloc(leave.CategoryCasual, "0")})

	assertDecimal(t, "2", lop)
}

func TestReplay_HalfDayPrivilege_ConsumesHalf(t *testing.T) {
	// GIVEN: 5 days Privilege, nothing used
	// WHEN: one half-day Privilege on a weekday
	// THEN: no LOP, 4.5 remaining

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{req("r1", leave.CategoryPrivilege, date(time.March, 4), date(time.March, 4), leave.HalfDay)}

	replay := r.Replay("emp-1", 2025, time.March, leaves, []leave.Allocation{alloc(leave.CategoryPrivilege, "5")})

	assertDecimal(t, "0", replay.LOPDays)
	assertDecimal(t, "4.5", replay.Ledger.Remaining(leave.CategoryPrivilege).Value)
	assertDecimal(t, "0.5", replay.Ledger.Consumed(leave.CategoryPrivilege).Value)
}

func TestReplay_FridayToMonday_SkipsWeekend(t *testing.T) {
	// GIVEN: Casual leave Fri Mar 7 .. Mon Mar 10 with 1 day of quota
	// THEN: only Friday and Monday are evaluated; Friday is covered, Monday is LOP

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{req("r1", leave.CategoryCasual, date(time.March, 7), date(time.March, 10), leave.FullDay)}

	replay := r.Replay("emp-1", 2025, time.March, leaves, []leave.Allocation{alloc(leave.CategoryCasual, "1")})

	require.Len(t, replay.Days, 4)
	assert.False(t, replay.Days[0].Weekend)
	assert.True(t, replay.Days[1].Weekend)
	assert.True(t, replay.Days[2].Weekend)
	assert.False(t, replay.Days[3].Weekend)

	for _, d := range replay.Days[1:3] {
		assert.True(t, d.Value.IsZero())
		assert.True(t, d.Covered.IsZero())
		assert.True(t, d.LOP.IsZero())
	}
	assertDecimal(t, "1", replay.Days[0].Covered.Value)
	assertDecimal(t, "1", replay.Days[3].LOP.Value)
	assertDecimal(t, "1", replay.LOPDays)
	assertDecimal(t, "1", replay.Ledger.Consumed(leave.CategoryCasual).Value)
}

func TestReplay_ExplicitLOP_IgnoresQuota(t *testing.T) {
	// GIVEN: generous quotas in every category
	// WHEN: three full weekdays of explicit LOP
	// THEN: 3 LOP days and no quota touched

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{req("r1", leave.CategoryLossOfPay, date(time.March, 4), date(time.March, 6), leave.FullDay)}
	allocations := []leave.Allocation{
		alloc(leave.CategoryCasual, "10"),
		alloc(leave.CategorySick, "10"),
		alloc(leave.CategoryPrivilege, "10"),
	}

	replay := r.Replay("emp-1", 2025, time.March, leaves, allocations)

	assertDecimal(t, "3", replay.LOPDays)
	for _, b := range replay.Ledger.Balances() {
		assert.True(t, b.Consumed.IsZero(), "category %s", b.Category)
	}
}

// =============================================================================
// YEAR ACCUMULATION
// =============================================================================

func TestReplay_EarlierMonthsConsumeQuota(t *testing.T) {
	// GIVEN: 3 Sick days for the year
	// WHEN: 3 Sick days in February, 2 more in March
	// THEN: February has no LOP, March has 2

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("mar", leave.CategorySick, date(time.March, 4), date(time.March, 5), leave.FullDay),
		req("feb", leave.CategorySick, date(time.February, 4), date(time.February, 6), leave.FullDay),
	}
	allocations := []leave.Allocation{alloc(leave.CategorySick, "3")}

	assertDecimal(t, "0", r.ComputeMonthlyLOP("emp-1", 2025, time.February, leaves, allocations))
	assertDecimal(t, "2", r.ComputeMonthlyLOP("emp-1", 2025, time.March, leaves, allocations))
}

func TestReplay_LaterMonthsStillReplayed(t *testing.T) {
	// GIVEN: a December request exists in the input
	// WHEN: asking for March
	// THEN: December days are replayed but do not count towards March

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("dec", leave.CategoryLossOfPay, date(time.December, 1), date(time.December, 1), leave.FullDay),
	}

	replay := r.Replay("emp-1", 2025, time.March, leaves, nil)

	assertDecimal(t, "0", replay.LOPDays)
	assertDecimal(t, "1", replay.YearLOPDays)
}

func TestReplay_PartialQuota_SplitsHalfDay(t *testing.T) {
	// GIVEN: 0.5 Casual remaining
	// WHEN: one full Casual day
	// THEN: 0.5 covered, 0.5 LOP

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{req("r1", leave.CategoryCasual, date(time.March, 4), date(time.March, 4), leave.FullDay)}

	replay := r.Replay("emp-1", 2025, time.March, leaves, []leave.Allocation{alloc(leave.CategoryCasual, "0.5")})

	require.Len(t, replay.Days, 1)
	assertDecimal(t, "0.5", replay.Days[0].Covered.Value)
	assertDecimal(t, "0.5", replay.Days[0].LOP.Value)
	assertDecimal(t, "0.5", replay.LOPDays)
	assertDecimal(t, "0", replay.Ledger.Remaining(leave.CategoryCasual).Value)
}

func TestReplay_SameStartDate_KeepsInputOrder(t *testing.T) {
	// GIVEN: 1 Casual day, two requests both starting Mar 4
	// THEN: the first one in the input gets the quota

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("first", leave.CategoryCasual, date(time.March, 4), date(time.March, 4), leave.FullDay),
		req("second", leave.CategoryCasual, date(time.March, 4), date(time.March, 5), leave.FullDay),
	}

	replay := r.Replay("emp-1", 2025, time.March, leaves, []leave.Allocation{alloc(leave.CategoryCasual, "1")})

	require.Len(t, replay.Days, 3)
	assert.Equal(t, "first", replay.Days[0].RequestID)
	assertDecimal(t, "1", replay.Days[0].Covered.Value)
	assertDecimal(t, "2", replay.LOPDays)
}

// =============================================================================
// PAID CATEGORIES
// =============================================================================

func TestReplay_BereavementAndUnrecognized_ArePaid(t *testing.T) {
	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("b", leave.CategoryBereavement, date(time.March, 3), date(time.March, 4), leave.FullDay),
		req("u", leave.ParseCategory("Sabbatical"), date(time.March, 5), date(time.March, 6), leave.FullDay),
	}

	replay := r.Replay("emp-1", 2025, time.March, leaves, nil)

	assertDecimal(t, "0", replay.LOPDays)
	assertDecimal(t, "2", replay.UnrecognizedDays)
	for _, d := range replay.Days {
		assertDecimal(t, "1", d.Paid().Value, d.Date.String())
	}
}

func TestReplay_UnsetCategory_TreatedAsUnrecognized(t *testing.T) {
	r := leave.NewReplayer(nil)
	leaves := []leave.Request{req("r1", "", date(time.March, 4), date(time.March, 4), leave.FullDay)}

	replay := r.Replay("emp-1", 2025, time.March, leaves, nil)

	assertDecimal(t, "0", replay.LOPDays)
	assertDecimal(t, "1", replay.UnrecognizedDays)
}

// =============================================================================
// FILTERING AND BAD INPUT
// =============================================================================

func TestReplay_IgnoresUnapprovedAndOtherEmployees(t *testing.T) {
	r := leave.NewReplayer(nil)

	pending := req("pending", leave.CategoryLossOfPay, date(time.March, 4), date(time.March, 4), leave.FullDay)
	pending.Status = leave.StatusPending
	other := req("other", leave.CategoryLossOfPay, date(time.March, 5), date(time.March, 5), leave.FullDay)
	other.EmployeeID = "emp-2"

	replay := r.Replay("emp-1", 2025, time.March, []leave.Request{pending, other}, nil)

	assertDecimal(t, "0", replay.LOPDays)
	assert.Empty(t, replay.Days)
}

func TestReplay_InvalidDates_ContributeNothing(t *testing.T) {
	r := leave.NewReplayer(nil)
	backwards := req("backwards", leave.CategoryLossOfPay, date(time.March, 6), date(time.March, 4), leave.FullDay)
	missing := req("missing", leave.CategoryLossOfPay, generic.TimePoint{}, date(time.March, 4), leave.FullDay)
	good := req("good", leave.CategoryLossOfPay, date(time.March, 10), date(time.March, 10), leave.FullDay)

	replay := r.Replay("emp-1", 2025, time.March, []leave.Request{backwards, missing, good}, nil)

	assertDecimal(t, "1", replay.LOPDays)
	require.Len(t, replay.Skipped, 2)
	ids := []string{replay.Skipped[0].RequestID, replay.Skipped[1].RequestID}
	assert.ElementsMatch(t, []string{"backwards", "missing"}, ids)
}

func TestReplay_SpanCrossingYearBoundary_OnlyTargetYearCounts(t *testing.T) {
	// GIVEN: LOP from Tue Dec 31 2024 to Fri Jan 3 2025
	// THEN: the 2024 date is not evaluated for the 2025 replay

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("r1", leave.CategoryLossOfPay, generic.NewTimePoint(2024, time.December, 31), date(time.January, 3), leave.FullDay),
	}

	replay := r.Replay("emp-1", 2025, time.January, leaves, nil)

	assertDecimal(t, "3", replay.LOPDays)
	assert.Len(t, replay.Days, 3)
}

func TestReplay_MultiMillenniumSpan_WalksOnlyTheQuotaYear(t *testing.T) {
	// GIVEN: one LOP request from 0002-01-01 to 9999-12-31
	// WHEN: replayed for March 2025
	// THEN: only the 365 dates of 2025 are evaluated

	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("forever", leave.CategoryLossOfPay, generic.NewTimePoint(2, time.January, 1), generic.NewTimePoint(9999, time.December, 31), leave.FullDay),
	}

	replay := r.Replay("emp-1", 2025, time.March, leaves, nil)

	assert.Len(t, replay.Days, 365)
	assertDecimal(t, "21", replay.LOPDays)
	assertDecimal(t, "261", replay.YearLOPDays)
	assert.Empty(t, replay.Skipped)
}

func TestReplay_FirstCalendarYear(t *testing.T) {
	// 0001-01-01 is a real date, not a missing one. It was a Monday.
	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("r1", leave.CategoryLossOfPay, generic.NewTimePoint(1, time.January, 1), generic.NewTimePoint(1, time.January, 2), leave.FullDay),
	}

	replay := r.Replay("emp-1", 1, time.January, leaves, nil)

	assert.Empty(t, replay.Skipped)
	assertDecimal(t, "2", replay.LOPDays)
}

func TestReplay_OtherEmployeesRecordsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := leave.NewReplayer(zap.New(core))

	other := req("other", leave.CategoryLossOfPay, date(time.March, 5), date(time.March, 5), leave.FullDay)
	other.EmployeeID = "emp-2"
	foreign := alloc(leave.CategoryCasual, "3")
	foreign.EmployeeID = "emp-2"

	replay := r.Replay("emp-1", 2025, time.March, []leave.Request{other}, []leave.Allocation{foreign})

	assertDecimal(t, "0", replay.LOPDays)
	assert.Equal(t, 1, logs.FilterMessage("ignoring leave request of another employee").Len())
	assert.Equal(t, 1, logs.FilterMessage("ignoring allocation of another employee").Len())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestReplay_Properties(t *testing.T) {
	r := leave.NewReplayer(nil)
	allocations := []leave.Allocation{
		alloc(leave.CategoryCasual, "2"),
		alloc(leave.CategorySick, "1.5"),
		alloc(leave.CategoryPrivilege, "0"),
	}
	leaves := []leave.Request{
		req("a", leave.CategoryCasual, date(time.January, 6), date(time.January, 17), leave.FullDay),
		req("b", leave.CategorySick, date(time.February, 3), date(time.February, 9), leave.HalfDay),
		req("c", leave.CategoryPrivilege, date(time.March, 1), date(time.March, 16), leave.FullDay),
		req("d", leave.CategoryLossOfPay, date(time.March, 8), date(time.March, 9), leave.FullDay),
		req("e", leave.CategoryCasual, date(time.March, 20), date(time.March, 21), leave.HalfDay),
	}

	replay := r.Replay("emp-1", 2025, time.March, leaves, allocations)

	// LOP per request never exceeds its span value
	lopByRequest := map[string]decimal.Decimal{}
	for _, d := range replay.Days {
		lopByRequest[d.RequestID] = lopByRequest[d.RequestID].Add(d.LOP.Value)

		// weekends never contribute
		if d.Date.IsWeekend() {
			assert.True(t, d.LOP.IsZero(), d.Date.String())
			assert.True(t, d.Covered.IsZero(), d.Date.String())
		}
		// each day is split exactly into covered + lop + paid
		assert.True(t, d.Covered.Add(d.LOP).Add(d.Paid()).Equal(d.Value))
		assert.False(t, d.Paid().IsNegative())
	}
	for _, l := range leaves {
		assert.True(t, lopByRequest[l.ID].LessThanOrEqual(l.SpanValue().Value), l.ID)
	}

	// remaining quota stays within [0, allocation]
	for _, b := range replay.Ledger.Balances() {
		assert.False(t, b.Remaining.IsNegative(), b.Category)
		assert.False(t, b.Remaining.GreaterThan(b.Allocated), b.Category)
	}

	// explicit LOP on a weekend adds nothing
	assert.True(t, lopByRequest["d"].IsZero())
}

func TestReplay_DoesNotMutateInput(t *testing.T) {
	r := leave.NewReplayer(nil)
	leaves := []leave.Request{
		req("late", leave.CategoryCasual, date(time.March, 10), date(time.March, 10), leave.FullDay),
		req("early", "", date(time.March, 3), date(time.March, 3), leave.FullDay),
	}
	before := append([]leave.Request(nil), leaves...)

	r.Replay("emp-1", 2025, time.March, leaves, nil)

	assert.Equal(t, before, leaves)
}
