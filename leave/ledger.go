/*
ledger.go - Per-employee quota ledger

PURPOSE:
  Tracks how much of each annual allocation (Casual, Sick, Privilege) has
  been consumed while leave is replayed in date order. One ledger belongs to
  one employee and one replay; it is never shared across employees or calls.

CRITICAL INVARIANTS:
  1. Consumed is never negative
  2. Consumed never exceeds Allocated (Remaining is always in [0, Allocated])
  3. A day that cannot be fully covered consumes what is left and reports
     the rest as shortfall

EXAMPLE FLOW:
  Privilege allocation 1.0, employee takes three half days:
    day 1: consume 0.5 -> remaining 0.5, shortfall 0
    day 2: consume 0.5 -> remaining 0,   shortfall 0
    day 3: consume 0   -> remaining 0,   shortfall 0.5 (LOP)

SEE ALSO:
  - replay.go: drives the ledger day by day
*/
package leave

import (
	"github.com/warp/payroll-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// QUOTA LEDGER
// =============================================================================

type QuotaLedger struct {
	EmployeeID generic.EmployeeID

	allocated map[Category]generic.Amount
	consumed  map[Category]generic.Amount
}

// NewQuotaLedger builds a ledger from the employee's allocations. Entries for
// other employees are ignored. Several allocations for one category add up.
// Negative quotas are clamped to zero. Categories without a quota are
// ignored.
func NewQuotaLedger(employeeID generic.EmployeeID, allocations []Allocation, logger *zap.Logger) *QuotaLedger {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &QuotaLedger{
		EmployeeID: employeeID,
		allocated:  make(map[Category]generic.Amount, len(QuotaCategories)),
		consumed:   make(map[Category]generic.Amount, len(QuotaCategories)),
	}
	for _, c := range QuotaCategories {
		l.allocated[c] = generic.ZeroDays()
		l.consumed[c] = generic.ZeroDays()
	}

	for _, a := range allocations {
		if a.EmployeeID != employeeID {
			logger.Warn("ignoring allocation of another employee",
				zap.String("employee_id", string(employeeID)),
				zap.String("allocation_employee_id", string(a.EmployeeID)))
			continue
		}
		if !a.Category.HasQuota() {
			logger.Warn("ignoring allocation for category without quota",
				zap.String("employee_id", string(employeeID)),
				zap.String("category", string(a.Category)))
			continue
		}
		quota := generic.Days(a.Quota)
		if quota.IsNegative() {
			logger.Warn("negative allocation clamped to zero",
				zap.String("employee_id", string(employeeID)),
				zap.String("category", string(a.Category)),
				zap.String("quota", a.Quota.String()))
			quota = quota.Zero()
		}
		l.allocated[a.Category] = l.allocated[a.Category].Add(quota)
	}
	return l
}

// Allocated returns the annual allocation for c (zero if none).
func (l *QuotaLedger) Allocated(c Category) generic.Amount {
	if a, ok := l.allocated[c]; ok {
		return a
	}
	return generic.ZeroDays()
}

// Consumed returns what has been drawn from c so far.
func (l *QuotaLedger) Consumed(c Category) generic.Amount {
	if a, ok := l.consumed[c]; ok {
		return a
	}
	return generic.ZeroDays()
}

// Remaining returns Allocated - Consumed.
func (l *QuotaLedger) Remaining(c Category) generic.Amount {
	return l.Allocated(c).Sub(l.Consumed(c))
}

// Consume draws value from c. covered is what the quota paid for; shortfall
// is the part that becomes LOP. covered + shortfall == value.
// Categories without a quota cover nothing.
func (l *QuotaLedger) Consume(c Category, value generic.Amount) (covered, shortfall generic.Amount) {
	value = value.ClampZero()
	if !c.HasQuota() {
		return value.Zero(), value
	}
	remaining := l.Remaining(c)
	covered = value.Min(remaining).ClampZero()
	l.consumed[c] = l.consumed[c].Add(covered)
	return covered, value.Sub(covered)
}

// =============================================================================
// BALANCE SNAPSHOT
// =============================================================================

// QuotaBalance is the ledger state for one category.
type QuotaBalance struct {
	Category  Category
	Allocated generic.Amount
	Consumed  generic.Amount
	Remaining generic.Amount
}

// Balances returns one snapshot per quota category, in QuotaCategories order.
func (l *QuotaLedger) Balances() []QuotaBalance {
	out := make([]QuotaBalance, 0, len(QuotaCategories))
	for _, c := range QuotaCategories {
		out = append(out, QuotaBalance{
			Category:  c,
			Allocated: l.Allocated(c),
			Consumed:  l.Consumed(c),
			Remaining: l.Remaining(c),
		})
	}
	return out
}
