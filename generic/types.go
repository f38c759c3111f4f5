/*
Package generic provides the primitives shared by the payroll engine.

PURPOSE:
  Domain-neutral building blocks used by the leave replayer and the salary
  calculator. Nothing in here knows about leave categories or salary
  components; it only knows about quantities, identifiers and calendar days.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity of day-units (1 for a full day, 0.5 for a half day)
  - EmployeeID: Type-safe identifier for the person being paid
  - Money helpers: rounding to whole currency units

DESIGN PRINCIPLES:
  1. Precision: day-units and money use decimal.Decimal, never float64
  2. Type Safety: EmployeeID is its own type so it cannot be mixed with
     request or batch identifiers

USAGE:
  half := generic.Days(decimal.RequireFromString("0.5"))
  total := half.Add(generic.Days(decimal.NewFromInt(2))) // 2.5 days

SEE ALSO:
  - time.go: TimePoint and SalaryMonth
  - period.go: inclusive date ranges
  - errors.go: sentinel errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays Unit = "days"
)

func Days(value decimal.Decimal) Amount { return Amount{Value: value, Unit: UnitDays} }

func ZeroDays() Amount { return Amount{Value: decimal.Zero, Unit: UnitDays} }

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) GreaterThan(b Amount) bool { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool    { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }
func (a Amount) String() string            { return a.Value.String() + " " + string(a.Unit) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ClampZero returns a, or zero when a is negative.
func (a Amount) ClampZero() Amount {
	if a.IsNegative() {
		return a.Zero()
	}
	return a
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// MONEY
// =============================================================================

// RoundCurrency rounds to the nearest whole currency unit, half away from zero.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// SumDecimals adds values in order.
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
