// Package payroll turns compensation and LOP days into monthly salary
// figures, one employee at a time or for a whole batch.
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
)

// =============================================================================
// INPUT
// =============================================================================

// Components is an employee's monthly compensation structure. All amounts
// are expected to be non-negative.
type Components struct {
	EmployeeID generic.EmployeeID

	// Earnings
	BasicDA          decimal.Decimal
	HRA              decimal.Decimal
	SpecialAllowance decimal.Decimal

	// Accrual, part of CTC but not paid monthly
	Gratuity decimal.Decimal

	// Deductions
	PF              decimal.Decimal
	ESI             decimal.Decimal
	Tax             decimal.Decimal
	ProfessionalTax decimal.Decimal
	LoanDeduction   decimal.Decimal
}

// BatchInput is everything a batch needs, already loaded in memory.
type BatchInput struct {
	EmployeeIDs  []generic.EmployeeID
	Year         int
	Month        time.Month
	Leaves       map[generic.EmployeeID][]leave.Request
	Allocations  map[generic.EmployeeID][]leave.Allocation
	Compensation map[generic.EmployeeID]Components
}

// =============================================================================
// OUTPUT
// =============================================================================

// SimulationResult is one employee's computed salary for one month.
type SimulationResult struct {
	EmployeeID  generic.EmployeeID
	SalaryMonth generic.SalaryMonth

	LOPDays         decimal.Decimal
	PerDayRate      decimal.Decimal
	LOPDeduction    decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	CTC             decimal.Decimal

	// ClampedFields lists inputs that were negative and treated as zero.
	ClampedFields []string
}

// Totals aggregates the successful results of a batch.
type Totals struct {
	Succeeded   int
	Failed      int
	NotComputed int

	LOPDays         decimal.Decimal
	LOPDeduction    decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	CTC             decimal.Decimal
}

func newTotals() Totals {
	return Totals{
		LOPDays:         decimal.Zero,
		LOPDeduction:    decimal.Zero,
		TotalEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		NetSalary:       decimal.Zero,
		CTC:             decimal.Zero,
	}
}

func (t *Totals) add(r SimulationResult) {
	t.Succeeded++
	t.LOPDays = t.LOPDays.Add(r.LOPDays)
	t.LOPDeduction = t.LOPDeduction.Add(r.LOPDeduction)
	t.TotalEarnings = t.TotalEarnings.Add(r.TotalEarnings)
	t.TotalDeductions = t.TotalDeductions.Add(r.TotalDeductions)
	t.NetSalary = t.NetSalary.Add(r.NetSalary)
	t.CTC = t.CTC.Add(r.CTC)
}

// BatchResult is the outcome of RunBatch. Results, Failures and NotComputed
// follow the order of BatchInput.EmployeeIDs.
type BatchResult struct {
	SalaryMonth generic.SalaryMonth
	Results     []SimulationResult
	Totals      Totals
	Failures    []EmployeeError
	NotComputed []generic.EmployeeID
}

// Complete reports whether every employee was attempted.
func (b BatchResult) Complete() bool { return len(b.NotComputed) == 0 }

// BatchRecord is the stored summary of a saved batch.
type BatchRecord struct {
	ID          string
	SalaryMonth generic.SalaryMonth
	Totals      Totals
	CreatedAt   time.Time
}
