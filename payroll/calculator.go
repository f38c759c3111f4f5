/*
calculator.go - Monthly salary computation

FORMULA:
  totalEarnings   = basicDA + hra + specialAllowance
  perDayRate      = totalEarnings / 30
  lopDeduction    = round(totalEarnings * lopDays / 30)
  totalDeductions = pf + esi + tax + professionalTax + loanDeduction + lopDeduction
  netSalary       = totalEarnings - totalDeductions
  ctc             = totalEarnings + gratuity

  The divisor is 30 regardless of the month length. It can be changed per
  deployment (PAYROLL_DAY_DIVISOR) but the default stays 30.

  Rounding is to the nearest whole currency unit, half away from zero.
  The deduction multiplies before it divides so a rate that does not divide
  evenly is never truncated ahead of rounding. perDayRate is informational.

NEGATIVE INPUT:
  Components and LOP days are clamped to zero. The clamped field names are
  returned on the result and logged.

EXAMPLE:
  basicDA=30000, hra=12000, special=3000, lopDays=2
  totalEarnings=45000, perDayRate=1500, lopDeduction=3000
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"go.uber.org/zap"
)

// DefaultDayDivisor is the fixed number of days a month's earnings are
// spread over when pricing one LOP day.
const DefaultDayDivisor = 30

type Calculator struct {
	divisor decimal.Decimal
	logger  *zap.Logger
}

// NewCalculator returns a calculator using divisor days per month; a
// divisor <= 0 means DefaultDayDivisor.
func NewCalculator(divisor int, logger *zap.Logger) *Calculator {
	if divisor <= 0 {
		divisor = DefaultDayDivisor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{divisor: decimal.NewFromInt(int64(divisor)), logger: logger}
}

// Divisor returns the days-per-month divisor in use.
func (c *Calculator) Divisor() decimal.Decimal { return c.divisor }

// CalculateSalary computes the salary figures for components and lopDays.
// The result carries no salary month; use Calculate when one is known.
func (c *Calculator) CalculateSalary(components Components, lopDays decimal.Decimal) SimulationResult {
	return c.Calculate(generic.SalaryMonth{}, components, lopDays)
}

// Calculate is CalculateSalary stamped with the month being paid.
func (c *Calculator) Calculate(month generic.SalaryMonth, components Components, lopDays decimal.Decimal) SimulationResult {
	comp, lop, clamped := sanitize(components, lopDays)
	if len(clamped) > 0 {
		c.logger.Warn("negative payroll input clamped to zero",
			zap.String("employee_id", string(components.EmployeeID)),
			zap.Strings("fields", clamped))
	}

	totalEarnings := generic.SumDecimals(comp.BasicDA, comp.HRA, comp.SpecialAllowance)
	perDayRate := totalEarnings.Div(c.divisor)
	lopDeduction := generic.RoundCurrency(totalEarnings.Mul(lop).Div(c.divisor))
	totalDeductions := generic.SumDecimals(
		comp.PF,
		comp.ESI,
		comp.Tax,
		comp.ProfessionalTax,
		comp.LoanDeduction,
		lopDeduction,
	)

	return SimulationResult{
		EmployeeID:      components.EmployeeID,
		SalaryMonth:     month,
		LOPDays:         lop,
		PerDayRate:      perDayRate,
		LOPDeduction:    lopDeduction,
		TotalEarnings:   totalEarnings,
		TotalDeductions: totalDeductions,
		NetSalary:       totalEarnings.Sub(totalDeductions),
		CTC:             totalEarnings.Add(comp.Gratuity),
		ClampedFields:   clamped,
	}
}

func sanitize(in Components, lopDays decimal.Decimal) (Components, decimal.Decimal, []string) {
	var clamped []string
	clamp := func(name string, v decimal.Decimal) decimal.Decimal {
		if v.IsNegative() {
			clamped = append(clamped, name)
			return decimal.Zero
		}
		return v
	}

	out := Components{
		EmployeeID:       in.EmployeeID,
		BasicDA:          clamp("basic_da", in.BasicDA),
		HRA:              clamp("hra", in.HRA),
		SpecialAllowance: clamp("special_allowance", in.SpecialAllowance),
		Gratuity:         clamp("gratuity", in.Gratuity),
		PF:               clamp("pf", in.PF),
		ESI:              clamp("esi", in.ESI),
		Tax:              clamp("tax", in.Tax),
		ProfessionalTax:  clamp("professional_tax", in.ProfessionalTax),
		LoanDeduction:    clamp("loan_deduction", in.LoanDeduction),
	}
	lop := clamp("lop_days", lopDays)
	return out, lop, clamped
}
