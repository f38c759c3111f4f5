/*
replay.go - Chronological leave replay

PURPOSE:
  Answers "how many Loss-of-Pay days does this employee have in month M?"
  Quota is annual, so the answer for March depends on what January and
  February already consumed. The replayer walks every approved request of
  the year in date order, draws each working day from the matching quota,
  and sums the uncovered part for the target month only.

DAY CLASSIFICATION:
  Saturday/Sunday  -> weekend, nothing consumed, no LOP
  LossOfPay        -> whole day value is LOP
  Casual/Sick/PL   -> drawn from quota, shortfall is LOP
  Bereavement      -> paid, no quota
  Unrecognized     -> paid, no quota, logged and counted for review

SKIPPED REQUESTS:
  Requests with a missing date or an end before the start contribute
  nothing. They are logged and listed in Replay.Skipped.

EXAMPLE:
  Casual allocation 0, two full weekdays of Casual in March:
    replay := replayer.Replay("emp-1", 2025, time.March, leaves, nil)
    replay.LOPDays // 2

SEE ALSO:
  - ledger.go: quota state
  - payroll/simulator.go: calls ComputeMonthlyLOP per employee
*/
package leave

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// REPLAY RESULT
// =============================================================================

// DayEntry records how one calendar date of a request was treated.
type DayEntry struct {
	Date      generic.TimePoint
	RequestID string
	Category  Category
	Weekend   bool
	Value     generic.Amount // day-units the date was worth (0 on weekends)
	Covered   generic.Amount // drawn from quota
	LOP       generic.Amount // unpaid
}

// Paid is the part of the day that was paid without touching a quota.
func (d DayEntry) Paid() generic.Amount {
	return d.Value.Sub(d.Covered).Sub(d.LOP)
}

// SkippedRequest is a request that contributed no days.
type SkippedRequest struct {
	RequestID string
	Reason    string
}

// Replay is the outcome of replaying one employee's year.
type Replay struct {
	EmployeeID  generic.EmployeeID
	SalaryMonth generic.SalaryMonth

	// LOPDays is the LOP total for SalaryMonth.
	LOPDays decimal.Decimal

	// YearLOPDays is the LOP total across the whole year.
	YearLOPDays decimal.Decimal

	// UnrecognizedDays are day-units of unknown leave types paid by default.
	UnrecognizedDays decimal.Decimal

	Ledger  *QuotaLedger
	Days    []DayEntry
	Skipped []SkippedRequest
}

// =============================================================================
// REPLAYER
// =============================================================================

type Replayer struct {
	logger *zap.Logger
}

func NewReplayer(logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replayer{logger: logger}
}

// ComputeMonthlyLOP returns the LOP days employeeID accrues in the target
// month, after replaying the year's approved leave against allocations.
func (r *Replayer) ComputeMonthlyLOP(
	employeeID generic.EmployeeID,
	year int,
	month time.Month,
	approved []Request,
	allocations []Allocation,
) decimal.Decimal {
	return r.Replay(employeeID, year, month, approved, allocations).LOPDays
}

// Replay runs the full replay and returns the ledger and per-day detail
// alongside the LOP total.
func (r *Replayer) Replay(
	employeeID generic.EmployeeID,
	year int,
	month time.Month,
	approved []Request,
	allocations []Allocation,
) Replay {
	target := generic.SalaryMonth{Year: year, Month: month}
	log := r.logger.With(
		zap.String("employee_id", string(employeeID)),
		zap.String("salary_month", target.String()),
	)

	result := Replay{
		EmployeeID:       employeeID,
		SalaryMonth:      target,
		LOPDays:          decimal.Zero,
		YearLOPDays:      decimal.Zero,
		UnrecognizedDays: decimal.Zero,
		Ledger:           NewQuotaLedger(employeeID, allocations, log),
	}

	requests := chronological(employeeID, approved, log)
	quotaYear := generic.YearPeriod(year)
	targetDays := target.Period()

	for _, req := range requests {
		span := req.Span()
		if err := span.Validate(); err != nil {
			log.Warn("skipping leave request with invalid dates",
				zap.String("request_id", req.ID),
				zap.String("start", req.Start.String()),
				zap.String("end", req.End.String()),
				zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedRequest{RequestID: req.ID, Reason: err.Error()})
			continue
		}
		// Only the quota year is walked, however long the request is.
		inYear, ok := span.Intersect(quotaYear)
		if !ok {
			continue
		}
		if req.Category == CategoryUnrecognized {
			log.Warn("unrecognized leave type treated as paid",
				zap.String("request_id", req.ID),
				zap.String("leave_type", req.RawType))
		}

		inYear.Each(func(day generic.TimePoint) {
			entry := r.evaluateDay(result.Ledger, req, day)
			result.Days = append(result.Days, entry)

			if req.Category == CategoryUnrecognized {
				result.UnrecognizedDays = result.UnrecognizedDays.Add(entry.Value.Value)
			}
			result.YearLOPDays = result.YearLOPDays.Add(entry.LOP.Value)
			if targetDays.Contains(day) {
				result.LOPDays = result.LOPDays.Add(entry.LOP.Value)
			}
		})
	}

	log.Debug("leave replay complete",
		zap.Int("requests", len(requests)),
		zap.Int("days", len(result.Days)),
		zap.Int("skipped", len(result.Skipped)),
		zap.String("lop_days", result.LOPDays.String()))

	return result
}

func (r *Replayer) evaluateDay(ledger *QuotaLedger, req Request, day generic.TimePoint) DayEntry {
	entry := DayEntry{
		Date:      day,
		RequestID: req.ID,
		Category:  req.Category,
		Value:     generic.ZeroDays(),
		Covered:   generic.ZeroDays(),
		LOP:       generic.ZeroDays(),
	}
	if !day.IsWorkday() {
		entry.Weekend = true
		return entry
	}

	value := req.DayType.Value()
	entry.Value = value

	switch req.Category {
	case CategoryLossOfPay:
		entry.LOP = value
	case CategoryCasual, CategorySick, CategoryPrivilege:
		entry.Covered, entry.LOP = ledger.Consume(req.Category, value)
	case CategoryBereavement, CategoryUnrecognized:
		// paid, no quota
	}
	return entry
}

// chronological keeps the employee's approved requests and orders them by
// start date. Requests starting on the same date keep their input order.
// The returned slice is a copy; callers' requests are not touched.
func chronological(employeeID generic.EmployeeID, requests []Request, log *zap.Logger) []Request {
	out := make([]Request, 0, len(requests))
	for _, req := range requests {
		if req.EmployeeID != employeeID {
			log.Warn("ignoring leave request of another employee",
				zap.String("request_id", req.ID),
				zap.String("request_employee_id", string(req.EmployeeID)))
			continue
		}
		if req.Status != StatusApproved {
			continue
		}
		if !req.Category.Known() {
			req.Category = CategoryUnrecognized
		}
		out = append(out, req)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
