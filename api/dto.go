/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures of the payroll API and converts them into
  engine types. This is the only place free-text leave types, day types
  and statuses are normalized into the leave package's closed enums.

NAMING CONVENTION:
  - *DTO: Nested types used in both directions
  - *Request: Request body types from clients
  - *Response: Response wrappers

INTAKE RULES:
  - leave_type goes through leave.ParseCategory. Unknown tags become
    "unrecognized" and are paid.
  - day_type goes through leave.ParseDayType. Anything not half-day is a
    full day.
  - status defaults to "approved" when omitted, because callers normally
    send only approved leave. Any other status is kept and filtered out by
    the replayer.
  - Dates must be YYYY-MM-DD (RFC 3339 is accepted). An unparseable date
    becomes a zero date, and the replayer skips that request.
  - employee_id on a leave or allocation defaults to the employee it is
    filed under.

MONEY AND DAYS:
  decimal.Decimal fields accept JSON numbers or strings and are written as
  strings, so no precision is lost in either direction.

SEE ALSO:
  - handlers.go: Uses these types
  - validate.go: Struct tag validation
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// LEAVE INPUT
// =============================================================================

// LeaveDTO is one leave booking as submitted by a client.
type LeaveDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type" validate:"max=64"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	DayType    string `json:"day_type"`
	Status     string `json:"status"`
}

// AllocationDTO is an annual entitlement for one leave type.
type AllocationDTO struct {
	EmployeeID string          `json:"employee_id"`
	LeaveType  string          `json:"leave_type" validate:"required,max=64"`
	Quota      decimal.Decimal `json:"quota"`
}

// ToRequest normalizes the DTO. owner fills a missing employee_id.
func (d LeaveDTO) ToRequest(owner generic.EmployeeID) leave.Request {
	employeeID := generic.EmployeeID(d.EmployeeID)
	if employeeID == "" {
		employeeID = owner
	}
	status := leave.StatusApproved
	if d.Status != "" {
		status = leave.ParseStatus(d.Status)
	}
	return leave.Request{
		ID:         d.ID,
		EmployeeID: employeeID,
		Category:   leave.ParseCategory(d.LeaveType),
		RawType:    d.LeaveType,
		Start:      parseDateOrZero(d.StartDate),
		End:        parseDateOrZero(d.EndDate),
		DayType:    leave.ParseDayType(d.DayType),
		Status:     status,
	}
}

func (d AllocationDTO) ToAllocation(owner generic.EmployeeID) leave.Allocation {
	employeeID := generic.EmployeeID(d.EmployeeID)
	if employeeID == "" {
		employeeID = owner
	}
	return leave.Allocation{
		EmployeeID: employeeID,
		Category:   leave.ParseCategory(d.LeaveType),
		Quota:      d.Quota,
	}
}

func toRequests(owner generic.EmployeeID, dtos []LeaveDTO) []leave.Request {
	out := make([]leave.Request, len(dtos))
	for i, d := range dtos {
		out[i] = d.ToRequest(owner)
	}
	return out
}

func toAllocations(owner generic.EmployeeID, dtos []AllocationDTO) []leave.Allocation {
	out := make([]leave.Allocation, len(dtos))
	for i, d := range dtos {
		out[i] = d.ToAllocation(owner)
	}
	return out
}

func parseDateOrZero(s string) generic.TimePoint {
	tp, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}
	}
	return tp
}

// =============================================================================
// LOP
// =============================================================================

// LOPRequest asks for one employee's LOP days in a month.
type LOPRequest struct {
	EmployeeID  string          `json:"employee_id" validate:"required"`
	Year        int             `json:"year" validate:"min=1,max=9999"`
	Month       int             `json:"month" validate:"min=1,max=12"`
	Leaves      []LeaveDTO      `json:"leaves" validate:"dive"`
	Allocations []AllocationDTO `json:"allocations" validate:"dive"`
}

// LOPResponse is the replay outcome with its audit trail.
type LOPResponse struct {
	EmployeeID       string          `json:"employee_id"`
	SalaryMonth      string          `json:"salary_month"`
	LOPDays          decimal.Decimal `json:"lop_days"`
	YearLOPDays      decimal.Decimal `json:"year_lop_days"`
	UnrecognizedDays decimal.Decimal `json:"unrecognized_days"`
	Quotas           []QuotaDTO      `json:"quotas"`
	Days             []DayDTO        `json:"days"`
	Skipped          []SkippedDTO    `json:"skipped"`
}

type QuotaDTO struct {
	LeaveType string          `json:"leave_type"`
	Allocated decimal.Decimal `json:"allocated"`
	Consumed  decimal.Decimal `json:"consumed"`
	Remaining decimal.Decimal `json:"remaining"`
}

// DayDTO is one evaluated leave date.
type DayDTO struct {
	Date      string          `json:"date"`
	RequestID string          `json:"request_id"`
	LeaveType string          `json:"leave_type"`
	Weekend   bool            `json:"weekend"`
	Value     decimal.Decimal `json:"value"`
	Covered   decimal.Decimal `json:"covered"`
	LOP       decimal.Decimal `json:"lop"`
}

type SkippedDTO struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

func toLOPResponse(r leave.Replay) LOPResponse {
	resp := LOPResponse{
		EmployeeID:       string(r.EmployeeID),
		SalaryMonth:      r.SalaryMonth.String(),
		LOPDays:          r.LOPDays,
		YearLOPDays:      r.YearLOPDays,
		UnrecognizedDays: r.UnrecognizedDays,
		Quotas:           []QuotaDTO{},
		Days:             make([]DayDTO, len(r.Days)),
		Skipped:          make([]SkippedDTO, len(r.Skipped)),
	}
	if r.Ledger != nil {
		for _, b := range r.Ledger.Balances() {
			resp.Quotas = append(resp.Quotas, QuotaDTO{
				LeaveType: string(b.Category),
				Allocated: b.Allocated.Value,
				Consumed:  b.Consumed.Value,
				Remaining: b.Remaining.Value,
			})
		}
	}
	for i, d := range r.Days {
		resp.Days[i] = DayDTO{
			Date:      d.Date.String(),
			RequestID: d.RequestID,
			LeaveType: string(d.Category),
			Weekend:   d.Weekend,
			Value:     d.Value.Value,
			Covered:   d.Covered.Value,
			LOP:       d.LOP.Value,
		}
	}
	for i, s := range r.Skipped {
		resp.Skipped[i] = SkippedDTO{RequestID: s.RequestID, Reason: s.Reason}
	}
	return resp
}

// =============================================================================
// SALARY
// =============================================================================

// ComponentsDTO is an employee's monthly compensation structure.
type ComponentsDTO struct {
	EmployeeID       string          `json:"employee_id"`
	BasicDA          decimal.Decimal `json:"basic_da"`
	HRA              decimal.Decimal `json:"hra"`
	SpecialAllowance decimal.Decimal `json:"special_allowance"`
	Gratuity         decimal.Decimal `json:"gratuity"`
	PF               decimal.Decimal `json:"pf"`
	ESI              decimal.Decimal `json:"esi"`
	Tax              decimal.Decimal `json:"tax"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`
}

func (d ComponentsDTO) ToComponents() payroll.Components {
	return payroll.Components{
		EmployeeID:       generic.EmployeeID(d.EmployeeID),
		BasicDA:          d.BasicDA,
		HRA:              d.HRA,
		SpecialAllowance: d.SpecialAllowance,
		Gratuity:         d.Gratuity,
		PF:               d.PF,
		ESI:              d.ESI,
		Tax:              d.Tax,
		ProfessionalTax:  d.ProfessionalTax,
		LoanDeduction:    d.LoanDeduction,
	}
}

// SalaryRequest prices one month for a given number of LOP days.
type SalaryRequest struct {
	Components ComponentsDTO   `json:"components"`
	LOPDays    decimal.Decimal `json:"lop_days"`
}

// SimulationResultDTO is one employee's computed salary.
type SimulationResultDTO struct {
	EmployeeID      string          `json:"employee_id"`
	SalaryMonth     string          `json:"salary_month,omitempty"`
	LOPDays         decimal.Decimal `json:"lop_days"`
	PerDayRate      decimal.Decimal `json:"per_day_rate"`
	LOPDeduction    decimal.Decimal `json:"lop_deduction"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	CTC             decimal.Decimal `json:"ctc"`
	ClampedFields   []string        `json:"clamped_fields,omitempty"`
}

func toResultDTO(r payroll.SimulationResult) SimulationResultDTO {
	dto := SimulationResultDTO{
		EmployeeID:      string(r.EmployeeID),
		LOPDays:         r.LOPDays,
		PerDayRate:      r.PerDayRate.Round(2),
		LOPDeduction:    r.LOPDeduction,
		TotalEarnings:   r.TotalEarnings,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		CTC:             r.CTC,
		ClampedFields:   r.ClampedFields,
	}
	if r.SalaryMonth != (generic.SalaryMonth{}) {
		dto.SalaryMonth = r.SalaryMonth.String()
	}
	return dto
}

func toResultDTOs(results []payroll.SimulationResult) []SimulationResultDTO {
	out := make([]SimulationResultDTO, len(results))
	for i, r := range results {
		out[i] = toResultDTO(r)
	}
	return out
}

// =============================================================================
// BATCH
// =============================================================================

// SimulateRequest runs a batch. Maps are keyed by employee id.
type SimulateRequest struct {
	EmployeeIDs  []string                   `json:"employee_ids"`
	Year         int                        `json:"year" validate:"min=1,max=9999"`
	Month        int                        `json:"month" validate:"min=1,max=12"`
	Leaves       map[string][]LeaveDTO      `json:"leaves" validate:"dive,dive"`
	Allocations  map[string][]AllocationDTO `json:"allocations" validate:"dive,dive"`
	Compensation map[string]ComponentsDTO   `json:"compensation"`
	Save         bool                       `json:"save"`
}

func (req SimulateRequest) ToBatchInput() payroll.BatchInput {
	in := payroll.BatchInput{
		EmployeeIDs:  make([]generic.EmployeeID, len(req.EmployeeIDs)),
		Year:         req.Year,
		Month:        time.Month(req.Month),
		Leaves:       make(map[generic.EmployeeID][]leave.Request, len(req.Leaves)),
		Allocations:  make(map[generic.EmployeeID][]leave.Allocation, len(req.Allocations)),
		Compensation: make(map[generic.EmployeeID]payroll.Components, len(req.Compensation)),
	}
	for i, id := range req.EmployeeIDs {
		in.EmployeeIDs[i] = generic.EmployeeID(id)
	}
	for id, dtos := range req.Leaves {
		owner := generic.EmployeeID(id)
		in.Leaves[owner] = toRequests(owner, dtos)
	}
	for id, dtos := range req.Allocations {
		owner := generic.EmployeeID(id)
		in.Allocations[owner] = toAllocations(owner, dtos)
	}
	for id, dto := range req.Compensation {
		in.Compensation[generic.EmployeeID(id)] = dto.ToComponents()
	}
	return in
}

type TotalsDTO struct {
	Succeeded       int             `json:"succeeded"`
	Failed          int             `json:"failed"`
	NotComputed     int             `json:"not_computed"`
	LOPDays         decimal.Decimal `json:"lop_days"`
	LOPDeduction    decimal.Decimal `json:"lop_deduction"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	CTC             decimal.Decimal `json:"ctc"`
}

func toTotalsDTO(t payroll.Totals) TotalsDTO {
	return TotalsDTO{
		Succeeded:       t.Succeeded,
		Failed:          t.Failed,
		NotComputed:     t.NotComputed,
		LOPDays:         t.LOPDays,
		LOPDeduction:    t.LOPDeduction,
		TotalEarnings:   t.TotalEarnings,
		TotalDeductions: t.TotalDeductions,
		NetSalary:       t.NetSalary,
		CTC:             t.CTC,
	}
}

// BatchResponse is the saved summary of one batch.
type BatchResponse struct {
	BatchID     string    `json:"batch_id"`
	SalaryMonth string    `json:"salary_month"`
	Totals      TotalsDTO `json:"totals"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBatchResponse(rec payroll.BatchRecord) BatchResponse {
	return BatchResponse{
		BatchID:     rec.ID,
		SalaryMonth: rec.SalaryMonth.String(),
		Totals:      toTotalsDTO(rec.Totals),
		CreatedAt:   rec.CreatedAt,
	}
}

type FailureDTO struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// SimulateResponse is a batch outcome plus its persistence result.
type SimulateResponse struct {
	BatchID     string                `json:"batch_id"`
	SalaryMonth string                `json:"salary_month"`
	Results     []SimulationResultDTO `json:"results"`
	Totals      TotalsDTO             `json:"totals"`
	Failures    []FailureDTO          `json:"failures"`
	NotComputed []string              `json:"not_computed"`
	Saved       int                   `json:"saved"`
}

func toSimulateResponse(run payroll.SimulationRun) SimulateResponse {
	b := run.Batch
	resp := SimulateResponse{
		BatchID:     run.BatchID,
		SalaryMonth: b.SalaryMonth.String(),
		Results:     toResultDTOs(b.Results),
		Totals:      toTotalsDTO(b.Totals),
		Failures:    make([]FailureDTO, len(b.Failures)),
		NotComputed: make([]string, len(b.NotComputed)),
		Saved:       run.Saved,
	}
	for i, f := range b.Failures {
		resp.Failures[i] = FailureDTO{EmployeeID: string(f.EmployeeID), Error: f.Err.Error()}
	}
	for i, id := range b.NotComputed {
		resp.NotComputed[i] = string(id)
	}
	return resp
}

// =============================================================================
// STORED RESULTS
// =============================================================================

type ResultsResponse struct {
	SalaryMonth string                `json:"salary_month"`
	Results     []SimulationResultDTO `json:"results"`
}

type CountResponse struct {
	SalaryMonth string `json:"salary_month"`
	Count       int    `json:"count"`
}

// =============================================================================
// MISC
// =============================================================================

type HealthResponse struct {
	Status      string `json:"status"`
	Persistence bool   `json:"persistence"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
