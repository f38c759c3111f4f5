/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the LOP replay, the salary calculator and the batch simulator
  over REST. Handles request decoding, validation, intake normalization
  and JSON responses; all computation is delegated to the engine.

ENDPOINTS:
  POST   /api/payroll/lop                Replay one employee's leave for a month
  POST   /api/payroll/salary             Price one month for given LOP days
  POST   /api/payroll/simulate           Run a batch, optionally saving it
  GET    /api/payroll/results?month=     Saved results for a month
  GET    /api/payroll/results/count?month=  Number of saved results
  GET    /api/payroll/batches/{id}       Saved summary of one batch
  GET    /api/health                     Liveness and persistence flag

REQUEST FLOW:
  1. Decode JSON body
  2. Validate struct tags
  3. Convert DTOs into engine types (dto.go)
  4. Call the engine or the service
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, validation errors, invalid month
  - 404: Unknown batch id
  - 503: Saving or reading results with persistence disabled
  - 500: Store failures
  Per-employee failures inside a batch are NOT errors; they are listed in
  the 200 response under "failures".

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/payroll"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Replayer   *leave.Replayer
	Calculator *payroll.Calculator
	Service    *payroll.Service

	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a handler. A nil logger disables logging.
func NewHandler(replayer *leave.Replayer, calculator *payroll.Calculator, service *payroll.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Replayer:   replayer,
		Calculator: calculator,
		Service:    service,
		logger:     logger,
		validate:   newValidator(),
	}
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// ComputeLOP replays one employee's approved leave for a month.
// POST /api/payroll/lop
func (h *Handler) ComputeLOP(w http.ResponseWriter, r *http.Request) {
	var req LOPRequest
	if !h.decode(w, r, &req) {
		return
	}

	owner := generic.EmployeeID(req.EmployeeID)
	replay := h.Replayer.Replay(
		owner,
		req.Year,
		time.Month(req.Month),
		toRequests(owner, req.Leaves),
		toAllocations(owner, req.Allocations),
	)

	writeJSON(w, http.StatusOK, toLOPResponse(replay))
}

// CalculateSalary prices one month.
// POST /api/payroll/salary
func (h *Handler) CalculateSalary(w http.ResponseWriter, r *http.Request) {
	var req SalaryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result := h.Calculator.CalculateSalary(req.Components.ToComponents(), req.LOPDays)

	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// Simulate runs a payroll batch and saves it when asked.
// POST /api/payroll/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if !h.decode(w, r, &req) {
		return
	}

	run, err := h.Service.Simulate(r.Context(), req.ToBatchInput(), req.Save)
	if err != nil {
		h.writeServiceError(w, "Failed to simulate payroll", err)
		return
	}

	writeJSON(w, http.StatusOK, toSimulateResponse(run))
}

// ListResults returns the saved results of a month.
// GET /api/payroll/results?month=YYYY-MM
func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	results, err := h.Service.ListResults(r.Context(), month)
	if err != nil {
		h.writeServiceError(w, "Failed to list results", err)
		return
	}

	writeJSON(w, http.StatusOK, ResultsResponse{
		SalaryMonth: month.String(),
		Results:     toResultDTOs(results),
	})
}

// CountResults returns how many results are saved for a month.
// GET /api/payroll/results/count?month=YYYY-MM
func (h *Handler) CountResults(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	n, err := h.Service.CountResults(r.Context(), month)
	if err != nil {
		h.writeServiceError(w, "Failed to count results", err)
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{SalaryMonth: month.String(), Count: n})
}

// GetBatch returns the saved summary of one batch.
// GET /api/payroll/batches/{id}
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.GetBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get batch", err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchResponse(rec))
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Persistence: h.Service.Persistent(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads and validates the body into dst. On failure it has already
// written the 400 response.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Details: validationDetails(err),
		})
		return false
	}
	return true
}

func monthParam(w http.ResponseWriter, r *http.Request) (generic.SalaryMonth, bool) {
	month, err := generic.ParseSalaryMonth(r.URL.Query().Get("month"))
	if err == nil {
		err = month.Validate()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month, expected YYYY-MM", err)
		return generic.SalaryMonth{}, false
	}
	return month, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, payroll.ErrStoreRequired):
		writeError(w, http.StatusServiceUnavailable, "Persistence is disabled", err)
	case errors.Is(err, payroll.ErrBatchNotFound):
		writeError(w, http.StatusNotFound, "Batch not found", err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
