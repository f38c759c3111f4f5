/*
simulator.go - Batch payroll simulation

PURPOSE:
  Runs the leave replay and the salary calculation for every selected
  employee of a month and aggregates the results.

FAILURE ISOLATION:
  A problem with one employee (no compensation record, a record keyed to
  someone else, an empty id, a panic) becomes an EmployeeError in
  BatchResult.Failures. It never stops the other employees and never
  reaches Totals. Only an invalid target month fails the whole call.

CONCURRENCY:
  Employees are independent, so they run on a bounded errgroup pool. Each
  worker reads only its employee's slice of the input and writes only its
  own slot of the outcome slice; aggregation happens afterwards, in input
  order, on the calling goroutine. No locks are needed.

CANCELLATION:
  When ctx is done, employees that have not started are reported in
  NotComputed. Employees already running finish normally.

DETERMINISM:
  Output order follows BatchInput.EmployeeIDs (duplicates dropped), and
  Totals are the sum of Results in that order. The same input always
  yields the same BatchResult.
*/
package payroll

import (
	"context"
	"fmt"
	"runtime"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Simulator struct {
	replayer   *leave.Replayer
	calculator *Calculator
	workers    int
	logger     *zap.Logger
}

// NewSimulator wires a simulator. workers <= 0 means runtime.NumCPU().
func NewSimulator(replayer *leave.Replayer, calculator *Calculator, workers int, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if replayer == nil {
		replayer = leave.NewReplayer(logger)
	}
	if calculator == nil {
		calculator = NewCalculator(DefaultDayDivisor, logger)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Simulator{
		replayer:   replayer,
		calculator: calculator,
		workers:    workers,
		logger:     logger,
	}
}

type outcome struct {
	result      SimulationResult
	err         error
	notComputed bool
}

// RunBatch simulates payroll for in.EmployeeIDs in in.Year/in.Month.
func (s *Simulator) RunBatch(ctx context.Context, in BatchInput) (BatchResult, error) {
	month, err := generic.NewSalaryMonth(in.Year, in.Month)
	if err != nil {
		return BatchResult{}, err
	}

	ids := uniqueIDs(in.EmployeeIDs)
	outcomes := make([]outcome, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, id := range ids {
		if ctx.Err() != nil {
			outcomes[i].notComputed = true
			continue
		}
		i, id := i, id
		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes[i].notComputed = true
				return nil
			}
			outcomes[i].result, outcomes[i].err = s.simulateEmployee(month, id, in)
			return nil
		})
	}
	_ = g.Wait()

	batch := BatchResult{
		SalaryMonth: month,
		Results:     make([]SimulationResult, 0, len(ids)),
		Totals:      newTotals(),
	}
	for i, o := range outcomes {
		switch {
		case o.notComputed:
			batch.NotComputed = append(batch.NotComputed, ids[i])
			batch.Totals.NotComputed++
		case o.err != nil:
			s.logger.Warn("payroll simulation failed for employee",
				zap.String("employee_id", string(ids[i])),
				zap.String("salary_month", month.String()),
				zap.Error(o.err))
			batch.Failures = append(batch.Failures, EmployeeError{EmployeeID: ids[i], Err: o.err})
			batch.Totals.Failed++
		default:
			batch.Results = append(batch.Results, o.result)
			batch.Totals.add(o.result)
		}
	}

	s.logger.Info("payroll batch simulated",
		zap.String("salary_month", month.String()),
		zap.Int("succeeded", batch.Totals.Succeeded),
		zap.Int("failed", batch.Totals.Failed),
		zap.Int("not_computed", batch.Totals.NotComputed),
		zap.String("net_salary", batch.Totals.NetSalary.String()))

	return batch, nil
}

func (s *Simulator) simulateEmployee(month generic.SalaryMonth, id generic.EmployeeID, in BatchInput) (result SimulationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSimulationPanic, r)
		}
	}()

	if id == "" {
		return SimulationResult{}, ErrInvalidEmployee
	}
	comp, ok := in.Compensation[id]
	if !ok {
		return SimulationResult{}, ErrCompensationNotFound
	}
	if comp.EmployeeID != "" && comp.EmployeeID != id {
		return SimulationResult{}, fmt.Errorf("%w: record belongs to %q", ErrInvalidCompensation, comp.EmployeeID)
	}
	comp.EmployeeID = id

	lop := s.replayer.ComputeMonthlyLOP(id, month.Year, month.Month, ownLeaves(id, in.Leaves[id]), ownAllocations(id, in.Allocations[id]))
	return s.calculator.Calculate(month, comp, lop), nil
}

// ownLeaves stamps records filed under id that carry no employee id of
// their own. Records naming someone else are left for the replayer to
// report and drop.
func ownLeaves(id generic.EmployeeID, requests []leave.Request) []leave.Request {
	out := make([]leave.Request, len(requests))
	for i, req := range requests {
		if req.EmployeeID == "" {
			req.EmployeeID = id
		}
		out[i] = req
	}
	return out
}

func ownAllocations(id generic.EmployeeID, allocations []leave.Allocation) []leave.Allocation {
	out := make([]leave.Allocation, len(allocations))
	for i, a := range allocations {
		if a.EmployeeID == "" {
			a.EmployeeID = id
		}
		out[i] = a
	}
	return out
}

func uniqueIDs(ids []generic.EmployeeID) []generic.EmployeeID {
	seen := make(map[generic.EmployeeID]bool, len(ids))
	out := make([]generic.EmployeeID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
