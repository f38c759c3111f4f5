package payroll

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/warp/payroll-engine/generic"
	"go.uber.org/zap"
)

// =============================================================================
// RESULT STORE - Persistence contract for simulated results
// =============================================================================

// ResultStore persists simulation results. Saving the same employee and
// month again replaces the earlier row.
//
// IMPLEMENTATIONS:
//   - store/sqlite: SQLite
//   - store/memory: in-memory for tests and dev
type ResultStore interface {
	// SaveBatch stores the successful results of batch under batchID and
	// returns how many were saved.
	SaveBatch(ctx context.Context, batchID string, batch BatchResult) (int, error)

	// CountResults returns how many results are stored for month.
	CountResults(ctx context.Context, month generic.SalaryMonth) (int, error)

	// ListResults returns the results stored for month, ordered by employee.
	ListResults(ctx context.Context, month generic.SalaryMonth) ([]SimulationResult, error)

	// GetBatch returns the summary saved under batchID, or ErrBatchNotFound.
	GetBatch(ctx context.Context, batchID string) (BatchRecord, error)
}

// =============================================================================
// SERVICE - Simulate, and persist only when asked
// =============================================================================

type Service struct {
	simulator *Simulator
	store     ResultStore // nil disables persistence
	logger    *zap.Logger
}

func NewService(simulator *Simulator, store ResultStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{simulator: simulator, store: store, logger: logger}
}

// Persistent reports whether results can be saved.
func (s *Service) Persistent() bool { return s.store != nil }

// SimulationRun is a simulated batch plus its persistence outcome.
type SimulationRun struct {
	BatchID string
	Batch   BatchResult
	Saved   int
}

// Simulate runs the batch and, when save is true, stores its results.
func (s *Service) Simulate(ctx context.Context, in BatchInput, save bool) (SimulationRun, error) {
	if save && s.store == nil {
		return SimulationRun{}, ErrStoreRequired
	}

	batch, err := s.simulator.RunBatch(ctx, in)
	if err != nil {
		return SimulationRun{}, err
	}

	run := SimulationRun{BatchID: uuid.NewString(), Batch: batch}
	if !save {
		return run, nil
	}

	saved, err := s.store.SaveBatch(ctx, run.BatchID, batch)
	if err != nil {
		return run, fmt.Errorf("save batch %s: %w", run.BatchID, err)
	}
	run.Saved = saved

	s.logger.Info("payroll batch saved",
		zap.String("batch_id", run.BatchID),
		zap.String("salary_month", batch.SalaryMonth.String()),
		zap.Int("saved", saved))

	return run, nil
}

func (s *Service) CountResults(ctx context.Context, month generic.SalaryMonth) (int, error) {
	if s.store == nil {
		return 0, ErrStoreRequired
	}
	return s.store.CountResults(ctx, month)
}

func (s *Service) ListResults(ctx context.Context, month generic.SalaryMonth) ([]SimulationResult, error) {
	if s.store == nil {
		return nil, ErrStoreRequired
	}
	return s.store.ListResults(ctx, month)
}

func (s *Service) GetBatch(ctx context.Context, batchID string) (BatchRecord, error) {
	if s.store == nil {
		return BatchRecord{}, ErrStoreRequired
	}
	return s.store.GetBatch(ctx, batchID)
}
