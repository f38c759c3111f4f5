// Package memory provides an in-memory payroll.ResultStore.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	results map[key]payroll.SimulationResult
	batches map[string]payroll.BatchRecord
}

type key struct {
	EmployeeID  generic.EmployeeID
	SalaryMonth generic.SalaryMonth
}

var _ payroll.ResultStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		results: make(map[key]payroll.SimulationResult),
		batches: make(map[string]payroll.BatchRecord),
	}
}

// SaveBatch stores the batch summary and every successful result, replacing
// earlier rows for the same employee and month. A batch id can be saved
// once.
func (m *Memory) SaveBatch(_ context.Context, batchID string, batch payroll.BatchResult) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.batches[batchID]; exists {
		return 0, fmt.Errorf("batch %s already saved", batchID)
	}
	m.batches[batchID] = payroll.BatchRecord{
		ID:          batchID,
		SalaryMonth: batch.SalaryMonth,
		Totals:      batch.Totals,
		CreatedAt:   time.Now().UTC(),
	}
	for _, r := range batch.Results {
		m.results[key{EmployeeID: r.EmployeeID, SalaryMonth: r.SalaryMonth}] = cloneResult(r)
	}
	return len(batch.Results), nil
}

func (m *Memory) GetBatch(_ context.Context, batchID string) (payroll.BatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.batches[batchID]
	if !ok {
		return payroll.BatchRecord{}, payroll.ErrBatchNotFound
	}
	return rec, nil
}

func (m *Memory) CountResults(_ context.Context, month generic.SalaryMonth) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for k := range m.results {
		if k.SalaryMonth == month {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListResults(_ context.Context, month generic.SalaryMonth) ([]payroll.SimulationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []payroll.SimulationResult
	for k, r := range m.results {
		if k.SalaryMonth == month {
			out = append(out, cloneResult(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func cloneResult(r payroll.SimulationResult) payroll.SimulationResult {
	r.ClampedFields = append([]string(nil), r.ClampedFields...)
	return r
}
