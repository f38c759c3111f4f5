package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/memory"
)

var (
	march = generic.SalaryMonth{Year: 2025, Month: time.March}
	april = generic.SalaryMonth{Year: 2025, Month: time.April}
)

func result(id generic.EmployeeID, month generic.SalaryMonth, net int64) payroll.SimulationResult {
	return payroll.SimulationResult{
		EmployeeID:  id,
		SalaryMonth: month,
		NetSalary:   decimal.NewFromInt(net),
	}
}

func batch(month generic.SalaryMonth, results ...payroll.SimulationResult) payroll.BatchResult {
	return payroll.BatchResult{SalaryMonth: month, Results: results}
}

func TestMemory_SaveAndCount(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMemory()

	n, err := m.SaveBatch(ctx, "b1", batch(march, result("emp-2", march, 100), result("emp-1", march, 200)))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = m.SaveBatch(ctx, "b2", batch(april, result("emp-1", april, 300)))
	require.NoError(t, err)

	count, err := m.CountResults(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err := m.ListResults(ctx, march)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, generic.EmployeeID("emp-1"), list[0].EmployeeID)
	assert.Equal(t, generic.EmployeeID("emp-2"), list[1].EmployeeID)
}

func TestMemory_Upsert(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMemory()

	_, err := m.SaveBatch(ctx, "b1", batch(march, result("emp-1", march, 100)))
	require.NoError(t, err)
	_, err = m.SaveBatch(ctx, "b2", batch(march, result("emp-1", march, 150)))
	require.NoError(t, err)

	count, err := m.CountResults(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err := m.ListResults(ctx, march)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(list[0].NetSalary))

	for _, id := range []string{"b1", "b2"} {
		rec, err := m.GetBatch(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, march, rec.SalaryMonth)
	}
}

func TestMemory_GetBatch(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMemory()

	b := batch(april, result("emp-1", april, 300))
	b.Totals.Succeeded = 1
	b.Totals.NetSalary = decimal.NewFromInt(300)
	_, err := m.SaveBatch(ctx, "b1", b)
	require.NoError(t, err)

	rec, err := m.GetBatch(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", rec.ID)
	assert.Equal(t, 1, rec.Totals.Succeeded)
	assert.True(t, decimal.NewFromInt(300).Equal(rec.Totals.NetSalary))
	assert.False(t, rec.CreatedAt.IsZero())

	_, err = m.GetBatch(ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrBatchNotFound)

	_, err = m.SaveBatch(ctx, "b1", b)
	assert.Error(t, err)
}

func TestMemory_ResultsAreCopied(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMemory()

	r := result("emp-1", march, 100)
	r.ClampedFields = []string{"hra"}
	_, err := m.SaveBatch(ctx, "b1", batch(march, r))
	require.NoError(t, err)

	r.ClampedFields[0] = "tax"

	list, err := m.ListResults(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, []string{"hra"}, list[0].ClampedFields)
}
