/*
Package sqlite provides a SQLite-backed payroll.ResultStore.

PURPOSE:
  Persists simulated payroll results when the caller explicitly asks for
  it. The engine itself never touches this package.

KEY TABLES:
  payroll_batches:     one row per saved batch (month, counts, LOP and money totals)
  simulation_results:  one row per employee and salary month

OVERWRITE SEMANTICS:
  (employee_id, salary_month) is the primary key of simulation_results.
  Saving a newer batch for the same month replaces the employee's row and
  points it at the new batch id. The batch rows themselves are kept.

MONEY:
  decimal.Decimal values are stored as TEXT to keep exact precision.

CONCURRENCY:
  Writes are serialized with a mutex. ":memory:" databases are pinned to a
  single connection, otherwise every pooled connection would see its own
  empty database.

USAGE:
  store, err := sqlite.New("./payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/service.go: ResultStore interface
  - store/memory: in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements payroll.ResultStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ payroll.ResultStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS payroll_batches (
		id TEXT PRIMARY KEY,
		salary_month TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		not_computed INTEGER NOT NULL,
		lop_days TEXT NOT NULL DEFAULT '0',
		lop_deduction TEXT NOT NULL DEFAULT '0',
		total_earnings TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		net_salary TEXT NOT NULL,
		ctc TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_batches_month
		ON payroll_batches(salary_month);

	CREATE TABLE IF NOT EXISTS simulation_results (
		employee_id TEXT NOT NULL,
		salary_month TEXT NOT NULL,
		batch_id TEXT NOT NULL REFERENCES payroll_batches(id),
		lop_days TEXT NOT NULL,
		per_day_rate TEXT NOT NULL,
		lop_deduction TEXT NOT NULL,
		total_earnings TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		net_salary TEXT NOT NULL,
		ctc TEXT NOT NULL,
		clamped_fields_json TEXT,
		created_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, salary_month)
	);

	CREATE INDEX IF NOT EXISTS idx_results_month
		ON simulation_results(salary_month);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before the LOP totals were kept lack these columns.
	for _, col := range []string{"lop_days", "lop_deduction"} {
		if err := s.addColumnIfMissing("payroll_batches", col, "TEXT NOT NULL DEFAULT '0'"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) addColumnIfMissing(table, column, definition string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}

// =============================================================================
// RESULT STORE
// =============================================================================

// SaveBatch writes the batch summary and its successful results atomically.
func (s *Store) SaveBatch(ctx context.Context, batchID string, batch payroll.BatchResult) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	month := batch.SalaryMonth.String()
	t := batch.Totals

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payroll_batches
			(id, salary_month, succeeded, failed, not_computed, lop_days, lop_deduction,
			 total_earnings, total_deductions, net_salary, ctc, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batchID, month, t.Succeeded, t.Failed, t.NotComputed,
		t.LOPDays.String(), t.LOPDeduction.String(),
		t.TotalEarnings.String(), t.TotalDeductions.String(), t.NetSalary.String(), t.CTC.String(), now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO simulation_results
			(employee_id, salary_month, batch_id, lop_days, per_day_rate, lop_deduction,
			 total_earnings, total_deductions, net_salary, ctc, clamped_fields_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, r := range batch.Results {
		var clampedJSON []byte
		if len(r.ClampedFields) > 0 {
			if clampedJSON, err = json.Marshal(r.ClampedFields); err != nil {
				return 0, fmt.Errorf("encode clamped fields for %s: %w", r.EmployeeID, err)
			}
		}
		_, err = stmt.ExecContext(ctx,
			string(r.EmployeeID), r.SalaryMonth.String(), batchID,
			r.LOPDays.String(), r.PerDayRate.String(), r.LOPDeduction.String(),
			r.TotalEarnings.String(), r.TotalDeductions.String(), r.NetSalary.String(), r.CTC.String(),
			nullString(clampedJSON), now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert result for %s: %w", r.EmployeeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(batch.Results), nil
}

func (s *Store) CountResults(ctx context.Context, month generic.SalaryMonth) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM simulation_results WHERE salary_month = ?`, month.String(),
	).Scan(&n)
	return n, err
}

func (s *Store) ListResults(ctx context.Context, month generic.SalaryMonth) ([]payroll.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, lop_days, per_day_rate, lop_deduction,
			total_earnings, total_deductions, net_salary, ctc, clamped_fields_json
		FROM simulation_results
		WHERE salary_month = ?
		ORDER BY employee_id`, month.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []payroll.SimulationResult
	for rows.Next() {
		var (
			employeeID  string
			values      [7]string
			clampedJSON sql.NullString
		)
		if err := rows.Scan(&employeeID,
			&values[0], &values[1], &values[2], &values[3], &values[4], &values[5], &values[6],
			&clampedJSON); err != nil {
			return nil, err
		}

		decs, err := parseDecimals(values[:])
		if err != nil {
			return nil, fmt.Errorf("result %s: %w", employeeID, err)
		}
		r := payroll.SimulationResult{
			EmployeeID:      generic.EmployeeID(employeeID),
			SalaryMonth:     month,
			LOPDays:         decs[0],
			PerDayRate:      decs[1],
			LOPDeduction:    decs[2],
			TotalEarnings:   decs[3],
			TotalDeductions: decs[4],
			NetSalary:       decs[5],
			CTC:             decs[6],
		}
		if clampedJSON.Valid && clampedJSON.String != "" {
			if err := json.Unmarshal([]byte(clampedJSON.String), &r.ClampedFields); err != nil {
				return nil, fmt.Errorf("result %s: clamped fields: %w", employeeID, err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// =============================================================================
// BATCHES
// =============================================================================

// GetBatch returns the summary saved under id.
func (s *Store) GetBatch(ctx context.Context, id string) (payroll.BatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec       payroll.BatchRecord
		month     string
		createdAt string
		values    [6]string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, salary_month, succeeded, failed, not_computed, lop_days, lop_deduction,
			total_earnings, total_deductions, net_salary, ctc, created_at
		FROM payroll_batches WHERE id = ?`, id,
	).Scan(&rec.ID, &month, &rec.Totals.Succeeded, &rec.Totals.Failed, &rec.Totals.NotComputed,
		&values[0], &values[1], &values[2], &values[3], &values[4], &values[5], &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return payroll.BatchRecord{}, payroll.ErrBatchNotFound
	}
	if err != nil {
		return payroll.BatchRecord{}, err
	}

	if rec.SalaryMonth, err = generic.ParseSalaryMonth(month); err != nil {
		return payroll.BatchRecord{}, fmt.Errorf("batch %s: %w", id, err)
	}
	decs, err := parseDecimals(values[:])
	if err != nil {
		return payroll.BatchRecord{}, fmt.Errorf("batch %s: %w", id, err)
	}
	rec.Totals.LOPDays = decs[0]
	rec.Totals.LOPDeduction = decs[1]
	rec.Totals.TotalEarnings = decs[2]
	rec.Totals.TotalDeductions = decs[3]
	rec.Totals.NetSalary = decs[4]
	rec.Totals.CTC = decs[5]
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return payroll.BatchRecord{}, fmt.Errorf("batch %s: created_at: %w", id, err)
	}
	return rec, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDecimals(values []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func nullString(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
