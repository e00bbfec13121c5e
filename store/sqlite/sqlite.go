/*
Package sqlite provides a SQLite-backed implementation of the payroll providers.

PURPOSE:
  Stores the leaf data the salary engine reads (employees, incentive
  mappings, attendance, store leaves, billing lines, advances) and the one
  engine output that is persisted: provisioned salaries.

INTERFACES IMPLEMENTED:
  payroll.EmployeeProvider, payroll.MappingProvider,
  payroll.AttendanceProvider, payroll.BillingProvider,
  payroll.AdvanceProvider, payroll.ProvisionStore

MONEY:
  Every amount is stored as TEXT holding a decimal string and parsed back
  with shopspring/decimal. Sums are done in Go, never with SQL SUM(), which
  would go through REAL.

KEY TABLES:
  employees:            Per-scope employee registry
  incentive_mappings:   One row per (scope, employee, pay cycle)
  attendance_days:      One mark per (scope, employee, date)
  store_leaves:         Store-wide closure days per scope
  billing_lines:        Raw billed services
  advances:             Signed advance ledger (given > 0, received < 0)
  provisioned_salaries: One row per (scope, employee, period key), upserted

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Internal helpers that run under the
  lock are suffixed Locked and never take it again.

USAGE:
  store, err := sqlite.New("./data/salary.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  agg := payroll.NewAggregator(store.Sources(), logger)

SEE ALSO:
  - payroll/providers.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/salary-engine/generic"
	"github.com/warp/salary-engine/payroll"
)

// Store implements all payroll providers using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time checks
var (
	_ payroll.EmployeeProvider   = (*Store)(nil)
	_ payroll.MappingProvider    = (*Store)(nil)
	_ payroll.AttendanceProvider = (*Store)(nil)
	_ payroll.BillingProvider    = (*Store)(nil)
	_ payroll.AdvanceProvider    = (*Store)(nil)
	_ payroll.ProvisionStore     = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each connection would otherwise get its own empty database
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

// Sources exposes the store as every leaf provider.
func (s *Store) Sources() payroll.Sources {
	return payroll.Sources{Employees: s, Mappings: s, Attendance: s, Billing: s, Advances: s}
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		account_code TEXT NOT NULL,
		retail_code TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		default_base_salary TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		PRIMARY KEY (account_code, retail_code, id)
	);

	CREATE TABLE IF NOT EXISTS incentive_mappings (
		account_code TEXT NOT NULL,
		retail_code TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		pay_cycle TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		target TEXT NOT NULL,
		incentive_bonus TEXT NOT NULL,
		leave_deduction_per_day TEXT NOT NULL,
		commission_json TEXT,
		updated_at TEXT NOT NULL,
		UNIQUE(account_code, retail_code, employee_id, pay_cycle)
	);

	-- One mark per employee per day; re-marking replaces the status
	CREATE TABLE IF NOT EXISTS attendance_days (
		account_code TEXT NOT NULL,
		retail_code TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(account_code, retail_code, employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_scope_date
		ON attendance_days(account_code, retail_code, date);

	CREATE TABLE IF NOT EXISTS store_leaves (
		account_code TEXT NOT NULL,
		retail_code TEXT NOT NULL,
		date TEXT NOT NULL,
		PRIMARY KEY (account_code, retail_code, date)
	);

	CREATE TABLE IF NOT EXISTS billing_lines (
		id TEXT PRIMARY KEY,
		account_code TEXT NOT NULL,
		retail_code TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		service_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_billing_scope_date
		ON billing_lines(account_code, retail_code, date);

	-- Signed ledger: positive = given to employee, negative = received back
	CREATE TABLE IF NOT EXISTS advances (
		id TEXT PRIMARY KEY,
		account_code TEXT NOT NULL,
		retail_code TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_advances_scope_employee_date
		ON advances(account_code, retail_code, employee_id, date);

	CREATE TABLE IF NOT EXISTS provisioned_salaries (
		id TEXT NOT NULL,
		account_code TEXT NOT NULL,
		retail_code TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		period_key TEXT NOT NULL,
		actual_salary TEXT NOT NULL,
		suggested_salary TEXT NOT NULL,
		custom_salary TEXT,
		final_salary TEXT NOT NULL,
		provided_by TEXT,
		provided_at TEXT NOT NULL,
		UNIQUE(account_code, retail_code, employee_id, period_key)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, e payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (account_code, retail_code, id, name, default_base_salary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_code, retail_code, id) DO UPDATE SET
			name = excluded.name,
			default_base_salary = excluded.default_base_salary
	`

	_, err := s.db.ExecContext(ctx, query,
		e.Scope.AccountCode, e.Scope.RetailCode, string(e.ID), e.Name,
		e.DefaultBaseSalary.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee returns nil when the employee does not exist.
func (s *Store) GetEmployee(ctx context.Context, scope generic.Scope, id generic.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e    payroll.Employee
		base string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, default_base_salary FROM employees
		 WHERE account_code = ? AND retail_code = ? AND id = ?`,
		scope.AccountCode, scope.RetailCode, string(id),
	).Scan(&e.ID, &e.Name, &base)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	e.Scope = scope
	e.DefaultBaseSalary = generic.MustParseDecimal(base)
	return &e, nil
}

// ListEmployees returns a scope's employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context, scope generic.Scope) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, default_base_salary FROM employees
		 WHERE account_code = ? AND retail_code = ? ORDER BY name, id`,
		scope.AccountCode, scope.RetailCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		var (
			e    payroll.Employee
			base string
		)
		if err := rows.Scan(&e.ID, &e.Name, &base); err != nil {
			return nil, err
		}
		e.Scope = scope
		e.DefaultBaseSalary = generic.MustParseDecimal(base)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// INCENTIVE MAPPINGS
// =============================================================================

type commissionJSON struct {
	ServiceID  string `json:"service_id"`
	FixedValue string `json:"fixed_value"`
}

// UpsertMapping replaces the mapping for (scope, employee, cycle).
func (s *Store) UpsertMapping(ctx context.Context, m payroll.IncentiveMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]commissionJSON, 0, len(m.Commissions))
	for _, c := range m.Commissions {
		rows = append(rows, commissionJSON{ServiceID: c.ServiceID, FixedValue: c.FixedValue.String()})
	}
	commissions, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode commissions: %w", err)
	}

	query := `
		INSERT INTO incentive_mappings
		(account_code, retail_code, employee_id, pay_cycle, base_salary, target,
		 incentive_bonus, leave_deduction_per_day, commission_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_code, retail_code, employee_id, pay_cycle) DO UPDATE SET
			base_salary = excluded.base_salary,
			target = excluded.target,
			incentive_bonus = excluded.incentive_bonus,
			leave_deduction_per_day = excluded.leave_deduction_per_day,
			commission_json = excluded.commission_json,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		m.Scope.AccountCode, m.Scope.RetailCode, string(m.EmployeeID), string(m.PayCycle),
		m.BaseSalary.String(), m.Target.String(),
		m.IncentiveBonus.String(), m.LeaveDeductionPerDay.String(),
		string(commissions),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert incentive mapping: %w", err)
	}
	return nil
}

// ListMappings returns the scope's mappings for one pay cycle.
func (s *Store) ListMappings(ctx context.Context, scope generic.Scope, cycle payroll.PayCycle) ([]payroll.IncentiveMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listMappingsLocked(ctx, scope, cycle)
}

func (s *Store) listMappingsLocked(ctx context.Context, scope generic.Scope, cycle payroll.PayCycle) ([]payroll.IncentiveMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, pay_cycle, base_salary, target, incentive_bonus,
		        leave_deduction_per_day, commission_json, updated_at
		 FROM incentive_mappings
		 WHERE account_code = ? AND retail_code = ? AND pay_cycle = ?
		 ORDER BY employee_id`,
		scope.AccountCode, scope.RetailCode, string(cycle),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list incentive mappings: %w", err)
	}
	defer rows.Close()

	var mappings []payroll.IncentiveMapping
	for rows.Next() {
		var (
			m                              payroll.IncentiveMapping
			base, target, bonus, deduction string
			commissions                    sql.NullString
			updatedAt                      string
		)
		if err := rows.Scan(&m.EmployeeID, &m.PayCycle, &base, &target, &bonus, &deduction, &commissions, &updatedAt); err != nil {
			return nil, err
		}
		m.Scope = scope
		m.BaseSalary = generic.MustParseDecimal(base)
		m.Target = generic.MustParseDecimal(target)
		m.IncentiveBonus = generic.MustParseDecimal(bonus)
		m.LeaveDeductionPerDay = generic.MustParseDecimal(deduction)
		m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		if commissions.Valid && commissions.String != "" {
			var decoded []commissionJSON
			if err := json.Unmarshal([]byte(commissions.String), &decoded); err != nil {
				return nil, fmt.Errorf("failed to decode commissions for %s: %w", m.EmployeeID, err)
			}
			for _, c := range decoded {
				m.Commissions = append(m.Commissions, payroll.CommissionRow{
					ServiceID:  c.ServiceID,
					FixedValue: generic.MustParseDecimal(c.FixedValue),
				})
			}
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// =============================================================================
// ATTENDANCE + STORE LEAVES
// =============================================================================

// MarkAttendance records a day's status, replacing any earlier mark.
func (s *Store) MarkAttendance(ctx context.Context, scope generic.Scope, day payroll.AttendanceDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance_days (account_code, retail_code, employee_id, date, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_code, retail_code, employee_id, date) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		scope.AccountCode, scope.RetailCode, string(day.EmployeeID),
		day.Date.String(), string(day.Status),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to mark attendance: %w", err)
	}
	return nil
}

// AttendanceDays returns one employee's marks inside the window, by date.
func (s *Store) AttendanceDays(ctx context.Context, scope generic.Scope, employeeID generic.EmployeeID, window generic.Window) ([]payroll.AttendanceDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, date, status FROM attendance_days
		 WHERE account_code = ? AND retail_code = ? AND employee_id = ?
		   AND date >= ? AND date <= ?
		 ORDER BY date`,
		scope.AccountCode, scope.RetailCode, string(employeeID),
		window.Start.String(), window.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var days []payroll.AttendanceDay
	for rows.Next() {
		var (
			d    payroll.AttendanceDay
			date string
		)
		if err := rows.Scan(&d.EmployeeID, &date, &d.Status); err != nil {
			return nil, err
		}
		if d.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("bad attendance date %q: %w", date, err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// AttendanceSummary counts marked days per employee and lists the store
// leaves inside the window.
func (s *Store) AttendanceSummary(ctx context.Context, scope generic.Scope, window generic.Window) (payroll.AttendanceSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := payroll.AttendanceSummary{
		Counts:          make(map[generic.EmployeeID]payroll.AttendanceCounts),
		StoreLeaveDates: generic.NewDateSet(),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, status, COUNT(*) FROM attendance_days
		 WHERE account_code = ? AND retail_code = ? AND date >= ? AND date <= ?
		 GROUP BY employee_id, status`,
		scope.AccountCode, scope.RetailCode, window.Start.String(), window.End.String(),
	)
	if err != nil {
		return sum, fmt.Errorf("failed to summarize attendance: %w", err)
	}
	for rows.Next() {
		var (
			id     generic.EmployeeID
			status payroll.AttendanceStatus
			n      int
		)
		if err := rows.Scan(&id, &status, &n); err != nil {
			rows.Close()
			return sum, err
		}
		c := sum.Counts[id]
		switch status {
		case payroll.StatusPresent:
			c.PresentDays += n
		case payroll.StatusHalf:
			c.HalfDays += n
		case payroll.StatusAbsent:
			c.AbsentDays += n
		}
		sum.Counts[id] = c
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return sum, err
	}
	rows.Close()

	leaves, err := s.storeLeavesLocked(ctx, scope, window)
	if err != nil {
		return sum, err
	}
	sum.StoreLeaveDates = leaves
	return sum, nil
}

// ReplaceStoreLeaves swaps a month's closure days for the given set in one
// transaction. Every day must fall inside the month.
func (s *Store) ReplaceStoreLeaves(ctx context.Context, scope generic.Scope, month generic.MonthKey, days []generic.TimePoint) error {
	window := month.Window()
	for _, d := range days {
		if !window.Contains(d) {
			return fmt.Errorf("%w: %s is outside %s", generic.ErrInvalidPeriod, d, month)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM store_leaves WHERE account_code = ? AND retail_code = ? AND date >= ? AND date <= ?`,
		scope.AccountCode, scope.RetailCode, window.Start.String(), window.End.String(),
	); err != nil {
		return fmt.Errorf("failed to clear store leaves: %w", err)
	}
	for _, d := range days {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO store_leaves (account_code, retail_code, date) VALUES (?, ?, ?)`,
			scope.AccountCode, scope.RetailCode, d.String(),
		); err != nil {
			return fmt.Errorf("failed to insert store leave: %w", err)
		}
	}

	return tx.Commit()
}

// StoreLeaves returns the closure days of one month.
func (s *Store) StoreLeaves(ctx context.Context, scope generic.Scope, month generic.MonthKey) (generic.DateSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.storeLeavesLocked(ctx, scope, month.Window())
}

func (s *Store) storeLeavesLocked(ctx context.Context, scope generic.Scope, window generic.Window) (generic.DateSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date FROM store_leaves
		 WHERE account_code = ? AND retail_code = ? AND date >= ? AND date <= ?`,
		scope.AccountCode, scope.RetailCode, window.Start.String(), window.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query store leaves: %w", err)
	}
	defer rows.Close()

	set := generic.NewDateSet()
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		d, err := generic.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("bad store leave date %q: %w", date, err)
		}
		set.Add(d)
	}
	return set, rows.Err()
}

// =============================================================================
// BILLING
// =============================================================================

// AddBillingLine stores one billed service; an empty ID is generated.
func (s *Store) AddBillingLine(ctx context.Context, scope generic.Scope, line payroll.BillingLine) (payroll.BillingLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line.ID == "" {
		line.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO billing_lines (id, account_code, retail_code, employee_id, date, service_id, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID, scope.AccountCode, scope.RetailCode, string(line.EmployeeID),
		line.Date.String(), line.ServiceID, line.Amount.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return payroll.BillingLine{}, fmt.Errorf("failed to add billing line: %w", err)
	}
	return line, nil
}

// BillingAggregates rolls up the window's lines with the commission rows of
// the cycle's mappings.
func (s *Store) BillingAggregates(ctx context.Context, scope generic.Scope, window generic.Window, cycle payroll.PayCycle) (map[generic.EmployeeID]payroll.BillingAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mappings, err := s.listMappingsLocked(ctx, scope, cycle)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee_id, date, service_id, amount FROM billing_lines
		 WHERE account_code = ? AND retail_code = ? AND date >= ? AND date <= ?`,
		scope.AccountCode, scope.RetailCode, window.Start.String(), window.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query billing lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.BillingLine
	for rows.Next() {
		var (
			l            payroll.BillingLine
			date, amount string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &date, &l.ServiceID, &amount); err != nil {
			return nil, err
		}
		if l.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("bad billing date %q: %w", date, err)
		}
		l.Amount = generic.MustParseDecimal(amount)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payroll.AggregateAllBilling(lines, window, mappings), nil
}

// =============================================================================
// ADVANCES
// =============================================================================

// AddAdvance appends a ledger entry. Entries are never updated.
func (s *Store) AddAdvance(ctx context.Context, e payroll.AdvanceEntry) (payroll.AdvanceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO advances (id, account_code, retail_code, employee_id, date, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Scope.AccountCode, e.Scope.RetailCode, string(e.EmployeeID),
		e.Date.String(), e.Amount.String(), nullString(e.Note),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return payroll.AdvanceEntry{}, fmt.Errorf("failed to add advance: %w", err)
	}
	return e, nil
}

// DeleteAdvance removes one entry of the scope.
func (s *Store) DeleteAdvance(ctx context.Context, scope generic.Scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM advances WHERE id = ? AND account_code = ? AND retail_code = ?",
		id, scope.AccountCode, scope.RetailCode,
	)
	if err != nil {
		return fmt.Errorf("failed to delete advance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrAdvanceNotFound
	}
	return nil
}

// ListAdvances returns entries dated in the window, oldest first. An empty
// employeeID lists every employee of the scope.
func (s *Store) ListAdvances(ctx context.Context, scope generic.Scope, employeeID generic.EmployeeID, window generic.Window) ([]payroll.AdvanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, date, amount, note, created_at FROM advances
		WHERE account_code = ? AND retail_code = ? AND date >= ? AND date <= ?`
	args := []any{scope.AccountCode, scope.RetailCode, window.Start.String(), window.End.String()}
	if employeeID != "" {
		query += " AND employee_id = ?"
		args = append(args, string(employeeID))
	}
	query += " ORDER BY date, created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query advances: %w", err)
	}
	defer rows.Close()

	var entries []payroll.AdvanceEntry
	for rows.Next() {
		var (
			e                       payroll.AdvanceEntry
			date, amount, createdAt string
			note                    sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.EmployeeID, &date, &amount, &note, &createdAt); err != nil {
			return nil, err
		}
		if e.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("bad advance date %q: %w", date, err)
		}
		e.Scope = scope
		e.Amount = generic.MustParseDecimal(amount)
		e.Note = note.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// PROVISIONED SALARIES
// =============================================================================

// SaveProvisionedSalary upserts on (scope, employee, period key); the last
// write wins, including a cleared custom amount.
func (s *Store) SaveProvisionedSalary(ctx context.Context, ps payroll.ProvisionedSalary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var custom sql.NullString
	if ps.CustomSalary != nil {
		custom = sql.NullString{String: ps.CustomSalary.String(), Valid: true}
	}

	query := `
		INSERT INTO provisioned_salaries
		(id, account_code, retail_code, employee_id, period_key, actual_salary,
		 suggested_salary, custom_salary, final_salary, provided_by, provided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_code, retail_code, employee_id, period_key) DO UPDATE SET
			id = excluded.id,
			actual_salary = excluded.actual_salary,
			suggested_salary = excluded.suggested_salary,
			custom_salary = excluded.custom_salary,
			final_salary = excluded.final_salary,
			provided_by = excluded.provided_by,
			provided_at = excluded.provided_at
	`

	_, err := s.db.ExecContext(ctx, query,
		ps.ID, ps.Scope.AccountCode, ps.Scope.RetailCode, string(ps.EmployeeID), ps.PeriodKey,
		ps.ActualSalary.String(), ps.SuggestedSalary.String(), custom, ps.FinalSalary.String(),
		nullString(ps.ProvidedBy), ps.ProvidedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save provisioned salary: %w", err)
	}
	return nil
}

// ListProvisionedSalaries returns every provisioned salary of one period key.
func (s *Store) ListProvisionedSalaries(ctx context.Context, scope generic.Scope, periodKey string) ([]payroll.ProvisionedSalary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, employee_id, period_key, actual_salary, suggested_salary,
		        custom_salary, final_salary, provided_by, provided_at
		 FROM provisioned_salaries
		 WHERE account_code = ? AND retail_code = ? AND period_key = ?
		 ORDER BY employee_id`,
		scope.AccountCode, scope.RetailCode, periodKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query provisioned salaries: %w", err)
	}
	defer rows.Close()

	var out []payroll.ProvisionedSalary
	for rows.Next() {
		var (
			ps                       payroll.ProvisionedSalary
			actual, suggested, final string
			custom, providedBy       sql.NullString
			providedAt               string
		)
		if err := rows.Scan(&ps.ID, &ps.EmployeeID, &ps.PeriodKey, &actual, &suggested,
			&custom, &final, &providedBy, &providedAt); err != nil {
			return nil, err
		}
		ps.Scope = scope
		ps.ActualSalary = generic.MustParseDecimal(actual)
		ps.SuggestedSalary = generic.MustParseDecimal(suggested)
		ps.FinalSalary = generic.MustParseDecimal(final)
		if custom.Valid {
			c := generic.MustParseDecimal(custom.String)
			ps.CustomSalary = &c
		}
		ps.ProvidedBy = providedBy.String
		ps.ProvidedAt, _ = time.Parse(time.RFC3339, providedAt)
		out = append(out, ps)
	}
	return out, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"provisioned_salaries", "advances", "billing_lines",
		"store_leaves", "attendance_days", "incentive_mappings", "employees",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
