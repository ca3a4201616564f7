/*
Package sqlite provides the SQLite-backed persistence layer.

PURPOSE:
  Persists the payroll data model: employees, time-entry rows, the
  append-only leave ledger, and the organization policy singletons.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  employees:     payment terms per employee
  time_entries:  one row per work/leave/adjustment segment; soft-deleted
                 via the deleted flag, never removed (aggregators need
                 the full row set)
  leave_ledger:  immutable signed leave-balance adjustments; corrections
                 are new entries with the opposite sign
  org_settings:  leave policy and leave pay policy as JSON blobs

APPEND-ONLY ENFORCEMENT:
  leave_ledger has no UPDATE or DELETE path. time_entries are updated
  only to flip the deleted flag.

METADATA CAPABILITY:
  Older deployments lack the metadata column on time_entries. The store
  probes the schema once at startup and exposes the result through
  MetadataSupported(); callers inject it into the aggregation functions
  instead of re-detecting per call.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, one writer at a time.
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
	"github.com/shopspring/decimal"

	"github.com/tutorpay/payroll-engine/leave"
	"github.com/tutorpay/payroll-engine/payroll"
)

const dayFormat = "2006-01-02"

// Store implements persistence for the payroll engine using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	metadataSupported bool
}

// New creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := store.probeMetadata(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to probe schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		employee_type TEXT NOT NULL,
		working_days TEXT NOT NULL DEFAULT '[]',
		start_date TEXT,
		annual_leave_days TEXT NOT NULL DEFAULT '0',
		monthly_rate TEXT NOT NULL DEFAULT '0',
		leave_pay_method TEXT,
		employment_scope TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		entry_type TEXT NOT NULL,
		service_id TEXT,
		hours TEXT NOT NULL DEFAULT '0',
		sessions_count INTEGER NOT NULL DEFAULT 0,
		students_count INTEGER NOT NULL DEFAULT 0,
		adjustment_amount TEXT,
		rate_used TEXT,
		total_payment TEXT NOT NULL DEFAULT '0',
		payable BOOLEAN NOT NULL DEFAULT TRUE,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		leave_kind TEXT,
		leave_type TEXT,
		leave_subtype TEXT,
		leave_fraction REAL NOT NULL DEFAULT 0,
		metadata TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_time_entries_employee_date
		ON time_entries(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_time_entries_date
		ON time_entries(date);

	-- Append-only: no UPDATE or DELETE path exists for this table.
	CREATE TABLE IF NOT EXISTS leave_ledger (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		delta_days TEXT NOT NULL,
		source TEXT,
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_ledger_employee_date
		ON leave_ledger(employee_id, date);

	CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rate_card (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		service_id TEXT,
		valid_from TEXT NOT NULL,
		rate TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rate_card_employee
		ON rate_card(employee_id, valid_from);

	CREATE TABLE IF NOT EXISTS org_settings (
		key TEXT PRIMARY KEY,
		value_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// probeMetadata checks whether time_entries carries the metadata column.
func (s *Store) probeMetadata() error {
	rows, err := s.db.Query(`PRAGMA table_info(time_entries)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return err
		}
		if name == "metadata" {
			s.metadataSupported = true
			break
		}
	}
	return rows.Err()
}

// MetadataSupported reports whether rows can carry a metadata object.
// Detected once at startup; inject into payroll.Capabilities.
func (s *Store) MetadataSupported() bool {
	return s.metadataSupported
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or replaces an employee record.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	workingDays, _ := json.Marshal(payroll.WorkingDayNames(emp.WorkingDays))

	var startDate any
	if emp.StartDate != nil {
		startDate = emp.StartDate.Format(dayFormat)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees
		(id, name, employee_type, working_days, start_date, annual_leave_days,
		 monthly_rate, leave_pay_method, employment_scope, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emp.ID, emp.Name, emp.Type, string(workingDays), startDate,
		emp.AnnualLeaveDays.String(), emp.MonthlyRate.String(),
		emp.LeavePayMethod, emp.EmploymentScope,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee returns one employee, or nil when not found.
func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, employee_type, working_days, start_date,
		       annual_leave_days, monthly_rate, leave_pay_method, employment_scope
		FROM employees WHERE id = ?`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, employee_type, working_days, start_date,
		       annual_leave_days, monthly_rate, leave_pay_method, employment_scope
		FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

// EmployeesByID returns the roster keyed by ID, the aggregators' input shape.
func (s *Store) EmployeesByID(ctx context.Context) (map[payroll.EmployeeID]payroll.Employee, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[payroll.EmployeeID]payroll.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	return byID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (*payroll.Employee, error) {
	var emp payroll.Employee
	var workingDays string
	var startDate, leavePayMethod, scope sql.NullString
	var annualDays, monthlyRate string

	err := r.Scan(&emp.ID, &emp.Name, &emp.Type, &workingDays, &startDate,
		&annualDays, &monthlyRate, &leavePayMethod, &scope)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal([]byte(workingDays), &names); err != nil {
		return nil, fmt.Errorf("employee %s has invalid working_days: %w", emp.ID, err)
	}
	emp.WorkingDays = payroll.ParseWorkingDays(names)

	if startDate.Valid && startDate.String != "" {
		t, err := time.Parse(dayFormat, startDate.String)
		if err != nil {
			return nil, fmt.Errorf("employee %s has invalid start_date: %w", emp.ID, err)
		}
		emp.StartDate = &t
	}

	if emp.AnnualLeaveDays, err = decimal.NewFromString(annualDays); err != nil {
		return nil, fmt.Errorf("employee %s has invalid annual_leave_days: %w", emp.ID, err)
	}
	if emp.MonthlyRate, err = decimal.NewFromString(monthlyRate); err != nil {
		return nil, fmt.Errorf("employee %s has invalid monthly_rate: %w", emp.ID, err)
	}
	emp.LeavePayMethod = leavePayMethod.String
	emp.EmploymentScope = scope.String
	return &emp, nil
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

// InsertTimeEntries writes a batch atomically. Missing IDs are assigned.
func (s *Store) InsertTimeEntries(ctx context.Context, entries []payroll.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if err := insertTimeEntry(ctx, tx, entries[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertTimeEntry(ctx context.Context, tx *sql.Tx, e payroll.TimeEntry) error {
	var adjustment, rateUsed any
	if e.AdjustmentAmount != nil {
		adjustment = e.AdjustmentAmount.String()
	}
	if e.RateUsed != nil {
		rateUsed = e.RateUsed.String()
	}

	var metadata any
	if e.Metadata != nil {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("entry %s has unserializable metadata: %w", e.ID, err)
		}
		metadata = string(raw)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO time_entries
		(id, employee_id, date, entry_type, service_id, hours, sessions_count,
		 students_count, adjustment_amount, rate_used, total_payment, payable,
		 deleted, leave_kind, leave_type, leave_subtype, leave_fraction,
		 metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EmployeeID, e.Date.Format(dayFormat), e.EntryType,
		nullString(string(e.ServiceID)), e.Hours.String(),
		e.SessionsCount, e.StudentsCount, adjustment, rateUsed,
		e.TotalPayment.String(), e.Payable, e.Deleted,
		nullString(e.LeaveKind), nullString(e.LeaveType), nullString(e.LeaveSubtype),
		e.LeaveFraction, metadata,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return nil
}

// ListTimeEntries returns rows in [from, to], soft-deleted rows included:
// the aggregators filter them, not the store.
func (s *Store) ListTimeEntries(ctx context.Context, from, to time.Time) ([]payroll.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, entry_type, service_id, hours,
		       sessions_count, students_count, adjustment_amount, rate_used,
		       total_payment, payable, deleted, leave_kind, leave_type,
		       leave_subtype, leave_fraction, metadata
		FROM time_entries
		WHERE date >= ? AND date <= ?
		ORDER BY date, employee_id, id`,
		from.Format(dayFormat), to.Format(dayFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []payroll.TimeEntry
	for rows.Next() {
		entry, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanTimeEntry(rows *sql.Rows) (payroll.TimeEntry, error) {
	var e payroll.TimeEntry
	var date, hours, totalPayment string
	var serviceID, adjustment, rateUsed, leaveKind, leaveType, leaveSubtype, metadata sql.NullString

	err := rows.Scan(&e.ID, &e.EmployeeID, &date, &e.EntryType, &serviceID,
		&hours, &e.SessionsCount, &e.StudentsCount, &adjustment, &rateUsed,
		&totalPayment, &e.Payable, &e.Deleted, &leaveKind, &leaveType,
		&leaveSubtype, &e.LeaveFraction, &metadata)
	if err != nil {
		return payroll.TimeEntry{}, err
	}

	if e.Date, err = time.Parse(dayFormat, date); err != nil {
		return payroll.TimeEntry{}, fmt.Errorf("entry %s has invalid date: %w", e.ID, err)
	}
	if e.Hours, err = decimal.NewFromString(hours); err != nil {
		return payroll.TimeEntry{}, fmt.Errorf("entry %s has invalid hours: %w", e.ID, err)
	}
	if e.TotalPayment, err = decimal.NewFromString(totalPayment); err != nil {
		return payroll.TimeEntry{}, fmt.Errorf("entry %s has invalid total_payment: %w", e.ID, err)
	}
	if adjustment.Valid {
		d, err := decimal.NewFromString(adjustment.String)
		if err != nil {
			return payroll.TimeEntry{}, fmt.Errorf("entry %s has invalid adjustment_amount: %w", e.ID, err)
		}
		e.AdjustmentAmount = &d
	}
	if rateUsed.Valid {
		d, err := decimal.NewFromString(rateUsed.String)
		if err != nil {
			return payroll.TimeEntry{}, fmt.Errorf("entry %s has invalid rate_used: %w", e.ID, err)
		}
		e.RateUsed = &d
	}

	e.ServiceID = payroll.ServiceID(serviceID.String)
	e.LeaveKind = leaveKind.String
	e.LeaveType = leaveType.String
	e.LeaveSubtype = leaveSubtype.String

	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
			return payroll.TimeEntry{}, fmt.Errorf("entry %s has invalid metadata: %w", e.ID, err)
		}
	}
	return e, nil
}

// SoftDeleteTimeEntry flips the deleted flag; the row stays in place.
func (s *Store) SoftDeleteTimeEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE time_entries SET deleted = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("time entry %s not found", id)
	}
	return nil
}

// =============================================================================
// LEAVE LEDGER (append-only)
// =============================================================================

// AppendLeaveLedger writes canonical ledger entries atomically.
func (s *Store) AppendLeaveLedger(ctx context.Context, entries []leave.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO leave_ledger (id, employee_id, date, delta_days, source, reason, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, e.EmployeeID, e.Date.Format(dayFormat), e.DeltaDays.String(),
			nullString(e.Source), nullString(e.Reason),
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
	}
	return tx.Commit()
}

// LeaveLedger returns an employee's ledger entries chronologically.
func (s *Store) LeaveLedger(ctx context.Context, employeeID payroll.EmployeeID) ([]leave.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, delta_days, source, reason, created_at
		FROM leave_ledger WHERE employee_id = ?
		ORDER BY date, created_at, id`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []leave.LedgerEntry
	for rows.Next() {
		var e leave.LedgerEntry
		var date, delta, createdAt string
		var source, reason sql.NullString
		if err := rows.Scan(&e.ID, &e.EmployeeID, &date, &delta, &source, &reason, &createdAt); err != nil {
			return nil, err
		}
		if e.Date, err = time.Parse(dayFormat, date); err != nil {
			return nil, fmt.Errorf("ledger entry %s has invalid date: %w", e.ID, err)
		}
		if e.DeltaDays, err = decimal.NewFromString(delta); err != nil {
			return nil, fmt.Errorf("ledger entry %s has invalid delta: %w", e.ID, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("ledger entry %s has invalid created_at: %w", e.ID, err)
		}
		e.Source = source.String
		e.Reason = reason.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// SERVICES
// =============================================================================

func (s *Store) SaveService(ctx context.Context, svc payroll.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO services (id, name) VALUES (?, ?)`, svc.ID, svc.Name)
	return err
}

func (s *Store) ServicesByID(ctx context.Context) (map[payroll.ServiceID]payroll.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM services`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := map[payroll.ServiceID]payroll.Service{}
	for rows.Next() {
		var svc payroll.Service
		if err := rows.Scan(&svc.ID, &svc.Name); err != nil {
			return nil, err
		}
		services[svc.ID] = svc
	}
	return services, rows.Err()
}

// =============================================================================
// RATE CARD
// =============================================================================

// SaveRateCardEntry adds one rate table row.
func (s *Store) SaveRateCardEntry(ctx context.Context, entry payroll.RateCardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_card (id, employee_id, service_id, valid_from, rate)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), entry.EmployeeID, nullString(string(entry.ServiceID)),
		entry.ValidFrom.Format(dayFormat), entry.Rate.String())
	if err != nil {
		return fmt.Errorf("failed to save rate: %w", err)
	}
	return nil
}

// RateCard returns the full rate table.
func (s *Store) RateCard(ctx context.Context) ([]payroll.RateCardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, service_id, valid_from, rate
		FROM rate_card ORDER BY valid_from`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []payroll.RateCardEntry
	for rows.Next() {
		var entry payroll.RateCardEntry
		var serviceID sql.NullString
		var validFrom, rate string
		if err := rows.Scan(&entry.EmployeeID, &serviceID, &validFrom, &rate); err != nil {
			return nil, err
		}
		if entry.ValidFrom, err = time.Parse(dayFormat, validFrom); err != nil {
			return nil, fmt.Errorf("rate entry has invalid valid_from: %w", err)
		}
		if entry.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("rate entry has invalid rate: %w", err)
		}
		entry.ServiceID = payroll.ServiceID(serviceID.String)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// =============================================================================
// ORGANIZATION SETTINGS
// =============================================================================

const (
	settingLeavePolicy    = "leave_policy"
	settingLeavePayPolicy = "leave_pay_policy"
)

// SaveLeavePolicy stores the organization leave policy singleton.
func (s *Store) SaveLeavePolicy(ctx context.Context, policy leave.Policy) error {
	return s.saveSetting(ctx, settingLeavePolicy, policy)
}

// LeavePolicy loads the leave policy; returns the zero policy when unset.
func (s *Store) LeavePolicy(ctx context.Context) (leave.Policy, error) {
	var policy leave.Policy
	err := s.loadSetting(ctx, settingLeavePolicy, &policy)
	return policy, err
}

// SaveLeavePayPolicy stores the leave valuation policy singleton.
func (s *Store) SaveLeavePayPolicy(ctx context.Context, policy leave.PayPolicy) error {
	return s.saveSetting(ctx, settingLeavePayPolicy, policy)
}

// LeavePayPolicy loads the leave valuation policy, defaulting when unset.
func (s *Store) LeavePayPolicy(ctx context.Context) (leave.PayPolicy, error) {
	policy := leave.DefaultPayPolicy()
	err := s.loadSetting(ctx, settingLeavePayPolicy, &policy)
	return policy, err
}

func (s *Store) saveSetting(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO org_settings (key, value_json, updated_at)
		VALUES (?, ?, ?)`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) loadSetting(ctx context.Context, key string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value_json FROM org_settings WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
