/*
Package sqlite provides a SQLite-backed implementation of core.Store.

PURPOSE:
  Persists users, employee profiles, time sessions with their breaks, and
  leave requests. The same schema ports to PostgreSQL with minor dialect
  changes.

KEY TABLES:
  users:          Login identity and role
  profiles:       Employee record (1:1 with users, optional)
  time_sessions:  Clock-in/clock-out intervals, gross duration in minutes
  break_sessions: Breaks inside a session (cascade-deleted with it)
  leave_requests: Leave spans and their approval state

TIME ENCODING:
  Instants are stored as UTC text in a fixed-width layout so that string
  comparison in SQL matches chronological order. Calendar dates (leave
  spans, hire dates) are stored as YYYY-MM-DD. Salary is decimal text.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WithTx holds the write lock for the
  whole callback; the Store passed to the callback never re-acquires it.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./timekeeper.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - core/store.go: Interface definitions
  - core/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/timekeeper/core"
)

// timeLayout is fixed-width so lexical order equals time order.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Store implements core.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ core.Store = (*Store)(nil)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

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
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'employee',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		employee_code TEXT UNIQUE,
		first_name TEXT,
		last_name TEXT,
		department TEXT,
		position TEXT,
		hire_date TEXT,
		salary TEXT
	);

	CREATE TABLE IF NOT EXISTS time_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration INTEGER,
		status TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Payroll and "my sessions" scans
	CREATE INDEX IF NOT EXISTS idx_sessions_user_start
		ON time_sessions(user_id, start_time);

	-- Open session lookup on every clock action
	CREATE INDEX IF NOT EXISTS idx_sessions_user_status
		ON time_sessions(user_id, status);

	CREATE TABLE IF NOT EXISTS break_sessions (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES time_sessions(id) ON DELETE CASCADE,
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration INTEGER,
		break_type TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_breaks_session
		ON break_sessions(session_id, start_time);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		reason TEXT,
		approved_by TEXT,
		approved_at TEXT,
		rejection_reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Overlap checks and payroll month scans
	CREATE INDEX IF NOT EXISTS idx_leaves_user_span
		ON leave_requests(user_id, start_date, end_date);

	CREATE INDEX IF NOT EXISTS idx_leaves_status
		ON leave_requests(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS (core.UserStore)
// =============================================================================

// SaveUser upserts a user and, when present, its profile.
func (s *Store) SaveUser(ctx context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(q querier) error { return saveUser(ctx, q, u) })
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getUser(ctx, s.db, id)
}

// ListUsers returns all users ordered by email.
func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listUsers(ctx, s.db)
}

const userColumns = `
	u.id, u.email, u.role, u.created_at,
	p.user_id, p.employee_code, p.first_name, p.last_name,
	p.department, p.position, p.hire_date, p.salary
`

func saveUser(ctx context.Context, q querier, u core.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, email, role, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			role = excluded.role
	`, u.ID, u.Email, string(u.Role), formatTime(createdAt))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	if u.Profile == nil {
		return nil
	}
	p := u.Profile
	_, err = q.ExecContext(ctx, `
		INSERT INTO profiles (user_id, employee_code, first_name, last_name,
			department, position, hire_date, salary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			employee_code = excluded.employee_code,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			department = excluded.department,
			position = excluded.position,
			hire_date = excluded.hire_date,
			salary = excluded.salary
	`, u.ID, nullString(p.EmployeeCode), nullString(p.FirstName), nullString(p.LastName),
		nullString(p.Department), nullString(p.Position), nullDate(p.HireDate), p.Salary.String())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func getUser(ctx context.Context, q querier, id string) (*core.User, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users u LEFT JOIN profiles p ON p.user_id = u.id WHERE u.id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func listUsers(ctx context.Context, q querier) ([]core.User, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users u LEFT JOIN profiles p ON p.user_id = u.id ORDER BY u.email")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (core.User, error) {
	var (
		u         core.User
		role      string
		createdAt string
		profileID sql.NullString
		code      sql.NullString
		first     sql.NullString
		last      sql.NullString
		dept      sql.NullString
		position  sql.NullString
		hireDate  sql.NullString
		salary    sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &role, &createdAt,
		&profileID, &code, &first, &last, &dept, &position, &hireDate, &salary)
	if err != nil {
		return u, err
	}

	u.Role = core.Role(role)
	u.CreatedAt = parseTime(createdAt)
	if profileID.Valid {
		u.Profile = &core.Profile{
			EmployeeCode: code.String,
			FirstName:    first.String,
			LastName:     last.String,
			Department:   dept.String,
			Position:     position.String,
			HireDate:     parseDate(hireDate.String),
			Salary:       core.MustParseDecimal(salary.String),
		}
	}
	return u, nil
}

// =============================================================================
// TIME SESSIONS (core.SessionStore)
// =============================================================================

// SaveSession upserts a session and replaces its breaks atomically.
func (s *Store) SaveSession(ctx context.Context, ts core.TimeSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(q querier) error { return saveSession(ctx, q, ts) })
}

// GetSession retrieves a session with its breaks.
func (s *Store) GetSession(ctx context.Context, id string) (*core.TimeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getSession(ctx, s.db, id)
}

// FindOpenSession returns the user's ACTIVE or PAUSED session, or nil.
func (s *Store) FindOpenSession(ctx context.Context, userID string) (*core.TimeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return findOpenSession(ctx, s.db, userID)
}

// ListSessions returns sessions matching f ordered by start time.
func (s *Store) ListSessions(ctx context.Context, f core.SessionFilter) ([]core.TimeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listSessions(ctx, s.db, f)
}

const sessionColumns = `id, user_id, start_time, end_time, duration, status, notes, created_at, updated_at`

func saveSession(ctx context.Context, q querier, ts core.TimeSession) error {
	now := time.Now()
	createdAt, updatedAt := ts.CreatedAt, ts.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO time_sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			end_time = excluded.end_time,
			duration = excluded.duration,
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, ts.ID, ts.UserID, formatTime(ts.StartTime), nullTime(ts.EndTime), nullInt(ts.Duration),
		string(ts.Status), nullString(ts.Notes), formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM break_sessions WHERE session_id = ?", ts.ID); err != nil {
		return fmt.Errorf("failed to clear breaks: %w", err)
	}
	for _, b := range ts.Breaks {
		_, err := q.ExecContext(ctx, `
			INSERT INTO break_sessions (id, session_id, start_time, end_time, duration, break_type)
			VALUES (?, ?, ?, ?, ?, ?)
		`, b.ID, ts.ID, formatTime(b.StartTime), nullTime(b.EndTime), nullInt(b.Duration), string(b.Type))
		if err != nil {
			return fmt.Errorf("failed to save break: %w", err)
		}
	}
	return nil
}

func getSession(ctx context.Context, q querier, id string) (*core.TimeSession, error) {
	sessions, err := querySessions(ctx, q, "SELECT "+sessionColumns+" FROM time_sessions WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, core.ErrSessionNotFound
	}
	return &sessions[0], nil
}

func findOpenSession(ctx context.Context, q querier, userID string) (*core.TimeSession, error) {
	sessions, err := querySessions(ctx, q, `
		SELECT `+sessionColumns+` FROM time_sessions
		WHERE user_id = ? AND status IN (?, ?)
		ORDER BY start_time ASC LIMIT 1
	`, userID, string(core.SessionActive), string(core.SessionPaused))
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return &sessions[0], nil
}

func listSessions(ctx context.Context, q querier, f core.SessionFilter) ([]core.TimeSession, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if !f.From.IsZero() {
		where = append(where, "start_time >= ?")
		args = append(args, formatTime(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "start_time <= ?")
		args = append(args, formatTime(f.To))
	}
	if len(f.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(f.Statuses))+")")
		for _, st := range f.Statuses {
			args = append(args, string(st))
		}
	}

	query := "SELECT " + sessionColumns + " FROM time_sessions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	return querySessions(ctx, q, query, args...)
}

func querySessions(ctx context.Context, q querier, query string, args ...any) ([]core.TimeSession, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}

	var sessions []core.TimeSession
	for rows.Next() {
		ts, err := scanSession(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		sessions = append(sessions, ts)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Breaks are loaded after the session cursor is closed; the pool has one connection.
	for i := range sessions {
		breaks, err := loadBreaks(ctx, q, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Breaks = breaks
	}
	return sessions, nil
}

func scanSession(rows *sql.Rows) (core.TimeSession, error) {
	var (
		ts        core.TimeSession
		startTime string
		endTime   sql.NullString
		duration  sql.NullInt64
		status    string
		notes     sql.NullString
		createdAt string
		updatedAt string
	)
	err := rows.Scan(&ts.ID, &ts.UserID, &startTime, &endTime, &duration, &status, &notes, &createdAt, &updatedAt)
	if err != nil {
		return ts, fmt.Errorf("failed to scan session: %w", err)
	}

	ts.StartTime = parseTime(startTime)
	ts.EndTime = parseNullTime(endTime)
	ts.Duration = parseNullInt(duration)
	ts.Status = core.SessionStatus(status)
	ts.Notes = notes.String
	ts.CreatedAt = parseTime(createdAt)
	ts.UpdatedAt = parseTime(updatedAt)
	return ts, nil
}

func loadBreaks(ctx context.Context, q querier, sessionID string) ([]core.BreakSession, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, session_id, start_time, end_time, duration, break_type
		FROM break_sessions WHERE session_id = ?
		ORDER BY start_time ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query breaks: %w", err)
	}
	defer rows.Close()

	var breaks []core.BreakSession
	for rows.Next() {
		var (
			b         core.BreakSession
			startTime string
			endTime   sql.NullString
			duration  sql.NullInt64
			breakType string
		)
		if err := rows.Scan(&b.ID, &b.SessionID, &startTime, &endTime, &duration, &breakType); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		b.StartTime = parseTime(startTime)
		b.EndTime = parseNullTime(endTime)
		b.Duration = parseNullInt(duration)
		b.Type = core.BreakType(breakType)
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}

// =============================================================================
// LEAVE REQUESTS (core.LeaveStore)
// =============================================================================

// SaveLeave upserts a leave request.
func (s *Store) SaveLeave(ctx context.Context, l core.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveLeave(ctx, s.db, l)
}

// GetLeave retrieves a leave request by ID.
func (s *Store) GetLeave(ctx context.Context, id string) (*core.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getLeave(ctx, s.db, id)
}

// ListLeaves returns leave requests matching f ordered by start date.
func (s *Store) ListLeaves(ctx context.Context, f core.LeaveFilter) ([]core.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listLeaves(ctx, s.db, f)
}

const leaveColumns = `id, user_id, start_date, end_date, leave_type, status, reason,
	approved_by, approved_at, rejection_reason, created_at, updated_at`

func saveLeave(ctx context.Context, q querier, l core.LeaveRequest) error {
	now := time.Now()
	createdAt, updatedAt := l.CreatedAt, l.UpdatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO leave_requests (`+leaveColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			leave_type = excluded.leave_type,
			status = excluded.status,
			reason = excluded.reason,
			approved_by = excluded.approved_by,
			approved_at = excluded.approved_at,
			rejection_reason = excluded.rejection_reason,
			updated_at = excluded.updated_at
	`, l.ID, l.UserID, formatDate(l.StartDate), formatDate(l.EndDate), string(l.Type), string(l.Status),
		nullString(l.Reason), nullString(l.ApprovedBy), nullTime(l.ApprovedAt), nullString(l.RejectionReason),
		formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

func getLeave(ctx context.Context, q querier, id string) (*core.LeaveRequest, error) {
	leaves, err := queryLeaves(ctx, q, "SELECT "+leaveColumns+" FROM leave_requests WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return nil, core.ErrLeaveNotFound
	}
	return &leaves[0], nil
}

func listLeaves(ctx context.Context, q querier, f core.LeaveFilter) ([]core.LeaveRequest, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.ExcludeID != "" {
		where = append(where, "id <> ?")
		args = append(args, f.ExcludeID)
	}
	if !f.OverlapFrom.IsZero() && !f.OverlapTo.IsZero() {
		where = append(where, "start_date <= ? AND end_date >= ?")
		args = append(args, formatDate(f.OverlapTo), formatDate(f.OverlapFrom))
	}
	if len(f.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(f.Statuses))+")")
		for _, st := range f.Statuses {
			args = append(args, string(st))
		}
	}

	query := "SELECT " + leaveColumns + " FROM leave_requests"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date ASC, id ASC"

	return queryLeaves(ctx, q, query, args...)
}

func queryLeaves(ctx context.Context, q querier, query string, args ...any) ([]core.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var leaves []core.LeaveRequest
	for rows.Next() {
		var (
			l               core.LeaveRequest
			startDate       string
			endDate         string
			leaveType       string
			status          string
			reason          sql.NullString
			approvedBy      sql.NullString
			approvedAt      sql.NullString
			rejectionReason sql.NullString
			createdAt       string
			updatedAt       string
		)
		err := rows.Scan(&l.ID, &l.UserID, &startDate, &endDate, &leaveType, &status, &reason,
			&approvedBy, &approvedAt, &rejectionReason, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		l.StartDate = parseDate(startDate)
		l.EndDate = parseDate(endDate)
		l.Type = core.LeaveType(leaveType)
		l.Status = core.LeaveStatus(status)
		l.Reason = reason.String
		l.ApprovedBy = approvedBy.String
		l.ApprovedAt = parseNullTime(approvedAt)
		l.RejectionReason = rejectionReason.String
		l.CreatedAt = parseTime(createdAt)
		l.UpdatedAt = parseTime(updatedAt)
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store core.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// inTx runs fn in its own transaction. Caller holds mu.
func (s *Store) inTx(ctx context.Context, fn func(q querier) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore routes every call through the open *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) SaveUser(ctx context.Context, u core.User) error {
	return saveUser(ctx, ts.tx, u)
}

func (ts *txStore) GetUser(ctx context.Context, id string) (*core.User, error) {
	return getUser(ctx, ts.tx, id)
}

func (ts *txStore) ListUsers(ctx context.Context) ([]core.User, error) {
	return listUsers(ctx, ts.tx)
}

func (ts *txStore) SaveSession(ctx context.Context, s core.TimeSession) error {
	return saveSession(ctx, ts.tx, s)
}

func (ts *txStore) GetSession(ctx context.Context, id string) (*core.TimeSession, error) {
	return getSession(ctx, ts.tx, id)
}

func (ts *txStore) FindOpenSession(ctx context.Context, userID string) (*core.TimeSession, error) {
	return findOpenSession(ctx, ts.tx, userID)
}

func (ts *txStore) ListSessions(ctx context.Context, f core.SessionFilter) ([]core.TimeSession, error) {
	return listSessions(ctx, ts.tx, f)
}

func (ts *txStore) SaveLeave(ctx context.Context, l core.LeaveRequest) error {
	return saveLeave(ctx, ts.tx, l)
}

func (ts *txStore) GetLeave(ctx context.Context, id string) (*core.LeaveRequest, error) {
	return getLeave(ctx, ts.tx, id)
}

func (ts *txStore) ListLeaves(ctx context.Context, f core.LeaveFilter) ([]core.LeaveRequest, error) {
	return listLeaves(ctx, ts.tx, f)
}

// WithTx joins the enclosing transaction.
func (ts *txStore) WithTx(ctx context.Context, fn func(store core.Store) error) error {
	return fn(ts)
}

// Helper functions

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func formatDate(t time.Time) string { return t.UTC().Format(core.DateLayout) }

func parseDate(s string) time.Time {
	t, _ := time.Parse(core.DateLayout, s)
	return t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(t), Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

func parseNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
