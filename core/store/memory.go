// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/timekeeper/core"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	users    map[string]core.User
	sessions map[string]core.TimeSession
	leaves   map[string]core.LeaveRequest
}

var _ core.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]core.User),
		sessions: make(map[string]core.TimeSession),
		leaves:   make(map[string]core.LeaveRequest),
	}
}

func (m *Memory) SaveUser(_ context.Context, u core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getUserLocked(id)
}

func (m *Memory) ListUsers(_ context.Context) ([]core.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listUsersLocked(), nil
}

func (m *Memory) SaveSession(_ context.Context, s core.TimeSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveSessionLocked(s)
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*core.TimeSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getSessionLocked(id)
}

func (m *Memory) FindOpenSession(_ context.Context, userID string) (*core.TimeSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findOpenLocked(userID), nil
}

func (m *Memory) ListSessions(_ context.Context, f core.SessionFilter) ([]core.TimeSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listSessionsLocked(f), nil
}

func (m *Memory) SaveLeave(_ context.Context, l core.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[l.ID] = l
	return nil
}

func (m *Memory) GetLeave(_ context.Context, id string) (*core.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLeaveLocked(id)
}

func (m *Memory) ListLeaves(_ context.Context, f core.LeaveFilter) ([]core.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLeavesLocked(f), nil
}

// =============================================================================
// LOCKED HELPERS - Caller holds mu
// =============================================================================

func (m *Memory) getUserLocked(id string) (*core.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return &u, nil
}

func (m *Memory) listUsersLocked() []core.User {
	out := make([]core.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

func (m *Memory) saveSessionLocked(s core.TimeSession) {
	s.Breaks = append([]core.BreakSession(nil), s.Breaks...)
	m.sessions[s.ID] = s
}

func (m *Memory) getSessionLocked(id string) (*core.TimeSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	s.Breaks = append([]core.BreakSession(nil), s.Breaks...)
	return &s, nil
}

func (m *Memory) findOpenLocked(userID string) *core.TimeSession {
	for _, s := range m.listSessionsLocked(core.SessionFilter{
		UserID:   userID,
		Statuses: []core.SessionStatus{core.SessionActive, core.SessionPaused},
	}) {
		return &s
	}
	return nil
}

func (m *Memory) listSessionsLocked(f core.SessionFilter) []core.TimeSession {
	var out []core.TimeSession
	for _, s := range m.sessions {
		if f.MatchesSession(s) {
			s.Breaks = append([]core.BreakSession(nil), s.Breaks...)
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (m *Memory) getLeaveLocked(id string) (*core.LeaveRequest, error) {
	l, ok := m.leaves[id]
	if !ok {
		return nil, core.ErrLeaveNotFound
	}
	return &l, nil
}

func (m *Memory) listLeavesLocked(f core.LeaveFilter) []core.LeaveRequest {
	var out []core.LeaveRequest
	for _, l := range m.leaves {
		if f.MatchesLeave(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(core.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(&txMemoryView{parent: m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	users    map[string]core.User
	sessions map[string]core.TimeSession
	leaves   map[string]core.LeaveRequest
}

func (m *Memory) snapshot() memorySnapshot {
	s := memorySnapshot{
		users:    make(map[string]core.User, len(m.users)),
		sessions: make(map[string]core.TimeSession, len(m.sessions)),
		leaves:   make(map[string]core.LeaveRequest, len(m.leaves)),
	}
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.sessions {
		v.Breaks = append([]core.BreakSession(nil), v.Breaks...)
		s.sessions[k] = v
	}
	for k, v := range m.leaves {
		s.leaves[k] = v
	}
	return s
}

func (m *Memory) restore(s memorySnapshot) {
	m.users = s.users
	m.sessions = s.sessions
	m.leaves = s.leaves
}

// txMemoryView runs against the parent while WithTx holds its lock.
type txMemoryView struct {
	parent *Memory
}

func (tv *txMemoryView) SaveUser(_ context.Context, u core.User) error {
	tv.parent.users[u.ID] = u
	return nil
}

func (tv *txMemoryView) GetUser(_ context.Context, id string) (*core.User, error) {
	return tv.parent.getUserLocked(id)
}

func (tv *txMemoryView) ListUsers(_ context.Context) ([]core.User, error) {
	return tv.parent.listUsersLocked(), nil
}

func (tv *txMemoryView) SaveSession(_ context.Context, s core.TimeSession) error {
	tv.parent.saveSessionLocked(s)
	return nil
}

func (tv *txMemoryView) GetSession(_ context.Context, id string) (*core.TimeSession, error) {
	return tv.parent.getSessionLocked(id)
}

func (tv *txMemoryView) FindOpenSession(_ context.Context, userID string) (*core.TimeSession, error) {
	return tv.parent.findOpenLocked(userID), nil
}

func (tv *txMemoryView) ListSessions(_ context.Context, f core.SessionFilter) ([]core.TimeSession, error) {
	return tv.parent.listSessionsLocked(f), nil
}

func (tv *txMemoryView) SaveLeave(_ context.Context, l core.LeaveRequest) error {
	tv.parent.leaves[l.ID] = l
	return nil
}

func (tv *txMemoryView) GetLeave(_ context.Context, id string) (*core.LeaveRequest, error) {
	return tv.parent.getLeaveLocked(id)
}

func (tv *txMemoryView) ListLeaves(_ context.Context, f core.LeaveFilter) ([]core.LeaveRequest, error) {
	return tv.parent.listLeavesLocked(f), nil
}

// WithTx on a view joins the enclosing transaction.
func (tv *txMemoryView) WithTx(ctx context.Context, fn func(core.Store) error) error {
	return fn(tv)
}
