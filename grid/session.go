package grid

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/types"
	"go.uber.org/atomic"
)

// DefaultSessionIdleTimeout is how long a grid session is kept without requests
const DefaultSessionIdleTimeout = 30 * time.Minute

// Store is what a grid session needs from the backing collection
type Store interface {
	RowLister
	RowPatcher
}

// Session is the server side state of one grid: the snapshot it pages through, the rows it
// has received and the coordinator of its edits
type Session struct {
	ID          string
	Datasource  *Datasource
	RowModel    *RowModel
	Coordinator *EditCoordinator

	lastUsed atomic.Int64
}

// Rows pages through the snapshot, successful windows are recorded in the row model
func (s *Session) Rows(ctx context.Context, request types.WindowRequest) WindowResult {
	result := s.Datasource.GetRows(ctx, request)
	if success, ok := result.(WindowSuccess); ok {
		s.RowModel.Load(success.RowData)
	}
	return result
}

// SessionManager holds the open grid sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    Store
	delay    time.Duration
	logger   log.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewSessionManager(store Store, delay time.Duration, logger log.Logger, m *metrics.Metrics) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		store:    store,
		delay:    delay,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Open loads a snapshot of the store and creates a session around it
func (m *SessionManager) Open(ctx context.Context) (*Session, error) {
	snapshot, err := LoadSnapshot(ctx, m.store)
	if err != nil {
		m.logger.Error("error loading grid data", "error", err)
		return nil, err
	}

	id := uuid.New().String()
	logger := m.logger.With("session", id)
	rowModel := NewRowModel()
	session := &Session{
		ID:          id,
		Datasource:  NewDatasource(snapshot, m.delay, logger, m.metrics),
		RowModel:    rowModel,
		Coordinator: NewEditCoordinator(m.store, rowModel, logger, m.metrics),
	}
	session.lastUsed.Store(m.now().UnixNano())

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	m.metrics.SessionOpened()
	logger.Debug("grid session opened", "rows", snapshot.Len())
	return session, nil
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, e.NewNotFoundError("grid session not found")
	}
	session.lastUsed.Store(m.now().UnixNano())
	return session, nil
}

// Close discards a session, a reload opens a new one
func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return e.NewNotFoundError("grid session not found")
	}
	m.metrics.SessionClosed()
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle discards the sessions that were not used for longer than idle
func (m *SessionManager) ExpireIdle(idle time.Duration) int {
	deadline := m.now().Add(-idle).UnixNano()

	m.mu.Lock()
	expired := make([]string, 0)
	for id, session := range m.sessions {
		if session.lastUsed.Load() < deadline {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.metrics.SessionClosed()
		m.logger.Debug("grid session expired", "session", id)
	}
	return len(expired)
}

// StartExpiry expires idle sessions in the background until ctx is done
func (m *SessionManager) StartExpiry(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(idle / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.ExpireIdle(idle)
			}
		}
	}()
}
