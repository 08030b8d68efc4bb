package cart

import (
	"context"
	"sync"
	"time"

	"restaurant-storefront/internal/common/logger"
)

// SessionTTL - сколько живёт cookie корзины и сколько простаивает сессия до выселения.
const SessionTTL = 30 * 24 * time.Hour

// StorageFactory returns the durable storage of one browser session.
type StorageFactory func(sessionID string) Storage

// releaser is storage that lives only as long as its session.
type releaser interface {
	Release()
}

type session struct {
	store    *Store
	lastUsed time.Time
}

// Sessions hands out one Store per session id, creating it on first use.
// Stores idle for longer than the idle timeout are dropped by Sweep.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	storage  StorageFactory
	idle     time.Duration
	lg       *logger.Logger

	now func() time.Time
}

type SessionsOption func(*Sessions)

// WithIdleTimeout overrides SessionTTL as the idle limit.
func WithIdleTimeout(d time.Duration) SessionsOption {
	return func(s *Sessions) { s.idle = d }
}

func NewSessions(storage StorageFactory, lg *logger.Logger, opts ...SessionsOption) *Sessions {
	if storage == nil {
		storage = MemoryStorageFactory()
	}
	s := &Sessions{
		sessions: make(map[string]*session),
		storage:  storage,
		idle:     SessionTTL,
		lg:       lg,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// MemoryStorageFactory keeps each session's storage in process memory. The
// storage is released together with its session.
func MemoryStorageFactory() StorageFactory {
	var mu sync.Mutex
	byID := make(map[string]*MemoryStorage)
	return func(sessionID string) Storage {
		mu.Lock()
		defer mu.Unlock()
		st, ok := byID[sessionID]
		if !ok {
			st = NewMemoryStorage()
			st.release = func() {
				mu.Lock()
				defer mu.Unlock()
				if byID[sessionID] == st {
					delete(byID, sessionID)
				}
			}
			byID[sessionID] = st
		}
		return st
	}
}

func (s *Sessions) Get(ctx context.Context, sessionID string) *Store {
	if st := s.touch(sessionID); st != nil {
		return st
	}

	// Restore может ходить в базу, поэтому без глобальной блокировки.
	restored := NewStore(ctx, s.storage(sessionID), s.lg)
	items := len(restored.state.Lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastUsed = s.now()
		return sess.store
	}
	s.sessions[sessionID] = &session{store: restored, lastUsed: s.now()}
	s.lg.Debug("cart_session_opened", map[string]any{"session_id": sessionID, "items": items})
	return restored
}

func (s *Sessions) touch(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	sess.lastUsed = s.now()
	return sess.store
}

// Forget drops the in-memory store; the persisted record stays and is
// restored on the next Get.
func (s *Sessions) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports how many sessions are held in memory.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the idle timeout and returns
// how many were dropped. Session-scoped memory storage goes with them.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	var expired []*Store
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			expired = append(expired, sess.store)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, st := range expired {
		if r, ok := st.storage.(releaser); ok {
			r.Release()
		}
	}
	if len(expired) > 0 {
		s.lg.Debug("cart_sessions_swept", map[string]any{"expired": len(expired)})
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
