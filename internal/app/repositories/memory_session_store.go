package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// MemorySessionStore keeps sessions in process memory. Callers always get
// copies, so a session is only changed through Update.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Create(ctx context.Context, session *models.Session) error {
	stored, err := cloneSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return apperrors.NewBadRequestError("session already exists")
	}
	s.sessions[session.ID] = stored
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return cloneSession(stored)
}

func (s *MemorySessionStore) Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	working, err := cloneSession(stored)
	if err != nil {
		return nil, err
	}
	if err := fn(working); err != nil {
		return nil, err
	}

	next, err := cloneSession(working)
	if err != nil {
		return nil, err
	}
	s.sessions[id] = next
	return working, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// lookup must be called with mu held.
func (s *MemorySessionStore) lookup(id string) (*models.Session, error) {
	stored, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	if stored.Expired(s.now()) {
		return nil, apperrors.ErrSessionExpired
	}
	return stored, nil
}
