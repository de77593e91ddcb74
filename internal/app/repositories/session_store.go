package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yigit/schoolportal/internal/app/models"
)

// SessionStore persists portal sessions. Implementations must return
// apperrors.ErrSessionNotFound for unknown ids and apperrors.ErrSessionExpired
// for sessions past their expiry.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	// Update loads the session, applies fn and stores the result. Concurrent
	// updates of the same session are serialised.
	Update(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// cloneSession returns a copy that shares no maps or slices with s.
func cloneSession(s *models.Session) (*models.Session, error) {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("encoding session data: %w", err)
	}
	out := *s
	out.Data = models.SessionData{}
	if err := json.Unmarshal(data, &out.Data); err != nil {
		return nil, fmt.Errorf("decoding session data: %w", err)
	}
	return &out, nil
}
