package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolportal/internal/app/assembler"
	"github.com/yigit/schoolportal/internal/app/auth"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// NotificationFeed holds the signed-in account's notification list and the
// per-item expanded state.
type NotificationFeed struct {
	store   repositories.SessionStore
	backend NotificationBackend
	now     func() time.Time
	logger  zerolog.Logger
}

// NewNotificationFeed creates a new NotificationFeed
func NewNotificationFeed(store repositories.SessionStore, backend NotificationBackend, logger zerolog.Logger) *NotificationFeed {
	return &NotificationFeed{
		store:   store,
		backend: backend,
		now:     time.Now,
		logger:  logger.With().Str("service", "notifications").Logger(),
	}
}

// Load fetches the notifications and replaces the stored feed. Every item
// starts collapsed.
func (f *NotificationFeed) Load(ctx context.Context, session *models.Session) (*models.FeedState, error) {
	items, err := f.backend.MyNotifications(ctx, authOf(session))
	if err != nil {
		return nil, err
	}

	feed := &models.FeedState{
		Items:         items,
		Expanded:      make(map[int64]bool),
		ReadRequested: make(map[int64]bool),
		LoadedAt:      f.now(),
	}
	if _, err := f.store.Update(ctx, session.ID, func(sess *models.Session) error {
		sess.Data.Feed = feed
		return nil
	}); err != nil {
		return nil, err
	}
	return feed, nil
}

// Feed returns the stored feed, loading it first if this session has none.
func (f *NotificationFeed) Feed(ctx context.Context, session *models.Session) (*models.FeedState, error) {
	current, err := f.store.Get(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if current.Data.Feed != nil {
		return current.Data.Feed, nil
	}
	return f.Load(ctx, session)
}

// Toggle flips the expanded flag of one item. Expanding an unread item for
// the first time sends one mark-read request; the item only becomes read
// when that request succeeds. A failed request is logged and not retried
// for this feed.
func (f *NotificationFeed) Toggle(ctx context.Context, session *models.Session, id int64) (*models.FeedState, error) {
	if _, err := f.Feed(ctx, session); err != nil {
		return nil, err
	}

	var markRead bool
	updated, err := f.store.Update(ctx, session.ID, func(sess *models.Session) error {
		feed := sess.Data.Feed
		i := feed.Find(id)
		if i < 0 {
			return apperrors.NewResourceNotFoundError("Notification not found.")
		}
		ensureFeedMaps(feed)

		expanded := !feed.Expanded[id]
		feed.Expanded[id] = expanded
		if expanded && !feed.Items[i].IsRead && !feed.ReadRequested[id] {
			feed.ReadRequested[id] = true
			markRead = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !markRead {
		return updated.Data.Feed, nil
	}

	if err := f.backend.MarkNotificationRead(ctx, authOf(session), id); err != nil {
		f.logger.Warn().Err(err).Int64("notificationID", id).Msg("Failed to mark notification as read")
		return updated.Data.Feed, nil
	}

	updated, err = f.store.Update(ctx, session.ID, func(sess *models.Session) error {
		if feed := sess.Data.Feed; feed != nil {
			if i := feed.Find(id); i >= 0 {
				feed.Items[i].IsRead = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Data.Feed, nil
}

// MarkAllRead marks every notification of the account as read.
func (f *NotificationFeed) MarkAllRead(ctx context.Context, session *models.Session) (*models.FeedState, error) {
	if err := f.backend.MarkAllRead(ctx, authOf(session)); err != nil {
		return nil, err
	}

	updated, err := f.store.Update(ctx, session.ID, func(sess *models.Session) error {
		if sess.Data.Feed == nil {
			return nil
		}
		for i := range sess.Data.Feed.Items {
			sess.Data.Feed.Items[i].IsRead = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated.Data.Feed == nil {
		return f.Load(ctx, session)
	}
	return updated.Data.Feed, nil
}

// UnreadCount asks the backend for the number of unread notifications.
func (f *NotificationFeed) UnreadCount(ctx context.Context, session *models.Session) (int, error) {
	return f.backend.UnreadCount(ctx, authOf(session))
}

// SendReport sends a report notification to a student. Student accounts
// and incomplete forms fail before any request is made.
func (f *NotificationFeed) SendReport(ctx context.Context, session *models.Session, form models.FormState) (*models.Notification, error) {
	if err := auth.ValidateReportSender(session); err != nil {
		return nil, err
	}
	req, err := assembler.Report(form)
	if err != nil {
		return nil, err
	}

	sent, err := f.backend.SendReport(ctx, authOf(session), req)
	if err != nil {
		return nil, err
	}
	f.logger.Info().Str("studentID", req.StudentID).Str("sender", session.Username).Msg("Report sent")
	return sent, nil
}

// ensureFeedMaps allocates maps that JSON decoding may have left nil.
func ensureFeedMaps(feed *models.FeedState) {
	if feed.Expanded == nil {
		feed.Expanded = make(map[int64]bool)
	}
	if feed.ReadRequested == nil {
		feed.ReadRequested = make(map[int64]bool)
	}
}
