package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/client"
)

type mockBackend struct {
	SaveEntityFunc        func(ctx context.Context, auth client.Auth, coll client.Collection, payload interface{}, lc models.Lifecycle) (*models.SavedEntity, error)
	ReplaceCaseRecordFunc func(ctx context.Context, auth client.Auth, studentID string, payload *models.CaseRecordPayload) (*models.SavedEntity, error)
	GetMyStudentFunc      func(ctx context.Context, auth client.Auth) (models.Document, error)
	GetStudentFunc        func(ctx context.Context, auth client.Auth, id string) (models.Document, error)
	LoginFunc             func(ctx context.Context, username, password string) (*models.TokenResponse, error)
	MyNotificationsFunc   func(ctx context.Context, auth client.Auth) ([]models.Notification, error)
	MarkReadFunc          func(ctx context.Context, auth client.Auth, id int64) error
	MarkAllReadFunc       func(ctx context.Context, auth client.Auth) error
	UnreadCountFunc       func(ctx context.Context, auth client.Auth) (int, error)
	SendReportFunc        func(ctx context.Context, auth client.Auth, req *models.ReportRequest) (*models.Notification, error)

	SaveEntityCalls        int32
	ReplaceCaseRecordCalls int32
	LoginCalls             int32
	MarkReadCalls          int32
	SendReportCalls        int32
}

var _ Backend = (*mockBackend)(nil)

func (m *mockBackend) SaveEntity(ctx context.Context, auth client.Auth, coll client.Collection, payload interface{}, lc models.Lifecycle) (*models.SavedEntity, error) {
	atomic.AddInt32(&m.SaveEntityCalls, 1)
	if m.SaveEntityFunc != nil {
		return m.SaveEntityFunc(ctx, auth, coll, payload, lc)
	}
	return nil, nil
}

func (m *mockBackend) ReplaceCaseRecord(ctx context.Context, auth client.Auth, studentID string, payload *models.CaseRecordPayload) (*models.SavedEntity, error) {
	atomic.AddInt32(&m.ReplaceCaseRecordCalls, 1)
	if m.ReplaceCaseRecordFunc != nil {
		return m.ReplaceCaseRecordFunc(ctx, auth, studentID, payload)
	}
	return &models.SavedEntity{ID: studentID}, nil
}

func (m *mockBackend) GetMyStudent(ctx context.Context, auth client.Auth) (models.Document, error) {
	if m.GetMyStudentFunc != nil {
		return m.GetMyStudentFunc(ctx, auth)
	}
	return models.Document{}, nil
}

func (m *mockBackend) GetStudent(ctx context.Context, auth client.Auth, id string) (models.Document, error) {
	if m.GetStudentFunc != nil {
		return m.GetStudentFunc(ctx, auth, id)
	}
	return models.Document{}, nil
}

func (m *mockBackend) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	atomic.AddInt32(&m.LoginCalls, 1)
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return nil, nil
}

func (m *mockBackend) MyNotifications(ctx context.Context, auth client.Auth) ([]models.Notification, error) {
	if m.MyNotificationsFunc != nil {
		return m.MyNotificationsFunc(ctx, auth)
	}
	return []models.Notification{}, nil
}

func (m *mockBackend) MarkNotificationRead(ctx context.Context, auth client.Auth, id int64) error {
	atomic.AddInt32(&m.MarkReadCalls, 1)
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, auth, id)
	}
	return nil
}

func (m *mockBackend) MarkAllRead(ctx context.Context, auth client.Auth) error {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, auth)
	}
	return nil
}

func (m *mockBackend) UnreadCount(ctx context.Context, auth client.Auth) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, auth)
	}
	return 0, nil
}

func (m *mockBackend) SendReport(ctx context.Context, auth client.Auth, req *models.ReportRequest) (*models.Notification, error) {
	atomic.AddInt32(&m.SendReportCalls, 1)
	if m.SendReportFunc != nil {
		return m.SendReportFunc(ctx, auth, req)
	}
	return &models.Notification{StudentID: req.StudentID, Title: req.Title, Message: req.Message}, nil
}

func calls(n *int32) int32 {
	return atomic.LoadInt32(n)
}

// newSession stores a live session holding the bearer token "tok".
func newSession(t *testing.T, store repositories.SessionStore, role string) *models.Session {
	t.Helper()
	session := &models.Session{
		ID:        "sess-" + role,
		Token:     "tok",
		Username:  "user-" + role,
		Role:      role,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Create(context.Background(), session))
	return session
}
