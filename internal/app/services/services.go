package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/client"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/auth"
)

// EntitySaver creates or updates top-level backend entities.
type EntitySaver interface {
	SaveEntity(ctx context.Context, auth client.Auth, coll client.Collection, payload interface{}, lc models.Lifecycle) (*models.SavedEntity, error)
}

// StudentBackend is what the student editor needs from the backend.
type StudentBackend interface {
	EntitySaver
	ReplaceCaseRecord(ctx context.Context, auth client.Auth, studentID string, payload *models.CaseRecordPayload) (*models.SavedEntity, error)
}

// RecordBackend fetches saved student records.
type RecordBackend interface {
	GetMyStudent(ctx context.Context, auth client.Auth) (models.Document, error)
	GetStudent(ctx context.Context, auth client.Auth, id string) (models.Document, error)
}

// AuthBackend exchanges credentials for a bearer token.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (*models.TokenResponse, error)
}

// NotificationBackend is the notifications part of the backend API.
type NotificationBackend interface {
	MyNotifications(ctx context.Context, auth client.Auth) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, auth client.Auth, id int64) error
	MarkAllRead(ctx context.Context, auth client.Auth) error
	UnreadCount(ctx context.Context, auth client.Auth) (int, error)
	SendReport(ctx context.Context, auth client.Auth, req *models.ReportRequest) (*models.Notification, error)
}

// Backend is the full backend API; *client.Client implements it.
type Backend interface {
	StudentBackend
	RecordBackend
	AuthBackend
	NotificationBackend
}

var _ Backend = (*client.Client)(nil)

// Services holds all the service instances
type Services struct {
	Auth          *AuthService
	Students      *StudentEditor
	Teachers      *TeacherService
	Records       *RecordService
	Notifications *NotificationFeed
}

// NewServices wires every service to the same store and backend.
func NewServices(
	store repositories.SessionStore,
	backend Backend,
	jwtService *auth.JWTService,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *Services {
	return &Services{
		Auth:          NewAuthService(store, backend, jwtService, sessionTTL, logger),
		Students:      NewStudentEditor(store, backend, logger),
		Teachers:      NewTeacherService(store, backend, logger),
		Records:       NewRecordService(backend),
		Notifications: NewNotificationFeed(store, backend, logger),
	}
}

// authOf builds the per-request credentials for session.
func authOf(session *models.Session) client.Auth {
	return client.Bearer(session.Token)
}

func draftNotFound(kind, id string) error {
	return apperrors.NewCustomError(apperrors.ErrDraftNotFound, fmt.Sprintf("This %s form is no longer available. Please start again.", kind)).
		WithDetails(map[string]interface{}{"draftID": id})
}
