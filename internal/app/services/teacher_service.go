package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolportal/internal/app/assembler"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/client"
	"github.com/yigit/schoolportal/internal/pkg/formbind"
)

var teacherFields = formbind.Fields(&models.TeacherPayload{})

// TeacherService keeps teacher creation drafts and submits them.
type TeacherService struct {
	store   repositories.SessionStore
	backend EntitySaver
	now     func() time.Time
	logger  zerolog.Logger
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(store repositories.SessionStore, backend EntitySaver, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		store:   store,
		backend: backend,
		now:     time.Now,
		logger:  logger.With().Str("service", "teachers").Logger(),
	}
}

// TeacherSaveResult is the draft after a save plus the class assignments
// that were not sent because they were incomplete.
type TeacherSaveResult struct {
	Draft   *models.TeacherDraft
	Dropped []assembler.DroppedAssignment
}

// NewDraft opens an empty teacher form.
func (s *TeacherService) NewDraft(ctx context.Context, session *models.Session) (*models.TeacherDraft, error) {
	draft := models.NewTeacherDraft(uuid.NewString(), s.now())
	_, err := s.store.Update(ctx, session.ID, func(sess *models.Session) error {
		if sess.Data.TeacherDrafts == nil {
			sess.Data.TeacherDrafts = make(map[string]*models.TeacherDraft)
		}
		if dropped := models.TrimDrafts(sess.Data.TeacherDrafts, models.MaxDrafts-1); len(dropped) > 0 {
			s.logger.Debug().Strs("draftIDs", dropped).Str("sessionID", sess.ID).Msg("Dropped stale teacher drafts")
		}
		sess.Data.TeacherDrafts[draft.ID] = draft
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *TeacherService) Draft(ctx context.Context, session *models.Session, draftID string) (*models.TeacherDraft, error) {
	current, err := s.store.Get(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	draft, ok := current.Data.TeacherDrafts[draftID]
	if !ok {
		return nil, draftNotFound("teacher", draftID)
	}
	return draft, nil
}

func (s *TeacherService) Discard(ctx context.Context, session *models.Session, draftID string) error {
	_, err := s.store.Update(ctx, session.ID, func(sess *models.Session) error {
		delete(sess.Data.TeacherDrafts, draftID)
		return nil
	})
	return err
}

func (s *TeacherService) UpdateFields(ctx context.Context, session *models.Session, draftID string, values map[string]string) (*models.TeacherDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.TeacherDraft) error {
		d.Form = d.Form.Merge(values)
		return nil
	})
}

func (s *TeacherService) AddAssignment(ctx context.Context, session *models.Session, draftID string) (*models.TeacherDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.TeacherDraft) error {
		d.Assignments = d.Assignments.Append()
		return nil
	})
}

func (s *TeacherService) UpdateAssignment(ctx context.Context, session *models.Session, draftID, rowID, field, value string) (*models.TeacherDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.TeacherDraft) error {
		var err error
		d.Assignments, err = d.Assignments.Update(rowID, field, value)
		return err
	})
}

func (s *TeacherService) RemoveAssignment(ctx context.Context, session *models.Session, draftID, rowID string) (*models.TeacherDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.TeacherDraft) error {
		var err error
		d.Assignments, err = d.Assignments.Remove(rowID)
		return err
	})
}

// ToggleDay flips one weekday on an assignment.
func (s *TeacherService) ToggleDay(ctx context.Context, session *models.Session, draftID, rowID, day string) (*models.TeacherDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.TeacherDraft) error {
		var err error
		d.Assignments, err = models.ToggleDay(d.Assignments, rowID, day)
		return err
	})
}

// SetDays replaces the weekdays of an assignment.
func (s *TeacherService) SetDays(ctx context.Context, session *models.Session, draftID, rowID string, days []string) (*models.TeacherDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.TeacherDraft) error {
		var err error
		d.Assignments, err = models.SetDays(d.Assignments, rowID, days)
		return err
	})
}

// Save creates or updates the teacher. Incomplete assignments are left out
// of the request and reported back.
func (s *TeacherService) Save(ctx context.Context, session *models.Session, draftID string) (*TeacherSaveResult, error) {
	draft, err := s.Draft(ctx, session, draftID)
	if err != nil {
		return nil, err
	}

	payload, dropped, err := assembler.Teacher(draft.Form, draft.Assignments)
	if err != nil {
		return nil, err
	}
	for _, d := range dropped {
		s.logger.Warn().Int("seq", d.Seq).Strs("missing", d.Missing).Msg("Incomplete class assignment not sent")
	}

	saved, err := s.backend.SaveEntity(ctx, authOf(session), client.Teachers, payload, draft.Teacher)
	if err != nil {
		s.logger.Warn().Err(err).Str("draftID", draftID).Msg("Teacher save failed")
		return nil, err
	}

	s.logger.Info().Str("teacherID", saved.ID).Int("assignments", len(payload.ClassAssignments)).Msg("Teacher saved")
	updated, err := s.mutate(ctx, session, draftID, func(d *models.TeacherDraft) error {
		d.Teacher = saved.Lifecycle()
		d.Saved = saved.Document
		d.Form = d.Form.Merge(saved.Document.FormValues(teacherFields))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &TeacherSaveResult{Draft: updated, Dropped: dropped}, nil
}

func (s *TeacherService) mutate(ctx context.Context, session *models.Session, draftID string, fn func(*models.TeacherDraft) error) (*models.TeacherDraft, error) {
	var out *models.TeacherDraft
	_, err := s.store.Update(ctx, session.ID, func(sess *models.Session) error {
		d, ok := sess.Data.TeacherDrafts[draftID]
		if !ok {
			return draftNotFound("teacher", draftID)
		}
		if err := fn(d); err != nil {
			return err
		}
		d.UpdatedAt = s.now()
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
