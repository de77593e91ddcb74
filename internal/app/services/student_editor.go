package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolportal/internal/app/assembler"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/client"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
	"github.com/yigit/schoolportal/internal/pkg/formbind"
)

// RowTable names a repeatable table of the case record form.
type RowTable string

const (
	TableHousehold RowTable = "household"
	TableDrugs     RowTable = "drugs"
)

// studentFields are the form fields that the saved student record can
// refill after a save.
var studentFields = formbind.Fields(&models.StudentPayload{})

// StudentEditorBackend is what StudentEditor calls upstream.
type StudentEditorBackend interface {
	StudentBackend
	GetStudent(ctx context.Context, auth client.Auth, id string) (models.Document, error)
}

// StudentEditor keeps student editing drafts in the portal session and
// submits them.
type StudentEditor struct {
	store   repositories.SessionStore
	backend StudentEditorBackend
	now     func() time.Time
	logger  zerolog.Logger
}

// NewStudentEditor creates a new StudentEditor
func NewStudentEditor(store repositories.SessionStore, backend StudentEditorBackend, logger zerolog.Logger) *StudentEditor {
	return &StudentEditor{
		store:   store,
		backend: backend,
		now:     time.Now,
		logger:  logger.With().Str("service", "students").Logger(),
	}
}

// NewDraft opens an empty student form in Draft state.
func (s *StudentEditor) NewDraft(ctx context.Context, session *models.Session) (*models.StudentDraft, error) {
	draft := models.NewStudentDraft(uuid.NewString(), s.now())
	if err := s.put(ctx, session, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// OpenStudent fetches a saved student and opens it for editing in
// Persisted state, so the next save updates it.
func (s *StudentEditor) OpenStudent(ctx context.Context, session *models.Session, studentID string) (*models.StudentDraft, error) {
	doc, err := s.backend.GetStudent(ctx, authOf(session), studentID)
	if err != nil {
		return nil, err
	}

	draft := models.NewStudentDraft(uuid.NewString(), s.now())
	draft.Form = draft.Form.Merge(doc.FormValues(studentFields))
	draft.Student = models.PersistedLifecycle(studentID)
	draft.Saved = doc

	if err := s.put(ctx, session, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// put stores a new draft, making room by dropping the session's least
// recently edited student drafts.
func (s *StudentEditor) put(ctx context.Context, session *models.Session, draft *models.StudentDraft) error {
	_, err := s.store.Update(ctx, session.ID, func(sess *models.Session) error {
		if sess.Data.StudentDrafts == nil {
			sess.Data.StudentDrafts = make(map[string]*models.StudentDraft)
		}
		if dropped := models.TrimDrafts(sess.Data.StudentDrafts, models.MaxDrafts-1); len(dropped) > 0 {
			s.logger.Debug().Strs("draftIDs", dropped).Str("sessionID", sess.ID).Msg("Dropped stale student drafts")
		}
		sess.Data.StudentDrafts[draft.ID] = draft
		return nil
	})
	return err
}

// Draft returns the current state of one draft.
func (s *StudentEditor) Draft(ctx context.Context, session *models.Session, draftID string) (*models.StudentDraft, error) {
	current, err := s.store.Get(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	draft, ok := current.Data.StudentDrafts[draftID]
	if !ok {
		return nil, draftNotFound("student", draftID)
	}
	return draft, nil
}

// Discard drops a draft. Unknown drafts are ignored.
func (s *StudentEditor) Discard(ctx context.Context, session *models.Session, draftID string) error {
	_, err := s.store.Update(ctx, session.ID, func(sess *models.Session) error {
		delete(sess.Data.StudentDrafts, draftID)
		return nil
	})
	return err
}

// UpdateFields applies edited flat fields. Only the named fields change.
func (s *StudentEditor) UpdateFields(ctx context.Context, session *models.Session, draftID string, values map[string]string) (*models.StudentDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.StudentDraft) error {
		d.Form = d.Form.Merge(values)
		return nil
	})
}

// AddRow appends a blank row to table.
func (s *StudentEditor) AddRow(ctx context.Context, session *models.Session, draftID string, table RowTable) (*models.StudentDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.StudentDraft) error {
		switch table {
		case TableHousehold:
			d.Household = d.Household.Append()
		case TableDrugs:
			d.Drugs = d.Drugs.Append()
		default:
			return unknownTable(table)
		}
		return nil
	})
}

// UpdateRow sets one field of the row identified by rowID.
func (s *StudentEditor) UpdateRow(ctx context.Context, session *models.Session, draftID string, table RowTable, rowID, field, value string) (*models.StudentDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.StudentDraft) error {
		var err error
		switch table {
		case TableHousehold:
			d.Household, err = d.Household.Update(rowID, field, value)
		case TableDrugs:
			d.Drugs, err = d.Drugs.Update(rowID, field, value)
		default:
			err = unknownTable(table)
		}
		return err
	})
}

// RemoveRow deletes the row identified by rowID. The last row of a table
// stays.
func (s *StudentEditor) RemoveRow(ctx context.Context, session *models.Session, draftID string, table RowTable, rowID string) (*models.StudentDraft, error) {
	return s.mutate(ctx, session, draftID, func(d *models.StudentDraft) error {
		var err error
		switch table {
		case TableHousehold:
			d.Household, err = d.Household.Remove(rowID)
		case TableDrugs:
			d.Drugs, err = d.Drugs.Remove(rowID)
		default:
			err = unknownTable(table)
		}
		return err
	})
}

// SaveStudent creates the student when the draft is new and updates it
// otherwise. On success the draft becomes Persisted(id) and the form is
// refreshed from the saved record.
func (s *StudentEditor) SaveStudent(ctx context.Context, session *models.Session, draftID string) (*models.StudentDraft, error) {
	draft, err := s.Draft(ctx, session, draftID)
	if err != nil {
		return nil, err
	}

	payload, err := assembler.Student(draft.Form)
	if err != nil {
		return nil, err
	}

	saved, err := s.backend.SaveEntity(ctx, authOf(session), client.Students, payload, draft.Student)
	if err != nil {
		s.logger.Warn().Err(err).Str("draftID", draftID).Stringer("lifecycle", draft.Student).Msg("Student save failed")
		return nil, err
	}

	s.logger.Info().Str("studentID", saved.ID).Stringer("was", draft.Student).Msg("Student saved")
	return s.mutate(ctx, session, draftID, func(d *models.StudentDraft) error {
		d.Student = saved.Lifecycle()
		d.Saved = saved.Document
		d.Form = d.Form.Merge(saved.Document.FormValues(studentFields))
		return nil
	})
}

// SaveCaseRecord replaces the case record of a saved student. A draft that
// was never saved fails without contacting the backend.
func (s *StudentEditor) SaveCaseRecord(ctx context.Context, session *models.Session, draftID string) (*models.StudentDraft, error) {
	draft, err := s.Draft(ctx, session, draftID)
	if err != nil {
		return nil, err
	}

	studentID, ok := draft.Student.ID()
	if !ok {
		return nil, apperrors.NewPreconditionError(apperrors.ErrStudentNotSaved, apperrors.MsgStudentNotSaved)
	}

	payload, err := assembler.CaseRecord(draft.Form, draft.Household, draft.Drugs)
	if err != nil {
		return nil, err
	}

	saved, err := s.backend.ReplaceCaseRecord(ctx, authOf(session), studentID, payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("studentID", studentID).Msg("Case record save failed")
		return nil, err
	}

	s.logger.Info().Str("studentID", studentID).Msg("Case record saved")
	return s.mutate(ctx, session, draftID, func(d *models.StudentDraft) error {
		if saved.Document != nil {
			d.Saved = saved.Document
		}
		return nil
	})
}

func (s *StudentEditor) mutate(ctx context.Context, session *models.Session, draftID string, fn func(*models.StudentDraft) error) (*models.StudentDraft, error) {
	var out *models.StudentDraft
	_, err := s.store.Update(ctx, session.ID, func(sess *models.Session) error {
		d, ok := sess.Data.StudentDrafts[draftID]
		if !ok {
			return draftNotFound("student", draftID)
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

func unknownTable(table RowTable) error {
	return apperrors.NewBadRequestError(fmt.Sprintf("unknown table %q", table))
}
