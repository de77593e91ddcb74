package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/client"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

func newEditor(backend *mockBackend) (*StudentEditor, repositories.SessionStore) {
	store := repositories.NewMemorySessionStore()
	return NewStudentEditor(store, backend, zerolog.Nop()), store
}

func TestSaveStudentCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	var seen []models.Lifecycle
	backend := &mockBackend{
		SaveEntityFunc: func(ctx context.Context, auth client.Auth, coll client.Collection, payload interface{}, lc models.Lifecycle) (*models.SavedEntity, error) {
			assert.Equal(t, "tok", auth.Token)
			assert.Equal(t, client.Students, coll)
			p := payload.(*models.StudentPayload)
			assert.Equal(t, "Asha", p.Name)
			seen = append(seen, lc)
			return &models.SavedEntity{
				ID:       "42",
				Document: models.Document{"id": json.Number("42"), "name": "Asha", "roll_no": "R-7"},
			}, nil
		},
	}
	editor, store := newEditor(backend)
	session := newSession(t, store, models.RoleTeacher)

	draft, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, models.Draft, draft.Student.State())

	_, err = editor.UpdateFields(ctx, session, draft.ID, map[string]string{"name": "Asha"})
	require.NoError(t, err)

	saved, err := editor.SaveStudent(ctx, session, draft.ID)
	require.NoError(t, err)
	id, ok := saved.Student.ID()
	require.True(t, ok)
	assert.Equal(t, "42", id)
	assert.Equal(t, "R-7", saved.Form.Get("roll_no"))

	_, err = editor.SaveStudent(ctx, session, draft.ID)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, models.Draft, seen[0].State())
	assert.Equal(t, models.PersistedLifecycle("42"), seen[1])
}

func TestSaveStudentValidationMakesNoRequest(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	editor, store := newEditor(backend)
	session := newSession(t, store, models.RoleTeacher)

	draft, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)

	_, err = editor.SaveStudent(ctx, session, draft.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Equal(t, "Name is required", apperrors.UserMessage(err))
	assert.Zero(t, calls(&backend.SaveEntityCalls))
}

func TestSaveStudentFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{
		SaveEntityFunc: func(context.Context, client.Auth, client.Collection, interface{}, models.Lifecycle) (*models.SavedEntity, error) {
			return nil, apperrors.ErrBackendUnavailable
		},
	}
	editor, store := newEditor(backend)
	session := newSession(t, store, models.RoleTeacher)

	draft, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)
	_, err = editor.UpdateFields(ctx, session, draft.ID, map[string]string{"name": "Asha"})
	require.NoError(t, err)

	_, err = editor.SaveStudent(ctx, session, draft.ID)
	assert.True(t, errors.Is(err, apperrors.ErrBackendUnavailable))

	current, err := editor.Draft(ctx, session, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Draft, current.Student.State())
	assert.Equal(t, "Asha", current.Form.Get("name"))
}

func TestSaveCaseRecordRequiresSavedStudent(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	editor, store := newEditor(backend)
	session := newSession(t, store, models.RoleTeacher)

	draft, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)

	_, err = editor.SaveCaseRecord(ctx, session, draft.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStudentNotSaved))
	assert.Equal(t, apperrors.MsgStudentNotSaved, apperrors.UserMessage(err))
	assert.Zero(t, calls(&backend.ReplaceCaseRecordCalls))
	assert.Zero(t, calls(&backend.SaveEntityCalls))
}

func TestSaveCaseRecordAfterSave(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{
		SaveEntityFunc: func(context.Context, client.Auth, client.Collection, interface{}, models.Lifecycle) (*models.SavedEntity, error) {
			return &models.SavedEntity{ID: "42", Document: models.Document{"id": json.Number("42")}}, nil
		},
		ReplaceCaseRecordFunc: func(ctx context.Context, auth client.Auth, studentID string, payload *models.CaseRecordPayload) (*models.SavedEntity, error) {
			assert.Equal(t, "42", studentID)
			require.NotNil(t, payload.Identification)
			assert.Equal(t, "B+", payload.Identification.BloodGroup)
			require.NotNil(t, payload.Medical)
			require.Len(t, payload.Medical.Drugs, 1)
			assert.Equal(t, 1, payload.Medical.Drugs[0].SlNo)
			assert.Equal(t, "Valproate", payload.Medical.Drugs[0].Name)
			assert.Nil(t, payload.Family)
			return &models.SavedEntity{ID: studentID}, nil
		},
	}
	editor, store := newEditor(backend)
	session := newSession(t, store, models.RoleTherapist)

	draft, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)
	_, err = editor.UpdateFields(ctx, session, draft.ID, map[string]string{"name": "Asha", "blood_group": "B+"})
	require.NoError(t, err)
	_, err = editor.UpdateRow(ctx, session, draft.ID, TableDrugs, draft.Drugs[0].ID, "name", "Valproate")
	require.NoError(t, err)

	_, err = editor.SaveStudent(ctx, session, draft.ID)
	require.NoError(t, err)
	_, err = editor.SaveCaseRecord(ctx, session, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls(&backend.ReplaceCaseRecordCalls))
}

func TestRowOperations(t *testing.T) {
	ctx := context.Background()
	editor, store := newEditor(&mockBackend{})
	session := newSession(t, store, models.RoleTeacher)

	draft, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)
	first := draft.Household[0].ID

	draft, err = editor.AddRow(ctx, session, draft.ID, TableHousehold)
	require.NoError(t, err)
	require.Len(t, draft.Household, 2)
	second := draft.Household[1].ID

	draft, err = editor.UpdateRow(ctx, session, draft.ID, TableHousehold, second, "name", "Ravi")
	require.NoError(t, err)
	draft, err = editor.RemoveRow(ctx, session, draft.ID, TableHousehold, first)
	require.NoError(t, err)
	require.Len(t, draft.Household, 1)
	assert.Equal(t, second, draft.Household[0].ID)
	assert.Equal(t, "Ravi", draft.Household[0].Name)

	_, err = editor.RemoveRow(ctx, session, draft.ID, TableHousehold, second)
	assert.True(t, errors.Is(err, apperrors.ErrLastRow))

	_, err = editor.AddRow(ctx, session, draft.ID, RowTable("pets"))
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))

	_, err = editor.UpdateRow(ctx, session, draft.ID, TableDrugs, "missing", "name", "x")
	assert.True(t, errors.Is(err, apperrors.ErrRowNotFound))
}

func TestDraftNotFound(t *testing.T) {
	ctx := context.Background()
	editor, store := newEditor(&mockBackend{})
	session := newSession(t, store, models.RoleTeacher)

	_, err := editor.Draft(ctx, session, "nope")
	assert.True(t, errors.Is(err, apperrors.ErrDraftNotFound))

	draft, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)
	require.NoError(t, editor.Discard(ctx, session, draft.ID))
	_, err = editor.UpdateFields(ctx, session, draft.ID, map[string]string{"name": "x"})
	assert.True(t, errors.Is(err, apperrors.ErrDraftNotFound))
}

func TestOpenStudent(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{
		GetStudentFunc: func(ctx context.Context, auth client.Auth, id string) (models.Document, error) {
			assert.Equal(t, "42", id)
			return models.Document{"id": json.Number("42"), "name": "Asha", "age": json.Number("9"), "case_record": map[string]interface{}{}}, nil
		},
	}
	editor, store := newEditor(backend)
	session := newSession(t, store, models.RoleAdmin)

	draft, err := editor.OpenStudent(ctx, session, "42")
	require.NoError(t, err)
	assert.Equal(t, models.PersistedLifecycle("42"), draft.Student)
	assert.Equal(t, "Asha", draft.Form.Get("name"))
	assert.Equal(t, "9", draft.Form.Get("age"))
	_, hasCaseRecord := draft.Form["case_record"]
	assert.False(t, hasCaseRecord)
}

func TestNewDraftKeepsRecentDrafts(t *testing.T) {
	ctx := context.Background()
	editor, store := newEditor(&mockBackend{})
	session := newSession(t, store, models.RoleTeacher)

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	editor.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, err := editor.NewDraft(ctx, session)
	require.NoError(t, err)
	var last *models.StudentDraft
	for i := 0; i < 3*models.MaxDrafts; i++ {
		last, err = editor.NewDraft(ctx, session)
		require.NoError(t, err)
		// Editing keeps the first draft among the most recent ones.
		_, err = editor.UpdateFields(ctx, session, first.ID, map[string]string{"name": "Asha"})
		require.NoError(t, err)
	}

	current, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, current.Data.StudentDrafts, models.MaxDrafts)
	assert.Contains(t, current.Data.StudentDrafts, first.ID)
	assert.Contains(t, current.Data.StudentDrafts, last.ID)
}
