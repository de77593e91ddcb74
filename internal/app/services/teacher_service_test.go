package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/client"
)

func TestTeacherSaveDropsIncompleteAssignments(t *testing.T) {
	ctx := context.Background()
	var sent *models.TeacherPayload
	backend := &mockBackend{
		SaveEntityFunc: func(ctx context.Context, auth client.Auth, coll client.Collection, payload interface{}, lc models.Lifecycle) (*models.SavedEntity, error) {
			assert.Equal(t, client.Teachers, coll)
			assert.Equal(t, models.Draft, lc.State())
			sent = payload.(*models.TeacherPayload)
			return &models.SavedEntity{ID: "7", Document: models.Document{"id": json.Number("7"), "name": "Meera"}}, nil
		},
	}
	store := repositories.NewMemorySessionStore()
	svc := NewTeacherService(store, backend, zerolog.Nop())
	session := newSession(t, store, models.RoleAdmin)

	draft, err := svc.NewDraft(ctx, session)
	require.NoError(t, err)
	first := draft.Assignments[0].ID

	_, err = svc.UpdateFields(ctx, session, draft.ID, map[string]string{"name": "Meera"})
	require.NoError(t, err)
	for field, value := range map[string]string{"class": "LKG", "subject": "Speech", "startTime": "09:00", "endTime": "10:00"} {
		_, err = svc.UpdateAssignment(ctx, session, draft.ID, first, field, value)
		require.NoError(t, err)
	}
	_, err = svc.ToggleDay(ctx, session, draft.ID, first, "Monday")
	require.NoError(t, err)

	draft, err = svc.AddAssignment(ctx, session, draft.ID)
	require.NoError(t, err)
	second := draft.Assignments[1].ID
	_, err = svc.UpdateAssignment(ctx, session, draft.ID, second, "class", "UKG")
	require.NoError(t, err)

	draft, err = svc.AddAssignment(ctx, session, draft.ID)
	require.NoError(t, err)

	result, err := svc.Save(ctx, session, draft.ID)
	require.NoError(t, err)

	require.NotNil(t, sent)
	require.Len(t, sent.ClassAssignments, 1)
	assert.Equal(t, []string{"Monday"}, sent.ClassAssignments[0].Days)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, 2, result.Dropped[0].Seq)
	assert.Equal(t, []string{"subject", "days", "start time", "end time"}, result.Dropped[0].Missing)
	assert.Equal(t, models.PersistedLifecycle("7"), result.Draft.Teacher)
}

func TestTeacherDays(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemorySessionStore()
	svc := NewTeacherService(store, &mockBackend{}, zerolog.Nop())
	session := newSession(t, store, models.RoleAdmin)

	draft, err := svc.NewDraft(ctx, session)
	require.NoError(t, err)
	row := draft.Assignments[0].ID

	draft, err = svc.SetDays(ctx, session, draft.ID, row, []string{"Friday", "Sunday", "Monday"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Friday"}, draft.Assignments[0].Days)

	draft, err = svc.ToggleDay(ctx, session, draft.ID, row, "Monday")
	require.NoError(t, err)
	assert.Equal(t, []string{"Friday"}, draft.Assignments[0].Days)

	_, err = svc.ToggleDay(ctx, session, draft.ID, row, "Sunday")
	assert.Error(t, err)

	_, err = svc.RemoveAssignment(ctx, session, draft.ID, row)
	assert.Error(t, err)
}

func TestTeacherSaveNeedsName(t *testing.T) {
	ctx := context.Background()
	backend := &mockBackend{}
	store := repositories.NewMemorySessionStore()
	svc := NewTeacherService(store, backend, zerolog.Nop())
	session := newSession(t, store, models.RoleAdmin)

	draft, err := svc.NewDraft(ctx, session)
	require.NoError(t, err)

	_, err = svc.Save(ctx, session, draft.ID)
	assert.Error(t, err)
	assert.Zero(t, calls(&backend.SaveEntityCalls))
}

func TestTeacherNewDraftKeepsRecentDrafts(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemorySessionStore()
	svc := NewTeacherService(store, &mockBackend{}, zerolog.Nop())
	session := newSession(t, store, models.RoleAdmin)

	var ids []string
	for i := 0; i < 2*models.MaxDrafts; i++ {
		draft, err := svc.NewDraft(ctx, session)
		require.NoError(t, err)
		ids = append(ids, draft.ID)
	}

	current, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, current.Data.TeacherDrafts, models.MaxDrafts)
	assert.Contains(t, current.Data.TeacherDrafts, ids[len(ids)-1])

	require.NoError(t, svc.Discard(ctx, session, ids[len(ids)-1]))
	_, err = svc.Draft(ctx, session, ids[len(ids)-1])
	assert.Error(t, err)
}
