package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          string
}

// fakeBackend records every request and answers with the configured handler.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
	})
	f.mu.Unlock()
	r.Body = io.NopCloser(bytes.NewReader(body))
	f.respond(w, r)
}

func (f *fakeBackend) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestClient(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{respond: respond}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil, 5*time.Second, zerolog.Nop()), fb
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestSaveEntityCreateThenUpdate(t *testing.T) {
	c, fb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, http.StatusCreated, `{"id":42,"name":"Asha"}`)
		case http.MethodPut:
			writeJSON(w, http.StatusOK, `{"id":42,"name":"Asha K"}`)
		}
	})
	ctx := context.Background()
	auth := Bearer("tok-1")

	created, err := c.SaveEntity(ctx, auth, Students, map[string]string{"name": "Asha"}, models.DraftLifecycle())
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)

	updated, err := c.SaveEntity(ctx, auth, Students, map[string]string{"name": "Asha K"}, created.Lifecycle())
	require.NoError(t, err)
	assert.Equal(t, "42", updated.ID)
	assert.Equal(t, "Asha K", updated.Document["name"])

	calls := fb.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/api/v1/students/", calls[0].Path)
	assert.Equal(t, "Bearer tok-1", calls[0].Authorization)
	assert.Equal(t, "application/json", calls[0].ContentType)
	assert.JSONEq(t, `{"name":"Asha"}`, calls[0].Body)

	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.Equal(t, "/api/v1/students/42", calls[1].Path)
}

func TestSaveEntityUpdateKeepsIDWhenResponseOmitsIt(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"name":"T"}`)
	})

	saved, err := c.SaveEntity(context.Background(), Auth{}, Teachers, map[string]string{}, models.PersistedLifecycle("7"))
	require.NoError(t, err)
	assert.Equal(t, "7", saved.ID)
}

func TestSaveEntityCreateWithoutIDFails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"name":"T"}`)
	})

	_, err := c.SaveEntity(context.Background(), Auth{}, Teachers, map[string]string{}, models.DraftLifecycle())
	assert.Error(t, err)
}

func TestSaveEntityRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","age"],"msg":"invalid"}]}`)
	})

	_, err := c.SaveEntity(context.Background(), Auth{}, Students, map[string]string{}, models.DraftLifecycle())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, ProblemFieldErrors, apiErr.Problem.Kind)
	assert.True(t, errors.Is(err, apperrors.ErrBackendRejected))
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	assert.Equal(t, "body.age: invalid", apperrors.UserMessage(err))
}

func TestSaveEntityFallbackMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Internal Server Error")
	})

	_, err := c.SaveEntity(context.Background(), Auth{}, Students, map[string]string{}, models.DraftLifecycle())
	require.Error(t, err)
	assert.Equal(t, "Failed to save student", apperrors.UserMessage(err))
}

func TestReplaceCaseRecord(t *testing.T) {
	c, fb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":42,"case_record":{"medical":{"drugs":[{"sl_no":1,"name":"Drug A","dose":"5mg"}]}}}`)
	})

	payload := &models.CaseRecordPayload{
		Medical: &models.Medical{Drugs: []models.DrugEntry{{SlNo: 1, Name: "Drug A", Dose: "5mg"}}},
	}
	saved, err := c.ReplaceCaseRecord(context.Background(), Bearer("t"), "42", payload)
	require.NoError(t, err)
	assert.Equal(t, "42", saved.ID)

	calls := fb.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "/api/v1/students/42/case-record", calls[0].Path)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &sent))
	assert.Contains(t, sent, "medical")
	assert.NotContains(t, sent, "family")
}

func TestReplaceCaseRecordStringDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"detail":"Student not found"}`)
	})

	_, err := c.ReplaceCaseRecord(context.Background(), Auth{}, "9", &models.CaseRecordPayload{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
	assert.Equal(t, "Student not found", apperrors.UserMessage(err))
}

func TestLogin(t *testing.T) {
	c, fb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") == "asha" && r.PostForm.Get("password") == "pw with space " {
			writeJSON(w, http.StatusOK, `{"access_token":"abc","token_type":"bearer"}`)
			return
		}
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
	})

	token, err := c.Login(context.Background(), "asha", "pw with space ")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)

	_, err = c.Login(context.Background(), "asha", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
	assert.Equal(t, "Incorrect username or password", apperrors.UserMessage(err))

	calls := fb.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "/api/v1/auth/login", calls[0].Path)
	assert.Equal(t, "application/x-www-form-urlencoded", calls[0].ContentType)
	assert.Empty(t, calls[0].Authorization)
}

func TestBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil, time.Second, zerolog.Nop())
	_, err := c.GetMyStudent(context.Background(), Bearer("t"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBackendUnavailable))
	assert.Equal(t, apperrors.MsgBackendUnavailable, apperrors.UserMessage(err))
}

func TestNotifications(t *testing.T) {
	c, fb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/notifications/my-notifications":
			writeJSON(w, http.StatusOK, `[{"id":1,"title":"Weekly report","message":"Good week","therapy_type":"Speech","is_read":false,"created_at":"2024-05-01T10:00:00"}]`)
		case "/api/v1/notifications/unread-count":
			writeJSON(w, http.StatusOK, `{"unread_count":3}`)
		case "/api/v1/notifications/mark-read", "/api/v1/notifications/mark-all-read":
			writeJSON(w, http.StatusOK, `{"message":"ok"}`)
		case "/api/v1/notifications/send-report":
			writeJSON(w, http.StatusOK, `{"id":9,"title":"T","message":"M","is_read":false}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()
	auth := Bearer("tok")

	items, err := c.MyNotifications(ctx, auth)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.True(t, items[0].IsTherapyReport())

	count, err := c.UnreadCount(ctx, auth)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, c.MarkNotificationRead(ctx, auth, 1))
	require.NoError(t, c.MarkAllRead(ctx, auth))

	sent, err := c.SendReport(ctx, auth, &models.ReportRequest{StudentID: "STU2025001", Title: "T", Message: "M"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), sent.ID)

	calls := fb.calls()
	require.Len(t, calls, 5)
	assert.JSONEq(t, `{"notification_id":1}`, calls[2].Body)
	for _, call := range calls {
		assert.Equal(t, "Bearer tok", call.Authorization)
	}
}
