package web

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/view"
)

func execute(t *testing.T, r *Renderer, page string, data gin.H) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.pages[page].ExecuteTemplate(&buf, "layout", data))
	return buf.String()
}

func TestLoadParsesEveryPage(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)
	for _, page := range []string{PageLogin, PageStudentEdit, PageTeacherEdit, PageRecord, PageReport, PageError, PageStart} {
		assert.Contains(t, r.pages, page)
	}
}

func TestLoadRequiresPages(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/layout.html": {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
		"templates/login.html":  {Data: []byte(`{{define "content"}}hi{{end}}`)},
	}
	_, err := load(fsys)
	assert.Error(t, err)
}

func TestLoginPageShowsAlert(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	out := execute(t, r, PageLogin, gin.H{"Title": "Sign in", "Alert": "Please fill out both fields.", "Username": "asha"})
	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "Please fill out both fields.")
	assert.Contains(t, out, `value="asha"`)
	assert.NotContains(t, out, "Log out")
}

func TestStudentEditPageRendersRows(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	draft := models.NewStudentDraft("d1", time.Now())
	draft.Form = draft.Form.Set("name", "Asha")
	out := execute(t, r, PageStudentEdit, gin.H{
		"Session": &models.Session{Username: "meera", Role: models.RoleTeacher},
		"Draft":   draft,
		"Tab":     "case-record",
		"Groups":  view.Fill(view.CaseRecordForm, draft.Form),
	})
	assert.Contains(t, out, "drugs."+draft.Drugs[0].ID+".name")
	assert.Contains(t, out, "household."+draft.Household[0].ID+".age")
	assert.Contains(t, out, "save-case-record")
	assert.Contains(t, out, "Add Student")
}

func TestRecordPageRendersFeed(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	summary := "Better focus"
	feed := &models.FeedState{
		Items: []models.Notification{
			{ID: 1, Title: "Speech progress", Message: "Doing well", ReportSummary: &summary},
			{ID: 2, Title: "OT summary", Message: "Hidden body", IsRead: true},
		},
		Expanded: map[int64]bool{1: true},
	}
	doc := models.Document{"name": "Asha"}
	out := execute(t, r, PageRecord, gin.H{
		"Session":  &models.Session{Username: "asha", Role: models.RoleStudent},
		"Heading":  "My Record",
		"BasePath": "/me",
		"Screen":   view.Navigate(doc, view.StudentRecord, "", "", ""),
		"Feed":     feed,
	})
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "Doing well")
	assert.Contains(t, out, "Better focus")
	assert.NotContains(t, out, "Hidden body")
	assert.Contains(t, out, "My Record")
}

func TestInstanceFallsBackToErrorPage(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Instance("missing.html", gin.H{"Title": "Not here"}).Render(w))
	assert.Contains(t, w.Body.String(), "Not here")
}
