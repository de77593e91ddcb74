package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

type call struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

// backend is a scripted school API keyed by "METHOD path".
type backend struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]string
}

func newBackend(t *testing.T, routes map[string]string) (*backend, string) {
	t.Helper()
	b := &backend{routes: routes}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return b, srv.URL
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.calls = append(b.calls, call{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: string(body)})
	b.mu.Unlock()

	resp, ok := b.routes[r.Method+" "+r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not found"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, resp)
}

func (b *backend) recorded() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

func (b *backend) find(method, path string) (call, bool) {
	for _, c := range b.recorded() {
		if c.Method == method && c.Path == path {
			return c, true
		}
	}
	return call{}, false
}

func token(t *testing.T, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "meera", "role": role}).
		SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

// run executes portalctl against url and returns stdout, stderr and the
// error app.Run returned.
func run(t *testing.T, url string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"portalctl", "--backend", url}, args...))
	return stdout.String(), stderr.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	return exit.ExitCode()
}

func TestLoginPrintsToken(t *testing.T) {
	access := token(t, "Teacher")
	b, url := newBackend(t, map[string]string{
		"POST /api/v1/auth/login": `{"access_token":"` + access + `","token_type":"bearer"}`,
	})

	stdout, stderr, err := run(t, url, "login", "-u", "meera", "-p", "secret")
	require.NoError(t, err)
	assert.Equal(t, access+"\n", stdout)
	assert.Contains(t, stderr, "Signed in as meera (teacher).")
	assert.Len(t, b.recorded(), 1)
}

func TestLoginRequiresBothFields(t *testing.T) {
	b, url := newBackend(t, nil)

	_, _, err := run(t, url, "login", "-u", "meera")
	require.Error(t, err)
	assert.Equal(t, apperrors.MsgLoginFieldsMissing, err.Error())
	assert.Empty(t, b.recorded())
}

func TestCommandsNeedToken(t *testing.T) {
	b, url := newBackend(t, nil)
	t.Setenv("PORTAL_TOKEN", "")

	_, _, err := run(t, url, "notifications", "list")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
	assert.Empty(t, b.recorded())
}

func TestStudentSaveCreates(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"POST /api/v1/students/": `{"id":42,"name":"Asha","roll_no":"R-7"}`,
	})
	tok := token(t, "Teacher")

	stdout, _, err := run(t, url, "--token", tok, "student", "save", "-f", "name=Asha", "-f", "gender=Female")
	require.NoError(t, err)
	assert.Equal(t, "Student saved. ID: 42\n", stdout)

	saved, ok := b.find(http.MethodPost, "/api/v1/students/")
	require.True(t, ok)
	assert.Equal(t, "Bearer "+tok, saved.Auth)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(saved.Body), &body))
	assert.Equal(t, "Asha", body["name"])
	assert.Equal(t, "Female", body["gender"])
}

func TestStudentSaveUpdatesExisting(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"GET /api/v1/students/42": `{"id":42,"name":"Asha","religion":"Hindu"}`,
		"PUT /api/v1/students/42": `{"id":42,"name":"Asha K","religion":"Hindu"}`,
	})

	stdout, _, err := run(t, url, "--token", token(t, "Admin"), "student", "save", "--id", "42", "-f", "name=Asha K")
	require.NoError(t, err)
	assert.Equal(t, "Student saved. ID: 42\n", stdout)

	updated, ok := b.find(http.MethodPut, "/api/v1/students/42")
	require.True(t, ok)
	assert.Contains(t, updated.Body, `"religion":"Hindu"`)
	assert.Contains(t, updated.Body, `"name":"Asha K"`)
	_, created := b.find(http.MethodPost, "/api/v1/students/")
	assert.False(t, created)
}

func TestStudentSaveValidation(t *testing.T) {
	b, url := newBackend(t, nil)

	_, _, err := run(t, url, "--token", token(t, "Teacher"), "student", "save", "-f", "gender=Female")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(t, err))
	assert.Empty(t, b.recorded())
}

func TestStudentSaveRejectsUnknownField(t *testing.T) {
	b, url := newBackend(t, nil)

	_, _, err := run(t, url, "--token", token(t, "Teacher"), "student", "save", "-f", "nickname=A")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
	assert.Contains(t, err.Error(), `Unknown field "nickname"`)
	assert.Empty(t, b.recorded())
}

func TestStudentAccountsCannotEdit(t *testing.T) {
	b, url := newBackend(t, nil)

	_, _, err := run(t, url, "--token", token(t, "Student"), "student", "save", "-f", "name=Asha")
	require.Error(t, err)
	assert.Equal(t, "This page is for staff only.", err.Error())
	assert.Empty(t, b.recorded())
}

func TestCaseRecordRows(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"GET /api/v1/students/42":             `{"id":42,"name":"Asha","religion":"Hindu"}`,
		"PUT /api/v1/students/42/case-record": `{"id":42,"name":"Asha"}`,
	})

	stdout, _, err := run(t, url, "--token", token(t, "Therapist"),
		"student", "case-record", "--id", "42",
		"-f", "allergies=Peanuts",
		"--drug", "Syrup|5ml", "--drug", "Tablet|1",
		"--household", "Ravi|40|BA|Farmer")
	require.NoError(t, err)
	assert.Equal(t, "Case record saved.\n", stdout)

	put, ok := b.find(http.MethodPut, "/api/v1/students/42/case-record")
	require.True(t, ok)
	assert.JSONEq(t, `{
		"identification": {"religion": "Hindu"},
		"medical": {
			"allergies": "Peanuts",
			"drugs": [
				{"sl_no": 1, "name": "Syrup", "dose": "5ml"},
				{"sl_no": 2, "name": "Tablet", "dose": "1"}
			]
		},
		"family": {"household": [
			{"sl_no": 1, "name": "Ravi", "age": 40, "education": "BA", "occupation": "Farmer"}
		]}
	}`, put.Body)
}

func TestCaseRecordBadRow(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"GET /api/v1/students/42": `{"id":42,"name":"Asha"}`,
	})

	_, _, err := run(t, url, "--token", token(t, "Teacher"),
		"student", "case-record", "--id", "42", "--drug", "a|b|c")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
	_, replaced := b.find(http.MethodPut, "/api/v1/students/42/case-record")
	assert.False(t, replaced)
}

func TestStudentShow(t *testing.T) {
	_, url := newBackend(t, map[string]string{
		"GET /api/v1/students/me": `{"id":7,"name":"Asha","date_of_birth":null}`,
	})

	stdout, _, err := run(t, url, "--token", token(t, "Student"), "student", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Asha")
	assert.Contains(t, stdout, "N/A")
}

func TestStudentShowUnknownLayout(t *testing.T) {
	b, url := newBackend(t, nil)

	_, _, err := run(t, url, "--token", token(t, "Teacher"), "student", "show", "--layout", "nope")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
	assert.Empty(t, b.recorded())
}

func TestTeacherCreateReportsDroppedAssignments(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"POST /api/v1/teachers/": `{"id":5,"name":"Meera"}`,
	})

	stdout, stderr, err := run(t, url, "--token", token(t, "Admin"),
		"teacher", "create", "-f", "name=Meera",
		"--assignment", "5A|Maths|Wednesday, Monday|09:00|10:00",
		"--assignment", "5B|Science")
	require.NoError(t, err)
	assert.Equal(t, "Teacher saved. ID: 5\n", stdout)
	assert.Contains(t, stderr, "Class 2 was not saved: missing days, start time and end time.")

	created, ok := b.find(http.MethodPost, "/api/v1/teachers/")
	require.True(t, ok)
	var body struct {
		Name             string `json:"name"`
		ClassAssignments []struct {
			Class string   `json:"class"`
			Days  []string `json:"days"`
		} `json:"class_assignments"`
	}
	require.NoError(t, json.Unmarshal([]byte(created.Body), &body))
	assert.Equal(t, "Meera", body.Name)
	require.Len(t, body.ClassAssignments, 1)
	assert.Equal(t, "5A", body.ClassAssignments[0].Class)
	assert.Equal(t, []string{"Monday", "Wednesday"}, body.ClassAssignments[0].Days)
}

func TestNotificationsListAndRead(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"GET /api/v1/notifications/my-notifications": `[
			{"id":1,"title":"Weekly report","message":"Good week","therapy_type":"Speech","sent_by_name":"Meera","is_read":false,"created_at":"2024-05-01T10:00:00"},
			{"id":2,"title":"Holiday","message":"School closed","is_read":true,"created_at":"2024-04-01T10:00:00"}
		]`,
		"POST /api/v1/notifications/mark-read": `{"message":"ok"}`,
	})
	tok := token(t, "Student")

	stdout, _, err := run(t, url, "--token", tok, "notifications", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Weekly report")
	assert.Contains(t, stdout, "01 May 2024, 10:00")
	assert.Contains(t, stdout, "1 unread")

	stdout, _, err = run(t, url, "--token", tok, "notifications", "read", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Good week")
	assert.Contains(t, stdout, "Therapy: Speech")
	assert.NotContains(t, stdout, "could not mark as read")

	marked, ok := b.find(http.MethodPost, "/api/v1/notifications/mark-read")
	require.True(t, ok)
	assert.JSONEq(t, `{"notification_id":1}`, marked.Body)
}

func TestNotificationReadAlreadyReadSendsNothing(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"GET /api/v1/notifications/my-notifications": `[{"id":2,"title":"Holiday","message":"School closed","is_read":true}]`,
	})

	stdout, _, err := run(t, url, "--token", token(t, "Student"), "notifications", "read", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "School closed")
	_, marked := b.find(http.MethodPost, "/api/v1/notifications/mark-read")
	assert.False(t, marked)
}

func TestNotificationReadUnknown(t *testing.T) {
	_, url := newBackend(t, map[string]string{
		"GET /api/v1/notifications/my-notifications": `[]`,
	})

	_, _, err := run(t, url, "--token", token(t, "Student"), "notifications", "read", "9")
	require.Error(t, err)
	assert.Equal(t, "Notification not found.", err.Error())

	_, _, err = run(t, url, "--token", token(t, "Student"), "notifications", "read", "x")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(t, err))
}

func TestNotificationsCountAndReadAll(t *testing.T) {
	_, url := newBackend(t, map[string]string{
		"GET /api/v1/notifications/unread-count":     `{"unread_count":3}`,
		"POST /api/v1/notifications/mark-all-read":   `{"message":"ok"}`,
		"GET /api/v1/notifications/my-notifications": `[{"id":1,"title":"a","message":"b","is_read":true}]`,
	})
	tok := token(t, "Student")

	stdout, _, err := run(t, url, "--token", tok, "notifications", "count")
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout)

	stdout, _, err = run(t, url, "--token", tok, "notifications", "read-all")
	require.NoError(t, err)
	assert.Equal(t, "Marked 1 notifications as read.\n", stdout)
}

func TestSendReport(t *testing.T) {
	b, url := newBackend(t, map[string]string{
		"POST /api/v1/notifications/send-report": `{"id":9,"title":"Weekly","message":"Fine","is_read":false}`,
	})

	stdout, _, err := run(t, url, "--token", token(t, "Therapist"), "notifications", "send",
		"-f", "student_id=STU1", "-f", "title=Weekly", "-f", "message=Fine", "-f", "therapy_type=Speech")
	require.NoError(t, err)
	assert.Equal(t, "Report sent. ID: 9\n", stdout)

	sent, ok := b.find(http.MethodPost, "/api/v1/notifications/send-report")
	require.True(t, ok)
	assert.JSONEq(t, `{"student_id":"STU1","title":"Weekly","message":"Fine","therapy_type":"Speech"}`, sent.Body)
}

func TestSendReportStudentRefused(t *testing.T) {
	b, url := newBackend(t, nil)

	_, _, err := run(t, url, "--token", token(t, "Student"), "notifications", "send",
		"-f", "student_id=STU1", "-f", "title=Weekly", "-f", "message=Fine")
	require.Error(t, err)
	assert.Equal(t, "Only staff can send reports.", err.Error())
	assert.Empty(t, b.recorded())
}

func TestBackendRejectionMessage(t *testing.T) {
	_, url := newBackend(t, nil)

	_, _, err := run(t, url, "--token", token(t, "Student"), "notifications", "count")
	require.Error(t, err)
	assert.Equal(t, "Not found", err.Error())
}

func TestParseFields(t *testing.T) {
	values, err := parseFields([]string{"name=Asha", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Asha", "note": "a=b", "empty": ""}, values)

	_, err = parseFields([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseFields([]string{"=x"})
	assert.Error(t, err)
}

func TestSplitRow(t *testing.T) {
	cells, err := splitRow(" Syrup | 5ml ", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Syrup", "5ml"}, cells)

	cells, err = splitRow("Ravi", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ravi", "", ""}, cells)

	_, err = splitRow("a|b|c", 2)
	assert.Error(t, err)
}
