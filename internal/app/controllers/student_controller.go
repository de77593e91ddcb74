package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/view"
	"github.com/yigit/schoolportal/internal/app/web"
	"github.com/yigit/schoolportal/internal/middleware"
)

// Editing tabs of the student screen.
const (
	tabDetails    = "details"
	tabCaseRecord = "case-record"
)

var studentInputs = view.InputNames(view.StudentForm, view.CaseRecordForm)

// StudentController handles the student editing screens
type StudentController struct {
	editor  *services.StudentEditor
	records *services.RecordService
}

// NewStudentController creates a new StudentController
func NewStudentController(editor *services.StudentEditor, records *services.RecordService) *StudentController {
	return &StudentController{editor: editor, records: records}
}

// New shows the page that starts a student form.
func (sc *StudentController) New(c *gin.Context) {
	c.HTML(http.StatusOK, web.PageStart, startPage(middleware.CurrentSession(c), "Add Student", "/students/new", "Start a new student"))
}

// Create opens an empty student draft.
func (sc *StudentController) Create(c *gin.Context) {
	draft, err := sc.editor.NewDraft(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, draftPath(draft.ID))
}

// Open loads a saved student into a new draft.
func (sc *StudentController) Open(c *gin.Context) {
	draft, err := sc.editor.OpenStudent(c.Request.Context(), middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, draftPath(draft.ID))
}

// Edit shows a draft.
func (sc *StudentController) Edit(c *gin.Context) {
	session := middleware.CurrentSession(c)
	draft, err := sc.editor.Draft(c.Request.Context(), session, c.Param("draft"))
	if err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	c.HTML(http.StatusOK, web.PageStudentEdit, studentPage(session, draft, currentTab(c)))
}

// Submit applies the posted form to the draft and runs the pressed
// button's action.
func (sc *StudentController) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	session := middleware.CurrentSession(c)
	draftID := c.Param("draft")
	tab := currentTab(c)

	if c.PostForm("action") == "discard" {
		if err := sc.editor.Discard(ctx, session, draftID); err != nil {
			middleware.HandleError(c, err, "", nil)
			return
		}
		c.Redirect(http.StatusSeeOther, "/students/new")
		return
	}

	draft, err := sc.applyForm(c, session, draftID)
	if err != nil {
		sc.fail(c, err, session, draftID, tab)
		return
	}

	var notice string
	verb, arg := parseAction(c.PostForm("action"))
	switch verb {
	case "save-student":
		draft, err = sc.editor.SaveStudent(ctx, session, draftID)
		if err == nil {
			id, _ := draft.Student.ID()
			notice = fmt.Sprintf("Student saved. ID: %s", id)
		}
	case "save-case-record":
		draft, err = sc.editor.SaveCaseRecord(ctx, session, draftID)
		if err == nil {
			notice = "Case record saved."
		}
	case "add-household":
		draft, err = sc.editor.AddRow(ctx, session, draftID, services.TableHousehold)
	case "add-drugs":
		draft, err = sc.editor.AddRow(ctx, session, draftID, services.TableDrugs)
	case "remove-household":
		draft, err = sc.editor.RemoveRow(ctx, session, draftID, services.TableHousehold, arg)
	case "remove-drugs":
		draft, err = sc.editor.RemoveRow(ctx, session, draftID, services.TableDrugs, arg)
	}
	if err != nil {
		sc.fail(c, err, session, draftID, tab)
		return
	}

	data := studentPage(session, draft, tab)
	data["Notice"] = notice
	c.HTML(http.StatusOK, web.PageStudentEdit, data)
}

// View shows a saved student's record.
func (sc *StudentController) View(c *gin.Context) {
	id := c.Param("id")
	doc, err := sc.records.Student(c.Request.Context(), middleware.CurrentSession(c), id)
	if err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}

	base := "/students/" + id
	c.HTML(http.StatusOK, web.PageRecord, gin.H{
		"Title":    "Student " + id,
		"Session":  middleware.CurrentSession(c),
		"Heading":  view.Lookup(doc, "name"),
		"BasePath": base,
		"EditPath": base + "/edit",
		"Screen":   view.Navigate(doc, view.StudentRecord, c.Query("view"), c.Query("section"), c.Query("sub")),
	})
}

func (sc *StudentController) applyForm(c *gin.Context, session *models.Session, draftID string) (*models.StudentDraft, error) {
	ctx := c.Request.Context()
	draft, err := sc.editor.UpdateFields(ctx, session, draftID, postedFields(c, studentInputs))
	if err != nil {
		return nil, err
	}

	for _, table := range []services.RowTable{services.TableHousehold, services.TableDrugs} {
		for _, e := range postedRows(c, string(table)) {
			if rowValue(draft, table, e.RowID, e.Field) == e.Value {
				continue
			}
			draft, err = sc.editor.UpdateRow(ctx, session, draftID, table, e.RowID, e.Field, e.Value)
			if err != nil {
				return nil, err
			}
		}
	}
	return draft, nil
}

func (sc *StudentController) fail(c *gin.Context, err error, session *models.Session, draftID, tab string) {
	draft, derr := sc.editor.Draft(c.Request.Context(), session, draftID)
	if derr != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	middleware.HandleError(c, err, web.PageStudentEdit, studentPage(session, draft, tab))
}

// rowValue returns the stored value of one cell, or "" when unknown.
func rowValue(draft *models.StudentDraft, table services.RowTable, rowID, field string) string {
	switch table {
	case services.TableHousehold:
		if i := draft.Household.Index(rowID); i >= 0 {
			h := draft.Household[i]
			return map[string]string{
				"name": h.Name, "age": h.Age, "education": h.Education,
				"occupation": h.Occupation, "health": h.Health, "income": h.Income,
			}[field]
		}
	case services.TableDrugs:
		if i := draft.Drugs.Index(rowID); i >= 0 {
			d := draft.Drugs[i]
			return map[string]string{"name": d.Name, "dose": d.Dose}[field]
		}
	}
	return ""
}

func studentPage(session *models.Session, draft *models.StudentDraft, tab string) gin.H {
	groups := view.StudentForm
	if tab == tabCaseRecord {
		groups = view.CaseRecordForm
	}
	studentID, _ := draft.Student.ID()
	return gin.H{
		"Title":     "Student",
		"Session":   session,
		"Draft":     draft,
		"Tab":       tab,
		"StudentID": studentID,
		"Groups":    view.Fill(groups, draft.Form),
	}
}

func currentTab(c *gin.Context) string {
	if c.Query("tab") == tabCaseRecord {
		return tabCaseRecord
	}
	return tabDetails
}

func draftPath(id string) string {
	return "/students/drafts/" + id
}
