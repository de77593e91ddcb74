package controllers

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/view"
	"github.com/yigit/schoolportal/internal/app/web"
	"github.com/yigit/schoolportal/internal/middleware"
)

var teacherInputs = view.InputNames(view.TeacherForm)

// TeacherController handles the teacher creation screen
type TeacherController struct {
	teachers *services.TeacherService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teachers *services.TeacherService) *TeacherController {
	return &TeacherController{teachers: teachers}
}

// New shows the page that starts a teacher form.
func (tc *TeacherController) New(c *gin.Context) {
	c.HTML(http.StatusOK, web.PageStart, startPage(middleware.CurrentSession(c), "Add Teacher", "/teachers/new", "Start a new teacher"))
}

// Create opens an empty teacher draft.
func (tc *TeacherController) Create(c *gin.Context) {
	draft, err := tc.teachers.NewDraft(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/teachers/drafts/"+draft.ID)
}

func (tc *TeacherController) Edit(c *gin.Context) {
	session := middleware.CurrentSession(c)
	draft, err := tc.teachers.Draft(c.Request.Context(), session, c.Param("draft"))
	if err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	c.HTML(http.StatusOK, web.PageTeacherEdit, teacherPage(session, draft))
}

// Submit applies the posted form and runs the pressed button's action.
func (tc *TeacherController) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	session := middleware.CurrentSession(c)
	draftID := c.Param("draft")

	if c.PostForm("action") == "discard" {
		if err := tc.teachers.Discard(ctx, session, draftID); err != nil {
			middleware.HandleError(c, err, "", nil)
			return
		}
		c.Redirect(http.StatusSeeOther, "/teachers/new")
		return
	}

	draft, err := tc.applyForm(c, session, draftID)
	if err != nil {
		tc.fail(c, err, session, draftID)
		return
	}

	var notice string
	var warnings []string
	verb, arg := parseAction(c.PostForm("action"))
	switch verb {
	case "save":
		var result *services.TeacherSaveResult
		result, err = tc.teachers.Save(ctx, session, draftID)
		if err == nil {
			draft = result.Draft
			id, _ := draft.Teacher.ID()
			notice = fmt.Sprintf("Teacher saved. ID: %s", id)
			for _, d := range result.Dropped {
				warnings = append(warnings, d.Warning())
			}
		}
	case "add-assignment":
		draft, err = tc.teachers.AddAssignment(ctx, session, draftID)
	case "remove-assignment":
		draft, err = tc.teachers.RemoveAssignment(ctx, session, draftID, arg)
	}
	if err != nil {
		tc.fail(c, err, session, draftID)
		return
	}

	data := teacherPage(session, draft)
	data["Notice"] = notice
	data["Warnings"] = warnings
	c.HTML(http.StatusOK, web.PageTeacherEdit, data)
}

// ToggleDay flips one weekday of an assignment.
func (tc *TeacherController) ToggleDay(c *gin.Context) {
	session := middleware.CurrentSession(c)
	draftID := c.Param("draft")
	if _, err := tc.teachers.ToggleDay(c.Request.Context(), session, draftID, c.Param("row"), c.Query("day")); err != nil {
		tc.fail(c, err, session, draftID)
		return
	}
	c.Redirect(http.StatusSeeOther, "/teachers/drafts/"+draftID)
}

func (tc *TeacherController) applyForm(c *gin.Context, session *models.Session, draftID string) (*models.TeacherDraft, error) {
	ctx := c.Request.Context()
	draft, err := tc.teachers.UpdateFields(ctx, session, draftID, postedFields(c, teacherInputs))
	if err != nil {
		return nil, err
	}

	for _, e := range postedRows(c, "assignments") {
		if e.Field == "days" {
			continue
		}
		i := draft.Assignments.Index(e.RowID)
		if i >= 0 && assignmentValue(draft.Assignments[i], e.Field) == e.Value {
			continue
		}
		draft, err = tc.teachers.UpdateAssignment(ctx, session, draftID, e.RowID, e.Field, e.Value)
		if err != nil {
			return nil, err
		}
	}

	for _, row := range draft.Assignments {
		days, ok := postedDays(c, row.ID)
		if !ok || slices.Equal(days, row.Days) {
			continue
		}
		draft, err = tc.teachers.SetDays(ctx, session, draftID, row.ID, days)
		if err != nil {
			return nil, err
		}
	}
	return draft, nil
}

func (tc *TeacherController) fail(c *gin.Context, err error, session *models.Session, draftID string) {
	draft, derr := tc.teachers.Draft(c.Request.Context(), session, draftID)
	if derr != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	middleware.HandleError(c, err, web.PageTeacherEdit, teacherPage(session, draft))
}

func assignmentValue(a models.ClassAssignment, field string) string {
	switch field {
	case "class":
		return a.Class
	case "subject":
		return a.Subject
	case "startTime":
		return a.StartTime
	case "endTime":
		return a.EndTime
	}
	return ""
}

func teacherPage(session *models.Session, draft *models.TeacherDraft) gin.H {
	teacherID, _ := draft.Teacher.ID()
	return gin.H{
		"Title":     "Teacher",
		"Session":   session,
		"Draft":     draft,
		"TeacherID": teacherID,
		"Groups":    view.Fill(view.TeacherForm, draft.Form),
	}
}
