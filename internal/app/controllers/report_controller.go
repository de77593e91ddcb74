package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/view"
	"github.com/yigit/schoolportal/internal/app/web"
	"github.com/yigit/schoolportal/internal/middleware"
)

var reportInputs = view.InputNames(view.ReportForm)

// ReportController lets staff send report notifications
type ReportController struct {
	notifications *services.NotificationFeed
}

func NewReportController(notifications *services.NotificationFeed) *ReportController {
	return &ReportController{notifications: notifications}
}

// New shows an empty report form, prefilled with ?student_id.
func (rc *ReportController) New(c *gin.Context) {
	form := models.FormState{"student_id": c.Query("student_id")}
	c.HTML(http.StatusOK, web.PageReport, reportPage(middleware.CurrentSession(c), form))
}

// Send posts the report to the backend.
func (rc *ReportController) Send(c *gin.Context) {
	session := middleware.CurrentSession(c)
	form := formOf(postedFields(c, reportInputs))

	sent, err := rc.notifications.SendReport(c.Request.Context(), session, form)
	if err != nil {
		middleware.HandleError(c, err, web.PageReport, reportPage(session, form))
		return
	}

	data := reportPage(session, models.FormState{})
	data["Notice"] = "Report sent."
	data["Sent"] = sent
	c.HTML(http.StatusOK, web.PageReport, data)
}

func reportPage(session *models.Session, form models.FormState) gin.H {
	return gin.H{
		"Title":   "Send Report",
		"Session": session,
		"Groups":  view.Fill(view.ReportForm, form),
	}
}
