package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/view"
	"github.com/yigit/schoolportal/internal/app/web"
	"github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// RecordController serves the signed-in student's record and notifications
type RecordController struct {
	records       *services.RecordService
	notifications *services.NotificationFeed
	logger        zerolog.Logger
}

// NewRecordController creates a new RecordController
func NewRecordController(records *services.RecordService, notifications *services.NotificationFeed, logger zerolog.Logger) *RecordController {
	return &RecordController{records: records, notifications: notifications, logger: logger}
}

// MyRecord shows the student's own record with the notification feed. The
// feed is fetched when the session has none yet or when ?refresh=1 is set.
func (rc *RecordController) MyRecord(c *gin.Context) {
	ctx := c.Request.Context()
	session := middleware.CurrentSession(c)

	doc, err := rc.records.MyRecord(ctx, session)
	if err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}

	data := gin.H{
		"Title":    "My Record",
		"Session":  session,
		"Heading":  view.Lookup(doc, "name"),
		"BasePath": "/me",
		"Screen":   view.Navigate(doc, view.StudentRecord, c.Query("view"), c.Query("section"), c.Query("sub")),
	}

	loadFeed := rc.notifications.Feed
	if c.Query("refresh") != "" {
		loadFeed = rc.notifications.Load
	}
	feed, err := loadFeed(ctx, session)
	if err != nil {
		rc.logger.Warn().Err(err).Str("sessionID", session.ID).Msg("Failed to load notifications")
		data["Alert"] = apperrors.UserMessage(err)
	} else {
		data["Feed"] = feed
	}
	c.HTML(http.StatusOK, web.PageRecord, data)
}

// Toggle expands or collapses one notification.
func (rc *RecordController) Toggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleError(c, apperrors.NewBadRequestError("Invalid notification id."), "", nil)
		return
	}
	if _, err := rc.notifications.Toggle(c.Request.Context(), middleware.CurrentSession(c), id); err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/me#n-"+c.Param("id"))
}

// MarkAllRead marks every notification as read.
func (rc *RecordController) MarkAllRead(c *gin.Context) {
	if _, err := rc.notifications.MarkAllRead(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		middleware.HandleError(c, err, "", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, "/me#notifications")
}

// UnreadCount returns {"unread_count": n}.
func (rc *RecordController) UnreadCount(c *gin.Context) {
	n, err := rc.notifications.UnreadCount(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		c.JSON(middleware.StatusFor(err), gin.H{"error": apperrors.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": n})
}
