package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolportal/internal/app/controllers"
	"github.com/yigit/schoolportal/internal/middleware"
)

// Controllers groups the portal's HTTP handlers.
type Controllers struct {
	Auth     *controllers.AuthController
	Students *controllers.StudentController
	Teachers *controllers.TeacherController
	Records  *controllers.RecordController
	Reports  *controllers.ReportController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	// --- Public routes ---
	router.GET("/login", ctrl.Auth.LoginPage)
	router.POST("/login", ctrl.Auth.Login)

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.GET("/", ctrl.Auth.Home)
		authenticated.POST("/logout", ctrl.Auth.Logout)

		authenticated.GET("/me", ctrl.Records.MyRecord)

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("/unread-count", ctrl.Records.UnreadCount)
			notifications.POST("/mark-all-read", ctrl.Records.MarkAllRead)
			notifications.POST("/:id/toggle", ctrl.Records.Toggle)
		}
	}

	// --- Staff routes ---
	staff := authenticated.Group("")
	staff.Use(authMiddleware.StaffOnly())
	{
		students := staff.Group("/students")
		{
			students.GET("/new", ctrl.Students.New)
			students.POST("/new", ctrl.Students.Create)
			students.GET("/drafts/:draft", ctrl.Students.Edit)
			students.POST("/drafts/:draft", ctrl.Students.Submit)
			students.GET("/:id", ctrl.Students.View)
			students.POST("/:id/edit", ctrl.Students.Open)
		}

		teachers := staff.Group("/teachers")
		{
			teachers.GET("/new", ctrl.Teachers.New)
			teachers.POST("/new", ctrl.Teachers.Create)
			teachers.GET("/drafts/:draft", ctrl.Teachers.Edit)
			teachers.POST("/drafts/:draft", ctrl.Teachers.Submit)
			teachers.POST("/drafts/:draft/assignments/:row/toggle-day", ctrl.Teachers.ToggleDay)
		}

		reports := staff.Group("/reports")
		{
			reports.GET("/new", ctrl.Reports.New)
			reports.POST("", ctrl.Reports.Send)
		}
	}
}
