package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/schoolportal/internal/app/auth"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/web"
	"github.com/yigit/schoolportal/internal/middleware"
)

// CookieConfig describes the portal session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles sign in and sign out
type AuthController struct {
	authService *services.AuthService
	cookie      CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// LoginPage shows the sign in form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, web.PageLogin, gin.H{"Title": "Sign in", "Username": ""})
}

// Login exchanges the posted credentials for a portal session and sends
// the user to their landing page.
func (ac *AuthController) Login(c *gin.Context) {
	username := c.PostForm("username")
	form := models.FormState{
		"username": username,
		"password": c.PostForm("password"),
	}

	result, err := ac.authService.Login(c.Request.Context(), form)
	if err != nil {
		middleware.HandleError(c, err, web.PageLogin, gin.H{"Title": "Sign in", "Username": username})
		return
	}

	maxAge := int(time.Until(result.Session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.cookie.Name, result.SessionToken, maxAge, "/", "", ac.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, appAuth.Landing(result.Session))
}

// Logout ends the portal session.
func (ac *AuthController) Logout(c *gin.Context) {
	if session := middleware.CurrentSession(c); session != nil {
		if err := ac.authService.Logout(c.Request.Context(), session.ID); err != nil {
			ac.logger.Warn().Err(err).Str("sessionID", session.ID).Msg("Failed to delete session")
		}
	}
	c.SetCookie(ac.cookie.Name, "", -1, "/", "", ac.cookie.Secure, true)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// Home sends a signed-in user to their landing page.
func (ac *AuthController) Home(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, appAuth.Landing(middleware.CurrentSession(c)))
}
