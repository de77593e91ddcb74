package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/schoolportal/internal/app/auth"
	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/auth"
)

const sessionKey = "session"

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

// SessionAuthenticator resolves a signed session token to a live session.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionToken string) (*models.Session, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	sessions   SessionAuthenticator
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionAuthenticator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// SessionAuth loads the portal session named by the session cookie, or by
// an "Authorization: Bearer" header for scripted clients. Requests without
// a valid session are redirected to the login page.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.sessionToken(c)
		if token == "" {
			m.reject(c)
			return
		}

		session, err := m.sessions.Authenticate(c.Request.Context(), token)
		if err != nil {
			m.reject(c)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// StaffOnly rejects student accounts. It must run after SessionAuth.
func (m *AuthMiddleware) StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := appAuth.ValidateStaff(CurrentSession(c)); err != nil {
			HandleError(c, err, "", gin.H{})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	return ""
}

func (m *AuthMiddleware) reject(c *gin.Context) {
	if _, err := c.Cookie(m.cookieName); err == nil {
		c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
	}
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}

// CurrentSession returns the session set by SessionAuth, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}
