package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"supportbot/internal/config"
	"supportbot/internal/models"
)

// Session keys written by the OIDC callback.
const (
	SessionUserSub     = "user_sub"
	SessionUserEmail   = "user_email"
	SessionUserName    = "user_name"
	SessionUserPicture = "user_picture"
	SessionRedirect    = "redirect_after_login"
)

// AuthMiddleware handles staff authentication via sessions.
type AuthMiddleware struct {
	cfg *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// UserFromSession rebuilds the signed-in user from the session. The admin
// role is re-evaluated against the configured admin emails on every request.
func (m *AuthMiddleware) UserFromSession(sess *session.Middleware) *models.User {
	if sess == nil {
		return nil
	}
	sub, _ := sess.Get(SessionUserSub).(string)
	if sub == "" {
		return nil
	}

	user := &models.User{Sub: sub, Role: models.RoleVisitor}
	user.Email, _ = sess.Get(SessionUserEmail).(string)
	user.Name, _ = sess.Get(SessionUserName).(string)
	user.Picture, _ = sess.Get(SessionUserPicture).(string)
	if m.cfg.IsAdminEmail(user.Email) {
		user.Role = models.RoleAdmin
	}
	return user
}

// RequireAdmin ensures an admin is signed in. Anonymous users are sent to
// the login flow; signed-in non-admins get 403.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	sess := session.FromContext(c)
	user := m.UserFromSession(sess)
	if user == nil {
		if sess != nil {
			sess.Set(SessionRedirect, c.OriginalURL())
		}
		return c.Redirect().To("/auth/login")
	}

	if !user.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.UserFromSession(session.FromContext(c)); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}
