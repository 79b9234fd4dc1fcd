package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
)

// Context keys set by RequireAuth for downstream handlers
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserUID   = "userUID"
)

// RequireAuth verifies a Firebase session cookie or bearer ID token and
// resolves the local user row. API clients get JSON 401s, never redirects.
func RequireAuth(authClient *auth.Client, db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authClient == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication is not configured")
			}

			ctx := c.Request().Context()
			var token *auth.Token

			if header := c.Request().Header.Get("Authorization"); header != "" {
				raw := strings.TrimPrefix(header, "Bearer ")
				if raw == header {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
				}
				verified, err := authClient.VerifyIDToken(ctx, raw)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				token = verified
			} else {
				cookie, err := c.Cookie("session")
				if err != nil || cookie.Value == "" {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
				}
				verified, err := authClient.VerifySessionCookie(ctx, cookie.Value)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
				}
				token = verified
			}

			c.Set(ContextUserUID, token.UID)
			if email, ok := token.Claims["email"].(string); ok {
				c.Set(ContextUserEmail, email)
			}

			var user models.User
			if err := db.Where("firebase_uid = ?", token.UID).First(&user).Error; err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
			}
			c.Set(ContextUserID, user.ID)

			return next(c)
		}
	}
}

// UserID returns the authenticated user's id from the context, or zero
func UserID(c echo.Context) uint {
	if id, ok := c.Get(ContextUserID).(uint); ok {
		return id
	}
	return 0
}
