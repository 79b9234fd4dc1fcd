package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authClient *auth.Client
	db         *gorm.DB
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authClient *auth.Client, db *gorm.DB) *AuthHandler {
	return &AuthHandler{authClient: authClient, db: db}
}

// HandleLogin verifies the Firebase ID token, provisions the local user
// row on first login, and creates a session cookie.
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	if h.authClient == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Firebase not initialized",
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Missing authorization header",
		})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid authorization format",
		})
	}

	token, err := h.authClient.VerifyIDToken(c.Request().Context(), tokenString)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid token",
		})
	}

	user, err := h.ensureUser(token)
	if err != nil {
		return err
	}

	// Create Session Cookie (valid for 5 days)
	expiresIn := time.Hour * 24 * 5
	cookieValue, err := h.authClient.SessionCookie(c.Request().Context(), tokenString, expiresIn)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create session",
		})
	}

	cookie := &http.Cookie{
		Name:     "session",
		Value:    cookieValue,
		MaxAge:   int(expiresIn.Seconds()),
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "success",
		"user":   user,
	})
}

// HandleLogout clears the session cookie
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	cookie := &http.Cookie{
		Name:     "session",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]string{
		"status": "logged out",
	})
}

// ensureUser loads the user matching the Firebase UID, creating the row
// from token claims on first login.
func (h *AuthHandler) ensureUser(token *auth.Token) (*models.User, error) {
	var user models.User
	err := h.db.Where("firebase_uid = ?", token.UID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if name == "" {
		name = email
	}

	// The account may predate Firebase sign-in; link by email if so
	if email != "" {
		err = h.db.Where("email = ?", email).First(&user).Error
		if err == nil {
			user.FirebaseUID = token.UID
			if err := h.db.Save(&user).Error; err != nil {
				return nil, err
			}
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user = models.User{Name: name, Email: email, FirebaseUID: token.UID}
	if err := h.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
