package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/middleware"
	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

type UserPreferenceHandler struct {
	DB *gorm.DB
}

func NewUserPreferenceHandler(db *gorm.DB) *UserPreferenceHandler {
	return &UserPreferenceHandler{DB: db}
}

// GetUserPreference returns the caller's notification preference,
// falling back to defaults when none has been saved yet.
func (h *UserPreferenceHandler) GetUserPreference(c echo.Context) error {
	userID := middleware.UserID(c)

	var pref models.UserNotifPreference
	err := h.DB.Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = models.UserNotifPreference{
			UserID:             userID,
			Channel:            models.NotificationChannelEmail,
			WhatsappTargetType: models.WhatsappTargetTypePersonal,
		}
	} else if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pref)
}

type preferenceRequest struct {
	Channel            models.NotificationChannel `json:"channel"`
	WhatsappTargetType string                     `json:"whatsapp_target_type"`
	WhatsappGroupID    string                     `json:"whatsapp_group_id"`
}

// UpdateUserPreference upserts the caller's notification preference
func (h *UserPreferenceHandler) UpdateUserPreference(c echo.Context) error {
	userID := middleware.UserID(c)

	var req preferenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	switch req.Channel {
	case models.NotificationChannelEmail, models.NotificationChannelWhatsapp:
	default:
		return fmt.Errorf("%w: unknown channel %q", services.ErrValidation, req.Channel)
	}
	if req.WhatsappTargetType == "" {
		req.WhatsappTargetType = models.WhatsappTargetTypePersonal
	}
	switch req.WhatsappTargetType {
	case models.WhatsappTargetTypePersonal, models.WhatsappTargetTypeGroup:
	default:
		return fmt.Errorf("%w: unknown target type %q", services.ErrValidation, req.WhatsappTargetType)
	}

	var pref models.UserNotifPreference
	err := h.DB.Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = models.UserNotifPreference{UserID: userID}
	} else if err != nil {
		return err
	}

	pref.Channel = req.Channel
	pref.WhatsappTargetType = req.WhatsappTargetType
	pref.WhatsappGroupID = req.WhatsappGroupID

	if err := h.DB.Save(&pref).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pref)
}
