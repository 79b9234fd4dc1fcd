package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

// Context keys set by RequireSchool
const (
	ContextSchoolID   = "schoolID"
	ContextSchoolRole = "schoolRole"
)

// RequireSchool resolves the :schoolId route segment and verifies the
// authenticated user is a member with one of the allowed roles. A school
// the user does not belong to answers 404, identical to a school that
// does not exist.
func RequireSchool(db *gorm.DB, roles ...models.MembershipRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			schoolID, err := strconv.ParseUint(c.Param("schoolId"), 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid school id")
			}

			userID := UserID(c)
			if userID == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
			}

			var membership models.SchoolMembership
			err = db.Where("school_id = ? AND user_id = ?", schoolID, userID).First(&membership).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("school %d: %w", schoolID, services.ErrNotFound)
				}
				return err
			}

			if len(roles) > 0 && !roleAllowed(membership.Role, roles) {
				// members without the role learn the school exists, which
				// their membership already tells them
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}

			c.Set(ContextSchoolID, uint(schoolID))
			c.Set(ContextSchoolRole, membership.Role)
			return next(c)
		}
	}
}

func roleAllowed(role models.MembershipRole, allowed []models.MembershipRole) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// SchoolID returns the scoped school id resolved by RequireSchool
func SchoolID(c echo.Context) uint {
	if id, ok := c.Get(ContextSchoolID).(uint); ok {
		return id
	}
	return 0
}

// SchoolRole returns the caller's role within the scoped school
func SchoolRole(c echo.Context) models.MembershipRole {
	if role, ok := c.Get(ContextSchoolRole).(models.MembershipRole); ok {
		return role
	}
	return ""
}
