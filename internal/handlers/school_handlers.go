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

type SchoolHandler struct {
	db *gorm.DB
}

func NewSchoolHandler(db *gorm.DB) *SchoolHandler {
	return &SchoolHandler{db: db}
}

type createSchoolRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateSchool registers a new school and makes the caller its director
func (h *SchoolHandler) CreateSchool(c echo.Context) error {
	var req createSchoolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.Name == "" || req.Slug == "" {
		return fmt.Errorf("%w: name and slug are required", services.ErrValidation)
	}

	school := models.School{Name: req.Name, Slug: req.Slug, IsActive: true}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&school).Error; err != nil {
			return err
		}
		membership := models.SchoolMembership{
			SchoolID: school.ID,
			UserID:   middleware.UserID(c),
			Role:     models.RoleDirector,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, school)
}

// ListSchools returns the schools the caller belongs to
func (h *SchoolHandler) ListSchools(c echo.Context) error {
	var schools []models.School
	err := h.db.
		Joins("JOIN school_memberships ON school_memberships.school_id = schools.id").
		Where("school_memberships.user_id = ? AND school_memberships.deleted_at IS NULL", middleware.UserID(c)).
		Find(&schools).Error
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, schools)
}

// GetSchool returns the scoped school
func (h *SchoolHandler) GetSchool(c echo.Context) error {
	var school models.School
	if err := h.db.First(&school, middleware.SchoolID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrNotFound
		}
		return err
	}
	return c.JSON(http.StatusOK, school)
}

type membershipRequest struct {
	UserID uint                  `json:"user_id"`
	Role   models.MembershipRole `json:"role"`
}

// ListMembers returns the school's memberships with user details
func (h *SchoolHandler) ListMembers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	query := h.db.Model(&models.SchoolMembership{}).
		Preload("User").
		Where("school_id = ?", middleware.SchoolID(c))
	if role := c.QueryParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return err
	}

	meta := buildMeta(page, pageSize, totalCount)
	var members []models.SchoolMembership
	err := query.Order("created_at asc").
		Limit(meta.PageSize).Offset((meta.Page - 1) * meta.PageSize).
		Find(&members).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ListResponse{Items: members, Meta: meta})
}

// AddMember enrolls a user into the school, or updates their role if they
// are already a member.
func (h *SchoolHandler) AddMember(c echo.Context) error {
	var req membershipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	switch req.Role {
	case models.RoleDirector, models.RoleTeacher, models.RoleStudent:
	default:
		return fmt.Errorf("%w: unknown role %q", services.ErrValidation, req.Role)
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", services.ErrNotFound, req.UserID)
		}
		return err
	}

	schoolID := middleware.SchoolID(c)
	var membership models.SchoolMembership
	err := h.db.Where("school_id = ? AND user_id = ?", schoolID, req.UserID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		membership = models.SchoolMembership{SchoolID: schoolID, UserID: req.UserID, Role: req.Role}
		if err := h.db.Create(&membership).Error; err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, membership)
	}
	if err != nil {
		return err
	}

	membership.Role = req.Role
	if err := h.db.Save(&membership).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, membership)
}

// RemoveMember soft-deletes a membership. The last director of a school
// cannot be removed.
func (h *SchoolHandler) RemoveMember(c echo.Context) error {
	memberID, err := paramUint(c, "memberId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member id")
	}

	schoolID := middleware.SchoolID(c)
	var membership models.SchoolMembership
	err = h.db.Where("school_id = ? AND id = ?", schoolID, memberID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	if err != nil {
		return err
	}

	if membership.Role == models.RoleDirector {
		var directorCount int64
		err = h.db.Model(&models.SchoolMembership{}).
			Where("school_id = ? AND role = ?", schoolID, models.RoleDirector).
			Count(&directorCount).Error
		if err != nil {
			return err
		}
		if directorCount <= 1 {
			return fmt.Errorf("%w: cannot remove the last director", services.ErrInvalidState)
		}
	}

	if err := h.db.Delete(&membership).Error; err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type priceRequest struct {
	ProductType  models.ProductType     `json:"product_type"`
	ProductRefID uint                   `json:"product_ref_id"`
	AmountCents  int64                  `json:"amount_cents"`
	Currency     string                 `json:"currency"`
	Interval     models.BillingInterval `json:"interval"`
	IsActive     *bool                  `json:"is_active"`
}

func (r *priceRequest) validate() error {
	switch r.ProductType {
	case models.ProductSchoolMembership, models.ProductSubjectCourse:
	default:
		return fmt.Errorf("%w: unknown product type %q", services.ErrValidation, r.ProductType)
	}
	switch r.Interval {
	case models.IntervalOneTime, models.IntervalMonthly, models.IntervalYearly:
	default:
		return fmt.Errorf("%w: unknown interval %q", services.ErrValidation, r.Interval)
	}
	if r.AmountCents < 0 {
		return fmt.Errorf("%w: amount must not be negative", services.ErrValidation)
	}
	return nil
}

// ListPrices returns the school's catalog. Students only see active rows.
func (h *SchoolHandler) ListPrices(c echo.Context) error {
	query := h.db.Where("school_id = ?", middleware.SchoolID(c))
	if middleware.SchoolRole(c) == models.RoleStudent {
		query = query.Where("is_active = ?", true)
	}
	if productType := c.QueryParam("product_type"); productType != "" {
		query = query.Where("product_type = ?", productType)
	}

	var prices []models.Price
	if err := query.Order("id asc").Find(&prices).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prices)
}

// CreatePrice adds a catalog row
func (h *SchoolHandler) CreatePrice(c echo.Context) error {
	var req priceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.Currency == "" {
		req.Currency = "IDR"
	}
	if req.Interval == "" {
		req.Interval = models.IntervalOneTime
	}
	if err := req.validate(); err != nil {
		return err
	}

	price := models.Price{
		SchoolID:     middleware.SchoolID(c),
		ProductType:  req.ProductType,
		ProductRefID: req.ProductRefID,
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		Interval:     req.Interval,
		IsActive:     true,
	}
	if req.IsActive != nil {
		price.IsActive = *req.IsActive
	}
	if err := h.db.Create(&price).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, price)
}

// UpdatePrice changes the amount or active flag of a catalog row. Product
// identity is immutable once created; issue a new row instead.
func (h *SchoolHandler) UpdatePrice(c echo.Context) error {
	priceID, err := paramUint(c, "priceId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price id")
	}

	var price models.Price
	err = h.db.Where("school_id = ? AND id = ?", middleware.SchoolID(c), priceID).First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.ErrNotFound
	}
	if err != nil {
		return err
	}

	var req struct {
		AmountCents *int64 `json:"amount_cents"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.AmountCents != nil {
		if *req.AmountCents < 0 {
			return fmt.Errorf("%w: amount must not be negative", services.ErrValidation)
		}
		price.AmountCents = *req.AmountCents
	}
	if req.IsActive != nil {
		price.IsActive = *req.IsActive
	}

	if err := h.db.Save(&price).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, price)
}
