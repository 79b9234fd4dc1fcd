package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/middleware"
	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

type OrderHandler struct {
	db      *gorm.DB
	orders  *services.OrderService
	refunds *services.RefundService
}

func NewOrderHandler(db *gorm.DB, orders *services.OrderService, refunds *services.RefundService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders, refunds: refunds}
}

// ListOrders returns the school's orders, filterable by status and buyer.
// Students only ever see their own orders.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	schoolID := middleware.SchoolID(c)
	page, pageSize := parsePagination(c)

	query := h.db.Model(&models.Order{}).
		Preload("Items").Preload("Payment").
		Where("school_id = ?", schoolID)

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if middleware.SchoolRole(c) == models.RoleStudent {
		query = query.Where("buyer_user_id = ?", middleware.UserID(c))
	} else if buyer := c.QueryParam("buyer"); buyer != "" {
		query = query.Where("buyer_user_id = ?", buyer)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return err
	}

	meta := buildMeta(page, pageSize, totalCount)
	var orders []models.Order
	err := query.Order("created_at desc").
		Limit(meta.PageSize).Offset((meta.Page - 1) * meta.PageSize).
		Find(&orders).Error
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ListResponse{Items: orders, Meta: meta})
}

// GetOrder returns one order within the scoped school
func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := paramUint(c, "orderId")
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(middleware.SchoolID(c), orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

type refundRequest struct {
	AmountCents *int64 `json:"amount_cents"`
}

// Refund reverses a PAID order, fully when no amount is given
func (h *OrderHandler) Refund(c echo.Context) error {
	orderID, err := paramUint(c, "orderId")
	if err != nil {
		return err
	}

	var req refundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	order, err := h.refunds.RefundOrder(middleware.SchoolID(c), orderID, req.AmountCents)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel voids a PENDING order
func (h *OrderHandler) Cancel(c echo.Context) error {
	orderID, err := paramUint(c, "orderId")
	if err != nil {
		return err
	}
	order, err := h.orders.CancelOrder(middleware.SchoolID(c), orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
