package handlers

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/middleware"
	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

type CheckoutHandler struct {
	db         *gorm.DB
	checkout   *services.CheckoutService
	settlement *services.SettlementService
	orders     *services.OrderService
}

func NewCheckoutHandler(db *gorm.DB, checkout *services.CheckoutService, settlement *services.SettlementService, orders *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{db: db, checkout: checkout, settlement: settlement, orders: orders}
}

type checkoutRequest struct {
	Items    []services.CheckoutItem `json:"items"`
	ForceNew bool                    `json:"force_new"`
}

// Checkout builds a PENDING order from catalog prices and opens a payment
// session for it. A gateway failure degrades to the manual provider rather
// than failing the request.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	schoolID := middleware.SchoolID(c)
	buyerID := middleware.UserID(c)

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	order, err := h.checkout.CreateOrder(schoolID, buyerID, req.Items)
	if err != nil {
		return err
	}

	// reload with buyer for the provider's customer details
	order, err = h.orders.GetOrder(schoolID, order.ID)
	if err != nil {
		return err
	}

	callbackURL := getEnv("APP_URL", "http://localhost:8080") + "/checkout/finish"
	result, err := h.checkout.InitiateCheckout(order, req.ForceNew, callbackURL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// SimulatePay is the dev/manual path into settlement: it confirms a
// PENDING order as if the provider had delivered a success event.
func (h *CheckoutHandler) SimulatePay(c echo.Context) error {
	schoolID := middleware.SchoolID(c)
	orderID, err := paramUint(c, "orderId")
	if err != nil {
		return err
	}

	order, err := h.settlement.ConfirmPaidOrder(schoolID, orderID, &services.ConfirmOptions{
		Provider:          models.PaymentGatewayManual,
		ProviderPaymentID: "simulated",
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
