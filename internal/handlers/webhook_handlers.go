package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

type WebhookHandler struct {
	db             *gorm.DB
	midtransClient *services.MidtransService
	settlement     *services.SettlementService
	orders         *services.OrderService
}

func NewWebhookHandler(db *gorm.DB, midtransClient *services.MidtransService, settlement *services.SettlementService, orders *services.OrderService) *WebhookHandler {
	return &WebhookHandler{db: db, midtransClient: midtransClient, settlement: settlement, orders: orders}
}

// MidtransNotification handles Midtrans HTTP notifications. Every payload
// is logged to the gateway event table before processing; a success status
// settles the referenced order through the idempotent settlement path, so
// redeliveries are harmless.
func (h *WebhookHandler) MidtransNotification(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	orderNumber, _ := payload["order_id"].(string)
	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)
	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signatureKey, _ := payload["signature_key"].(string)
	transactionID, _ := payload["transaction_id"].(string)

	raw, _ := json.Marshal(payload)
	event := models.PaymentGatewayEvent{
		Provider:    models.PaymentGatewayMidtrans,
		OrderNumber: orderNumber,
		EventType:   transactionStatus,
		Payload:     raw,
	}
	h.db.Create(&event)

	if orderNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing order_id")
	}
	if !h.midtransClient.VerifySignature(orderNumber, statusCode, grossAmount, signatureKey) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid signature")
	}

	order, err := h.orders.GetOrderByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// keep the event, tell the provider not to retry
			log.Printf("Webhook for unknown order %s ignored", orderNumber)
			return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
		}
		return err
	}

	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return h.settle(c, order, transactionID)
		}
	case "settlement":
		return h.settle(c, order, transactionID)
	case "deny", "expire", "cancel":
		if order.Status == models.OrderStatusPending {
			if _, err := h.orders.CancelOrder(order.SchoolID, order.ID); err != nil {
				return err
			}
		}
	default:
		log.Printf("Unhandled midtrans status %q for order %s", transactionStatus, orderNumber)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) settle(c echo.Context, order *models.Order, providerPaymentID string) error {
	_, err := h.settlement.ConfirmPaidOrder(order.SchoolID, order.ID, &services.ConfirmOptions{
		Provider:          models.PaymentGatewayMidtrans,
		ProviderPaymentID: providerPaymentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
