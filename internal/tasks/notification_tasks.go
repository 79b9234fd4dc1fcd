package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"sekolahku_echo/internal/models"
	"sekolahku_echo/internal/services"
)

// SendReceiptArgs defines the arguments for a receipt job
type SendReceiptArgs struct {
	OrderID      uint   `json:"order_id"`
	Kind         string `json:"kind"` // "payment" or "refund"
	AmountCents  int64  `json:"amount_cents"`
	AttemptCount int    `json:"attempt_count"`
}

// SendReceiptJobDef delivers payment receipts and refund notices over the
// buyer's preferred channel. Settlement and refund enqueue one of these
// inside their transaction, so every state change produces a notice.
type SendReceiptJobDef struct{}

// JobID returns the unique identifier for this job
func (t *SendReceiptJobDef) JobID() string {
	return services.JobSendReceipt
}

// CreateJob builds a ScheduledJob record for this job
func (t *SendReceiptJobDef) CreateJob(args SendReceiptArgs) (*models.ScheduledJob, error) {
	return BuildScheduledJob(t.JobID(), args, time.Now(), nil, models.ScheduledJobTypeOneTime, 3)
}

// HandleExecution sends the receipt. Delivery failures reschedule the job
// until MaxAttempt is reached.
func (t *SendReceiptJobDef) HandleExecution(ctx context.Context, db *gorm.DB, job models.ScheduledJob) (map[string]interface{}, error) {
	var args SendReceiptArgs
	if err := decodeArgs(job.Arguments, &args); err != nil {
		return nil, err
	}

	var order models.Order
	err := db.WithContext(ctx).
		Preload("Items").Preload("Buyer").Preload("School").
		First(&order, args.OrderID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", args.OrderID, err)
	}

	subject, body := buildReceiptMessage(order, args)

	var pref models.UserNotifPreference
	err = db.WithContext(ctx).Where("user_id = ?", order.BuyerUserID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = models.UserNotifPreference{Channel: models.NotificationChannelEmail}
	} else if err != nil {
		return nil, err
	}

	var sendErr error
	switch pref.Channel {
	case models.NotificationChannelWhatsapp:
		sendErr = sendWhatsappReceipt(order, pref, body)
	default:
		sendErr = sendEmailReceipt(order, subject, body)
	}

	if sendErr != nil {
		log.Printf("Failed to deliver %s notice for order %s: %v", args.Kind, order.OrderNumber, sendErr)
		if args.AttemptCount+1 < job.MaxAttempt {
			retryArgs := args
			retryArgs.AttemptCount++
			retry, err := BuildScheduledJob(t.JobID(), retryArgs, time.Now().Add(5*time.Minute), nil, models.ScheduledJobTypeOneTime, job.MaxAttempt)
			if err == nil {
				db.Create(retry)
			} else {
				log.Printf("Failed to create retry job: %v", err)
			}
			return map[string]interface{}{"status": "retry_scheduled", "attempt": retryArgs.AttemptCount}, nil
		}
		return nil, fmt.Errorf("max attempts reached for order %s: %w", order.OrderNumber, sendErr)
	}

	return map[string]interface{}{
		"status":  "success",
		"order":   order.OrderNumber,
		"kind":    args.Kind,
		"channel": string(pref.Channel),
	}, nil
}

// SendReceiptJob is the singleton instance of SendReceiptJobDef
var SendReceiptJob = &SendReceiptJobDef{}

func buildReceiptMessage(order models.Order, args SendReceiptArgs) (subject, body string) {
	var b strings.Builder
	if args.Kind == "refund" {
		subject = fmt.Sprintf("Refund processed for order %s", order.OrderNumber)
		fmt.Fprintf(&b, "Hi %s,\n\n", order.Buyer.Name)
		fmt.Fprintf(&b, "A refund of %s has been processed for your order %s at %s.\n",
			formatAmount(args.AmountCents, order.Currency), order.OrderNumber, order.School.Name)
	} else {
		subject = fmt.Sprintf("Payment receipt for order %s", order.OrderNumber)
		fmt.Fprintf(&b, "Hi %s,\n\n", order.Buyer.Name)
		fmt.Fprintf(&b, "We received your payment of %s for order %s at %s.\n\n",
			formatAmount(order.TotalAmountCents, order.Currency), order.OrderNumber, order.School.Name)
		for _, item := range order.Items {
			qty := item.Quantity
			if qty == 0 {
				qty = 1
			}
			fmt.Fprintf(&b, "  %dx %s #%d: %s\n",
				qty, item.ProductType, item.ProductRefID, formatAmount(item.PriceAmountCents, order.Currency))
		}
	}
	b.WriteString("\nThank you.")
	return subject, b.String()
}

func formatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, cents/100, cents%100)
}

func sendEmailReceipt(order models.Order, subject, body string) error {
	if order.Buyer.Email == "" {
		return fmt.Errorf("buyer %d has no email address", order.BuyerUserID)
	}
	return services.NewEmailService().SendEmail([]string{order.Buyer.Email}, subject, body)
}

func sendWhatsappReceipt(order models.Order, pref models.UserNotifPreference, body string) error {
	var chatID string
	if pref.WhatsappTargetType == models.WhatsappTargetTypeGroup {
		chatID = pref.WhatsappGroupID
		if chatID == "" {
			return fmt.Errorf("group ID is empty")
		}
		if !strings.HasSuffix(chatID, "@g.us") {
			chatID = chatID + "@g.us"
		}
	} else {
		chatID = order.Buyer.Phone
		if chatID == "" {
			return fmt.Errorf("buyer %d has no phone number", order.BuyerUserID)
		}
	}
	return services.NewWahaService().SendMessage(chatID, body)
}
