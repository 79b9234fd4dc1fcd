package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_echo/internal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// CheckoutService builds PENDING orders from a school's price catalog and
// opens (or resumes) a provider payment session for them.
type CheckoutService struct {
	db             *gorm.DB
	midtransClient *MidtransService
}

func NewCheckoutService(db *gorm.DB, midtransClient *MidtransService) *CheckoutService {
	return &CheckoutService{db: db, midtransClient: midtransClient}
}

// CheckoutItem is one requested catalog line
type CheckoutItem struct {
	PriceID  uint `json:"price_id"`
	Quantity int  `json:"quantity"`
}

// CheckoutResult holds the outcome of a checkout initiation
type CheckoutResult struct {
	Order       *models.Order         `json:"order"`
	Provider    models.PaymentGateway `json:"provider"`
	Token       string                `json:"token,omitempty"`
	RedirectURL string                `json:"redirect_url,omitempty"`
	IsExisting  bool                  `json:"is_existing"`
}

// CreateOrder builds a PENDING order from catalog prices. The persisted
// total is the sum of line amounts; nothing else ever sets it.
func (s *CheckoutService) CreateOrder(schoolID, buyerUserID uint, items []CheckoutItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrValidation)
	}

	cfg, err := LoadAppConfig(s.db)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		OrderNumber: fmt.Sprintf("order-%s", uuid.New().String()),
		SchoolID:    schoolID,
		BuyerUserID: buyerUserID,
		Status:      models.OrderStatusPending,
	}

	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}

		var price models.Price
		err := s.db.Where("school_id = ? AND is_active = ?", schoolID, true).
			First(&price, item.PriceID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("price %d: %w", item.PriceID, ErrNotFound)
			}
			return nil, err
		}

		order.Currency = price.Currency
		order.Items = append(order.Items, models.OrderItem{
			ProductType:      price.ProductType,
			ProductRefID:     price.ProductRefID,
			PriceAmountCents: price.AmountCents,
			Interval:         price.Interval,
			Quantity:         qty,
		})
	}
	order.TotalAmountCents = order.ItemsTotalCents()
	order.Payment = models.Payment{
		Provider: cfg.DefaultPaymentProvider,
		Status:   models.PaymentStatusPending,
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// activeSession returns the newest open checkout session for an order, if any
func (s *CheckoutService) activeSession(orderID uint) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	err := s.db.Where("order_id = ? AND is_active = ?", orderID, true).
		Order("created_at desc").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// InitiateCheckout opens a provider payment session for a PENDING order,
// reusing a still-pending session unless forceNew is set. When the gateway
// is unconfigured or errors at session creation, checkout degrades to the
// manual provider instead of failing the request; the order can then be
// confirmed through the manual/simulated path.
func (s *CheckoutService) InitiateCheckout(order *models.Order, forceNew bool, callbackURL string) (*CheckoutResult, error) {
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be checked out", ErrInvalidState)
	}

	if !s.midtransClient.Configured() {
		return s.manualFallback(order), nil
	}

	existing, err := s.activeSession(order.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		statusResp, err := s.midtransClient.CheckTransaction(existing.OrderNumber)
		if err == nil {
			switch statusResp.TransactionStatus {
			case "settlement", "capture":
				return nil, fmt.Errorf("%w: payment already made", ErrInvalidState)
			case "deny", "expire", "cancel", "failure":
				s.deactivateSession(existing)
			default: // pending at the provider
				if forceNew {
					s.midtransClient.CancelTransaction(existing.OrderNumber)
					s.deactivateSession(existing)
				} else {
					var midtransResp snap.Response
					if err := json.Unmarshal(existing.ResponseMetadata, &midtransResp); err == nil {
						return &CheckoutResult{
							Order:       order,
							Provider:    models.PaymentGatewayMidtrans,
							Token:       midtransResp.Token,
							RedirectURL: midtransResp.RedirectURL,
							IsExisting:  true,
						}, nil
					}
					// broken session payload, start over
					s.deactivateSession(existing)
				}
			}
		} else {
			// status check failed, assume the session is broken locally
			s.deactivateSession(existing)
		}
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderNumber,
			GrossAmt: order.TotalAmountCents,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.Buyer.Name,
			Email: order.Buyer.Email,
		},
		Callbacks: &snap.Callbacks{
			Finish: callbackURL,
		},
	}

	resp, err := s.midtransClient.CreateTransaction(order.OrderNumber, order.TotalAmountCents, req)
	if err != nil {
		log.Printf("Gateway session creation failed for %s, falling back to manual: %v", order.OrderNumber, err)
		return s.manualFallback(order), nil
	}

	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)

	session := models.CheckoutSession{
		SchoolID:         order.SchoolID,
		OrderID:          order.ID,
		Provider:         models.PaymentGatewayMidtrans,
		OrderNumber:      order.OrderNumber,
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	s.db.Create(&session)

	s.db.Model(&models.Payment{}).Where("order_id = ?", order.ID).
		Update("provider", models.PaymentGatewayMidtrans)

	return &CheckoutResult{
		Order:       order,
		Provider:    models.PaymentGatewayMidtrans,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		IsExisting:  false,
	}, nil
}

func (s *CheckoutService) manualFallback(order *models.Order) *CheckoutResult {
	s.db.Model(&models.Payment{}).Where("order_id = ?", order.ID).
		Update("provider", models.PaymentGatewayManual)
	return &CheckoutResult{
		Order:    order,
		Provider: models.PaymentGatewayManual,
	}
}

func (s *CheckoutService) deactivateSession(session *models.CheckoutSession) {
	session.IsActive = false
	s.db.Save(session)
}
