package services

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

type MidtransService struct {
	SnapClient snap.Client
	CoreClient coreapi.Client
	serverKey  string
}

func NewMidtransService() *MidtransService {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	clientKey := os.Getenv("MIDTRANS_CLIENT_KEY")
	envStr := os.Getenv("MIDTRANS_IS_PRODUCTION")

	env := midtrans.Sandbox
	if envStr == "true" {
		env = midtrans.Production
	}

	var s snap.Client
	s.New(serverKey, env)

	var c coreapi.Client
	c.New(serverKey, env)

	// Set Default Options
	midtrans.ServerKey = serverKey
	midtrans.ClientKey = clientKey
	midtrans.Environment = env

	return &MidtransService{
		SnapClient: s,
		CoreClient: c,
		serverKey:  serverKey,
	}
}

// Configured reports whether a server key is present. Without one the
// checkout flow falls back to the manual provider.
func (s *MidtransService) Configured() bool {
	return s.serverKey != ""
}

// CreateTransaction creates a Snap transaction and returns the redirect URL and token
func (s *MidtransService) CreateTransaction(orderNumber string, amount int64, param *snap.Request) (*snap.Response, error) {
	if param == nil {
		param = &snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  orderNumber,
				GrossAmt: amount,
			},
		}
	} else {
		if param.TransactionDetails.OrderID == "" {
			param.TransactionDetails.OrderID = orderNumber
		}
		if param.TransactionDetails.GrossAmt == 0 {
			param.TransactionDetails.GrossAmt = amount
		}
	}

	resp, err := s.SnapClient.CreateTransaction(param)
	if err != nil {
		return nil, fmt.Errorf("midtrans create transaction error: %v", err)
	}

	return resp, nil
}

// CheckTransaction fetches the provider-side status of a transaction
func (s *MidtransService) CheckTransaction(orderNumber string) (*coreapi.TransactionStatusResponse, error) {
	resp, err := s.CoreClient.CheckTransaction(orderNumber)
	if err != nil {
		return nil, fmt.Errorf("midtrans check transaction error: %v", err)
	}
	return resp, nil
}

// CancelTransaction cancels a pending transaction at the provider
func (s *MidtransService) CancelTransaction(orderNumber string) error {
	_, err := s.CoreClient.CancelTransaction(orderNumber)
	if err != nil {
		return fmt.Errorf("midtrans cancel transaction error: %v", err)
	}
	return nil
}

// RefundTransaction issues a refund of amountCents against a settled
// transaction. Midtrans accepts direct refunds only for settled payments,
// which matches the PAID-only precondition of the refund service.
func (s *MidtransService) RefundTransaction(orderNumber string, amount int64, reason string) error {
	req := &coreapi.RefundReq{
		Amount: amount,
		Reason: reason,
	}
	_, err := s.CoreClient.RefundTransaction(orderNumber, req)
	if err != nil {
		return fmt.Errorf("midtrans refund error: %v", err)
	}
	return nil
}

// VerifySignature checks a notification's signature_key:
// SHA512(order_id + status_code + gross_amount + server key)
func (s *MidtransService) VerifySignature(orderNumber, statusCode, grossAmount, signatureKey string) bool {
	sum := sha512.Sum512([]byte(orderNumber + statusCode + grossAmount + s.serverKey))
	return hex.EncodeToString(sum[:]) == signatureKey
}
