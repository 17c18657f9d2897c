package services

import (
	"crypto/sha512"
	"crypto/subtle"
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

	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}

	var s snap.Client
	s.New(serverKey, env)

	var c coreapi.Client
	c.New(serverKey, env)

	midtrans.ServerKey = serverKey
	midtrans.ClientKey = clientKey
	midtrans.Environment = env

	return &MidtransService{
		SnapClient: s,
		CoreClient: c,
		serverKey:  serverKey,
	}
}

// Enabled reports whether a server key was configured
func (s *MidtransService) Enabled() bool {
	return s != nil && s.serverKey != ""
}

// CreateTransaction creates a Snap transaction for the order
func (s *MidtransService) CreateTransaction(orderID string, amount int64, param *snap.Request) (*snap.Response, error) {
	if param == nil {
		param = &snap.Request{}
	}
	if param.TransactionDetails.OrderID == "" {
		param.TransactionDetails.OrderID = orderID
	}
	if param.TransactionDetails.GrossAmt == 0 {
		param.TransactionDetails.GrossAmt = amount
	}

	resp, merr := s.SnapClient.CreateTransaction(param)
	if merr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %w", merr)
	}
	return resp, nil
}

// CheckTransaction returns the gateway status of an order
func (s *MidtransService) CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, error) {
	resp, merr := s.CoreClient.CheckTransaction(orderID)
	if merr != nil {
		return nil, fmt.Errorf("midtrans check %s: %w", orderID, merr)
	}
	return resp, nil
}

// CancelTransaction cancels a pending order
func (s *MidtransService) CancelTransaction(orderID string) error {
	if _, merr := s.CoreClient.CancelTransaction(orderID); merr != nil {
		return fmt.Errorf("midtrans cancel %s: %w", orderID, merr)
	}
	return nil
}

// VerifySignature checks a notification's signature_key,
// SHA512(order_id + status_code + gross_amount + server key) in hex.
func (s *MidtransService) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	return verifyMidtransSignature(s.serverKey, orderID, statusCode, grossAmount, signatureKey)
}

func verifyMidtransSignature(serverKey, orderID, statusCode, grossAmount, signatureKey string) bool {
	if serverKey == "" || signatureKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}
