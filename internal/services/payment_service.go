package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
)

var (
	ErrAlreadyPaid      = errors.New("payment already made")
	ErrInvalidSignature = errors.New("invalid notification signature")
	ErrGatewayDisabled  = errors.New("payment gateway is not configured")
)

// PaidHook runs after a trip has been paid, by card or through the gateway
type PaidHook func(ctx context.Context, trip models.Trip) error

type PaymentService struct {
	db             *gorm.DB
	midtransClient *MidtransService
	trips          *TripService
	onPaid         PaidHook
	now            func() time.Time
}

func NewPaymentService(db *gorm.DB, midtransClient *MidtransService, trips *TripService) *PaymentService {
	return &PaymentService{
		db:             db,
		midtransClient: midtransClient,
		trips:          trips,
		now:            time.Now,
	}
}

// OnPaid sets the hook run after a successful payment
func (s *PaymentService) OnPaid(hook PaidHook) {
	s.onPaid = hook
}

// GatewayEnabled reports whether Snap payments can be offered
func (s *PaymentService) GatewayEnabled() bool {
	return s.midtransClient != nil && s.midtransClient.Enabled()
}

// CheckActiveSession returns the open gateway session of a trip, or nil
func (s *PaymentService) CheckActiveSession(tripID string) (*models.PaymentSession, error) {
	var existing models.PaymentSession
	err := s.db.Where("trip_id = ? AND is_active = ?", tripID, true).Order("created_at desc").First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// InitiatePaymentResult holds the result of an initiation attempt
type InitiatePaymentResult struct {
	Token       string
	RedirectURL string
	IsExisting  bool
}

// InitiatePayment starts a Snap transaction for the trip or resumes the pending one.
// forceNew cancels a pending transaction and opens a fresh one.
func (s *PaymentService) InitiatePayment(ctx context.Context, trip models.Trip, customer *navigation.Session, forceNew bool, callbackURL string) (*InitiatePaymentResult, error) {
	if !s.midtransClient.Enabled() {
		return nil, ErrGatewayDisabled
	}

	existing, err := s.CheckActiveSession(trip.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if result, err := s.resume(existing, forceNew); result != nil || err != nil {
			return result, err
		}
	}

	amount, err := tripAmount(trip)
	if err != nil {
		return nil, err
	}

	orderID := "trip-" + uuid.NewString()
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    trip.ID,
				Name:  trip.Name(),
				Price: amount,
				Qty:   1,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: callbackURL,
		},
	}
	if customer != nil {
		req.CustomerDetail = &midtrans.CustomerDetails{
			FName: customer.DisplayName,
			Email: customer.Email,
		}
	}

	resp, err := s.midtransClient.CreateTransaction(orderID, amount, req)
	if err != nil {
		return nil, err
	}

	reqBytes, _ := json.Marshal(req)
	respBytes, _ := json.Marshal(resp)

	session := models.PaymentSession{
		TripID:           trip.ID,
		UserUID:          trip.UserUID,
		PaymentGateway:   models.PaymentGatewayMidtrans,
		OrderID:          orderID,
		Amount:           amount,
		IsActive:         true,
		RequestMetadata:  reqBytes,
		ResponseMetadata: respBytes,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("save payment session: %w", err)
	}

	return &InitiatePaymentResult{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// resume decides what to do with an open session; a nil result means create a new one
func (s *PaymentService) resume(existing *models.PaymentSession, forceNew bool) (*InitiatePaymentResult, error) {
	status, err := s.midtransClient.CheckTransaction(existing.OrderID)
	if err != nil {
		slog.Warn("payment session check failed, opening a new one", "order_id", existing.OrderID, "error", err)
		s.deactivate(existing)
		return nil, nil
	}

	switch status.TransactionStatus {
	case "settlement", "capture":
		return nil, ErrAlreadyPaid
	case "deny", "expire", "cancel", "failure":
		s.deactivate(existing)
		return nil, nil
	}

	if forceNew {
		if err := s.midtransClient.CancelTransaction(existing.OrderID); err != nil {
			slog.Warn("failed to cancel pending transaction", "order_id", existing.OrderID, "error", err)
		}
		s.deactivate(existing)
		return nil, nil
	}

	var previous snap.Response
	if err := json.Unmarshal(existing.ResponseMetadata, &previous); err != nil {
		s.deactivate(existing)
		return nil, nil
	}
	return &InitiatePaymentResult{
		Token:       previous.Token,
		RedirectURL: previous.RedirectURL,
		IsExisting:  true,
	}, nil
}

func (s *PaymentService) deactivate(session *models.PaymentSession) {
	session.IsActive = false
	if err := s.db.Save(session).Error; err != nil {
		slog.Error("failed to deactivate payment session", "order_id", session.OrderID, "error", err)
	}
}

// PayWithCard records a card payment for the trip and marks it paid
func (s *PaymentService) PayWithCard(ctx context.Context, trip models.Trip, card CardDetails) (*models.TripPayment, error) {
	now := s.now()
	if err := ValidateCard(card, now); err != nil {
		return nil, err
	}
	if trip.Status == models.TripStatusPaid {
		return nil, ErrAlreadyPaid
	}

	amount, err := tripAmount(trip)
	if err != nil {
		return nil, err
	}

	payment := models.TripPayment{
		TripID:         trip.ID,
		UserUID:        trip.UserUID,
		TotalPay:       float64(amount),
		PaymentGateway: models.PaymentGatewayManual,
		ChannelPayment: card.Channel(),
		CardLast4:      card.Last4(),
		PaymentDate:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session := models.PaymentSession{
			TripID:         trip.ID,
			UserUID:        trip.UserUID,
			PaymentGateway: models.PaymentGatewayManual,
			OrderID:        "card-" + uuid.NewString(),
			Amount:         amount,
			IsActive:       false,
		}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record card payment: %w", err)
	}

	if err := s.markPaid(ctx, trip); err != nil {
		return nil, err
	}
	return &payment, nil
}

// MidtransNotification is the body of a Midtrans HTTP notification
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

// HandleNotification records a gateway notification and settles the trip when paid.
// Every notification is kept in the callback history, valid or not.
func (s *PaymentService) HandleNotification(ctx context.Context, n MidtransNotification, raw []byte) error {
	valid := s.midtransClient.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey)

	history := models.PaymentCallbackHistory{
		PaymentGateway:    models.PaymentGatewayMidtrans,
		OrderID:           n.OrderID,
		TransactionStatus: n.TransactionStatus,
		SignatureValid:    valid,
		Metadata:          raw,
	}
	if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
		slog.Error("failed to record payment callback", "order_id", n.OrderID, "error", err)
	}

	if !valid {
		return ErrInvalidSignature
	}

	var session models.PaymentSession
	if err := s.db.WithContext(ctx).Where("order_id = ?", n.OrderID).First(&session).Error; err != nil {
		return fmt.Errorf("payment session %s: %w", n.OrderID, err)
	}

	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus != "" && n.FraudStatus != "accept" {
			return nil
		}
		return s.settle(ctx, &session, n)
	case "settlement":
		return s.settle(ctx, &session, n)
	case "deny", "expire", "cancel", "failure":
		s.deactivate(&session)
	}
	return nil
}

func (s *PaymentService) settle(ctx context.Context, session *models.PaymentSession, n MidtransNotification) error {
	if !session.IsActive {
		return nil
	}
	s.deactivate(session)

	payment := models.TripPayment{
		TripID:         session.TripID,
		UserUID:        session.UserUID,
		TotalPay:       float64(session.Amount),
		PaymentGateway: models.PaymentGatewayMidtrans,
		ChannelPayment: n.PaymentType,
		PaymentDate:    s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return fmt.Errorf("record gateway payment: %w", err)
	}

	trip, err := s.trips.Get(ctx, session.UserUID, session.TripID)
	if err != nil {
		return err
	}
	return s.markPaid(ctx, trip)
}

func (s *PaymentService) markPaid(ctx context.Context, trip models.Trip) error {
	if err := s.trips.MarkPaid(ctx, trip.ID); err != nil {
		return fmt.Errorf("mark trip paid: %w", err)
	}
	trip.Status = models.TripStatusPaid

	if s.onPaid != nil {
		if err := s.onPaid(ctx, trip); err != nil {
			slog.Error("post-payment hook failed", "trip_id", trip.ID, "error", err)
		}
	}
	return nil
}

func tripAmount(trip models.Trip) (int64, error) {
	amount, err := strconv.ParseInt(trip.Price, 10, 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("trip %s has no valid price %q", trip.ID, trip.Price)
	}
	return amount, nil
}
