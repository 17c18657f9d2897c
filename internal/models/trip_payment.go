package models

import (
	"time"

	"gorm.io/gorm"
)

// TripPayment records a completed payment for a trip
type TripPayment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	TripID         string         `gorm:"type:varchar(128);index" json:"trip_id"`
	UserUID        string         `gorm:"type:varchar(128);index" json:"user_uid"`
	TotalPay       float64        `gorm:"type:decimal(15,2)" json:"total_pay"`
	PaymentGateway PaymentGateway `gorm:"type:varchar(50)" json:"payment_gateway"`  // e.g., "midtrans", "manual"
	ChannelPayment string         `gorm:"type:varchar(100)" json:"channel_payment"` // e.g., "credit_card", "debit_card"
	CardLast4      string         `gorm:"type:varchar(4)" json:"card_last4"`
	PaymentDate    time.Time      `json:"payment_date"`
}
