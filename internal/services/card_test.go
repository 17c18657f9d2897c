package services

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"journeylink_app/internal/models"
)

func TestValidateCard(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	valid := CardDetails{
		Type:   "Credit card",
		Holder: "Ana García",
		Number: "4111 1111 1111 1111",
		Month:  "09",
		Year:   "2027",
		CVV:    "123",
	}

	tests := []struct {
		name   string
		modify func(c *CardDetails)
		reason string
	}{
		{name: "valid", modify: func(c *CardDetails) {}},
		{name: "amex cvv", modify: func(c *CardDetails) { c.CVV = "1234" }},
		{name: "unknown type", modify: func(c *CardDetails) { c.Type = "Gift card" }, reason: "card type"},
		{name: "blank holder", modify: func(c *CardDetails) { c.Holder = " " }, reason: "holder"},
		{name: "letters in number", modify: func(c *CardDetails) { c.Number = "4111 1111 1111 111a" }, reason: "12 to 19 digits"},
		{name: "too short", modify: func(c *CardDetails) { c.Number = "4111" }, reason: "12 to 19 digits"},
		{name: "fails luhn", modify: func(c *CardDetails) { c.Number = "4111111111111112" }, reason: "not valid"},
		{name: "month 13", modify: func(c *CardDetails) { c.Month = "13" }, reason: "month"},
		{name: "year not offered", modify: func(c *CardDetails) { c.Year = "2019" }, reason: "year"},
		{name: "expired this year", modify: func(c *CardDetails) { c.Year = "2026"; c.Month = "05" }, reason: "expired"},
		{name: "short cvv", modify: func(c *CardDetails) { c.CVV = "12" }, reason: "CVV"},
		{name: "letters in cvv", modify: func(c *CardDetails) { c.CVV = "12a" }, reason: "CVV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := valid
			tt.modify(&card)
			err := ValidateCard(card, now)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidCard)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestCardDetailsHelpers(t *testing.T) {
	c := CardDetails{Type: "Debit card", Number: "5555-5555-5555-4444"}
	assert.Equal(t, "4444", c.Last4())
	assert.Equal(t, "debit_card", c.Channel())
	assert.Equal(t, "credit_card", CardDetails{Type: "New card"}.Channel())

	years := CardYears(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026", years[0])
	assert.Equal(t, "2032", years[len(years)-1])
}

func TestVerifyMidtransSignature(t *testing.T) {
	sum := sha512.Sum512([]byte("trip-1" + "200" + "30500.00" + "server-key"))
	signature := hex.EncodeToString(sum[:])

	assert.True(t, verifyMidtransSignature("server-key", "trip-1", "200", "30500.00", signature))
	assert.False(t, verifyMidtransSignature("server-key", "trip-1", "200", "1.00", signature))
	assert.False(t, verifyMidtransSignature("", "trip-1", "200", "30500.00", signature))
	assert.False(t, verifyMidtransSignature("server-key", "trip-1", "200", "30500.00", ""))
}

func TestTripAmount(t *testing.T) {
	amount, err := tripAmount(models.Trip{ID: "t1", Price: "30500"})
	assert.NoError(t, err)
	assert.Equal(t, int64(30500), amount)

	_, err = tripAmount(models.Trip{ID: "t1", Price: "free"})
	assert.Error(t, err)
}
