package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCard wraps every card form validation failure
var ErrInvalidCard = errors.New("invalid card")

// CardTypes are the options offered on the payment screen
var CardTypes = []string{"Credit card", "Debit card", "New card"}

// CardDetails is the card form of the payment screen
type CardDetails struct {
	Type   string
	Holder string
	Number string
	Month  string
	Year   string
	CVV    string
}

// CardYears returns the expiry years offered on the payment screen
func CardYears(now time.Time) []string {
	years := make([]string, 0, 7)
	for y := now.Year(); y <= now.Year()+6; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// Last4 returns the last four digits of the card number
func (c CardDetails) Last4() string {
	digits := cardDigits(c.Number)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Channel is the payment channel recorded for the card type
func (c CardDetails) Channel() string {
	if c.Type == "Debit card" {
		return "debit_card"
	}
	return "credit_card"
}

// ValidateCard checks the card form; the returned error wraps ErrInvalidCard
func ValidateCard(c CardDetails, now time.Time) error {
	if !contains(CardTypes, c.Type) {
		return fmt.Errorf("%w: choose a card type", ErrInvalidCard)
	}
	if strings.TrimSpace(c.Holder) == "" {
		return fmt.Errorf("%w: card holder is required", ErrInvalidCard)
	}

	digits := cardDigits(c.Number)
	if len(digits) < 12 || len(digits) > 19 || digits != strings.NewReplacer(" ", "", "-", "").Replace(c.Number) {
		return fmt.Errorf("%w: card number must have 12 to 19 digits", ErrInvalidCard)
	}
	if !luhn(digits) {
		return fmt.Errorf("%w: card number is not valid", ErrInvalidCard)
	}

	month, err := strconv.Atoi(c.Month)
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("%w: choose an expiry month", ErrInvalidCard)
	}
	if !contains(CardYears(now), c.Year) {
		return fmt.Errorf("%w: choose an expiry year", ErrInvalidCard)
	}
	year, _ := strconv.Atoi(c.Year)
	if year == now.Year() && month < int(now.Month()) {
		return fmt.Errorf("%w: card has expired", ErrInvalidCard)
	}

	if len(c.CVV) < 3 || len(c.CVV) > 4 || cardDigits(c.CVV) != c.CVV {
		return fmt.Errorf("%w: CVV must be 3 or 4 digits", ErrInvalidCard)
	}
	return nil
}

func cardDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
