package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

func (r *RegisterRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// TripRequest is the selection form. Dates come from <input type="date">.
type TripRequest struct {
	Origin      string `form:"origin" validate:"required"`
	Destination string `form:"destination" validate:"required"`
	DepartDate  string `form:"depart_date" validate:"required,datetime=2006-01-02"`
	ReturnDate  string `form:"return_date" validate:"omitempty,datetime=2006-01-02"`
	Class       string `form:"class" validate:"required,oneof=Económica Premium Business Primera"`
}

func (r *TripRequest) normalize() {
	r.Origin = strings.TrimSpace(r.Origin)
	r.Destination = strings.TrimSpace(r.Destination)
}

type ConfirmRequest struct {
	TripID   string `form:"trip_id" validate:"required"`
	Relation string `form:"relation" validate:"required"`
}

type CardRequest struct {
	TripID   string `form:"trip_id" validate:"required"`
	CardType string `form:"card_type"`
	Holder   string `form:"holder"`
	Number   string `form:"number"`
	Month    string `form:"month"`
	Year     string `form:"year"`
	CVV      string `form:"cvv"`
}

type SnapRequest struct {
	TripID   string `form:"trip_id" json:"trip_id" validate:"required"`
	ForceNew bool   `form:"force_new" json:"force_new"`
}

type CommentRequest struct {
	Content string `form:"content" validate:"max=500"`
}

type PreferenceRequest struct {
	Language       string `form:"language" validate:"omitempty,oneof=system es en"`
	DarkTheme      bool   `form:"dark_theme"`
	Channel        string `form:"channel" validate:"required,oneof=email whatsapp none"`
	WhatsappNumber string `form:"whatsapp_number" validate:"required_if=Channel whatsapp,max=20"`
}

// validationMessage turns the first failed rule into the message shown on the form
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form and try again"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "Please fill in all fields"
	case "required_if":
		return "A WhatsApp number is required for WhatsApp reminders"
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Field() == "Password" {
			return "Password must be at least 6 characters"
		}
	case "datetime":
		return "Dates must use the YYYY-MM-DD format"
	case "oneof":
		return "Please choose a valid " + strings.ToLower(fe.Field())
	case "max":
		if fe.Field() == "Content" {
			return "Your comment is too long"
		}
		return "Invalid WhatsApp number"
	}
	return "Invalid value for " + strings.ToLower(fe.Field())
}
