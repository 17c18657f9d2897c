package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"journeylink_app/internal/middleware"
	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
	"journeylink_app/internal/services"
	"journeylink_app/internal/views"
)

var cardMonths = []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}

// TripHandler handles trip booking, payment and tracking
type TripHandler struct {
	pages    *Pages
	trips    *services.TripService
	payments *services.PaymentService
	appURL   string
	now      func() time.Time
}

// NewTripHandler creates a new TripHandler. payments is nil when no database is configured.
func NewTripHandler(pages *Pages, trips *services.TripService, payments *services.PaymentService, appURL string) *TripHandler {
	return &TripHandler{pages: pages, trips: trips, payments: payments, appURL: appURL, now: time.Now}
}

// NewTrip renders the selection form
func (h *TripHandler) NewTrip(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteSeleccion, nil, selectionScreen(TripRequest{Class: models.TravelClasses[0]}))
}

func selectionScreen(req TripRequest) screenFunc {
	return func(p views.PageProps) (templ.Component, error) {
		return views.SeleccionPage(p, views.SeleccionForm{
			Origin:      req.Origin,
			Destination: req.Destination,
			DepartDate:  req.DepartDate,
			ReturnDate:  req.ReturnDate,
			Class:       req.Class,
		}), nil
	}
}

// CreateTrip saves the selected trip and continues to the confirmation screen
func (h *TripHandler) CreateTrip(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return h.pages.GoTo(c, navigation.RouteSeleccion, nil)
	}

	var req TripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid trip form")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return h.pages.Fail(c, validationMessage(err), selectionScreen(req))
	}
	if req.ReturnDate != "" && req.ReturnDate < req.DepartDate {
		return h.pages.Fail(c, "The return date must not be before the departure", selectionScreen(req))
	}

	trip, err := h.trips.Save(c.Request().Context(), session.UID, services.TripRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  req.DepartDate,
		ReturnDate:  req.ReturnDate,
		Class:       req.Class,
	})
	if err != nil {
		return err
	}
	slog.Info("trip saved", "trip", trip.ID, "uid", session.UID)
	return h.pages.GoTo(c, navigation.RouteConfirmacion, nil)
}

// ConfirmPage shows the latest trip for confirmation
func (h *TripHandler) ConfirmPage(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteConfirmacion, nil, func(p views.PageProps) (templ.Component, error) {
		trip, err := h.trips.Latest(c.Request().Context(), getStringFromContext(c, "userUID"))
		if err != nil {
			return nil, noTrips(err)
		}
		relation := trip.Relation
		if relation == "" {
			relation = models.CompanionRelations[0]
		}
		return views.ConfirmacionPage(p, views.ConfirmacionProps{Trip: trip, Relation: relation}), nil
	})
}

// ConfirmTrip records who the user travels with and continues to payment
func (h *TripHandler) ConfirmTrip(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return h.pages.GoTo(c, navigation.RouteConfirmacion, nil)
	}

	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid confirmation form")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}

	ctx := c.Request().Context()
	trip, err := h.trips.Get(ctx, session.UID, req.TripID)
	if err != nil {
		return err
	}
	if !slices.Contains(models.CompanionRelations, req.Relation) {
		return h.pages.Fail(c, "Please choose who you are travelling with", func(p views.PageProps) (templ.Component, error) {
			return views.ConfirmacionPage(p, views.ConfirmacionProps{Trip: trip}), nil
		})
	}

	if err := h.trips.Confirm(ctx, trip.ID, req.Relation); err != nil {
		return err
	}
	return h.pages.GoTo(c, navigation.RoutePago, nil)
}

// PaymentPage renders the card form for the latest trip
func (h *TripHandler) PaymentPage(c echo.Context) error {
	return h.pages.Show(c, navigation.RoutePago, nil, func(p views.PageProps) (templ.Component, error) {
		trip, err := h.trips.Latest(c.Request().Context(), getStringFromContext(c, "userUID"))
		if err != nil {
			return nil, noTrips(err)
		}
		return views.PagoPage(p, h.paymentProps(trip, CardRequest{})), nil
	})
}

func (h *TripHandler) paymentProps(trip models.Trip, req CardRequest) views.PagoProps {
	now := h.now()
	props := views.PagoProps{
		Trip:        trip,
		CardTypes:   services.CardTypes,
		Months:      cardMonths,
		Years:       services.CardYears(now),
		CardType:    req.CardType,
		Holder:      req.Holder,
		Month:       req.Month,
		Year:        req.Year,
		SnapEnabled: h.payments != nil && h.payments.GatewayEnabled(),
	}
	if props.Month == "" {
		props.Month = now.Format("01")
	}
	return props
}

// PayWithCard charges the card form and continues to tracking
func (h *TripHandler) PayWithCard(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return h.pages.GoTo(c, navigation.RoutePago, nil)
	}
	if h.payments == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Payments are not available right now")
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payment form")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}

	ctx := c.Request().Context()
	trip, err := h.trips.Get(ctx, session.UID, req.TripID)
	if err != nil {
		return err
	}

	_, err = h.payments.PayWithCard(ctx, trip, services.CardDetails{
		Type:   req.CardType,
		Holder: req.Holder,
		Number: req.Number,
		Month:  req.Month,
		Year:   req.Year,
		CVV:    req.CVV,
	})
	switch {
	case errors.Is(err, services.ErrInvalidCard):
		message := strings.TrimPrefix(err.Error(), services.ErrInvalidCard.Error()+": ")
		return h.pages.Fail(c, capitalize(message), func(p views.PageProps) (templ.Component, error) {
			return views.PagoPage(p, h.paymentProps(trip, req)), nil
		})
	case errors.Is(err, services.ErrAlreadyPaid):
		slog.Info("trip already paid", "trip", trip.ID)
	case err != nil:
		return err
	}
	return h.pages.GoTo(c, navigation.RouteSeguimiento, nil)
}

// PayWithSnap opens a Midtrans Snap transaction for the trip and returns its token
func (h *TripHandler) PayWithSnap(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}
	if h.payments == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, services.ErrGatewayDisabled.Error())
	}

	var req SnapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payment request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "trip_id is required")
	}

	ctx := c.Request().Context()
	trip, err := h.trips.Get(ctx, session.UID, req.TripID)
	if err != nil {
		return err
	}

	base := h.appURL
	if base == "" {
		base = appURLFromRequest(c)
	}
	callbackURL := base + views.Path(navigation.RouteSeguimiento) + "?trip=" + trip.ID
	result, err := h.payments.InitiatePayment(ctx, trip, session, req.ForceNew, callbackURL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyPaid):
			return c.JSON(http.StatusConflict, map[string]string{"message": "Payment is already made. Please check the status."})
		case errors.Is(err, services.ErrGatewayDisabled):
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to initiate payment").SetInternal(err)
	}

	if !middleware.WantsJSON(c) {
		return c.Redirect(http.StatusSeeOther, result.RedirectURL)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":        result.Token,
		"redirect_url": result.RedirectURL,
		"existing":     result.IsExisting,
	})
}

// MidtransNotification receives payment status callbacks from Midtrans
func (h *TripHandler) MidtransNotification(c echo.Context) error {
	if h.payments == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, services.ErrGatewayDisabled.Error())
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification body")
	}
	var n services.MidtransNotification
	if err := json.Unmarshal(raw, &n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification body")
	}

	if err := h.payments.HandleNotification(c.Request().Context(), n, raw); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process notification").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// TrackTrip shows the trip given by ?trip=, or the latest one
func (h *TripHandler) TrackTrip(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteSeguimiento, nil, func(p views.PageProps) (templ.Component, error) {
		ctx := c.Request().Context()
		uid := getStringFromContext(c, "userUID")

		var (
			trip models.Trip
			err  error
		)
		if id := c.QueryParam("trip"); id != "" {
			trip, err = h.trips.Get(ctx, uid, id)
		} else {
			trip, err = h.trips.Latest(ctx, uid)
		}
		if errors.Is(err, services.ErrNoTrips) {
			return views.SeguimientoPage(p, nil), nil
		}
		if err != nil {
			return nil, err
		}
		return views.SeguimientoPage(p, &trip), nil
	})
}

// History lists the user's trips, filtered by ?filter= and searched by ?q=
func (h *TripHandler) History(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteHistorial, nil, func(p views.PageProps) (templ.Component, error) {
		trips, err := h.trips.History(c.Request().Context(), getStringFromContext(c, "userUID"))
		if err != nil {
			return nil, err
		}

		filter := c.QueryParam("filter")
		switch filter {
		case services.TripFilterCurrent, services.TripFilterPast:
		default:
			filter = services.TripFilterAll
		}
		query := c.QueryParam("q")

		return views.HistorialPage(p, views.HistorialProps{
			Trips:  services.FilterTrips(trips, filter, query, h.now()),
			Filter: filter,
			Query:  query,
		}), nil
	})
}

// noTrips turns a missing trip into a 404 with a hint
func noTrips(err error) error {
	if errors.Is(err, services.ErrNoTrips) {
		return echo.NewHTTPError(http.StatusNotFound, "No saved trips. Plan a trip first.").SetInternal(err)
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// appURLFromRequest is used when APP_URL is not configured
func appURLFromRequest(c echo.Context) string {
	return fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host)
}
