package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"journeylink_app/internal/middleware"
	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
	"journeylink_app/internal/services"
	"journeylink_app/internal/views"
)

type ProfileHandler struct {
	pages      *Pages
	companions *services.CompanionService
	prefs      *services.PreferenceService
}

// NewProfileHandler creates the profile handler. prefs is nil when no database is configured.
func NewProfileHandler(pages *Pages, companions *services.CompanionService, prefs *services.PreferenceService) *ProfileHandler {
	return &ProfileHandler{pages: pages, companions: companions, prefs: prefs}
}

// Profile renders the signed-in user's profile and settings
func (h *ProfileHandler) Profile(c echo.Context) error {
	return h.pages.Show(c, navigation.RoutePerfil, nil, h.profileScreen(c, nil))
}

func (h *ProfileHandler) profileScreen(c echo.Context, submitted *models.UserPreference) screenFunc {
	return func(p views.PageProps) (templ.Component, error) {
		ctx := c.Request().Context()
		session := middleware.SessionFrom(c)
		if session == nil {
			return nil, echo.NewHTTPError(http.StatusUnauthorized)
		}

		profile, err := h.companions.Profile(ctx, session.UID)
		if errors.Is(err, services.ErrDocumentNotFound) {
			profile = models.Companion{ID: session.UID, Email: session.Email, Name: session.DisplayName}
		} else if err != nil {
			return nil, err
		}
		if profile.Name == "" {
			profile.Name = services.AuthorName(session.Email)
		}

		pref := models.DefaultPreference(session.UID)
		switch {
		case submitted != nil:
			pref = *submitted
		case h.prefs != nil:
			if pref, err = h.prefs.Get(ctx, session.UID); err != nil {
				return nil, err
			}
		}

		return views.PerfilPage(p, views.PerfilProps{
			Profile:    profile,
			Preference: pref,
			Verified:   session.EmailVerified,
		}), nil
	}
}

// SavePreferences stores the language, theme and reminder settings
func (h *ProfileHandler) SavePreferences(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return h.pages.GoTo(c, navigation.RoutePerfil, nil)
	}
	if h.prefs == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Settings cannot be saved right now")
	}

	var req PreferenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid settings form")
	}

	ctx := c.Request().Context()
	pref, err := h.prefs.Get(ctx, session.UID)
	if err != nil {
		return err
	}
	pref.Language = models.ParseLanguageTag(req.Language)
	pref.DarkTheme = req.DarkTheme
	pref.Channel = models.NotificationChannel(req.Channel)
	pref.WhatsappNumber = req.WhatsappNumber
	pref.WhatsappTargetType = models.WhatsappTargetTypePersonal

	if err := c.Validate(&req); err != nil {
		return h.pages.Fail(c, validationMessage(err), h.profileScreen(c, &pref))
	}
	if err := h.prefs.Save(ctx, &pref); err != nil {
		return err
	}
	return h.pages.GoTo(c, navigation.RoutePerfil, nil)
}

// NavigationHandler exposes the back stack to the browser
type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Root redirects to the client's visible screen
func (h *NavigationHandler) Root(c echo.Context) error {
	visit := middleware.NavigatorFrom(c).Reevaluate()
	return redirectTo(c, visit.Route)
}

// Back pops the visible screen. With a single screen left nothing changes.
func (h *NavigationHandler) Back(c echo.Context) error {
	visit, _ := middleware.NavigatorFrom(c).Back()
	return redirectTo(c, visit.Route)
}

// Stack returns the client's back stack, bottom first
func (h *NavigationHandler) Stack(c echo.Context) error {
	nav := middleware.NavigatorFrom(c)
	entries := make([]map[string]interface{}, 0)
	for _, r := range nav.BackStack() {
		entries = append(entries, map[string]interface{}{
			"route":  r.Name,
			"params": r.Params,
			"path":   views.URL(r),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stack":       entries,
		"can_go_back": nav.CanGoBack(),
		"signed_in":   middleware.SessionFrom(c) != nil,
	})
}
