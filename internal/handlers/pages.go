package handlers

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"journeylink_app/internal/middleware"
	"journeylink_app/internal/navigation"
	"journeylink_app/internal/services"
	"journeylink_app/internal/views"
)

var screenTitles = map[string]string{
	navigation.RouteSplash:       "JourneyLink",
	navigation.RouteLogin:        "Log in",
	navigation.RouteRegister:     "Create account",
	navigation.RouteVerify:       "Verify your e-mail",
	navigation.RouteMain:         "JourneyLink",
	navigation.RouteHome:         "Home",
	navigation.RouteSeleccion:    "Plan a trip",
	navigation.RouteCompanions:   "Companions",
	navigation.RouteConfirmacion: "Confirm trip",
	navigation.RoutePago:         "Payment",
	navigation.RouteSeguimiento:  "Tracking",
	navigation.RouteHistorial:    "Trip history",
	navigation.RoutePerfil:       "Profile",
}

func screenTitle(r navigation.Route) string {
	if r.Name == navigation.RouteCompanionInfo {
		return r.Param(navigation.ParamName, "Companion")
	}
	if title, ok := screenTitles[r.Name]; ok {
		return title
	}
	return r.Name
}

// screenFunc builds a page once the shared layout props are known
type screenFunc func(props views.PageProps) (templ.Component, error)

// Pages renders screens through the client's navigator with the shared page chrome
type Pages struct {
	prefs *services.PreferenceService
}

// NewPages creates the screen renderer. prefs may be nil when no database is configured.
func NewPages(prefs *services.PreferenceService) *Pages {
	return &Pages{prefs: prefs}
}

// Show makes the named route visible and renders it. When the navigator lands
// somewhere else, such as the login screen for a private route, the browser is
// redirected there instead.
func (p *Pages) Show(c echo.Context, name string, params navigation.Params, screen screenFunc) error {
	visit, err := visitScreen(middleware.NavigatorFrom(c), name, params)
	if err != nil {
		return err
	}
	if visit.Redirected() {
		return redirectTo(c, visit.Route)
	}
	return p.render(c, http.StatusOK, visit.Route, "", "", screen)
}

// Fail re-renders the visible screen with an inline error
func (p *Pages) Fail(c echo.Context, message string, screen screenFunc) error {
	return p.render(c, http.StatusUnprocessableEntity, visible(c), "", message, screen)
}

// Notice re-renders the visible screen with a confirmation message
func (p *Pages) Notice(c echo.Context, message string, screen screenFunc) error {
	return p.render(c, http.StatusOK, visible(c), message, "", screen)
}

// GoTo navigates after a successful form post and redirects to wherever the navigator landed
func (p *Pages) GoTo(c echo.Context, name string, params navigation.Params, opts ...navigation.NavigateOption) error {
	visit, err := middleware.NavigatorFrom(c).Navigate(name, params, opts...)
	if err != nil {
		return err
	}
	return redirectTo(c, visit.Route)
}

// Props fills the layout fields shared by every screen
func (p *Pages) Props(c echo.Context, route navigation.Route) views.PageProps {
	props := views.PageProps{
		Title:     screenTitle(route),
		ActiveNav: route.Name,
		UserEmail: getStringFromContext(c, "userEmail"),
	}

	if nav := middleware.NavigatorFrom(c); nav != nil {
		props.CanGoBack = nav.CanGoBack()
		stack := nav.BackStack()
		if len(stack) > 1 {
			for _, r := range stack {
				props.Breadcrumbs = append(props.Breadcrumbs, views.Breadcrumb{Title: screenTitle(r)})
			}
		}
	}

	uid := getStringFromContext(c, "userUID")
	if uid != "" && p.prefs != nil {
		pref, err := p.prefs.Get(c.Request().Context(), uid)
		if err != nil {
			slog.Warn("failed to load preferences", "uid", uid, "error", err)
		} else {
			props.DarkTheme = pref.DarkTheme
			props.Language = string(pref.Language)
		}
	}
	return props
}

func (p *Pages) render(c echo.Context, status int, route navigation.Route, flash, message string, screen screenFunc) error {
	props := p.Props(c, route)
	props.Flash = flash
	props.Error = message

	page, err := screen(props)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return page.Render(c.Request().Context(), c.Response())
}

// visitScreen treats a request for the entry just below the top as the browser's
// own back button, so history is popped rather than grown
func visitScreen(nav *navigation.Navigator, name string, params navigation.Params) (navigation.Visit, error) {
	stack := nav.BackStack()
	if len(stack) >= 2 {
		prev := stack[len(stack)-2]
		wanted := navigation.Route{Name: name, Params: params}
		if prev.Name == name && prev.String() == wanted.String() {
			if visit, ok := nav.Back(); ok {
				return visit, nil
			}
		}
	}
	return nav.Navigate(name, params)
}

func visible(c echo.Context) navigation.Route {
	return middleware.NavigatorFrom(c).Visible().Route
}

func redirectTo(c echo.Context, route navigation.Route) error {
	return c.Redirect(http.StatusSeeOther, views.URL(route))
}

// Helper to safely get string from context
func getStringFromContext(c echo.Context, key string) string {
	val := c.Get(key)
	if val == nil {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}
