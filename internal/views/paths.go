package views

import (
	"net/url"
	"strconv"

	"journeylink_app/internal/navigation"
)

var screenPaths = map[string]string{
	navigation.RouteSplash:       "/splash",
	navigation.RouteLogin:        "/login",
	navigation.RouteRegister:     "/register",
	navigation.RouteVerify:       "/verify",
	navigation.RouteMain:         "/main",
	navigation.RouteHome:         "/home",
	navigation.RouteSeleccion:    "/trips/new",
	navigation.RouteCompanions:   "/companions",
	navigation.RouteConfirmacion: "/trips/confirm",
	navigation.RoutePago:         "/trips/pay",
	navigation.RouteSeguimiento:  "/trips/track",
	navigation.RouteHistorial:    "/trips/history",
	navigation.RoutePerfil:       "/profile",
}

// Path returns the URL path of a parameterless screen, or "/" when unknown
func Path(name string) string {
	if p, ok := screenPaths[name]; ok {
		return p
	}
	return "/"
}

// URL returns the path that shows route r
func URL(r navigation.Route) string {
	if r.Name == navigation.RouteCompanionInfo {
		return CompanionURL(r.Param(navigation.ParamName, ""), r.Param(navigation.ParamRating, "0"))
	}
	return Path(r.Name)
}

// CompanionURL builds /companions/:name/:rating
func CompanionURL(name string, rating string) string {
	return "/companions/" + url.PathEscape(name) + "/" + url.PathEscape(rating)
}

// CompanionURLForStars is CompanionURL with an integer rating
func CompanionURLForStars(name string, stars int) string {
	return CompanionURL(name, strconv.Itoa(stars))
}
