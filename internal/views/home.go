package views

import (
	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"journeylink_app/internal/navigation"
)

// MainPage is the hub linking every screen
func MainPage(p PageProps) templ.Component {
	screens := []struct{ route, label string }{
		{navigation.RouteHome, "Home"},
		{navigation.RouteSeleccion, "Plan a trip"},
		{navigation.RouteCompanions, "Companions"},
		{navigation.RouteSeguimiento, "Track my trip"},
		{navigation.RouteHistorial, "Trip history"},
		{navigation.RoutePerfil, "Profile"},
	}
	return Component(layout(p,
		h.Ul(
			h.Class("menu"),
			g.Map(screens, func(s struct{ route, label string }) g.Node {
				return h.Li(h.A(h.Href(Path(s.route)), g.Text(s.label)))
			}),
		),
	))
}

type HomeProps struct {
	Greeting string
}

func HomePage(p PageProps, hp HomeProps) templ.Component {
	return Component(layout(p,
		h.Section(
			h.Class("hero"),
			h.H2(g.Textf("Hi %s, where are you going?", hp.Greeting)),
			linkButton(Path(navigation.RouteSeleccion), "Next"),
		),
	))
}
