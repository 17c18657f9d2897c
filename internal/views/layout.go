package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"journeylink_app/internal/navigation"
)

// Breadcrumb is one step of the trail shown above the page title
type Breadcrumb struct {
	Title string
	URL   string
}

// PageProps is the data every page layout needs
type PageProps struct {
	Title       string
	ActiveNav   string
	Breadcrumbs []Breadcrumb
	UserEmail   string
	CanGoBack   bool
	DarkTheme   bool
	Language    string
	Flash       string
	Error       string
}

func layout(p PageProps, content ...g.Node) g.Node {
	lang := p.Language
	if lang == "" || lang == "system" {
		lang = "es"
	}
	theme := "theme-light"
	if p.DarkTheme {
		theme = "theme-dark"
	}

	return h.Doctype(
		h.HTML(
			h.Lang(lang),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				g.El("title", g.Text(p.Title+" · JourneyLink")),
				h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
			),
			h.Body(
				h.Class(theme),
				header(p),
				h.Main(
					h.Class("content"),
					g.If(p.Flash != "", h.P(h.Class("flash flash-success"), g.Text(p.Flash))),
					g.If(p.Error != "", h.P(h.Class("flash flash-error"), h.Role("alert"), g.Text(p.Error))),
					g.Group(content),
				),
				g.If(p.UserEmail != "", bottomBar(p.ActiveNav)),
			),
		),
	)
}

func header(p PageProps) g.Node {
	return h.Header(
		h.Class("topbar"),
		g.If(p.CanGoBack, postButton("/back", "←", "back")),
		h.H1(g.Text(p.Title)),
		g.If(len(p.Breadcrumbs) > 0, h.Nav(
			h.Class("breadcrumbs"),
			g.Map(p.Breadcrumbs, func(b Breadcrumb) g.Node {
				if b.URL == "" {
					return h.Span(g.Text(b.Title))
				}
				return h.A(h.Href(b.URL), g.Text(b.Title))
			}),
		)),
	)
}

func bottomBar(active string) g.Node {
	item := func(route, label string) g.Node {
		cls := "nav-item"
		if route == active {
			cls += " active"
		}
		return h.A(h.Class(cls), h.Href(Path(route)), g.Text(label))
	}
	return h.Nav(
		h.Class("bottombar"),
		item(navigation.RouteSeguimiento, "Map"),
		item(navigation.RouteCompanions, "Add"),
		item(navigation.RoutePerfil, "Profile"),
	)
}

func form(action string, children ...g.Node) g.Node {
	return g.El("form", h.Method("post"), h.Action(action), g.Group(children))
}

func postButton(action, label, class string) g.Node {
	return form(action, h.Button(h.Type("submit"), h.Class(class), g.Text(label)))
}

func field(label, name, inputType, value string, extra ...g.Node) g.Node {
	return h.Div(
		h.Class("field"),
		g.El("label", h.For(name), g.Text(label)),
		h.Input(h.ID(name), h.Name(name), h.Type(inputType), h.Value(value), g.Group(extra)),
	)
}

func selectField(label, name string, options []string, selected string) g.Node {
	return h.Div(
		h.Class("field"),
		g.El("label", h.For(name), g.Text(label)),
		h.Select(
			h.ID(name), h.Name(name),
			h.Option(h.Value(""), g.Text("Select…")),
			g.Map(options, func(o string) g.Node {
				return h.Option(h.Value(o), g.If(o == selected, h.Selected()), g.Text(o))
			}),
		),
	)
}

func linkButton(href, label string) g.Node {
	return h.A(h.Class("button"), h.Href(href), g.Text(label))
}

func submit(label string) g.Node {
	return h.Button(h.Type("submit"), h.Class("button primary"), g.Text(label))
}
