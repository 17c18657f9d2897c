package views

import (
	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type ErrorPageProps struct {
	Code     int
	Title    string
	Message  string
	BackLink string
	BackText string
}

func ErrorPage(p PageProps, ep ErrorPageProps) templ.Component {
	backLink, backText := ep.BackLink, ep.BackText
	if backLink == "" {
		backLink, backText = "/", "Go home"
	}
	return Component(layout(p,
		h.Section(
			h.Class("error"),
			h.P(h.Class("code"), g.Textf("%d", ep.Code)),
			h.H2(g.Text(ep.Title)),
			h.P(g.Text(ep.Message)),
			linkButton(backLink, backText),
		),
	))
}
