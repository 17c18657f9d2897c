package views

import (
	"strings"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"journeylink_app/internal/models"
)

type CompanionsProps struct {
	Featured   *models.Companion
	Companions []models.Companion
}

func CompanionsPage(p PageProps, cp CompanionsProps) templ.Component {
	return Component(layout(p,
		g.Iff(cp.Featured != nil, func() g.Node {
			return h.Section(
				h.Class("featured"),
				h.H2(g.Text("Top rated")),
				companionCard(*cp.Featured),
			)
		}),
		g.If(len(cp.Companions) == 0, h.P(g.Text("No companions yet."))),
		h.Ul(
			h.Class("companions"),
			g.Map(cp.Companions, func(c models.Companion) g.Node {
				return h.Li(companionCard(c))
			}),
		),
	))
}

func companionCard(c models.Companion) g.Node {
	return h.A(
		h.Class("card companion"),
		h.Href(CompanionURLForStars(c.Name, c.Stars())),
		h.Strong(g.Text(c.Name)),
		h.Span(h.Class("stars"), g.Text(stars(c.Stars()))),
	)
}

func stars(n int) string {
	n = min(max(n, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

type CompanionInfoProps struct {
	Name     string
	Rating   int
	Comments []models.Comment
	ViewerID string
}

func CompanionInfoPage(p PageProps, cp CompanionInfoProps) templ.Component {
	base := CompanionURLForStars(cp.Name, cp.Rating)
	return Component(layout(p,
		h.Section(
			h.Class("companion-info"),
			h.H2(g.Text(cp.Name)),
			h.P(h.Class("stars"), g.Text(stars(cp.Rating))),
		),
		h.Section(
			h.Class("comments"),
			h.H2(g.Textf("Comments (%d)", len(cp.Comments))),
			g.If(len(cp.Comments) == 0, h.P(g.Text("Be the first to leave a comment."))),
			h.Ul(g.Map(cp.Comments, func(c models.Comment) g.Node {
				label := "♡"
				if c.IsLikedBy(cp.ViewerID) {
					label = "♥"
				}
				return h.Li(
					h.Class("comment"),
					h.Strong(g.Text(c.Author)),
					h.P(g.Text(c.Content)),
					form(base+"/comments/"+c.ID+"/like",
						h.Button(h.Type("submit"), h.Class("like"), g.Textf("%s %d", label, c.Likes)),
					),
				)
			})),
			form(base+"/comments",
				h.Div(
					h.Class("field"),
					g.El("label", h.For("content"), g.Text("Your comment")),
					h.Textarea(h.ID("content"), h.Name("content"), h.Required()),
				),
				submit("Post"),
			),
		),
	))
}
