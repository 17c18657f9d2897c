package views

import (
	"strings"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
)

type PerfilProps struct {
	Profile    models.Companion
	Preference models.UserPreference
	Verified   bool
}

func PerfilPage(p PageProps, pp PerfilProps) templ.Component {
	initial := "?"
	if r := []rune(pp.Profile.Name); len(r) > 0 {
		initial = strings.ToUpper(string(r[0]))
	}
	pref := pp.Preference
	languages := []models.LanguageTag{models.LanguageSystem, models.LanguageSpanish, models.LanguageEnglish}
	channels := []models.NotificationChannel{models.NotificationChannelEmail, models.NotificationChannelWhatsapp, models.NotificationChannelNone}

	return Component(layout(p,
		h.Section(
			h.Class("profile"),
			h.Span(h.Class("avatar"), g.Text(initial)),
			h.H2(g.Text(pp.Profile.Name)),
			h.P(g.Text(pp.Profile.Email)),
			h.P(h.Class("stars"), g.Text(stars(pp.Profile.Stars()))),
			g.If(!pp.Verified, h.P(h.Class("warning"), g.Text("E-mail not verified yet."))),
			linkButton(Path(navigation.RouteHistorial), "Trip history"),
		),
		h.Section(
			h.Class("settings"),
			h.H2(g.Text("Settings")),
			form("/profile/preferences",
				h.Div(
					h.Class("field"),
					g.El("label", h.For("language"), g.Text("Language")),
					h.Select(h.ID("language"), h.Name("language"),
						g.Map(languages, func(l models.LanguageTag) g.Node {
							return h.Option(h.Value(string(l)), g.If(l == pref.Language, h.Selected()), g.Text(l.DisplayName()))
						}),
					),
				),
				h.Div(
					h.Class("field"),
					g.El("label", h.For("dark_theme"),
						h.Input(h.ID("dark_theme"), h.Type("checkbox"), h.Name("dark_theme"), h.Value("true"), g.If(pref.DarkTheme, h.Checked())),
						g.Text(" Dark theme"),
					),
				),
				h.Div(
					h.Class("field"),
					g.El("label", h.For("channel"), g.Text("Reminders by")),
					h.Select(h.ID("channel"), h.Name("channel"),
						g.Map(channels, func(c models.NotificationChannel) g.Node {
							return h.Option(h.Value(string(c)), g.If(c == pref.Channel, h.Selected()), g.Text(string(c)))
						}),
					),
				),
				field("WhatsApp number", "whatsapp_number", "tel", pref.WhatsappNumber),
				submit("Save"),
			),
		),
		postButton("/auth/logout", "Log out", "button danger"),
	))
}
