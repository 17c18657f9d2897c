package views

import (
	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"journeylink_app/internal/navigation"
)

func SplashPage(p PageProps) templ.Component {
	return Component(layout(p,
		h.Section(
			h.Class("splash"),
			h.H2(g.Text("JourneyLink")),
			h.P(g.Text("Find someone to travel with.")),
			linkButton(Path(navigation.RouteLogin), "Log in"),
			linkButton(Path(navigation.RouteRegister), "Create account"),
		),
	))
}

// LoginForm is re-rendered with the typed e-mail after a failed attempt
type LoginForm struct {
	Email string
}

func LoginPage(p PageProps, f LoginForm) templ.Component {
	return Component(layout(p,
		form("/auth/login",
			field("E-mail", "email", "email", f.Email, h.Required(), h.AutoComplete("username")),
			field("Password", "password", "password", "", h.Required(), h.AutoComplete("current-password")),
			submit("Log in"),
		),
		h.P(g.Text("No account yet? "), h.A(h.Href(Path(navigation.RouteRegister)), g.Text("Register"))),
	))
}

type RegisterForm struct {
	Username string
	Email    string
}

func RegisterPage(p PageProps, f RegisterForm) templ.Component {
	return Component(layout(p,
		form("/auth/register",
			field("Username", "username", "text", f.Username, h.Required()),
			field("E-mail", "email", "email", f.Email, h.Required()),
			field("Password", "password", "password", "", h.Required(), h.MinLength("6")),
			submit("Register"),
		),
		h.P(g.Text("Already registered? "), h.A(h.Href(Path(navigation.RouteLogin)), g.Text("Log in"))),
	))
}

func VerifyPage(p PageProps, email string) templ.Component {
	return Component(layout(p,
		h.P(g.Textf("We sent a verification link to %s. Open it, then continue.", email)),
		form("/verify/check", submit("I have verified my e-mail")),
		postButton("/verify/resend", "Send the link again", "button"),
	))
}
