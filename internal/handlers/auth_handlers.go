package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"journeylink_app/internal/middleware"
	"journeylink_app/internal/navigation"
	"journeylink_app/internal/services"
	"journeylink_app/internal/views"
)

// AuthHandler handles the sign-in, registration and verification screens
type AuthHandler struct {
	pages      *Pages
	identity   *services.IdentityService
	email      *services.EmailService
	companions *services.CompanionService
	secure     bool
}

// NewAuthHandler creates a new AuthHandler. identity is nil when Firebase is not configured.
func NewAuthHandler(pages *Pages, identity *services.IdentityService, email *services.EmailService, companions *services.CompanionService, secure bool) *AuthHandler {
	return &AuthHandler{pages: pages, identity: identity, email: email, companions: companions, secure: secure}
}

func (h *AuthHandler) Splash(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteSplash, nil, func(p views.PageProps) (templ.Component, error) {
		return views.SplashPage(p), nil
	})
}

func (h *AuthHandler) Main(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteMain, nil, func(p views.PageProps) (templ.Component, error) {
		return views.MainPage(p), nil
	})
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteLogin, nil, loginScreen(""))
}

func loginScreen(email string) screenFunc {
	return func(p views.PageProps) (templ.Component, error) {
		return views.LoginPage(p, views.LoginForm{Email: email}), nil
	}
}

// HandleLogin signs in with the e-mail form, or with a Firebase ID token in the
// Authorization header, and creates a session cookie
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		return h.loginWithToken(c, authHeader)
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login form")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return h.pages.Fail(c, validationMessage(err), loginScreen(req.Email))
	}
	if h.identity == nil {
		return h.pages.Fail(c, "Sign-in is not available right now", loginScreen(req.Email))
	}

	cookie, session, err := h.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		message := "Could not sign in, please try again"
		if errors.Is(err, services.ErrInvalidCredentials) {
			message = "Invalid email or password"
		} else {
			slog.Error("sign-in failed", "email", req.Email, "error", err)
		}
		return h.pages.Fail(c, message, loginScreen(req.Email))
	}

	h.startSession(c, cookie, session)
	return h.pages.GoTo(c, navigation.RouteVerify, nil, navigation.PopUpTo(navigation.RouteLogin, true))
}

func (h *AuthHandler) loginWithToken(c echo.Context, authHeader string) error {
	if h.identity == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Firebase not initialized",
		})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid authorization format",
		})
	}

	cookie, session, err := h.identity.Establish(c.Request().Context(), tokenString)
	if err != nil {
		slog.Debug("id token rejected", "error", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Invalid token",
		})
	}

	h.startSession(c, cookie, session)
	visit, err := middleware.NavigatorFrom(c).Navigate(navigation.RouteVerify, nil, navigation.PopUpTo(navigation.RouteLogin, true))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":   "success",
		"redirect": views.URL(visit.Route),
	})
}

func (h *AuthHandler) startSession(c echo.Context, cookie string, session *navigation.Session) {
	middleware.SetSessionCookie(c, cookie, h.identity.SessionTTL(), h.secure)
	middleware.PublishSession(c, session)
	slog.Info("signed in", "uid", session.UID)
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteRegister, nil, registerScreen(RegisterRequest{}))
}

func registerScreen(req RegisterRequest) screenFunc {
	return func(p views.PageProps) (templ.Component, error) {
		return views.RegisterPage(p, views.RegisterForm{Username: req.Username, Email: req.Email}), nil
	}
}

// HandleRegister creates the Firebase account and its companion profile, then signs in
func (h *AuthHandler) HandleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid registration form")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return h.pages.Fail(c, validationMessage(err), registerScreen(req))
	}
	if h.identity == nil {
		return h.pages.Fail(c, "Registration is not available right now", registerScreen(req))
	}

	cookie, session, err := h.identity.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			message = "This email is already registered"
		case errors.Is(err, services.ErrInvalidEmail):
			message = "Invalid email format"
		default:
			slog.Error("registration failed", "email", req.Email, "error", err)
			message = err.Error()
		}
		return h.pages.Fail(c, message, registerScreen(req))
	}

	if err := h.companions.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate companions cache", "error", err)
	}
	h.sendVerification(c, session.Email)

	h.startSession(c, cookie, session)
	return h.pages.GoTo(c, navigation.RoutePerfil, nil, navigation.PopUpTo(navigation.RouteRegister, true))
}

func (h *AuthHandler) VerifyPage(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteVerify, nil, h.verifyScreen(c))
}

func (h *AuthHandler) verifyScreen(c echo.Context) screenFunc {
	return func(p views.PageProps) (templ.Component, error) {
		email := ""
		if s := middleware.SessionFrom(c); s != nil {
			email = s.Email
		}
		return views.VerifyPage(p, email), nil
	}
}

// CheckVerification reloads the account and continues to Home once the e-mail is verified
func (h *AuthHandler) CheckVerification(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil || h.identity == nil {
		return h.pages.GoTo(c, navigation.RouteLogin, nil)
	}

	fresh, err := h.identity.Reload(c.Request().Context(), session.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Could not check your account, please try again").SetInternal(err)
	}
	middleware.PublishSession(c, fresh)

	if !fresh.EmailVerified {
		return h.pages.Fail(c, "Your e-mail is not verified yet", h.verifyScreen(c))
	}
	return h.pages.GoTo(c, navigation.RouteHome, nil, navigation.PopUpTo(navigation.RouteVerify, true))
}

// ResendVerification e-mails a new verification link
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil || h.identity == nil {
		return h.pages.GoTo(c, navigation.RouteLogin, nil)
	}
	if !h.sendVerification(c, session.Email) {
		return h.pages.Fail(c, "Could not send the verification e-mail", h.verifyScreen(c))
	}
	return h.pages.Notice(c, "Verification e-mail sent", h.verifyScreen(c))
}

func (h *AuthHandler) sendVerification(c echo.Context, email string) bool {
	if h.email == nil || !h.email.Enabled() {
		slog.Debug("verification e-mail skipped, SMTP not configured", "email", email)
		return false
	}
	link, err := h.identity.VerificationLink(c.Request().Context(), email)
	if err != nil {
		slog.Error("failed to create verification link", "email", email, "error", err)
		return false
	}
	if err := h.email.SendVerification(email, link); err != nil {
		slog.Error("failed to send verification e-mail", "email", email, "error", err)
		return false
	}
	return true
}

// HandleLogout revokes the session and leaves only the login screen on the stack.
// A failed revocation keeps the user signed in.
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	visit, err := middleware.NavigatorFrom(c).RequestLogout(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Could not log out, please try again").SetInternal(err)
	}

	middleware.ClearSessionCookie(c)
	middleware.PublishSession(c, nil)
	if err := middleware.ForgetNavigator(c); err != nil {
		slog.Warn("failed to release navigator after logout", "client", middleware.ClientID(c), "error", err)
	}
	return redirectTo(c, visit.Route)
}
