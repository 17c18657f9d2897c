package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"journeylink_app/internal/navigation"
)

const (
	SessionCookieName = "session"
	ClientCookieName  = "nav_client"

	contextNavigator = "navigator"
	contextSession   = "session"
	contextClientID  = "navClientID"
	contextPublish   = "navPublish"
	contextForget    = "navForget"
)

// SessionVerifier checks a Firebase session cookie
type SessionVerifier interface {
	Session(ctx context.Context, cookie string) (*navigation.Session, error)
}

// NavigatorSource hands out the navigator of a browser client
type NavigatorSource interface {
	Acquire(ctx context.Context, clientID string, session *navigation.Session) (*navigation.Navigator, error)
	Publish(clientID string, session *navigation.Session)
	Save(ctx context.Context, clientID string) error
	Forget(ctx context.Context, clientID string) error
}

type NavigatorConfig struct {
	Skipper    echomw.Skipper
	Navigators NavigatorSource
	// Verifier may be nil when Firebase is not configured; every request is then anonymous
	Verifier  SessionVerifier
	Secure    bool
	ClientTTL time.Duration
}

// Navigator resolves the request's session from the session cookie, publishes it to the
// client's navigator and stores both in the context. The back stack is saved after the handler.
func Navigator(cfg NavigatorConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomw.DefaultSkipper
	}
	if cfg.ClientTTL == 0 {
		cfg.ClientTTL = 30 * 24 * time.Hour
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}
			ctx := c.Request().Context()

			clientID := clientIDFromCookie(c)
			if clientID == "" {
				clientID = uuid.NewString()
			}
			c.SetCookie(&http.Cookie{
				Name:     ClientCookieName,
				Value:    clientID,
				MaxAge:   int(cfg.ClientTTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				Path:     "/",
				SameSite: http.SameSiteLaxMode,
			})

			session := verifySession(c, cfg.Verifier)

			nav, err := cfg.Navigators.Acquire(ctx, clientID, session)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
			}

			c.Set(contextClientID, clientID)
			c.Set(contextNavigator, nav)
			setSession(c, session)
			c.Set(contextPublish, func(s *navigation.Session) {
				cfg.Navigators.Publish(clientID, s)
				setSession(c, s)
			})
			c.Set(contextForget, func() error {
				return cfg.Navigators.Forget(ctx, clientID)
			})

			err = next(c)

			if saveErr := cfg.Navigators.Save(ctx, clientID); saveErr != nil {
				slog.Warn("failed to save back stack", "client", clientID, "error", saveErr)
			}
			return err
		}
	}
}

func setSession(c echo.Context, s *navigation.Session) {
	c.Set(contextSession, s)
	if s == nil {
		c.Set("userUID", "")
		c.Set("userEmail", "")
		c.Set("userName", "")
		return
	}
	c.Set("userUID", s.UID)
	c.Set("userEmail", s.Email)
	c.Set("userName", s.DisplayName)
}

func clientIDFromCookie(c echo.Context) string {
	cookie, err := c.Cookie(ClientCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

func verifySession(c echo.Context, verifier SessionVerifier) *navigation.Session {
	if verifier == nil {
		return nil
	}
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := verifier.Session(c.Request().Context(), cookie.Value)
	if err != nil {
		slog.Debug("session cookie rejected", "error", err)
		ClearSessionCookie(c)
		return nil
	}
	return session
}

// SetSessionCookie stores the Firebase session cookie
func SetSessionCookie(c echo.Context, value string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
}

// NavigatorFrom returns the navigator set by the Navigator middleware
func NavigatorFrom(c echo.Context) *navigation.Navigator {
	nav, _ := c.Get(contextNavigator).(*navigation.Navigator)
	return nav
}

// SessionFrom returns the verified session of the request, or nil
func SessionFrom(c echo.Context) *navigation.Session {
	s, _ := c.Get(contextSession).(*navigation.Session)
	return s
}

// PublishSession announces a session obtained during the request, such as a fresh sign-in,
// to the client's navigator without waiting for the next request
func PublishSession(c echo.Context, s *navigation.Session) {
	if publish, ok := c.Get(contextPublish).(func(*navigation.Session)); ok {
		publish(s)
	}
}

// ForgetNavigator releases the client's navigator once the request is done with it,
// e.g. after logout. The saved back stack is kept.
func ForgetNavigator(c echo.Context) error {
	if forget, ok := c.Get(contextForget).(func() error); ok {
		return forget()
	}
	return nil
}

// ClientID returns the browser client ID of the request
func ClientID(c echo.Context) string {
	id, _ := c.Get(contextClientID).(string)
	return id
}
