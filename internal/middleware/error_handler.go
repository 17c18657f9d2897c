package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"journeylink_app/internal/navigation"
	"journeylink_app/internal/services"
	"journeylink_app/internal/views"
)

// CustomErrorHandler renders errors as an HTML error page, or JSON for API clients
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, title, message := describe(err)

	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
	} else {
		slog.Debug("request rejected", "path", c.Request().URL.Path, "code", code, "error", err)
	}

	if WantsJSON(c) {
		if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
			slog.Error("failed to write error response", "error", jsonErr)
		}
		return
	}

	email := ""
	if s := SessionFrom(c); s != nil {
		email = s.Email
	}
	props := views.PageProps{
		Title:     title,
		UserEmail: email,
		Breadcrumbs: []views.Breadcrumb{
			{Title: "Home", URL: "/"},
			{Title: "Error"},
		},
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	page := views.ErrorPage(props, views.ErrorPageProps{Code: code, Title: title, Message: message})
	if renderErr := page.Render(c.Request().Context(), c.Response()); renderErr != nil {
		slog.Error("failed to render error page", "error", renderErr)
	}
}

func describe(err error) (int, string, string) {
	code := http.StatusInternalServerError
	message := ""

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != http.StatusText(code) {
			message = msg
		}
	case errors.Is(err, navigation.ErrUnknownRoute), errors.Is(err, services.ErrDocumentNotFound):
		code = http.StatusNotFound
	case errors.Is(err, navigation.ErrInvalidParams):
		code = http.StatusBadRequest
	}

	title := "Internal Server Error"
	switch code {
	case http.StatusNotFound:
		title = "Page Not Found"
		if message == "" {
			message = "The page you're looking for doesn't exist."
		}
	case http.StatusForbidden:
		title = "Access Denied"
		if message == "" {
			message = "You don't have permission to access this resource."
		}
	case http.StatusUnauthorized:
		title = "Unauthorized"
		if message == "" {
			message = "Please log in to continue."
		}
	case http.StatusBadRequest:
		title = "Bad Request"
		if message == "" {
			message = "The request could not be processed."
		}
	default:
		if code < http.StatusInternalServerError {
			title = http.StatusText(code)
		}
		if message == "" {
			message = "Something went wrong. Please try again later."
		}
	}
	return code, title, message
}

// WantsJSON reports whether the client asked for JSON rather than a page.
// Browser navigations list text/html and never match.
func WantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}
