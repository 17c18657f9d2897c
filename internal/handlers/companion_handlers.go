package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"journeylink_app/internal/middleware"
	"journeylink_app/internal/navigation"
	"journeylink_app/internal/services"
	"journeylink_app/internal/views"
)

// HomeHandler renders the home screen
type HomeHandler struct {
	pages *Pages
}

func NewHomeHandler(pages *Pages) *HomeHandler {
	return &HomeHandler{pages: pages}
}

func (h *HomeHandler) Home(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteHome, nil, func(p views.PageProps) (templ.Component, error) {
		greeting := services.AuthorName("")
		if s := middleware.SessionFrom(c); s != nil {
			greeting = s.DisplayName
			if greeting == "" {
				greeting = services.AuthorName(s.Email)
			}
		}
		return views.HomePage(p, views.HomeProps{Greeting: greeting}), nil
	})
}

// CompanionHandler handles the companions list and each companion's comments
type CompanionHandler struct {
	pages      *Pages
	companions *services.CompanionService
	comments   *services.CommentService
}

func NewCompanionHandler(pages *Pages, companions *services.CompanionService, comments *services.CommentService) *CompanionHandler {
	return &CompanionHandler{pages: pages, companions: companions, comments: comments}
}

// ListCompanions renders every registered user with the top-rated one featured
func (h *CompanionHandler) ListCompanions(c echo.Context) error {
	return h.pages.Show(c, navigation.RouteCompanions, nil, func(p views.PageProps) (templ.Component, error) {
		list, err := h.companions.List(c.Request().Context())
		if err != nil {
			return nil, err
		}
		props := views.CompanionsProps{Companions: list}
		if best, ok := services.Featured(list); ok {
			props.Featured = &best
		}
		return views.CompanionsPage(p, props), nil
	})
}

// ShowCompanion renders /companions/:name/:rating with the comments left for that name
func (h *CompanionHandler) ShowCompanion(c echo.Context) error {
	params := companionParams(c)
	return h.pages.Show(c, navigation.RouteCompanionInfo, params, h.infoScreen(c))
}

func (h *CompanionHandler) infoScreen(c echo.Context) screenFunc {
	return func(p views.PageProps) (templ.Component, error) {
		route := visible(c)
		name := route.Param(navigation.ParamName, "")
		rating, _ := route.Params[navigation.ParamRating].(int)

		comments, err := h.comments.ForRecipient(c.Request().Context(), name)
		if err != nil {
			return nil, err
		}
		return views.CompanionInfoPage(p, views.CompanionInfoProps{
			Name:     name,
			Rating:   rating,
			Comments: comments,
			ViewerID: getStringFromContext(c, "userUID"),
		}), nil
	}
}

// PostComment leaves a comment on the companion's page
func (h *CompanionHandler) PostComment(c echo.Context) error {
	params := companionParams(c)
	session := middleware.SessionFrom(c)
	if session == nil {
		return h.pages.GoTo(c, navigation.RouteCompanionInfo, params)
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment")
	}
	if err := c.Validate(&req); err != nil {
		return h.pages.Fail(c, validationMessage(err), h.infoScreen(c))
	}

	name, _ := params[navigation.ParamName].(string)
	if _, err := h.comments.Post(c.Request().Context(), session.Email, name, req.Content); err != nil {
		if errors.Is(err, services.ErrEmptyComment) {
			return h.pages.Fail(c, "Please write a comment first", h.infoScreen(c))
		}
		return err
	}
	return h.pages.GoTo(c, navigation.RouteCompanionInfo, params)
}

// ToggleLike likes or unlikes a comment for the signed-in user
func (h *CompanionHandler) ToggleLike(c echo.Context) error {
	params := companionParams(c)
	session := middleware.SessionFrom(c)
	if session == nil {
		return h.pages.GoTo(c, navigation.RouteCompanionInfo, params)
	}

	comment, err := h.comments.ToggleLike(c.Request().Context(), c.Param("id"), session.UID)
	if err != nil {
		return err
	}
	if middleware.WantsJSON(c) {
		return c.JSON(http.StatusOK, comment)
	}
	return h.pages.GoTo(c, navigation.RouteCompanionInfo, params)
}

// companionParams reads the path params; the navigator converts rating to an int
func companionParams(c echo.Context) navigation.Params {
	return navigation.Params{
		navigation.ParamName:   unescapeParam(c.Param("name")),
		navigation.ParamRating: unescapeParam(c.Param("rating")),
	}
}

func unescapeParam(v string) string {
	if s, err := url.PathUnescape(v); err == nil {
		return s
	}
	return v
}
