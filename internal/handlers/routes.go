package handlers

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every screen handler served behind the navigator middleware
type Handlers struct {
	Auth       *AuthHandler
	Home       *HomeHandler
	Companions *CompanionHandler
	Trips      *TripHandler
	Profile    *ProfileHandler
	Navigation *NavigationHandler
}

// RegisterRoutes mounts the screen routes on g.
// Paths must stay in step with the screen paths used by the views package.
func RegisterRoutes(g *echo.Group, h Handlers) {
	g.GET("/", h.Navigation.Root)
	g.POST("/back", h.Navigation.Back)
	g.GET("/nav/stack", h.Navigation.Stack)

	// Public screens
	g.GET("/splash", h.Auth.Splash)
	g.GET("/login", h.Auth.LoginPage)
	g.POST("/auth/login", h.Auth.HandleLogin)
	g.GET("/register", h.Auth.RegisterPage)
	g.POST("/auth/register", h.Auth.HandleRegister)
	g.GET("/verify", h.Auth.VerifyPage)
	g.POST("/verify/check", h.Auth.CheckVerification)
	g.POST("/verify/resend", h.Auth.ResendVerification)
	g.POST("/auth/logout", h.Auth.HandleLogout)

	// Private screens; the navigator redirects to login without a session
	g.GET("/main", h.Auth.Main)
	g.GET("/home", h.Home.Home)

	g.GET("/companions", h.Companions.ListCompanions)
	g.GET("/companions/:name/:rating", h.Companions.ShowCompanion)
	g.POST("/companions/:name/:rating/comments", h.Companions.PostComment)
	g.POST("/companions/:name/:rating/comments/:id/like", h.Companions.ToggleLike)

	g.GET("/trips/new", h.Trips.NewTrip)
	g.POST("/trips", h.Trips.CreateTrip)
	g.GET("/trips/confirm", h.Trips.ConfirmPage)
	g.POST("/trips/confirm", h.Trips.ConfirmTrip)
	g.GET("/trips/pay", h.Trips.PaymentPage)
	g.POST("/trips/pay", h.Trips.PayWithCard)
	g.POST("/trips/pay/snap", h.Trips.PayWithSnap)
	g.GET("/trips/track", h.Trips.TrackTrip)
	g.GET("/trips/history", h.Trips.History)

	g.GET("/profile", h.Profile.Profile)
	g.POST("/profile/preferences", h.Profile.SavePreferences)
}

// RegisterWebhooks mounts gateway callbacks, which carry no browser cookies
func RegisterWebhooks(e *echo.Echo, trips *TripHandler) {
	e.POST("/payments/midtrans/notification", trips.MidtransNotification)
}
