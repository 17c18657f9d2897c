package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"journeylink_app/internal/config"
	"journeylink_app/internal/handlers"
	"journeylink_app/internal/logging"
	navMiddleware "journeylink_app/internal/middleware"
	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
	"journeylink_app/internal/services"
	"journeylink_app/internal/tasks"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Firebase: identity provider and document store
	var (
		docs     services.DocumentStore = services.NewMemoryStore()
		identity *services.IdentityService
	)
	fb, err := services.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
	if err != nil {
		logger.Warn("Firebase initialization failed, sign-in disabled and documents kept in memory", "error", err)
	} else {
		docs = services.NewFirestoreStore(fb.Firestore)
		defer fb.Firestore.Close()

		var signer services.PasswordSigner
		if cfg.FirebaseAPIKey != "" {
			if signer, err = services.NewIdentityToolkitSigner(ctx, cfg.FirebaseAPIKey); err != nil {
				logger.Warn("Password sign-in disabled", "error", err)
				signer = nil
			}
		} else {
			logger.Warn("FIREBASE_API_KEY not set, password sign-in disabled")
		}
		identity = services.NewIdentityService(fb.Auth, signer, docs, cfg.SessionTTL)
	}

	// Redis: companions cache and saved back stacks
	var (
		cache  *services.RedisCache
		stacks services.StackStore = services.NewMemoryStackStore()
	)
	if cfg.RedisURL != "" {
		if cache, err = services.NewRedisCache(ctx, cfg.RedisURL); err != nil {
			logger.Warn("Redis unavailable, caching disabled", "error", err)
			cache = nil
		} else {
			defer cache.Close()
			stacks = services.NewRedisStackStore(cache)
		}
	}

	// Postgres: preferences, payments and scheduled tasks
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		if db, err = services.InitDB(cfg.DatabaseURL, !cfg.IsProduction()); err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := services.AutoMigrate(db); err != nil {
			logger.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("DATABASE_URL not set, preferences and payments disabled")
	}

	emailService := services.NewEmailService()
	companions := services.NewCompanionService(docs, cache, cfg.CompanionsTTL)
	comments := services.NewCommentService(docs)
	trips := services.NewTripService(docs)

	var (
		prefs    *services.PreferenceService
		payments *services.PaymentService
	)
	if db != nil {
		prefs = services.NewPreferenceService(db)
		payments = services.NewPaymentService(db, services.NewMidtransService(), trips)

		env := &tasks.Env{
			Store:    tasks.NewGormStore(db),
			Notifier: services.NewNotifier(prefs, emailService, services.NewWahaService()),
		}
		payments.OnPaid(func(ctx context.Context, trip models.Trip) error {
			profile, err := companions.Profile(ctx, trip.UserUID)
			if err != nil && !errors.Is(err, services.ErrDocumentNotFound) {
				return err
			}
			_, err = tasks.ScheduleTripReminder(ctx, env, trip, profile.Name, profile.Email, cfg.ReminderLead)
			return err
		})
	}

	var signOut navigation.SignOutFunc
	var verifier navMiddleware.SessionVerifier
	if identity != nil {
		signOut = identity.Revoke
		verifier = identity
	}
	pool := services.NewNavigatorPool(navigation.DefaultRegistry(), stacks, signOut, cfg.NavigatorIdle,
		navigation.WithLogger(logger.With("component", "navigator")))
	go sweepNavigators(ctx, pool, time.Minute*10)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = navMiddleware.CustomErrorHandler

	e.Static("/static", "web/static")

	pages := handlers.NewPages(prefs)
	tripHandler := handlers.NewTripHandler(pages, trips, payments, cfg.AppURL)

	screens := e.Group("")
	screens.Use(navMiddleware.Navigator(navMiddleware.NavigatorConfig{
		Navigators: pool,
		Verifier:   verifier,
		Secure:     cfg.IsProduction(),
		ClientTTL:  cfg.NavigatorIdle,
	}))
	handlers.RegisterRoutes(screens, handlers.Handlers{
		Auth:       handlers.NewAuthHandler(pages, identity, emailService, companions, cfg.IsProduction()),
		Home:       handlers.NewHomeHandler(pages),
		Companions: handlers.NewCompanionHandler(pages, companions, comments),
		Trips:      tripHandler,
		Profile:    handlers.NewProfileHandler(pages, companions, prefs),
		Navigation: handlers.NewNavigationHandler(),
	})
	handlers.RegisterWebhooks(e, tripHandler)

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}

// sweepNavigators drops navigators of clients that have been idle too long
func sweepNavigators(ctx context.Context, pool *services.NavigatorPool, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := pool.Sweep(); n > 0 {
				slog.Info("Swept idle navigators", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
