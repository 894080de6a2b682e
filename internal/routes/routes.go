package routes

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gocab/gocab/internal/auth"
	"github.com/gocab/gocab/internal/config"
	"github.com/gocab/gocab/internal/fare"
	"github.com/gocab/gocab/internal/identity"
	"github.com/gocab/gocab/internal/maps"
	"github.com/gocab/gocab/internal/middleware"
	"github.com/gocab/gocab/internal/otp"
	"github.com/gocab/gocab/internal/ride"
	"github.com/gocab/gocab/internal/sms"
	"github.com/gocab/gocab/internal/token"
)

// bookingIdempotencyTTL bounds how long a replayed booking response stays
// cached for its Idempotency-Key.
const bookingIdempotencyTTL = 24 * time.Hour

// loginAttemptsPerMinute caps OTP and password attempts per phone or email.
const loginAttemptsPerMinute = 5

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Outside of
// production the database is optional: the in-memory repositories take its
// place so the service runs against redis alone.
func Setup(app *fiber.App, d Deps) error {
	if d.Cache == nil {
		return fmt.Errorf("redis is required")
	}
	if d.Cfg.IsProduction() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var principals identity.Repository
	if d.DB != nil {
		principals = identity.NewPostgresRepository(d.DB)
	} else {
		principals = identity.NewMemoryRepository()
	}
	ids := identity.NewService(principals, d.Cfg.BcryptCost)

	tokens := token.NewService(d.Cfg.JWTSecret, d.Cfg.TokenTTL, token.NewRedisRevocations(d.Cache))

	var codes otp.Verifier
	var sender sms.Sender
	if d.Cfg.IsProduction() {
		codes = otp.NewTwilioVerifier(d.Cfg.TwilioAccountSID, d.Cfg.TwilioAuthToken, d.Cfg.TwilioVerifySID)
		sender = sms.NewTwilioSender(d.Cfg.TwilioAccountSID, d.Cfg.TwilioAuthToken, d.Cfg.TwilioFromNumber)
	} else {
		codes = otp.NewRedisStore(d.Cache, d.Cfg.OTPSecret, d.Cfg.OTPTTL)
		sender = sms.NewLoggerSender(d.Logger)
	}

	authSvc := auth.NewService(ids, tokens, codes, sender, d.Cfg.IsProduction(), d.Logger)
	authHandler := auth.NewHandler(authSvc, d.Cfg.IsProduction(), d.Cfg.TokenTTL)

	geo := maps.NewGoogleClient(d.Cfg.GoogleMapsAPIKey)
	mapsHandler := maps.NewHandler(geo)

	var rates fare.RateRepository
	if d.DB != nil {
		rates = fare.NewPostgresRateRepository(d.DB)
	} else {
		rates = fare.NewMemoryRateRepository(fare.DefaultRates()...)
	}
	fares := fare.NewService(rates)

	var rides ride.Repository
	if d.DB != nil {
		rides = ride.NewPostgresRepository(d.DB)
	} else {
		rides = ride.NewMemoryRepository()
	}
	rideHandler := ride.NewHandler(ride.NewService(rides, principals, geo, fares, d.Logger))

	api := app.Group("/api/v1")

	rateLimiter := middleware.PhoneRateLimit(d.Cache, loginAttemptsPerMinute)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	protected := api.Group("", middleware.Auth(tokens, principals))
	protected.Get("/me", authHandler.Me)
	protected.Patch("/me/avatar", authHandler.UpdateAvatar)
	RegisterMapsRoutes(protected, mapsHandler)
	RegisterRideRoutes(protected, rideHandler, middleware.BookingIdempotency(d.Cache, bookingIdempotencyTTL, d.Logger))

	return nil
}
