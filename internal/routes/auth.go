package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gocab/gocab/internal/auth"
)

// RegisterAuthRoutes wires registration, login and OTP endpoints. The rate
// limiter guards the endpoints an attacker can probe with guessed codes or
// passwords.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/user/register", h.RegisterRider)
	group.Post("/captain/register", h.RegisterCaptain)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.LoginPassword)
		group.Post("/login-otp", rateLimiter, h.LoginOTP)
		group.Post("/send-otp", rateLimiter, h.SendOTP)
		group.Post("/verify-otp", rateLimiter, h.VerifyOTP)
	} else {
		group.Post("/login", h.LoginPassword)
		group.Post("/login-otp", h.LoginOTP)
		group.Post("/send-otp", h.SendOTP)
		group.Post("/verify-otp", h.VerifyOTP)
	}
	group.Post("/logout", h.Logout)
}
