package auth

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gocab/gocab/internal/httpx"
	"github.com/gocab/gocab/internal/middleware"
)

// Handler exposes the auth endpoints. Tokens travel back to the client both
// as an HTTP-only cookie and in the Authorization response header, since a
// client may hold the raw token independently of its cookie jar.
type Handler struct {
	svc           *Service
	secureCookies bool
	tokenTTL      time.Duration
}

// NewHandler builds the auth handler. secureCookies should be true in
// production so the auth cookie is marked Secure.
func NewHandler(svc *Service, secureCookies bool, tokenTTL time.Duration) *Handler {
	return &Handler{svc: svc, secureCookies: secureCookies, tokenTTL: tokenTTL}
}

func (h *Handler) setAuthCookie(c *fiber.Ctx, raw string) {
	c.Set(fiber.HeaderAuthorization, "Bearer "+raw)
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    raw,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(h.tokenTTL.Seconds()),
	})
}

func (h *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

// RegisterRider handles POST /auth/user/register.
func (h *Handler) RegisterRider(c *fiber.Ctx) error {
	var req RiderRegistration
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	p, raw, err := h.svc.RegisterRider(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setAuthCookie(c, raw)
	return httpx.JSON(c, http.StatusCreated, fiber.Map{
		"user":  p.Public(),
		"token": raw,
	}, "user registered successfully")
}

// RegisterCaptain handles POST /auth/captain/register.
func (h *Handler) RegisterCaptain(c *fiber.Ctx) error {
	var req CaptainRegistration
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	p, raw, err := h.svc.RegisterCaptain(c.UserContext(), req)
	if err != nil {
		return err
	}

	h.setAuthCookie(c, raw)
	return httpx.JSON(c, http.StatusCreated, fiber.Map{
		"user":  p.Public(),
		"token": raw,
	}, "captain registered successfully")
}

// LoginPassword handles POST /auth/login.
func (h *Handler) LoginPassword(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	p, raw, err := h.svc.LoginPassword(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setAuthCookie(c, raw)
	return httpx.JSON(c, http.StatusOK, fiber.Map{
		"user":  p.Public(),
		"token": raw,
	}, "login successful")
}

// LoginOTP handles POST /auth/login-otp.
func (h *Handler) LoginOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phoneNumber"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	p, raw, err := h.svc.LoginOTP(c.UserContext(), req.Phone, req.OTP)
	if err != nil {
		return err
	}

	h.setAuthCookie(c, raw)
	return httpx.JSON(c, http.StatusOK, fiber.Map{
		"user":  p.Public(),
		"token": raw,
		"role":  p.Role,
	}, "logged in successfully")
}

// SendOTP handles POST /auth/send-otp. Outside production the raw code is
// echoed in the response body for client-side testing; in production only an
// acknowledgment goes back.
func (h *Handler) SendOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phoneNumber"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	code, err := h.svc.SendOTP(c.UserContext(), req.Phone)
	if err != nil {
		return err
	}

	if h.svc.Production() {
		return httpx.JSON(c, http.StatusOK, nil, "OTP sent")
	}
	return httpx.JSON(c, http.StatusOK, fiber.Map{"otp": code}, "OTP sent")
}

// VerifyOTP handles POST /auth/verify-otp. It checks a code without logging
// the caller in.
func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phoneNumber"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	ok, err := h.svc.VerifyOTP(c.UserContext(), req.Phone, req.OTP)
	if err != nil {
		return err
	}
	return httpx.JSON(c, http.StatusOK, fiber.Map{"verified": ok}, "otp checked")
}

// Logout handles POST /auth/logout. The token is revoked for its remaining
// validity and the cookie cleared; both are needed because the client may
// retain the raw token string.
func (h *Handler) Logout(c *fiber.Ctx) error {
	raw := middleware.ExtractToken(c)
	if raw == "" {
		return httpx.Unauthorized(httpx.ReasonMissingToken, "missing authentication token")
	}

	if err := h.svc.Logout(c.UserContext(), raw); err != nil {
		return err
	}

	h.clearAuthCookie(c)
	return httpx.JSON(c, http.StatusOK, nil, "logout successful")
}

// UpdateAvatar handles PATCH /me/avatar for authenticated principals.
func (h *Handler) UpdateAvatar(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return httpx.Unauthorized(httpx.ReasonMissingToken, "missing authentication token")
	}

	var req struct {
		AvatarURL string `json:"avatarUrl"`
	}
	if err := c.BodyParser(&req); err != nil {
		return httpx.Validation("invalid request body")
	}

	if err := h.svc.UpdateAvatar(c.UserContext(), p, req.AvatarURL); err != nil {
		return err
	}
	return httpx.JSON(c, http.StatusOK, fiber.Map{"avatarUrl": req.AvatarURL}, "avatar updated")
}

// Me handles GET /me for authenticated principals.
func (h *Handler) Me(c *fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return httpx.Unauthorized(httpx.ReasonMissingToken, "missing authentication token")
	}
	return httpx.JSON(c, http.StatusOK, p.Public(), "ok")
}
