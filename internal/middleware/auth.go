package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gocab/gocab/internal/httpx"
	"github.com/gocab/gocab/internal/identity"
	"github.com/gocab/gocab/internal/token"
)

// AuthCookie is the cookie that carries the session token.
const AuthCookie = "auth_token"

// Context keys set by Auth for downstream handlers.
const (
	PrincipalKey = "principal"
	RoleKey      = "role"
)

// ExtractToken pulls the session token from the auth cookie, falling back to
// the Authorization bearer header.
func ExtractToken(c *fiber.Ctx) string {
	if raw := c.Cookies(AuthCookie); raw != "" {
		return raw
	}
	authz := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return ""
}

// Auth returns the request gate for protected routes. It rejects missing,
// revoked, expired, and malformed tokens with distinguishing reason codes,
// resolves the principal named by the claims, and attaches it to the request
// context. The revocation check runs before signature verification inside
// tokens.Verify.
func Auth(tokens *token.Service, principals identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := ExtractToken(c)
		if raw == "" {
			return httpx.Unauthorized(httpx.ReasonMissingToken, "missing authentication token")
		}

		claims, err := tokens.Verify(c.UserContext(), raw)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrRevoked):
				return httpx.Unauthorized(httpx.ReasonRevoked, "token has been revoked")
			case errors.Is(err, token.ErrExpired):
				return httpx.Unauthorized(httpx.ReasonExpired, "token has expired")
			case errors.Is(err, token.ErrMalformed):
				return httpx.Unauthorized(httpx.ReasonMalformed, "invalid token")
			default:
				return httpx.Internal("authentication backend failure")
			}
		}

		p, err := principals.FindByID(c.UserContext(), claims.Role, claims.Subject)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				return httpx.Unauthorized(httpx.ReasonPrincipalNotFound, "account no longer exists")
			}
			return httpx.Internal("principal lookup failure")
		}

		c.Locals(PrincipalKey, p)
		c.Locals(RoleKey, p.Role)
		return c.Next()
	}
}

// PrincipalFrom retrieves the authenticated principal attached by Auth.
func PrincipalFrom(c *fiber.Ctx) (identity.Principal, bool) {
	p, ok := c.Locals(PrincipalKey).(identity.Principal)
	return p, ok
}
