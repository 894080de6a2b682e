package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gocab/gocab/internal/httpx"
	"github.com/gocab/gocab/internal/identity"
	"github.com/gocab/gocab/internal/logging"
	"github.com/gocab/gocab/internal/token"
)

type authFixture struct {
	app    *fiber.App
	repo   identity.Repository
	tokens *token.Service
	rider  identity.Principal
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	repo := identity.NewMemoryRepository()
	ids := identity.NewService(repo, 4)
	rider, err := ids.Register(context.Background(), identity.Principal{
		Role:        identity.RoleRider,
		FirstName:   "Asha",
		LastName:    "Rao",
		Email:       "asha@example.com",
		CountryCode: "+91",
		Phone:       "9999999999",
		Gender:      "female",
	}, "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tokens := token.NewService("jwt-test-secret", time.Hour, token.NewRedisRevocations(cache))

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(logging.Discard())})
	app.Get("/protected", Auth(tokens, repo), func(c *fiber.Ctx) error {
		p, _ := PrincipalFrom(c)
		return httpx.JSON(c, fiber.StatusOK, fiber.Map{"id": p.ID}, "ok")
	})

	return &authFixture{app: app, repo: repo, tokens: tokens, rider: rider}
}

func reasonOf(t *testing.T, body io.Reader) string {
	t.Helper()
	var envelope struct {
		Data struct {
			Reason string `json:"reason"`
		} `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope.Data.Reason
}

func expectUnauthorized(t *testing.T, app *fiber.App, req *http.Request, reason string) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if got := reasonOf(t, resp.Body); got != reason {
		t.Fatalf("expected reason %q, got %q", reason, got)
	}
}

func TestAuthMissingToken(t *testing.T) {
	fx := newAuthFixture(t)
	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	expectUnauthorized(t, fx.app, req, httpx.ReasonMissingToken)
}

func TestAuthAcceptsCookie(t *testing.T) {
	fx := newAuthFixture(t)

	raw, err := fx.tokens.Issue(fx.rider.ID, identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: raw})

	resp, err := fx.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	fx := newAuthFixture(t)

	raw, err := fx.tokens.Issue(fx.rider.ID, identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+raw)

	resp, err := fx.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	fx := newAuthFixture(t)

	raw, err := fx.tokens.Issue(fx.rider.ID, identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := fx.tokens.Revoke(context.Background(), raw); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+raw)
	expectUnauthorized(t, fx.app, req, httpx.ReasonRevoked)
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	fx := newAuthFixture(t)

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")
	expectUnauthorized(t, fx.app, req, httpx.ReasonMalformed)
}

func TestAuthRejectsUnknownPrincipal(t *testing.T) {
	fx := newAuthFixture(t)

	// Token for an id that is not in the store.
	raw, err := fx.tokens.Issue("11111111-1111-1111-1111-111111111111", identity.RoleRider)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+raw)
	expectUnauthorized(t, fx.app, req, httpx.ReasonPrincipalNotFound)
}
