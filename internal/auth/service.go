// Package auth composes the credential store, OTP verifier, and token
// service into the registration, login, and logout flows.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gocab/gocab/internal/httpx"
	"github.com/gocab/gocab/internal/identity"
	"github.com/gocab/gocab/internal/otp"
	"github.com/gocab/gocab/internal/sms"
	"github.com/gocab/gocab/internal/token"
)

// Service is the auth use-case layer. All dependencies are injected at
// construction; the OTP backend and SMS sender are already the ones matching
// the deployment mode.
type Service struct {
	ids        *identity.Service
	tokens     *token.Service
	codes      otp.Verifier
	sender     sms.Sender
	production bool
	logger     *slog.Logger
}

// NewService wires the auth orchestrator.
func NewService(ids *identity.Service, tokens *token.Service, codes otp.Verifier, sender sms.Sender, production bool, logger *slog.Logger) *Service {
	return &Service{ids: ids, tokens: tokens, codes: codes, sender: sender, production: production, logger: logger}
}

// Production reports the deployment mode the service was built for.
func (s *Service) Production() bool { return s.production }

// RiderRegistration carries the rider sign-up fields. All are required.
type RiderRegistration struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phoneNumber"`
	CountryCode string `json:"countryCode"`
	Gender      string `json:"gender"`
}

// CaptainRegistration carries the captain sign-up fields. Captains have no
// password; they authenticate by OTP. Vehicle details are optional at
// registration and completed during KYC.
type CaptainRegistration struct {
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phoneNumber"`
	CountryCode string            `json:"countryCode"`
	Gender      string            `json:"gender"`
	Vehicle     *identity.Vehicle `json:"vehicle"`
}

func anyBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

// RegisterRider validates the input, creates the rider, and issues a session
// token.
func (s *Service) RegisterRider(ctx context.Context, in RiderRegistration) (identity.Principal, string, error) {
	if anyBlank(in.FirstName, in.LastName, in.Email, in.Password, in.Phone, in.CountryCode, in.Gender) {
		return identity.Principal{}, "", httpx.Validation("all fields are required")
	}
	p := identity.Principal{
		Role:        identity.RoleRider,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		CountryCode: in.CountryCode,
		Phone:       in.Phone,
		Gender:      in.Gender,
	}
	return s.register(ctx, p, in.Password)
}

// RegisterCaptain validates the input, creates the captain, and issues a
// session token.
func (s *Service) RegisterCaptain(ctx context.Context, in CaptainRegistration) (identity.Principal, string, error) {
	if anyBlank(in.FirstName, in.LastName, in.Email, in.Phone, in.CountryCode, in.Gender) {
		return identity.Principal{}, "", httpx.Validation("all fields are required")
	}
	p := identity.Principal{
		Role:        identity.RoleCaptain,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		CountryCode: in.CountryCode,
		Phone:       in.Phone,
		Gender:      in.Gender,
		Vehicle:     in.Vehicle,
	}
	return s.register(ctx, p, "")
}

func (s *Service) register(ctx context.Context, p identity.Principal, password string) (identity.Principal, string, error) {
	created, err := s.ids.Register(ctx, p, password)
	if err != nil {
		if errors.Is(err, identity.ErrExists) {
			return identity.Principal{}, "", httpx.Conflict("account already exists")
		}
		s.logger.Error("register principal", slog.String("role", string(p.Role)), slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("registration failed")
	}

	raw, err := s.tokens.Issue(created.ID, created.Role)
	if err != nil {
		s.logger.Error("issue token", slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("token generation failed")
	}

	s.logger.Info("principal registered", slog.String("id", created.ID), slog.String("role", string(created.Role)))
	return created, raw, nil
}

// LoginPassword authenticates a rider by email and password.
func (s *Service) LoginPassword(ctx context.Context, email, password string) (identity.Principal, string, error) {
	if anyBlank(email, password) {
		return identity.Principal{}, "", httpx.Validation("all fields are required")
	}

	p, err := s.ids.Authenticate(ctx, identity.RoleRider, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			return identity.Principal{}, "", httpx.Unauthorized(httpx.ReasonBadCredentials, "invalid email or password")
		}
		s.logger.Error("password login", slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("login failed")
	}

	raw, err := s.tokens.Issue(p.ID, p.Role)
	if err != nil {
		s.logger.Error("issue token", slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("token generation failed")
	}
	return p, raw, nil
}

// LoginOTP authenticates by phone and one-time code, resolving the principal
// across both stores (rider first, captain fallback) and issuing a token with
// the resolved role.
func (s *Service) LoginOTP(ctx context.Context, phone, code string) (identity.Principal, string, error) {
	if anyBlank(phone, code) {
		return identity.Principal{}, "", httpx.Validation("all fields are required")
	}

	ok, err := s.codes.Verify(ctx, phone, code)
	if err != nil {
		s.logger.Error("otp verify", slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("otp verification failed")
	}
	if !ok {
		return identity.Principal{}, "", httpx.Unauthorized(httpx.ReasonInvalidOTP, "invalid or expired OTP")
	}
	if err := s.codes.Consume(ctx, phone); err != nil {
		s.logger.Error("otp consume", slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("otp verification failed")
	}

	p, err := s.ids.ResolveByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.Principal{}, "", httpx.NotFound("account not found, please register first")
		}
		s.logger.Error("resolve by phone", slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("login failed")
	}

	if !p.IsVerified {
		if err := s.ids.MarkVerified(ctx, p.Role, p.ID); err != nil {
			s.logger.Warn("mark verified", slog.String("id", p.ID), slog.Any("error", err))
		} else {
			p.IsVerified = true
		}
	}

	raw, err := s.tokens.Issue(p.ID, p.Role)
	if err != nil {
		s.logger.Error("issue token", slog.Any("error", err))
		return identity.Principal{}, "", httpx.Internal("token generation failed")
	}
	return p, raw, nil
}

// SendOTP issues a fresh code for the phone number. With the local backend
// the code comes back to the caller (and is logged through the dev SMS
// sender); with the remote backend the provider delivers it and the returned
// code is empty.
func (s *Service) SendOTP(ctx context.Context, phone string) (string, error) {
	if anyBlank(phone) {
		return "", httpx.Validation("phone number is required")
	}

	code, err := s.codes.Issue(ctx, phone)
	if err != nil {
		s.logger.Error("otp issue", slog.Any("error", err))
		return "", httpx.Internal("failed to send OTP")
	}
	if code != "" {
		if err := s.sender.Send(ctx, phone, "Your verification code is "+code); err != nil {
			s.logger.Warn("otp sms dispatch", slog.Any("error", err))
		}
	}
	return code, nil
}

// VerifyOTP checks a code without logging the caller in, consuming it on
// success.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (bool, error) {
	if anyBlank(phone, code) {
		return false, httpx.Validation("all fields are required")
	}

	ok, err := s.codes.Verify(ctx, phone, code)
	if err != nil {
		s.logger.Error("otp verify", slog.Any("error", err))
		return false, httpx.Internal("otp verification failed")
	}
	if ok {
		if err := s.codes.Consume(ctx, phone); err != nil {
			s.logger.Error("otp consume", slog.Any("error", err))
			return false, httpx.Internal("otp verification failed")
		}
	}
	return ok, nil
}

// UpdateAvatar stores a new avatar reference for the authenticated principal.
// Asset upload itself happens client-side against the storage provider; only
// the resulting URL is recorded here.
func (s *Service) UpdateAvatar(ctx context.Context, p identity.Principal, url string) error {
	if anyBlank(url) {
		return httpx.Validation("avatarUrl is required")
	}
	if err := s.ids.UpdateAvatar(ctx, p.Role, p.ID, url); err != nil {
		s.logger.Error("update avatar", slog.String("id", p.ID), slog.Any("error", err))
		return httpx.Internal("avatar update failed")
	}
	return nil
}

// Logout revokes the session token. Revoking an expired token is a no-op.
func (s *Service) Logout(ctx context.Context, raw string) error {
	if err := s.tokens.Revoke(ctx, raw); err != nil {
		s.logger.Error("revoke token", slog.Any("error", err))
		return httpx.Internal("logout failed")
	}
	return nil
}
