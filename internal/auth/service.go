package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"acredge.in/internal/docstore"
	"acredge.in/internal/obs"
)

const (
	defaultTokenTTL = 24 * time.Hour
	defaultOTPTTL   = 10 * time.Minute
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// CodeSender dispatches a one-time code to the identity that requested it.
type CodeSender interface {
	Send(ctx context.Context, identity, code string) error
}

// LogSender writes codes to the service log. Mail/SMS delivery is an
// external concern; this is the in-repo implementation.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, identity, code string) error {
	obs.LogRequest(map[string]any{
		"level":    "info",
		"msg":      "otp issued",
		"identity": identity,
		"code":     code,
	})
	return nil
}

// Session is the result of a successful OTP verification.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}

// Service issues and verifies bearer tokens for the two principal kinds.
// Each identity has at most one active token: issuing a new one overwrites
// and thereby revokes the previous session.
type Service struct {
	tokens tokenStore
	otps   otpStore

	secret      []byte
	adminDomain string // email suffix without "@"
	adminOrigin string
	userOrigin  string
	tokenTTL    time.Duration
	otpTTL      time.Duration

	sender  CodeSender
	now     func() time.Time
	newCode func() string
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithTokenTTL configures bearer token lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithOTPTTL configures one-time code lifetime.
func WithOTPTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.otpTTL = ttl
		}
	}
}

// WithOrigins sets the admin and user origins enforced by the domain gate.
func WithOrigins(adminOrigin, userOrigin string) ServiceOption {
	return func(s *Service) {
		s.adminOrigin = strings.TrimSpace(adminOrigin)
		s.userOrigin = strings.TrimSpace(userOrigin)
	}
}

// WithCodeSender overrides OTP delivery.
func WithCodeSender(sender CodeSender) ServiceOption {
	return func(s *Service) {
		if sender != nil {
			s.sender = sender
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithCodeGenerator overrides OTP generation (useful for tests).
func WithCodeGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newCode = fn
		}
	}
}

// NewService constructs the auth service over the shared document store.
// adminDomain is the corporate email suffix without the leading "@".
func NewService(docs docstore.Store, secret, adminDomain string, opts ...ServiceOption) *Service {
	s := &Service{
		tokens:      tokenStore{docs: docs},
		otps:        otpStore{docs: docs},
		secret:      []byte(secret),
		adminDomain: strings.TrimPrefix(strings.TrimSpace(adminDomain), "@"),
		tokenTTL:    defaultTokenTTL,
		otpTTL:      defaultOTPTTL,
		sender:      LogSender{},
		now:         time.Now,
		newCode:     randomCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestEmailOTP starts an admin login. Only corporate-domain addresses
// may ever receive a code.
func (s *Service) RequestEmailOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !s.isAdminEmail(email) {
		return ErrInvalidIdentity
	}
	return s.issueCode(ctx, email)
}

// RequestPhoneOTP starts a consumer login.
func (s *Service) RequestPhoneOTP(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return ErrInvalidIdentity
	}
	return s.issueCode(ctx, phone)
}

func (s *Service) issueCode(ctx context.Context, identity string) error {
	code := s.newCode()
	rec := otpRecord{Code: code, ExpiresAt: s.now().Add(s.otpTTL)}
	if err := s.otps.Save(ctx, identity, rec); err != nil {
		return fmt.Errorf("auth: store otp: %w", err)
	}
	return s.sender.Send(ctx, identity, code)
}

// VerifyOTP exchanges a valid code for a bearer token and stores the token
// as the identity's single active session.
func (s *Service) VerifyOTP(ctx context.Context, identity, code string) (Session, error) {
	identity = strings.TrimSpace(identity)
	principal, err := s.principalFor(identity)
	if err != nil {
		return Session{}, err
	}

	rec, err := s.otps.Get(ctx, identity)
	if err != nil {
		return Session{}, err
	}
	if s.now().After(rec.ExpiresAt) {
		return Session{}, ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return Session{}, ErrInvalidCode
	}
	if err := s.otps.Delete(ctx, identity); err != nil {
		return Session{}, fmt.Errorf("auth: consume otp: %w", err)
	}

	now := s.now()
	token, err := generateToken(s.secret, principal, s.tokenTTL, now)
	if err != nil {
		return Session{}, fmt.Errorf("auth: sign token: %w", err)
	}
	if err := s.tokens.Save(ctx, identity, token, now); err != nil {
		return Session{}, fmt.Errorf("auth: store token: %w", err)
	}
	return Session{Token: token, ExpiresAt: now.Add(s.tokenTTL), Principal: principal}, nil
}

// Logout deletes the stored token, ending the identity's session.
func (s *Service) Logout(ctx context.Context, p Principal) error {
	if p.Identity() == "" {
		return ErrInvalidIdentity
	}
	return s.tokens.Delete(ctx, p.Identity())
}

// Authenticate runs the full verification chain for a presented token:
// cryptographic validity, claim-based kind branching, the origin gate, and
// the stored-token equality check. readOnly relaxes the user origin gate
// for GET requests, matching the public consumer surface.
func (s *Service) Authenticate(ctx context.Context, token, origin string, readOnly bool) (Principal, error) {
	claims, err := parseAndValidate(s.secret, token)
	if err != nil {
		return Principal{}, err
	}

	var principal Principal
	switch {
	case claims.Email != "":
		if !s.isAdminEmail(claims.Email) {
			return Principal{}, fmt.Errorf("%w: not an admin account", ErrForbidden)
		}
		if !matchesOrigin(origin, s.adminOrigin) {
			return Principal{}, fmt.Errorf("%w: admin domain required", ErrForbidden)
		}
		principal = Principal{Kind: KindAdmin, Email: claims.Email}
	case claims.PhoneNumber != "":
		if !readOnly && !matchesOrigin(origin, s.userOrigin) {
			return Principal{}, fmt.Errorf("%w: operation not allowed for this domain", ErrForbidden)
		}
		principal = Principal{Kind: KindUser, Phone: claims.PhoneNumber}
	default:
		return Principal{}, ErrInvalidToken
	}

	stored, err := s.tokens.Current(ctx, principal.Identity())
	if err != nil {
		return Principal{}, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return Principal{}, ErrInvalidToken
	}
	return principal, nil
}

// principalFor classifies an identity string: email addresses must be
// corporate, anything else must look like a phone number.
func (s *Service) principalFor(identity string) (Principal, error) {
	if strings.Contains(identity, "@") {
		email := strings.ToLower(identity)
		if !s.isAdminEmail(email) {
			return Principal{}, ErrInvalidIdentity
		}
		return Principal{Kind: KindAdmin, Email: email}, nil
	}
	if !phonePattern.MatchString(identity) {
		return Principal{}, ErrInvalidIdentity
	}
	return Principal{Kind: KindUser, Phone: identity}, nil
}

func (s *Service) isAdminEmail(email string) bool {
	return strings.HasSuffix(strings.ToLower(email), "@"+s.adminDomain)
}

// matchesOrigin mirrors the origin/referer containment rule of the admin
// and consumer frontends. An empty allowed origin disables the gate.
func matchesOrigin(origin, allowed string) bool {
	if allowed == "" {
		return true
	}
	host := allowed
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	return host != "" && strings.Contains(origin, host)
}

func randomCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing is unrecoverable for login issuance.
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
