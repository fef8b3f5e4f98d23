package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"acredge.in/internal/docstore"
)

type captureSender struct {
	codes map[string]string
}

func (c *captureSender) Send(ctx context.Context, identity, code string) error {
	if c.codes == nil {
		c.codes = make(map[string]string)
	}
	c.codes[identity] = code
	return nil
}

const (
	testSecret  = "test-secret"
	adminOrigin = "https://admin.acredge.in"
	userOrigin  = "https://www.acredge.in"
)

func newTestService(t *testing.T) (*Service, *captureSender) {
	t.Helper()
	sender := &captureSender{}
	svc := NewService(docstore.NewMemory(), testSecret, "acredge.in",
		WithOrigins(adminOrigin, userOrigin),
		WithCodeSender(sender),
	)
	return svc, sender
}

func loginAdmin(t *testing.T, svc *Service, sender *captureSender, email string) Session {
	t.Helper()
	ctx := context.Background()
	if err := svc.RequestEmailOTP(ctx, email); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	sess, err := svc.VerifyOTP(ctx, email, sender.codes[email])
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	return sess
}

func TestAdminLoginFlow(t *testing.T) {
	svc, sender := newTestService(t)
	sess := loginAdmin(t, svc, sender, "staff@acredge.in")

	if sess.Principal.Kind != KindAdmin || sess.Principal.Email != "staff@acredge.in" {
		t.Fatalf("unexpected principal: %+v", sess.Principal)
	}

	p, err := svc.Authenticate(context.Background(), sess.Token, adminOrigin, false)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !p.IsAdmin() {
		t.Fatalf("expected admin principal, got %+v", p)
	}
}

func TestEmailOutsideCorporateDomainRejected(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.RequestEmailOTP(context.Background(), "someone@gmail.com"); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestWrongCodeRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if err := svc.RequestEmailOTP(ctx, "staff@acredge.in"); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, "staff@acredge.in", "000000"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestExpiredCodeRejected(t *testing.T) {
	now := time.Now()
	sender := &captureSender{}
	svc := NewService(docstore.NewMemory(), testSecret, "acredge.in",
		WithCodeSender(sender),
		WithOTPTTL(time.Minute),
		WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()
	if err := svc.RequestEmailOTP(ctx, "staff@acredge.in"); err != nil {
		t.Fatalf("request otp: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := svc.VerifyOTP(ctx, "staff@acredge.in", sender.codes["staff@acredge.in"]); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
}

func TestUserLoginAndDomainGate(t *testing.T) {
	svc, sender := newTestService(t)
	ctx := context.Background()

	if err := svc.RequestPhoneOTP(ctx, "+919876543210"); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	sess, err := svc.VerifyOTP(ctx, "+919876543210", sender.codes["+919876543210"])
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if sess.Principal.Kind != KindUser {
		t.Fatalf("expected user principal, got %+v", sess.Principal)
	}

	// Mutations from a foreign origin are forbidden; reads are not.
	if _, err := svc.Authenticate(ctx, sess.Token, "https://evil.example", false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, sess.Token, "https://evil.example", true); err != nil {
		t.Fatalf("read-only authenticate: %v", err)
	}
}

func TestPhoneTokenNeverAuthenticatesAsAdmin(t *testing.T) {
	svc, sender := newTestService(t)
	ctx := context.Background()

	if err := svc.RequestPhoneOTP(ctx, "+919876543210"); err != nil {
		t.Fatalf("request otp: %v", err)
	}
	sess, err := svc.VerifyOTP(ctx, "+919876543210", sender.codes["+919876543210"])
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	p, err := svc.Authenticate(ctx, sess.Token, userOrigin, false)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.IsAdmin() {
		t.Fatal("phone token must never yield an admin principal")
	}
}

func TestForgedAdminClaimRejectedBeforeRoleBranching(t *testing.T) {
	svc, _ := newTestService(t)

	// Token claims a corporate email but is signed with the wrong secret.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "staff@acredge.in",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "staff@acredge.in",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte("attacker-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), signed, adminOrigin, false); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewLoginRevokesPreviousToken(t *testing.T) {
	svc, sender := newTestService(t)
	ctx := context.Background()

	first := loginAdmin(t, svc, sender, "staff@acredge.in")
	second := loginAdmin(t, svc, sender, "staff@acredge.in")

	if _, err := svc.Authenticate(ctx, first.Token, adminOrigin, false); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("superseded token should be invalid, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, second.Token, adminOrigin, false); err != nil {
		t.Fatalf("current token should authenticate: %v", err)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	svc, sender := newTestService(t)
	ctx := context.Background()

	sess := loginAdmin(t, svc, sender, "staff@acredge.in")
	if err := svc.Logout(ctx, sess.Principal); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, sess.Token, adminOrigin, false); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	sender := &captureSender{}
	svc := NewService(docstore.NewMemory(), testSecret, "acredge.in",
		WithOrigins(adminOrigin, userOrigin),
		WithCodeSender(sender),
		WithTokenTTL(time.Hour),
		WithClock(func() time.Time { return past }),
	)

	sess := loginAdmin(t, svc, sender, "staff@acredge.in")
	if _, err := svc.Authenticate(context.Background(), sess.Token, adminOrigin, false); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestAdminTokenRejectedFromUserOrigin(t *testing.T) {
	svc, sender := newTestService(t)
	sess := loginAdmin(t, svc, sender, "staff@acredge.in")

	if _, err := svc.Authenticate(context.Background(), sess.Token, userOrigin, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
