package auth

import (
	"context"
	"errors"
	"time"

	"acredge.in/internal/docstore"
)

// tokenRecord is the single active-session document per identity. Saving a
// new token overwrites the old one, which revokes the previous session.
type tokenRecord struct {
	Token    string    `firestore:"token" json:"token"`
	IssuedAt time.Time `firestore:"issuedAt" json:"issuedAt"`
}

// otpRecord is a pending one-time code for an identity.
type otpRecord struct {
	Code      string    `firestore:"code" json:"code"`
	ExpiresAt time.Time `firestore:"expiresAt" json:"expiresAt"`
}

// tokenStore partitions token documents by identity string (admin email or
// user phone number) inside the shared tokens collection.
type tokenStore struct {
	docs docstore.Store
}

func (s tokenStore) Save(ctx context.Context, identity, token string, issuedAt time.Time) error {
	return s.docs.Set(ctx, docstore.Tokens, identity, tokenRecord{Token: token, IssuedAt: issuedAt})
}

// Current returns the most recently stored token for the identity, or
// ErrInvalidToken when no session exists.
func (s tokenStore) Current(ctx context.Context, identity string) (string, error) {
	var rec tokenRecord
	if err := s.docs.Get(ctx, docstore.Tokens, identity, &rec); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	return rec.Token, nil
}

func (s tokenStore) Delete(ctx context.Context, identity string) error {
	return s.docs.Delete(ctx, docstore.Tokens, identity)
}

type otpStore struct {
	docs docstore.Store
}

func (s otpStore) Save(ctx context.Context, identity string, rec otpRecord) error {
	return s.docs.Set(ctx, docstore.OTPs, identity, rec)
}

func (s otpStore) Get(ctx context.Context, identity string) (otpRecord, error) {
	var rec otpRecord
	if err := s.docs.Get(ctx, docstore.OTPs, identity, &rec); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return otpRecord{}, ErrInvalidCode
		}
		return otpRecord{}, err
	}
	return rec, nil
}

func (s otpStore) Delete(ctx context.Context, identity string) error {
	return s.docs.Delete(ctx, docstore.OTPs, identity)
}
