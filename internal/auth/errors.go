package auth

import "errors"

var (
	// ErrInvalidToken covers missing, malformed, expired, forged, and
	// superseded tokens alike; callers map it to 401.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrForbidden means the token verified but the principal may not act
	// in this role or from this origin; callers map it to 403.
	ErrForbidden = errors.New("auth: forbidden")
	// ErrInvalidIdentity rejects a login identity that can never issue.
	ErrInvalidIdentity = errors.New("auth: invalid identity")
	// ErrInvalidCode rejects a wrong or expired one-time code.
	ErrInvalidCode = errors.New("auth: invalid code")
)
