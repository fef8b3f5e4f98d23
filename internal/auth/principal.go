package auth

// Kind discriminates the principal union. The decision is made once at the
// authentication boundary and carried by value; handlers never re-derive it
// from claims.
type Kind int

const (
	// KindPublic is an anonymous read-only caller on public routes.
	KindPublic Kind = iota
	// KindAdmin is corporate staff identified by email.
	KindAdmin
	// KindUser is an end consumer identified by phone number.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindAdmin:
		return "admin"
	case KindUser:
		return "user"
	default:
		return "public"
	}
}

// Principal is an authenticated caller.
type Principal struct {
	Kind  Kind
	Email string // set for KindAdmin
	Phone string // set for KindUser
}

// Public is the anonymous principal attached to tokenless public reads.
var Public = Principal{Kind: KindPublic}

// Identity returns the identity string the token store is keyed by.
func (p Principal) Identity() string {
	switch p.Kind {
	case KindAdmin:
		return p.Email
	case KindUser:
		return p.Phone
	default:
		return ""
	}
}

// IsAdmin reports whether the principal may mutate catalog entities.
func (p Principal) IsAdmin() bool { return p.Kind == KindAdmin }
