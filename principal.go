package foodbook

import "github.com/google/uuid"

// PrincipalKind tags the variant held by a Principal
type PrincipalKind int

const (
	PrincipalAnonymous PrincipalKind = iota
	PrincipalSession
	PrincipalToken
)

func (k PrincipalKind) String() string {
	switch k {
	case PrincipalSession:
		return "session"
	case PrincipalToken:
		return "token"
	default:
		return "anonymous"
	}
}

// Principal describes who a credential claims to be, before the user
// record is loaded. Only the fields of its Kind are set.
type Principal struct {
	Kind   PrincipalKind
	Email  string
	UserID uuid.UUID
	Token  string
}

// Anonymous is the principal of a request without credentials
func Anonymous() Principal {
	return Principal{Kind: PrincipalAnonymous}
}

// SessionPrincipal is a principal established by form login
func SessionPrincipal(email string) Principal {
	return Principal{Kind: PrincipalSession, Email: email}
}

// TokenPrincipal is a principal carried by a bearer token
func TokenPrincipal(userID uuid.UUID, token string) Principal {
	return Principal{Kind: PrincipalToken, UserID: userID, Token: token}
}

// IsAnonymous reports whether p carries no identity
func (p Principal) IsAnonymous() bool {
	return p.Kind == PrincipalAnonymous
}
