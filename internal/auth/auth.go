// Package auth decides who may hit the administrative API. Identity is a
// provider-neutral shape; admin status is a predicate over it, so swapping
// identity providers never touches the handlers.
package auth

import (
	"errors"
	"strings"
)

var (
	// ErrNotAuthenticated means no identity was presented at all.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAdmin means a valid identity was presented but it lacks admin standing.
	ErrNotAdmin = errors.New("not admin")
)

// Identity is what the session or a bearer token resolves to.
type Identity struct {
	Email string
	Roles []string
}

// AdminPredicate reports whether an identity counts as an administrator.
type AdminPredicate func(Identity) bool

// EmailDomainPredicate admits identities whose email ends in "@" + domain.
// Matching is case-insensitive. An empty domain admits nobody.
func EmailDomainPredicate(domain string) AdminPredicate {
	suffix := "@" + strings.ToLower(domain)
	return func(identity Identity) bool {
		if domain == "" {
			return false
		}
		return strings.HasSuffix(strings.ToLower(identity.Email), suffix)
	}
}

// RoleClaimPredicate admits identities carrying the given role claim.
func RoleClaimPredicate(role string) AdminPredicate {
	return func(identity Identity) bool {
		for _, r := range identity.Roles {
			if r == role {
				return true
			}
		}
		return false
	}
}

// ExactEmailPredicate admits one specific address, case-insensitively.
func ExactEmailPredicate(email string) AdminPredicate {
	return func(identity Identity) bool {
		return email != "" && strings.EqualFold(identity.Email, email)
	}
}

// Authorizer gates destructive admin operations. In development mode every
// call is permitted; otherwise the caller must be authenticated and satisfy
// at least one predicate.
type Authorizer struct {
	devMode    bool
	predicates []AdminPredicate
}

func NewAuthorizer(devMode bool, predicates ...AdminPredicate) *Authorizer {
	return &Authorizer{devMode: devMode, predicates: predicates}
}

// AuthorizeAdmin returns nil when the caller may proceed. A nil identity maps
// to ErrNotAuthenticated, a non-admin identity to ErrNotAdmin; the two are
// distinct so the transport layer can answer 401 versus 403.
func (a *Authorizer) AuthorizeAdmin(identity *Identity) error {
	if a.devMode {
		return nil
	}
	if identity == nil {
		return ErrNotAuthenticated
	}
	for _, isAdmin := range a.predicates {
		if isAdmin(*identity) {
			return nil
		}
	}
	return ErrNotAdmin
}
