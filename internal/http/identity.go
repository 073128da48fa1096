package http

import (
	"errors"
	"log/slog"

	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/http/middleware"
	"portfolio/internal/users"
)

// newAuthorizer builds the admin gate from config. Either strategy is
// enough: a matching email domain, the admin role claim, or the exact
// configured admin address.
func newAuthorizer(cfg *config.Config) *auth.Authorizer {
	return auth.NewAuthorizer(
		cfg.IsDevelopment(),
		auth.EmailDomainPredicate(cfg.AdminDomain),
		auth.RoleClaimPredicate(cfg.AdminRole),
		auth.ExactEmailPredicate(cfg.AdminEmail),
	)
}

// resolveIdentity returns the caller's identity, preferring a bearer-token
// identity stashed by the auth middleware, then the login session. Returns
// nil when the caller is anonymous.
func resolveIdentity(ctx *cartridge.Context) *auth.Identity {
	if identity, ok := ctx.Locals(middleware.IdentityKey).(*auth.Identity); ok {
		return identity
	}

	userID, authenticated := ctx.Session.GetUserID(ctx.Ctx)
	if !authenticated {
		return nil
	}

	user, err := users.FindByID(ctx.DB(), userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Logger.Warn("Failed to load session user",
				slog.Uint64("userID", uint64(userID)),
				slog.Any("error", err))
		}
		return nil
	}

	identity := user.Identity()
	return &identity
}
