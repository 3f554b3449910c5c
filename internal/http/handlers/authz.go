package handlers

import (
	"strings"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/domain"
	applog "craftbazaar/internal/log"
	"craftbazaar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth resolves the bearer token to a live account and attaches it to
// the request context. Authentication only; isActive/isApproved are checked
// by the role gates below.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			applog.Security(c, "auth.token.missing", nil)
			return apperr.E(apperr.Unauthenticated, "not authorized, no token")
		}
		a, err := auth.Resolve(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return err
		}
		c.Locals("account", a)
		c.Locals("accountID", a.ID)
		return c.Next()
	}
}

// AccountFrom returns the account attached by RequireAuth, or nil.
func AccountFrom(c *fiber.Ctx) *domain.Account {
	a, _ := c.Locals("account").(*domain.Account)
	return a
}

// RequireRole short-circuits with Forbidden unless the resolved account has
// exactly the given role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := AccountFrom(c)
		if a == nil {
			return apperr.E(apperr.Unauthenticated, "not authenticated")
		}
		if a.Role != role {
			applog.Security(c, "access.denied.role", map[string]any{"required": role})
			return apperr.Errorf(apperr.Forbidden, "not authorized as %s", role)
		}
		return c.Next()
	}
}

// RequireApprovedSeller gates seller-only mutations behind admin approval.
func RequireApprovedSeller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a := AccountFrom(c)
		if a == nil {
			return apperr.E(apperr.Unauthenticated, "not authenticated")
		}
		if a.Role != domain.RoleSeller || !a.IsApproved {
			applog.Security(c, "access.denied.seller", nil)
			return apperr.E(apperr.Forbidden, "seller account not approved yet")
		}
		return c.Next()
	}
}
