package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tradehub/internal/domain"
	applog "tradehub/internal/log"
	"tradehub/internal/services"
)

// RequireUser resolves the sid cookie to a user and stashes the
// (actor_id, role) pair the core consumes.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login_required"})
		}
		bindActor(c, u)
		return c.Next()
	}
}

// RequireRole additionally pins the route to one role (admins always
// pass).
func RequireRole(auth *services.AuthService, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login_required"})
		}
		if u.Role != role && u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.role", map[string]any{"want": role})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		bindActor(c, u)
		return c.Next()
	}
}

func sessionUser(c *fiber.Ctx, auth *services.AuthService) *domain.User {
	sid := c.Cookies("sid")
	if sid == "" {
		return nil
	}
	u, err := auth.CurrentUser(sid)
	if err != nil {
		return nil
	}
	return u
}

func bindActor(c *fiber.Ctx, u *domain.User) {
	c.Locals("user", u)
	c.Locals("actor_id", u.ID)
	c.Locals("actor_role", u.Role)
}

func actor(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
