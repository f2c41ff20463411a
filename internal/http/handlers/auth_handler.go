package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "tradehub/internal/log"
	"tradehub/internal/services"
	"tradehub/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return badRequest(c, "invalid email")
	}
	if !validate.Password(req.Password) {
		applog.Security(c, "login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "bad_credentials"})
	}

	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
	}
	u, err := h.Auth.Login(sid, email, req.Password)
	if err != nil {
		applog.Security(c, "login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "bad_credentials"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false, // enable true behind TLS
	})
	applog.Audit(c, "login.ok", map[string]any{"user_id": u.ID, "role": u.Role})
	return c.JSON(fiber.Map{"id": u.ID, "name": u.Name, "role": u.Role})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		_ = h.Auth.Logout(sid)
	}
	c.ClearCookie("sid")
	return c.JSON(fiber.Map{"ok": true})
}
