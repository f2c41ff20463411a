package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tradehub/internal/services"
	"tradehub/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartAddRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartAddRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "invalid productId")
	}
	if !validate.Quantity(req.Quantity) {
		return badRequest(c, "quantity must be >= 1")
	}
	if err := h.Cart.Add(actor(c).ID, productID, req.Quantity); err != nil {
		return fail(c, "cart.add.fail", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(actor(c).ID)
	if err != nil {
		return fail(c, "cart.view.fail", err)
	}
	return c.JSON(cv)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "invalid productId")
	}
	if err := h.Cart.Remove(actor(c).ID, productID); err != nil {
		return fail(c, "cart.remove.fail", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(actor(c).ID); err != nil {
		return fail(c, "cart.clear.fail", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
