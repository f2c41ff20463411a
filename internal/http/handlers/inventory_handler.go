package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tradehub/internal/services"
	"tradehub/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Check is the public availability probe, rate-limited at the route.
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("productId"))
	if productID == "" {
		return badRequest(c, "missing productId")
	}
	avail, err := h.Inv.CheckAvailability(productID)
	if err != nil {
		return fail(c, "availability.fail", err)
	}
	return c.JSON(avail)
}

// List returns the calling distributor's own stock.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	rows, err := h.Inv.List(actor(c).ID)
	if err != nil {
		return fail(c, "inventory.list.fail", err)
	}
	return c.JSON(fiber.Map{"inventory": rows})
}

type inventoryPatch struct {
	SellingPrice *float64 `json:"sellingPrice"`
	IsAvailable  *bool    `json:"isAvailable"`
}

func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "invalid productId")
	}
	var req inventoryPatch
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	if req.SellingPrice == nil && req.IsAvailable == nil {
		return badRequest(c, "nothing to update")
	}

	u := actor(c)
	if req.SellingPrice != nil {
		if !validate.Price(*req.SellingPrice) {
			return badRequest(c, "sellingPrice must be >= 0")
		}
		if err := h.Inv.SetPrice(u.ID, productID, *req.SellingPrice); err != nil {
			return fail(c, "inventory.update.fail", err)
		}
	}
	if req.IsAvailable != nil {
		if err := h.Inv.SetAvailable(u.ID, productID, *req.IsAvailable); err != nil {
			return fail(c, "inventory.update.fail", err)
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}
