package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tradehub/internal/domain"
	applog "tradehub/internal/log"
	"tradehub/internal/services"
	"tradehub/internal/validate"
)

type AllocationHandler struct {
	Allocations *services.AllocationService
}

type grantRequest struct {
	DistributorID string   `json:"distributorId"`
	ProductID     string   `json:"productId"`
	Quantity      int      `json:"quantity"`
	SellingPrice  *float64 `json:"sellingPrice"`
}

func (h *AllocationHandler) Grant(c *fiber.Ctx) error {
	var req grantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	distributorID, ok := validate.ID(req.DistributorID)
	if !ok {
		return badRequest(c, "invalid distributorId")
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "invalid productId")
	}
	if req.Quantity < 0 {
		return badRequest(c, "quantity must be >= 0")
	}
	if req.SellingPrice != nil && !validate.Price(*req.SellingPrice) {
		return badRequest(c, "sellingPrice must be >= 0")
	}

	a, err := h.Allocations.Grant(actor(c).ID, distributorID, productID, req.Quantity, req.SellingPrice)
	if err != nil {
		return fail(c, "allocation.grant.fail", err)
	}
	applog.Audit(c, "allocation.grant", map[string]any{
		"allocation_id":  a.ID,
		"distributor_id": distributorID,
		"product_id":     productID,
		"quantity":       req.Quantity,
	})
	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *AllocationHandler) Revoke(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Allocations.Revoke(id, actor(c).ID); err != nil {
		return fail(c, "allocation.revoke.fail", err)
	}
	applog.Audit(c, "allocation.revoke", map[string]any{"allocation_id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// List shows the caller's side of the ledger: grants issued for a
// manufacturer, grants received for a distributor.
func (h *AllocationHandler) List(c *fiber.Ctx) error {
	u := actor(c)
	var (
		out []domain.Allocation
		err error
	)
	if u.Role == domain.RoleDistributor {
		out, err = h.Allocations.ListByDistributor(u.ID)
	} else {
		out, err = h.Allocations.ListByManufacturer(u.ID)
	}
	if err != nil {
		return fail(c, "allocation.list.fail", err)
	}
	return c.JSON(fiber.Map{"allocations": out})
}
