package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "tradehub/internal/log"
	"tradehub/internal/services"
	"tradehub/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderRequest struct {
	CartItems      []services.Line `json:"cart_items"`
	DeliveryOption string          `json:"delivery_option"`
	Notes          string          `json:"notes"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	if len(req.CartItems) == 0 {
		return badRequest(c, "cart_items must not be empty")
	}
	for _, l := range req.CartItems {
		if _, ok := validate.ID(l.ProductID); !ok {
			return badRequest(c, "invalid product_id")
		}
		if !validate.Quantity(l.Quantity) {
			return badRequest(c, "quantity must be >= 1")
		}
	}
	delivery, ok := validate.DeliveryOption(req.DeliveryOption)
	if !ok {
		return badRequest(c, "invalid delivery_option")
	}
	notes, ok := validate.Notes(req.Notes)
	if !ok {
		return badRequest(c, "notes too long")
	}

	u := actor(c)
	res, err := h.Orders.Place(u.ID, req.CartItems, delivery, notes)
	if err != nil {
		return fail(c, "order.place.fail", err)
	}

	ids := make([]string, 0, len(res.Orders))
	for _, po := range res.Orders {
		ids = append(ids, po.Order.ID)
	}
	applog.Audit(c, "order.place", map[string]any{
		"checkout_ref": res.CheckoutRef,
		"order_ids":    strings.Join(ids, ","),
	})
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	od, err := h.Orders.Get(id, actor(c))
	if err != nil {
		return fail(c, "order.get.fail", err)
	}
	return c.JSON(od)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.ListForUser(actor(c).ID)
	if err != nil {
		return fail(c, "order.list.fail", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	next := strings.ToUpper(strings.TrimSpace(req.Status))
	if next == "" {
		return badRequest(c, "missing status")
	}

	o, err := h.Orders.UpdateStatus(id, actor(c), next)
	if err != nil {
		return fail(c, "order.status.fail", err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": next})
	return c.JSON(o)
}
