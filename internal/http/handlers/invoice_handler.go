package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tradehub/internal/log"
	"tradehub/internal/services"
	"tradehub/internal/validate"
)

type InvoiceHandler struct {
	Invoices *services.InvoiceService
}

func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	detail, err := h.Invoices.Get(id, actor(c))
	if err != nil {
		return fail(c, "invoice.get.fail", err)
	}
	return c.JSON(detail)
}

func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.Invoices.ListForUser(actor(c).ID)
	if err != nil {
		return fail(c, "invoice.list.fail", err)
	}
	return c.JSON(fiber.Map{"invoices": out})
}

// Generate re-derives the invoice for an order; calling it on an
// already-invoiced order returns the stored invoice.
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	orderID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	inv, err := h.Invoices.Generate(orderID)
	if err != nil {
		return fail(c, "invoice.generate.fail", err)
	}
	applog.Audit(c, "invoice.generate", map[string]any{"order_id": orderID, "invoice_number": inv.InvoiceNumber})
	return c.JSON(inv)
}
