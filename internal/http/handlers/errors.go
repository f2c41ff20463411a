package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tradehub/internal/domain"
	applog "tradehub/internal/log"
)

// fail maps the core error taxonomy onto HTTP statuses and a
// structured body naming the error kind (and the offending product
// where there is one). Unknown errors stay opaque.
func fail(c *fiber.Ctx, action string, err error) error {
	if ise, ok := domain.IsInsufficientStock(err); ok {
		applog.Security(c, action, map[string]any{"error": "insufficient_stock", "product_id": ise.ProductID})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "insufficient_stock",
			"productId": ise.ProductID,
			"requested": ise.Requested,
			"available": ise.Available,
		})
	}

	kind, status := "internal", fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDuplicateRequest):
		kind, status = "duplicate_request", fiber.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		kind, status = "unauthorized", fiber.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyResolved):
		kind, status = "already_resolved", fiber.StatusConflict
	case errors.Is(err, domain.ErrPartnershipRequired):
		kind, status = "partnership_required", fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition):
		kind, status = "invalid_transition", fiber.StatusConflict
	case errors.Is(err, domain.ErrOrderNotSettled):
		kind, status = "order_not_settled", fiber.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		kind, status = "conflict", fiber.StatusConflict
	case errors.Is(err, domain.ErrBadInput):
		kind, status = "bad_request", fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		kind, status = "not_found", fiber.StatusNotFound
	case errors.Is(err, domain.ErrDataIntegrity):
		// Corrupt data, not a bad request; already logged at source.
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "data_integrity"})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(status).JSON(fiber.Map{"error": kind})
	}

	applog.Security(c, action, map[string]any{"error": kind})
	return c.Status(status).JSON(fiber.Map{"error": kind})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": msg})
}
