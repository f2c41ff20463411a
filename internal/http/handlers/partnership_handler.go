package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tradehub/internal/log"
	"tradehub/internal/services"
	"tradehub/internal/validate"
)

type PartnershipHandler struct {
	Partnerships *services.PartnershipService
}

type partnershipRequest struct {
	PartnerID       string `json:"partnerId"`
	PartnershipType string `json:"partnershipType"`
}

func (h *PartnershipHandler) Request(c *fiber.Ctx) error {
	var req partnershipRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	partnerID, ok := validate.ID(req.PartnerID)
	if !ok {
		return badRequest(c, "invalid partnerId")
	}
	ptype, ok := validate.PartnershipType(req.PartnershipType)
	if !ok {
		return badRequest(c, "invalid partnershipType")
	}

	p, err := h.Partnerships.Request(actor(c).ID, partnerID, ptype)
	if err != nil {
		return fail(c, "partnership.request.fail", err)
	}
	applog.Audit(c, "partnership.request", map[string]any{"partnership_id": p.ID, "partner_id": partnerID, "type": ptype})
	return c.Status(fiber.StatusCreated).JSON(p)
}

type respondRequest struct {
	Decision string `json:"decision"`
}

func (h *PartnershipHandler) Respond(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req respondRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	decision, ok := validate.Decision(req.Decision)
	if !ok {
		return badRequest(c, "decision must be approved or rejected")
	}

	p, err := h.Partnerships.Respond(id, actor(c).ID, decision)
	if err != nil {
		return fail(c, "partnership.respond.fail", err)
	}
	applog.Audit(c, "partnership.respond", map[string]any{"partnership_id": p.ID, "decision": decision})
	return c.JSON(p)
}

func (h *PartnershipHandler) List(c *fiber.Ctx) error {
	out, err := h.Partnerships.ListForUser(actor(c).ID)
	if err != nil {
		return fail(c, "partnership.list.fail", err)
	}
	return c.JSON(fiber.Map{"partnerships": out})
}
