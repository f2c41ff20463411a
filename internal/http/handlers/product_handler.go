package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tradehub/internal/domain"
	applog "tradehub/internal/log"
	"tradehub/internal/repos"
	"tradehub/internal/validate"
)

type ProductHandler struct {
	Prods *repos.ProductRepo
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, err := h.Prods.Get(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, "product.get.fail", domain.ErrNotFound)
		}
		return fail(c, "product.get.fail", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.Prods.ListByManufacturer(actor(c).ID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return fail(c, "product.list.fail", err)
	}
	return c.JSON(fiber.Map{"products": out})
}

type createProductRequest struct {
	SKU           string  `json:"sku"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	BasePrice     float64 `json:"basePrice"`
	StockQuantity int     `json:"stockQuantity"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed body")
	}
	sku, ok := validate.SKU(req.SKU)
	if !ok {
		return badRequest(c, "invalid sku")
	}
	if req.Title == "" {
		return badRequest(c, "missing title")
	}
	if !validate.Price(req.BasePrice) || req.StockQuantity < 0 {
		return badRequest(c, "invalid price or stock")
	}

	p := domain.Product{
		ID:             uuid.NewString(),
		ManufacturerID: actor(c).ID,
		SKU:            sku,
		Title:          req.Title,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		StockQuantity:  req.StockQuantity,
		Active:         true,
	}
	if err := h.Prods.Create(p); err != nil {
		return fail(c, "product.create.fail", err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "sku": sku})
	return c.Status(fiber.StatusCreated).JSON(p)
}
