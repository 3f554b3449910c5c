package handlers

import (
	"strconv"
	"strings"

	"craftbazaar/internal/apperr"
	applog "craftbazaar/internal/log"
	"craftbazaar/internal/repos"
	"craftbazaar/internal/services"
	"craftbazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// sortColumns maps API sort keys onto repo columns.
var sortColumns = map[string]string{
	"price":     "price",
	"rating":    "rating",
	"name":      "name",
	"createdAt": "created_at",
}

func parseFloatQuery(c *fiber.Ctx, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, apperr.Errorf(apperr.Validation, "invalid %s", name)
	}
	return &v, nil
}

func (h *ProductHandler) parseFilter(c *fiber.Ctx) (repos.Filter, error) {
	var f repos.Filter

	if raw := c.Query("keyword"); strings.TrimSpace(raw) != "" {
		kw, ok := validate.Keyword(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "keyword"})
			return f, apperr.E(apperr.Validation, "enter a valid keyword")
		}
		f.Keyword = strings.ToLower(kw)
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return f, apperr.E(apperr.Validation, "invalid category")
		}
		f.CategoryID = id
	}
	var err error
	if f.PriceMin, err = parseFloatQuery(c, "priceMin"); err != nil {
		return f, err
	}
	if f.PriceMax, err = parseFloatQuery(c, "priceMax"); err != nil {
		return f, err
	}
	if f.MinRating, err = parseFloatQuery(c, "rating"); err != nil {
		return f, err
	}
	f.CraftType = strings.TrimSpace(c.Query("craftType"))
	f.Region = strings.TrimSpace(c.Query("region"))

	if raw := strings.TrimSpace(c.Query("sortBy")); raw != "" {
		col, ok := sortColumns[raw]
		if !ok {
			return f, apperr.E(apperr.Validation, "invalid sortBy")
		}
		f.SortBy = col
		f.Desc = c.Query("order") == "desc"
	} else {
		// Default: newest first.
		f.SortBy = "created_at"
		f.Desc = true
	}
	return f, nil
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f, err := h.parseFilter(c)
	if err != nil {
		return err
	}
	page := validate.Page(c.QueryInt("pageNumber", 1))
	result, err := h.Catalog.ListProducts(f, page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/products/top
func (h *ProductHandler) Top(c *fiber.Ctx) error {
	products, err := h.Catalog.Top()
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/products/featured
func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	products, err := h.Catalog.Featured()
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/products/seller
func (h *ProductHandler) SellerList(c *fiber.Ctx) error {
	page := validate.Page(c.QueryInt("pageNumber", 1))
	result, err := h.Catalog.SellerProducts(AccountFrom(c).ID, page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "product not found")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	p, err := h.Catalog.CreateProduct(AccountFrom(c).ID, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "product not found")
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	p, err := h.Catalog.UpdateProduct(AccountFrom(c), id, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "product not found")
	}
	if err := h.Catalog.DeleteProduct(AccountFrom(c), id); err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "product removed"})
}
