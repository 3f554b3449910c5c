package handlers

import (
	"craftbazaar/internal/apperr"
	applog "craftbazaar/internal/log"
	"craftbazaar/internal/services"
	"craftbazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Admin   *services.AdminService
	Catalog *services.CatalogService
}

// GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.Admin.Dashboard()
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GET /api/admin/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	page := validate.Page(c.QueryInt("pageNumber", 1))
	result, err := h.Admin.ListUsers(page)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "user not found")
	}
	a, err := h.Admin.GetUser(id)
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// PUT /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "user not found")
	}
	var in services.AdminUserUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	a, err := h.Admin.UpdateUser(id, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.user.update", map[string]any{"user_id": id})
	return c.JSON(a)
}

// DELETE /api/admin/users/:id (soft deactivation, never removal)
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "user not found")
	}
	if err := h.Admin.DeactivateUser(id); err != nil {
		return err
	}
	applog.Audit(c, "admin.user.deactivate", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"message": "user deactivated"})
}

// GET /api/admin/sellers/pending
func (h *AdminHandler) PendingSellers(c *fiber.Ctx) error {
	sellers, err := h.Admin.PendingSellers()
	if err != nil {
		return err
	}
	return c.JSON(sellers)
}

type approveInput struct {
	Approved bool `json:"approved"`
}

// PUT /api/admin/sellers/:id/approve
func (h *AdminHandler) ApproveSeller(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "seller not found")
	}
	var in approveInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	a, err := h.Admin.ApproveSeller(id, in.Approved)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.seller.approve", map[string]any{"seller_id": id, "approved": in.Approved})
	msg := "seller rejected"
	if in.Approved {
		msg = "seller approved"
	}
	return c.JSON(fiber.Map{"message": msg, "seller": a})
}

// POST /api/admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	cat, err := h.Catalog.CreateCategory(in)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category_id": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

type categoryUpdateInput struct {
	services.CategoryInput
	IsActive bool `json:"isActive"`
}

// PUT /api/admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "category not found")
	}
	var in categoryUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	cat, err := h.Catalog.UpdateCategory(id, in.CategoryInput, in.IsActive)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.category.update", map[string]any{"category_id": id})
	return c.JSON(cat)
}

// DELETE /api/admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "category not found")
	}
	removed, err := h.Catalog.DeleteCategory(id)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category_id": id, "removed": removed})
	msg := "category marked as inactive"
	if removed {
		msg = "category removed"
	}
	return c.JSON(fiber.Map{"message": msg})
}

type featureInput struct {
	Featured bool `json:"featured"`
}

// PUT /api/admin/products/:id/feature
func (h *AdminHandler) FeatureProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.NotFound, "product not found")
	}
	var in featureInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	p, err := h.Catalog.FeatureProduct(id, in.Featured)
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.product.feature", map[string]any{"product_id": id, "featured": in.Featured})
	return c.JSON(p)
}
