package handlers

import (
	"craftbazaar/internal/apperr"
	applog "craftbazaar/internal/log"
	"craftbazaar/internal/services"
	"craftbazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cv, err := h.Cart.GetOrCreate(AccountFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

type addItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// POST /api/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in addItemInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	if _, ok := validate.ID(in.ProductID); !ok {
		return apperr.E(apperr.Validation, "missing productId")
	}
	cv, err := h.Cart.AddOrSetItem(AccountFrom(c).ID, in.ProductID, in.Quantity)
	if err != nil {
		return err
	}
	applog.Info(c, "cart.item.set", map[string]any{"product_id": in.ProductID, "qty": in.Quantity})
	return c.JSON(cv)
}

type updateItemInput struct {
	Quantity int `json:"quantity"`
}

// PUT /api/cart/:productId
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return apperr.E(apperr.Validation, "missing productId")
	}
	var in updateItemInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	cv, err := h.Cart.UpdateQuantity(AccountFrom(c).ID, productID, in.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

// DELETE /api/cart/:productId
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return apperr.E(apperr.Validation, "missing productId")
	}
	cv, err := h.Cart.RemoveItem(AccountFrom(c).ID, productID)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cv, err := h.Cart.Clear(AccountFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}
