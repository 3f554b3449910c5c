package handlers

import (
	"craftbazaar/internal/apperr"
	applog "craftbazaar/internal/log"
	"craftbazaar/internal/services"
	"craftbazaar/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth     *services.AuthService
	Accounts *services.AccountService
}

func checkRegisterInput(in services.RegisterInput) error {
	if _, ok := validate.Name(in.Name); !ok {
		return apperr.E(apperr.Validation, "enter a valid name")
	}
	if _, ok := validate.Email(in.Email); !ok {
		return apperr.E(apperr.Validation, "enter a valid email")
	}
	if !validate.Password(in.Password) {
		return apperr.E(apperr.Validation, "password must be 8-64 characters and mix upper, lower, digit and symbol")
	}
	if _, ok := validate.Phone(in.Phone); !ok {
		return apperr.E(apperr.Validation, "enter a valid phone number")
	}
	return nil
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	if err := checkRegisterInput(in); err != nil {
		return err
	}
	a, token, err := h.Auth.Register(in)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.register", map[string]any{"email": a.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"account": a, "token": token})
}

// POST /api/sellers/register
func (h *AuthHandler) RegisterSeller(c *fiber.Ctx) error {
	var in services.SellerRegisterInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	if err := checkRegisterInput(in.RegisterInput); err != nil {
		return err
	}
	if in.BusinessName == "" {
		return apperr.E(apperr.Validation, "business name is required")
	}
	a, token, err := h.Auth.RegisterSeller(in)
	if err != nil {
		return err
	}
	applog.Audit(c, "seller.register", map[string]any{"email": a.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"account": a, "token": token})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	if _, ok := validate.Email(in.Email); !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return apperr.E(apperr.Unauthenticated, "invalid email or password")
	}
	a, token, err := h.Auth.Login(in.Email, in.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return err
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": a.Email})
	return c.JSON(fiber.Map{"account": a, "token": token})
}

// GET /api/auth/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	p, err := h.Accounts.Profile(AccountFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in services.ProfileUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	if _, ok := validate.Name(in.Name); !ok {
		return apperr.E(apperr.Validation, "enter a valid name")
	}
	if _, ok := validate.Email(in.Email); !ok {
		return apperr.E(apperr.Validation, "enter a valid email")
	}
	if in.Password != "" && !validate.Password(in.Password) {
		return apperr.E(apperr.Validation, "password must be 8-64 characters and mix upper, lower, digit and symbol")
	}
	if _, ok := validate.Phone(in.Phone); !ok {
		return apperr.E(apperr.Validation, "enter a valid phone number")
	}
	a, token, err := h.Accounts.UpdateProfile(AccountFrom(c).ID, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.profile.update", nil)
	return c.JSON(fiber.Map{"account": a, "token": token})
}

// POST /api/auth/address
func (h *AuthHandler) AddAddress(c *fiber.Ctx) error {
	var in services.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	if in.Street == "" || in.City == "" || in.Country == "" {
		return apperr.E(apperr.Validation, "street, city and country are required")
	}
	addrs, err := h.Accounts.AddAddress(AccountFrom(c).ID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(addrs)
}

// PUT /api/auth/address/:id
func (h *AuthHandler) UpdateAddress(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.Validation, "invalid address id")
	}
	var in services.AddressInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.E(apperr.Validation, "invalid request body")
	}
	addrs, err := h.Accounts.UpdateAddress(AccountFrom(c).ID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(addrs)
}

// DELETE /api/auth/address/:id
func (h *AuthHandler) DeleteAddress(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.E(apperr.Validation, "invalid address id")
	}
	if err := h.Accounts.DeleteAddress(AccountFrom(c).ID, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "address removed"})
}
