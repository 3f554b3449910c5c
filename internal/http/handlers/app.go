package handlers

import (
	"errors"
	"time"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/domain"
	applog "craftbazaar/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// errorHandler maps the error taxonomy to HTTP statuses in one place.
// Internal details never reach the client.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status := apperr.Status(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		return c.Status(status).JSON(fiber.Map{"error": "something went wrong, please try again"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// NewApp builds the fiber application with all middleware and routes wired.
func NewApp(deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	authed := RequireAuth(deps.Auth)

	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, please try again later"})
		},
	})

	// Auth & profile
	authAPI := app.Group("/api/auth")
	authAPI.Post("/register", deps.AuthHandler.Register)
	authAPI.Post("/login", loginLimiter, deps.AuthHandler.Login)
	authAPI.Get("/profile", authed, deps.AuthHandler.Profile)
	authAPI.Put("/profile", authed, deps.AuthHandler.UpdateProfile)
	authAPI.Post("/address", authed, deps.AuthHandler.AddAddress)
	authAPI.Put("/address/:id", authed, deps.AuthHandler.UpdateAddress)
	authAPI.Delete("/address/:id", authed, deps.AuthHandler.DeleteAddress)

	// Seller onboarding
	app.Post("/api/sellers/register", deps.AuthHandler.RegisterSeller)

	// Catalog
	products := app.Group("/api/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/top", deps.ProductHandler.Top)
	products.Get("/featured", deps.ProductHandler.Featured)
	products.Get("/seller", authed, RequireRole(domain.RoleSeller), deps.ProductHandler.SellerList)
	products.Get("/:id", deps.ProductHandler.Get)
	products.Post("/", authed, RequireApprovedSeller(), deps.ProductHandler.Create)
	products.Put("/:id", authed, deps.ProductHandler.Update)
	products.Delete("/:id", authed, deps.ProductHandler.Delete)

	app.Get("/api/categories", deps.CategoryHandler.List)

	// Cart
	cart := app.Group("/api/cart", authed)
	cart.Get("/", deps.CartHandler.Get)
	cart.Post("/", deps.CartHandler.Add)
	cart.Delete("/", deps.CartHandler.Clear)
	cart.Put("/:productId", deps.CartHandler.UpdateItem)
	cart.Delete("/:productId", deps.CartHandler.RemoveItem)

	// Admin
	admin := app.Group("/api/admin", authed, RequireRole(domain.RoleAdmin))
	admin.Get("/dashboard", deps.AdminHandler.Dashboard)
	admin.Get("/users", deps.AdminHandler.Users)
	admin.Get("/users/:id", deps.AdminHandler.GetUser)
	admin.Put("/users/:id", deps.AdminHandler.UpdateUser)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	admin.Get("/sellers/pending", deps.AdminHandler.PendingSellers)
	admin.Put("/sellers/:id/approve", deps.AdminHandler.ApproveSeller)
	admin.Post("/categories", deps.AdminHandler.CreateCategory)
	admin.Put("/categories/:id", deps.AdminHandler.UpdateCategory)
	admin.Delete("/categories/:id", deps.AdminHandler.DeleteCategory)
	admin.Put("/products/:id/feature", deps.AdminHandler.FeatureProduct)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	return app
}
