package handlers

import (
	"craftbazaar/internal/repos"
	"craftbazaar/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CartHandler     *CartHandler
	AdminHandler    *AdminHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, authSvc *services.AuthService) *Deps {
	userRepo := authSvc.Users
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	accountSvc := services.NewAccountService(userRepo, authSvc)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	adminSvc := services.NewAdminService(userRepo, prodRepo, orderRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc, Accounts: accountSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		AdminHandler:    &AdminHandler{Admin: adminSvc, Catalog: catalogSvc},
		Auth:            authSvc,
	}
}
