package services_test

import (
	"testing"

	"craftbazaar/internal/apperr"
	"craftbazaar/internal/domain"
	"craftbazaar/internal/repos"
	"craftbazaar/internal/services"
)

func TestDashboardRollups(t *testing.T) {
	db := openSeeded(t)
	orders := repos.NewOrderRepo(db)
	svc := services.NewAdminService(repos.NewUserRepo(db), repos.NewProductRepo(db), orders)

	seed := []domain.Order{
		{ID: "o-1", AccountID: "a-mira", TotalPrice: 100, IsPaid: true, PaidAt: "2026-08-01 10:00:00", Status: "DELIVERED"},
		{ID: "o-2", AccountID: "a-mira", TotalPrice: 60, IsPaid: false, Status: "PLACED"},
		{ID: "o-3", AccountID: "a-mira", TotalPrice: 40.50, IsPaid: true, PaidAt: "2026-08-02 10:00:00", Status: "SHIPPED"},
	}
	for i := range seed {
		if err := orders.Create(&seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.Dashboard()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalUsers != 1 || stats.TotalSellers != 1 {
		t.Fatalf("seed has 1 customer and 1 seller, got users=%d sellers=%d", stats.TotalUsers, stats.TotalSellers)
	}
	if stats.TotalProducts != 3 || stats.TotalOrders != 3 {
		t.Fatalf("want 3 products / 3 orders, got %d / %d", stats.TotalProducts, stats.TotalOrders)
	}
	// Revenue counts paid orders only.
	if stats.TotalRevenue != 140.50 {
		t.Fatalf("want revenue 140.50, got %v", stats.TotalRevenue)
	}
	if len(stats.RecentOrders) != 3 {
		t.Fatalf("want 3 recent orders, got %d", len(stats.RecentOrders))
	}
	if stats.RecentOrders[0].PurchaserName != "Mira" {
		t.Fatalf("recent orders should carry the purchaser name: %+v", stats.RecentOrders[0])
	}
	if len(stats.TopProducts) == 0 || stats.TopProducts[0].ID != "p-stone-001" {
		t.Fatalf("top products should lead with the highest rating, got %+v", stats.TopProducts)
	}

	// A newly paid order moves the rollup on the next call; nothing is cached.
	if err := orders.Create(&domain.Order{ID: "o-4", AccountID: "a-mira", TotalPrice: 9.50, IsPaid: true, PaidAt: "2026-08-03 10:00:00", Status: "PLACED"}); err != nil {
		t.Fatal(err)
	}
	stats, err = svc.Dashboard()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRevenue != 150.00 {
		t.Fatalf("want revenue 150.00 after new paid order, got %v", stats.TotalRevenue)
	}
}

func TestApproveSellerFlow(t *testing.T) {
	db := openSeeded(t)
	auth := newAuth(db)
	svc := services.NewAdminService(auth.Users, repos.NewProductRepo(db), repos.NewOrderRepo(db))

	a, _, err := auth.RegisterSeller(services.SellerRegisterInput{
		RegisterInput: services.RegisterInput{Name: "Weaver", Email: "weaver@example.test", Password: "Str0ng!pass"},
		BusinessName:  "Weaver Studio",
	})
	if err != nil {
		t.Fatal(err)
	}

	pending, err := svc.PendingSellers()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != a.ID {
		t.Fatalf("want the new seller pending, got %+v", pending)
	}

	if _, err := svc.ApproveSeller("a-mira", true); !apperr.Is(err, apperr.Validation) {
		t.Fatalf("approving a customer must be Validation, got %v", err)
	}
	if _, err := svc.ApproveSeller("nope", true); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("unknown id must be NotFound, got %v", err)
	}

	approved, err := svc.ApproveSeller(a.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	if !approved.IsApproved {
		t.Fatal("flag should be set")
	}
	// Approval unblocks login.
	if _, _, err := auth.Login("weaver@example.test", "Str0ng!pass"); err != nil {
		t.Fatalf("approved seller should log in: %v", err)
	}
	// Re-approval is a no-op, rejection flips the flag back.
	if _, err := svc.ApproveSeller(a.ID, true); err != nil {
		t.Fatal(err)
	}
	rejected, err := svc.ApproveSeller(a.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if rejected.IsApproved {
		t.Fatal("rejection should clear the flag")
	}
}

func TestAdminUserManagement(t *testing.T) {
	db := openSeeded(t)
	auth := newAuth(db)
	svc := services.NewAdminService(auth.Users, repos.NewProductRepo(db), repos.NewOrderRepo(db))

	page, err := svc.ListUsers(1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Count != 3 || page.Pages != 1 {
		t.Fatalf("seed has 3 accounts, got count=%d pages=%d", page.Count, page.Pages)
	}

	if _, err := svc.UpdateUser("a-mira", services.AdminUserUpdateInput{
		Name: "Mira", Email: "mira@craftbazaar.test", Role: "overlord", IsActive: true,
	}); !apperr.Is(err, apperr.Validation) {
		t.Fatalf("unknown role must be Validation, got %v", err)
	}

	a, err := svc.UpdateUser("a-mira", services.AdminUserUpdateInput{
		Name: "Mira D", Email: "mira@craftbazaar.test", Role: domain.RoleCustomer, IsApproved: true, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "Mira D" {
		t.Fatalf("update not applied: %+v", a)
	}

	// The admin "delete" deactivates and locks the account out.
	if err := svc.DeactivateUser("a-mira"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := auth.Login("mira@craftbazaar.test", "Passw0rd!"); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("deactivated account must be Forbidden at login, got %v", err)
	}
	if err := svc.DeactivateUser("nope"); !apperr.Is(err, apperr.NotFound) {
		t.Fatalf("unknown user must be NotFound, got %v", err)
	}
}
