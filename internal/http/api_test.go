package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"craftbazaar/internal/http/handlers"
	"craftbazaar/internal/repos"
	"craftbazaar/internal/services"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	authSvc := services.NewAuthService(repos.NewUserRepo(db), "test-secret", time.Hour)
	return handlers.NewApp(handlers.NewDeps(db, authSvc))
}

// doJSON fires a request and decodes the JSON response body into a map.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", email, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: no token in %v", email, body)
	}
	return token
}

// Full marketplace flow: a seller registers, is approved, lists a product,
// and a customer's cart is held to the product's stock.
func TestSellerApprovalAndCartFlow(t *testing.T) {
	app := newTestApp(t)

	// Seller registers and is pending: no login, no listing.
	status, body := doJSON(t, app, "POST", "/api/sellers/register", "", fiber.Map{
		"name": "Weaver", "email": "weaver@example.test", "password": "Str0ng!pass",
		"businessName": "Weaver Studio", "businessAddress": "Sambalpur",
	})
	if status != http.StatusCreated {
		t.Fatalf("seller register: status %d body %v", status, body)
	}
	account := body["account"].(map[string]any)
	sellerID := account["id"].(string)
	pendingToken := body["token"].(string)

	status, body = doJSON(t, app, "POST", "/api/auth/login", "", fiber.Map{"email": "weaver@example.test", "password": "Str0ng!pass"})
	if status != http.StatusForbidden {
		t.Fatalf("pending seller login: want 403, got %d body %v", status, body)
	}
	status, _ = doJSON(t, app, "POST", "/api/products", pendingToken, fiber.Map{
		"name": "Ikat Stole", "description": "Cotton stole", "price": 25,
		"category": "cat-textiles", "countInStock": 5, "craftType": "handloom", "region": "Sambalpur",
	})
	if status != http.StatusForbidden {
		t.Fatalf("pending seller listing: want 403, got %d", status)
	}

	// Admin approves.
	adminToken := login(t, app, "admin@craftbazaar.test", "Passw0rd!")
	status, body = doJSON(t, app, "PUT", "/api/admin/sellers/"+sellerID+"/approve", adminToken, fiber.Map{"approved": true})
	if status != http.StatusOK {
		t.Fatalf("approve: status %d body %v", status, body)
	}

	// Now the seller can log in and list.
	sellerToken := login(t, app, "weaver@example.test", "Str0ng!pass")
	status, body = doJSON(t, app, "POST", "/api/products", sellerToken, fiber.Map{
		"name": "Ikat Stole", "description": "Cotton stole", "price": 25,
		"category": "cat-textiles", "countInStock": 5, "craftType": "handloom", "region": "Sambalpur",
	})
	if status != http.StatusCreated {
		t.Fatalf("create product: status %d body %v", status, body)
	}
	productID := body["id"].(string)

	// Customer can take all 5 but not 6.
	customerToken := login(t, app, "mira@craftbazaar.test", "Passw0rd!")
	status, body = doJSON(t, app, "POST", "/api/cart", customerToken, fiber.Map{"productId": productID, "quantity": 5})
	if status != http.StatusOK {
		t.Fatalf("add to cart: status %d body %v", status, body)
	}
	status, body = doJSON(t, app, "POST", "/api/cart", customerToken, fiber.Map{"productId": productID, "quantity": 6})
	if status != http.StatusBadRequest {
		t.Fatalf("over-stock add: want 400, got %d body %v", status, body)
	}

	status, body = doJSON(t, app, "GET", "/api/cart", customerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get cart: status %d", status)
	}
	items := body["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("want one line, got %v", body)
	}
	line := items[0].(map[string]any)
	if line["quantity"].(float64) != 5 {
		t.Fatalf("failed add must not change the line: %v", line)
	}
	if body["total"].(float64) != 125 {
		t.Fatalf("want total 125, got %v", body["total"])
	}
}

// A seller whose approval is revoked mid-session still holds a valid token,
// but product mutations must refuse it on the next request.
func TestRevokedSellerCannotMutateProducts(t *testing.T) {
	app := newTestApp(t)

	sellerToken := login(t, app, "studio@craftbazaar.test", "Passw0rd!")
	adminToken := login(t, app, "admin@craftbazaar.test", "Passw0rd!")

	status, body := doJSON(t, app, "PUT", "/api/admin/sellers/a-odisha-crafts/approve", adminToken, fiber.Map{"approved": false})
	if status != http.StatusOK {
		t.Fatalf("revoke: status %d body %v", status, body)
	}

	update := fiber.Map{
		"name": "Hijacked Listing", "description": "x", "price": 1,
		"category": "cat-textiles", "countInStock": 1, "craftType": "handloom", "region": "Sambalpur",
	}
	status, body = doJSON(t, app, "PUT", "/api/products/p-saree-001", sellerToken, update)
	if status != http.StatusForbidden {
		t.Fatalf("revoked seller update: want 403, got %d body %v", status, body)
	}
	status, _ = doJSON(t, app, "DELETE", "/api/products/p-saree-001", sellerToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("revoked seller delete: want 403, got %d", status)
	}

	// The listing is untouched.
	status, body = doJSON(t, app, "GET", "/api/products/p-saree-001", "", nil)
	if status != http.StatusOK || body["name"] != "Sambalpuri Silk Saree" {
		t.Fatalf("product should be unchanged: status %d body %v", status, body)
	}
}

func TestAuthAndRoleGates(t *testing.T) {
	app := newTestApp(t)

	// No token.
	status, body := doJSON(t, app, "GET", "/api/cart", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("want 401 without token, got %d body %v", status, body)
	}
	// Garbage token.
	status, _ = doJSON(t, app, "GET", "/api/cart", "garbage", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("want 401 for garbage token, got %d", status)
	}

	// Customer on an admin route.
	customerToken := login(t, app, "mira@craftbazaar.test", "Passw0rd!")
	status, _ = doJSON(t, app, "GET", "/api/admin/dashboard", customerToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("want 403 for customer on admin route, got %d", status)
	}
	// Customer on the seller listing route.
	status, _ = doJSON(t, app, "GET", "/api/products/seller", customerToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("want 403 for customer on seller route, got %d", status)
	}

	// Admin dashboard works for the admin.
	adminToken := login(t, app, "admin@craftbazaar.test", "Passw0rd!")
	status, body = doJSON(t, app, "GET", "/api/admin/dashboard", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard: status %d body %v", status, body)
	}
	if body["totalProducts"].(float64) != 3 {
		t.Fatalf("want 3 seeded products, got %v", body["totalProducts"])
	}
}

func TestRegisterInputValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []fiber.Map{
		{"name": "Asha", "email": "not-an-email", "password": "Str0ng!pass"},
		{"name": "Asha", "email": "asha@example.test", "password": "weak"},
		{"name": "", "email": "asha@example.test", "password": "Str0ng!pass"},
	}
	for _, in := range cases {
		status, body := doJSON(t, app, "POST", "/api/auth/register", "", in)
		if status != http.StatusBadRequest {
			t.Fatalf("want 400 for %v, got %d body %v", in, status, body)
		}
	}

	// Duplicate registration conflicts.
	good := fiber.Map{"name": "Asha", "email": "asha@example.test", "password": "Str0ng!pass"}
	if status, body := doJSON(t, app, "POST", "/api/auth/register", "", good); status != http.StatusCreated {
		t.Fatalf("register: status %d body %v", status, body)
	}
	if status, _ := doJSON(t, app, "POST", "/api/auth/register", "", good); status != http.StatusConflict {
		t.Fatalf("want 409 for duplicate email, got %d", status)
	}
}

// Profile edits run through the same field checks as registration.
func TestUpdateProfileValidation(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "mira@craftbazaar.test", "Passw0rd!")

	status, body := doJSON(t, app, "PUT", "/api/auth/profile", token, fiber.Map{
		"name": "Mira", "email": "mira@craftbazaar.test", "phone": "not a phone",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("want 400 for bad phone, got %d body %v", status, body)
	}

	status, body = doJSON(t, app, "PUT", "/api/auth/profile", token, fiber.Map{
		"name": "Mira", "email": "mira@craftbazaar.test", "phone": "+91 9000000000",
	})
	if status != http.StatusOK {
		t.Fatalf("valid phone should pass: status %d body %v", status, body)
	}
}

func TestPublicCatalogRoutes(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, "GET", "/api/products?keyword=ikat", "", nil)
	if status != http.StatusOK {
		t.Fatalf("list: status %d", status)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("keyword filter: want 1, got %v", body["count"])
	}

	status, body = doJSON(t, app, "GET", "/api/products?sortBy=bogus", "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("want 400 for unknown sort key, got %d body %v", status, body)
	}

	status, _ = doJSON(t, app, "GET", "/api/products/p-nope", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("want 404 for unknown product, got %d", status)
	}

	// Unknown routes answer JSON, not HTML.
	status, body = doJSON(t, app, "GET", "/api/nope", "", nil)
	if status != http.StatusNotFound || body["error"] != "not found" {
		t.Fatalf("fallback: status %d body %v", status, body)
	}
}

func TestLoginThrottle(t *testing.T) {
	app := newTestApp(t)

	bad := fiber.Map{"email": "mira@craftbazaar.test", "password": "wrong-password"}
	for i := 0; i < 5; i++ {
		status, _ := doJSON(t, app, "POST", "/api/auth/login", "", bad)
		if status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401, got %d", i+1, status)
		}
	}
	status, _ := doJSON(t, app, "POST", "/api/auth/login", "", bad)
	if status != http.StatusTooManyRequests {
		t.Fatalf("want 429 after the window is exhausted, got %d", status)
	}
}
