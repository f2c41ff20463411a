package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tradehub/internal/domain"
	"tradehub/internal/http/handlers"
	"tradehub/internal/repos"
	"tradehub/internal/services"
)

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func testApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Post("/login", authH.Login)
	app.Get("/inventory", handlers.RequireRole(authSvc, domain.RoleDistributor), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app, authSvc
}

func login(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestLoginIssuesSessionWithRole(t *testing.T) {
	app, _ := testApp(t)

	resp := login(t, app, "sales@midwest.test", "Passw0rd!")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if extractCookie(resp, "sid") == "" {
		t.Fatal("no sid cookie issued")
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["role"] != domain.RoleDistributor {
		t.Fatalf("want distributor role, got %v", body["role"])
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, _ := testApp(t)

	resp := login(t, app, "sales@midwest.test", "WrongPass1!")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
}

func TestRoleGateBlocksWrongTier(t *testing.T) {
	app, _ := testApp(t)

	// No session at all
	resp, err := app.Test(httptest.NewRequest("GET", "/inventory", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}

	// Retailer session against a distributor route
	sid := extractCookie(login(t, app, "buyer@corner.test", "Passw0rd!"), "sid")
	req := httptest.NewRequest("GET", "/inventory", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("want 403, got %d", resp.StatusCode)
	}

	// Distributor session passes
	sid = extractCookie(login(t, app, "sales@midwest.test", "Passw0rd!"), "sid")
	req = httptest.NewRequest("GET", "/inventory", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
}
