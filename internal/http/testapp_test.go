package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"auzland/internal/config"
	"auzland/internal/http/handlers"
	"auzland/internal/repos"
	"auzland/internal/services"
)

// newTestApp wires the real handler graph against an in-memory DB, mirroring
// the route table of the server binary minus the rate limiters.
func newTestApp(t *testing.T, cfg config.Config) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if cfg.MediaSigningKey == "" {
		cfg.MediaSigningKey = "test-signing-key"
	}
	if cfg.MediaURLTTL == 0 {
		cfg.MediaURLTTL = 900
	}
	if cfg.MediaDir == "" {
		cfg.MediaDir = t.TempDir()
	}

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, cfg, authSvc)

	app := fiber.New()

	api := app.Group("/api/v1")
	api.Get("/listings", deps.ListingsHandler.Get)
	api.Put("/listings", handlers.RequireEditor(authSvc), deps.ListingsHandler.Put)
	api.Get("/properties", deps.PropertiesHandler.List)
	api.Get("/media", deps.MediaHandler.Presign)
	api.Options("/contact", deps.ContactHandler.Options)
	api.Post("/contact", deps.ContactHandler.Submit)
	api.Post("/ai/filter", deps.AIHandler.Filter)
	api.Post("/login", deps.AuthHandler.Login)
	api.Post("/logout", deps.AuthHandler.Logout)
	api.Get("/me", deps.AuthHandler.Me)

	app.Get("/media/*", deps.MediaHandler.File)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/users", deps.AdminHandler.ListUsers)
	admin.Post("/users", deps.AdminHandler.CreateUser)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	admin.Get("/contacts", deps.AdminHandler.ListContacts)

	return app, db
}

func jsonReq(method, target string, body any) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func sidCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" && c.Value != "" {
			return c
		}
	}
	return nil
}

// login authenticates one of the seeded accounts and returns its session
// cookie for follow-up requests.
func login(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/v1/login",
		map[string]string{"email": email, "password": "Passw0rd!"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s: status %d", email, resp.StatusCode)
	}
	c := sidCookie(resp)
	if c == nil {
		t.Fatal("no sid cookie on login response")
	}
	return c
}
