package handlers_test

import (
	"net/http"
	"testing"

	"auzland/internal/config"
)

func TestAdminRoutesDenyNonAdmins(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})

	// Anonymous
	resp, err := app.Test(jsonReq("GET", "/admin/users", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: status %d", resp.StatusCode)
	}

	// Editor is not admin
	sid := login(t, app, "agent@auzlandre.test")
	req := jsonReq("GET", "/admin/users", nil)
	req.AddCookie(sid)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("editor: status %d, want 403", resp.StatusCode)
	}
}

func TestAdminUserLifecycle(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})
	sid := login(t, app, "admin@auzlandre.test")

	// Weak password rejected
	req := jsonReq("POST", "/admin/users", map[string]string{
		"email": "weak@auzlandre.test", "name": "Weak", "password": "short",
	})
	req.AddCookie(sid)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("weak password: status %d", resp.StatusCode)
	}

	// Create
	req = jsonReq("POST", "/admin/users", map[string]string{
		"email": "riley@auzlandre.test", "name": "Riley", "password": "S3cure!pw",
	})
	req.AddCookie(sid)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	var created struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeJSON(t, resp, &created)
	if created.User.Role != "EDITOR" || created.User.ID == "" {
		t.Fatalf("created = %+v", created)
	}

	// Duplicate email conflicts
	req = jsonReq("POST", "/admin/users", map[string]string{
		"email": "riley@auzlandre.test", "name": "Riley2", "password": "S3cure!pw",
	})
	req.AddCookie(sid)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: status %d, want 409", resp.StatusCode)
	}

	// Listing shows the new editor (and not the admin)
	req = jsonReq("GET", "/admin/users", nil)
	req.AddCookie(sid)
	resp, _ = app.Test(req)
	var list struct {
		Users []struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"users"`
	}
	decodeJSON(t, resp, &list)
	found := false
	for _, u := range list.Users {
		if u.Role == "ADMIN" {
			t.Fatalf("admin account in user list: %+v", u)
		}
		if u.Email == "riley@auzlandre.test" {
			found = true
		}
	}
	if !found {
		t.Fatalf("new user missing from list: %+v", list.Users)
	}

	// Delete and verify login stops working
	req = jsonReq("DELETE", "/admin/users/"+created.User.ID, nil)
	req.AddCookie(sid)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
	resp, _ = app.Test(jsonReq("POST", "/api/v1/login",
		map[string]string{"email": "riley@auzlandre.test", "password": "S3cure!pw"}))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("deleted user login: status %d", resp.StatusCode)
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})
	sid := login(t, app, "admin@auzlandre.test")

	req := jsonReq("DELETE", "/admin/users/u-admin", nil)
	req.AddCookie(sid)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self delete: status %d, want 400", resp.StatusCode)
	}
}
