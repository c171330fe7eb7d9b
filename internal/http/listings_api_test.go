package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"auzland/internal/config"
)

func TestListingsGetReturnsDocAndVersion(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})

	resp, err := app.Test(jsonReq("GET", "/api/v1/listings", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out struct {
		CSV       string `json:"csv"`
		VersionID string `json:"versionId"`
	}
	decodeJSON(t, resp, &out)
	if out.VersionID == "" {
		t.Fatal("no version token")
	}
	if !strings.Contains(out.CSV, "p-1001") {
		t.Fatal("csv missing seeded listing")
	}
}

func TestListingsPutRequiresEditor(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})

	resp, err := app.Test(jsonReq("PUT", "/api/v1/listings",
		map[string]string{"csv": "id\nx", "expectedVersionId": ""}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous PUT: status %d, want 401", resp.StatusCode)
	}
}

func TestListingsPutRoundTrip(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})
	sid := login(t, app, "agent@auzlandre.test")

	// Fetch the current token first, like the dashboard does.
	resp, _ := app.Test(jsonReq("GET", "/api/v1/listings", nil))
	var doc struct {
		CSV       string `json:"csv"`
		VersionID string `json:"versionId"`
	}
	decodeJSON(t, resp, &doc)

	newCSV := doc.CSV + `p-2000,House,Lot 9,9 New St,Austral,Available,,,,3,2,1,Registered,"$800,000",,,,2026-08-20,1,1` + "\n"
	req := jsonReq("PUT", "/api/v1/listings",
		map[string]string{"csv": newCSV, "expectedVersionId": doc.VersionID})
	req.AddCookie(sid)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status %d", resp.StatusCode)
	}
	var saved struct {
		VersionID string `json:"versionId"`
	}
	decodeJSON(t, resp, &saved)
	if saved.VersionID == "" || saved.VersionID == doc.VersionID {
		t.Fatalf("version did not rotate: %q -> %q", doc.VersionID, saved.VersionID)
	}

	// A writer still holding the old token is told to reload.
	req = jsonReq("PUT", "/api/v1/listings",
		map[string]string{"csv": doc.CSV, "expectedVersionId": doc.VersionID})
	req.AddCookie(sid)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("stale PUT: status %d, want 409", resp.StatusCode)
	}

	// The conflicting write changed nothing.
	resp, _ = app.Test(jsonReq("GET", "/api/v1/listings", nil))
	var after struct {
		CSV string `json:"csv"`
	}
	decodeJSON(t, resp, &after)
	if !strings.Contains(after.CSV, "p-2000") {
		t.Fatal("winning write lost")
	}
}

func TestListingsPutEmptyBody(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})
	sid := login(t, app, "agent@auzlandre.test")

	req := jsonReq("PUT", "/api/v1/listings", map[string]string{"csv": ""})
	req.AddCookie(sid)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}
