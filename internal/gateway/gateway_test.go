package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testGateway(url string) *Gateway {
	g := New(url)
	g.batchPause = time.Millisecond
	return g
}

const sampleCSV = "id,propertyType,lot,address,suburb,availability,frontage,landSize,buildSize,bed,bath,garage,registrationConstructionStatus,price,media,remark,description,updated_at,propertyCustomerVisibility,priceCustomerVisibility\n" +
	"p-1,House,12,5 Gap Rd,Austral,Available,,450,,4,2,2,Registered,\"$1,250,000\",,,,2025-08-01,1,0\n"

func TestFetchListingsVersionedDoc(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"csv": sampleCSV, "versionId": "v-42"})
	}))
	defer srv.Close()

	items, version, err := testGateway(srv.URL).FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if version != "v-42" {
		t.Fatalf("version = %q", version)
	}
	if len(items) != 1 || items[0].Address != "5 Gap Rd" {
		t.Fatalf("items = %+v", items)
	}
	if items[0].PriceNumber == nil || *items[0].PriceNumber != 1250000 {
		t.Fatalf("priceNumber = %v", items[0].PriceNumber)
	}
}

func TestFetchListingsLegacyStringPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleCSV)
	}))
	defer srv.Close()

	items, version, err := testGateway(srv.URL).FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if version != "" {
		t.Fatalf("legacy payload should have no version, got %q", version)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
}

func TestFetchListingsRetriesThenFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := testGateway(srv.URL).FetchListings(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("want *FetchError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != fetchAttempts {
		t.Fatalf("made %d attempts, want %d", got, fetchAttempts)
	}
}

func TestSaveListingsConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		var in struct {
			CSV               string `json:"csv"`
			ExpectedVersionID string `json:"expectedVersionId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if in.ExpectedVersionID != "v-stale" {
			t.Errorf("expectedVersionId = %q", in.ExpectedVersionID)
		}
		if !strings.Contains(in.CSV, "propertyType") {
			t.Errorf("csv missing header: %q", in.CSV)
		}
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	_, err := testGateway(srv.URL).SaveListings(context.Background(), nil, "v-stale")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("want *ConflictError, got %v", err)
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		t.Fatal("conflict must not be classified as a fetch failure")
	}
}

func TestSaveListingsReturnsNewVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"versionId": "v-new"})
	}))
	defer srv.Close()

	version, err := testGateway(srv.URL).SaveListings(context.Background(), nil, "v-old")
	if err != nil {
		t.Fatalf("SaveListings: %v", err)
	}
	if version != "v-new" {
		t.Fatalf("version = %q", version)
	}
}

func TestResolveMediaKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "media/bad.jpg" {
			json.NewEncoder(w).Encode(map[string]any{"ok": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "presignedUrl": "https://cdn/" + key})
	}))
	defer srv.Close()

	g := testGateway(srv.URL)
	u, err := g.ResolveMediaKey(context.Background(), "media/p-1/front.jpg")
	if err != nil {
		t.Fatalf("ResolveMediaKey: %v", err)
	}
	if u != "https://cdn/media/p-1/front.jpg" {
		t.Fatalf("url = %q", u)
	}

	_, err = g.ResolveMediaKey(context.Background(), "media/bad.jpg")
	var me *MediaError
	if !errors.As(err, &me) {
		t.Fatalf("want *MediaError, got %v", err)
	}
	if me.Key != "media/bad.jpg" {
		t.Fatalf("error key = %q", me.Key)
	}
}

func TestResolveAllMediaBestEffort(t *testing.T) {
	var peak, inflight int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inflight, 1)
		defer atomic.AddInt32(&inflight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		key := r.URL.Query().Get("key")
		if key == "media/k3.jpg" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "presignedUrl": "https://cdn/" + key})
	}))
	defer srv.Close()

	keys := make([]string, 7)
	for i := range keys {
		keys[i] = "media/k" + string(rune('0'+i)) + ".jpg"
	}
	got := testGateway(srv.URL).ResolveAllMedia(context.Background(), keys)

	if len(got) != 6 {
		t.Fatalf("resolved %d urls, want 6 (one key dropped): %v", len(got), got)
	}
	for _, u := range got {
		if strings.Contains(u, "k3") {
			t.Fatalf("failed key leaked into results: %v", got)
		}
	}
	// order of the survivors is preserved
	if got[0] != "https://cdn/media/k0.jpg" || got[len(got)-1] != "https://cdn/media/k6.jpg" {
		t.Fatalf("order not preserved: %v", got)
	}
	if p := atomic.LoadInt32(&peak); p > mediaBatchSize {
		t.Fatalf("saw %d concurrent requests, batch limit is %d", p, mediaBatchSize)
	}
}

func TestResolveAllMediaEmpty(t *testing.T) {
	got := testGateway("http://127.0.0.1:0").ResolveAllMedia(context.Background(), nil)
	if len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}
