package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"auzland/internal/domain"
	"auzland/internal/listings"
	applog "auzland/internal/log"
)

// FetchError wraps any failure to retrieve the listings document.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch listings: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// ConflictError means the save was rejected because the document changed
// under us. The caller should refetch and retry, never blind-overwrite.
type ConflictError struct {
	ExpectedVersion string
}

func (e *ConflictError) Error() string {
	return "save listings: version conflict (expected " + e.ExpectedVersion + ")"
}

// MediaError carries the key that failed so callers can drop just that one.
type MediaError struct {
	Key string
	Err error
}

func (e *MediaError) Error() string { return "resolve media " + e.Key + ": " + e.Err.Error() }
func (e *MediaError) Unwrap() error { return e.Err }

const (
	mediaBatchSize  = 5
	mediaBatchPause = 100 * time.Millisecond

	fetchAttempts = 3
	fetchBackoff  = 250 * time.Millisecond
)

// Gateway talks to a remote AuzLand listings service: full-document CSV
// fetch/save with optimistic concurrency, and presigned media resolution.
type Gateway struct {
	baseURL    string
	httpClient *http.Client

	// pause between media batches; shortened in tests
	batchPause time.Duration
}

func New(baseURL string) *Gateway {
	return &Gateway{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		batchPause: mediaBatchPause,
	}
}

type listingsDoc struct {
	CSV       string `json:"csv"`
	VersionID string `json:"versionId"`
}

// FetchListings retrieves the listings document, parses and normalizes it.
// The endpoint may return either {"csv":..., "versionId":...} or, from older
// deployments, a bare JSON string holding the CSV; both are accepted. The
// returned version token is "" in the legacy case.
func (g *Gateway) FetchListings(ctx context.Context) ([]domain.Listing, string, error) {
	var body []byte
	err := withRetry(ctx, fetchAttempts, fetchBackoff, func() error {
		var err error
		body, err = g.get(ctx, g.baseURL+"/api/v1/listings")
		return err
	})
	if err != nil {
		return nil, "", &FetchError{Err: err}
	}

	doc, err := decodeListingsDoc(body)
	if err != nil {
		return nil, "", &FetchError{Err: err}
	}

	recs := listings.ParseCSV(doc.CSV, func(line, got, want int) {
		applog.Warn("csv_row_skipped", map[string]any{
			"line": line, "fields": got, "expected": want,
		})
	})
	return listings.NormalizeAll(recs), doc.VersionID, nil
}

func decodeListingsDoc(body []byte) (listingsDoc, error) {
	var doc listingsDoc
	if err := json.Unmarshal(body, &doc); err == nil && (doc.CSV != "" || doc.VersionID != "") {
		return doc, nil
	}
	var raw string
	if err := json.Unmarshal(body, &raw); err == nil {
		return listingsDoc{CSV: raw}, nil
	}
	// Some deployments serve the CSV as text/plain.
	if bytes.Contains(body, []byte(",")) {
		return listingsDoc{CSV: string(body)}, nil
	}
	return listingsDoc{}, fmt.Errorf("unrecognized listings payload")
}

// SaveListings serializes the collection and PUTs it with the version token
// from the last fetch. A 409 from the service becomes a *ConflictError.
func (g *Gateway) SaveListings(ctx context.Context, items []domain.Listing, expectedVersion string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"csv":               listings.WriteCSV(items),
		"expectedVersionId": expectedVersion,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		g.baseURL+"/api/v1/listings", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("save listings: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusConflict:
		return "", &ConflictError{ExpectedVersion: expectedVersion}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("save listings: HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out struct {
		VersionID string `json:"versionId"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("save listings: decode response: %w", err)
	}
	return out.VersionID, nil
}

// ResolveMediaKey exchanges a raw media key for a presigned display URL.
func (g *Gateway) ResolveMediaKey(ctx context.Context, key string) (string, error) {
	u := g.baseURL + "/api/v1/media?key=" + url.QueryEscape(key)
	body, err := g.get(ctx, u)
	if err != nil {
		return "", &MediaError{Key: key, Err: err}
	}

	var out struct {
		OK           bool   `json:"ok"`
		PresignedURL string `json:"presignedUrl"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &MediaError{Key: key, Err: err}
	}
	if !out.OK || out.PresignedURL == "" {
		return "", &MediaError{Key: key, Err: fmt.Errorf("service declined key")}
	}
	return out.PresignedURL, nil
}

// ResolveAllMedia resolves keys in batches of five, the requests within a
// batch running in parallel and a short pause between batches so the remote
// service isn't hammered. Resolution is best effort: keys that fail are logged
// and dropped, the rest come back in their original order.
func (g *Gateway) ResolveAllMedia(ctx context.Context, keys []string) []string {
	resolved := make([]string, len(keys))
	for start := 0; start < len(keys); start += mediaBatchSize {
		end := start + mediaBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		eg, bctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			eg.Go(func() error {
				u, err := g.ResolveMediaKey(bctx, keys[i])
				if err != nil {
					applog.Warn("media_resolve_failed", map[string]any{
						"key": keys[i], "error": err.Error(),
					})
					return nil // best effort, keep the batch going
				}
				resolved[i] = u
				return nil
			})
		}
		eg.Wait()

		if end < len(keys) {
			select {
			case <-ctx.Done():
				return compact(resolved)
			case <-time.After(g.batchPause):
			}
		}
	}
	return compact(resolved)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (g *Gateway) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// withRetry runs fn up to attempts times with a fixed pause between tries.
func withRetry(ctx context.Context, attempts int, pause time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
	return err
}
