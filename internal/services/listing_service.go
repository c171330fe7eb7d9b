package services

import (
	"auzland/internal/domain"
	"auzland/internal/listings"
	applog "auzland/internal/log"
	"auzland/internal/repos"
)

// ListingService owns the CSV blob round trip: raw blob in, normalized
// collection out, and full-collection writes guarded by the version token.
type ListingService struct {
	Blobs *repos.BlobRepo
}

func NewListingService(blobs *repos.BlobRepo) *ListingService {
	return &ListingService{Blobs: blobs}
}

// Raw returns the stored CSV text and its version token, unparsed, for the
// dashboard's own client-side pipeline.
func (s *ListingService) Raw() (csv, versionID string, err error) {
	return s.Blobs.Get(repos.ListingsBlob)
}

// Load parses and normalizes the stored collection. Malformed rows are
// dropped with a warning, never an error; a fresh collection is built on
// every call.
func (s *ListingService) Load() ([]domain.Listing, string, error) {
	csv, version, err := s.Blobs.Get(repos.ListingsBlob)
	if err != nil {
		return nil, "", err
	}
	recs := listings.ParseCSV(csv, func(line, got, want int) {
		applog.Warn("listings.row.skip", map[string]any{"line": line, "fields": got, "want": want})
	})
	return listings.NormalizeAll(recs), version, nil
}

// SaveRaw stores a replacement CSV blob under optimistic concurrency.
// A stale expectedVersion yields repos.ErrVersionConflict.
func (s *ListingService) SaveRaw(csv, expectedVersion string) (string, error) {
	return s.Blobs.CompareAndSwap(repos.ListingsBlob, csv, expectedVersion)
}

// Save serializes the collection in the canonical header order and stores it
// like SaveRaw.
func (s *ListingService) Save(items []domain.Listing, expectedVersion string) (string, error) {
	return s.SaveRaw(listings.WriteCSV(items), expectedVersion)
}

// PublicView is the customer-facing projection: hidden listings removed
// first, then filters, sort and pagination. total counts the filtered set
// before paging.
func (s *ListingService) PublicView(f domain.FilterState, sortField, sortDir string, page, pageSize int) (items []domain.Listing, total int, err error) {
	all, _, err := s.Load()
	if err != nil {
		return nil, 0, err
	}
	visible := listings.VisibleToCustomers(all)
	filtered := listings.Apply(f, visible)
	listings.Sort(filtered, sortField, sortDir)
	return listings.Page(filtered, page, pageSize), len(filtered), nil
}
