package listings

import (
	"strconv"
	"strings"

	"auzland/internal/domain"
)

// bound is one parsed numeric constraint. Absence policy differs by side:
// an unknown attribute fails a min bound but passes a max bound, so "unknown"
// never satisfies a floor yet is never hidden behind a ceiling.
func passMin(v *float64, raw string) bool {
	if raw == "" {
		return true
	}
	min, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return true
	}
	return v != nil && *v >= min
}

func passMax(v *float64, raw string) bool {
	if raw == "" {
		return true
	}
	max, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return true
	}
	return v == nil || *v <= max
}

func priceAsFloat(p domain.Listing) *float64 {
	if p.PriceNumber == nil {
		return nil
	}
	f := float64(*p.PriceNumber)
	return &f
}

// typeMatches compares property types case-insensitively, treating the legacy
// raw value "Home and Land Packages" as equal to "Home & Land" in both
// directions, for collections not yet rewritten upstream.
func typeMatches(propertyType, filter string) bool {
	pt := strings.ToLower(strings.TrimSpace(propertyType))
	ft := strings.ToLower(strings.TrimSpace(filter))
	if ft == strings.ToLower(CanonicalHomeAndLand) || ft == legacyHomeAndLand {
		return pt == strings.ToLower(CanonicalHomeAndLand) || pt == legacyHomeAndLand
	}
	return pt == ft
}

// regoMatches matches a registration/construction status filter against the
// free-form status values seen in the data.
func regoMatches(status, filter string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	f := strings.ToLower(strings.TrimSpace(filter))
	switch f {
	case "unregistered":
		return s == "unregistered" || s == "not registered" ||
			strings.HasPrefix(s, "unreg") || strings.HasPrefix(s, "un-reg") || strings.HasPrefix(s, "un reg")
	case "under construction":
		return s == "building" || strings.Contains(s, "construction")
	case "completed":
		return s == "complete" || s == "constructed" || s == "finished" ||
			strings.Contains(s, "complete")
	default:
		return strings.Contains(s, f) || (s != "" && strings.Contains(f, s))
	}
}

// quickSearchText is the haystack for the global free-text filter.
func quickSearchText(p domain.Listing) string {
	parts := []string{
		p.Address, p.Suburb, p.PropertyType, p.Lot,
		p.Availability, p.RegoStatus, p.Remark, p.Description,
	}
	if strings.EqualFold(p.PropertyType, CanonicalHomeAndLand) {
		// Let "home and land" queries keep matching the canonical value.
		parts = append(parts, legacyHomeAndLand)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func matches(p domain.Listing, f domain.FilterState) bool {
	if q := strings.ToLower(strings.TrimSpace(f.QuickSearch)); q != "" {
		if !strings.Contains(quickSearchText(p), q) {
			return false
		}
	}
	if f.Suburb != "" && !strings.Contains(strings.ToLower(p.Suburb), strings.ToLower(f.Suburb)) {
		return false
	}
	if f.Address != "" && !strings.Contains(strings.ToLower(p.Address), strings.ToLower(f.Address)) {
		return false
	}
	if f.PropertyType != "" && !typeMatches(p.PropertyType, f.PropertyType) {
		return false
	}
	if f.Availability != "" && !strings.EqualFold(strings.TrimSpace(p.Availability), strings.TrimSpace(f.Availability)) {
		return false
	}
	if f.RegoStatus != "" && !regoMatches(p.RegoStatus, f.RegoStatus) {
		return false
	}

	price := priceAsFloat(p)
	checks := []struct {
		v        *float64
		min, max string
	}{
		{price, f.PriceMin, f.PriceMax},
		{p.Bed, f.BedMin, f.BedMax},
		{p.Bath, f.BathMin, f.BathMax},
		{p.Garage, f.GarageMin, f.GarageMax},
		{p.Frontage, f.FrontageMin, f.FrontageMax},
		{p.LandSize, f.LandSizeMin, f.LandSizeMax},
		{p.BuildSize, f.BuildSizeMin, f.BuildSizeMax},
	}
	for _, c := range checks {
		if !passMin(c.v, c.min) || !passMax(c.v, c.max) {
			return false
		}
	}
	return true
}

// Apply returns the listings satisfying every specified predicate, ANDed.
// ClearAll short-circuits to the full collection. The input is never
// mutated; the result is a fresh slice.
func Apply(f domain.FilterState, in []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(in))
	if f.ClearAll {
		return append(out, in...)
	}
	for _, p := range in {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

// VisibleToCustomers drops listings flagged away from public views. Every
// customer-facing projection goes through this before any filter, including
// a ClearAll evaluation.
func VisibleToCustomers(in []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, 0, len(in))
	for _, p := range in {
		if p.PropertyCustomerVisibility == "0" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Page slices one page out of the collection; page is 1-based.
func Page(in []domain.Listing, page, pageSize int) []domain.Listing {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	start := (page - 1) * pageSize
	if start >= len(in) {
		return nil
	}
	end := start + pageSize
	if end > len(in) {
		end = len(in)
	}
	return in[start:end]
}
