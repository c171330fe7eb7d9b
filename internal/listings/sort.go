package listings

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"auzland/internal/domain"
)

// dateFields are sort keys compared as calendar dates rather than text.
var dateFields = map[string]bool{
	"regoDue":                        true,
	"readyBy":                        true,
	"registrationConstructionStatus": true,
	"updatedAt":                      true,
}

var dateLayouts = []string{
	"2006-01-02", "2006/01/02", "02/01/2006", "Jan 2006", "January 2006", time.RFC3339,
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortValue extracts the raw sort key for a field. ok is false when the
// listing simply has no value there.
func sortValue(p domain.Listing, field string) (string, bool) {
	var num *float64
	switch field {
	case "id":
		return p.ID, p.ID != ""
	case "lot":
		return p.Lot, p.Lot != ""
	case "address":
		return p.Address, p.Address != ""
	case "suburb":
		return p.Suburb, p.Suburb != ""
	case "propertyType":
		return p.PropertyType, p.PropertyType != ""
	case "availability":
		return p.Availability, p.Availability != ""
	case "regoDue", "readyBy", "registrationConstructionStatus":
		return p.RegoStatus, p.RegoStatus != ""
	case "updatedAt":
		return p.UpdatedAt, p.UpdatedAt != ""
	case "price":
		if p.PriceNumber == nil {
			return "", false
		}
		return strconv.FormatInt(*p.PriceNumber, 10), true
	case "frontage":
		num = p.Frontage
	case "landSize":
		num = p.LandSize
	case "buildSize":
		num = p.BuildSize
	case "bed":
		num = p.Bed
	case "bath":
		num = p.Bath
	case "garage":
		num = p.Garage
	default:
		return "", false
	}
	if num == nil {
		return "", false
	}
	return formatNumber(num), true
}

// less orders two present values for ascending direction.
func less(a, b, field string) bool {
	an, aerr := strconv.ParseFloat(a, 64)
	bn, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return an < bn
	}

	if dateFields[field] {
		ad, aok := parseDate(a)
		bd, bok := parseDate(b)
		switch {
		case aok && bok:
			return ad.Before(bd)
		case aok:
			// Valid dates come before unparseable ones in either direction;
			// that is handled by the caller treating !ok as absent.
			return true
		case bok:
			return false
		}
	}

	return strings.ToLower(a) < strings.ToLower(b)
}

// Sort orders the collection by one field, stable for equal keys. Listings
// with no value for the field sort after every listing with one, regardless
// of direction; for date keys, an unparseable value counts as absent.
func Sort(in []domain.Listing, field, direction string) {
	if field == "" {
		return
	}
	desc := strings.EqualFold(direction, "desc") || strings.EqualFold(direction, "descending")

	present := func(p domain.Listing) (string, bool) {
		v, ok := sortValue(p, field)
		if ok && dateFields[field] {
			if _, dok := parseDate(v); !dok {
				return v, false
			}
		}
		return v, ok
	}

	sort.SliceStable(in, func(i, j int) bool {
		av, aok := present(in[i])
		bv, bok := present(in[j])
		switch {
		case aok && !bok:
			return true
		case !aok:
			return false
		}
		if desc {
			return less(bv, av, field)
		}
		return less(av, bv, field)
	})
}
