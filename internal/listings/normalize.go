package listings

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"auzland/internal/domain"
)

const legacyHomeAndLand = "home and land packages"

// CanonicalHomeAndLand is the current display value for the legacy
// "Home and Land Packages" property type.
const CanonicalHomeAndLand = "Home & Land"

var (
	nonDigit = regexp.MustCompile(`[^0-9]`)
	// mediaPathRe recovers storage paths from media fields whose JSON was
	// damaged by CSV export (unescaped quotes and the like).
	mediaPathRe = regexp.MustCompile(`(?i)media/.*?\.(jpg|jpeg|png|gif|webp|bmp|svg)`)
)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"webp": true, "bmp": true, "svg": true,
}

// toNumber applies the permissive numeric coercion: trim, parse, and return
// nil for anything that is not a finite number. Absence is "unknown", not 0.
func toNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &n
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// priceNumber strips every non-digit character from the display price. A
// free-text price like "Price on request" leaves no digits and yields nil.
func priceNumber(price string) *int64 {
	digits := nonDigit.ReplaceAllString(price, "")
	if digits == "" {
		return nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// pick returns the first non-empty value among the named columns. The live
// format uses camelCase headers; legacy exports used snake_case.
func pick(rec domain.RawRecord, keys ...string) string {
	for _, k := range keys {
		if v := rec[k]; v != "" {
			return v
		}
	}
	return ""
}

// CanonicalType rewrites the legacy property type value to its current form.
func CanonicalType(propertyType string) string {
	if strings.EqualFold(strings.TrimSpace(propertyType), legacyHomeAndLand) {
		return CanonicalHomeAndLand
	}
	return propertyType
}

// Normalize maps one raw record to a Listing. It is pure: media keys are
// extracted elsewhere and URL resolution never happens here. idx is the row's
// position in the collection, used to synthesize an id when the column is
// empty.
func Normalize(rec domain.RawRecord, idx int) domain.Listing {
	price := pick(rec, "price", "price_guide")
	l := domain.Listing{
		ID:           rec["id"],
		PropertyType: CanonicalType(pick(rec, "propertyType", "property_type")),
		Lot:          rec["lot"],
		Address:      rec["address"],
		Suburb:       rec["suburb"],
		Availability: rec["availability"],
		Frontage:     toNumber(pick(rec, "frontage", "frontage_m")),
		LandSize:     toNumber(pick(rec, "landSize", "land_area_sqm")),
		BuildSize:    toNumber(pick(rec, "buildSize", "build_area_sqm")),
		Bed:          toNumber(rec["bed"]),
		Bath:         toNumber(rec["bath"]),
		Garage:       toNumber(rec["garage"]),
		RegoStatus:   pick(rec, "registrationConstructionStatus", "rego_due", "regoDue", "ready_by", "readyBy"),
		Price:        price,
		PriceNumber:  priceNumber(price),
		Media:        pick(rec, "media", "media_url"),
		Remark:       rec["remark"],
		Description:  rec["description"],
		UpdatedAt:    pick(rec, "updated_at", "updatedAt"),

		PropertyCustomerVisibility: flagOrDefault(rec["propertyCustomerVisibility"], "1"),
		PriceCustomerVisibility:    flagOrDefault(rec["priceCustomerVisibility"], "0"),
	}
	if l.ID == "" {
		addr := l.Address
		if addr == "" {
			addr = "property"
		}
		l.ID = fmt.Sprintf("%s-%d", addr, idx)
	}
	return l
}

// NormalizeAll maps a parsed batch, dropping records with neither lot nor
// address (blank filler rows in upstream exports).
func NormalizeAll(recs []domain.RawRecord) []domain.Listing {
	out := make([]domain.Listing, 0, len(recs))
	for i, rec := range recs {
		l := Normalize(rec, i)
		if l.Lot == "" && l.Address == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func isImagePath(path string) bool {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return false
	}
	return imageExtensions[strings.ToLower(path[dot+1:])]
}

// mediaFromJSONArray handles the well-formed case: a JSON array of strings.
func mediaFromJSONArray(raw string) ([]string, bool) {
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, false
	}
	out := keys[:0]
	for _, k := range keys {
		if isImagePath(k) {
			out = append(out, k)
		}
	}
	return out, true
}

// mediaFromBracketList handles the legacy "[a.jpg,b.jpg]" form that lacks
// JSON quoting. Item interiors are preserved; only edge whitespace goes.
func mediaFromBracketList(raw string) ([]string, bool) {
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, false
	}
	inner := raw[1 : len(raw)-1]
	if inner == "" {
		return []string{}, true
	}
	var out []string
	for _, item := range strings.Split(inner, ",") {
		item = strings.Trim(strings.TrimSpace(item), `"'`)
		if isImagePath(item) {
			out = append(out, item)
		}
	}
	return out, true
}

// mediaFromBarePath handles a single unbracketed file path.
func mediaFromBarePath(raw string) ([]string, bool) {
	if strings.Contains(raw, "[") || strings.Contains(raw, ",") {
		return nil, false
	}
	path := strings.Trim(raw, `"' `)
	if !isImagePath(path) {
		return nil, false
	}
	return []string{path}, true
}

// mediaFromScan is the last resort: scan for anything that looks like a
// storage path with an image extension, tolerating arbitrary surrounding
// corruption.
func mediaFromScan(raw string) []string {
	return mediaPathRe.FindAllString(raw, -1)
}

// ExtractMediaKeys turns the raw media column into an ordered list of storage
// keys. The strategies run in a fixed priority order — JSON array, bracketed
// list, bare path, regex scan — and a field none of them can make sense of
// yields an empty list, never an error.
func ExtractMediaKeys(media string) []string {
	media = strings.TrimSpace(media)
	if media == "" {
		return nil
	}

	// Undo one level of CSV quote escaping left behind by damaged exports.
	if strings.HasPrefix(media, `"`) && strings.HasSuffix(media, `"`) && len(media) >= 2 {
		media = media[1 : len(media)-1]
	}
	media = strings.ReplaceAll(media, `""`, `"`)

	if keys, ok := mediaFromJSONArray(media); ok {
		return keys
	}
	if keys, ok := mediaFromBracketList(media); ok {
		return keys
	}
	if keys, ok := mediaFromBarePath(media); ok {
		return keys
	}
	return mediaFromScan(media)
}
