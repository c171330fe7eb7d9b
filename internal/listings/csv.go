package listings

import (
	"strings"

	"auzland/internal/domain"
)

// Headers is the fixed column order used when serializing the collection for
// the dashboard round trip. The parser itself is header driven and also
// accepts the legacy snake_case export columns (see Normalize).
var Headers = []string{
	"id",
	"propertyType",
	"lot",
	"address",
	"suburb",
	"availability",
	"frontage",
	"landSize",
	"buildSize",
	"bed",
	"bath",
	"garage",
	"registrationConstructionStatus",
	"price",
	"media",
	"remark",
	"description",
	"updated_at",
	"propertyCustomerVisibility",
	"priceCustomerVisibility",
}

// splitLines breaks a CSV blob into logical rows. A quoted field may contain
// bare newlines, so physical lines are joined while the quote state is open.
// Both \n and \r\n terminate a row when outside quotes.
func splitLines(csv string) []string {
	var lines []string
	var cur strings.Builder
	inQuotes := false

	for i := 0; i < len(csv); {
		ch := csv[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(csv) && csv[i+1] == '"' {
				cur.WriteString(`""`)
				i += 2
				continue
			}
			inQuotes = !inQuotes
			cur.WriteByte(ch)
			i++
		case ch == '\n' && !inQuotes:
			lines = append(lines, cur.String())
			cur.Reset()
			i++
		case ch == '\r' && !inQuotes && i+1 < len(csv) && csv[i+1] == '\n':
			lines = append(lines, cur.String())
			cur.Reset()
			i += 2
		default:
			cur.WriteByte(ch)
			i++
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		lines = append(lines, cur.String())
	}
	return lines
}

// splitFields splits one logical row into its fields. Doubled quotes inside a
// quoted field decode to one literal quote; commas and newlines inside quotes
// are field content. Unquoted fields are trimmed (upstream exports pad them),
// quoted fields are kept byte for byte so descriptions round-trip exactly.
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	wasQuoted := false

	flush := func() {
		f := cur.String()
		if !wasQuoted {
			f = strings.TrimSpace(f)
		}
		fields = append(fields, f)
		cur.Reset()
		wasQuoted = false
	}

	for i := 0; i < len(line); {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i += 2
				continue
			}
			inQuotes = !inQuotes
			wasQuoted = true
			i++
		case ch == ',' && !inQuotes:
			flush()
			i++
		default:
			cur.WriteByte(ch)
			i++
		}
	}
	flush()
	return fields
}

// ParseCSV turns a raw CSV blob into header-keyed records. Rows whose field
// count does not match the header are dropped and reported through onSkip
// (nil is fine); parsing always continues with the next row. Empty or
// headerless input yields no records and no error.
func ParseCSV(csv string, onSkip func(line int, got, want int)) []domain.RawRecord {
	lines := splitLines(csv)
	if len(lines) < 2 {
		return nil
	}

	headers := splitFields(lines[0])
	var rows []domain.RawRecord
	for i := 1; i < len(lines); i++ {
		values := splitFields(lines[i])
		if len(values) == 1 && values[0] == "" {
			continue
		}
		if len(values) != len(headers) {
			if onSkip != nil {
				onSkip(i, len(values), len(headers))
			}
			continue
		}
		rec := make(domain.RawRecord, len(headers))
		for j, h := range headers {
			rec[h] = values[j]
		}
		rows = append(rows, rec)
	}
	return rows
}

// Escape makes a value safe as a single CSV field: values containing a comma,
// quote, newline, carriage return or tab are wrapped in quotes with internal
// quotes doubled. Values with surrounding whitespace are quoted too, since
// the parser trims unquoted fields.
func Escape(value string) string {
	if strings.ContainsAny(value, "\",\n\r\t") || value != strings.TrimSpace(value) {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// WriteCSV serializes the collection in the fixed Headers order so that
// ParseCSV(WriteCSV(x)) reproduces every field value exactly.
func WriteCSV(items []domain.Listing) string {
	var b strings.Builder
	b.WriteString(strings.Join(Headers, ","))
	b.WriteByte('\n')

	for _, p := range items {
		row := []string{
			p.ID,
			p.PropertyType,
			p.Lot,
			p.Address,
			p.Suburb,
			p.Availability,
			formatNumber(p.Frontage),
			formatNumber(p.LandSize),
			formatNumber(p.BuildSize),
			formatNumber(p.Bed),
			formatNumber(p.Bath),
			formatNumber(p.Garage),
			p.RegoStatus,
			p.Price,
			p.Media,
			p.Remark,
			p.Description,
			p.UpdatedAt,
			flagOrDefault(p.PropertyCustomerVisibility, "1"),
			flagOrDefault(p.PriceCustomerVisibility, "0"),
		}
		for i, v := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Escape(v))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func flagOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
