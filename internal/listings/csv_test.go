package listings

import (
	"reflect"
	"testing"

	"auzland/internal/domain"
)

func TestParseCSVQuotedFields(t *testing.T) {
	csv := "id,address,suburb,description\n" +
		"1,\"123 Test St\",\"Test Suburb\",\"Multi\nline, desc with \"\"quotes\"\"\"\n"

	rows := ParseCSV(csv, nil)
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	got := rows[0]["description"]
	want := "Multi\nline, desc with \"quotes\""
	if got != want {
		t.Fatalf("description = %q, want %q", got, want)
	}
	if rows[0]["address"] != "123 Test St" {
		t.Fatalf("address = %q", rows[0]["address"])
	}
}

func TestParseCSVCRLFAndQuotedNewlines(t *testing.T) {
	csv := "id,note\r\n1,\"line one\r\nline two\"\r\n2,plain\r\n"
	rows := ParseCSV(csv, nil)
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0]["note"] != "line one\r\nline two" {
		t.Fatalf("note = %q", rows[0]["note"])
	}
	if rows[1]["note"] != "plain" {
		t.Fatalf("second note = %q", rows[1]["note"])
	}
}

func TestParseCSVSkipsMismatchedRows(t *testing.T) {
	csv := "id,address,suburb\n" +
		"1,1 Good St,Austral\n" +
		"2,too,many,fields,here\n" +
		"3,2 Fine Rd,Leppington\n"

	var skipped int
	rows := ParseCSV(csv, func(line, got, want int) { skipped++ })
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if skipped != 1 {
		t.Fatalf("want 1 skipped row, got %d", skipped)
	}
	if rows[1]["id"] != "3" {
		t.Fatalf("parsing did not continue past bad row: %+v", rows[1])
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	for _, csv := range []string{"", "id,address\n", "\n\n"} {
		if rows := ParseCSV(csv, nil); len(rows) != 0 {
			t.Fatalf("ParseCSV(%q) = %d rows, want 0", csv, len(rows))
		}
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"has,comma", `"has,comma"`},
		{`has "quote"`, `"has ""quote"""`},
		{"has\nnewline", "\"has\nnewline\""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	bed := 3.0
	frontage := 12.5
	price := int64(1250000)
	items := []domain.Listing{
		{
			ID:           "p-1",
			PropertyType: "Home & Land",
			Lot:          "Lot 42",
			Address:      `7 "Quoted" Lane, Austral`,
			Suburb:       "Austral",
			Availability: "Available",
			Bed:          &bed,
			Frontage:     &frontage,
			Price:        "$1,250,000",
			PriceNumber:  &price,
			Media:        `["media/p-1/front.jpg","media/p-1/back.png"]`,
			Description:  "Sunny corner block 🌞\nSecond line, with commas, and \"quotes\".",
			UpdatedAt:    "2026-08-30",

			PropertyCustomerVisibility: "1",
			PriceCustomerVisibility:    "0",
		},
		{
			ID:                         "p-2",
			Address:                    "9 Plain St",
			Suburb:                     "Leppington",
			Price:                      "Price on request",
			PropertyCustomerVisibility: "0",
			PriceCustomerVisibility:    "1",
		},
	}

	parsed := NormalizeAll(ParseCSV(WriteCSV(items), nil))
	if len(parsed) != len(items) {
		t.Fatalf("round trip row count = %d, want %d", len(parsed), len(items))
	}
	for i := range items {
		// Images are resolved out of band and never serialized.
		items[i].Images = nil
		if !reflect.DeepEqual(parsed[i], items[i]) {
			t.Errorf("round trip mismatch at %d:\n got %+v\nwant %+v", i, parsed[i], items[i])
		}
	}
}
