package columns

import (
	"strings"
	"testing"
)

func TestTextValidate(t *testing.T) {
	set := ParseSettings("")

	tests := []struct {
		name  string
		typ   Type
		value any
		ok    bool
	}{
		{"plain text", TypeText, "hello", true},
		{"empty text", TypeText, "", false},
		{"blank text", TypeText, "   ", false},
		{"numeric text", TypeText, 42, true},
		{"map is not text", TypeText, map[string]any{}, false},
		{"empty long text ok", TypeLongText, "", true},
		{"empty name", TypeName, "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ForType(tt.typ).Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%v) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}

func TestDateValidate(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeDate)

	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"calendar date", "2025-03-09", true},
		{"rfc3339", "2025-03-09T14:30:00Z", true},
		{"rfc3339 offset", "2025-03-09T14:30:00+02:00", true},
		{"us format", "03/09/2025", false},
		{"written out", "March 9, 2025", false},
		{"reversed", "09-03-2025", false},
		{"not a date", "tomorrow", false},
		{"number", 20250309, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%v) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
			if !tt.ok && !strings.Contains(res.Reason, "YYYY-MM-DD") {
				t.Errorf("reason %q does not name the expected format", res.Reason)
			}
		})
	}
}

func TestEmailValidate(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeEmail)

	tests := []struct {
		value string
		ok    bool
	}{
		{"dev@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"no-at-sign", false},
		{"spaced @example.com", false},
		{"Display Name <dev@example.com>", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%q) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}

func TestPhoneValidate(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypePhone)

	tests := []struct {
		value string
		ok    bool
	}{
		{"+15551234567", true},
		{"(555) 123-4567", true},
		{"555 123 4567", true},
		{"123", false},
		{"+1 (555) CALL-NOW", false},
		{"555-123-4567 ext 9", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%q) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}

func TestPhoneWireIncludesCountryCode(t *testing.T) {
	set := ParseSettings(`{"country_code": "US"}`)
	wire, err := ForType(TypePhone).ToWire(set, "(555) 123-4567")
	if err != nil {
		t.Fatalf("ToWire error: %v", err)
	}
	m, ok := wire.(map[string]any)
	if !ok {
		t.Fatalf("wire = %T, want map", wire)
	}
	if m["phone"] != "5551234567" {
		t.Errorf("phone = %v, want separators stripped", m["phone"])
	}
	if m["code"] != "US" {
		t.Errorf("code = %v, want US from settings", m["code"])
	}
}

func TestCheckboxParsing(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeCheckbox)

	tests := []struct {
		name  string
		value any
		ok    bool
		want  bool
	}{
		{"bool true", true, true, true},
		{"bool false", false, true, false},
		{"string true", "true", true, true},
		{"string no", "no", true, false},
		{"string 1", "1", true, true},
		{"string 0", "0", true, false},
		{"string YES", "YES", true, true},
		{"number", 2.0, true, true},
		{"zero", 0.0, true, false},
		{"garbage", "maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Fatalf("Validate(%v) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
			if !tt.ok {
				return
			}
			wire, err := h.ToWire(set, tt.value)
			if err != nil {
				t.Fatalf("ToWire error: %v", err)
			}
			if wire.(map[string]any)["checked"] != tt.want {
				t.Errorf("checked = %v, want %v", wire.(map[string]any)["checked"], tt.want)
			}
		})
	}
}

func TestLinkValidate(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeLink)

	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"https", "https://example.com/docs", true},
		{"http", "http://example.com", true},
		{"object", map[string]any{"url": "https://example.com", "text": "Example"}, true},
		{"no scheme", "example.com", false},
		{"ftp", "ftp://example.com", false},
		{"relative", "/docs/readme", false},
		{"number", 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%v) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}

func TestRatingBounds(t *testing.T) {
	h := ForType(TypeRating)

	tests := []struct {
		name  string
		set   *Settings
		value any
		ok    bool
	}{
		{"in range", ParseSettings(""), 4, true},
		{"zero", ParseSettings(""), 0, true},
		{"default max", ParseSettings(""), 5, true},
		{"over default max", ParseSettings(""), 6, false},
		{"negative", ParseSettings(""), -1, false},
		{"fraction", ParseSettings(""), 3.5, false},
		{"custom max ok", ParseSettings(`{"max_rating": 10}`), 9, true},
		{"custom max exceeded", ParseSettings(`{"max_rating": 10}`), 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Validate(tt.set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%v) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}

func TestHourValidate(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeHour)

	tests := []struct {
		value string
		ok    bool
	}{
		{"09:30", true},
		{"9:30", true},
		{"23:59", true},
		{"00:00", true},
		{"24:00", false},
		{"12:60", false},
		{"12:5", false},
		{"noon", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%q) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}

func TestWeekValidate(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeWeek)

	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"valid", map[string]any{"week": 15, "year": 2025}, true},
		{"first week", map[string]any{"week": 1, "year": 1900}, true},
		{"week 53", map[string]any{"week": 53, "year": 2020}, true},
		{"week zero", map[string]any{"week": 0, "year": 2025}, false},
		{"week 54", map[string]any{"week": 54, "year": 2025}, false},
		{"ancient year", map[string]any{"week": 10, "year": 1800}, false},
		{"missing year", map[string]any{"week": 10}, false},
		{"not a map", "2025-W15", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%v) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}

func TestCountryValidate(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeCountry)

	for _, valid := range []string{"US", "de", "Jp"} {
		if res := h.Validate(set, valid); !res.OK {
			t.Errorf("Validate(%q) rejected: %s", valid, res.Reason)
		}
	}
	for _, bad := range []string{"USA", "D", "1A", ""} {
		if res := h.Validate(set, bad); res.OK {
			t.Errorf("Validate(%q) accepted, want rejection", bad)
		}
	}
}

func TestTagsCoercion(t *testing.T) {
	set := ParseSettings("")
	h := ForType(TypeTags)

	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"list", []any{"1", "2"}, true},
		{"comma string", "1, 2, 3", true},
		{"single id", "42", true},
		{"single number", 42, true},
		{"empty string", "", false},
		{"list with blank", []any{"1", " "}, false},
		{"map", map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Validate(set, tt.value)
			if res.OK != tt.ok {
				t.Errorf("Validate(%v) ok = %v, want %v (%s)", tt.value, res.OK, tt.ok, res.Reason)
			}
		})
	}
}
