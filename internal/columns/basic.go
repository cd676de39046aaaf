package columns

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// textHandler backs name, text, and long_text. Name and text collapse
// whitespace and reject empty values; long_text takes any string as is.
type textHandler struct {
	rejectEmpty bool
}

func (h textHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok {
		return invalid("expected text, got %T", value)
	}
	if h.rejectEmpty && normalizeText(s) == "" {
		return invalid("text cannot be empty")
	}
	return valid()
}

func (h textHandler) ToWire(set *Settings, value any) (any, error) {
	s, ok := asString(value)
	if !ok {
		return nil, fmt.Errorf("expected text, got %T", value)
	}
	if h.rejectEmpty {
		s = normalizeText(s)
	}
	return map[string]any{"text": s}, nil
}

func (h textHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		s, _ := asString(m["text"])
		return s
	}
	s, _ := asString(wire)
	return s
}

type numericHandler struct{}

func (numericHandler) Validate(set *Settings, value any) ValidationResult {
	if _, ok := asFloat(value); !ok {
		return invalid("%v is not a number", value)
	}
	return valid()
}

func (numericHandler) ToWire(set *Settings, value any) (any, error) {
	f, ok := asFloat(value)
	if !ok {
		return nil, fmt.Errorf("%v is not a number", value)
	}
	return map[string]any{"number": f}, nil
}

func (numericHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		f, _ := asFloat(m["number"])
		return f
	}
	f, _ := asFloat(wire)
	return f
}

const dateLayout = "2006-01-02"

// parseDate accepts an ISO-8601 calendar date, or an RFC 3339 timestamp
// truncated to its date. Anything else, including regional forms like
// 03/09/2025, is rejected.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateLayout), true
	}
	return "", false
}

type dateHandler struct{}

func (dateHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok {
		return invalid("expected a date string, got %T", value)
	}
	if _, ok := parseDate(s); !ok {
		return invalid("%q is not an ISO-8601 date; use YYYY-MM-DD", s)
	}
	return valid()
}

func (dateHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	date, ok := parseDate(s)
	if !ok {
		return nil, fmt.Errorf("%q is not an ISO-8601 date", s)
	}
	return map[string]any{"date": date}, nil
}

func (dateHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	date, _ := asString(m["date"])
	if tm, _ := asString(m["time"]); tm != "" {
		return date + " " + tm
	}
	return date
}

type emailHandler struct{}

func (emailHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok {
		return invalid("expected an email address, got %T", value)
	}
	if !validEmail(s) {
		return invalid("%q is not a valid email address", s)
	}
	return valid()
}

func (emailHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	s = strings.TrimSpace(s)
	if !validEmail(s) {
		return nil, fmt.Errorf("%q is not a valid email address", s)
	}
	return map[string]any{"email": s, "text": s}, nil
}

func (emailHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		if s, _ := asString(m["email"]); s != "" {
			return s
		}
		s, _ := asString(m["text"])
		return s
	}
	s, _ := asString(wire)
	return s
}

// validEmail checks for a bare RFC-shaped address, no display names.
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "@") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{4,15}$`)

// normalizePhone strips the separators people type into phone numbers.
func normalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

type phoneHandler struct{}

func (phoneHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok {
		return invalid("expected a phone number, got %T", value)
	}
	if !phonePattern.MatchString(normalizePhone(s)) {
		return invalid("%q is not a valid phone number; use digits with an optional leading +", s)
	}
	return valid()
}

func (phoneHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	phone := normalizePhone(s)
	if !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%q is not a valid phone number", s)
	}
	wire := map[string]any{"phone": phone}
	if set != nil && set.CountryCode != "" {
		wire["code"] = set.CountryCode
	}
	return wire, nil
}

func (phoneHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		s, _ := asString(m["phone"])
		return s
	}
	s, _ := asString(wire)
	return s
}

// parseCheckbox accepts booleans, the usual true/false spellings, and
// numbers where anything non-zero means checked.
func parseCheckbox(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
		return false, false
	}
	if f, ok := asFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

type checkboxHandler struct{}

func (checkboxHandler) Validate(set *Settings, value any) ValidationResult {
	if _, ok := parseCheckbox(value); !ok {
		return invalid("%v is not a boolean; use true/false, 1/0, or yes/no", value)
	}
	return valid()
}

func (checkboxHandler) ToWire(set *Settings, value any) (any, error) {
	b, ok := parseCheckbox(value)
	if !ok {
		return nil, fmt.Errorf("%v is not a boolean", value)
	}
	return map[string]any{"checked": b}, nil
}

func (checkboxHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		b, _ := parseCheckbox(m["checked"])
		return b
	}
	b, _ := parseCheckbox(wire)
	return b
}

type linkHandler struct{}

func linkParts(v any) (urlStr, text string, ok bool) {
	switch link := v.(type) {
	case string:
		return strings.TrimSpace(link), strings.TrimSpace(link), true
	case map[string]any:
		u, _ := asString(link["url"])
		t, _ := asString(link["text"])
		if t == "" {
			t = u
		}
		return strings.TrimSpace(u), strings.TrimSpace(t), true
	}
	return "", "", false
}

func validHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (linkHandler) Validate(set *Settings, value any) ValidationResult {
	u, _, ok := linkParts(value)
	if !ok {
		return invalid("expected a URL string or a {url, text} object, got %T", value)
	}
	if !validHTTPURL(u) {
		return invalid("%q is not an absolute http(s) URL", u)
	}
	return valid()
}

func (linkHandler) ToWire(set *Settings, value any) (any, error) {
	u, text, ok := linkParts(value)
	if !ok || !validHTTPURL(u) {
		return nil, fmt.Errorf("%v is not a usable link", value)
	}
	return map[string]any{"url": u, "text": text}, nil
}

func (linkHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	u, _ := asString(m["url"])
	text, _ := asString(m["text"])
	if text == "" || text == u {
		return u
	}
	return map[string]any{"url": u, "text": text}
}

type ratingHandler struct{}

func (ratingHandler) Validate(set *Settings, value any) ValidationResult {
	n, ok := asInt(value)
	if !ok {
		return invalid("%v is not a whole number", value)
	}
	if max := maxRating(set); n < 0 || n > max {
		return invalid("rating must be between 0 and %d", max)
	}
	return valid()
}

func (ratingHandler) ToWire(set *Settings, value any) (any, error) {
	n, ok := asInt(value)
	if !ok {
		return nil, fmt.Errorf("%v is not a whole number", value)
	}
	return map[string]any{"rating": n}, nil
}

func (ratingHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		n, _ := asInt(m["rating"])
		return n
	}
	n, _ := asInt(wire)
	return n
}

var hourPattern = regexp.MustCompile(`^([0-9]{1,2}):([0-9]{2})$`)

// parseHour accepts H:MM or HH:MM within a 24-hour day and returns the
// zero-padded form.
func parseHour(s string) (string, bool) {
	m := hourPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hh, mm), true
}

type hourHandler struct{}

func (hourHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok {
		return invalid("expected a time of day, got %T", value)
	}
	if _, ok := parseHour(s); !ok {
		return invalid("%q is not a time of day; use HH:MM between 00:00 and 23:59", s)
	}
	return valid()
}

func (hourHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	hour, ok := parseHour(s)
	if !ok {
		return nil, fmt.Errorf("%q is not a time of day", s)
	}
	return map[string]any{"hour": hour}, nil
}

func (hourHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	if s, ok := m["hour"].(string); ok {
		return s
	}
	// The live API stores hour and minute as separate numbers.
	hh, okH := asInt(m["hour"])
	mm, _ := asInt(m["minute"])
	if !okH {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hh, mm)
}

type weekHandler struct{}

func (weekHandler) Validate(set *Settings, value any) ValidationResult {
	m, ok := asMap(value)
	if !ok {
		return invalid("expected {week, year}, got %T", value)
	}
	week, okW := asInt(m["week"])
	year, okY := asInt(m["year"])
	if !okW || !okY {
		return invalid("expected {week, year} with whole numbers")
	}
	if week < 1 || week > 53 {
		return invalid("week must be between 1 and 53")
	}
	if year < 1900 {
		return invalid("year must be 1900 or later")
	}
	return valid()
}

func (weekHandler) ToWire(set *Settings, value any) (any, error) {
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected {week, year}, got %T", value)
	}
	week, _ := asInt(m["week"])
	year, _ := asInt(m["year"])
	return map[string]any{"week": week, "year": year}, nil
}

func (weekHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return nil
	}
	week, _ := asInt(m["week"])
	year, _ := asInt(m["year"])
	return map[string]any{"week": week, "year": year}
}

type worldClockHandler struct{}

func (worldClockHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok || strings.TrimSpace(s) == "" {
		return invalid("timezone cannot be empty")
	}
	return valid()
}

func (worldClockHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("timezone cannot be empty")
	}
	return map[string]any{"timezone": s}, nil
}

func (worldClockHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		s, _ := asString(m["timezone"])
		return s
	}
	s, _ := asString(wire)
	return s
}

var countryPattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

type countryHandler struct{}

func (countryHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok {
		return invalid("expected a country code, got %T", value)
	}
	if !countryPattern.MatchString(strings.TrimSpace(s)) {
		return invalid("%q is not a two-letter country code", s)
	}
	return valid()
}

func (countryHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	s = strings.TrimSpace(s)
	if !countryPattern.MatchString(s) {
		return nil, fmt.Errorf("%q is not a two-letter country code", s)
	}
	return map[string]any{"country_code": strings.ToUpper(s)}, nil
}

func (countryHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		if s, _ := asString(m["country_code"]); s != "" {
			return strings.ToUpper(s)
		}
		s, _ := asString(m["countryCode"])
		return strings.ToUpper(s)
	}
	s, _ := asString(wire)
	return strings.ToUpper(s)
}

type tagsHandler struct{}

func (tagsHandler) Validate(set *Settings, value any) ValidationResult {
	if _, ok := idStrings(value); !ok {
		return invalid("expected tag ids as a list, a comma-separated string, or a single id")
	}
	return valid()
}

func (tagsHandler) ToWire(set *Settings, value any) (any, error) {
	ids, ok := idStrings(value)
	if !ok {
		return nil, fmt.Errorf("expected tag ids, got %T", value)
	}
	return map[string]any{"tag_ids": wireIDs(ids)}, nil
}

func (tagsHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		ids, _ := idStrings(wire)
		return ids
	}
	ids, _ := idStrings(m["tag_ids"])
	return ids
}

type fileHandler struct{}

func (fileHandler) Validate(set *Settings, value any) ValidationResult {
	switch v := value.(type) {
	case []any, map[string]any:
		return valid()
	case string:
		if strings.TrimSpace(v) == "" {
			return invalid("file reference cannot be empty")
		}
		return valid()
	}
	return invalid("expected a file list, got %T", value)
}

func (fileHandler) ToWire(set *Settings, value any) (any, error) {
	switch v := value.(type) {
	case []any:
		return map[string]any{"files": v}, nil
	case map[string]any, string:
		return map[string]any{"files": []any{v}}, nil
	}
	return nil, fmt.Errorf("expected a file list, got %T", value)
}

func (fileHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	return m["files"]
}

type itemIDHandler struct{}

func (itemIDHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok || strings.TrimSpace(s) == "" {
		return invalid("item id cannot be empty")
	}
	return valid()
}

func (itemIDHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("item id cannot be empty")
	}
	return map[string]any{"id": s}, nil
}

func (itemIDHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		if s, _ := asString(m["id"]); s != "" {
			return s
		}
		s, _ := asString(m["item_id"])
		return s
	}
	s, _ := asString(wire)
	return s
}

type autoNumberHandler struct{}

func (autoNumberHandler) Validate(set *Settings, value any) ValidationResult {
	n, ok := asInt(value)
	if !ok || n < 0 {
		return invalid("%v is not a non-negative whole number", value)
	}
	return valid()
}

func (autoNumberHandler) ToWire(set *Settings, value any) (any, error) {
	n, ok := asInt(value)
	if !ok || n < 0 {
		return nil, fmt.Errorf("%v is not a non-negative whole number", value)
	}
	return map[string]any{"number": n}, nil
}

func (autoNumberHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		n, _ := asInt(m["number"])
		return n
	}
	n, _ := asInt(wire)
	return n
}

type docHandler struct{}

func (docHandler) Validate(set *Settings, value any) ValidationResult {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return invalid("document url cannot be empty")
		}
		return valid()
	case map[string]any:
		if u, _ := asString(v["url"]); strings.TrimSpace(u) == "" {
			return invalid("document needs a url")
		}
		return valid()
	}
	return invalid("expected a document url or a {url, title} object, got %T", value)
}

func (docHandler) ToWire(set *Settings, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return map[string]any{"url": strings.TrimSpace(v)}, nil
	case map[string]any:
		u, _ := asString(v["url"])
		if strings.TrimSpace(u) == "" {
			return nil, fmt.Errorf("document needs a url")
		}
		wire := map[string]any{"url": strings.TrimSpace(u)}
		if title, _ := asString(v["title"]); title != "" {
			wire["title"] = title
		}
		if fileID, _ := asString(v["file_id"]); fileID != "" {
			wire["file_id"] = fileID
		}
		return wire, nil
	}
	return nil, fmt.Errorf("expected a document url or object, got %T", value)
}

func (docHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	u, _ := asString(m["url"])
	title, _ := asString(m["title"])
	fileID, _ := asString(m["file_id"])
	if title == "" && fileID == "" {
		return u
	}
	out := map[string]any{"url": u}
	if title != "" {
		out["title"] = title
	}
	if fileID != "" {
		out["file_id"] = fileID
	}
	return out
}
