// Package columns maps monday.com column types to handlers that validate
// logical values and translate them to and from the API wire format.
//
// Handlers are pure: they never touch the network or the clock, so every
// write can be checked locally before a mutation is sent upstream.
package columns

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Type is a monday.com column type tag as reported in a board schema.
type Type string

const (
	TypeName          Type = "name"
	TypeText          Type = "text"
	TypeLongText      Type = "long_text"
	TypeNumeric       Type = "numeric"
	TypeDate          Type = "date"
	TypeEmail         Type = "email"
	TypeLocation      Type = "location"
	TypeCheckbox      Type = "checkbox"
	TypeStatus        Type = "status"
	TypeDropdown      Type = "dropdown"
	TypeTags          Type = "tags"
	TypeLink          Type = "link"
	TypeWorldClock    Type = "world_clock"
	TypeCountry       Type = "country"
	TypePhone         Type = "phone"
	TypeRating        Type = "rating"
	TypeFile          Type = "file"
	TypeFormula       Type = "formula"
	TypeConnectBoards Type = "connect_boards"
	TypeCreationLog   Type = "creation_log"
	TypeDependency    Type = "dependency"
	TypeTimeTracking  Type = "time_tracking"
	TypeColorPicker   Type = "color_picker"
	TypeButton        Type = "button"
	TypeLastUpdated   Type = "last_updated"
	TypeMirror        Type = "mirror"
	TypeProgress      Type = "progress"
	TypeVote          Type = "vote"
	TypeItemID        Type = "item_id"
	TypeAutoNumber    Type = "auto_number"
	TypeTimeline      Type = "timeline"
	TypeHour          Type = "hour"
	TypeWeek          Type = "week"
	TypeDoc           Type = "doc"
)

// ValidationResult reports whether a value fits a column. Reason and
// Suggestions are user-facing; Note carries a non-fatal caveat such as the
// passthrough warning for unregistered types.
type ValidationResult struct {
	OK          bool     `json:"ok"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// Handler validates and translates values for one column type.
//
// Validate rejects bad user input through the result, never through a Go
// error. ToWire is only called on values Validate accepted. FromWire is
// tolerant: partial or missing wire data yields zero-ish values, not panics.
type Handler interface {
	Validate(set *Settings, value any) ValidationResult
	ToWire(set *Settings, value any) (any, error)
	FromWire(set *Settings, wire any) any
}

var handlers = map[Type]Handler{
	TypeName:          textHandler{rejectEmpty: true},
	TypeText:          textHandler{rejectEmpty: true},
	TypeLongText:      textHandler{},
	TypeNumeric:       numericHandler{},
	TypeDate:          dateHandler{},
	TypeEmail:         emailHandler{},
	TypeLocation:      locationHandler{},
	TypeCheckbox:      checkboxHandler{},
	TypeStatus:        statusHandler{},
	TypeDropdown:      dropdownHandler{},
	TypeTags:          tagsHandler{},
	TypeLink:          linkHandler{},
	TypeWorldClock:    worldClockHandler{},
	TypeCountry:       countryHandler{},
	TypePhone:         phoneHandler{},
	TypeRating:        ratingHandler{},
	TypeFile:          fileHandler{},
	TypeFormula:       formulaHandler{},
	TypeConnectBoards: connectBoardsHandler{},
	TypeCreationLog:   actorLogHandler{actorKey: "created_by", timeKey: "created_at"},
	TypeDependency:    dependencyHandler{},
	TypeTimeTracking:  timeTrackingHandler{},
	TypeColorPicker:   colorPickerHandler{},
	TypeButton:        buttonHandler{},
	TypeLastUpdated:   actorLogHandler{actorKey: "updated_by", timeKey: "updated_at"},
	TypeMirror:        mirrorHandler{},
	TypeProgress:      progressHandler{},
	TypeVote:          voteHandler{},
	TypeItemID:        itemIDHandler{},
	TypeAutoNumber:    autoNumberHandler{},
	TypeTimeline:      timelineHandler{},
	TypeHour:          hourHandler{},
	TypeWeek:          weekHandler{},
	TypeDoc:           docHandler{},
}

// ForType returns the handler registered for t. Unregistered tags get a
// passthrough handler that accepts scalars and flags the value as not
// strictly validated; lookup never fails.
func ForType(t Type) Handler {
	if h, ok := handlers[t]; ok {
		return h
	}
	return passthroughHandler{tag: t}
}

// Known reports whether t has a registered handler.
func Known(t Type) bool {
	_, ok := handlers[t]
	return ok
}

// Types lists every registered type tag in sorted order.
func Types() []Type {
	out := make([]Type, 0, len(handlers))
	for t := range handlers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type passthroughHandler struct {
	tag Type
}

func (h passthroughHandler) note() string {
	return fmt.Sprintf("column type %q is not strictly validated", h.tag)
}

func (h passthroughHandler) Validate(set *Settings, value any) ValidationResult {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return invalid("value cannot be empty")
		}
		return ValidationResult{OK: true, Note: h.note()}
	case bool, float64, float32, int, int32, int64, json.Number:
		return ValidationResult{OK: true, Note: h.note()}
	}
	return invalid("expected a text, number, or boolean value for column type %q", h.tag)
}

func (h passthroughHandler) ToWire(set *Settings, value any) (any, error) {
	return value, nil
}

func (h passthroughHandler) FromWire(set *Settings, wire any) any {
	return wire
}

func valid() ValidationResult {
	return ValidationResult{OK: true}
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Reason: fmt.Sprintf(format, args...)}
}

func invalidWith(reason string, suggestions []string) ValidationResult {
	return ValidationResult{Reason: reason, Suggestions: suggestions}
}

// asString coerces scalar values to their string form.
func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// idStrings coerces a value into a list of id strings: a list of scalars,
// a comma-separated string, or a single scalar.
func idStrings(v any) ([]string, bool) {
	switch ids := v.(type) {
	case []any:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			s, ok := asString(id)
			if !ok || strings.TrimSpace(s) == "" {
				return nil, false
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, true
	case []string:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if strings.TrimSpace(id) == "" {
				return nil, false
			}
			out = append(out, strings.TrimSpace(id))
		}
		return out, true
	case string:
		var out []string
		for _, part := range strings.Split(ids, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
		return out, len(out) > 0
	}
	if s, ok := asString(v); ok {
		return []string{s}, true
	}
	return nil, false
}

// wireIDs renders id strings for the wire, as integers where possible.
func wireIDs(ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if n, err := strconv.Atoi(id); err == nil {
			out = append(out, n)
			continue
		}
		out = append(out, id)
	}
	return out
}
