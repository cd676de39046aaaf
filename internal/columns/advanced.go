package columns

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// labelMiss builds the rejection for a status or dropdown value that is not
// an exact label. Ranking folds case, so "done" still suggests "Done".
func labelMiss(value string, set *Settings) ValidationResult {
	names := set.LabelNames()
	if len(names) == 0 {
		return invalid("%q is not a label on this column; the column has no labels configured", value)
	}
	if sugg := closestMatches(value, names); len(sugg) > 0 {
		return invalidWith(
			fmt.Sprintf("%q is not a label on this column. Did you mean one of these? %s", value, strings.Join(sugg, ", ")),
			sugg,
		)
	}
	return invalid("%q is not a label on this column. Valid options are: %s", value, strings.Join(names, ", "))
}

type statusHandler struct{}

func (statusHandler) Validate(set *Settings, value any) ValidationResult {
	s, ok := asString(value)
	if !ok {
		return invalid("expected a status label, got %T", value)
	}
	if _, ok := set.LabelIndex(s); !ok {
		return labelMiss(s, set)
	}
	return valid()
}

func (statusHandler) ToWire(set *Settings, value any) (any, error) {
	s, _ := asString(value)
	idx, ok := set.LabelIndex(s)
	if !ok {
		return nil, fmt.Errorf("label %q is not on this column", s)
	}
	if n, err := strconv.Atoi(idx); err == nil {
		return map[string]any{"index": n}, nil
	}
	return map[string]any{"index": idx}, nil
}

func (statusHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	if label, _ := asString(m["label"]); label != "" {
		return label
	}
	idx, _ := asString(m["index"])
	if label, ok := set.LabelName(idx); ok {
		return label
	}
	return idx
}

type dropdownHandler struct{}

func dropdownValues(v any) ([]string, bool) {
	switch vals := v.(type) {
	case string:
		return []string{vals}, true
	case []any:
		out := make([]string, 0, len(vals))
		for _, entry := range vals {
			s, ok := asString(entry)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, len(out) > 0
	case []string:
		return vals, len(vals) > 0
	}
	return nil, false
}

func (dropdownHandler) Validate(set *Settings, value any) ValidationResult {
	vals, ok := dropdownValues(value)
	if !ok {
		return invalid("expected a dropdown label or a list of labels, got %T", value)
	}
	for _, v := range vals {
		if _, ok := set.LabelIndex(v); !ok {
			return labelMiss(v, set)
		}
	}
	return valid()
}

func (dropdownHandler) ToWire(set *Settings, value any) (any, error) {
	vals, ok := dropdownValues(value)
	if !ok {
		return nil, fmt.Errorf("expected dropdown labels, got %T", value)
	}
	ids := make([]string, 0, len(vals))
	for _, v := range vals {
		id, ok := set.LabelIndex(v)
		if !ok {
			return nil, fmt.Errorf("label %q is not on this column", v)
		}
		ids = append(ids, id)
	}
	return map[string]any{"ids": wireIDs(ids)}, nil
}

func (dropdownHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	ids, ok := asList(m["ids"])
	if !ok {
		// Some payloads carry the chosen labels directly.
		if labels, ok := asList(m["labels"]); ok {
			names := make([]string, 0, len(labels))
			for _, l := range labels {
				if s, ok := asString(l); ok {
					names = append(names, s)
				}
			}
			return collapseSingle(names)
		}
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		s, _ := asString(id)
		if label, ok := set.LabelName(s); ok {
			names = append(names, label)
			continue
		}
		names = append(names, s)
	}
	return collapseSingle(names)
}

func collapseSingle(names []string) any {
	if len(names) == 1 {
		return names[0]
	}
	return names
}

type locationHandler struct{}

func locationParts(v any) (lat, lng float64, address string, ok bool) {
	switch loc := v.(type) {
	case map[string]any:
		latV, okLat := asFloat(loc["lat"])
		lngV, okLng := asFloat(loc["lng"])
		if !okLat || !okLng {
			return 0, 0, "", false
		}
		addr, _ := asString(loc["address"])
		return latV, lngV, addr, true
	case string:
		parts := strings.SplitN(loc, ",", 3)
		if len(parts) < 2 {
			return 0, 0, "", false
		}
		latV, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lngV, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat != nil || errLng != nil {
			return 0, 0, "", false
		}
		if len(parts) == 3 {
			address = strings.TrimSpace(parts[2])
		}
		return latV, lngV, address, true
	}
	return 0, 0, "", false
}

func (locationHandler) Validate(set *Settings, value any) ValidationResult {
	lat, lng, _, ok := locationParts(value)
	if !ok {
		return invalid(`expected {lat, lng} coordinates or a "lat,lng" string`)
	}
	if lat < -90 || lat > 90 {
		return invalid("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return invalid("longitude must be between -180 and 180")
	}
	return valid()
}

func (locationHandler) ToWire(set *Settings, value any) (any, error) {
	lat, lng, address, ok := locationParts(value)
	if !ok {
		return nil, fmt.Errorf("expected coordinates, got %T", value)
	}
	wire := map[string]any{
		"lat": strconv.FormatFloat(lat, 'f', -1, 64),
		"lng": strconv.FormatFloat(lng, 'f', -1, 64),
	}
	if address != "" {
		wire["address"] = address
	}
	return wire, nil
}

func (locationHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	lat, _ := asFloat(m["lat"])
	lng, _ := asFloat(m["lng"])
	out := map[string]any{"lat": lat, "lng": lng}
	if addr, _ := asString(m["address"]); addr != "" {
		out["address"] = addr
	}
	return out
}

const formulaReadOnly = "formula columns are computed and cannot be written"

type formulaHandler struct{}

func (formulaHandler) Validate(set *Settings, value any) ValidationResult {
	return invalid(formulaReadOnly)
}

func (formulaHandler) ToWire(set *Settings, value any) (any, error) {
	return nil, errors.New(formulaReadOnly)
}

func (formulaHandler) FromWire(set *Settings, wire any) any {
	if m, ok := asMap(wire); ok {
		s, _ := asString(m["value"])
		return s
	}
	s, _ := asString(wire)
	return s
}

type connectBoardsHandler struct{}

func (connectBoardsHandler) Validate(set *Settings, value any) ValidationResult {
	m, ok := asMap(value)
	if !ok {
		return invalid("expected {board_id, item_ids}, got %T", value)
	}
	boardID, _ := asString(m["board_id"])
	if strings.TrimSpace(boardID) == "" {
		return invalid("connected board id cannot be empty")
	}
	if _, ok := idStrings(m["item_ids"]); !ok {
		return invalid("expected item_ids as a list of ids")
	}
	if set != nil && len(set.AllowedBoards) > 0 && !containsString(set.AllowedBoards, boardID) {
		return invalid("board %s is not linked to this column; linked boards: %s", boardID, strings.Join(set.AllowedBoards, ", "))
	}
	return valid()
}

func (connectBoardsHandler) ToWire(set *Settings, value any) (any, error) {
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected {board_id, item_ids}, got %T", value)
	}
	boardID, _ := asString(m["board_id"])
	ids, ok := idStrings(m["item_ids"])
	if !ok {
		return nil, fmt.Errorf("expected item_ids as a list of ids")
	}
	return map[string]any{"board_id": boardID, "item_ids": wireIDs(ids)}, nil
}

func (connectBoardsHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	if linked, ok := asList(m["linkedPulseIds"]); ok {
		ids := make([]string, 0, len(linked))
		for _, entry := range linked {
			if lm, ok := asMap(entry); ok {
				if id, ok := asString(lm["linkedPulseId"]); ok {
					ids = append(ids, id)
				}
			}
		}
		return map[string]any{"item_ids": ids}
	}
	boardID, _ := asString(m["board_id"])
	ids, _ := idStrings(m["item_ids"])
	out := map[string]any{"item_ids": ids}
	if boardID != "" {
		out["board_id"] = boardID
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, entry := range list {
		if entry == s {
			return true
		}
	}
	return false
}

// parseTimestamp accepts RFC 3339 or a bare date-time without zone.
func parseTimestamp(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.RFC3339), true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.Format(time.RFC3339), true
	}
	return "", false
}

// actorLogHandler backs creation_log and last_updated, which share the
// actor-plus-timestamp shape under different key names.
type actorLogHandler struct {
	actorKey string
	timeKey  string
}

func (h actorLogHandler) Validate(set *Settings, value any) ValidationResult {
	m, ok := asMap(value)
	if !ok {
		return invalid("expected {%s, %s}, got %T", h.actorKey, h.timeKey, value)
	}
	actor, _ := asString(m[h.actorKey])
	if strings.TrimSpace(actor) == "" {
		return invalid("%s cannot be empty", h.actorKey)
	}
	ts, _ := asString(m[h.timeKey])
	if _, ok := parseTimestamp(ts); !ok {
		return invalid("%q is not an ISO-8601 timestamp", ts)
	}
	return valid()
}

func (h actorLogHandler) ToWire(set *Settings, value any) (any, error) {
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected {%s, %s}, got %T", h.actorKey, h.timeKey, value)
	}
	actor, _ := asString(m[h.actorKey])
	ts, _ := asString(m[h.timeKey])
	normalized, ok := parseTimestamp(ts)
	if !ok {
		return nil, fmt.Errorf("%q is not an ISO-8601 timestamp", ts)
	}
	wire := map[string]any{h.actorKey: actor, h.timeKey: normalized}
	if account, _ := asString(m["account_id"]); account != "" {
		wire["account_id"] = account
	}
	return wire, nil
}

func (h actorLogHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	actor, _ := asString(m[h.actorKey])
	ts, _ := asString(m[h.timeKey])
	out := map[string]any{h.actorKey: actor, h.timeKey: ts}
	if account, _ := asString(m["account_id"]); account != "" {
		out["account_id"] = account
	}
	return out
}

var dependencyKeys = []string{"depends_on", "required_for", "blocking"}

type dependencyHandler struct{}

func (dependencyHandler) Validate(set *Settings, value any) ValidationResult {
	lists, ok := dependencyLists(value)
	if !ok {
		return invalid("expected {depends_on, required_for, blocking} id lists")
	}
	total := 0
	for _, ids := range lists {
		total += len(ids)
	}
	if max := maxDependencies(set); total > max {
		return invalid("too many dependencies; the limit is %d", max)
	}
	return valid()
}

func (dependencyHandler) ToWire(set *Settings, value any) (any, error) {
	lists, ok := dependencyLists(value)
	if !ok {
		return nil, fmt.Errorf("expected dependency id lists, got %T", value)
	}
	wire := map[string]any{}
	for key, ids := range lists {
		wire[key] = wireIDs(ids)
	}
	return wire, nil
}

func (dependencyHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	out := map[string]any{}
	for _, key := range dependencyKeys {
		if ids, ok := idStrings(m[key]); ok {
			out[key] = ids
		}
	}
	if len(out) == 0 {
		// The live API stores bare linked item ids.
		if ids, ok := idStrings(m["item_ids"]); ok {
			out["depends_on"] = ids
		}
	}
	return out
}

// dependencyLists normalizes dependency input: a bare id list counts as
// depends_on, a map may carry any of the three direction keys.
func dependencyLists(v any) (map[string][]string, bool) {
	if m, ok := asMap(v); ok {
		out := map[string][]string{}
		for _, key := range dependencyKeys {
			raw, present := m[key]
			if !present {
				continue
			}
			ids, ok := idStrings(raw)
			if !ok {
				return nil, false
			}
			out[key] = ids
		}
		return out, len(out) > 0
	}
	if ids, ok := idStrings(v); ok {
		return map[string][]string{"depends_on": ids}, true
	}
	return nil, false
}

var timeTrackingStatuses = []string{"completed", "running", "stopped"}

type timeTrackingHandler struct{}

func (timeTrackingHandler) Validate(set *Settings, value any) ValidationResult {
	m, ok := asMap(value)
	if !ok {
		return invalid("expected {status, duration}, got %T", value)
	}
	status, _ := asString(m["status"])
	if !containsString(timeTrackingStatuses, status) {
		return invalid("%q is not a tracking status; use one of: %s", status, strings.Join(timeTrackingStatuses, ", "))
	}
	if raw, present := m["duration"]; present {
		if n, ok := asInt(raw); !ok || n < 0 {
			return invalid("duration must be a non-negative number of seconds")
		}
	}
	return valid()
}

func (timeTrackingHandler) ToWire(set *Settings, value any) (any, error) {
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected {status, duration}, got %T", value)
	}
	status, _ := asString(m["status"])
	wire := map[string]any{"status": status}
	if n, ok := asInt(m["duration"]); ok {
		wire["duration"] = n
	}
	return wire, nil
}

func (timeTrackingHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	status, _ := asString(m["status"])
	out := map[string]any{"status": status}
	if n, ok := asInt(m["duration"]); ok {
		out["duration"] = n
	}
	return out
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type colorPickerHandler struct{}

func colorParts(v any) (color, label string, ok bool) {
	switch c := v.(type) {
	case string:
		return strings.TrimSpace(c), "", true
	case map[string]any:
		col, _ := asString(c["color"])
		lab, _ := asString(c["label"])
		return strings.TrimSpace(col), lab, true
	}
	return "", "", false
}

func (colorPickerHandler) Validate(set *Settings, value any) ValidationResult {
	color, _, ok := colorParts(value)
	if !ok {
		return invalid("expected a hex color or a {color, label} object, got %T", value)
	}
	if !hexColorPattern.MatchString(color) {
		return invalid("%q is not a hex color like #1A2B3C", color)
	}
	return valid()
}

func (colorPickerHandler) ToWire(set *Settings, value any) (any, error) {
	color, label, ok := colorParts(value)
	if !ok || !hexColorPattern.MatchString(color) {
		return nil, fmt.Errorf("%v is not a usable color", value)
	}
	wire := map[string]any{"color": color}
	if label != "" {
		wire["label"] = label
	}
	return wire, nil
}

func (colorPickerHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		s, _ := asString(wire)
		return s
	}
	color, _ := asString(m["color"])
	label, _ := asString(m["label"])
	if label == "" {
		return color
	}
	return map[string]any{"color": color, "label": label}
}

type buttonHandler struct{}

func (buttonHandler) Validate(set *Settings, value any) ValidationResult {
	m, ok := asMap(value)
	if !ok {
		return invalid("expected {label, action_id}, got %T", value)
	}
	if label, _ := asString(m["label"]); strings.TrimSpace(label) == "" {
		return invalid("button label cannot be empty")
	}
	if action, _ := asString(m["action_id"]); strings.TrimSpace(action) == "" {
		return invalid("button action_id cannot be empty")
	}
	return valid()
}

func (buttonHandler) ToWire(set *Settings, value any) (any, error) {
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected {label, action_id}, got %T", value)
	}
	label, _ := asString(m["label"])
	action, _ := asString(m["action_id"])
	wire := map[string]any{"label": label, "action_id": action}
	if tt, _ := asString(m["target_type"]); tt != "" {
		wire["target_type"] = tt
	}
	if tid, _ := asString(m["target_id"]); tid != "" {
		wire["target_id"] = tid
	}
	return wire, nil
}

func (buttonHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	label, _ := asString(m["label"])
	action, _ := asString(m["action_id"])
	out := map[string]any{"label": label, "action_id": action}
	if tt, _ := asString(m["target_type"]); tt != "" {
		out["target_type"] = tt
	}
	if tid, _ := asString(m["target_id"]); tid != "" {
		out["target_id"] = tid
	}
	return out
}

var mirrorTypes = []string{"items", "subitems"}

type mirrorHandler struct{}

func (mirrorHandler) Validate(set *Settings, value any) ValidationResult {
	m, ok := asMap(value)
	if !ok {
		return invalid("expected {source_board_id, mirror_type}, got %T", value)
	}
	if src, _ := asString(m["source_board_id"]); strings.TrimSpace(src) == "" {
		return invalid("mirror source board id cannot be empty")
	}
	mt, _ := asString(m["mirror_type"])
	if !containsString(mirrorTypes, mt) {
		return invalid("%q is not a mirror type; use one of: %s", mt, strings.Join(mirrorTypes, ", "))
	}
	return valid()
}

func (mirrorHandler) ToWire(set *Settings, value any) (any, error) {
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected {source_board_id, mirror_type}, got %T", value)
	}
	src, _ := asString(m["source_board_id"])
	mt, _ := asString(m["mirror_type"])
	wire := map[string]any{"source_board_id": src, "mirror_type": mt}
	if filters, present := m["filters"]; present {
		wire["filters"] = filters
	}
	return wire, nil
}

func (mirrorHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	src, _ := asString(m["source_board_id"])
	mt, _ := asString(m["mirror_type"])
	out := map[string]any{"source_board_id": src, "mirror_type": mt}
	if filters, present := m["filters"]; present {
		out["filters"] = filters
	}
	return out
}

type progressHandler struct{}

func progressParts(v any) (progress float64, auto, hasAuto, ok bool) {
	if m, isMap := asMap(v); isMap {
		p, okP := asFloat(m["progress"])
		if !okP {
			return 0, false, false, false
		}
		a, isBool := m["auto_progress"].(bool)
		return p, a, isBool, true
	}
	p, okP := asFloat(v)
	return p, false, false, okP
}

func (progressHandler) Validate(set *Settings, value any) ValidationResult {
	p, _, _, ok := progressParts(value)
	if !ok {
		return invalid("%v is not a progress value", value)
	}
	if p < 0 || p > 100 {
		return invalid("progress must be between 0 and 100")
	}
	return valid()
}

func (progressHandler) ToWire(set *Settings, value any) (any, error) {
	p, auto, hasAuto, ok := progressParts(value)
	if !ok {
		return nil, fmt.Errorf("%v is not a progress value", value)
	}
	wire := map[string]any{"progress": p}
	if hasAuto {
		wire["auto_progress"] = auto
	}
	return wire, nil
}

func (progressHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		p, _ := asFloat(wire)
		return p
	}
	p, _ := asFloat(m["progress"])
	if auto, isBool := m["auto_progress"].(bool); isBool {
		return map[string]any{"progress": p, "auto_progress": auto}
	}
	return p
}

type voteHandler struct{}

func (voteHandler) Validate(set *Settings, value any) ValidationResult {
	if n, ok := asInt(value); ok {
		if n < 0 {
			return invalid("votes count cannot be negative")
		}
		return valid()
	}
	m, ok := asMap(value)
	if !ok {
		return invalid("expected a votes count or {votes_count, voters}, got %T", value)
	}
	n, ok := asInt(m["votes_count"])
	if !ok || n < 0 {
		return invalid("votes_count must be a non-negative whole number")
	}
	if raw, present := m["voters"]; present {
		if _, ok := asList(raw); !ok {
			return invalid("voters must be a list")
		}
	}
	return valid()
}

func (voteHandler) ToWire(set *Settings, value any) (any, error) {
	if n, ok := asInt(value); ok {
		return map[string]any{"votes_count": n}, nil
	}
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected a votes value, got %T", value)
	}
	n, _ := asInt(m["votes_count"])
	wire := map[string]any{"votes_count": n}
	if voters, ok := asList(m["voters"]); ok {
		wire["voters"] = voters
	}
	if voted, isBool := m["voted_by_me"].(bool); isBool {
		wire["voted_by_me"] = voted
	}
	return wire, nil
}

func (voteHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		n, _ := asInt(wire)
		return n
	}
	n, _ := asInt(m["votes_count"])
	voters, hasVoters := asList(m["voters"])
	voted, hasVoted := m["voted_by_me"].(bool)
	if !hasVoters && !hasVoted {
		return n
	}
	out := map[string]any{"votes_count": n}
	if hasVoters {
		out["voters"] = voters
	}
	if hasVoted {
		out["voted_by_me"] = voted
	}
	return out
}

type timelineHandler struct{}

func (timelineHandler) Validate(set *Settings, value any) ValidationResult {
	m, ok := asMap(value)
	if !ok {
		return invalid("expected {from, to} dates, got %T", value)
	}
	fromRaw, _ := asString(m["from"])
	toRaw, _ := asString(m["to"])
	from, okFrom := parseDate(fromRaw)
	if !okFrom {
		return invalid("%q is not an ISO-8601 date; use YYYY-MM-DD", fromRaw)
	}
	to, okTo := parseDate(toRaw)
	if !okTo {
		return invalid("%q is not an ISO-8601 date; use YYYY-MM-DD", toRaw)
	}
	if to < from {
		return invalid("timeline end %s is before start %s", to, from)
	}
	return valid()
}

func (timelineHandler) ToWire(set *Settings, value any) (any, error) {
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected {from, to} dates, got %T", value)
	}
	fromRaw, _ := asString(m["from"])
	toRaw, _ := asString(m["to"])
	from, okFrom := parseDate(fromRaw)
	to, okTo := parseDate(toRaw)
	if !okFrom || !okTo {
		return nil, fmt.Errorf("timeline needs two ISO-8601 dates")
	}
	return map[string]any{"from": from, "to": to}, nil
}

func (timelineHandler) FromWire(set *Settings, wire any) any {
	m, ok := asMap(wire)
	if !ok {
		return wire
	}
	from, _ := asString(m["from"])
	to, _ := asString(m["to"])
	return map[string]any{"from": from, "to": to}
}
