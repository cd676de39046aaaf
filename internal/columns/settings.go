package columns

import (
	"encoding/json"
	"sort"
	"strings"
)

// Settings is the normalized view of a column's settings_str. Labels holds
// status index to label and dropdown id to name mappings under one map; Raw
// keeps the decoded JSON for anything not lifted into a field.
type Settings struct {
	Labels          map[string]string
	MaxRating       int
	CountryCode     string
	Timezone        string
	AllowedBoards   []string
	MaxDependencies int
	IncludeTime     bool
	Raw             map[string]any
}

// ParseSettings decodes a column's settings_str. Empty or broken JSON yields
// empty settings rather than an error; validation then simply has fewer
// constraints to enforce.
func ParseSettings(settingsStr string) *Settings {
	set := &Settings{
		Labels: map[string]string{},
		Raw:    map[string]any{},
	}
	if strings.TrimSpace(settingsStr) == "" {
		return set
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(settingsStr), &raw); err != nil {
		return set
	}
	set.Raw = raw

	// Status columns carry {"labels": {"0": "Working on it"}}, dropdown
	// columns carry {"labels": [{"id": 1, "name": "Blue"}]}.
	switch labels := raw["labels"].(type) {
	case map[string]any:
		for idx, v := range labels {
			if s, ok := v.(string); ok {
				set.Labels[idx] = s
			}
		}
	case []any:
		for _, entry := range labels {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			name, _ := m["name"].(string)
			if name == "" {
				continue
			}
			if id, ok := asString(m["id"]); ok {
				set.Labels[id] = name
			}
		}
	}

	if n, ok := asInt(firstPresent(raw, "max_rating", "max")); ok && n > 0 {
		set.MaxRating = n
	}
	if n, ok := asInt(raw["max_dependencies"]); ok && n > 0 {
		set.MaxDependencies = n
	}
	if cc, ok := firstString(raw, "country_code", "default_country_code"); ok {
		set.CountryCode = cc
	}
	if tz, ok := firstString(raw, "timezone"); ok {
		set.Timezone = tz
	}
	if b, ok := firstPresent(raw, "time", "include_time").(bool); ok {
		set.IncludeTime = b
	}
	if boards, ok := firstPresent(raw, "boardIds", "board_ids").([]any); ok {
		for _, b := range boards {
			if id, ok := asString(b); ok {
				set.AllowedBoards = append(set.AllowedBoards, id)
			}
		}
	}

	return set
}

// LabelIndex finds the settings key whose label equals value exactly.
// Matching is case-sensitive; "done" does not find "Done".
func (s *Settings) LabelIndex(value string) (string, bool) {
	if s == nil {
		return "", false
	}
	for idx, label := range s.Labels {
		if label == value {
			return idx, true
		}
	}
	return "", false
}

// LabelName resolves a settings key back to its label.
func (s *Settings) LabelName(idx string) (string, bool) {
	if s == nil {
		return "", false
	}
	label, ok := s.Labels[idx]
	return label, ok
}

// LabelNames lists all labels in sorted order for stable output.
func (s *Settings) LabelNames() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Labels))
	for _, label := range s.Labels {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Required reports whether the settings mark the column mandatory.
func (s *Settings) Required() bool {
	if s == nil {
		return false
	}
	b, _ := s.Raw["mandatory"].(bool)
	return b
}

func maxRating(set *Settings) int {
	if set != nil && set.MaxRating > 0 {
		return set.MaxRating
	}
	return 5
}

func maxDependencies(set *Settings) int {
	if set != nil && set.MaxDependencies > 0 {
		return set.MaxDependencies
	}
	return 50
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
