package columns

// Rules builds the validation-rules map surfaced for one column by the
// schema and column_types resources, so agents see the constraints before
// they attempt a write.
func Rules(t Type, set *Settings) map[string]any {
	rules := map[string]any{
		"type":     string(t),
		"required": set.Required(),
	}

	switch t {
	case TypeStatus, TypeDropdown:
		rules["allowed_values"] = set.LabelNames()
	case TypeDate:
		rules["format"] = "ISO8601"
		rules["includes_time"] = set != nil && set.IncludeTime
		if set != nil && set.Timezone != "" {
			rules["timezone"] = set.Timezone
		}
	case TypeTimeline:
		rules["format"] = "ISO8601"
	case TypeRating:
		rules["min"] = 0
		rules["max"] = maxRating(set)
	case TypeProgress:
		rules["min"] = 0
		rules["max"] = 100
	case TypeWeek:
		rules["week_range"] = []int{1, 53}
		rules["min_year"] = 1900
	case TypeCheckbox:
		rules["values"] = []string{"true", "false", "1", "0", "yes", "no"}
	case TypePhone:
		rules["format"] = "digits with optional leading +"
	case TypeEmail:
		rules["format"] = "address@domain"
	case TypeHour:
		rules["format"] = "HH:MM"
	case TypeCountry:
		rules["format"] = "two-letter code"
	case TypeFormula:
		rules["read_only"] = true
	case TypeTimeTracking:
		rules["statuses"] = timeTrackingStatuses
	case TypeMirror:
		rules["mirror_types"] = mirrorTypes
	case TypeDependency:
		rules["max_dependencies"] = maxDependencies(set)
	default:
		if !Known(t) {
			rules["strict"] = false
		}
	}
	return rules
}
