package board

import (
	"fmt"
	"strings"
)

// ValidationError rejects a write before anything reaches the API. It
// names the column, the offending value, and how to fix it.
type ValidationError struct {
	Column      string   `json:"column"`
	Title       string   `json:"title,omitempty"`
	Value       any      `json:"value"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for column %q: %s", e.Column, e.Reason)
}

// NotFoundError reports an unknown field, column, group, or item together
// with the alternatives the caller could have meant.
type NotFoundError struct {
	Kind  string   `json:"kind"`
	Name  string   `json:"name"`
	Known []string `json:"known,omitempty"`
}

func (e *NotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q not found; known %ss: %s", e.Kind, e.Name, e.Kind, strings.Join(e.Known, ", "))
}
