package board

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"monday-mcp/internal/columns"
	"monday-mcp/internal/monday"
)

// exactMatchTypes are column types whose search compares whole display
// values. Everything else matches on substring, case-insensitively.
var exactMatchTypes = map[columns.Type]bool{
	columns.TypeStatus:   true,
	columns.TypeDropdown: true,
	columns.TypeCheckbox: true,
	columns.TypeCountry:  true,
	columns.TypeItemID:   true,
	columns.TypeNumeric:  true,
	columns.TypeDate:     true,
	columns.TypeRating:   true,
	columns.TypeWeek:     true,
	columns.TypeHour:     true,
}

// Search finds items whose field matches value. Fields resolve by column
// id first, then by title ignoring case; "name" matches the item name.
// Exact-match column types search server-side first because the API
// filter compares whole display values; free-text types scan the cached
// list directly.
func (s *Service) Search(ctx context.Context, field, value string) ([]Item, error) {
	field = strings.TrimSpace(field)
	if strings.EqualFold(field, "name") {
		return s.searchLocal(ctx, nil, value)
	}

	sch, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	col, ok := sch.ResolveColumn(field)
	if !ok {
		return nil, &NotFoundError{Kind: "field", Name: field, Known: sch.FieldNames()}
	}

	if exactMatchTypes[columns.Type(col.Type)] {
		items, err := s.searchUpstream(ctx, col, value)
		if err == nil {
			return items, nil
		}
		if !retryable(err) {
			return nil, err
		}
		s.log.Warn("server-side search failed, scanning locally",
			zap.String("column", col.ID),
			zap.Error(err),
		)
	}
	return s.searchLocal(ctx, col, value)
}

func (s *Service) searchUpstream(ctx context.Context, col *Column, value string) ([]Item, error) {
	data, err := s.q.Execute(ctx, "items_by_column_value", monday.QueryItemsByColumnValue, map[string]any{
		"boardID":  s.boardID,
		"columnID": col.ID,
		"value":    value,
		"limit":    s.maxItems,
	})
	if err != nil {
		return nil, err
	}
	page, err := monday.DecodeItemsPageByColumn(data)
	if err != nil {
		return nil, err
	}

	sch := s.schemaForDecoding(ctx)
	items := make([]Item, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, newItem(sch, it))
	}
	return items, nil
}

// searchLocal scans the cached item list. A nil column matches against the
// item name.
func (s *Service) searchLocal(ctx context.Context, col *Column, value string) ([]Item, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	matched := []Item{}
	for _, item := range items {
		if matchesItem(item, col, value) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func matchesItem(item Item, col *Column, value string) bool {
	if col == nil {
		return containsFold(item.Name, value)
	}
	for _, cv := range item.ColumnValues {
		if cv.ID == col.ID {
			return valueMatches(columns.Type(col.Type), cv, value)
		}
	}
	return false
}

// valueMatches compares a cell against the query: whole-value equality for
// enumerated and scalar types, substring for free text.
func valueMatches(t columns.Type, cv ColumnValue, value string) bool {
	if exactMatchTypes[t] {
		if cv.Text == value {
			return true
		}
		s, ok := cv.Value.(string)
		return ok && s == value
	}
	if containsFold(cv.Text, value) {
		return true
	}
	s, ok := cv.Value.(string)
	return ok && containsFold(s, value)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
