package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/logger"
)

// SearchTool handles the search_board_items MCP tool.
type SearchTool struct {
	svc *board.Service
	log *logger.Logger
}

// NewSearchTool creates a SearchTool backed by the given service.
func NewSearchTool(svc *board.Service, log *logger.Logger) *SearchTool {
	return &SearchTool{svc: svc, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_board_items",
		mcp.WithDescription(
			"Search board items by a column value. `field` accepts a column id, "+
				"a column title, or \"name\" to match against item names. "+
				"Enum-like columns (status, dropdown, checkbox, country and "+
				"similar) match exactly and case-sensitively; free-text columns "+
				"match as a case-insensitive substring.",
		),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("Column id, column title, or \"name\"."),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("The value to look for."),
		),
	)
}

type searchResult struct {
	Success      bool         `json:"success"`
	MatchesFound int          `json:"matches_found"`
	Items        []searchItem `json:"items"`
}

type searchItem struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Group        string        `json:"group,omitempty"`
	ColumnValues []searchValue `json:"column_values"`
}

type searchValue struct {
	ColumnID string `json:"column_id"`
	Title    string `json:"title,omitempty"`
	Value    any    `json:"value"`
}

// Handle processes the search_board_items tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := requestLogger(t.log, "search_board_items")

	field, err := req.RequireString("field")
	if err != nil {
		return missingArg("field", err)
	}
	value, err := req.RequireString("value")
	if err != nil {
		return missingArg("value", err)
	}

	items, err := t.svc.Search(ctx, field, value)
	if err != nil {
		log.Warn("search failed", zap.String("field", field), zap.Error(err))
		return errorResult(err)
	}

	result := searchResult{
		Success:      true,
		MatchesFound: len(items),
		Items:        make([]searchItem, 0, len(items)),
	}
	for _, it := range items {
		si := searchItem{ID: it.ID, Name: it.Name, Group: it.GroupTitle}
		for _, cv := range it.ColumnValues {
			if cv.Text == "" && cv.Value == nil {
				continue
			}
			v := cv.Value
			if v == nil {
				v = cv.Text
			}
			si.ColumnValues = append(si.ColumnValues, searchValue{
				ColumnID: cv.ID,
				Title:    cv.Title,
				Value:    v,
			})
		}
		result.Items = append(result.Items, si)
	}

	log.Info("search served",
		zap.String("field", field),
		zap.Int("matches", len(items)),
	)
	return jsonResult(result)
}
