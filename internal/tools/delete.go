package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/logger"
)

// DeleteTool handles the delete_board_items MCP tool. Matching items are
// deleted one by one; a failure on one item never stops the rest, and the
// result reports both halves.
type DeleteTool struct {
	svc *board.Service
	log *logger.Logger
}

// NewDeleteTool creates a DeleteTool backed by the given service.
func NewDeleteTool(svc *board.Service, log *logger.Logger) *DeleteTool {
	return &DeleteTool{svc: svc, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("delete_board_items",
		mcp.WithDescription(
			"Delete every item whose column matches a value. The match rules "+
				"are the same as search_board_items. Items are deleted "+
				"individually, so some can succeed while others fail; the "+
				"result lists both the deleted ids and the per-item errors.",
		),
		mcp.WithString("field",
			mcp.Required(),
			mcp.Description("Column id, column title, or \"name\"."),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("The value matching items must have."),
		),
	)
}

type deleteResult struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	DeletedCount int      `json:"deleted_count"`
	DeletedItems []string `json:"deleted_items,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// Handle processes the delete_board_items tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := requestLogger(t.log, "delete_board_items")

	field, err := req.RequireString("field")
	if err != nil {
		return missingArg("field", err)
	}
	value, err := req.RequireString("value")
	if err != nil {
		return missingArg("value", err)
	}

	report, err := t.svc.Delete(ctx, field, value)
	if err != nil {
		log.Warn("delete failed", zap.String("field", field), zap.Error(err))
		return errorResult(err)
	}

	if report.Matched == 0 {
		log.Info("nothing to delete", zap.String("field", field), zap.String("value", value))
		return jsonResult(deleteResult{
			Success: false,
			Message: "No items found to delete",
		})
	}

	result := deleteResult{
		Success:      report.Success(),
		Message:      fmt.Sprintf("Deleted %d of %d items", report.DeletedCount(), report.Matched),
		DeletedCount: report.DeletedCount(),
		DeletedItems: report.Deleted,
	}
	for _, f := range report.Failed {
		result.Errors = append(result.Errors, fmt.Sprintf("Error deleting item %s: %s", f.ItemID, f.Error))
	}

	log.Info("delete finished",
		zap.Int("matched", report.Matched),
		zap.Int("deleted", report.DeletedCount()),
		zap.Int("failed", len(report.Failed)),
	)
	return jsonResult(result)
}
