package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/logger"
)

// UpdateTool handles the update_board_item MCP tool.
type UpdateTool struct {
	svc *board.Service
	log *logger.Logger
}

// NewUpdateTool creates an UpdateTool backed by the given service.
func NewUpdateTool(svc *board.Service, log *logger.Logger) *UpdateTool {
	return &UpdateTool{svc: svc, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("update_board_item",
		mcp.WithDescription(
			"Update column values of an existing item. Only the named columns "+
				"change; the rest keep their values. All values are validated "+
				"against the board schema first, and an invalid one aborts the "+
				"whole update with a structured explanation.",
		),
		mcp.WithString("item_id",
			mcp.Required(),
			mcp.Description("ID of the item to update."),
		),
		mcp.WithObject("column_values",
			mcp.Required(),
			mcp.Description(
				"Map of column id or title to new value, "+
					`e.g. {"status": "Stuck", "Notes": "waiting on review"}.`,
			),
		),
	)
}

type updateResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Item    *board.UpdateReceipt `json:"item"`
}

// Handle processes the update_board_item tool call.
func (t *UpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := requestLogger(t.log, "update_board_item")

	itemID, err := req.RequireString("item_id")
	if err != nil {
		return missingArg("item_id", err)
	}

	raw, ok := req.GetArguments()["column_values"]
	if !ok || raw == nil {
		return errorResult(&board.ValidationError{
			Column: "column_values",
			Reason: "column_values is required",
		})
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return errorResult(&board.ValidationError{
			Column: "column_values",
			Value:  raw,
			Reason: "column_values must be an object mapping column ids to values",
		})
	}

	receipt, err := t.svc.Update(ctx, itemID, values)
	if err != nil {
		log.Warn("update rejected", zap.String("item_id", itemID), zap.Error(err))
		return errorResult(err)
	}

	log.Info("item updated", zap.String("item_id", receipt.ID))
	return jsonResult(updateResult{
		Success: true,
		Message: "Item updated successfully",
		Item:    receipt,
	})
}
