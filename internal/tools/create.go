package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/logger"
)

// CreateTool handles the create_board_item MCP tool.
type CreateTool struct {
	svc *board.Service
	log *logger.Logger
}

// NewCreateTool creates a CreateTool backed by the given service.
func NewCreateTool(svc *board.Service, log *logger.Logger) *CreateTool {
	return &CreateTool{svc: svc, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("create_board_item",
		mcp.WithDescription(
			"Create a new item on the board. Every column value is validated "+
				"against the board schema before anything is sent; when one is "+
				"invalid, nothing is written and the result names the offending "+
				"column, explains the problem, and suggests close label matches.",
		),
		mcp.WithString("item_name",
			mcp.Required(),
			mcp.Description("Name of the new item."),
		),
		mcp.WithObject("column_values",
			mcp.Description(
				"Map of column id or title to value, "+
					`e.g. {"status": "Done", "due_date": "2025-03-09"}.`,
			),
		),
		mcp.WithString("group_id",
			mcp.Description("Group to create the item in. Defaults to the board's first group."),
		),
	)
}

type createResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Item    *board.CreateReceipt `json:"item"`
}

// Handle processes the create_board_item tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := requestLogger(t.log, "create_board_item")

	name, err := req.RequireString("item_name")
	if err != nil {
		return missingArg("item_name", err)
	}
	groupID := req.GetString("group_id", "")

	var values map[string]any
	if raw, ok := req.GetArguments()["column_values"]; ok && raw != nil {
		values, ok = raw.(map[string]any)
		if !ok {
			return errorResult(&board.ValidationError{
				Column: "column_values",
				Value:  raw,
				Reason: "column_values must be an object mapping column ids to values",
			})
		}
	}

	receipt, err := t.svc.Create(ctx, name, values, groupID)
	if err != nil {
		log.Warn("create rejected", zap.Error(err))
		return errorResult(err)
	}

	log.Info("item created", zap.String("item_id", receipt.ID))
	return jsonResult(createResult{
		Success: true,
		Message: "Item created successfully",
		Item:    receipt,
	})
}
