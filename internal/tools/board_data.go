package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/logger"
)

// BoardDataTool handles the get_board_data MCP tool. It returns the full
// board in one payload: summary, columns with their validation rules, and
// every item with decoded column values.
type BoardDataTool struct {
	svc *board.Service
	log *logger.Logger
}

// NewBoardDataTool creates a BoardDataTool backed by the given service.
func NewBoardDataTool(svc *board.Service, log *logger.Logger) *BoardDataTool {
	return &BoardDataTool{svc: svc, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *BoardDataTool) Definition() mcp.Tool {
	return mcp.NewTool("get_board_data",
		mcp.WithDescription(
			"Get the complete board: its name, all columns with their types and "+
				"validation rules, and all items with their current values. "+
				"Call this first to learn which columns exist and what values "+
				"they accept before creating or updating items.",
		),
	)
}

// Handle processes the get_board_data tool call.
func (t *BoardDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := requestLogger(t.log, "get_board_data")

	data, err := t.svc.Combined(ctx)
	if err != nil {
		log.Error("board read failed", zap.Error(err))
		return errorResult(err)
	}

	log.Info("board data served",
		zap.Int("columns", len(data.Columns)),
		zap.Int("items", len(data.Items)),
	)
	return jsonResult(data)
}
