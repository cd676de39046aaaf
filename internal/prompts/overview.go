// Package prompts implements the MCP prompt handlers for the board.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// OverviewPrompt handles the board-overview MCP prompt. It asks the AI
// to read the board and summarize its state.
type OverviewPrompt struct{}

// NewOverviewPrompt creates an OverviewPrompt.
func NewOverviewPrompt() *OverviewPrompt {
	return &OverviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *OverviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("board-overview",
		mcp.WithPromptDescription(
			"Summarize the monday.com board: its columns, groups, and what "+
				"the items currently look like. Useful as a first step before "+
				"asking for changes.",
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription(
				"Optional angle for the summary, e.g. 'overdue items' or 'what is stuck'.",
			),
		),
	)
}

// Handle processes the board-overview prompt request.
func (p *OverviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := ""
	if args := req.Params.Arguments; args != nil {
		focus = args["focus"]
	}

	instructions := "Please give me an overview of my monday.com board.\n\n" +
		"1. Call `get_board_data` to load the board.\n" +
		"2. Summarize the board: how many items there are, which groups and " +
		"columns exist, and anything notable about the current values.\n" +
		"3. Point out columns with strict validation rules (status labels, " +
		"date formats) so I know what values future updates must use."
	if focus != "" {
		instructions += fmt.Sprintf("\n\nPay particular attention to: %s.", focus)
	}

	return &mcp.GetPromptResult{
		Description: "Summarize the board's current state",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(instructions),
			},
		},
	}, nil
}
