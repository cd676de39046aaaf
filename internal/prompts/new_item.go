package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewItemPrompt handles the new-item MCP prompt. It walks the AI through
// creating an item with values that pass column validation.
type NewItemPrompt struct{}

// NewNewItemPrompt creates a NewItemPrompt.
func NewNewItemPrompt() *NewItemPrompt {
	return &NewItemPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *NewItemPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("new-item",
		mcp.WithPromptDescription(
			"Create a new item on the board, checking the column rules first "+
				"so the values are accepted on the first try.",
		),
		mcp.WithArgument("item_name",
			mcp.ArgumentDescription("Name for the new item."),
		),
	)
}

// Handle processes the new-item prompt request.
func (p *NewItemPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	itemName := "a new item"
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["item_name"]; ok && name != "" {
			itemName = fmt.Sprintf("an item called '%s'", name)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Create a board item with validated values",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to add %s to my monday.com board.\n\n"+
						"Please:\n"+
						"1. Call `get_board_data` to see the columns and their validation rules.\n"+
						"2. Ask me which column values to set, showing me the allowed "+
						"options for status and dropdown columns.\n"+
						"3. Call `create_board_item` with the values. If validation fails, "+
						"read the suggestions in the error and correct the values instead "+
						"of asking me again.",
					itemName,
				)),
			},
		},
	}, nil
}
