// Package tools implements the MCP tool handlers for the board.
//
// Each tool is a struct holding its dependencies, with a Definition for
// registration and a Handle compatible with mcp-go's CallToolRequest
// signature. Domain failures never become Go errors: invalid values,
// unknown fields, and upstream trouble all come back as structured
// error results the calling model can read and correct.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/logger"
	"monday-mcp/internal/monday"
)

// jsonResult marshals v indented and wraps it as a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorPayload is the envelope every failed tool call returns.
type errorPayload struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
	Message string    `json:"message"`
}

type errorBody struct {
	Type        string   `json:"type"`
	Column      string   `json:"column,omitempty"`
	Title       string   `json:"title,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Kind        string   `json:"kind,omitempty"`
	Name        string   `json:"name,omitempty"`
	Known       []string `json:"known,omitempty"`
	Category    string   `json:"category,omitempty"`
	Operation   string   `json:"operation,omitempty"`
}

// errorResult renders err as a structured tool error. The MCP call itself
// still succeeds; the caller reads the payload and fixes its next request.
func errorResult(err error) (*mcp.CallToolResult, error) {
	payload := errorPayload{Message: err.Error()}

	var ve *board.ValidationError
	var nf *board.NotFoundError
	var ue *monday.Error
	switch {
	case errors.As(err, &ve):
		payload.Error = errorBody{
			Type:        "validation_error",
			Column:      ve.Column,
			Title:       ve.Title,
			Reason:      ve.Reason,
			Suggestions: ve.Suggestions,
		}
	case errors.As(err, &nf):
		payload.Error = errorBody{
			Type:  "not_found",
			Kind:  nf.Kind,
			Name:  nf.Name,
			Known: nf.Known,
		}
	case errors.As(err, &ue):
		payload.Error = errorBody{
			Type:      "upstream_error",
			Category:  string(ue.Category),
			Operation: ue.Operation,
			Reason:    ue.Message,
		}
	default:
		payload.Error = errorBody{Type: "internal_error", Reason: err.Error()}
	}

	data, mErr := json.MarshalIndent(payload, "", "  ")
	if mErr != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultError(string(data)), nil
}

// missingArg wraps a rejected required argument as a validation failure
// so it rides the same envelope as column validation.
func missingArg(name string, err error) (*mcp.CallToolResult, error) {
	return errorResult(&board.ValidationError{Column: name, Reason: err.Error()})
}

// requestLogger tags the shared logger with the tool name and a fresh
// request id so one call's lines can be grepped together.
func requestLogger(log *logger.Logger, tool string) *logger.Logger {
	return log.WithFields(
		zap.String("tool", tool),
		zap.String("request_id", uuid.NewString()),
	)
}
