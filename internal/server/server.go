// Package server wires the MCP components and creates the server instance.
//
// This is the composition root: it builds the monday client, the cache,
// and the board service, then injects them into the tools, resources,
// and prompts. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/cache"
	"monday-mcp/internal/config"
	"monday-mcp/internal/logger"
	"monday-mcp/internal/monday"
	"monday-mcp/internal/prompts"
	"monday-mcp/internal/resources"
	"monday-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with every tool, resource,
// and prompt registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup drops the read cache and flushes buffered log
// output; call it on shutdown (typically via defer). It is always
// non-nil.
func New(cfg *config.Config, log *logger.Logger) (*server.MCPServer, func(), error) {
	if cfg == nil {
		return nil, noop, fmt.Errorf("config is required")
	}
	if log == nil {
		log = logger.Default()
	}

	// --- Create shared dependencies ---

	client := monday.NewClient(cfg.Monday.APIURL, cfg.Monday.APIKey, cfg.Monday.Timeout(), log)
	store := cache.New()
	svc := board.NewService(client, store, cfg.Monday.BoardID, log,
		board.WithMaxItems(cfg.Monday.MaxItems),
	)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"monday-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(cfg.Monday.BoardID)),
	)

	// --- Register tools ---

	boardData := tools.NewBoardDataTool(svc, log)
	s.AddTool(boardData.Definition(), boardData.Handle)

	search := tools.NewSearchTool(svc, log)
	s.AddTool(search.Definition(), search.Handle)

	create := tools.NewCreateTool(svc, log)
	s.AddTool(create.Definition(), create.Handle)

	update := tools.NewUpdateTool(svc, log)
	s.AddTool(update.Definition(), update.Handle)

	del := tools.NewDeleteTool(svc, log)
	s.AddTool(del.Definition(), del.Handle)

	// --- Register resources ---

	rh := resources.NewHandler(svc, log)
	s.AddResource(rh.SchemaResource(), rh.HandleSchema)
	s.AddResource(rh.ColumnsResource(), rh.HandleColumns)
	s.AddResource(rh.ItemsResource(), rh.HandleItems)
	s.AddResource(rh.MetadataResource(), rh.HandleMetadata)
	s.AddResource(rh.ColumnTypesResource(), rh.HandleColumnTypes)
	s.AddResourceTemplate(rh.ColumnTemplate(), rh.HandleColumn)
	s.AddResourceTemplate(rh.ItemTemplate(), rh.HandleItem)

	// --- Register prompts ---

	overview := prompts.NewOverviewPrompt()
	s.AddPrompt(overview.Definition(), overview.Handle)

	newItem := prompts.NewNewItemPrompt()
	s.AddPrompt(newItem.Definition(), newItem.Handle)

	cleanup := func() {
		store.InvalidateAll()
		_ = log.Sync()
	}

	log.Info("mcp server assembled",
		zap.String("board_id", cfg.Monday.BoardID),
		zap.String("transport", cfg.Server.Transport),
		zap.String("version", Version),
	)
	return s, cleanup, nil
}

// noop is the default cleanup when assembly fails before anything needs
// releasing.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to work with the board effectively.
func serverInstructions(boardID string) string {
	return fmt.Sprintf(`You manage a single monday.com board (board id %s) through this server.

## Workflow

1. ALWAYS call get_board_data before your first write. It returns every
   column with its type and validation_rules: status labels, date
   formats, rating bounds. Values you send are checked against these
   rules before anything reaches the board, so reading them first avoids
   a round of failed calls.
2. Columns can be named by id or by title in every tool; titles match
   case-insensitively.
3. Reads are cached for five minutes. A successful create, update, or
   delete clears the cache, so a read right after a write is fresh.

## Writing values

- status / dropdown: send the label text exactly as configured,
  matching case ("Done", not "done"). On a mismatch the error carries a
  suggestions array with close matches. Pick one and retry.
- date: ISO-8601, YYYY-MM-DD.
- timeline: an object with "from" and "to" dates, to not before from.
- checkbox: true or false (also accepts "yes"/"no"/1/0).
- email, phone, link, location, country, hour, week: check the column's
  validation_rules for the exact format.
- formula columns are computed and cannot be written.

One invalid value aborts the whole write. Nothing is changed until
every value passes.

## Searching and deleting

search_board_items and delete_board_items take a field (column id,
title, or "name") and a value. Enum-like columns match exactly and
case-sensitively; free-text columns match as a case-insensitive
substring. delete_board_items removes EVERY matching item and reports
per-item results, so check the errors array for partial failures.

## Resources and prompts

Read-only board data is also exposed as resources under monday://board/
(schema, columns, items, metadata, column_types, plus per-column and
per-item templates). The board-overview and new-item prompts walk
through the common flows.

## Errors

Failed tool calls return structured JSON with an error.type of
validation_error, not_found, or upstream_error. validation_error and
not_found are correctable: fix the named column or field and retry.
An upstream_error with category rate_limit is worth retrying after a
pause; auth and permission failures are not.`, boardID)
}
