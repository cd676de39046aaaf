package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"monday-mcp/internal/board"
	"monday-mcp/internal/cache"
	"monday-mcp/internal/logger"
	"monday-mcp/internal/monday"
)

const boardJSON = `{
  "boards": [{
    "id": "123",
    "name": "Sprint Tasks",
    "board_kind": "public",
    "groups": [{"id": "g1", "title": "Backlog"}],
    "columns": [
      {"id": "name", "title": "Name", "type": "name"},
      {"id": "status", "title": "Status", "type": "status",
       "settings_str": "{\"labels\":{\"0\":\"Working on it\",\"1\":\"Done\"}}"},
      {"id": "date4", "title": "Due Date", "type": "date"}
    ]
  }]
}`

const itemsJSON = `{
  "boards": [{
    "id": "123",
    "items_page": {
      "items": [
        {"id": "1", "name": "Fix login", "group": {"id": "g1", "title": "Backlog"},
         "column_values": [{"id": "status", "text": "Done", "value": "{\"index\":1}"}]}
      ]
    }
  }]
}`

type fakeQuerier struct {
	mu      sync.Mutex
	respond func(op string, vars map[string]any) (json.RawMessage, error)
}

func (q *fakeQuerier) Execute(ctx context.Context, operation, query string, variables map[string]any) (json.RawMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.respond(operation, variables)
}

func respondReads(op string, vars map[string]any) (json.RawMessage, error) {
	switch op {
	case "board_schema", "board_schema_minimal", "board_metadata", "board_metadata_minimal":
		return json.RawMessage(boardJSON), nil
	case "board_items", "board_items_minimal":
		return json.RawMessage(itemsJSON), nil
	case "item_by_id":
		if vars["itemID"].([]string)[0] == "1" {
			return json.RawMessage(`{"items": [{"id": "1", "name": "Fix login",
				"column_values": [{"id": "status", "text": "Done", "value": "{\"index\":1}"}]}]}`), nil
		}
		return json.RawMessage(`{"items": []}`), nil
	}
	return nil, fmt.Errorf("unexpected operation %s", op)
}

func newHandler(respond func(op string, vars map[string]any) (json.RawMessage, error)) *Handler {
	if respond == nil {
		respond = respondReads
	}
	svc := board.NewService(&fakeQuerier{respond: respond}, cache.New(), "123", logger.Nop())
	return NewHandler(svc, logger.Nop())
}

func readResource(t *testing.T, handle func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	contents, err := handle(context.Background(), req)
	if err != nil {
		t.Fatalf("resource read failed: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected text contents, got %T", contents[0])
	}
	if tc.URI != uri {
		t.Errorf("content URI = %q, want %q", tc.URI, uri)
	}
	return tc
}

func TestHandleSchema(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleSchema, "monday://board/schema")

	if tc.MIMEType != "application/json" {
		t.Errorf("MIME type = %q", tc.MIMEType)
	}
	var sch board.Schema
	if err := json.Unmarshal([]byte(tc.Text), &sch); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if sch.Board.Name != "Sprint Tasks" {
		t.Errorf("board name = %q", sch.Board.Name)
	}
	if len(sch.Columns) != 3 {
		t.Errorf("columns = %d, want 3", len(sch.Columns))
	}
}

func TestHandleSchema_UpstreamError(t *testing.T) {
	h := newHandler(func(op string, vars map[string]any) (json.RawMessage, error) {
		return nil, &monday.Error{Category: monday.CategoryAuth, Operation: op, Message: "invalid token"}
	})
	tc := readResource(t, h.HandleSchema, "monday://board/schema")

	if tc.MIMEType != "text/plain" {
		t.Errorf("errors should be text/plain, got %q", tc.MIMEType)
	}
	if !strings.HasPrefix(tc.Text, "Error: ") {
		t.Errorf("error text should be prefixed: %s", tc.Text)
	}
	if !strings.Contains(tc.Text, "invalid token") {
		t.Errorf("error text should carry the cause: %s", tc.Text)
	}
}

func TestHandleColumns(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleColumns, "monday://board/columns")

	var cols []board.Column
	if err := json.Unmarshal([]byte(tc.Text), &cols); err != nil {
		t.Fatalf("columns are not valid JSON: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("columns = %d, want 3", len(cols))
	}
	if cols[1].ID != "status" || cols[1].Type != "status" {
		t.Errorf("unexpected column: %+v", cols[1])
	}
}

func TestHandleColumn_ByID(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleColumn, "monday://board/columns/status")

	var col board.Column
	if err := json.Unmarshal([]byte(tc.Text), &col); err != nil {
		t.Fatalf("column is not valid JSON: %v", err)
	}
	if col.Title != "Status" {
		t.Errorf("title = %q", col.Title)
	}
	if col.Rules["allowed_values"] == nil {
		t.Error("column detail should include validation rules")
	}
}

func TestHandleColumn_ByTitle(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleColumn, "monday://board/columns/Due Date")

	var col board.Column
	if err := json.Unmarshal([]byte(tc.Text), &col); err != nil {
		t.Fatalf("column is not valid JSON: %v", err)
	}
	if col.ID != "date4" {
		t.Errorf("id = %q, want date4", col.ID)
	}
}

func TestHandleColumn_Unknown(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleColumn, "monday://board/columns/bogus")

	if tc.MIMEType != "text/plain" {
		t.Errorf("unknown column should be a text error, got %q", tc.MIMEType)
	}
	if !strings.Contains(tc.Text, `"bogus" not found`) {
		t.Errorf("error should name the column: %s", tc.Text)
	}
	if !strings.Contains(tc.Text, "status") || !strings.Contains(tc.Text, "date4") {
		t.Errorf("error should list the known column ids: %s", tc.Text)
	}
}

func TestHandleItems(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleItems, "monday://board/items")

	var items []board.Item
	if err := json.Unmarshal([]byte(tc.Text), &items); err != nil {
		t.Fatalf("items are not valid JSON: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Fix login" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestHandleItem(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleItem, "monday://board/item/1")

	var item board.Item
	if err := json.Unmarshal([]byte(tc.Text), &item); err != nil {
		t.Fatalf("item is not valid JSON: %v", err)
	}
	if item.ID != "1" || item.Name != "Fix login" {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestHandleItem_Unknown(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleItem, "monday://board/item/404")

	if tc.MIMEType != "text/plain" {
		t.Errorf("unknown item should be a text error, got %q", tc.MIMEType)
	}
	if !strings.Contains(tc.Text, "not found") {
		t.Errorf("error should say not found: %s", tc.Text)
	}
}

func TestHandleMetadata(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleMetadata, "monday://board/metadata")

	var md board.Metadata
	if err := json.Unmarshal([]byte(tc.Text), &md); err != nil {
		t.Fatalf("metadata is not valid JSON: %v", err)
	}
	if md.Board.Name != "Sprint Tasks" {
		t.Errorf("board name = %q", md.Board.Name)
	}
}

func TestHandleColumnTypes(t *testing.T) {
	h := newHandler(nil)
	tc := readResource(t, h.HandleColumnTypes, "monday://board/column_types")

	var catalog board.ColumnTypeCatalog
	if err := json.Unmarshal([]byte(tc.Text), &catalog); err != nil {
		t.Fatalf("catalog is not valid JSON: %v", err)
	}
	if len(catalog.RegisteredTypes) != 34 {
		t.Errorf("registered types = %d, want 34", len(catalog.RegisteredTypes))
	}
	if len(catalog.Columns) != 3 {
		t.Errorf("catalog columns = %d, want 3", len(catalog.Columns))
	}
}
