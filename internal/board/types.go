// Package board implements the board-scoped operations behind the MCP
// surface: schema and item reads, search, and validated writes. All
// operations are bound to the one board the server was configured with.
package board

import (
	"context"
	"encoding/json"
	"strings"

	"monday-mcp/internal/columns"
)

// Querier is the slice of the monday client the service needs.
type Querier interface {
	Execute(ctx context.Context, operation, query string, variables map[string]any) (json.RawMessage, error)
}

// BoardInfo carries the board header fields shared by schema and metadata.
type BoardInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind,omitempty"`
	State       string `json:"state,omitempty"`
	Description string `json:"description,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	Permissions string `json:"permissions,omitempty"`
}

// Column is a schema column joined with the validation rules derived from
// its type and settings.
type Column struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Width       *int           `json:"width,omitempty"`
	Archived    bool           `json:"archived,omitempty"`
	Rules       map[string]any `json:"validation_rules"`

	settings *columns.Settings
}

// ParsedSettings returns the decoded settings_str for this column.
func (c *Column) ParsedSettings() *columns.Settings {
	if c.settings == nil {
		c.settings = columns.ParseSettings("")
	}
	return c.settings
}

type Group struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Schema is the board's full shape: header, groups, tags, owner, columns.
type Schema struct {
	Board   BoardInfo `json:"board"`
	Groups  []Group   `json:"groups"`
	Tags    []Tag     `json:"tags,omitempty"`
	Owner   *Person   `json:"owner,omitempty"`
	Columns []Column  `json:"columns"`
}

// ResolveColumn finds a column by id, or by title ignoring case. Ids win
// over titles so a title that shadows another column's id stays reachable.
func (s *Schema) ResolveColumn(field string) (*Column, bool) {
	for i := range s.Columns {
		if s.Columns[i].ID == field {
			return &s.Columns[i], true
		}
	}
	for i := range s.Columns {
		if strings.EqualFold(s.Columns[i].Title, field) {
			return &s.Columns[i], true
		}
	}
	return nil, false
}

func (s *Schema) columnByID(id string) (*Column, bool) {
	for i := range s.Columns {
		if s.Columns[i].ID == id {
			return &s.Columns[i], true
		}
	}
	return nil, false
}

// FieldNames lists the searchable fields: the item name plus every column
// id and title.
func (s *Schema) FieldNames() []string {
	names := []string{"name"}
	for _, c := range s.Columns {
		names = append(names, c.ID)
		if c.Title != "" && !strings.EqualFold(c.Title, c.ID) {
			names = append(names, c.Title)
		}
	}
	return names
}

func (s *Schema) knownGroup(groupID string) bool {
	for _, g := range s.Groups {
		if g.ID == groupID {
			return true
		}
	}
	return false
}

func (s *Schema) groupIDs() []string {
	ids := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

// Metadata is the extended board context behind the metadata resource.
type Metadata struct {
	Board       BoardInfo  `json:"board"`
	Workspace   *Workspace `json:"workspace,omitempty"`
	Owner       *Person    `json:"owner,omitempty"`
	Subscribers []Person   `json:"subscribers,omitempty"`
	Updates     []Update   `json:"updates,omitempty"`
	Views       []View     `json:"views,omitempty"`
}

type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

type Update struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	Creator   string `json:"creator,omitempty"`
}

type View struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ColumnValue is one cell: the display text monday renders plus the
// logical value decoded through the column's handler.
type ColumnValue struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
	Text  string `json:"text"`
	Value any    `json:"value,omitempty"`
}

type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	GroupID      string        `json:"group_id,omitempty"`
	GroupTitle   string        `json:"group_title,omitempty"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// BoardSummary heads the combined payload.
type BoardSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ColumnsCount int    `json:"columns_count"`
	ItemsCount   int    `json:"items_count"`
}

// BoardData is the combined schema-plus-items payload behind
// get_board_data.
type BoardData struct {
	Board   BoardSummary `json:"board"`
	Columns []Column     `json:"columns"`
	Items   []Item       `json:"items"`
}

// ColumnTypeCatalog joins the registered type tags with this board's
// columns and their rules.
type ColumnTypeCatalog struct {
	RegisteredTypes []string         `json:"registered_types"`
	Columns         []ColumnTypeInfo `json:"columns"`
}

type ColumnTypeInfo struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Type  string         `json:"type"`
	Known bool           `json:"known"`
	Rules map[string]any `json:"validation_rules"`
}

// CreateReceipt reports a successful item creation.
type CreateReceipt struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	BoardID  string   `json:"board_id"`
	GroupID  string   `json:"group_id,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// UpdateReceipt reports a successful column update.
type UpdateReceipt struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	BoardID  string   `json:"board_id"`
	Warnings []string `json:"warnings,omitempty"`
}

// DeleteFailure is one item that could not be deleted.
type DeleteFailure struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// DeleteReport carries the per-item outcomes of a batch delete. A partial
// failure is still a success as long as something was deleted.
type DeleteReport struct {
	Matched int             `json:"matched"`
	Deleted []string        `json:"deleted"`
	Failed  []DeleteFailure `json:"failed,omitempty"`
}

func (r *DeleteReport) DeletedCount() int {
	return len(r.Deleted)
}

// Success reports whether at least one matched item was deleted.
func (r *DeleteReport) Success() bool {
	return len(r.Deleted) > 0
}
