package monday

import (
	"encoding/json"
	"fmt"
)

// Wire types for GraphQL payloads. Numeric ids decode as json.Number so they
// survive re-encoding untouched.

type Board struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	BoardKind     string      `json:"board_kind,omitempty"`
	BoardFolderID json.Number `json:"board_folder_id,omitempty"`
	Description   string      `json:"description,omitempty"`
	State         string      `json:"state,omitempty"`
	WorkspaceID   json.Number `json:"workspace_id,omitempty"`
	Permissions   string      `json:"permissions,omitempty"`
	Columns       []Column    `json:"columns,omitempty"`
	Groups        []Group     `json:"groups,omitempty"`
	Tags          []Tag       `json:"tags,omitempty"`
	Owner         *User       `json:"owner,omitempty"`
	Workspace     *Workspace  `json:"workspace,omitempty"`
	Subscribers   []User      `json:"subscribers,omitempty"`
	Updates       []Update    `json:"updates,omitempty"`
	Views         []View      `json:"views,omitempty"`
	ItemsPage     *ItemsPage  `json:"items_page,omitempty"`
}

type Column struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	SettingsStr string `json:"settings_str,omitempty"`
	Width       *int   `json:"width,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
	Description string `json:"description,omitempty"`
}

type Group struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Color    string `json:"color,omitempty"`
	Position string `json:"position,omitempty"`
}

type Tag struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Color string      `json:"color,omitempty"`
}

type User struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email,omitempty"`
}

type Workspace struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Kind string      `json:"kind,omitempty"`
}

type Update struct {
	ID        json.Number `json:"id"`
	Body      string      `json:"body"`
	CreatedAt string      `json:"created_at"`
	Creator   *User       `json:"creator,omitempty"`
}

type View struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	SettingsStr string      `json:"settings_str,omitempty"`
}

type ColumnValue struct {
	ID    string          `json:"id"`
	Text  string          `json:"text"`
	Type  string          `json:"type,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Group        *Group        `json:"group,omitempty"`
	ColumnValues []ColumnValue `json:"column_values,omitempty"`
}

type ItemsPage struct {
	Cursor string `json:"cursor,omitempty"`
	Items  []Item `json:"items"`
}

// DecodeBoards unpacks a boards(...) query payload.
func DecodeBoards(data json.RawMessage) ([]Board, error) {
	var out struct {
		Boards []Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding boards payload: %w", err)
	}
	return out.Boards, nil
}

// FirstBoard returns the single board of a boards(...) payload. An empty
// list means the board id is wrong or the token cannot see it.
func FirstBoard(data json.RawMessage) (*Board, error) {
	boards, err := DecodeBoards(data)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, &Error{Category: CategoryNotFound, Message: "board not returned; check the board id and token access"}
	}
	return &boards[0], nil
}

// DecodeItems unpacks an items(ids: ...) query payload.
func DecodeItems(data json.RawMessage) ([]Item, error) {
	var out struct {
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding items payload: %w", err)
	}
	return out.Items, nil
}

// DecodeItemsPageByColumn unpacks an items_page_by_column_values payload.
func DecodeItemsPageByColumn(data json.RawMessage) (*ItemsPage, error) {
	var out struct {
		Page ItemsPage `json:"items_page_by_column_values"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding column search payload: %w", err)
	}
	return &out.Page, nil
}

// DecodeCreateItem unpacks a create_item mutation payload.
func DecodeCreateItem(data json.RawMessage) (*Item, error) {
	var out struct {
		Item *Item `json:"create_item"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding create_item payload: %w", err)
	}
	if out.Item == nil || out.Item.ID == "" {
		return nil, &Error{Category: CategoryTransport, Message: "create_item returned no item"}
	}
	return out.Item, nil
}

// DecodeChangeColumns unpacks a change_multiple_column_values payload.
func DecodeChangeColumns(data json.RawMessage) (*Item, error) {
	var out struct {
		Item *Item `json:"change_multiple_column_values"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding column change payload: %w", err)
	}
	if out.Item == nil || out.Item.ID == "" {
		return nil, &Error{Category: CategoryTransport, Message: "change_multiple_column_values returned no item"}
	}
	return out.Item, nil
}

// DecodeDeleteItem unpacks a delete_item mutation payload.
func DecodeDeleteItem(data json.RawMessage) (string, error) {
	var out struct {
		Deleted *struct {
			ID string `json:"id"`
		} `json:"delete_item"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decoding delete_item payload: %w", err)
	}
	if out.Deleted == nil {
		return "", &Error{Category: CategoryTransport, Message: "delete_item returned no item"}
	}
	return out.Deleted.ID, nil
}
