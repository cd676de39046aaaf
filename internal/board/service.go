package board

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"monday-mcp/internal/cache"
	"monday-mcp/internal/columns"
	"monday-mcp/internal/logger"
	"monday-mcp/internal/monday"
)

const defaultMaxItems = 100

// Service orchestrates every board operation: reads go through the cache
// with a two-step query strategy, writes validate all column values
// locally before a mutation is sent.
type Service struct {
	q        Querier
	store    *cache.Store
	boardID  string
	maxItems int
	log      *logger.Logger
}

type Option func(*Service)

// WithMaxItems caps how many items one page read requests.
func WithMaxItems(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

func NewService(q Querier, store *cache.Store, boardID string, log *logger.Logger, opts ...Option) *Service {
	if store == nil {
		store = cache.New()
	}
	if log == nil {
		log = logger.Default()
	}
	s := &Service{
		q:        q,
		store:    store,
		boardID:  boardID,
		maxItems: defaultMaxItems,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BoardID returns the board this service is bound to.
func (s *Service) BoardID() string {
	return s.boardID
}

func (s *Service) schemaKey() string      { return "schema:" + s.boardID }
func (s *Service) metadataKey() string    { return "metadata:" + s.boardID }
func (s *Service) itemsKey() string       { return "items:" + s.boardID }
func (s *Service) columnTypesKey() string { return "column_types:" + s.boardID }

func itemKey(id string) string { return "item:" + id }

// readWithFallback runs the primary query and, when it fails with an error
// a simpler query could get past, runs the fallback exactly once. Auth and
// permission failures are final, so they skip the fallback. The fallback's
// own failure surfaces as the operation's error.
func (s *Service) readWithFallback(ctx context.Context, op string, primary, fallback func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	data, err := primary(ctx)
	if err == nil {
		return data, nil
	}
	if fallback == nil || !retryable(err) {
		return nil, err
	}
	s.log.Warn("primary query failed, trying fallback",
		zap.String("operation", op),
		zap.Error(err),
	)
	return fallback(ctx)
}

// retryable reports whether a simpler query could succeed where the first
// one failed.
func retryable(err error) bool {
	var apiErr *monday.Error
	if !errors.As(err, &apiErr) {
		return true
	}
	switch apiErr.Category {
	case monday.CategoryAuth, monday.CategoryPermission:
		return false
	}
	return true
}

// Schema returns the board's shape with parsed column settings and
// validation rules, cached for the freshness window.
func (s *Service) Schema(ctx context.Context) (*Schema, error) {
	return cache.Typed(ctx, s.store, s.schemaKey(), s.fetchSchema)
}

func (s *Service) fetchSchema(ctx context.Context) (*Schema, error) {
	vars := map[string]any{"boardID": []string{s.boardID}}
	data, err := s.readWithFallback(ctx, "board_schema",
		func(ctx context.Context) (json.RawMessage, error) {
			return s.q.Execute(ctx, "board_schema", monday.QueryBoardSchema, vars)
		},
		func(ctx context.Context) (json.RawMessage, error) {
			return s.q.Execute(ctx, "board_schema_minimal", monday.QueryBoardSchemaMinimal, vars)
		},
	)
	if err != nil {
		return nil, err
	}
	b, err := monday.FirstBoard(data)
	if err != nil {
		return nil, err
	}
	return newSchema(s.boardID, b), nil
}

// Metadata returns extended board context: workspace, subscribers, recent
// updates, views. When the extended query is rejected the schema query
// serves the board header instead.
func (s *Service) Metadata(ctx context.Context) (*Metadata, error) {
	return cache.Typed(ctx, s.store, s.metadataKey(), s.fetchMetadata)
}

func (s *Service) fetchMetadata(ctx context.Context) (*Metadata, error) {
	vars := map[string]any{"boardID": []string{s.boardID}}
	data, err := s.readWithFallback(ctx, "board_metadata",
		func(ctx context.Context) (json.RawMessage, error) {
			return s.q.Execute(ctx, "board_metadata", monday.QueryBoardMetadata, vars)
		},
		func(ctx context.Context) (json.RawMessage, error) {
			return s.q.Execute(ctx, "board_metadata_minimal", monday.QueryBoardSchemaMinimal, vars)
		},
	)
	if err != nil {
		return nil, err
	}
	b, err := monday.FirstBoard(data)
	if err != nil {
		return nil, err
	}
	return newMetadata(s.boardID, b), nil
}

// Items returns every item with display text and decoded logical values,
// cached. Column titles and value decoding lean on the schema; when the
// schema cannot be fetched the items still come back, just undecoded.
func (s *Service) Items(ctx context.Context) ([]Item, error) {
	return cache.Typed(ctx, s.store, s.itemsKey(), s.fetchItems)
}

func (s *Service) fetchItems(ctx context.Context) ([]Item, error) {
	vars := map[string]any{"boardID": []string{s.boardID}, "limit": s.maxItems}
	data, err := s.readWithFallback(ctx, "board_items",
		func(ctx context.Context) (json.RawMessage, error) {
			return s.q.Execute(ctx, "board_items", monday.QueryBoardItems, vars)
		},
		func(ctx context.Context) (json.RawMessage, error) {
			return s.q.Execute(ctx, "board_items_minimal", monday.QueryBoardItemsMinimal, vars)
		},
	)
	if err != nil {
		return nil, err
	}
	b, err := monday.FirstBoard(data)
	if err != nil {
		return nil, err
	}

	sch := s.schemaForDecoding(ctx)

	items := []Item{}
	if b.ItemsPage != nil {
		for _, it := range b.ItemsPage.Items {
			items = append(items, newItem(sch, it))
		}
	}
	return items, nil
}

func (s *Service) schemaForDecoding(ctx context.Context) *Schema {
	sch, err := s.Schema(ctx)
	if err != nil {
		s.log.Debug("schema unavailable while decoding items", zap.Error(err))
		return nil
	}
	return sch
}

// Item returns one item by id. The id query runs first; when it fails
// with something a different read could get past, the cached item list is
// scanned once instead.
func (s *Service) Item(ctx context.Context, itemID string) (*Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, &NotFoundError{Kind: "item", Name: itemID}
	}
	return cache.Typed(ctx, s.store, itemKey(itemID), func(ctx context.Context) (*Item, error) {
		return s.fetchItem(ctx, itemID)
	})
}

func (s *Service) fetchItem(ctx context.Context, itemID string) (*Item, error) {
	data, err := s.q.Execute(ctx, "item_by_id", monday.QueryItemByID, map[string]any{
		"itemID": []string{itemID},
	})
	if err == nil {
		wireItems, decodeErr := monday.DecodeItems(data)
		if decodeErr == nil {
			if len(wireItems) == 0 {
				return nil, &NotFoundError{Kind: "item", Name: itemID}
			}
			item := newItem(s.schemaForDecoding(ctx), wireItems[0])
			return &item, nil
		}
		err = decodeErr
	}
	if !retryable(err) {
		return nil, err
	}

	s.log.Warn("item lookup failed, scanning the item list",
		zap.String("item_id", itemID),
		zap.Error(err),
	)
	items, listErr := s.Items(ctx)
	if listErr != nil {
		return nil, listErr
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "item", Name: itemID}
}

// Combined merges schema and items into one payload. This is the
// expensive read; the two halves fetch concurrently when not cached.
func (s *Service) Combined(ctx context.Context) (*BoardData, error) {
	var (
		sch   *Schema
		items []Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sch, err = s.Schema(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.Items(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &BoardData{
		Board: BoardSummary{
			ID:           sch.Board.ID,
			Name:         sch.Board.Name,
			ColumnsCount: len(sch.Columns),
			ItemsCount:   len(items),
		},
		Columns: sch.Columns,
		Items:   items,
	}, nil
}

// ColumnTypes returns the registry catalog joined with this board's
// columns, cached under its own key.
func (s *Service) ColumnTypes(ctx context.Context) (*ColumnTypeCatalog, error) {
	return cache.Typed(ctx, s.store, s.columnTypesKey(), func(ctx context.Context) (*ColumnTypeCatalog, error) {
		sch, err := s.Schema(ctx)
		if err != nil {
			return nil, err
		}
		catalog := &ColumnTypeCatalog{}
		for _, t := range columns.Types() {
			catalog.RegisteredTypes = append(catalog.RegisteredTypes, string(t))
		}
		for _, col := range sch.Columns {
			catalog.Columns = append(catalog.Columns, ColumnTypeInfo{
				ID:    col.ID,
				Title: col.Title,
				Type:  col.Type,
				Known: columns.Known(columns.Type(col.Type)),
				Rules: col.Rules,
			})
		}
		return catalog, nil
	})
}

func newBoardInfo(boardID string, b *monday.Board) BoardInfo {
	id := b.ID
	if id == "" {
		id = boardID
	}
	return BoardInfo{
		ID:          id,
		Name:        b.Name,
		Kind:        b.BoardKind,
		State:       b.State,
		Description: b.Description,
		WorkspaceID: b.WorkspaceID.String(),
		Permissions: b.Permissions,
	}
}

func newSchema(boardID string, b *monday.Board) *Schema {
	sch := &Schema{Board: newBoardInfo(boardID, b)}
	for _, g := range b.Groups {
		sch.Groups = append(sch.Groups, Group{ID: g.ID, Title: g.Title, Color: g.Color})
	}
	for _, t := range b.Tags {
		sch.Tags = append(sch.Tags, Tag{ID: t.ID.String(), Name: t.Name})
	}
	if b.Owner != nil {
		sch.Owner = &Person{ID: b.Owner.ID.String(), Name: b.Owner.Name, Email: b.Owner.Email}
	}
	for _, c := range b.Columns {
		sch.Columns = append(sch.Columns, newColumn(c))
	}
	return sch
}

func newColumn(c monday.Column) Column {
	set := columns.ParseSettings(c.SettingsStr)
	return Column{
		ID:          c.ID,
		Title:       c.Title,
		Type:        c.Type,
		Description: c.Description,
		Width:       c.Width,
		Archived:    c.Archived,
		Rules:       columns.Rules(columns.Type(c.Type), set),
		settings:    set,
	}
}

func newMetadata(boardID string, b *monday.Board) *Metadata {
	md := &Metadata{Board: newBoardInfo(boardID, b)}
	if b.Workspace != nil {
		md.Workspace = &Workspace{ID: b.Workspace.ID.String(), Name: b.Workspace.Name, Kind: b.Workspace.Kind}
	}
	if b.Owner != nil {
		md.Owner = &Person{ID: b.Owner.ID.String(), Name: b.Owner.Name, Email: b.Owner.Email}
	}
	for _, u := range b.Subscribers {
		md.Subscribers = append(md.Subscribers, Person{ID: u.ID.String(), Name: u.Name, Email: u.Email})
	}
	for _, u := range b.Updates {
		up := Update{ID: u.ID.String(), Body: u.Body, CreatedAt: u.CreatedAt}
		if u.Creator != nil {
			up.Creator = u.Creator.Name
		}
		md.Updates = append(md.Updates, up)
	}
	for _, v := range b.Views {
		md.Views = append(md.Views, View{ID: v.ID.String(), Name: v.Name, Type: v.Type})
	}
	return md
}

func newItem(sch *Schema, it monday.Item) Item {
	item := Item{ID: it.ID, Name: it.Name}
	if it.Group != nil {
		item.GroupID = it.Group.ID
		item.GroupTitle = it.Group.Title
	}
	for _, cv := range it.ColumnValues {
		value := ColumnValue{ID: cv.ID, Type: cv.Type, Text: cv.Text}
		var decoded any
		if len(cv.Value) > 0 && string(cv.Value) != "null" {
			_ = json.Unmarshal(cv.Value, &decoded)
		}
		if sch != nil {
			if col, ok := sch.columnByID(cv.ID); ok {
				value.Title = col.Title
				if value.Type == "" {
					value.Type = col.Type
				}
				if decoded != nil {
					decoded = columns.ForType(columns.Type(col.Type)).FromWire(col.ParsedSettings(), decoded)
				}
			}
		}
		value.Value = decoded
		item.ColumnValues = append(item.ColumnValues, value)
	}
	return item
}
