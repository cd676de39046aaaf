// Package resources implements the MCP resource handlers for the board.
//
// Resources expose read-only board data under monday:// URIs. Every
// payload comes from the same cached service the tools use, so a
// resource read and a tool call within the cache window see the same
// data.
package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"monday-mcp/internal/board"
	"monday-mcp/internal/logger"
)

// Handler serves every monday:// resource from one board service.
type Handler struct {
	svc *board.Service
	log *logger.Logger
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(svc *board.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// SchemaResource returns the resource definition for the board schema.
func (h *Handler) SchemaResource() mcp.Resource {
	return mcp.NewResource(
		"monday://board/schema",
		"Board Schema",
		mcp.WithResourceDescription("Board info, groups, tags, owner, and all columns with validation rules"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSchema serves monday://board/schema.
func (h *Handler) HandleSchema(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sch, err := h.svc.Schema(ctx)
	if err != nil {
		h.log.Warn("schema resource read failed", zap.Error(err))
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, sch)
}

// ColumnsResource returns the resource definition for the column list.
func (h *Handler) ColumnsResource() mcp.Resource {
	return mcp.NewResource(
		"monday://board/columns",
		"Board Columns",
		mcp.WithResourceDescription("All columns of the board with their types and validation rules"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleColumns serves monday://board/columns.
func (h *Handler) HandleColumns(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sch, err := h.svc.Schema(ctx)
	if err != nil {
		h.log.Warn("columns resource read failed", zap.Error(err))
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, sch.Columns)
}

// ColumnTemplate returns the template definition for one column by id.
func (h *Handler) ColumnTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"monday://board/columns/{id}",
		"Board Column",
		mcp.WithTemplateDescription("One column's detail, including its type and validation rules"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandleColumn serves monday://board/columns/{id}.
func (h *Handler) HandleColumn(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, "monday://board/columns/")
	if id == "" || id == req.Params.URI {
		return errorResource(req.Params.URI, "column id missing from URI"), nil
	}

	sch, err := h.svc.Schema(ctx)
	if err != nil {
		h.log.Warn("column resource read failed", zap.Error(err))
		return errorResource(req.Params.URI, err.Error()), nil
	}

	col, ok := sch.ResolveColumn(id)
	if !ok {
		known := make([]string, 0, len(sch.Columns))
		for _, c := range sch.Columns {
			known = append(known, c.ID)
		}
		return errorResource(req.Params.URI,
			fmt.Sprintf("column %q not found; known columns: %s", id, strings.Join(known, ", "))), nil
	}
	return jsonResource(req.Params.URI, col)
}

// ItemsResource returns the resource definition for the item list.
func (h *Handler) ItemsResource() mcp.Resource {
	return mcp.NewResource(
		"monday://board/items",
		"Board Items",
		mcp.WithResourceDescription("All items on the board with decoded column values"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleItems serves monday://board/items.
func (h *Handler) HandleItems(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	items, err := h.svc.Items(ctx)
	if err != nil {
		h.log.Warn("items resource read failed", zap.Error(err))
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, items)
}

// ItemTemplate returns the template definition for one item by id.
func (h *Handler) ItemTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"monday://board/item/{id}",
		"Board Item",
		mcp.WithTemplateDescription("One item with its decoded column values"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandleItem serves monday://board/item/{id}.
func (h *Handler) HandleItem(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, "monday://board/item/")
	if id == "" || id == req.Params.URI {
		return errorResource(req.Params.URI, "item id missing from URI"), nil
	}

	item, err := h.svc.Item(ctx, id)
	if err != nil {
		h.log.Warn("item resource read failed", zap.String("item_id", id), zap.Error(err))
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, item)
}

// MetadataResource returns the resource definition for board metadata.
func (h *Handler) MetadataResource() mcp.Resource {
	return mcp.NewResource(
		"monday://board/metadata",
		"Board Metadata",
		mcp.WithResourceDescription("Extended board metadata: workspace, subscribers, recent updates, and views"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleMetadata serves monday://board/metadata.
func (h *Handler) HandleMetadata(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	md, err := h.svc.Metadata(ctx)
	if err != nil {
		h.log.Warn("metadata resource read failed", zap.Error(err))
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, md)
}

// ColumnTypesResource returns the resource definition for the type catalog.
func (h *Handler) ColumnTypesResource() mcp.Resource {
	return mcp.NewResource(
		"monday://board/column_types",
		"Column Type Catalog",
		mcp.WithResourceDescription("Registered column type tags and how each board column maps onto them"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleColumnTypes serves monday://board/column_types.
func (h *Handler) HandleColumnTypes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog, err := h.svc.ColumnTypes(ctx)
	if err != nil {
		h.log.Warn("column types resource read failed", zap.Error(err))
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return jsonResource(req.Params.URI, catalog)
}
