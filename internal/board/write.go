package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"monday-mcp/internal/columns"
	"monday-mcp/internal/monday"
)

// prepareColumnValues validates every named column locally and builds the
// wire map for a mutation. The first invalid field aborts the whole write;
// fields are visited in sorted order so the reported failure is
// deterministic. Passthrough notes come back as warnings.
func (s *Service) prepareColumnValues(sch *Schema, values map[string]any) (map[string]any, []string, error) {
	if len(values) == 0 {
		return map[string]any{}, nil, nil
	}

	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	wire := make(map[string]any, len(values))
	var warnings []string
	for _, field := range fields {
		raw := values[field]
		col, ok := sch.ResolveColumn(field)
		if !ok {
			return nil, nil, &NotFoundError{Kind: "column", Name: field, Known: sch.FieldNames()}
		}

		h := columns.ForType(columns.Type(col.Type))
		res := h.Validate(col.ParsedSettings(), raw)
		if !res.OK {
			return nil, nil, &ValidationError{
				Column:      col.ID,
				Title:       col.Title,
				Value:       raw,
				Reason:      res.Reason,
				Suggestions: res.Suggestions,
			}
		}
		if res.Note != "" {
			warnings = append(warnings, fmt.Sprintf("%s: %s", col.ID, res.Note))
		}

		w, err := h.ToWire(col.ParsedSettings(), raw)
		if err != nil {
			return nil, nil, &ValidationError{Column: col.ID, Title: col.Title, Value: raw, Reason: err.Error()}
		}
		wire[col.ID] = w
	}
	return wire, warnings, nil
}

// Create adds an item to the board. All column values validate locally
// first; nothing reaches the API when any of them is invalid. An empty
// group defaults to the board's first group.
func (s *Service) Create(ctx context.Context, name string, values map[string]any, groupID string) (*CreateReceipt, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Column: "name", Title: "Name", Value: name, Reason: "item name cannot be empty"}
	}

	sch, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	wire, warnings, err := s.prepareColumnValues(sch, values)
	if err != nil {
		return nil, err
	}

	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		if len(sch.Groups) > 0 {
			groupID = sch.Groups[0].ID
		}
	} else if !sch.knownGroup(groupID) {
		return nil, &NotFoundError{Kind: "group", Name: groupID, Known: sch.groupIDs()}
	}

	vars := map[string]any{
		"boardID":  s.boardID,
		"itemName": name,
	}
	if groupID != "" {
		vars["groupID"] = groupID
	}
	if len(wire) > 0 {
		encoded, err := json.Marshal(wire)
		if err != nil {
			return nil, fmt.Errorf("encoding column values: %w", err)
		}
		vars["columnValues"] = string(encoded)
	}

	data, err := s.q.Execute(ctx, "create_item", monday.MutationCreateItem, vars)
	if err != nil {
		return nil, err
	}
	created, err := monday.DecodeCreateItem(data)
	if err != nil {
		return nil, err
	}

	s.store.InvalidateAll()
	s.log.Info("item created",
		zap.String("item_id", created.ID),
		zap.String("board_id", s.boardID),
	)

	receipt := &CreateReceipt{
		ID:       created.ID,
		Name:     created.Name,
		BoardID:  s.boardID,
		GroupID:  groupID,
		Warnings: warnings,
	}
	if created.Group != nil && created.Group.ID != "" {
		receipt.GroupID = created.Group.ID
	}
	return receipt, nil
}

// Update changes the named columns of one item and leaves the rest alone.
// The same validate-everything-first contract as Create applies.
func (s *Service) Update(ctx context.Context, itemID string, values map[string]any) (*UpdateReceipt, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, &ValidationError{Column: "item_id", Value: itemID, Reason: "item id cannot be empty"}
	}
	if len(values) == 0 {
		return nil, &ValidationError{Column: "column_values", Value: values, Reason: "at least one column value is required"}
	}

	sch, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	wire, warnings, err := s.prepareColumnValues(sch, values)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding column values: %w", err)
	}

	data, err := s.q.Execute(ctx, "update_item", monday.MutationUpdateItem, map[string]any{
		"boardID":      s.boardID,
		"itemID":       itemID,
		"columnValues": string(encoded),
	})
	if err != nil {
		return nil, err
	}
	updated, err := monday.DecodeChangeColumns(data)
	if err != nil {
		return nil, err
	}

	s.store.InvalidateAll()
	s.log.Info("item updated",
		zap.String("item_id", updated.ID),
		zap.String("board_id", s.boardID),
	)

	return &UpdateReceipt{
		ID:       updated.ID,
		Name:     updated.Name,
		BoardID:  s.boardID,
		Warnings: warnings,
	}, nil
}

// Delete removes every item the search matches, one at a time so each
// failure can be reported on its own. One failed delete does not stop the
// rest, and any successful delete invalidates the cache.
func (s *Service) Delete(ctx context.Context, field, value string) (*DeleteReport, error) {
	matches, err := s.Search(ctx, field, value)
	if err != nil {
		return nil, err
	}

	report := &DeleteReport{Matched: len(matches)}
	for _, item := range matches {
		data, err := s.q.Execute(ctx, "delete_item", monday.MutationDeleteItem, map[string]any{
			"itemID": item.ID,
		})
		if err == nil {
			_, err = monday.DecodeDeleteItem(data)
		}
		if err != nil {
			s.log.Warn("delete failed",
				zap.String("item_id", item.ID),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, DeleteFailure{ItemID: item.ID, Error: err.Error()})
			continue
		}
		report.Deleted = append(report.Deleted, item.ID)
	}

	if len(report.Deleted) > 0 {
		s.store.InvalidateAll()
		s.log.Info("items deleted",
			zap.Int("deleted", len(report.Deleted)),
			zap.Int("matched", report.Matched),
			zap.String("board_id", s.boardID),
		)
	}
	return report, nil
}
