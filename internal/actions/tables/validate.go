package tables

import (
	"context"
	"strings"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
)

// rowsValidator checks the shape of a table and resolves every value.
type rowsValidator struct {
	resolver *actions.Resolver
}

// validate checks dimensions first, then resolves the header, which must
// consist of literals, and every non-empty data value.
func (v rowsValidator) validate(ctx context.Context, rows []RowCommand, defs actions.ThingDefinitions, cache actions.ValidationCache) error {
	if err := ValidateShape(rows); err != nil {
		return err
	}

	header := rows[0].Data
	declared := defs.Declared()
	for i, value := range header {
		ref, err := v.resolver.Resolve(ctx, *value, declared, cache)
		if err != nil {
			return err
		}
		if !isLiteral(ref, defs) {
			return TableHeaderValueMustBeLiteral(i)
		}
	}
	for _, row := range rows[1:] {
		for _, value := range row.Data {
			if value == nil {
				continue
			}
			if _, err := v.resolver.Resolve(ctx, *value, declared, cache); err != nil {
				return err
			}
		}
	}
	return nil
}

func isLiteral(ref actions.Ref, defs actions.ThingDefinitions) bool {
	if ref.IsTemp() {
		kind, _ := defs.KindOf(ref.TempID)
		return kind == graph.KindLiteral
	}
	return ref.Thing.Kind() == graph.KindLiteral
}

// labelOf returns the label of a validated reference.
func labelOf(ref string, defs actions.ThingDefinitions, cache actions.ValidationCache) (string, bool) {
	if actions.IsTempID(ref) {
		l, ok := defs.Literals[ref]
		return l.Label, ok
	}
	r, ok := cache[ref]
	if !ok || r.Thing == nil {
		return "", false
	}
	return r.Thing.Label(), true
}

// ValidateShape checks the dimensions of rows and the row labels without
// touching the graph. The header row must be complete and every other row
// must have exactly as many values as the header.
func ValidateShape(rows []RowCommand) error {
	if len(rows) == 0 {
		return MissingTableRows()
	}

	header := rows[0].Data
	for i, value := range header {
		if value == nil || strings.TrimSpace(*value) == "" {
			return MissingTableHeaderValue(i)
		}
	}
	for i, row := range rows[1:] {
		index := i + 1
		switch {
		case len(row.Data) > len(header):
			return TooManyTableRowValues(index, len(header))
		case len(row.Data) < len(header):
			return MissingTableRowValues(index, len(header))
		}
		if row.Label != nil && !graph.IsValidLiteralLabel(*row.Label) {
			return graph.InvalidLiteralLabel(*row.Label, graph.DatatypeString)
		}
	}
	return nil
}
