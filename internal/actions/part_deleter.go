package actions

import (
	"context"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// PartDeleter removes a part (a template property, a section, ...) from
// the content type that owns it without destroying parts that other
// content reuses.
type PartDeleter struct {
	statements graph.StatementRepository
	writer     graph.Writer
}

// NewPartDeleter creates a deleter.
func NewPartDeleter(statements graph.StatementRepository, writer graph.Writer) *PartDeleter {
	return &PartDeleter{statements: statements, writer: writer}
}

// DeleteAllFunc fully removes an exclusively owned part. incoming holds
// every statement pointing at the part, all of them from the owner.
type DeleteAllFunc func(ctx context.Context, incoming []graph.Statement) error

// Delete detaches part from owner.
//
// The incoming statements of part are loaded once. If every one of them
// comes from owner, deleteAll is invoked to remove the part entirely.
// Otherwise only owner's links to the part are deleted and the part
// survives. It reports whether the part was fully deleted.
func (d *PartDeleter) Delete(ctx context.Context, owner, part graph.ThingID, deleteAll DeleteAllFunc) (bool, error) {
	incoming, err := d.statements.FindStatements(ctx, graph.StatementQuery{Object: part})
	if err != nil {
		return false, fmt.Errorf("load statements using %s: %w", part, err)
	}

	var links []graph.StatementID
	exclusive := true
	for _, st := range incoming {
		if st.Subject == owner {
			links = append(links, st.ID)
		} else {
			exclusive = false
		}
	}

	if exclusive {
		if err := deleteAll(ctx, incoming); err != nil {
			return false, fmt.Errorf("delete part %s: %w", part, err)
		}
		return true, nil
	}

	if len(links) == 0 {
		return false, nil
	}
	if err := d.writer.DeleteStatements(ctx, links); err != nil {
		return false, fmt.Errorf("unlink part %s: %w", part, err)
	}
	return false, nil
}
