package actions

import (
	"context"

	"github.com/roach88/kgraph/internal/graph"
)

// SingleStatementUpdater maintains properties that hold at most one
// statement, such as a row title or a description.
type SingleStatementUpdater struct {
	writer graph.Writer
}

// NewSingleStatementUpdater creates an updater.
func NewSingleStatementUpdater(writer graph.Writer) *SingleStatementUpdater {
	return &SingleStatementUpdater{writer: writer}
}

// UpdateLiteral reconciles existing, the current statements of the
// property, with label.
//
// A nil label removes every statement. Otherwise the first statement is
// kept, any others are deleted, and its literal is updated in place when
// its label or datatype differs. With no statement a literal is created
// and linked.
func (u *SingleStatementUpdater) UpdateLiteral(ctx context.Context, target CollectionTarget, existing []graph.Statement, label *string, datatype string) (CollectionChange, error) {
	if datatype == "" {
		datatype = graph.DatatypeString
	}

	if label == nil {
		return u.deleteAll(ctx, existing)
	}

	if len(existing) == 0 {
		literal, err := u.writer.CreateLiteral(ctx, graph.CreateLiteral{
			Label:       *label,
			Datatype:    datatype,
			Contributor: target.Contributor,
		})
		if err != nil {
			return CollectionChange{}, err
		}
		id, err := u.writer.CreateStatement(ctx, graph.CreateStatement{
			Subject:     target.Subject,
			Predicate:   target.Predicate,
			Object:      literal,
			Contributor: target.Contributor,
		})
		if err != nil {
			return CollectionChange{}, err
		}
		return CollectionChange{Created: []graph.StatementID{id}}, nil
	}

	change, err := u.deleteAll(ctx, existing[1:])
	if err != nil {
		return change, err
	}

	current, isLiteral := existing[0].Object.(graph.Literal)
	if isLiteral && graph.SameLabel(current.Text, *label) && current.Datatype == datatype {
		return change, nil
	}
	if err := u.writer.UpdateLiteral(ctx, existing[0].ObjectID(), *label, datatype); err != nil {
		return change, err
	}
	return change, nil
}

// UpdateObject reconciles existing with a single object. A nil object
// removes every statement; a statement already pointing at object is kept.
func (u *SingleStatementUpdater) UpdateObject(ctx context.Context, target CollectionTarget, existing []graph.Statement, object *graph.ThingID) (CollectionChange, error) {
	if object == nil {
		return u.deleteAll(ctx, existing)
	}

	var stale []graph.Statement
	kept := false
	for _, st := range existing {
		if !kept && st.ObjectID() == *object {
			kept = true
			continue
		}
		stale = append(stale, st)
	}

	change, err := u.deleteAll(ctx, stale)
	if err != nil || kept {
		return change, err
	}

	id, err := u.writer.CreateStatement(ctx, graph.CreateStatement{
		Subject:     target.Subject,
		Predicate:   target.Predicate,
		Object:      *object,
		Contributor: target.Contributor,
	})
	if err != nil {
		return change, err
	}
	change.Created = append(change.Created, id)
	return change, nil
}

func (u *SingleStatementUpdater) deleteAll(ctx context.Context, statements []graph.Statement) (CollectionChange, error) {
	if len(statements) == 0 {
		return CollectionChange{}, nil
	}
	ids := graph.StatementIDs(statements)
	if err := u.writer.DeleteStatements(ctx, ids); err != nil {
		return CollectionChange{}, err
	}
	return CollectionChange{Deleted: ids}, nil
}
