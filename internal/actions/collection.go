package actions

import (
	"context"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// Plan is the outcome of diffing existing statements against desired values.
// Keep lists the statements left untouched, in existing order.
type Plan[T any] struct {
	Keep   []graph.StatementID
	Delete []graph.StatementID
	Create []T
}

// IsNoop reports whether applying the plan changes nothing.
func (p Plan[T]) IsNoop() bool {
	return len(p.Delete) == 0 && len(p.Create) == 0
}

// PlanSet diffs statements as a set keyed by statementKey against desired
// keyed by valueKey. Existing statements whose key is still desired are
// kept; the others are deleted; desired keys without a statement are
// created. Desired values with repeated keys are created once, and
// existing statements repeating a kept key are deleted.
func PlanSet[T any, K comparable](existing []graph.Statement, desired []T, statementKey func(graph.Statement) K, valueKey func(T) K) Plan[T] {
	want := make(map[K]struct{}, len(desired))
	for _, v := range desired {
		want[valueKey(v)] = struct{}{}
	}

	plan := Plan[T]{}
	have := make(map[K]struct{}, len(existing))
	for _, st := range existing {
		k := statementKey(st)
		if _, ok := want[k]; !ok {
			plan.Delete = append(plan.Delete, st.ID)
			continue
		}
		if _, dup := have[k]; dup {
			plan.Delete = append(plan.Delete, st.ID)
			continue
		}
		have[k] = struct{}{}
		plan.Keep = append(plan.Keep, st.ID)
	}

	for _, v := range desired {
		k := valueKey(v)
		if _, ok := have[k]; ok {
			continue
		}
		have[k] = struct{}{}
		plan.Create = append(plan.Create, v)
	}
	return plan
}

// PlanSequence diffs statements in creation order against an ordered
// desired sequence with a single greedy forward sweep.
//
// For each desired value the remaining existing statements are scanned
// from the cursor; the first equal one is kept and everything scanned
// past is deleted. A value with no match is created and the cursor stays
// put. Once a statement has been created, no later existing statement can
// be kept: it would sort before the new one. Whatever remains after the
// sweep is deleted.
func PlanSequence[T any, K comparable](existing []graph.Statement, desired []T, statementKey func(graph.Statement) K, valueKey func(T) K) Plan[T] {
	plan := Plan[T]{}
	cursor := 0
	created := false

	for _, v := range desired {
		if !created {
			k := valueKey(v)
			match := -1
			for j := cursor; j < len(existing); j++ {
				if statementKey(existing[j]) == k {
					match = j
					break
				}
			}
			if match >= 0 {
				for _, skipped := range existing[cursor:match] {
					plan.Delete = append(plan.Delete, skipped.ID)
				}
				plan.Keep = append(plan.Keep, existing[match].ID)
				cursor = match + 1
				continue
			}
		}
		plan.Create = append(plan.Create, v)
		created = true
	}

	for _, rest := range existing[cursor:] {
		plan.Delete = append(plan.Delete, rest.ID)
	}
	return plan
}

// LiteralValue is a desired literal-valued property entry. Entries are
// compared by label; the datatype only applies to newly created literals.
type LiteralValue struct {
	Label    string
	Datatype string
}

func objectKey(st graph.Statement) graph.ThingID { return st.ObjectID() }
func identity(id graph.ThingID) graph.ThingID    { return id }

func labelKey(st graph.Statement) string {
	if st.Object == nil {
		return ""
	}
	return graph.NormalizeLabel(st.Object.Label())
}

func literalValueKey(v LiteralValue) string { return graph.NormalizeLabel(v.Label) }

// CollectionChange reports what an update did.
type CollectionChange struct {
	Created []graph.StatementID
	Deleted []graph.StatementID
}

// StatementCollectionUpdater reconciles the statements of one (subject,
// predicate) pair with a desired set or sequence of objects or literals.
type StatementCollectionUpdater struct {
	statements graph.StatementRepository
	writer     graph.Writer
}

// NewStatementCollectionUpdater creates an updater.
func NewStatementCollectionUpdater(statements graph.StatementRepository, writer graph.Writer) *StatementCollectionUpdater {
	return &StatementCollectionUpdater{statements: statements, writer: writer}
}

// CollectionTarget addresses the statements being reconciled.
type CollectionTarget struct {
	Contributor string
	Subject     graph.ThingID
	Predicate   graph.ThingID
}

// UpdateObjectSet links subject to exactly the objects in desired, ignoring order.
func (u *StatementCollectionUpdater) UpdateObjectSet(ctx context.Context, target CollectionTarget, desired []graph.ThingID) (CollectionChange, error) {
	existing, err := u.existing(ctx, target)
	if err != nil {
		return CollectionChange{}, err
	}
	return u.applyObjects(ctx, target, PlanSet(existing, desired, objectKey, identity))
}

// UpdateObjectSequence links subject to the objects in desired, in order.
func (u *StatementCollectionUpdater) UpdateObjectSequence(ctx context.Context, target CollectionTarget, desired []graph.ThingID) (CollectionChange, error) {
	existing, err := u.existing(ctx, target)
	if err != nil {
		return CollectionChange{}, err
	}
	return u.applyObjects(ctx, target, PlanSequence(existing, desired, objectKey, identity))
}

// UpdateLiteralSet links subject to literals with exactly the desired labels.
func (u *StatementCollectionUpdater) UpdateLiteralSet(ctx context.Context, target CollectionTarget, desired []LiteralValue) (CollectionChange, error) {
	existing, err := u.existing(ctx, target)
	if err != nil {
		return CollectionChange{}, err
	}
	return u.applyLiterals(ctx, target, PlanSet(existing, desired, labelKey, literalValueKey))
}

// UpdateLiteralSequence links subject to literals with the desired labels, in order.
func (u *StatementCollectionUpdater) UpdateLiteralSequence(ctx context.Context, target CollectionTarget, desired []LiteralValue) (CollectionChange, error) {
	existing, err := u.existing(ctx, target)
	if err != nil {
		return CollectionChange{}, err
	}
	return u.applyLiterals(ctx, target, PlanSequence(existing, desired, labelKey, literalValueKey))
}

func (u *StatementCollectionUpdater) existing(ctx context.Context, target CollectionTarget) ([]graph.Statement, error) {
	statements, err := u.statements.FindStatements(ctx, graph.StatementQuery{
		Subject:   target.Subject,
		Predicate: target.Predicate,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s/%s statements: %w", target.Subject, target.Predicate, err)
	}
	return statements, nil
}

func (u *StatementCollectionUpdater) applyObjects(ctx context.Context, target CollectionTarget, plan Plan[graph.ThingID]) (CollectionChange, error) {
	change, err := u.deletePlanned(ctx, plan.Delete)
	if err != nil {
		return change, err
	}
	for _, object := range plan.Create {
		id, err := u.writer.CreateStatement(ctx, graph.CreateStatement{
			Subject:     target.Subject,
			Predicate:   target.Predicate,
			Object:      object,
			Contributor: target.Contributor,
		})
		if err != nil {
			return change, err
		}
		change.Created = append(change.Created, id)
	}
	return change, nil
}

func (u *StatementCollectionUpdater) applyLiterals(ctx context.Context, target CollectionTarget, plan Plan[LiteralValue]) (CollectionChange, error) {
	change, err := u.deletePlanned(ctx, plan.Delete)
	if err != nil {
		return change, err
	}
	for _, v := range plan.Create {
		literal, err := u.writer.CreateLiteral(ctx, graph.CreateLiteral{
			Label:       v.Label,
			Datatype:    v.Datatype,
			Contributor: target.Contributor,
		})
		if err != nil {
			return change, err
		}
		id, err := u.writer.CreateStatement(ctx, graph.CreateStatement{
			Subject:     target.Subject,
			Predicate:   target.Predicate,
			Object:      literal,
			Contributor: target.Contributor,
		})
		if err != nil {
			return change, err
		}
		change.Created = append(change.Created, id)
	}
	return change, nil
}

func (u *StatementCollectionUpdater) deletePlanned(ctx context.Context, ids []graph.StatementID) (CollectionChange, error) {
	if len(ids) == 0 {
		return CollectionChange{}, nil
	}
	if err := u.writer.DeleteStatements(ctx, ids); err != nil {
		return CollectionChange{}, err
	}
	return CollectionChange{Deleted: ids}, nil
}
