package actions

import (
	"context"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// SubgraphCreator materializes validated thing definitions and baked
// statements.
type SubgraphCreator struct {
	statements graph.StatementRepository
	writer     graph.Writer
}

// NewSubgraphCreator creates a materializer.
func NewSubgraphCreator(statements graph.StatementRepository, writer graph.Writer) *SubgraphCreator {
	return &SubgraphCreator{statements: statements, writer: writer}
}

// Subgraph is the input of SubgraphCreator.Create.
type Subgraph struct {
	Contributor string
	Definitions ThingDefinitions

	// Validated holds the validator's resolutions. Only definitions recorded
	// here as temp refs are created.
	Validated ValidationCache

	// Statements are created after all things exist.
	Statements []BakedStatement

	// Known maps temp ids created by earlier steps of the same request.
	Known map[string]graph.ThingID
}

// Create materializes sg and returns the temp id to thing id mapping,
// including sg.Known.
//
// Things are created kind by kind: classes (resources may be typed by
// them), resources, literals, predicates and finally lists. Lists are
// created empty and filled afterwards so they may contain each other.
// A baked statement with a temp id end is always created; a fully
// persisted one only if the same triple does not exist yet.
func (c *SubgraphCreator) Create(ctx context.Context, sg Subgraph) (map[string]graph.ThingID, error) {
	created := make(map[string]graph.ThingID, len(sg.Known))
	for k, v := range sg.Known {
		created[k] = v
	}
	defs := sg.Definitions
	validated := func(id string) bool {
		ref, ok := sg.Validated[id]
		return ok && ref.IsTemp()
	}
	resolve := func(ref string) (graph.ThingID, error) {
		if !IsTempID(ref) {
			if cached, ok := sg.Validated[ref]; ok && !cached.IsTemp() {
				return cached.Thing.ID(), nil
			}
			return graph.ThingID(ref), nil
		}
		id, ok := created[ref]
		if !ok {
			return "", graph.ThingNotDefined(ref)
		}
		return id, nil
	}

	for _, tempID := range sortedKeys(defs.Classes) {
		if !validated(tempID) {
			continue
		}
		def := defs.Classes[tempID]
		id, err := c.writer.CreateClass(ctx, graph.CreateClass{Label: def.Label, URI: def.URI, Contributor: sg.Contributor})
		if err != nil {
			return nil, fmt.Errorf("create class %s: %w", tempID, err)
		}
		created[tempID] = id
	}

	for _, tempID := range sortedKeys(defs.Resources) {
		if !validated(tempID) {
			continue
		}
		def := defs.Resources[tempID]
		classes := make([]graph.ThingID, 0, len(def.Classes))
		for _, ref := range def.Classes {
			id, err := resolve(ref)
			if err != nil {
				return nil, err
			}
			classes = append(classes, id)
		}
		id, err := c.writer.CreateResource(ctx, graph.CreateResource{Label: def.Label, Classes: classes, Contributor: sg.Contributor})
		if err != nil {
			return nil, fmt.Errorf("create resource %s: %w", tempID, err)
		}
		created[tempID] = id
	}

	for _, tempID := range sortedKeys(defs.Literals) {
		if !validated(tempID) {
			continue
		}
		def := defs.Literals[tempID]
		id, err := c.writer.CreateLiteral(ctx, graph.CreateLiteral{Label: def.Label, Datatype: def.Datatype, Contributor: sg.Contributor})
		if err != nil {
			return nil, fmt.Errorf("create literal %s: %w", tempID, err)
		}
		created[tempID] = id
	}

	for _, tempID := range sortedKeys(defs.Predicates) {
		if !validated(tempID) {
			continue
		}
		def := defs.Predicates[tempID]
		id, err := c.writer.CreatePredicate(ctx, graph.CreatePredicate{Label: def.Label, Contributor: sg.Contributor})
		if err != nil {
			return nil, fmt.Errorf("create predicate %s: %w", tempID, err)
		}
		created[tempID] = id

		if def.Description == "" {
			continue
		}
		if err := c.describe(ctx, id, def.Description, sg.Contributor); err != nil {
			return nil, fmt.Errorf("create predicate %s: %w", tempID, err)
		}
	}

	listIDs := sortedKeys(defs.Lists)
	for _, tempID := range listIDs {
		if !validated(tempID) {
			continue
		}
		def := defs.Lists[tempID]
		id, err := c.writer.CreateList(ctx, graph.CreateList{Label: def.Label, Contributor: sg.Contributor})
		if err != nil {
			return nil, fmt.Errorf("create list %s: %w", tempID, err)
		}
		created[tempID] = id
	}
	for _, tempID := range listIDs {
		def := defs.Lists[tempID]
		if !validated(tempID) || len(def.Elements) == 0 {
			continue
		}
		elements := make([]graph.ThingID, 0, len(def.Elements))
		for _, ref := range def.Elements {
			id, err := resolve(ref)
			if err != nil {
				return nil, err
			}
			elements = append(elements, id)
		}
		if err := c.writer.UpdateListElements(ctx, created[tempID], elements, sg.Contributor); err != nil {
			return nil, fmt.Errorf("fill list %s: %w", tempID, err)
		}
	}

	for _, baked := range sg.Statements {
		if err := c.createStatement(ctx, baked, resolve, sg.Contributor); err != nil {
			return nil, err
		}
	}

	return created, nil
}

func (c *SubgraphCreator) describe(ctx context.Context, predicate graph.ThingID, description, contributor string) error {
	literal, err := c.writer.CreateLiteral(ctx, graph.CreateLiteral{Label: description, Contributor: contributor})
	if err != nil {
		return err
	}
	_, err = c.writer.CreateStatement(ctx, graph.CreateStatement{
		Subject:     predicate,
		Predicate:   graph.PredicateDescription,
		Object:      literal,
		Contributor: contributor,
	})
	return err
}

func (c *SubgraphCreator) createStatement(ctx context.Context, baked BakedStatement, resolve func(string) (graph.ThingID, error), contributor string) error {
	subject, err := resolve(baked.Subject)
	if err != nil {
		return err
	}
	predicate, err := resolve(baked.Predicate)
	if err != nil {
		return err
	}
	object, err := resolve(baked.Object)
	if err != nil {
		return err
	}

	if !baked.HasTempID() {
		existing, err := c.statements.FindStatements(ctx, graph.StatementQuery{
			Subject:   subject,
			Predicate: predicate,
			Object:    object,
			Page:      graph.Page{Limit: 1},
		})
		if err != nil {
			return fmt.Errorf("look up statement (%s, %s, %s): %w", subject, predicate, object, err)
		}
		if len(existing) > 0 {
			return nil
		}
	}

	_, err = c.writer.CreateStatement(ctx, graph.CreateStatement{
		Subject:     subject,
		Predicate:   predicate,
		Object:      object,
		Contributor: contributor,
	})
	if err != nil {
		return fmt.Errorf("create statement (%s, %s, %s): %w", baked.Subject, baked.Predicate, baked.Object, err)
	}
	return nil
}
