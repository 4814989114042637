package actions

import (
	"context"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// ThingDefinitionValidator checks declared things before anything is
// created. It never writes to the graph.
type ThingDefinitionValidator struct {
	resolver *Resolver
	classes  graph.ClassRepository
}

// NewThingDefinitionValidator creates a validator that resolves references
// with resolver and checks class URIs against classes.
func NewThingDefinitionValidator(resolver *Resolver, classes graph.ClassRepository) *ThingDefinitionValidator {
	return &ThingDefinitionValidator{resolver: resolver, classes: classes}
}

// Validate checks every definition in defs. References are resolved
// against declared and memoized in cache; every validated definition is
// recorded in cache as a temp ref so the materializer knows to create it.
func (v *ThingDefinitionValidator) Validate(ctx context.Context, defs ThingDefinitions, declared TempIDs, cache ValidationCache) error {
	for _, id := range sortedKeys(defs.Resources) {
		if err := v.validateResource(ctx, id, defs.Resources[id], defs, declared, cache); err != nil {
			return err
		}
		cache[id] = Ref{TempID: id}
	}

	for _, id := range sortedKeys(defs.Literals) {
		if err := validateLiteral(defs.Literals[id]); err != nil {
			return err
		}
		cache[id] = Ref{TempID: id}
	}

	for _, id := range sortedKeys(defs.Predicates) {
		p := defs.Predicates[id]
		if !graph.IsValidLabel(p.Label) {
			return graph.InvalidLabel(fmt.Sprintf("predicates[%s].label", id))
		}
		if p.Description != "" && !graph.IsValidLiteralLabel(p.Description) {
			return graph.InvalidLiteralLabel(p.Description, "")
		}
		cache[id] = Ref{TempID: id}
	}

	for _, id := range sortedKeys(defs.Classes) {
		if err := v.validateClass(ctx, id, defs.Classes[id]); err != nil {
			return err
		}
		cache[id] = Ref{TempID: id}
	}

	for _, id := range sortedKeys(defs.Lists) {
		l := defs.Lists[id]
		if !graph.IsValidLabel(l.Label) {
			return graph.InvalidLabel(fmt.Sprintf("lists[%s].label", id))
		}
		for _, el := range l.Elements {
			if _, err := v.resolver.Resolve(ctx, el, declared, cache); err != nil {
				return err
			}
		}
		cache[id] = Ref{TempID: id}
	}

	return nil
}

func (v *ThingDefinitionValidator) validateResource(ctx context.Context, id string, r ResourceDefinition, defs ThingDefinitions, declared TempIDs, cache ValidationCache) error {
	if !graph.IsValidLabel(r.Label) {
		return graph.InvalidLabel(fmt.Sprintf("resources[%s].label", id))
	}

	for _, class := range r.Classes {
		if graph.IsReservedClass(graph.ThingID(class)) {
			return graph.ReservedClass(graph.ThingID(class))
		}

		ref, err := v.resolver.Resolve(ctx, class, declared, cache)
		if err != nil {
			return err
		}
		if ref.IsTemp() {
			if _, ok := defs.Classes[ref.TempID]; !ok {
				return graph.ThingIsNotAClass(graph.ThingID(class))
			}
			continue
		}
		if _, ok := ref.Thing.(graph.Class); !ok {
			return graph.ThingIsNotAClass(ref.Thing.ID())
		}
	}
	return nil
}

func validateLiteral(l LiteralDefinition) error {
	if !graph.IsValidLiteralLabel(l.Label) {
		return graph.InvalidLiteralLabel(l.Label, "")
	}

	datatype := l.Datatype
	if datatype == "" {
		datatype = graph.DatatypeString
	}
	if !graph.IsValidDatatype(datatype) {
		return graph.InvalidLiteralDatatype()
	}
	if !graph.AcceptsLabel(datatype, l.Label) {
		return graph.InvalidLiteralLabel(l.Label, datatype)
	}
	return nil
}

func (v *ThingDefinitionValidator) validateClass(ctx context.Context, id string, c ClassDefinition) error {
	if !graph.IsValidLabel(c.Label) {
		return graph.InvalidLabel(fmt.Sprintf("classes[%s].label", id))
	}
	if c.URI == "" {
		return nil
	}
	if !graph.IsAbsoluteURI(c.URI) {
		return graph.URINotAbsolute(c.URI)
	}

	existing, ok, err := v.classes.FindClassByURI(ctx, c.URI)
	if err != nil {
		return fmt.Errorf("validate class %s: %w", id, err)
	}
	if ok {
		return graph.URIAlreadyInUse(c.URI, existing.ThingID)
	}
	return nil
}
