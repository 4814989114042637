package actions

import (
	"sort"

	"github.com/roach88/kgraph/internal/graph"
)

// ResourceDefinition declares a resource. Classes are references.
type ResourceDefinition struct {
	Label   string
	Classes []string
}

// LiteralDefinition declares a literal. An empty Datatype means xsd:string.
type LiteralDefinition struct {
	Label    string
	Datatype string
}

// PredicateDefinition declares a predicate with an optional description.
type PredicateDefinition struct {
	Label       string
	Description string
}

// ClassDefinition declares a class with an optional URI.
type ClassDefinition struct {
	Label string
	URI   string
}

// ListDefinition declares an ordered list. Elements are references and may
// name other lists of the same request.
type ListDefinition struct {
	Label    string
	Elements []string
}

// ThingDefinitions holds the things a command declares, keyed by temp id.
type ThingDefinitions struct {
	Resources  map[string]ResourceDefinition
	Literals   map[string]LiteralDefinition
	Predicates map[string]PredicateDefinition
	Classes    map[string]ClassDefinition
	Lists      map[string]ListDefinition
}

// TempIDs returns every declared key, kind by kind, sorted within a kind.
// An id declared under two kinds appears twice.
func (d ThingDefinitions) TempIDs() []string {
	var ids []string
	ids = append(ids, sortedKeys(d.Resources)...)
	ids = append(ids, sortedKeys(d.Literals)...)
	ids = append(ids, sortedKeys(d.Predicates)...)
	ids = append(ids, sortedKeys(d.Classes)...)
	ids = append(ids, sortedKeys(d.Lists)...)
	return ids
}

// Declared returns the declared temp ids as a set.
func (d ThingDefinitions) Declared() TempIDs {
	return NewTempIDs(d.TempIDs()...)
}

// KindOf reports which kind of thing tempID declares. Lists report
// graph.KindResource.
func (d ThingDefinitions) KindOf(tempID string) (graph.ThingKind, bool) {
	if _, ok := d.Resources[tempID]; ok {
		return graph.KindResource, true
	}
	if _, ok := d.Literals[tempID]; ok {
		return graph.KindLiteral, true
	}
	if _, ok := d.Predicates[tempID]; ok {
		return graph.KindPredicate, true
	}
	if _, ok := d.Classes[tempID]; ok {
		return graph.KindClass, true
	}
	if _, ok := d.Lists[tempID]; ok {
		return graph.KindResource, true
	}
	return "", false
}

// IsEmpty reports whether nothing is declared.
func (d ThingDefinitions) IsEmpty() bool {
	return len(d.Resources)+len(d.Literals)+len(d.Predicates)+len(d.Classes)+len(d.Lists) == 0
}

// BakedStatement is a statement whose ends may still be temp ids. It
// becomes a real statement once all three resolve.
type BakedStatement struct {
	Subject   string
	Predicate string
	Object    string
}

// HasTempID reports whether any end is a temp id.
func (b BakedStatement) HasTempID() bool {
	return IsTempID(b.Subject) || IsTempID(b.Predicate) || IsTempID(b.Object)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
