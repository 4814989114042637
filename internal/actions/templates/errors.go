package templates

import "github.com/roach88/kgraph/internal/graph"

// TemplateNotFound is raised when id is not a template.
func TemplateNotFound(id graph.ThingID) *graph.Error {
	return graph.NewError(graph.CodeTemplateNotFound, "Template %q not found.", id).WithDetail("id", string(id))
}

// ThingIsNotAPropertyShape is raised when a property reference does not
// denote a property shape.
func ThingIsNotAPropertyShape(id graph.ThingID) *graph.Error {
	return graph.NewError(graph.CodeThingIsNotAPropertyShape, "Thing %q is not a property shape.", id).WithDetail("id", string(id))
}
