package document

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/actions/tables"
	"github.com/roach88/kgraph/internal/graph"
)

// Document is a table together with the things it declares.
type Document struct {
	Label  *string `yaml:"label,omitempty" json:"label,omitempty"`
	Things Things  `yaml:"things,omitempty" json:"things,omitempty"`
	Rows   []Row   `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// Things holds the declared things, keyed by temp id.
type Things struct {
	Resources  map[string]Resource  `yaml:"resources,omitempty" json:"resources,omitempty"`
	Literals   map[string]Literal   `yaml:"literals,omitempty" json:"literals,omitempty"`
	Predicates map[string]Predicate `yaml:"predicates,omitempty" json:"predicates,omitempty"`
	Classes    map[string]Class     `yaml:"classes,omitempty" json:"classes,omitempty"`
	Lists      map[string]List      `yaml:"lists,omitempty" json:"lists,omitempty"`
}

type Resource struct {
	Label   string   `yaml:"label" json:"label"`
	Classes []string `yaml:"classes,omitempty" json:"classes,omitempty"`
}

type Literal struct {
	Label    string `yaml:"label" json:"label"`
	Datatype string `yaml:"datatype,omitempty" json:"datatype,omitempty"`
}

type Predicate struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Class struct {
	Label string `yaml:"label" json:"label"`
	URI   string `yaml:"uri,omitempty" json:"uri,omitempty"`
}

type List struct {
	Label    string   `yaml:"label" json:"label"`
	Elements []string `yaml:"elements,omitempty" json:"elements,omitempty"`
}

// Row is one table row. The first row is the header; its label is ignored.
type Row struct {
	Label *string   `yaml:"label,omitempty" json:"label,omitempty"`
	Data  []*string `yaml:"data" json:"data"`
}

// Mode selects which command a document is checked for.
type Mode int

const (
	// ModeCreate requires rows.
	ModeCreate Mode = iota
	// ModeUpdate treats missing rows as unchanged contents.
	ModeUpdate
)

// Definitions converts the declared things.
func (t Things) Definitions() actions.ThingDefinitions {
	return actions.ThingDefinitions{
		Resources: convert(t.Resources, func(r Resource) actions.ResourceDefinition {
			return actions.ResourceDefinition{Label: r.Label, Classes: r.Classes}
		}),
		Literals: convert(t.Literals, func(l Literal) actions.LiteralDefinition {
			return actions.LiteralDefinition{Label: l.Label, Datatype: l.Datatype}
		}),
		Predicates: convert(t.Predicates, func(p Predicate) actions.PredicateDefinition {
			return actions.PredicateDefinition{Label: p.Label, Description: p.Description}
		}),
		Classes: convert(t.Classes, func(c Class) actions.ClassDefinition {
			return actions.ClassDefinition{Label: c.Label, URI: c.URI}
		}),
		Lists: convert(t.Lists, func(l List) actions.ListDefinition {
			return actions.ListDefinition{Label: l.Label, Elements: l.Elements}
		}),
	}
}

// RowCommands converts the rows. Nil rows stay nil.
func (d *Document) RowCommands() []tables.RowCommand {
	if d.Rows == nil {
		return nil
	}
	rows := make([]tables.RowCommand, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = tables.RowCommand{Label: r.Label, Data: r.Data}
	}
	return rows
}

// CreateCommand builds the command that creates the table. A missing label
// becomes the empty label, which the create pipeline rejects.
func (d *Document) CreateCommand(contributor uuid.UUID) tables.CreateTableCommand {
	var label string
	if d.Label != nil {
		label = *d.Label
	}
	return tables.CreateTableCommand{
		ContributorID:    contributor,
		Label:            label,
		ThingDefinitions: d.Things.Definitions(),
		Rows:             d.RowCommands(),
	}
}

// UpdateCommand builds the command that reconciles table id with d.
func (d *Document) UpdateCommand(id graph.ThingID, contributor uuid.UUID) tables.UpdateTableCommand {
	return tables.UpdateTableCommand{
		TableID:          id,
		ContributorID:    contributor,
		Label:            d.Label,
		ThingDefinitions: d.Things.Definitions(),
		Rows:             d.RowCommands(),
	}
}

// Check runs the checks that need no graph: temp id declarations, the
// shape of the rows and references to temp ids that are never declared.
func (d *Document) Check(mode Mode) error {
	defs := d.Things.Definitions()
	if err := actions.ValidateTempIDs(defs.TempIDs()); err != nil {
		return err
	}
	if d.Rows != nil || mode == ModeCreate {
		if err := tables.ValidateShape(d.RowCommands()); err != nil {
			return err
		}
	}

	declared := defs.Declared()
	for _, ref := range d.references() {
		if strings.HasPrefix(ref, actions.TempIDPrefix) && !declared.Contains(ref) {
			return graph.ThingNotDefined(ref)
		}
	}
	return nil
}

// references lists every reference the document makes, in document order.
func (d *Document) references() []string {
	var refs []string
	for _, id := range sortedKeys(d.Things.Resources) {
		refs = append(refs, d.Things.Resources[id].Classes...)
	}
	for _, id := range sortedKeys(d.Things.Lists) {
		refs = append(refs, d.Things.Lists[id].Elements...)
	}
	for _, row := range d.Rows {
		for _, v := range row.Data {
			if v != nil {
				refs = append(refs, *v)
			}
		}
	}
	return refs
}

// FromTable turns a persisted table into a document that refers to its
// things by id. Fed back as an update it changes nothing.
func FromTable(t tables.Table) *Document {
	label := t.Label
	doc := &Document{Label: &label, Rows: make([]Row, len(t.Rows))}
	for i, row := range t.Rows {
		out := Row{Label: row.Label, Data: make([]*string, len(row.Data))}
		for j, thing := range row.Data {
			if thing == nil {
				continue
			}
			id := string(thing.ID())
			out.Data[j] = &id
		}
		doc.Rows[i] = out
	}
	return doc
}

func convert[In, Out any](m map[string]In, f func(In) Out) map[string]Out {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]Out, len(m))
	for k, v := range m {
		out[k] = f(v)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
