package graph

import (
	"slices"
	"time"
)

// ThingID is the stable opaque identifier of a persisted thing.
type ThingID string

// StatementID is the identifier of a persisted statement.
type StatementID string

// ThingKind names the variant of a Thing.
type ThingKind string

const (
	KindResource  ThingKind = "resource"
	KindLiteral   ThingKind = "literal"
	KindPredicate ThingKind = "predicate"
	KindClass     ThingKind = "class"
)

// Thing is the closed set of graph entities.
//
// The marker method is unexported so only Resource, Literal, Predicate and
// Class can implement it; switches over Thing are exhaustive by construction.
type Thing interface {
	thing()
	ID() ThingID
	Label() string
	Kind() ThingKind
}

// Resource is a typed entity. Lists are resources carrying the List class.
type Resource struct {
	ThingID    ThingID
	Text       string
	Classes    []ThingID
	Modifiable bool
	CreatedBy  string
	CreatedAt  time.Time
}

// Literal is a typed value. Datatype is an xsd: name or an absolute URI.
type Literal struct {
	ThingID   ThingID
	Text      string
	Datatype  string
	CreatedBy string
	CreatedAt time.Time
}

// Predicate names the relation of a statement.
type Predicate struct {
	ThingID   ThingID
	Text      string
	CreatedBy string
	CreatedAt time.Time
}

// Class types resources. URI is optional but unique when present.
type Class struct {
	ThingID   ThingID
	Text      string
	URI       string
	CreatedBy string
	CreatedAt time.Time
}

func (Resource) thing()  {}
func (Literal) thing()   {}
func (Predicate) thing() {}
func (Class) thing()     {}

func (r Resource) ID() ThingID  { return r.ThingID }
func (l Literal) ID() ThingID   { return l.ThingID }
func (p Predicate) ID() ThingID { return p.ThingID }
func (c Class) ID() ThingID     { return c.ThingID }

func (r Resource) Label() string  { return r.Text }
func (l Literal) Label() string   { return l.Text }
func (p Predicate) Label() string { return p.Text }
func (c Class) Label() string     { return c.Text }

func (Resource) Kind() ThingKind  { return KindResource }
func (Literal) Kind() ThingKind   { return KindLiteral }
func (Predicate) Kind() ThingKind { return KindPredicate }
func (Class) Kind() ThingKind     { return KindClass }

// HasClass reports whether the resource is an instance of class.
func (r Resource) HasClass(class ThingID) bool {
	return slices.Contains(r.Classes, class)
}

// IsList reports whether the resource is an ordered list.
func (r Resource) IsList() bool {
	return r.HasClass(ClassList)
}

// Statement is an immutable subject-predicate-object triple.
//
// Object is hydrated by the repository so that literal-valued statements can
// be compared by label without a second lookup.
type Statement struct {
	ID        StatementID
	Subject   ThingID
	Predicate ThingID
	Object    Thing
	CreatedBy string
	CreatedAt time.Time
	Seq       int64
}

// ObjectID returns the id of the statement's object, or "" if unset.
func (s Statement) ObjectID() ThingID {
	if s.Object == nil {
		return ""
	}
	return s.Object.ID()
}

// StatementIDs collects the ids of statements in order.
func StatementIDs(statements []Statement) []StatementID {
	ids := make([]StatementID, 0, len(statements))
	for _, st := range statements {
		ids = append(ids, st.ID)
	}
	return ids
}
