package graph

import "context"

// Page selects a window of an ordered result. A zero Limit means "all".
type Page struct {
	Offset int
	Limit  int
}

// AllPages is the unbounded page.
var AllPages = Page{}

// StatementQuery filters statements. Empty fields match anything.
// ObjectLabel matches the label of the object thing exactly.
type StatementQuery struct {
	Subject     ThingID
	Predicate   ThingID
	Object      ThingID
	ObjectLabel string
	Page        Page
}

// ThingRepository looks up things by id. A missing thing is reported as
// (nil, false, nil); err is reserved for infrastructure failures.
type ThingRepository interface {
	FindThing(ctx context.Context, id ThingID) (Thing, bool, error)
}

// ClassRepository looks up classes by URI.
type ClassRepository interface {
	FindClassByURI(ctx context.Context, uri string) (Class, bool, error)
}

// StatementRepository queries statements in creation order.
type StatementRepository interface {
	FindStatements(ctx context.Context, q StatementQuery) ([]Statement, error)
}

// Reader is the read side of the graph.
type Reader interface {
	ThingRepository
	ClassRepository
	StatementRepository
}

// Writer holds the unchecked creation, update and deletion primitives.
// Callers must validate before writing.
type Writer interface {
	CreateResource(ctx context.Context, in CreateResource) (ThingID, error)
	UpdateResourceLabel(ctx context.Context, id ThingID, label string) error
	DeleteResource(ctx context.Context, id ThingID) error

	CreateLiteral(ctx context.Context, in CreateLiteral) (ThingID, error)
	UpdateLiteral(ctx context.Context, id ThingID, label, datatype string) error

	CreatePredicate(ctx context.Context, in CreatePredicate) (ThingID, error)
	CreateClass(ctx context.Context, in CreateClass) (ThingID, error)

	CreateList(ctx context.Context, in CreateList) (ThingID, error)
	UpdateListElements(ctx context.Context, id ThingID, elements []ThingID, contributor string) error

	CreateStatement(ctx context.Context, in CreateStatement) (StatementID, error)
	DeleteStatements(ctx context.Context, ids []StatementID) error
}

// Repository is the complete graph port.
type Repository interface {
	Reader
	Writer
}

// CreateResource is the input of Writer.CreateResource.
type CreateResource struct {
	Label       string
	Classes     []ThingID
	Contributor string
}

// CreateLiteral is the input of Writer.CreateLiteral. An empty Datatype
// means DatatypeString.
type CreateLiteral struct {
	Label       string
	Datatype    string
	Contributor string
}

// CreatePredicate is the input of Writer.CreatePredicate.
type CreatePredicate struct {
	Label       string
	Contributor string
}

// CreateClass is the input of Writer.CreateClass.
type CreateClass struct {
	Label       string
	URI         string
	Contributor string
}

// CreateList is the input of Writer.CreateList.
type CreateList struct {
	Label       string
	Elements    []ThingID
	Contributor string
}

// CreateStatement is the input of Writer.CreateStatement.
type CreateStatement struct {
	Subject     ThingID
	Predicate   ThingID
	Object      ThingID
	Contributor string
}
