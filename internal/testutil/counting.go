package testutil

import (
	"context"
	"sync"

	"github.com/roach88/kgraph/internal/graph"
)

// CountingRepository wraps a graph.Repository and counts lookups and
// writes. Tests use it to assert "at most one lookup per reference" and
// "zero mutations" properties.
//
// Thread-safety: counters are protected by a mutex.
type CountingRepository struct {
	graph.Repository

	mu                sync.Mutex
	lookups           map[graph.ThingID]int
	uriLookups        map[string]int
	statementQueries  int
	createdStatements []graph.StatementID
	deletedStatements []graph.StatementID
	createdThings     []graph.ThingID
	updatedThings     []graph.ThingID
	deletedThings     []graph.ThingID
}

// NewCountingRepository wraps inner.
func NewCountingRepository(inner graph.Repository) *CountingRepository {
	return &CountingRepository{
		Repository: inner,
		lookups:    map[graph.ThingID]int{},
		uriLookups: map[string]int{},
	}
}

// Mutations summarizes writes since creation or the last Reset.
type Mutations struct {
	StatementsCreated int
	StatementsDeleted int
	ThingsCreated     int
	ThingsUpdated     int
	ThingsDeleted     int
}

// Total is the number of individual writes.
func (m Mutations) Total() int {
	return m.StatementsCreated + m.StatementsDeleted + m.ThingsCreated + m.ThingsUpdated + m.ThingsDeleted
}

// Mutations returns the write counters.
func (c *CountingRepository) Mutations() Mutations {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Mutations{
		StatementsCreated: len(c.createdStatements),
		StatementsDeleted: len(c.deletedStatements),
		ThingsCreated:     len(c.createdThings),
		ThingsUpdated:     len(c.updatedThings),
		ThingsDeleted:     len(c.deletedThings),
	}
}

// Lookups returns how often FindThing was called for id.
func (c *CountingRepository) Lookups(id graph.ThingID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookups[id]
}

// URILookups returns how often FindClassByURI was called for uri.
func (c *CountingRepository) URILookups(uri string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uriLookups[uri]
}

// StatementQueries returns how often FindStatements was called.
func (c *CountingRepository) StatementQueries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statementQueries
}

// DeletedStatements returns the ids passed to DeleteStatements, in order.
func (c *CountingRepository) DeletedStatements() []graph.StatementID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]graph.StatementID(nil), c.deletedStatements...)
}

// CreatedStatements returns the ids returned by CreateStatement, in order.
func (c *CountingRepository) CreatedStatements() []graph.StatementID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]graph.StatementID(nil), c.createdStatements...)
}

// DeletedThings returns the ids passed to DeleteResource, in order.
func (c *CountingRepository) DeletedThings() []graph.ThingID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]graph.ThingID(nil), c.deletedThings...)
}

// Reset clears every counter.
func (c *CountingRepository) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups = map[graph.ThingID]int{}
	c.uriLookups = map[string]int{}
	c.statementQueries = 0
	c.createdStatements = nil
	c.deletedStatements = nil
	c.createdThings = nil
	c.updatedThings = nil
	c.deletedThings = nil
}

func (c *CountingRepository) FindThing(ctx context.Context, id graph.ThingID) (graph.Thing, bool, error) {
	c.mu.Lock()
	c.lookups[id]++
	c.mu.Unlock()
	return c.Repository.FindThing(ctx, id)
}

func (c *CountingRepository) FindClassByURI(ctx context.Context, uri string) (graph.Class, bool, error) {
	c.mu.Lock()
	c.uriLookups[uri]++
	c.mu.Unlock()
	return c.Repository.FindClassByURI(ctx, uri)
}

func (c *CountingRepository) FindStatements(ctx context.Context, q graph.StatementQuery) ([]graph.Statement, error) {
	c.mu.Lock()
	c.statementQueries++
	c.mu.Unlock()
	return c.Repository.FindStatements(ctx, q)
}

func (c *CountingRepository) CreateResource(ctx context.Context, in graph.CreateResource) (graph.ThingID, error) {
	return c.recordThing(c.Repository.CreateResource(ctx, in))
}

func (c *CountingRepository) CreateLiteral(ctx context.Context, in graph.CreateLiteral) (graph.ThingID, error) {
	return c.recordThing(c.Repository.CreateLiteral(ctx, in))
}

func (c *CountingRepository) CreatePredicate(ctx context.Context, in graph.CreatePredicate) (graph.ThingID, error) {
	return c.recordThing(c.Repository.CreatePredicate(ctx, in))
}

func (c *CountingRepository) CreateClass(ctx context.Context, in graph.CreateClass) (graph.ThingID, error) {
	return c.recordThing(c.Repository.CreateClass(ctx, in))
}

func (c *CountingRepository) CreateList(ctx context.Context, in graph.CreateList) (graph.ThingID, error) {
	return c.recordThing(c.Repository.CreateList(ctx, in))
}

func (c *CountingRepository) UpdateResourceLabel(ctx context.Context, id graph.ThingID, label string) error {
	return c.recordUpdate(id, c.Repository.UpdateResourceLabel(ctx, id, label))
}

func (c *CountingRepository) UpdateLiteral(ctx context.Context, id graph.ThingID, label, datatype string) error {
	return c.recordUpdate(id, c.Repository.UpdateLiteral(ctx, id, label, datatype))
}

func (c *CountingRepository) UpdateListElements(ctx context.Context, id graph.ThingID, elements []graph.ThingID, contributor string) error {
	return c.recordUpdate(id, c.Repository.UpdateListElements(ctx, id, elements, contributor))
}

func (c *CountingRepository) DeleteResource(ctx context.Context, id graph.ThingID) error {
	if err := c.Repository.DeleteResource(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedThings = append(c.deletedThings, id)
	return nil
}

func (c *CountingRepository) CreateStatement(ctx context.Context, in graph.CreateStatement) (graph.StatementID, error) {
	id, err := c.Repository.CreateStatement(ctx, in)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createdStatements = append(c.createdStatements, id)
	return id, nil
}

func (c *CountingRepository) DeleteStatements(ctx context.Context, ids []graph.StatementID) error {
	if err := c.Repository.DeleteStatements(ctx, ids); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedStatements = append(c.deletedStatements, ids...)
	return nil
}

func (c *CountingRepository) recordThing(id graph.ThingID, err error) (graph.ThingID, error) {
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createdThings = append(c.createdThings, id)
	return id, nil
}

func (c *CountingRepository) recordUpdate(id graph.ThingID, err error) error {
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updatedThings = append(c.updatedThings, id)
	return nil
}
