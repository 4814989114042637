package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/kgraph/internal/graph"
)

// thingColumns selects a thing plus its classes as "position:id" pairs.
// GROUP_CONCAT order is unspecified, so parseClasses sorts by position.
const thingColumns = `
	t.id, t.kind, t.label, t.datatype, t.uri, t.modifiable, t.created_by, t.created_at,
	(SELECT GROUP_CONCAT(rc.position || ':' || rc.class_id, ',')
	 FROM resource_classes rc WHERE rc.resource_id = t.id)
`

// nextID stamps a new seq and derives an id with the given prefix.
func (s *Store) nextID(prefix string) (string, int64) {
	seq := s.clock.Next()
	return prefix + strconv.FormatInt(seq, 10), seq
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *Store) insertThing(ctx context.Context, prefix string, kind graph.ThingKind, label string, datatype, uri *string, contributor string) (graph.ThingID, error) {
	id, seq := s.nextID(prefix)
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO things (id, kind, label, datatype, uri, modifiable, created_by, created_at, seq)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)
	`, id, string(kind), label, datatype, uri, contributor, s.timestamp(), seq)
	if err != nil {
		return "", err
	}
	return graph.ThingID(id), nil
}

// CreateResource inserts a resource and its class memberships.
func (s *Store) CreateResource(ctx context.Context, in graph.CreateResource) (graph.ThingID, error) {
	id, err := s.insertThing(ctx, "R", graph.KindResource, in.Label, nil, nil, in.Contributor)
	if err != nil {
		return "", fmt.Errorf("write resource: %w", err)
	}
	if err := s.insertClasses(ctx, id, in.Classes); err != nil {
		return "", fmt.Errorf("write resource: %w", err)
	}
	return id, nil
}

func (s *Store) insertClasses(ctx context.Context, id graph.ThingID, classes []graph.ThingID) error {
	for i, class := range classes {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO resource_classes (resource_id, class_id, position)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`, string(id), string(class), i)
		if err != nil {
			return fmt.Errorf("class %s: %w", class, err)
		}
	}
	return nil
}

// UpdateResourceLabel changes a resource's label in place.
func (s *Store) UpdateResourceLabel(ctx context.Context, id graph.ThingID, label string) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE things SET label = ? WHERE id = ? AND kind = 'resource'
	`, label, string(id))
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}
	return requireAffected(res, id)
}

// DeleteResource removes a resource. It fails with graph.CodeThingInUse
// while any statement still uses the resource as subject or object.
func (s *Store) DeleteResource(ctx context.Context, id graph.ThingID) error {
	var uses int
	err := s.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM statements WHERE subject_id = ? OR object_id = ?
	`, string(id), string(id)).Scan(&uses)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if uses > 0 {
		return graph.ThingInUse(id)
	}

	res, err := s.q.ExecContext(ctx, `
		DELETE FROM things WHERE id = ? AND kind = 'resource'
	`, string(id))
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return requireAffected(res, id)
}

// CreateLiteral inserts a literal. An empty datatype is stored as xsd:string.
func (s *Store) CreateLiteral(ctx context.Context, in graph.CreateLiteral) (graph.ThingID, error) {
	datatype := in.Datatype
	if datatype == "" {
		datatype = graph.DatatypeString
	}
	id, err := s.insertThing(ctx, "L", graph.KindLiteral, in.Label, &datatype, nil, in.Contributor)
	if err != nil {
		return "", fmt.Errorf("write literal: %w", err)
	}
	return id, nil
}

// UpdateLiteral changes a literal's label and datatype in place.
func (s *Store) UpdateLiteral(ctx context.Context, id graph.ThingID, label, datatype string) error {
	if datatype == "" {
		datatype = graph.DatatypeString
	}
	res, err := s.q.ExecContext(ctx, `
		UPDATE things SET label = ?, datatype = ? WHERE id = ? AND kind = 'literal'
	`, label, datatype, string(id))
	if err != nil {
		return fmt.Errorf("update literal: %w", err)
	}
	return requireAffected(res, id)
}

// CreatePredicate inserts a predicate.
func (s *Store) CreatePredicate(ctx context.Context, in graph.CreatePredicate) (graph.ThingID, error) {
	id, err := s.insertThing(ctx, "P", graph.KindPredicate, in.Label, nil, nil, in.Contributor)
	if err != nil {
		return "", fmt.Errorf("write predicate: %w", err)
	}
	return id, nil
}

// CreateClass inserts a class. An empty URI is stored as NULL.
func (s *Store) CreateClass(ctx context.Context, in graph.CreateClass) (graph.ThingID, error) {
	var uri *string
	if in.URI != "" {
		uri = &in.URI
	}
	id, err := s.insertThing(ctx, "C", graph.KindClass, in.Label, nil, uri, in.Contributor)
	if err != nil {
		return "", fmt.Errorf("write class: %w", err)
	}
	return id, nil
}

// CreateList inserts a resource of class List and links its elements in order.
func (s *Store) CreateList(ctx context.Context, in graph.CreateList) (graph.ThingID, error) {
	id, err := s.CreateResource(ctx, graph.CreateResource{
		Label:       in.Label,
		Classes:     []graph.ThingID{graph.ClassList},
		Contributor: in.Contributor,
	})
	if err != nil {
		return "", fmt.Errorf("write list: %w", err)
	}
	if err := s.linkElements(ctx, id, in.Elements, in.Contributor); err != nil {
		return "", fmt.Errorf("write list: %w", err)
	}
	return id, nil
}

// UpdateListElements replaces the elements of a list.
func (s *Store) UpdateListElements(ctx context.Context, id graph.ThingID, elements []graph.ThingID, contributor string) error {
	existing, err := s.FindStatements(ctx, graph.StatementQuery{
		Subject:   id,
		Predicate: graph.PredicateHasListElement,
	})
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if err := s.DeleteStatements(ctx, graph.StatementIDs(existing)); err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if err := s.linkElements(ctx, id, elements, contributor); err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

func (s *Store) linkElements(ctx context.Context, list graph.ThingID, elements []graph.ThingID, contributor string) error {
	for _, el := range elements {
		_, err := s.CreateStatement(ctx, graph.CreateStatement{
			Subject:     list,
			Predicate:   graph.PredicateHasListElement,
			Object:      el,
			Contributor: contributor,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// FindThing retrieves a single thing by id.
// Returns (nil, false, nil) if no thing has that id.
func (s *Store) FindThing(ctx context.Context, id graph.ThingID) (graph.Thing, bool, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+thingColumns+` FROM things t WHERE t.id = ?`, string(id))

	th, err := scanThing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read thing %s: %w", id, err)
	}
	return th, true, nil
}

// FindClassByURI retrieves the class with the given URI.
func (s *Store) FindClassByURI(ctx context.Context, uri string) (graph.Class, bool, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+thingColumns+` FROM things t WHERE t.kind = 'class' AND t.uri = ?`, uri)

	th, err := scanThing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Class{}, false, nil
	}
	if err != nil {
		return graph.Class{}, false, fmt.Errorf("read class by uri: %w", err)
	}
	return th.(graph.Class), true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThing(row rowScanner) (graph.Thing, error) {
	var (
		id, kind, label, createdBy, createdAt string
		datatype, uri, classes                sql.NullString
		modifiable                            bool
	)
	if err := row.Scan(&id, &kind, &label, &datatype, &uri, &modifiable, &createdBy, &createdAt, &classes); err != nil {
		return nil, err
	}
	return buildThing(id, kind, label, datatype, uri, modifiable, createdBy, createdAt, classes)
}

func buildThing(id, kind, label string, datatype, uri sql.NullString, modifiable bool, createdBy, createdAt string, classes sql.NullString) (graph.Thing, error) {
	at, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of %s: %w", id, err)
	}

	switch graph.ThingKind(kind) {
	case graph.KindResource:
		r := graph.Resource{
			ThingID:    graph.ThingID(id),
			Text:       label,
			Modifiable: modifiable,
			CreatedBy:  createdBy,
			CreatedAt:  at,
			Classes:    []graph.ThingID{},
		}
		if classes.Valid && classes.String != "" {
			parsed, err := parseClasses(classes.String)
			if err != nil {
				return nil, fmt.Errorf("classes of %s: %w", id, err)
			}
			r.Classes = parsed
		}
		return r, nil
	case graph.KindLiteral:
		return graph.Literal{
			ThingID:   graph.ThingID(id),
			Text:      label,
			Datatype:  datatype.String,
			CreatedBy: createdBy,
			CreatedAt: at,
		}, nil
	case graph.KindPredicate:
		return graph.Predicate{
			ThingID:   graph.ThingID(id),
			Text:      label,
			CreatedBy: createdBy,
			CreatedAt: at,
		}, nil
	case graph.KindClass:
		return graph.Class{
			ThingID:   graph.ThingID(id),
			Text:      label,
			URI:       uri.String,
			CreatedBy: createdBy,
			CreatedAt: at,
		}, nil
	default:
		return nil, fmt.Errorf("unknown thing kind %q for %s", kind, id)
	}
}

func parseClasses(joined string) ([]graph.ThingID, error) {
	type entry struct {
		pos int
		id  graph.ThingID
	}
	parts := strings.Split(joined, ",")
	entries := make([]entry, 0, len(parts))
	for _, p := range parts {
		pos, id, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("malformed class entry %q", p)
		}
		n, err := strconv.Atoi(pos)
		if err != nil {
			return nil, fmt.Errorf("malformed class position %q: %w", p, err)
		}
		entries = append(entries, entry{pos: n, id: graph.ThingID(id)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })

	ids := make([]graph.ThingID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids, nil
}

func requireAffected(res sql.Result, id graph.ThingID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return graph.ThingNotFound(id)
	}
	return nil
}
