package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/kgraph/internal/graph"
)

// deleteBatchSize keeps IN (...) lists below SQLite's variable limit.
const deleteBatchSize = 500

// CreateStatement inserts a statement. All three ends must exist.
func (s *Store) CreateStatement(ctx context.Context, in graph.CreateStatement) (graph.StatementID, error) {
	id, seq := s.nextID("S")
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO statements (id, subject_id, predicate_id, object_id, created_by, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, string(in.Subject), string(in.Predicate), string(in.Object), in.Contributor, s.timestamp(), seq)
	if err != nil {
		return "", fmt.Errorf("write statement (%s, %s, %s): %w", in.Subject, in.Predicate, in.Object, err)
	}
	return graph.StatementID(id), nil
}

// DeleteStatements removes statements by id. Unknown ids are ignored.
func (s *Store) DeleteStatements(ctx context.Context, ids []graph.StatementID) error {
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(ids))
		batch := ids[start:end]

		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = string(id)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")

		if _, err := s.q.ExecContext(ctx, `DELETE FROM statements WHERE id IN (`+placeholders+`)`, args...); err != nil {
			return fmt.Errorf("delete statements: %w", err)
		}
	}
	return nil
}

// FindStatements returns the statements matching q with their objects
// hydrated. Results are ordered by seq ASC, id ASC.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) FindStatements(ctx context.Context, q graph.StatementQuery) ([]graph.Statement, error) {
	var (
		where []string
		args  []any
	)
	if q.Subject != "" {
		where = append(where, "s.subject_id = ?")
		args = append(args, string(q.Subject))
	}
	if q.Predicate != "" {
		where = append(where, "s.predicate_id = ?")
		args = append(args, string(q.Predicate))
	}
	if q.Object != "" {
		where = append(where, "s.object_id = ?")
		args = append(args, string(q.Object))
	}
	if q.ObjectLabel != "" {
		where = append(where, "t.label = ?")
		args = append(args, q.ObjectLabel)
	}

	query := `
		SELECT s.id, s.subject_id, s.predicate_id, s.created_by, s.created_at, s.seq, ` + thingColumns + `
		FROM statements s
		JOIN things t ON t.id = s.object_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY s.seq ASC, s.id COLLATE BINARY ASC"

	limit := q.Page.Limit
	if limit <= 0 {
		limit = -1
	}
	query += "\n\t\tLIMIT ? OFFSET ?"
	args = append(args, limit, q.Page.Offset)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var statements []graph.Statement
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	// Return empty slice instead of nil
	if statements == nil {
		statements = []graph.Statement{}
	}

	return statements, nil
}

func scanStatement(rows *sql.Rows) (graph.Statement, error) {
	var (
		st                                   graph.Statement
		id, subject, predicate               string
		stCreatedBy, stCreatedAt             string
		objID, kind, label, createdBy, objAt string
		datatype, uri, classes               sql.NullString
		modifiable                           bool
	)
	err := rows.Scan(
		&id, &subject, &predicate, &stCreatedBy, &stCreatedAt, &st.Seq,
		&objID, &kind, &label, &datatype, &uri, &modifiable, &createdBy, &objAt, &classes,
	)
	if err != nil {
		return graph.Statement{}, fmt.Errorf("scan statement: %w", err)
	}

	obj, err := buildThing(objID, kind, label, datatype, uri, modifiable, createdBy, objAt, classes)
	if err != nil {
		return graph.Statement{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, stCreatedAt)
	if err != nil {
		return graph.Statement{}, fmt.Errorf("parse created_at of %s: %w", id, err)
	}

	st.ID = graph.StatementID(id)
	st.Subject = graph.ThingID(subject)
	st.Predicate = graph.ThingID(predicate)
	st.Object = obj
	st.CreatedBy = stCreatedBy
	st.CreatedAt = at
	return st, nil
}

// SetModifiable toggles whether a resource may be changed by update
// workflows. Published content is locked this way.
func (s *Store) SetModifiable(ctx context.Context, id graph.ThingID, modifiable bool) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE things SET modifiable = ? WHERE id = ? AND kind = 'resource'
	`, modifiable, string(id))
	if err != nil {
		return fmt.Errorf("update modifiable: %w", err)
	}
	return requireAffected(res, id)
}
