// Package store provides SQLite-backed storage for the knowledge graph.
//
// The store implements every port in internal/graph:
//   - Things: resources, literals, predicates and classes in one table
//   - Resource classes: ordered class membership per resource
//   - Statements: subject-predicate-object triples with their own ids
//
// # Critical Patterns
//
// Logical identity and time
//   - Every thing and statement is stamped with seq from a monotonic clock
//   - Ids are derived from seq with a kind prefix (R, L, P, C, S)
//   - The clock resumes from MAX(seq) on open
//
// Deterministic query results
//   - All multi-row queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//   - List elements and multi-valued properties keep creation order
//
// Referential integrity
//   - Foreign keys are enforced; a thing still used by a statement
//     cannot be deleted (graph.CodeThingInUse)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Enforce referential integrity
//
// # Usage
//
//	s, err := store.Open("kgraph.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	err = s.WithTx(ctx, func(tx *store.Store) error {
//	    _, err := tx.CreateResource(ctx, graph.CreateResource{Label: "Results"})
//	    return err
//	})
package store
