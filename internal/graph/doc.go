// Package graph defines the typed knowledge-graph model shared by the
// reconciliation engine and its storage adapters.
//
// The graph is a set of things (resources, literals, predicates, classes)
// connected by statements. Statements are immutable subject-predicate-object
// triples with their own ids; "updating" a property means deleting the old
// statement and creating a new one, except where a literal's label is
// changed in place.
//
// # Ordering
//
// Every persisted thing and statement carries a Seq from a monotonic logical
// clock. Creation order (and therefore the order of list elements and of
// multi-valued properties) is defined by Seq, never by wall-clock time.
//
// # Ports
//
// The engine reads and writes the graph only through the interfaces in
// ports.go. internal/store provides the SQLite implementation.
package graph
