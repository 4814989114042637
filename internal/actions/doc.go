// Package actions implements the command-to-graph reconciliation engine.
//
// A mutation request is an ordered pipeline of steps over a (command,
// state) pair. Validator steps run first: they resolve every reference the
// command makes (memoized in a per-request ValidationCache) and compute the
// plan. Mutator steps then apply the plan through the graph ports. The
// pipeline aborts on the first error and returns it unchanged.
//
// The building blocks are:
//   - Resolver: reference string -> temp id or persisted thing, once per request
//   - ValidateTempIDs: syntax and uniqueness of client-declared temp ids
//   - ThingDefinitionValidator: labels, datatypes, classes and list elements
//   - PlanSet / PlanSequence: statement-collection diffs, applied by
//     StatementCollectionUpdater
//   - SingleStatementUpdater: at-most-one-statement properties
//   - SubgraphCreator: materializes definitions and baked statements
//   - PartDeleter: ownership-aware deletion of shared parts
//   - Pipeline: the fold over steps, with logging and metrics
//
// Content types (internal/actions/tables, internal/actions/templates) are
// assembled from these pieces.
package actions
