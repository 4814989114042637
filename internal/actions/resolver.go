package actions

import (
	"context"
	"fmt"

	"github.com/roach88/kgraph/internal/graph"
)

// Ref is the outcome of resolving a reference: exactly one of TempID (a
// thing this request will create) or Thing (a persisted thing) is set.
type Ref struct {
	TempID string
	Thing  graph.Thing
}

// IsTemp reports whether the reference names a not-yet-created thing.
func (r Ref) IsTemp() bool {
	return r.TempID != ""
}

// ValidationCache memoizes reference resolutions for one request. It is
// owned by the request's pipeline state and never shared across requests.
type ValidationCache map[string]Ref

// NewValidationCache returns an empty cache.
func NewValidationCache() ValidationCache {
	return ValidationCache{}
}

// Resolver turns reference strings into Refs, querying the thing
// repository at most once per distinct reference per cache.
type Resolver struct {
	things graph.ThingRepository
}

// NewResolver creates a resolver backed by things.
func NewResolver(things graph.ThingRepository) *Resolver {
	return &Resolver{things: things}
}

// Resolve resolves ref.
//
// A temp id resolves to itself if it was declared and fails with
// ThingNotDefined otherwise. Any other ref is looked up in the cache and
// then in the repository, failing with ThingNotFound. Successful
// resolutions are stored in cache before returning.
func (r *Resolver) Resolve(ctx context.Context, ref string, declared TempIDs, cache ValidationCache) (Ref, error) {
	if cached, ok := cache[ref]; ok {
		return cached, nil
	}

	if IsTempID(ref) {
		if !declared.Contains(ref) {
			return Ref{}, graph.ThingNotDefined(ref)
		}
		resolved := Ref{TempID: ref}
		cache[ref] = resolved
		return resolved, nil
	}

	th, ok, err := r.things.FindThing(ctx, graph.ThingID(ref))
	if err != nil {
		return Ref{}, fmt.Errorf("resolve %q: %w", ref, err)
	}
	if !ok {
		return Ref{}, graph.ThingNotFound(graph.ThingID(ref))
	}

	resolved := Ref{Thing: th}
	cache[ref] = resolved
	return resolved, nil
}
