package actions

import (
	"sort"
	"strings"

	"github.com/roach88/kgraph/internal/graph"
)

const (
	// TempIDPrefix marks a thing defined in the same request.
	TempIDPrefix = "#"

	// BackReferencePrefix marks a positional reference to a sibling created
	// earlier in the same request.
	BackReferencePrefix = "^"
)

// IsTempID reports whether ref is a temp id (either prefix) rather than the
// id of a persisted thing.
func IsTempID(ref string) bool {
	return len(ref) >= 2 && (strings.HasPrefix(ref, TempIDPrefix) || strings.HasPrefix(ref, BackReferencePrefix))
}

// TempIDs is the set of temp ids declared by one request.
type TempIDs map[string]struct{}

// NewTempIDs builds a set from ids.
func NewTempIDs(ids ...string) TempIDs {
	set := make(TempIDs, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id was declared.
func (t TempIDs) Contains(id string) bool {
	_, ok := t[id]
	return ok
}

// Sorted returns the ids in lexical order.
func (t TempIDs) Sorted() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidateTempIDs checks client-declared temp ids. Every id must carry the
// "#" prefix and be at least two characters long, and no id may be
// declared more than once; duplicates are reported with their counts.
func ValidateTempIDs(declared []string) error {
	counts := make(map[string]int, len(declared))
	for _, id := range declared {
		if len(id) < 2 || !strings.HasPrefix(id, TempIDPrefix) {
			return graph.InvalidTempID(id)
		}
		counts[id]++
	}

	duplicates := make(map[string]int)
	for id, n := range counts {
		if n > 1 {
			duplicates[id] = n
		}
	}
	if len(duplicates) > 0 {
		return graph.DuplicateTempIDs(duplicates)
	}
	return nil
}
