package testutil

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SequentialRequestIDs generates "req-1", "req-2", ... so that request ids
// in logs and snapshots are stable across runs.
//
// Thread-safety: safe for concurrent use.
type SequentialRequestIDs struct {
	mu   sync.Mutex
	next int
}

// NewSequentialRequestIDs creates a generator whose first id is "req-1".
func NewSequentialRequestIDs() *SequentialRequestIDs {
	return &SequentialRequestIDs{}
}

// Generate returns the next request id.
//
// Implements actions.RequestIDGenerator.
func (g *SequentialRequestIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("req-%d", g.next)
}

// ContributorID returns a stable contributor UUID for test number n.
//
//	testutil.ContributorID(1) // 00000000-0000-0000-0000-000000000001
func ContributorID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}
