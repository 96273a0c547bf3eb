// Package testutil provides deterministic helpers for CLI and golden tests.
package testutil

import (
	"fmt"
	"sync"
)

// DefaultRunID is returned by a FixedRunIDGenerator created with "".
const DefaultRunID = "test-run-default"

// FixedRunIDGenerator returns the same run ID every time, so JSON responses
// can be compared byte for byte.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator that always returns id.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequenceRunIDGenerator returns predetermined run IDs in order.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewSequenceRunIDGenerator creates a generator that returns ids in order.
func NewSequenceRunIDGenerator(ids ...string) *SequenceRunIDGenerator {
	return &SequenceRunIDGenerator{ids: ids}
}

// Generate returns the next run ID. It panics once every ID has been used,
// which means a test issued more runs than it planned for.
func (g *SequenceRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("SequenceRunIDGenerator: all %d run IDs used", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
