// Package cache memoizes diagnostics by document content, so unchanged text
// is never linted twice.
package cache

import (
	"fmt"

	"texsense/internal/lint"
	"texsense/internal/syntax"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
)

// DefaultMaxEntries bounds the memo when no size is given.
const DefaultMaxEntries = 1 << 12

// Linter is the part of lint.Linter the memo wraps.
type Linter interface {
	Lint(text string, tree *syntax.Tree) []lint.Diagnostic
}

// Diagnostics wraps a Linter with a content-addressed cache. Entries are
// keyed by the xxhash of the text and cost one unit each.
type Diagnostics struct {
	linter Linter
	c      *ristretto.Cache[uint64, []lint.Diagnostic]
}

// New creates a memo holding up to maxEntries results.
func New(linter Linter, maxEntries int64) (*Diagnostics, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	c, err := ristretto.NewCache(&ristretto.Config[uint64, []lint.Diagnostic]{
		NumCounters:        maxEntries * 10, // ~10x expected items
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostics cache: %w", err)
	}
	return &Diagnostics{linter: linter, c: c}, nil
}

// Lint returns the cached diagnostics for text, computing and storing them
// on a miss. The tree only matters on a miss.
func (d *Diagnostics) Lint(text string, tree *syntax.Tree) []lint.Diagnostic {
	key := xxhash.Sum64String(text)
	if diags, ok := d.c.Get(key); ok {
		return diags
	}
	diags := d.linter.Lint(text, tree)
	d.c.Set(key, diags, 1)
	return diags
}

// Wait blocks until pending writes are visible to Lint.
func (d *Diagnostics) Wait() {
	d.c.Wait()
}

// Close shuts down the cache and releases resources.
func (d *Diagnostics) Close() {
	d.c.Close()
}
