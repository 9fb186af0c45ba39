// Package namegen generates unique label names for lowering rewrites that
// must synthesize fresh labels (e.g. the REPEAT/ENDREPEAT rewriter), without
// ever colliding with a user-declared one.
package namegen

import (
	"fmt"
	"sync/atomic"
)

// defaultPrefix is "lbl@": user labels cannot contain '@' (§3), so any
// string built from this prefix is guaranteed not to collide with one.
const defaultPrefix = "lbl@"

// Generator produces unique strings suffixed by a monotonically increasing
// counter. Generate is safe for concurrent use; Generator itself must not be
// copied after first use (the embedded counter is an atomic value).
type Generator struct {
	prefix  string
	counter atomic.Uint32
}

// New creates a Generator using the default "lbl@" prefix.
func New() *Generator {
	return &Generator{prefix: defaultPrefix}
}

// NewWithPrefix creates a Generator whose generated strings are prefixed by
// prefix instead of the default. prefix must not contain characters that
// could collide with user-declared identifiers.
func NewWithPrefix(prefix string) *Generator {
	return &Generator{prefix: prefix}
}

// Generate returns a string unique among every prior call to Generate on g.
func (g *Generator) Generate() string {
	id := g.counter.Add(1) - 1
	return fmt.Sprintf("%s%d", g.prefix, id)
}
