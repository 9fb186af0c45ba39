// Package source provides the position and range types shared by every
// compiler component for caret-accurate diagnostics.
//
// The compiler core never reads source files itself (that is the scanner's
// job, out of scope per the top-level spec); it only carries the ranges the
// scanner/parser attached to each token through to diagnostics.
package source

import "fmt"

// Position identifies a single byte in a named source file by line and
// column, both 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether p names an actual source location.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "<unknown>"
	}
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Range is a half-open span [Begin, End) used to highlight the offending
// text of a diagnostic.
type Range struct {
	Begin Position
	End   Position
}

// IsValid reports whether r has a usable Begin position.
func (r Range) IsValid() bool {
	return r.Begin.IsValid()
}

func (r Range) String() string {
	return r.Begin.String()
}

// None is the sentinel range used for diagnostics that are not anchored to
// any particular source location (e.g. cross-file relocation errors raised
// after every file has already been parsed and released).
var None = Range{}
