// Package diag implements the diagnostic records and handler described in
// §4.E of the spec: typed error records with source ranges, counted per
// analyzer so callers can distinguish a fatal pass from a recoverable one.
package diag

import (
	"fmt"

	"github.com/thelink2012/gta3sc-sub001/source"
)

// Level is the severity of a Diagnostic.
type Level int

const (
	Error Level = iota
	Warning
	Note
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "diagnostic"
	}
}

// Diagnostic is a single typed error record with its source range and
// format arguments, exactly as §4.E describes it.
type Diagnostic struct {
	Level Level
	Kind  Kind
	Range source.Range
	Args  []interface{}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Range, d.Level, d.Kind)
}

// Handler accumulates diagnostics as they are created and forwards them to
// an emit callback; it keeps per-level counts so an analyzer can tell a
// fatal error count from a merely-noted one (§4.G: "any error increments a
// counter; on nonzero the sema result is discarded").
type Handler struct {
	emit       func(Diagnostic)
	errorCount int
	warnCount  int
}

// NewHandler creates a Handler that forwards every reported Diagnostic to
// emit. emit may be nil, in which case diagnostics are only counted.
func NewHandler(emit func(Diagnostic)) *Handler {
	return &Handler{emit: emit}
}

// Report records and (if a callback was supplied) emits a diagnostic
// immediately, with its range and args given up front. Use Build for the
// fluent form when a range or args are attached step by step.
func (h *Handler) Report(level Level, kind Kind, rng source.Range, args ...interface{}) {
	d := Diagnostic{Level: level, Kind: kind, Range: rng, Args: args}
	h.record(d)
}

// Build starts a fluent diagnostic; call Emit to report it. This mirrors the
// original DiagnosticBuilder's chained-information accumulation, adapted to
// Go's lack of emit-on-destruction: Emit is the explicit equivalent.
func (h *Handler) Build(level Level, kind Kind) *Builder {
	return &Builder{h: h, d: Diagnostic{Level: level, Kind: kind}}
}

func (h *Handler) record(d Diagnostic) {
	switch d.Level {
	case Error:
		h.errorCount++
	case Warning:
		h.warnCount++
	}
	if h.emit != nil {
		h.emit(d)
	}
}

// ErrorCount returns the number of Error-level diagnostics reported so far.
func (h *Handler) ErrorCount() int { return h.errorCount }

// WarningCount returns the number of Warning-level diagnostics reported so far.
func (h *Handler) WarningCount() int { return h.warnCount }

// HasErrors reports whether any Error-level diagnostic has been reported.
func (h *Handler) HasErrors() bool { return h.errorCount > 0 }

// Builder accumulates a Diagnostic's range and arguments before it is
// emitted via Emit.
type Builder struct {
	h *Handler
	d Diagnostic
}

// WithRange attaches the source range to highlight.
func (b *Builder) WithRange(r source.Range) *Builder {
	b.d.Range = r
	return b
}

// WithArgs attaches format arguments substituted into the diagnostic's
// message template by the presentation layer (out of scope here; this
// package only carries the typed data).
func (b *Builder) WithArgs(args ...interface{}) *Builder {
	b.d.Args = append(b.d.Args, args...)
	return b
}

// Emit reports the accumulated diagnostic.
func (b *Builder) Emit() {
	b.h.record(b.d)
}
