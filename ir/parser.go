// Package ir implements the Parser IR and Sema IR data model of §3/§4.D/§4.G:
// immutable per-line records produced by a builder that interns names in the
// arena and takes its own copy of argument slices, plus the generic intrusive LinkedIR list
// both IR streams are carried in.
package ir

import "github.com/thelink2012/gta3sc-sub001/source"

// ArgumentKind is the tagged-union discriminant of a Parser IR Argument.
type ArgumentKind int

const (
	ArgInt ArgumentKind = iota
	ArgFloat
	ArgIdentifier
	ArgFilename
	ArgString
)

// Argument is a single Parser IR argument: a tagged union over
// {int, float, identifier, filename, string} with a source range (§3).
type Argument struct {
	Kind  ArgumentKind
	Int   int32
	Float float64
	Text  string // identifier / filename / string payload
	Range source.Range
}

// LabelDef is a label definition attached to a Parser IR line.
type LabelDef struct {
	Name  string
	Range source.Range
}

// Command is a Parser IR command: an interned upper-case name, an optional
// not-flag, a source range and its arguments.
type Command struct {
	Name  string
	Not   bool
	Range source.Range
	Args  []Argument
}

// Line is a single Parser IR node's payload: at most one label definition
// and at most one command, either of which may be absent (§3).
type Line struct {
	Label   *LabelDef
	Command *Command
}

// ParserIR is a LinkedIR of parser lines — the stream handed from the
// (out-of-scope) syntactic parser into lowering and semantic analysis.
type ParserIR = LinkedIR[Line]

// Builder funnels every Parser IR construction through name interning and
// argument copies: names are interned through the arena, while argument
// slices are copied into ordinary Go-allocated slices, not into the arena.
type Builder struct {
	intern func(string) string
}

// Interner is satisfied by *arena.Arena; kept as a narrow interface here so
// this package does not need to import arena for its exported surface.
type Interner interface {
	InternIdent(string) string
	InternString(string) string
}

// NewBuilder creates a Builder that interns identifiers/command names
// through a.
func NewBuilder(a Interner) *Builder {
	return &Builder{intern: a.InternIdent}
}

// NewLabelDef creates a label definition, interning its name.
func (b *Builder) NewLabelDef(name string, rng source.Range) *LabelDef {
	return &LabelDef{Name: b.intern(name), Range: rng}
}

// NewCommand creates a command, interning its name. args is copied (not
// aliased) so later mutation of the caller's slice cannot affect the node.
func (b *Builder) NewCommand(name string, not bool, rng source.Range, args []Argument) *Command {
	cp := make([]Argument, len(args))
	copy(cp, args)
	return &Command{Name: b.intern(name), Not: not, Range: rng, Args: cp}
}

// NewLine produces an immutable line from an optional label and an optional
// command.
func (b *Builder) NewLine(label *LabelDef, cmd *Command) Line {
	return Line{Label: label, Command: cmd}
}

// IntArg builds an int argument.
func IntArg(v int32, rng source.Range) Argument {
	return Argument{Kind: ArgInt, Int: v, Range: rng}
}

// FloatArg builds a float argument.
func FloatArg(v float64, rng source.Range) Argument {
	return Argument{Kind: ArgFloat, Float: v, Range: rng}
}

// IdentArg builds an identifier argument. The identifier is NOT
// case-folded here — sema decides whether/how to resolve it, since at the
// parser IR stage it might be a variable, label, constant or subscripted
// variable reference, none of which have been classified yet (§4.G).
func IdentArg(text string, rng source.Range) Argument {
	return Argument{Kind: ArgIdentifier, Text: text, Range: rng}
}

// FilenameArg builds a filename argument.
func FilenameArg(text string, rng source.Range) Argument {
	return Argument{Kind: ArgFilename, Text: text, Range: rng}
}

// StringArg builds a quoted-string argument.
func StringArg(text string, rng source.Range) Argument {
	return Argument{Kind: ArgString, Text: text, Range: rng}
}
