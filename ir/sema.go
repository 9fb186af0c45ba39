package ir

import (
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// SemaArgumentKind is the tagged-union discriminant of a Sema IR argument.
type SemaArgumentKind int

const (
	SemaInt SemaArgumentKind = iota
	SemaFloat
	SemaTextLabelString
	SemaQuotedString
	SemaVariable
	SemaLabel
	SemaFilename
	SemaUsedObject
	SemaStringConstant
)

// VarRef is a resolved variable reference, optionally carrying a constant or
// variable subscript (§3: "Variable references may additionally carry a
// constant or variable subscript"). Array-indexed references are accepted by
// sema but codegen does not yet emit them (§9 open question (iii),
// SPEC_FULL.md §14.3).
type VarRef struct {
	Var *symbol.Variable

	HasIndex     bool
	IndexIsConst bool
	IndexConst   int32
	IndexVar     *symbol.Variable
}

// SemaArgument is the validated analog of a Parser IR Argument: a tagged
// union over {int, float, text-label string, quoted string, variable
// reference, label pointer, filename pointer, used-object pointer,
// string-constant} (§3).
type SemaArgument struct {
	Kind  SemaArgumentKind
	Range source.Range

	Int   int32
	Float float64
	Text  string // text-label / quoted-string payload

	Var        *VarRef
	Label      *symbol.Label
	File       *symbol.FileDef
	UsedObject *symbol.UsedObject

	ConstEnum  command.EnumID
	ConstValue int32
}

// AsInt returns the argument's value punned as an integer, valid for
// SemaInt and SemaStringConstant kinds (mirroring pun_as_int in the
// original codegen, which treats enum constants as plain integers once
// resolved).
func (a *SemaArgument) AsInt() int32 {
	if a.Kind == SemaStringConstant {
		return a.ConstValue
	}
	return a.Int
}

// SemaCommand is the validated analog of a Parser IR Command: it references
// its resolved CommandDef (possibly via an alternator match), a not-flag, a
// source range, and validated arguments.
type SemaCommand struct {
	Def   *command.CommandDef
	Not   bool
	Range source.Range
	Args  []SemaArgument
}

// SemaLine is one Sema IR node's payload: an optional pointer to the label
// symbol defined at this line, and an optional validated command (§3).
type SemaLine struct {
	Label   *symbol.Label
	Command *SemaCommand
}

// SemaIR is a LinkedIR of sema lines, produced by pass 2 of the semantic
// analyzer (§4.G) and consumed by the trilogy code generator (§4.J).
type SemaIR = LinkedIR[SemaLine]
