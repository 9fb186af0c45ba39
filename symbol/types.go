// Package symbol implements the symbol table populated during semantic
// analysis: labels, scoped variables, used objects, models, and source
// files, each with a stable, dense, insertion-ordered id (§3, §4.C).
package symbol

import (
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/source"
)

// ScopeID is an opaque, dense scope identifier. GlobalScope is the fixed
// scope every top-level variable declaration belongs to; every `{ ... }`
// block allocates a fresh one.
type ScopeID int32

// GlobalScope is the fixed global scope id.
const GlobalScope ScopeID = 0

// VarType is the type of a declared variable.
type VarType int

const (
	VarInt VarType = iota
	VarFloat
	VarTextLabel
)

func (t VarType) String() string {
	switch t {
	case VarInt:
		return "INT"
	case VarFloat:
		return "FLOAT"
	case VarTextLabel:
		return "TEXT_LABEL"
	default:
		return "?"
	}
}

// SizeOf returns the number of storage slots a scalar of this type takes up
// (§4.H: 1 for INT/FLOAT, 2 for TEXT_LABEL).
func (t VarType) SizeOf() int {
	if t == VarTextLabel {
		return 2
	}
	return 1
}

// Variable is a declared (L)VAR_* symbol.
type Variable struct {
	Name       string
	Range      source.Range
	ID         int
	Scope      ScopeID
	Type       VarType
	Dimensions int // 0 means "scalar", otherwise >= 1 (§3 invariant)
	EntityType command.EntityID
}

// NumSlots returns the number of storage slots this variable occupies,
// accounting for array dimensions.
func (v *Variable) NumSlots() int {
	n := v.Dimensions
	if n < 1 {
		n = 1
	}
	return v.Type.SizeOf() * n
}

// Label is a named jump target.
type Label struct {
	Name  string
	Range source.Range
	ID    int
}

// UsedObject is a named external game object referenced from script.
type UsedObject struct {
	Name  string
	Range source.Range
	ID    int
}

// ModelDef is an external model definition (e.g. from an IDE file); loading
// models from level files is out of scope here (external collaborator), but
// the table that holds them is part of the symbol table (§3, §13 of
// SPEC_FULL.md: ModelTable wins over the older ModelManager design).
type ModelDef struct {
	Name string
	ID   int
}

// FileType classifies a source file for relocation segment purposes (§6).
type FileType int

const (
	FileMain FileType = iota
	FileMainExtension
	FileSubscript
	FileMission
)

// FileDef identifies a source file. TypeID is a dense ordinal within Type
// (e.g. the Nth mission file), used by the relocation table to compute a
// mission's segment base.
type FileDef struct {
	Name   string
	Type   FileType
	TypeID int
	ID     int
}
