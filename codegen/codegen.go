// Package codegen implements the trilogy bytecode generator: it walks a
// validated Sema IR instruction stream and emits bytecode through package
// emitter, registering label/file references into a reloc.Table as it goes
// (§4.J). It assumes single-file generation positioned at a given
// multi-file offset; splicing multiple files together into one script
// image is a driver-level (package compiler) concern.
package codegen

import (
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/emitter"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/reloc"
	"github.com/thelink2012/gta3sc-sub001/storage"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

const (
	textLabelSize = 8
	stringSize    = 128
)

// CodeGen generates bytecode for a single source file positioned at a
// multi-file offset. One CodeGen per file; combine their outputs (in the
// driver) to produce a multi-file script image.
//
// CodeGen is not safe for concurrent use.
type CodeGen struct {
	diag       *diag.Handler
	storage    *storage.Table
	file       *symbol.FileDef
	baseOffset uint32
	emitter    *emitter.Emitter
}

// New creates a CodeGen for file, positioned at multifileOffset in the
// combined script image, resolving variable storage through st and
// reporting errors through h.
func New(file *symbol.FileDef, multifileOffset uint32, st *storage.Table, h *diag.Handler) *CodeGen {
	return &CodeGen{diag: h, storage: st, file: file, baseOffset: multifileOffset, emitter: emitter.New(256)}
}

// Generate emits bytecode for every line in the given Sema IR stream,
// registering relocations into reloc, and returns the produced bytes. ok is
// false if any line failed to generate (e.g. a command with no opcode for
// this target); generation continues past an error so every recoverable
// diagnostic is still reported, matching the "accumulate per-file errors,
// then fail the whole compile" contract of §5.
func (g *CodeGen) Generate(list *ir.SemaIR, reloc *reloc.Table) (code []byte, ok bool) {
	ok = true
	for n := list.Front(); n != nil; n = n.Next() {
		if !g.generateLine(n.Value, reloc) {
			ok = false
		}
	}
	return g.emitter.Drain(), ok
}

func (g *CodeGen) generateLine(line ir.SemaLine, rt *reloc.Table) bool {
	if line.Label != nil {
		labelOffset := g.baseOffset + g.emitter.Offset()
		rt.InsertLabelLoc(line.Label, g.file, labelOffset)
	}
	if line.Command != nil {
		return g.generateCommand(line.Command, rt)
	}
	return true
}

func (g *CodeGen) generateCommand(cmd *ir.SemaCommand, rt *reloc.Table) bool {
	def := cmd.Def
	if !def.TargetHandled || !def.HasTarget {
		g.diag.Report(diag.Error, diag.CodegenTargetDoesNotSupportCommand, cmd.Range)
		return false
	}

	g.emitter.EmitCommand(def.TargetID, cmd.Not)

	paramIdx := 0
	argsOK := true
	for _, arg := range cmd.Args {
		param := def.Params[paramIdx]
		if !g.generateArgument(arg, param, rt) {
			argsOK = false
		}
		if !param.Optional {
			paramIdx++
		}
	}

	if def.HasOptionalParam() {
		g.emitter.EmitEOAL()
	}
	return argsOK
}

func (g *CodeGen) generateArgument(arg ir.SemaArgument, param command.ParamDef, rt *reloc.Table) bool {
	switch arg.Kind {
	case ir.SemaInt, ir.SemaStringConstant:
		g.emitter.EmitInt(arg.AsInt())
	case ir.SemaFloat:
		g.emitter.EmitQ11_4(arg.Float)
	case ir.SemaTextLabelString:
		g.emitter.EmitRawBytes([]byte(arg.Text), textLabelSize)
	case ir.SemaQuotedString:
		g.emitter.EmitRawBytes([]byte(arg.Text), stringSize)
	case ir.SemaVariable:
		return g.generateVarRef(arg.Var)
	case ir.SemaLabel:
		g.generateLabelRef(arg.Label, rt)
	case ir.SemaFilename:
		g.generateFilenameRef(arg.File, rt)
	case ir.SemaUsedObject:
		// A used-object reference is encoded as the negated 1-based
		// sequence id, matching generate_used_object's `-(1 + uobj.id())`.
		g.emitter.EmitInt(-(1 + int32(arg.UsedObject.ID)))
	}
	return true
}

func (g *CodeGen) generateVarRef(v *ir.VarRef) bool {
	// Array-indexed variable references have no bytecode encoding here,
	// matching the original's `assert(!var_ref.has_index())` hard stop:
	// sema resolves and validates the subscript, but codegen refuses to
	// emit a corrupt (payload-less) argument for it.
	if v.HasIndex {
		g.diag.Report(diag.Error, diag.CodegenIndexedVarRefNotSupported, v.Var.Range)
		return false
	}
	def := v.Var
	if def.Scope == symbol.GlobalScope {
		g.emitter.EmitVar(uint16(4 * g.storage.VarIndex(def)))
	} else {
		g.emitter.EmitLVar(g.storage.VarIndex(def))
	}
	return true
}

func (g *CodeGen) generateLabelRef(label *symbol.Label, rt *reloc.Table) {
	relocOffset := g.baseOffset + g.emitter.Offset() + 1
	rt.InsertLabelFixup(label, g.file, relocOffset)
	g.emitter.EmitI32(0)
}

func (g *CodeGen) generateFilenameRef(file *symbol.FileDef, rt *reloc.Table) {
	relocOffset := g.baseOffset + g.emitter.Offset() + 1
	rt.InsertFileFixup(file, relocOffset)
	g.emitter.EmitI32(0)
}
