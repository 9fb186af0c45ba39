package sema

import (
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// PassAnalyze is pass 2 (§4.G): it re-walks list — which must already have
// gone through PassDeclarations — validating every command's arguments
// against the command table and producing a Sema IR. The original's
// pass_analyze is an empty TODO stub, so this dispatch is designed directly
// from the parameter-type table and hardcoded-command rules §4.G describes,
// not ported from a reference implementation.
//
// scopeBase must be the value PassDeclarations returned for this same list,
// so pass 2 replays list's `{` scopes starting from the exact ids pass 1
// assigned them, rather than from whatever file was declared last in a
// multi-file session.
//
// The returned Sema IR is only meaningful when ok is true; by convention
// (mirroring "any error increments a counter; on nonzero the result is
// discarded") callers should check h.HasErrors() themselves if they need to
// know whether PassAnalyze's errors were pre-existing ones from pass 1.
func (a *Analyzer) PassAnalyze(list *ir.ParserIR, scopeBase symbol.ScopeID) (*ir.SemaIR, bool) {
	out := &ir.SemaIR{}
	scope := noScope
	nextScope := scopeBase
	before := a.diag.ErrorCount()

	for n := list.Front(); n != nil; n = n.Next() {
		line := n.Value
		var semaLine ir.SemaLine

		if line.Label != nil {
			if l, ok := a.syms.LookupLabel(a.arena.InternIdent(line.Label.Name)); ok {
				semaLine.Label = l
			}
		}

		if line.Command != nil {
			cmd := line.Command
			switch {
			case cmd.Name == cmdScopeOpen:
				scope = nextScope
				nextScope++
			case cmd.Name == cmdScopeClose:
				scope = noScope
			case isVarDeclCommand(cmd.Name):
				// No bytecode of its own; already handled by pass 1.
			case cmd.Name == cmdScriptName:
				semaLine.Command = a.analyzeScriptName(cmd, scope)
			case cmd.Name == cmdStartNewScript:
				semaLine.Command = a.analyzeStartNewScript(cmd, scope)
			default:
				semaLine.Command = a.analyzeCommand(cmd, scope)
			}
		}

		if semaLine.Label != nil || semaLine.Command != nil {
			out.PushBack(semaLine)
		}
	}

	return out, a.diag.ErrorCount() == before
}

// analyzeCommand resolves cmd against the command table (or, failing that,
// an alternator of the same name) and type-checks its arguments, reporting
// through the real handler.
func (a *Analyzer) analyzeCommand(cmd *ir.Command, scope symbol.ScopeID) *ir.SemaCommand {
	if def, ok := a.cmds.FindCommand(cmd.Name); ok {
		sc, ok := a.buildCommand(a.diag, def, cmd, scope)
		if !ok {
			return nil
		}
		return sc
	}
	if alt, ok := a.cmds.FindAlternator(cmd.Name); ok {
		return a.resolveAlternator(alt, cmd, scope)
	}
	a.report(cmd.Range, diag.UnknownCommand, cmd.Name)
	return nil
}

// resolveAlternator tries each alternative in insertion order, silently
// discarding trial diagnostics, and commits to (re-running with real
// diagnostics) the first one whose parameter shapes accept cmd's arguments
// (§4.G: "first alternative whose parameter shapes match wins").
func (a *Analyzer) resolveAlternator(alt *command.AlternatorDef, cmd *ir.Command, scope symbol.ScopeID) *ir.SemaCommand {
	for _, alternative := range alt.Alternatives() {
		trial := diag.NewHandler(nil)
		if _, ok := a.buildCommand(trial, alternative.Command, cmd, scope); ok {
			sc, _ := a.buildCommand(a.diag, alternative.Command, cmd, scope)
			return sc
		}
	}
	a.report(cmd.Range, diag.UnknownAlternative, cmd.Name)
	return nil
}

func (a *Analyzer) buildCommand(h *diag.Handler, def *command.CommandDef, cmd *ir.Command, scope symbol.ScopeID) (*ir.SemaCommand, bool) {
	args, ok := a.buildArgs(h, def.Params, cmd.Args, scope)
	if !ok {
		return nil, false
	}
	return &ir.SemaCommand{Def: def, Not: cmd.Not, Range: cmd.Range, Args: args}, true
}

// buildArgs walks params and args in lockstep exactly as codegen's emitter
// does, reusing the trailing optional parameter for any extra arguments.
func (a *Analyzer) buildArgs(h *diag.Handler, params []command.ParamDef, args []ir.Argument, scope symbol.ScopeID) ([]ir.SemaArgument, bool) {
	out := make([]ir.SemaArgument, 0, len(args))
	paramIdx := 0
	for _, arg := range args {
		if paramIdx >= len(params) {
			h.Report(diag.Error, diag.ArgCountMismatch, arg.Range)
			return nil, false
		}
		param := params[paramIdx]
		sa, ok := a.buildArgument(h, arg, param, scope)
		if !ok {
			return nil, false
		}
		out = append(out, sa)
		if !param.Optional {
			paramIdx++
		}
	}
	if paramIdx < len(params) && !params[paramIdx].Optional {
		h.Report(diag.Error, diag.ArgCountMismatch, source.None)
		return nil, false
	}
	return out, true
}

func (a *Analyzer) buildArgument(h *diag.Handler, arg ir.Argument, param command.ParamDef, scope symbol.ScopeID) (ir.SemaArgument, bool) {
	switch param.Type {
	case command.ParamInt:
		return a.buildIntArg(h, arg)
	case command.ParamFloat:
		return a.buildFloatArg(h, arg)
	case command.ParamVarInt:
		return a.buildStorageVarArg(h, arg, param, symbol.GlobalScope, symbol.VarInt)
	case command.ParamVarFloat:
		return a.buildStorageVarArg(h, arg, param, symbol.GlobalScope, symbol.VarFloat)
	case command.ParamVarTextLabel:
		return a.buildStorageVarArg(h, arg, param, symbol.GlobalScope, symbol.VarTextLabel)
	case command.ParamLVarInt:
		return a.buildStorageVarArg(h, arg, param, scope, symbol.VarInt)
	case command.ParamLVarFloat:
		return a.buildStorageVarArg(h, arg, param, scope, symbol.VarFloat)
	case command.ParamLVarTextLabel:
		return a.buildStorageVarArg(h, arg, param, scope, symbol.VarTextLabel)
	case command.ParamInputInt:
		return a.buildInputArg(h, arg, param, scope, symbol.VarInt)
	case command.ParamInputFloat:
		return a.buildInputArg(h, arg, param, scope, symbol.VarFloat)
	case command.ParamOutputInt:
		return a.buildOutputArg(h, arg, param, scope, symbol.VarInt)
	case command.ParamOutputFloat:
		return a.buildOutputArg(h, arg, param, scope, symbol.VarFloat)
	case command.ParamLabel:
		return a.buildLabelArg(h, arg)
	case command.ParamTextLabel:
		return a.buildTextLabelArg(h, arg)
	case command.ParamString:
		return a.buildStringArg(h, arg)
	default:
		return ir.SemaArgument{}, false
	}
}

func (a *Analyzer) buildIntArg(h *diag.Handler, arg ir.Argument) (ir.SemaArgument, bool) {
	if arg.Kind == ir.ArgInt {
		return ir.SemaArgument{Kind: ir.SemaInt, Range: arg.Range, Int: arg.Int}, true
	}
	if arg.Kind == ir.ArgIdentifier {
		name := a.arena.InternIdent(arg.Text)
		if c, ok := a.cmds.FindConstantAnyMeans(name); ok {
			return ir.SemaArgument{Kind: ir.SemaStringConstant, Range: arg.Range, ConstEnum: c.EnumID, ConstValue: c.Value}, true
		}
	}
	h.Report(diag.Error, diag.ExpectedInteger, arg.Range)
	return ir.SemaArgument{}, false
}

func (a *Analyzer) buildFloatArg(h *diag.Handler, arg ir.Argument) (ir.SemaArgument, bool) {
	if arg.Kind != ir.ArgFloat {
		h.Report(diag.Error, diag.ExpectedFloat, arg.Range)
		return ir.SemaArgument{}, false
	}
	return ir.SemaArgument{Kind: ir.SemaFloat, Range: arg.Range, Float: arg.Float}, true
}

func (a *Analyzer) buildLabelArg(h *diag.Handler, arg ir.Argument) (ir.SemaArgument, bool) {
	if arg.Kind != ir.ArgIdentifier {
		h.Report(diag.Error, diag.ExpectedIdentifier, arg.Range)
		return ir.SemaArgument{}, false
	}
	name := a.arena.InternIdent(arg.Text)
	label, ok := a.syms.LookupLabel(name)
	if !ok {
		h.Report(diag.Error, diag.UnknownLabel, arg.Range, name)
		return ir.SemaArgument{}, false
	}
	return ir.SemaArgument{Kind: ir.SemaLabel, Range: arg.Range, Label: label}, true
}

func (a *Analyzer) buildTextLabelArg(h *diag.Handler, arg ir.Argument) (ir.SemaArgument, bool) {
	if arg.Kind != ir.ArgIdentifier && arg.Kind != ir.ArgFilename {
		h.Report(diag.Error, diag.ExpectedIdentifier, arg.Range)
		return ir.SemaArgument{}, false
	}
	if len(arg.Text) > 7 {
		h.Report(diag.Error, diag.TextLabelTooLong, arg.Range, arg.Text)
		return ir.SemaArgument{}, false
	}
	return ir.SemaArgument{Kind: ir.SemaTextLabelString, Range: arg.Range, Text: arg.Text}, true
}

func (a *Analyzer) buildStringArg(h *diag.Handler, arg ir.Argument) (ir.SemaArgument, bool) {
	if arg.Kind != ir.ArgString {
		h.Report(diag.Error, diag.ExpectedIdentifier, arg.Range)
		return ir.SemaArgument{}, false
	}
	if len(arg.Text) > 127 {
		h.Report(diag.Error, diag.StringLiteralTooLong, arg.Range)
		return ir.SemaArgument{}, false
	}
	return ir.SemaArgument{Kind: ir.SemaQuotedString, Range: arg.Range, Text: arg.Text}, true
}

// resolveVarRef parses arg as a `name` or `name[subscript]` reference and
// looks name up in searchScope, handling an identifier-named subscript as a
// reference to another variable (accepted here; codegen has no encoding for
// it yet, §14.3).
func (a *Analyzer) resolveVarRef(h *diag.Handler, arg ir.Argument, searchScope symbol.ScopeID) (*ir.VarRef, bool) {
	parsed := a.parseVarRef(h, arg.Text, arg.Range)
	name := a.arena.InternIdent(parsed.Name)

	v, ok := a.syms.LookupVar(name, searchScope)
	if !ok {
		h.Report(diag.Error, diag.UnknownVariable, arg.Range, name)
		return nil, false
	}

	ref := &ir.VarRef{Var: v}
	if parsed.Subscript != nil {
		ref.HasIndex = true
		if parsed.Subscript.Literal != nil {
			ref.IndexIsConst = true
			ref.IndexConst = *parsed.Subscript.Literal
		} else {
			idxName := a.arena.InternIdent(parsed.Subscript.Text)
			idxVar, ok := a.syms.LookupVar(idxName, searchScope)
			if !ok {
				if g, ok := a.syms.LookupVar(idxName, symbol.GlobalScope); ok {
					idxVar = g
				} else {
					h.Report(diag.Error, diag.UnknownVariable, parsed.Subscript.Range, idxName)
					return nil, false
				}
			}
			ref.IndexVar = idxVar
		}
	}
	return ref, true
}

// buildStorageVarArg handles a VAR_*/LVAR_* parameter: a direct storage
// reference that must already live in exactly requiredScope and be of type
// vt.
func (a *Analyzer) buildStorageVarArg(h *diag.Handler, arg ir.Argument, param command.ParamDef, requiredScope symbol.ScopeID, vt symbol.VarType) (ir.SemaArgument, bool) {
	if arg.Kind != ir.ArgIdentifier {
		h.Report(diag.Error, diag.ExpectedIdentifier, arg.Range)
		return ir.SemaArgument{}, false
	}
	if requiredScope == noScope {
		h.Report(diag.Error, diag.WrongVariableScope, arg.Range)
		return ir.SemaArgument{}, false
	}
	ref, ok := a.resolveVarRef(h, arg, requiredScope)
	if !ok {
		return ir.SemaArgument{}, false
	}
	if ref.Var.Type != vt {
		h.Report(diag.Error, diag.WrongVariableType, arg.Range, ref.Var.Name)
		return ir.SemaArgument{}, false
	}
	return ir.SemaArgument{Kind: ir.SemaVariable, Range: arg.Range, Var: ref}, true
}

// buildInputArg handles an INPUT_INT/INPUT_FLOAT parameter: either a
// literal/constant of type vt, or a variable (any scope) of type vt. If the
// parameter carries an entity type and the resolved variable already has a
// different one recorded, that's an entity type mismatch (§13); a variable
// with no recorded entity type yet is left untouched (only OUTPUT_* params
// establish an entity type).
func (a *Analyzer) buildInputArg(h *diag.Handler, arg ir.Argument, param command.ParamDef, scope symbol.ScopeID, vt symbol.VarType) (ir.SemaArgument, bool) {
	if arg.Kind == ir.ArgIdentifier {
		// A name that is not a variable but is an integer constant goes
		// straight to buildIntArg, without an unknown-variable diagnostic.
		if vt == symbol.VarInt {
			if _, isConst := a.cmds.FindConstantAnyMeans(a.arena.InternIdent(arg.Text)); isConst {
				if _, isVar := a.tryResolveVarRefAnyScope(diag.NewHandler(nil), arg, scope); !isVar {
					return a.buildIntArg(h, arg)
				}
			}
		}
		if ref, ok := a.tryResolveVarRefAnyScope(h, arg, scope); ok {
			if ref.Var.Type != vt {
				h.Report(diag.Error, diag.WrongVariableType, arg.Range, ref.Var.Name)
				return ir.SemaArgument{}, false
			}
			if param.EntityType != command.NoEntityType && ref.Var.EntityType != command.NoEntityType && ref.Var.EntityType != param.EntityType {
				h.Report(diag.Error, diag.EntityTypeMismatch, arg.Range, ref.Var.Name)
				return ir.SemaArgument{}, false
			}
			return ir.SemaArgument{Kind: ir.SemaVariable, Range: arg.Range, Var: ref}, true
		}
	}
	if vt == symbol.VarFloat {
		return a.buildFloatArg(h, arg)
	}
	return a.buildIntArg(h, arg)
}

// buildOutputArg handles an OUTPUT_INT/OUTPUT_FLOAT parameter: must be a
// variable (any scope) of type vt; a literal is never allowed. Establishes
// or narrows the variable's entity type (§13: a disagreeing narrowing is an
// error, not a silent overwrite).
func (a *Analyzer) buildOutputArg(h *diag.Handler, arg ir.Argument, param command.ParamDef, scope symbol.ScopeID, vt symbol.VarType) (ir.SemaArgument, bool) {
	if arg.Kind != ir.ArgIdentifier {
		h.Report(diag.Error, diag.LiteralNotAllowedForOutput, arg.Range)
		return ir.SemaArgument{}, false
	}
	ref, ok := a.tryResolveVarRefAnyScope(h, arg, scope)
	if !ok {
		return ir.SemaArgument{}, false
	}
	if ref.Var.Type != vt {
		h.Report(diag.Error, diag.WrongVariableType, arg.Range, ref.Var.Name)
		return ir.SemaArgument{}, false
	}
	if param.EntityType != command.NoEntityType {
		switch ref.Var.EntityType {
		case command.NoEntityType:
			ref.Var.EntityType = param.EntityType
		case param.EntityType:
			// already agrees
		default:
			h.Report(diag.Error, diag.EntityTypeMismatch, arg.Range, ref.Var.Name)
			return ir.SemaArgument{}, false
		}
	}
	return ir.SemaArgument{Kind: ir.SemaVariable, Range: arg.Range, Var: ref}, true
}

// tryResolveVarRefAnyScope resolves arg as a variable reference searching
// the local scope first (if any), then the global scope — used by
// INPUT_*/OUTPUT_* parameters, which (unlike VAR_*/LVAR_* storage
// parameters) accept a variable from either namespace.
func (a *Analyzer) tryResolveVarRefAnyScope(h *diag.Handler, arg ir.Argument, scope symbol.ScopeID) (*ir.VarRef, bool) {
	parsed := a.parseVarRef(h, arg.Text, arg.Range)
	name := a.arena.InternIdent(parsed.Name)

	var v *symbol.Variable
	var ok bool
	if scope != noScope {
		v, ok = a.syms.LookupVar(name, scope)
	}
	if !ok {
		v, ok = a.syms.LookupVar(name, symbol.GlobalScope)
	}
	if !ok {
		h.Report(diag.Error, diag.UnknownVariable, arg.Range, name)
		return nil, false
	}

	ref := &ir.VarRef{Var: v}
	if parsed.Subscript != nil {
		ref.HasIndex = true
		if parsed.Subscript.Literal != nil {
			ref.IndexIsConst = true
			ref.IndexConst = *parsed.Subscript.Literal
		} else {
			idxName := a.arena.InternIdent(parsed.Subscript.Text)
			idxVar, ok := a.syms.LookupVar(idxName, symbol.GlobalScope)
			if scope != noScope {
				if lv, lok := a.syms.LookupVar(idxName, scope); lok {
					idxVar, ok = lv, lok
				}
			}
			if !ok {
				h.Report(diag.Error, diag.UnknownVariable, parsed.Subscript.Range, idxName)
				return nil, false
			}
			ref.IndexVar = idxVar
		}
	}
	return ref, true
}
