package sema

import (
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// analyzeScriptName handles SCRIPT_NAME, one of the four hardcoded
// commands §4.G calls out: its single text-label argument must be unique
// across the whole compile session.
func (a *Analyzer) analyzeScriptName(cmd *ir.Command, scope symbol.ScopeID) *ir.SemaCommand {
	def, ok := a.cmds.FindCommand(cmdScriptName)
	if !ok {
		a.report(cmd.Range, diag.UnknownCommand, cmd.Name)
		return nil
	}
	sc, ok := a.buildCommand(a.diag, def, cmd, scope)
	if !ok || len(sc.Args) != 1 {
		return sc
	}

	key := a.arena.InternIdent(sc.Args[0].Text)
	if a.seenScriptNames[key] {
		a.report(cmd.Range, diag.DuplicateScriptName, sc.Args[0].Text)
		return nil
	}
	a.seenScriptNames[key] = true
	return sc
}

// analyzeStartNewScript handles START_NEW_SCRIPT: its first argument names
// the entry label of another script; every following argument must match,
// in count and type, that script's declared locals (excluding the reserved
// timer slots), matching the original's locals-vs-call-site-args check.
func (a *Analyzer) analyzeStartNewScript(cmd *ir.Command, scope symbol.ScopeID) *ir.SemaCommand {
	def, ok := a.cmds.FindCommand(cmdStartNewScript)
	if !ok {
		a.report(cmd.Range, diag.UnknownCommand, cmd.Name)
		return nil
	}
	if len(cmd.Args) == 0 {
		a.report(cmd.Range, diag.ArgCountMismatch, cmd.Range)
		return nil
	}

	labelArg, ok := a.buildLabelArg(a.diag, cmd.Args[0])
	if !ok {
		return nil
	}
	target := labelArg.Label

	var targetVars []*symbol.Variable
	if targetScope, hasScope := a.scopeForLabel[target.Name]; hasScope {
		for _, v := range a.syms.Scope(targetScope) {
			if isTimerVar(v) {
				continue
			}
			targetVars = append(targetVars, v)
		}
	}

	extraArgs := cmd.Args[1:]
	if len(extraArgs) != len(targetVars) {
		a.report(cmd.Range, diag.StartNewScriptArgMismatch, target.Name)
		return nil
	}

	args := make([]ir.SemaArgument, 0, 1+len(extraArgs))
	args = append(args, labelArg)
	for i, arg := range extraArgs {
		param := paramForLocal(targetVars[i])
		sa, ok := a.buildArgument(a.diag, arg, param, scope)
		if !ok {
			return nil
		}
		args = append(args, sa)
	}

	return &ir.SemaCommand{Def: def, Not: cmd.Not, Range: cmd.Range, Args: args}
}

// paramForLocal synthesizes the by-value parameter shape a target script's
// declared local is passed through when starting a new script: ints/floats
// come through as ordinary input values, text labels as literal text.
func paramForLocal(v *symbol.Variable) command.ParamDef {
	switch v.Type {
	case symbol.VarFloat:
		return command.ParamDef{Type: command.ParamInputFloat}
	case symbol.VarTextLabel:
		return command.ParamDef{Type: command.ParamTextLabel}
	default:
		return command.ParamDef{Type: command.ParamInputInt}
	}
}

func isTimerVar(v *symbol.Variable) bool {
	return v.Name == "TIMERA" || v.Name == "TIMERB"
}
