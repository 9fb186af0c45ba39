// Package sema implements the two-pass semantic analyzer described in
// §4.G: pass 1 walks the Parser IR to populate the symbol table (scopes,
// variables, labels), pass 2 re-walks it validating every command and
// argument against the command table and producing a Sema IR (§4.G).
package sema

import (
	"github.com/thelink2012/gta3sc-sub001/arena"
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// noScope marks "outside of any { ... } block" while walking pass 1,
// matching the original's curr_scope == -1 sentinel.
const noScope symbol.ScopeID = -1

// Analyzer runs both passes over a single Parser IR stream, sharing one
// symbol table, command table, diagnostic handler and arena with the rest
// of the compile session (§5: one of each per session).
//
// Analyzer is not safe for concurrent use.
type Analyzer struct {
	cmds  *command.Table
	syms  *symbol.Table
	diag  *diag.Handler
	arena *arena.Arena

	seenScriptNames map[string]bool
	scopeForLabel   map[string]symbol.ScopeID
}

// New creates an Analyzer sharing cmds, syms, h and a for the whole compile
// session.
func New(cmds *command.Table, syms *symbol.Table, h *diag.Handler, a *arena.Arena) *Analyzer {
	return &Analyzer{
		cmds:            cmds,
		syms:            syms,
		diag:            h,
		arena:           a,
		seenScriptNames: make(map[string]bool),
		scopeForLabel:   make(map[string]symbol.ScopeID),
	}
}

func (a *Analyzer) report(rng source.Range, kind diag.Kind, args ...interface{}) {
	a.diag.Report(diag.Error, kind, rng, args...)
}

const (
	cmdScopeOpen      = "{"
	cmdScopeClose     = "}"
	cmdVarInt         = "VAR_INT"
	cmdLVarInt        = "LVAR_INT"
	cmdVarFloat       = "VAR_FLOAT"
	cmdLVarFloat      = "LVAR_FLOAT"
	cmdVarTextLabel   = "VAR_TEXT_LABEL"
	cmdLVarTextLabel  = "LVAR_TEXT_LABEL"
	cmdScriptName     = "SCRIPT_NAME"
	cmdStartNewScript = "START_NEW_SCRIPT"
)

// isVarDeclCommand reports whether name is one of the declaration
// directives pass 1 handles specially; these never reach pass 2 as a Sema
// IR command (they have no bytecode representation of their own).
func isVarDeclCommand(name string) bool {
	switch name {
	case cmdVarInt, cmdLVarInt, cmdVarFloat, cmdLVarFloat, cmdVarTextLabel, cmdLVarTextLabel:
		return true
	default:
		return false
	}
}
