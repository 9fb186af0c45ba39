package sema

import (
	"strconv"

	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// PassDeclarations is pass 1 (§4.G): it walks list tracking `{ }` scope
// nesting and populates the symbol table with every label and (L)VAR_*
// declaration it finds, exactly as the original's pass_declarations does.
// It never produces a Sema IR; PassAnalyze (pass 2) is what does that.
//
// It returns the scope id that list's first `{` (if any) was assigned.
// Scope ids are allocated session-wide (not reset per file), so in a
// multi-file session this base differs per file; the caller must capture
// it per file and hand it back to the matching PassAnalyze call, since
// pass 2 cannot call symbol.Table.NewScope again without double-allocating
// and instead replays the identical sequence of ids by counting up from
// this base.
func (a *Analyzer) PassDeclarations(list *ir.ParserIR) symbol.ScopeID {
	scopeBase := symbol.ScopeID(a.syms.NumScopes())

	scope := noScope
	var pendingLabel *symbol.Label

	for n := list.Front(); n != nil; n = n.Next() {
		line := n.Value

		if line.Label != nil {
			if l, inserted := a.syms.InsertLabel(a.arena.InternIdent(line.Label.Name), line.Label.Range); !inserted {
				a.report(line.Label.Range, diag.DuplicateLabel, line.Label.Name)
				pendingLabel = nil
			} else {
				pendingLabel = l
			}
		}

		if line.Command == nil {
			continue
		}
		cmd := line.Command

		switch cmd.Name {
		case cmdScopeOpen:
			scope = a.syms.NewScope()
			if pendingLabel != nil {
				a.scopeForLabel[pendingLabel.Name] = scope
			}
			pendingLabel = nil
		case cmdScopeClose:
			scope = noScope
			pendingLabel = nil
		case cmdVarInt:
			a.actOnVarDecl(cmd, symbol.GlobalScope, symbol.VarInt)
			pendingLabel = nil
		case cmdVarFloat:
			a.actOnVarDecl(cmd, symbol.GlobalScope, symbol.VarFloat)
			pendingLabel = nil
		case cmdVarTextLabel:
			a.actOnVarDecl(cmd, symbol.GlobalScope, symbol.VarTextLabel)
			pendingLabel = nil
		case cmdLVarInt:
			a.actOnVarDecl(cmd, scope, symbol.VarInt)
			pendingLabel = nil
		case cmdLVarFloat:
			a.actOnVarDecl(cmd, scope, symbol.VarFloat)
			pendingLabel = nil
		case cmdLVarTextLabel:
			a.actOnVarDecl(cmd, scope, symbol.VarTextLabel)
			pendingLabel = nil
		default:
			pendingLabel = nil
		}
	}

	a.checkGlobalLocalCollisions()
	return scopeBase
}

// actOnVarDecl declares every identifier argument of a VAR_*/LVAR_* command
// as a variable of typ in scope, handling the `name[subscript]` array-decl
// grammar inline, matching the original's act_on_var_decl.
func (a *Analyzer) actOnVarDecl(cmd *ir.Command, scope symbol.ScopeID, typ symbol.VarType) {
	for _, arg := range cmd.Args {
		if arg.Kind != ir.ArgIdentifier {
			a.report(arg.Range, diag.ExpectedIdentifier)
			continue
		}

		parsed := a.parseVarRef(a.diag, arg.Text, arg.Range)
		name := a.arena.InternIdent(parsed.Name)

		dims := 0
		if parsed.Subscript != nil {
			switch {
			case parsed.Subscript.Literal == nil:
				a.report(parsed.Subscript.Range, diag.VarDeclSubscriptMustBeLiteral)
				dims = 1
			case *parsed.Subscript.Literal <= 0:
				a.report(parsed.Subscript.Range, diag.VarDeclSubscriptMustBeNonzero)
				dims = 1
			default:
				dims = int(*parsed.Subscript.Literal)
			}
		}

		useScope := scope
		if useScope == noScope {
			a.report(arg.Range, diag.VarDeclOutsideOfScope)
			useScope = symbol.GlobalScope
		}

		if _, inserted := a.syms.InsertVar(useScope, name, parsed.Range, typ, dims); !inserted {
			if useScope == symbol.GlobalScope {
				a.report(parsed.Range, diag.DuplicateVarGlobal, name)
			} else {
				a.report(parsed.Range, diag.DuplicateVarInScope, name)
			}
		}
	}
}

// checkGlobalLocalCollisions reports every local variable that shadows a
// global of the same name, matching the original's end-of-pass sweep: a
// name may be used as either a global or a local, never both.
func (a *Analyzer) checkGlobalLocalCollisions() {
	for scope := symbol.ScopeID(1); int(scope) < a.syms.NumScopes(); scope++ {
		for _, v := range a.syms.Scope(scope) {
			if _, ok := a.syms.LookupVar(v.Name, symbol.GlobalScope); ok {
				a.report(v.Range, diag.DuplicateVarLvar, v.Name)
			}
		}
	}
}

// varSubscript is the parsed `[subscript]` portion of a variable reference.
// Literal is nil when the subscript is itself an identifier (a variable used
// as an array index), which pass 1 rejects for declarations but pass 2
// accepts for references (§4.G, §14.3).
type varSubscript struct {
	Text    string
	Range   source.Range
	Literal *int32
}

// varRefParsed is the result of splitting a `name` or `name[subscript]`
// identifier argument.
type varRefParsed struct {
	Name      string
	Range     source.Range
	Subscript *varSubscript
}

// parseVarRef implements the `variable_ref := NAME ( "[" subscript "]" )?`
// mini-grammar directly against identifier (a single already-tokenized
// argument, so no whitespace to skip), matching the original's
// Sema::parse_var_ref. It never fails outright: malformed input is reported
// and recovered from, mirroring "never fails; accumulates diagnostics and
// recovers" (§4.G).
//
// h receives every diagnostic raised while parsing; pass 2 passes a scratch
// handler while trial-matching an alternator so a failed trial never leaks
// diagnostics into the real count.
func (a *Analyzer) parseVarRef(h *diag.Handler, identifier string, rng source.Range) varRefParsed {
	openIdx := -1
	for i := 0; i < len(identifier); i++ {
		if identifier[i] == '[' || identifier[i] == ']' {
			openIdx = i
			break
		}
	}
	if openIdx == -1 {
		return varRefParsed{Name: identifier, Range: rng}
	}

	if identifier[openIdx] != '[' {
		h.Report(diag.Error, diag.ExpectedWord, offsetRange(rng, openIdx, 1), "[")
	}

	name := identifier[:openIdx]
	nameRange := offsetRange(rng, 0, openIdx)

	closeIdx := -1
	for i := openIdx + 1; i < len(identifier); i++ {
		if identifier[i] == '[' || identifier[i] == ']' {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 || identifier[closeIdx] != ']' {
		h.Report(diag.Error, diag.ExpectedWord, offsetRange(rng, len(identifier), 0), "]")
		return varRefParsed{Name: name, Range: nameRange}
	}

	if closeIdx-openIdx <= 1 {
		h.Report(diag.Error, diag.ExpectedSubscript, offsetRange(rng, openIdx+1, 0))
		return varRefParsed{Name: name, Range: nameRange}
	}

	subText := identifier[openIdx+1 : closeIdx]
	subRange := offsetRange(rng, openIdx+1, closeIdx-openIdx-1)
	sub := &varSubscript{Text: subText, Range: subRange}

	switch {
	case subText[0] == '-':
		h.Report(diag.Error, diag.SubscriptMustBePositive, subRange)
		sub = nil
	case isASCIIDigit(subText[0]):
		allDigits := true
		for i := 0; i < len(subText); i++ {
			if !isASCIIDigit(subText[i]) {
				allDigits = false
				break
			}
		}
		if !allDigits {
			h.Report(diag.Error, diag.ExpectedInteger, subRange)
			sub = nil
		} else if v, err := strconv.ParseInt(subText, 10, 32); err != nil {
			h.Report(diag.Error, diag.IntegerLiteralTooBig, subRange)
			sub = nil
		} else {
			lit := int32(v)
			sub.Literal = &lit
		}
	default:
		// An identifier-named subscript: whether this is acceptable depends
		// on the calling context (declarations reject it, references accept
		// it once the name resolves to a variable), so no diagnostic here.
	}

	return varRefParsed{Name: name, Range: nameRange, Subscript: sub}
}

func isASCIIDigit(c byte) bool { return c >= '0' && c <= '9' }

// offsetRange narrows base to the sub-span [offset, offset+length) measured
// in bytes from its Begin column, mirroring the original's source.substr
// arithmetic. Identifiers never contain newlines, so adjusting Column alone
// is exact.
func offsetRange(base source.Range, offset, length int) source.Range {
	b := base.Begin
	b.Column += offset
	e := b
	e.Column += length
	return source.Range{Begin: b, End: e}
}
