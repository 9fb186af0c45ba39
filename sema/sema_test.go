package sema_test

import (
	"testing"

	"github.com/thelink2012/gta3sc-sub001/arena"
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/sema"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

func newFixture(t *testing.T) (*arena.Arena, *ir.Builder, *symbol.Table, *diag.Handler) {
	t.Helper()
	a := arena.New(nil)
	return a, ir.NewBuilder(a), symbol.NewTable(), diag.NewHandler(nil)
}

func TestPassDeclarationsRegistersGlobalAndLocalVars(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cmds := command.NewBuilder().Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_INT", false, source.Range{}, []ir.Argument{
		ir.IdentArg("HEALTH", source.Range{}),
	})))
	list.PushBack(b.NewLine(b.NewLabelDef("START", source.Range{}), nil))
	list.PushBack(b.NewLine(nil, b.NewCommand("{", false, source.Range{}, nil)))
	list.PushBack(b.NewLine(nil, b.NewCommand("LVAR_INT", false, source.Range{}, []ir.Argument{
		ir.IdentArg("X", source.Range{}),
	})))
	list.PushBack(b.NewLine(nil, b.NewCommand("}", false, source.Range{}, nil)))

	an := sema.New(cmds, symtab, h, a)
	an.PassDeclarations(list)

	if h.HasErrors() {
		t.Fatalf("unexpected errors, count=%d", h.ErrorCount())
	}
	if _, ok := symtab.LookupVar("HEALTH", symbol.GlobalScope); !ok {
		t.Fatal("HEALTH not declared in global scope")
	}
	if _, ok := symtab.LookupVar("X", symbol.ScopeID(1)); !ok {
		t.Fatal("X not declared in scope 1")
	}
}

func TestPassDeclarationsReportsDuplicateGlobal(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cmds := command.NewBuilder().Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_INT", false, source.Range{}, []ir.Argument{ir.IdentArg("A", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_INT", false, source.Range{}, []ir.Argument{ir.IdentArg("A", source.Range{})})))

	sema.New(cmds, symtab, h, a).PassDeclarations(list)

	if h.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", h.ErrorCount())
	}
}

func TestPassDeclarationsReportsLocalShadowingGlobal(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cmds := command.NewBuilder().Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_INT", false, source.Range{}, []ir.Argument{ir.IdentArg("A", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("{", false, source.Range{}, nil)))
	list.PushBack(b.NewLine(nil, b.NewCommand("LVAR_INT", false, source.Range{}, []ir.Argument{ir.IdentArg("A", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("}", false, source.Range{}, nil)))

	sema.New(cmds, symtab, h, a).PassDeclarations(list)

	if h.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1 (duplicate_var_lvar)", h.ErrorCount())
	}
}

func TestPassAnalyzeEmitsResolvedCommand(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cb := command.NewBuilder()
	cb.DefineCommand(command.CommandDef{Name: "WAIT", TargetID: 1, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamInt}}})
	cmds := cb.Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("WAIT", false, source.Range{}, []ir.Argument{ir.IntArg(250, source.Range{})})))

	an := sema.New(cmds, symtab, h, a)
	scopeBase := an.PassDeclarations(list)
	out, ok := an.PassAnalyze(list, scopeBase)
	if !ok || h.HasErrors() {
		t.Fatalf("PassAnalyze failed, ok=%v errors=%d", ok, h.ErrorCount())
	}
	if out.Len() != 1 {
		t.Fatalf("Len = %d, want 1", out.Len())
	}
	line := out.Front().Value
	if line.Command.Def.Name != "WAIT" || line.Command.Args[0].Int != 250 {
		t.Fatalf("unexpected command: %+v", line.Command)
	}
}

func TestPassAnalyzeReportsUnknownCommand(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cmds := command.NewBuilder().Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("HONK", false, source.Range{}, nil)))

	an := sema.New(cmds, symtab, h, a)
	scopeBase := an.PassDeclarations(list)
	out, ok := an.PassAnalyze(list, scopeBase)
	if ok {
		t.Fatal("expected PassAnalyze to report a failure")
	}
	if h.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", h.ErrorCount())
	}
	if out.Len() != 0 {
		t.Fatalf("Len = %d, want 0 (unresolved command dropped)", out.Len())
	}
}

func TestPassAnalyzeResolvesAlternatorByArgumentType(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cb := command.NewBuilder()
	cb.DefineCommand(command.CommandDef{Name: "GET_A", TargetID: 1, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamOutputInt}}})
	cb.DefineCommand(command.CommandDef{Name: "GET_B", TargetID: 2, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamOutputFloat}}})
	cb.DefineAlternator("GET", "GET_A", "GET_B")
	cmds := cb.Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_FLOAT", false, source.Range{}, []ir.Argument{ir.IdentArg("SPEED", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("GET", false, source.Range{}, []ir.Argument{ir.IdentArg("SPEED", source.Range{})})))

	an := sema.New(cmds, symtab, h, a)
	scopeBase := an.PassDeclarations(list)
	out, ok := an.PassAnalyze(list, scopeBase)
	if !ok || h.HasErrors() {
		t.Fatalf("PassAnalyze failed, ok=%v errors=%d", ok, h.ErrorCount())
	}
	line := out.Front().Value
	if line.Command.Def.Name != "GET_B" {
		t.Fatalf("resolved to %q, want GET_B", line.Command.Def.Name)
	}
}

func TestPassAnalyzeReportsEntityTypeMismatch(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cb := command.NewBuilder()
	ped := cb.DefineEntityType("PED")
	car := cb.DefineEntityType("CAR")
	cb.DefineCommand(command.CommandDef{Name: "CREATE_PED", TargetID: 1, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamOutputInt, EntityType: ped}}})
	cb.DefineCommand(command.CommandDef{Name: "CREATE_CAR", TargetID: 2, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamOutputInt, EntityType: car}}})
	cmds := cb.Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_INT", false, source.Range{}, []ir.Argument{ir.IdentArg("HANDLE", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("CREATE_PED", false, source.Range{}, []ir.Argument{ir.IdentArg("HANDLE", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("CREATE_CAR", false, source.Range{}, []ir.Argument{ir.IdentArg("HANDLE", source.Range{})})))

	an := sema.New(cmds, symtab, h, a)
	scopeBase := an.PassDeclarations(list)
	_, ok := an.PassAnalyze(list, scopeBase)
	if ok {
		t.Fatal("expected PassAnalyze to report the entity type mismatch")
	}
	if h.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", h.ErrorCount())
	}
}

func TestPassAnalyzeReportsDuplicateScriptName(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cb := command.NewBuilder()
	cb.DefineCommand(command.CommandDef{Name: "SCRIPT_NAME", TargetID: 1, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamTextLabel}}})
	cmds := cb.Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("SCRIPT_NAME", false, source.Range{}, []ir.Argument{ir.IdentArg("MAIN", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("SCRIPT_NAME", false, source.Range{}, []ir.Argument{ir.IdentArg("main", source.Range{})})))

	an := sema.New(cmds, symtab, h, a)
	scopeBase := an.PassDeclarations(list)
	_, ok := an.PassAnalyze(list, scopeBase)
	if ok {
		t.Fatal("expected PassAnalyze to report the duplicate script name")
	}
	if h.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", h.ErrorCount())
	}
}

func TestPassAnalyzeStartNewScriptValidatesLocalsCount(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cb := command.NewBuilder()
	cb.DefineCommand(command.CommandDef{Name: "START_NEW_SCRIPT", TargetID: 1, HasTarget: true, TargetHandled: true})
	cmds := cb.Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(b.NewLabelDef("SUB", source.Range{}), nil))
	list.PushBack(b.NewLine(nil, b.NewCommand("{", false, source.Range{}, nil)))
	list.PushBack(b.NewLine(nil, b.NewCommand("LVAR_INT", false, source.Range{}, []ir.Argument{ir.IdentArg("X", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("}", false, source.Range{}, nil)))
	list.PushBack(b.NewLine(nil, b.NewCommand("START_NEW_SCRIPT", false, source.Range{}, []ir.Argument{
		ir.IdentArg("SUB", source.Range{}),
		ir.IntArg(5, source.Range{}),
	})))

	an := sema.New(cmds, symtab, h, a)
	scopeBase := an.PassDeclarations(list)
	out, ok := an.PassAnalyze(list, scopeBase)
	if !ok || h.HasErrors() {
		t.Fatalf("PassAnalyze failed, ok=%v errors=%d", ok, h.ErrorCount())
	}
	last := out.Back().Value
	if last.Command.Def.Name != "START_NEW_SCRIPT" || len(last.Command.Args) != 2 {
		t.Fatalf("unexpected command: %+v", last.Command)
	}
}

func TestPassAnalyzeStartNewScriptReportsArgMismatch(t *testing.T) {
	a, b, symtab, h := newFixture(t)
	cb := command.NewBuilder()
	cb.DefineCommand(command.CommandDef{Name: "START_NEW_SCRIPT", TargetID: 1, HasTarget: true, TargetHandled: true})
	cmds := cb.Build()

	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(b.NewLabelDef("SUB", source.Range{}), nil))
	list.PushBack(b.NewLine(nil, b.NewCommand("{", false, source.Range{}, nil)))
	list.PushBack(b.NewLine(nil, b.NewCommand("LVAR_INT", false, source.Range{}, []ir.Argument{ir.IdentArg("X", source.Range{})})))
	list.PushBack(b.NewLine(nil, b.NewCommand("}", false, source.Range{}, nil)))
	list.PushBack(b.NewLine(nil, b.NewCommand("START_NEW_SCRIPT", false, source.Range{}, []ir.Argument{
		ir.IdentArg("SUB", source.Range{}),
	})))

	an := sema.New(cmds, symtab, h, a)
	scopeBase := an.PassDeclarations(list)
	_, ok := an.PassAnalyze(list, scopeBase)
	if ok {
		t.Fatal("expected PassAnalyze to report the arg count mismatch")
	}
	if h.ErrorCount() != 1 {
		t.Fatalf("ErrorCount = %d, want 1", h.ErrorCount())
	}
}
