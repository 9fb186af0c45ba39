package compiler_test

import (
	"testing"

	"github.com/thelink2012/gta3sc-sub001/arena"
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/compiler"
	"github.com/thelink2012/gta3sc-sub001/config"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

func builtinTable(t *testing.T) *command.Table {
	t.Helper()
	b := command.NewBuilder()
	define := func(def command.CommandDef) {
		if _, err := b.DefineCommand(def); err != nil {
			t.Fatalf("DefineCommand(%s): %v", def.Name, err)
		}
	}
	define(command.CommandDef{
		Name: "WAIT", TargetID: 0x0001, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamInt}},
	})
	define(command.CommandDef{
		Name: "SET", TargetID: 0x0004, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamOutputInt}, {Type: command.ParamInputInt}},
	})
	define(command.CommandDef{
		Name: "ADD_THING_TO_THING", TargetID: 0x000A, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamOutputInt}, {Type: command.ParamInputInt}},
	})
	define(command.CommandDef{
		Name: "IS_THING_GREATER_OR_EQUAL_TO_THING", TargetID: 0x0022, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamInputInt}, {Type: command.ParamInputInt}},
	})
	define(command.CommandDef{
		Name: "GOTO_IF_FALSE", TargetID: 0x004D, HasTarget: true, TargetHandled: true,
		Params: []command.ParamDef{{Type: command.ParamLabel}},
	})
	return b.Build()
}

// repeatScript hand-builds the §8 scenario S1 input:
//
//	VAR_INT i
//	REPEAT 5 i
//	    WAIT 0
//	ENDREPEAT
func repeatScript(b *ir.Builder) *ir.ParserIR {
	list := &ir.ParserIR{}
	r := source.Range{}
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_INT", false, r, []ir.Argument{ir.IdentArg("I", r)})))
	list.PushBack(b.NewLine(nil, b.NewCommand("REPEAT", false, r, []ir.Argument{
		ir.IntArg(5, r), ir.IdentArg("I", r),
	})))
	list.PushBack(b.NewLine(nil, b.NewCommand("WAIT", false, r, []ir.Argument{ir.IntArg(0, r)})))
	list.PushBack(b.NewLine(nil, b.NewCommand("ENDREPEAT", false, r, nil)))
	return list
}

func TestCompileRepeatLoweringEndToEnd(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}

	var diags []diag.Diagnostic
	sess := compiler.New(builtinTable(t), cfg, func(d diag.Diagnostic) { diags = append(diags, d) })
	defer sess.Release()

	a := arena.New(nil)
	defer a.Release()
	b := ir.NewBuilder(a)

	out, ok := sess.Compile([]compiler.Input{{
		Name: "main.sc", Type: symbol.FileMain, TypeID: 0, IR: repeatScript(b),
	}})
	if !ok {
		t.Fatalf("Compile failed, diagnostics: %v", diags)
	}
	if len(out.Files) != 1 || out.Files[0].Name != "main.sc" {
		t.Fatalf("unexpected Files: %+v", out.Files)
	}

	// I is the one declared global, assigned storage index 2 (default
	// FirstVarStorageIndex), so its byte offset argument is 4*2 = 8.
	// SET I 0; WAIT 0; ADD_THING_TO_THING I 1;
	// IS_THING_GREATER_OR_EQUAL_TO_THING I 5; GOTO_IF_FALSE loopLabel
	want := []byte{
		0x04, 0x00, 0x02, 0x08, 0x00, 0x04, 0x00, // SET I 0
		0x01, 0x00, 0x04, 0x00, // WAIT 0
		0x0A, 0x00, 0x02, 0x08, 0x00, 0x04, 0x01, // ADD_THING_TO_THING I 1
		0x22, 0x00, 0x02, 0x08, 0x00, 0x04, 0x05, // IS_THING_GREATER_OR_EQUAL_TO_THING I 5
		0x4D, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, // GOTO_IF_FALSE <loop label, patched to 7>
	}
	if string(out.Code) != string(want) {
		t.Fatalf("code = % x, want % x", out.Code, want)
	}
}

// TestCompileMultiFileLocalScopesDoNotCollide exercises a two-file session
// where each file declares its own `{ LVAR_INT ... }` block: pass 1 for
// file 2 allocates scope ids after file 1's, so pass 2 must replay each
// file's own scope base rather than the session-wide last one, or file 1's
// local lookups resolve against file 2's scope (or vice versa).
func TestCompileMultiFileLocalScopesDoNotCollide(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}

	var diags []diag.Diagnostic
	sess := compiler.New(builtinTable(t), cfg, func(d diag.Diagnostic) { diags = append(diags, d) })
	defer sess.Release()

	a := arena.New(nil)
	defer a.Release()
	b := ir.NewBuilder(a)

	localBlock := func(name string) *ir.ParserIR {
		list := &ir.ParserIR{}
		r := source.Range{}
		list.PushBack(b.NewLine(nil, b.NewCommand("{", false, r, nil)))
		list.PushBack(b.NewLine(nil, b.NewCommand("LVAR_INT", false, r, []ir.Argument{ir.IdentArg(name, r)})))
		list.PushBack(b.NewLine(nil, b.NewCommand("SET", false, r, []ir.Argument{
			ir.IdentArg(name, r), ir.IntArg(1, r),
		})))
		list.PushBack(b.NewLine(nil, b.NewCommand("}", false, r, nil)))
		return list
	}

	_, ok := sess.Compile([]compiler.Input{
		{Name: "one.sc", Type: symbol.FileMain, IR: localBlock("I")},
		{Name: "two.sc", Type: symbol.FileMain, IR: localBlock("I")},
	})
	if !ok {
		t.Fatalf("Compile failed, diagnostics: %v", diags)
	}
}

func TestCompileReportsUnknownCommand(t *testing.T) {
	cfg, err := config.New()
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}

	var diags []diag.Diagnostic
	sess := compiler.New(builtinTable(t), cfg, func(d diag.Diagnostic) { diags = append(diags, d) })
	defer sess.Release()

	a := arena.New(nil)
	defer a.Release()
	b := ir.NewBuilder(a)

	r := source.Range{}
	list := &ir.ParserIR{}
	list.PushBack(b.NewLine(nil, b.NewCommand("NOT_A_REAL_COMMAND", false, r, nil)))

	_, ok := sess.Compile([]compiler.Input{{Name: "main.sc", Type: symbol.FileMain, IR: list}})
	if ok {
		t.Fatal("Compile should have failed on an unknown command")
	}
	if len(diags) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
}
