package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/thelink2012/gta3sc-sub001/arena"
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/compiler"
	"github.com/thelink2012/gta3sc-sub001/config"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// builtinCommands defines just enough of the trilogy command set to run the
// demo script below: WAIT, the SET/ADD_THING_TO_THING/
// IS_THING_GREATER_OR_EQUAL_TO_THING/GOTO_IF_FALSE primitives REPEAT lowers
// to, and SCRIPT_NAME.
func builtinCommands() *command.Table {
	b := command.NewBuilder()

	must := func(def *command.CommandDef, err error) {
		if err != nil {
			panic(err)
		}
	}

	must(b.DefineCommand(command.CommandDef{
		Name:          "WAIT",
		Params:        []command.ParamDef{{Type: command.ParamInt}},
		TargetID:      0x0001,
		HasTarget:     true,
		TargetHandled: true,
	}))
	must(b.DefineCommand(command.CommandDef{
		Name: "SET",
		Params: []command.ParamDef{
			{Type: command.ParamOutputInt},
			{Type: command.ParamInputInt},
		},
		TargetID:      0x0004,
		HasTarget:     true,
		TargetHandled: true,
	}))
	must(b.DefineCommand(command.CommandDef{
		Name: "ADD_THING_TO_THING",
		Params: []command.ParamDef{
			{Type: command.ParamOutputInt},
			{Type: command.ParamInputInt},
		},
		TargetID:      0x000A,
		HasTarget:     true,
		TargetHandled: true,
	}))
	must(b.DefineCommand(command.CommandDef{
		Name: "IS_THING_GREATER_OR_EQUAL_TO_THING",
		Params: []command.ParamDef{
			{Type: command.ParamInputInt},
			{Type: command.ParamInputInt},
		},
		TargetID:      0x0022,
		HasTarget:     true,
		TargetHandled: true,
	}))
	must(b.DefineCommand(command.CommandDef{
		Name:          "GOTO_IF_FALSE",
		Params:        []command.ParamDef{{Type: command.ParamLabel}},
		TargetID:      0x004D,
		HasTarget:     true,
		TargetHandled: true,
	}))
	must(b.DefineCommand(command.CommandDef{
		Name:          "SCRIPT_NAME",
		Params:        []command.ParamDef{{Type: command.ParamTextLabel}},
		TargetID:      0x03A4,
		HasTarget:     true,
		TargetHandled: true,
	}))

	return b.Build()
}

// demoScript hand-builds the Parser IR for:
//
//	SCRIPT_NAME demo
//	VAR_INT i
//	REPEAT 5 i
//	    WAIT 0
//	ENDREPEAT
//
// matching §8 scenario S1 (the demo runs entirely in the global scope, so
// REPEAT's iterator variable is a global declared with VAR_INT).
func demoScript(b *ir.Builder) *ir.ParserIR {
	list := &ir.ParserIR{}
	r := source.Range{}

	list.PushBack(b.NewLine(nil, b.NewCommand("SCRIPT_NAME", false, r, []ir.Argument{
		ir.IdentArg("DEMO", r),
	})))
	list.PushBack(b.NewLine(nil, b.NewCommand("VAR_INT", false, r, []ir.Argument{
		ir.IdentArg("I", r),
	})))
	list.PushBack(b.NewLine(nil, b.NewCommand("REPEAT", false, r, []ir.Argument{
		ir.IntArg(5, r),
		ir.IdentArg("I", r),
	})))
	list.PushBack(b.NewLine(nil, b.NewCommand("WAIT", false, r, []ir.Argument{
		ir.IntArg(0, r),
	})))
	list.PushBack(b.NewLine(nil, b.NewCommand("ENDREPEAT", false, r, nil)))

	return list
}

func main() {
	outFileName := flag.String("o", "a.scm", "output bytecode `filename`")
	pretty := flag.Bool("pretty", false, "use zerolog's console writer instead of JSON logging")
	flag.Parse()

	var opts []config.Option
	if *pretty {
		opts = append(opts, config.WithLogPretty(true))
	}
	cfg, err := config.New(opts...)
	if err != nil {
		fatal(err)
	}

	cmds := builtinCommands()

	var diagCount int
	emit := func(d diag.Diagnostic) {
		diagCount++
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", d.Level, d.Range, d.Kind)
	}

	sess := compiler.New(cmds, cfg, emit)
	defer sess.Release()

	// The Parser IR fed into a Session is built by the (out-of-scope)
	// syntactic parser in a real toolchain, through its own arena; this
	// demo stands in for that with its own short-lived arena, released once
	// the IR has been handed off and compiled.
	demoArena := arena.New(nil)
	defer demoArena.Release()
	b := ir.NewBuilder(demoArena)

	out, ok := sess.Compile([]compiler.Input{{
		Name:   "demo.sc",
		Type:   symbol.FileMain,
		TypeID: 0,
		IR:     demoScript(b),
	}})

	if !ok {
		fmt.Fprintf(os.Stderr, "gta3scc: compilation failed with %d diagnostic(s)\n", diagCount)
		os.Exit(1)
	}

	if err := os.WriteFile(*outFileName, out.Code, 0o644); err != nil {
		fatal(errors.Wrap(err, "gta3scc: write output"))
	}
	fmt.Printf("gta3scc: wrote %d bytes to %s\n", len(out.Code), *outFileName)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "gta3scc: %v\n", err)
	os.Exit(1)
}
