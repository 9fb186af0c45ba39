// Package lowering rewrites structured Parser IR commands into the
// primitive commands the rest of the pipeline understands, before semantic
// analysis runs (§4.F).
package lowering

import (
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/namegen"
)

const (
	cmdRepeat                     = "REPEAT"
	cmdEndRepeat                  = "ENDREPEAT"
	cmdGotoIfFalse                = "GOTO_IF_FALSE"
	cmdSet                        = "SET"
	cmdAddThingToThing            = "ADD_THING_TO_THING"
	cmdIsThingGreaterOrEqualThing = "IS_THING_GREATER_OR_EQUAL_TO_THING"
)

type repeatFrame struct {
	numTimes ir.Argument
	iterVar  ir.Argument
	label    string
}

// RepeatRewriter rewrites REPEAT/ENDREPEAT pairs into SET/label/
// ADD_THING_TO_THING/IS_THING_GREATER_OR_EQUAL_TO_THING/GOTO_IF_FALSE
// primitives (§4.F), matching RepeatStmtRewriter from the original compiler.
//
// RepeatRewriter is not safe for concurrent use; one instance rewrites one
// ParserIR stream start to finish, since REPEAT/ENDREPEAT nesting is tracked
// with a stack scoped to that single pass.
type RepeatRewriter struct {
	namegen *namegen.Generator
	builder *ir.Builder
	stack   []repeatFrame
}

// NewRepeatRewriter creates a rewriter that synthesizes fresh loop labels
// through ng and builds replacement IR nodes through b.
func NewRepeatRewriter(ng *namegen.Generator, b *ir.Builder) *RepeatRewriter {
	return &RepeatRewriter{namegen: ng, builder: b}
}

// Rewrite walks list in place, replacing every REPEAT/ENDREPEAT pair with
// its lowered primitive form. Lines that are not REPEAT/ENDREPEAT, or that
// are malformed (wrong argument count, unbalanced ENDREPEAT), pass through
// unchanged — mirroring the original's "empty optional means no rewrite"
// contract.
func (r *RepeatRewriter) Rewrite(list *ir.ParserIR) {
	for n := list.Front(); n != nil; {
		next := n.Next()
		line := n.Value
		if line.Command != nil {
			switch line.Command.Name {
			case cmdRepeat:
				if repl, ok := r.visitRepeat(line); ok {
					list.ReplaceWithSequence(n, repl)
				}
			case cmdEndRepeat:
				if repl, ok := r.visitEndRepeat(line); ok {
					list.ReplaceWithSequence(n, repl)
				}
			}
		}
		n = next
	}
}

func (r *RepeatRewriter) visitRepeat(line ir.Line) ([]ir.Line, bool) {
	cmd := line.Command
	if len(cmd.Args) != 2 {
		return nil, false
	}
	numTimes, iterVar := cmd.Args[0], cmd.Args[1]
	loopLabel := r.builder.NewLabelDef(r.namegen.Generate(), cmd.Range)

	r.stack = append(r.stack, repeatFrame{numTimes: numTimes, iterVar: iterVar, label: loopLabel.Name})

	setCmd := r.builder.NewCommand(cmdSet, false, cmd.Range, []ir.Argument{iterVar, ir.IntArg(0, cmd.Range)})
	return []ir.Line{
		r.builder.NewLine(line.Label, setCmd),
		r.builder.NewLine(loopLabel, nil),
	}, true
}

func (r *RepeatRewriter) visitEndRepeat(line ir.Line) ([]ir.Line, bool) {
	if len(r.stack) == 0 {
		return nil, false
	}
	cmd := line.Command
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]

	addCmd := r.builder.NewCommand(cmdAddThingToThing, false, cmd.Range,
		[]ir.Argument{top.iterVar, ir.IntArg(1, cmd.Range)})
	cmpCmd := r.builder.NewCommand(cmdIsThingGreaterOrEqualThing, false, cmd.Range,
		[]ir.Argument{top.iterVar, top.numTimes})
	gotoCmd := r.builder.NewCommand(cmdGotoIfFalse, false, cmd.Range,
		[]ir.Argument{ir.IdentArg(top.label, cmd.Range)})

	return []ir.Line{
		r.builder.NewLine(line.Label, addCmd),
		r.builder.NewLine(nil, cmpCmd),
		r.builder.NewLine(nil, gotoCmd),
	}, true
}
