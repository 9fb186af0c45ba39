// Package compiler wires every core component into one compile session:
// lowering rewrites, the two-pass semantic analyzer, storage allocation,
// per-file code generation and the final relocation fixup pass (§5). It is
// the driver, not the CLI — source loading, scanning and syntactic parsing
// remain external collaborators that hand this package a Parser IR per
// file.
package compiler

import (
	"encoding/binary"

	"github.com/rs/zerolog"

	"github.com/thelink2012/gta3sc-sub001/arena"
	"github.com/thelink2012/gta3sc-sub001/codegen"
	"github.com/thelink2012/gta3sc-sub001/command"
	"github.com/thelink2012/gta3sc-sub001/config"
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/ir"
	"github.com/thelink2012/gta3sc-sub001/lowering"
	"github.com/thelink2012/gta3sc-sub001/namegen"
	"github.com/thelink2012/gta3sc-sub001/reloc"
	"github.com/thelink2012/gta3sc-sub001/sema"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/storage"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// Input is one source file already reduced to Parser IR by the (external)
// syntactic parser, along with the file identity information the
// relocation table needs to place it in the right segment (§6, §13).
type Input struct {
	Name   string
	Type   symbol.FileType
	TypeID int
	IR     *ir.ParserIR
}

// Output is the result of compiling a full session: the combined,
// relocated bytecode image plus the per-file byte ranges within it, in
// input order.
type Output struct {
	Code  []byte
	Files []FileOutput
}

// FileOutput records where one input file's bytecode landed in Output.Code.
type FileOutput struct {
	Name   string
	Offset uint32
	Length uint32
}

// Session owns every component that must be shared across an entire
// compile session: one arena, one symbol table, one diagnostic handler, one
// semantic analyzer, one relocation table (§5: "one arena, one symbol
// table, one diagnostic handler... owned serially").
//
// Session is not safe for concurrent use.
type Session struct {
	opts    *config.Options
	log     zerolog.Logger
	arena   *arena.Arena
	cmds    *command.Table
	syms    *symbol.Table
	diag    *diag.Handler
	namegen *namegen.Generator
	sema    *sema.Analyzer
}

// New creates a Session against cmds (an immutable command table, typically
// shared across many sessions) and opts (resolved via config.New). Every
// diagnostic raised during Compile is forwarded to emit; emit may be nil to
// only count them.
func New(cmds *command.Table, opts *config.Options, emit func(diag.Diagnostic)) *Session {
	a := arena.New(nil)
	return &Session{
		opts:    opts,
		log:     opts.NewLogger(),
		arena:   a,
		cmds:    cmds,
		syms:    symbol.NewTable(),
		diag:    diag.NewHandler(emit),
		namegen: namegen.New(),
		sema:    nil, // constructed lazily once syms/diag/arena above exist; see below
	}
}

// Diagnostics returns the handler accumulating every diagnostic raised this
// session, for callers that want the final error/warning counts.
func (s *Session) Diagnostics() *diag.Handler { return s.diag }

// Compile runs every input through lowering and pass 1 in order, allocates
// storage once over the complete symbol table, then runs pass 2 and code
// generation per file, and finally patches every relocation fixup into the
// combined image (§5's data-flow: ParserIR -> lowering -> SemaIR + symbol
// table -> storage + codegen -> bytes + reloc table -> fixup pass).
//
// ok is false if any stage failed for any file (an unrecoverable parse-IR
// shape, a storage budget overflow, or any diagnostic-reported error);
// Output is still populated on a best-effort basis the same way a single
// file's CodeGen.Generate behaves, matching "diagnostics that still produce
// a best-effort output" (§1).
func (s *Session) Compile(inputs []Input) (*Output, bool) {
	if s.sema == nil {
		s.sema = sema.New(s.cmds, s.syms, s.diag, s.arena)
	}
	ok := true

	type prepared struct {
		file      *symbol.FileDef
		list      *ir.ParserIR
		scopeBase symbol.ScopeID
	}
	files := make([]prepared, 0, len(inputs))

	for _, in := range inputs {
		file, inserted := s.syms.InsertFile(s.arena.InternIdent(in.Name), in.Type, in.TypeID)
		if !inserted {
			s.log.Warn().Str("file", in.Name).Msg("duplicate file name in compile session")
		}

		rw := lowering.NewRepeatRewriter(s.namegen, ir.NewBuilder(s.arena))
		rw.Rewrite(in.IR)

		scopeBase := s.sema.PassDeclarations(in.IR)
		files = append(files, prepared{file: file, list: in.IR, scopeBase: scopeBase})

		s.log.Debug().Str("file", in.Name).Msg("declarations pass complete")
	}

	st, fits := storage.FromSymbols(s.syms, s.opts.Storage)
	if !fits {
		s.diag.Report(diag.Error, diag.StorageExhausted, source.None)
		ok = false
	}

	rt := reloc.New(s.syms.NumLabels(), s.syms.NumFiles())

	out := &Output{}
	var cursor uint32
	for _, p := range files {
		semaIR, passOK := s.sema.PassAnalyze(p.list, p.scopeBase)
		if !passOK {
			ok = false
		}

		var code []byte
		if st != nil {
			gen := codegen.New(p.file, cursor, st, s.diag)
			var genOK bool
			code, genOK = gen.Generate(semaIR, rt)
			if !genOK {
				ok = false
			}
		}

		rt.InsertFileLoc(p.file, cursor)
		out.Files = append(out.Files, FileOutput{Name: p.file.Name, Offset: cursor, Length: uint32(len(code))})
		out.Code = append(out.Code, code...)
		cursor += uint32(len(code))

		s.log.Debug().Str("file", p.file.Name).Int("bytes", len(code)).Msg("code generation complete")
	}

	if !patchFixups(out.Code, rt, s.diag) {
		ok = false
	}

	s.log.Info().Int("files", len(out.Files)).Int("bytes", len(out.Code)).
		Int("errors", s.diag.ErrorCount()).Msg("compile session finished")

	return out, ok && !s.diag.HasErrors()
}

// patchFixups resolves every registered label and file fixup against rt and
// overwrites the 4-byte placeholder codegen left at each site, matching the
// original's "final fixup pass rewrites 32-bit placeholders" (§2 data flow).
func patchFixups(code []byte, rt *reloc.Table, h *diag.Handler) bool {
	ok := true
	for _, f := range rt.LabelFixups() {
		rel, resolved := rt.Relocate(f, h)
		if !resolved {
			ok = false
			continue
		}
		patchI32(code, f.Offset, rel)
	}
	for _, f := range rt.FileFixups() {
		patchI32(code, f.Offset, rt.RelocateFile(f))
	}
	return ok
}

func patchI32(code []byte, offset uint32, value int32) {
	if int(offset)+4 > len(code) {
		return
	}
	binary.LittleEndian.PutUint32(code[offset:offset+4], uint32(value))
}

// Release tears down the session's arena, invalidating every IR/symbol/
// command pointer it produced, matching the arena's "released en masse
// when the compile session ends" lifecycle (§3).
func (s *Session) Release() {
	s.arena.Release()
}
