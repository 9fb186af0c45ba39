// Package reloc implements the relocation table: the record of where every
// label/file is defined and every place that refers to one, plus the
// segment-aware logic that turns a label reference into the relative or
// absolute offset the trilogy VM expects at runtime (§4.K).
package reloc

import (
	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// InvalidOffset marks an AbsoluteOffset that has not been assigned yet.
const InvalidOffset uint32 = 0xFFFFFFFF

type labelLoc struct {
	origin *symbol.FileDef
	label  *symbol.Label
	offset uint32
}

type fileLoc struct {
	file   *symbol.FileDef
	offset uint32
}

// FixupEntry is a registered label reference awaiting relocation.
type FixupEntry struct {
	Origin *symbol.FileDef
	Label  *symbol.Label
	Offset uint32
}

// FileFixupEntry is a registered file reference awaiting relocation.
type FileFixupEntry struct {
	File   *symbol.FileDef
	Offset uint32
}

// Table accumulates label/file definitions and the fixups that reference
// them, and resolves each fixup's final relative or absolute offset once
// every definition is known (after code generation of every file completes).
//
// Table is not safe for concurrent use.
type Table struct {
	labelDefs   []labelLoc
	fileDefs    []fileLoc
	labelFixups []FixupEntry
	fileFixups  []FileFixupEntry
}

// New creates an empty Table, reserving capacity for numLabels labels and
// numFiles files (and the same for their respective fixup tables, on the
// assumption every label/file is referenced at least once).
func New(numLabels, numFiles int) *Table {
	return &Table{
		labelDefs:   make([]labelLoc, 0, numLabels),
		fileDefs:    make([]fileLoc, 0, numFiles),
		labelFixups: make([]FixupEntry, 0, numLabels),
		fileFixups:  make([]FileFixupEntry, 0, numFiles),
	}
}

func (t *Table) resizeLabelDefs(label *symbol.Label) {
	if label.ID >= len(t.labelDefs) {
		grown := make([]labelLoc, label.ID+1)
		copy(grown, t.labelDefs)
		for i := len(t.labelDefs); i < len(grown); i++ {
			grown[i].offset = InvalidOffset
		}
		t.labelDefs = grown
	}
}

func (t *Table) resizeFileDefs(file *symbol.FileDef) {
	if file.ID >= len(t.fileDefs) {
		grown := make([]fileLoc, file.ID+1)
		copy(grown, t.fileDefs)
		for i := len(t.fileDefs); i < len(grown); i++ {
			grown[i].offset = InvalidOffset
		}
		t.fileDefs = grown
	}
}

// InsertLabelLoc registers where label is defined, within origin, at
// offset. Returns false if the label was already registered.
func (t *Table) InsertLabelLoc(label *symbol.Label, origin *symbol.FileDef, offset uint32) bool {
	t.resizeLabelDefs(label)
	t.resizeFileDefs(origin)
	if t.labelDefs[label.ID].offset != InvalidOffset {
		return false
	}
	t.labelDefs[label.ID] = labelLoc{origin: origin, label: label, offset: offset}
	return true
}

// InsertFileLoc registers where file is located (its segment base offset).
// Returns false if the file was already registered.
func (t *Table) InsertFileLoc(file *symbol.FileDef, offset uint32) bool {
	t.resizeFileDefs(file)
	if t.fileDefs[file.ID].offset != InvalidOffset {
		return false
	}
	t.fileDefs[file.ID] = fileLoc{file: file, offset: offset}
	return true
}

// InsertLabelFixup registers a label reference at offset, within origin,
// that needs relocation once every label definition is known.
func (t *Table) InsertLabelFixup(label *symbol.Label, origin *symbol.FileDef, offset uint32) {
	t.resizeLabelDefs(label)
	t.resizeFileDefs(origin)
	t.labelFixups = append(t.labelFixups, FixupEntry{Origin: origin, Label: label, Offset: offset})
}

// InsertFileFixup registers a file reference at offset that needs
// relocation once every file definition is known.
func (t *Table) InsertFileFixup(file *symbol.FileDef, offset uint32) {
	t.resizeFileDefs(file)
	t.fileFixups = append(t.fileFixups, FileFixupEntry{File: file, Offset: offset})
}

// LabelFixups returns every registered label fixup entry.
func (t *Table) LabelFixups() []FixupEntry { return t.labelFixups }

// FileFixups returns every registered file fixup entry.
func (t *Table) FileFixups() []FileFixupEntry { return t.fileFixups }

func isInMainSegment(file *symbol.FileDef) bool {
	switch file.Type {
	case symbol.FileMain, symbol.FileMainExtension, symbol.FileSubscript:
		return true
	case symbol.FileMission:
		return false
	default:
		return true
	}
}

func isInSameSegment(a, b *symbol.FileDef) bool {
	switch a.Type {
	case symbol.FileMain, symbol.FileMainExtension, symbol.FileSubscript:
		return isInMainSegment(b)
	case symbol.FileMission:
		return b.Type == symbol.FileMission && b.TypeID == a.TypeID
	default:
		return false
	}
}

func (t *Table) segmentBaseFor(file *symbol.FileDef) uint32 {
	switch file.Type {
	case symbol.FileMain, symbol.FileMainExtension, symbol.FileSubscript:
		return 0
	case symbol.FileMission:
		return t.fileDefs[file.ID].offset
	default:
		return 0
	}
}

// Relocate resolves a label fixup entry to the relative or absolute offset
// that should be written in its place. If the label is in the main segment
// the result is an absolute offset; if the label is in the same (mission)
// segment as the reference the result is a negative offset relative to the
// segment base; otherwise relocation is impossible and a diagnostic is
// reported via h, and ok is false.
func (t *Table) Relocate(entry FixupEntry, h *diag.Handler) (rel int32, ok bool) {
	def := t.labelDefs[entry.Label.ID]

	if isInMainSegment(def.origin) {
		return int32(def.offset), true
	}
	if isInSameSegment(def.origin, entry.Origin) {
		segbase := t.segmentBaseFor(def.origin)
		if segbase == def.offset {
			h.Report(diag.Error, diag.CodegenLabelAtLocalZeroOffset, source.None)
			return 0, false
		}
		return -int32(def.offset - segbase), true
	}
	h.Report(diag.Error, diag.CodegenLabelRefAcrossSegments, source.None)
	return 0, false
}

// RelocateFile resolves a file fixup entry, which is always an absolute
// offset into the file's own segment base.
func (t *Table) RelocateFile(entry FileFixupEntry) int32 {
	return int32(t.fileDefs[entry.File.ID].offset)
}
