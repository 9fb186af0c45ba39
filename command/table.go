package command

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/pkg/errors"
)

// Table is an immutable, shared-safe registry of commands, alternators,
// enumerations, constants and entity types. It is only ever constructed
// through a Builder; once Build returns, a Table is never mutated again, so
// it is safe to share (read-only) across compile sessions, matching §4.B.
type Table struct {
	commands    map[string]*CommandDef
	alternators map[string]*AlternatorDef
	enums       map[string]EnumID
	constants   map[string]*ConstantDef
	entities    map[string]EntityID
}

// FindCommand looks up a command definition by name (case-insensitive; pass
// the already-uppercased interned form for O(1) lookup).
func (t *Table) FindCommand(name string) (*CommandDef, bool) {
	c, ok := t.commands[name]
	return c, ok
}

// FindAlternator looks up an alternator by name.
func (t *Table) FindAlternator(name string) (*AlternatorDef, bool) {
	a, ok := t.alternators[name]
	return a, ok
}

// FindEnumeration looks up an enumeration id by name.
func (t *Table) FindEnumeration(name string) (EnumID, bool) {
	e, ok := t.enums[name]
	return e, ok
}

// FindConstant looks up a constant by name, restricted to a specific
// enumeration.
func (t *Table) FindConstant(enumID EnumID, name string) (*ConstantDef, bool) {
	for c := t.constants[name]; c != nil; c = c.next {
		if c.EnumID == enumID {
			return c, true
		}
	}
	return nil, false
}

// FindConstantAnyMeans returns the first constant named name that does NOT
// belong to the global enumeration, i.e. it resolves a bare name to
// whichever specific enum claims it (used when an argument's expected enum
// isn't known ahead of time).
func (t *Table) FindConstantAnyMeans(name string) (*ConstantDef, bool) {
	for c := t.constants[name]; c != nil; c = c.next {
		if c.EnumID != GlobalEnum {
			return c, true
		}
	}
	return nil, false
}

// FindEntityType looks up an entity type id by name.
func (t *Table) FindEntityType(name string) (EntityID, bool) {
	e, ok := t.entities[name]
	return e, ok
}

// CommandNames returns every defined command name in sorted order, for
// debug dumps (the compiler driver logs the table size at debug level, not
// its full contents; this is for ad-hoc inspection of a loaded table).
func (t *Table) CommandNames() []string {
	names := maps.Keys(t.commands)
	sort.Strings(names)
	return names
}

// Builder accumulates command/alternator/enum/constant/entity definitions.
// Names passed to Builder methods are expected to already be upper-cased
// (the caller interns them through arena.InternIdent, same as every other
// table in this module).
type Builder struct {
	commands    map[string]*CommandDef
	alternators map[string]*AlternatorDef
	enums       map[string]EnumID
	constants   map[string]*ConstantDef
	entities    map[string]EntityID
	nextEnum    EnumID
	nextEntity  EntityID
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		commands:    make(map[string]*CommandDef),
		alternators: make(map[string]*AlternatorDef),
		enums:       make(map[string]EnumID),
		constants:   make(map[string]*ConstantDef),
		entities:    make(map[string]EntityID),
		nextEnum:    GlobalEnum + 1,
		nextEntity:  NoEntityType + 1,
	}
}

// DefineCommand inserts a command definition. It returns an error if name
// is already defined, or if more than one parameter is optional, or an
// optional parameter is not last.
func (b *Builder) DefineCommand(def CommandDef) (*CommandDef, error) {
	if _, ok := b.commands[def.Name]; ok {
		return nil, errors.Errorf("command: duplicate command definition %q", def.Name)
	}
	for i, p := range def.Params {
		if p.Optional && i != len(def.Params)-1 {
			return nil, errors.Errorf("command: %q has an optional parameter before the last one", def.Name)
		}
	}
	cp := def
	b.commands[def.Name] = &cp
	return &cp, nil
}

// DefineAlternator creates (or extends, if it already exists) an alternator
// with the given name, appending alternatives referencing the named
// commands in the order given. Each referenced command must already be
// defined via DefineCommand.
func (b *Builder) DefineAlternator(name string, commandNames ...string) (*AlternatorDef, error) {
	alt, ok := b.alternators[name]
	if !ok {
		alt = &AlternatorDef{Name: name}
		b.alternators[name] = alt
	}
	var tail *AlternativeDef
	for t := alt.first; t != nil; t = t.next {
		tail = t
	}
	for _, cn := range commandNames {
		def, ok := b.commands[cn]
		if !ok {
			return nil, errors.Errorf("command: alternator %q references undefined command %q", name, cn)
		}
		node := &AlternativeDef{Command: def}
		if tail == nil {
			alt.first = node
		} else {
			tail.next = node
		}
		tail = node
	}
	return alt, nil
}

// DefineEnumeration registers (or returns the existing id for) a named
// enumeration, distinct from GlobalEnum.
func (b *Builder) DefineEnumeration(name string) EnumID {
	if id, ok := b.enums[name]; ok {
		return id
	}
	id := b.nextEnum
	b.nextEnum++
	b.enums[name] = id
	return id
}

// DefineConstant registers a named constant within enumID. Constants
// sharing a name across different enumerations chain together so
// FindConstantAnyMeans can resolve a bare name later.
func (b *Builder) DefineConstant(enumID EnumID, name string, value int32) (*ConstantDef, error) {
	for c := b.constants[name]; c != nil; c = c.next {
		if c.EnumID == enumID {
			return nil, errors.Errorf("command: duplicate constant %q in enum %d", name, enumID)
		}
	}
	node := &ConstantDef{Name: name, EnumID: enumID, Value: value, next: b.constants[name]}
	b.constants[name] = node
	return node, nil
}

// DefineEntityType registers (or returns the existing id for) a named
// entity type, distinct from NoEntityType.
func (b *Builder) DefineEntityType(name string) EntityID {
	if id, ok := b.entities[name]; ok {
		return id
	}
	id := b.nextEntity
	b.nextEntity++
	b.entities[name] = id
	return id
}

// Build finalizes the table. The returned Table must not be mutated further
// (the Builder should be discarded after calling Build).
func (b *Builder) Build() *Table {
	return &Table{
		commands:    b.commands,
		alternators: b.alternators,
		enums:       b.enums,
		constants:   b.constants,
		entities:    b.entities,
	}
}
