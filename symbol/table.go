package symbol

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/thelink2012/gta3sc-sub001/source"
)

type scopeData struct {
	vars  map[string]*Variable
	order []*Variable
}

// Table is the mutable symbol table built up during semantic analysis. It
// owns four independent dense-id namespaces: labels, used objects, models
// and files are process-wide; variables are additionally scoped.
//
// Table is not safe for concurrent use; one Table belongs to one compile
// session (§5).
type Table struct {
	scopes []scopeData

	labels      map[string]*Label
	usedObjects map[string]*UsedObject
	models      map[string]*ModelDef
	files       map[string]*FileDef

	nextLabelID  int
	nextUsedID   int
	nextModelID  int
	nextFileID   int
}

// NewTable creates an empty Table with the global scope already allocated.
func NewTable() *Table {
	t := &Table{
		labels:      make(map[string]*Label),
		usedObjects: make(map[string]*UsedObject),
		models:      make(map[string]*ModelDef),
		files:       make(map[string]*FileDef),
	}
	t.scopes = append(t.scopes, scopeData{vars: make(map[string]*Variable)})
	return t
}

// NewScope allocates a fresh scope (created for each `{ ... }` block) and
// returns its dense id. Ids are assigned in allocation order so storage
// allocation can index scopes directly without a hash (§4.C).
func (t *Table) NewScope() ScopeID {
	t.scopes = append(t.scopes, scopeData{vars: make(map[string]*Variable)})
	return ScopeID(len(t.scopes) - 1)
}

// NumScopes returns the number of scopes allocated so far, including the
// global scope.
func (t *Table) NumScopes() int {
	return len(t.scopes)
}

// InsertVar inserts a variable into scope. On collision (same name already
// declared in that scope) the existing Variable is returned unchanged and
// inserted is false, matching the "insert_* returns (ptr, inserted)"
// contract of §4.C.
func (t *Table) InsertVar(scope ScopeID, name string, rng source.Range, typ VarType, dimensions int) (v *Variable, inserted bool) {
	sd := &t.scopes[scope]
	if existing, ok := sd.vars[name]; ok {
		return existing, false
	}
	nv := &Variable{
		Name:       name,
		Range:      rng,
		ID:         len(sd.order),
		Scope:      scope,
		Type:       typ,
		Dimensions: dimensions,
	}
	sd.vars[name] = nv
	sd.order = append(sd.order, nv)
	return nv, true
}

// LookupVar searches only the given scope (§4.C: "lookup_var(name, scope)
// searches only the given scope").
func (t *Table) LookupVar(name string, scope ScopeID) (*Variable, bool) {
	sd := &t.scopes[scope]
	v, ok := sd.vars[name]
	return v, ok
}

// Scope returns the variables declared in scope, in id (insertion) order.
func (t *Table) Scope(scope ScopeID) []*Variable {
	return t.scopes[scope].order
}

// InsertLabel inserts a process-wide label.
func (t *Table) InsertLabel(name string, rng source.Range) (*Label, bool) {
	if existing, ok := t.labels[name]; ok {
		return existing, false
	}
	l := &Label{Name: name, Range: rng, ID: t.nextLabelID}
	t.nextLabelID++
	t.labels[name] = l
	return l, true
}

// LookupLabel looks up a process-wide label by name.
func (t *Table) LookupLabel(name string) (*Label, bool) {
	l, ok := t.labels[name]
	return l, ok
}

// NumLabels returns how many labels have been inserted.
func (t *Table) NumLabels() int { return t.nextLabelID }

// InsertUsedObject inserts a process-wide used-object reference.
func (t *Table) InsertUsedObject(name string, rng source.Range) (*UsedObject, bool) {
	if existing, ok := t.usedObjects[name]; ok {
		return existing, false
	}
	u := &UsedObject{Name: name, Range: rng, ID: t.nextUsedID}
	t.nextUsedID++
	t.usedObjects[name] = u
	return u, true
}

// LookupUsedObject looks up a used-object reference by name.
func (t *Table) LookupUsedObject(name string) (*UsedObject, bool) {
	u, ok := t.usedObjects[name]
	return u, ok
}

// InsertModel inserts an externally-sourced model definition.
func (t *Table) InsertModel(name string) (*ModelDef, bool) {
	if existing, ok := t.models[name]; ok {
		return existing, false
	}
	m := &ModelDef{Name: name, ID: t.nextModelID}
	t.nextModelID++
	t.models[name] = m
	return m, true
}

// LookupModel looks up a model definition by name.
func (t *Table) LookupModel(name string) (*ModelDef, bool) {
	m, ok := t.models[name]
	return m, ok
}

// InsertFile inserts a source file identity. typeID should be the dense
// ordinal of this file within its FileType (e.g. the Nth mission file),
// assigned by the caller (driven by the out-of-scope file loader).
func (t *Table) InsertFile(name string, typ FileType, typeID int) (*FileDef, bool) {
	if existing, ok := t.files[name]; ok {
		return existing, false
	}
	f := &FileDef{Name: name, Type: typ, TypeID: typeID, ID: t.nextFileID}
	t.nextFileID++
	t.files[name] = f
	return f, true
}

// LookupFile looks up a file identity by name.
func (t *Table) LookupFile(name string) (*FileDef, bool) {
	f, ok := t.files[name]
	return f, ok
}

// LabelNames returns every inserted label name in sorted order, for
// debug/diagnostic dumps (the compiler driver logs table sizes at debug
// level, never the full contents; this is for ad-hoc inspection).
func (t *Table) LabelNames() []string {
	names := maps.Keys(t.labels)
	sort.Strings(names)
	return names
}

// FileNames returns every inserted file identity name in sorted order.
func (t *Table) FileNames() []string {
	names := maps.Keys(t.files)
	sort.Strings(names)
	return names
}

// NumFiles returns how many files have been inserted.
func (t *Table) NumFiles() int { return t.nextFileID }
