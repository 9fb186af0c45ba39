// Package storage assigns each variable in a symbol table a storage index,
// matching the fixed global/local memory layout of the trilogy engines
// (§4.H).
package storage

import (
	"math"

	"github.com/thelink2012/gta3sc-sub001/symbol"
)

// IndexType is the storage index of a variable.
type IndexType = uint16

// impossibleIndex never matches a real IndexType (the big-index type here is
// a plain int, wide enough that it can never collide with a uint16 index),
// mirroring the original's `impossible_index` sentinel used to disable a
// timer slot.
const impossibleIndex = math.MaxInt32

// TimerOptions reserves a fixed storage index for a named timer variable
// (TIMERA/TIMERB), so ordinary variable allocation skips over it.
type TimerOptions struct {
	Index IndexType
	Name  string
}

// Options configures a Table's allocation bounds. The zero value is not
// useful; use DefaultOptions for the trilogy engines' real layout.
type Options struct {
	FirstVarStorageIndex  IndexType
	MaxVarStorageIndex    IndexType
	FirstLVarStorageIndex IndexType
	MaxLVarStorageIndex   IndexType
	Timers                [2]*TimerOptions
}

// DefaultOptions returns the trilogy engines' real memory layout: globals
// start at index 2 (indices 0-1 are reserved by the engine) up to 16383,
// locals start at 0 up to 17 with TIMERA/TIMERB pinned to 16/17.
func DefaultOptions() Options {
	return Options{
		FirstVarStorageIndex:  2,
		MaxVarStorageIndex:    16383,
		FirstLVarStorageIndex: 0,
		MaxLVarStorageIndex:   17,
		Timers: [2]*TimerOptions{
			{Index: 16, Name: "TIMERA"},
			{Index: 17, Name: "TIMERB"},
		},
	}
}

type localOptions struct {
	first  IndexType
	max    IndexType
	timers [2]*TimerOptions
}

func optionsForScope(scope symbol.ScopeID, opt Options) localOptions {
	if scope == symbol.GlobalScope {
		return localOptions{first: opt.FirstVarStorageIndex, max: opt.MaxVarStorageIndex}
	}
	return localOptions{first: opt.FirstLVarStorageIndex, max: opt.MaxLVarStorageIndex, timers: opt.Timers}
}

func numIndicesForVar(v *symbol.Variable) int {
	n := v.Dimensions
	if n < 1 {
		n = 1
	}
	return v.Type.SizeOf() * n
}

func unwrapTimer(opt *TimerOptions, tbl *symbol.Table, scope symbol.ScopeID) (index int, v *symbol.Variable) {
	if opt == nil {
		return impossibleIndex, nil
	}
	if found, ok := tbl.LookupVar(opt.Name, scope); ok {
		return int(opt.Index), found
	}
	return int(opt.Index), nil
}

// localTable is the per-scope assignment of variable id -> storage index.
type localTable struct {
	indexForID []IndexType
}

func newLocalTable(tbl *symbol.Table, scope symbol.ScopeID, opt localOptions) (*localTable, bool) {
	vars := tbl.Scope(scope)

	timerAIndex, timerAVar := unwrapTimer(opt.timers[0], tbl, scope)
	timerBIndex, timerBVar := unwrapTimer(opt.timers[1], tbl, scope)

	lt := &localTable{indexForID: make([]IndexType, len(vars))}
	current := int(opt.first)
	maxIndex := int(opt.max)

	for i, v := range vars {
		switch v {
		case timerAVar:
			lt.indexForID[i] = IndexType(timerAIndex)
		case timerBVar:
			lt.indexForID[i] = IndexType(timerBIndex)
		default:
			for current == timerAIndex || current == timerBIndex {
				current++
			}
			lt.indexForID[i] = IndexType(current)
			current += numIndicesForVar(v)
			if current > maxIndex+1 {
				return nil, false
			}
		}
	}
	return lt, true
}

func (lt *localTable) varIndex(v *symbol.Variable) IndexType {
	return lt.indexForID[v.ID]
}

// Table is the storage assignment for every scope of a symbol table,
// computed once after semantic analysis completes and consumed by codegen
// to translate a Variable reference into a VAR/LVAR storage offset.
type Table struct {
	scopes []*localTable
}

// FromSymbols computes the storage assignment for every scope of tbl. It
// returns ok=false if any scope's variables do not fit within the bounds
// given by options (§4.H: "too many variables in a scope is reported as an
// error").
func FromSymbols(tbl *symbol.Table, options Options) (*Table, bool) {
	st := &Table{scopes: make([]*localTable, tbl.NumScopes())}
	for i := 0; i < tbl.NumScopes(); i++ {
		scope := symbol.ScopeID(i)
		lt, ok := newLocalTable(tbl, scope, optionsForScope(scope, options))
		if !ok {
			return nil, false
		}
		st.scopes[i] = lt
	}
	return st, true
}

// VarIndex returns the storage index assigned to v. The index sequence of
// each scope is independent, so two variables from different scopes may
// report the same index.
func (st *Table) VarIndex(v *symbol.Variable) IndexType {
	return st.scopes[v.Scope].varIndex(v)
}
