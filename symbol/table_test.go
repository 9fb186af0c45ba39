package symbol_test

import (
	"testing"

	"github.com/thelink2012/gta3sc-sub001/source"
	"github.com/thelink2012/gta3sc-sub001/symbol"
)

func TestInsertThenLookupReturnsSamePointer(t *testing.T) {
	tbl := symbol.NewTable()

	v1, inserted := tbl.InsertVar(symbol.GlobalScope, "HEALTH", source.Range{}, symbol.VarInt, 0)
	if !inserted {
		t.Fatal("first insert reported inserted=false")
	}
	v2, inserted := tbl.InsertVar(symbol.GlobalScope, "HEALTH", source.Range{}, symbol.VarFloat, 0)
	if inserted {
		t.Fatal("second insert of the same name reported inserted=true")
	}
	if v1 != v2 {
		t.Fatal("second insert returned a different pointer than the first")
	}
	if v2.Type != symbol.VarInt {
		t.Fatal("second insert's (ignored) type leaked through; collision must keep the original")
	}

	got, ok := tbl.LookupVar("HEALTH", symbol.GlobalScope)
	if !ok || got != v1 {
		t.Fatalf("LookupVar = %v, %v, want %v, true", got, ok, v1)
	}
}

func TestLookupVarIsScopeLocal(t *testing.T) {
	tbl := symbol.NewTable()
	scope := tbl.NewScope()
	tbl.InsertVar(scope, "X", source.Range{}, symbol.VarInt, 0)

	if _, ok := tbl.LookupVar("X", symbol.GlobalScope); ok {
		t.Fatal("LookupVar found a scope-local variable from the global scope")
	}
	if _, ok := tbl.LookupVar("X", scope); !ok {
		t.Fatal("LookupVar did not find the variable in its own scope")
	}
}

func TestVariableIDsAreDenseInsertionOrder(t *testing.T) {
	tbl := symbol.NewTable()
	a, _ := tbl.InsertVar(symbol.GlobalScope, "A", source.Range{}, symbol.VarInt, 0)
	b, _ := tbl.InsertVar(symbol.GlobalScope, "B", source.Range{}, symbol.VarInt, 0)
	if a.ID != 0 || b.ID != 1 {
		t.Fatalf("expected dense ids 0,1; got %d,%d", a.ID, b.ID)
	}
	scopeVars := tbl.Scope(symbol.GlobalScope)
	if len(scopeVars) != 2 || scopeVars[0] != a || scopeVars[1] != b {
		t.Fatalf("Scope() order = %v, want [a, b]", scopeVars)
	}
}

func TestDuplicateLabel(t *testing.T) {
	tbl := symbol.NewTable()
	_, inserted := tbl.InsertLabel("LOOP", source.Range{})
	if !inserted {
		t.Fatal("first label insert reported inserted=false")
	}
	_, inserted = tbl.InsertLabel("LOOP", source.Range{})
	if inserted {
		t.Fatal("duplicate label insert reported inserted=true")
	}
}
