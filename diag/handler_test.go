package diag_test

import (
	"testing"

	"github.com/thelink2012/gta3sc-sub001/diag"
	"github.com/thelink2012/gta3sc-sub001/source"
)

func TestHandlerCountsByLevel(t *testing.T) {
	var got []diag.Diagnostic
	h := diag.NewHandler(func(d diag.Diagnostic) { got = append(got, d) })

	h.Report(diag.Error, diag.DuplicateLabel, source.Range{})
	h.Report(diag.Warning, diag.UnknownVariable, source.Range{})
	h.Build(diag.Error, diag.UnknownLabel).WithRange(source.Range{Begin: source.Position{Line: 3, Column: 1}}).Emit()

	if h.ErrorCount() != 2 {
		t.Fatalf("ErrorCount() = %d, want 2", h.ErrorCount())
	}
	if h.WarningCount() != 1 {
		t.Fatalf("WarningCount() = %d, want 1", h.WarningCount())
	}
	if !h.HasErrors() {
		t.Fatalf("HasErrors() = false, want true")
	}
	if len(got) != 3 {
		t.Fatalf("emit callback invoked %d times, want 3", len(got))
	}
	if got[2].Range.Begin.Line != 3 {
		t.Fatalf("builder did not attach range: %+v", got[2])
	}
}

func TestHandlerWithoutCallback(t *testing.T) {
	h := diag.NewHandler(nil)
	h.Report(diag.Error, diag.DuplicateLabel, source.Range{})
	if !h.HasErrors() {
		t.Fatal("HasErrors() = false, want true even without an emit callback")
	}
}
