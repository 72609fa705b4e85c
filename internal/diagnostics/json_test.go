package diagnostics

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestManifestJSONRoundTrip(t *testing.T) {
	diags := []Diagnostic{
		{Severity: Error, Message: "unresolved reference: foo", Range: Range{Line: 2, Column: 3}},
		{Severity: Warning, Message: "unused variable", Hint: "prefix with _", Range: Range{Line: 1, Column: 1}},
	}

	doc, err := ManifestJSON("demo.nova", diags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gjson.Get(doc, "source").String(), "demo.nova") {
		t.Fatalf("expected source field, got: %s", doc)
	}
	if ErrorCountFromManifest(doc) != 1 {
		t.Fatalf("expected errorCount 1, got %d", ErrorCountFromManifest(doc))
	}
	if got := gjson.Get(doc, "diagnostics.0.hint").String(); got != "prefix with _" {
		t.Fatalf("expected hint to round-trip, got %q", got)
	}
	// Sorted by line/column: the warning (line 1) comes before the error (line 2).
	if got := gjson.Get(doc, "diagnostics.0.severity").String(); got != "warning" {
		t.Fatalf("expected diagnostics sorted by position, got %q first", got)
	}
}

func TestManifestJSONEmpty(t *testing.T) {
	doc, err := ManifestJSON("demo.nova", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ErrorCountFromManifest(doc) != 0 {
		t.Fatalf("expected errorCount 0 for an empty diagnostics batch")
	}
}
