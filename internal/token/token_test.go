package token

import "testing"

func TestLookupIdentKeywords(t *testing.T) {
	tests := map[string]Kind{
		"fun":     KW_FUN,
		"val":     KW_VAL,
		"var":     KW_VAR,
		"when":    KW_WHEN,
		"myVar":   IDENT,
		"Integer": IDENT,
	}
	for ident, want := range tests {
		if got := LookupIdent(ident); got != want {
			t.Errorf("LookupIdent(%q) = %v, want %v", ident, got, want)
		}
	}
}

func TestSoftKeywordsStayIdentifiers(t *testing.T) {
	for _, soft := range []string{"constructor", "init", "guard", "step", "out", "where", "it"} {
		if got := LookupIdent(soft); got != IDENT {
			t.Errorf("LookupIdent(%q) = %v, want IDENT (soft keywords are never auto-promoted)", soft, got)
		}
		if _, ok := SoftKeywordKind(soft); !ok {
			t.Errorf("SoftKeywordKind(%q) missing from soft-keyword table", soft)
		}
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 3, Column: 7}
	if got, want := p.String(), "3:7"; got != want {
		t.Errorf("Position.String() = %q, want %q", got, want)
	}
	if (Position{}).IsValid() {
		t.Errorf("zero Position should not be valid")
	}
}

func TestKindPredicates(t *testing.T) {
	if !ASSIGN.IsAssignmentOp() || !ELVIS_ASSIGN.IsAssignmentOp() {
		t.Errorf("expected ASSIGN and ELVIS_ASSIGN to be assignment operators")
	}
	if STAR.IsAssignmentOp() {
		t.Errorf("STAR must not be an assignment operator")
	}
	if !EQ.IsComparisonOp() || !LE.IsComparisonOp() {
		t.Errorf("expected EQ and LE to be comparison operators")
	}
	if !KW_FUN.IsKeyword() {
		t.Errorf("expected KW_FUN to be a keyword")
	}
	if IDENT.IsKeyword() {
		t.Errorf("IDENT must not be a keyword")
	}
}
