package token

import "testing"

func TestLongerConflictsGuardsShorterSymbol(t *testing.T) {
	conflicts := LongerConflicts("=")
	found := false
	for _, c := range conflicts {
		if c == "==" {
			found = true
		}
	}
	if !found {
		t.Fatalf("LongerConflicts(%q) missing %q: got %v", "=", "==", conflicts)
	}
}

func TestLongerConflictsOfBitOr(t *testing.T) {
	conflicts := LongerConflicts("|")
	found := false
	for _, c := range conflicts {
		if c == "||" {
			found = true
		}
	}
	if !found {
		t.Fatalf("LongerConflicts(%q) = %v, expected to include %q", "|", conflicts, "||")
	}
}

func TestLongerConflictsOfMaximalSymbolIsEmpty(t *testing.T) {
	if conflicts := LongerConflicts("<<="); len(conflicts) != 0 {
		t.Fatalf("expected no longer conflicts for the maximal-length symbol %q, got %v", "<<=", conflicts)
	}
}

func TestIsKeywordAndBlockTerminator(t *testing.T) {
	kw, ok := IsKeyword("while")
	if !ok || kw != KwWhile {
		t.Fatalf("IsKeyword(%q) = %v, %v", "while", kw, ok)
	}
	if IsBlockTerminator(KwWhile) {
		t.Fatalf("%q must not be a block terminator", KwWhile)
	}
	if !IsBlockTerminator(KwEnd) {
		t.Fatalf("%q must be a block terminator", KwEnd)
	}
	if !IsBlockTerminator(KwElif) {
		t.Fatalf("%q must be a block terminator", KwElif)
	}
}

func TestIsKeywordRejectsNonKeyword(t *testing.T) {
	if _, ok := IsKeyword("android"); ok {
		t.Fatalf("%q must not be recognized as a keyword", "android")
	}
}

func TestCompoundAssignsCoverEveryBinOpThatHasOne(t *testing.T) {
	seen := map[BinOp]bool{}
	for _, ca := range CompoundAssigns {
		seen[ca.Op] = true
	}
	for _, op := range []BinOp{Add, Sub, Mul, Div, Mod, Shl, Shr, And, Or, BitAnd, BitXor, BitOr} {
		if !seen[op] {
			t.Fatalf("expected a compound-assignment entry for %v", op)
		}
	}
}
