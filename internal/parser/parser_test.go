package parser

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"light-lang/internal/ast"
	"light-lang/internal/scanner"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, d := ParseExpression(scanner.FromString(src))
	if d != nil {
		t.Fatalf("ParseExpression(%q) failed: %v", src, d)
	}
	return e
}

func expectDisplay(t *testing.T, src, want string) {
	t.Helper()
	e := parseExpr(t, src)
	if got := e.String(); got != want {
		t.Fatalf("ParseExpression(%q).String() = %q, want %q", src, got, want)
	}
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	expectDisplay(t,
		"1 + 2 + 3 * 4 >= 5 and 6 * 7 < 8 or 9 == 10 == 11 == 12",
		"(or (and (>= (+ (+ 1 2) (* 3 4)) 5) (< (* 6 7) 8)) (== (== (== 9 10) 11) 12))",
	)
}

func TestPostfixChainAndAssignNesting(t *testing.T) {
	expectDisplay(t,
		"a = b.c = d[0](1, 2).e.f = 10 + 321",
		"(= a (= b.c (= (((d [0]) (1, 2)) .e).f (+ 10 321))))",
	)
}

func TestPrefixUnaryChainIsRightAssociative(t *testing.T) {
	expectDisplay(t, "- !~~ident", "-(!(~(~(ident))))")
}

func TestGroupAndArrayLiterals(t *testing.T) {
	// Group.String() wraps its inner expression's own Display in an extra
	// pair of parens, on top of whatever parens that inner Display already
	// carries, so a grouped binary expression shows doubled parens.
	expectDisplay(t, "(1 + 2) * [3, 4, 5]", "(* ((+ 1 2)) [3, 4, 5])")
}

func TestAssignFallsBackToBinaryOnCannotAssign(t *testing.T) {
	// "1 + 2 = 3" cannot assign into a binary expression; the whole assign
	// alternative rewinds, and the input reparses as a plain binary
	// expression, which then fails because a bare "=" follows the add — the
	// caller sees a plain parse failure at that position, never CannotAssign.
	_, d := ParseExpression(scanner.FromString("1 + 2 = 3"))
	if d == nil {
		t.Fatalf("expected a failure for %q", "1 + 2 = 3")
	}
}

func TestCompoundAssign(t *testing.T) {
	e := parseExpr(t, "x += 1")
	a, ok := e.(*ast.Assign)
	require.True(t, ok, "expected *ast.Assign, got %T", e)
	require.NotNil(t, a.Op)
	require.Equal(t, "x", a.Assignee.Name)
}

func TestNumberLiteralMantissaAndExponent(t *testing.T) {
	e := parseExpr(t, "0x3.fp-f")
	n, ok := e.(*ast.Number)
	require.True(t, ok, "expected *ast.Number, got %T", e)
	require.Equal(t, 16, n.Radix)
	require.Zero(t, n.Integer.Cmp(big.NewInt(0x3f)))
	require.NotNil(t, n.Exponent)
	require.EqualValues(t, -16, *n.Exponent)
}

func parseStmts(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	stmts, d := ParseStatements(scanner.FromString(src))
	if d != nil {
		t.Fatalf("ParseStatements(%q) failed: %v", src, d)
	}
	return stmts
}

func TestIfElifElseChain(t *testing.T) {
	stmts := parseStmts(t, "if a do\n  b()\nelif c do\n  d()\nelse\n  e()\nend")
	require.Len(t, stmts, 1)
	top, ok := stmts[0].(*ast.If)
	require.True(t, ok, "expected *ast.If, got %T", stmts[0])
	require.Equal(t, ast.ElseElif, top.Else)
	require.NotNil(t, top.ElifClause)
	require.Equal(t, ast.ElseBlock, top.ElifClause.Else)
	require.Len(t, top.ElifClause.ElseBody, 1)
}

func TestWhileBothHooksEitherOrder(t *testing.T) {
	stmts := parseStmts(t, "while a < 10 do\n  a += 1\noncontinue\nonbreak\n  print(a)\nend")
	require.Len(t, stmts, 1)
	w, ok := stmts[0].(*ast.While)
	require.True(t, ok, "expected *ast.While, got %T", stmts[0])
	require.True(t, w.HasOnContinue)
	require.Empty(t, w.OnContinue)
	require.True(t, w.HasOnBreak)
	require.Len(t, w.OnBreakBody, 1)
}

func TestNestedIfContainingWhile(t *testing.T) {
	src := "if a < b do\n  a()\n  b(); c()\nwhile a < 10 do\n  a += 1\noncontinue\nonbreak\n  print(a)\nend\nend"
	stmts := parseStmts(t, src)
	require.Len(t, stmts, 1)
	outer, ok := stmts[0].(*ast.If)
	require.True(t, ok, "expected *ast.If, got %T", stmts[0])
	require.Equal(t, ast.ElseNone, outer.Else)
	require.Len(t, outer.Body, 4)
	inner, ok := outer.Body[3].(*ast.While)
	require.True(t, ok, "expected the if body's last statement to be *ast.While, got %T", outer.Body[3])
	require.True(t, inner.HasOnContinue)
	require.Empty(t, inner.OnContinue)
	require.True(t, inner.HasOnBreak)
	require.Len(t, inner.OnBreakBody, 1)
}

func TestDoBlock(t *testing.T) {
	stmts := parseStmts(t, "do\n  a()\n  b()\nend")
	require.Len(t, stmts, 1)
	blk, ok := stmts[0].(*ast.Block)
	require.True(t, ok, "expected *ast.Block, got %T", stmts[0])
	require.Len(t, blk.Body, 2)
}

func TestStatementSeparatorsAcceptSemicolonAndNewline(t *testing.T) {
	stmts := parseStmts(t, "a(); b()\nc()")
	require.Len(t, stmts, 3)
}

func TestTrailingGarbageFails(t *testing.T) {
	_, d := ParseStatements(scanner.FromString("a()\n)"))
	if d == nil {
		t.Fatalf("expected trailing garbage after a complete statement list to fail")
	}
}
