package parser

import (
	"light-lang/internal/ast"
	"light-lang/internal/diag"
	"light-lang/internal/primitive"
	"light-lang/internal/scanner"
)

// ParseExpression parses a single expression from s, requiring the rest of
// the input (after trailing whitespace and comments) to be empty.
func ParseExpression(s scanner.Scanner) (ast.Expr, *diag.Diagnostic) {
	next, expr, d := Expression(true)(s)
	if d != nil {
		return nil, d
	}
	rest, _, d := primitive.Skip(true)(next)
	if d != nil {
		return nil, d
	}
	if _, _, ok := rest.Next(); ok {
		return nil, diag.WithTokens(diag.ExpectedTokens, rest.EmptySpan(), []string{"<eof>"})
	}
	return expr, nil
}

// ParseStatements parses a top-level sequence of statements from s,
// requiring the rest of the input to be empty: there is no enclosing "end"
// at the top level, so the statement list runs until it can consume no
// more.
func ParseStatements(s scanner.Scanner) ([]ast.Stmt, *diag.Diagnostic) {
	next, stmts, d := stmtList()(s)
	if d != nil {
		return nil, d
	}
	rest, _, d := primitive.Skip(false)(next)
	if d != nil {
		return nil, d
	}
	if _, _, ok := rest.Next(); ok {
		return nil, diag.WithTokens(diag.ExpectedTokens, rest.EmptySpan(), []string{"<eof>"})
	}
	return stmts, nil
}
