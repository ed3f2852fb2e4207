// Package parser assembles the primitives and combinator engine into the
// full expression and statement grammar: primary forms, unary (prefix and
// postfix), precedence-climbing binary, assignment, and statements.
package parser

import (
	"light-lang/internal/ast"
	"light-lang/internal/combinator"
	"light-lang/internal/diag"
	"light-lang/internal/primitive"
	"light-lang/internal/span"
)

// Parser is the local alias for the shared combinator engine's function
// type, specialized to the AST values this grammar produces.
type Parser[T any] = combinator.Parser[T]

func numberExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.Map(primitive.Number(skipNewline), func(n span.SpanOf[primitive.NumberValue]) ast.Expr {
		return &ast.Number{
			ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: n.Span}},
			Radix:    n.Value.Radix,
			Integer:  n.Value.Integer,
			Exponent: n.Value.Exponent,
		}
	})
}

func charLitExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.Map(primitive.CharLiteral(skipNewline), func(c span.SpanOf[rune]) ast.Expr {
		return &ast.CharLit{ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: c.Span}}, Value: c.Value}
	})
}

func strLitExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.Map(primitive.StringLiteral(skipNewline), func(s span.SpanOf[string]) ast.Expr {
		return &ast.StrLit{ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: s.Span}}, Value: s.Value}
	})
}

func identExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.Map(primitive.Identifier(skipNewline), func(id span.SpanOf[string]) ast.Expr {
		return &ast.Ident{ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: id.Span}}, Name: id.Value}
	})
}

// groupExpr parses "(" expr ")". The opening bracket unconditionally opens
// multi-line mode for everything up to its matching close, regardless of
// the caller's mode; the caller's mode resumes automatically once control
// returns, since skipNewline is threaded as an ordinary parameter rather
// than scanner-global state.
func groupExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.AndThen(primitive.Symbol(skipNewline, "("), func(lparen span.Span) Parser[ast.Expr] {
		return combinator.AndThen(Expression(true), func(inner ast.Expr) Parser[ast.Expr] {
			return combinator.Map(primitive.Symbol(true, ")"), func(rparen span.Span) ast.Expr {
				return &ast.Group{
					ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: lparen.Concat(rparen)}},
					Inner:    inner,
				}
			})
		})
	})
}

// arrayExpr parses "[" args "]", reusing the same comma-separated argument
// list postfixStep uses for call parentheses.
func arrayExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.AndThen(primitive.Symbol(skipNewline, "["), func(lbracket span.Span) Parser[ast.Expr] {
		return combinator.AndThen(argList(), func(elems []ast.Expr) Parser[ast.Expr] {
			return combinator.Map(primitive.Symbol(true, "]"), func(rbracket span.Span) ast.Expr {
				return &ast.Array{
					ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: lbracket.Concat(rbracket)}},
					Elements: elems,
				}
			})
		})
	})
}

// argList parses a comma-separated list of expressions, always in
// multi-line mode since it only ever appears inside brackets. It never
// fails: an empty list results when no expression is present at all.
func argList() Parser[[]ast.Expr] {
	first := combinator.Optional(Expression(true))
	return combinator.AndThen(first, func(e *ast.Expr) Parser[[]ast.Expr] {
		if e == nil {
			return combinator.Ok([]ast.Expr{})
		}
		return combinator.Fold(
			combinator.Ok([]ast.Expr{*e}),
			func() Parser[ast.Expr] {
				return combinator.AndThen(primitive.Symbol(true, ","), func(span.Span) Parser[ast.Expr] {
					return Expression(true)
				})
			},
			func(acc []ast.Expr, next ast.Expr) []ast.Expr { return append(acc, next) },
		)
	})
}

// Primary dispatches, in order, to number, char literal, string literal,
// identifier, grouped expression, and array literal, per §4.4.
func Primary(skipNewline bool) Parser[ast.Expr] {
	return combinator.OrElse(numberExpr(skipNewline), func(*diag.Diagnostic) Parser[ast.Expr] {
		return combinator.OrElse(charLitExpr(skipNewline), func(*diag.Diagnostic) Parser[ast.Expr] {
			return combinator.OrElse(strLitExpr(skipNewline), func(*diag.Diagnostic) Parser[ast.Expr] {
				return combinator.OrElse(identExpr(skipNewline), func(*diag.Diagnostic) Parser[ast.Expr] {
					return combinator.OrElse(groupExpr(skipNewline), func(*diag.Diagnostic) Parser[ast.Expr] {
						return combinator.MapErr(arrayExpr(skipNewline), func(d *diag.Diagnostic) *diag.Diagnostic {
							return diag.New(diag.ExpectedPrimary, d.Span)
						})
					})
				})
			})
		})
	})
}
