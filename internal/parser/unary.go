package parser

import (
	"light-lang/internal/ast"
	"light-lang/internal/combinator"
	"light-lang/internal/diag"
	"light-lang/internal/primitive"
	"light-lang/internal/span"
	"light-lang/internal/token"
)

// prefixOpSpan tries each prefix operator spelling in turn, pairing the
// matched span with the operator it names.
func prefixOpSpan(skipNewline bool) Parser[span.SpanOf[token.PrefixOp]] {
	var chain Parser[span.SpanOf[token.PrefixOp]]
	for _, sym := range token.PrefixOpSymbols {
		op, _ := token.PrefixOpFromSymbol(sym)
		cur := combinator.Map(primitive.Symbol(skipNewline, sym), func(sp span.Span) span.SpanOf[token.PrefixOp] {
			return span.Of(sp, op)
		})
		if chain == nil {
			chain = cur
			continue
		}
		prev := chain
		chain = combinator.OrElse(prev, func(*diag.Diagnostic) Parser[span.SpanOf[token.PrefixOp]] { return cur })
	}
	return chain
}

// UnaryExpr parses a right-associative chain of prefix operators wrapping a
// postfix expression, per §4.5: "-(!(~(~(ident))))" for "- !~~ ident".
func UnaryExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.OrElse(
		combinator.AndThen(prefixOpSpan(skipNewline), func(opSp span.SpanOf[token.PrefixOp]) Parser[ast.Expr] {
			return combinator.Map(UnaryExpr(skipNewline), func(operand ast.Expr) ast.Expr {
				return &ast.PrefixUnary{
					ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: opSp.Span.Concat(operand.GetSpan())}},
					Op:       opSp.Value,
					Operand:  operand,
				}
			})
		}),
		func(*diag.Diagnostic) Parser[ast.Expr] { return PostfixExpr(skipNewline) },
	)
}

// postfixSuffix is one link of a postfix chain, independent of the operand
// it will eventually be folded onto.
type postfixSuffix struct {
	kind     ast.PostfixKind
	args     []ast.Expr
	property string
	index    ast.Expr
	span     span.Span
}

func postfixStep(skipNewline bool) Parser[postfixSuffix] {
	call := combinator.AndThen(primitive.Symbol(skipNewline, "("), func(lparen span.Span) Parser[postfixSuffix] {
		return combinator.AndThen(argList(), func(args []ast.Expr) Parser[postfixSuffix] {
			return combinator.Map(primitive.Symbol(true, ")"), func(rparen span.Span) postfixSuffix {
				return postfixSuffix{kind: ast.PostfixCall, args: args, span: lparen.Concat(rparen)}
			})
		})
	})
	prop := combinator.AndThen(primitive.Symbol(skipNewline, "."), func(dot span.Span) Parser[postfixSuffix] {
		return combinator.Map(primitive.Identifier(true), func(id span.SpanOf[string]) postfixSuffix {
			return postfixSuffix{kind: ast.PostfixProperty, property: id.Value, span: dot.Concat(id.Span)}
		})
	})
	index := combinator.AndThen(primitive.Symbol(skipNewline, "["), func(lbracket span.Span) Parser[postfixSuffix] {
		return combinator.AndThen(Expression(true), func(idx ast.Expr) Parser[postfixSuffix] {
			return combinator.Map(primitive.Symbol(true, "]"), func(rbracket span.Span) postfixSuffix {
				return postfixSuffix{kind: ast.PostfixIndex, index: idx, span: lbracket.Concat(rbracket)}
			})
		})
	})
	return combinator.OrElse(call, func(*diag.Diagnostic) Parser[postfixSuffix] {
		return combinator.OrElse(prop, func(*diag.Diagnostic) Parser[postfixSuffix] {
			return index
		})
	})
}

// PostfixExpr parses a primary expression followed by zero or more postfix
// operations, left-folded so "d[0](1, 2).e" nests as
// "(((d [0]) (1, 2)) .e)".
func PostfixExpr(skipNewline bool) Parser[ast.Expr] {
	return combinator.AndThen(Primary(skipNewline), func(base ast.Expr) Parser[ast.Expr] {
		return combinator.Fold(
			combinator.Ok(base),
			func() Parser[postfixSuffix] { return postfixStep(skipNewline) },
			func(acc ast.Expr, suf postfixSuffix) ast.Expr {
				return &ast.PostfixUnary{
					ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: acc.GetSpan().Concat(suf.span)}},
					Kind:     suf.kind,
					Operand:  acc,
					Args:     suf.args,
					Property: suf.property,
					Index:    suf.index,
				}
			},
		)
	})
}
