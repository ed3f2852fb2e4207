package parser

import (
	"light-lang/internal/ast"
	"light-lang/internal/combinator"
	"light-lang/internal/diag"
	"light-lang/internal/primitive"
	"light-lang/internal/span"
	"light-lang/internal/token"
)

// assignOp matches a plain "=" or one of the compound-assignment spellings,
// returning the BinOp a compound form applies (nil for plain "=").
func assignOp(skipNewline bool) Parser[*token.BinOp] {
	chain := combinator.Map(primitive.Symbol(skipNewline, "="), func(span.Span) *token.BinOp { return nil })
	for _, ca := range token.CompoundAssigns {
		ca := ca
		cur := combinator.Map(primitive.Symbol(skipNewline, ca.Symbol), func(span.Span) *token.BinOp {
			op := ca.Op
			return &op
		})
		prev := chain
		chain = combinator.OrElse(cur, func(*diag.Diagnostic) Parser[*token.BinOp] { return prev })
	}
	return chain
}

// toAssignee pattern-matches a parsed postfix-unary expression into the
// restricted assignee grammar: a bare identifier, or a postfix-unary whose
// last operator is property access. Anything else — index, call, prefix
// unary, a bare literal — is CannotAssign.
func toAssignee(e ast.Expr) Parser[*ast.Assignee] {
	switch v := e.(type) {
	case *ast.Ident:
		return combinator.Ok(&ast.Assignee{
			NodeBase: ast.NodeBase{Span: v.Span},
			Kind:     ast.AssigneeIdent,
			Name:     v.Name,
		})
	case *ast.PostfixUnary:
		if v.Kind == ast.PostfixProperty {
			return combinator.Ok(&ast.Assignee{
				NodeBase: ast.NodeBase{Span: v.Span},
				Kind:     ast.AssigneeProperty,
				Base:     v.Operand,
				Property: v.Property,
			})
		}
	}
	return combinator.Err[*ast.Assignee](diag.New(diag.CannotAssign, e.GetSpan()))
}

// assignAttempt parses the restricted assignee grammar — the postfix-unary
// parser, pattern-matched to an Assignee — followed by "=" (or a compound
// form) and a right-associative recursion into Expression for the value.
func assignAttempt(skipNewline bool) Parser[ast.Expr] {
	return combinator.AndThen(PostfixExpr(skipNewline), func(lhs ast.Expr) Parser[ast.Expr] {
		return combinator.AndThen(toAssignee(lhs), func(assignee *ast.Assignee) Parser[ast.Expr] {
			return combinator.AndThen(assignOp(skipNewline), func(op *token.BinOp) Parser[ast.Expr] {
				return combinator.Map(Expression(skipNewline), func(value ast.Expr) ast.Expr {
					return &ast.Assign{
						ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: lhs.GetSpan().Concat(value.GetSpan())}},
						Assignee: assignee,
						Op:       op,
						Value:    value,
					}
				})
			})
		})
	})
}

// Expression is the entry point for the full expression grammar: assignment
// layered above the binary tower. The assignment alternative is all-or-
// nothing — if it fails at any step, including CannotAssign, the whole
// attempt rewinds and the input is reparsed as a plain binary expression,
// per §4.7 and the design note at §9: a syntactically invalid l-value
// followed by "=" surfaces as a binary parse failure further downstream,
// not as CannotAssign. This is a known characteristic of the grammar,
// preserved rather than "fixed".
func Expression(skipNewline bool) Parser[ast.Expr] {
	return combinator.OrElse(assignAttempt(skipNewline), func(*diag.Diagnostic) Parser[ast.Expr] {
		return BinaryExpr(skipNewline)
	})
}
