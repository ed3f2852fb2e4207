package parser

import (
	"light-lang/internal/ast"
	"light-lang/internal/combinator"
	"light-lang/internal/diag"
	"light-lang/internal/primitive"
	"light-lang/internal/scanner"
	"light-lang/internal/span"
	"light-lang/internal/token"
)

// separatorToken matches one statement separator: ";", "\r\n", or "\n".
// Matching always runs in inline mode (skip(false)), since newline being a
// separator rather than whitespace is exactly what makes it one.
func separatorToken() Parser[span.Span] {
	return combinator.OrElse(primitive.Symbol(false, ";"), func(*diag.Diagnostic) Parser[span.Span] {
		return combinator.OrElse(primitive.Symbol(false, "\r\n"), func(*diag.Diagnostic) Parser[span.Span] {
			return primitive.Symbol(false, "\n")
		})
	})
}

// statementSeparator matches one or more separator tokens, which may repeat
// (blank separating lines are permitted).
func statementSeparator() Parser[span.Span] {
	return combinator.AndThen(separatorToken(), func(first span.Span) Parser[span.Span] {
		return combinator.Fold(combinator.Ok(first), separatorToken, func(acc, next span.Span) span.Span {
			return acc.Concat(next)
		})
	})
}

// peekTerminator reports whether the next identifier token names a
// statement-list terminator keyword, without consuming it: the terminator
// belongs to the enclosing if/while/do construct, not to the list itself.
func peekTerminator() Parser[bool] {
	return func(s scanner.Scanner) (scanner.Scanner, bool, *diag.Diagnostic) {
		_, id, d := primitive.Identifier(false)(s)
		if d != nil {
			return s, false, nil
		}
		if kw, ok := token.IsKeyword(id.Value); ok && token.IsBlockTerminator(kw) {
			return s, true, nil
		}
		return s, false, nil
	}
}

// stmtList parses a sequence of statements separated by ";"/newline,
// stopping (without consuming it) at the first terminator keyword or at the
// first position where no further statement parses. This is the one place
// in the grammar written as a raw loop rather than combinator.Fold, since it
// needs to consult peekTerminator before each attempt and must never fail
// itself — an empty statement list is always a valid result.
func stmtList() Parser[[]ast.Stmt] {
	return func(s scanner.Scanner) (scanner.Scanner, []ast.Stmt, *diag.Diagnostic) {
		cur := s
		if next, _, d := statementSeparator()(cur); d == nil {
			cur = next
		}
		var stmts []ast.Stmt
		for {
			if _, isTerm, _ := peekTerminator()(cur); isTerm {
				return cur, stmts, nil
			}
			next, st, d := Statement()(cur)
			if d != nil {
				return cur, stmts, nil
			}
			stmts = append(stmts, st)
			cur = next
			if sepNext, _, d := statementSeparator()(cur); d == nil {
				cur = sepNext
			} else {
				return cur, stmts, nil
			}
		}
	}
}

func ifStmt() Parser[ast.Stmt] {
	return combinator.AndThen(primitive.Keyword(false, token.KwIf), func(kwSpan span.Span) Parser[ast.Stmt] {
		return combinator.AndThen(Expression(true), func(cond ast.Expr) Parser[ast.Stmt] {
			return combinator.AndThen(primitive.Keyword(true, token.KwDo), func(span.Span) Parser[ast.Stmt] {
				return combinator.AndThen(stmtList(), func(body []ast.Stmt) Parser[ast.Stmt] {
					return ifTail(kwSpan, cond, body)
				})
			})
		})
	})
}

// ifTail parses whatever follows an if/elif's statement body: another
// elif, a terminal else, or the outermost end. Only this final end
// terminates the whole if/elif chain, per §4.8.
func ifTail(kwSpan span.Span, cond ast.Expr, body []ast.Stmt) Parser[ast.Stmt] {
	elifBranch := combinator.AndThen(primitive.Keyword(false, token.KwElif), func(span.Span) Parser[ast.Stmt] {
		return combinator.AndThen(Expression(true), func(elifCond ast.Expr) Parser[ast.Stmt] {
			return combinator.AndThen(primitive.Keyword(true, token.KwDo), func(span.Span) Parser[ast.Stmt] {
				return combinator.AndThen(stmtList(), func(elifBody []ast.Stmt) Parser[ast.Stmt] {
					return combinator.Map(ifTail(kwSpan, elifCond, elifBody), func(nested ast.Stmt) ast.Stmt {
						inner := nested.(*ast.If)
						return &ast.If{
							StmtBase:   ast.StmtBase{NodeBase: ast.NodeBase{Span: kwSpan.Concat(inner.Span)}},
							Cond:       cond,
							Body:       body,
							Else:       ast.ElseElif,
							ElifClause: inner,
						}
					})
				})
			})
		})
	})
	elseBranch := combinator.AndThen(primitive.Keyword(false, token.KwElse), func(span.Span) Parser[ast.Stmt] {
		return combinator.AndThen(stmtList(), func(elseBody []ast.Stmt) Parser[ast.Stmt] {
			return combinator.Map(primitive.Keyword(false, token.KwEnd), func(endSpan span.Span) ast.Stmt {
				return &ast.If{
					StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: kwSpan.Concat(endSpan)}},
					Cond:     cond,
					Body:     body,
					Else:     ast.ElseBlock,
					ElseBody: elseBody,
				}
			})
		})
	})
	plainEnd := combinator.Map(primitive.Keyword(false, token.KwEnd), func(endSpan span.Span) ast.Stmt {
		return &ast.If{
			StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: kwSpan.Concat(endSpan)}},
			Cond:     cond,
			Body:     body,
			Else:     ast.ElseNone,
		}
	})
	return combinator.OrElse(elifBranch, func(*diag.Diagnostic) Parser[ast.Stmt] {
		return combinator.OrElse(elseBranch, func(*diag.Diagnostic) Parser[ast.Stmt] {
			return plainEnd
		})
	})
}

// whileClauses accumulates the optional onbreak/oncontinue bodies that
// follow a while's main body.
type whileClauses struct {
	hasOnBreak, hasOnContinue bool
	onBreak, onContinue       []ast.Stmt
}

func whileStmt() Parser[ast.Stmt] {
	return combinator.AndThen(primitive.Keyword(false, token.KwWhile), func(kwSpan span.Span) Parser[ast.Stmt] {
		return combinator.AndThen(Expression(true), func(cond ast.Expr) Parser[ast.Stmt] {
			return combinator.AndThen(primitive.Keyword(true, token.KwDo), func(span.Span) Parser[ast.Stmt] {
				return combinator.AndThen(stmtList(), func(body []ast.Stmt) Parser[ast.Stmt] {
					return whileTail(kwSpan, cond, body)
				})
			})
		})
	})
}

// whileTail parses the optional onbreak/oncontinue clauses, in either
// order, at most one of each, followed by the terminating end. A second
// onbreak (or oncontinue) after both have already appeared is not given a
// third slot to match into; it is left for the "end" keyword match to
// reject, per the design note in §9.
func whileTail(kwSpan span.Span, cond ast.Expr, body []ast.Stmt) Parser[ast.Stmt] {
	onBreakClause := combinator.AndThen(primitive.Keyword(false, token.KwOnBreak), func(span.Span) Parser[[]ast.Stmt] {
		return stmtList()
	})
	onContinueClause := combinator.AndThen(primitive.Keyword(false, token.KwOnContinue), func(span.Span) Parser[[]ast.Stmt] {
		return stmtList()
	})

	breakThenContinue := combinator.AndThen(onBreakClause, func(onBreakBody []ast.Stmt) Parser[*whileClauses] {
		return combinator.Map(combinator.Optional(onContinueClause), func(onContinueBody *[]ast.Stmt) *whileClauses {
			c := &whileClauses{hasOnBreak: true, onBreak: onBreakBody}
			if onContinueBody != nil {
				c.hasOnContinue = true
				c.onContinue = *onContinueBody
			}
			return c
		})
	})
	continueThenBreak := combinator.AndThen(onContinueClause, func(onContinueBody []ast.Stmt) Parser[*whileClauses] {
		return combinator.Map(combinator.Optional(onBreakClause), func(onBreakBody *[]ast.Stmt) *whileClauses {
			c := &whileClauses{hasOnContinue: true, onContinue: onContinueBody}
			if onBreakBody != nil {
				c.hasOnBreak = true
				c.onBreak = *onBreakBody
			}
			return c
		})
	})
	neither := combinator.Ok(&whileClauses{})

	clauses := combinator.OrElse(breakThenContinue, func(*diag.Diagnostic) Parser[*whileClauses] {
		return combinator.OrElse(continueThenBreak, func(*diag.Diagnostic) Parser[*whileClauses] {
			return neither
		})
	})
	return combinator.AndThen(clauses, func(c *whileClauses) Parser[ast.Stmt] {
		return combinator.Map(primitive.Keyword(false, token.KwEnd), func(endSpan span.Span) ast.Stmt {
			return &ast.While{
				StmtBase:      ast.StmtBase{NodeBase: ast.NodeBase{Span: kwSpan.Concat(endSpan)}},
				Cond:          cond,
				Body:          body,
				OnBreakBody:   c.onBreak,
				HasOnBreak:    c.hasOnBreak,
				OnContinue:    c.onContinue,
				HasOnContinue: c.hasOnContinue,
			}
		})
	})
}

func doBlock() Parser[ast.Stmt] {
	return combinator.AndThen(primitive.Keyword(false, token.KwDo), func(kwSpan span.Span) Parser[ast.Stmt] {
		return combinator.AndThen(stmtList(), func(body []ast.Stmt) Parser[ast.Stmt] {
			return combinator.Map(primitive.Keyword(false, token.KwEnd), func(endSpan span.Span) ast.Stmt {
				return &ast.Block{
					StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: kwSpan.Concat(endSpan)}},
					Body:     body,
				}
			})
		})
	})
}

// exprStmt parses a bare expression statement, in inline mode: a newline
// ends it unless some bracketed sub-expression has switched to multi-line
// mode internally.
func exprStmt() Parser[ast.Stmt] {
	return combinator.Map(Expression(false), func(e ast.Expr) ast.Stmt {
		return &ast.ExprStmt{StmtBase: ast.StmtBase{NodeBase: ast.NodeBase{Span: e.GetSpan()}}, X: e}
	})
}

// Statement dispatches, in order, to if, while, do-block, and finally a
// bare expression statement, per §4.8.
func Statement() Parser[ast.Stmt] {
	return combinator.OrElse(ifStmt(), func(*diag.Diagnostic) Parser[ast.Stmt] {
		return combinator.OrElse(whileStmt(), func(*diag.Diagnostic) Parser[ast.Stmt] {
			return combinator.OrElse(doBlock(), func(*diag.Diagnostic) Parser[ast.Stmt] {
				return exprStmt()
			})
		})
	})
}
