package parser

import (
	"unicode"

	"light-lang/internal/ast"
	"light-lang/internal/combinator"
	"light-lang/internal/diag"
	"light-lang/internal/primitive"
	"light-lang/internal/span"
	"light-lang/internal/token"
)

func isWordSymbol(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// matchSpelling matches one operator spelling: a word spelling ("and", "or")
// must be a whole identifier, not merely a prefix of a longer one ("android"
// must not match "and"), while a symbolic spelling goes through
// primitive.Symbol, which already guards against shadowing a longer
// recognized symbol sharing its prefix.
func matchSpelling(skipNewline bool, sym string) Parser[span.Span] {
	if isWordSymbol(sym) {
		return combinator.AndThen(primitive.Identifier(skipNewline), func(id span.SpanOf[string]) Parser[span.Span] {
			if id.Value != sym {
				return combinator.Err[span.Span](diag.WithToken(diag.ExpectedToken, id.Span, sym))
			}
			return combinator.Ok(id.Span)
		})
	}
	return primitive.Symbol(skipNewline, sym)
}

// binOpMatcher matches any one of ops's spellings, returning the BinOp it
// names.
func binOpMatcher(skipNewline bool, ops []token.BinOp) Parser[token.BinOp] {
	var chain Parser[token.BinOp]
	for _, op := range ops {
		for _, sym := range token.Symbols(op) {
			op, sym := op, sym
			cur := combinator.Map(matchSpelling(skipNewline, sym), func(span.Span) token.BinOp { return op })
			if chain == nil {
				chain = cur
				continue
			}
			prev := chain
			chain = combinator.OrElse(prev, func(*diag.Diagnostic) Parser[token.BinOp] { return cur })
		}
	}
	return chain
}

type opRHS struct {
	op  token.BinOp
	rhs ast.Expr
}

// binaryLevel builds one precedence level: lower() parses an operand, then
// any of ops is folded left-associatively over further operands parsed the
// same way.
func binaryLevel(lower func(bool) Parser[ast.Expr], ops []token.BinOp) func(bool) Parser[ast.Expr] {
	return func(skipNewline bool) Parser[ast.Expr] {
		return combinator.AndThen(lower(skipNewline), func(first ast.Expr) Parser[ast.Expr] {
			matcher := binOpMatcher(skipNewline, ops)
			return combinator.Fold(
				combinator.Ok(first),
				func() Parser[opRHS] {
					return combinator.AndThen(matcher, func(op token.BinOp) Parser[opRHS] {
						return combinator.Map(lower(skipNewline), func(rhs ast.Expr) opRHS {
							return opRHS{op: op, rhs: rhs}
						})
					})
				},
				func(acc ast.Expr, r opRHS) ast.Expr {
					return &ast.Binary{
						ExprBase: ast.ExprBase{NodeBase: ast.NodeBase{Span: acc.GetSpan().Concat(r.rhs.GetSpan())}},
						Op:       r.op,
						Left:     acc,
						Right:    r.rhs,
					}
				},
			)
		})
	}
}

// The twelve precedence levels, tightest to loosest: unary (prefix wrapping
// postfix wrapping primary) binds tightest, "or" loosest. Each level is
// built from the one below it, per §4.6.
var (
	mulLevel    = binaryLevel(UnaryExpr, []token.BinOp{token.Mul, token.Div, token.Mod})
	addLevel    = binaryLevel(mulLevel, []token.BinOp{token.Add, token.Sub})
	shiftLevel  = binaryLevel(addLevel, []token.BinOp{token.Shl, token.Shr})
	relLevel    = binaryLevel(shiftLevel, []token.BinOp{token.LessEq, token.GreaterEq, token.Less, token.Greater})
	eqLevel     = binaryLevel(relLevel, []token.BinOp{token.Eq, token.NotEq})
	bitandLevel = binaryLevel(eqLevel, []token.BinOp{token.BitAnd})
	bitxorLevel = binaryLevel(bitandLevel, []token.BinOp{token.BitXor})
	bitorLevel  = binaryLevel(bitxorLevel, []token.BinOp{token.BitOr})
	andLevel    = binaryLevel(bitorLevel, []token.BinOp{token.And})
)

// orLevel is assigned in init rather than in the var block: BinaryExpr reads
// it, and the lower levels reach BinaryExpr again through grouping, which Go
// would reject as an initialization cycle.
var orLevel func(bool) Parser[ast.Expr]

func init() {
	orLevel = binaryLevel(andLevel, []token.BinOp{token.Or})
}

// BinaryExpr parses the full precedence-climbing binary tower, without
// assignment. Exported so tests (and the assignment fallback) can drive it
// directly.
func BinaryExpr(skipNewline bool) Parser[ast.Expr] {
	return orLevel(skipNewline)
}
