// Package primitive implements the character-level building blocks the
// grammar is assembled from: character matchers, whitespace/comment
// skipping, identifiers, numeric literal decoding across radices, and
// string/character literal decoding with escapes.
//
// This is the Go counterpart of the original compiler's ast/primitive.rs,
// translated onto the combinator.Parser engine.
package primitive

import (
	"math/big"
	"unicode"

	"light-lang/internal/combinator"
	"light-lang/internal/diag"
	"light-lang/internal/scanner"
	"light-lang/internal/span"
	"light-lang/internal/token"
)

type Parser[T any] = combinator.Parser[T]

// NextChar consumes and returns the next rune, failing with Eof at the end
// of input.
func NextChar() Parser[span.SpanOf[rune]] {
	return func(s scanner.Scanner) (scanner.Scanner, span.SpanOf[rune], *diag.Diagnostic) {
		next, r, ok := s.Next()
		if !ok {
			return s, span.SpanOf[rune]{}, diag.New(diag.Eof, s.EmptySpan())
		}
		return next, span.Of(next.Span(s.Offset), r), nil
	}
}

// CharEq matches exactly one rune equal to ch.
func CharEq(ch rune) Parser[span.SpanOf[rune]] {
	return func(s scanner.Scanner) (scanner.Scanner, span.SpanOf[rune], *diag.Diagnostic) {
		next, r, ok := s.Next()
		if !ok || r != ch {
			return s, span.SpanOf[rune]{}, diag.WithChar(diag.ExpectedChar, s.EmptySpan(), ch)
		}
		return next, span.Of(next.Span(s.Offset), r), nil
	}
}

// CharIn matches exactly one rune that is a member of chars.
func CharIn(chars []rune) Parser[span.SpanOf[rune]] {
	return func(s scanner.Scanner) (scanner.Scanner, span.SpanOf[rune], *diag.Diagnostic) {
		next, r, ok := s.Next()
		if ok {
			for _, c := range chars {
				if r == c {
					return next, span.Of(next.Span(s.Offset), r), nil
				}
			}
		}
		return s, span.SpanOf[rune]{}, diag.WithChars(diag.ExpectedChars, s.EmptySpan(), chars)
	}
}

// CharMatch matches exactly one rune satisfying pred, using errKind
// (CharNotDigit or CharNotMatch) to report rejection.
func CharMatch(pred func(rune) bool, errKind diag.Kind) Parser[span.SpanOf[rune]] {
	return func(s scanner.Scanner) (scanner.Scanner, span.SpanOf[rune], *diag.Diagnostic) {
		next, r, ok := s.Next()
		if !ok || !pred(r) {
			ch := r
			if !ok {
				return s, span.SpanOf[rune]{}, diag.New(diag.Eof, s.EmptySpan())
			}
			return s, span.SpanOf[rune]{}, diag.WithChar(errKind, next.Span(s.Offset), ch)
		}
		return next, span.Of(next.Span(s.Offset), r), nil
	}
}

func digitValue(r rune, radix int) (int, bool) {
	var v int
	switch {
	case r >= '0' && r <= '9':
		v = int(r - '0')
	case r >= 'a' && r <= 'z':
		v = int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		v = int(r-'A') + 10
	default:
		return 0, false
	}
	if v >= radix {
		return 0, false
	}
	return v, true
}

// Digit matches one digit valid in radix, failing with CharNotDigit.
func Digit(radix int) Parser[span.SpanOf[int]] {
	return func(s scanner.Scanner) (scanner.Scanner, span.SpanOf[int], *diag.Diagnostic) {
		next, r, ok := s.Next()
		if !ok {
			return s, span.SpanOf[int]{}, diag.New(diag.Eof, s.EmptySpan())
		}
		v, valid := digitValue(r, radix)
		if !valid {
			return s, span.SpanOf[int]{}, diag.WithChar(diag.CharNotDigit, next.Span(s.Offset), r)
		}
		return next, span.Of(next.Span(s.Offset), v), nil
	}
}

// Integer parses one required digit (else ExpectedInt), folding over
// further digits and digit-separator underscores between them.
func Integer(radix int) Parser[span.SpanOf[*big.Int]] {
	return combinator.AndThen(
		combinator.MapErr(Digit(radix), func(d *diag.Diagnostic) *diag.Diagnostic {
			return diag.New(diag.ExpectedInt, d.Span)
		}),
		func(first span.SpanOf[int]) Parser[span.SpanOf[*big.Int]] {
			acc := span.Map(first, func(d int) *big.Int { return big.NewInt(int64(d)) })
			return combinator.Fold(
				combinator.Ok(acc),
				func() Parser[span.SpanOf[int]] {
					return combinator.OrElse(Digit(radix), func(*diag.Diagnostic) Parser[span.SpanOf[int]] {
						return combinator.AndThen(CharEq('_'), func(span.SpanOf[rune]) Parser[span.SpanOf[int]] {
							return Digit(radix)
						})
					})
				},
				func(acc span.SpanOf[*big.Int], d span.SpanOf[int]) span.SpanOf[*big.Int] {
					return span.Combine(acc, d, func(a *big.Int, digit int) *big.Int {
						n := new(big.Int).Set(a)
						n.Mul(n, big.NewInt(int64(radix)))
						n.Add(n, big.NewInt(int64(digit)))
						return n
					})
				},
			)
		},
	)
}

// numberValue is the working form of a numeric literal inside this package;
// Number converts it to the exported NumberValue, which internal/parser then
// turns into an ast.Number.
type numberValue struct {
	radix    int
	integer  *big.Int
	exponent *int32
}

// Decimal parses integer(radix) ('.' integer(radix)?)?, computing the
// fractional exponent per the spec: whole*radix^fracLen + frac, exponent
// -fracLen.
func Decimal(radix int) Parser[span.SpanOf[numberValue]] {
	return combinator.AndThen(Integer(radix), func(whole span.SpanOf[*big.Int]) Parser[span.SpanOf[numberValue]] {
		withFrac := combinator.AndThen(CharEq('.'), func(dot span.SpanOf[rune]) Parser[span.SpanOf[*big.Int]] {
			return combinator.OrElse(
				combinator.Map(Integer(radix), func(frac span.SpanOf[*big.Int]) span.SpanOf[*big.Int] {
					return span.Combine(dot, frac, func(_ rune, v *big.Int) *big.Int { return v })
				}),
				func(*diag.Diagnostic) Parser[span.SpanOf[*big.Int]] {
					return combinator.Ok(span.Of(dot.Span, big.NewInt(0)))
				},
			)
		})
		return combinator.OrElse(
			combinator.Map(withFrac, func(frac span.SpanOf[*big.Int]) span.SpanOf[numberValue] {
				fracLen := frac.Len() - 1
				if fracLen < 0 {
					fracLen = 0
				}
				mantissa := new(big.Int).Set(whole.Value)
				scale := new(big.Int).Exp(big.NewInt(int64(radix)), big.NewInt(int64(fracLen)), nil)
				mantissa.Mul(mantissa, scale)
				mantissa.Add(mantissa, frac.Value)
				exp := int32(-fracLen)
				return span.Combine(whole, frac, func(*big.Int, *big.Int) numberValue {
					return numberValue{radix: radix, integer: mantissa, exponent: &exp}
				})
			}),
			func(*diag.Diagnostic) Parser[span.SpanOf[numberValue]] {
				return combinator.Ok(span.Map(whole, func(w *big.Int) numberValue {
					return numberValue{radix: radix, integer: w, exponent: nil}
				}))
			},
		)
	})
}

// Exponent parses Decimal, then an optional exponent marker ('e'/'E' for
// radix<=10, 'p'/'P' otherwise), optional sign, and required digits; missing
// digits after a present marker yield MissingExponent, and a combined
// exponent outside int32 yields ExponentOverflow.
func Exponent(radix int) Parser[span.SpanOf[numberValue]] {
	markers := []rune{'e', 'E'}
	if radix > 10 {
		markers = []rune{'p', 'P'}
	}
	return combinator.AndThen(Decimal(radix), func(dec span.SpanOf[numberValue]) Parser[span.SpanOf[numberValue]] {
		// Whether the marker itself is present is the only thing allowed to
		// backtrack (absence just means "no exponent part"). Everything past
		// a present marker is a hard requirement: MissingExponent and
		// ExponentOverflow must propagate as real failures, never be
		// reinterpreted as "marker wasn't there".
		maybeMarker := combinator.Optional(CharIn(markers))
		return combinator.AndThen(maybeMarker, func(marker *span.SpanOf[rune]) Parser[span.SpanOf[numberValue]] {
			if marker == nil {
				return combinator.Ok(dec)
			}
			signed := combinator.OrElse(
				combinator.Map(CharEq('-'), func(r span.SpanOf[rune]) *rune { neg := r.Value; return &neg }),
				func(*diag.Diagnostic) Parser[*rune] {
					return combinator.OrElse(
						combinator.Map(CharEq('+'), func(r span.SpanOf[rune]) *rune { pos := r.Value; return &pos }),
						func(*diag.Diagnostic) Parser[*rune] { return combinator.Ok[*rune](nil) },
					)
				},
			)
			return combinator.AndThen(signed, func(sign *rune) Parser[span.SpanOf[numberValue]] {
				digits := combinator.OrElse(Integer(radix), func(*diag.Diagnostic) Parser[span.SpanOf[*big.Int]] {
					return combinator.Err[span.SpanOf[*big.Int]](diag.New(diag.MissingExponent, dec.Span))
				})
				return combinator.AndThen(digits, func(expDigits span.SpanOf[*big.Int]) Parser[span.SpanOf[numberValue]] {
					exp := new(big.Int).Set(expDigits.Value)
					if sign != nil && *sign == '-' {
						exp.Neg(exp)
					}
					if dec.Value.exponent != nil {
						exp.Add(exp, big.NewInt(int64(*dec.Value.exponent)))
					}
					combined := dec.Span.Concat(expDigits.Span)
					if !exp.IsInt64() {
						return combinator.Err[span.SpanOf[numberValue]](diag.New(diag.ExponentOverflow, combined))
					}
					v := exp.Int64()
					if v < -(1<<31) || v > (1<<31)-1 {
						return combinator.Err[span.SpanOf[numberValue]](diag.New(diag.ExponentOverflow, combined))
					}
					e32 := int32(v)
					result := numberValue{radix: dec.Value.radix, integer: dec.Value.integer, exponent: &e32}
					return combinator.Ok(span.Of(combined, result))
				})
			})
		})
	})
}

// radixPrefix matches "0b"/"0o"/"0x" and returns the radix it selects.
func radixPrefix() Parser[span.SpanOf[int]] {
	return combinator.AndThen(CharEq('0'), func(zero span.SpanOf[rune]) Parser[span.SpanOf[int]] {
		letter := combinator.OrElse(
			combinator.Map(CharEq('b'), func(r span.SpanOf[rune]) span.SpanOf[int] { return span.Map(r, func(rune) int { return 2 }) }),
			func(*diag.Diagnostic) Parser[span.SpanOf[int]] {
				return combinator.OrElse(
					combinator.Map(CharEq('o'), func(r span.SpanOf[rune]) span.SpanOf[int] { return span.Map(r, func(rune) int { return 8 }) }),
					func(*diag.Diagnostic) Parser[span.SpanOf[int]] {
						return combinator.Map(CharEq('x'), func(r span.SpanOf[rune]) span.SpanOf[int] { return span.Map(r, func(rune) int { return 16 }) })
					},
				)
			},
		)
		return combinator.MapErr(
			combinator.Map(letter, func(r span.SpanOf[int]) span.SpanOf[int] { return span.Combine(zero, r, func(rune, int) int { return r.Value }) }),
			func(d *diag.Diagnostic) *diag.Diagnostic { return diag.New(diag.ExpectedBase, d.Span) },
		)
	})
}

// NumberValue is the public, parser-facing result of Number: a radix, a
// non-negative arbitrary-precision integer mantissa, and an optional signed
// 32-bit exponent, following §3's Number data model.
type NumberValue struct {
	Radix    int
	Integer  *big.Int
	Exponent *int32
}

// Number parses a radix-prefixed (0b/0o/0x) or bare-decimal numeric literal
// with optional fractional and exponent parts, per §4.3/§4.6.
func Number(skipNewline bool) Parser[span.SpanOf[NumberValue]] {
	return combinator.AndThen(Skip(skipNewline), func(span.Span) Parser[span.SpanOf[NumberValue]] {
		withRadix := combinator.AndThen(radixPrefix(), func(r span.SpanOf[int]) Parser[span.SpanOf[NumberValue]] {
			return combinator.Map(Exponent(r.Value), func(n span.SpanOf[numberValue]) span.SpanOf[NumberValue] {
				return span.Combine(r, n, func(int, numberValue) NumberValue {
					return NumberValue{Radix: n.Value.radix, Integer: n.Value.integer, Exponent: n.Value.exponent}
				})
			})
		})
		return combinator.OrElse(withRadix, func(*diag.Diagnostic) Parser[span.SpanOf[NumberValue]] {
			return combinator.Map(Exponent(10), func(n span.SpanOf[numberValue]) span.SpanOf[NumberValue] {
				return span.Map(n, func(v numberValue) NumberValue {
					return NumberValue{Radix: v.radix, Integer: v.integer, Exponent: v.exponent}
				})
			})
		})
	})
}

// Escape parses a backslash escape sequence: plain escapes ('\n' '\t' '\r'
// '\\' '\'' '"' '\0'), '\u{...}'/'\U{...}' arbitrary-width hex codepoints,
// and '\x..'/'\X..' two-hex-digit bytes.
func Escape() Parser[span.SpanOf[rune]] {
	return combinator.AndThen(CharEq('\\'), func(slash span.SpanOf[rune]) Parser[span.SpanOf[rune]] {
		afterSlash := combinator.MapErr(NextChar(), func(d *diag.Diagnostic) *diag.Diagnostic {
			return diag.New(diag.MissingEscape, d.Span)
		})
		return combinator.AndThen(afterSlash, func(ch span.SpanOf[rune]) Parser[span.SpanOf[rune]] {
			switch ch.Value {
			case 'n', 't', 'r', '\\', '\'', '"', '0':
				var decoded rune
				switch ch.Value {
				case 'n':
					decoded = '\n'
				case 't':
					decoded = '\t'
				case 'r':
					decoded = '\r'
				case '0':
					decoded = 0
				default:
					decoded = ch.Value
				}
				return combinator.Ok(span.Combine(slash, ch, func(rune, rune) rune { return decoded }))
			case 'u', 'U':
				return combinator.AndThen(CharEq('{'), func(brace span.SpanOf[rune]) Parser[span.SpanOf[rune]] {
					return combinator.AndThen(Integer(16), func(hex span.SpanOf[*big.Int]) Parser[span.SpanOf[rune]] {
						return combinator.AndThen(CharEq('}'), func(closeBrace span.SpanOf[rune]) Parser[span.SpanOf[rune]] {
							full := slash.Span.Concat(closeBrace.Span)
							if !hex.Value.IsUint64() || hex.Value.Uint64() > 0x7FFFFFFF {
								return combinator.Err[span.SpanOf[rune]](diag.New(diag.UnicodeOverflow, full))
							}
							v := rune(hex.Value.Uint64())
							if !validScalar(v) {
								return combinator.Err[span.SpanOf[rune]](diag.New(diag.InvalidUnicode, full))
							}
							return combinator.Ok(span.Of(full, v))
						})
					})
				})
			case 'x', 'X':
				return combinator.AndThen(Digit(16), func(hi span.SpanOf[int]) Parser[span.SpanOf[rune]] {
					return combinator.Map(Digit(16), func(lo span.SpanOf[int]) span.SpanOf[rune] {
						return span.Combine(hi, lo, func(h, l int) rune { return rune(h*16 + l) })
					})
				})
			default:
				return combinator.Err[span.SpanOf[rune]](diag.New(diag.InvalidEscape, ch.Span))
			}
		})
	})
}

// validScalar reports whether v is a valid Unicode scalar value (excludes
// the UTF-16 surrogate range and values beyond the codepoint space).
func validScalar(v rune) bool {
	return v >= 0 && v <= 0x10FFFF && !(v >= 0xD800 && v <= 0xDFFF)
}

// StringLiteral parses a double-quoted string: escapes or any character
// other than '"' and newline, terminated by '"'. A missing terminator is
// StringLiteralIncomplete.
func StringLiteral(skipNewline bool) Parser[span.SpanOf[string]] {
	return combinator.AndThen(Skip(skipNewline), func(span.Span) Parser[span.SpanOf[string]] {
		return combinator.AndThen(CharEq('"'), func(openQuote span.SpanOf[rune]) Parser[span.SpanOf[string]] {
			body := combinator.Fold(
				combinator.Ok(span.Map(openQuote, func(rune) string { return "" })),
				func() Parser[span.SpanOf[rune]] {
					return combinator.OrElse(Escape(), func(*diag.Diagnostic) Parser[span.SpanOf[rune]] {
						return CharMatch(func(r rune) bool { return r != '"' && r != '\n' }, diag.CharNotMatch)
					})
				},
				func(acc span.SpanOf[string], ch span.SpanOf[rune]) span.SpanOf[string] {
					return span.Combine(acc, ch, func(s string, r rune) string { return s + string(r) })
				},
			)
			return combinator.AndThen(body, func(str span.SpanOf[string]) Parser[span.SpanOf[string]] {
				closing := combinator.OrElse(CharEq('"'), func(*diag.Diagnostic) Parser[span.SpanOf[rune]] {
					return combinator.Err[span.SpanOf[rune]](diag.New(diag.StringLiteralIncomplete, str.Span))
				})
				return combinator.Map(closing, func(q span.SpanOf[rune]) span.SpanOf[string] {
					return span.Combine(str, q, func(s string, _ rune) string { return s })
				})
			})
		})
	})
}

// CharLiteral parses a single-quoted character: one escape or non-'\''
// non-newline character, terminated by '\''. Empty is CharLiteralEmpty;
// missing terminator is CharLiteralIncomplete.
func CharLiteral(skipNewline bool) Parser[span.SpanOf[rune]] {
	return combinator.AndThen(Skip(skipNewline), func(span.Span) Parser[span.SpanOf[rune]] {
		return combinator.AndThen(CharEq('\''), func(openQuote span.SpanOf[rune]) Parser[span.SpanOf[rune]] {
			bareChar := combinator.OrElse(Escape(), func(*diag.Diagnostic) Parser[span.SpanOf[rune]] {
				return CharMatch(func(r rune) bool { return r != '\'' && r != '\n' }, diag.CharNotMatch)
			})
			withValue := combinator.OrElse(bareChar, func(*diag.Diagnostic) Parser[span.SpanOf[rune]] {
				return combinator.Err[span.SpanOf[rune]](diag.New(diag.CharLiteralEmpty, openQuote.Span))
			})
			return combinator.AndThen(withValue, func(ch span.SpanOf[rune]) Parser[span.SpanOf[rune]] {
				closing := combinator.OrElse(CharEq('\''), func(*diag.Diagnostic) Parser[span.SpanOf[rune]] {
					return combinator.Err[span.SpanOf[rune]](diag.New(diag.CharLiteralIncomplete, ch.Span))
				})
				return combinator.Map(closing, func(q span.SpanOf[rune]) span.SpanOf[rune] {
					return span.Combine(ch, q, func(r rune, _ rune) rune { return r })
				})
			})
		})
	})
}

func isWhitespace(r rune, skipNewline bool) bool {
	if !unicode.IsSpace(r) {
		return false
	}
	if !skipNewline && r == '\n' {
		return false
	}
	return true
}

func whitespaceOne(skipNewline bool) Parser[span.Span] {
	return combinator.Map(
		CharMatch(func(r rune) bool { return isWhitespace(r, skipNewline) }, diag.CharNotMatch),
		func(r span.SpanOf[rune]) span.Span { return r.Span },
	)
}

// lineComment matches "//" through end of line (or end of input).
func lineComment() Parser[span.Span] {
	return func(s scanner.Scanner) (scanner.Scanner, span.Span, *diag.Diagnostic) {
		if !s.StartsWith("//") {
			return s, span.Span{}, diag.WithToken(diag.ExpectedToken, s.EmptySpan(), "//")
		}
		cur := s.Advance(2)
		for {
			next, r, ok := cur.Next()
			if !ok || r == '\n' {
				break
			}
			cur = next
		}
		return cur, cur.Span(s.Offset), nil
	}
}

// blockComment matches "/* ... */"; an unterminated block comment consumes
// to end of input without error, per §4.3.
func blockComment() Parser[span.Span] {
	return func(s scanner.Scanner) (scanner.Scanner, span.Span, *diag.Diagnostic) {
		if !s.StartsWith("/*") {
			return s, span.Span{}, diag.WithToken(diag.ExpectedToken, s.EmptySpan(), "/*")
		}
		cur := s.Advance(2)
		for !cur.StartsWith("*/") {
			next, _, ok := cur.Next()
			if !ok {
				return cur, cur.Span(s.Offset), nil
			}
			cur = next
		}
		return cur.Advance(2), cur.Advance(2).Span(s.Offset), nil
	}
}

// Skip consumes whitespace, line comments, and block comments until none
// apply, never failing. When skipNewline is false, '\n' is not treated as
// whitespace, which is the sole mechanism by which newlines become statement
// separators.
func Skip(skipNewline bool) Parser[span.Span] {
	oneOf := func() Parser[span.Span] {
		return combinator.OrElse(whitespaceOne(skipNewline), func(*diag.Diagnostic) Parser[span.Span] {
			return combinator.OrElse(lineComment(), func(*diag.Diagnostic) Parser[span.Span] {
				return blockComment()
			})
		})
	}
	return func(s scanner.Scanner) (scanner.Scanner, span.Span, *diag.Diagnostic) {
		cur := s
		for {
			next, _, d := oneOf()(cur)
			if d != nil {
				return cur, cur.EmptySpan(), nil
			}
			cur = next
		}
	}
}

// Identifier parses [alpha_][alnum_]*, using the Unicode alphabetic and
// alphanumeric classes. No keyword check happens here; the statement layer
// compares the text against the closed keyword set.
func Identifier(skipNewline bool) Parser[span.SpanOf[string]] {
	return combinator.AndThen(Skip(skipNewline), func(span.Span) Parser[span.SpanOf[string]] {
		first := CharMatch(func(r rune) bool { return unicode.IsLetter(r) || r == '_' }, diag.CharNotMatch)
		return combinator.AndThen(first, func(head span.SpanOf[rune]) Parser[span.SpanOf[string]] {
			rest := combinator.Fold(
				combinator.Ok(span.Map(head, func(r rune) string { return string(r) })),
				func() Parser[span.SpanOf[rune]] {
					return CharMatch(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }, diag.CharNotMatch)
				},
				func(acc span.SpanOf[string], r span.SpanOf[rune]) span.SpanOf[string] {
					return span.Combine(acc, r, func(s string, r rune) string { return s + string(r) })
				},
			)
			return rest
		})
	})
}

// Symbol matches the literal text want at the current position, failing if
// any longer recognized spelling that has want as a prefix also matches
// here — this is what keeps "=" from shadowing "==", "|" from shadowing
// "||", and so on, without requiring every call site to special-case it.
func Symbol(skipNewline bool, want string) Parser[span.Span] {
	conflicts := token.LongerConflicts(want)
	return combinator.AndThen(Skip(skipNewline), func(span.Span) Parser[span.Span] {
		return func(s scanner.Scanner) (scanner.Scanner, span.Span, *diag.Diagnostic) {
			for _, c := range conflicts {
				if s.StartsWith(c) {
					return s, span.Span{}, diag.WithToken(diag.ExpectedToken, s.EmptySpan(), want)
				}
			}
			if !s.StartsWith(want) {
				return s, span.Span{}, diag.WithToken(diag.ExpectedToken, s.EmptySpan(), want)
			}
			next := s.Advance(len(want))
			return next, next.Span(s.Offset), nil
		}
	})
}

// Keyword matches an identifier equal to the text of kw, failing (without
// requiring the caller to special-case prefix collisions, since Identifier
// already consumes the maximal identifier before comparison) when the
// identifier text differs.
func Keyword(skipNewline bool, kw token.Keyword) Parser[span.Span] {
	return combinator.AndThen(Identifier(skipNewline), func(id span.SpanOf[string]) Parser[span.Span] {
		if id.Value != string(kw) {
			return combinator.Err[span.Span](diag.New(diag.InvalidKeyword, id.Span))
		}
		return combinator.Ok(id.Span)
	})
}
