// Package combinator implements the monadic parser-combinator engine the
// rest of the front end is built on: every parser is a pure function from a
// scanner to either an advanced scanner plus a value, or a diagnostic, with
// PEG-like backtracking on failure.
//
// This mirrors the Parser<T> type from the language's original compiler
// (a boxed FnOnce(Scanner) -> Result<(Scanner, T), Error>), translated to a
// Go generic function type plus free functions, since Go methods cannot
// introduce new type parameters.
package combinator

import (
	"light-lang/internal/diag"
	"light-lang/internal/scanner"
)

// Parser consumes a Scanner and produces either an advanced Scanner and a
// value of type T, or a diagnostic describing why it failed. On failure a
// well-behaved Parser MUST NOT have any externally observable effect beyond
// returning the diagnostic: the scanner a caller already holds is untouched,
// so failure is always positional, never partial.
type Parser[T any] func(scanner.Scanner) (scanner.Scanner, T, *diag.Diagnostic)

// Ok builds a parser that always succeeds with value without consuming any
// input.
func Ok[T any](value T) Parser[T] {
	return func(s scanner.Scanner) (scanner.Scanner, T, *diag.Diagnostic) {
		return s, value, nil
	}
}

// Err builds a parser that always fails with d without consuming any input.
func Err[T any](d *diag.Diagnostic) Parser[T] {
	return func(s scanner.Scanner) (scanner.Scanner, T, *diag.Diagnostic) {
		var zero T
		return s, zero, d
	}
}

// Map transforms a successful parser's value, leaving failures untouched.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(s scanner.Scanner) (scanner.Scanner, U, *diag.Diagnostic) {
		next, v, d := p(s)
		if d != nil {
			var zero U
			return s, zero, d
		}
		return next, f(v), nil
	}
}

// MapErr transforms a failing parser's diagnostic, leaving successes
// untouched.
func MapErr[T any](p Parser[T], f func(*diag.Diagnostic) *diag.Diagnostic) Parser[T] {
	return func(s scanner.Scanner) (scanner.Scanner, T, *diag.Diagnostic) {
		next, v, d := p(s)
		if d != nil {
			return s, v, f(d)
		}
		return next, v, nil
	}
}

// AndThen sequences two parsers: if p succeeds, its value and advanced
// scanner feed into f to produce the next parser, which runs from there. If
// either fails, the whole chain fails without consuming input beyond what
// the caller already observed, since failure always reports the scanner
// passed in, not any intermediate position.
func AndThen[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(s scanner.Scanner) (scanner.Scanner, U, *diag.Diagnostic) {
		next, v, d := p(s)
		if d != nil {
			var zero U
			return s, zero, d
		}
		next2, v2, d2 := f(v)(next)
		if d2 != nil {
			var zero U
			return s, zero, d2
		}
		return next2, v2, nil
	}
}

// OrElse tries p; if it fails, it rewinds to the original scanner and tries
// the alternative built from the first failure's diagnostic. This is the
// core backtracking primitive: the alternative always starts from the exact
// position p started at, never from wherever p gave up.
func OrElse[T any](p Parser[T], alt func(*diag.Diagnostic) Parser[T]) Parser[T] {
	return func(s scanner.Scanner) (scanner.Scanner, T, *diag.Diagnostic) {
		next, v, d := p(s)
		if d == nil {
			return next, v, nil
		}
		return alt(d)(s)
	}
}

// Optional turns a failing parser into a successful (*T)(nil) rather than
// propagating the failure, always rewinding on failure.
func Optional[T any](p Parser[T]) Parser[*T] {
	return func(s scanner.Scanner) (scanner.Scanner, *T, *diag.Diagnostic) {
		next, v, d := p(s)
		if d != nil {
			return s, nil, nil
		}
		return next, &v, nil
	}
}

// Fold repeatedly runs step() (built fresh each iteration, so it may close
// over the running accumulator) starting from init, combining each
// successful result into the accumulator via combine, and stops — without
// failing — at the first iteration that fails, rewinding only that last
// attempt. Every call to step must be a proper parser that only succeeds by
// consuming progress; Fold does not itself guard against infinite loops from
// a zero-width successful step.
func Fold[T, U any](init Parser[T], step func() Parser[U], combine func(T, U) T) Parser[T] {
	return func(s scanner.Scanner) (scanner.Scanner, T, *diag.Diagnostic) {
		cur, acc, d := init(s)
		if d != nil {
			var zero T
			return s, zero, d
		}
		for {
			next, v, d2 := step()(cur)
			if d2 != nil {
				return cur, acc, nil
			}
			acc = combine(acc, v)
			cur = next
		}
	}
}

// ThenOr runs p and returns its result if it succeeds; if p fails, it runs
// alt on the ORIGINAL scanner and returns that result instead. It differs from OrElse only in argument shape: alt does not see
// p's diagnostic, which is convenient when the fallback parser is already
// fully built rather than constructed from the failure reason.
func ThenOr[T any](p Parser[T], alt Parser[T]) Parser[T] {
	return OrElse(p, func(*diag.Diagnostic) Parser[T] { return alt })
}
