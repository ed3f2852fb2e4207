package combinator

import (
	"testing"

	"light-lang/internal/diag"
	"light-lang/internal/scanner"
)

func char(ch rune) Parser[rune] {
	return func(s scanner.Scanner) (scanner.Scanner, rune, *diag.Diagnostic) {
		next, r, ok := s.Next()
		if !ok || r != ch {
			return s, 0, diag.WithChar(diag.ExpectedChar, s.EmptySpan(), ch)
		}
		return next, r, nil
	}
}

func TestOkNeverConsumes(t *testing.T) {
	s := scanner.FromString("xyz")
	next, v, d := Ok(42)(s)
	if d != nil || v != 42 || next != s {
		t.Fatalf("Ok should succeed without consuming: next=%+v v=%d d=%v", next, v, d)
	}
}

func TestErrNeverConsumes(t *testing.T) {
	s := scanner.FromString("xyz")
	want := diag.New(diag.Eof, s.EmptySpan())
	next, _, d := Err[int](want)(s)
	if d != want || next != s {
		t.Fatalf("Err should fail without consuming input")
	}
}

func TestMapTransformsSuccess(t *testing.T) {
	s := scanner.FromString("a")
	p := Map(char('a'), func(r rune) string { return string(r) + string(r) })
	_, v, d := p(s)
	if d != nil || v != "aa" {
		t.Fatalf("Map result = %q, %v", v, d)
	}
}

func TestMapLeavesFailureUntouched(t *testing.T) {
	s := scanner.FromString("b")
	p := Map(char('a'), func(r rune) string { return string(r) })
	next, _, d := p(s)
	if d == nil || next != s {
		t.Fatalf("Map over a failing parser must propagate the failure and not consume")
	}
}

func TestAndThenSequencesAndFailsPositionally(t *testing.T) {
	s := scanner.FromString("ab")
	p := AndThen(char('a'), func(rune) Parser[rune] { return char('z') })
	next, _, d := p(s)
	if d == nil {
		t.Fatalf("expected failure when second parser in AndThen fails")
	}
	if next != s {
		t.Fatalf("AndThen must report the ORIGINAL scanner on failure, not an intermediate position")
	}
}

func TestOrElseRewindsBeforeTryingAlternative(t *testing.T) {
	s := scanner.FromString("b")
	p := OrElse(char('a'), func(*diag.Diagnostic) Parser[rune] { return char('b') })
	next, v, d := p(s)
	if d != nil || v != 'b' {
		t.Fatalf("OrElse should succeed via the alternative: v=%q d=%v", v, d)
	}
	if next.Offset != 1 {
		t.Fatalf("expected alternative to have consumed the 'b', got offset %d", next.Offset)
	}
}

func TestOptionalNeverFails(t *testing.T) {
	s := scanner.FromString("z")
	next, v, d := Optional(char('a'))(s)
	if d != nil || v != nil || next != s {
		t.Fatalf("Optional over a failing parser must succeed with nil and not consume: v=%v d=%v", v, d)
	}
}

func TestFoldAccumulatesAndStopsWithoutFailing(t *testing.T) {
	s := scanner.FromString("aaab")
	p := Fold(Ok(0), func() Parser[rune] { return char('a') }, func(acc int, _ rune) int { return acc + 1 })
	next, v, d := p(s)
	if d != nil {
		t.Fatalf("Fold must never fail, got %v", d)
	}
	if v != 3 {
		t.Fatalf("expected 3 a's folded, got %d", v)
	}
	if next.Offset != 3 {
		t.Fatalf("expected scanner to stop right before 'b', got offset %d", next.Offset)
	}
}

func TestFoldPropagatesInitFailure(t *testing.T) {
	s := scanner.FromString("b")
	p := Fold(char('a'), func() Parser[rune] { return char('a') }, func(acc, _ rune) rune { return acc })
	_, _, d := p(s)
	if d == nil {
		t.Fatalf("expected Fold to fail when its required init parser fails")
	}
}

func TestThenOrIgnoresDiagnostic(t *testing.T) {
	s := scanner.FromString("c")
	p := ThenOr(char('a'), char('c'))
	_, v, d := p(s)
	if d != nil || v != 'c' {
		t.Fatalf("ThenOr should fall through to the fixed alternative: v=%q d=%v", v, d)
	}
}
