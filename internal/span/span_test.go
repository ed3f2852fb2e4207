package span

import "testing"

func TestFromStringMaterializesLazily(t *testing.T) {
	src := FromString("hi")
	if src.Len() != 0 {
		t.Fatalf("expected nothing materialized before first read, got %d bytes", src.Len())
	}
	r, size, ok := src.At(0)
	if !ok || r != 'h' || size != 1 {
		t.Fatalf("At(0) = %q, %d, %v", r, size, ok)
	}
	if src.Len() != 1 {
		t.Fatalf("expected exactly 1 byte materialized after reading one ASCII rune, got %d", src.Len())
	}
}

func TestAtEndOfInput(t *testing.T) {
	src := FromString("a")
	if _, _, ok := src.At(1); ok {
		t.Fatalf("expected At past end of input to report not-ok")
	}
}

func TestHasPrefix(t *testing.T) {
	src := FromString("hello world")
	if !src.HasPrefix(0, "hello") {
		t.Fatalf("expected HasPrefix(0, %q) to match", "hello")
	}
	if src.HasPrefix(0, "world") {
		t.Fatalf("expected HasPrefix(0, %q) not to match", "world")
	}
	if !src.HasPrefix(6, "world") {
		t.Fatalf("expected HasPrefix(6, %q) to match", "world")
	}
}

func TestSpanConcat(t *testing.T) {
	src := FromString("abcdef")
	a := Span{Start: 1, End: 2, Source: src}
	b := Span{Start: 3, End: 5, Source: src}
	got := a.Concat(b)
	if got.Start != 1 || got.End != 5 {
		t.Fatalf("Concat = [%d,%d), want [1,5)", got.Start, got.End)
	}
}

func TestSpanTextAndLen(t *testing.T) {
	src := FromString("hello")
	src.ensure(5)
	sp := Span{Start: 1, End: 4, Source: src}
	if sp.Text() != "ell" {
		t.Fatalf("Text() = %q, want %q", sp.Text(), "ell")
	}
	if sp.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", sp.Len())
	}
}

func TestLineCol(t *testing.T) {
	src := FromString("ab\ncd\nef")
	src.ensure(8)
	line, col := src.LineCol(4)
	if line != 2 || col != 2 {
		t.Fatalf("LineCol(4) = %d:%d, want 2:2", line, col)
	}
}

func TestSpanOfMapAndCombine(t *testing.T) {
	src := FromString("x")
	sp := Span{Start: 0, End: 1, Source: src}
	a := Of(sp, 3)
	doubled := Map(a, func(v int) int { return v * 2 })
	if doubled.Value != 6 {
		t.Fatalf("Map value = %d, want 6", doubled.Value)
	}
	b := Of(Span{Start: 1, End: 2, Source: src}, 4)
	combined := Combine(a, b, func(x, y int) int { return x + y })
	if combined.Value != 7 || combined.Start != 0 || combined.End != 2 {
		t.Fatalf("Combine = %+v, want value 7 over [0,2)", combined)
	}
}
