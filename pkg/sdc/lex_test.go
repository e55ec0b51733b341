package sdc

import (
	"testing"
)

func TestLexBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "yes", "1", "on"} {
		v, err := LexBool(s)
		if err != nil || !v {
			t.Fatalf("LexBool(%q) = %v, %v, want true, nil", s, v, err)
		}
	}

	for _, s := range []string{"false", "no", "0", "off"} {
		v, err := LexBool(s)
		if err != nil || v {
			t.Fatalf("LexBool(%q) = %v, %v, want false, nil", s, v, err)
		}
	}

	if _, err := LexBool("maybe"); err == nil {
		t.Fatalf("expected error for invalid boolean")
	}
}

func TestLexFloatNanButNotInf(t *testing.T) {
	v, err := LexFloat("nan", LexOptions{})
	if err != nil {
		t.Fatalf("LexFloat(nan) error: %v", err)
	}

	if v == v {
		t.Fatalf("expected NaN, got %v", v)
	}

	for _, s := range []string{"inf", "Inf", "+inf", "-inf", "infinity"} {
		if _, err := LexFloat(s, LexOptions{}); err == nil {
			t.Fatalf("LexFloat(%q) unexpectedly succeeded", s)
		}
	}
}

func TestLexFloatPlain(t *testing.T) {
	v, err := LexFloat("3.1415", LexOptions{})
	if err != nil {
		t.Fatalf("LexFloat error: %v", err)
	}

	if v != 3.1415 {
		t.Fatalf("LexFloat = %v, want 3.1415", v)
	}
}

func TestLexFloatExprFallback(t *testing.T) {
	opts := LexOptions{
		FloatExpr: func(expr string) (float64, error) {
			if expr == "2*3" {
				return 6, nil
			}

			return 0, errBadExpr
		},
	}

	v, err := LexFloat("2*3", opts)
	if err != nil {
		t.Fatalf("LexFloat error: %v", err)
	}

	if v != 6 {
		t.Fatalf("LexFloat = %v, want 6", v)
	}
}

var errBadExpr = errBadExprType{}

type errBadExprType struct{}

func (errBadExprType) Error() string { return "bad expr" }

func TestLexInt(t *testing.T) {
	v, err := LexInt(" 42 ")
	if err != nil || v != 42 {
		t.Fatalf("LexInt = %v, %v, want 42, nil", v, err)
	}

	if _, err := LexInt("not-a-number"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLexRangeFromTo(t *testing.T) {
	traits := IntKeyTraits()

	got, err := LexRange("100-500", traits)
	if err != nil {
		t.Fatalf("LexRange: %v", err)
	}

	want := Range[int64]{From: 100, To: 501} // inclusive 500 becomes exclusive 501
	if got != want {
		t.Fatalf("LexRange(100-500) = %+v, want %+v", got, want)
	}
}

func TestLexRangeOpenUpperBound(t *testing.T) {
	traits := IntKeyTraits()

	got, err := LexRange("500-...", traits)
	if err != nil {
		t.Fatalf("LexRange: %v", err)
	}

	if got.From != 500 || got.To != traits.Unset {
		t.Fatalf("LexRange(500-...) = %+v, want From=500 To=unset", got)
	}
}

func TestLexRangeBareValue(t *testing.T) {
	traits := IntKeyTraits()

	got, err := LexRange("42", traits)
	if err != nil {
		t.Fatalf("LexRange: %v", err)
	}

	want := Range[int64]{From: 42, To: 43}
	if got != want {
		t.Fatalf("LexRange(42) = %+v, want %+v", got, want)
	}
}

func TestLexRangeBareUnsetLiteralRejected(t *testing.T) {
	traits := IntKeyTraits()

	if _, err := LexRange("...", traits); err == nil {
		t.Fatalf("LexRange(...) unexpectedly succeeded")
	}
}

func TestLexRangeFromMayNotBeUnset(t *testing.T) {
	traits := IntKeyTraits()

	if _, err := LexRange("...-500", traits); err == nil {
		t.Fatalf("LexRange(...-500) unexpectedly succeeded")
	}
}

func TestLexRangeNegativeFromNotMistakenForDelimiter(t *testing.T) {
	traits := IntKeyTraits()

	got, err := LexRange("-5-10", traits)
	if err != nil {
		t.Fatalf("LexRange(-5-10): %v", err)
	}

	want := Range[int64]{From: -5, To: 11}
	if got != want {
		t.Fatalf("LexRange(-5-10) = %+v, want %+v", got, want)
	}
}
