package sdc

import (
	"fmt"
	"strconv"
	"strings"
)

// FloatExprEvaluator evaluates an arithmetic expression found in a float
// field (e.g. "2*3.1415") to a float64. It is left nil by default: no
// third-party expression engine ships with this library, since nothing in
// the Go ecosystem plays the role the original library's optional ROOT
// TFormula dependency did. Callers that need expression support supply
// their own evaluator.
type FloatExprEvaluator func(expr string) (float64, error)

// LexOptions controls value lexing for [LexBool], [LexInt], and [LexFloat].
type LexOptions struct {
	// FloatExpr, if non-nil, is tried when a float field fails to parse
	// as a plain numeric literal.
	FloatExpr FloatExprEvaluator
}

// LexBool parses a boolean field. Accepted spellings (case-insensitive):
// "true"/"false", "yes"/"no", "1"/"0", "on"/"off".
func LexBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("sdc: %q is not a valid boolean", s)
	}
}

// LexInt parses an integer field using base-10 semantics, same as
// [strconv.ParseInt] with bitSize 64.
func LexInt(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("sdc: %q is not a valid integer", s)
	}

	return v, nil
}

// LexFloat parses a floating-point field.
//
// "nan" is recognized case-insensitively and maps to a quiet NaN, matching
// the upstream library's literal table bit-for-bit. "inf" and "infinity"
// are deliberately NOT recognized as literals, even though they are valid
// spellings accepted by [strconv.ParseFloat] — this mirrors an unresolved
// asymmetry in the original grammar table and is preserved rather than
// silently fixed.
//
// If the value is not a bare numeric literal and opts.FloatExpr is set, it
// is tried as an arithmetic expression before giving up.
func LexFloat(s string, opts LexOptions) (float64, error) {
	trimmed := strings.TrimSpace(s)

	lower := strings.ToLower(trimmed)
	if unsigned := strings.TrimLeft(lower, "+-"); unsigned == "inf" || unsigned == "infinity" {
		return 0, fmt.Errorf("sdc: %q is not a recognized float literal", s)
	}

	if lower == "nan" || lower == "+nan" || lower == "-nan" {
		trimmed = "nan"
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err == nil {
		return v, nil
	}

	if opts.FloatExpr != nil {
		v, exprErr := opts.FloatExpr(s)
		if exprErr == nil {
			return v, nil
		}
	}

	return 0, fmt.Errorf("sdc: %q is not a valid float literal", s)
}

// LexString returns s unmodified; string fields have no literal syntax
// beyond the grammar's own column-splitting and quoting rules.
func LexString(s string) (string, error) {
	return s, nil
}

// UnsetLiteral is the grammar's spelling for "no bound" in a validity range,
// e.g. "runs=500-..." for "valid from 500 onward, with no upper bound".
// [LexRange] accepts it only as the upper bound.
const UnsetLiteral = "..."

// RangeDelimiter separates the two bounds of a "FROM-TO" validity range.
const RangeDelimiter = '-'

// LexRange parses a validity range value using traits: either the literal
// [UnsetLiteral] alone (an error — a bare "..." names neither a from nor a
// to), a bare value v (collapsing to the single-point range [v, succ(v))
// via traits.Advance), or "FROM-TO" where either side may be a literal
// value or [UnsetLiteral].
//
// FROM may never be [UnsetLiteral]: the grammar only allows an open upper
// bound on input. TO, once parsed, is always advanced with traits.Advance
// so the stored range's upper bound is exclusive even though the document
// writes an inclusive one — "runs=100-500" means "the run range 100 through
// 500 inclusive", stored as Range{From: 100, To: 501}.
func LexRange[K comparable](s string, traits KeyTraits[K]) (Range[K], error) {
	s = strings.TrimSpace(s)

	if s == UnsetLiteral {
		return Range[K]{}, fmt.Errorf("sdc: range %q: %s names neither a from nor a to", s, UnsetLiteral)
	}

	if i := rangeDelimiterIndex(s); i >= 0 {
		fromRaw, toRaw := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])

		if fromRaw == UnsetLiteral {
			return Range[K]{}, fmt.Errorf("sdc: range %q: from may not be %s", s, UnsetLiteral)
		}

		from, err := traits.Parse(fromRaw)
		if err != nil {
			return Range[K]{}, err
		}

		if toRaw == UnsetLiteral {
			return Range[K]{From: from, To: traits.Unset}, nil
		}

		to, err := traits.Parse(toRaw)
		if err != nil {
			return Range[K]{}, err
		}

		if traits.Advance != nil {
			to = traits.Advance(to)
		}

		return Range[K]{From: from, To: to}, nil
	}

	v, err := traits.Parse(s)
	if err != nil {
		return Range[K]{}, err
	}

	if traits.Advance == nil {
		return Range[K]{}, fmt.Errorf("sdc: range %q: key type has no successor, an explicit FROM-TO range is required", s)
	}

	return Range[K]{From: v, To: traits.Advance(v)}, nil
}

// rangeDelimiterIndex finds the index of the range delimiter in s, skipping
// a leading sign character so a negative FROM (e.g. "-5-10") is not mistaken
// for the delimiter itself.
func rangeDelimiterIndex(s string) int {
	if len(s) <= 1 {
		return -1
	}

	if j := strings.IndexByte(s[1:], RangeDelimiter); j >= 0 {
		return j + 1
	}

	return -1
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

func parseInt64(s string) (int64, error) {
	return LexInt(s)
}
