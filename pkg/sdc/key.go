package sdc

// KeyTraits supplies the operations the validity index needs on a validity
// key type K, the way a C++ template would specialize on a traits class.
// Go methods cannot introduce their own type parameters, so the index and
// the free functions in this package take a KeyTraits[K] value explicitly
// wherever they need to compare, advance, format, or parse a key.
type KeyTraits[K comparable] struct {
	// Unset is the sentinel value meaning "not set" for this key type.
	Unset K

	// Less reports whether a orders before b.
	Less func(a, b K) bool

	// Advance returns the smallest key strictly greater than k, used to
	// turn an inclusive upper bound into the exclusive "to" of a
	// half-open [Range]. For integer keys this is k+1; for keys with no
	// natural successor, Advance may be nil and callers must always
	// supply an exclusive upper bound directly.
	Advance func(k K) K

	// Format renders k for diagnostics and synthetic metadata values.
	Format func(k K) string

	// Parse parses a key from its textual form in a document.
	Parse func(s string) (K, error)
}

// IntKeyTraits returns the [KeyTraits] for int64 validity keys (e.g. run
// numbers), the library's reference instantiation.
func IntKeyTraits() KeyTraits[int64] {
	return KeyTraits[int64]{
		Unset: -1,
		Less:  func(a, b int64) bool { return a < b },
		Advance: func(k int64) int64 {
			return k + 1
		},
		Format: func(k int64) string {
			return formatInt64(k)
		},
		Parse: parseInt64,
	}
}

// IsUnset reports whether k equals the traits' unset sentinel.
func (t KeyTraits[K]) IsUnset(k K) bool {
	return k == t.Unset
}

// Range is a half-open validity interval [From, To) over a validity key. An
// unset bound (per [KeyTraits.IsUnset]) is open in that direction: an unset
// From means "valid since the beginning", an unset To means "valid forever
// onward". This asymmetry — unset is open, not empty — is load-bearing: an
// open-left Range{From: unset, To: 500} is valid for every key below 500,
// not invalid. Such a range can only be built in code (e.g. by
// [KeyTraits.Intersect]); [LexRange] rejects an unset FROM in document text.
type Range[K comparable] struct {
	From K
	To   K
}

// NonEmpty reports whether r describes a non-empty interval: true unless
// both bounds are set and From >= To. Either bound being unset makes the
// range open (and therefore non-empty) in that direction.
func (t KeyTraits[K]) NonEmpty(r Range[K]) bool {
	if t.IsUnset(r.From) || t.IsUnset(r.To) {
		return true
	}

	return t.Less(r.From, r.To)
}

// Contains reports whether key lies within r's half-open interval. An unset
// From imposes no lower bound; an unset To imposes no upper bound.
func (t KeyTraits[K]) Contains(r Range[K], key K) bool {
	if !t.IsUnset(r.From) && t.Less(key, r.From) {
		return false
	}

	if !t.IsUnset(r.To) && !t.Less(key, r.To) {
		return false
	}

	return true
}

// Intersect returns the overlap of a and b. The result may be empty; test
// it with [KeyTraits.NonEmpty].
func (t KeyTraits[K]) Intersect(a, b Range[K]) Range[K] {
	from := a.From
	if t.IsUnset(from) || (!t.IsUnset(b.From) && t.Less(from, b.From)) {
		from = b.From
	}

	to := a.To
	switch {
	case t.IsUnset(a.To):
		to = b.To
	case t.IsUnset(b.To):
		to = a.To
	case t.Less(a.To, b.To):
		to = a.To
	default:
		to = b.To
	}

	return Range[K]{From: from, To: to}
}
