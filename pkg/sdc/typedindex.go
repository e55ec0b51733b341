package sdc

import "fmt"

// TypedIndex is a per-data-type collection of validity [Index]es: the Go
// analogue of the original library's type-polymorphic ValidityIndex, which
// keeps one independent index per calibration data type rather than mixing
// every type's entries into a single ordered collection. A query names the
// type it wants; querying a type that was never [TypedIndex.AddEntry]'d
// fails with [ErrUnknownType], downgradable to an empty result under
// lenient mode.
//
// A TypedIndex is not safe for concurrent mutation; see [Controller] on the
// concurrency contract.
type TypedIndex[K comparable, Aux any] struct {
	traits KeyTraits[K]
	byType map[string]*Index[K, Aux]
}

// NewTypedIndex returns an empty TypedIndex using traits for key
// comparisons.
func NewTypedIndex[K comparable, Aux any](traits KeyTraits[K]) *TypedIndex[K, Aux] {
	return &TypedIndex[K, Aux]{traits: traits, byType: make(map[string]*Index[K, Aux])}
}

// AddEntry inserts (r, aux) into typ's sub-index, creating it if this is
// the first entry seen for typ.
func (t *TypedIndex[K, Aux]) AddEntry(typ string, r Range[K], aux Aux) error {
	ix, ok := t.byType[typ]
	if !ok {
		ix = NewIndex[K, Aux](t.traits)
		t.byType[typ] = ix
	}

	return ix.AddEntry(r, aux)
}

// Updates returns typ's entries valid at key, ascending by From (see
// [Index.Updates]). If typ was never added to, Updates returns
// [ErrUnknownType] unless lenient is true, in which case it returns an
// empty result instead.
func (t *TypedIndex[K, Aux]) Updates(typ string, key K, lenient bool) ([]IndexEntry[K, Aux], error) {
	ix, ok := t.byType[typ]
	if !ok {
		if lenient {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	return ix.Updates(key), nil
}

// UpdatesDiff returns typ's entries whose From lies in (old, new], as
// [Index.UpdatesDiff] does, with the same unknown-type/lenient contract as
// [TypedIndex.Updates].
func (t *TypedIndex[K, Aux]) UpdatesDiff(typ string, oldKey, newKey K, lenient, keepStale bool) ([]IndexEntry[K, Aux], error) {
	ix, ok := t.byType[typ]
	if !ok {
		if lenient {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	return ix.UpdatesDiff(oldKey, newKey, keepStale), nil
}

// Latest returns typ's single most current entry valid at key, as
// [Index.Latest] does. Unlike Updates/UpdatesDiff, Latest has no lenient
// parameter: an unknown type is always [ErrUnknownType].
func (t *TypedIndex[K, Aux]) Latest(typ string, key K) (IndexEntry[K, Aux], bool, error) {
	ix, ok := t.byType[typ]
	if !ok {
		return IndexEntry[K, Aux]{}, false, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	e, ok := ix.Latest(key)
	return e, ok, nil
}

// Types returns every data type with at least one entry, in no particular
// order.
func (t *TypedIndex[K, Aux]) Types() []string {
	out := make([]string, 0, len(t.byType))
	for typ := range t.byType {
		out = append(out, typ)
	}

	return out
}

// All returns every entry indexed under typ, in the order [Index.AddEntry]
// keeps them (ascending From, insertion order on ties), or nil if typ was
// never added to.
func (t *TypedIndex[K, Aux]) All(typ string) []IndexEntry[K, Aux] {
	ix, ok := t.byType[typ]
	if !ok {
		return nil
	}

	return append([]IndexEntry[K, Aux](nil), ix.entries...)
}
