package sdc

import "sort"

// OverlapPolicy is consulted by [Index.AddEntry] before an entry is
// inserted; it may reject an overlapping insert by returning a non-nil
// error (conventionally wrapping [ErrOverlappingRanges]). The core index
// installs no policy by default — overlapping ranges are accepted and
// resolved at query time by ascending Range.From, with insertion order
// breaking ties between equal From values, matching the original
// library's reserved-but-unenforced overlap error classes.
type OverlapPolicy[K comparable, Aux any] func(existing, incoming IndexEntry[K, Aux]) error

// IndexEntry is one (validity range, payload) pair held by an [Index].
type IndexEntry[K comparable, Aux any] struct {
	Range Range[K]
	Aux   Aux

	// seq orders entries by insertion; later insertions win ties at
	// query time, per spec.
	seq int
}

// Index is the reentrant, type-polymorphic validity index: an ordered
// collection of (range, payload) entries over a validity key K, supporting
// the three query modes documented on [Index.Updates], [Index.UpdatesDiff],
// and [Index.Latest]. Aux is caller-defined payload, typically a document
// identifier or a loader-specific handle.
//
// An Index is not safe for concurrent mutation; see [Controller] on the
// concurrency contract.
type Index[K comparable, Aux any] struct {
	traits       KeyTraits[K]
	entries      []IndexEntry[K, Aux]
	nextSeq      int
	OverlapPolicy OverlapPolicy[K, Aux]
}

// NewIndex returns an empty Index using traits for key comparisons.
func NewIndex[K comparable, Aux any](traits KeyTraits[K]) *Index[K, Aux] {
	return &Index[K, Aux]{traits: traits}
}

// AddEntry inserts a new (range, aux) entry, keeping entries sorted by
// Range.From. If an [Index.OverlapPolicy] is set, it is consulted against
// every existing entry whose range intersects r; the first rejection wins.
func (ix *Index[K, Aux]) AddEntry(r Range[K], aux Aux) error {
	if !ix.traits.NonEmpty(r) {
		return ErrNoValidityRange
	}

	entry := IndexEntry[K, Aux]{Range: r, Aux: aux, seq: ix.nextSeq}

	if ix.OverlapPolicy != nil {
		for _, existing := range ix.entries {
			overlap := ix.traits.Intersect(existing.Range, r)
			if ix.traits.NonEmpty(overlap) {
				if err := ix.OverlapPolicy(existing, entry); err != nil {
					return err
				}
			}
		}
	}

	// Insert after every existing entry whose From is <= r.From, so two
	// entries with equal From keep insertion order — matching the
	// std::multimap<KeyT, Entry> iteration order of the original library
	// (ascending key, stable on ties).
	pos := sort.Search(len(ix.entries), func(i int) bool {
		return ix.traits.Less(r.From, ix.entries[i].Range.From)
	})

	ix.entries = append(ix.entries, IndexEntry[K, Aux]{})
	copy(ix.entries[pos+1:], ix.entries[pos:])
	ix.entries[pos] = entry

	ix.nextSeq++
	return nil
}

// Len returns the number of entries in the index.
func (ix *Index[K, Aux]) Len() int {
	return len(ix.entries)
}

// Updates returns every entry valid at key, ordered ascending by Range.From
// (insertion order breaking ties at equal From) — the order ix.entries is
// already kept in by [Index.AddEntry], matching the original library's
// std::multimap<KeyT, Entry> iteration order (sdc-base.hh). A caller folding
// the list left-to-right ends up with the entry declaring the tightest
// (highest-From) validity window winning for any given field, the "later,
// more specific update wins" overlay semantics of the original library's
// updates() query.
func (ix *Index[K, Aux]) Updates(key K) []IndexEntry[K, Aux] {
	var out []IndexEntry[K, Aux]

	for _, e := range ix.entries {
		if ix.traits.Contains(e.Range, key) {
			out = append(out, e)
		}
	}

	return out
}

// UpdatesDiff returns every entry whose From lies in the half-open interval
// (oldKey, newKey] — what changed between two validity points — ordered
// ascending by Range.From (insertion order breaking ties), matching the
// two-key overload of the original library's updates() (sdc-base.hh
// upper_bound(oldKey)..upper_bound(newKey)). An unset oldKey starts at the
// beginning; an unset newKey continues to the end. If keepStale is false,
// an entry whose Range.To is set and ≤ newKey is also dropped.
func (ix *Index[K, Aux]) UpdatesDiff(oldKey, newKey K, keepStale bool) []IndexEntry[K, Aux] {
	var out []IndexEntry[K, Aux]

	for _, e := range ix.entries {
		if !ix.traits.IsUnset(oldKey) && !ix.traits.Less(oldKey, e.Range.From) {
			continue // e.From <= oldKey: outside (oldKey, newKey]
		}

		if !ix.traits.IsUnset(newKey) && ix.traits.Less(newKey, e.Range.From) {
			continue // e.From > newKey: outside (oldKey, newKey]
		}

		if !keepStale && !ix.traits.IsUnset(newKey) && !ix.traits.IsUnset(e.Range.To) && !ix.traits.Less(newKey, e.Range.To) {
			continue // e.Range.To <= newKey: stale as of newKey
		}

		out = append(out, e)
	}

	return out
}

// Latest returns the single entry that is valid at key and, among all
// entries valid at key, declares the most specific (greatest Range.From)
// validity window — ties broken by the most recently inserted entry. ok is
// false if no entry is valid at key.
func (ix *Index[K, Aux]) Latest(key K) (entry IndexEntry[K, Aux], ok bool) {
	best := -1

	for i, e := range ix.entries {
		if !ix.traits.Contains(e.Range, key) {
			continue
		}

		if best == -1 {
			best = i
			continue
		}

		b := ix.entries[best]
		switch {
		case ix.traits.Less(b.Range.From, e.Range.From):
			best = i
		case ix.traits.Less(e.Range.From, b.Range.From):
			// b is more specific; keep it.
		case e.seq > b.seq:
			best = i
		}
	}

	if best == -1 {
		return IndexEntry[K, Aux]{}, false
	}

	return ix.entries[best], true
}
