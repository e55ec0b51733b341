package sdc

import "testing"

// overlayRow models a record with two fields, either of which may be
// unset ("-" in the source document) and inherited from the previous
// update in key order, rather than defaulted to a zero value.
type overlayRow struct {
	A, B string
}

func overlayParseRow(cols ColumnsOrder, fields []string, meta *MetaInfo) (overlayRow, error) {
	get := func(name string) (string, error) {
		i, err := cols.IndexOf(name)
		if err != nil {
			return "", err
		}

		if fields[i] == "-" {
			return "", nil
		}

		return fields[i], nil
	}

	a, err := get("a")
	if err != nil {
		return overlayRow{}, err
	}

	b, err := get("b")
	if err != nil {
		return overlayRow{}, err
	}

	return overlayRow{A: a, B: b}, nil
}

// overlayCollect implements field-level overlay merge: each update's unset
// fields (empty string, from a "-" placeholder) inherit the most recently
// merged value for that field, rather than each update replacing the
// previous one wholesale.
func overlayCollect(collection []Sourced[overlayRow], item Sourced[overlayRow], meta *MetaInfo) []Sourced[overlayRow] {
	merged := item.Value

	if len(collection) > 0 {
		prev := collection[len(collection)-1].Value

		if merged.A == "" {
			merged.A = prev.A
		}

		if merged.B == "" {
			merged.B = prev.B
		}
	}

	item.Value = merged

	return append(collection, item)
}

func overlayRecordType() RecordType[overlayRow] {
	return RecordType[overlayRow]{
		Name:     "ov",
		ParseRow: overlayParseRow,
		Collect:  overlayCollect,
	}
}

func newOverlayLoader(docs map[string]string) *GrammarLoader[int64] {
	return NewGrammarLoader[int64](&stringSource{name: "mem", docs: docs}, IntKeyTraits(), DefaultGrammar())
}

// TestRegistryOverlayMergeAcrossDocuments exercises RecordType.Collect's
// field-level overlay semantics across multiple documents and blocks:
// documents "one", "two", and "three" each declare overlapping validity
// ranges for the same type, some fields left unset ("-"), and Load at a
// given key must merge them in ascending-From/insertion order.
func TestRegistryOverlayMergeAcrossDocuments(t *testing.T) {
	docs := map[string]string{
		"one": "runs=6-...,type=ov,columns=a,b\n3,4\n" +
			"runs=1-...,type=ov,columns=a,b\n0,0\n",
		"two": "runs=2-2,type=ov,columns=a,b\n-,1\n" +
			"runs=5-...,type=ov,columns=a,b\n-,2\n",
		"three": "runs=3-...,type=ov,columns=a,b\n1,-\n",
	}

	c := NewController(IntKeyTraits())
	c.AddLoader(newOverlayLoader(docs))

	for _, id := range []string{"one", "two", "three"} {
		if err := c.Add(id); err != nil {
			t.Fatalf("Add(%q): %v", id, err)
		}
	}

	rt := overlayRecordType()

	want := []overlayRow{
		{A: "0", B: "0"},
		{A: "0", B: "1"},
		{A: "1", B: "0"},
		{A: "1", B: "0"},
		{A: "1", B: "2"},
		{A: "3", B: "4"},
	}

	for key := int64(1); key <= 6; key++ {
		col, err := Load(c, rt, key, false)
		if err != nil {
			t.Fatalf("Load(key=%d): %v", key, err)
		}

		if len(col.Items) == 0 {
			t.Fatalf("Load(key=%d): no updates", key)
		}

		got := col.Items[len(col.Items)-1].Value
		if got != want[key-1] {
			t.Fatalf("Load(key=%d) merged = %+v, want %+v", key, got, want[key-1])
		}
	}
}
