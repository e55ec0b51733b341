package sqliteindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sdc-go/sdc/pkg/sdc"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.sqlite3")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	traits := sdc.IntKeyTraits()

	refs := []sdc.BlockRef[int64]{
		{
			LoaderName: "mem",
			DocID:      "run100.csv",
			Type:       "gain",
			Line:       2,
			Validity:   sdc.Range[int64]{From: 100, To: 200},
			Columns:    []string{"channel", "gain"},
		},
		{
			LoaderName: "mem",
			DocID:      "run200.csv",
			Type:       "gain",
			Line:       2,
			Validity:   sdc.Range[int64]{From: 200, To: traits.Unset},
			Columns:    []string{"channel", "gain"},
		},
	}

	if err := Snapshot(ctx, store, traits, refs); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	restored, err := Restore(ctx, store, traits)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if len(restored) != 2 {
		t.Fatalf("Restore = %d blocks, want 2", len(restored))
	}

	if restored[0].DocID != "run100.csv" || restored[1].DocID != "run200.csv" {
		t.Fatalf("Restore order = %v", restored)
	}

	if restored[0].Validity.From != 100 || restored[0].Validity.To != 200 {
		t.Fatalf("restored[0].Validity = %+v", restored[0].Validity)
	}

	if restored[1].Validity.To != traits.Unset {
		t.Fatalf("restored[1].Validity.To = %v, want unset (open-ended)", restored[1].Validity.To)
	}

	wantColumns := []string{"channel", "gain"}
	if diff := cmp.Diff(wantColumns, restored[0].Columns); diff != "" {
		t.Fatalf("restored[0].Columns mismatch (-want +got):\n%s", diff)
	}

	if restored[0].Type != "gain" || restored[0].LoaderName != "mem" {
		t.Fatalf("restored[0] = %+v, want type=gain loader_name=mem", restored[0])
	}
}

func TestSnapshotReplacesPreviousContent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.sqlite3")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	traits := sdc.IntKeyTraits()

	first := []sdc.BlockRef[int64]{{LoaderName: "mem", DocID: "a.csv", Type: "gain", Validity: sdc.Range[int64]{From: 0, To: 10}}}
	if err := Snapshot(ctx, store, traits, first); err != nil {
		t.Fatalf("Snapshot #1: %v", err)
	}

	second := []sdc.BlockRef[int64]{{LoaderName: "mem", DocID: "b.csv", Type: "gain", Validity: sdc.Range[int64]{From: 10, To: 20}}}
	if err := Snapshot(ctx, store, traits, second); err != nil {
		t.Fatalf("Snapshot #2: %v", err)
	}

	restored, err := Restore(ctx, store, traits)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if len(restored) != 1 || restored[0].DocID != "b.csv" {
		t.Fatalf("Restore after second snapshot = %v, want only b.csv", restored)
	}
}
