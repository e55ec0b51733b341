package sdc

import "testing"

func TestDefaultsScopeRestoresOnExplicitRestore(t *testing.T) {
	d := NewDefaults()
	d.Set("type", "sentinel")

	restore := d.Scope()
	d.Set("type", "scratch")

	got, ok := d.Get("type")
	if !ok || got != "scratch" {
		t.Fatalf("Get mid-scope = %q, %v, want scratch, true", got, ok)
	}

	restore()

	got, ok = d.Get("type")
	if !ok || got != "sentinel" {
		t.Fatalf("Get after restore = %q, %v, want sentinel, true", got, ok)
	}
}

func TestDefaultsScopeRestoresNewKeyToUnset(t *testing.T) {
	d := NewDefaults()

	restore := d.Scope()
	d.Set("type", "scratch")
	restore()

	if _, ok := d.Get("type"); ok {
		t.Fatalf("Get after restore: key introduced mid-scope should not survive")
	}
}
