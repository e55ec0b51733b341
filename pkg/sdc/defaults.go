package sdc

// Defaults holds reserved-key fallback values a [Loader] consults when a
// block's own metadata does not redeclare them: "type", most commonly
// inherited from the most recently declared block within the same
// document, and "runs", which only ever comes from an explicit [Defaults.Set]
// since no block should inherit another's validity range. Both are keyed
// by their canonical name, independent of whatever key name a
// [GrammarConfig] recognizes in document text — see [GrammarLoader].
// [Controller.Add] scopes a document's mutations to Defaults so they never
// leak into the next document: see [Defaults.Scope].
type Defaults struct {
	values map[string]string
}

// NewDefaults returns an empty Defaults.
func NewDefaults() *Defaults {
	return &Defaults{values: make(map[string]string)}
}

// Get returns the current fallback for key, if one is set.
func (d *Defaults) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set records the current fallback for key.
func (d *Defaults) Set(key, value string) {
	d.values[key] = value
}

func (d *Defaults) snapshot() map[string]string {
	snap := make(map[string]string, len(d.values))
	for k, v := range d.values {
		snap[k] = v
	}

	return snap
}

func (d *Defaults) restore(snap map[string]string) {
	d.values = snap
}

// Scope snapshots d's current values and returns a restore function the
// caller must defer-call, the Go analogue of the original library's RAII
// defaults guard: it lets one document's blocks mutate d (e.g. inheriting a
// "type" from an earlier block) without that mutation surviving past the
// document, even if the caller returns early on error.
func (d *Defaults) Scope() func() {
	snap := d.snapshot()
	return func() { d.restore(snap) }
}
