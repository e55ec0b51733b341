package sdc

import (
	"fmt"
	"io"
	"log"
)

// blockLocator is the payload the controller's [TypedIndex] carries per
// entry: the loader and document that own the block, plus its structure as
// discovered by [Loader.GetDocStruct]. Materializing the block's rows is
// deferred to [Loader.ReadData], called lazily by [Load]/[GetLatest].
type blockLocator[K comparable] struct {
	loader Loader[K]
	docID  string
	block  BlockStruct[K]
}

// LoadLog optionally records which (document, line) a [Controller] was
// processing when a caller-supplied callback (a [RecordType.ParseRow], or
// the grammar engine's row callback) panics or returns an error, so the
// panic/error message can be enriched after the fact — the Go analogue of
// the original library's LoadLog diagnostic object.
type LoadLog struct {
	DocID string
	Line  int
}

// String renders the log entry for inclusion in a panic message or error.
func (l LoadLog) String() string {
	if l.DocID == "" {
		return "<no document loading>"
	}

	return fmt.Sprintf("loading %s line %d", l.DocID, l.Line)
}

// Controller is the documents controller: it owns a [Loader] registry, a
// [TypedIndex] over the data blocks those loaders' documents contain, and
// a [Defaults] record scoped per document.
//
// A Controller is not safe for concurrent mutation by multiple goroutines
// — unlike the teacher library this was adapted from, no internal lock
// protects Add/AddFrom, since this library never mutates a document and
// has no multi-writer durability requirement to guard against.
type Controller[K comparable] struct {
	traits  KeyTraits[K]
	loaders []Loader[K]
	index   *TypedIndex[K, blockLocator[K]]

	// Defaults holds reserved-key fallbacks consulted (and, during Add,
	// mutated) by a [Loader]'s GetDocStruct. Add scopes this to the
	// document under construction; see [Defaults.Scope]. Each registered
	// [Loader] (commonly a [GrammarLoader]) carries its own
	// [GrammarConfig] — this is only the shared fallback state, not the
	// grammar itself, since different loaders may legitimately scan
	// different document dialects.
	Defaults *Defaults

	// Logger receives warnings the original library logs at WARN_LOG: a
	// lenient parse skipping a bad row. Defaults to a discarding logger.
	Logger *log.Logger

	// LastLoad records the (document, line) most recently handed to a
	// caller-supplied callback, for enriching panic messages. Only
	// [Load] and [GetLatest] set it, once per row; Add does not touch it.
	LastLoad LoadLog
}

// GrammarConfig controls how a [Controller]'s loaders scan documents: which
// byte starts a comment or a metadata assignment, which metadata key names
// the validity range and the data type, and what a document with no
// explicit range declares by default.
type GrammarConfig struct {
	// CommentPrefix marks the start of a comment; everything from this
	// byte to the end of a line is stripped before classification. Zero
	// disables comment recognition entirely — no byte value appears in
	// ordinary document text, so a zero CommentPrefix never matches.
	CommentPrefix byte

	// Delimiter splits a data row into fields and a metadata line into
	// "key=value" assignments.
	Delimiter byte

	// MetadataSeparator splits one "key=value" assignment; a line
	// containing it is never treated as a data row. Zero disables
	// metadata recognition entirely — every line is then a data row.
	MetadataSeparator byte

	// RangeKey is the metadata key naming a block's validity range.
	// Defaults to "runs".
	RangeKey string

	// TypeKey is the metadata key naming a block's data type. Defaults
	// to "type".
	TypeKey string

	// ColumnsKey is the metadata key naming a block's declared columns.
	// Defaults to "columns".
	ColumnsKey string

	// SingleBlockMode, when true, gives each block that has no explicit
	// range metadata (and no default range — see [Defaults]) a fully-open
	// range valid for every key, rather than an error. Blocks are not
	// merged: a document whose rows are split by metadata lines still
	// yields one block per run of rows. This must be opted into
	// explicitly: it is not inferred from document content.
	SingleBlockMode bool
}

// DefaultGrammar is the library's reference [GrammarConfig]: '#' comments,
// ',' delimiter, '=' metadata separator, "runs"/"type"/"columns" reserved
// keys, multi-block mode.
func DefaultGrammar() GrammarConfig {
	return GrammarConfig{
		CommentPrefix:     '#',
		Delimiter:         ',',
		MetadataSeparator: '=',
		RangeKey:          "runs",
		TypeKey:           "type",
		ColumnsKey:        "columns",
	}
}

// NewController returns a Controller using traits for key comparisons.
func NewController[K comparable](traits KeyTraits[K]) *Controller[K] {
	return &Controller[K]{
		traits:   traits,
		index:    NewTypedIndex[K, blockLocator[K]](traits),
		Defaults: NewDefaults(),
		Logger:   log.New(io.Discard, "", 0),
	}
}

// AddLoader registers l. [Controller.Add] tries registered loaders in
// registration order, using the first whose CanHandle(docID) is true.
func (c *Controller[K]) AddLoader(l Loader[K]) {
	c.loaders = append(c.loaders, l)
}

func (c *Controller[K]) findLoader(docID string) Loader[K] {
	for _, l := range c.loaders {
		if l.CanHandle(docID) {
			return l
		}
	}

	return nil
}

func (c *Controller[K]) loaderByName(name string) Loader[K] {
	for _, l := range c.loaders {
		if l.Name() == name {
			return l
		}
	}

	return nil
}

// Add scans the document identified by docID using the first registered
// loader whose CanHandle(docID) is true, splitting it into [BlockStruct]s
// and inserting one typed index entry per block. It returns [ErrNoLoader]
// if no registered loader can handle docID.
//
// The document's metadata mutations to c.Defaults (a block inheriting its
// "type" from an earlier block in the same document) are discarded once Add
// returns, success or failure, so they never leak into the next document —
// see [Defaults.Scope].
func (c *Controller[K]) Add(docID string) error {
	l := c.findLoader(docID)
	if l == nil {
		return fmt.Errorf("%w: no loader can handle %q", ErrNoLoader, docID)
	}

	restore := c.Defaults.Scope()
	defer restore()

	structs, err := l.GetDocStruct(docID, c.Defaults)
	if err != nil {
		return err
	}

	for _, b := range structs {
		ref := blockLocator[K]{loader: l, docID: docID, block: b}
		if err := c.index.AddEntry(b.Type, b.Validity, ref); err != nil {
			return withParseContext(err, docID, b.Line)
		}
	}

	return nil
}

// AddFrom adds every document in docIDs, stopping at the first error.
// Discovering the set of docIDs (directory walks, glob filters) is the
// caller's responsibility.
func (c *Controller[K]) AddFrom(docIDs []string) error {
	for _, id := range docIDs {
		if err := c.Add(id); err != nil {
			return err
		}
	}

	return nil
}

func (c *Controller[K]) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// BlockRef is an exported, serializable view of one indexed block, used by
// [github.com/sdc-go/sdc/pkg/sdc/sqliteindex] to snapshot and restore a
// Controller's structure without re-scanning every document. It carries no
// row data: rows are always (re)read live through the owning [Loader].
type BlockRef[K comparable] struct {
	LoaderName string
	DocID      string
	Type       string
	Line       int
	Validity   Range[K]
	Columns    []string
}

// Blocks returns every block currently indexed, across every data type, in
// no particular cross-type order.
func (c *Controller[K]) Blocks() []BlockRef[K] {
	var out []BlockRef[K]

	for _, typ := range c.index.Types() {
		for _, e := range c.index.All(typ) {
			out = append(out, BlockRef[K]{
				LoaderName: e.Aux.loader.Name(),
				DocID:      e.Aux.docID,
				Type:       typ,
				Line:       e.Aux.block.Line,
				Validity:   e.Aux.block.Validity,
				Columns:    e.Aux.block.Columns.Names(),
			})
		}
	}

	return out
}

// RestoreBlocks re-indexes a set of previously [Controller.Blocks]-captured
// blocks without re-scanning any document, the counterpart
// [github.com/sdc-go/sdc/pkg/sdc/sqliteindex] uses to warm-start a
// Controller from a snapshot. Every ref's LoaderName must already be
// registered via [Controller.AddLoader] — rows are read from the live
// loader on demand, not from the snapshot.
func (c *Controller[K]) RestoreBlocks(refs []BlockRef[K]) error {
	for _, r := range refs {
		l := c.loaderByName(r.LoaderName)
		if l == nil {
			return fmt.Errorf("%w: %q", ErrNoLoader, r.LoaderName)
		}

		ref := blockLocator[K]{
			loader: l,
			docID:  r.DocID,
			block: BlockStruct[K]{
				Line:     r.Line,
				Type:     r.Type,
				Validity: r.Validity,
				Columns:  NewColumnsOrder(r.Columns),
				Meta:     NewMetaInfo(),
			},
		}

		if err := c.index.AddEntry(r.Type, r.Validity, ref); err != nil {
			return withParseContext(err, r.DocID, r.Line)
		}
	}

	return nil
}

// DumpJSON renders every indexed block's type, location, and validity range
// as a diagnostic JSON array, the Go analogue of the original library's
// Documents::dump_to_json.
func (c *Controller[K]) DumpJSON() ([]byte, error) {
	type blockDump struct {
		Type      string   `json:"type"`
		DocID     string   `json:"doc_id"`
		Line      int      `json:"line"`
		ValidFrom any      `json:"valid_from"`
		ValidTo   any      `json:"valid_to"`
		Columns   []string `json:"columns"`
	}

	var dump []blockDump

	for _, typ := range c.index.Types() {
		for _, e := range c.index.All(typ) {
			dump = append(dump, blockDump{
				Type:      typ,
				DocID:     e.Aux.docID,
				Line:      e.Aux.block.Line,
				ValidFrom: e.Aux.block.Validity.From,
				ValidTo:   e.Aux.block.Validity.To,
				Columns:   e.Aux.block.Columns.Names(),
			})
		}
	}

	return jsonMarshal(dump)
}
