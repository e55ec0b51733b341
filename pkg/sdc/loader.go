package sdc

// BlockStruct describes one data block's location and declared structure —
// its type, validity range, declared columns, and metadata environment —
// discovered by a [Loader.GetDocStruct] call. It carries no row data:
// materializing rows is [Loader.ReadData]'s job, performed lazily by
// [Load]/[GetLatest] only for the blocks a query actually needs.
type BlockStruct[K comparable] struct {
	// Line is the 1-based line number of the block's first data row —
	// the offset [Loader.ReadData] must be given to stream this block.
	Line int

	// Type names the calibration data type this block declares, the key
	// [RecordType.Name] is matched against.
	Type string

	// Validity is this block's validity range.
	Validity Range[K]

	// Columns is the column directory this block declares (via the
	// "columns" metadata key).
	Columns ColumnsOrder

	// Meta is the metadata environment as of this block: every metadata
	// assignment that appeared at or before Line.
	Meta *MetaInfo
}

// Loader is the contract a caller implements to hand raw calibration
// documents to a [Controller]. Discovering which document IDs exist
// (directory walks, glob filters) is explicitly not this interface's job —
// that stays the caller's responsibility; a Loader only opens IDs it is
// handed.
//
// [GrammarLoader] is the reference implementation, driving the grammar
// subpackage's [Indexing]/[Reading] two-pass split over any [DocSource];
// most callers use it rather than implementing Loader directly.
type Loader[K comparable] interface {
	// Name identifies this loader in diagnostics and [LoaderAPIError].
	Name() string

	// CanHandle reports whether this loader recognizes docID.
	// [Controller.Add] uses the first registered loader that returns
	// true, rather than requiring the caller to name a loader explicitly.
	CanHandle(docID string) bool

	// GetDocStruct performs the cheap indexing pass over docID: every
	// block's location, declared type, validity range, and columns,
	// without reading any data row. defaults supplies, and may be
	// updated with, reserved-key fallbacks (see [Defaults]) inherited
	// across blocks within docID.
	GetDocStruct(docID string, defaults *Defaults) ([]BlockStruct[K], error)

	// ReadData performs the second, reread pass for one block: it
	// streams every data row starting at startLine, in order, to rowFn,
	// until the block ends. rowFn's error, if any, stops the read and is
	// returned.
	ReadData(docID string, startLine int, rowFn func(lineNo int, fields []string) error) error
}
