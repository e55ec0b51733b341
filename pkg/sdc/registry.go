package sdc

const metaKeyDocID = "@docID"
const metaKeyLineNo = "@lineNo"

// RecordType describes how to turn raw data rows into a caller-defined
// record type T. Callers register one RecordType per shape of calibration
// data they expect to find in a document (e.g. one per calibration table).
//
// Go forbids methods from introducing their own type parameters, so the
// original library's member-template load<T>()/get_latest<T>() become the
// free functions [Load] and [GetLatest], both taking a RecordType[T]
// explicitly.
type RecordType[T any] struct {
	// Name identifies this record type in diagnostics, and is the type
	// name matched against a block's "type" metadata key.
	Name string

	// ParseRow converts one raw data row into a T, given the column
	// directory declared by the row's block and that row's metadata
	// environment (carrying, among any other keys, the synthetic
	// "@docID"/"@lineNo" keys — see [MetaGet]). Returning an error fails
	// the whole [Load]/[GetLatest] call unless lenient mode is in
	// effect, in which case the offending row is skipped.
	ParseRow func(cols ColumnsOrder, fields []string, meta *MetaInfo) (T, error)

	// Collect folds one freshly parsed, sourced item into the collection
	// built up so far. The default (nil) behavior is a plain append —
	// set Collect to implement field-level overlay semantics, where a
	// later block's item replaces only the fields it actually sets on an
	// earlier block's item for the same logical record, rather than
	// appending a wholly separate item.
	Collect func(collection []Sourced[T], item Sourced[T], meta *MetaInfo) []Sourced[T]
}

func (rt RecordType[T]) collect(collection []Sourced[T], item Sourced[T], meta *MetaInfo) []Sourced[T] {
	if rt.Collect != nil {
		return rt.Collect(collection, item, meta)
	}

	return append(collection, item)
}

// Sourced pairs a value with the document and line it came from, the Go
// analogue of the original library's SrcInfo<T> wrapper.
type Sourced[T any] struct {
	Value T
	DocID string
	Line  int
}

// WithSource wraps v with its originating document and line.
func WithSource[T any](v T, docID string, line int) Sourced[T] {
	return Sourced[T]{Value: v, DocID: docID, Line: line}
}

// Collection is the result of [Load]: every row from every data block
// contributing to the requested validity key, in overlay order (blocks in
// ascending Range.From, insertion order breaking ties — see
// [Index.Updates] — subject to [RecordType.Collect]).
type Collection[T any] struct {
	Items []Sourced[T]
}

// Values strips source information, returning just the parsed records.
func (c Collection[T]) Values() []T {
	out := make([]T, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Value
	}

	return out
}

// readBlockInto streams loc's rows, parses each with rt, injects the
// synthetic "@docID"/"@lineNo" metadata keys per row, and folds each
// resulting item into collection via rt.collect. It is the shared core of
// [Load] and [GetLatest]: lazily materializing exactly the rows a query
// needs, never more.
func readBlockInto[K comparable, T any](c *Controller[K], rt RecordType[T], loc blockLocator[K], lenient bool, collection []Sourced[T]) ([]Sourced[T], error) {
	meta := loc.block.Meta
	if meta == nil {
		meta = NewMetaInfo()
	}

	// loc.block.Meta is shared across every call that reads this block (a
	// key may be queried, and the same block re-read, more than once); drop
	// any synthetic keys a prior read left behind before repopulating them,
	// so stale @docID/@lineNo history from an earlier pass never lingers.
	meta.Drop(metaKeyDocID)
	meta.Drop(metaKeyLineNo)

	meta.Set(metaKeyDocID, loc.block.Line, loc.docID)

	err := loc.loader.ReadData(loc.docID, loc.block.Line, func(lineNo int, fields []string) error {
		c.LastLoad = LoadLog{DocID: loc.docID, Line: lineNo}

		meta.Set(metaKeyLineNo, lineNo, formatLine(lineNo))

		v, err := rt.ParseRow(loc.block.Columns, fields, meta)
		if err != nil {
			err = withParseContext(err, loc.docID, lineNo)
			if lenient {
				c.logf("sdc: skipping row: %v", err)
				return nil
			}

			return err
		}

		collection = rt.collect(collection, WithSource(v, loc.docID, lineNo), meta)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return collection, nil
}

// Load parses every data row from every block of type rt.Name valid at key
// into T using rt, overlaying blocks in ascending Range.From, with the
// order their documents were added breaking ties (see [Index.Updates]).
// If lenient is false, the first row that
// fails to parse aborts the call with a [ParseError]; if lenient is true,
// unparsable rows are skipped and recorded via the controller's Logger, and
// an unregistered type yields an empty [Collection] rather than
// [ErrUnknownType].
func Load[K comparable, T any](c *Controller[K], rt RecordType[T], key K, lenient bool) (Collection[T], error) {
	entries, err := c.index.Updates(rt.Name, key, lenient)
	if err != nil {
		return Collection[T]{}, err
	}

	var items []Sourced[T]

	for _, e := range entries {
		items, err = readBlockInto(c, rt, e.Aux, lenient, items)
		if err != nil {
			return Collection[T]{}, err
		}
	}

	return Collection[T]{Items: items}, nil
}

// GetLatest parses every data row from the single block of type rt.Name
// valid at key with the greatest Range.From, the most recently inserted
// one winning ties — see [Index.Latest] — into T using rt. It returns [ErrNoData] if no block is valid at key, and
// [ErrUnknownType] if rt.Name was never added.
func GetLatest[K comparable, T any](c *Controller[K], rt RecordType[T], key K, lenient bool) (Collection[T], error) {
	entry, ok, err := c.index.Latest(rt.Name, key)
	if err != nil {
		return Collection[T]{}, err
	}

	if !ok {
		return Collection[T]{}, ErrNoData
	}

	items, err := readBlockInto(c, rt, entry.Aux, lenient, nil)
	if err != nil {
		return Collection[T]{}, err
	}

	return Collection[T]{Items: items}, nil
}
