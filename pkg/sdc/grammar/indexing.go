package grammar

// BlockSummary describes one data block without retaining most of its
// rows: the line its first data row starts on, that first row's fields,
// and how many rows follow that first row (RowCount excludes the first
// row, which is carried in Header). [Indexing] produces one BlockSummary per
// block, the cheap first pass the original library's PreparsingState
// performed before a block's data was actually needed — column names and
// the validity range live in metadata (the "columns"/"runs"/"type" keys),
// not in this summary.
type BlockSummary struct {
	Line     int
	Header   []string
	RowCount int
}

// Indexing is a [State] that records metadata lines and block boundaries,
// retaining only each block's first row (as [BlockSummary.Header]) and a
// count of the rest, for callers (like a SQLite index snapshot) that only
// need to know a block exists and where, not its contents.
type Indexing struct {
	// OnMetadata is invoked for every metadata line, with every
	// "key=value" assignment it packs.
	OnMetadata func(line int, pairs []KV) error

	// OnBlock is invoked once a block ends: at the next metadata line,
	// or via [Indexing.Flush] at end of input.
	OnBlock func(b BlockSummary) error

	current *BlockSummary
}

func (ix *Indexing) HandleComment(line int, text string) error {
	return nil
}

func (ix *Indexing) HandleMetadata(line int, pairs []KV) error {
	if err := ix.flush(); err != nil {
		return err
	}

	if ix.OnMetadata != nil {
		return ix.OnMetadata(line, pairs)
	}

	return nil
}

func (ix *Indexing) HandleCSVStart(line int, fields []string) error {
	if err := ix.flush(); err != nil {
		return err
	}

	ix.current = &BlockSummary{Line: line, Header: fields}
	return nil
}

func (ix *Indexing) HandleCSV(line int, fields []string) error {
	if ix.current != nil {
		ix.current.RowCount++
	}

	return nil
}

// Flush emits the in-progress block, if any. Callers must call Flush after
// [Engine.Run] returns to report the document's final block, since the
// engine has no synthetic "end of input" event.
func (ix *Indexing) Flush() error {
	return ix.flush()
}

func (ix *Indexing) flush() error {
	if ix.current == nil {
		return nil
	}

	b := *ix.current
	ix.current = nil

	if ix.OnBlock != nil {
		return ix.OnBlock(b)
	}

	return nil
}

var _ State = (*Indexing)(nil)
