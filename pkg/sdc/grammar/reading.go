package grammar

// Reading is a [State] that streams a single block's data rows to RowFn,
// the second pass of the original library's preparsing/parsing split:
// [Indexing] already located the block (StartLine); Reading reopens the
// document and replays it, ignoring every line before StartLine and
// stopping once the block ends, rather than materializing the whole
// document up front.
type Reading struct {
	// StartLine is the line the block's first data row was reported on
	// by the earlier [Indexing] pass.
	StartLine int

	// RowFn is called for every row of the block, in order, including
	// the first. Returning an error stops the read.
	RowFn func(line int, fields []string) error

	started bool
	done    bool
}

func (r *Reading) HandleComment(line int, text string) error {
	return nil
}

func (r *Reading) HandleMetadata(line int, pairs []KV) error {
	if r.started {
		r.done = true
	}

	return nil
}

func (r *Reading) HandleCSVStart(line int, fields []string) error {
	if r.done {
		return nil
	}

	if line < r.StartLine {
		return nil
	}

	if r.started {
		// A later block's first row: ours already ended.
		r.done = true
		return nil
	}

	r.started = true
	return r.RowFn(line, fields)
}

func (r *Reading) HandleCSV(line int, fields []string) error {
	if !r.started || r.done {
		return nil
	}

	return r.RowFn(line, fields)
}

var _ State = (*Reading)(nil)
