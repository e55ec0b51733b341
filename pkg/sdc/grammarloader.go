package sdc

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/sdc-go/sdc/pkg/sdc/grammar"
)

// errReservedKeyDisabled marks a reserved metadata key as deliberately
// disabled by an empty [GrammarConfig] key name; it never escapes
// buildBlockStruct as a caller-visible error.
var errReservedKeyDisabled = errors.New("sdc: reserved key disabled")

// DocSource supplies raw document bytes to a [GrammarLoader]. Implemented
// by [github.com/sdc-go/sdc/pkg/sdc/fileloader.Loader] for the real
// filesystem, and trivially by an in-memory fixture in tests.
type DocSource interface {
	// Name identifies this source in diagnostics.
	Name() string

	// CanHandle reports whether this source recognizes docID.
	CanHandle(docID string) bool

	// Open returns the raw content of the document identified by docID.
	// The caller must Close the returned reader.
	Open(docID string) (io.ReadCloser, error)
}

// GrammarLoader is the reference [Loader] implementation: it drives the
// grammar subpackage's two-pass [grammar.Indexing]/[grammar.Reading] split
// over any [DocSource], so a caller only has to implement the narrow
// byte-supplying contract rather than re-implement document scanning.
type GrammarLoader[K comparable] struct {
	Source  DocSource
	Traits  KeyTraits[K]
	Grammar GrammarConfig
}

// NewGrammarLoader returns a GrammarLoader reading from src. A zero-value g
// is not ready to use: an empty byte or key name disables the recognition
// it governs (see [GrammarConfig]) rather than falling back to a default,
// so callers wanting the reference grammar must start from [DefaultGrammar]
// and override only the fields they need to customize.
func NewGrammarLoader[K comparable](src DocSource, traits KeyTraits[K], g GrammarConfig) *GrammarLoader[K] {
	return &GrammarLoader[K]{Source: src, Traits: traits, Grammar: g}
}

// Name implements [Loader].
func (l *GrammarLoader[K]) Name() string { return l.Source.Name() }

// CanHandle implements [Loader].
func (l *GrammarLoader[K]) CanHandle(docID string) bool { return l.Source.CanHandle(docID) }

func (l *GrammarLoader[K]) engine() *grammar.Engine {
	return grammar.NewEngine(grammar.Grammar{
		CommentPrefix:     l.Grammar.CommentPrefix,
		Delimiter:         l.Grammar.Delimiter,
		MetadataSeparator: l.Grammar.MetadataSeparator,
	})
}

// GetDocStruct implements [Loader] by running the grammar engine's
// [grammar.Indexing] pass: every block is reported once, with the metadata
// environment as it stood at the block's own header, never materializing a
// data row.
func (l *GrammarLoader[K]) GetDocStruct(docID string, defaults *Defaults) ([]BlockStruct[K], error) {
	rc, err := l.Source.Open(docID)
	if err != nil {
		return nil, &IOError{DocID: docID, Detail: "open", Err: err}
	}
	defer rc.Close()

	meta := NewMetaInfo()

	var structs []BlockStruct[K]

	ix := &grammar.Indexing{
		OnMetadata: func(line int, pairs []grammar.KV) error {
			for _, kv := range pairs {
				meta.Set(kv.Key, line, kv.Value)

				if l.Grammar.TypeKey != "" && kv.Key == l.Grammar.TypeKey {
					defaults.Set(reservedKeyType, kv.Value)
				}
			}

			return nil
		},
		OnBlock: func(b grammar.BlockSummary) error {
			bs, err := l.buildBlockStruct(docID, b.Line, meta, defaults)
			if err != nil {
				return err
			}

			structs = append(structs, bs)
			return nil
		},
	}

	if err := l.engine().Run(rc, ix); err != nil {
		return nil, err
	}

	if err := ix.Flush(); err != nil {
		return nil, err
	}

	return structs, nil
}

// The canonical names [Defaults] is keyed by, independent of whatever
// metadata key names a loader's [GrammarConfig] recognizes in document
// text. A document declaring its type under a custom TypeKey still updates
// the same canonical default, so later blocks (in this or, via an explicit
// [Defaults.Set], any document) inherit it the same way regardless of which
// GrammarConfig scanned them.
const (
	reservedKeyType    = "type"
	reservedKeyRuns    = "runs"
	reservedKeyColumns = "columns"
)

func (l *GrammarLoader[K]) buildBlockStruct(docID string, line int, meta *MetaInfo, defaults *Defaults) (BlockStruct[K], error) {
	typeName, err := l.lookupMeta(meta, l.Grammar.TypeKey)
	if err != nil {
		fallback, ok := defaults.Get(reservedKeyType)
		if !ok {
			return BlockStruct[K]{}, withParseContext(ErrNoDataType, docID, line)
		}

		typeName = fallback
	}

	validity, err := l.lookupValidity(meta, defaults, docID, line)
	if err != nil {
		return BlockStruct[K]{}, err
	}

	var columns ColumnsOrder
	if colsRaw, err := l.lookupMeta(meta, l.Grammar.ColumnsKey); err == nil {
		columns = NewColumnsOrder(splitTrim(colsRaw, l.Grammar.Delimiter))
	}

	return BlockStruct[K]{
		Line:     line,
		Type:     typeName,
		Validity: validity,
		Columns:  columns,
		Meta:     meta.Clone(),
	}, nil
}

// lookupMeta reads key's most recent value, or returns an error if key is
// empty (the configurable grammar's way of disabling that reserved key —
// see [GrammarConfig]) or unset in meta.
func (l *GrammarLoader[K]) lookupMeta(meta *MetaInfo, key string) (string, error) {
	if key == "" {
		return "", errReservedKeyDisabled
	}

	v, _, err := meta.GetRaw(key, 0)
	return v, err
}

// lookupValidity resolves a block's validity range: first from the
// document's own metadata, then from an explicit default range recorded on
// defaults (satisfying a customized grammar with no range key at all, as
// long as the caller supplied one), then from [GrammarConfig.SingleBlockMode],
// and finally [ErrNoValidityRange].
func (l *GrammarLoader[K]) lookupValidity(meta *MetaInfo, defaults *Defaults, docID string, line int) (Range[K], error) {
	if l.Grammar.RangeKey != "" {
		if raw, runsLine, err := meta.GetRaw(l.Grammar.RangeKey, 0); err == nil {
			validity, err := LexRange(raw, l.Traits)
			if err != nil {
				return Range[K]{}, withParseContext(err, docID, runsLine)
			}

			return validity, nil
		}
	}

	if raw, ok := defaults.Get(reservedKeyRuns); ok {
		validity, err := LexRange(raw, l.Traits)
		if err != nil {
			return Range[K]{}, withParseContext(err, docID, line)
		}

		return validity, nil
	}

	if l.Grammar.SingleBlockMode {
		return Range[K]{From: l.Traits.Unset, To: l.Traits.Unset}, nil
	}

	return Range[K]{}, withParseContext(ErrNoValidityRange, docID, line)
}

// ReadData implements [Loader] by reopening docID and running the grammar
// engine's [grammar.Reading] pass, which replays every line but only
// streams the rows of the block starting at startLine.
func (l *GrammarLoader[K]) ReadData(docID string, startLine int, rowFn func(lineNo int, fields []string) error) error {
	rc, err := l.Source.Open(docID)
	if err != nil {
		return &IOError{DocID: docID, Detail: "open", Err: err}
	}
	defer rc.Close()

	reading := &grammar.Reading{StartLine: startLine, RowFn: rowFn}
	return l.engine().Run(rc, reading)
}

func splitTrim(s string, sep byte) []string {
	parts := strings.Split(s, string(sep))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return parts
}

var _ Loader[int64] = (*GrammarLoader[int64])(nil)

func formatLine(n int) string {
	return strconv.Itoa(n)
}
