// Package grammar implements the line-oriented "extended CSV" scanner
// shared by every calibration document format this library understands:
// comment lines (with inline comments stripped from any line), metadata
// lines packing one or more "key=value" assignments separated by the field
// delimiter (e.g. "runs=100-500,type=T1,columns=b,c"), and data blocks whose
// rows are delimiter-separated fields.
//
// A value that itself contains the field delimiter (a column-name list, for
// instance) is supported by continuation: a comma-separated segment with no
// "=" of its own extends the previous key's value rather than starting a
// new pair, so "columns=b,c" reads as one key ("columns") with value "b,c".
//
// The engine itself knows nothing about validity keys or typed records —
// it only drives a [State] over successive lines. This package's two State
// implementations, [Indexing] and [Reading], turn that stream of callbacks
// into block summaries and streamed rows, respectively; package sdc drives
// both through its GrammarLoader.
package grammar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Grammar configures how raw lines are classified. The zero value is not
// ready to use; start from [DefaultGrammar].
type Grammar struct {
	// CommentPrefix marks the start of a comment. Everything from the
	// first CommentPrefix byte to the end of the line is stripped before
	// classification; a line that is comment from its first non-space
	// byte is reported via [State.HandleComment] instead of being
	// classified as metadata or data. Default '#'.
	CommentPrefix byte

	// Delimiter splits a data row into fields, and splits a metadata
	// line into its "key=value" assignments. Default ','.
	Delimiter byte

	// MetadataSeparator splits one "key=value" assignment. A line
	// containing at least one MetadataSeparator is classified as
	// metadata, never as a data row. Default '='.
	MetadataSeparator byte
}

// DefaultGrammar is the library's reference grammar: '#' comments,
// ',' delimiter, '=' metadata separator, multi-block mode.
func DefaultGrammar() Grammar {
	return Grammar{CommentPrefix: '#', Delimiter: ',', MetadataSeparator: '='}
}

// KV is one "key=value" assignment parsed from a metadata line.
type KV struct {
	Key   string
	Value string
}

// State receives callbacks from [Engine.Run] for every classified line.
// [Indexing] and [Reading] are this package's two implementations,
// mirroring the upstream library's preparsing/parsing state split:
// Indexing records block boundaries and metadata only; Reading also
// materializes each row's fields.
type State interface {
	// HandleComment is called for a whole-line comment, stripped of its
	// leading comment prefix and surrounding whitespace.
	HandleComment(line int, text string) error

	// HandleMetadata is called for a metadata line, with every
	// "key=value" assignment it packs.
	HandleMetadata(line int, pairs []KV) error

	// HandleCSVStart is called for the first data row of a new block.
	HandleCSVStart(line int, fields []string) error

	// HandleCSV is called for every data row following a block's first
	// row, until the next metadata line ends the block.
	HandleCSV(line int, fields []string) error
}

// Engine drives a [State] over a document's lines according to Grammar.
type Engine struct {
	Grammar Grammar
}

// NewEngine returns an Engine configured by g.
func NewEngine(g Grammar) *Engine {
	return &Engine{Grammar: g}
}

// Run scans r line by line, classifying each line and invoking the
// matching method on s. A data block is any maximal run of data rows; its
// first line is reported via HandleCSVStart, the rest via HandleCSV. Run
// stops and returns the first error any State method returns, or the
// scanner's own error.
func (e *Engine) Run(r io.Reader, s State) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	inBlock := false

	for scanner.Scan() {
		line++

		raw := scanner.Text()

		var commentText string
		hasComment := false

		if idx := strings.IndexByte(raw, e.Grammar.CommentPrefix); idx >= 0 {
			commentText = strings.TrimSpace(raw[idx+1:])
			hasComment = true
			raw = raw[:idx]
		}

		content := strings.TrimSpace(raw)
		if content == "" {
			if hasComment {
				if err := s.HandleComment(line, commentText); err != nil {
					return fmt.Errorf("grammar: line %d: %w", line, err)
				}
			}

			continue
		}

		if e.isMetadataLine(content) {
			pairs := e.splitMetadataPairs(content)
			if err := s.HandleMetadata(line, pairs); err != nil {
				return fmt.Errorf("grammar: line %d: %w", line, err)
			}

			inBlock = false
			continue
		}

		fields := e.splitFields(content)

		if !inBlock {
			if err := s.HandleCSVStart(line, fields); err != nil {
				return fmt.Errorf("grammar: line %d: %w", line, err)
			}

			inBlock = true
			continue
		}

		if err := s.HandleCSV(line, fields); err != nil {
			return fmt.Errorf("grammar: line %d: %w", line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("grammar: %w", err)
	}

	return nil
}

// isMetadataLine reports whether line contains at least one
// MetadataSeparator, the sole signal distinguishing a metadata line from a
// plain data row.
func (e *Engine) isMetadataLine(line string) bool {
	return strings.IndexByte(line, e.Grammar.MetadataSeparator) >= 0
}

// splitMetadataPairs parses a metadata line into its "key=value"
// assignments. A segment between delimiters with no separator of its own
// extends the previous assignment's value rather than starting a new one,
// so "columns=b,c" parses as a single KV{"columns", "b,c"}.
func (e *Engine) splitMetadataPairs(line string) []KV {
	segments := strings.Split(line, string(e.Grammar.Delimiter))

	var pairs []KV

	for _, seg := range segments {
		if i := strings.IndexByte(seg, e.Grammar.MetadataSeparator); i >= 0 {
			pairs = append(pairs, KV{
				Key:   strings.TrimSpace(seg[:i]),
				Value: strings.TrimSpace(seg[i+1:]),
			})

			continue
		}

		if len(pairs) == 0 {
			continue
		}

		last := &pairs[len(pairs)-1]
		last.Value = last.Value + string(e.Grammar.Delimiter) + strings.TrimSpace(seg)
	}

	return pairs
}

func (e *Engine) splitFields(line string) []string {
	parts := strings.Split(line, string(e.Grammar.Delimiter))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return parts
}
