package sdc

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Use [errors.Is] to test for them; depending on where the
// failure originated they are wrapped by [ParseError] or by fmt.Errorf's
// %w. [LoaderAPIError] wraps no sentinel.
var (
	ErrUnknownType            = errors.New("sdc: unknown data type")
	ErrNoData                 = errors.New("sdc: no calibration data for key")
	ErrMissingColumn          = errors.New("sdc: no column defined for table")
	ErrNoLoader               = errors.New("sdc: no loader registered for document")
	ErrNoMetadataEntry        = errors.New("sdc: no metadata entry in document")
	ErrNoCurrentMetadataEntry = errors.New("sdc: no current metadata entry")
	ErrNoValidityRange        = errors.New("sdc: no validity range set")
	ErrNoDataType             = errors.New("sdc: no data type defined")
	ErrAliasConflict          = errors.New("sdc: alias already bound to a different canonical name")

	// ErrOverlappingRanges is reserved for callers that install an
	// [Index.OverlapPolicy]. The core index never returns it on its own.
	ErrOverlappingRanges = errors.New("sdc: overlapping validity ranges")
)

// ParseError reports a problem with the content of a calibration document:
// a malformed line, an unparsable literal, a column that was promised by a
// header but never filled in.
//
// Use [errors.As] to recover the offending document and line:
//
//	var pErr *sdc.ParseError
//	if errors.As(err, &pErr) {
//	    log.Printf("bad data in %s line %d: %v", pErr.DocID, pErr.Line, pErr.Err)
//	}
type ParseError struct {
	// DocID identifies the document being parsed when the error occurred.
	DocID string

	// Line is the 1-based line number within the document, or 0 if the
	// error is not attributable to a single line.
	Line int

	// Token is the offending token or field name, if any.
	Token string

	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder

	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("parse error")
	}

	suffix := e.suffix()
	if suffix != "" {
		b.WriteByte(' ')
		b.WriteString(suffix)
	}

	return b.String()
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func (e *ParseError) suffix() string {
	var parts []string

	if e.DocID != "" {
		parts = append(parts, "doc_id="+e.DocID)
	}

	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line=%d", e.Line))
	}

	if e.Token != "" {
		parts = append(parts, "token="+e.Token)
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// withParseContext attaches document/line context to err. If err is already
// a *ParseError, missing fields are filled in-place.
func withParseContext(err error, docID string, line int) error {
	if err == nil {
		return nil
	}

	existing := &ParseError{}
	if errors.As(err, &existing) {
		if existing.DocID == "" && docID != "" {
			existing.DocID = docID
		}

		if existing.Line == 0 && line != 0 {
			existing.Line = line
		}

		return existing
	}

	return &ParseError{DocID: docID, Line: line, Err: err}
}

// LoaderAPIError reports a violation of the [Loader] contract by a registered
// loader implementation: returning a malformed iterator, an ID that doesn't
// match what was requested, and similar programmer errors.
type LoaderAPIError struct {
	// Loader names the loader that violated its contract.
	Loader string

	// DocID is the document the loader was asked to handle, if known.
	DocID string

	// Detail describes what went wrong.
	Detail string
}

func (e *LoaderAPIError) Error() string {
	if e == nil {
		return ""
	}

	msg := fmt.Sprintf("sdc: loader %q: %s", e.Loader, e.Detail)

	if e.DocID != "" {
		msg += " (doc_id=" + e.DocID + ")"
	}

	return msg
}

// IOError reports a failure reading or opening a calibration document that
// originated outside the parser: a missing file, a permission error, a
// broken pipe.
type IOError struct {
	DocID  string
	Detail string
	Err    error
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}

	cause := ""
	if e.Err != nil {
		cause = e.Err.Error()
	}

	msg := e.Detail
	if cause != "" {
		if msg != "" {
			msg += ": "
		}

		msg += cause
	}

	if e.DocID != "" {
		msg += " (doc_id=" + e.DocID + ")"
	}

	return msg
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}
