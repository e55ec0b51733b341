// Package fileloader implements [sdc.DocSource] against the real filesystem
// (or any [fs.FS] fake), resolving a document ID to a path beneath a root
// directory; wrap it in an [sdc.GrammarLoader] to get an [sdc.Loader].
package fileloader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sdc-go/sdc/pkg/fs"
	"github.com/sdc-go/sdc/pkg/sdc"
)

// Loader opens calibration documents rooted at a base directory. A
// document ID is interpreted as a path relative to Root; this package does
// no discovery of which IDs exist — see the doc comment on [sdc.Loader]
// for why that stays the caller's job.
type Loader struct {
	// Root is the base directory document IDs are resolved against.
	Root string

	// FS backs all filesystem access. [New] sets it to [fs.NewReal]; Open
	// and ContentHash do not substitute a default when it is nil.
	FS fs.FS

	// name identifies this loader in diagnostics; see [Loader.Name].
	name string

	// Decorate, if set, wraps the opened file's reader before it is
	// handed to the grammar engine — the hook
	// [github.com/sdc-go/sdc/pkg/sdc/gzsource] uses to transparently
	// inflate compressed documents.
	Decorate func(io.Reader) (io.Reader, error)
}

// New returns a Loader named name, rooted at root, using the real
// filesystem.
func New(name, root string) *Loader {
	return &Loader{Root: root, FS: fs.NewReal(), name: name}
}

// Name implements [sdc.DocSource].
func (l *Loader) Name() string {
	if l.name == "" {
		return "fileloader"
	}

	return l.name
}

// CanHandle implements [sdc.DocSource]. A filesystem-rooted loader accepts
// every document ID handed to it — filtering IDs to ones that actually
// exist beneath Root is Open's job, not discovery's.
func (l *Loader) CanHandle(docID string) bool {
	return true
}

// Open implements [sdc.DocSource] by resolving docID against Root and opening
// it through FS.
func (l *Loader) Open(docID string) (io.ReadCloser, error) {
	path := filepath.Join(l.Root, docID)

	f, err := l.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fileloader: open %s: %w", path, err)
	}

	if l.Decorate == nil {
		return f, nil
	}

	decorated, err := l.Decorate(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fileloader: decorate %s: %w", path, err)
	}

	return &decoratedFile{Reader: decorated, closer: f}, nil
}

// decoratedFile pairs a decorated reader (e.g. a gzip reader) with the
// underlying [fs.File] that must actually be closed.
type decoratedFile struct {
	io.Reader
	closer io.Closer
}

func (d *decoratedFile) Close() error {
	return d.closer.Close()
}

// ContentHash computes a fast, non-cryptographic content fingerprint for
// docID, so a caller can detect a changed document even when filesystem
// mtime granularity is too coarse to notice. See
// [github.com/sdc-go/sdc/pkg/sdc/fileloader.Hasher] for the hash used.
func (l *Loader) ContentHash(docID string) (uint64, error) {
	path := filepath.Join(l.Root, docID)

	data, err := l.FS.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("fileloader: read %s: %w", path, err)
	}

	return Hasher(data), nil
}

var _ sdc.DocSource = (*Loader)(nil)
