// Package fs provides a read-only filesystem abstraction for calibration
// document loaders, so loaders can be tested against an in-memory
// filesystem instead of the real one.
//
// The main types are:
//   - [FS]: interface for read-only filesystem operations
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] package
//
// Example usage:
//
//	fsys := fs.NewReal()
//	f, err := fsys.Open("calib/run100.csv")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	// Works with all stdlib io functions:
//	data, _ := io.ReadAll(f)
package fs

import (
	"io"
	"os"
)

// File represents an OS-backed open file descriptor.
//
// This interface is satisfied by [os.File] and can be used with all
// standard library functions that accept [io.Reader], [io.Seeker], or
// [io.Closer].
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// Example:
//
//	fsys := fs.NewReal()
//	f, _ := fsys.Open("data.txt")
//	defer f.Close()
//
//	// Use with bufio
//	scanner := bufio.NewScanner(f)
type File interface {
	io.ReadCloser
	io.Seeker

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the read-only filesystem operations a loader needs to open and
// inspect calibration documents.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with an in-memory filesystem.
//
// Paths use OS semantics (like the os package and path/filepath), not the
// slash-separated paths used by the standard library io/fs package.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type FS interface {
	// Open opens a file for reading. See [os.Open].
	// The returned [File] can be used with [bufio], [io], and other stdlib packages.
	Open(path string) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	// For large files, prefer [FS.Open] with streaming reads.
	ReadFile(path string) ([]byte, error)

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	// Entries are sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// Stat returns file info. See [os.Stat].
	// Returns [os.ErrNotExist] if file doesn't exist.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) for other errors.
	Exists(path string) (bool, error)
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
