package fs

import (
	"os"
)

// Real implements [FS] using the real filesystem.
//
// All methods are pure passthroughs to the [os] package with identical
// behavior and error semantics. The only exception is [Real.Exists] which
// wraps [os.Stat].
type Real struct{}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{}
}

// A passthrough wrapper for [os.Open].
func (r *Real) Open(path string) (File, error) {
	return os.Open(path)
}

// A passthrough wrapper for [os.ReadFile].
func (r *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// A passthrough wrapper for [os.ReadDir].
func (r *Real) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// A passthrough wrapper for [os.Stat].
func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists checks if a file exists using [os.Stat].
// Returns (true, nil) if the file exists, (false, nil) if it does not,
// or (false, err) for other errors.
func (r *Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
