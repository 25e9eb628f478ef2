// Package adapter contains filesystem and external-capability adapters for
// the remix CLI.
package adapter

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	m "github.com/mouse-blink/remix/internal/model"
)

// BundleFSAdapter abstracts the filesystem operations the domain layer needs
// when reading a source bundle and writing the variant output. It hides
// direct `os` access so the dispatch logic can be tested without touching
// the disk.
type BundleFSAdapter interface {
	// ListDir returns the direct entries of root. Subdirectories are not
	// descended into; the dispatcher is explicitly non-recursive.
	ListDir(root m.Path) ([]fs.DirEntry, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content atomically: the full buffer lands under a
	// temporary name and is renamed into place, so a partially-written
	// output file is never observable.
	WriteFile(path m.Path, content []byte) error

	// CopyFile copies src to dst byte for byte, with the same atomicity
	// guarantee as WriteFile.
	CopyFile(src, dst m.Path) error

	// FileInfo returns metadata for a path so the domain can check existence
	// or distinguish files from directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalBundleFSAdapter is the concrete implementation backed by the os
// package.
type LocalBundleFSAdapter struct{}

// NewLocalBundleFSAdapter constructs a LocalBundleFSAdapter ready to be
// wired into the pipeline.
func NewLocalBundleFSAdapter() *LocalBundleFSAdapter {
	return &LocalBundleFSAdapter{}
}

// ListDir returns the direct entries of root without descending.
func (a *LocalBundleFSAdapter) ListDir(root m.Path) ([]fs.DirEntry, error) {
	return os.ReadDir(string(root))
}

// ReadFile loads file contents from disk.
func (a *LocalBundleFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes the buffer to path via write-to-temp-and-rename.
func (a *LocalBundleFSAdapter) WriteFile(path m.Path, content []byte) error {
	return atomic.WriteFile(string(path), bytes.NewReader(content))
}

// CopyFile copies src to dst byte for byte.
func (a *LocalBundleFSAdapter) CopyFile(src, dst m.Path) error {
	content, err := os.ReadFile(string(src))
	if err != nil {
		return err
	}

	return atomic.WriteFile(string(dst), bytes.NewReader(content))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalBundleFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// RemoveAll removes a directory and all its contents.
func (a *LocalBundleFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// MkdirAll creates the directory and any missing parents.
func (a *LocalBundleFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// JoinPath joins path elements into a single path.
func (a *LocalBundleFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
