// Package model defines the data structures for the variant build pipeline.
package model

// Path represents a file system path.
type Path string

// EntryKind represents the classification of a direct source-root entry.
type EntryKind string

const (
	// KindScript represents a rewritable script file (*.js, excluding the
	// bundle config script).
	KindScript EntryKind = "script"
	// KindBinaryModule represents a compiled native module handled by the
	// header patcher rather than the dispatcher.
	KindBinaryModule EntryKind = "binary"
	// KindMetadata represents the bundle config script and the package
	// descriptor, both owned by external collaborators.
	KindMetadata EntryKind = "metadata"
	// KindAsset represents every other file, copied verbatim.
	KindAsset EntryKind = "asset"
)

// SourceEntry is one direct entry of the source root, classified at scan
// time. Entries are immutable and consumed exactly once per run.
type SourceEntry struct {
	RelPath Path
	Kind    EntryKind
	Size    int64
	IsDir   bool
}
