package file

import "github.com/keshon/ftt/internal/fs"

// PathMapping maps a forward-slash path relative to the tracked root to the
// fingerprint of that file's content.
type PathMapping map[string]string

// Clone returns an independent copy of m.
func (m PathMapping) Clone() PathMapping {
	out := make(PathMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FingerprintCache lets Scan skip hashing files whose size and mtime are
// unchanged since they were last fingerprinted.
type FingerprintCache interface {
	Lookup(rel string, size, modTime int64) (string, bool)
	Store(rel string, size, modTime int64, fingerprint string) error
}

// FileContext wraps working-tree operations for one tracked root.
type FileContext struct {
	Root  string           // tracked root (absolute)
	FS    fs.FS            // filesystem abstraction
	Cache FingerprintCache // optional
}

// NewFileContext creates a new FileContext without a fingerprint cache.
func NewFileContext(root string, fsys fs.FS) *FileContext {
	return &FileContext{Root: root, FS: fsys}
}
