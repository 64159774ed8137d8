package snapshot

import (
	"fmt"
	"sort"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/repo/store/file"
)

// Snapshot is an immutable, numbered record of the tracked file set.
// ID and Files are authoritative; CreatedAt and Digest are informational.
type Snapshot struct {
	ID        uint64           `json:"id"`
	Files     file.PathMapping `json:"files"`
	CreatedAt time.Time        `json:"created_at"`
	Digest    string           `json:"digest,omitempty"`
}

// SnapshotContext handles the snapshot index and per-snapshot descriptors.
type SnapshotContext struct {
	IndexPath    string // .ftt/index.json
	SnapshotsDir string // .ftt/snapshots
	FS           fs.FS
}

// NewSnapshotContext creates a new SnapshotContext.
func NewSnapshotContext(indexPath, snapshotsDir string, fsys fs.FS) *SnapshotContext {
	return &SnapshotContext{IndexPath: indexPath, SnapshotsDir: snapshotsDir, FS: fsys}
}

// Digest generates a stable hash of a mapping's paths and fingerprints. Equal
// mappings always share a digest, so it short-cuts full comparisons.
func Digest(m file.PathMapping) string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	data := make([]byte, 0, len(paths)*(file.FingerprintLen+32))
	for _, p := range paths {
		data = append(data, p...)
		data = append(data, 0)
		data = append(data, m[p]...)
		data = append(data, '\n')
	}

	return fmt.Sprintf("%x", xxh3.Hash128(data).Bytes())
}

// DigestOK reports whether the stored digest still matches the files. Snapshots
// written without a digest are accepted.
func (s Snapshot) DigestOK() bool {
	return s.Digest == "" || s.Digest == Digest(s.Files)
}
