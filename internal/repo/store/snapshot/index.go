package snapshot

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/store/file"
	"github.com/keshon/ftt/internal/util"
)

// Index is the ordered sequence of all snapshots of a root.
type Index []Snapshot

// NextID returns max(existing ids)+1, or 1 for an empty index.
func (idx Index) NextID() uint64 {
	var max uint64
	for _, s := range idx {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

// Latest returns the most recently appended snapshot.
func (idx Index) Latest() (Snapshot, bool) {
	if len(idx) == 0 {
		return Snapshot{}, false
	}
	return idx[len(idx)-1], true
}

// Get looks a snapshot up by id.
func (idx Index) Get(id uint64) (Snapshot, bool) {
	for _, s := range idx {
		if s.ID == id {
			return s, true
		}
	}
	return Snapshot{}, false
}

// Back returns the snapshot n steps before the latest; 0 is the latest.
func (idx Index) Back(n int) (Snapshot, error) {
	if len(idx) == 0 {
		return Snapshot{}, errs.ErrNoSnapshots
	}
	if n < 0 || n >= len(idx) {
		return Snapshot{}, fmt.Errorf("back %d with %d snapshots: %w", n, len(idx), errs.ErrOutOfRange)
	}
	return idx[len(idx)-1-n], nil
}

// Append returns a new index with a snapshot of files added under the next id.
// The receiver is left untouched.
func (idx Index) Append(files file.PathMapping, now time.Time) (Index, Snapshot) {
	if files == nil {
		files = file.PathMapping{}
	}
	s := Snapshot{
		ID:        idx.NextID(),
		Files:     files,
		CreatedAt: now.UTC(),
		Digest:    Digest(files),
	}
	out := make(Index, len(idx), len(idx)+1)
	copy(out, idx)
	return append(out, s), s
}

// LoadIndex reads the whole index. A missing index file is an empty index.
func (sc *SnapshotContext) LoadIndex() (Index, error) {
	var idx Index
	if err := util.ReadJSON(sc.FS, sc.IndexPath, &idx); err != nil {
		if sc.FS.IsNotExist(err) {
			return Index{}, nil
		}
		if _, readErr := sc.FS.Stat(sc.IndexPath); readErr == nil {
			return nil, fmt.Errorf("parse %s: %w: %w", sc.IndexPath, errs.ErrCorruptIndex, err)
		}
		return nil, fmt.Errorf("read %s: %w: %w", sc.IndexPath, errs.ErrIOFailure, err)
	}
	for i := range idx {
		if idx[i].Files == nil {
			idx[i].Files = file.PathMapping{}
		}
	}
	return idx, nil
}

// SaveIndex replaces the persisted index with idx.
func (sc *SnapshotContext) SaveIndex(idx Index) error {
	if idx == nil {
		idx = Index{}
	}
	if err := sc.FS.MkdirAll(filepath.Dir(sc.IndexPath), 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w: %w", errs.ErrIOFailure, err)
	}
	if err := util.WriteJSON(sc.FS, sc.IndexPath, idx); err != nil {
		return fmt.Errorf("write %s: %w: %w", sc.IndexPath, errs.ErrIOFailure, err)
	}
	return nil
}
