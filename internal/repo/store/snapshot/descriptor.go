package snapshot

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/util"
)

// Descriptors under .ftt/snapshots are human-readable copies of index entries.
// The index stays authoritative; nothing reads descriptors to decide state.

func (sc *SnapshotContext) descriptorPath(id uint64) string {
	return filepath.Join(sc.SnapshotsDir, strconv.FormatUint(id, 10)+".json")
}

// SaveDescriptor persists a snapshot descriptor JSON to disk.
func (sc *SnapshotContext) SaveDescriptor(s Snapshot) error {
	if s.ID == 0 {
		return fmt.Errorf("invalid snapshot: missing id")
	}
	if err := sc.FS.MkdirAll(sc.SnapshotsDir, 0o755); err != nil {
		return fmt.Errorf("create snapshots dir: %w: %w", errs.ErrIOFailure, err)
	}
	if err := util.WriteJSON(sc.FS, sc.descriptorPath(s.ID), s); err != nil {
		return fmt.Errorf("write descriptor %d: %w: %w", s.ID, errs.ErrIOFailure, err)
	}
	return nil
}

// LoadDescriptor retrieves a snapshot descriptor by id.
func (sc *SnapshotContext) LoadDescriptor(id uint64) (Snapshot, error) {
	var s Snapshot
	if err := util.ReadJSON(sc.FS, sc.descriptorPath(id), &s); err != nil {
		return Snapshot{}, fmt.Errorf("read descriptor %d: %w", id, err)
	}
	return s, nil
}

// ListDescriptors returns the ids of all descriptors on disk.
func (sc *SnapshotContext) ListDescriptors() ([]uint64, error) {
	entries, err := sc.FS.ReadDir(sc.SnapshotsDir)
	if err != nil {
		if sc.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []uint64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(name, ".json"), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
