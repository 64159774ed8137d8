package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/diff"
	"github.com/keshon/ftt/internal/repo/store/file"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
	"github.com/keshon/ftt/internal/util"
)

// SaveResult describes a completed save.
type SaveResult struct {
	Snapshot    snapshot.Snapshot
	NewBlobs    int
	StoredBytes int64       // bytes of newly written blobs
	Dropped     []string    // scanned paths that could not be read while storing
	Changes     diff.Result // against the previous latest snapshot
}

// Save records the current tree as a new snapshot. All blobs are written
// before the index, so an interrupted save leaves at most orphan blobs.
func (r *Repository) Save(ctx context.Context) (*SaveResult, error) {
	blobs := r.Store.BlobCtx
	if n, err := blobs.CleanupTemp(); err != nil {
		slog.WarnContext(ctx, "save: temp cleanup failed", "error", err)
	} else if n > 0 {
		slog.DebugContext(ctx, "save: removed stale temp blobs", "count", n)
	}

	idx, err := r.Store.SnapshotCtx.LoadIndex()
	if err != nil {
		return nil, err
	}

	files, err := r.Store.FileCtx.Scan()
	if err != nil {
		return nil, err
	}

	res := &SaveResult{}
	bar := r.progress(len(files), "Storing files")
	for _, rel := range util.SortedKeys(files) {
		bar.Increment()
		fp, written, size, err := blobs.PutFile(r.Store.FileCtx.Abs(rel))
		if err != nil {
			if errors.Is(err, errs.ErrIOFailure) {
				bar.Finish()
				return nil, fmt.Errorf("store %s: %w", rel, err)
			}
			slog.WarnContext(ctx, "save: file unreadable, left out of snapshot", "path", rel, "error", err)
			res.Dropped = append(res.Dropped, rel)
			delete(files, rel)
			continue
		}
		if fp != files[rel] {
			slog.DebugContext(ctx, "save: file changed since scan", "path", rel)
			files[rel] = fp
		}
		if written {
			res.NewBlobs++
			res.StoredBytes += size
		}
	}
	bar.Finish()

	var prev file.PathMapping
	if latest, ok := idx.Latest(); ok {
		prev = latest.Files
	}

	next, snap := idx.Append(files, r.now())
	if err := r.Store.SnapshotCtx.SaveIndex(next); err != nil {
		return nil, err
	}
	if err := r.Store.SnapshotCtx.SaveDescriptor(snap); err != nil {
		slog.WarnContext(ctx, "save: descriptor not written", "id", snap.ID, "error", err)
	}
	if r.cache != nil {
		if n, err := r.cache.Forget(files); err != nil {
			slog.WarnContext(ctx, "save: fingerprint cache prune failed", "error", err)
		} else if n > 0 {
			slog.DebugContext(ctx, "save: pruned fingerprint cache", "removed", n)
		}
	}

	res.Snapshot = snap
	res.Changes = diff.Diff(prev, files)
	slog.InfoContext(ctx, "snapshot saved", "id", snap.ID, "files", len(files), "new_blobs", res.NewBlobs)
	return res, nil
}
