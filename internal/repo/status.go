package repo

import (
	"context"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/diff"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
)

// StatusResult compares the live tree with the latest snapshot.
type StatusResult struct {
	Base snapshot.Snapshot
	diff.Result
}

// Clean reports whether the live tree matches the latest snapshot.
func (s *StatusResult) Clean() bool { return s.Empty() }

// Status diffs the latest snapshot against a live scan. It never writes.
func (r *Repository) Status(ctx context.Context) (*StatusResult, error) {
	idx, err := r.Store.SnapshotCtx.LoadIndex()
	if err != nil {
		return nil, err
	}
	base, ok := idx.Latest()
	if !ok {
		return nil, errs.ErrNoSnapshots
	}

	live, err := r.Store.FileCtx.Scan()
	if err != nil {
		return nil, err
	}

	res := &StatusResult{Base: base}
	if base.Digest != "" && base.DigestOK() && snapshot.Digest(live) == base.Digest {
		res.Unchanged = len(live)
		return res, nil
	}
	res.Result = diff.Diff(base.Files, live)
	return res, nil
}
