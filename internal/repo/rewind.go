package repo

import (
	"context"
	"log/slog"

	"github.com/keshon/ftt/internal/repo/rewind"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
)

// RewindResult is the outcome of reconciling the tree with a snapshot.
type RewindResult struct {
	Target snapshot.Snapshot
	*rewind.Report
}

// Rewind makes the tree match the snapshot sel names. The selector is resolved
// before anything is written. A partial rewind returns the result together
// with an error wrapping ErrPartialRewind.
func (r *Repository) Rewind(ctx context.Context, sel Selector) (*RewindResult, error) {
	target, err := r.ResolveSelector(sel)
	if err != nil {
		return nil, err
	}

	rc := rewind.NewRewindContext(r.Store.FileCtx, r.Store.BlobCtx)
	report, err := rc.Rewind(target.Files)
	if err != nil {
		return nil, err
	}

	res := &RewindResult{Target: target, Report: report}
	slog.InfoContext(ctx, "rewind finished",
		"id", target.ID,
		"restored", len(report.Restored),
		"deleted", len(report.Deleted),
		"missing", len(report.Missing),
		"failed", len(report.Failed))
	return res, report.Err()
}
