package repo

import (
	"context"

	"github.com/keshon/ftt/internal/repo/diff"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
)

// DiffResult is the comparison of two resolved snapshots.
type DiffResult struct {
	From snapshot.Snapshot
	To   snapshot.Snapshot
	diff.Result
}

// Diff compares the snapshots selected by from and to.
func (r *Repository) Diff(ctx context.Context, from, to Selector) (*DiffResult, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	a, err := Resolve(st.idx, st.tags, from)
	if err != nil {
		return nil, err
	}
	b, err := Resolve(st.idx, st.tags, to)
	if err != nil {
		return nil, err
	}
	return &DiffResult{From: a, To: b, Result: diff.Diff(a.Files, b.Files)}, nil
}
