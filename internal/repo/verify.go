package repo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/meta"
	"github.com/keshon/ftt/internal/repo/store/blob"
)

// BlobProblem is a referenced blob that is missing or damaged, with the
// snapshots that reference it.
type BlobProblem struct {
	blob.BlobCheck
	Snapshots []uint64
}

// VerifyResult is a consistency report over the whole metadata area.
type VerifyResult struct {
	Snapshots          int
	BlobsChecked       int
	Problems           []BlobProblem
	BadDigests         []uint64 // snapshots whose files no longer match their digest
	MissingDescriptors []uint64
	DanglingTags       []meta.Tag
	Orphans            []string // stored blobs no snapshot references
	TempRemoved        int
}

// OK reports whether every referenced blob is intact and every digest matches.
func (v *VerifyResult) OK() bool {
	return len(v.Problems) == 0 && len(v.BadDigests) == 0 && len(v.DanglingTags) == 0
}

// Err summarizes a failed verification.
func (v *VerifyResult) Err() error {
	switch {
	case len(v.Problems) > 0:
		return fmt.Errorf("%d referenced blob(s) missing or damaged: %w", len(v.Problems), errs.ErrMissingBlob)
	case len(v.BadDigests) > 0:
		return fmt.Errorf("%d snapshot(s) fail their digest: %w", len(v.BadDigests), errs.ErrCorruptIndex)
	case len(v.DanglingTags) > 0:
		return fmt.Errorf("%d tag(s) point at unknown snapshots: %w", len(v.DanglingTags), errs.ErrCorruptIndex)
	}
	return nil
}

// Verify re-hashes every blob the index references and cross-checks the
// index, descriptors and tags. Stale temp files in the blob area are removed;
// nothing else is modified.
func (r *Repository) Verify(ctx context.Context) (*VerifyResult, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	res := &VerifyResult{Snapshots: len(st.idx)}

	if n, err := r.Store.BlobCtx.CleanupTemp(); err != nil {
		slog.WarnContext(ctx, "verify: temp cleanup failed", "error", err)
	} else {
		res.TempRemoved = n
	}

	refs := map[string][]uint64{}
	for _, s := range st.idx {
		if !s.DigestOK() {
			res.BadDigests = append(res.BadDigests, s.ID)
		}
		seen := mapset.NewThreadUnsafeSet[string]()
		for _, fp := range s.Files {
			if seen.Add(fp) {
				refs[fp] = append(refs[fp], s.ID)
			}
		}
	}

	fps := make([]string, 0, len(refs))
	for fp := range refs {
		fps = append(fps, fp)
	}
	sort.Strings(fps)
	bar := r.progress(len(fps), "Checking blobs")
	for _, fp := range fps {
		bar.Increment()
		status, err := r.Store.BlobCtx.VerifyBlob(fp)
		check := blob.BlobCheck{Fingerprint: fp, Status: status, Err: err}
		if check.Status != blob.OK {
			slog.WarnContext(ctx, "verify: bad blob", "fingerprint", check.Fingerprint, "status", check.Status)
			res.Problems = append(res.Problems, BlobProblem{BlobCheck: check, Snapshots: refs[check.Fingerprint]})
		}
	}
	bar.Finish()
	res.BlobsChecked = len(fps)

	stored, err := r.Store.BlobCtx.List()
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w: %w", errs.ErrIOFailure, err)
	}
	orphans := mapset.NewThreadUnsafeSet(stored...)
	for fp := range refs {
		orphans.Remove(fp)
	}
	res.Orphans = orphans.ToSlice()
	sort.Strings(res.Orphans)

	described, err := r.Store.SnapshotCtx.ListDescriptors()
	if err != nil {
		slog.WarnContext(ctx, "verify: cannot list descriptors", "error", err)
	} else {
		have := mapset.NewThreadUnsafeSet(described...)
		for _, s := range st.idx {
			if !have.Contains(s.ID) {
				res.MissingDescriptors = append(res.MissingDescriptors, s.ID)
			}
		}
	}

	for _, t := range st.tags.List() {
		if _, ok := st.idx.Get(t.SnapshotID); !ok {
			res.DanglingTags = append(res.DanglingTags, t)
		}
	}
	return res, nil
}
