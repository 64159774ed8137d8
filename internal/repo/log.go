package repo

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
)

// LogEntry is one snapshot with the labels pointing at it.
type LogEntry struct {
	Snapshot snapshot.Snapshot
	Tags     []string
}

// LogOptions filters the history.
type LogOptions struct {
	Since time.Duration // only snapshots created within this window; 0 means all
	Limit int           // at most this many entries; 0 means all
}

// Log lists snapshots newest first.
func (r *Repository) Log(ctx context.Context, opts LogOptions) ([]LogEntry, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	if len(st.idx) == 0 {
		return nil, errs.ErrNoSnapshots
	}

	var cutoff time.Time
	if opts.Since > 0 {
		cutoff = r.now().Add(-opts.Since)
	}

	var out []LogEntry
	for i := len(st.idx) - 1; i >= 0; i-- {
		s := st.idx[i]
		if !cutoff.IsZero() && s.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, LogEntry{Snapshot: s, Tags: st.tags.LabelsFor(s.ID)})
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// ParseSince parses a look-back window such as "1d", "5h" or "30m".
func ParseSince(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q (want <n>d, <n>h or <n>m)", s)
	}
	n, err := strconv.ParseUint(s[:len(s)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (want <n>d, <n>h or <n>m)", s)
	}
	var unit time.Duration
	switch s[len(s)-1] {
	case 'd':
		unit = 24 * time.Hour
	case 'h':
		unit = time.Hour
	case 'm':
		unit = time.Minute
	default:
		return 0, fmt.Errorf("invalid duration unit in %q (want d, h or m)", s)
	}
	if n > uint64(math.MaxInt64/unit) {
		return 0, fmt.Errorf("duration %q is too long", s)
	}
	return time.Duration(n) * unit, nil
}
