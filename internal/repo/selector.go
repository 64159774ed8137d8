package repo

import (
	"fmt"
	"strconv"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/meta"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
)

// Selector names one snapshot by id, by tag label, or by offset back from the
// latest. Exactly one of the three must be set.
type Selector struct {
	ID   *uint64
	Tag  *string
	Back *int
}

func ByID(id uint64) Selector     { return Selector{ID: &id} }
func ByTag(label string) Selector { return Selector{Tag: &label} }
func ByBack(n int) Selector       { return Selector{Back: &n} }

func (s Selector) set() int {
	n := 0
	if s.ID != nil {
		n++
	}
	if s.Tag != nil {
		n++
	}
	if s.Back != nil {
		n++
	}
	return n
}

func (s Selector) String() string {
	switch {
	case s.set() != 1:
		return "<ambiguous>"
	case s.ID != nil:
		return "#" + strconv.FormatUint(*s.ID, 10)
	case s.Tag != nil:
		return "tag " + strconv.Quote(*s.Tag)
	default:
		return "back " + strconv.Itoa(*s.Back)
	}
}

// Resolve turns sel into a snapshot of idx. It never touches the disk, so
// callers resolve every selector before their first write.
func Resolve(idx snapshot.Index, tags *meta.TagRegistry, sel Selector) (snapshot.Snapshot, error) {
	if sel.set() != 1 {
		return snapshot.Snapshot{}, errs.ErrAmbiguousSelector
	}
	if len(idx) == 0 {
		return snapshot.Snapshot{}, errs.ErrNoSnapshots
	}

	switch {
	case sel.ID != nil:
		s, ok := idx.Get(*sel.ID)
		if !ok {
			return snapshot.Snapshot{}, fmt.Errorf("snapshot %d: %w", *sel.ID, errs.ErrUnknownSnapshot)
		}
		return s, nil

	case sel.Tag != nil:
		if tags == nil {
			tags = meta.NewTagRegistry()
		}
		id, err := tags.Lookup(*sel.Tag)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		s, ok := idx.Get(id)
		if !ok {
			return snapshot.Snapshot{}, fmt.Errorf("tag %q points at snapshot %d: %w", *sel.Tag, id, errs.ErrUnknownSnapshot)
		}
		return s, nil

	default:
		return idx.Back(*sel.Back)
	}
}

// state is one load of the authoritative metadata.
type state struct {
	idx  snapshot.Index
	tags *meta.TagRegistry
}

func (r *Repository) load() (state, error) {
	idx, err := r.Store.SnapshotCtx.LoadIndex()
	if err != nil {
		return state{}, err
	}
	tags, err := r.Meta.LoadTags()
	if err != nil {
		return state{}, err
	}
	return state{idx: idx, tags: tags}, nil
}

// ResolveSelector loads the index and tags and resolves sel against them.
func (r *Repository) ResolveSelector(sel Selector) (snapshot.Snapshot, error) {
	st, err := r.load()
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return Resolve(st.idx, st.tags, sel)
}
