package repo

import (
	"context"
	"log/slog"

	"github.com/keshon/ftt/internal/repo/meta"
)

// TagResult describes a tag assignment.
type TagResult struct {
	Tag      meta.Tag
	Previous uint64 // the id the label pointed at before, if Moved
	Moved    bool
}

// Tag points label at snapshot id, which must exist now.
func (r *Repository) Tag(ctx context.Context, label string, id uint64) (*TagResult, error) {
	st, err := r.load()
	if err != nil {
		return nil, err
	}
	prev, had, err := st.tags.Set(label, id, st.idx)
	if err != nil {
		return nil, err
	}
	if err := r.Meta.SaveTags(st.tags); err != nil {
		return nil, err
	}
	res := &TagResult{Tag: meta.Tag{Label: label, SnapshotID: id}}
	if had && prev != id {
		res.Previous, res.Moved = prev, true
	}
	slog.InfoContext(ctx, "tag set", "label", label, "id", id)
	return res, nil
}

// Tags lists the registry sorted by label.
func (r *Repository) Tags(ctx context.Context) ([]meta.Tag, error) {
	tags, err := r.Meta.LoadTags()
	if err != nil {
		return nil, err
	}
	return tags.List(), nil
}
