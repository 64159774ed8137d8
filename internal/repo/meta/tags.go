package meta

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
	"github.com/keshon/ftt/internal/util"
)

// TagRegistry maps human labels to snapshot ids (.ftt/tags.json).
type TagRegistry struct {
	Tags map[string]uint64 `json:"tags"`
}

// Tag is one registry entry.
type Tag struct {
	Label      string
	SnapshotID uint64
}

func NewTagRegistry() *TagRegistry {
	return &TagRegistry{Tags: map[string]uint64{}}
}

// Lookup resolves a label to its snapshot id.
func (r *TagRegistry) Lookup(label string) (uint64, error) {
	id, ok := r.Tags[label]
	if !ok {
		return 0, fmt.Errorf("tag %q: %w", label, errs.ErrUnknownTag)
	}
	return id, nil
}

// LabelsFor returns the labels pointing at id, sorted.
func (r *TagRegistry) LabelsFor(id uint64) []string {
	var out []string
	for label, tid := range r.Tags {
		if tid == id {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

// List returns all tags sorted by label.
func (r *TagRegistry) List() []Tag {
	out := make([]Tag, 0, len(r.Tags))
	for _, label := range util.SortedKeys(r.Tags) {
		out = append(out, Tag{Label: label, SnapshotID: r.Tags[label]})
	}
	return out
}

// Set points label at id, overwriting any previous target. The id must exist
// in idx at this moment. It returns the previous id, if any.
func (r *TagRegistry) Set(label string, id uint64, idx snapshot.Index) (prev uint64, had bool, err error) {
	if strings.TrimSpace(label) == "" {
		return 0, false, fmt.Errorf("tag label cannot be empty")
	}
	if _, ok := idx.Get(id); !ok {
		return 0, false, fmt.Errorf("snapshot %d: %w", id, errs.ErrUnknownSnapshot)
	}
	prev, had = r.Tags[label]
	r.Tags[label] = id
	return prev, had, nil
}

// LoadTags reads the registry. A missing file is an empty registry.
func (mc *MetaContext) LoadTags() (*TagRegistry, error) {
	path := mc.Config.TagsPath()
	reg := NewTagRegistry()
	if err := util.ReadJSON(mc.FS, path, reg); err != nil {
		if mc.FS.IsNotExist(err) {
			return NewTagRegistry(), nil
		}
		if _, statErr := mc.FS.Stat(path); statErr == nil {
			return nil, fmt.Errorf("parse %s: %w: %w", path, errs.ErrCorruptIndex, err)
		}
		return nil, fmt.Errorf("read %s: %w: %w", path, errs.ErrIOFailure, err)
	}
	if reg.Tags == nil {
		reg.Tags = map[string]uint64{}
	}
	return reg, nil
}

// SaveTags replaces the persisted registry with reg.
func (mc *MetaContext) SaveTags(reg *TagRegistry) error {
	if err := util.WriteJSON(mc.FS, mc.Config.TagsPath(), reg); err != nil {
		return fmt.Errorf("write %s: %w: %w", mc.Config.TagsPath(), errs.ErrIOFailure, err)
	}
	return nil
}
