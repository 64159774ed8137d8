// Package diff classifies paths between two path mappings.
package diff

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/keshon/ftt/internal/repo/store/file"
)

// Result lists changed paths, each sorted. Unchanged paths are only counted.
type Result struct {
	Added     []string `json:"added"`
	Modified  []string `json:"modified"`
	Deleted   []string `json:"deleted"`
	Unchanged int      `json:"unchanged"`
}

// Empty reports whether nothing changed.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Modified) == 0 && len(r.Deleted) == 0
}

// Changes returns the number of changed paths.
func (r Result) Changes() int {
	return len(r.Added) + len(r.Modified) + len(r.Deleted)
}

// Diff compares from against to:
//
//	added     in to only
//	modified  in both, fingerprints differ
//	deleted   in from only
func Diff(from, to file.PathMapping) Result {
	before := keySet(from)
	after := keySet(to)

	r := Result{
		Added:   sorted(after.Difference(before)),
		Deleted: sorted(before.Difference(after)),
	}
	for _, p := range sorted(before.Intersect(after)) {
		if from[p] != to[p] {
			r.Modified = append(r.Modified, p)
		} else {
			r.Unchanged++
		}
	}
	return r
}

func keySet(m file.PathMapping) mapset.Set[string] {
	s := mapset.NewThreadUnsafeSetWithSize[string](len(m))
	for k := range m {
		s.Add(k)
	}
	return s
}

func sorted(s mapset.Set[string]) []string {
	if s.Cardinality() == 0 {
		return nil
	}
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
