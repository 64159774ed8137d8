package diff_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/keshon/ftt/internal/repo/diff"
	"github.com/keshon/ftt/internal/repo/store/file"
)

func fp(s string) string { return file.Fingerprint([]byte(s)) }

func TestDiff_Scenario(t *testing.T) {
	s1 := file.PathMapping{"a.txt": fp("hello"), "b.txt": fp("world")}
	s2 := file.PathMapping{"a.txt": fp("goodbye"), "b.txt": fp("world"), "c.txt": fp("new")}

	r := diff.Diff(s1, s2)
	assert.Equal(t, []string{"a.txt"}, r.Modified)
	assert.Equal(t, []string{"c.txt"}, r.Added)
	assert.Empty(t, r.Deleted)
	assert.Equal(t, 1, r.Unchanged)
	assert.Equal(t, 2, r.Changes())

	back := diff.Diff(s2, s1)
	assert.Equal(t, []string{"c.txt"}, back.Deleted)
	assert.Equal(t, []string{"a.txt"}, back.Modified)
	assert.Empty(t, back.Added)
}

func TestDiff_Cases(t *testing.T) {
	tests := []struct {
		name     string
		from, to file.PathMapping
		want     diff.Result
	}{
		{"both empty", nil, file.PathMapping{}, diff.Result{}},
		{"identical", file.PathMapping{"x": "1"}, file.PathMapping{"x": "1"}, diff.Result{Unchanged: 1}},
		{"all added", nil, file.PathMapping{"b": "2", "a": "1"}, diff.Result{Added: []string{"a", "b"}}},
		{"all deleted", file.PathMapping{"z/y": "1", "a": "2"}, nil, diff.Result{Deleted: []string{"a", "z/y"}}},
		{"rename is delete+add", file.PathMapping{"old": "1"}, file.PathMapping{"new": "1"},
			diff.Result{Added: []string{"new"}, Deleted: []string{"old"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diff.Diff(tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Changes() == 0, got.Empty())
		})
	}
}

func TestDiff_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	// each int picks one of six paths and one of three contents
	genMapping := gen.SliceOf(gen.IntRange(0, 17))

	properties.Property("every path of the union lands in exactly one class", prop.ForAll(
		func(a, b []int) bool {
			from, to := mapping(a), mapping(b)
			r := diff.Diff(from, to)
			seen := map[string]int{}
			for _, p := range r.Added {
				seen[p]++
				if _, ok := from[p]; ok {
					return false
				}
			}
			for _, p := range r.Deleted {
				seen[p]++
				if _, ok := to[p]; ok {
					return false
				}
			}
			for _, p := range r.Modified {
				seen[p]++
				if from[p] == to[p] {
					return false
				}
			}
			union := map[string]bool{}
			for p := range from {
				union[p] = true
			}
			for p := range to {
				union[p] = true
			}
			unchanged := 0
			for p := range union {
				switch seen[p] {
				case 0:
					if from[p] != to[p] {
						return false
					}
					unchanged++
				case 1:
				default:
					return false
				}
			}
			return unchanged == r.Unchanged
		},
		genMapping, genMapping,
	))

	properties.Property("diff with itself is empty", prop.ForAll(
		func(a []int) bool {
			m := mapping(a)
			return diff.Diff(m, m).Empty()
		},
		genMapping,
	))

	properties.TestingRun(t)
}

var paths = []string{"a", "b", "c", "d/e", "d/f", "g/h/i"}

func mapping(slots []int) file.PathMapping {
	m := file.PathMapping{}
	for _, n := range slots {
		m[paths[n%len(paths)]] = fp(string(rune('0' + n/len(paths))))
	}
	return m
}
