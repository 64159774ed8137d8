package rewind

import (
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/repo/store/file"
)

// impliedDirs returns every ancestor directory of every target path.
func impliedDirs(target file.PathMapping) mapset.Set[string] {
	dirs := mapset.NewThreadUnsafeSet[string]()
	for rel := range target {
		for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if !dirs.Add(dir) {
				break // ancestors already recorded
			}
		}
	}
	return dirs
}

// presentDirs lists every directory under the root outside the metadata area.
func (rc *RewindContext) presentDirs() []string {
	var dirs []string
	err := fs.Walk(rc.Files.FS, rc.Files.Root, func(rel string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Warn("rewind: cannot list directory", "path", rel, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if file.IsMeta(rel) {
			return fs.SkipDir
		}
		dirs = append(dirs, rel)
		return nil
	})
	if err != nil {
		slog.Warn("rewind: directory walk failed", "error", err)
	}
	return dirs
}

func (rc *RewindContext) pruneDirs(target file.PathMapping, report *Report) {
	implied := impliedDirs(target)
	dirs := rc.presentDirs()

	// deepest first
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], "/"), strings.Count(dirs[j], "/")
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})

	fsys := rc.Files.FS
	for _, rel := range dirs {
		if implied.Contains(rel) {
			continue
		}
		abs := rc.Files.Abs(rel)
		if !fsys.Exists(abs) {
			continue
		}
		if err := fsys.RemoveAll(abs); err != nil {
			report.Failed = append(report.Failed, Failure{Path: rel + "/", Err: err})
			continue
		}
		slog.Debug("rewind: removed directory", "path", rel)
		report.RemovedDirs = append(report.RemovedDirs, rel)
	}
}
