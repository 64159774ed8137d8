// Package rewind reconciles the working tree with a snapshot's path mapping.
package rewind

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/keshon/ftt/internal/config"
	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/store/file"
	"github.com/keshon/ftt/internal/util"
)

// BlobReader is the part of the blob store rewind needs.
type BlobReader interface {
	Get(fp string) ([]byte, error)
}

// Failure records a path that could not be brought to its target state.
type Failure struct {
	Path string
	Err  error
}

// Report describes what a rewind changed and what it could not restore.
type Report struct {
	Restored    []string
	Unchanged   int
	Deleted     []string
	RemovedDirs []string
	Missing     []string // target paths whose blob is gone
	Failed      []Failure
}

// Partial reports whether any path was left out of its target state.
func (r *Report) Partial() bool {
	return len(r.Missing) > 0 || len(r.Failed) > 0
}

// Err summarizes a partial rewind as an error wrapping ErrPartialRewind, and
// ErrMissingBlob when blobs were missing. It is nil for a complete rewind.
func (r *Report) Err() error {
	if !r.Partial() {
		return nil
	}
	if len(r.Missing) > 0 {
		return fmt.Errorf("%w: %d path(s) not restored: %w", errs.ErrPartialRewind, len(r.Missing)+len(r.Failed), errs.ErrMissingBlob)
	}
	return fmt.Errorf("%w: %d path(s) failed", errs.ErrPartialRewind, len(r.Failed))
}

// RewindContext binds the working tree to the blob store it restores from.
type RewindContext struct {
	Files *file.FileContext
	Blobs BlobReader
}

func NewRewindContext(files *file.FileContext, blobs BlobReader) *RewindContext {
	return &RewindContext{Files: files, Blobs: blobs}
}

// Rewind makes the working tree match target in three phases, each finished
// before the next starts: materialize target files, delete files the target
// lacks, then remove directories no target path lives in, deepest first.
// Missing blobs and per-path write failures are collected in the report; only
// a failed initial scan aborts, and it does so before anything is touched.
func (rc *RewindContext) Rewind(target file.PathMapping) (*Report, error) {
	live, err := rc.Files.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan working tree: %w", err)
	}

	// staged writes of an interrupted rewind
	staging := rc.Files.StagingDir()
	if err := rc.Files.FS.RemoveAll(staging); err != nil {
		slog.Warn("rewind: cannot clear staging area", "path", staging, "error", err)
	}

	report := &Report{}
	rc.materialize(target, live, report)
	rc.pruneFiles(target, live, report)
	rc.pruneDirs(target, report)
	rc.Files.FS.RemoveAll(staging)
	return report, nil
}

func (rc *RewindContext) materialize(target, live file.PathMapping, report *Report) {
	for _, rel := range util.SortedKeys(target) {
		fp := target[rel]
		if cur, ok := live[rel]; ok && cur == fp {
			report.Unchanged++
			continue
		}

		data, err := rc.Blobs.Get(fp)
		if err != nil {
			if errors.Is(err, errs.ErrMissingBlob) {
				slog.Warn("rewind: blob missing, file left untouched", "path", rel, "fingerprint", fp)
				report.Missing = append(report.Missing, rel)
				continue
			}
			report.Failed = append(report.Failed, Failure{Path: rel, Err: err})
			continue
		}

		if err := rc.restoreFile(rel, data); err != nil {
			slog.Warn("rewind: restore failed", "path", rel, "error", err)
			report.Failed = append(report.Failed, Failure{Path: rel, Err: err})
			continue
		}
		slog.Debug("rewind: restored", "path", rel)
		report.Restored = append(report.Restored, rel)
	}
}

func (rc *RewindContext) pruneFiles(target, live file.PathMapping, report *Report) {
	fsys := rc.Files.FS
	for _, rel := range util.SortedKeys(live) {
		if _, ok := target[rel]; ok {
			continue
		}
		abs := rc.Files.Abs(rel)
		if fsys.IsDir(abs) {
			// replaced by a target directory during materialize
			report.Deleted = append(report.Deleted, rel)
			continue
		}
		if err := fsys.Remove(abs); err != nil && !fsys.IsNotExist(err) {
			report.Failed = append(report.Failed, Failure{Path: rel, Err: err})
			continue
		}
		slog.Debug("rewind: deleted", "path", rel)
		report.Deleted = append(report.Deleted, rel)
	}
}

// restoreFile writes data to a temp file in the staging area and renames it
// onto rel, so an interrupted rewind never leaves partial files in the tree.
func (rc *RewindContext) restoreFile(rel string, data []byte) error {
	fsys := rc.Files.FS
	abs := rc.Files.Abs(rel)
	staging := rc.Files.StagingDir()

	if err := rc.clearObstructions(rel); err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	if err := fsys.MkdirAll(staging, 0o755); err != nil {
		return err
	}

	tmp, tmpPath, err := fsys.CreateTempFile(staging, config.TempPrefix+"*")
	if err != nil {
		return err
	}
	defer fsys.Remove(tmpPath)

	writer := bufio.NewWriterSize(tmp, 1024*1024)
	if _, err := writer.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return fsys.Rename(tmpPath, abs)
}

// clearObstructions removes a regular file sitting where rel needs a parent
// directory, and a directory sitting where rel itself goes.
func (rc *RewindContext) clearObstructions(rel string) error {
	fsys := rc.Files.FS
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		abs := rc.Files.Abs(dir)
		if info, err := fsys.Stat(abs); err == nil && !info.IsDir() {
			slog.Debug("rewind: replacing file with directory", "path", dir)
			if err := fsys.Remove(abs); err != nil {
				return err
			}
			break
		}
	}
	abs := rc.Files.Abs(rel)
	if fsys.IsDir(abs) {
		slog.Debug("rewind: replacing directory with file", "path", rel)
		return fsys.RemoveAll(abs)
	}
	return nil
}
