package file

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/keshon/ftt/internal/config"
	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/fs"
)

// IsMeta reports whether rel lies in the metadata area. Any top-level name
// starting with the metadata dir name counts, so .fttignore is never tracked.
func IsMeta(rel string) bool {
	return strings.HasPrefix(rel, config.MetaDir)
}

// IsTemp reports whether rel names a leftover temp file from an interrupted
// write, at any depth.
func IsTemp(rel string) bool {
	return strings.HasPrefix(path.Base(rel), config.TempPrefix)
}

// StagingDir is where restored files are written before the final rename.
// It lives in the metadata area, so it shares a filesystem with the root.
func (fc *FileContext) StagingDir() string {
	return filepath.Join(fc.Root, config.MetaDir, config.StagingDir)
}

// Abs returns the absolute location of rel under the tracked root.
func (fc *FileContext) Abs(rel string) string {
	return filepath.Join(fc.Root, filepath.FromSlash(rel))
}

// LoadIgnore reads the root's .fttignore.
func (fc *FileContext) LoadIgnore() (*Ignore, error) {
	return LoadIgnore(fc.FS, filepath.Join(fc.Root, config.IgnoreFile))
}

// Scan fingerprints every tracked regular file under the root. Files or
// directories that cannot be read are skipped with a warning; only a root that
// cannot be listed, or an unreadable ignore file, fails the scan.
func (fc *FileContext) Scan() (PathMapping, error) {
	ignore, err := fc.LoadIgnore()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", config.IgnoreFile, errs.ErrIOFailure, err)
	}

	out := PathMapping{}
	err = fs.Walk(fc.FS, fc.Root, func(rel string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Warn("scan: skipping unreadable directory", "path", rel, "error", err)
			return nil
		}
		if IsMeta(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if ignore.MatchDir(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || ignore.Match(rel) {
			return nil
		}
		if IsTemp(rel) {
			slog.Warn("scan: skipping leftover temp file", "path", rel)
			return nil
		}

		fp, err := fc.fingerprintFile(rel)
		if err != nil {
			slog.Warn("scan: skipping unreadable file", "path", rel, "error", err)
			return nil
		}
		out[rel] = fp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w: %w", fc.Root, errs.ErrIOFailure, err)
	}
	return out, nil
}

// FingerprintFile hashes a single working-tree file.
func (fc *FileContext) FingerprintFile(rel string) (string, error) {
	return fc.fingerprintFile(rel)
}

func (fc *FileContext) fingerprintFile(rel string) (string, error) {
	abs := fc.Abs(rel)

	var size, mtime int64
	if fc.Cache != nil {
		info, err := fc.FS.Stat(abs)
		if err != nil {
			return "", err
		}
		size, mtime = info.Size(), info.ModTime().UnixNano()
		if fp, ok := fc.Cache.Lookup(rel, size, mtime); ok {
			return fp, nil
		}
	}

	f, err := fc.FS.Open(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fp, _, err := FingerprintReader(f)
	if err != nil {
		return "", err
	}

	if fc.Cache != nil {
		if err := fc.Cache.Store(rel, size, mtime, fp); err != nil {
			slog.Warn("scan: fingerprint cache update failed", "path", rel, "error", err)
		}
	}
	return fp, nil
}
