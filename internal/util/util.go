package util

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/keshon/ftt/internal/fs"
)

// WriteJSON writes v as indented JSON to path atomically (temp file + rename in
// the same directory).
func WriteJSON(fsys fs.FS, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpFile, tmpPath, err := fsys.CreateTempFile(filepath.Dir(path), ".tmp-*.json")
	if err != nil {
		return err
	}
	defer fsys.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return fsys.Rename(tmpPath, path)
}

// ReadJSON reads a JSON file and unmarshals it into v.
func ReadJSON(fsys fs.FS, path string, v any) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SortedKeys returns the keys of a map sorted alphabetically.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolvePath expands a leading ~ and returns an absolute, clean path.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}

	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.New("failed to retrieve home directory")
		}
		path = strings.Replace(path, "~", homeDir, 1)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(absPath), nil
}

// EnsureDir creates path (and parents) unless it already exists.
func EnsureDir(fsys fs.FS, path string) error {
	if fsys.IsDir(path) {
		return nil
	}
	return fsys.MkdirAll(path, 0o755)
}
