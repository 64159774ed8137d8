package fs

import (
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
)

// SkipDir returned from a WalkFunc on a directory skips its contents.
var SkipDir = iofs.SkipDir

// WalkFunc receives the forward-slash path relative to the walk root.
// When a directory cannot be listed, fn is called a second time for it with
// the error; returning nil skips that directory and continues the walk.
type WalkFunc func(rel string, d os.DirEntry, err error) error

// Walk visits every entry below root in lexical order, parents before children.
// It mirrors filepath.WalkDir but goes through FS so MemoryFS trees walk too.
// The root itself is not passed to fn; failing to list it is returned directly.
func Walk(fsys FS, root string, fn WalkFunc) error {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return err
	}
	return walkEntries(fsys, root, "", entries, fn)
}

func walkEntries(fsys FS, root, rel string, entries []os.DirEntry, fn WalkFunc) error {
	for _, e := range entries {
		child := e.Name()
		if rel != "" {
			child = path.Join(rel, e.Name())
		}
		err := fn(child, e, nil)
		if !e.IsDir() {
			if err != nil {
				return err
			}
			continue
		}
		if err == SkipDir {
			continue
		}
		if err != nil {
			return err
		}

		sub, err := fsys.ReadDir(filepath.Join(root, filepath.FromSlash(child)))
		if err != nil {
			if err := fn(child, e, err); err != nil && err != SkipDir {
				return err
			}
			continue
		}
		if err := walkEntries(fsys, root, child, sub, fn); err != nil {
			return err
		}
	}
	return nil
}
