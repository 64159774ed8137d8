package fs_test

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/keshon/ftt/internal/fs"
)

func TestHookOverrides(t *testing.T) {
	osfs := fs.NewOSFS()

	origOpen := fs.GetOpen()
	defer fs.SetOpen(origOpen)
	fs.SetOpen(func(path string) (io.ReadSeekCloser, error) {
		return nil, errors.New("open-error")
	})
	if _, err := osfs.Open("x"); err == nil || err.Error() != "open-error" {
		t.Fatalf("unexpected error: %v", err)
	}

	origWF := fs.GetWriteFile()
	defer fs.SetWriteFile(origWF)
	called := false
	fs.SetWriteFile(func(path string, data []byte, perm os.FileMode) error {
		called = true
		if path != "a" || string(data) != "b" || perm != 0o644 {
			t.Fatalf("unexpected args")
		}
		return nil
	})
	if err := osfs.WriteFile("a", []byte("b"), 0o644); err != nil || !called {
		t.Fatalf("writeFile hook not used (err=%v)", err)
	}

	origRA := fs.GetRemoveAll()
	defer fs.SetRemoveAll(origRA)
	var removed string
	fs.SetRemoveAll(func(path string) error {
		removed = path
		return nil
	})
	if err := osfs.RemoveAll("tree"); err != nil || removed != "tree" {
		t.Fatalf("removeAll hook not used (err=%v)", err)
	}

	origStat := fs.GetStat()
	defer fs.SetStat(origStat)
	fs.SetStat(func(path string) (os.FileInfo, error) {
		return nil, os.ErrNotExist
	})
	if osfs.Exists("anything") {
		t.Fatal("Exists should follow the stat hook")
	}

	origRename := fs.GetRename()
	defer fs.SetRename(origRename)
	fs.SetRename(func(oldPath, newPath string) error {
		return errors.New("rename-failed")
	})
	if err := osfs.Rename("a", "b"); err == nil {
		t.Fatal("expected rename error from hook")
	}
}
