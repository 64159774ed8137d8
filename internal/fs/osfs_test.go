package fs_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshon/ftt/internal/fs"
)

func TestOSFS_OpenMapsFile(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(tmp, []byte("hello mapped world"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := fs.NewOSFS().Open(tmp)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.Seek(6, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	rest, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(rest) != "mapped world" {
		t.Fatalf("unexpected read %q", rest)
	}
}

func TestOSFS_OpenEmptyFile(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(tmp, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := fs.NewOSFS().Open(tmp)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Fatalf("expected no data, got %q", data)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOSFS_OpenMissing(t *testing.T) {
	osfs := fs.NewOSFS()
	_, err := osfs.Open(filepath.Join(t.TempDir(), "nope"))
	if !osfs.IsNotExist(err) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestOSFS_CreateTempFile(t *testing.T) {
	dir := t.TempDir()
	osfs := fs.NewOSFS()

	wc, name, err := osfs.CreateTempFile(dir, ".tmp-*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wc.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}
	if err := wc.Close(); err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(name) != dir {
		t.Fatalf("temp file %s not in %s", name, dir)
	}
	data, err := os.ReadFile(name)
	if err != nil || string(data) != "abc" {
		t.Fatalf("unexpected temp content %q (%v)", data, err)
	}
}

func TestOSFS_CreateTempFileError(t *testing.T) {
	orig := fs.GetCreateTemp()
	defer fs.SetCreateTemp(orig)

	fs.SetCreateTemp(func(dir, pattern string) (*os.File, error) {
		if dir != "tmp" || pattern != "x*" {
			t.Fatalf("unexpected CreateTemp args")
		}
		return nil, errors.New("tmp-failed")
	})

	_, _, err := fs.NewOSFS().CreateTempFile("tmp", "x*")
	if err == nil || err.Error() != "tmp-failed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOSFS_RemoveAll(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(nested, "f"), []byte("1"), 0o644)

	osfs := fs.NewOSFS()
	if err := osfs.RemoveAll(filepath.Join(dir, "a")); err != nil {
		t.Fatal(err)
	}
	if osfs.Exists(filepath.Join(dir, "a")) {
		t.Fatal("expected a to be removed")
	}
}

func TestOSFS_IsDirAndExists(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "x")
	os.WriteFile(file, []byte("1"), 0o644)

	osfs := fs.NewOSFS()
	if !osfs.IsDir(tmp) || osfs.IsDir(file) {
		t.Fatal("IsDir mismatch")
	}
	if !osfs.Exists(file) || osfs.Exists(filepath.Join(tmp, "y")) {
		t.Fatal("Exists mismatch")
	}
}
