package blob

import (
	"fmt"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/repo/store/file"
)

const tempPattern = ".tmp-*"

// BlobStatus indicates the state of a blob on disk.
type BlobStatus int

const (
	OK BlobStatus = iota
	Missing
	Damaged
)

func (s BlobStatus) String() string {
	switch s {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	case Damaged:
		return "damaged"
	}
	return "unknown"
}

// BlobCheck is the verification result of a single blob.
type BlobCheck struct {
	Fingerprint string
	Status      BlobStatus
	Err         error
}

// BlobContext is the content-addressed store under .ftt/blobs. Every object is
// named by the fingerprint of its bytes and is never rewritten once present.
type BlobContext struct {
	BlobsDir string // path to the blobs directory (.ftt/blobs)
	FS       fs.FS  // blob filesystem abstraction

	// fingerprints confirmed present during this process
	known *lru.Cache[string, struct{}]
}

// NewBlobContext creates a new BlobContext. cacheSize bounds the presence cache.
func NewBlobContext(root string, fsys fs.FS, cacheSize int) *BlobContext {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	known, _ := lru.New[string, struct{}](cacheSize) // only fails on size <= 0
	return &BlobContext{BlobsDir: root, FS: fsys, known: known}
}

func (bc *BlobContext) path(fp string) string {
	return filepath.Join(bc.BlobsDir, fp)
}

// Has reports whether a blob for fp exists.
func (bc *BlobContext) Has(fp string) bool {
	if bc.known.Contains(fp) {
		return true
	}
	if _, err := bc.FS.Stat(bc.path(fp)); err != nil {
		return false
	}
	bc.known.Add(fp, struct{}{})
	return true
}

// Get returns the bytes stored under fp. An absent blob yields ErrMissingBlob.
func (bc *BlobContext) Get(fp string) ([]byte, error) {
	data, err := bc.FS.ReadFile(bc.path(fp))
	if err != nil {
		if bc.FS.IsNotExist(err) {
			bc.known.Remove(fp)
			return nil, fmt.Errorf("blob %s: %w", fp, errs.ErrMissingBlob)
		}
		return nil, fmt.Errorf("read blob %s: %w: %w", fp, errs.ErrIOFailure, err)
	}
	return data, nil
}

// Put stores data under fp unless a blob with that fingerprint already exists.
// It reports whether a new object was written.
func (bc *BlobContext) Put(fp string, data []byte) (bool, error) {
	if got := file.Fingerprint(data); got != fp {
		return false, fmt.Errorf("put blob %s: content fingerprint is %s", fp, got)
	}
	if bc.Has(fp) {
		return false, nil
	}

	tmp, tmpPath, err := bc.FS.CreateTempFile(bc.BlobsDir, tempPattern)
	if err != nil {
		return false, fmt.Errorf("create temp blob in %q: %w: %w", bc.BlobsDir, errs.ErrIOFailure, err)
	}
	defer bc.FS.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("write temp blob: %w: %w", errs.ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close temp blob: %w: %w", errs.ErrIOFailure, err)
	}
	return bc.commit(tmpPath, fp)
}

func (bc *BlobContext) commit(tmpPath, fp string) (bool, error) {
	if err := bc.FS.Rename(tmpPath, bc.path(fp)); err != nil {
		return false, fmt.Errorf("rename temp %q to blob %s: %w: %w", tmpPath, fp, errs.ErrIOFailure, err)
	}
	bc.known.Add(fp, struct{}{})
	return true, nil
}
