package blob

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/repo/store/file"
)

// PutFile streams the file at src into the store, fingerprinting the bytes as
// they are copied. The returned fingerprint describes exactly what was stored,
// even if the file changed since it was last scanned.
func (bc *BlobContext) PutFile(src string) (fp string, written bool, size int64, err error) {
	in, err := bc.FS.Open(src)
	if err != nil {
		return "", false, 0, fmt.Errorf("open source file %q: %w", src, err)
	}
	defer in.Close()

	tmp, tmpPath, err := bc.FS.CreateTempFile(bc.BlobsDir, tempPattern)
	if err != nil {
		return "", false, 0, fmt.Errorf("create temp blob in %q: %w: %w", bc.BlobsDir, errs.ErrIOFailure, err)
	}
	defer bc.FS.Remove(tmpPath)

	h := file.NewHasher()
	size, err = io.Copy(io.MultiWriter(tmp, h), in)
	if err != nil {
		tmp.Close()
		return "", false, size, fmt.Errorf("copy %q into blob store: %w: %w", src, errs.ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return "", false, size, fmt.Errorf("close temp blob: %w: %w", errs.ErrIOFailure, err)
	}

	fp = hex.EncodeToString(h.Sum(nil))
	if bc.Has(fp) {
		return fp, false, size, nil
	}
	written, err = bc.commit(tmpPath, fp)
	return fp, written, size, err
}
