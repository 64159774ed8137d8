package blob

import (
	"path/filepath"
	"strings"

	"github.com/keshon/ftt/internal/repo/store/file"
)

// VerifyBlob re-hashes a stored blob and compares it with its name.
func (bc *BlobContext) VerifyBlob(fp string) (BlobStatus, error) {
	f, err := bc.FS.Open(bc.path(fp))
	if err != nil {
		if bc.FS.IsNotExist(err) {
			return Missing, nil
		}
		// Treat read errors as damaged blob.
		return Damaged, err
	}
	defer f.Close()

	actual, _, err := file.FingerprintReader(f)
	if err != nil {
		return Damaged, err
	}
	if actual == fp {
		return OK, nil
	}
	return Damaged, nil
}

// Verify checks each fingerprint in order.
func (bc *BlobContext) Verify(fps []string) []BlobCheck {
	out := make([]BlobCheck, 0, len(fps))
	for _, fp := range fps {
		status, err := bc.VerifyBlob(fp)
		out = append(out, BlobCheck{Fingerprint: fp, Status: status, Err: err})
	}
	return out
}

// List returns the fingerprints of all stored blobs. Temp files and anything
// not named like a fingerprint are left out.
func (bc *BlobContext) List() ([]string, error) {
	entries, err := bc.FS.ReadDir(bc.BlobsDir)
	if err != nil {
		if bc.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !file.IsFingerprint(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

// CleanupTemp removes temp files an interrupted save left in the blobs dir and
// returns how many were removed.
func (bc *BlobContext) CleanupTemp() (int, error) {
	entries, err := bc.FS.ReadDir(bc.BlobsDir)
	if err != nil {
		if bc.FS.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		if err := bc.FS.Remove(filepath.Join(bc.BlobsDir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
