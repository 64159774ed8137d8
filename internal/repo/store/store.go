package store

import (
	"fmt"

	"github.com/keshon/ftt/internal/config"
	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/repo/store/blob"
	"github.com/keshon/ftt/internal/repo/store/file"
	"github.com/keshon/ftt/internal/repo/store/snapshot"
)

// StoreContext is the high-level store abstraction that unifies all subsystems.
type StoreContext struct {
	Config      *config.RepoConfig
	BlobCtx     *blob.BlobContext
	FileCtx     *file.FileContext
	SnapshotCtx *snapshot.SnapshotContext
}

// NewStoreOptions allows optional dependency injection.
type NewStoreOptions struct {
	FS            fs.FS
	BlobCacheSize int
	Cache         file.FingerprintCache
	BlobCtx       *blob.BlobContext
	FileCtx       *file.FileContext
	SnapshotCtx   *snapshot.SnapshotContext
}

// NewStoreDefault creates a store over the OS filesystem.
func NewStoreDefault(cfg *config.RepoConfig) (*StoreContext, error) {
	return NewStore(cfg, nil)
}

// NewStore creates a store with optional dependencies. The metadata layout
// must already exist; see meta.NewMeta.
func NewStore(cfg *config.RepoConfig, opts *NewStoreOptions) (*StoreContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}
	if opts == nil {
		opts = &NewStoreOptions{}
	}

	fsys := fs.FS(fs.NewOSFS())
	if opts.FS != nil {
		fsys = opts.FS
	}

	cacheSize := opts.BlobCacheSize
	if cacheSize <= 0 {
		cacheSize = config.DefaultBlobCacheSize
	}
	blobCtx := blob.NewBlobContext(cfg.BlobsPath(), fsys, cacheSize)
	if opts.BlobCtx != nil {
		blobCtx = opts.BlobCtx
	}

	fileCtx := file.NewFileContext(cfg.Root, fsys)
	if opts.Cache != nil {
		fileCtx.Cache = opts.Cache
	}
	if opts.FileCtx != nil {
		fileCtx = opts.FileCtx
	}

	snapshotCtx := snapshot.NewSnapshotContext(cfg.IndexPath(), cfg.SnapshotsPath(), fsys)
	if opts.SnapshotCtx != nil {
		snapshotCtx = opts.SnapshotCtx
	}

	return &StoreContext{
		Config:      cfg,
		BlobCtx:     blobCtx,
		FileCtx:     fileCtx,
		SnapshotCtx: snapshotCtx,
	}, nil
}
