// Package repo ties the stores and engines of one tracked root together. Every
// operation reloads the index and tag registry from disk, mutates a copy and
// writes the whole structure back.
package repo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/keshon/ftt/internal/config"
	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/progress"
	"github.com/keshon/ftt/internal/repo/meta"
	"github.com/keshon/ftt/internal/repo/store"
	"github.com/keshon/ftt/internal/repo/store/cache"
)

// Repository represents an initialized tracked root.
type Repository struct {
	Config   *config.RepoConfig
	Settings config.Settings
	Meta     *meta.MetaContext
	Store    *store.StoreContext

	cache    *cache.CacheContext
	now      func() time.Time
	progress progress.Factory
}

// Options allows optional dependency injection.
type Options struct {
	FS       fs.FS            // defaults to the OS filesystem
	Now      func() time.Time // defaults to time.Now
	Progress progress.Factory // defaults to progress.Nop
}

func (o *Options) fs() fs.FS {
	if o != nil && o.FS != nil {
		return o.FS
	}
	return fs.NewOSFS()
}

func (o *Options) progressFactory() progress.Factory {
	if o != nil && o.Progress != nil {
		return o.Progress
	}
	return progress.Nop
}

func (o *Options) clock() func() time.Time {
	if o != nil && o.Now != nil {
		return o.Now
	}
	return time.Now
}

// InitAt initializes the metadata directory under root. Running it on an
// initialized root is safe; created reports whether anything was new.
func InitAt(ctx context.Context, root string, opts *Options) (*Repository, bool, error) {
	cfg, err := config.NewRepoConfig(root)
	if err != nil {
		return nil, false, fmt.Errorf("resolve root %q: %w", root, err)
	}
	fsys := opts.fs()
	if !fsys.IsDir(cfg.Root) {
		return nil, false, fmt.Errorf("root %q is not a directory", cfg.Root)
	}

	mc, created, err := meta.NewMeta(cfg, fsys)
	if err != nil {
		return nil, false, fmt.Errorf("init metadata: %w", err)
	}
	r, err := open(ctx, cfg, mc, fsys, opts)
	if err != nil {
		return nil, false, err
	}
	slog.DebugContext(ctx, "init", "root", cfg.Root, "created", created)
	return r, created, nil
}

// OpenAt opens an initialized root. An uninitialized root yields ErrNotInitialized.
func OpenAt(ctx context.Context, root string, opts *Options) (*Repository, error) {
	cfg, err := config.NewRepoConfig(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	fsys := opts.fs()
	mc, err := meta.OpenMeta(cfg, fsys)
	if err != nil {
		return nil, err
	}
	return open(ctx, cfg, mc, fsys, opts)
}

func open(ctx context.Context, cfg *config.RepoConfig, mc *meta.MetaContext, fsys fs.FS, opts *Options) (*Repository, error) {
	settings, err := config.LoadSettings(cfg)
	if err != nil {
		return nil, err
	}

	r := &Repository{
		Config:   cfg,
		Settings: settings,
		Meta:     mc,
		now:      opts.clock(),
		progress: opts.progressFactory(),
	}

	storeOpts := &store.NewStoreOptions{FS: fsys, BlobCacheSize: settings.BlobCacheSize}
	if settings.ScanCache {
		// the cache database lives on the real disk
		if _, onDisk := fsys.(*fs.OSFS); onDisk {
			c, err := cache.Open(cfg.CachePath())
			if err != nil {
				slog.WarnContext(ctx, "fingerprint cache unavailable, hashing every file", "error", err)
			} else {
				r.cache = c
				storeOpts.Cache = c
			}
		}
	}

	st, err := store.NewStore(cfg, storeOpts)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("init store: %w", err)
	}
	r.Store = st
	return r, nil
}

// Close releases the fingerprint cache, if one is open.
func (r *Repository) Close() error {
	if r.cache == nil {
		return nil
	}
	err := r.cache.Close()
	r.cache = nil
	return err
}
