package meta

import (
	"fmt"

	"github.com/keshon/ftt/internal/config"
	"github.com/keshon/ftt/internal/errs"
	"github.com/keshon/ftt/internal/fs"
)

// MetaContext owns the .ftt layout of one tracked root.
type MetaContext struct {
	Config *config.RepoConfig
	FS     fs.FS
}

// NewMeta ensures the metadata layout exists at the configured root, creating
// whatever is missing. Existing index, tags and settings are left as they are.
// created reports whether the metadata dir did not exist before.
func NewMeta(cfg *config.RepoConfig, fsys fs.FS) (mc *MetaContext, created bool, err error) {
	if cfg == nil {
		return nil, false, fmt.Errorf("nil RepoConfig provided")
	}
	mc = &MetaContext{Config: cfg, FS: fsys}
	created = !IsMetaExists(cfg, fsys)
	if err := mc.createMetaStructure(); err != nil {
		return nil, false, err
	}
	return mc, created, nil
}

// OpenMeta returns the MetaContext of an initialized root.
func OpenMeta(cfg *config.RepoConfig, fsys fs.FS) (*MetaContext, error) {
	if !IsMetaExists(cfg, fsys) {
		return nil, fmt.Errorf("%s: %w", cfg.Root, errs.ErrNotInitialized)
	}
	return &MetaContext{Config: cfg, FS: fsys}, nil
}

// createMetaStructure builds the meta layout and writes defaults.
func (mc *MetaContext) createMetaStructure() error {
	cfg := mc.Config
	for _, d := range []string{cfg.MetaPath(), cfg.BlobsPath(), cfg.SnapshotsPath()} {
		if err := mc.FS.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create dir %q: %w: %w", d, errs.ErrIOFailure, err)
		}
	}

	if !mc.FS.Exists(cfg.ConfigPath()) {
		if err := config.WriteSettings(mc.FS, cfg, config.DefaultSettings()); err != nil {
			return fmt.Errorf("write %s: %w: %w", config.ConfigFile, errs.ErrIOFailure, err)
		}
	}
	if !mc.FS.Exists(cfg.TagsPath()) {
		if err := mc.SaveTags(NewTagRegistry()); err != nil {
			return err
		}
	}
	return nil
}

// IsMetaExists checks if the root has a metadata directory.
func IsMetaExists(cfg *config.RepoConfig, fsys fs.FS) bool {
	return fsys.IsDir(cfg.MetaPath())
}
