package config

import (
	"path/filepath"

	"github.com/keshon/ftt/internal/util"
)

// RepoConfig derives every metadata location from the tracked root.
type RepoConfig struct {
	Root string
}

// NewRepoConfig resolves root to an absolute, clean path.
func NewRepoConfig(root string) (*RepoConfig, error) {
	abs, err := util.ResolvePath(root)
	if err != nil {
		return nil, err
	}
	return &RepoConfig{Root: abs}, nil
}

func (c *RepoConfig) MetaPath() string      { return filepath.Join(c.Root, MetaDir) }
func (c *RepoConfig) IgnorePath() string    { return filepath.Join(c.Root, IgnoreFile) }
func (c *RepoConfig) IndexPath() string     { return filepath.Join(c.MetaPath(), IndexFile) }
func (c *RepoConfig) TagsPath() string      { return filepath.Join(c.MetaPath(), TagsFile) }
func (c *RepoConfig) BlobsPath() string     { return filepath.Join(c.MetaPath(), BlobsDir) }
func (c *RepoConfig) SnapshotsPath() string { return filepath.Join(c.MetaPath(), SnapshotsDir) }
func (c *RepoConfig) ConfigPath() string    { return filepath.Join(c.MetaPath(), ConfigFile) }
func (c *RepoConfig) CachePath() string     { return filepath.Join(c.MetaPath(), CacheFile) }
