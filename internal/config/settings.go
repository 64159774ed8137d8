package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/keshon/ftt/internal/fs"
	"github.com/keshon/ftt/internal/util"
)

// Settings are the per-root options stored in .ftt/config.json.
type Settings struct {
	Fingerprint   string `mapstructure:"fingerprint" json:"fingerprint"`
	LogLevel      string `mapstructure:"log_level" json:"log_level"`
	ScanCache     bool   `mapstructure:"scan_cache" json:"scan_cache"`
	BlobCacheSize int    `mapstructure:"blob_cache_size" json:"blob_cache_size"`
}

func DefaultSettings() Settings {
	return Settings{
		Fingerprint:   DefaultFingerprint,
		LogLevel:      DefaultLogLevel,
		BlobCacheSize: DefaultBlobCacheSize,
	}
}

// LoadSettings reads the root's config.json through a private viper instance.
// A missing file yields defaults; FTT_* environment variables override the file.
func LoadSettings(c *RepoConfig) (Settings, error) {
	v := viper.New()
	def := DefaultSettings()
	v.SetDefault("fingerprint", def.Fingerprint)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("scan_cache", def.ScanCache)
	v.SetDefault("blob_cache_size", def.BlobCacheSize)

	v.SetConfigFile(c.ConfigPath())
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("config read '%s': %w", c.ConfigPath(), err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config decode: %w", err)
	}
	if s.Fingerprint != DefaultFingerprint {
		return Settings{}, fmt.Errorf("unsupported fingerprint %q (only %q)", s.Fingerprint, DefaultFingerprint)
	}
	if s.BlobCacheSize <= 0 {
		s.BlobCacheSize = DefaultBlobCacheSize
	}
	return s, nil
}

// WriteSettings persists s as the root's config.json.
func WriteSettings(fsys fs.FS, c *RepoConfig, s Settings) error {
	return util.WriteJSON(fsys, c.ConfigPath(), s)
}
