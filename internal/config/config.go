package config

const (
	MetaDir      = ".ftt"
	IgnoreFile   = ".fttignore"
	IndexFile    = "index.json"
	TagsFile     = "tags.json"
	BlobsDir     = "blobs"
	SnapshotsDir = "snapshots"
	ConfigFile   = "config.json"
	CacheFile    = "cache.db"
	StagingDir   = "tmp" // rewind writes land here before being renamed into place

	// TempPrefix names in-flight temp files anywhere under the root.
	TempPrefix = ".ftt-tmp-"
)

const (
	DefaultFingerprint   = "sha256" // only supported fingerprint
	DefaultLogLevel      = "info"
	DefaultBlobCacheSize = 256
)

// EnvPrefix is the prefix viper uses for environment overrides, e.g. FTT_LOG_LEVEL.
const EnvPrefix = "FTT"
