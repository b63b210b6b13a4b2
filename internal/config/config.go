package config

import (
	"strings"

	"github.com/corentin-rs/objdb/internal/objdb"
)

// Config represents the complete objdb configuration. It can be loaded from
// .objdb/config.yml with environment variable overrides.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Lock    LockConfig    `yaml:"lock" mapstructure:"lock"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
}

// ServerConfig configures the TCP listener and its worker pool.
type ServerConfig struct {
	BindAddr   string `yaml:"bind_addr" mapstructure:"bind_addr"`
	WorkerPool int    `yaml:"worker_pool" mapstructure:"worker_pool"`
}

// StorageConfig configures the on-disk data root and per-part size budget.
type StorageConfig struct {
	DataDir     string `yaml:"data_dir" mapstructure:"data_dir"`
	PartSizeMax int    `yaml:"part_size_max" mapstructure:"part_size_max"`
}

// LockConfig selects the mutex acquisition mode for every database/table/
// part lock (spec.md §5, §9).
type LockConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"` // "try" or "wait"
}

// CatalogConfig configures the derived SQLite catalog internal/catalog
// maintains for objdb status and the MCP admin surface.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LockMode translates the configured lock mode string to an objdb.LockMode,
// defaulting to the non-blocking try mode for anything but an explicit
// "wait".
func (c *Config) LockMode() objdb.LockMode {
	if strings.EqualFold(c.Lock.Mode, "wait") {
		return objdb.LockWait
	}
	return objdb.LockTry
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddr:   "127.0.0.1:8420",
			WorkerPool: 8,
		},
		Storage: StorageConfig{
			DataDir:     "databases",
			PartSizeMax: 4096,
		},
		Lock: LockConfig{
			Mode: "try",
		},
		Catalog: CatalogConfig{
			Path: ".objdb/catalog.db",
		},
	}
}
