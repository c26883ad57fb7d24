package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound      = goerr.New("configuration file not found")
	ErrInvalidConfig       = goerr.New("invalid configuration")
	ErrUnknownLayoutSize   = goerr.New("unknown layout size")
	ErrDuplicateCatalogID  = goerr.New("duplicate catalog entry ID")
	ErrInvalidBackend      = goerr.New("invalid repository backend")
	ErrConflictingArchives = goerr.New("archive directory and GCS bucket are mutually exclusive")
)

// Context keys for error values
const (
	ConfigPathKey   = "config_path"
	LayoutSizeKey   = "layout_size"
	CatalogIDKey    = "catalog_id"
	CatalogIndexKey = "catalog_index"
	BackendKey      = "backend"
)
