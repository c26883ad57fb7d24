package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrRiskNotFound         = errors.New("risk not found")
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")

	// Import errors
	ErrInvalidImport = errors.New("invalid import data")
	ErrUnknownFormat = errors.New("unknown format")

	// Seeding is refused on a study that already has entries
	ErrStudyNotEmpty = errors.New("study already has risk entries")

	// Publishing needs an archive destination
	ErrNoArchiver = errors.New("no archive destination configured")
)

// Context keys for error values
const (
	RiskIDKey    = "risk_id"
	CatalogIDKey = "catalog_id"
	FormatKey    = "format"
	LineKey      = "line"
)
