package types

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// RiskID identifies a risk entry
type RiskID string

// NewRiskID generates a new random RiskID
func NewRiskID() RiskID {
	return RiskID(uuid.New().String())
}

// Validate checks if the RiskID is not empty
func (id RiskID) Validate() error {
	if id == "" {
		return goerr.Wrap(ErrInvalidID, "risk ID cannot be empty")
	}
	return nil
}

func (id RiskID) String() string {
	return string(id)
}

// CatalogEntryID identifies a risk template in the catalog
type CatalogEntryID string

// Validate checks if the CatalogEntryID is valid
func (id CatalogEntryID) Validate() error {
	if id == "" {
		return goerr.Wrap(ErrInvalidID, "catalog entry ID cannot be empty")
	}
	if !idPattern.MatchString(string(id)) {
		return goerr.Wrap(ErrInvalidID, "catalog entry ID must be lowercase alphanumeric with hyphens", goerr.V("id", id))
	}
	return nil
}

func (id CatalogEntryID) String() string {
	return string(id)
}
