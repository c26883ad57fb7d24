package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by every backend when an entity does not exist
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	Catalog() CatalogRepository
	Study() StudyRepository

	Close() error
}
