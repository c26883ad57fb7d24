package interfaces

import (
	"context"

	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// CatalogRepository stores hazard templates
type CatalogRepository interface {
	// Put inserts or replaces a catalog entry
	Put(ctx context.Context, entry *model.CatalogEntry) error

	// Get retrieves a catalog entry by ID
	Get(ctx context.Context, id types.CatalogEntryID) (*model.CatalogEntry, error)

	// List retrieves all catalog entries. A catalog that has never been
	// written to is seeded with model.DefaultCatalog on first access.
	List(ctx context.Context) ([]*model.CatalogEntry, error)

	// Delete deletes a catalog entry by ID
	Delete(ctx context.Context, id types.CatalogEntryID) error
}
