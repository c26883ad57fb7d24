package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

type catalogRepository struct {
	mu          sync.RWMutex
	entries     []*model.CatalogEntry
	initialized bool
}

func newCatalogRepository() *catalogRepository {
	return &catalogRepository{}
}

// ensureInitialized seeds the default catalog. Caller must hold the write lock.
func (r *catalogRepository) ensureInitialized() {
	if r.initialized {
		return
	}
	r.entries = model.DefaultCatalog()
	r.initialized = true
}

func (r *catalogRepository) indexOf(id types.CatalogEntryID) int {
	return slices.IndexFunc(r.entries, func(e *model.CatalogEntry) bool { return e.ID == id })
}

func (r *catalogRepository) Put(ctx context.Context, entry *model.CatalogEntry) error {
	if err := entry.Validate(); err != nil {
		return goerr.Wrap(err, "invalid catalog entry")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureInitialized()

	copied := *entry
	if i := r.indexOf(entry.ID); i >= 0 {
		r.entries[i] = &copied
	} else {
		r.entries = append(r.entries, &copied)
	}
	return nil
}

func (r *catalogRepository) Get(ctx context.Context, id types.CatalogEntryID) (*model.CatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureInitialized()

	i := r.indexOf(id)
	if i < 0 {
		return nil, goerr.Wrap(ErrNotFound, "catalog entry not found", goerr.V("id", id))
	}
	copied := *r.entries[i]
	return &copied, nil
}

func (r *catalogRepository) List(ctx context.Context) ([]*model.CatalogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureInitialized()

	entries := make([]*model.CatalogEntry, 0, len(r.entries))
	for _, e := range r.entries {
		copied := *e
		entries = append(entries, &copied)
	}
	return entries, nil
}

func (r *catalogRepository) Delete(ctx context.Context, id types.CatalogEntryID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureInitialized()

	i := r.indexOf(id)
	if i < 0 {
		return goerr.Wrap(ErrNotFound, "catalog entry not found", goerr.V("id", id))
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return nil
}
