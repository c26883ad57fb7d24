package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const catalogMetaDoc = "catalog"

type catalogDocument struct {
	ID                 string    `firestore:"id"`
	Seq                int64     `firestore:"seq"`
	Title              string    `firestore:"title"`
	Category           string    `firestore:"category"`
	DreadedEvent       string    `firestore:"dreaded_event"`
	MitigationMeasures string    `firestore:"mitigation_measures"`
	DefaultSeverity    int       `firestore:"default_severity"`
	DefaultLikelihood  string    `firestore:"default_likelihood"`
	UpdatedAt          time.Time `firestore:"updated_at"`
}

type metaDocument struct {
	Initialized bool      `firestore:"initialized"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toCatalogDocument(e *model.CatalogEntry, seq int64) *catalogDocument {
	return &catalogDocument{
		ID:                 e.ID.String(),
		Seq:                seq,
		Title:              e.Title,
		Category:           e.Category,
		DreadedEvent:       e.DreadedEvent,
		MitigationMeasures: e.MitigationMeasures,
		DefaultSeverity:    int(e.DefaultSeverity),
		DefaultLikelihood:  string(e.DefaultLikelihood),
		UpdatedAt:          time.Now().UTC(),
	}
}

func (d *catalogDocument) toModel() *model.CatalogEntry {
	return &model.CatalogEntry{
		ID:                 types.CatalogEntryID(d.ID),
		Title:              d.Title,
		Category:           d.Category,
		DreadedEvent:       d.DreadedEvent,
		MitigationMeasures: d.MitigationMeasures,
		DefaultSeverity:    types.Severity(d.DefaultSeverity),
		DefaultLikelihood:  types.Likelihood(d.DefaultLikelihood),
	}
}

func decodeCatalogEntry(d *catalogDocument) (*model.CatalogEntry, error) {
	entry := d.toModel()
	if err := entry.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid catalog document", goerr.V("id", d.ID))
	}
	return entry, nil
}

type catalogRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCatalogRepository(client *firestore.Client) *catalogRepository {
	return &catalogRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *catalogRepository) catalogCollection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, CatalogCollection))
}

func (r *catalogRepository) metaRef() *firestore.DocumentRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "meta")).Doc(catalogMetaDoc)
}

// ensureInitialized seeds the default catalog once. The meta document
// records the seed so that deleting every entry does not reseed.
func (r *catalogRepository) ensureInitialized(ctx context.Context) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(r.metaRef())
		if err == nil {
			var meta metaDocument
			if err := doc.DataTo(&meta); err != nil {
				return goerr.Wrap(err, "failed to unmarshal catalog meta")
			}
			if meta.Initialized {
				return nil
			}
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get catalog meta")
		}

		base := time.Now().UnixNano()
		for i, entry := range model.DefaultCatalog() {
			docRef := r.catalogCollection().Doc(entry.ID.String())
			if err := tx.Set(docRef, toCatalogDocument(entry, base+int64(i))); err != nil {
				return goerr.Wrap(err, "failed to seed catalog entry", goerr.V("id", entry.ID))
			}
		}
		return tx.Set(r.metaRef(), &metaDocument{Initialized: true, UpdatedAt: time.Now().UTC()})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to initialize catalog")
	}
	return nil
}

func (r *catalogRepository) Put(ctx context.Context, entry *model.CatalogEntry) error {
	if err := entry.Validate(); err != nil {
		return goerr.Wrap(err, "invalid catalog entry")
	}
	if err := r.ensureInitialized(ctx); err != nil {
		return err
	}

	docRef := r.catalogCollection().Doc(entry.ID.String())
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		seq := time.Now().UnixNano()
		doc, err := tx.Get(docRef)
		switch {
		case err == nil:
			var existing catalogDocument
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal catalog entry")
			}
			seq = existing.Seq
		case status.Code(err) != codes.NotFound:
			return goerr.Wrap(err, "failed to get catalog entry")
		}
		return tx.Set(docRef, toCatalogDocument(entry, seq))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put catalog entry", goerr.V("id", entry.ID))
	}
	return nil
}

func (r *catalogRepository) Get(ctx context.Context, id types.CatalogEntryID) (*model.CatalogEntry, error) {
	if err := r.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	doc, err := r.catalogCollection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "catalog entry not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get catalog entry", goerr.V("id", id))
	}

	var entryDoc catalogDocument
	if err := doc.DataTo(&entryDoc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal catalog entry", goerr.V("id", id))
	}
	return decodeCatalogEntry(&entryDoc)
}

func (r *catalogRepository) List(ctx context.Context) ([]*model.CatalogEntry, error) {
	if err := r.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	iter := r.catalogCollection().OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	entries := []*model.CatalogEntry{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate catalog")
		}

		var entryDoc catalogDocument
		if err := doc.DataTo(&entryDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal catalog entry", goerr.V("doc", doc.Ref.ID))
		}
		entry, err := decodeCatalogEntry(&entryDoc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *catalogRepository) Delete(ctx context.Context, id types.CatalogEntryID) error {
	if err := r.ensureInitialized(ctx); err != nil {
		return err
	}

	docRef := r.catalogCollection().Doc(id.String())
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "catalog entry not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get catalog entry", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete catalog entry", goerr.V("id", id))
	}
	return nil
}
