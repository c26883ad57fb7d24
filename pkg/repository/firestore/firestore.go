package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = interfaces.ErrNotFound

type Firestore struct {
	client  *firestore.Client
	risk    *riskRepository
	catalog *catalogRepository
	study   *studyRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.risk.collectionPrefix = prefix
		f.catalog.collectionPrefix = prefix
		f.study.collectionPrefix = prefix
	}
}

// New connects to the given database. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{
		client:  client,
		risk:    newRiskRepository(client),
		catalog: newCatalogRepository(client),
		study:   newStudyRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Catalog() interfaces.CatalogRepository {
	return f.catalog
}

func (f *Firestore) Study() interfaces.StudyRepository {
	return f.study
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// Names of the collections holding ordered documents
const (
	RiskCollection    = "risks"
	CatalogCollection = "catalog"
)

// CollectionName returns the collection name used under prefix
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
