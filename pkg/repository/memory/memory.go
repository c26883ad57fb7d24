package memory

import (
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	risk    *riskRepository
	catalog *catalogRepository
	study   *studyRepository
}

var _ interfaces.Repository = &Memory{}

type Option func(*Memory)

// WithCatalog starts the repository with the given catalog instead of
// seeding the default one. An empty slice yields an empty catalog.
func WithCatalog(entries []*model.CatalogEntry) Option {
	return func(m *Memory) {
		m.catalog.entries = make([]*model.CatalogEntry, 0, len(entries))
		for _, e := range entries {
			copied := *e
			m.catalog.entries = append(m.catalog.entries, &copied)
		}
		m.catalog.initialized = true
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		risk:    newRiskRepository(),
		catalog: newCatalogRepository(),
		study:   newStudyRepository(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Catalog() interfaces.CatalogRepository {
	return m.catalog
}

func (m *Memory) Study() interfaces.StudyRepository {
	return m.study
}

func (m *Memory) Close() error {
	return nil
}
