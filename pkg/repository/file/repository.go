package file

import (
	"context"

	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/repository/memory"
)

type riskRepository struct {
	f *File
}

func (r *riskRepository) Put(ctx context.Context, risk *model.RiskEntry) error {
	return r.f.mutate(ctx, func(m *memory.Memory) error { return m.Risk().Put(ctx, risk) })
}

func (r *riskRepository) Get(ctx context.Context, id types.RiskID) (*model.RiskEntry, error) {
	return r.f.current().Risk().Get(ctx, id)
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskEntry, error) {
	return r.f.current().Risk().List(ctx)
}

func (r *riskRepository) Delete(ctx context.Context, id types.RiskID) error {
	return r.f.mutate(ctx, func(m *memory.Memory) error { return m.Risk().Delete(ctx, id) })
}

func (r *riskRepository) ReplaceAll(ctx context.Context, risks []*model.RiskEntry) error {
	return r.f.mutate(ctx, func(m *memory.Memory) error { return m.Risk().ReplaceAll(ctx, risks) })
}

type catalogRepository struct {
	f *File
}

func (r *catalogRepository) Put(ctx context.Context, entry *model.CatalogEntry) error {
	return r.f.mutate(ctx, func(m *memory.Memory) error { return m.Catalog().Put(ctx, entry) })
}

func (r *catalogRepository) Get(ctx context.Context, id types.CatalogEntryID) (*model.CatalogEntry, error) {
	return r.f.current().Catalog().Get(ctx, id)
}

func (r *catalogRepository) List(ctx context.Context) ([]*model.CatalogEntry, error) {
	return r.f.current().Catalog().List(ctx)
}

func (r *catalogRepository) Delete(ctx context.Context, id types.CatalogEntryID) error {
	return r.f.mutate(ctx, func(m *memory.Memory) error { return m.Catalog().Delete(ctx, id) })
}

type studyRepository struct {
	f *File
}

func (r *studyRepository) Get(ctx context.Context) (*model.StudyContext, error) {
	return r.f.current().Study().Get(ctx)
}

func (r *studyRepository) Put(ctx context.Context, study *model.StudyContext) error {
	return r.f.mutate(ctx, func(m *memory.Memory) error { return m.Study().Put(ctx, study) })
}
