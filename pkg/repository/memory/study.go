package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/grxp/pkg/domain/model"
)

type studyRepository struct {
	mu    sync.RWMutex
	study *model.StudyContext
}

func newStudyRepository() *studyRepository {
	return &studyRepository{}
}

func (r *studyRepository) Get(ctx context.Context) (*model.StudyContext, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.study == nil {
		return nil, nil
	}
	copied := *r.study
	return &copied, nil
}

func (r *studyRepository) Put(ctx context.Context, study *model.StudyContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *study
	r.study = &copied
	return nil
}
