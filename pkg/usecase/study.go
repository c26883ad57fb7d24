package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
)

type StudyUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewStudyUseCase(repo interfaces.Repository, now func() time.Time) *StudyUseCase {
	return &StudyUseCase{
		repo: repo,
		now:  now,
	}
}

// GetStudy returns the stored study context, or a fresh one dated today
// when nothing has been saved yet. The fresh context is not persisted.
func (uc *StudyUseCase) GetStudy(ctx context.Context) (*model.StudyContext, error) {
	study, err := uc.repo.Study().Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get study context")
	}
	if study == nil {
		return model.NewStudyContext(uc.now()), nil
	}
	return study, nil
}

func (uc *StudyUseCase) SaveStudy(ctx context.Context, study *model.StudyContext) error {
	if err := uc.repo.Study().Put(ctx, study); err != nil {
		return goerr.Wrap(err, "failed to save study context")
	}
	return nil
}

// StartNewStudy drops every risk entry and resets the study context. The
// catalog is kept.
func (uc *StudyUseCase) StartNewStudy(ctx context.Context) (*model.StudyContext, error) {
	if err := uc.repo.Risk().ReplaceAll(ctx, nil); err != nil {
		return nil, goerr.Wrap(err, "failed to clear risks")
	}

	study := model.NewStudyContext(uc.now())
	if err := uc.repo.Study().Put(ctx, study); err != nil {
		return nil, goerr.Wrap(err, "failed to reset study context")
	}

	logging.From(ctx).Info("new study started", "date", study.Date)
	return study, nil
}
