package usecase

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// DefaultExperimentation is given to entries created straight from the catalog
const DefaultExperimentation = "New experimentation"

type RiskUseCase struct {
	repo     interfaces.Repository
	study    *StudyUseCase
	notifier *notifier
	now      func() time.Time
}

func NewRiskUseCase(repo interfaces.Repository, study *StudyUseCase, now func() time.Time) *RiskUseCase {
	return &RiskUseCase{
		repo:  repo,
		study: study,
		now:   now,
	}
}

// NewRisk builds an unsaved entry rated at the worst case, with the study
// name and aircraft taken from the current study context.
func (uc *RiskUseCase) NewRisk(ctx context.Context) (*model.RiskEntry, error) {
	study, err := uc.study.GetStudy(ctx)
	if err != nil {
		return nil, err
	}

	risk := model.NewRiskEntry(uc.now())
	risk.StudyNumber = study.StudyName
	risk.Aircraft = study.Aircraft
	return risk, nil
}

// ApplyTemplate copies a catalog entry into risk. Only the initial
// assessment takes the template rating.
func ApplyTemplate(risk *model.RiskEntry, entry *model.CatalogEntry) {
	risk.ActivityTitle = entry.Title
	risk.DreadedEvent = entry.DreadedEvent
	risk.MitigationMeasures = entry.MitigationMeasures
	risk.InitialRisk.Severity = entry.DefaultSeverity
	risk.InitialRisk.Likelihood = entry.DefaultLikelihood
}

// CreateFromCatalog saves a new entry built from a catalog template. Both
// assessments start at the template rating with significant exposure and
// exploitable detectability.
func (uc *RiskUseCase) CreateFromCatalog(ctx context.Context, id types.CatalogEntryID) (*model.RiskEntry, error) {
	entry, err := uc.repo.Catalog().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrCatalogEntryNotFound, "catalog entry not found", goerr.V(CatalogIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get catalog entry", goerr.V(CatalogIDKey, id))
	}

	risk, err := uc.NewRisk(ctx)
	if err != nil {
		return nil, err
	}
	ApplyTemplate(risk, entry)
	risk.Experimentation = DefaultExperimentation

	rating := model.Assessment{
		Severity:      entry.DefaultSeverity,
		Likelihood:    entry.DefaultLikelihood,
		Exposure:      types.ExposureSignificant,
		Detectability: types.DetectabilityExploitable,
	}
	risk.InitialRisk = rating
	risk.ResidualRisk = rating

	if err := uc.repo.Risk().Put(ctx, risk); err != nil {
		return nil, goerr.Wrap(err, "failed to save risk", goerr.V(RiskIDKey, risk.ID))
	}
	return risk, nil
}

// SaveRisk validates and stores the entry, stamping UpdatedAt
func (uc *RiskUseCase) SaveRisk(ctx context.Context, risk *model.RiskEntry) (*model.RiskEntry, error) {
	if risk.ID == "" {
		risk.ID = types.NewRiskID()
	}
	if err := risk.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk entry")
	}

	saved := risk.Copy()
	saved.UpdatedAt = uc.now()
	if err := uc.repo.Risk().Put(ctx, saved); err != nil {
		return nil, goerr.Wrap(err, "failed to save risk", goerr.V(RiskIDKey, risk.ID))
	}
	return saved, nil
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, id types.RiskID) (*model.RiskEntry, error) {
	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(RiskIDKey, id))
	}
	return risk, nil
}

// ListRisks returns every entry, worst residual rating first
func (uc *RiskUseCase) ListRisks(ctx context.Context) ([]*model.RiskEntry, error) {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	SortByResidual(risks)
	return risks, nil
}

// SortByResidual orders entries by residual severity, then residual
// likelihood, both descending. Ties keep their stored order.
func SortByResidual(risks []*model.RiskEntry) {
	slices.SortStableFunc(risks, func(a, b *model.RiskEntry) int {
		if a.ResidualRisk.Severity != b.ResidualRisk.Severity {
			return int(b.ResidualRisk.Severity) - int(a.ResidualRisk.Severity)
		}
		return b.ResidualRisk.Likelihood.Rank() - a.ResidualRisk.Likelihood.Rank()
	})
}

func (uc *RiskUseCase) DeleteRisk(ctx context.Context, id types.RiskID) error {
	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrRiskNotFound, "risk not found", goerr.V(RiskIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete risk", goerr.V(RiskIDKey, id))
	}
	return nil
}

// Rate replaces one assessment of a stored entry. Invalid values leave the
// entry unchanged.
func (uc *RiskUseCase) Rate(ctx context.Context, id types.RiskID, phase types.Phase, s types.Severity, l types.Likelihood, e types.Exposure, d types.Detectability) (*model.RiskEntry, error) {
	risk, err := uc.GetRisk(ctx, id)
	if err != nil {
		return nil, err
	}

	assessment, err := risk.Assessment(phase)
	if err != nil {
		return nil, err
	}
	before := assessment.Level()
	if err := assessment.Rate(s, l, e, d); err != nil {
		return nil, goerr.Wrap(err, "invalid rating", goerr.V(RiskIDKey, id), goerr.V("phase", phase))
	}

	saved, err := uc.SaveRisk(ctx, risk)
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil && phase == types.PhaseResidual &&
		before != types.RiskLevelUnacceptable && saved.ResidualRisk.Level() == types.RiskLevelUnacceptable {
		uc.notifier.residualUnacceptable(ctx, saved)
	}
	return saved, nil
}
