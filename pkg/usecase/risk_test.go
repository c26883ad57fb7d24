package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/usecase"
)

func TestRiskUseCase_NewRisk(t *testing.T) {
	uc, repo := newUseCases(t)
	ctx := context.Background()

	gt.NoError(t, uc.Study.SaveStudy(ctx, &model.StudyContext{
		StudyName: "PHEL-182",
		Aircraft:  "NH90 Caiman",
		Date:      "2024-04-30",
	})).Required()

	risk, err := uc.Risk.NewRisk(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, risk.StudyNumber).Equal("PHEL-182")
	gt.Value(t, risk.Aircraft).Equal("NH90 Caiman")
	gt.Value(t, risk.InitialRisk).Equal(model.DefaultAssessment())
	gt.Value(t, risk.ResidualRisk).Equal(model.DefaultAssessment())
	gt.Value(t, risk.UpdatedAt).Equal(testNow)
	gt.B(t, risk.ID != "").True()

	// not stored until saved
	stored, err := repo.Risk().List(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, stored).Length(0)
}

func TestRiskUseCase_CreateFromCatalog(t *testing.T) {
	t.Run("template rating on both assessments", func(t *testing.T) {
		uc, _ := newUseCases(t)
		ctx := context.Background()

		risk, err := uc.Risk.CreateFromCatalog(ctx, "cat-2")
		gt.NoError(t, err).Required()

		gt.Value(t, risk.ActivityTitle).Equal("Deck landing in rough sea (SHOL)")
		gt.Value(t, risk.Experimentation).Equal(usecase.DefaultExperimentation)
		gt.S(t, risk.DreadedEvent).Contains("sliding on deck")
		want := model.Assessment{
			Severity:      types.SeverityCatastrophic,
			Likelihood:    types.LikelihoodOccasional,
			Exposure:      types.ExposureSignificant,
			Detectability: types.DetectabilityExploitable,
		}
		gt.Value(t, risk.InitialRisk).Equal(want)
		gt.Value(t, risk.ResidualRisk).Equal(want)

		got, err := uc.Risk.GetRisk(ctx, risk.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ActivityTitle).Equal(risk.ActivityTitle)
	})

	t.Run("unknown template", func(t *testing.T) {
		uc, _ := newUseCases(t)
		_, err := uc.Risk.CreateFromCatalog(context.Background(), "cat-99")
		gt.Error(t, err).Is(usecase.ErrCatalogEntryNotFound)
	})
}

func TestApplyTemplate(t *testing.T) {
	risk := model.NewRiskEntry(testNow)
	residual := rated(types.SeverityNegligible, types.LikelihoodVeryImprobable)
	risk.ResidualRisk = residual

	usecase.ApplyTemplate(risk, &model.CatalogEntry{
		ID:                 "hoist",
		Title:              "Hoist cable failure",
		DreadedEvent:       "Cable break",
		MitigationMeasures: "Cutter",
		DefaultSeverity:    types.SeverityCritical,
		DefaultLikelihood:  types.LikelihoodRare,
	})

	gt.Value(t, risk.ActivityTitle).Equal("Hoist cable failure")
	gt.Value(t, risk.DreadedEvent).Equal("Cable break")
	gt.Value(t, risk.MitigationMeasures).Equal("Cutter")
	gt.Value(t, risk.InitialRisk.Severity).Equal(types.SeverityCritical)
	gt.Value(t, risk.InitialRisk.Likelihood).Equal(types.LikelihoodRare)
	gt.Value(t, risk.InitialRisk.Exposure).Equal(types.ExposureStrong)
	gt.Value(t, risk.ResidualRisk).Equal(residual)
}

func TestRiskUseCase_SaveRisk(t *testing.T) {
	t.Run("assigns ID and stamps time", func(t *testing.T) {
		uc, _ := newUseCases(t)
		saved := putRisk(t, uc, "Bird strike", "", rated(types.SeverityModerate, types.LikelihoodOccasional), rated(types.SeverityModerate, types.LikelihoodRare))

		gt.B(t, saved.ID != "").True()
		gt.Value(t, saved.UpdatedAt).Equal(testNow)
	})

	t.Run("rejects invalid rating", func(t *testing.T) {
		uc, repo := newUseCases(t)
		ctx := context.Background()

		_, err := uc.Risk.SaveRisk(ctx, &model.RiskEntry{
			InitialRisk:  rated(types.Severity(5), types.LikelihoodRare),
			ResidualRisk: rated(types.SeverityModerate, types.LikelihoodRare),
		})
		gt.Error(t, err).Is(types.ErrInvalidSeverity)

		stored, err := repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, stored).Length(0)
	})
}

func TestRiskUseCase_ListRisks(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()
	low := rated(types.SeverityNegligible, types.LikelihoodVeryImprobable)

	putRisk(t, uc, "a", "", low, rated(types.SeverityModerate, types.LikelihoodVeryImprobable))
	putRisk(t, uc, "b", "", low, rated(types.SeverityCatastrophic, types.LikelihoodRare))
	putRisk(t, uc, "c", "", low, rated(types.SeverityCatastrophic, types.LikelihoodFrequent))
	putRisk(t, uc, "d", "", low, rated(types.SeverityModerate, types.LikelihoodOccasional))
	putRisk(t, uc, "e", "", low, rated(types.SeverityModerate, types.LikelihoodOccasional))

	risks, err := uc.Risk.ListRisks(ctx)
	gt.NoError(t, err).Required()

	var titles []string
	for _, r := range risks {
		titles = append(titles, r.ActivityTitle)
	}
	gt.Value(t, titles).Equal([]string{"c", "b", "d", "e", "a"})
}

func TestRiskUseCase_Rate(t *testing.T) {
	t.Run("rates the residual assessment", func(t *testing.T) {
		uc, _ := newUseCases(t)
		ctx := context.Background()
		risk := putRisk(t, uc, "flutter", "", rated(types.SeverityCatastrophic, types.LikelihoodRare), rated(types.SeverityCatastrophic, types.LikelihoodRare))

		updated, err := uc.Risk.Rate(ctx, risk.ID, types.PhaseResidual,
			types.SeverityModerate, types.LikelihoodRare, types.ExposureLow, types.DetectabilityTotal)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.ResidualRisk.Level()).Equal(types.RiskLevelLow)
		gt.Value(t, updated.InitialRisk.Level()).Equal(types.RiskLevelHigh)
		gt.Value(t, updated.Trend()).Equal(types.TrendImproved)
	})

	t.Run("invalid value leaves entry unchanged", func(t *testing.T) {
		uc, _ := newUseCases(t)
		ctx := context.Background()
		before := rated(types.SeverityCritical, types.LikelihoodOccasional)
		risk := putRisk(t, uc, "nvg", "", before, before)

		_, err := uc.Risk.Rate(ctx, risk.ID, types.PhaseInitial,
			types.SeverityCritical, types.Likelihood("E"), types.ExposureLow, types.DetectabilityTotal)
		gt.Error(t, err).Is(types.ErrInvalidLikelihood)

		got, err := uc.Risk.GetRisk(ctx, risk.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.InitialRisk).Equal(before)
	})

	t.Run("unknown phase", func(t *testing.T) {
		uc, _ := newUseCases(t)
		ctx := context.Background()
		a := rated(types.SeverityCritical, types.LikelihoodOccasional)
		risk := putRisk(t, uc, "nvg", "", a, a)

		_, err := uc.Risk.Rate(ctx, risk.ID, types.Phase("final"),
			types.SeverityCritical, types.LikelihoodRare, types.ExposureLow, types.DetectabilityTotal)
		gt.Error(t, err).Is(types.ErrInvalidPhase)
	})

	t.Run("unknown risk", func(t *testing.T) {
		uc, _ := newUseCases(t)
		_, err := uc.Risk.Rate(context.Background(), "missing", types.PhaseInitial,
			types.SeverityCritical, types.LikelihoodRare, types.ExposureLow, types.DetectabilityTotal)
		gt.Error(t, err).Is(usecase.ErrRiskNotFound)
	})
}

func TestRiskUseCase_DeleteRisk(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()
	a := rated(types.SeverityCritical, types.LikelihoodOccasional)
	risk := putRisk(t, uc, "nvg", "", a, a)

	gt.NoError(t, uc.Risk.DeleteRisk(ctx, risk.ID)).Required()

	_, err := uc.Risk.GetRisk(ctx, risk.ID)
	gt.Error(t, err).Is(usecase.ErrRiskNotFound)
	gt.Error(t, uc.Risk.DeleteRisk(ctx, risk.ID)).Is(usecase.ErrRiskNotFound)
}
