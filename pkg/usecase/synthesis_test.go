package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/usecase"
)

func synthesisFixture() (*model.StudyContext, []*model.RiskEntry) {
	study := &model.StudyContext{
		StudyName:       "PHEL-182",
		Aircraft:        "NH90",
		Date:            "2024-05-01",
		GlobalSynthesis: "Acceptable.",
	}
	risks := []*model.RiskEntry{
		{
			ID:                 "deck",
			ActivityTitle:      "Deck landing",
			Experimentation:    "SHOL",
			MitigationMeasures: "LSO",
			InitialRisk:        rated(types.SeverityCatastrophic, types.LikelihoodOccasional),
			ResidualRisk:       rated(types.SeverityCritical, types.LikelihoodRare),
		},
		{
			ID:                 "bird",
			ActivityTitle:      "Bird strike",
			MitigationMeasures: "Visor",
			InitialRisk:        rated(types.SeverityModerate, types.LikelihoodVeryImprobable),
			ResidualRisk:       rated(types.SeverityModerate, types.LikelihoodVeryImprobable),
		},
		{
			ID:              "flutter",
			ActivityTitle:   "Flutter",
			Experimentation: "SHOL",
			InitialRisk:     rated(types.SeverityCritical, types.LikelihoodRare),
			ResidualRisk:    rated(types.SeverityCatastrophic, types.LikelihoodOccasional),
		},
	}
	return study, risks
}

func TestSummarize(t *testing.T) {
	study, risks := synthesisFixture()
	s := usecase.Summarize(study, risks)

	gt.N(t, s.Total).Equal(3)
	gt.A(t, s.Cells).Length(16)

	unacceptable := s.Cell(matrix.Cell{Severity: types.SeverityCatastrophic, Likelihood: types.LikelihoodOccasional})
	gt.Value(t, unacceptable).NotNil().Required()
	gt.N(t, unacceptable.Count).Equal(1)
	gt.Value(t, unacceptable.Level).Equal(types.RiskLevelUnacceptable)
	gt.Value(t, unacceptable.Risks[0].ID).Equal(types.RiskID("flutter"))

	empty := s.Cell(matrix.Cell{Severity: types.SeverityNegligible, Likelihood: types.LikelihoodFrequent})
	gt.N(t, empty.Count).Equal(0)
	gt.A(t, empty.Risks).Length(0)

	gt.Value(t, s.Levels).Equal([]usecase.LevelCount{
		{Level: types.RiskLevelUnacceptable, Initial: 1, Residual: 1},
		{Level: types.RiskLevelHigh, Initial: 0, Residual: 0},
		{Level: types.RiskLevelLow, Initial: 1, Residual: 1},
		{Level: types.RiskLevelUsual, Initial: 1, Residual: 1},
	})
	gt.Value(t, s.Trends).Equal(map[types.Trend]int{
		types.TrendImproved:  1,
		types.TrendUnchanged: 1,
		types.TrendRegressed: 1,
	})

	var ids []types.RiskID
	for _, r := range s.Risks {
		ids = append(ids, r.ID)
	}
	gt.Value(t, ids).Equal([]types.RiskID{"flutter", "deck", "bird"})

	counts := s.Counts()
	gt.N(t, len(counts)).Equal(16)
	gt.N(t, counts[matrix.Cell{Severity: types.SeverityCritical, Likelihood: types.LikelihoodRare}]).Equal(1)

	// input order untouched
	gt.Value(t, risks[0].ID).Equal(types.RiskID("deck"))
}

func TestSynthesis_WriteText(t *testing.T) {
	study, risks := synthesisFixture()

	var buf bytes.Buffer
	gt.NoError(t, usecase.Summarize(study, risks).WriteText(&buf)).Required()

	want := "GRXP SYNTHESIS\n" +
		"STUDY: PHEL-182 (NH90)\n" +
		"DATE: 2024-05-01\n" +
		"---------------------------\n" +
		"GLOBAL SYNTHESIS: Acceptable.\n" +
		"\n" +
		"RESIDUAL RISK DETAILS:\n" +
		"\n" +
		"EXPERIMENTATION: SHOL\n" +
		"- Flutter: UNACCEPTABLE (S4/LC)\n" +
		"  Mitigation: \n" +
		"- Deck landing: LOW (S3/LB)\n" +
		"  Mitigation: LSO\n" +
		"\n" +
		"EXPERIMENTATION: GENERAL\n" +
		"- Bird strike: USUAL (S2/LA)\n" +
		"  Mitigation: Visor\n"
	gt.Value(t, buf.String()).Equal(want)
}

func TestSynthesisUseCase(t *testing.T) {
	uc, _ := newUseCases(t)
	ctx := context.Background()
	_, err := uc.Data.Seed(ctx, false)
	gt.NoError(t, err).Required()

	s, err := uc.Synthesis.Build(ctx)
	gt.NoError(t, err).Required()
	gt.N(t, s.Total).Equal(5)
	gt.Value(t, s.Study.StudyName).Equal(model.DefaultStudyName)

	inCell, err := uc.Synthesis.RisksInCell(ctx, matrix.Cell{Severity: types.SeverityModerate, Likelihood: types.LikelihoodRare})
	gt.NoError(t, err).Required()
	gt.A(t, inCell).Length(2)

	_, err = uc.Synthesis.RisksInCell(ctx, matrix.Cell{Severity: 0, Likelihood: types.LikelihoodRare})
	gt.Error(t, err).Is(types.ErrInvalidSeverity)
}
