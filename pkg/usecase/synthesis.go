package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// GeneralExperimentation groups entries that have no experimentation
const GeneralExperimentation = "General"

// CellSummary holds the entries whose residual rating falls in one cell
type CellSummary struct {
	Cell  matrix.Cell        `json:"cell"`
	Level types.RiskLevel    `json:"level"`
	Risks []*model.RiskEntry `json:"-"`
	Count int                `json:"count"`
}

// LevelCount counts entries per level before and after mitigation
type LevelCount struct {
	Level    types.RiskLevel `json:"level"`
	Initial  int             `json:"initial"`
	Residual int             `json:"residual"`
}

// Synthesis is the study-wide view of the residual matrix
type Synthesis struct {
	Study  *model.StudyContext `json:"study"`
	Total  int                 `json:"total"`
	Cells  []*CellSummary      `json:"cells"`
	Levels []LevelCount        `json:"levels"`
	Trends map[types.Trend]int `json:"trends"`
	// Risks is every entry, worst residual rating first
	Risks []*model.RiskEntry `json:"risks"`
}

// Cell returns the summary of one cell, or nil for an invalid cell
func (s *Synthesis) Cell(c matrix.Cell) *CellSummary {
	for _, cs := range s.Cells {
		if cs.Cell == c {
			return cs
		}
	}
	return nil
}

// Counts returns the number of entries per residual cell
func (s *Synthesis) Counts() map[matrix.Cell]int {
	counts := make(map[matrix.Cell]int, len(s.Cells))
	for _, cs := range s.Cells {
		counts[cs.Cell] = cs.Count
	}
	return counts
}

type SynthesisUseCase struct {
	repo  interfaces.Repository
	study *StudyUseCase
}

func NewSynthesisUseCase(repo interfaces.Repository, study *StudyUseCase) *SynthesisUseCase {
	return &SynthesisUseCase{
		repo:  repo,
		study: study,
	}
}

// Summarize groups the given entries by residual cell and counts levels and trends
func Summarize(study *model.StudyContext, risks []*model.RiskEntry) *Synthesis {
	sorted := make([]*model.RiskEntry, len(risks))
	copy(sorted, risks)
	SortByResidual(sorted)

	s := &Synthesis{
		Study:  study,
		Total:  len(sorted),
		Trends: map[types.Trend]int{},
		Risks:  sorted,
	}

	for _, c := range matrix.Cells() {
		s.Cells = append(s.Cells, &CellSummary{Cell: c, Level: c.Level(), Risks: []*model.RiskEntry{}})
	}
	levels := map[types.RiskLevel]*LevelCount{}
	all := types.AllRiskLevels()
	for i := len(all) - 1; i >= 0; i-- {
		s.Levels = append(s.Levels, LevelCount{Level: all[i]})
	}
	for i := range s.Levels {
		levels[s.Levels[i].Level] = &s.Levels[i]
	}
	for _, t := range []types.Trend{types.TrendImproved, types.TrendUnchanged, types.TrendRegressed} {
		s.Trends[t] = 0
	}

	for _, r := range sorted {
		cs := s.Cell(matrix.Cell{Severity: r.ResidualRisk.Severity, Likelihood: r.ResidualRisk.Likelihood})
		cs.Risks = append(cs.Risks, r)
		cs.Count++

		levels[r.InitialRisk.Level()].Initial++
		levels[r.ResidualRisk.Level()].Residual++
		s.Trends[r.Trend()]++
	}

	return s
}

func (uc *SynthesisUseCase) Build(ctx context.Context) (*Synthesis, error) {
	study, err := uc.study.GetStudy(ctx)
	if err != nil {
		return nil, err
	}
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	return Summarize(study, risks), nil
}

// RisksInCell returns the entries whose residual rating is cell, worst first
func (uc *SynthesisUseCase) RisksInCell(ctx context.Context, cell matrix.Cell) ([]*model.RiskEntry, error) {
	if err := cell.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid cell")
	}
	s, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}
	return s.Cell(cell).Risks, nil
}

// WriteText writes the plain-text study summary: residual ratings grouped
// by experimentation, in the order experimentations first appear.
func (s *Synthesis) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "GRXP SYNTHESIS\n")
	fmt.Fprintf(&b, "STUDY: %s (%s)\n", s.Study.StudyName, s.Study.Aircraft)
	fmt.Fprintf(&b, "DATE: %s\n", s.Study.Date)
	fmt.Fprintf(&b, "---------------------------\n")
	fmt.Fprintf(&b, "GLOBAL SYNTHESIS: %s\n\n", s.Study.GlobalSynthesis)
	fmt.Fprintf(&b, "RESIDUAL RISK DETAILS:\n")

	var order []string
	groups := map[string][]*model.RiskEntry{}
	for _, r := range s.Risks {
		exp := r.Experimentation
		if exp == "" {
			exp = GeneralExperimentation
		}
		if _, ok := groups[exp]; !ok {
			order = append(order, exp)
		}
		groups[exp] = append(groups[exp], r)
	}

	for _, exp := range order {
		fmt.Fprintf(&b, "\nEXPERIMENTATION: %s\n", strings.ToUpper(exp))
		for _, r := range groups[exp] {
			fmt.Fprintf(&b, "- %s: %s (S%s/L%s)\n",
				r.Title(),
				strings.ToUpper(r.ResidualRisk.Level().String()),
				r.ResidualRisk.Severity, r.ResidualRisk.Likelihood,
			)
			fmt.Fprintf(&b, "  Mitigation: %s\n", r.MitigationMeasures)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return goerr.Wrap(err, "failed to write synthesis")
	}
	return nil
}
