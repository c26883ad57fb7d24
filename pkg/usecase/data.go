package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/interfaces"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
)

// CSVHeader is the first line of a CSV export
var CSVHeader = []string{
	"ID", "Study", "Experimentation", "Activity", "Aircraft", "DreadedEvent", "Mitigation", "Synthesis",
	"Init_Severity", "Init_Likelihood", "Init_Exposure", "Init_Detectability",
	"Res_Severity", "Res_Likelihood", "Res_Exposure", "Res_Detectability",
	"UpdatedAt",
}

// minCSVColumns is the shortest row accepted on import: everything up to
// the initial detectability.
const minCSVColumns = 12

type DataUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewDataUseCase(repo interfaces.Repository, now func() time.Time) *DataUseCase {
	return &DataUseCase{
		repo: repo,
		now:  now,
	}
}

// ExportJSON writes every entry as an indented JSON array
func (uc *DataUseCase) ExportJSON(ctx context.Context, w io.Writer) error {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list risks")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(risks); err != nil {
		return goerr.Wrap(err, "failed to encode risks")
	}
	return nil
}

// ImportJSON replaces every stored entry with the content of a JSON array.
// Stored computed levels are ignored. Entries without an ID get a new one.
func (uc *DataUseCase) ImportJSON(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read JSON")
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0, goerr.Wrap(ErrInvalidImport, "JSON import must be an array")
	}

	var risks []*model.RiskEntry
	if err := json.Unmarshal(trimmed, &risks); err != nil {
		return 0, goerr.Wrap(ErrInvalidImport, "failed to decode JSON", goerr.V("error", err.Error()))
	}

	seen := make(map[types.RiskID]struct{}, len(risks))
	for i, risk := range risks {
		if risk == nil {
			return 0, goerr.Wrap(ErrInvalidImport, "null entry", goerr.V("index", i))
		}
		if risk.ID == "" {
			risk.ID = types.NewRiskID()
		}
		if risk.UpdatedAt.IsZero() {
			risk.UpdatedAt = uc.now()
		}
		if err := risk.Validate(); err != nil {
			return 0, goerr.Wrap(ErrInvalidImport, "invalid entry", goerr.V("index", i), goerr.V("error", err.Error()))
		}
		if _, ok := seen[risk.ID]; ok {
			return 0, goerr.Wrap(ErrInvalidImport, "duplicated risk ID", goerr.V(RiskIDKey, risk.ID))
		}
		seen[risk.ID] = struct{}{}
	}

	if err := uc.repo.Risk().ReplaceAll(ctx, risks); err != nil {
		return 0, goerr.Wrap(err, "failed to replace risks")
	}

	logging.From(ctx).Info("risks imported", "format", "json", "count", len(risks))
	return len(risks), nil
}

// ExportCSV writes one row per entry after CSVHeader. Nothing at all is
// written when there are no entries.
func (uc *DataUseCase) ExportCSV(ctx context.Context, w io.Writer) error {
	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list risks")
	}
	if len(risks) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}
	for _, r := range risks {
		if err := cw.Write(csvRecord(r)); err != nil {
			return goerr.Wrap(err, "failed to write CSV row", goerr.V(RiskIDKey, r.ID))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush CSV")
	}
	return nil
}

func csvRecord(r *model.RiskEntry) []string {
	return []string{
		r.ID.String(), r.StudyNumber, r.Experimentation, r.ActivityTitle, r.Aircraft,
		r.DreadedEvent, r.MitigationMeasures, r.Synthesis,
		r.InitialRisk.Severity.String(), r.InitialRisk.Likelihood.String(),
		r.InitialRisk.Exposure.String(), r.InitialRisk.Detectability.String(),
		r.ResidualRisk.Severity.String(), r.ResidualRisk.Likelihood.String(),
		r.ResidualRisk.Exposure.String(), r.ResidualRisk.Detectability.String(),
		strconv.FormatInt(r.UpdatedAt.UnixMilli(), 10),
	}
}

// ImportCSV replaces every stored entry with the rows of a CSV export. The
// first row is a header. Rows shorter than 12 columns are skipped. Empty
// rating fields take the lowest value of their scale; non-empty invalid
// values reject the whole import.
func (uc *DataUseCase) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidImport, "failed to parse CSV", goerr.V("error", err.Error()))
	}
	if len(records) < 2 {
		return 0, goerr.Wrap(ErrInvalidImport, "CSV has no header or no data rows")
	}

	var risks []*model.RiskEntry
	seen := map[types.RiskID]struct{}{}
	skipped := 0
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < minCSVColumns {
			skipped++
			continue
		}

		risk, err := uc.parseCSVRecord(rec)
		if err != nil {
			return 0, goerr.Wrap(ErrInvalidImport, "invalid CSV row", goerr.V(LineKey, line), goerr.V("error", err.Error()))
		}
		if _, ok := seen[risk.ID]; ok {
			return 0, goerr.Wrap(ErrInvalidImport, "duplicated risk ID", goerr.V(LineKey, line), goerr.V(RiskIDKey, risk.ID))
		}
		seen[risk.ID] = struct{}{}
		risks = append(risks, risk)
	}

	if err := uc.repo.Risk().ReplaceAll(ctx, risks); err != nil {
		return 0, goerr.Wrap(err, "failed to replace risks")
	}

	logging.From(ctx).Info("risks imported", "format", "csv", "count", len(risks), "skipped", skipped)
	return len(risks), nil
}

func column(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

func (uc *DataUseCase) parseCSVRecord(rec []string) (*model.RiskEntry, error) {
	risk := &model.RiskEntry{
		ID:                 types.RiskID(column(rec, 0)),
		StudyNumber:        column(rec, 1),
		Experimentation:    column(rec, 2),
		ActivityTitle:      column(rec, 3),
		Aircraft:           column(rec, 4),
		DreadedEvent:       column(rec, 5),
		MitigationMeasures: column(rec, 6),
		Synthesis:          column(rec, 7),
	}
	if risk.ID == "" {
		risk.ID = types.NewRiskID()
	}

	var err error
	if risk.InitialRisk, err = parseCSVAssessment(rec, 8); err != nil {
		return nil, goerr.Wrap(err, "invalid initial assessment")
	}
	if risk.ResidualRisk, err = parseCSVAssessment(rec, 12); err != nil {
		return nil, goerr.Wrap(err, "invalid residual assessment")
	}

	risk.UpdatedAt = uc.now()
	if v := column(rec, 16); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid UpdatedAt", goerr.V("value", v))
		}
		risk.UpdatedAt = time.UnixMilli(ms).UTC()
	}

	return risk, nil
}

// parseCSVAssessment reads four rating columns starting at offset
func parseCSVAssessment(rec []string, offset int) (model.Assessment, error) {
	a := model.Assessment{
		Severity:      types.SeverityNegligible,
		Likelihood:    types.LikelihoodVeryImprobable,
		Exposure:      types.ExposureLow,
		Detectability: types.DetectabilityTotal,
	}

	var err error
	if v := column(rec, offset); v != "" {
		if a.Severity, err = types.ParseSeverity(v); err != nil {
			return a, err
		}
	}
	if v := column(rec, offset+1); v != "" {
		if a.Likelihood, err = types.ParseLikelihood(v); err != nil {
			return a, err
		}
	}
	if v := column(rec, offset+2); v != "" {
		if a.Exposure, err = types.ParseExposure(v); err != nil {
			return a, err
		}
	}
	if v := column(rec, offset+3); v != "" {
		if a.Detectability, err = types.ParseDetectability(v); err != nil {
			return a, err
		}
	}
	return a, nil
}

// seedScenario is one demo entry built on a catalog template
type seedScenario struct {
	catalogID       types.CatalogEntryID
	activity        string
	experimentation string
	aircraft        string
	study           string
	initSeverity    types.Severity
	initLikelihood  types.Likelihood
	resSeverity     types.Severity
	resLikelihood   types.Likelihood
}

var seedScenarios = []seedScenario{
	{
		catalogID: "cat-2", activity: "Sliding on deck",
		experimentation: "SHOL qualification day/night", aircraft: "NH90 Caiman", study: "PHEL-182",
		initSeverity: types.SeverityCatastrophic, initLikelihood: types.LikelihoodOccasional,
		resSeverity: types.SeverityCritical, resLikelihood: types.LikelihoodRare,
	},
	{
		catalogID: "cat-5", activity: "Fly-by-wire disturbance",
		experimentation: "SHOL qualification day/night", aircraft: "NH90 Caiman", study: "PHEL-182",
		initSeverity: types.SeverityModerate, initLikelihood: types.LikelihoodOccasional,
		resSeverity: types.SeverityModerate, resLikelihood: types.LikelihoodVeryImprobable,
	},
	{
		catalogID: "cat-3", activity: "Spatial disorientation",
		experimentation: "Tactical NVG flight (level 5)", aircraft: "Panther Std 2", study: "EXP-NVG-24",
		initSeverity: types.SeverityCritical, initLikelihood: types.LikelihoodOccasional,
		resSeverity: types.SeverityCritical, resLikelihood: types.LikelihoodRare,
	},
	{
		catalogID: "cat-7", activity: "Bird strike",
		experimentation: "Tactical NVG flight (level 5)", aircraft: "Panther Std 2", study: "EXP-NVG-24",
		initSeverity: types.SeverityModerate, initLikelihood: types.LikelihoodOccasional,
		resSeverity: types.SeverityModerate, resLikelihood: types.LikelihoodRare,
	},
	{
		catalogID: "cat-6", activity: "Vibration phenomenon (flutter)",
		experimentation: "Speed envelope expansion", aircraft: "H160 Guepard", study: "AERO-DYN-05",
		initSeverity: types.SeverityCatastrophic, initLikelihood: types.LikelihoodRare,
		resSeverity: types.SeverityModerate, resLikelihood: types.LikelihoodRare,
	},
}

// SeedSynthesis is the synthesis text of every demo entry
const SeedSynthesis = "Risk under control. Strict application of test cards and briefing."

// SeedRisks builds the demo entries. Dated one day apart, newest first.
func SeedRisks(now time.Time) []*model.RiskEntry {
	catalog := model.DefaultCatalog()
	templateOf := func(id types.CatalogEntryID) *model.CatalogEntry {
		for _, c := range catalog {
			if c.ID == id {
				return c
			}
		}
		return catalog[0]
	}

	risks := make([]*model.RiskEntry, 0, len(seedScenarios))
	for i, s := range seedScenarios {
		tpl := templateOf(s.catalogID)
		risks = append(risks, &model.RiskEntry{
			ID:                 types.NewRiskID(),
			StudyNumber:        s.study,
			Experimentation:    s.experimentation,
			ActivityTitle:      s.activity,
			Aircraft:           s.aircraft,
			DreadedEvent:       tpl.DreadedEvent,
			MitigationMeasures: tpl.MitigationMeasures,
			Synthesis:          SeedSynthesis,
			UpdatedAt:          now.Add(-time.Duration(i) * 24 * time.Hour),
			InitialRisk: model.Assessment{
				Severity:      s.initSeverity,
				Likelihood:    s.initLikelihood,
				Exposure:      types.ExposureStrong,
				Detectability: types.DetectabilityPoor,
			},
			ResidualRisk: model.Assessment{
				Severity:      s.resSeverity,
				Likelihood:    s.resLikelihood,
				Exposure:      types.ExposureMedium,
				Detectability: types.DetectabilityTotal,
			},
		})
	}
	return risks
}

// Seed stores the demo entries. A study that already has entries is only
// overwritten when replace is set.
func (uc *DataUseCase) Seed(ctx context.Context, replace bool) ([]*model.RiskEntry, error) {
	if !replace {
		existing, err := uc.repo.Risk().List(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list risks")
		}
		if len(existing) > 0 {
			return nil, goerr.Wrap(ErrStudyNotEmpty, "refusing to seed", goerr.V("count", len(existing)))
		}
	}

	risks := SeedRisks(uc.now())
	if err := uc.repo.Risk().ReplaceAll(ctx, risks); err != nil {
		return nil, goerr.Wrap(err, "failed to store demo risks")
	}

	logging.From(ctx).Info("demo risks seeded", "count", len(risks))
	return risks, nil
}

// IsImportError tells whether err was caused by malformed import data
func IsImportError(err error) bool {
	return errors.Is(err, ErrInvalidImport) || errors.Is(err, ErrUnknownFormat)
}
