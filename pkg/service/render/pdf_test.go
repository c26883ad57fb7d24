package render_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/render"
)

func TestPDFReport(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("writes a report with many entries", func(t *testing.T) {
		var risks []*model.RiskEntry
		counts := map[matrix.Cell]int{}
		for i := 0; i < 12; i++ {
			r := model.NewRiskEntry(now)
			r.ActivityTitle = "Désorientation spatiale"
			r.Experimentation = "Tactical NVG flight"
			r.MitigationMeasures = "- Rigorous scan pattern\n- Height callouts"
			gt.NoError(t, r.ResidualRisk.Rate(types.SeverityCritical, types.LikelihoodRare, types.ExposureMedium, types.DetectabilityTotal)).Required()
			risks = append(risks, r)
			counts[matrix.Cell{Severity: types.SeverityCritical, Likelihood: types.LikelihoodRare}]++
		}

		rep := &render.Report{
			Study:       &model.StudyContext{StudyName: "EXP-NVG-24", Aircraft: "Panther", Date: "2024-06-01"},
			Risks:       risks,
			Counts:      counts,
			GeneratedAt: now,
		}

		var buf bytes.Buffer
		gt.NoError(t, render.PDFReport(&buf, rep)).Required()
		gt.B(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-"))).True()
		gt.B(t, bytes.Contains(buf.Bytes(), []byte("%%EOF"))).True()
	})

	t.Run("writes a report without entries", func(t *testing.T) {
		rep := &render.Report{
			Study:       model.NewStudyContext(now),
			GeneratedAt: now,
		}

		var buf bytes.Buffer
		gt.NoError(t, render.PDFReport(&buf, rep)).Required()
		gt.B(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-"))).True()
	})

	t.Run("requires a study context", func(t *testing.T) {
		var buf bytes.Buffer
		gt.Error(t, render.PDFReport(&buf, &render.Report{}))
		gt.Error(t, render.PDFReport(&buf, nil))
	})
}
