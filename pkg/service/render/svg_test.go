package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/render"
)

func cell(s types.Severity, l types.Likelihood) matrix.Cell {
	return matrix.Cell{Severity: s, Likelihood: l}
}

func TestMatrixSVG(t *testing.T) {
	t.Run("draws evolution from initial to current", func(t *testing.T) {
		initial := cell(types.SeverityCatastrophic, types.LikelihoodOccasional)
		view := render.MatrixView{
			Current: cell(types.SeverityModerate, types.LikelihoodVeryImprobable),
			Initial: &initial,
			Title:   "Sliding on deck",
		}

		var buf bytes.Buffer
		gt.NoError(t, render.MatrixSVG(&buf, matrix.MediumLayout(), view)).Required()
		out := buf.String()

		gt.S(t, out).Contains("<svg")
		gt.S(t, out).Contains("<title>Sliding on deck</title>")
		gt.N(t, strings.Count(out, "data-cell=")).Equal(16)
		gt.S(t, out).Contains(`d="M136,24 L40,24 Q24,24 24,40 L24,136"`)
		gt.S(t, out).Contains(`class="arrowhead"`)
		gt.S(t, out).Contains(`class="initial"`)
		gt.S(t, out).Contains(`class="current"`)
		gt.S(t, out).Contains(types.RiskLevelUnacceptable.Color())
	})

	t.Run("no evolution without initial cell", func(t *testing.T) {
		view := render.MatrixView{Current: cell(types.SeverityCritical, types.LikelihoodRare)}

		var buf bytes.Buffer
		gt.NoError(t, render.MatrixSVG(&buf, matrix.SmallLayout(), view)).Required()
		gt.S(t, buf.String()).NotContains(`class="evolution"`)
		gt.S(t, buf.String()).NotContains(`class="initial"`)
	})

	t.Run("no evolution when both ratings share a cell", func(t *testing.T) {
		c := cell(types.SeverityCatastrophic, types.LikelihoodRare)
		view := render.MatrixView{Current: c, Initial: &c}

		var buf bytes.Buffer
		gt.NoError(t, render.MatrixSVG(&buf, matrix.LargeLayout(), view)).Required()
		gt.S(t, buf.String()).NotContains(`class="evolution"`)
		gt.S(t, buf.String()).Contains(`class="initial"`)
	})

	t.Run("rejects invalid cell", func(t *testing.T) {
		view := render.MatrixView{Current: cell(0, types.LikelihoodRare)}
		var buf bytes.Buffer
		gt.Error(t, render.MatrixSVG(&buf, matrix.MediumLayout(), view))
		gt.N(t, buf.Len()).Equal(0)
	})

	t.Run("rejects invalid layout", func(t *testing.T) {
		view := render.MatrixView{Current: cell(types.SeverityCritical, types.LikelihoodRare)}
		var buf bytes.Buffer
		gt.Error(t, render.MatrixSVG(&buf, matrix.Layout{CellSize: 0}, view))
	})
}

func TestSynthesisSVG(t *testing.T) {
	counts := map[matrix.Cell]int{
		cell(types.SeverityCritical, types.LikelihoodRare): 5,
		cell(types.SeverityModerate, types.LikelihoodRare): 12,
	}

	var buf bytes.Buffer
	gt.NoError(t, render.SynthesisSVG(&buf, matrix.MediumLayout(), counts)).Required()
	out := buf.String()
	gt.S(t, out).Contains(">5</text>")
	gt.S(t, out).Contains(">12</text>")
	gt.S(t, out).NotContains(">0</text>")
}

func TestRGB(t *testing.T) {
	r, g, b := render.RGB("#dc2626")
	gt.V(t, [3]int{r, g, b}).Equal([3]int{220, 38, 38})

	r, g, b = render.RGB("nope")
	gt.V(t, [3]int{r, g, b}).Equal([3]int{0, 0, 0})
}
