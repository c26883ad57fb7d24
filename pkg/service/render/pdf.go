package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// pdfLayout is the matrix geometry in millimeters
var pdfLayout = matrix.Layout{CellSize: 11, Gap: 1.5, CornerRadius: 3, ArrowSize: 2.5, MarkerRadius: 0.8}

const (
	pdfMargin     = 15.0
	pdfLineHeight = 5.0
	// pdfRiskBlock is the height kept free before starting a new entry
	pdfRiskBlock = 75.0
)

// Report is the content of a printed study report
type Report struct {
	Study       *model.StudyContext
	Risks       []*model.RiskEntry
	Counts      map[matrix.Cell]int
	GeneratedAt time.Time
}

// PDFReport writes an A4 report: study context and residual matrix on the
// first page, then one block per entry with both assessments and its
// evolution matrix.
func PDFReport(w io.Writer, rep *Report) error {
	if rep == nil || rep.Study == nil {
		return goerr.New("report has no study context")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(rep.Study.StudyName, true)
	pdf.SetCreator("grxp", false)
	pdf.SetCreationDate(rep.GeneratedAt)
	pdf.SetModificationDate(rep.GeneratedAt)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin + 3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(148, 163, 184)
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("%s - page %d/{nb}", rep.Study.StudyName, pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	writeStudyHeader(pdf, tr, rep)
	writeSynthesisMatrix(pdf, rep.Counts)
	writeLevelTable(pdf, tr, rep.Risks)

	_, pageHeight := pdf.GetPageSize()
	for _, risk := range rep.Risks {
		if pdf.GetY()+pdfRiskBlock > pageHeight-pdfMargin {
			pdf.AddPage()
		}
		writeRisk(pdf, tr, risk)
	}

	if err := pdf.Output(w); err != nil {
		return goerr.Wrap(err, "failed to write PDF")
	}
	return nil
}

func writeStudyHeader(pdf *fpdf.Fpdf, tr func(string) string, rep *Report) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 10, tr("Flight-test risk study"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, pdfLineHeight+1, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, pdfLineHeight+1, tr(value), "", "L", false)
	}
	field("Study", rep.Study.StudyName)
	field("Aircraft", rep.Study.Aircraft)
	field("Date", rep.Study.Date)
	field("Entries", fmt.Sprint(len(rep.Risks)))
	if rep.Study.GlobalSynthesis != "" {
		field("Global synthesis", rep.Study.GlobalSynthesis)
	}
	pdf.Ln(4)
}

// drawMatrix paints the grid with its top-left corner at x, y
func drawMatrix(pdf *fpdf.Fpdf, x, y float64, label func(matrix.Cell) string) {
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(148, 163, 184)
	for i := 0; i < matrix.Dimension; i++ {
		c := pdfLayout.Center(i, i)
		pdf.Text(x+c.X-1, y-1.5, colLikelihood(i).String())
		pdf.Text(x-4, y+c.Y+1, rowSeverity(i).String())
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(15, 23, 42)
	for _, cell := range matrix.Cells() {
		row, col := matrix.GridPosition(cell.Severity, cell.Likelihood)
		o := pdfLayout.Origin(row, col)
		pdf.SetFillColor(rgb(cell.Level().Color()))
		pdf.Rect(x+o.X, y+o.Y, pdfLayout.CellSize, pdfLayout.CellSize, "F")
		if text := label(cell); text != "" {
			c := pdfLayout.Center(row, col)
			pdf.Text(x+c.X-pdf.GetStringWidth(text)/2, y+c.Y+1.2, text)
		}
	}
}

func writeSynthesisMatrix(pdf *fpdf.Fpdf, counts map[matrix.Cell]int) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Residual risk matrix", "", 1, "L", false, 0, "")

	x, y := pdfMargin+6, pdf.GetY()+4
	drawMatrix(pdf, x, y, func(c matrix.Cell) string {
		if n := counts[c]; n > 0 {
			return fmt.Sprint(n)
		}
		return ""
	})
	pdf.SetY(y + pdfLayout.Extent() + 6)
}

func writeLevelTable(pdf *fpdf.Fpdf, tr func(string) string, risks []*model.RiskEntry) {
	initial := map[types.RiskLevel]int{}
	residual := map[types.RiskLevel]int{}
	for _, r := range risks {
		initial[r.InitialRisk.Level()]++
		residual[r.ResidualRisk.Level()]++
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(241, 245, 249)
	pdf.CellFormat(40, 6, "Level", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 6, "Initial", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 6, "Residual", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	levels := types.AllRiskLevels()
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		pdf.SetFillColor(rgb(level.Color()))
		pdf.CellFormat(40, 6, tr(level.Label()), "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprint(initial[level]), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprint(residual[level]), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

func writeRisk(pdf *fpdf.Fpdf, tr func(string) string, risk *model.RiskEntry) {
	pdf.SetDrawColor(203, 213, 225)
	pdf.Line(pdfMargin, pdf.GetY(), 210-pdfMargin, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(15, 23, 42)
	pdf.MultiCell(0, 6, tr(risk.Title()), "", "L", false)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(71, 85, 105)
	meta := []string{}
	for _, v := range []string{risk.StudyNumber, risk.Experimentation, risk.Aircraft} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	pdf.MultiCell(0, pdfLineHeight, tr(strings.Join(meta, " / ")), "", "L", false)
	pdf.Ln(1)

	top := pdf.GetY()
	textWidth := 210 - 2*pdfMargin - pdfLayout.Extent() - 12

	pdf.SetTextColor(15, 23, 42)
	section := func(label, body string) {
		if body == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.MultiCell(textWidth, pdfLineHeight, tr(label), "", "L", false)
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(textWidth, pdfLineHeight, tr(body), "", "L", false)
	}
	section("Dreaded event", risk.DreadedEvent)
	section("Mitigation measures", risk.MitigationMeasures)
	section("Synthesis", risk.Synthesis)

	pdf.SetFont("Helvetica", "", 9)
	assessment := func(label string, a model.Assessment) {
		pdf.SetFillColor(rgb(a.Level().Color()))
		pdf.CellFormat(22, 6, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(textWidth-52, 6, tr(fmt.Sprintf("S%s / L%s / E%s / D%s",
			a.Severity, a.Likelihood, a.Exposure, a.Detectability)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(a.Level().Label()), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(1)
	assessment("Initial", risk.InitialRisk)
	assessment("Residual", risk.ResidualRisk)
	pdf.CellFormat(textWidth, 6, tr("Trend: "+risk.Trend().String()), "", 1, "L", false, 0, "")
	bottom := pdf.GetY()

	x := 210 - pdfMargin - pdfLayout.Extent()
	y := top + 4
	drawMatrix(pdf, x, y, func(matrix.Cell) string { return "" })
	drawEvolution(pdf, x, y, risk)

	if end := y + pdfLayout.Extent() + 4; end > bottom {
		bottom = end
	}
	pdf.SetY(bottom + 4)
}

func drawEvolution(pdf *fpdf.Fpdf, x, y float64, risk *model.RiskEntry) {
	initial := matrix.Cell{Severity: risk.InitialRisk.Severity, Likelihood: risk.InitialRisk.Likelihood}
	current := matrix.Cell{Severity: risk.ResidualRisk.Severity, Likelihood: risk.ResidualRisk.Likelihood}

	pdf.SetDrawColor(30, 41, 59)
	pdf.SetFillColor(30, 41, 59)
	pdf.SetLineWidth(0.5)
	defer pdf.SetLineWidth(0.2)

	if path := matrix.EvolutionPath(pdfLayout, &initial, current); path != nil {
		for _, seg := range path.Segments {
			switch seg.Kind {
			case matrix.SegmentLine:
				pdf.Line(x+seg.From.X, y+seg.From.Y, x+seg.To.X, y+seg.To.Y)
			case matrix.SegmentQuad:
				pdf.Curve(x+seg.From.X, y+seg.From.Y, x+seg.Control.X, y+seg.Control.Y, x+seg.To.X, y+seg.To.Y, "D")
			}
		}
		points := make([]fpdf.PointType, 0, len(path.Arrowhead))
		for _, p := range path.Arrowhead {
			points = append(points, fpdf.PointType{X: x + p.X, Y: y + p.Y})
		}
		pdf.Polygon(points, "F")
		pdf.Circle(x+path.Marker.Center.X, y+path.Marker.Center.Y, path.Marker.Radius, "F")
	}

	c := pdfLayout.CenterOf(current)
	pdf.Circle(x+c.X, y+c.Y, pdfLayout.CellSize/5, "F")
}
