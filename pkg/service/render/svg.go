package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
)

// svgMargin leaves room for the axis labels
const svgMargin = 24

func px(v float64) int {
	return int(math.Round(v))
}

// MatrixSVG draws the matrix of one entry: cells colored by level, the
// initial cell as a dashed ghost marker and the current cell as a solid
// marker joined by the evolution path.
func MatrixSVG(w io.Writer, layout matrix.Layout, view MatrixView) error {
	if err := layout.Validate(); err != nil {
		return goerr.Wrap(err, "invalid layout")
	}
	if err := view.Validate(); err != nil {
		return goerr.Wrap(err, "invalid matrix view")
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	size := px(layout.Extent()) + svgMargin
	canvas.Start(size, size, `role="img"`)
	if view.Title != "" {
		canvas.Title(view.Title)
	}

	drawAxes(canvas, layout)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", svgMargin, svgMargin))
	drawCells(canvas, layout, func(c matrix.Cell) string { return "" })

	current := layout.CenterOf(view.Current)
	if view.Initial != nil {
		initial := layout.CenterOf(*view.Initial)
		canvas.Circle(px(initial.X), px(initial.Y), px(layout.CellSize/4),
			`class="initial"`, "fill:none;stroke:#1e293b;stroke-width:2;stroke-dasharray:3,2;opacity:0.6")

		if path := matrix.EvolutionPath(layout, view.Initial, view.Current); path != nil {
			canvas.Path(path.Data(), `class="evolution"`, "fill:none;stroke:#1e293b;stroke-width:2")
			canvas.Path(path.ArrowheadData(), `class="arrowhead"`, "fill:#1e293b")
			canvas.Circle(px(path.Marker.Center.X), px(path.Marker.Center.Y), px(path.Marker.Radius),
				`class="start"`, "fill:#1e293b")
		}
	}
	canvas.Circle(px(current.X), px(current.Y), px(layout.CellSize/4),
		`class="current"`, "fill:#1e293b;stroke:#ffffff;stroke-width:2")

	canvas.Gend()
	canvas.End()

	if _, err := buf.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write SVG")
	}
	return nil
}

// SynthesisSVG draws the residual matrix with the number of entries in each cell
func SynthesisSVG(w io.Writer, layout matrix.Layout, counts map[matrix.Cell]int) error {
	if err := layout.Validate(); err != nil {
		return goerr.Wrap(err, "invalid layout")
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	size := px(layout.Extent()) + svgMargin
	canvas.Start(size, size, `role="img"`)
	canvas.Title("Residual risk matrix")

	drawAxes(canvas, layout)
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", svgMargin, svgMargin))
	drawCells(canvas, layout, func(c matrix.Cell) string {
		if n := counts[c]; n > 0 {
			return strconv.Itoa(n)
		}
		return ""
	})
	canvas.Gend()
	canvas.End()

	if _, err := buf.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write SVG")
	}
	return nil
}

func drawAxes(canvas *svg.SVG, layout matrix.Layout) {
	canvas.Gstyle("font-family:sans-serif;font-size:11px;font-weight:bold;fill:#94a3b8;text-anchor:middle")
	for i := 0; i < matrix.Dimension; i++ {
		c := layout.Center(i, i)
		canvas.Text(svgMargin+px(c.X), svgMargin-8, colLikelihood(i).String())
		canvas.Text(svgMargin/2, svgMargin+px(c.Y)+4, rowSeverity(i).String())
	}
	canvas.Gend()
}

func drawCells(canvas *svg.SVG, layout matrix.Layout, label func(matrix.Cell) string) {
	radius := px(layout.CellSize / 8)
	for _, cell := range matrix.Cells() {
		row, col := matrix.GridPosition(cell.Severity, cell.Likelihood)
		o := layout.Origin(row, col)
		canvas.Roundrect(px(o.X), px(o.Y), px(layout.CellSize), px(layout.CellSize), radius, radius,
			fmt.Sprintf(`data-cell="%s%s"`, cell.Severity, cell.Likelihood),
			"fill:"+cell.Level().Color())

		if text := label(cell); text != "" {
			c := layout.Center(row, col)
			canvas.Text(px(c.X), px(c.Y)+5, text,
				"font-family:sans-serif;font-size:14px;font-weight:bold;fill:#0f172a;text-anchor:middle")
		}
	}
}
