package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// cellWidth is the printed width of one matrix cell
const cellWidth = 5

func levelColor(level types.RiskLevel) *color.Color {
	switch level {
	case types.RiskLevelUsual:
		return color.New(color.BgGreen, color.FgBlack)
	case types.RiskLevelLow:
		return color.New(color.BgYellow, color.FgBlack)
	case types.RiskLevelHigh:
		return color.New(color.BgHiRed, color.FgBlack)
	case types.RiskLevelUnacceptable:
		return color.New(color.BgRed, color.FgHiWhite, color.Bold)
	default:
		return color.New(color.Reset)
	}
}

// LevelText returns the level label painted in its color
func LevelText(level types.RiskLevel) string {
	return levelColor(level).Sprint(" " + strings.ToUpper(level.Label()) + " ")
}

// MatrixText prints the matrix of one entry. The current cell is marked
// "●", the initial cell "○". Coloring follows color.NoColor.
func MatrixText(w io.Writer, view MatrixView) error {
	if err := view.Validate(); err != nil {
		return goerr.Wrap(err, "invalid matrix view")
	}

	return writeGrid(w, func(c matrix.Cell) string {
		switch {
		case c == view.Current:
			return "●"
		case view.Initial != nil && *view.Initial == c:
			return "○"
		}
		return ""
	})
}

// SynthesisText prints the residual matrix with the number of entries per cell
func SynthesisText(w io.Writer, counts map[matrix.Cell]int) error {
	return writeGrid(w, func(c matrix.Cell) string {
		if n := counts[c]; n > 0 {
			return fmt.Sprint(n)
		}
		return ""
	})
}

func writeGrid(w io.Writer, mark func(matrix.Cell) string) error {
	var b strings.Builder

	b.WriteString("   ")
	for col := 0; col < matrix.Dimension; col++ {
		b.WriteString(center(colLikelihood(col).String(), cellWidth))
	}
	b.WriteString("\n")

	for row := 0; row < matrix.Dimension; row++ {
		fmt.Fprintf(&b, " %s ", rowSeverity(row))
		for col := 0; col < matrix.Dimension; col++ {
			cell, err := matrix.CellAt(row, col)
			if err != nil {
				return err
			}
			b.WriteString(levelColor(cell.Level()).Sprint(center(mark(cell), cellWidth)))
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return goerr.Wrap(err, "failed to write matrix")
	}
	return nil
}

// center pads s with spaces to width runes
func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
