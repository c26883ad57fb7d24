// Package render draws the risk matrix and study reports. Every renderer
// places cells and evolution paths with the geometry of the matrix package.
package render

import (
	"strconv"
	"strings"

	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// MatrixView is what a single-entry matrix shows
type MatrixView struct {
	// Current is the cell marked as the present rating
	Current matrix.Cell
	// Initial is drawn as a ghost marker and joined to Current by an
	// evolution path. Nil draws Current alone.
	Initial *matrix.Cell
	Title   string
}

// Validate checks every cell of the view
func (v MatrixView) Validate() error {
	if err := v.Current.Validate(); err != nil {
		return err
	}
	if v.Initial != nil {
		return v.Initial.Validate()
	}
	return nil
}

// rgb parses a #rrggbb color
func rgb(hex string) (r, g, b int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

// rowSeverity and colLikelihood label the grid axes in display order
func rowSeverity(row int) types.Severity {
	return types.Severity(matrix.Dimension - row)
}

func colLikelihood(col int) types.Likelihood {
	c, _ := matrix.CellAt(0, col)
	return c.Likelihood
}
