package matrix

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/types"
)

// Dimension is the number of rows and columns of the risk matrix
const Dimension = 4

// Cell is a (severity, likelihood) pair addressing one square of the matrix
type Cell struct {
	Severity   types.Severity   `json:"severity"`
	Likelihood types.Likelihood `json:"likelihood"`
}

// Validate checks both coordinates
func (c Cell) Validate() error {
	if err := c.Severity.Validate(); err != nil {
		return err
	}
	return c.Likelihood.Validate()
}

// Level returns the risk level painted in this cell
func (c Cell) Level() types.RiskLevel {
	return types.Classify(c.Severity, c.Likelihood)
}

// String returns the cell code, severity then likelihood, e.g. "4C"
func (c Cell) String() string {
	return c.Severity.String() + c.Likelihood.String()
}

// ParseCell parses a cell code such as "4C" or "2a"
func ParseCell(v string) (Cell, error) {
	if len(v) != 2 {
		return Cell{}, goerr.New("cell code must be severity then likelihood", goerr.V("cell", v))
	}
	s, err := types.ParseSeverity(v[:1])
	if err != nil {
		return Cell{}, err
	}
	l, err := types.ParseLikelihood(v[1:])
	if err != nil {
		return Cell{}, err
	}
	return Cell{Severity: s, Likelihood: l}, nil
}

// GridPosition maps a cell to its row and column. Rows run from
// Catastrophic (0) down to Negligible (3); columns from VeryImprobable (0)
// to Frequent (3). Invalid input panics.
func GridPosition(s types.Severity, l types.Likelihood) (row, col int) {
	if !s.IsValid() {
		panic(goerr.Wrap(types.ErrInvalidSeverity, "no grid row", goerr.V("severity", int(s))))
	}
	if !l.IsValid() {
		panic(goerr.Wrap(types.ErrInvalidLikelihood, "no grid column", goerr.V("likelihood", string(l))))
	}
	return Dimension - int(s), l.Rank()
}

// CellAt is the inverse of GridPosition
func CellAt(row, col int) (Cell, error) {
	if row < 0 || row >= Dimension || col < 0 || col >= Dimension {
		return Cell{}, goerr.New("grid index out of range", goerr.V("row", row), goerr.V("col", col))
	}
	return Cell{
		Severity:   types.Severity(Dimension - row),
		Likelihood: types.AllLikelihoods()[Dimension-1-col],
	}, nil
}

// Cells returns every cell in row-major display order
func Cells() []Cell {
	cells := make([]Cell, 0, Dimension*Dimension)
	for row := 0; row < Dimension; row++ {
		for col := 0; col < Dimension; col++ {
			c, _ := CellAt(row, col)
			cells = append(cells, c)
		}
	}
	return cells
}
