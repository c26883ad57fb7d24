package matrix

import (
	"github.com/m-mizutani/goerr/v2"
)

// Size names a presentation size of the matrix
type Size string

const (
	SizeSmall  Size = "sm"
	SizeMedium Size = "md"
	SizeLarge  Size = "lg"
)

// ParseSize parses a size name, defaulting to medium when empty
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case "":
		return SizeMedium, nil
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), nil
	default:
		return "", goerr.New("unknown matrix size", goerr.V("size", s))
	}
}

// Point is a position in plot space. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Layout describes a uniform square grid. Cell centers are derived from
// CellSize and Gap; the remaining fields size the path decorations.
type Layout struct {
	CellSize     float64 `toml:"cell_size" json:"cellSize"`
	Gap          float64 `toml:"gap" json:"gap"`
	CornerRadius float64 `toml:"corner_radius" json:"cornerRadius"`
	ArrowSize    float64 `toml:"arrow_size" json:"arrowSize"`
	MarkerRadius float64 `toml:"marker_radius" json:"markerRadius"`
}

// SmallLayout, MediumLayout and LargeLayout are the built-in presets
func SmallLayout() Layout {
	return Layout{CellSize: 32, Gap: 8, CornerRadius: 12, ArrowSize: 8, MarkerRadius: 3}
}

func MediumLayout() Layout {
	return Layout{CellSize: 48, Gap: 8, CornerRadius: 16, ArrowSize: 10, MarkerRadius: 4}
}

func LargeLayout() Layout {
	return Layout{CellSize: 64, Gap: 8, CornerRadius: 22, ArrowSize: 14, MarkerRadius: 6}
}

// LayoutFor returns the preset of a size
func LayoutFor(size Size) Layout {
	switch size {
	case SizeSmall:
		return SmallLayout()
	case SizeLarge:
		return LargeLayout()
	default:
		return MediumLayout()
	}
}

// Validate checks the layout produces non-degenerate geometry
func (l Layout) Validate() error {
	if l.CellSize <= 0 {
		return goerr.New("cell size must be positive", goerr.V("cell_size", l.CellSize))
	}
	if l.Gap < 0 {
		return goerr.New("gap must not be negative", goerr.V("gap", l.Gap))
	}
	if l.CornerRadius < 0 || l.ArrowSize < 0 || l.MarkerRadius < 0 {
		return goerr.New("decoration sizes must not be negative",
			goerr.V("corner_radius", l.CornerRadius),
			goerr.V("arrow_size", l.ArrowSize),
			goerr.V("marker_radius", l.MarkerRadius),
		)
	}
	return nil
}

// Pitch is the distance between two adjacent cell centers
func (l Layout) Pitch() float64 {
	return l.CellSize + l.Gap
}

// Extent is the width (and height) of the whole grid
func (l Layout) Extent() float64 {
	return Dimension*l.CellSize + (Dimension-1)*l.Gap
}

// Origin returns the top-left corner of the cell at row, col
func (l Layout) Origin(row, col int) Point {
	return Point{
		X: float64(col) * l.Pitch(),
		Y: float64(row) * l.Pitch(),
	}
}

// Center returns the center of the cell at row, col
func (l Layout) Center(row, col int) Point {
	o := l.Origin(row, col)
	half := l.CellSize / 2
	return Point{X: o.X + half, Y: o.Y + half}
}

// CenterOf returns the center of a cell
func (l Layout) CenterOf(c Cell) Point {
	return l.Center(GridPosition(c.Severity, c.Likelihood))
}
