package matrix

import (
	"math"
	"strconv"
	"strings"
)

// PathKind tells how an evolution path is drawn
type PathKind string

const (
	PathStraight   PathKind = "straight"
	PathOrthogonal PathKind = "orthogonal"
)

// SegmentKind tells how a path segment is drawn
type SegmentKind string

const (
	SegmentLine SegmentKind = "line"
	// SegmentQuad is a quadratic Bézier curve through Control
	SegmentQuad SegmentKind = "quad"
)

// Segment is one piece of an evolution path
type Segment struct {
	Kind    SegmentKind
	From    Point
	To      Point
	Control Point
}

// Circle marks the starting point of a path
type Circle struct {
	Center Point
	Radius float64
}

// Path is the connector drawn from an initial cell to a residual cell
type Path struct {
	Kind     PathKind
	Start    Point
	End      Point
	Segments []Segment
	// Radius is the clamped corner radius. Zero for straight paths.
	Radius float64
	// Angle is the terminal direction in degrees: 0 right, 90 down, 180 left, 270 up.
	Angle     float64
	Arrowhead [3]Point
	Marker    Circle
}

// EvolutionPath computes the connector between start and end. It returns
// nil when there is no start (nothing to compare against) or when both
// resolve to the same cell. Cells sharing a row or column are joined by a
// straight line; otherwise the path moves along the likelihood axis first,
// then along the severity axis, with a rounded corner.
func EvolutionPath(layout Layout, start *Cell, end Cell) *Path {
	if start == nil {
		return nil
	}

	sRow, sCol := GridPosition(start.Severity, start.Likelihood)
	eRow, eCol := GridPosition(end.Severity, end.Likelihood)
	if sRow == eRow && sCol == eCol {
		return nil
	}

	from := layout.Center(sRow, sCol)
	to := layout.Center(eRow, eCol)

	p := &Path{
		Start:  from,
		End:    to,
		Marker: Circle{Center: from, Radius: layout.MarkerRadius},
	}

	switch {
	case sRow == eRow:
		p.Kind = PathStraight
		p.Segments = []Segment{{Kind: SegmentLine, From: from, To: to}}
		if to.X > from.X {
			p.Angle = 0
		} else {
			p.Angle = 180
		}

	case sCol == eCol:
		p.Kind = PathStraight
		p.Segments = []Segment{{Kind: SegmentLine, From: from, To: to}}
		if to.Y > from.Y {
			p.Angle = 90
		} else {
			p.Angle = 270
		}

	default:
		corner := Point{X: to.X, Y: from.Y}
		dirX := sign(to.X - from.X)
		dirY := sign(to.Y - from.Y)

		r := math.Min(layout.CornerRadius, math.Min(math.Abs(to.X-from.X)/2, math.Abs(to.Y-from.Y)/2))
		curveIn := Point{X: corner.X - dirX*r, Y: corner.Y}
		curveOut := Point{X: corner.X, Y: corner.Y + dirY*r}

		p.Kind = PathOrthogonal
		p.Radius = r
		p.Segments = []Segment{
			{Kind: SegmentLine, From: from, To: curveIn},
			{Kind: SegmentQuad, From: curveIn, To: curveOut, Control: corner},
			{Kind: SegmentLine, From: curveOut, To: to},
		}
		// the last leg is always vertical
		if dirY > 0 {
			p.Angle = 90
		} else {
			p.Angle = 270
		}
	}

	p.Arrowhead = arrowhead(to, p.Angle, layout.ArrowSize)
	return p
}

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}

// arrowhead rotates a triangle pointing right with its tip at the origin
// and moves the tip onto the given point.
func arrowhead(tip Point, angle, size float64) [3]Point {
	template := [3]Point{
		{X: 0, Y: 0},
		{X: -size, Y: -size / 2},
		{X: -size, Y: size / 2},
	}
	var out [3]Point
	for i, v := range template {
		r := rotate(v, angle)
		out[i] = Point{X: tip.X + r.X, Y: tip.Y + r.Y}
	}
	return out
}

// rotate is exact for the four axis-aligned angles paths can produce
func rotate(p Point, angle float64) Point {
	switch angle {
	case 0:
		return p
	case 90:
		return Point{X: -p.Y, Y: p.X}
	case 180:
		return Point{X: -p.X, Y: -p.Y}
	case 270:
		return Point{X: p.Y, Y: -p.X}
	}
	sin, cos := math.Sincos(angle * math.Pi / 180)
	return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

// Data returns the path as SVG path data
func (p *Path) Data() string {
	var b strings.Builder
	b.WriteString("M" + formatPoint(p.Start))
	for _, seg := range p.Segments {
		switch seg.Kind {
		case SegmentLine:
			b.WriteString(" L" + formatPoint(seg.To))
		case SegmentQuad:
			b.WriteString(" Q" + formatPoint(seg.Control) + " " + formatPoint(seg.To))
		}
	}
	return b.String()
}

// ArrowheadData returns the arrowhead triangle as closed SVG path data
func (p *Path) ArrowheadData() string {
	return "M" + formatPoint(p.Arrowhead[0]) +
		" L" + formatPoint(p.Arrowhead[1]) +
		" L" + formatPoint(p.Arrowhead[2]) + " Z"
}

// Vertical reports whether the terminal leg of the path is vertical
func (p *Path) Vertical() bool {
	return p.Angle == 90 || p.Angle == 270
}

func formatPoint(pt Point) string {
	return formatFloat(pt.X) + "," + formatFloat(pt.Y)
}

func formatFloat(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
