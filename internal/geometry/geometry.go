// Package geometry holds the pure hit-testing math used by the drawing
// engine. Everything here is stateless and operates on logical canvas
// coordinates (DPI independent).
package geometry

import "math"

// Point is a position in logical canvas space.
type Point struct {
	X, Y float64
}

// Pt is a convenience constructor.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the vector sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PointInRect reports whether p lies inside the axis-aligned box spanned
// by the two opposite corners a and b, in any corner order.
func PointInRect(p, a, b Point) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// PointInCircle reports whether p lies inside the circle whose radius is
// the distance from center to edge.
func PointInCircle(p, center, edge Point) bool {
	return center.Distance(p) <= center.Distance(edge)
}

// cross returns the z component of (b-a) x (p-a). Its sign tells which
// side of the directed edge a->b the point p falls on.
func cross(p, a, b Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// PointInTriangle reports whether p lies inside (or on an edge of) the
// triangle v1,v2,v3, using the sign of the three edge cross products.
func PointInTriangle(p, v1, v2, v3 Point) bool {
	d1 := cross(p, v1, v2)
	d2 := cross(p, v2, v3)
	d3 := cross(p, v3, v1)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// TriangleFromDrag converts a drag gesture into triangle vertices: the
// start point is the apex, and the base spans the end point and the
// end point mirrored about the apex x.
func TriangleFromDrag(start, end Point) (v1, v2, v3 Point) {
	return start, end, Point{X: 2*start.X - end.X, Y: end.Y}
}

// AlignOffset returns the horizontal shift of a text run's paint origin
// relative to its stored anchor x for the given alignment. Painting and
// hit-testing both apply it so their boxes coincide.
func AlignOffset(align string, width float64) float64 {
	switch align {
	case "center":
		return -width / 2
	case "right":
		return -width
	default: // left
		return 0
	}
}
