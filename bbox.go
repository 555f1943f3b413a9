package quadtree

import (
	"math"
	"strconv"
)

// Point is a location in the plane. Points carry no identity beyond their
// coordinates, so equal points inserted twice are stored twice.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return "(" + formatFloat(p.X) + "," + formatFloat(p.Y) + ")"
}

// BBox is an axis-aligned bounding box. All four edges are part of the box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside or on the edge of the box.
func (bb BBox) Contains(p Point) bool {
	return p.X >= bb.MinX && p.X <= bb.MaxX &&
		p.Y >= bb.MinY && p.Y <= bb.MaxY
}

// Intersects reports whether the two boxes overlap. Boxes that only share an
// edge or a corner intersect.
func (bb BBox) Intersects(other BBox) bool {
	return overlap(bb, other)
}

// Valid reports whether the box has finite coordinates and its minimums do
// not exceed its maximums. Zero width or height is allowed.
func (bb BBox) Valid() bool {
	for _, f := range [...]float64{bb.MinX, bb.MinY, bb.MaxX, bb.MaxY} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return bb.MinX <= bb.MaxX && bb.MinY <= bb.MaxY
}

// Center is the point that splits the box into its four quadrants.
func (bb BBox) Center() Point {
	return Point{midpoint(bb.MinX, bb.MaxX), midpoint(bb.MinY, bb.MaxY)}
}

// midpoint halves before adding when the sum overflows, so the result stays
// within [a, b] for any finite a and b.
func midpoint(a, b float64) float64 {
	if m := (a + b) / 2; !math.IsInf(m, 0) {
		return m
	}
	return a/2 + b/2
}

func (bb BBox) String() string {
	return "[" + formatFloat(bb.MinX) + "," + formatFloat(bb.MaxX) + "]x[" +
		formatFloat(bb.MinY) + "," + formatFloat(bb.MaxY) + "]"
}

// quadrant gives the bounding box of quadrant q of bb.
func quadrant(bb BBox, q int) BBox {
	mid := bb.Center()
	switch q {
	case TopLeft:
		return BBox{MinX: bb.MinX, MinY: bb.MinY, MaxX: mid.X, MaxY: mid.Y}
	case BottomLeft:
		return BBox{MinX: bb.MinX, MinY: mid.Y, MaxX: mid.X, MaxY: bb.MaxY}
	case TopRight:
		return BBox{MinX: mid.X, MinY: bb.MinY, MaxX: bb.MaxX, MaxY: mid.Y}
	case BottomRight:
		return BBox{MinX: mid.X, MinY: mid.Y, MaxX: bb.MaxX, MaxY: bb.MaxY}
	}
	panic("invalid quadrant: " + strconv.Itoa(q))
}

func overlap(bbox1, bbox2 BBox) bool {
	return true &&
		(bbox1.MinX <= bbox2.MaxX) && (bbox1.MaxX >= bbox2.MinX) &&
		(bbox1.MinY <= bbox2.MaxY) && (bbox1.MaxY >= bbox2.MinY)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
