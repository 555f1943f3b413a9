package harness

import (
	"github.com/brianvoe/gofakeit/v6"

	"github.com/peterstace/quadtree"
)

// Generator produces uniformly distributed points inside a domain. Two
// generators with the same seed and domain produce the same sequence.
type Generator struct {
	faker  *gofakeit.Faker
	domain quadtree.BBox
}

func NewGenerator(seed int64, domain quadtree.BBox) *Generator {
	return &Generator{faker: gofakeit.New(seed), domain: domain}
}

func (g *Generator) Point() quadtree.Point {
	return quadtree.Point{
		X: g.faker.Float64Range(g.domain.MinX, g.domain.MaxX),
		Y: g.faker.Float64Range(g.domain.MinY, g.domain.MaxY),
	}
}

func (g *Generator) Points(n int) []quadtree.Point {
	points := make([]quadtree.Point, n)
	for i := range points {
		points[i] = g.Point()
	}
	return points
}

// Box gives a width by height box placed at random inside the domain. Boxes
// larger than the domain start at its minimum corner.
func (g *Generator) Box(width, height float64) quadtree.BBox {
	x := g.faker.Float64Range(g.domain.MinX, max(g.domain.MinX, g.domain.MaxX-width))
	y := g.faker.Float64Range(g.domain.MinY, max(g.domain.MinY, g.domain.MaxY-height))
	return quadtree.BBox{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}
