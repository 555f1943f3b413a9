package quadtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, bb BBox, capacity, maxDepth int) *Quadtree {
	t.Helper()
	policy, err := NewPolicy(capacity, maxDepth)
	require.NoError(t, err)
	tr, err := NewWithPolicy(bb, policy)
	require.NoError(t, err)
	return tr
}

var hundredBox = BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

func TestInsertFifthPointSubdividesRoot(t *testing.T) {
	tr := newTestTree(t, hundredBox, 4, DefaultMaxDepth)
	for i := 1; i <= 4; i++ {
		require.True(t, tr.Insert(Point{float64(i), float64(i)}))
		assert.True(t, tr.Nodes[0].IsLeaf)
	}
	require.True(t, tr.Insert(Point{5, 5}))
	assert.False(t, tr.Nodes[0].IsLeaf)
	assert.Empty(t, tr.Nodes[0].Points)
	checkInvariants(t, tr)

	assert.ElementsMatch(t,
		[]Point{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}},
		tr.Search(BBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}),
	)
	assert.Empty(t, tr.Search(BBox{MinX: 6, MinY: 6, MaxX: 10, MaxY: 10}))
	assert.Equal(t, []Point{{3, 3}}, tr.Search(BBox{MinX: 3, MinY: 3, MaxX: 3, MaxY: 3}))
}

func TestSubdivisionKeepsBufferedPoints(t *testing.T) {
	const capacity = 10
	tr := newTestTree(t, hundredBox, capacity, DefaultMaxDepth)
	var points []Point
	for i := 0; i <= capacity; i++ {
		p := Point{float64(i*9) + 0.5, 100 - float64(i*9) - 0.5}
		points = append(points, p)
		require.True(t, tr.Insert(p))
	}
	stats := tr.Stats()
	assert.Equal(t, 1, stats.Internal)
	assert.Equal(t, 5, stats.Nodes)
	assert.Equal(t, capacity+1, stats.Points)

	for _, p := range points {
		got := tr.Search(BBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y})
		assert.Equal(t, []Point{p}, got)
	}
}

func TestInsertEdgeTieBreak(t *testing.T) {
	tr := newTestTree(t, hundredBox, 4, DefaultMaxDepth)
	for _, p := range []Point{{10, 10}, {10, 90}, {90, 10}, {90, 90}} {
		require.True(t, tr.Insert(p))
	}
	for _, p := range []Point{
		{50, 50}, // center: every child contains it
		{50, 75}, // left/right edge in the bottom half
		{75, 50}, // top/bottom edge in the right half
		{50, 0},
		{0, 50},
	} {
		require.True(t, tr.Insert(p))
	}
	checkInvariants(t, tr)

	children := tr.Nodes[0].Children
	leafPoints := func(q int) []Point {
		node := tr.Nodes[children[q]]
		require.True(t, node.IsLeaf)
		return node.Points
	}
	assert.Equal(t, []Point{{10, 10}, {50, 50}, {50, 0}, {0, 50}}, leafPoints(TopLeft))
	assert.Equal(t, []Point{{10, 90}, {50, 75}}, leafPoints(BottomLeft))
	assert.Equal(t, []Point{{90, 10}, {75, 50}}, leafPoints(TopRight))
	assert.Equal(t, []Point{{90, 90}}, leafPoints(BottomRight))
}

func TestSearchIncludesPointsOnQuadrantEdges(t *testing.T) {
	tr := newTestTree(t, hundredBox, 1, DefaultMaxDepth)
	edges := []Point{{50, 20}, {20, 50}, {50, 50}, {50, 100}, {100, 50}, {0, 0}, {100, 100}}
	for _, p := range edges {
		require.True(t, tr.Insert(p))
	}
	require.False(t, tr.Nodes[0].IsLeaf)
	checkInvariants(t, tr)

	for _, p := range edges {
		got := tr.Search(BBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y})
		assert.Equal(t, []Point{p}, got, "point %v", p)
	}
	assert.ElementsMatch(t,
		[]Point{{50, 20}, {50, 50}, {50, 100}},
		tr.Search(BBox{MinX: 50, MinY: 0, MaxX: 50, MaxY: 100}),
	)
	assert.ElementsMatch(t,
		[]Point{{20, 50}, {50, 50}, {100, 50}},
		tr.Search(BBox{MinX: 0, MinY: 50, MaxX: 100, MaxY: 50}),
	)
}

func TestInsertRejectsPointsOutsideRoot(t *testing.T) {
	tr := newTestTree(t, hundredBox, 2, DefaultMaxDepth)
	for _, p := range []Point{{1, 1}, {99, 99}, {50, 50}} {
		require.True(t, tr.Insert(p))
	}
	before := tr.Stats()
	all := tr.Search(hundredBox)

	for _, p := range []Point{
		{101, 50},
		{50, -0.0001},
		{-1, -1},
		{math.NaN(), 50},
		{50, math.Inf(1)},
	} {
		assert.False(t, tr.Insert(p), "point %v", p)
		err := tr.TryInsert(p)
		assert.ErrorIs(t, err, ErrOutOfBounds)
	}
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, before, tr.Stats())
	assert.Equal(t, all, tr.Search(hundredBox))
	assert.NoError(t, tr.TryInsert(Point{100, 100}))
}

func TestMaxDepthBoundsDuplicatePoints(t *testing.T) {
	tr := newTestTree(t, BBox{MinX: 0, MinY: 0, MaxX: 8, MaxY: 8}, 2, 3)
	for i := 0; i < 10; i++ {
		require.True(t, tr.Insert(Point{1, 1}))
	}
	checkInvariants(t, tr)
	assert.Equal(t, Stats{
		Points:         10,
		Nodes:          13,
		Leaves:         10,
		Internal:       3,
		MaxDepth:       3,
		OverflowLeaves: 1,
		OverflowPoints: 8,
	}, tr.Stats())
	assert.Len(t, tr.Search(BBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}), 10)
	assert.Empty(t, tr.Search(BBox{MinX: 2, MinY: 2, MaxX: 8, MaxY: 8}))
}

func TestDegenerateRootBox(t *testing.T) {
	tr := newTestTree(t, BBox{MinX: 3, MinY: 3, MaxX: 3, MaxY: 3}, 1, 5)
	for i := 0; i < 3; i++ {
		require.True(t, tr.Insert(Point{3, 3}))
	}
	assert.False(t, tr.Insert(Point{3, 3.5}))

	stats := tr.Stats()
	assert.Equal(t, 5, stats.MaxDepth)
	assert.Equal(t, 21, stats.Nodes)
	assert.Equal(t, 2, stats.OverflowPoints)
	assert.Len(t, tr.Search(BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}), 3)
}

func TestDefaultPolicyStopsAtDefaultMaxDepth(t *testing.T) {
	tr := New(hundredBox)
	for i := 0; i <= DefaultCapacity+50; i++ {
		require.True(t, tr.Insert(Point{42, 42}))
	}
	stats := tr.Stats()
	assert.Equal(t, DefaultMaxDepth, stats.MaxDepth)
	assert.Equal(t, 1, stats.OverflowLeaves)
	assert.Equal(t, 51, stats.OverflowPoints)
	assert.Len(t, tr.Search(BBox{MinX: 42, MinY: 42, MaxX: 42, MaxY: 42}), DefaultCapacity+51)
}

func TestInfiniteRootBoxRejected(t *testing.T) {
	inf := math.Inf(1)
	for _, bb := range []BBox{
		{MinX: -inf, MinY: -inf, MaxX: inf, MaxY: inf},
		{MinX: 0, MinY: 0, MaxX: inf, MaxY: 1},
	} {
		_, err := NewWithPolicy(bb, DefaultPolicy())
		assert.ErrorIs(t, err, ErrInvalidBBox, "bbox %v", bb)
		_, err = BulkLoad(bb, []Point{{0, 0}, {1, 1}}, DefaultPolicy())
		assert.ErrorIs(t, err, ErrInvalidBBox, "bbox %v", bb)
	}
}

func TestInsertNearFloatLimit(t *testing.T) {
	root := BBox{MinX: 1e308, MinY: 0, MaxX: 1.7e308, MaxY: 1}
	tr := newTestTree(t, root, 1, DefaultMaxDepth)
	a, b := Point{1.5e308, 0.25}, Point{1.6e308, 0.25}
	require.True(t, tr.Insert(a))
	require.True(t, tr.Insert(b))

	checkInvariants(t, tr)
	for i, node := range tr.Nodes {
		assert.True(t, root.Contains(Point{node.BBox.MinX, node.BBox.MinY}), "node %d: %v", i, node.BBox)
		assert.True(t, root.Contains(Point{node.BBox.MaxX, node.BBox.MaxY}), "node %d: %v", i, node.BBox)
	}
	stats := tr.Stats()
	assert.Zero(t, stats.OverflowLeaves)
	assert.Less(t, stats.MaxDepth, DefaultMaxDepth)
	assert.ElementsMatch(t, []Point{a, b}, tr.Search(root))
}
