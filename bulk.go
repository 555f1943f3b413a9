package quadtree

// BulkLoad builds a new Quadtree covering bb holding every point that lies
// within bb. Points outside bb are dropped.
//
// The tree is built top-down rather than by repeated insertion, but ends up
// with the same nodes: a region is subdivided exactly when it holds more
// points than the policy's capacity and is above the max depth, and points on
// shared edges go to the same child Insert would pick.
func BulkLoad(bb BBox, points []Point, policy Policy) (*Quadtree, error) {
	tr, err := NewWithPolicy(bb, policy)
	if err != nil {
		return nil, err
	}
	items := make([]Point, 0, len(points))
	for _, p := range points {
		if bb.Contains(p) {
			items = append(items, p)
		}
	}
	tr.count = len(items)
	tr.bulkInsert(0, items)
	return tr, nil
}

func (t *Quadtree) bulkInsert(n int, items []Point) {
	node := &t.Nodes[n]
	if len(items) <= t.policy.capacity || node.Depth >= t.policy.maxDepth {
		node.Points = append(node.Points, items...)
		if len(items) > t.policy.capacity {
			t.log.Warn("leaf at max depth over capacity, keeping excess points in place",
				"node", n, "bbox", node.BBox.String(), "depth", node.Depth)
		}
		return
	}

	bb, depth := node.BBox, node.Depth
	var children [4]int
	var parts [4][]Point
	for q := range children {
		t.Nodes = append(t.Nodes, Node{BBox: quadrant(bb, q), Depth: depth + 1, IsLeaf: true})
		children[q] = len(t.Nodes) - 1
	}
	for _, p := range items {
		q := firstQuadrant(t, children, p)
		parts[q] = append(parts[q], p)
	}
	t.Nodes[n].IsLeaf = false
	t.Nodes[n].Children = children

	for q, child := range children {
		t.bulkInsert(child, parts[q])
	}
}

// firstQuadrant gives the position of the first child whose box contains p.
func firstQuadrant(t *Quadtree, children [4]int, p Point) int {
	for q, child := range children {
		if t.Nodes[child].BBox.Contains(p) {
			return q
		}
	}
	panic("quadtree contained a point outside boundary")
}
