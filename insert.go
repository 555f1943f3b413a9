package quadtree

import "fmt"

// Insert adds a point to the tree. It returns false, leaving the tree
// unchanged, if the point lies outside the root's bounding box.
func (t *Quadtree) Insert(p Point) bool {
	if len(t.Nodes) == 0 || !t.insert(0, p) {
		return false
	}
	t.count++
	return true
}

// TryInsert is like Insert, but reports a rejected point as an error wrapping
// ErrOutOfBounds.
func (t *Quadtree) TryInsert(p Point) error {
	if !t.Insert(p) {
		return fmt.Errorf("insert %v into %v: %w", p, t.BBox(), ErrOutOfBounds)
	}
	return nil
}

func (t *Quadtree) insert(n int, p Point) bool {
	if !t.Nodes[n].BBox.Contains(p) {
		return false
	}

	if t.Nodes[n].IsLeaf {
		node := &t.Nodes[n]
		if len(node.Points) < t.policy.capacity {
			node.Points = append(node.Points, p)
			return true
		}
		if node.Depth >= t.policy.maxDepth {
			if len(node.Points) == t.policy.capacity {
				t.log.Warn("leaf at max depth over capacity, keeping excess points in place",
					"node", n, "bbox", node.BBox.String(), "depth", node.Depth)
			}
			node.Points = append(node.Points, p)
			return true
		}
		t.subdivide(n)
	}

	// Subdividing may have grown the arena, so index afresh.
	return t.insertIntoChild(t.Nodes[n].Children, p)
}

// subdivide turns leaf n into an internal node with four empty children, and
// moves its points down into them.
func (t *Quadtree) subdivide(n int) {
	bb := t.Nodes[n].BBox
	depth := t.Nodes[n].Depth
	var children [4]int
	for q := range children {
		t.Nodes = append(t.Nodes, Node{
			BBox:   quadrant(bb, q),
			Depth:  depth + 1,
			IsLeaf: true,
			Points: make([]Point, 0, t.policy.capacity),
		})
		children[q] = len(t.Nodes) - 1
	}

	node := &t.Nodes[n]
	points := node.Points
	node.Points = nil
	node.IsLeaf = false
	node.Children = children

	for _, p := range points {
		if !t.insertIntoChild(children, p) {
			panic("quadtree contained a point outside boundary")
		}
	}
	t.log.Debug("subdivided leaf", "node", n, "bbox", bb.String(), "depth", depth)
}

func (t *Quadtree) insertIntoChild(children [4]int, p Point) bool {
	for _, child := range children {
		if t.insert(child, p) {
			return true
		}
	}
	return false
}
