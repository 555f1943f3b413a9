package quadtree

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Stats describes the shape of a Quadtree.
type Stats struct {
	Points   int
	Nodes    int
	Leaves   int
	Internal int
	MaxDepth int

	// OverflowLeaves counts leaves at the policy's max depth holding more
	// points than its capacity, and OverflowPoints the points beyond capacity
	// held by them. Both are zero unless the input has many (near) duplicate
	// points, or the tree's bounding box is degenerate.
	OverflowLeaves int
	OverflowPoints int
}

// Stats walks the tree and summarises its structure.
func (t *Quadtree) Stats() Stats {
	var s Stats
	for _, node := range t.Nodes {
		s.Nodes++
		if node.Depth > s.MaxDepth {
			s.MaxDepth = node.Depth
		}
		if !node.IsLeaf {
			s.Internal++
			continue
		}
		s.Leaves++
		s.Points += len(node.Points)
		if excess := len(node.Points) - t.policy.capacity; excess > 0 {
			s.OverflowLeaves++
			s.OverflowPoints += excess
		}
	}
	return s
}

// Dump renders the node hierarchy as an indented tree, listing at most
// maxPoints points per leaf.
func (t *Quadtree) Dump(maxPoints int) string {
	if len(t.Nodes) == 0 {
		return "<empty>\n"
	}
	root := treeprint.NewWithRoot(t.nodeLabel(0, ""))
	var recurse func(treeprint.Tree, int)
	recurse = func(branch treeprint.Tree, n int) {
		node := &t.Nodes[n]
		if node.IsLeaf {
			for i, p := range node.Points {
				if i == maxPoints {
					branch.AddNode(fmt.Sprintf("... %d more", len(node.Points)-maxPoints))
					break
				}
				branch.AddNode(p.String())
			}
			return
		}
		for q, child := range node.Children {
			recurse(branch.AddBranch(t.nodeLabel(child, quadrantNames[q])), child)
		}
	}
	recurse(root, 0)
	return root.String()
}

var quadrantNames = [4]string{"top-left", "bottom-left", "top-right", "bottom-right"}

func (t *Quadtree) nodeLabel(n int, name string) string {
	node := &t.Nodes[n]
	label := node.BBox.String()
	if name != "" {
		label = name + " " + label
	}
	if node.IsLeaf {
		return fmt.Sprintf("%s points=%d", label, len(node.Points))
	}
	return label
}
