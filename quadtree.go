// Package quadtree implements an in-memory point quadtree for answering
// axis-aligned rectangular range queries.
//
// A Quadtree is not safe for concurrent use while points are being inserted.
// Once construction is finished, any number of goroutines may search it. Use
// Locked when searches and insertions need to be interleaved.
package quadtree

import (
	"errors"
	"log/slog"
)

const (
	// DefaultCapacity is the number of points a leaf holds before it is
	// subdivided.
	DefaultCapacity = 100

	// DefaultMaxDepth is the depth below which leaves stop subdividing.
	DefaultMaxDepth = 32
)

// Child positions within Node.Children. Insertion tries children in this
// order, so a point on a shared edge goes to the first child containing it.
const (
	TopLeft = iota
	BottomLeft
	TopRight
	BottomRight
)

var (
	ErrOutOfBounds     = errors.New("point outside of tree bounds")
	ErrInvalidBBox     = errors.New("invalid bounding box")
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrInvalidMaxDepth = errors.New("max depth must not be negative")
)

// Node is a node in a Quadtree. Leaf nodes hold points directly. Internal
// nodes hold no points and have exactly four children, addressed by their
// index into the tree's Nodes.
type Node struct {
	BBox     BBox
	Depth    int
	IsLeaf   bool
	Points   []Point
	Children [4]int
}

// Quadtree is an in-memory point quadtree. The root is always Nodes[0].
// Its zero value has no root and rejects every insertion.
type Quadtree struct {
	Nodes []Node

	policy Policy
	count  int
	log    *slog.Logger
}

// NewPolicy creates a new policy with the given node size parameters.
func NewPolicy(capacity, maxDepth int) (Policy, error) {
	if capacity < 1 {
		return Policy{}, ErrInvalidCapacity
	}
	if maxDepth < 0 {
		return Policy{}, ErrInvalidMaxDepth
	}
	return Policy{capacity, maxDepth}, nil
}

// DefaultPolicy gives a policy using DefaultCapacity and DefaultMaxDepth.
func DefaultPolicy() Policy {
	return Policy{DefaultCapacity, DefaultMaxDepth}
}

// Policy controls when the leaves of a Quadtree are subdivided.
type Policy struct {
	capacity int
	maxDepth int
}

// Capacity is the number of points a leaf holds before it subdivides.
func (p Policy) Capacity() int { return p.capacity }

// MaxDepth is the depth at which leaves stop subdividing. Leaves at this
// depth keep accepting points past their capacity.
func (p Policy) MaxDepth() int { return p.maxDepth }

// New creates an empty Quadtree covering bb with the default policy.
func New(bb BBox) *Quadtree {
	return newTree(bb, DefaultPolicy())
}

// NewWithPolicy creates an empty Quadtree covering bb.
func NewWithPolicy(bb BBox, policy Policy) (*Quadtree, error) {
	if !bb.Valid() {
		return nil, ErrInvalidBBox
	}
	if policy.capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return newTree(bb, policy), nil
}

func newTree(bb BBox, policy Policy) *Quadtree {
	return &Quadtree{
		Nodes:  []Node{{BBox: bb, IsLeaf: true}},
		policy: policy,
		log:    slog.Default().With("system", "quadtree"),
	}
}

// SetLogger replaces the logger used to report subdivisions and overflowing
// leaves.
func (t *Quadtree) SetLogger(log *slog.Logger) {
	t.log = log
}

// BBox gives the bounding box of the root node.
func (t *Quadtree) BBox() BBox {
	if len(t.Nodes) == 0 {
		return BBox{}
	}
	return t.Nodes[0].BBox
}

// Policy gives the policy the tree was created with.
func (t *Quadtree) Policy() Policy {
	return t.policy
}

// Len gives the number of points stored in the tree.
func (t *Quadtree) Len() int {
	return t.count
}

// Search returns every point in the tree that lies within bb. The order of
// the returned points is not meaningful.
func (t *Quadtree) Search(bb BBox) []Point {
	var found []Point
	t.SearchFunc(bb, func(p Point) bool {
		found = append(found, p)
		return true
	})
	return found
}

// SearchFunc looks for any points in the tree that lie within bb. The
// callback is called with each found point, and the search stops early once
// it returns false.
func (t *Quadtree) SearchFunc(bb BBox, callback func(p Point) bool) {
	if len(t.Nodes) == 0 {
		return
	}
	var recurse func(int) bool
	recurse = func(n int) bool {
		node := &t.Nodes[n]
		if !overlap(node.BBox, bb) {
			return true
		}
		if node.IsLeaf {
			for _, p := range node.Points {
				if bb.Contains(p) && !callback(p) {
					return false
				}
			}
			return true
		}
		for _, child := range node.Children {
			if !recurse(child) {
				return false
			}
		}
		return true
	}
	recurse(0)
}
