package quadtree

import "sync"

// Searcher is anything that can answer range queries.
type Searcher interface {
	Search(bb BBox) []Point
}

// Locked guards a Quadtree with a read/write lock, so that searches may run
// concurrently with insertions. Insertions are serialized with respect to
// each other and to searches.
type Locked struct {
	mu   sync.RWMutex
	tree *Quadtree
}

// NewLocked wraps tree. The caller must not use tree directly afterwards.
func NewLocked(tree *Quadtree) *Locked {
	return &Locked{tree: tree}
}

// Insert adds p under the write lock. See Quadtree.Insert.
func (l *Locked) Insert(p Point) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Insert(p)
}

// TryInsert adds p under the write lock. See Quadtree.TryInsert.
func (l *Locked) TryInsert(p Point) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.TryInsert(p)
}

// Search returns the points within bb under the read lock.
func (l *Locked) Search(bb BBox) []Point {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Search(bb)
}

// SearchFunc holds the read lock for the whole traversal, so the callback
// must not insert into l.
func (l *Locked) SearchFunc(bb BBox, callback func(p Point) bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.tree.SearchFunc(bb, callback)
}

// Len gives the number of points stored in the tree.
func (l *Locked) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

// Stats summarises the tree structure under the read lock.
func (l *Locked) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Stats()
}
