package quadtree

// LinearScan returns the points within bb by checking every point. It gives
// the same points as searching a Quadtree holding the same points, and is
// used to validate and benchmark it.
func LinearScan(points []Point, bb BBox) []Point {
	var found []Point
	for _, p := range points {
		if bb.Contains(p) {
			found = append(found, p)
		}
	}
	return found
}
