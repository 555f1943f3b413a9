// Package harness populates a quadtree with random points and compares its
// range searches against a linear scan over the same points.
package harness

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/peterstace/quadtree"
)

var (
	ErrInvalidConfig = errors.New("invalid benchmark config")
	ErrMismatch      = errors.New("quadtree search disagrees with linear scan")
)

// cancelCheckInterval is how many points are populated between checks of
// the context.
const cancelCheckInterval = 1 << 16

type Config struct {
	Points   int
	Capacity int
	MaxDepth int
	Seed     int64

	// Domain bounds both the tree and the generated points.
	Domain quadtree.BBox
	// Query is searched with both the tree and the linear scan.
	Query quadtree.BBox

	// Queries random boxes of QuerySize by QuerySize are searched in
	// parallel with Workers goroutines after the comparison.
	Queries   int
	QuerySize float64
	Workers   int
}

func DefaultConfig() Config {
	return Config{
		Points:    1_000_000,
		Capacity:  quadtree.DefaultCapacity,
		MaxDepth:  quadtree.DefaultMaxDepth,
		Seed:      1,
		Domain:    quadtree.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
		Query:     quadtree.BBox{MinX: 10, MinY: 10, MaxX: 15, MaxY: 15},
		Queries:   100,
		QuerySize: 5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Points < 0:
		return fmt.Errorf("%w: negative point count %d", ErrInvalidConfig, c.Points)
	case c.Queries < 0:
		return fmt.Errorf("%w: negative query count %d", ErrInvalidConfig, c.Queries)
	case c.QuerySize < 0:
		return fmt.Errorf("%w: negative query size %v", ErrInvalidConfig, c.QuerySize)
	case !c.Domain.Valid():
		return fmt.Errorf("%w: domain %v", ErrInvalidConfig, c.Domain)
	case !c.Query.Valid():
		return fmt.Errorf("%w: query %v", ErrInvalidConfig, c.Query)
	}
	if _, err := quadtree.NewPolicy(c.Capacity, c.MaxDepth); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Report holds the outcome of a run.
type Report struct {
	Points   int
	Inserted int
	Rejected int
	Stats    quadtree.Stats

	Query      quadtree.BBox
	TreeFound  int
	ScanFound  int
	Match      bool
	Populate   time.Duration
	TreeSearch time.Duration
	Scan       time.Duration

	Queries    int
	BatchFound int
	Batch      time.Duration

	Tree *quadtree.Quadtree
}

// Run populates a flat slice and a quadtree with the same random points, then
// times cfg.Query through both. A disagreement between the two is reported
// as ErrMismatch, along with the report. Records from the run and from the
// tree are tagged with their own "system" attribute derived from log.
func Run(ctx context.Context, cfg Config, m *Metrics, log *slog.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	policy, err := quadtree.NewPolicy(cfg.Capacity, cfg.MaxDepth)
	if err != nil {
		return Report{}, err
	}
	tree, err := quadtree.NewWithPolicy(cfg.Domain, policy)
	if err != nil {
		return Report{}, err
	}
	tree.SetLogger(log.With("system", "quadtree"))
	log = log.With("system", "harness")
	rep := Report{Points: cfg.Points, Query: cfg.Query, Queries: cfg.Queries, Tree: tree}
	gen := NewGenerator(cfg.Seed, cfg.Domain)

	log.Info("populating", "points", cfg.Points, "capacity", cfg.Capacity, "domain", cfg.Domain.String())
	points := make([]quadtree.Point, 0, cfg.Points)
	start := time.Now()
	for i := 0; i < cfg.Points; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return rep, fmt.Errorf("populating after %d points: %w", i, err)
			}
		}
		p := gen.Point()
		points = append(points, p)
		if tree.Insert(p) {
			rep.Inserted++
		} else {
			rep.Rejected++
		}
	}
	rep.Populate = time.Since(start)
	rep.Stats = tree.Stats()
	m.phaseDuration.WithLabelValues("populate").Observe(rep.Populate.Seconds())
	m.pointsInserted.Add(float64(rep.Inserted))
	m.pointsRejected.Add(float64(rep.Rejected))
	log.Info("populated", "duration", rep.Populate, "nodes", rep.Stats.Nodes, "depth", rep.Stats.MaxDepth)
	if rep.Stats.OverflowPoints > 0 {
		log.Warn("leaves at max depth hold excess points",
			"leaves", rep.Stats.OverflowLeaves, "points", rep.Stats.OverflowPoints)
	}

	start = time.Now()
	treeFound := tree.Search(cfg.Query)
	rep.TreeSearch = time.Since(start)
	rep.TreeFound = len(treeFound)
	m.phaseDuration.WithLabelValues("tree_search").Observe(rep.TreeSearch.Seconds())
	m.queryResults.WithLabelValues("tree").Observe(float64(rep.TreeFound))

	start = time.Now()
	scanFound := quadtree.LinearScan(points, cfg.Query)
	rep.Scan = time.Since(start)
	rep.ScanFound = len(scanFound)
	m.phaseDuration.WithLabelValues("linear_scan").Observe(rep.Scan.Seconds())
	m.queryResults.WithLabelValues("scan").Observe(float64(rep.ScanFound))

	rep.Match = sameMultiset(treeFound, scanFound)
	log.Info("searched", "query", cfg.Query.String(), "tree_found", rep.TreeFound,
		"tree_duration", rep.TreeSearch, "scan_found", rep.ScanFound, "scan_duration", rep.Scan)
	if !rep.Match {
		return rep, fmt.Errorf("query %v: %w", cfg.Query, ErrMismatch)
	}

	if cfg.Queries == 0 {
		return rep, nil
	}
	boxes := make([]quadtree.BBox, cfg.Queries)
	for i := range boxes {
		boxes[i] = gen.Box(cfg.QuerySize, cfg.QuerySize)
	}
	start = time.Now()
	results, err := quadtree.SearchBatch(ctx, tree, boxes, cfg.Workers)
	if err != nil {
		return rep, fmt.Errorf("batch search: %w", err)
	}
	rep.Batch = time.Since(start)
	m.phaseDuration.WithLabelValues("batch_search").Observe(rep.Batch.Seconds())
	for _, found := range results {
		rep.BatchFound += len(found)
		m.queryResults.WithLabelValues("batch").Observe(float64(len(found)))
	}
	log.Info("batch searched", "queries", cfg.Queries, "found", rep.BatchFound, "duration", rep.Batch)
	return rep, nil
}

func sameMultiset(a, b []quadtree.Point) bool {
	if len(a) != len(b) {
		return false
	}
	byXY := func(p, q quadtree.Point) int {
		if c := cmp.Compare(p.X, q.X); c != 0 {
			return c
		}
		return cmp.Compare(p.Y, q.Y)
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.SortFunc(a, byXY)
	slices.SortFunc(b, byXY)
	return slices.Equal(a, b)
}
