package harness

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var (
	headingColor = color.New(color.Bold)
	okColor      = color.New(color.FgGreen, color.Bold)
	failColor    = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// Print writes a human readable summary of the run to w.
func (r Report) Print(w io.Writer) {
	headingColor.Fprintf(w, "Quadtree benchmark\n")
	fmt.Fprintf(w, "  points generated:   %d (%d inserted, %d rejected)\n", r.Points, r.Inserted, r.Rejected)
	fmt.Fprintf(w, "  tree shape:         %d nodes, %d leaves, depth %d\n", r.Stats.Nodes, r.Stats.Leaves, r.Stats.MaxDepth)
	if r.Stats.OverflowPoints > 0 {
		warnColor.Fprintf(w, "  overflow:           %d points beyond capacity in %d leaves at max depth\n",
			r.Stats.OverflowPoints, r.Stats.OverflowLeaves)
	}
	fmt.Fprintf(w, "  populate:           %s\n", round(r.Populate))

	headingColor.Fprintf(w, "Query %v\n", r.Query)
	fmt.Fprintf(w, "  quadtree search:    %d points in %s\n", r.TreeFound, round(r.TreeSearch))
	fmt.Fprintf(w, "  linear scan:        %d points in %s\n", r.ScanFound, round(r.Scan))
	if r.TreeSearch > 0 {
		fmt.Fprintf(w, "  speedup:            %.1fx\n", float64(r.Scan)/float64(r.TreeSearch))
	}
	if r.Match {
		okColor.Fprintf(w, "  results match\n")
	} else {
		failColor.Fprintf(w, "  results DIFFER\n")
	}

	if r.Queries > 0 && r.Match {
		headingColor.Fprintf(w, "Batch\n")
		fmt.Fprintf(w, "  %d queries found %d points in %s\n", r.Queries, r.BatchFound, round(r.Batch))
	}
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		return d.Round(time.Millisecond)
	case d > time.Millisecond:
		return d.Round(time.Microsecond)
	}
	return d
}
