// Tool to compare quadtree range searches against a linear scan over the same
// random points.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/peterstace/quadtree"
	"github.com/peterstace/quadtree/internal/harness"
)

func main() {
	// only try dotenv if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatal("Error loading .env file")
		}
	}

	if err := run(os.Args, os.Stdout); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	defaults := harness.DefaultConfig()
	app := cli.App{
		Name:    "qtbench",
		Writer:  out,
		Usage:   "benchmark quadtree range search against a linear scan",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "points",
				Usage:   "number of random points to generate",
				Value:   defaults.Points,
				EnvVars: []string{"QTBENCH_POINTS"},
			},
			&cli.IntFlag{
				Name:    "capacity",
				Usage:   "points a leaf holds before it is subdivided",
				Value:   defaults.Capacity,
				EnvVars: []string{"QTBENCH_CAPACITY"},
			},
			&cli.IntFlag{
				Name:    "max-depth",
				Usage:   "depth at which leaves stop subdividing",
				Value:   defaults.MaxDepth,
				EnvVars: []string{"QTBENCH_MAX_DEPTH"},
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "seed for the point generator",
				Value:   defaults.Seed,
				EnvVars: []string{"QTBENCH_SEED"},
			},
			&cli.StringFlag{
				Name:    "domain",
				Usage:   "bounds of the tree and the generated points, as minx,miny,maxx,maxy",
				Value:   formatBBox(defaults.Domain),
				EnvVars: []string{"QTBENCH_DOMAIN"},
			},
			&cli.StringFlag{
				Name:    "query",
				Usage:   "box searched with both the tree and the linear scan, as minx,miny,maxx,maxy",
				Value:   formatBBox(defaults.Query),
				EnvVars: []string{"QTBENCH_QUERY"},
			},
			&cli.IntFlag{
				Name:    "queries",
				Usage:   "number of random boxes to search in parallel after the comparison",
				Value:   defaults.Queries,
				EnvVars: []string{"QTBENCH_QUERIES"},
			},
			&cli.Float64Flag{
				Name:    "query-size",
				Usage:   "width and height of the random boxes",
				Value:   defaults.QuerySize,
				EnvVars: []string{"QTBENCH_QUERY_SIZE"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "goroutines searching the random boxes (0 for GOMAXPROCS)",
				EnvVars: []string{"QTBENCH_WORKERS"},
			},
			&cli.IntFlag{
				Name:  "dump",
				Usage: "print the tree structure, listing up to this many points per leaf (-1 to disable)",
				Value: -1,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity level (eg: warn, info, debug)",
				Value:   "info",
				EnvVars: []string{"QTBENCH_LOG_LEVEL", "LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log output format: text or json",
				Value:   "text",
				EnvVars: []string{"QTBENCH_LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "metrics-listen",
				Usage:   "if set, serve prometheus metrics on this address after the run until interrupted",
				EnvVars: []string{"QTBENCH_METRICS_LISTEN"},
			},
		},
		Action: runBench,
	}
	return app.Run(args)
}

func runBench(cctx *cli.Context) error {
	ctx, cancel := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := setupLogger(os.Stderr, cctx.String("log-level"), cctx.String("log-format"))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	cfg, err := configFromFlags(cctx)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := harness.NewMetrics(reg)
	rep, runErr := harness.Run(ctx, cfg, metrics, logger)
	if runErr != nil && !errors.Is(runErr, harness.ErrMismatch) {
		return runErr
	}
	rep.Print(cctx.App.Writer)
	if n := cctx.Int("dump"); n >= 0 {
		fmt.Fprint(cctx.App.Writer, rep.Tree.Dump(n))
	}

	if addr := cctx.String("metrics-listen"); addr != "" {
		if err := serveMetrics(ctx, addr, reg, logger); err != nil {
			return err
		}
	}
	return runErr
}

func configFromFlags(cctx *cli.Context) (harness.Config, error) {
	domain, err := parseBBox(cctx.String("domain"))
	if err != nil {
		return harness.Config{}, fmt.Errorf("--domain: %w", err)
	}
	query, err := parseBBox(cctx.String("query"))
	if err != nil {
		return harness.Config{}, fmt.Errorf("--query: %w", err)
	}
	cfg := harness.Config{
		Points:    cctx.Int("points"),
		Capacity:  cctx.Int("capacity"),
		MaxDepth:  cctx.Int("max-depth"),
		Seed:      cctx.Int64("seed"),
		Domain:    domain,
		Query:     query,
		Queries:   cctx.Int("queries"),
		QuerySize: cctx.Float64("query-size"),
		Workers:   cctx.Int("workers"),
	}
	return cfg, cfg.Validate()
}

// parseBBox parses a box written as minx,miny,maxx,maxy.
func parseBBox(s string) (quadtree.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return quadtree.BBox{}, fmt.Errorf("expected minx,miny,maxx,maxy, got %q", s)
	}
	var vals [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return quadtree.BBox{}, fmt.Errorf("parsing %q: %w", part, err)
		}
		vals[i] = f
	}
	bb := quadtree.BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
	if !bb.Valid() {
		return quadtree.BBox{}, fmt.Errorf("%q: %w", s, quadtree.ErrInvalidBBox)
	}
	return bb, nil
}

func formatBBox(bb quadtree.BBox) string {
	return fmt.Sprintf("%g,%g,%g,%g", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY)
}

func setupLogger(out io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	hopts := slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(out, &hopts)
	case "json":
		handler = slog.NewJSONHandler(out, &hopts)
	default:
		return nil, fmt.Errorf("unknown log format: %#v", format)
	}
	return slog.New(handler), nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
