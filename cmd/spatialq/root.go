package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/TrevorS/spatial"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by all subcommands: the resolved options, the
// logger and the loaded index.
type app struct {
	opts options
	log  *zap.Logger
	idx  spatial.Index
}

func newRootCommand() *cobra.Command {
	return newApp(nil).command()
}

// newApp returns an app that logs to log. A nil log is replaced during setup
// by a zap production logger, or a development logger with --verbose.
func newApp(log *zap.Logger) *app {
	return &app{opts: defaultOptions(), log: log}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spatialq",
		Short: "Query points with a KD-tree, PR quadtree or brute-force index",
		Long: `spatialq loads points from a CSV file (one point per row) into the
selected index and runs a single query against it.

Anchors are given as comma-separated coordinates, for example 9,2.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
		// Sync on stderr fails with EINVAL/ENOTTY on terminals; there is
		// nothing left to flush to, so the error is ignored.
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}
	a.opts.addFlags(cmd.PersistentFlags())
	cmd.AddCommand(
		a.newSearchCommand(),
		a.newNNCommand(),
		a.newKNNCommand(),
		a.newRangeCommand(),
		a.newStatsCommand(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.opts.resolve(cmd.Flags()); err != nil {
		return err
	}
	if a.log == nil {
		log, err := newLogger(a.opts.Verbose)
		if err != nil {
			return fmt.Errorf("spatialq: logger: %w", err)
		}
		a.log = log
	}
	a.log.Debug("resolved options",
		zap.String("index", a.opts.Index),
		zap.Int("dims", a.opts.Dims),
		zap.Int("quad_k", a.opts.QuadK),
		zap.Int("bucket", a.opts.Bucket),
		zap.String("points", a.opts.Points),
	)

	idx, err := a.opts.newIndex()
	if err != nil {
		return err
	}
	a.idx = idx
	if a.opts.Points == "" {
		return nil
	}
	return a.load(a.opts.Points)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (a *app) load(path string) error {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("spatialq: %w", err)
	}
	defer f.Close()

	pts, err := readPoints(f, a.idx.Dims())
	if err != nil {
		return fmt.Errorf("spatialq: %s: %w", path, err)
	}
	if err := loadIndex(a.idx, pts); err != nil {
		return fmt.Errorf("spatialq: %s: %w", path, err)
	}
	a.log.Info("loaded points",
		zap.String("file", path),
		zap.String("index", a.opts.Index),
		zap.Int("count", a.idx.Count()),
		zap.Int("height", a.idx.Height()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// timed runs fn and logs its duration at debug level.
func (a *app) timed(query string, fn func() error) error {
	start := time.Now()
	err := fn()
	a.log.Debug("query finished",
		zap.String("query", query),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return err
}

func (a *app) newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search X,Y,...",
		Short: "Report whether a point is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseAnchor(args[0], a.idx.Dims())
			if err != nil {
				return err
			}
			return a.timed("search", func() error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.idx.Search(p))
				return err
			})
		},
	}
}

func (a *app) newNNCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "nn X,Y,...",
		Short: "Print the nearest stored point other than the anchor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := parseAnchor(args[0], a.idx.Dims())
			if err != nil {
				return err
			}
			return a.timed("nn", func() error {
				nn, ok, err := a.idx.NearestNeighbor(anchor)
				if err != nil {
					return err
				}
				if !ok {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "none")
					return err
				}
				return printNeighbors(cmd, []spatial.Neighbor{nn})
			})
		},
	}
}

func (a *app) newKNNCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "knn K X,Y,...",
		Short: "Print up to K nearest stored points in ascending distance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid K %q: %w", args[0], err)
			}
			anchor, err := parseAnchor(args[1], a.idx.Dims())
			if err != nil {
				return err
			}
			return a.timed("knn", func() error {
				nbrs, err := a.idx.KNearestNeighbors(k, anchor)
				if err != nil {
					return err
				}
				return printNeighbors(cmd, nbrs)
			})
		},
	}
}

func (a *app) newRangeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "range R X,Y,...",
		Short: "Print every stored point within distance R of the anchor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			radius, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid radius %q: %w", args[0], err)
			}
			if radius < 0 {
				return fmt.Errorf("invalid radius %v: must not be negative", radius)
			}
			anchor, err := parseAnchor(args[1], a.idx.Dims())
			if err != nil {
				return err
			}
			return a.timed("range", func() error {
				pts, err := a.idx.Range(anchor, radius)
				if err != nil {
					return err
				}
				for _, p := range pts {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func (a *app) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the index kind, point count and tree height",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "index: %s\ndims: %d\ncount: %d\nheight: %d\n",
				a.opts.Index, a.idx.Dims(), a.idx.Count(), a.idx.Height())
			return err
		},
	}
}

func printNeighbors(cmd *cobra.Command, nbrs []spatial.Neighbor) error {
	for _, n := range nbrs {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%v %g\n", n.Point, n.Distance); err != nil {
			return err
		}
	}
	return nil
}
