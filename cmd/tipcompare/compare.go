package main

import (
	"context"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-tipstat/infrastructure/loader"
	"github.com/ahrav/go-tipstat/infrastructure/middleware"
	"github.com/ahrav/go-tipstat/infrastructure/report"
	"github.com/ahrav/go-tipstat/infrastructure/significance"
	"github.com/ahrav/go-tipstat/internal/application"
	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

// maxConcurrentLoads bounds how many files are read at once.
const maxConcurrentLoads = 4

// runOptions are the flags shared by compare and sample.
type runOptions struct {
	ttest    bool
	method   string
	format   string
	metrics  bool
	detailed bool
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.ttest, "ttest", false, "Run a significance test between the groups")
	cmd.Flags().StringVar(&o.method, "method", significance.MethodWelch,
		fmt.Sprintf("Significance test backend %v", significance.Methods()))
	cmd.Flags().StringVarP(&o.format, "format", "f", report.FormatText,
		fmt.Sprintf("Output format %v", report.Formats()))
	cmd.Flags().BoolVar(&o.metrics, "metrics", false, "Print Prometheus metrics to stderr when done")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "Include per-group statistics in text output")
}

// session is the comparator and its collaborators for one invocation.
type session struct {
	cfg        application.Config
	comparator ports.Comparator
	registry   *prometheus.Registry
	renderer   report.Renderer
	runTest    bool
	logger     *log.Logger
}

// newSession resolves configuration, applying flags set on cmd over the
// config file, and builds a traced comparator.
func newSession(cmd *cobra.Command, root *rootOptions, run *runOptions) (*session, error) {
	logger := root.logger(cmd)

	cfg, err := root.loadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("method") {
		cfg.Significance.Method = run.method
	}
	if cmd.Flags().Changed("ttest") {
		cfg.Significance.Enabled = run.ttest
	}

	renderer, err := report.New(run.format, run.detailed)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:      cfg,
		renderer: renderer,
		runTest:  cfg.Significance.Enabled,
		logger:   logger,
	}

	opts := []application.Option{application.WithLogger(logger)}
	if run.metrics {
		s.registry = prometheus.NewRegistry()
		opts = append(opts, application.WithMetrics(middleware.NewPrometheusMetrics(s.registry)))
	}

	cmp, err := application.NewTipComparatorFromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"method": cmp.TesterName(),
		"ttest":  s.runTest,
	}).Debug("comparator ready")

	s.comparator = middleware.NewTracedComparator(cmp, nil)
	return s, nil
}

// finish renders results to out and, when enabled, dumps metrics to errOut.
func (s *session) finish(out, errOut io.Writer, results []report.Result) error {
	if err := s.renderer.Render(out, results); err != nil {
		return err
	}
	if s.registry == nil {
		return nil
	}
	return writeMetrics(errOut, s.registry)
}

func newCompareCmd(root *rootOptions) *cobra.Command {
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "compare FILE...",
		Short: "Compare tips in one or more CSV or JSON files",
		Long: "Load each file (.csv, .tsv or .json), split the records into smokers and " +
			"non-smokers and print one summary per file in argument order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root, run)
			if err != nil {
				return err
			}
			results, err := s.compareFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			return s.finish(cmd.OutOrStdout(), cmd.ErrOrStderr(), results)
		},
	}
	run.bind(cmd)

	return cmd
}

// compareFiles loads and compares every path concurrently. Results keep the
// order of paths; the first failure cancels the rest.
func (s *session) compareFiles(ctx context.Context, paths []string) ([]report.Result, error) {
	results := make([]report.Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			ds, err := loader.LoadFile(gctx, path, s.cfg.CSV.DelimiterRune())
			if err != nil {
				return err
			}
			s.logger.WithFields(log.Fields{"file": path, "records": ds.Len()}).Debug("loaded")

			summary, err := s.compare(gctx, ds)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = report.Result{Source: path, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *session) compare(ctx context.Context, ds domain.Dataset) (*domain.GroupSummary, error) {
	summary, err := s.comparator.Compare(ctx, ds, s.runTest)
	if err != nil {
		return nil, err
	}
	if n := summary.SkippedTotal(); n > 0 {
		s.logger.Warnf("skipped %d of %d records", n, summary.TotalRecords)
	}
	return summary, nil
}

// writeMetrics dumps every metric family in reg in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return ports.NewMetricsError("", "gather", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return ports.NewMetricsError(mf.GetName(), "write", err)
		}
	}
	return nil
}
