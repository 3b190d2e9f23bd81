package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ahrav/go-tipstat/infrastructure/significance"
	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

var _ ports.Comparator = (*TipComparator)(nil)

// Metric names emitted through ports.MetricsCollector.
const (
	MetricRecords           = "records_total"
	MetricRecordsSkipped    = "records_skipped_total"
	MetricGroupSize         = "group_size"
	MetricSignificanceTests = "significance_tests_total"
	OperationCompare        = "compare"
)

// Significance test outcomes reported in the "status" metric label.
const (
	TestStatusOK          = "ok"
	TestStatusUnavailable = "unavailable"
	TestStatusSkipped     = "skipped"
)

// TipComparator partitions tips into smoker and non-smoker groups and
// compares their means, optionally running a significance test.
//
// Malformed records are skipped, never fatal. The only surfaced errors are
// a nil dataset and a table missing a required column.
//
// Concurrency: Compare keeps no state between calls and is safe for
// concurrent use when the injected collaborators are.
type TipComparator struct {
	mapping         domain.FieldMapping
	tester          ports.SignificanceTester
	metrics         ports.MetricsCollector
	logger          ports.Logger
	suggestDistance int
}

// Option configures a TipComparator.
type Option func(*TipComparator)

// WithFieldMapping sets the alias lookup for the tip and smoker fields.
func WithFieldMapping(m domain.FieldMapping) Option {
	return func(c *TipComparator) { c.mapping = m }
}

// WithTester sets the significance tester.
func WithTester(t ports.SignificanceTester) Option {
	return func(c *TipComparator) { c.tester = t }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m ports.MetricsCollector) Option {
	return func(c *TipComparator) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(c *TipComparator) { c.logger = l }
}

// WithSuggestDistance sets the maximum edit distance for column
// suggestions in schema errors. A negative value disables suggestions.
func WithSuggestDistance(d int) Option {
	return func(c *TipComparator) { c.suggestDistance = d }
}

// NewTipComparator creates a comparator with the default field mapping,
// the Welch tester, no metrics and a discarding logger, then applies opts.
// It returns an error if the resulting field mapping is invalid.
func NewTipComparator(opts ...Option) (*TipComparator, error) {
	c := &TipComparator{
		mapping:         domain.DefaultFieldMapping(),
		tester:          significance.NewWelchTester(),
		metrics:         ports.NoopMetrics{},
		logger:          ports.DiscardLogger,
		suggestDistance: DefaultConfig().SuggestDistance,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.mapping.Validate(); err != nil {
		return nil, err
	}
	if c.tester == nil {
		c.tester = significance.NewNoopTester()
	}
	if c.metrics == nil {
		c.metrics = ports.NoopMetrics{}
	}
	c.logger = ports.ValidLoggerOrDefault(c.logger)

	return c, nil
}

// NewTipComparatorFromConfig creates a comparator from a validated Config.
// Extra options are applied after the configuration.
func NewTipComparatorFromConfig(cfg Config, opts ...Option) (*TipComparator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tester, err := significance.New(cfg.Significance.Method)
	if err != nil {
		return nil, ports.NewConfigError("significance.method", err)
	}

	base := []Option{
		WithFieldMapping(cfg.Fields),
		WithTester(tester),
		WithSuggestDistance(cfg.SuggestDistance),
	}
	return NewTipComparator(append(base, opts...)...)
}

// TesterName returns the name of the configured significance tester.
func (c *TipComparator) TesterName() string { return c.tester.Name() }

// Compare computes group counts, means and their difference for dataset.
//
// Processing, per record:
//  1. The tip is coerced with domain.TryParseFloat; failures are skipped.
//  2. The smoker value is normalized with domain.NormalizeSmoker; unknown
//     flags are skipped.
//  3. The tip joins the smoker or non-smoker group.
//
// An empty group has a nil mean, and the difference is nil unless both
// means are defined. When runSignificanceTest is true and both groups are
// non-empty the configured tester runs; any tester failure yields a nil
// p-value rather than an error.
//
// Errors:
//   - domain.ErrNilDataset when dataset is nil
//   - *domain.SchemaError when a table lacks a required column
func (c *TipComparator) Compare(
	ctx context.Context,
	dataset domain.Dataset,
	runSignificanceTest bool,
) (*domain.GroupSummary, error) {
	start := time.Now()
	if dataset == nil {
		return nil, domain.ErrNilDataset
	}

	rows, err := dataset.Rows(c.mapping)
	if err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			suggestColumns(schemaErr, c.mapping, c.suggestDistance)
			return nil, schemaErr
		}
		return nil, fmt.Errorf("failed to resolve dataset: %w", err)
	}

	smoker := make([]float64, 0, len(rows))
	nonSmoker := make([]float64, 0, len(rows))
	skipped := map[string]int{
		domain.SkipInvalidTip:    0,
		domain.SkipUnknownSmoker: 0,
	}

	for _, row := range rows {
		tip, ok := domain.TryParseFloat(row.Tip)
		if !ok {
			skipped[domain.SkipInvalidTip]++
			continue
		}
		switch domain.NormalizeSmoker(row.Smoker) {
		case domain.SmokerYes:
			smoker = append(smoker, tip)
		case domain.SmokerNo:
			nonSmoker = append(nonSmoker, tip)
		default:
			skipped[domain.SkipUnknownSmoker]++
		}
	}

	summary := &domain.GroupSummary{
		NSmoker:      len(smoker),
		NNonSmoker:   len(nonSmoker),
		TotalRecords: len(rows),
		Skipped:      skipped,
		Smoker:       describe(smoker),
		NonSmoker:    describe(nonSmoker),
	}
	summary.AvgTipSmoker = summary.Smoker.Mean
	summary.AvgTipNonSmoker = summary.NonSmoker.Mean
	if summary.AvgTipSmoker != nil && summary.AvgTipNonSmoker != nil {
		summary.Difference = domain.Float(*summary.AvgTipSmoker - *summary.AvgTipNonSmoker)
	}

	if runSignificanceTest {
		summary.TestRequested = true
		summary.TestMethod = c.tester.Name()
		summary.PValue = c.significance(ctx, smoker, nonSmoker)
	}

	c.logger.Debugf("compare: %d records, %d smoker, %d non-smoker, skipped %d invalid tip and %d unknown smoker",
		len(rows), len(smoker), len(nonSmoker), skipped[domain.SkipInvalidTip], skipped[domain.SkipUnknownSmoker])
	c.recordMetrics(summary, time.Since(start))

	return summary, nil
}

// significance runs the tester when both groups are non-empty and returns
// the p-value, or nil when the test is skipped or fails for any reason.
func (c *TipComparator) significance(ctx context.Context, smoker, nonSmoker []float64) *float64 {
	labels := map[string]string{"method": c.tester.Name()}

	if len(smoker) == 0 || len(nonSmoker) == 0 {
		labels["status"] = TestStatusSkipped
		c.metrics.RecordCounter(MetricSignificanceTests, 1, labels)
		c.logger.Debugf("significance test skipped: empty group")
		return nil
	}

	res, err := c.runTester(ctx, smoker, nonSmoker)
	if err == nil && (math.IsNaN(res.PValue) || res.PValue < 0 || res.PValue > 1) {
		err = fmt.Errorf("%w: p-value %v out of range", domain.ErrStatsUnavailable, res.PValue)
	}
	if err != nil {
		labels["status"] = TestStatusUnavailable
		c.metrics.RecordCounter(MetricSignificanceTests, 1, labels)
		c.logger.Debugf("significance test unavailable: %v", err)
		return nil
	}

	labels["status"] = TestStatusOK
	c.metrics.RecordCounter(MetricSignificanceTests, 1, labels)
	return domain.Float(res.PValue)
}

// runTester calls the tester, converting a panic into ErrStatsUnavailable
// so that no tester failure escapes Compare.
func (c *TipComparator) runTester(
	ctx context.Context,
	smoker, nonSmoker []float64,
) (res ports.TestResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tester panicked: %v", domain.ErrStatsUnavailable, r)
		}
	}()
	return c.tester.Test(ctx, smoker, nonSmoker)
}

func (c *TipComparator) recordMetrics(s *domain.GroupSummary, elapsed time.Duration) {
	c.metrics.RecordCounter(MetricRecords, float64(s.TotalRecords), nil)
	for reason, n := range s.Skipped {
		if n > 0 {
			c.metrics.RecordCounter(MetricRecordsSkipped, float64(n), map[string]string{"reason": reason})
		}
	}
	c.metrics.RecordGauge(MetricGroupSize, float64(s.NSmoker), map[string]string{"group": domain.SmokerYes.String()})
	c.metrics.RecordGauge(MetricGroupSize, float64(s.NNonSmoker), map[string]string{"group": domain.SmokerNo.String()})
	c.metrics.RecordLatency(OperationCompare, elapsed, nil)
}
