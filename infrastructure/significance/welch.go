package significance

import (
	"context"
	"errors"
	"fmt"

	"github.com/aclements/go-moremath/stats"

	"github.com/ahrav/go-tipstat/internal/ports"
)

var _ ports.SignificanceTester = (*WelchTester)(nil)

// WelchTester runs Welch's unequal-variance t-test using
// github.com/aclements/go-moremath/stats. The alternative hypothesis is
// that the group means differ (two-sided).
//
// The tester is stateless and safe for concurrent use.
type WelchTester struct{}

// NewWelchTester creates a WelchTester.
func NewWelchTester() *WelchTester { return &WelchTester{} }

// Name implements ports.SignificanceTester.
func (*WelchTester) Name() string { return MethodWelch }

// Test implements ports.SignificanceTester. Library errors for undersized
// or degenerate samples are mapped onto ErrSampleSize and ErrZeroVariance.
func (*WelchTester) Test(ctx context.Context, smoker, nonSmoker []float64) (ports.TestResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.TestResult{}, err
	}

	x1 := stats.Sample{Xs: finite(smoker)}
	x2 := stats.Sample{Xs: finite(nonSmoker)}
	if len(x1.Xs) < 2 || len(x2.Xs) < 2 {
		return ports.TestResult{}, ErrSampleSize
	}
	if x1.Variance() == 0 && x2.Variance() == 0 {
		return ports.TestResult{}, ErrZeroVariance
	}

	res, err := stats.TwoSampleWelchTTest(&x1, &x2, stats.LocationDiffers)
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrSampleSize):
			return ports.TestResult{}, ErrSampleSize
		case errors.Is(err, stats.ErrZeroVariance):
			return ports.TestResult{}, ErrZeroVariance
		default:
			return ports.TestResult{}, fmt.Errorf("welch t-test: %w", err)
		}
	}

	return ports.TestResult{
		PValue:           res.P,
		Statistic:        res.T,
		DegreesOfFreedom: res.DoF,
	}, nil
}
