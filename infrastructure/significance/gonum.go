package significance

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ahrav/go-tipstat/internal/ports"
)

var _ ports.SignificanceTester = (*GonumWelchTester)(nil)

// GonumWelchTester computes Welch's t-test from gonum primitives: sample
// means and unbiased variances from gonum/stat, and a two-sided p-value
// from the Student's t distribution with Welch-Satterthwaite degrees of
// freedom. It produces the same results as WelchTester.
type GonumWelchTester struct{}

// NewGonumWelchTester creates a GonumWelchTester.
func NewGonumWelchTester() *GonumWelchTester { return &GonumWelchTester{} }

// Name implements ports.SignificanceTester.
func (*GonumWelchTester) Name() string { return MethodGonumWelch }

// Test implements ports.SignificanceTester.
func (*GonumWelchTester) Test(ctx context.Context, smoker, nonSmoker []float64) (ports.TestResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.TestResult{}, err
	}

	x1, x2 := finite(smoker), finite(nonSmoker)
	if len(x1) < 2 || len(x2) < 2 {
		return ports.TestResult{}, ErrSampleSize
	}

	m1, v1 := stat.MeanVariance(x1, nil)
	m2, v2 := stat.MeanVariance(x2, nil)
	if v1 == 0 && v2 == 0 {
		return ports.TestResult{}, ErrZeroVariance
	}

	n1, n2 := float64(len(x1)), float64(len(x2))
	se1, se2 := v1/n1, v2/n2
	t := (m1 - m2) / math.Sqrt(se1+se2)
	dof := (se1 + se2) * (se1 + se2) / (se1*se1/(n1-1) + se2*se2/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	p := 2 * dist.CDF(-math.Abs(t))

	return ports.TestResult{
		PValue:           math.Min(p, 1),
		Statistic:        t,
		DegreesOfFreedom: dof,
	}, nil
}
