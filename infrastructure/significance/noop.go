package significance

import (
	"context"

	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

var _ ports.SignificanceTester = NoopTester{}

// NoopTester is the tester used when significance testing is disabled by
// configuration. It always reports the test as unavailable.
type NoopTester struct{}

// NewNoopTester creates a NoopTester.
func NewNoopTester() NoopTester { return NoopTester{} }

// Name implements ports.SignificanceTester.
func (NoopTester) Name() string { return MethodNone }

// Test implements ports.SignificanceTester.
func (NoopTester) Test(context.Context, []float64, []float64) (ports.TestResult, error) {
	return ports.TestResult{}, domain.ErrStatsUnavailable
}
