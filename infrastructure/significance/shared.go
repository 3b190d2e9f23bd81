// Package significance provides ports.SignificanceTester implementations
// for the two-sample comparison of mean tips.
package significance

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

// Method names accepted in configuration.
const (
	MethodWelch      = "welch"
	MethodGonumWelch = "gonum_welch"
	MethodNone       = "none"
)

// Common errors returned by testers. All of them wrap
// domain.ErrStatsUnavailable.
var (
	// ErrSampleSize is returned when a group has fewer than two finite values.
	ErrSampleSize = fmt.Errorf("%w: each group needs at least two observations", domain.ErrStatsUnavailable)

	// ErrZeroVariance is returned when both groups have zero variance.
	ErrZeroVariance = fmt.Errorf("%w: both groups have zero variance", domain.ErrStatsUnavailable)

	// ErrUnknownMethod is returned by New for an unregistered method name.
	ErrUnknownMethod = errors.New("unknown significance method")
)

// Methods returns the registered method names in a stable order.
func Methods() []string {
	return []string{MethodWelch, MethodGonumWelch, MethodNone}
}

// New returns the tester registered under method.
func New(method string) (ports.SignificanceTester, error) {
	switch method {
	case MethodWelch:
		return NewWelchTester(), nil
	case MethodGonumWelch:
		return NewGonumWelchTester(), nil
	case MethodNone:
		return NewNoopTester(), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownMethod, method, Methods())
	}
}

// finite drops NaN and infinite values, giving the pairwise-complete
// observations the tests operate on. The input is never modified.
func finite(xs []float64) []float64 {
	return slices.DeleteFunc(slices.Clone(xs), func(x float64) bool {
		return math.IsNaN(x) || math.IsInf(x, 0)
	})
}
