package application

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/ahrav/go-tipstat/internal/domain"
)

// describe summarizes the tips of one group. An empty group has Count 0
// and nil statistics; the standard deviation needs at least two tips.
func describe(tips []float64) domain.GroupStats {
	gs := domain.GroupStats{Count: len(tips)}
	if len(tips) == 0 {
		return gs
	}

	data := stats.Float64Data(tips)
	lo, errMin := stats.Min(data)
	hi, errMax := stats.Max(data)
	if errMin != nil || errMax != nil {
		return gs
	}
	gs.Min = domain.Float(lo)
	gs.Max = domain.Float(hi)

	if mean, err := stats.Mean(data); err == nil {
		// Rounding in the sum can push the mean just past the extremes
		// (e.g. three copies of 0.1), so keep it inside [min, max].
		gs.Mean = domain.Float(math.Min(math.Max(mean, lo), hi))
	}
	if median, err := stats.Median(data); err == nil {
		gs.Median = domain.Float(median)
	}
	if len(tips) > 1 {
		if sd, err := stats.StandardDeviationSample(data); err == nil {
			gs.StdDev = domain.Float(sd)
		}
	}
	return gs
}
