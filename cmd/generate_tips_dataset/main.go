package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ahrav/go-tipstat/internal/testutils"
)

func main() {
	defaults := testutils.DefaultGeneratorOptions()
	var (
		size       = flag.Int("size", defaults.Size, "Number of records to generate")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		share      = flag.Float64("smoker-share", defaults.SmokerShare, "Probability that a record is a smoker")
		smokerMean = flag.Float64("smoker-mean", defaults.SmokerMean, "Mean tip of smokers")
		otherMean  = flag.Float64("non-smoker-mean", defaults.NonSmokerMean, "Mean tip of non-smokers")
		stddev     = flag.Float64("stddev", defaults.StdDev, "Spread of tips around each mean")
		badTips    = flag.Float64("invalid-tip-rate", defaults.InvalidTipRate, "Fraction of records with an unparsable tip")
		badFlags   = flag.Float64("unknown-smoker-rate", defaults.UnknownSmokerRate, "Fraction of records with an unknown smoker flag")
		outputPath = flag.String("output", "testdata/synthetic_tips.csv", "Output file path (.csv or .json)")
	)
	flag.Parse()

	opts := testutils.GeneratorOptions{
		Size:              *size,
		SmokerShare:       *share,
		SmokerMean:        *smokerMean,
		NonSmokerMean:     *otherMean,
		StdDev:            *stddev,
		InvalidTipRate:    *badTips,
		UnknownSmokerRate: *badFlags,
	}

	dataset, err := testutils.GenerateTipsDataset(opts, *seed)
	if err != nil {
		log.Fatalf("Failed to generate dataset: %v", err)
	}

	if err := testutils.SaveTipsDataset(dataset, *outputPath); err != nil {
		log.Fatalf("Failed to save dataset: %v", err)
	}

	stats := testutils.ComputeDatasetStatistics(dataset)

	fmt.Printf("Generated synthetic tips dataset:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Seed: %d\n", *seed)
	fmt.Printf("- Total records: %d\n", stats.TotalRecords)
	fmt.Printf("- Smokers: %d (mean tip %.2f)\n", stats.NSmoker, stats.MeanSmoker)
	fmt.Printf("- Non-smokers: %d (mean tip %.2f)\n", stats.NNonSmoker, stats.MeanNonSmoker)
	fmt.Printf("- Skipped: %v\n", stats.Skipped)
}
