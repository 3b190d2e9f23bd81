// Package testutils provides utilities for testing, including synthetic
// tipping datasets with known group membership. These components are
// intended for internal use within the project's test suites and tools and
// are not part of the public API.
package testutils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/montanaflynn/stats"

	"github.com/ahrav/go-tipstat/internal/domain"
)

// Column names written by WriteCSV.
var csvColumns = []string{"total_bill", "tip", "smoker", "day"}

// Smoker spellings drawn at random so generated data exercises the whole
// token table, including non-string encodings.
var (
	smokerYesValues = []any{"Yes", "yes", " Y ", "TRUE", "t", "1", true, 1}
	smokerNoValues  = []any{"No", "no", "N", "false", " F", "0", false, 0}
	badSmokerValues = []any{"maybe", "", nil, "unknown", 2}
	badTipValues    = []any{"n/a", "", nil, "abc", "$3"}
	days            = []string{"Thur", "Fri", "Sat", "Sun"}
)

// GeneratorOptions shape a synthetic dataset.
type GeneratorOptions struct {
	// Size is the number of records to generate.
	Size int `validate:"min=0,max=1000000"`

	// SmokerShare is the probability that a valid record is a smoker.
	SmokerShare float64 `validate:"min=0,max=1"`

	// SmokerMean and NonSmokerMean are the centers of each group's tips.
	SmokerMean    float64 `validate:"min=0"`
	NonSmokerMean float64 `validate:"min=0"`

	// StdDev is the spread of tips around each group's mean.
	StdDev float64 `validate:"min=0"`

	// InvalidTipRate and UnknownSmokerRate are the probabilities that a
	// record carries an unparsable tip or an unrecognized smoker flag.
	InvalidTipRate    float64 `validate:"min=0,max=1"`
	UnknownSmokerRate float64 `validate:"min=0,max=1"`
}

// DefaultGeneratorOptions approximates the classic restaurant tips data.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Size:              244,
		SmokerShare:       0.38,
		SmokerMean:        3.01,
		NonSmokerMean:     2.99,
		StdDev:            1.4,
		InvalidTipRate:    0.02,
		UnknownSmokerRate: 0.02,
	}
}

// TipsDataset is a generated dataset together with the values a correct
// comparison must recover from it.
type TipsDataset struct {
	Records domain.Records

	// SmokerTips and NonSmokerTips are the valid tips per group, in record
	// order.
	SmokerTips    []float64
	NonSmokerTips []float64

	// Skipped counts the records that must be excluded, by skip reason.
	Skipped map[string]int
}

// GenerateTipsDataset creates a reproducible synthetic dataset. The seed
// controls randomization; use a fixed value for reproducible tests.
func GenerateTipsDataset(opts GeneratorOptions, seed int64) (*TipsDataset, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid generator options: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	ds := &TipsDataset{
		Records: make(domain.Records, 0, opts.Size),
		Skipped: map[string]int{
			domain.SkipInvalidTip:    0,
			domain.SkipUnknownSmoker: 0,
		},
	}

	for range opts.Size {
		isSmoker := rng.Float64() < opts.SmokerShare
		center := opts.NonSmokerMean
		if isSmoker {
			center = opts.SmokerMean
		}
		tip := round2(math.Max(0, center+rng.NormFloat64()*opts.StdDev))
		bill := round2(tip * (5 + rng.Float64()*5))

		rec := domain.Record{
			"total_bill": bill,
			"day":        days[rng.Intn(len(days))],
		}

		switch {
		case rng.Float64() < opts.InvalidTipRate:
			rec[domain.FieldTip] = pick(rng, badTipValues)
			rec[domain.FieldSmoker] = pick(rng, smokerNoValues)
			ds.Skipped[domain.SkipInvalidTip]++
		case rng.Float64() < opts.UnknownSmokerRate:
			rec[domain.FieldTip] = tip
			rec[domain.FieldSmoker] = pick(rng, badSmokerValues)
			ds.Skipped[domain.SkipUnknownSmoker]++
		case isSmoker:
			rec[domain.FieldTip] = tip
			rec[domain.FieldSmoker] = pick(rng, smokerYesValues)
			ds.SmokerTips = append(ds.SmokerTips, tip)
		default:
			rec[domain.FieldTip] = tip
			rec[domain.FieldSmoker] = pick(rng, smokerNoValues)
			ds.NonSmokerTips = append(ds.NonSmokerTips, tip)
		}

		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func pick(rng *rand.Rand, values []any) any {
	return values[rng.Intn(len(values))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteCSV writes the records as CSV with a total_bill, tip, smoker, day
// header. Nil values become empty cells.
func (d *TipsDataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(csvColumns))
	for _, rec := range d.Records {
		for i, col := range csvColumns {
			row[i] = formatCell(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatCell renders v the way a spreadsheet export would. Booleans are
// written as True/False.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

// WriteJSON writes the records as a JSON array of objects.
func (d *TipsDataset) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Records); err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	return nil
}

// SaveTipsDataset writes the dataset to path as CSV or JSON depending on
// the extension, creating the parent directory when needed.
func SaveTipsDataset(d *TipsDataset, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = d.WriteJSON(f)
	default:
		err = d.WriteCSV(f)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// DatasetStatistics summarizes a generated dataset.
type DatasetStatistics struct {
	// TotalRecords is the number of generated records.
	TotalRecords int

	// NSmoker and NNonSmoker count the valid records per group.
	NSmoker    int
	NNonSmoker int

	// Skipped counts excluded records by reason.
	Skipped map[string]int

	// MeanSmoker and MeanNonSmoker are NaN for an empty group.
	MeanSmoker    float64
	MeanNonSmoker float64
}

// ComputeDatasetStatistics analyzes a dataset and returns summary statistics.
func ComputeDatasetStatistics(d *TipsDataset) *DatasetStatistics {
	return &DatasetStatistics{
		TotalRecords:  len(d.Records),
		NSmoker:       len(d.SmokerTips),
		NNonSmoker:    len(d.NonSmokerTips),
		Skipped:       d.Skipped,
		MeanSmoker:    mean(d.SmokerTips),
		MeanNonSmoker: mean(d.NonSmokerTips),
	}
}

func mean(xs []float64) float64 {
	m, err := stats.Mean(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}
