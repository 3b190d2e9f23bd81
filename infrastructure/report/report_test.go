package report

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-tipstat/internal/domain"
)

func init() {
	color.NoColor = true
}

func sampleSummary() *domain.GroupSummary {
	return &domain.GroupSummary{
		NSmoker:         2,
		NNonSmoker:      3,
		AvgTipSmoker:    domain.Float(4.5),
		AvgTipNonSmoker: domain.Float(3.0),
		Difference:      domain.Float(1.5),
		TotalRecords:    6,
		Skipped:         map[string]int{domain.SkipInvalidTip: 1, domain.SkipUnknownSmoker: 0},
		Smoker: domain.GroupStats{
			Count: 2, Mean: domain.Float(4.5), Median: domain.Float(4.5),
			StdDev: domain.Float(0.7071067811865476), Min: domain.Float(4), Max: domain.Float(5),
		},
		NonSmoker: domain.GroupStats{
			Count: 3, Mean: domain.Float(3), Median: domain.Float(3),
			StdDev: domain.Float(0.5), Min: domain.Float(2.5), Max: domain.Float(3.5),
		},
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{name: "nil", in: nil, want: "Unknown"},
		{name: "integral", in: domain.Float(3), want: "3.0"},
		{name: "fraction", in: domain.Float(4.5), want: "4.5"},
		{name: "negative", in: domain.Float(-1.5), want: "-1.5"},
		{name: "tiny", in: domain.Float(1e-21), want: "1e-21"},
		{name: "nan", in: domain.Float(math.NaN()), want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestTextRenderer(t *testing.T) {
	t.Run("without significance test", func(t *testing.T) {
		var buf bytes.Buffer
		err := (&TextRenderer{}).Render(&buf, []Result{{Summary: sampleSummary()}})
		require.NoError(t, err)

		want := "Summary:\n" +
			"n_smoker:           2\n" +
			"n_non_smoker:       3\n" +
			"avg_tip_smoker:     4.5\n" +
			"avg_tip_non_smoker: 3.0\n" +
			"difference:         1.5\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("requested test with unknown p-value", func(t *testing.T) {
		s := sampleSummary()
		s.TestRequested = true

		var buf bytes.Buffer
		require.NoError(t, (&TextRenderer{}).Render(&buf, []Result{{Source: "tips.csv", Summary: s}}))
		assert.Contains(t, buf.String(), "Summary (tips.csv):\n")
		assert.Contains(t, buf.String(), "ttest_pvalue:       Unknown\n")
	})

	t.Run("empty group", func(t *testing.T) {
		s := &domain.GroupSummary{NSmoker: 1, AvgTipSmoker: domain.Float(2)}

		var buf bytes.Buffer
		require.NoError(t, (&TextRenderer{}).Render(&buf, []Result{{Summary: s}}))
		assert.Contains(t, buf.String(), "avg_tip_non_smoker: Unknown\n")
		assert.Contains(t, buf.String(), "difference:         Unknown\n")
		assert.NotContains(t, buf.String(), "ttest_pvalue")
	})

	t.Run("detailed", func(t *testing.T) {
		s := sampleSummary()
		s.TestRequested = true
		s.TestMethod = "welch"
		s.PValue = domain.Float(0.04)

		var buf bytes.Buffer
		require.NoError(t, (&TextRenderer{Detailed: true}).Render(&buf, []Result{{Summary: s}}))
		out := buf.String()
		assert.Contains(t, out, "ttest_pvalue:       0.04\n")
		assert.Contains(t, out, "ttest_method:       welch\n")
		assert.Contains(t, out, "total_records:      6\n")
		assert.Contains(t, out, "skipped:            invalid_tip=1 unknown_smoker=0\n")
		assert.Contains(t, out, "non_smoker:         count=3 mean=3.0 median=3.0 std_dev=0.5 min=2.5 max=3.5\n")
	})

	t.Run("multiple results are separated", func(t *testing.T) {
		var buf bytes.Buffer
		err := (&TextRenderer{}).Render(&buf, []Result{
			{Source: "a.csv", Summary: sampleSummary()},
			{Source: "b.csv", Summary: sampleSummary()},
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "difference:         1.5\n\nSummary (b.csv):\n")
	})
}

func TestJSONRenderer(t *testing.T) {
	s := sampleSummary()
	s.TestRequested = true
	s.TestMethod = "welch"

	var buf bytes.Buffer
	require.NoError(t, (&JSONRenderer{}).Render(&buf, []Result{{Source: "tips.csv", Summary: s}}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "tips.csv", decoded[0]["source"])

	summary := decoded[0]["summary"].(map[string]any)
	assert.Equal(t, 2.0, summary["n_smoker"])
	assert.Equal(t, 1.5, summary["difference"])
	assert.Equal(t, true, summary["ttest_requested"])
	_, hasP := summary["ttest_pvalue"]
	assert.False(t, hasP, "unknown p-value is omitted")

	buf.Reset()
	require.NoError(t, (&JSONRenderer{}).Render(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestNew(t *testing.T) {
	r, err := New("", false)
	require.NoError(t, err)
	assert.IsType(t, &TextRenderer{}, r)

	r, err = New("JSON", false)
	require.NoError(t, err)
	assert.IsType(t, &JSONRenderer{}, r)

	_, err = New("yaml", false)
	assert.Error(t, err)
	assert.Equal(t, []string{"text", "json"}, Formats())
}
