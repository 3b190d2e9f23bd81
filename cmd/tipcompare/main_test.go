package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSampleCommand(t *testing.T) {
	stdout, _, err := execute(t, "sample")
	require.NoError(t, err)

	want := "Summary:\n" +
		"n_smoker:           2\n" +
		"n_non_smoker:       3\n" +
		"avg_tip_smoker:     4.5\n" +
		"avg_tip_non_smoker: 3.0\n" +
		"difference:         1.5\n"
	assert.Equal(t, want, stdout)
}

func TestSampleCommand_TTest(t *testing.T) {
	tests := []struct {
		name   string
		method string
	}{
		{name: "welch", method: "welch"},
		{name: "gonum", method: "gonum_welch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "sample", "--ttest", "--method", tt.method, "--format", "json")
			require.NoError(t, err)

			var results []struct {
				Summary struct {
					TestRequested bool     `json:"ttest_requested"`
					PValue        *float64 `json:"ttest_pvalue"`
					TestMethod    string   `json:"ttest_method"`
				} `json:"summary"`
			}
			require.NoError(t, json.Unmarshal([]byte(stdout), &results))
			require.Len(t, results, 1)
			assert.True(t, results[0].Summary.TestRequested)
			assert.Equal(t, tt.method, results[0].Summary.TestMethod)
			require.NotNil(t, results[0].Summary.PValue)
			assert.Greater(t, *results[0].Summary.PValue, 0.0)
			assert.Less(t, *results[0].Summary.PValue, 1.0)
		})
	}
}

func TestCompareCommand(t *testing.T) {
	csvPath := writeFile(t, "tips.csv", "total_bill,tip,smoker\n10,1.5,No\n20,3.5,Yes\n15,abc,Yes\n")
	jsonPath := writeFile(t, "tips.json", `[{"Tip": 2, "Smoker": "no"}, {"tip": 4, "smoker": true}]`)

	stdout, _, err := execute(t, "compare", csvPath, jsonPath, "--format", "json")
	require.NoError(t, err)

	var results []struct {
		Source  string `json:"source"`
		Summary struct {
			NSmoker    int      `json:"n_smoker"`
			NNonSmoker int      `json:"n_non_smoker"`
			Difference *float64 `json:"difference"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 2)

	assert.Equal(t, csvPath, results[0].Source)
	assert.Equal(t, 1, results[0].Summary.NSmoker)
	assert.Equal(t, 1, results[0].Summary.NNonSmoker)
	require.NotNil(t, results[0].Summary.Difference)
	assert.InDelta(t, 2.0, *results[0].Summary.Difference, 1e-12)

	assert.Equal(t, jsonPath, results[1].Source)
	require.NotNil(t, results[1].Summary.Difference)
	assert.InDelta(t, 2.0, *results[1].Summary.Difference, 1e-12)
}

func TestCompareCommand_JSONNonObjects(t *testing.T) {
	path := writeFile(t, "tips.json", `[{"tip":1,"smoker":"No"}, 7, {"tip":2,"smoker":"Yes"}]`)

	stdout, _, err := execute(t, "compare", path, "--format", "json")
	require.NoError(t, err)

	var results []struct {
		Summary struct {
			NSmoker      int            `json:"n_smoker"`
			NNonSmoker   int            `json:"n_non_smoker"`
			TotalRecords int            `json:"total_records"`
			Skipped      map[string]int `json:"skipped"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &results))
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Summary.NSmoker)
	assert.Equal(t, 1, results[0].Summary.NNonSmoker)
	assert.Equal(t, 3, results[0].Summary.TotalRecords)
	assert.Equal(t, 1, results[0].Summary.Skipped["invalid_tip"])
}

func TestCompareCommand_Metrics(t *testing.T) {
	path := writeFile(t, "tips.csv", "tip,smoker\n1,No\n2,Yes\n3,maybe\n")

	_, stderr, err := execute(t, "compare", path, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, "tipstat_records_total 3")
	assert.Contains(t, stderr, `tipstat_records_skipped_total{reason="unknown_smoker"} 1`)
	assert.Contains(t, stderr, `tipstat_group_size{group="smoker"} 1`)
}

func TestCompareCommand_Config(t *testing.T) {
	cfgPath := writeFile(t, "tipstat.yaml", `
fields:
  tip: [gratuity]
significance:
  method: gonum_welch
  enabled: true
`)
	dataPath := writeFile(t, "tips.csv", "gratuity,smoker\n1,No\n2,No\n4,Yes\n6,Yes\n")

	stdout, _, err := execute(t, "compare", dataPath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "avg_tip_smoker:     5.0\n")
	assert.Contains(t, stdout, "ttest_pvalue:")
	assert.NotContains(t, stdout, "ttest_pvalue:       Unknown")
}

func TestCompareCommand_Errors(t *testing.T) {
	missing := writeFile(t, "tips.csv", "tip,smokes\n1,No\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no files", args: []string{"compare"}, wantErr: "requires at least 1 arg"},
		{name: "missing column", args: []string{"compare", missing}, wantErr: `did you mean "smokes"`},
		{name: "unsupported extension", args: []string{"compare", "tips.xlsx"}, wantErr: "unsupported"},
		{name: "unknown method", args: []string{"sample", "--method", "bayes"}, wantErr: "Significance.Method"},
		{name: "unknown format", args: []string{"sample", "--format", "xml"}, wantErr: "unknown output format"},
		{name: "missing config", args: []string{"sample", "--config", filepath.Join(t.TempDir(), "nope.yaml")}, wantErr: "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tipcompare (devel)\n", stdout)
}
