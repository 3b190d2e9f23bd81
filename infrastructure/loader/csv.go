// Package loader reads datasets from external sources for the comparator.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

var _ ports.DatasetLoader = (*CSVLoader)(nil)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// candidateDelimiters are tried, in order, when no delimiter is configured.
var candidateDelimiters = []rune{',', ';', '\t'}

// CSVLoader reads a CSV file with a header row into a domain.Table.
// Rows may have fewer or more cells than the header; cells are kept as
// strings and coerced by the comparator.
type CSVLoader struct {
	delimiter rune
}

// NewCSVLoader creates a CSVLoader. A zero delimiter enables detection
// among comma, semicolon and tab based on the header line.
func NewCSVLoader(delimiter rune) *CSVLoader {
	return &CSVLoader{delimiter: delimiter}
}

// Load implements ports.DatasetLoader.
func (l *CSVLoader) Load(ctx context.Context, r io.Reader) (domain.Dataset, error) {
	br := bufio.NewReader(r)

	delim := l.delimiter
	if delim == 0 {
		head, err := br.Peek(4096)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		delim = detectDelimiter(head)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ports.ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]any
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+1, err)
		}
		cells := make([]any, len(rec))
		for i, v := range rec {
			cells[i] = v
		}
		rows = append(rows, cells)
	}

	return domain.NewTable(header, rows), nil
}

// detectDelimiter picks the candidate occurring most often on the first
// line, defaulting to a comma.
func detectDelimiter(head []byte) rune {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
