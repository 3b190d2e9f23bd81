package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

var _ ports.DatasetLoader = (*JSONRecordsLoader)(nil)

// JSONRecordsLoader reads a JSON array of objects into domain.Records.
// Numbers are kept as json.Number so no precision is lost before coercion.
// Elements that are not objects load as empty records, which the comparator
// counts as invalid_tip skips.
type JSONRecordsLoader struct{}

// NewJSONRecordsLoader creates a JSONRecordsLoader.
func NewJSONRecordsLoader() *JSONRecordsLoader { return &JSONRecordsLoader{} }

// Load implements ports.DatasetLoader.
func (*JSONRecordsLoader) Load(ctx context.Context, r io.Reader) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var elems []json.RawMessage
	if err := json.NewDecoder(r).Decode(&elems); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ports.ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	out := make(domain.Records, 0, len(elems))
	for _, elem := range elems {
		out = append(out, decodeRecord(elem))
	}
	return out, nil
}

func decodeRecord(elem json.RawMessage) domain.Record {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return domain.Record{}
	}
	return domain.Record(rec)
}
