package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

// ForPath returns the loader matching the file extension of path.
func ForPath(path string, csvDelimiter rune) (ports.DatasetLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		if csvDelimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
			csvDelimiter = '\t'
		}
		return NewCSVLoader(csvDelimiter), nil
	case ".json":
		return NewJSONRecordsLoader(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile opens path and loads it with the loader for its extension.
// Failures are reported as *ports.LoadError naming the file.
func LoadFile(ctx context.Context, path string, csvDelimiter rune) (domain.Dataset, error) {
	l, err := ForPath(path, csvDelimiter)
	if err != nil {
		return nil, ports.NewLoadError(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ports.NewLoadError(path, err)
	}
	defer f.Close()

	ds, err := l.Load(ctx, f)
	if err != nil {
		return nil, ports.NewLoadError(path, err)
	}
	return ds, nil
}
