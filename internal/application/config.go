// Package application wires the tip comparison: configuration, field
// mapping, tester selection and the TipComparator itself.
package application

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-tipstat/internal/domain"
	"github.com/ahrav/go-tipstat/internal/ports"
)

// Config is the complete, file-backed configuration of a comparison.
// Zero-valued sections are filled from DefaultConfig before decoding, so a
// config file only needs to name what it overrides.
type Config struct {
	// Fields maps canonical fields ("tip", "smoker") to ordered key or
	// column aliases.
	Fields domain.FieldMapping `yaml:"fields" validate:"required,fieldaliases"`
	// Significance selects the tester and whether it runs by default.
	Significance SignificanceConfig `yaml:"significance"`
	// SuggestDistance is the largest Levenshtein distance at which a header
	// column is offered as a suggestion for a missing required column.
	SuggestDistance int `yaml:"suggest_distance" validate:"min=0,max=10"`
	// CSV controls the CSV loader.
	CSV CSVConfig `yaml:"csv"`
}

// SignificanceConfig selects the significance tester. Selection is a
// configuration choice, never a check for an installed library.
type SignificanceConfig struct {
	// Method names the tester: welch, gonum_welch or none.
	Method string `yaml:"method" validate:"required,oneof=welch gonum_welch none"`
	// Enabled is the default for running the test when a caller does not
	// say otherwise (the CLI's --ttest flag).
	Enabled bool `yaml:"enabled"`
}

// CSVConfig controls CSV parsing.
type CSVConfig struct {
	// Delimiter is a single character; empty means auto-detect.
	Delimiter string `yaml:"delimiter" validate:"omitempty,len=1"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Fields: domain.DefaultFieldMapping(),
		Significance: SignificanceConfig{
			Method:  "welch",
			Enabled: false,
		},
		SuggestDistance: 2,
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ports.NewConfigError(path, ports.ErrConfigNotFound)
		}
		return Config{}, ports.NewConfigError(path, err)
	}
	defer f.Close()

	return ParseConfig(f)
}

// ParseConfig decodes YAML from r over DefaultConfig and validates the
// result. Unknown keys are rejected. Empty input yields the defaults.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, ports.NewConfigError("yaml", fmt.Errorf("failed to parse YAML: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints and the field mapping.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ports.NewConfigError(verrs[0].Namespace(), fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err))
		}
		return ports.NewConfigError("config", err)
	}
	return nil
}

// DelimiterRune returns the configured CSV delimiter, or 0 for auto-detect.
func (c CSVConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return 0
}
