package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SmokerFlag is the tri-state normalization of a raw smoker value.
type SmokerFlag int

// Supported smoker flags. The zero value is SmokerUnknown so an unset flag
// never routes a record into a group.
const (
	SmokerUnknown SmokerFlag = iota
	SmokerYes
	SmokerNo
)

// String returns a human-readable name for the flag.
func (f SmokerFlag) String() string {
	switch f {
	case SmokerYes:
		return "smoker"
	case SmokerNo:
		return "non_smoker"
	default:
		return "unknown"
	}
}

var (
	affirmativeTokens = map[string]struct{}{"yes": {}, "y": {}, "true": {}, "t": {}, "1": {}}
	negativeTokens    = map[string]struct{}{"no": {}, "n": {}, "false": {}, "f": {}, "0": {}}
)

// NormalizeSmoker maps a raw smoker value onto a SmokerFlag. Booleans pass
// through. Strings and numbers are rendered as text, trimmed, lowercased and
// matched against the affirmative and negative token sets. Integers of any
// width render as digits, so 1 and 0 match; floats always keep a decimal
// point, so 1.0 renders as "1.0" and matches nothing. A json.Number keeps its
// literal text. Anything else, including nil, is SmokerUnknown.
func NormalizeSmoker(v any) SmokerFlag {
	var s string
	switch val := v.(type) {
	case nil:
		return SmokerUnknown
	case bool:
		if val {
			return SmokerYes
		}
		return SmokerNo
	case string:
		s = val
	case []byte:
		s = string(val)
	case json.Number:
		s = val.String()
	case int:
		s = strconv.FormatInt(int64(val), 10)
	case int8:
		s = strconv.FormatInt(int64(val), 10)
	case int16:
		s = strconv.FormatInt(int64(val), 10)
	case int32:
		s = strconv.FormatInt(int64(val), 10)
	case int64:
		s = strconv.FormatInt(val, 10)
	case uint:
		s = strconv.FormatUint(uint64(val), 10)
	case uint8:
		s = strconv.FormatUint(uint64(val), 10)
	case uint16:
		s = strconv.FormatUint(uint64(val), 10)
	case uint32:
		s = strconv.FormatUint(uint64(val), 10)
	case uint64:
		s = strconv.FormatUint(val, 10)
	case float32:
		s = formatFloat(float64(val), 32)
	case float64:
		s = formatFloat(val, 64)
	default:
		return SmokerUnknown
	}

	// cases.Caser is stateful and not safe for concurrent use.
	token := cases.Lower(language.Und).String(strings.TrimSpace(s))
	if _, ok := affirmativeTokens[token]; ok {
		return SmokerYes
	}
	if _, ok := negativeTokens[token]; ok {
		return SmokerNo
	}
	return SmokerUnknown
}

// formatFloat renders f with the shortest representation that round-trips,
// always including a decimal point or exponent.
func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// TryParseFloat coerces a raw tip value to a finite float64. The boolean
// result reports success; on failure the caller skips the record.
// NaN and infinities are rejected.
func TryParseFloat(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case bool:
		if val {
			f = 1
		}
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case []byte:
		return TryParseFloat(string(val))
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
