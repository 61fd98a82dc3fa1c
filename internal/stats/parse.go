package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNumeric normalizes a stat value from the untyped dataset documents.
//
// Stat sources mix JSON numbers, numeric strings, percentage strings
// ("45.3%") and placeholders ("-", null). Every value is stringified, stripped
// of '%' characters and parsed as a float. Anything that does not yield a
// finite number returns def.
func ParseNumeric(value any, def float64) float64 {
	if v, ok := ParseOptional(value); ok {
		return v
	}
	return def
}

// ParseOptional is ParseNumeric without a default: ok is false when the value
// is absent or not a finite number. Aggregations use it so that missing values
// are skipped instead of counted as zero.
func ParseOptional(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}

	var s string
	switch v := value.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case json.Number:
		s = v.String()
	case string:
		s = v
	case bool:
		// JS String(true) is "true", which never parses.
		return 0, false
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// "12.5 pts" style values keep their leading number.
		f, err = strconv.ParseFloat(leadingNumber(s), 64)
		if err != nil {
			return 0, false
		}
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// leadingNumber returns the longest numeric prefix of s.
func leadingNumber(s string) string {
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			if !seenDigit {
				return ""
			}
			return s[:end]
		}
	}
	if !seenDigit {
		return ""
	}
	return s[:end]
}
