// Package followers turns human-readable follower counts such as "1.2M" or
// "500K" into numbers.
package followers

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Count is a normalized follower count. Valid is false when the raw token
// could not be interpreted; a valid zero is a real zero.
type Count struct {
	Value float64
	Valid bool
}

// Absent is the result for tokens that could not be interpreted.
var Absent = Count{}

func (c Count) String() string {
	if !c.Valid {
		return "absent"
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// Checked in order; the first letter found in the token wins.
var suffixes = []struct {
	letter     string
	multiplier float64
}{
	{"K", 1_000},
	{"M", 1_000_000},
	{"B", 1_000_000_000},
}

// Parse normalizes one raw token. The token is uppercased and stripped of
// every whitespace character. If it contains K, M or B (checked in that
// order) every occurrence of that letter is removed and the remainder is
// scaled by the matching multiplier. The letter may sit anywhere in the
// token: "1M2" parses as 12 million.
func Parse(raw string) Count {
	token := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(raw))

	for _, s := range suffixes {
		if strings.Contains(token, s.letter) {
			return scaled(strings.ReplaceAll(token, s.letter, ""), s.multiplier)
		}
	}
	return scaled(token, 1)
}

func scaled(text string, multiplier float64) Count {
	v, ok := parseDecimal(text)
	if !ok {
		return Absent
	}
	v *= multiplier
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Absent
	}
	return Count{Value: v, Valid: true}
}

// parseDecimal accepts plain decimal notation only. strconv also takes hex
// floats, infinities and NaN, none of which are follower counts. An
// underscore is allowed only between two digits ("1_000").
func parseDecimal(text string) (float64, bool) {
	digits := strings.TrimLeft(text, "+-")
	if strings.HasPrefix(digits, "0X") {
		return 0, false
	}
	text, ok := dropDigitSeparators(text)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func dropDigitSeparators(text string) (string, bool) {
	if !strings.Contains(text, "_") {
		return text, true
	}
	for i := 0; i < len(text); i++ {
		if text[i] != '_' {
			continue
		}
		if i == 0 || i == len(text)-1 || !isDigit(text[i-1]) || !isDigit(text[i+1]) {
			return "", false
		}
	}
	return strings.ReplaceAll(text, "_", ""), true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
