package engine

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts one raw cell into a finite float. It is pure and never
// errs: every downstream sum depends on this function defaulting to zero for
// anything it cannot read.
//
// Rules: empty, whitespace-only and the "missing" sentinels map to 0. The
// first contiguous numeric token (optional sign, digits, '.'/',' separators)
// is extracted; surrounding currency and percent symbols are discarded. When
// both separators appear in the token, the one occurring last is the decimal
// separator and the other is thousands grouping, which reads both
// "1.234,56" and "1,234.56" as 1234.56. A single separator kind appearing
// once is decimal; appearing more than once it is grouping.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "—", "-", "–":
		return 0
	}

	tok := firstNumericToken(s)
	if tok == "" {
		return 0
	}

	sign := ""
	if tok[0] == '+' || tok[0] == '-' {
		if tok[0] == '-' {
			sign = "-"
		}
		tok = tok[1:]
	}

	lastDot := strings.LastIndexByte(tok, '.')
	lastComma := strings.LastIndexByte(tok, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			tok = strings.ReplaceAll(tok, ".", "")
			tok = strings.Replace(tok, ",", ".", 1)
		} else {
			tok = strings.ReplaceAll(tok, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(tok, ",") > 1 {
			tok = strings.ReplaceAll(tok, ",", "")
		} else {
			tok = strings.Replace(tok, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(tok, ".") > 1 {
			tok = strings.ReplaceAll(tok, ".", "")
		}
	}

	f, err := strconv.ParseFloat(sign+tok, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// firstNumericToken returns the first run of digits and separators, with an
// optional leading sign, or "" when the string has no digit at all.
func firstNumericToken(s string) string {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	end := start
	for end < len(s) && (isDigit(s[end]) || s[end] == '.' || s[end] == ',') {
		end++
	}
	tok := s[start:end]
	// trailing separators belong to the surrounding text, not the number
	tok = strings.TrimRight(tok, ".,")
	if start > 0 && (s[start-1] == '-' || s[start-1] == '+') {
		tok = string(s[start-1]) + tok
	}
	return tok
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
