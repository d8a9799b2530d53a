package selection

import "math"

// parseQuantity reads the leading integer of a quantity input the way a
// browser number field hands it over: surrounding whitespace and an optional
// sign are accepted, parsing stops at the first non-digit ("5.9" is 5,
// "3abc" is 3). Input without a leading integer yields 1.
func parseQuantity(raw string) int {
	i := 0
	for i < len(raw) && isSpace(raw[i]) {
		i++
	}
	neg := false
	if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
		neg = raw[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		d := int(raw[i] - '0')
		if n > (math.MaxInt32-d)/10 {
			// saturate; the clamp brings it back into range
			n = math.MaxInt32
		} else {
			n = n*10 + d
		}
		i++
	}
	if i == start {
		return 1
	}
	if neg {
		return -n
	}
	return n
}

// clampQuantity bounds q into [1, max]. A zone with no capacity never gets a
// card, so max < 1 is only reachable through misuse and yields 1.
func clampQuantity(q, max int) int {
	if q < 1 || max < 1 {
		return 1
	}
	if q > max {
		return max
	}
	return q
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
