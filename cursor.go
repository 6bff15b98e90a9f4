package demangle

import "strings"

// This file holds the lexical primitives the rest of the decoder is built
// on top of. Every function here is zero-copy: it takes the remaining
// input and returns a borrowed suffix plus whatever it managed to parse.
// None of them ever allocate the input itself.

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// indexNotByte returns the index of the first byte in s for which pred is
// false, or -1 if every byte satisfies pred.
func indexNotByte(s string, pred func(byte) bool) int {
	for i := 0; i < len(s); i++ {
		if !pred(s[i]) {
			return i
		}
	}
	return -1
}

// parseNumber greedily consumes a run of ASCII digits. It fails if there is
// no leading digit.
func parseNumber(s string) (rest string, n int, ok bool) {
	end := indexNotByte(s, isDigit)
	digits := s
	if end == -1 {
		rest = ""
	} else {
		digits = s[:end]
		rest = s[end:]
	}
	if digits == "" {
		return "", 0, false
	}
	return rest, atoiDecimal(digits), true
}

// parseHexNumber greedily consumes a run of ASCII hex digits.
func parseHexNumber(s string) (rest string, n int, ok bool) {
	end := indexNotByte(s, isHexDigit)
	digits := s
	if end == -1 {
		rest = ""
	} else {
		digits = s[:end]
		rest = s[end:]
	}
	if digits == "" {
		return "", 0, false
	}
	return rest, atoiHex(digits), true
}

// parseDigit consumes exactly one ASCII digit.
func parseDigit(s string) (rest string, d int, ok bool) {
	if s == "" || !isDigit(s[0]) {
		return "", 0, false
	}
	return s[1:], int(s[0] - '0'), true
}

// parseNumberMaybeMultiDigit parses a back-reference index or a repeat
// count. These use an unusual format: a lone digit followed by anything
// that isn't an underscore is consumed as a single digit, but a run of two
// or more digits followed by an underscore is consumed whole (underscore
// included). A single digit directly followed by an underscore is treated
// as the single-digit case and leaves the underscore unconsumed -- this
// mirrors the reference demangler exactly, it is not a typo.
func parseNumberMaybeMultiDigit(s string) (rest string, n int, ok bool) {
	if s == "" {
		return "", 0, false
	}
	if len(s) == 1 {
		if !isDigit(s[0]) {
			return "", 0, false
		}
		return "", int(s[0] - '0'), true
	}

	idx := indexNotByte(s, isDigit)
	if idx == -1 {
		// All digits: only the first one is consumed.
		return s[1:], int(s[0] - '0'), true
	}
	if idx == 0 {
		return "", 0, false
	}
	if s[idx] == '_' {
		newStart := idx
		if idx > 1 {
			newStart = idx + 1
		}
		return s[newStart:], atoiDecimal(s[:idx]), true
	}
	// Only the first digit is consumed.
	return s[1:], int(s[0] - '0'), true
}

// split2 locates the first occurrence of pat and returns the two
// surrounding halves. It fails if pat is absent or if either half is empty.
func split2(s, pat string) (left, right string, ok bool) {
	idx := strings.Index(s, pat)
	if idx < 0 {
		return "", "", false
	}
	left = s[:idx]
	right = s[idx+len(pat):]
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// split2RPrefix is like split2 but additionally requires the right half to
// begin with a byte for which cond holds.
func split2RPrefix(s, pat string, cond func(byte) bool) (left, right string, ok bool) {
	idx := strings.Index(s, pat)
	if idx < 0 {
		return "", "", false
	}
	left = s[:idx]
	right = s[idx+len(pat):]
	if left == "" || right == "" || !cond(right[0]) {
		return "", "", false
	}
	return left, right, true
}

// takeFirstChar consumes a single byte.
func takeFirstChar(s string) (c byte, rest string, ok bool) {
	if s == "" {
		return 0, "", false
	}
	return s[0], s[1:], true
}

func atoiDecimal(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n
}

func atoiHex(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*16 + hexVal(digits[i])
	}
	return n
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}
