package demangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberMaybeMultiDigit(t *testing.T) {
	tests := []struct {
		in       string
		wantRest string
		wantN    int
		wantOK   bool
	}{
		{"1_junk", "_junk", 1, true},
		{"12_junk", "junk", 12, true},
		{"54junk", "4junk", 5, true},
		{"32", "2", 3, true},
		{"2", "", 2, true},
		{"", "", 0, false},
		{"_junk", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rest, n, ok := parseNumberMaybeMultiDigit(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantRest, rest)
				assert.Equal(t, tt.wantN, n)
			}
		})
	}
}

func TestSplit2RequiresBothHalvesNonEmpty(t *testing.T) {
	_, _, ok := split2("__Fint", "__F")
	assert.False(t, ok, "left half empty should fail")

	_, _, ok = split2("foo__F", "__F")
	assert.False(t, ok, "right half empty should fail")

	left, right, ok := split2("foo__Fint", "__F")
	assert.True(t, ok)
	assert.Equal(t, "foo", left)
	assert.Equal(t, "int", right)
}

func TestParseHexNumber(t *testing.T) {
	rest, n, ok := parseHexNumber("80rest")
	assert.True(t, ok)
	assert.Equal(t, 128, n)
	assert.Equal(t, "rest", rest)
}
