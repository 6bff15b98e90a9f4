package demangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemangleConcreteScenarios(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		cfg    Config
		want   string
	}{
		{
			name:   "primitive argument sequence",
			symbol: "whatever_default__Fcsilx",
			cfg:    MimicCfilt(),
			want:   "whatever_default(char, short, int, long, long long)",
		},
		{
			name:   "const pointer argument",
			symbol: "whatever_const_pointer__FCPCc",
			cfg:    MimicCfilt(),
			want:   "whatever_const_pointer(char const *const)",
		},
		{
			name:   "method with trailing ellipsis, cfilt dialect",
			symbol: "Printf__7ConsolePce",
			cfg:    MimicCfilt(),
			want:   "Console::Printf(char *,...)",
		},
		{
			name:   "method with trailing ellipsis, improved dialect",
			symbol: "Printf__7ConsolePce",
			cfg:    NoCfiltMimics(),
			want:   "Console::Printf(char *, ...)",
		},
		{
			name:   "namespaced global constructor, bug preserved",
			symbol: "_GLOBAL_$I$__Q210Scenegraph10Scenegraph",
			cfg:    MimicCfilt(),
			want:   "Scenegraph::Scenegraph::Scenegraph(void)",
		},
		{
			name:   "namespaced global constructor, bug fixed",
			symbol: "_GLOBAL_$I$__Q210Scenegraph10Scenegraph",
			cfg:    Config{PreserveNamespacedGlobalConstructorBug: false, DemangleGlobalKeyedFrames: true},
			want:   "global constructors keyed to Scenegraph::Scenegraph::Scenegraph(void)",
			// Config{} zero value leaves PreserveNamespacedGlobalConstructorBug
			// false, which is the "bug fixed" behavior; MimicCfilt() sets it true.
		},
		{
			name:   "nested array with const, raw length",
			symbol: "simpler_array__FPA41_A24_Ci",
			cfg:    MimicCfilt(),
			want:   "simpler_array(int const (*)[41][24])",
		},
		{
			name:   "nested array with const, fixed length",
			symbol: "simpler_array__FPA41_A24_Ci",
			cfg:    Config{FixArrayLengthArg: true},
			want:   "simpler_array(int const (*)[42][25])",
		},
		{
			name:   "gnu extension int, raw spelling",
			symbol: "testing_func__FRCI80",
			cfg:    MimicCfilt(),
			want:   "testing_func(int128_t const &)",
		},
		{
			name:   "gnu extension int, fixed spelling",
			symbol: "testing_func__FRCI80",
			cfg:    Config{FixExtensionInt: true},
			want:   "testing_func(__int128_t const &)",
		},
		{
			name:   "templated function returning array, raw declarator",
			symbol: "an_array__H1Zi_X01_PA3_f",
			cfg:    MimicCfilt(),
			want:   "float (*)[3] an_array<int>(int)",
		},
		{
			name:   "templated function returning array, fixed declarator",
			symbol: "an_array__H1Zi_X01_PA3_f",
			cfg:    Config{FixArrayInReturnPosition: true},
			want:   "float (*an_array<int>(int))[3]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Demangle(tt.symbol, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDemangleASCIIGate(t *testing.T) {
	_, err := Demangle("whatever_default__Fcs\xffi", MimicCfilt())
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, ErrNonASCII, derr.Kind)
}

func TestDemanglePrimitiveInsteadOfClass(t *testing.T) {
	_, err := Demangle("f__FGi", MimicCfilt())
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, ErrPrimitiveInsteadOfClass, derr.Kind)
}

func TestDemangleUnmangledInputReportsNotMangled(t *testing.T) {
	_, err := Demangle("not_a_mangled_symbol_at_all", MimicCfilt())
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, ErrNotMangled, derr.Kind)
}

func TestDemangleDuplicateQualifierIsAnError(t *testing.T) {
	// Two 'U' qualifiers in a row with no 'A' separator is malformed.
	_, err := Demangle("dup__FUUi", MimicCfilt())
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, ErrDuplicateQualifier, derr.Kind)
}

func TestDemangleTrailingDataAfterEllipsisIsAnError(t *testing.T) {
	_, err := Demangle("f__Fiei", MimicCfilt())
	require.Error(t, err)
}
