package demangle

// Config toggles the handful of places where the reference c++filt GNU v2
// demangler carries a bug or a debatable convention that later tooling
// wants to render differently. Prefer MimicCfilt or NoCfiltMimics over
// setting fields one at a time; the zero value is close to, but not
// exactly, MimicCfilt (see PreserveNamespacedGlobalConstructorBug).
type Config struct {
	// PreserveNamespacedGlobalConstructorBug keeps c++filt's habit of
	// dropping the "global constructors keyed to " prefix when a
	// _GLOBAL_$I$ symbol is keyed to a namespaced ("__Q...") symbol.
	// When false, the prefix is kept.
	PreserveNamespacedGlobalConstructorBug bool

	// FixArrayLengthArg corrects the off-by-one in GNU v2's array length
	// encoding: c++filt prints the encoded length verbatim, but g++ 2.x
	// actually encodes (length - 1). When true, array lengths are
	// rendered incremented by one.
	FixArrayLengthArg bool

	// DemangleGlobalKeyedFrames renders a _GLOBAL_$F$ keyed frame marker
	// as "global frames keyed to <inner symbol>". When false, the whole
	// symbol, prefix included, goes through the ordinary classifiers the
	// way c++filt handles it.
	DemangleGlobalKeyedFrames bool

	// EllipsisEmitSpaceAfterComma inserts a space after the comma before
	// a trailing ellipsis in an argument list ("int, ...") instead of
	// c++filt's crowded "int,...".
	EllipsisEmitSpaceAfterComma bool

	// FixExtensionInt renders GNU extended integer types using g++'s
	// accepted __intN_t / __uintN_t spelling instead of c++filt's
	// intN_t / unsigned intN_t, which g++ itself does not accept.
	FixExtensionInt bool

	// FixArrayInReturnPosition renders a function returning an array
	// with the array brackets wrapped around the whole declarator
	// ("float (*f())[3]") instead of leaving them on the return type by
	// itself the way c++filt does ("float (*)[3] f()").
	FixArrayInReturnPosition bool
}

// MimicCfilt returns the configuration that reproduces c++filt's GNU v2
// dialect byte for byte, quirks included.
func MimicCfilt() Config {
	return Config{PreserveNamespacedGlobalConstructorBug: true}
}

// NoCfiltMimics returns the configuration that corrects every quirk
// MimicCfilt preserves.
func NoCfiltMimics() Config {
	return Config{
		FixArrayLengthArg:           true,
		DemangleGlobalKeyedFrames:   true,
		EllipsisEmitSpaceAfterComma: true,
		FixExtensionInt:             true,
		FixArrayInReturnPosition:    true,
	}
}
