package demangle

import "strings"

// decodeCustomName decodes a GNU v2 length-prefixed identifier: a decimal
// length followed by exactly that many bytes of name. construct is used
// only to label the error on failure.
func decodeCustomName(s string, construct string) (rest string, name string, err error) {
	rest, length, ok := parseNumber(s)
	if !ok {
		return "", "", errInvalid(construct, "name length", s)
	}
	if len(rest) < length {
		return "", "", errInvalid(construct, "name", s)
	}
	return rest[length:], rest[:length], nil
}

// decodeMethodQualifier consumes the optional 'C' marker that appears
// right before a member function's enclosing scope, producing the
// " const" suffix to attach to the rendered declaration.
func decodeMethodQualifier(s string) (rest string, suffix string) {
	if r, ok := strings.CutPrefix(s, "C"); ok {
		return r, " const"
	}
	return s, ""
}
