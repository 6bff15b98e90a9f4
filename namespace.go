package demangle

import "strings"

// decodeNamespaces decodes a 'Q'-introduced qualified scope: 'Q' must
// already have been stripped by the caller. It returns the fully joined
// "A::B::C" scope string together with the last component decoded (which
// callers use as the constructor or destructor name of the innermost
// class).
func decodeNamespaces(s string, cfg *Config, templateArgs *backrefTable) (rest string, joined string, last string, err error) {
	var count int
	var ok bool
	if withoutUnderscore, hasUnderscore := strings.CutPrefix(s, "_"); hasUnderscore {
		var afterCount string
		afterCount, count, ok = parseNumber(withoutUnderscore)
		if ok {
			afterCount, ok = strings.CutPrefix(afterCount, "_")
			rest = afterCount
		}
	} else {
		rest, count, ok = parseDigit(s)
	}
	if !ok || count == 0 {
		return "", "", "", errInvalid("namespace", "component count", s)
	}

	var b strings.Builder
	remaining := rest
	for i := 0; i < count; i++ {
		if b.Len() != 0 {
			b.WriteString("::")
		}

		// g++ occasionally leaves a stray underscore before a namespace
		// component after a multi-digit count; tolerate any number of
		// them.
		remaining = strings.TrimLeft(remaining, "_")

		var piece string
		if tmpl, isTemplate := strings.CutPrefix(remaining, "t"); isTemplate {
			r, rendered, className, terr := decodeTemplate(tmpl, cfg, templateArgs)
			if terr != nil {
				return "", "", "", terr
			}
			remaining = r
			piece = rendered
			last = className
		} else {
			r, name, nerr := decodeCustomName(remaining, "namespace")
			if nerr != nil {
				return "", "", "", nerr
			}
			remaining = r
			piece = name
			last = name
		}
		b.WriteString(piece)
	}

	return remaining, b.String(), last, nil
}
