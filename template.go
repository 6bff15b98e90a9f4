package demangle

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeTemplate decodes a 't'-introduced class template instantiation:
// 't' must already have been stripped by the caller. It returns the
// rendered "Name<args>" text together with the bare class name, which
// callers use as the constructor or destructor name.
func decodeTemplate(s string, cfg *Config, outerTemplateArgs *backrefTable) (rest string, rendered string, className string, err error) {
	rest, className, err = decodeCustomName(s, "template")
	if err != nil {
		return "", "", "", err
	}
	rest, count, ok := parseDigit(rest)
	if !ok {
		return "", "", "", errInvalid("template", "parameter count", rest)
	}
	if count == 0 {
		return "", "", "", errInvalid("template", "parameter count", rest)
	}

	rest, params, err := decodeTemplateParams(rest, cfg, count, outerTemplateArgs)
	if err != nil {
		return "", "", "", err
	}

	joined := params.join()
	if strings.HasSuffix(joined, ">") {
		rendered = className + "<" + joined + " >"
	} else {
		rendered = className + "<" + joined + ">"
	}
	return rest, rendered, className, nil
}

// decodeTemplateWithReturn decodes the parameter-count-and-list portion of
// an H-form templated function ("H<N><params>_..."): the leading 'H' must
// already have been stripped. It stops right after the mandatory
// underscore separator and the optional enclosing-scope name, leaving the
// caller to decode the argument list and return type that follow.
func decodeTemplateWithReturn(s string, cfg *Config) (rest string, params *backrefTable, scope *string, err error) {
	rest, count, ok := parseDigit(s)
	if !ok {
		return "", nil, nil, errInvalid("templated function", "parameter count", s)
	}
	if count == 0 {
		return "", nil, nil, errInvalid("templated function", "parameter count", s)
	}

	rest, params, err = decodeTemplateParams(rest, cfg, count, newBackrefTable(nil))
	if err != nil {
		return "", nil, nil, err
	}

	rest, ok = strings.CutPrefix(rest, "_")
	if !ok {
		return "", nil, nil, &Error{Kind: ErrMalformedTemplateReturn, Offending: rest}
	}

	if afterQ, isQ := strings.CutPrefix(rest, "Q"); isQ {
		r, joined, _, nerr := decodeNamespaces(afterQ, cfg, newBackrefTable(nil))
		if nerr != nil {
			return "", nil, nil, nerr
		}
		return r, params, &joined, nil
	}
	if rest != "" && rest[0] >= '1' && rest[0] <= '9' {
		r, name, nerr := decodeCustomName(rest, "templated function scope")
		if nerr != nil {
			return "", nil, nil, nerr
		}
		return r, params, &name, nil
	}
	return rest, params, nil, nil
}

func decodeTemplateParams(s string, cfg *Config, count int, outerTemplateArgs *backrefTable) (rest string, table *backrefTable, err error) {
	table = newBackrefTable(nil)
	remaining := s
	for i := 0; i < count; i++ {
		before := remaining
		var val argValue
		var allowTrailing bool

		if typeArg, isType := strings.CutPrefix(remaining, "Z"); isType {
			r, v, aerr := decodeArgument(typeArg, cfg, table, outerTemplateArgs)
			if aerr != nil {
				return "", nil, aerr
			}
			remaining = r
			val = v
			allowTrailing = true
		} else {
			r, v, verr := decodeTemplatedValue(remaining, cfg, outerTemplateArgs)
			if verr != nil {
				return "", nil, verr
			}
			remaining = r
			val = v
			allowTrailing = false
		}

		switch val.kind {
		case argRepeat:
			if perr := table.pushRepeat("template parameter list", before, val.count, val.index); perr != nil {
				return "", nil, perr
			}
		case argEllipsis:
			if perr := table.pushEllipsis("template parameter list", remaining, allowTrailing, cfg.EllipsisEmitSpaceAfterComma); perr != nil {
				return "", nil, perr
			}
		default:
			table.pushPlain(val.text)
		}
	}
	return remaining, table, nil
}

// decodeTemplatedValue decodes one non-type template argument: a
// character, integer, boolean, enumerator or pointer/reference constant.
func decodeTemplatedValue(s string, cfg *Config, templateArgs *backrefTable) (rest string, val argValue, err error) {
	r := s
	isPointer := false
	isReference := false

	for r != "" {
		switch r[0] {
		case 'P':
			isPointer = true
		case 'R':
			isReference = true
		case 'C', 'S', 'U':
			// const / signed / unsigned: irrelevant to the rendered value.
		default:
			goto doneSkipping
		}
		r = r[1:]
	}
doneSkipping:

	if isPointer || isReference {
		aux, argv, aerr := decodeArgument(r, cfg, newBackrefTable(nil), newBackrefTable(nil))
		if aerr != nil {
			return "", argValue{}, aerr
		}
		if argv.kind != argPlain {
			return "", argValue{}, errInvalid("templated value", "pointer/reference target", r)
		}
		aux, symbol, nerr := decodeCustomName(aux, "templated value symbol")
		if nerr != nil {
			return "", argValue{}, nerr
		}
		prefix := ""
		if isPointer {
			prefix = "&"
		}
		return aux, argValue{kind: argPlain, text: prefix + symbol}, nil
	}

	remaining := r
	c, r, ok := takeFirstChar(remaining)
	if !ok {
		return "", argValue{}, errInvalid("templated value", "", remaining)
	}

	switch c {
	case 'c', 'w':
		var number int
		r, number, ok = parseNumber(r)
		if !ok || number > utf8.MaxRune || !utf8.ValidRune(rune(number)) {
			return "", argValue{}, errInvalid("templated value", "character code point", r)
		}
		return r, argValue{kind: argPlain, text: "'" + string(rune(number)) + "'"}, nil

	case 's', 'i', 'l', 'x':
		if afterY, isY := strings.CutPrefix(r, "Y"); isY {
			var index, j int
			r, index, ok = parseDigit(afterY)
			if !ok {
				return "", argValue{}, errMissing("templated value", "back-reference index", s)
			}
			r, j, ok = parseDigit(r)
			if !ok {
				return "", argValue{}, errMissing("templated value", "back-reference marker", s)
			}
			if j != 1 {
				return "", argValue{}, errInvalid("templated value", "back-reference marker", s)
			}
			text, found := templateArgs.get(index)
			if !found {
				return "", argValue{}, errLookbackRange("templated value", s, index)
			}
			return r, argValue{kind: argPlain, text: text}, nil
		}

		negative := false
		if afterM, isM := strings.CutPrefix(r, "m"); isM {
			negative = true
			r = afterM
		}
		var number int
		if afterUnderscore, hasUnderscore := strings.CutPrefix(r, "_"); hasUnderscore {
			r, number, ok = parseNumberMaybeMultiDigit(afterUnderscore)
		} else {
			r, number, ok = parseNumber(r)
		}
		if !ok {
			return "", argValue{}, errInvalid("templated value", "integer", r)
		}
		text := strconv.Itoa(number)
		if negative {
			text = "-" + text
		}
		return r, argValue{kind: argPlain, text: text}, nil

	case 'b':
		switch {
		case strings.HasPrefix(r, "1"):
			return r[1:], argValue{kind: argPlain, text: "true"}, nil
		case strings.HasPrefix(r, "0"):
			return r[1:], argValue{kind: argPlain, text: "false"}, nil
		default:
			return "", argValue{}, errInvalid("templated value", "boolean", r)
		}

	default:
		if isDigit(c) {
			// Enumerator constant: a length-prefixed enum name (whose text
			// is discarded, matching the reference tool) followed by the
			// integer value.
			r, _, nerr := decodeCustomName(remaining, "templated enum value")
			if nerr != nil {
				return "", argValue{}, nerr
			}
			negative := false
			if afterM, isM := strings.CutPrefix(r, "m"); isM {
				negative = true
				r = afterM
			}
			var number int
			r, number, ok = parseNumber(r)
			if !ok {
				return "", argValue{}, errInvalid("templated value", "enumerator value", r)
			}
			text := strconv.Itoa(number)
			if negative {
				text = "-" + text
			}
			return r, argValue{kind: argPlain, text: text}, nil
		}
		return "", argValue{}, errUnknownType("templated value", c, r)
	}
}
