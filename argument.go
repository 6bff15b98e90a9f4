package demangle

import "strings"

type argKind int

const (
	argPlain argKind = iota
	argRepeat
	argEllipsis
)

// arrayInfo is populated on a Plain argValue whose outermost qualifier
// chain went through the array pseudo-qualifier step, so that a caller
// rendering a function's return type can move the array brackets around
// the whole declarator instead of leaving them glued to the type (see
// Config.FixArrayInReturnPosition). elem is the bare element type
// (including any left qualifier), preBrackets is everything up to and
// including the opening of the wrapped declarator (e.g. "(*"), and
// brackets is the closing paren followed by the array lengths (e.g.
// ")[3]").
type arrayInfo struct {
	elem        string
	preBrackets string
	brackets    string
}

// argValue is what decoding one argument-list element produces: either a
// fully rendered type (Plain), a repeat-expansion referring back into the
// table under construction (Repeat), or the end-of-list marker
// (Ellipsis).
type argValue struct {
	kind  argKind
	text  string
	array *arrayInfo
	count int
	index int
}

// decodeArgument decodes one element of an argument list or a class
// template's type-parameter list. parsedArguments is the table built so
// far by the enclosing argument list (for T<i> back-references; an
// N<count><index> repeat is returned unchecked and validated by the
// caller's pushRepeat); templateArgs is the enclosing
// template's parameter table (for X<i><j> and t<name> references).
func decodeArgument(s string, cfg *Config, parsedArguments, templateArgs *backrefTable) (rest string, val argValue, err error) {
	if v, ok, qerr := decodeQualifierlessArg(s); qerr != nil {
		return "", argValue{}, qerr
	} else if ok {
		return v.rest, v.val, nil
	}

	args, preQualifier, postQualifiers, err := decodeArgQualifiers(s)
	if err != nil {
		return "", argValue{}, err
	}
	args, preQualifier, postQualifiers, arr, err := decodeArrayPseudoQualifier(cfg, args, preQualifier, postQualifiers)
	if err != nil {
		return "", argValue{}, err
	}

	if fp, ok := strings.CutPrefix(args, "F"); ok {
		return decodeFunctionPointerArg(cfg, fp, preQualifier, postQualifiers)
	}

	mustBeClassLike := false
	if g, ok := strings.CutPrefix(args, "G"); ok {
		args = g
		mustBeClassLike = true
	}

	rest, isClassLike, typ, err := decodeArgType(cfg, args, parsedArguments, templateArgs)
	if err != nil {
		return "", argValue{}, err
	}
	if mustBeClassLike && !isClassLike {
		return "", argValue{}, &Error{Kind: ErrPrimitiveInsteadOfClass, Offending: s}
	}

	spacer := ""
	if postQualifiers != "" {
		spacer = " "
	}
	text := preQualifier + typ + spacer + strings.Trim(postQualifiers, " ")

	v := argValue{kind: argPlain, text: text}
	if arr != nil {
		v.array = &arrayInfo{
			elem:        preQualifier + typ,
			preBrackets: arr.preBrackets,
			brackets:    arr.brackets,
		}
	}
	return rest, v, nil
}

type qualifierlessResult struct {
	rest string
	val  argValue
}

// decodeQualifierlessArg handles the two argument forms that never carry
// pointer/reference/const qualifiers: repeat-expansions and the ellipsis
// terminator.
func decodeQualifierlessArg(s string) (*qualifierlessResult, bool, error) {
	if afterN, ok := strings.CutPrefix(s, "N"); ok {
		r, count, ok := parseNumberMaybeMultiDigit(afterN)
		if !ok || count == 0 {
			return nil, false, errInvalid("repeat argument", "count", s)
		}
		r, index, ok := parseNumberMaybeMultiDigit(r)
		if !ok {
			return nil, false, errInvalid("repeat argument", "index", s)
		}
		return &qualifierlessResult{rest: r, val: argValue{kind: argRepeat, count: count, index: index}}, true, nil
	}
	if afterE, ok := strings.CutPrefix(s, "e"); ok {
		return &qualifierlessResult{rest: afterE, val: argValue{kind: argEllipsis}}, true, nil
	}
	return nil, false, nil
}

// decodeArgQualifiers consumes a run of leading pointer ('P'), reference
// ('R'), const ('C') and signed/unsigned ('S'/'U') markers. Pointers and
// references are accumulated by prepending to postQualifiers, so that the
// qualifier closest to the type ends up innermost; signed/unsigned may
// only be specified once.
func decodeArgQualifiers(s string) (rest string, preQualifier string, postQualifiers string, err error) {
	remaining := s
	postStr := ""

	for remaining != "" {
		c := remaining[0]
		// "UI<hex>" is the GNU extension unsigned fixed-width integer
		// type, not an unsigned qualifier followed by a primary type
		// byte 'I'; leave it untouched for decodeArgType to recognize.
		if c == 'U' && len(remaining) > 1 && remaining[1] == 'I' {
			return remaining, preQualifier, postStr, nil
		}
		switch c {
		case 'P':
			postStr = "*" + postStr
		case 'R':
			postStr = "&" + postStr
		case 'C':
			postStr = "const " + postStr
		case 'S':
			if preQualifier != "" {
				return "", "", "", errDuplicateQualifier("argument", "signed", s)
			}
			preQualifier = "signed "
		case 'U':
			if preQualifier != "" {
				return "", "", "", errDuplicateQualifier("argument", "unsigned", s)
			}
			preQualifier = "unsigned "
		default:
			return remaining, preQualifier, postStr, nil
		}
		remaining = remaining[1:]
	}
	return remaining, preQualifier, postStr, nil
}

// decodeArrayPseudoQualifier handles the 'A<len>_' array-of syntax. It is
// only legal right after a (possibly empty) pointer/reference chain and
// before any signed/unsigned qualifier; the prior qualifier chain is
// wrapped in parentheses and the array lengths are appended after it, and
// then another qualifier run is decoded and prepended to the whole thing
// (this is how "int const (*)[3]" ends up with const outside the
// parenthesized pointer declarator).
func decodeArrayPseudoQualifier(cfg *Config, s string, preQualifier string, postQualifiers string) (rest string, outPre string, outPost string, arr *arrayInfo, err error) {
	if !strings.HasPrefix(s, "A") {
		return s, preQualifier, postQualifiers, nil, nil
	}
	if preQualifier != "" {
		return "", "", "", nil, errInvalid("array argument", "qualifier position", s)
	}

	wrapped := "(" + postQualifiers + ")"
	preBrackets := "(" + postQualifiers
	var brackets strings.Builder
	brackets.WriteString(")")

	args := s
	for {
		afterA, ok := strings.CutPrefix(args, "A")
		if !ok {
			break
		}
		r, length, ok := parseNumber(afterA)
		if !ok {
			return "", "", "", nil, errInvalid("array argument", "length", args)
		}
		r, ok = strings.CutPrefix(r, "_")
		if !ok {
			return "", "", "", nil, errMissing("array argument", "length separator", args)
		}
		if cfg.FixArrayLengthArg {
			length++
		}
		wrapped += "[" + itoa(length) + "]"
		brackets.WriteString("[" + itoa(length) + "]")
		args = r
	}

	r, rescanPre, rescanPost, rerr := decodeArgQualifiers(args)
	if rerr != nil {
		return "", "", "", nil, rerr
	}

	return r, rescanPre, rescanPost + wrapped, &arrayInfo{
		elem:        "",
		preBrackets: rescanPost + preBrackets,
		brackets:    brackets.String(),
	}, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// decodeArgType decodes the primary type byte (or construct) of an
// argument, after qualifiers have already been stripped.
func decodeArgType(cfg *Config, args string, parsedArguments, templateArgs *backrefTable) (rest string, isClassLike bool, typ string, err error) {
	if args == "" {
		return "", false, "", errMissing("argument", "type", args)
	}
	c := args[0]

	switch c {
	case 'c':
		return args[1:], false, "char", nil
	case 's':
		return args[1:], false, "short", nil
	case 'i':
		return args[1:], false, "int", nil
	case 'l':
		return args[1:], false, "long", nil
	case 'x':
		return args[1:], false, "long long", nil
	case 'f':
		return args[1:], false, "float", nil
	case 'd':
		return args[1:], false, "double", nil
	case 'r':
		return args[1:], false, "long double", nil
	case 'b':
		return args[1:], false, "bool", nil
	case 'w':
		return args[1:], false, "wchar_t", nil
	case 'v':
		return args[1:], false, "void", nil

	case 'I', 'U':
		if c == 'U' {
			if afterUI, ok := strings.CutPrefix(args, "UI"); ok {
				return decodeExtensionInt(cfg, afterUI, true)
			}
		} else {
			return decodeExtensionInt(cfg, args[1:], false)
		}
		return "", false, "", errUnknownType("argument", c, args)

	case 'Q':
		r, namespaces, _, nerr := decodeNamespaces(args[1:], cfg, templateArgs)
		if nerr != nil {
			return "", false, "", nerr
		}
		return r, true, namespaces, nil

	case 'T':
		r, lookback, ok := parseNumberMaybeMultiDigit(args[1:])
		if !ok {
			return "", false, "", errInvalid("argument", "back-reference index", args)
		}
		referenced, found := parsedArguments.get(lookback)
		if !found {
			return "", false, "", errLookbackRange("argument", args, lookback)
		}
		return r, false, referenced, nil

	case 't':
		r, rendered, _, terr := decodeTemplate(args[1:], cfg, templateArgs)
		if terr != nil {
			return "", false, "", terr
		}
		return r, true, rendered, nil

	case 'X':
		rest := args[1:]
		var index int
		var ok bool
		if afterUnderscore, has := strings.CutPrefix(rest, "_"); has {
			rest, index, ok = parseNumberMaybeMultiDigit(afterUnderscore)
		} else {
			rest, index, ok = parseDigit(rest)
		}
		if !ok {
			return "", false, "", errInvalid("argument", "templated index", args)
		}
		var marker int
		rest, marker, ok = parseDigit(rest)
		if !ok {
			return "", false, "", errInvalid("argument", "templated index marker", rest)
		}
		if marker != 0 && marker != 1 {
			return "", false, "", errInvalid("argument", "templated index marker", rest)
		}
		text, found := templateArgs.get(index)
		if !found {
			return "", false, "", errLookbackRange("argument", rest, index)
		}
		return rest, false, text, nil

	default:
		if c >= '1' && c <= '9' {
			r, name, nerr := decodeCustomName(args, "argument class name")
			if nerr != nil {
				return "", false, "", nerr
			}
			return r, true, name, nil
		}
		return "", false, "", errUnknownType("argument", c, args)
	}
}

// decodeExtensionInt decodes the GNU-extension fixed-width integer forms
// I<hex-bits> / UI<hex-bits>.
func decodeExtensionInt(cfg *Config, s string, unsigned bool) (rest string, isClassLike bool, typ string, err error) {
	r, bits, ok := parseHexNumber(s)
	if !ok {
		return "", false, "", errInvalid("argument", "extension integer bitwidth", s)
	}
	if bits <= 0 {
		return "", false, "", errInvalid("argument", "extension integer bitwidth", s)
	}
	name := "int" + itoa(bits) + "_t"
	if cfg.FixExtensionInt {
		name = "__" + name
		if unsigned {
			name = "__u" + name[2:]
		}
	} else {
		if unsigned {
			name = "unsigned " + name
		}
	}
	return r, false, name, nil
}

// decodeFunctionPointerArg decodes the 'F'-introduced function-pointer
// argument form: "...(*)(args)" with ret type trailing after '_'.
func decodeFunctionPointerArg(cfg *Config, s string, preQualifier string, postQualifiers string) (rest string, val argValue, err error) {
	r, subargs, aerr := decodeArgumentListRaw(s, cfg, nil, newBackrefTable(nil), true)
	if aerr != nil {
		return "", argValue{}, aerr
	}
	r, ok := strings.CutPrefix(r, "_")
	if !ok {
		return "", argValue{}, errMissing("function pointer argument", "return type", r)
	}

	r, retVal, aerr := decodeArgument(r, cfg, subargs, newBackrefTable(nil))
	if aerr != nil {
		return "", argValue{}, aerr
	}
	ret := retVal.text

	spacer := " "
	if strings.HasSuffix(ret, "*") || strings.HasSuffix(ret, "&") {
		spacer = ""
	}

	text := preQualifier + ret + spacer + "(" + strings.Trim(postQualifiers, " ") + ")(" + subargs.join() + ")"
	return r, argValue{kind: argPlain, text: text}, nil
}

// decodeArgumentListRaw decodes as many arguments as it can starting at s,
// stopping at an empty remainder, an unconsumed '_' separator, or an
// ellipsis terminator. namespace, when non-nil, becomes the table's
// virtual back-reference slot 0.
func decodeArgumentListRaw(s string, cfg *Config, namespace *string, templateArgs *backrefTable, allowTrailingAfterEllipsis bool) (rest string, table *backrefTable, err error) {
	table = newBackrefTable(namespace)
	args := s

	for args != "" && !strings.HasPrefix(args, "_") {
		before := args
		r, val, aerr := decodeArgument(before, cfg, table, templateArgs)
		if aerr != nil {
			return "", nil, aerr
		}
		args = r

		switch val.kind {
		case argRepeat:
			if perr := table.pushRepeat("argument list", before, val.count, val.index); perr != nil {
				return "", nil, perr
			}
		case argEllipsis:
			perr := table.pushEllipsis("argument list", args, allowTrailingAfterEllipsis, cfg.EllipsisEmitSpaceAfterComma)
			if perr != nil {
				return "", nil, perr
			}
			return args, table, nil
		default:
			table.pushPlain(val.text)
		}
	}

	return args, table, nil
}

// decodeArgumentList decodes a complete, self-terminating argument list
// (one that must consume all of s) and renders it, using "void" for an
// empty list.
func decodeArgumentList(s string, cfg *Config, namespace *string, templateArgs *backrefTable) (string, error) {
	if s == "" {
		return "void", nil
	}
	rest, table, err := decodeArgumentListRaw(s, cfg, namespace, templateArgs, false)
	if err != nil {
		return "", err
	}
	if rest != "" {
		return "", errTrailing("argument list", rest)
	}
	joined := table.join()
	if joined == "" {
		return "void", nil
	}
	return joined, nil
}
