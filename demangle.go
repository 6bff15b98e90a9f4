// Package demangle turns GNU v2 mangled C++ symbols -- the scheme g++ 2.x
// emitted and that c++filt still recognizes in its GNU v2 mode -- back
// into readable C++ declarations.
package demangle

import "strings"

// Demangle decodes sym, a GNU v2 mangled symbol, into its C++ source-level
// declaration. cfg selects between reproducing c++filt's dialect exactly
// (MimicCfilt) and correcting its known quirks (NoCfiltMimics); the zero
// Config matches MimicCfilt except that it leaves
// PreserveNamespacedGlobalConstructorBug off.
func Demangle(sym string, cfg Config) (string, error) {
	for i := 0; i < len(sym); i++ {
		if sym[i] > 0x7f {
			return "", &Error{Kind: ErrNonASCII, Offending: sym}
		}
	}
	return demangleImpl(sym, &cfg, true)
}

func demangleImpl(sym string, cfg *Config, allowGlobalSymKeyed bool) (string, error) {
	if s, ok := strings.CutPrefix(sym, "_$_"); ok {
		return demangleDestructor(s, cfg)
	}
	if s, ok := strings.CutPrefix(sym, "__"); ok {
		return demangleSpecial(s, sym, cfg)
	}
	if allowGlobalSymKeyed {
		if s, ok := strings.CutPrefix(sym, "_GLOBAL_$"); ok {
			return demangleGlobalSymKeyed(s, sym, cfg)
		}
	}
	if funcName, args, ok := split2(sym, "__F"); ok {
		return demangleFreeFunction(funcName, args, cfg)
	}
	if methodName, classAndArgs, ok := split2RPrefix(sym, "__", isMethodScopeStart); ok {
		return demangleMethod(methodName, classAndArgs, cfg)
	}
	if funcName, s, ok := split2(sym, "__Q"); ok {
		return demangleNamespacedFunction(funcName, s, cfg)
	}
	if s, ok := strings.CutPrefix(sym, "_vt"); ok {
		return demangleVirtualTable(s, cfg)
	}
	if s, name, ok := split2(sym, "$"); ok {
		return demangleNamespacedGlobal(s, name, cfg)
	}
	return "", errNotMangled(sym)
}

func isMethodScopeStart(b byte) bool {
	return (b >= '1' && b <= '9') || b == 'C' || b == 't' || b == 'H'
}

func demangleDestructor(s string, cfg *Config) (string, error) {
	var remaining, scope, leaf string
	var err error

	switch {
	case strings.HasPrefix(s, "t"):
		remaining, scope, leaf, err = decodeTemplate(s[1:], cfg, newBackrefTable(nil))
	case strings.HasPrefix(s, "Q"):
		remaining, scope, leaf, err = decodeNamespaces(s[1:], cfg, newBackrefTable(nil))
	default:
		var name string
		remaining, name, err = decodeCustomName(s, "destructor")
		scope, leaf = name, name
	}
	if err != nil {
		return "", err
	}
	if remaining != "" {
		return "", errTrailing("destructor", remaining)
	}
	return scope + "::~" + leaf + "(void)", nil
}

var specialOperatorNames = map[string]string{
	"nw":  "operator new",
	"dl":  "operator delete",
	"vn":  "operator new []",
	"eq":  "operator==",
	"ne":  "operator!=",
	"as":  "operator=",
	"vc":  "operator[]",
	"ad":  "operator&",
	"nt":  "operator!",
	"ls":  "operator<<",
	"rs":  "operator>>",
	"er":  "operator^",
	"lt":  "operator<",
	"aml": "operator*=",
	"apl": "operator+=",
}

func demangleSpecial(s, fullSym string, cfg *Config) (string, error) {
	if s == "" {
		return "", errInvalid("special method", "", s)
	}
	c := s[0]

	var remaining string
	var classNamePtr *string
	var methodName, suffix string
	var err error

	switch {
	case c >= '1' && c <= '9':
		var className string
		remaining, className, err = decodeCustomName(s, "constructor")
		if err != nil {
			return "", err
		}
		classNamePtr = &className
		methodName = className

	case strings.HasPrefix(s, "tf"):
		return demangleTypeInfoFunction(s[2:], cfg)

	case strings.HasPrefix(s, "ti"):
		return demangleTypeInfoNode(s[2:], cfg)

	case strings.HasPrefix(s, "t"):
		var rendered, className string
		remaining, rendered, className, err = decodeTemplate(s[1:], cfg, newBackrefTable(nil))
		if err != nil {
			return "", err
		}
		classNamePtr = &rendered
		methodName = className

	case strings.HasPrefix(s, "Q"):
		var joined, last string
		remaining, joined, last, err = decodeNamespaces(s[1:], cfg, newBackrefTable(nil))
		if err != nil {
			return "", err
		}
		classNamePtr = &joined
		methodName = last

	default:
		endIndex := strings.Index(s, "__")
		if endIndex < 0 {
			return "", errInvalid("special method", "operator code", s)
		}
		op := s[:endIndex]
		afterOp := s[endIndex+2:]

		if name, ok := specialOperatorNames[op]; ok {
			methodName = name
		} else if cast, ok := strings.CutPrefix(op, "op"); ok {
			castRest, argv, aerr := decodeArgument(cast, cfg, newBackrefTable(nil), newBackrefTable(nil))
			if aerr != nil {
				return "", aerr
			}
			if argv.kind != argPlain {
				return "", errInvalid("special method", "cast operator", op)
			}
			if castRest != "" {
				return "", errTrailing("cast operator", castRest)
			}
			methodName = "operator " + argv.text
		} else {
			return fallbackAsFunctionOrMethod(s, fullSym, op, cfg)
		}

		if r, ok := strings.CutPrefix(afterOp, "F"); ok {
			remaining = r
			classNamePtr = nil
		} else {
			r, qualSuffix := decodeMethodQualifier(afterOp)
			suffix = qualSuffix

			if qless, ok := strings.CutPrefix(r, "Q"); ok {
				var joined string
				remaining, joined, _, err = decodeNamespaces(qless, cfg, newBackrefTable(nil))
				if err != nil {
					return "", err
				}
				classNamePtr = &joined
			} else if tless, ok := strings.CutPrefix(r, "t"); ok {
				var rendered string
				remaining, rendered, _, err = decodeTemplate(tless, cfg, newBackrefTable(nil))
				if err != nil {
					return "", err
				}
				classNamePtr = &rendered
			} else {
				var className string
				remaining, className, err = decodeCustomName(r, "special method scope")
				if err != nil {
					return "", err
				}
				classNamePtr = &className
			}
		}
	}

	argList, err := decodeArgumentList(remaining, cfg, classNamePtr, newBackrefTable(nil))
	if err != nil {
		return "", err
	}

	if classNamePtr != nil {
		return *classNamePtr + "::" + methodName + "(" + argList + ")" + suffix, nil
	}
	return methodName + "(" + argList + ")" + suffix, nil
}

// fallbackAsFunctionOrMethod is reached when "__" was followed by something
// that doesn't parse as a constructor, type_info marker, template,
// namespace or known operator code. c++filt resolves this ambiguity by
// retrying the whole symbol as an ordinary free function or method, since
// an unrecognized two-or-three letter prefix is far more often the start
// of an unqualified identifier than a typo'd operator code.
func fallbackAsFunctionOrMethod(s, fullSym, op string, cfg *Config) (string, error) {
	if funcName, args, ok := split2(fullSym, "__F"); ok {
		return demangleFreeFunction(funcName, args, cfg)
	}
	if incompleteMethodName, classAndArgs, ok := split2RPrefix(s, "__", isMethodScopeStart); ok {
		methodName := fullSym[:len(incompleteMethodName)+2]
		return demangleMethod(methodName, classAndArgs, cfg)
	}
	return "", errInvalid("special method", "operator code", op)
}

func demangleFreeFunction(funcName, args string, cfg *Config) (string, error) {
	argList, err := decodeArgumentList(args, cfg, nil, newBackrefTable(nil))
	if err != nil {
		return "", err
	}
	return funcName + "(" + argList + ")", nil
}

func demangleMethod(methodName, classAndArgs string, cfg *Config) (string, error) {
	remaining, suffix := decodeMethodQualifier(classAndArgs)

	if templated, ok := strings.CutPrefix(remaining, "t"); ok {
		r, rendered, _, err := decodeTemplate(templated, cfg, newBackrefTable(nil))
		if err != nil {
			return "", err
		}
		return finishMethod(r, rendered, methodName, suffix, cfg)
	}
	if qless, ok := strings.CutPrefix(remaining, "Q"); ok {
		r, joined, _, err := decodeNamespaces(qless, cfg, newBackrefTable(nil))
		if err != nil {
			return "", err
		}
		return finishMethod(r, joined, methodName, suffix, cfg)
	}
	if withReturn, ok := strings.CutPrefix(remaining, "H"); ok {
		return demangleTemplatedMethod(withReturn, methodName, suffix, cfg)
	}

	r, className, err := decodeCustomName(remaining, "method scope")
	if err != nil {
		return "", err
	}
	return finishMethod(r, className, methodName, suffix, cfg)
}

func finishMethod(remaining, scope, methodName, suffix string, cfg *Config) (string, error) {
	argList, err := decodeArgumentList(remaining, cfg, &scope, newBackrefTable(nil))
	if err != nil {
		return "", err
	}
	return scope + "::" + methodName + "(" + argList + ")" + suffix, nil
}

// demangleTemplatedMethod decodes the H-form function template with an
// explicit return type: H<N><params>_<scope><args>_<ret>.
func demangleTemplatedMethod(s, methodName, suffix string, cfg *Config) (string, error) {
	remaining, params, scope, err := decodeTemplateWithReturn(s, cfg)
	if err != nil {
		return "", err
	}

	if scope == nil {
		if tless, ok := strings.CutPrefix(remaining, "t"); ok {
			r, rendered, _, terr := decodeTemplate(tless, cfg, newBackrefTable(nil))
			if terr != nil {
				return "", terr
			}
			remaining = r
			scope = &rendered
		}
	}

	argsRest, argTable, err := decodeArgumentListRaw(remaining, cfg, scope, params, false)
	if err != nil {
		return "", err
	}

	argsRestAfterUnderscore, ok := strings.CutPrefix(argsRest, "_")
	if !ok {
		return "", &Error{Kind: ErrMalformedTemplateReturn, Offending: argsRest}
	}

	retRest, retVal, err := decodeArgument(argsRestAfterUnderscore, cfg, argTable, newBackrefTable(nil))
	if err != nil {
		return "", err
	}
	if retRest != "" {
		return "", errTrailing("templated method return type", retRest)
	}

	argList := argTable.join()
	if argList == "" {
		argList = "void"
	}

	templateParams := params.join()
	var templateSuffix string
	if strings.HasSuffix(templateParams, ">") {
		templateSuffix = "<" + templateParams + " >"
	} else {
		templateSuffix = "<" + templateParams + ">"
	}

	qualifiedName := methodName
	if scope != nil {
		qualifiedName = *scope + "::" + methodName
	}
	call := qualifiedName + templateSuffix + "(" + argList + ")"

	if cfg.FixArrayInReturnPosition && retVal.array != nil {
		return retVal.array.elem + " " + retVal.array.preBrackets + call + retVal.array.brackets + suffix, nil
	}
	return retVal.text + " " + call + suffix, nil
}

func demangleNamespacedFunction(funcName, s string, cfg *Config) (string, error) {
	remaining, joined, _, err := decodeNamespaces(s, cfg, newBackrefTable(nil))
	if err != nil {
		return "", err
	}
	argList, err := decodeArgumentList(remaining, cfg, &joined, newBackrefTable(nil))
	if err != nil {
		return "", err
	}
	return joined + "::" + funcName + "(" + argList + ")", nil
}

func demangleTypeInfoFunction(s string, cfg *Config) (string, error) {
	remaining, argv, err := decodeArgument(s, cfg, newBackrefTable(nil), newBackrefTable(nil))
	if err != nil {
		return "", err
	}
	if argv.kind != argPlain {
		return "", errInvalid("type_info function", "type", s)
	}
	if remaining != "" {
		return "", errTrailing("type_info function", remaining)
	}
	return argv.text + " type_info function", nil
}

func demangleTypeInfoNode(s string, cfg *Config) (string, error) {
	remaining, argv, err := decodeArgument(s, cfg, newBackrefTable(nil), newBackrefTable(nil))
	if err != nil {
		return "", err
	}
	if argv.kind != argPlain {
		return "", errInvalid("type_info node", "type", s)
	}
	if remaining != "" {
		return "", errTrailing("type_info node", remaining)
	}
	return argv.text + " type_info node", nil
}

func demangleVirtualTable(s string, cfg *Config) (string, error) {
	var parts []string
	remaining := s
	for remaining != "" {
		r, ok := strings.CutPrefix(remaining, "$")
		if !ok {
			return "", errMissing("virtual table", "$ separator", remaining)
		}

		var piece string
		var err error
		switch {
		case strings.HasPrefix(r, "t"):
			r, piece, _, err = decodeTemplate(r[1:], cfg, newBackrefTable(nil))
		case strings.HasPrefix(r, "Q"):
			r, piece, _, err = decodeNamespaces(r[1:], cfg, newBackrefTable(nil))
		default:
			r, piece, err = decodeCustomName(r, "virtual table")
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, piece)
		remaining = r
	}
	return strings.Join(parts, "::") + " virtual table", nil
}

func demangleNamespacedGlobal(s, name string, cfg *Config) (string, error) {
	remaining, ok := strings.CutPrefix(s, "_")
	if !ok {
		return "", errInvalid("namespaced global", "", s)
	}

	var scope string
	var r string
	var err error
	switch {
	case strings.HasPrefix(remaining, "t"):
		r, scope, _, err = decodeTemplate(remaining[1:], cfg, newBackrefTable(nil))
	case strings.HasPrefix(remaining, "Q"):
		r, scope, _, err = decodeNamespaces(remaining[1:], cfg, newBackrefTable(nil))
	default:
		r, scope, err = decodeCustomName(remaining, "namespaced global")
	}
	if err != nil {
		return "", err
	}
	if r != "" {
		return "", errTrailing("namespaced global", r)
	}
	return scope + "::" + name, nil
}

func demangleGlobalSymKeyed(s, fullSym string, cfg *Config) (string, error) {
	var remaining, which string
	isConstructor := false

	switch {
	case strings.HasPrefix(s, "I$"):
		remaining, which, isConstructor = s[2:], "constructors", true
	case strings.HasPrefix(s, "D$"):
		remaining, which = s[2:], "destructors"
	case strings.HasPrefix(s, "F$"):
		if !cfg.DemangleGlobalKeyedFrames {
			return demangleImpl(fullSym, cfg, false)
		}
		remaining, which = s[2:], "frames"
	default:
		return "", errInvalid("global keyed symbol", "", s)
	}

	demangled, err := demangleImpl(remaining, cfg, false)
	if cfg.PreserveNamespacedGlobalConstructorBug && isConstructor && strings.HasPrefix(remaining, "__Q") {
		return demangled, err
	}

	actual := remaining
	if err == nil {
		actual = demangled
	}
	return "global " + which + " keyed to " + actual, nil
}
