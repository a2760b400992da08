package value

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Eval interprets a raw source string as a literal value: integers,
// floats, the capitalized booleans "True" and "False", "None", quoted
// strings, and tuple forms such as "(0, 0, 0)", "[1, 2]" or the bare
// "0,0,0". A string that does not parse as any of these comes back as a
// plain string value, so Eval never fails.
func Eval(raw string) cty.Value {
	if v, ok := tryEval(strings.TrimSpace(raw)); ok {
		return v
	}
	return cty.StringVal(raw)
}

func tryEval(s string) (cty.Value, bool) {
	if s == "" {
		return cty.NilVal, false
	}
	switch s {
	case "True":
		return cty.True, true
	case "False":
		return cty.False, true
	case "None":
		return cty.NullVal(cty.DynamicPseudoType), true
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return cty.NumberIntVal(n), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return cty.NumberFloatVal(f), true
	}
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			inner := s[1 : len(s)-1]
			if !strings.ContainsAny(inner, `'"`) {
				return cty.StringVal(inner), true
			}
			// quotes inside: may be a comma list of quoted strings
		}
	}
	return tryEvalSequence(s)
}

// tryEvalSequence handles "(...)", "[...]" and bare comma lists.
// Brackets always denote a sequence; parentheses only group unless a
// comma makes them a tuple. Any element that fails to parse fails the
// whole sequence.
func tryEvalSequence(s string) (cty.Value, bool) {
	inner := s
	paren, bracket := false, false
	if len(s) >= 2 {
		switch {
		case s[0] == '(' && s[len(s)-1] == ')':
			inner = s[1 : len(s)-1]
			paren = true
		case s[0] == '[' && s[len(s)-1] == ']':
			inner = s[1 : len(s)-1]
			bracket = true
		}
	}
	if (paren || bracket) && strings.TrimSpace(inner) == "" {
		return cty.EmptyTupleVal, true
	}
	parts, balanced := splitTopLevel(inner)
	if !balanced {
		return cty.NilVal, false
	}
	hasComma := len(parts) > 1
	if !paren && !bracket && !hasComma {
		return cty.NilVal, false
	}
	if paren && !hasComma {
		// parentheses around a single value are plain grouping
		return tryEval(strings.TrimSpace(inner))
	}
	var elems []cty.Value
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			if i == len(parts)-1 {
				continue // trailing comma
			}
			return cty.NilVal, false
		}
		v, ok := tryEval(part)
		if !ok {
			return cty.NilVal, false
		}
		elems = append(elems, v)
	}
	if len(elems) == 0 {
		if bracket || paren {
			return cty.EmptyTupleVal, true
		}
		return cty.NilVal, false
	}
	return cty.TupleVal(elems), true
}

// splitTopLevel splits s on commas that sit outside any bracket or
// quote nesting. It reports false when the nesting is unbalanced. An
// input without commas yields a single part.
func splitTopLevel(s string) ([]string, bool) {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 || quote != 0 {
		return nil, false
	}
	parts = append(parts, s[start:])
	return parts, true
}
