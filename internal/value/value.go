// Package value implements best-effort literal coercion for node
// description sources.
//
// Shader description formats encode defaults, option values and
// visibility operands as free-form strings. Eval interprets such a
// string as a typed value when it looks like one and falls back to the
// raw string otherwise, so coercion never rejects an input. The
// companion helpers cover the narrower conversions the parsers need:
// booleans, C-style float literals and JSON trees.
package value

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// cfloat matches a complete C-style float literal carrying the 'f'
// suffix, e.g. "0.001f" or "-1.2e-3f".
var cfloat = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?f$`)

// StripCFloatSuffix removes the trailing 'f' from a C-style float
// literal. Tokens that are not such literals pass through unchanged.
func StripCFloatSuffix(tok string) string {
	if cfloat.MatchString(tok) {
		return tok[:len(tok)-1]
	}
	return tok
}

// CleanFloats applies StripCFloatSuffix to every whitespace-separated
// token of s. When no token carries the suffix the input is returned
// verbatim, so free-form text keeps its original spacing.
func CleanFloats(s string) string {
	toks := strings.Fields(s)
	changed := false
	for i, tok := range toks {
		stripped := StripCFloatSuffix(tok)
		if stripped != tok {
			toks[i] = stripped
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(toks, " ")
}

// ToBool converts a string to a bool. Integer strings convert by
// non-zero, and the literals "true" and "false" are recognized in any
// case. Anything else is an error.
func ToBool(s string) (bool, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n != 0, nil
	}
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("cannot interpret %q as a bool", s)
}

// CoerceBool converts a value to a bool: booleans as themselves,
// numbers by non-zero and strings via ToBool.
func CoerceBool(v cty.Value) (bool, error) {
	if v == cty.NilVal || v.IsNull() {
		return false, fmt.Errorf("cannot interpret null as a bool")
	}
	switch {
	case v.Type().Equals(cty.Bool):
		return v.True(), nil
	case v.Type().Equals(cty.Number):
		return v.AsBigFloat().Sign() != 0, nil
	case v.Type().Equals(cty.String):
		return ToBool(v.AsString())
	}
	return false, fmt.Errorf("cannot interpret %s as a bool", v.Type().FriendlyName())
}
