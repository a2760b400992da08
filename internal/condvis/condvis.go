// Package condvis extracts trigger parameters from conditional
// visibility operand maps.
//
// Compiling the operands into an evaluatable expression is host
// territory: a DCC integration installs its own builder and feeds the
// result to whatever its UI layer evaluates. Triggers is the neutral
// default. It only collects the names of the parameters whose edits
// must re-run visibility evaluation, which is the part every host
// needs.
package condvis

import (
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ordered"
)

// Triggers collects the trailing path segment of every "...Path"
// operand. Operand paths address sibling parameters, so the trailing
// segment is the parameter name.
func Triggers(ops *ordered.Map[cty.Value]) []string {
	var out []string
	for _, key := range ops.Keys() {
		if !strings.HasSuffix(key, "Path") {
			continue
		}
		v, _ := ops.Get(key)
		if v == cty.NilVal || v.IsNull() || !v.Type().Equals(cty.String) {
			continue
		}
		name := v.AsString()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
