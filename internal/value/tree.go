package value

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ordered"
)

// FromTree converts a decoded JSON tree (ordered maps, slices and
// scalars) into a value. Numbers decoded as json.Number keep their full
// precision.
func FromTree(tree any) cty.Value {
	switch t := tree.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case bool:
		return cty.BoolVal(t)
	case string:
		return cty.StringVal(t)
	case json.Number:
		if v, err := cty.ParseNumberVal(string(t)); err == nil {
			return v
		}
		return cty.StringVal(string(t))
	case float64:
		return cty.NumberFloatVal(t)
	case int:
		return cty.NumberIntVal(int64(t))
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, len(t))
		for i, e := range t {
			elems[i] = FromTree(e)
		}
		return cty.TupleVal(elems)
	case *ordered.Map[any]:
		if t.Len() == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, t.Len())
		for _, k := range t.Keys() {
			v, _ := t.Get(k)
			attrs[k] = FromTree(v)
		}
		return cty.ObjectVal(attrs)
	}
	return cty.NullVal(cty.DynamicPseudoType)
}
