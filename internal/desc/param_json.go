// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file builds a Param from one JSON node file entry. JSON already
// carries typed values, so the work here is keyword filtering and the
// few normalizations the dialect still needs: slashed page paths,
// stringly options and lock operands folding into the visibility map.

package desc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/pagepath"
	"github.com/vk/nodedesc/internal/value"
)

// jsonKeywords is the recognized keyword set for JSON parameter
// entries. Unknown keywords are logged and kept anyway.
var jsonKeywords = map[string]struct{}{
	"URL":                   {},
	"buttonText":            {},
	"channelBox":            {},
	"conditionalVisOps":     {},
	"conditionalLockOps":    {},
	"connectable":           {},
	"default":               {},
	"digits":                {},
	"editable":              {},
	"help":                  {},
	"hidden":                {},
	"label":                 {},
	"match":                 {},
	"max":                   {},
	"min":                   {},
	"name":                  {},
	"options":               {},
	"page":                  {},
	"page_open":             {},
	"presets":               {},
	"primvar":               {},
	"riattr":                {},
	"riopt":                 {},
	"scriptText":            {},
	"shortname":             {},
	"size":                  {},
	"slidermax":             {},
	"slidermin":             {},
	"syntax":                {},
	"type":                  {},
	"units":                 {},
	"widget":                {},
	"_name":                 {},
	"conditionalVisTrigger": {},
	"trigger_params":        {},
	"has_ui_struct":         {},
	"build_condvis_func":    {},
	"uiStruct":              {},
	"do_not_display":        {},
	"panel":                 {},
	"inheritable":           {},
	"inherit_true_value":    {},
	"update_function_name":  {},
	"update_function":       {},
}

// jsonBoolKeys are the keys normalized into boolean fields.
var jsonBoolKeys = map[string]struct{}{
	"connectable":             {},
	"hidden":                  {},
	"editable":                {},
	"readOnly":                {},
	"lockgeom":                {},
	"color_enableFilmlookVis": {},
}

func parseJSONParam(ctx context.Context, entry *ordered.Map[any], opts *Options) (*Param, error) {
	logger := ctxlog.FromContext(ctx)
	p := newParam(CategoryParam)

	var lockOps *ordered.Map[cty.Value]
	var rawOptions any
	helpSet := false

	for _, key := range entry.Keys() {
		raw, _ := entry.Get(key)
		if _, known := jsonKeywords[key]; !known {
			logger.Warn("Unknown JSON keyword.", "keyword", key)
		}

		switch key {
		case "name", "_name":
			if s, ok := raw.(string); ok {
				p.Name = s
			}
		case "type":
			if s, ok := raw.(string); ok {
				p.Type = s
			}
		case "size":
			n, ok, err := treeInt(raw)
			if err != nil {
				return nil, &Error{Reason: fmt.Sprintf("param %q has a bad size: %v", p.Name, raw)}
			}
			if ok {
				p.Size = intPtr(n)
			}
		case "default":
			p.Default = value.FromTree(raw)
		case "help":
			if s, ok := raw.(string); ok {
				p.Help = s
				helpSet = true
			}
		case "page":
			if s, ok := raw.(string); ok {
				p.Page = s
			}
		case "page_open":
			if b, err := value.CoerceBool(value.FromTree(raw)); err == nil {
				p.PageOpen = boolPtr(b)
			} else {
				logger.Warn("Ignoring non-boolean keyword.", "keyword", key, "param", p.Name)
			}
		case "widget":
			if s, ok := raw.(string); ok {
				p.Widget = s
			}
		case "options":
			rawOptions = raw
		case "presets":
			p.Presets = treeToValueMap(raw)
		case "conditionalVisOps":
			if m := treeToValueMap(raw); m != nil {
				p.CondVisOps = m
			}
		case "conditionalLockOps":
			lockOps = treeToValueMap(raw)
		case "trigger_params":
			p.TriggerParams = treeStrings(raw)
		case "conditionalVisTrigger":
			if b, err := value.CoerceBool(value.FromTree(raw)); err == nil {
				p.CondVisTrigger = b
			} else {
				logger.Warn("Ignoring non-boolean keyword.", "keyword", key, "param", p.Name)
			}
		case "min":
			p.Min = value.FromTree(raw)
		case "max":
			p.Max = value.FromTree(raw)
		case "slidermin":
			p.SliderMin = value.FromTree(raw)
		case "slidermax":
			p.SliderMax = value.FromTree(raw)
		case "uiStruct":
			if s, ok := raw.(string); ok {
				p.UIStruct = s
			}
		case "has_ui_struct", "build_condvis_func":
			// derived and host-side state, never read from disk
		default:
			p.setJSONGeneric(ctx, key, raw)
		}
	}

	if p.Name == "" {
		return nil, &Error{Reason: "parameter entry has no name"}
	}
	if err := validateType(p.Name, p.Type); err != nil {
		return nil, err
	}

	if lockOps != nil {
		p.CondVisOps.Merge(lockOps)
	}
	if p.Page != "" {
		p.Page = pagepath.FromSlash(p.Page)
	}

	p.finalize(opts.BuildCondVis)

	if p.Size != nil && *p.Size > 0 {
		p.Default = broadcastDefault(p.Default, *p.Size)
	}
	p.setJSONOptions(rawOptions)
	if helpSet {
		p.formatHelp()
	}

	if opts.FinalizeParam != nil {
		opts.FinalizeParam(p)
	}
	return p, nil
}

// setJSONGeneric routes a keyword without dedicated JSON handling the
// same way the other dialects route optional attributes, so keys like
// slider or tag still land in their typed fields.
func (p *Param) setJSONGeneric(ctx context.Context, key string, raw any) {
	v := value.FromTree(raw)
	if _, isBool := jsonBoolKeys[key]; isBool {
		b, err := value.CoerceBool(v)
		if err != nil {
			ctxlog.FromContext(ctx).Warn("Ignoring non-boolean keyword.",
				"keyword", key, "param", p.Name)
			return
		}
		p.setBoolOptional(key, b)
		return
	}
	p.setOptional(key, v)
}

// setJSONOptions resolves the collected options keyword after finalize,
// mirroring where the dialect applies it. Strings are pipe-joined
// tables; objects and arrays arrive already structured.
func (p *Param) setJSONOptions(raw any) {
	switch t := raw.(type) {
	case nil:
		return
	case string:
		toks := strings.Split(t, "|")
		m := ordered.New[cty.Value]()
		if strings.Contains(toks[0], ":") {
			for _, tok := range toks {
				if i := strings.LastIndex(tok, ":"); i >= 0 {
					m.Set(tok[:i], value.Eval(tok[i+1:]))
				} else {
					m.Set(tok, cty.StringVal(tok))
				}
			}
		} else {
			for _, tok := range toks {
				m.Set(tok, cty.StringVal(tok))
			}
		}
		p.Options = m
	case []any:
		m := ordered.New[cty.Value]()
		for _, item := range t {
			if s, ok := item.(string); ok {
				m.Set(s, cty.StringVal(s))
			}
		}
		p.Options = m
	case *ordered.Map[any]:
		p.Options = treeToValueMap(t)
	}
}

// treeToValueMap converts a decoded JSON object into a value map. A
// non-object yields nil.
func treeToValueMap(raw any) *ordered.Map[cty.Value] {
	obj, ok := raw.(*ordered.Map[any])
	if !ok {
		return nil
	}
	m := ordered.New[cty.Value]()
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		m.Set(k, value.FromTree(v))
	}
	return m
}

// treeStrings keeps the string elements of a decoded JSON array.
func treeStrings(raw any) []string {
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// treeInt reads a decoded JSON number as an int. A JSON null reports
// absent without error.
func treeInt(raw any) (int, bool, error) {
	switch t := raw.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false, err
		}
		return int(n), true, nil
	case float64:
		return int(t), true, nil
	case int:
		return t, true, nil
	}
	return 0, false, fmt.Errorf("not a number: %v", raw)
}

// broadcastDefault expands a single-element array default to the
// declared fixed size.
func broadcastDefault(v cty.Value, size int) cty.Value {
	if v == cty.NilVal || v.IsNull() {
		return v
	}
	ty := v.Type()
	if !ty.IsTupleType() || v.LengthInt() != 1 {
		return v
	}
	elem := v.Index(cty.Zero)
	elems := make([]cty.Value, size)
	for i := range elems {
		elems[i] = elem
	}
	return cty.TupleVal(elems)
}
