// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Dict and string renderings of the model, used by dump tooling and by
// tests comparing parsed descriptions against golden data.

package desc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/nodedesc/internal/ordered"
)

// AsDict returns the parameter as an ordered, JSON-marshalable map.
// Identity fields come first in a fixed order; every other populated
// field follows sorted by key, under the key names used by the JSON
// dialect.
func (p *Param) AsDict() *ordered.Map[any] {
	out := ordered.New[any]()
	out.Set("name", p.Name)
	out.Set("type", p.Type)
	out.Set("category", string(p.Category))
	out.Set("default", ctyToAny(p.Default))
	if p.Size != nil {
		out.Set("size", *p.Size)
	} else {
		out.Set("size", nil)
	}

	tail := map[string]any{
		"conditionalVisOps":     valueMapToAny(p.CondVisOps),
		"conditionalVisTrigger": p.CondVisTrigger,
		"trigger_params":        stringsOrEmpty(p.TriggerParams),
		"has_ui_struct":         p.HasUIStruct(),
	}
	if p.Help != "" {
		tail["help"] = p.Help
	}
	if p.Widget != "" {
		tail["widget"] = p.Widget
	}
	if p.Page != "" {
		tail["page"] = p.Page
	}
	if p.PageOpen != nil {
		tail["page_open"] = *p.PageOpen
	}
	if p.Min != cty.NilVal {
		tail["min"] = ctyToAny(p.Min)
	}
	if p.Max != cty.NilVal {
		tail["max"] = ctyToAny(p.Max)
	}
	if p.SliderMin != cty.NilVal {
		tail["slidermin"] = ctyToAny(p.SliderMin)
	}
	if p.SliderMax != cty.NilVal {
		tail["slidermax"] = ctyToAny(p.SliderMax)
	}
	if p.Slider != cty.NilVal {
		tail["slider"] = ctyToAny(p.Slider)
	}
	if p.Connectable != nil {
		tail["connectable"] = *p.Connectable
	}
	if p.Hidden != nil {
		tail["hidden"] = *p.Hidden
	}
	if p.ReadOnly != nil {
		tail["readOnly"] = *p.ReadOnly
	}
	if p.Editable != nil {
		tail["editable"] = *p.Editable
	}
	if p.Lockgeom != nil {
		tail["lockgeom"] = *p.Lockgeom
	}
	if p.FilmlookVis != nil {
		tail["color_enableFilmlookVis"] = *p.FilmlookVis
	}
	if p.Tag != "" {
		tail["tag"] = p.Tag
	}
	if p.UIStruct != "" {
		tail["uiStruct"] = p.UIStruct
	}
	if p.StructName != "" {
		tail["struct_name"] = p.StructName
	}
	if p.Vstruct {
		tail["vstruct"] = true
	}
	if p.Options != nil {
		tail["options"] = valueMapToAny(p.Options)
	}
	if p.Presets != nil {
		tail["presets"] = valueMapToAny(p.Presets)
	}
	if p.Hints != nil {
		for _, name := range p.Hints.Keys() {
			m, _ := p.Hints.Get(name)
			tail[name] = valueMapToAny(m)
		}
	}
	for _, name := range p.Extra.Keys() {
		v, _ := p.Extra.Get(name)
		tail[name] = ctyToAny(v)
	}

	keys := make([]string, 0, len(tail))
	for k := range tail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Set(k, tail[k])
	}
	return out
}

// String renders the parameter one field per line for debug dumps.
func (p *Param) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Param: %s\n", p.Name)
	dict := p.AsDict()
	for _, key := range dict.Keys() {
		v, _ := dict.Get(key)
		enc, err := json.Marshal(v)
		if err != nil {
			enc = []byte(fmt.Sprintf("%q", fmt.Sprint(v)))
		}
		fmt.Fprintf(&b, "  | %s: %s\n", key, enc)
	}
	return b.String()
}

// AsDict returns the whole description as an ordered, JSON-marshalable
// map, with params, outputs and attributes keyed by name.
func (d *NodeDesc) AsDict() *ordered.Map[any] {
	out := ordered.New[any]()
	out.Set("name", d.Name)
	out.Set("node_type", d.NodeType)
	out.Set("rman_node_type", d.RmanNodeType)
	if d.Help != "" {
		out.Set("help", d.Help)
	} else {
		out.Set("help", nil)
	}

	inputs := ordered.New[any]()
	for _, p := range d.Params {
		inputs.Set(p.Name, p.AsDict())
	}
	out.Set("inputs", inputs)

	outputs := ordered.New[any]()
	for _, p := range d.Outputs {
		outputs.Set(p.Name, p.AsDict())
	}
	out.Set("outputs", outputs)

	attributes := ordered.New[any]()
	for _, p := range d.Attributes {
		attributes.Set(p.Name, p.AsDict())
	}
	out.Set("attributes", attributes)
	return out
}

// String renders the whole description in a human-readable block.
func (d *NodeDesc) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ShadingNode: %s ------------------------------\n", d.Name)
	fmt.Fprintf(&b, "node_type: %s\n", d.NodeType)
	fmt.Fprintf(&b, "rman_node_type: %s\n", d.RmanNodeType)
	if d.Help != "" {
		fmt.Fprintf(&b, "help: %s\n", d.Help)
	}
	b.WriteString("\nINPUTS:\n")
	for _, p := range d.Params {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	b.WriteString("\nOUTPUTS:\n")
	for _, p := range d.Outputs {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	b.WriteString("\nATTRIBUTES:\n")
	for _, p := range d.Attributes {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	b.WriteString(strings.Repeat("-", 79))
	return b.String()
}

// ctyToAny converts a value into something encoding/json renders as the
// bare JSON form. Unset and null values both map to nil, which also
// keeps dynamically typed nulls out of the cty JSON encoder.
func ctyToAny(v cty.Value) any {
	if v == cty.NilVal || v.IsNull() {
		return nil
	}
	return ctyjson.SimpleJSONValue{Value: v}
}

func valueMapToAny(m *ordered.Map[cty.Value]) *ordered.Map[any] {
	out := ordered.New[any]()
	if m == nil {
		return out
	}
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		out.Set(key, ctyToAny(v))
	}
	return out
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
