// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file builds a Param from one args file element. The XML dialect
// spreads a parameter over attributes, child elements and ancestor
// pages, and encodes every value as a string, so most of the work here
// is locating data and coercing it.

package desc

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/pagepath"
	"github.com/vk/nodedesc/internal/value"
	"github.com/vk/nodedesc/internal/xmldoc"
)

// helpRuns collapses a newline plus its indentation into a line break.
var helpRuns = regexp.MustCompile(`\n\s+`)

// optionalAttrs is the recognized optional attribute set shared by the
// XML and OSL dialects, in processing order. Boolean attributes run
// through bool coercion.
var optionalAttrs = []struct {
	name    string
	boolean bool
}{
	{name: "URL"},
	{name: "buttonText"},
	{name: "connectable", boolean: true},
	{name: "digits"},
	{name: "label"},
	{name: "match"},
	{name: "max"},
	{name: "min"},
	{name: "riattr"},
	{name: "riopt"},
	{name: "scriptText"},
	{name: "sensitivity"},
	{name: "slider"},
	{name: "slidermax"},
	{name: "slidermin"},
	{name: "syntax"},
	{name: "tag"},
	{name: "units"},
	{name: "vstructConditionalExpr"},
	{name: "vstructmember"},
	{name: "hidden", boolean: true},
	{name: "color_enableFilmlookVis", boolean: true},
	{name: "readOnly", boolean: true},
	{name: "editable", boolean: true},
	{name: "lockgeom", boolean: true},
	{name: "uiStruct"},
}

func parseXMLParam(ctx context.Context, elem *xmldoc.Node, cat Category, opts *Options) (*Param, error) {
	p := newParam(cat)
	p.Name = elem.AttrOr("name", "")
	p.Type = xmlParamType(elem)
	if err := validateType(p.Name, p.Type); err != nil {
		return nil, err
	}

	if err := p.setXMLSize(elem); err != nil {
		return nil, err
	}
	if err := p.setXMLDefault(elem); err != nil {
		return nil, err
	}
	if err := p.setXMLWidget(elem); err != nil {
		return nil, err
	}
	p.setXMLPage(elem)
	p.setXMLHelp(elem)
	p.setXMLCondVisOps(elem)
	if err := p.setXMLOptionals(ctx, elem); err != nil {
		return nil, err
	}

	p.finalize(opts.BuildCondVis)
	if opts.FinalizeParam != nil {
		opts.FinalizeParam(p)
	}
	return p, nil
}

// xmlParamType resolves the data type of an element. Parameters carry a
// type attribute; outputs declare their type through tag elements or a
// pipe-joined tag attribute, where the first token wins.
func xmlParamType(elem *xmldoc.Node) string {
	if v, ok := elem.Attr("type"); ok {
		return v
	}
	if tags := elem.Descendants("tags"); len(tags) > 0 {
		for _, tag := range tags[0].Descendants("tag") {
			if v, ok := tag.Attr("value"); ok {
				return v
			}
		}
		return ""
	}
	if v, ok := elem.Attr("tag"); ok {
		return strings.Split(v, "|")[0]
	}
	return ""
}

func (p *Param) setXMLSize(elem *xmldoc.Node) error {
	dyn, hasDyn := elem.Attr("isDynamicArray")
	arr, hasArr := elem.Attr("arraySize")
	switch {
	case hasDyn && dyn != "0":
		p.Size = intPtr(-1)
	case hasArr:
		n, err := strconv.Atoi(arr)
		if err != nil {
			return &Error{Reason: fmt.Sprintf("param %q has a bad arraySize: %q", p.Name, arr)}
		}
		p.Size = intPtr(n)
	}
	return nil
}

func (p *Param) setXMLDefault(elem *xmldoc.Node) error {
	if p.Type == "struct" {
		p.Default = cty.StringVal("")
		return nil
	}
	raw, ok := elem.Attr("default")
	if !ok {
		return nil
	}
	if p.Type == "string" {
		p.Default = cty.StringVal(raw)
		return nil
	}

	cleaned := value.CleanFloats(raw)
	if p.Size == nil {
		p.Default = value.Eval(strings.ReplaceAll(cleaned, " ", ","))
		return nil
	}

	toks := strings.Fields(cleaned)
	width := typeWidth(p.Type)
	if width < 1 {
		width = 1
	}
	isInt := p.Type == "int" || p.Type == "int2"

	var elems []cty.Value
	if width > 1 {
		if len(toks)%width != 0 {
			return &Error{Reason: fmt.Sprintf(
				"param %q default has %d components, not a multiple of %d", p.Name, len(toks), width)}
		}
		for i := 0; i < len(toks); i += width {
			group := make([]cty.Value, width)
			for j := 0; j < width; j++ {
				n, err := parseNumberToken(toks[i+j], isInt)
				if err != nil {
					return &Error{Reason: fmt.Sprintf("param %q has a bad default component %q", p.Name, toks[i+j])}
				}
				group[j] = n
			}
			elems = append(elems, cty.TupleVal(group))
		}
	} else {
		for _, tok := range toks {
			n, err := parseNumberToken(tok, isInt)
			if err != nil {
				return &Error{Reason: fmt.Sprintf("param %q has a bad default component %q", p.Name, tok)}
			}
			elems = append(elems, n)
		}
	}

	if len(elems) == 1 && *p.Size > 0 {
		first := elems[0]
		for len(elems) < *p.Size {
			elems = append(elems, first)
		}
	}
	if len(elems) == 0 {
		p.Default = cty.EmptyTupleVal
		return nil
	}
	p.Default = cty.TupleVal(elems)
	return nil
}

func parseNumberToken(tok string, isInt bool) (cty.Value, error) {
	if isInt {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.NumberIntVal(n), nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.NumberFloatVal(f), nil
}

func (p *Param) setXMLWidget(elem *xmldoc.Node) error {
	if raw, ok := elem.Attr("options"); ok {
		m := ordered.New[cty.Value]()
		if strings.Contains(raw, ":") {
			for _, tok := range strings.Split(raw, "|") {
				if i := strings.LastIndex(tok, ":"); i >= 0 {
					m.Set(tok[:i], cty.StringVal(tok[i+1:]))
				} else {
					m.Set(tok, cty.StringVal(tok))
				}
			}
		} else {
			for _, tok := range strings.Split(raw, "|") {
				m.Set(tok, cty.StringVal(tok))
			}
		}
		p.Options = m
	}

	for _, hint := range elem.Descendants("hintlist") {
		m := ordered.New[cty.Value]()
		for _, entry := range hint.AllDescendants() {
			raw := entry.AttrOr("value", "")
			v, err := hintValue(entry.Name, raw)
			if err != nil {
				return &Error{Reason: fmt.Sprintf("param %q has a bad hint value %q", p.Name, raw)}
			}
			m.Set(raw, v)
		}
		p.setHintTable(hint.AttrOr("name", ""), m)
	}

	for _, hint := range elem.Descendants("hintdict") {
		m := ordered.New[cty.Value]()
		for _, entry := range hint.AllDescendants() {
			raw := entry.AttrOr("value", "")
			v, err := hintValue(entry.Name, raw)
			if err != nil {
				return &Error{Reason: fmt.Sprintf("param %q has a bad hint value %q", p.Name, raw)}
			}
			m.Set(entry.AttrOr("name", ""), v)
		}
		p.setHintTable(hint.AttrOr("name", ""), m)
	}

	p.Widget = elem.AttrOr("widget", "default")
	return nil
}

// hintValue coerces one hint entry: float-tuple types parse their
// components, strings stay raw, everything else goes through Eval.
func hintValue(entryType, raw string) (cty.Value, error) {
	if isFloatXType(entryType) {
		return parseFloatTuple(raw)
	}
	if entryType == "string" {
		return cty.StringVal(raw), nil
	}
	return value.Eval(raw), nil
}

func parseFloatTuple(raw string) (cty.Value, error) {
	toks := strings.Fields(raw)
	if len(toks) == 0 {
		return cty.EmptyTupleVal, nil
	}
	elems := make([]cty.Value, len(toks))
	for i, tok := range toks {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return cty.NilVal, err
		}
		elems[i] = cty.NumberFloatVal(f)
	}
	return cty.TupleVal(elems), nil
}

// setHintTable routes a named hint table either to its dedicated field
// or into the generic hint map.
func (p *Param) setHintTable(name string, m *ordered.Map[cty.Value]) {
	switch name {
	case "options":
		p.Options = m
	case "presets":
		p.Presets = m
	case "conditionalVisOps":
		p.CondVisOps = m
	default:
		if p.Hints == nil {
			p.Hints = ordered.New[*ordered.Map[cty.Value]]()
		}
		p.Hints.Set(name, m)
	}
}

// setXMLPage assembles the page path from the enclosing page elements,
// innermost last in the source but outermost first in the path.
func (p *Param) setXMLPage(elem *xmldoc.Node) {
	parent := elem.Parent
	if parent == nil {
		return
	}
	if v, ok := parent.Attr("open"); ok {
		p.PageOpen = boolPtr(strings.EqualFold(v, "true"))
	}
	var segs []string
	for parent != nil && parent.Name == "page" {
		segs = append(segs, parent.AttrOr("name", ""))
		parent = parent.Parent
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	p.Page = pagepath.Join(segs...)
}

func (p *Param) setXMLHelp(elem *xmldoc.Node) {
	var text string
	found := false
	if nodes := elem.Descendants("help"); len(nodes) > 0 {
		text = nodes[0].Text
		found = true
	} else if v, ok := elem.Attr("help"); ok {
		text = v
		found = true
	}
	if !found {
		return
	}
	p.Help = helpRuns.ReplaceAllString(strings.TrimSpace(text), "<br>")
	p.formatHelp()
}

// setXMLCondVisOps collects visibility operands from the element's own
// attributes. Operand paths are reduced to their trailing segment right
// here; page-level operands keep full paths instead.
func (p *Param) setXMLCondVisOps(elem *xmldoc.Node) {
	for _, a := range elem.Attrs {
		if !visOpSuffix.MatchString(a.Name) {
			continue
		}
		v := a.Value
		if i := strings.LastIndex(v, "/"); i >= 0 {
			v = v[i+1:]
		}
		p.CondVisOps.Set(a.Name, value.Eval(v))
	}
}

func (p *Param) setXMLOptionals(ctx context.Context, elem *xmldoc.Node) error {
	logger := ctxlog.FromContext(ctx)

	for _, attr := range optionalAttrs {
		raw, ok := elem.Attr(attr.name)
		if !ok {
			continue
		}
		cleaned := value.CleanFloats(raw)

		var val cty.Value
		if p.Size == nil && isFloat3Type(p.Type) && isRangeAttr(attr.name) {
			tup, err := parseFloatTuple(cleaned)
			if err != nil {
				return &Error{Reason: fmt.Sprintf(
					"param %q has a bad %s value %q", p.Name, attr.name, raw)}
			}
			val = tup
		} else {
			val = value.Eval(cleaned)
		}

		if attr.boolean {
			b, err := value.CoerceBool(val)
			if err != nil {
				logger.Warn("Ignoring non-boolean attribute.",
					"param", p.Name, "attribute", attr.name, "value", raw)
				continue
			}
			p.setBoolOptional(attr.name, b)
			continue
		}
		p.setOptional(attr.name, val)
	}

	if tags := elem.Descendants("tags"); len(tags) > 0 {
		for _, entry := range tags[0].AllDescendants() {
			if v, ok := entry.Attr("value"); ok && v == "vstruct" {
				p.Vstruct = true
				break
			}
		}
	}

	// Array parameters cannot use the dynamicArray widget.
	if p.Widget == "dynamicArray" && p.IsArray() {
		p.Widget = "default"
	}
	return nil
}

// isRangeAttr matches min, max, slidermin and slidermax.
func isRangeAttr(name string) bool {
	return strings.Contains(name, "min") || strings.Contains(name, "max")
}

// setOptional stores a recognized non-boolean attribute.
func (p *Param) setOptional(name string, val cty.Value) {
	switch name {
	case "min":
		p.Min = val
	case "max":
		p.Max = val
	case "slidermin":
		p.SliderMin = val
	case "slidermax":
		p.SliderMax = val
	case "slider":
		p.Slider = val
	case "tag":
		if s, ok := stringOf(val); ok {
			p.Tag = s
		}
	case "uiStruct":
		if s, ok := stringOf(val); ok {
			p.UIStruct = s
		}
	default:
		p.Extra.Set(name, val)
	}
}

func (p *Param) setBoolOptional(name string, b bool) {
	switch name {
	case "connectable":
		p.Connectable = boolPtr(b)
	case "hidden":
		p.Hidden = boolPtr(b)
	case "readOnly":
		p.ReadOnly = boolPtr(b)
	case "editable":
		p.Editable = boolPtr(b)
	case "lockgeom":
		p.Lockgeom = boolPtr(b)
	case "color_enableFilmlookVis":
		p.FilmlookVis = boolPtr(b)
	}
}
