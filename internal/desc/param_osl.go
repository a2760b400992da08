// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file builds a Param from one introspected OSL parameter record.
// Everything beyond name, type and default travels as metadata entries,
// keyed by name with the last duplicate winning.

package desc

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/oslquery"
	"github.com/vk/nodedesc/internal/pagepath"
	"github.com/vk/nodedesc/internal/value"
)

func parseOSLParam(ctx context.Context, rec oslquery.Param, opts *Options) (*Param, error) {
	cat := CategoryParam
	if rec.IsOutput {
		cat = CategoryOutput
	}
	p := newParam(cat)
	p.Name = rec.Name

	meta := ordered.New[oslquery.Metadatum]()
	for _, m := range rec.Metadata {
		meta.Set(m.Name, m)
	}

	if rec.IsStruct {
		p.StructName = rec.StructName
		p.Type = "struct"
	} else {
		p.Type = strings.Split(rec.Type, "[")[0]
	}
	if err := validateType(p.Name, p.Type); err != nil {
		return nil, err
	}

	switch {
	case rec.VarLenArray:
		p.Size = intPtr(-1)
	case rec.ArrayLen > 0:
		p.Size = intPtr(rec.ArrayLen)
	}

	p.Default = rec.Default

	if err := p.setOSLWidget(meta); err != nil {
		return nil, err
	}
	p.setOSLPage(ctx, meta)
	p.setOSLHelp(meta)
	p.setOSLCondVisOps(meta)
	p.setOSLOptionals(ctx, meta)

	p.finalize(opts.BuildCondVis)
	if opts.FinalizeParam != nil {
		opts.FinalizeParam(p)
	}
	return p, nil
}

// oslMetaString returns the named metadatum as a string, or def when it
// is absent or not string-typed.
func oslMetaString(meta *ordered.Map[oslquery.Metadatum], name, def string) string {
	m, ok := meta.Get(name)
	if !ok {
		return def
	}
	if s, ok := stringOf(m.Default); ok {
		return s
	}
	return def
}

func (p *Param) setOSLWidget(meta *ordered.Map[oslquery.Metadatum]) error {
	if raw := oslMetaString(meta, "options", ""); raw != "" {
		m := ordered.New[cty.Value]()
		for _, tok := range strings.Split(raw, "|") {
			if i := strings.LastIndex(tok, ":"); i >= 0 {
				m.Set(tok[:i], value.Eval(tok[i+1:]))
			} else {
				m.Set(tok, value.Eval(tok))
			}
		}
		p.Options = m
	}

	if raw := oslMetaString(meta, "presets", ""); raw != "" {
		m := ordered.New[cty.Value]()
		for _, tok := range strings.Split(raw, "|") {
			parts := strings.Split(tok, ":")
			if len(parts) != 2 {
				return &Error{Reason: fmt.Sprintf("param %q has a malformed preset %q", p.Name, tok)}
			}
			v, err := p.presetValue(parts[1])
			if err != nil {
				return err
			}
			m.Set(parts[0], v)
		}
		p.Presets = m
	}

	p.Widget = oslMetaString(meta, "widget", "default")
	return nil
}

func (p *Param) presetValue(raw string) (cty.Value, error) {
	if isFloatXType(p.Type) {
		v, err := parseFloatTuple(raw)
		if err != nil {
			return cty.NilVal, &Error{Reason: fmt.Sprintf(
				"param %q has a bad preset value %q", p.Name, raw)}
		}
		return v, nil
	}
	if p.Type == "string" {
		return cty.StringVal(raw), nil
	}
	return value.Eval(raw), nil
}

// setOSLPage normalizes the dotted page path. The open state is only
// looked at when a page is present at all.
func (p *Param) setOSLPage(ctx context.Context, meta *ordered.Map[oslquery.Metadatum]) {
	m, ok := meta.Get("page")
	if !ok {
		return
	}
	if s, ok := stringOf(m.Default); ok {
		p.Page = pagepath.FromDot(s)
	}
	open := false
	if om, ok := meta.Get("page_open"); ok {
		b, err := value.CoerceBool(om.Default)
		if err != nil {
			ctxlog.FromContext(ctx).Warn("Ignoring non-boolean page_open metadatum.",
				"param", p.Name)
		} else {
			open = b
		}
	}
	p.PageOpen = boolPtr(open)
}

func (p *Param) setOSLHelp(meta *ordered.Map[oslquery.Metadatum]) {
	help := oslMetaString(meta, "help", "")
	p.Help = strings.ReplaceAll(help, "  ", " ")
	p.formatHelp()
}

// setOSLCondVisOps collects visibility operands from metadata. Unlike
// the XML dialect, operand paths keep their full form here; reduction
// happens in the builder.
func (p *Param) setOSLCondVisOps(meta *ordered.Map[oslquery.Metadatum]) {
	for _, name := range meta.Keys() {
		if !visOpSuffix.MatchString(name) {
			continue
		}
		m, _ := meta.Get(name)
		if s, ok := stringOf(m.Default); ok {
			p.CondVisOps.Set(name, value.Eval(s))
		} else {
			p.CondVisOps.Set(name, m.Default)
		}
	}
}

func (p *Param) setOSLOptionals(ctx context.Context, meta *ordered.Map[oslquery.Metadatum]) {
	logger := ctxlog.FromContext(ctx)

	for _, attr := range optionalAttrs {
		m, ok := meta.Get(attr.name)
		if !ok {
			continue
		}
		if attr.boolean {
			b, err := value.CoerceBool(m.Default)
			if err != nil {
				logger.Warn("Ignoring non-boolean metadatum.",
					"param", p.Name, "metadatum", attr.name)
				continue
			}
			p.setBoolOptional(attr.name, b)
			continue
		}
		p.setOptional(attr.name, m.Default)
	}

	if p.Tag == "vstruct" {
		p.Vstruct = true
	}
}
