// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Param structure shared by all three source
// dialects, plus the finalize step every freshly parsed parameter runs
// through.
//
// Why one Param for three dialects?
//
// The dialects disagree on syntax, not on meaning. A color's default is
// "0.5 0.5 0.5" in an args file, [0.5, 0.5, 0.5] in JSON and a typed
// array in an OSL record, yet consumers need exactly one shape. Each
// dialect gets its own constructor that deals with its quirks and
// nothing else; everything downstream of the constructors is shared.

package desc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ordered"
)

// CondVisBuilder compiles a conditional visibility operand map. A host
// may rewrite the map in place; the return value lists the parameter
// names whose edits must re-run visibility evaluation.
type CondVisBuilder func(ops *ordered.Map[cty.Value]) []string

// visOpSuffix matches the attribute names that carry conditional
// visibility operands.
var visOpSuffix = regexp.MustCompile(`.+(Left|Right|Op|Path|Value)$`)

// Param is one entry of a node's interface: an input parameter, an
// output or a render attribute, depending on Category.
type Param struct {
	Name     string
	Type     string
	Category Category

	// Default is the parameter's default value. Unset means the type
	// has no stock default either.
	Default cty.Value

	// Size is nil for scalars. A negative size marks a dynamic array, a
	// non-negative one a fixed-length array.
	Size *int

	Widget   string
	Page     string
	PageOpen *bool
	Help     string

	Min       cty.Value
	Max       cty.Value
	SliderMin cty.Value
	SliderMax cty.Value
	Slider    cty.Value

	Connectable *bool
	Hidden      *bool
	ReadOnly    *bool
	Editable    *bool
	Lockgeom    *bool
	FilmlookVis *bool

	Tag        string
	UIStruct   string
	StructName string
	Vstruct    bool

	Options    *ordered.Map[cty.Value]
	Presets    *ordered.Map[cty.Value]
	CondVisOps *ordered.Map[cty.Value]

	// Hints holds named hint tables that are not options, presets or
	// visibility operands.
	Hints *ordered.Map[*ordered.Map[cty.Value]]

	// Extra holds recognized attributes without a dedicated field, and
	// unknown JSON keywords.
	Extra *ordered.Map[cty.Value]

	// TriggerParams lists the parameters whose edits re-run this
	// parameter's visibility expression.
	TriggerParams []string

	// CondVisTrigger marks a parameter that appears in some other
	// parameter's or page's trigger list.
	CondVisTrigger bool
}

func newParam(cat Category) *Param {
	return &Param{
		Category:   cat,
		CondVisOps: ordered.New[cty.Value](),
		Extra:      ordered.New[cty.Value](),
	}
}

// IsArray reports whether the parameter is array-typed.
func (p *Param) IsArray() bool {
	return p.Size != nil
}

// IsDynamicArray reports whether the parameter is an array that grows
// and shrinks at edit time.
func (p *Param) IsDynamicArray() bool {
	return p.Size != nil && *p.Size < 0
}

// HasUIStruct reports whether the parameter belongs to a named UI
// struct.
func (p *Param) HasUIStruct() bool {
	return p.UIStruct != ""
}

// GetHelp returns the parameter's help text, or a minimal "type name"
// line when the source carried none.
func (p *Param) GetHelp() string {
	if p.Help != "" {
		return p.Help
	}
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

// formatHelp appends the "name (type)" suffix to the help text, once.
func (p *Param) formatHelp() {
	suffix := fmt.Sprintf("%s (%s)", p.Name, p.Type)
	if strings.HasSuffix(p.Help, suffix) {
		return
	}
	if p.Help != "" {
		p.Help += "<br><br>"
	}
	p.Help += suffix
}

// finalize backfills the default, infers missing slider bounds for
// numeric scalars and hands the visibility operands to the builder.
// Every constructor calls it exactly once, after its own fields are in
// place.
func (p *Param) finalize(build CondVisBuilder) {
	if p.Default == cty.NilVal {
		p.Default = defaultValue(p.Type)
	}

	if p.Type == "float" || p.Type == "int" {
		if p.Min != cty.NilVal {
			if p.Max == cty.NilVal && p.SliderMax == cty.NilVal {
				p.SliderMax = softBound(p.Default, 1.0, true)
			}
		} else if p.Slider != cty.NilVal {
			if p.SliderMin == cty.NilVal {
				p.SliderMin = softBound(p.Default, 0.0, false)
			}
			if p.Max == cty.NilVal && p.SliderMax == cty.NilVal {
				p.SliderMax = softBound(p.Default, 1.0, true)
			}
		}
	}

	if p.CondVisOps.Len() > 0 && build != nil {
		p.TriggerParams = append(p.TriggerParams, build(p.CondVisOps)...)
	}
}

// softBound widens limit to cover the default, so an inferred slider
// range always contains the starting value.
func softBound(def cty.Value, limit float64, wantMax bool) cty.Value {
	bound := limit
	if def != cty.NilVal && !def.IsNull() && def.Type().Equals(cty.Number) {
		d, _ := def.AsBigFloat().Float64()
		if wantMax && d > bound {
			bound = d
		}
		if !wantMax && d < bound {
			bound = d
		}
	}
	return cty.NumberFloatVal(bound)
}

// stringOf unwraps a string-typed value.
func stringOf(v cty.Value) (string, bool) {
	if v == cty.NilVal || v.IsNull() || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }
