// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the closed vocabularies of the model: node type
// tags, parameter categories, parameter data types and the per-type
// widths and stock defaults.
//
// Why closed vocabularies?
//
// Every consumer switches on these strings to pick sockets, widgets and
// export paths. An unknown data type would surface far from its source
// as a mis-built UI or a broken export, so membership is checked once,
// at parse time, and violations fail the whole file.

package desc

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Node type tags.
const (
	NodeTypeBxdf           = "bxdf"
	NodeTypeDisplacement   = "displacement"
	NodeTypeDisplayFilter  = "displayfilter"
	NodeTypeIntegrator     = "integrator"
	NodeTypeLight          = "light"
	NodeTypeLightFilter    = "lightfilter"
	NodeTypePattern        = "pattern"
	NodeTypeProjection     = "projection"
	NodeTypeSampleFilter   = "samplefilter"
	NodeTypeGlobals        = "rmanglobals"
	NodeTypeDisplayChannel = "displaychannel"
	NodeTypeDisplay        = "display"
)

// oslToNodeType maps an OSL shader type to the node type it registers
// as. OSL surface and volume shaders both surface as bxdf nodes.
var oslToNodeType = map[string]string{
	"surface":      NodeTypeBxdf,
	"displacement": NodeTypeDisplacement,
	"volume":       NodeTypeBxdf,
	"shader":       NodeTypePattern,
}

// Category tells which side of the node an entry lives on.
type Category string

const (
	CategoryParam     Category = "param"
	CategoryOutput    Category = "output"
	CategoryAttribute Category = "attr"
)

// validTypes is the closed set of parameter data types.
var validTypes = map[string]struct{}{
	"int":           {},
	"int2":          {},
	"float":         {},
	"float2":        {},
	"color":         {},
	"point":         {},
	"vector":        {},
	"normal":        {},
	"matrix":        {},
	"string":        {},
	"struct":        {},
	"lightfilter":   {},
	"message":       {},
	"displayfilter": {},
	"samplefilter":  {},
	"bxdf":          {},
}

// float3Types are the types whose scalar min and max attributes arrive
// as whitespace-separated component lists.
var float3Types = map[string]struct{}{
	"color":  {},
	"point":  {},
	"vector": {},
	"normal": {},
}

func isFloat3Type(typ string) bool {
	_, ok := float3Types[typ]
	return ok
}

// isFloatXType additionally admits matrix, for hint tables carrying
// matrix-typed entries.
func isFloatXType(typ string) bool {
	return isFloat3Type(typ) || typ == "matrix"
}

// validateType checks typ against the closed data type set.
func validateType(name, typ string) error {
	if _, ok := validTypes[typ]; !ok {
		return &Error{Reason: fmt.Sprintf("param %q has invalid type: %q", name, typ)}
	}
	return nil
}

// typeWidth returns how many scalar components one element of the given
// type spans inside a flat array default. Types with no fixed numeric
// width report zero.
func typeWidth(typ string) int {
	switch typ {
	case "int", "float":
		return 1
	case "int2", "float2":
		return 2
	case "color", "point", "vector", "normal":
		return 3
	case "matrix":
		return 16
	}
	return 0
}

// defaultValue returns the stock default for a type, used when a
// description leaves the default unset. Types without a stock default
// stay unset.
func defaultValue(typ string) cty.Value {
	switch typ {
	case "int":
		return cty.Zero
	case "float":
		return cty.NumberFloatVal(0)
	case "int2":
		return cty.TupleVal([]cty.Value{cty.Zero, cty.Zero})
	case "float2":
		zero := cty.NumberFloatVal(0)
		return cty.TupleVal([]cty.Value{zero, zero})
	case "color", "point", "vector", "normal":
		zero := cty.NumberFloatVal(0)
		return cty.TupleVal([]cty.Value{zero, zero, zero})
	case "string":
		return cty.StringVal("")
	case "matrix":
		one := cty.NumberFloatVal(1)
		zero := cty.NumberFloatVal(0)
		return cty.TupleVal([]cty.Value{
			one, zero, zero, zero,
			zero, one, zero, zero,
			zero, zero, one, zero,
			zero, zero, zero, one,
		})
	}
	return cty.NilVal
}
