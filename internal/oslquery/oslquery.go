// Package oslquery exposes the interface of compiled OSL shaders
// through an external introspection tool.
//
// The tool is a black box: it receives the path of a compiled .oso file
// and prints one JSON document describing the shader. Decoding is kept
// separate from execution so record handling stays testable without the
// tool installed.
package oslquery

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Metadatum is one metadata entry attached to a shader parameter.
type Metadatum struct {
	Name    string
	Type    string
	Default cty.Value
}

// Param is one introspected shader parameter record.
type Param struct {
	Name        string
	Type        string
	IsOutput    bool
	IsStruct    bool
	StructName  string
	VarLenArray bool
	ArrayLen    int
	Default     cty.Value
	Metadata    []Metadatum
}

// Shader is the introspected interface of one compiled shader.
type Shader struct {
	Name   string
	Type   string // surface, displacement, volume or shader
	Params []Param
}

// Querier introspects one compiled shader file.
type Querier interface {
	Query(ctx context.Context, path string) (*Shader, error)
}
