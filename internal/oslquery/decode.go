package oslquery

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Wire types mirroring the introspection tool's JSON output.
type shaderDoc struct {
	Name   string     `json:"name"`
	Type   string     `json:"type"`
	Params []paramDoc `json:"params"`
}

type paramDoc struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	IsOutput    bool           `json:"isoutput"`
	IsStruct    bool           `json:"isstruct"`
	StructName  string         `json:"structname"`
	VarLenArray bool           `json:"varlenarray"`
	ArrayLen    int            `json:"arraylen"`
	Default     json.RawMessage `json:"default"`
	Metadata    []metadatumDoc `json:"metadata"`
}

type metadatumDoc struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Default json.RawMessage `json:"default"`
}

// Decode parses one shader document produced by the introspection tool.
func Decode(r io.Reader) (*Shader, error) {
	var doc shaderDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding shader document: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("shader document has no name")
	}

	shader := &Shader{Name: doc.Name, Type: doc.Type}
	for _, p := range doc.Params {
		def, err := rawValue(p.Default)
		if err != nil {
			return nil, fmt.Errorf("param %q: bad default: %w", p.Name, err)
		}
		param := Param{
			Name:        p.Name,
			Type:        p.Type,
			IsOutput:    p.IsOutput,
			IsStruct:    p.IsStruct,
			StructName:  p.StructName,
			VarLenArray: p.VarLenArray,
			ArrayLen:    p.ArrayLen,
			Default:     def,
		}
		for _, m := range p.Metadata {
			md, err := rawValue(m.Default)
			if err != nil {
				return nil, fmt.Errorf("param %q: bad metadata %q: %w", p.Name, m.Name, err)
			}
			param.Metadata = append(param.Metadata, Metadatum{
				Name:    m.Name,
				Type:    m.Type,
				Default: md,
			})
		}
		shader.Params = append(shader.Params, param)
	}
	return shader, nil
}

// rawValue converts a raw JSON fragment into a value of its implied
// type. Absent fragments stay unset.
func rawValue(raw json.RawMessage) (cty.Value, error) {
	if len(raw) == 0 {
		return cty.NilVal, nil
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(raw, ty)
}
