// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the NodeDesc aggregate and the Parse entry point
// that dispatches on the file extension, then runs the passes that need
// the whole parameter set: notes weeding, trigger collection and UI
// struct membership.

package desc

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/oslquery"
	"github.com/vk/nodedesc/internal/txpreset"
	"github.com/vk/nodedesc/internal/value"
)

// Kind identifies which dialect a description was parsed from.
type Kind string

const (
	KindXML  Kind = "xml"
	KindOSL  Kind = "oso"
	KindJSON Kind = "json"
)

// Options customizes parsing for a host integration. The zero value is
// usable: no visibility compilation, no per-parameter hook and the
// stock introspection tool.
type Options struct {
	// BuildCondVis compiles visibility operand maps. When nil, operands
	// are still collected but no triggers are derived.
	BuildCondVis CondVisBuilder

	// FinalizeParam runs on every parameter after its constructor
	// finishes, for host-side adjustments.
	FinalizeParam func(*Param)

	// OSL introspects compiled shaders. When nil, the external default
	// tool is used.
	OSL oslquery.Querier
}

func (o *Options) normalized() *Options {
	out := &Options{}
	if o != nil {
		*out = *o
	}
	if out.OSL == nil {
		out.OSL = oslquery.NewTool(nil)
	}
	return out
}

// PageVis holds the conditional visibility wiring of one UI page.
type PageVis struct {
	Ops      *ordered.Map[cty.Value]
	Triggers []string
}

// NodeDesc is the normalized description of one shading node.
type NodeDesc struct {
	Name         string
	NodeType     string
	RmanNodeType string
	Help         string

	Params     []*Param
	Outputs    []*Param
	Attributes []*Param

	// TexturedParams lists the parameters whose options mark them as
	// texture file inputs.
	TexturedParams []*Param

	// PageVis maps a page name to its visibility wiring.
	PageVis *ordered.Map[*PageVis]

	// TriggerParams is the deduplicated union of every page and
	// parameter trigger, in first-seen order.
	TriggerParams []string

	// UIStructs maps a UI struct name to its member parameter names;
	// UIStructMembership is the reverse lookup.
	UIStructs          *ordered.Map[[]string]
	UIStructMembership map[string]string

	// Extras keeps top-level JSON keys that have no dedicated field.
	Extras *ordered.Map[cty.Value]

	params     map[string]*Param
	outputs    map[string]*Param
	attributes map[string]*Param

	pagesTriggers []string
	parsed        any
	parsedKind    Kind
}

func newNodeDesc() *NodeDesc {
	return &NodeDesc{
		PageVis:            ordered.New[*PageVis](),
		UIStructs:          ordered.New[[]string](),
		UIStructMembership: make(map[string]string),
		Extras:             ordered.New[cty.Value](),
	}
}

// Parse reads the node description at path. The dialect is picked from
// the extension: .args, .oso or .json. Unknown extensions yield an
// empty description. A broken args file or a missing introspection tool
// also yields an empty description, with a logged warning; errors are
// reserved for files that are structurally node descriptions but
// invalid, and IsIgnore marks files that are deliberately skipped.
func Parse(ctx context.Context, path string, opts *Options) (*NodeDesc, error) {
	logger := ctxlog.FromContext(ctx)
	opts = opts.normalized()
	d := newNodeDesc()

	switch {
	case strings.HasSuffix(path, ".args"):
		if err := d.parseArgs(ctx, path, opts); err != nil {
			return nil, err
		}
	case strings.HasSuffix(path, ".oso"):
		if err := d.parseOSO(ctx, path, opts); err != nil {
			return nil, err
		}
	case strings.HasSuffix(path, ".json"):
		if err := d.parseJSON(ctx, path, opts); err != nil {
			return nil, err
		}
	default:
		logger.Debug("Unknown description extension.", "path", path)
	}

	d.weedNotes()
	d.collectCrossRefs()
	d.buildIndices()
	return d, nil
}

// weedNotes drops the free-form notes parameter some args files carry.
// It documents the file, not the node.
func (d *NodeDesc) weedNotes() {
	for i, p := range d.Params {
		if p.Name == "notes" && p.Type == "string" {
			d.Params = append(d.Params[:i], d.Params[i+1:]...)
			return
		}
	}
}

// collectCrossRefs runs the passes that need every parameter parsed:
// the union of trigger names, the per-parameter trigger marks and the
// UI struct membership tables.
func (d *NodeDesc) collectCrossRefs() {
	triggers := append([]string{}, d.pagesTriggers...)
	for _, p := range d.Params {
		triggers = append(triggers, p.TriggerParams...)
		if p.HasUIStruct() {
			members, _ := d.UIStructs.Get(p.UIStruct)
			d.UIStructs.Set(p.UIStruct, append(members, p.Name))
			d.UIStructMembership[p.Name] = p.UIStruct
		}
	}

	seen := make(map[string]struct{}, len(triggers))
	d.TriggerParams = d.TriggerParams[:0]
	for _, name := range triggers {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		d.TriggerParams = append(d.TriggerParams, name)
	}

	for _, p := range d.Params {
		if _, isTrigger := seen[p.Name]; isTrigger {
			p.CondVisTrigger = true
		}
	}
}

// buildIndices builds the by-name lookup tables. Later duplicates win,
// matching how consumers override earlier definitions.
func (d *NodeDesc) buildIndices() {
	d.params = make(map[string]*Param, len(d.Params))
	for _, p := range d.Params {
		d.params[p.Name] = p
	}
	d.outputs = make(map[string]*Param, len(d.Outputs))
	for _, p := range d.Outputs {
		d.outputs[p.Name] = p
	}
	d.attributes = make(map[string]*Param, len(d.Attributes))
	for _, p := range d.Attributes {
		d.attributes[p.Name] = p
	}
}

// ParamDesc returns the named input parameter, or nil.
func (d *NodeDesc) ParamDesc(name string) *Param {
	return d.params[name]
}

// OutputDesc returns the named output, or nil.
func (d *NodeDesc) OutputDesc(name string) *Param {
	return d.outputs[name]
}

// AttributeDesc returns the named attribute, or nil.
func (d *NodeDesc) AttributeDesc(name string) *Param {
	return d.attributes[name]
}

// IsUnique reports whether at most one instance of this node may exist
// in a scene. The flag arrives as a JSON extra.
func (d *NodeDesc) IsUnique() bool {
	v, ok := d.Extras.Get("unique")
	if !ok {
		return false
	}
	b, err := value.CoerceBool(v)
	return err == nil && b
}

// HelpURL builds the documentation URL for this node. An empty root
// selects the public documentation site. A root of the form
// "base|suffix" appends the suffix after the node name.
func (d *NodeDesc) HelpURL(version, root string) string {
	if root == "" {
		return fmt.Sprintf("https://rmanwiki.pixar.com/display/REN%s/%s", version, d.Name)
	}
	parts := strings.Split(root, "|")
	switch len(parts) {
	case 1:
		return fmt.Sprintf("%s/REN%s/%s", parts[0], version, d.Name)
	case 2:
		return fmt.Sprintf("%s/REN%s/%s%s", parts[0], version, d.Name, parts[1])
	}
	return fmt.Sprintf("https://rmanwiki.pixar.com/display/REN%s/%s", version, d.Name)
}

// ParsedData returns the raw parse tree the description was built from,
// for hosts that need dialect details the model does not keep.
func (d *NodeDesc) ParsedData() any {
	return d.parsed
}

// ParsedDataKind returns which dialect ParsedData holds.
func (d *NodeDesc) ParsedDataKind() Kind {
	return d.parsedKind
}

// ClearParsedData releases the raw parse tree.
func (d *NodeDesc) ClearParsedData() {
	d.parsed = nil
}

// markIfTextured records p as a texture input when its options carry a
// texture conversion preset key.
func (d *NodeDesc) markIfTextured(ctx context.Context, p *Param) {
	if p.Options == nil {
		return
	}
	for _, key := range p.Options.Keys() {
		if txpreset.IsKey(key) {
			d.TexturedParams = append(d.TexturedParams, p)
			ctxlog.FromContext(ctx).Debug("Textured param detected.",
				"node", d.Name, "param", p.Name, "preset", key, "known_presets", txpreset.Keys())
			return
		}
	}
}
