// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package desc

import (
	"context"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/fsutil"
	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/value"
	"github.com/vk/nodedesc/internal/xmldoc"
)

// parseArgs fills the description from an XML args file. Malformed XML
// leaves the description unpopulated instead of failing: shipping
// shader sets contain the occasional broken file and the library must
// load around it.
func (d *NodeDesc) parseArgs(ctx context.Context, path string, opts *Options) error {
	logger := ctxlog.FromContext(ctx)
	d.Name = fsutil.Stem(path)

	root, err := xmldoc.ParseFile(path)
	if err != nil {
		logger.Warn("XML parsing error.", "path", path, "error", err)
		return nil
	}
	d.parsed = root
	d.parsedKind = KindXML

	if err := d.setArgsNodeType(root, path); err != nil {
		return err
	}

	// A top-level help element documents the whole node. Later ones
	// override earlier ones.
	for _, child := range root.Children {
		if child.Name == "help" {
			d.Help = strings.TrimSpace(child.Text)
		}
	}

	// The render-time shader defaults to the node name; a metashader
	// element redirects it.
	d.RmanNodeType = d.Name
	if meta := root.Descendants("metashader"); len(meta) > 0 {
		d.RmanNodeType = meta[0].AttrOr("shader", "")
	}

	for _, elem := range root.Descendants("param") {
		p, err := parseXMLParam(ctx, elem, CategoryParam, opts)
		if err != nil {
			return err
		}
		d.Params = append(d.Params, p)
		d.markIfTextured(ctx, p)
	}
	for _, elem := range root.Descendants("output") {
		p, err := parseXMLParam(ctx, elem, CategoryOutput, opts)
		if err != nil {
			return err
		}
		d.Outputs = append(d.Outputs, p)
	}
	for _, elem := range root.Descendants("attribute") {
		p, err := parseXMLParam(ctx, elem, CategoryAttribute, opts)
		if err != nil {
			return err
		}
		d.Attributes = append(d.Attributes, p)
	}

	d.collectArgsPageVis(ctx, root, opts)
	return nil
}

// setArgsNodeType reads the node type from the first tag element under
// the first shaderType element. Some files spell it typeTag instead.
func (d *NodeDesc) setArgsNodeType(root *xmldoc.Node, path string) error {
	elems := root.Descendants("shaderType")
	if len(elems) == 0 {
		elems = root.Descendants("typeTag")
	}
	if len(elems) == 0 {
		return &Error{Path: path, Reason: "no shaderType element"}
	}
	tags := elems[0].Descendants("tag")
	if len(tags) == 0 {
		return &Error{Path: path, Reason: "no tag element in shaderType"}
	}
	d.NodeType = tags[0].AttrOr("value", "")
	return nil
}

// collectArgsPageVis gathers conditional visibility declared on page
// elements. Pages carry their operands as attributes rather than a
// nested table.
func (d *NodeDesc) collectArgsPageVis(ctx context.Context, root *xmldoc.Node, opts *Options) {
	if opts.BuildCondVis == nil {
		return
	}
	logger := ctxlog.FromContext(ctx)
	for _, page := range root.Descendants("page") {
		op, ok := page.Attr("conditionalVisOp")
		if !ok {
			continue
		}
		ops := ordered.New[cty.Value]()
		ops.Set("conditionalVisOp", cty.StringVal(op))
		ops.Set("conditionalVisPath", cty.StringVal(page.AttrOr("conditionalVisPath", "")))
		ops.Set("conditionalVisValue", value.Eval(page.AttrOr("conditionalVisValue", "")))

		vis := &PageVis{Ops: ops, Triggers: opts.BuildCondVis(ops)}
		name := page.AttrOr("name", "")
		d.PageVis.Set(name, vis)
		d.pagesTriggers = append(d.pagesTriggers, vis.Triggers...)
		logger.Debug("Page visibility collected.",
			"node", d.Name, "page", name, "triggers", vis.Triggers)
	}
}
