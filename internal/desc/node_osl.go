// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package desc

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/nodedesc/internal/ctxlog"
)

// parseOSO fills the description from a compiled OSL shader, read
// through the configured introspection tool. A missing file or a
// failing tool leaves the description unpopulated with a logged
// warning, so one bad shader cannot take down a library scan.
func (d *NodeDesc) parseOSO(ctx context.Context, path string, opts *Options) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		logger.Warn("OSO not found.", "path", path)
		return nil
	}

	shader, err := opts.OSL.Query(ctx, path)
	if err != nil {
		logger.Warn("OSO introspection failed.", "path", path, "error", err)
		return nil
	}
	d.parsed = shader
	d.parsedKind = KindOSL

	d.Name = shader.Name
	d.RmanNodeType = shader.Name
	nodeType, ok := oslToNodeType[shader.Type]
	if !ok {
		return &Error{Path: path, Reason: fmt.Sprintf("unknown shader type: %q", shader.Type)}
	}
	d.NodeType = nodeType
	if d.NodeType != NodeTypePattern {
		logger.Warn("OSL shader type not supported by the renderer.",
			"name", d.Name, "node_type", d.NodeType)
	}

	for _, rec := range shader.Params {
		p, err := parseOSLParam(ctx, rec, opts)
		if err != nil {
			return err
		}
		// Struct members are reported as struct.member entries; the
		// struct param itself carries the description.
		if strings.Contains(p.Name, ".") {
			continue
		}
		switch p.Category {
		case CategoryParam:
			// Params with lockgeom off are driven by geometry and
			// never shown as inputs.
			if p.Lockgeom == nil || *p.Lockgeom {
				d.Params = append(d.Params, p)
				d.markIfTextured(ctx, p)
			}
		case CategoryOutput:
			d.Outputs = append(d.Outputs, p)
		}
	}
	return nil
}
