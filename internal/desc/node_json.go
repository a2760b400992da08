// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package desc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/jsonutil"
	"github.com/vk/nodedesc/internal/ordered"
	"github.com/vk/nodedesc/internal/value"
)

// mandatoryJSONKeys must all be present in a JSON node file.
var mandatoryJSONKeys = []string{"name", "node_type", "rman_node_type"}

// parseJSON fills the description from a JSON node file. Node files are
// recognized by their "$schema" field; schema definitions and other
// JSON config files are skipped with an IgnoreError so scans can count
// them separately from real failures.
func (d *NodeDesc) parseJSON(ctx context.Context, path string, opts *Options) error {
	logger := ctxlog.FromContext(ctx)

	tree, err := jsonutil.DecodeFile(path)
	if err != nil {
		return &Error{Path: path, Reason: err.Error()}
	}
	jdata, ok := tree.(*ordered.Map[any])
	if !ok {
		return &Error{Path: path, Reason: "top-level value is not an object"}
	}
	d.parsed = jdata
	d.parsedKind = KindJSON

	validator, _ := jdata.Get("$schema")
	validatorStr, _ := validator.(string)
	if validatorStr == "http://json-schema.org/schema#" {
		return &IgnoreError{Reason: fmt.Sprintf("schema file: %s", path)}
	}
	if !strings.Contains(validatorStr, "rmanNodeSchema") {
		warnInvalidJSON(ctx, validatorStr, path)
		return &IgnoreError{Reason: fmt.Sprintf("not a node file: %s", path)}
	}

	for _, key := range mandatoryJSONKeys {
		raw, ok := jdata.Get(key)
		if !ok {
			return &Error{Path: path, Reason: fmt.Sprintf("missing mandatory key: %q", key)}
		}
		s, ok := raw.(string)
		if !ok {
			return &Error{Path: path, Reason: fmt.Sprintf("key %q is not a string", key)}
		}
		switch key {
		case "name":
			d.Name = s
		case "node_type":
			d.NodeType = s
		case "rman_node_type":
			d.RmanNodeType = s
		}
	}

	for _, key := range jdata.Keys() {
		switch key {
		case "$schema", "name", "node_type", "rman_node_type", "params":
			continue
		}
		raw, _ := jdata.Get(key)
		d.Extras.Set(key, value.FromTree(raw))
	}

	rawParams, ok := jdata.Get("params")
	if !ok {
		return nil
	}
	list, ok := rawParams.([]any)
	if !ok {
		return &Error{Path: path, Reason: `"params" is not a list`}
	}
	for _, item := range list {
		entry, ok := item.(*ordered.Map[any])
		if !ok {
			err := &Error{Path: path, Reason: "param entry is not an object"}
			logger.Error("Failed to parse JSON param.", "path", path, "error", err)
			return err
		}
		p, err := parseJSONParam(ctx, entry, opts)
		if err != nil {
			logger.Error("Failed to parse JSON param.", "path", path, "error", err)
			return err
		}
		d.Params = append(d.Params, p)
		d.markIfTextured(ctx, p)
	}
	return nil
}

// warnInvalidJSON logs why a JSON file was skipped, with a targeted
// hint for the config file types that commonly end up in a nodes
// directory by mistake.
func warnInvalidJSON(ctx context.Context, validator, path string) {
	msg := fmt.Sprintf("unknown json file type: %q", validator)
	switch {
	case strings.Contains(validator, "aovsSchema"):
		msg = `aov files should be inside a "config" directory`
	case strings.Contains(validator, "rfmSchema"):
		msg = `rfm config files should be inside a "config" directory`
	case strings.Contains(validator, "menuSchema"):
		msg = `menu config files should be inside a "config" directory`
	case strings.Contains(validator, "shelfSchema"):
		msg = `shelf config files should be inside a "config" directory`
	case validator == "":
		switch filepath.Base(path) {
		case "extensions.json", "mayaTranslation.json", "syntaxDefinition.json":
			dir := filepath.Dir(path)
			if filepath.Base(dir) == "nodes" {
				dir = filepath.Dir(dir)
			}
			msg = fmt.Sprintf("this file should be inside %s", filepath.Join(dir, "config"))
		}
	}
	ctxlog.FromContext(ctx).Warn("Skipping non-node file.", "path", path, "reason", msg)
}
