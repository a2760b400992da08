// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package library loads directories of node descriptions into a
// name-indexed registry.
//
// A search path usually holds hundreds of files from different vendors,
// so one bad file must never abort the scan: fatal parse errors are
// logged and counted, deliberately skipped files are counted silently
// and descriptions that came back unpopulated are dropped with a debug
// line. Only a failing directory walk aborts the load.
package library

import (
	"context"
	"fmt"

	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/desc"
	"github.com/vk/nodedesc/internal/fsutil"
	"github.com/vk/nodedesc/internal/ordered"
)

// Extensions lists the recognized node description file suffixes.
var Extensions = []string{".args", ".oso", ".json"}

// Stats counts the per-file outcomes of one load.
type Stats struct {
	// Parsed counts files that produced a node description, including
	// ones later replaced by a duplicate name.
	Parsed int

	// Ignored counts files the parser deliberately skipped, such as
	// schema definitions and misplaced config files.
	Ignored int

	// Failed counts files that are structurally node descriptions but
	// invalid.
	Failed int

	// Skipped counts files whose description came back unpopulated,
	// such as unreadable args files.
	Skipped int
}

// Library is an ordered name-indexed set of node descriptions.
type Library struct {
	nodes *ordered.Map[*desc.NodeDesc]
	stats Stats
}

// Load scans every search path recursively and parses each recognized
// file. Later definitions of the same node name replace earlier ones,
// with a logged warning.
func Load(ctx context.Context, paths []string, opts *desc.Options) (*Library, error) {
	logger := ctxlog.FromContext(ctx)
	lib := &Library{nodes: ordered.New[*desc.NodeDesc]()}

	for _, root := range paths {
		files, err := fsutil.FindFilesByExtensions(root, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		for _, file := range files {
			lib.loadFile(ctx, file, opts)
		}
	}

	logger.Info("Node description library loaded.",
		"nodes", lib.nodes.Len(),
		"parsed", lib.stats.Parsed,
		"ignored", lib.stats.Ignored,
		"failed", lib.stats.Failed,
		"skipped", lib.stats.Skipped)
	return lib, nil
}

func (l *Library) loadFile(ctx context.Context, path string, opts *desc.Options) {
	logger := ctxlog.FromContext(ctx)

	d, err := desc.Parse(ctx, path, opts)
	switch {
	case desc.IsIgnore(err):
		l.stats.Ignored++
		return
	case err != nil:
		logger.Error("Failed to parse node description.", "path", path, "error", err)
		l.stats.Failed++
		return
	}
	if d.Name == "" {
		logger.Debug("Skipping unpopulated description.", "path", path)
		l.stats.Skipped++
		return
	}

	if l.nodes.Has(d.Name) {
		logger.Warn("Duplicate node name, keeping the later definition.",
			"name", d.Name, "path", path)
	}
	l.nodes.Set(d.Name, d)
	l.stats.Parsed++
}

// Get returns the named node description.
func (l *Library) Get(name string) (*desc.NodeDesc, bool) {
	return l.nodes.Get(name)
}

// Names returns every node name in first-seen order.
func (l *Library) Names() []string {
	return l.nodes.Keys()
}

// Len returns the number of distinct nodes.
func (l *Library) Len() int {
	return l.nodes.Len()
}

// Stats returns the per-file outcome counts of the load.
func (l *Library) Stats() Stats {
	return l.stats
}
