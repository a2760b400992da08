// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package desc provides the normalized in-memory representation of a
// shading node description. Its core purpose is to turn the three
// on-disk description dialects into one strongly-typed model that the
// rest of the system can consume without caring where a node came from.
//
// # Core Concepts
//
// The model is built around two structures:
//
//   - NodeDesc: One shading node. It aggregates the node's identity
//     (name, node type, underlying shader), its documentation, and its
//     interface split into parameters, outputs and attributes.
//
//   - Param: One entry of that interface. Every source dialect is
//     normalized into the same set of fields: a validated data type, a
//     backfilled default, UI placement (page, widget, options), numeric
//     range hints and conditional visibility operands.
//
// Three front ends feed the model:
//
//  1. args files, an XML dialect, parsed through an explicit element
//     tree because parameters inherit state from their ancestor pages.
//
//  2. Compiled .oso shaders, introspected through an external tool and
//     described entirely by parameter metadata.
//
//  3. JSON node files, which carry the model almost verbatim but need
//     keyword filtering and page and option normalization.
//
// Why normalize this aggressively?
//
// Host integrations build user interfaces, scene graphs and export
// pipelines from these descriptions. Each downstream consumer would
// otherwise re-implement the same dialect quirks: C-style float
// suffixes, pipe-joined option strings, dotted versus slashed page
// paths, dynamic array markers. Normalizing once at the parsing
// boundary keeps every consumer dialect-free.
//
// Parsing is deliberately forgiving at the file level: a broken file
// costs a log line and an empty or skipped description, never the whole
// load. Inside a file it is strict: a parameter with an invalid type or
// an unreadable numeric default fails that file loudly, because a
// silently mistyped parameter corrupts every consumer downstream.
package desc
