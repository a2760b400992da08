package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/nodedesc/internal/condvis"
	"github.com/vk/nodedesc/internal/ctxlog"
	"github.com/vk/nodedesc/internal/desc"
	"github.com/vk/nodedesc/internal/library"
	"github.com/vk/nodedesc/internal/oslquery"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	opts   *desc.Options
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger: command output
// goes to outW, log records to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	opts := &desc.Options{
		BuildCondVis: condvis.Triggers,
		OSL:          oslquery.NewTool(cfg.OSLTool),
	}
	return &App{outW: outW, logger: logger, config: cfg, opts: opts}
}

// Dump parses a single node description and renders it to the output
// writer, as ordered JSON or as the plain text block.
func (a *App) Dump(ctx context.Context, path, format string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Dumping node description.", "path", path, "format", format)

	d, err := desc.Parse(ctx, path, a.opts)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if format == "json" {
		enc, err := json.MarshalIndent(d.AsDict(), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		fmt.Fprintln(a.outW, string(enc))
		return nil
	}
	fmt.Fprintln(a.outW, d.String())
	return nil
}

// Scan loads every search path into a library and prints a per-node
// summary table followed by the load counters. When paths is empty the
// configured default paths are scanned.
func (a *App) Scan(ctx context.Context, paths []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if len(paths) == 0 {
		paths = a.config.Paths
	}
	if len(paths) == 0 {
		return fmt.Errorf("no search paths: pass them as arguments or set them in the config file")
	}

	lib, err := library.Load(ctx, paths, a.opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "%-28s %-14s %-6s %6s %7s %5s %8s\n",
		"NAME", "TYPE", "FORMAT", "PARAMS", "OUTPUTS", "ATTRS", "TEXTURED")
	for _, name := range lib.Names() {
		d, _ := lib.Get(name)
		fmt.Fprintf(a.outW, "%-28s %-14s %-6s %6d %7d %5d %8d\n",
			d.Name, d.NodeType, string(d.ParsedDataKind()),
			len(d.Params), len(d.Outputs), len(d.Attributes), len(d.TexturedParams))
	}

	s := lib.Stats()
	fmt.Fprintf(a.outW, "\n%d nodes (%d parsed, %d ignored, %d failed, %d skipped)\n",
		lib.Len(), s.Parsed, s.Ignored, s.Failed, s.Skipped)
	return nil
}
