package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/nodedesc/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// CLI holds the command tree together with its flag bindings. Output
// streams are injected so tests can drive it with buffers.
type CLI struct {
	rootCmd *cobra.Command
	outW    io.Writer
	logW    io.Writer

	configPath string
	logLevel   string
	logFormat  string
	oslTool    string

	dumpFormat string
}

// New builds the full command tree. Command output goes to outW, logs
// and diagnostics to logW.
func New(outW, logW io.Writer) *CLI {
	c := &CLI{outW: outW, logW: logW}

	c.rootCmd = &cobra.Command{
		Use:   "nodedesc",
		Short: "Inspect shading node description files",
		Long: `nodedesc parses shading node descriptions (.args XML, compiled .oso
shaders, and JSON node files) into one normalized model and prints them
as readable dumps, ordered JSON, or summary tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.rootCmd.SetOut(outW)
	c.rootCmd.SetErr(logW)

	// Flag parse failures are usage errors, not runtime failures.
	c.rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	pf := c.rootCmd.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Path to a YAML config file.")
	pf.StringVar(&c.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn', or 'error'.")
	pf.StringVar(&c.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")
	pf.StringVar(&c.oslTool, "osl-tool", "", "Command line of the .oso introspection tool.")

	c.rootCmd.AddCommand(c.newDumpCmd(), c.newScanCmd())

	return c
}

// Execute parses args and runs the selected command.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Parse one description file and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(c.dumpFormat)
			if format != "text" && format != "json" {
				return &ExitError{
					Code:    2,
					Message: fmt.Sprintf("invalid format %q: must be 'text' or 'json'", c.dumpFormat),
				}
			}

			config, err := c.buildConfig()
			if err != nil {
				return err
			}

			a := app.NewApp(c.outW, c.logW, config)
			return a.Dump(cmd.Context(), args[0], format)
		},
	}
	cmd.Flags().StringVar(&c.dumpFormat, "format", "text", "Output format: 'text' or 'json'.")
	return cmd
}

func (c *CLI) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [path...]",
		Short: "Walk directories and summarize every description found",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := c.buildConfig()
			if err != nil {
				return err
			}

			a := app.NewApp(c.outW, c.logW, config)
			return a.Scan(cmd.Context(), args)
		},
	}
}

// buildConfig layers explicit flags over the optional config file.
// Unset flags leave the file values alone.
func (c *CLI) buildConfig() (*app.Config, error) {
	var cfg app.Config
	if c.configPath != "" {
		loaded, err := app.LoadConfigFile(c.configPath)
		if err != nil {
			return nil, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = loaded
	}

	if c.logLevel != "" {
		cfg.LogLevel = strings.ToLower(c.logLevel)
	}
	if c.logFormat != "" {
		cfg.LogFormat = strings.ToLower(c.logFormat)
	}
	if c.oslTool != "" {
		cfg.OSLTool = strings.Fields(c.oslTool)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI configuration assembled.", "config_file", c.configPath, "log_level", config.LogLevel, "log_format", config.LogFormat)

	return config, nil
}
