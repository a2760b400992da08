package oslquery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vk/nodedesc/internal/ctxlog"
)

// ErrToolNotFound is returned when the introspection command is not
// installed in PATH.
var ErrToolNotFound = errors.New("osl introspection tool not found")

// DefaultCommand is the introspection command used when none is
// configured.
var DefaultCommand = []string{"oslinfo-json"}

// Tool runs an external introspection command once per query.
type Tool struct {
	command []string
}

// NewTool returns a Tool invoking the given argv. A nil or empty argv
// selects DefaultCommand.
func NewTool(command []string) *Tool {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &Tool{command: command}
}

// Query runs the tool against path and decodes its output.
func (t *Tool) Query(ctx context.Context, path string) (*Shader, error) {
	logger := ctxlog.FromContext(ctx)

	name := t.command[0]
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	args := append(append([]string{}, t.command[1:]...), path)
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running OSL introspection tool.", "command", name, "path", path)
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("introspecting %s: %w: %s", path, err, detail)
		}
		return nil, fmt.Errorf("introspecting %s: %w", path, err)
	}

	shader, err := Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("introspecting %s: %w", path, err)
	}
	return shader, nil
}
