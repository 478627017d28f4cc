package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	editor "github.com/goliatone/go-editor"
	"github.com/goliatone/go-editor/internal/commands"
	"github.com/goliatone/go-editor/internal/logging"
	"github.com/goliatone/go-editor/pkg/interfaces"
)

// Options captures configuration for mdeditor bootstraps.
type Options struct {
	ConfigPath     string
	Presets        []string
	Extensions     []string
	DefaultValue   string
	Timeout        time.Duration
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps a created editor session and its command logger.
type Module struct {
	Editor         *editor.Editor
	Session        commands.Session
	Logger         interfaces.Logger
	CommandTimeout time.Duration
}

// BuildModule loads configuration, applies overrides, and runs Create on a
// new editor session.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg := editor.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := editor.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if len(opts.Presets) > 0 {
		cfg.Markdown.Presets = cloneStrings(opts.Presets)
	}
	if len(opts.Extensions) > 0 {
		cfg.Markdown.Extensions = append(cfg.Markdown.Extensions, opts.Extensions...)
	}
	if opts.Timeout > 0 {
		cfg.Bootstrap.Timeout = opts.Timeout
	}

	editorOpts := []editor.Option{editor.WithDefaultValue(opts.DefaultValue)}
	if opts.LoggerProvider != nil {
		editorOpts = append(editorOpts, editor.WithLoggerProvider(opts.LoggerProvider))
	}

	e, err := editor.New(cfg, editorOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise editor: %w", err)
	}
	if err := e.Create(ctx); err != nil {
		return nil, fmt.Errorf("create editor: %w", err)
	}

	return &Module{
		Editor:         e,
		Session:        e,
		Logger:         logging.WithFields(commands.CommandLogger(e.LoggerProvider(), "cli"), map[string]any{"session_id": e.SessionID()}),
		CommandTimeout: cfg.Commands.Timeout,
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
