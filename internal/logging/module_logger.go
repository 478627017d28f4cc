package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-editor/pkg/interfaces"
)

const (
	rootModule     = "editor"
	loaderModule   = "editor.loader"
	timingModule   = "editor.timing"
	markdownModule = "editor.markdown"
	commandsModule = "editor.commands"
)

const (
	fieldSession = "session_id"
	fieldPlugin  = "plugin"
	fieldStage   = "stage"
)

// ModuleLogger returns a module-scoped logger, falling back to a no-op logger
// when no provider is supplied. The module name is attached as a structured
// field so entries can be filtered per component.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// EditorLogger returns the root editor logger.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// LoaderLogger returns the logger reserved for the plugin loader.
func LoaderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, loaderModule)
}

// TimingLogger returns the logger used by timing gates.
func TimingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, timingModule)
}

// MarkdownLogger returns the logger used by parser and serializer plugins.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithPluginContext enriches the logger with session, plugin, and stage
// fields. Empty values are skipped.
func WithPluginContext(logger interfaces.Logger, session, plugin, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(session); trimmed != "" {
		fields[fieldSession] = trimmed
	}
	if trimmed := strings.TrimSpace(plugin); trimmed != "" {
		fields[fieldPlugin] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
