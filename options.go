package editor

import (
	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/plugin"
)

// Option customises an Editor during New.
type Option func(*Editor)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(e *Editor) {
		if provider != nil {
			e.provider = provider
		}
	}
}

// WithPlugins registers extra plugins after the built-ins and presets.
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(e *Editor) {
		e.plugins = append(e.plugins, plugins...)
	}
}

// WithDefaultValue sets the markdown the initial document is parsed from.
// It takes precedence over Config.Bootstrap.DefaultValue.
func WithDefaultValue(markdown string) Option {
	return func(e *Editor) {
		e.defaultValue = markdown
	}
}

// WithSessionID pins the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(e *Editor) {
		if id != "" {
			e.sessionID = id
		}
	}
}
