package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-editor/internal/logging/gologger"
	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/markdown"
)

var ErrLoggingLevelInvalid = errors.New("editor config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("editor config: logging format is invalid")

// ErrMarkdownExtensionUnknown reports an extension name missing from the
// goldmark registry.
var ErrMarkdownExtensionUnknown = errors.New("editor config: markdown extension is unknown")

// ErrMarkdownPresetUnknown reports a preset name the editor cannot load.
var ErrMarkdownPresetUnknown = errors.New("editor config: markdown preset is unknown")

// ErrMarkdownPresetRequired ensures at least one preset supplies the schema.
var ErrMarkdownPresetRequired = errors.New("editor config: at least one markdown preset is required")

var ErrTimeoutInvalid = errors.New("editor config: timeouts must be zero or positive")

const (
	PresetCommonMark = "commonmark"
	PresetGFM        = "gfm"
)

// Config aggregates the options an editor session reads during bootstrap.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Markdown  MarkdownConfig  `yaml:"markdown" json:"markdown"`
	Bootstrap BootstrapConfig `yaml:"bootstrap" json:"bootstrap"`
	Commands  CommandsConfig  `yaml:"commands" json:"commands"`
}

// LoggingConfig captures go-logger options.
type LoggingConfig struct {
	Enabled   bool     `yaml:"enabled" json:"enabled"`
	Level     string   `yaml:"level" json:"level"`
	Format    string   `yaml:"format" json:"format"`
	AddSource bool     `yaml:"add_source" json:"add_source"`
	Focus     []string `yaml:"focus" json:"focus"`
}

// MarkdownConfig selects presets and goldmark behaviour.
type MarkdownConfig struct {
	Presets     []string `yaml:"presets" json:"presets"`
	Extensions  []string `yaml:"extensions" json:"extensions"`
	FrontMatter bool     `yaml:"front_matter" json:"front_matter"`
	Typographer bool     `yaml:"typographer" json:"typographer"`
}

// BootstrapConfig bounds session start-up.
type BootstrapConfig struct {
	// Timeout caps Create when positive. Zero waits for the caller's context.
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	DefaultValue string        `yaml:"default_value" json:"default_value"`
}

// CommandsConfig tunes the command handlers.
type CommandsConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultConfig returns a CommonMark session with logging disabled.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Markdown: MarkdownConfig{
			Presets:     []string{PresetCommonMark},
			FrontMatter: true,
		},
		Bootstrap: BootstrapConfig{},
		Commands: CommandsConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// ProcessorOptions converts the markdown section for pkg/markdown.
func (c MarkdownConfig) ProcessorOptions() interfaces.ProcessorOptions {
	return interfaces.ProcessorOptions{
		Extensions:  append([]string(nil), c.Extensions...),
		FrontMatter: c.FrontMatter,
		Typographer: c.Typographer,
	}
}

// HasPreset reports whether name is enabled.
func (c MarkdownConfig) HasPreset(name string) bool {
	for _, preset := range c.Presets {
		if strings.EqualFold(strings.TrimSpace(preset), name) {
			return true
		}
	}
	return false
}

// GoLogger converts the logging section for the go-logger provider.
func (c LoggingConfig) GoLogger() gologger.Config {
	return gologger.Config{
		Level:     c.Level,
		Format:    c.Format,
		AddSource: c.AddSource,
		Focus:     append([]string(nil), c.Focus...),
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Logging.Enabled {
		if !gologger.ValidLevel(cfg.Logging.Level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, cfg.Logging.Level)
		}
		if !gologger.ValidFormat(cfg.Logging.Format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, cfg.Logging.Format)
		}
	}

	if len(cfg.Markdown.Presets) == 0 {
		return ErrMarkdownPresetRequired
	}
	if err := validation.Validate(normalizeNames(cfg.Markdown.Presets),
		validation.Each(validation.In(PresetCommonMark, PresetGFM)),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrMarkdownPresetUnknown, err)
	}
	for _, name := range cfg.Markdown.Extensions {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if !markdown.KnownExtension(name) {
			if hint := suggestExtension(name); hint != "" {
				return fmt.Errorf("%w: %s (did you mean %q?)", ErrMarkdownExtensionUnknown, name, hint)
			}
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, name)
		}
	}

	if err := validation.ValidateStruct(&cfg.Bootstrap,
		validation.Field(&cfg.Bootstrap.Timeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("%w: bootstrap: %v", ErrTimeoutInvalid, err)
	}
	if err := validation.ValidateStruct(&cfg.Commands,
		validation.Field(&cfg.Commands.Timeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("%w: commands: %v", ErrTimeoutInvalid, err)
	}
	return nil
}

// suggestExtension returns the closest registered extension name within an
// edit distance of two, or "".
func suggestExtension(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	best, bestDistance := "", 3
	for _, candidate := range markdown.ExtensionNames() {
		if d := levenshtein.ComputeDistance(key, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, strings.ToLower(strings.TrimSpace(name)))
	}
	return out
}
