package editor

import "github.com/goliatone/go-editor/internal/runtimeconfig"

var (
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrMarkdownExtensionUnknown = runtimeconfig.ErrMarkdownExtensionUnknown
	ErrMarkdownPresetUnknown    = runtimeconfig.ErrMarkdownPresetUnknown
	ErrMarkdownPresetRequired   = runtimeconfig.ErrMarkdownPresetRequired
	ErrTimeoutInvalid           = runtimeconfig.ErrTimeoutInvalid
)

type (
	Config          = runtimeconfig.Config
	LoggingConfig   = runtimeconfig.LoggingConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	BootstrapConfig = runtimeconfig.BootstrapConfig
	CommandsConfig  = runtimeconfig.CommandsConfig
)

const (
	PresetCommonMark = runtimeconfig.PresetCommonMark
	PresetGFM        = runtimeconfig.PresetGFM
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
