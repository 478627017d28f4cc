package loader

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrInvalidPlugin wraps descriptor validation failures.
	ErrInvalidPlugin = errors.New("loader: invalid plugin")
	// ErrDuplicatePlugin is returned when two plugins share an id.
	ErrDuplicatePlugin = errors.New("loader: duplicate plugin id")
	// ErrDanglingDependency is returned when a plugin loads after a stage no
	// registered plugin produces.
	ErrDanglingDependency = errors.New("loader: dependency on a stage nobody produces")
	// ErrStageCycle is returned when LoadAfter/Produces edges form a cycle.
	ErrStageCycle = errors.New("loader: stage dependency cycle")
	// ErrAlreadyRan is returned by a second Run call.
	ErrAlreadyRan = errors.New("loader: already ran")
	// ErrPluginPanic marks a recovered panic inside a plugin's Main.
	ErrPluginPanic = errors.New("loader: plugin panicked")
)

const (
	pluginConfigInvalidCode = "PLUGIN_CONFIG_INVALID"
	pluginMainFailedCode    = "PLUGIN_MAIN_FAILED"
	loaderAbortedCode       = "LOADER_ABORTED"
)

func wrapConfigError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "plugin configuration invalid").
		WithTextCode(pluginConfigInvalidCode)
}

func wrapPluginError(err error, pluginID, stage string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "plugin main failed").
		WithTextCode(pluginMainFailedCode).
		WithMetadata(map[string]any{
			"plugin": pluginID,
			"stage":  stage,
		})
}

func wrapAbortError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "bootstrap aborted").
		WithTextCode(loaderAbortedCode)
}
