package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "EDITOR_COMMAND_INVALID"
	commandContextCanceled  = "EDITOR_COMMAND_CANCELED"
	commandContextTimeout   = "EDITOR_COMMAND_TIMEOUT"
	commandContextErrorCode = "EDITOR_COMMAND_CONTEXT"
	commandExecuteFailed    = "EDITOR_COMMAND_FAILED"
)

// tag wraps err under category and stamps the command metadata. Errors that
// already carry a go-errors category keep it and their text code.
func tag(err error, category goerrors.Category, code, message string, meta map[string]any) error {
	if err == nil {
		return nil
	}
	wrapped := goerrors.IsWrapped(err)
	out := goerrors.Wrap(err, category, message).WithMetadata(meta)
	if !wrapped {
		out = out.WithTextCode(code)
	}
	return out
}

func wrapValidationError(err error, meta map[string]any) error {
	return tag(err, goerrors.CategoryValidation, commandValidationCode, "editor command rejected", meta)
}

func wrapContextError(err error, meta map[string]any) error {
	switch {
	case errors.Is(err, context.Canceled):
		return tag(err, goerrors.CategoryCommand, commandContextCanceled, "editor command cancelled", meta)
	case errors.Is(err, context.DeadlineExceeded):
		return tag(err, goerrors.CategoryCommand, commandContextTimeout, "editor command deadline exceeded", meta)
	default:
		return tag(err, goerrors.CategoryCommand, commandContextErrorCode, "editor command context error", meta)
	}
}

func wrapExecuteError(err error, meta map[string]any) error {
	return tag(err, goerrors.CategoryCommand, commandExecuteFailed, "editor command failed", meta)
}
