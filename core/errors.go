package core

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrMissingSchema is returned when a stage needs the schema before it exists.
	ErrMissingSchema = errors.New("core: schema not published")
	// ErrMissingParser is returned when the editor state runs without a parser.
	ErrMissingParser = errors.New("core: parser not published")
	// ErrConfigCallback wraps failures from user configuration callbacks.
	ErrConfigCallback = errors.New("core: config callback failed")
)

const schemaInvalidCode = "SCHEMA_INVALID"

func wrapSchemaError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "schema configuration invalid").
		WithTextCode(schemaInvalidCode)
}
