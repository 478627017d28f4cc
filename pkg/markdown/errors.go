package markdown

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrEmptyInput is returned when the markdown source is blank.
	ErrEmptyInput = errors.New("markdown: empty input")
	// ErrNoParserRule is returned when an AST node matches no parser rule.
	ErrNoParserRule = errors.New("markdown: no parser rule for node")
	// ErrNoSerializerRule is returned when a document node or mark has no writer.
	ErrNoSerializerRule = errors.New("markdown: no serializer rule")
	// ErrParseFailed is returned when parsing produced no valid document.
	ErrParseFailed = errors.New("markdown: parse failed")
)

const (
	markdownEmptyInputCode = "MARKDOWN_EMPTY_INPUT"
	markdownNoRuleCode     = "MARKDOWN_NO_RULE"
	markdownParseCode      = "MARKDOWN_PARSE_FAILED"
	markdownSerializeCode  = "MARKDOWN_SERIALIZE_FAILED"
)

func wrapParseError(err error, code string, meta map[string]any) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	wrapped := goerrors.Wrap(err, goerrors.CategoryValidation, "markdown parse failed").
		WithTextCode(code)
	if len(meta) > 0 {
		wrapped = wrapped.WithMetadata(meta)
	}
	return wrapped
}

func wrapSerializeError(err error, meta map[string]any) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	wrapped := goerrors.Wrap(err, goerrors.CategoryValidation, "markdown serialize failed").
		WithTextCode(markdownSerializeCode)
	if len(meta) > 0 {
		wrapped = wrapped.WithMetadata(meta)
	}
	return wrapped
}
