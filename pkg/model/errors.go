package model

import "errors"

var (
	// ErrSchemaInvalid is returned when a schema spec cannot be compiled.
	ErrSchemaInvalid = errors.New("model: schema invalid")
	// ErrAttrsInvalid is returned when node or mark attributes fail validation.
	ErrAttrsInvalid = errors.New("model: attributes invalid")
	// ErrContentInvalid is returned when a child does not fit its parent's content kind.
	ErrContentInvalid = errors.New("model: content invalid")
	// ErrUnknownType is returned when JSON references a type the schema lacks.
	ErrUnknownType = errors.New("model: unknown type")
)
