package timing

import "errors"

// ErrUnknownStage is returned when waiting on a stage outside the declared set.
var ErrUnknownStage = errors.New("timing: unknown stage")
