package timing

import (
	"fmt"
	"strings"
)

// Stage is a named milestone in the editor bootstrap sequence. The set is
// closed so dependencies on unknown stages are compile errors.
type Stage uint8

const (
	// StageNone marks a plugin without a prerequisite. Its gate is born resolved.
	StageNone Stage = iota
	ConfigReady
	InitReady
	SchemaReady
	ParserReady
	SerializerReady
	EditorReady

	stageCount
)

var stageNames = [stageCount]string{
	StageNone:       "None",
	ConfigReady:     "ConfigReady",
	InitReady:       "InitReady",
	SchemaReady:     "SchemaReady",
	ParserReady:     "ParserReady",
	SerializerReady: "SerializerReady",
	EditorReady:     "EditorReady",
}

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
	return stageNames[s]
}

// Valid reports whether s is one of the declared stages.
func (s Stage) Valid() bool {
	return s < stageCount
}

// Stages lists every stage after StageNone in bootstrap order.
func Stages() []Stage {
	out := make([]Stage, 0, stageCount-1)
	for s := StageNone + 1; s < stageCount; s++ {
		out = append(out, s)
	}
	return out
}

// ParseStage resolves a stage by name, case-insensitively.
func ParseStage(name string) (Stage, error) {
	trimmed := strings.TrimSpace(name)
	for s := StageNone; s < stageCount; s++ {
		if strings.EqualFold(stageNames[s], trimmed) {
			return s, nil
		}
	}
	return StageNone, fmt.Errorf("timing: unknown stage %q", name)
}

// MarshalText renders the stage name.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("timing: invalid stage %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText parses a stage name.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
