package plugin

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
)

// MainFunc is a plugin's run routine. It may suspend on stage gates through
// Ctx.Wait. The returned patch is applied to the session container before the
// plugin counts as finished.
type MainFunc func(ctx context.Context, c *Ctx) (slot.Patch, error)

// SetupFunc runs during the setup phase, before any MainFunc, in plugin
// registration order.
type SetupFunc func(pre *Pre)

// Plugin describes a unit of bootstrap work.
type Plugin struct {
	// ID must be unique across the plugins registered on one session.
	ID string
	// LoadAfter is the stage that must be reached before Main starts.
	LoadAfter timing.Stage
	// Produces is the stage this plugin helps reach. The stage completes
	// once every plugin producing it has finished.
	Produces timing.Stage
	Setup    SetupFunc
	Main     MainFunc
}

// Func builds a plugin from its parts.
func Func(id string, after, produces timing.Stage, main MainFunc) Plugin {
	return Plugin{
		ID:        id,
		LoadAfter: after,
		Produces:  produces,
		Main:      main,
	}
}

// WithSetup returns a copy of p with the setup hook attached.
func (p Plugin) WithSetup(setup SetupFunc) Plugin {
	p.Setup = setup
	return p
}

var errSameStage = errors.New("plugin cannot load after the stage it produces")

// Validate checks the descriptor shape. Cross-plugin rules (duplicates,
// dangling dependencies, cycles) are enforced by the loader.
func (p Plugin) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.By(func(value any) error {
			id, _ := value.(string)
			if strings.TrimSpace(id) != id {
				return validation.NewError("editor.plugin.id_whitespace", "id must not have surrounding whitespace")
			}
			return nil
		})),
		validation.Field(&p.LoadAfter, validation.By(validStage)),
		validation.Field(&p.Produces, validation.By(validStage), validation.By(func(any) error {
			if p.Produces != timing.StageNone && p.Produces == p.LoadAfter {
				return validation.NewError("editor.plugin.same_stage", errSameStage.Error())
			}
			return nil
		})),
		validation.Field(&p.Main, validation.By(func(value any) error {
			if fn, _ := value.(MainFunc); fn == nil {
				return validation.NewError("editor.plugin.main_required", "main is required")
			}
			return nil
		})),
	)
}

func validStage(value any) error {
	stage, _ := value.(timing.Stage)
	if !stage.Valid() {
		return validation.NewError("editor.plugin.stage_invalid", "unknown stage")
	}
	return nil
}
