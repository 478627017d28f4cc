package plugin

import (
	"context"

	"github.com/goliatone/go-editor/internal/logging"
	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
)

// Ctx is the handle a plugin's Main receives. It grants access to the session
// container and lets the plugin wait on other stages.
type Ctx struct {
	id        string
	container *slot.Container
	gates     *timing.Gates
	logger    interfaces.Logger
}

// NewCtx binds a plugin id to a session's container and gates.
func NewCtx(id string, container *slot.Container, gates *timing.Gates, logger interfaces.Logger) *Ctx {
	return &Ctx{
		id:        id,
		container: container,
		gates:     gates,
		logger:    logging.Or(logger),
	}
}

// PluginID returns the id of the plugin running with this handle.
func (c *Ctx) PluginID() string { return c.id }

// Slots returns the session container.
func (c *Ctx) Slots() *slot.Container { return c.container }

// Logger returns the plugin-scoped logger.
func (c *Ctx) Logger() interfaces.Logger { return c.logger }

// Wait suspends until stage is reached or ctx ends. Waiting on the stage the
// plugin itself produces never returns.
func (c *Ctx) Wait(ctx context.Context, stage timing.Stage) error {
	return c.gates.Wait(ctx, stage)
}

// Pre is the handle passed to setup hooks.
type Pre struct {
	id        string
	container *slot.Container
}

// NewPre binds a plugin id to a session container for the setup phase.
func NewPre(id string, container *slot.Container) *Pre {
	return &Pre{id: id, container: container}
}

// PluginID returns the id of the plugin being set up.
func (p *Pre) PluginID() string { return p.id }

// Inject seeds slot values before any plugin's Main runs.
func (p *Pre) Inject(entries ...slot.Entry) *Pre {
	slot.Patch(entries).Apply(p.container)
	return p
}
