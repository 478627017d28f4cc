package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-editor/core"
	"github.com/goliatone/go-editor/internal/loader"
	"github.com/goliatone/go-editor/internal/logging"
	"github.com/goliatone/go-editor/internal/logging/gologger"
	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/model"
	"github.com/goliatone/go-editor/pkg/plugin"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
	"github.com/goliatone/go-editor/preset/commonmark"
	"github.com/goliatone/go-editor/preset/gfm"
)

// Editor is one editing session: its own slot container, stage gates, and
// plugin set. Sessions share nothing.
type Editor struct {
	cfg          Config
	sessionID    string
	provider     interfaces.LoggerProvider
	logger       interfaces.Logger
	container    *slot.Container
	gates        *timing.Gates
	plugins      []plugin.Plugin
	callbacks    []core.ConfigFunc
	defaultValue string

	mu      sync.Mutex
	created bool
	loader  *loader.Loader

	finished chan struct{}
	err      error
}

// New validates cfg and prepares a session. Nothing runs until Create.
func New(cfg Config, opts ...Option) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Editor{
		cfg:       cfg,
		container: slot.NewContainer(),
		finished:  make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if e.sessionID == "" {
		e.sessionID = uuid.NewString()
	}
	if e.provider == nil && cfg.Logging.Enabled {
		provider, err := gologger.NewProvider(cfg.Logging.GoLogger())
		if err != nil {
			return nil, err
		}
		e.provider = provider
	}
	e.logger = logging.WithPluginContext(logging.EditorLogger(e.provider), e.sessionID, "", "")
	e.gates = timing.NewGates(logging.WithPluginContext(logging.TimingLogger(e.provider), e.sessionID, "", ""))
	return e, nil
}

// Use registers plugins. It fails once Create has been called.
func (e *Editor) Use(plugins ...plugin.Plugin) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.created {
		return ErrAlreadyCreated
	}
	e.plugins = append(e.plugins, plugins...)
	return nil
}

// Config registers a callback the config plugin runs before ConfigReady.
func (e *Editor) Config(fn core.ConfigFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.created {
		return ErrAlreadyCreated
	}
	e.callbacks = append(e.callbacks, fn)
	return nil
}

// Create runs the bootstrap once and blocks until it finishes. Concurrent
// Parse, Serialize, and Document calls are released as their stages resolve.
func (e *Editor) Create(ctx context.Context) error {
	e.mu.Lock()
	if e.created {
		e.mu.Unlock()
		return ErrAlreadyCreated
	}
	e.created = true
	plugins := e.assemble()
	e.loader = loader.New(e.container, e.gates,
		logging.WithPluginContext(logging.LoaderLogger(e.provider), e.sessionID, "", ""),
		plugins...,
	)
	e.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := e.cfg.Bootstrap.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	e.logger.Info("editor.create.start", "plugins", len(plugins))
	err := e.loader.Run(ctx)
	e.err = err
	close(e.finished)

	if err != nil {
		e.logger.Error("editor.create.failed", "error", err)
		return err
	}
	e.logger.Info("editor.create.completed", "stages", len(e.gates.Reached()))
	return nil
}

// assemble orders built-ins, configured presets, then user plugins. The
// config plugin's setup hook seeds the config and default value slots.
func (e *Editor) assemble() []plugin.Plugin {
	cfg := e.cfg
	defaultValue := e.defaultValue

	builtins := core.Plugins(e.callbacks...)
	builtins[0] = builtins[0].WithSetup(func(pre *plugin.Pre) {
		entries := []slot.Entry{slot.Assign(core.ConfigSlot, cfg)}
		if defaultValue != "" {
			entries = append(entries, slot.Assign(core.DefaultValueSlot, defaultValue))
		}
		pre.Inject(entries...)
	})

	plugins := append([]plugin.Plugin(nil), builtins...)
	if cfg.Markdown.HasPreset(PresetCommonMark) || cfg.Markdown.HasPreset(PresetGFM) {
		plugins = append(plugins, commonmark.Plugins()...)
	}
	if cfg.Markdown.HasPreset(PresetGFM) {
		plugins = append(plugins, gfm.Plugins()...)
	}
	return append(plugins, e.plugins...)
}

// WaitStage blocks until stage is reached, ctx ends, or bootstrap fails
// first.
func (e *Editor) WaitStage(ctx context.Context, stage timing.Stage) error {
	gate := e.gates.Gate(stage)
	if gate == nil {
		return timing.ErrUnknownStage
	}
	if gate.Resolved() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-gate.Done():
		return nil
	case <-e.finished:
		if gate.Resolved() {
			return nil
		}
		if e.err != nil {
			return fmt.Errorf("%w: %w", ErrBootstrapFailed, e.err)
		}
		return fmt.Errorf("%w: %s not reached", ErrBootstrapFailed, stage)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Parse converts markdown into a document. It blocks until ParserReady.
func (e *Editor) Parse(ctx context.Context, markdown string) (*model.Node, error) {
	if err := e.WaitStage(ctx, timing.ParserReady); err != nil {
		return nil, err
	}
	return slot.Get(e.container, core.ParserSlot)(markdown)
}

// Serialize converts doc into markdown. It blocks until SerializerReady.
func (e *Editor) Serialize(ctx context.Context, doc *model.Node) (string, error) {
	if doc == nil {
		return "", ErrNoDocument
	}
	if err := e.WaitStage(ctx, timing.SerializerReady); err != nil {
		return "", err
	}
	return slot.Get(e.container, core.SerializerSlot)(doc)
}

// Document returns the initial document. It blocks until EditorReady.
func (e *Editor) Document(ctx context.Context) (*model.Node, error) {
	if err := e.WaitStage(ctx, timing.EditorReady); err != nil {
		return nil, err
	}
	return slot.Get(e.container, core.DocumentSlot), nil
}

// FrontMatter returns metadata stripped from the default value. It blocks
// until EditorReady.
func (e *Editor) FrontMatter(ctx context.Context) (map[string]any, error) {
	if err := e.WaitStage(ctx, timing.EditorReady); err != nil {
		return nil, err
	}
	return slot.Get(e.container, core.FrontMatterSlot), nil
}

// Schema returns the compiled schema. It blocks until SchemaReady.
func (e *Editor) Schema(ctx context.Context) (*model.Schema, error) {
	if err := e.WaitStage(ctx, timing.SchemaReady); err != nil {
		return nil, err
	}
	return slot.Get(e.container, core.SchemaSlot), nil
}

// Slots exposes the session container.
func (e *Editor) Slots() *slot.Container { return e.container }

// LoggerProvider returns the provider the session logs through, nil when
// logging is disabled.
func (e *Editor) LoggerProvider() interfaces.LoggerProvider { return e.provider }

// SessionID returns the session identifier attached to every log entry.
func (e *Editor) SessionID() string { return e.sessionID }

// Reached lists the stages resolved so far.
func (e *Editor) Reached() []timing.Stage { return e.gates.Reached() }

// Completed lists plugin ids whose Main finished, in completion order.
func (e *Editor) Completed() []string {
	e.mu.Lock()
	l := e.loader
	e.mu.Unlock()
	if l == nil {
		return nil
	}
	return l.Completed()
}
