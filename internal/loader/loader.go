package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-editor/internal/logging"
	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/plugin"
	"github.com/goliatone/go-editor/pkg/slot"
	"github.com/goliatone/go-editor/pkg/timing"
)

// Loader runs every registered plugin once, in an order consistent with the
// declared stage dependencies.
type Loader struct {
	container *slot.Container
	gates     *timing.Gates
	logger    interfaces.Logger
	plugins   []plugin.Plugin

	ran atomic.Bool

	mu        sync.Mutex
	completed []string
}

// New creates a loader bound to one session's container and gates.
func New(container *slot.Container, gates *timing.Gates, logger interfaces.Logger, plugins ...plugin.Plugin) *Loader {
	return &Loader{
		container: container,
		gates:     gates,
		logger:    logging.Or(logger),
		plugins:   append([]plugin.Plugin(nil), plugins...),
	}
}

// Plugins returns the registered descriptors in registration order.
func (l *Loader) Plugins() []plugin.Plugin {
	return append([]plugin.Plugin(nil), l.plugins...)
}

// Validate checks descriptors, id uniqueness, dangling dependencies, and
// stage cycles without running anything.
func (l *Loader) Validate() error {
	seen := make(map[string]struct{}, len(l.plugins))
	producers := map[timing.Stage]int{}

	for _, p := range l.plugins {
		if err := p.Validate(); err != nil {
			return wrapConfigError(fmt.Errorf("%w %q: %v", ErrInvalidPlugin, p.ID, err))
		}
		if _, dup := seen[p.ID]; dup {
			return wrapConfigError(fmt.Errorf("%w: %q", ErrDuplicatePlugin, p.ID))
		}
		seen[p.ID] = struct{}{}
		if p.Produces != timing.StageNone {
			producers[p.Produces]++
		}
	}

	for _, p := range l.plugins {
		if p.LoadAfter == timing.StageNone {
			continue
		}
		if producers[p.LoadAfter] == 0 {
			return wrapConfigError(fmt.Errorf("%w: plugin %q waits for %s", ErrDanglingDependency, p.ID, p.LoadAfter))
		}
	}

	if stage, ok := findCycle(l.plugins); ok {
		return wrapConfigError(fmt.Errorf("%w through %s", ErrStageCycle, stage))
	}
	return nil
}

// Run validates the plugin set, runs setup hooks, then executes every Main.
// The first failure cancels the remaining pipeline and is returned.
func (l *Loader) Run(ctx context.Context) error {
	if !l.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRan
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := l.Validate(); err != nil {
		l.logger.Error("loader.validate.failed", "error", err)
		return err
	}

	started := time.Now()
	l.setup()

	remaining := map[timing.Stage]*atomic.Int32{}
	groups := map[timing.Stage][]plugin.Plugin{}
	for _, p := range l.plugins {
		groups[p.LoadAfter] = append(groups[p.LoadAfter], p)
		if p.Produces == timing.StageNone {
			continue
		}
		counter, ok := remaining[p.Produces]
		if !ok {
			counter = &atomic.Int32{}
			remaining[p.Produces] = counter
		}
		counter.Add(1)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		failure  error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			failure = err
			cancel()
		})
	}

	for _, stage := range append([]timing.Stage{timing.StageNone}, timing.Stages()...) {
		members := groups[stage]
		if len(members) == 0 {
			continue
		}
		wg.Add(len(members))
		go func(stage timing.Stage, members []plugin.Plugin) {
			if err := l.gates.Wait(runCtx, stage); err != nil || runCtx.Err() != nil {
				l.logger.Debug("loader.group.skipped", "stage", stage.String(), "plugins", len(members))
				for range members {
					wg.Done()
				}
				return
			}
			l.logger.Debug("loader.group.ready", "stage", stage.String(), "plugins", len(members))
			for _, p := range members {
				go l.runPlugin(runCtx, p, remaining[p.Produces], &wg, fail)
			}
		}(stage, members)
	}

	wg.Wait()

	if failure != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(failure, ctxErr) {
			return wrapAbortError(ctxErr)
		}
		l.logger.Error("loader.run.failed", "error", failure)
		return failure
	}
	if err := ctx.Err(); err != nil && len(l.Completed()) < len(l.plugins) {
		return wrapAbortError(err)
	}

	l.logger.Info("loader.run.completed",
		"plugins", len(l.plugins),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

func (l *Loader) setup() {
	for _, p := range l.plugins {
		if p.Setup == nil {
			continue
		}
		p.Setup(plugin.NewPre(p.ID, l.container))
	}
}

func (l *Loader) runPlugin(ctx context.Context, p plugin.Plugin, produced *atomic.Int32, wg *sync.WaitGroup, fail func(error)) {
	defer wg.Done()

	logger := logging.WithPluginContext(l.logger, "", p.ID, p.Produces.String())
	if ctx.Err() != nil {
		logger.Debug("loader.plugin.skipped")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("loader.plugin.panic", "panic", r)
			fail(wrapPluginError(fmt.Errorf("%w: %v", ErrPluginPanic, r), p.ID, p.Produces.String()))
		}
	}()

	logger.Debug("loader.plugin.start", "load_after", p.LoadAfter.String())
	patch, err := p.Main(ctx, plugin.NewCtx(p.ID, l.container, l.gates, logger))
	if err != nil {
		logger.Error("loader.plugin.failed", "error", err)
		fail(wrapPluginError(err, p.ID, p.Produces.String()))
		return
	}

	patch.Apply(l.container)
	l.mu.Lock()
	l.completed = append(l.completed, p.ID)
	l.mu.Unlock()
	logger.Debug("loader.plugin.done", "patched", len(patch))

	if produced != nil && produced.Add(-1) == 0 {
		l.gates.Complete(p.Produces)
	}
}

// Completed lists the ids of plugins whose Main returned successfully, in
// completion order.
func (l *Loader) Completed() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.completed...)
}

// Reached lists the stages resolved so far.
func (l *Loader) Reached() []timing.Stage {
	return l.gates.Reached()
}

// findCycle walks LoadAfter -> Produces edges and returns a stage on a cycle.
func findCycle(plugins []plugin.Plugin) (timing.Stage, bool) {
	edges := map[timing.Stage][]timing.Stage{}
	for _, p := range plugins {
		if p.LoadAfter == timing.StageNone || p.Produces == timing.StageNone {
			continue
		}
		edges[p.LoadAfter] = append(edges[p.LoadAfter], p.Produces)
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := map[timing.Stage]int{}

	var visit func(s timing.Stage) (timing.Stage, bool)
	visit = func(s timing.Stage) (timing.Stage, bool) {
		state[s] = visiting
		for _, next := range edges[s] {
			switch state[next] {
			case visiting:
				return next, true
			case unvisited:
				if at, ok := visit(next); ok {
					return at, true
				}
			}
		}
		state[s] = visited
		return timing.StageNone, false
	}

	for _, s := range timing.Stages() {
		if state[s] == unvisited {
			if at, ok := visit(s); ok {
				return at, true
			}
		}
	}
	return timing.StageNone, false
}
