package gologger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-editor/internal/logging"
	"github.com/goliatone/go-editor/pkg/interfaces"
)

// ErrFormatUnsupported reports a format with no go-logger logger type.
var ErrFormatUnsupported = errors.New("logging: unsupported go-logger format")

// Config holds the go-logger options an editor session can tune.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

var formats = map[string]func() glog.Option{
	"":        glog.WithLoggerTypeJSON,
	"json":    glog.WithLoggerTypeJSON,
	"console": glog.WithLoggerTypeConsole,
	"pretty":  glog.WithLoggerTypePretty,
}

// Provider hands out one go-logger child per module name. Children are
// cached so plugins asking for the same module share a logger.
type Provider struct {
	root *glog.BaseLogger

	mu       sync.Mutex
	children map[string]interfaces.Logger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds a go-logger root logger from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	format, ok := formats[key(cfg.Format)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrFormatUnsupported, cfg.Format)
	}
	options := []glog.Option{format()}
	if level, ok := levels[key(cfg.Level)]; ok {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := trimAll(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root, children: map[string]interfaces.Logger{}}, nil
}

// GetLogger returns the logger for a module name; "" is the root logger.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)

	p.mu.Lock()
	defer p.mu.Unlock()
	if logger, ok := p.children[name]; ok {
		return logger
	}
	var logger interfaces.Logger
	if name == "" {
		logger = wrap(p.root)
	} else {
		logger = wrap(p.root.GetLogger(name))
	}
	if p.children == nil {
		p.children = map[string]interfaces.Logger{}
	}
	p.children[name] = logger
	return logger
}

func wrap(inner glog.Logger) *adapter {
	return &adapter{inner: inner}
}

// adapter forwards to go-logger. When the inner logger cannot carry fields,
// they ride along as sorted key/value args on every call.
type adapter struct {
	inner glog.Logger
	args  []any
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.with(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.with(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.with(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.with(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, l.with(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.with(args)...) }

func (l *adapter) with(args []any) []any {
	if len(l.args) == 0 {
		return args
	}
	out := make([]any, 0, len(l.args)+len(args))
	return append(append(out, l.args...), args...)
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if fl, ok := l.inner.(glog.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		return &adapter{inner: fl.WithFields(copied), args: l.args}
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	args := append([]any(nil), l.args...)
	for _, k := range names {
		args = append(args, k, fields[k])
	}
	return &adapter{inner: l.inner, args: args}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return &adapter{inner: l.inner.WithContext(ctx), args: l.args}
}

// ValidLevel reports whether level maps onto a go-logger level. Empty input
// keeps the go-logger default.
func ValidLevel(level string) bool {
	_, ok := levels[key(level)]
	return ok || key(level) == ""
}

// ValidFormat reports whether format is one NewProvider accepts.
func ValidFormat(format string) bool {
	_, ok := formats[key(format)]
	return ok
}

func key(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func trimAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
