package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-editor/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "editor.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = LoaderLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != loaderModule {
		t.Fatalf("expected module %s, got %v", loaderModule, provider.requested)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields applied once, got %d", len(rec.fields))
	}
	if got := rec.fields[0]["module"]; got != loaderModule {
		t.Fatalf("expected module field %s, got %v", loaderModule, got)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithPluginContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithPluginContext(rec, " ", "core.parser", "ParserReady")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if _, ok := fields[fieldSession]; ok {
		t.Fatalf("expected blank session to be skipped: %v", fields)
	}
	if fields[fieldPlugin] != "core.parser" || fields[fieldStage] != "ParserReady" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestOrReturnsNoOpForNil(t *testing.T) {
	if _, ok := Or(nil).(noopLogger); !ok {
		t.Fatalf("expected no-op logger for nil input")
	}
	rec := &recordingLogger{}
	if Or(rec) != interfaces.Logger(rec) {
		t.Fatalf("expected Or to return the supplied logger")
	}
}
