package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-editor/cmd/mdeditor/internal/bootstrap"
	"github.com/goliatone/go-editor/internal/commands"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("mdeditor: %v", err)
	}
}

type report struct {
	SessionID   string         `json:"session_id"`
	FrontMatter map[string]any `json:"front_matter,omitempty"`
	Stages      []string       `json:"stages"`
	Plugins     []string       `json:"plugins"`
	Document    any            `json:"document"`
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mdeditor", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML editor config")
	filePath := fs.String("file", "", "Markdown file loaded as the default document")
	presets := fs.String("presets", "", "Comma separated presets (commonmark, gfm)")
	extensions := fs.String("extensions", "", "Comma separated goldmark extensions")
	format := fs.String("format", "json", "Output format: json or markdown")
	timeout := fs.Duration("timeout", 10*time.Second, "Bootstrap timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *filePath == "" {
		return fmt.Errorf("--file is required")
	}
	if *format != "json" && *format != "markdown" {
		return fmt.Errorf("unknown format %q", *format)
	}

	source, err := os.ReadFile(*filePath)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath:   *configPath,
		Presets:      bootstrap.SplitList(*presets),
		Extensions:   bootstrap.SplitList(*extensions),
		DefaultValue: string(source),
		Timeout:      *timeout,
	})
	if err != nil {
		return fmt.Errorf("bootstrap editor: %w", err)
	}

	doc, err := module.Editor.Document(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if *format == "markdown" {
		var out string
		handler := commands.NewSerializeDocumentHandler(module.Session, module.Logger,
			commands.WithTimeout[commands.SerializeDocumentCommand](module.CommandTimeout),
			commands.WithTelemetry(commands.DefaultTelemetry[commands.SerializeDocumentCommand](module.Logger)))
		if err := handler.Execute(ctx, commands.SerializeDocumentCommand{
			Document: doc,
			Result:   func(s string) { out = s },
		}); err != nil {
			return fmt.Errorf("execute serialize command: %w", err)
		}
		_, err = io.WriteString(stdout, out)
		return err
	}

	meta, err := module.Editor.FrontMatter(ctx)
	if err != nil {
		return fmt.Errorf("load front matter: %w", err)
	}
	stages := make([]string, 0)
	for _, stage := range module.Editor.Reached() {
		stages = append(stages, stage.String())
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report{
		SessionID:   module.Editor.SessionID(),
		FrontMatter: meta,
		Stages:      stages,
		Plugins:     module.Editor.Completed(),
		Document:    doc,
	})
}
