package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-editor/pkg/interfaces"
	"github.com/goliatone/go-editor/pkg/model"
)

const (
	ParseMarkdownType     = "editor.markdown.parse"
	SerializeDocumentType = "editor.markdown.serialize"
)

// ErrNilDocument is returned when a serialize command carries no document.
var ErrNilDocument = errors.New("commands: document is required")

// Session is the editor surface the markdown commands operate on.
type Session interface {
	Parse(ctx context.Context, markdown string) (*model.Node, error)
	Serialize(ctx context.Context, doc *model.Node) (string, error)
}

// ParseMarkdownCommand parses Markdown into a document. Result receives the
// parsed document when set.
type ParseMarkdownCommand struct {
	Source   string
	Markdown string
	Result   func(*model.Node)
}

func (ParseMarkdownCommand) Type() string { return ParseMarkdownType }

func (m ParseMarkdownCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Markdown, validation.By(notBlank)),
	)
}

// SerializeDocumentCommand serializes a document back to Markdown.
type SerializeDocumentCommand struct {
	Document *model.Node
	Result   func(string)
}

func (SerializeDocumentCommand) Type() string { return SerializeDocumentType }

func (m SerializeDocumentCommand) Validate() error {
	if m.Document == nil {
		return ErrNilDocument
	}
	return nil
}

// NewParseMarkdownHandler builds the handler for ParseMarkdownCommand.
func NewParseMarkdownHandler(session Session, logger interfaces.Logger, opts ...HandlerOption[ParseMarkdownCommand]) *Handler[ParseMarkdownCommand] {
	base := []HandlerOption[ParseMarkdownCommand]{
		WithLogger[ParseMarkdownCommand](logger),
		WithOperation[ParseMarkdownCommand]("markdown.parse"),
		WithMessageFields(func(msg ParseMarkdownCommand) map[string]any {
			fields := map[string]any{"markdown_bytes": len(msg.Markdown)}
			if msg.Source != "" {
				fields["source"] = msg.Source
			}
			return fields
		}),
	}
	return NewHandler(func(ctx context.Context, msg ParseMarkdownCommand) error {
		doc, err := session.Parse(ctx, msg.Markdown)
		if err != nil {
			return err
		}
		if msg.Result != nil {
			msg.Result(doc)
		}
		return nil
	}, append(base, opts...)...)
}

// NewSerializeDocumentHandler builds the handler for SerializeDocumentCommand.
func NewSerializeDocumentHandler(session Session, logger interfaces.Logger, opts ...HandlerOption[SerializeDocumentCommand]) *Handler[SerializeDocumentCommand] {
	base := []HandlerOption[SerializeDocumentCommand]{
		WithLogger[SerializeDocumentCommand](logger),
		WithOperation[SerializeDocumentCommand]("markdown.serialize"),
		WithMessageFields(func(msg SerializeDocumentCommand) map[string]any {
			return map[string]any{"child_count": msg.Document.ChildCount()}
		}),
	}
	return NewHandler(func(ctx context.Context, msg SerializeDocumentCommand) error {
		out, err := session.Serialize(ctx, msg.Document)
		if err != nil {
			return err
		}
		if msg.Result != nil {
			msg.Result(out)
		}
		return nil
	}, append(base, opts...)...)
}

// Subscription releases registered handlers.
type Subscription interface {
	Unsubscribe()
}

type subscriptions []Subscription

func (s subscriptions) Unsubscribe() {
	for _, sub := range s {
		sub.Unsubscribe()
	}
}

// RegisterMarkdownCommands subscribes the markdown handlers on the global
// go-command dispatcher. A zero timeout keeps the handler default.
func RegisterMarkdownCommands(session Session, provider interfaces.LoggerProvider, timeout time.Duration) Subscription {
	logger := CommandLogger(provider, "markdown")
	parse := []HandlerOption[ParseMarkdownCommand]{}
	serialize := []HandlerOption[SerializeDocumentCommand]{}
	if timeout > 0 {
		parse = append(parse, WithTimeout[ParseMarkdownCommand](timeout))
		serialize = append(serialize, WithTimeout[SerializeDocumentCommand](timeout))
	}
	return subscriptions{
		dispatcher.SubscribeCommand(NewParseMarkdownHandler(session, logger, parse...)),
		dispatcher.SubscribeCommand(NewSerializeDocumentHandler(session, logger, serialize...)),
	}
}

var _ command.Commander[ParseMarkdownCommand] = (*Handler[ParseMarkdownCommand])(nil)

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
