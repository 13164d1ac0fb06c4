package main

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	msgrender "github.com/alnah/go-msgrender"
	"github.com/alnah/go-msgrender/internal/hints"
)

// runRender renders a messages fixture to HTML or accessibility text.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if !slices.Contains(renderFormats, flags.format) {
		return fmt.Errorf("%w: --format %q%s", ErrUsage, flags.format, hints.ForChoices(renderFormats))
	}
	input, err := singleInput(positional)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	logger := newLogger(flags.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()
	renderer := newRenderer(cfg, logger)

	var results []renderedMessage
	if flags.blocked {
		results, err = renderBlockedFixture(input, renderer, env)
	} else {
		results, err = renderMessagesFixture(ctx, input, flags.attachments, renderer, logger, env)
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, r := range results {
		switch flags.format {
		case formatHTML:
			buf.WriteString(lineBreakEscaper.Replace(r.result.HTML()))
		case formatAria:
			fmt.Fprintf(&buf, "%s\t%s", r.id, r.result.AriaLabel)
		case formatLive:
			fmt.Fprintf(&buf, "%s\t%s", r.id, r.result.LiveMessage)
		}
		buf.WriteByte('\n')
	}
	if err := writeOutput(flags.output, buf.Bytes(), env); err != nil {
		return err
	}
	if flags.output != "" {
		status(env, flags.common.quiet, "Rendered %d message(s) to %s", len(results), flags.output)
	}
	return nil
}

// lineBreakEscaper keeps serialized HTML on one line. Newlines only occur in
// text and attribute values, where a character reference decodes to the same
// newline.
var lineBreakEscaper = strings.NewReplacer("\r\n", "&#10;", "\n", "&#10;", "\r", "&#13;")

// renderedMessage pairs a message id with its rendering.
type renderedMessage struct {
	id     string
	result *msgrender.Result
}

// renderMessagesFixture renders every message through a content view. Inline
// images resolve from attachmentsPath first, then from their metadata URLs.
func renderMessagesFixture(ctx context.Context, input, attachmentsPath string, r *msgrender.Renderer, logger *zap.Logger, env *Environment) ([]renderedMessage, error) {
	var msgs []msgrender.Message
	if err := readFixture(input, "messages", env, &msgs); err != nil {
		return nil, err
	}

	urls := msgrender.NewAttachmentURLs()
	if attachmentsPath != "" {
		var known map[string]string
		if err := readFixture(attachmentsPath, "attachments", env, &known); err != nil {
			return nil, err
		}
		for id, url := range known {
			urls.Set(id, url)
		}
	}

	announcer := msgrender.AnnouncerFunc(func(message string, politeness msgrender.Politeness) {
		logger.Debug("live message", zap.String("politeness", string(politeness)), zap.String("text", message))
	})

	out := make([]renderedMessage, 0, len(msgs))
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view := msgrender.NewContentView(r,
			msgrender.WithAnnouncer(announcer),
			msgrender.WithEffectRunner(msgrender.RunInline),
		)
		props := msgrender.RenderProps{
			AttachmentURLs:     urls.Snapshot(),
			OnFetchAttachments: msgrender.MetadataFetcher{URLs: urls},
		}
		before := urls.Len()
		res := view.Render(ctx, msg, props)
		if urls.Len() != before {
			props.AttachmentURLs = urls.Snapshot()
			res = view.Render(ctx, msg, props)
		}
		out = append(out, renderedMessage{id: msg.MessageID, result: res})
	}
	return out, nil
}

// renderBlockedFixture renders a blocked messages fixture.
func renderBlockedFixture(input string, r *msgrender.Renderer, env *Environment) ([]renderedMessage, error) {
	var blocked []msgrender.BlockedMessage
	if err := readFixture(input, "blocked", env, &blocked); err != nil {
		return nil, err
	}
	out := make([]renderedMessage, 0, len(blocked))
	for _, b := range blocked {
		res, err := r.RenderBlocked(b)
		if err != nil {
			return nil, fmt.Errorf("message %q: %w", b.MessageID, err)
		}
		out = append(out, renderedMessage{id: b.MessageID, result: res})
	}
	return out, nil
}
