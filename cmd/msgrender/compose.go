package main

import (
	"context"
	"fmt"
	"strings"

	msgrender "github.com/alnah/go-msgrender"
	"github.com/alnah/go-msgrender/internal/yamlutil"
)

// runCompose turns Markdown into an outgoing message and prints it as a
// messages fixture that render accepts.
func runCompose(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseComposeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	input, err := singleInput(positional)
	if err != nil {
		return err
	}
	images, err := parseImageFlags(flags.images)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	logger := newLogger(flags.common.verbose, env.Stderr)
	defer func() { _ = logger.Sync() }()

	markdown, err := readText(input, env)
	if err != nil {
		return err
	}

	composer := msgrender.NewComposer(msgrender.ComposerOptions{
		Placeholder: cfg.Composer.Placeholder,
		Logger:      logger,
		Now:         env.now,
	})
	if err := composer.SetMarkdown(ctx, markdown); err != nil {
		return err
	}
	for _, img := range images {
		composer.InsertInlineImage(img)
	}
	if composer.IsEmpty() {
		if p := composer.Placeholder(); p != "" {
			return fmt.Errorf("%w: nothing to send (%s)", ErrEmptyInput, p)
		}
		return fmt.Errorf("%w: nothing to send", ErrEmptyInput)
	}

	msg := composer.Message(msgrender.CommunicationParticipant{
		UserID:      flags.senderID,
		DisplayName: flags.senderName,
	})
	out, err := yamlutil.Marshal([]msgrender.Message{msg})
	if err != nil {
		return err
	}
	if err := writeOutput(flags.output, out, env); err != nil {
		return err
	}
	if flags.output != "" {
		status(env, flags.common.quiet, "Composed message %s to %s", msg.MessageID, flags.output)
	}
	return nil
}

// parseImageFlags parses --image values of the form NAME=URL.
func parseImageFlags(values []string) ([]msgrender.InlineImage, error) {
	images := make([]msgrender.InlineImage, 0, len(values))
	for _, v := range values {
		name, url, ok := strings.Cut(v, "=")
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("%w: --image %q (want NAME=URL)", ErrUsage, v)
		}
		images = append(images, msgrender.InlineImage{Name: name, URL: url})
	}
	return images, nil
}
