package msgrender

import (
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-msgrender/internal/pipeline"
)

// Renderer turns chat messages into render trees with accessibility text.
// A Renderer is safe for concurrent use.
type Renderer struct {
	logger    *zap.Logger
	strings   Strings
	features  Features
	sanitizer Sanitizer
	linkifier *pipeline.Linkifier
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStrings sets the localized strings. Empty fields keep their defaults.
func WithStrings(s Strings) Option {
	return func(r *Renderer) {
		r.strings = s.withDefaults()
	}
}

// WithFeatures sets the enabled features.
func WithFeatures(f Features) Option {
	return func(r *Renderer) {
		r.features = f
	}
}

// WithSanitizer replaces the sanitizer used for accessibility text.
func WithSanitizer(s Sanitizer) Option {
	return func(r *Renderer) {
		if s != nil {
			r.sanitizer = s
		}
	}
}

// NewRenderer creates a Renderer with English strings and every feature enabled.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger:    zap.NewNop(),
		strings:   DefaultStrings(),
		features:  DefaultFeatures(),
		sanitizer: pipeline.NewBluemondaySanitizer(),
		linkifier: pipeline.NewLinkifier(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Strings returns the strings in use.
func (r *Renderer) Strings() Strings {
	return r.strings
}

// Features returns the enabled features.
func (r *Renderer) Features() Features {
	return r.features
}

// RenderProps carries per-render collaborators.
type RenderProps struct {
	// AttachmentURLs maps inline image ids to resolved sources.
	AttachmentURLs map[string]string
	// OnInlineImageClicked is called with the image id when an inline image
	// is activated.
	OnInlineImageClicked func(imageID string)
	// OnFetchAttachments resolves missing inline images. Used by ContentView.
	OnFetchAttachments AttachmentFetcher
	// Mentions enables custom mention rendering when the feature is on.
	Mentions *MentionDisplayOptions
}

// Result is a rendered message.
type Result struct {
	// Node is the content container wrapping Body. Nil for unknown content types.
	Node *Node
	// Body is the rendered content.
	Body *Node
	// AriaLabel is the plain-text accessible label of the container.
	AriaLabel string
	// LiveMessage is the text announced to assistive technology.
	LiveMessage string
}

// HTML serializes the container. Empty for an empty result.
func (r *Result) HTML() string {
	if r == nil || r.Node == nil {
		return ""
	}
	return r.Node.HTML()
}

// Render renders msg. Unknown content types produce an empty Result and a
// warning; they are never an error.
func (r *Renderer) Render(msg Message, props RenderProps) *Result {
	var body *Node
	switch {
	case msg.ContentType == ContentTypeText:
		body = r.linkifier.Linkify(msg.Content)
	case msg.ContentType.isHTML():
		body = r.renderHTML(msg, props)
	default:
		r.logger.Warn("unknown message content type",
			zap.String("content_type", string(msg.ContentType)),
			zap.String("message_id", msg.MessageID),
		)
		return &Result{}
	}

	res := &Result{
		Body:        body,
		AriaLabel:   r.ariaLabel(msg),
		LiveMessage: r.liveMessage(msg),
	}
	res.Node = container(msg.Status, res.AriaLabel, body)
	return res
}

// renderHTML runs the content through the node-processing pipeline.
func (r *Renderer) renderHTML(msg Message, props RenderProps) *Node {
	known := make(map[string]bool, len(msg.InlineImages))
	for _, img := range msg.InlineImages {
		known[img.ID] = true
	}

	rules := []pipeline.Rule{pipeline.NewImageRule(pipeline.ImageRuleConfig{
		KnownIDs: known,
		URLs:     props.AttachmentURLs,
		OnClick:  props.OnInlineImageClicked,
	})}
	if r.features.Mentions && props.Mentions != nil {
		if rule, ok := pipeline.NewMentionRule(props.Mentions.OnRenderMention); ok {
			rules = append(rules, rule)
		}
	}

	p := pipeline.New(rules...)
	r.logger.Debug("processing message content",
		zap.String("message_id", msg.MessageID),
		zap.Strings("rules", p.RuleNames()),
	)
	body, err := p.Process(msg.Content)
	if err != nil {
		r.logger.Error("message content could not be parsed",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
		return pipeline.Fragment(pipeline.Text(msg.Content))
	}
	return body
}

// ariaLabel formats the sanitized content with the mine or author template.
func (r *Renderer) ariaLabel(msg Message) string {
	if msg.Content == "" {
		return ""
	}
	plain := r.sanitizer.PlainText(msg.Content)
	template := r.strings.MessageContentAriaText
	if msg.Mine {
		template = r.strings.MessageContentMineAriaText
	}
	return joinNonEmpty([]string{pipeline.FormatString(template, map[string]string{
		"author":  msg.SenderDisplayName,
		"message": plain,
	})})
}

// liveMessage builds "[edited] [author intro] text" with empty parts omitted.
func (r *Renderer) liveMessage(msg Message) string {
	var parts []string
	if msg.Edited() {
		parts = append(parts, r.strings.EditedTag)
	}
	if !msg.Mine {
		parts = append(parts, pipeline.FormatString(r.strings.LiveAuthorIntro, map[string]string{
			"author": msg.SenderDisplayName,
		}))
	}
	text := msg.Content
	if msg.ContentType.isHTML() {
		text = pipeline.ExtractText(msg.Content)
	}
	parts = append(parts, text)
	return joinNonEmpty(parts)
}

// RenderBlocked renders a message withheld by data-loss-prevention policy.
// Returns ErrFeatureDisabled when the feature is off.
func (r *Renderer) RenderBlocked(b BlockedMessage) (*Result, error) {
	if !r.features.DataLossPrevention {
		return nil, ErrFeatureDisabled
	}

	warning := r.strings.BlockedWarningText
	if b.WarningText != nil {
		warning = *b.WarningText
	}
	var linkText string
	if b.Link != nil {
		linkText = r.strings.BlockedWarningLinkText
		if b.LinkText != nil {
			linkText = *b.LinkText
		}
	}

	var warningNode, linkNode *Node
	if warning != "" {
		warningNode = pipeline.Element("p", pipeline.Attrs("class", "blocked-warning"), pipeline.Text(warning))
	}
	if b.Link != nil {
		linkNode = pipeline.Element("a",
			pipeline.Attrs("class", "blocked-link", "href", *b.Link, "target", "_blank", "rel", "noreferrer noopener"),
			pipeline.Text(linkText),
		)
	}
	body := pipeline.Element("div", pipeline.Attrs("class", "blocked-message", "data-ui-id", "blocked-message"),
		pipeline.Element("span", pipeline.Attrs("class", "blocked-icon", "aria-hidden", "true")),
		warningNode,
		linkNode,
	)

	var author string
	if !b.Mine && b.SenderDisplayName != nil {
		author = *b.SenderDisplayName
	}
	live := joinNonEmpty([]string{author, warning, linkText})

	return &Result{
		Node:        container(b.Status, live, body),
		Body:        body,
		AriaLabel:   live,
		LiveMessage: live,
	}, nil
}

// container wraps body in the accessible content container.
func container(status MessageStatus, ariaLabel string, body *Node) *Node {
	var attrs []string
	if status != "" {
		attrs = append(attrs, "data-ui-status", string(status))
	}
	attrs = append(attrs, "role", "text")
	if ariaLabel != "" {
		attrs = append(attrs, "aria-label", ariaLabel)
	}
	return pipeline.Element("div", pipeline.Attrs(attrs...), body)
}

// joinNonEmpty joins the non-empty parts with single spaces. Whitespace runs
// inside parts, newlines included, collapse to one space.
func joinNonEmpty(parts []string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
