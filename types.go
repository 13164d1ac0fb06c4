package msgrender

import (
	"time"

	"github.com/alnah/go-msgrender/internal/pipeline"
)

// ContentType tells the renderer how to interpret Message.Content.
type ContentType string

// Content types. Both HTML kinds go through the node-processing pipeline.
const (
	ContentTypeText         ContentType = "text"
	ContentTypeHTML         ContentType = "html"
	ContentTypeRichTextHTML ContentType = "richtext/html"
)

// isHTML reports whether content of this type is markup.
func (c ContentType) isHTML() bool {
	return c == ContentTypeHTML || c == ContentTypeRichTextHTML
}

// MessageStatus is the delivery status carried on the content container.
type MessageStatus string

// Known delivery statuses. Any other value is passed through.
const (
	StatusDelivering MessageStatus = "delivering"
	StatusDelivered  MessageStatus = "delivered"
	StatusSeen       MessageStatus = "seen"
	StatusFailed     MessageStatus = "failed"
)

// InlineImage describes an image attachment referenced from HTML content by id.
type InlineImage struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	URL        string `yaml:"url,omitempty"`
	PreviewURL string `yaml:"previewUrl,omitempty"`
}

// Message is one chat message. It is treated as immutable while rendering.
type Message struct {
	MessageID         string        `yaml:"messageId"`
	Content           string        `yaml:"content"`
	ContentType       ContentType   `yaml:"contentType"`
	SenderID          string        `yaml:"senderId,omitempty"`
	SenderDisplayName string        `yaml:"senderDisplayName,omitempty"`
	Mine              bool          `yaml:"mine,omitempty"`
	CreatedOn         time.Time     `yaml:"createdOn,omitempty"`
	EditedOn          time.Time     `yaml:"editedOn,omitempty"`
	Status            MessageStatus `yaml:"status,omitempty"`
	InlineImages      []InlineImage `yaml:"inlineImages,omitempty"`
}

// Edited reports whether the message carries an edit timestamp.
func (m Message) Edited() bool {
	return !m.EditedOn.IsZero()
}

// imageIDs returns the inline image ids in message order.
func (m Message) imageIDs() []string {
	ids := make([]string, len(m.InlineImages))
	for i, img := range m.InlineImages {
		ids[i] = img.ID
	}
	return ids
}

// BlockedMessage is a message withheld by data-loss-prevention policy.
// Nil pointer fields are absent.
type BlockedMessage struct {
	MessageID         string        `yaml:"messageId"`
	Mine              bool          `yaml:"mine,omitempty"`
	SenderDisplayName *string       `yaml:"senderDisplayName,omitempty"`
	Status            MessageStatus `yaml:"status,omitempty"`
	WarningText       *string       `yaml:"warningText,omitempty"`
	Link              *string       `yaml:"link,omitempty"`
	LinkText          *string       `yaml:"linkText,omitempty"`
}

// Strings is the localized text used by the renderer.
// Templates use {name} placeholders.
type Strings struct {
	LiveAuthorIntro            string `yaml:"liveAuthorIntro,omitempty"`
	MessageContentAriaText     string `yaml:"messageContentAriaText,omitempty"`
	MessageContentMineAriaText string `yaml:"messageContentMineAriaText,omitempty"`
	EditedTag                  string `yaml:"editedTag,omitempty"`
	BlockedWarningText         string `yaml:"blockedWarningText,omitempty"`
	BlockedWarningLinkText     string `yaml:"blockedWarningLinkText,omitempty"`
}

// DefaultStrings returns the English strings.
func DefaultStrings() Strings {
	return Strings{
		LiveAuthorIntro:            "{author} said",
		MessageContentAriaText:     "{author} said {message}",
		MessageContentMineAriaText: "You said {message}",
		EditedTag:                  "Edited",
		BlockedWarningText:         "This message was blocked due to sensitive information.",
		BlockedWarningLinkText:     "Learn more",
	}
}

// withDefaults fills empty fields from DefaultStrings.
func (s Strings) withDefaults() Strings {
	d := DefaultStrings()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.LiveAuthorIntro, d.LiveAuthorIntro)
	fill(&s.MessageContentAriaText, d.MessageContentAriaText)
	fill(&s.MessageContentMineAriaText, d.MessageContentMineAriaText)
	fill(&s.EditedTag, d.EditedTag)
	fill(&s.BlockedWarningText, d.BlockedWarningText)
	fill(&s.BlockedWarningLinkText, d.BlockedWarningLinkText)
	return s
}

// Features toggles optional renderer capabilities.
type Features struct {
	Mentions           bool `yaml:"mentions"`
	DataLossPrevention bool `yaml:"dataLossPrevention"`
}

// DefaultFeatures enables every feature.
func DefaultFeatures() Features {
	return Features{Mentions: true, DataLossPrevention: true}
}

// Render tree types shared with the pipeline.
type (
	Node            = pipeline.Node
	Event           = pipeline.Event
	EventType       = pipeline.EventType
	Mention         = pipeline.Mention
	MentionRenderer = pipeline.MentionRenderer
	Sanitizer       = pipeline.Sanitizer
)

// UI event types.
const (
	EventClick   = pipeline.EventClick
	EventKeyDown = pipeline.EventKeyDown
)

// MentionDisplayOptions customizes how mentions are rendered.
type MentionDisplayOptions struct {
	// OnRenderMention renders a mention. It receives the default renderer
	// and may delegate to it.
	OnRenderMention MentionRenderer
}

// DefaultMentionRender renders a mention as a styled span.
func DefaultMentionRender(m Mention) *Node {
	return pipeline.DefaultMentionRender(m)
}

// TextNode returns an escaped text node.
func TextNode(s string) *Node {
	return pipeline.Text(s)
}

// ElementNode returns an element built from tag, key/value attribute pairs
// and children.
func ElementNode(tag string, attrs []string, children ...*Node) *Node {
	return pipeline.Element(tag, pipeline.Attrs(attrs...), children...)
}
