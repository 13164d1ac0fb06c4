package msgrender

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-msgrender/internal/pipeline"
)

// MarkdownConverter converts Markdown to an HTML fragment.
type MarkdownConverter = pipeline.MarkdownConverter

// ComposerOptions configures a Composer.
type ComposerOptions struct {
	// InitialContent is the starting HTML. It is sanitized like any edit.
	InitialContent string
	// Placeholder is shown while the content is empty.
	Placeholder string
	// OnChange receives the sanitized content after every change.
	OnChange func(content string)
	// Sanitizer defaults to the bluemonday rich-text policy.
	Sanitizer Sanitizer
	// Markdown defaults to goldmark with GFM and highlighting.
	Markdown MarkdownConverter
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Composer holds the state of a rich-text message editor: sanitized HTML
// content, pending inline images and focus.
// A Composer is safe for concurrent use.
type Composer struct {
	sanitizer   Sanitizer
	markdown    MarkdownConverter
	logger      *zap.Logger
	now         func() time.Time
	placeholder string
	onChange    func(string)

	mu      sync.Mutex
	content string
	images  []InlineImage
	focused bool
}

// NewComposer creates a Composer.
func NewComposer(opts ComposerOptions) *Composer {
	c := &Composer{
		sanitizer:   opts.Sanitizer,
		markdown:    opts.Markdown,
		logger:      opts.Logger,
		now:         opts.Now,
		placeholder: opts.Placeholder,
		onChange:    opts.OnChange,
	}
	if c.sanitizer == nil {
		c.sanitizer = pipeline.NewBluemondaySanitizer()
	}
	if c.markdown == nil {
		c.markdown = pipeline.NewGoldmarkConverter()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.content = c.sanitizer.RichText(opts.InitialContent)
	return c
}

// Content returns the sanitized HTML content.
func (c *Composer) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// IsEmpty reports whether the content has neither text nor images.
func (c *Composer) IsEmpty() bool {
	content := c.Content()
	return strings.TrimSpace(pipeline.ExtractText(content)) == "" && len(pipeline.ImageIDs(content)) == 0
}

// Placeholder returns the placeholder while the content is empty, "" otherwise.
func (c *Composer) Placeholder() string {
	if c.IsEmpty() {
		return c.placeholder
	}
	return ""
}

// SetContent replaces the content with sanitized HTML. OnChange is called
// only when the sanitized content differs. Reports whether it changed.
func (c *Composer) SetContent(content string) bool {
	return c.edit(func(string) (string, bool) { return content, true })
}

// edit applies fn to the current content and stores the sanitized result.
// The read, the sanitization and the write happen under one lock; fn may
// also update pending images. fn returns false to leave the content as is.
// OnChange runs after the lock is released.
func (c *Composer) edit(fn func(current string) (string, bool)) bool {
	c.mu.Lock()
	next, ok := fn(c.content)
	if !ok {
		c.mu.Unlock()
		return false
	}
	clean := c.sanitizer.RichText(next)
	if clean == c.content {
		c.mu.Unlock()
		return false
	}
	c.content = clean
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(clean)
	}
	return true
}

// SetMarkdown converts markdown to HTML and sets it as the content.
func (c *Composer) SetMarkdown(ctx context.Context, markdown string) error {
	rendered, err := c.markdown.ToHTML(ctx, markdown)
	if err != nil {
		return err
	}
	c.SetContent(rendered)
	return nil
}

// InsertInlineImage appends img to the content. An empty id is replaced by a
// new UUID. Returns the inserted image.
func (c *Composer) InsertInlineImage(img InlineImage) InlineImage {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	attrs := []string{"id", img.ID}
	if img.Name != "" {
		attrs = append(attrs, "name", img.Name)
	}
	switch {
	case img.URL != "":
		attrs = append(attrs, "src", img.URL)
	case img.PreviewURL != "":
		attrs = append(attrs, "src", img.PreviewURL)
	}
	tag := pipeline.Element("img", pipeline.Attrs(attrs...)).HTML()

	c.edit(func(current string) (string, bool) {
		c.images = append(c.images, img)
		return current + tag, true
	})
	c.logger.Debug("inline image inserted", zap.String("image_id", img.ID))
	return img
}

// RemoveInlineImage removes the image with id from the content and the
// pending images. Reports whether it was pending.
func (c *Composer) RemoveInlineImage(id string) bool {
	pending := false
	c.edit(func(current string) (string, bool) {
		i := slices.IndexFunc(c.images, func(img InlineImage) bool { return img.ID == id })
		if i < 0 {
			return "", false
		}
		pending = true
		c.images = slices.Delete(c.images, i, i+1)
		node, err := pipeline.New(pipeline.NewImageRemovalRule(id)).Process(current)
		if err != nil {
			c.logger.Warn("inline image removal failed", zap.String("image_id", id), zap.Error(err))
			return "", false
		}
		return node.HTML(), true
	})
	return pending
}

// InlineImages returns the pending images still referenced by the content.
func (c *Composer) InlineImages() []InlineImage {
	c.mu.Lock()
	images := slices.Clone(c.images)
	content := c.content
	c.mu.Unlock()

	ids := pipeline.ImageIDs(content)
	return slices.DeleteFunc(images, func(img InlineImage) bool {
		return !slices.Contains(ids, img.ID)
	})
}

// Focus moves input focus to the editor.
func (c *Composer) Focus() {
	c.mu.Lock()
	c.focused = true
	c.mu.Unlock()
}

// Blur removes input focus from the editor.
func (c *Composer) Blur() {
	c.mu.Lock()
	c.focused = false
	c.mu.Unlock()
}

// Focused reports whether the editor has input focus.
func (c *Composer) Focused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

// Clear empties the content and drops pending images.
func (c *Composer) Clear() {
	c.edit(func(string) (string, bool) {
		c.images = nil
		return "", true
	})
}

// Message builds an outgoing HTML message from the current content.
func (c *Composer) Message(sender CommunicationParticipant) Message {
	return Message{
		MessageID:         uuid.NewString(),
		Content:           c.Content(),
		ContentType:       ContentTypeHTML,
		SenderID:          sender.UserID,
		SenderDisplayName: sender.DisplayName,
		Mine:              true,
		CreatedOn:         c.now(),
		Status:            StatusDelivering,
		InlineImages:      c.InlineImages(),
	}
}
