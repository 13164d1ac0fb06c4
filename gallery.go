package msgrender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-msgrender/internal/assets"
	"github.com/alnah/go-msgrender/internal/dateutil"
	"github.com/alnah/go-msgrender/internal/pipeline"
)

// Story is one documented scenario of the gallery.
type Story struct {
	Name         string                           `yaml:"name"`
	Description  string                           `yaml:"description,omitempty"` // Markdown
	Source       string                           `yaml:"source,omitempty"`
	Language     string                           `yaml:"language,omitempty"`
	Messages     []Message                        `yaml:"messages,omitempty"`
	Blocked      []BlockedMessage                 `yaml:"blocked,omitempty"`
	Participants []CallParticipantListParticipant `yaml:"participants,omitempty"`
	Environment  *EnvironmentInfo                 `yaml:"environment,omitempty"`
}

// Gallery defaults.
const (
	DefaultGalleryTitle = "Message rendering gallery"
	DefaultGalleryDate  = "auto:long"
	DefaultIndexTitle   = "Stories"
)

// galleryConfig holds NewGallery options.
type galleryConfig struct {
	title          string
	date           string
	indexTitle     string
	highlightStyle string
	assetPath      string
	gate           *Gate
	now            func() time.Time
}

// GalleryOption configures a Gallery.
type GalleryOption func(*galleryConfig)

// WithGalleryTitle sets the document title.
func WithGalleryTitle(title string) GalleryOption {
	return func(c *galleryConfig) {
		c.title = title
	}
}

// WithGalleryDate sets the generation date shown in the header. Values use
// the "auto" and "auto:FORMAT" syntax; "" hides the date.
func WithGalleryDate(value string) GalleryOption {
	return func(c *galleryConfig) {
		c.date = value
	}
}

// WithIndexTitle sets the title of the story index; "" hides the index.
func WithIndexTitle(title string) GalleryOption {
	return func(c *galleryConfig) {
		c.indexTitle = title
	}
}

// WithHighlightStyle sets the chroma style used for story sources.
func WithHighlightStyle(style string) GalleryOption {
	return func(c *galleryConfig) {
		c.highlightStyle = style
	}
}

// WithGalleryAssetPath loads the gallery layout and style from a custom
// directory first, falling back to the embedded assets.
func WithGalleryAssetPath(path string) GalleryOption {
	return func(c *galleryConfig) {
		c.assetPath = path
	}
}

// WithGalleryGate sets the gate used for story environments.
func WithGalleryGate(g *Gate) GalleryOption {
	return func(c *galleryConfig) {
		c.gate = g
	}
}

// WithGalleryClock sets the clock used for the generation date.
func WithGalleryClock(now func() time.Time) GalleryOption {
	return func(c *galleryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Gallery renders stories into one standalone HTML document.
type Gallery struct {
	renderer    *Renderer
	gate        *Gate
	markdown    MarkdownConverter
	highlighter *pipeline.SourceHighlighter
	injector    pipeline.StyleInjector
	layout      *template.Template
	style       string
	cfg         galleryConfig
	logger      *zap.Logger
}

type galleryPage struct {
	Title     string
	Generated string
	Stories   []storySection
}

type storySection struct {
	ID           string
	Name         string
	Description  template.HTML
	Messages     []messageSection
	Participants []participantRow
	Gate         template.HTML
	Source       template.HTML
}

type messageSection struct {
	ID          string
	Author      string
	Body        template.HTML
	LiveMessage string
	Time        string
	Edited      bool
	Mine        bool
}

type participantRow struct {
	Name  string
	State string
	Flags string
}

// NewGallery loads the gallery layout and style.
func NewGallery(r *Renderer, opts ...GalleryOption) (*Gallery, error) {
	cfg := galleryConfig{
		title:          DefaultGalleryTitle,
		date:           DefaultGalleryDate,
		indexTitle:     DefaultIndexTitle,
		highlightStyle: pipeline.DefaultHighlightStyle,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	resolver, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	layoutSrc, err := resolver.LoadTemplate(assets.GalleryTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading gallery layout: %w", err)
	}
	layout, err := template.New(assets.GalleryTemplate).Parse(layoutSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing layout: %v", ErrGalleryRender, err)
	}
	style, err := resolver.LoadStyle(assets.GalleryStyle)
	if err != nil {
		return nil, fmt.Errorf("loading gallery style: %w", err)
	}

	gate := cfg.gate
	if gate == nil {
		if gate, err = NewGate(WithGateAssetPath(cfg.assetPath)); err != nil {
			return nil, err
		}
	}

	return &Gallery{
		renderer:    r,
		gate:        gate,
		markdown:    pipeline.NewGoldmarkConverter(),
		highlighter: pipeline.NewSourceHighlighter(cfg.highlightStyle),
		injector:    pipeline.StyleInjection{},
		layout:      layout,
		style:       style,
		cfg:         cfg,
		logger:      r.logger,
	}, nil
}

// Render renders stories into a standalone HTML document.
func (g *Gallery) Render(ctx context.Context, stories []Story) (string, error) {
	if len(stories) == 0 {
		return "", ErrEmptyGallery
	}

	page := galleryPage{Title: g.cfg.title}
	if g.cfg.date != "" {
		generated, err := dateutil.ResolveDate(g.cfg.date, g.cfg.now())
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGalleryRender, err)
		}
		page.Generated = generated
	}

	ids := newSlugger()
	for _, story := range stories {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		section, err := g.renderStory(ctx, story, ids.slug(story.Name))
		if err != nil {
			return "", fmt.Errorf("story %q: %w", story.Name, err)
		}
		page.Stories = append(page.Stories, section)
	}

	var buf bytes.Buffer
	if err := g.layout.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGalleryRender, err)
	}
	doc := buf.String()

	if g.cfg.indexTitle != "" {
		var err error
		if doc, err = pipeline.InjectIndex(ctx, doc, g.cfg.indexTitle, 2, 3); err != nil {
			return "", err
		}
	}

	css, err := g.styles()
	if err != nil {
		return "", err
	}
	doc = g.injector.InjectCSS(ctx, doc, css)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return doc, nil
}

// styles combines the gallery, gate and code highlighting stylesheets.
func (g *Gallery) styles() (string, error) {
	codeCSS, err := g.highlighter.CSS()
	if err != nil {
		return "", err
	}
	return g.style + "\n" + g.gate.Style() + "\n" + codeCSS, nil
}

// renderStory renders one story section.
func (g *Gallery) renderStory(ctx context.Context, story Story, id string) (storySection, error) {
	section := storySection{ID: id, Name: story.Name}

	if story.Description != "" {
		desc, err := g.markdown.ToHTML(ctx, story.Description)
		if err != nil {
			return section, err
		}
		section.Description = template.HTML(desc) // #nosec G203 -- goldmark output without raw HTML
	}

	for _, msg := range story.Messages {
		res := g.renderMessage(ctx, msg)
		section.Messages = append(section.Messages, messageSection{
			ID:          msg.MessageID,
			Author:      authorLabel(msg.Mine, msg.SenderDisplayName),
			Body:        template.HTML(res.HTML()), // #nosec G203 -- rendered through the pipeline
			LiveMessage: res.LiveMessage,
			Time:        dateutil.MessageTime(msg.CreatedOn, g.cfg.now()),
			Edited:      msg.Edited(),
			Mine:        msg.Mine,
		})
	}

	for _, blocked := range story.Blocked {
		res, err := g.renderer.RenderBlocked(blocked)
		if errors.Is(err, ErrFeatureDisabled) {
			g.logger.Info("blocked message skipped", zap.String("message_id", blocked.MessageID))
			continue
		}
		if err != nil {
			return section, err
		}
		var name string
		if blocked.SenderDisplayName != nil {
			name = *blocked.SenderDisplayName
		}
		section.Messages = append(section.Messages, messageSection{
			ID:          blocked.MessageID,
			Author:      authorLabel(blocked.Mine, name),
			Body:        template.HTML(res.HTML()), // #nosec G203 -- built from text nodes
			LiveMessage: res.LiveMessage,
			Mine:        blocked.Mine,
		})
	}

	for _, p := range OrderByRaisedHand(story.Participants) {
		if err := p.Validate(); err != nil {
			return section, err
		}
		section.Participants = append(section.Participants, participantRow{
			Name:  p.DisplayName,
			State: string(p.State),
			Flags: p.Flags(),
		})
	}

	if story.Environment != nil {
		gate, err := g.gate.Render(story.Environment)
		switch {
		case errors.Is(err, ErrEnvironmentSupported):
		case err != nil:
			return section, err
		default:
			section.Gate = template.HTML(gate) // #nosec G203 -- html/template output
		}
	}

	if story.Source != "" {
		src, err := g.highlighter.Highlight(story.Source, story.Language)
		if err != nil {
			return section, err
		}
		section.Source = template.HTML(src) // #nosec G203 -- chroma escapes tokens
	}
	return section, nil
}

// renderMessage renders msg through a content view whose inline images are
// resolved from their metadata URLs.
func (g *Gallery) renderMessage(ctx context.Context, msg Message) *Result {
	urls := NewAttachmentURLs()
	view := NewContentView(g.renderer, WithEffectRunner(RunInline))
	props := RenderProps{
		AttachmentURLs:     urls.Snapshot(),
		OnFetchAttachments: MetadataFetcher{URLs: urls},
	}
	res := view.Render(ctx, msg, props)
	if urls.Len() == 0 {
		return res
	}
	props.AttachmentURLs = urls.Snapshot()
	return view.Render(ctx, msg, props)
}

// authorLabel returns the visible author of a message.
func authorLabel(mine bool, name string) string {
	if mine {
		return "You"
	}
	return name
}

// slugger derives unique element ids from story names.
type slugger struct {
	seen map[string]int
}

func newSlugger() *slugger {
	return &slugger{seen: make(map[string]int)}
}

// slug lowercases name and replaces runs of other characters with hyphens.
// Repeated slugs get a numeric suffix.
func (s *slugger) slug(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	base := strings.TrimSuffix(b.String(), "-")
	if base == "" {
		base = "story"
	}
	s.seen[base]++
	if n := s.seen[base]; n > 1 {
		return base + "-" + strconv.Itoa(n)
	}
	return base
}
