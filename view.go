package msgrender

import (
	"context"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// AttachmentFetcher resolves inline images that have no URL yet.
// Implementations typically store results in an AttachmentURLs map.
type AttachmentFetcher interface {
	FetchAttachments(ctx context.Context, images []InlineImage, messageID string) error
}

// AttachmentFetcherFunc adapts a function to AttachmentFetcher.
type AttachmentFetcherFunc func(ctx context.Context, images []InlineImage, messageID string) error

// FetchAttachments calls f.
func (f AttachmentFetcherFunc) FetchAttachments(ctx context.Context, images []InlineImage, messageID string) error {
	return f(ctx, images, messageID)
}

// Politeness is the urgency of a live announcement.
type Politeness string

// PolitenessPolite waits for the user to be idle before announcing.
const PolitenessPolite Politeness = "polite"

// Announcer delivers live messages to assistive technology.
type Announcer interface {
	Announce(message string, politeness Politeness)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(message string, politeness Politeness)

// Announce calls f.
func (f AnnouncerFunc) Announce(message string, politeness Politeness) {
	f(message, politeness)
}

// AttachmentURLs is a concurrency-safe map from inline image id to URL.
// The last write for an id wins.
type AttachmentURLs struct {
	mu   sync.RWMutex
	urls map[string]string
}

// NewAttachmentURLs creates an empty map.
func NewAttachmentURLs() *AttachmentURLs {
	return &AttachmentURLs{urls: make(map[string]string)}
}

// Set records the URL for an image id.
func (a *AttachmentURLs) Set(id, url string) {
	a.mu.Lock()
	a.urls[id] = url
	a.mu.Unlock()
}

// Get returns the URL for an image id.
func (a *AttachmentURLs) Get(id string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	url, ok := a.urls[id]
	return url, ok
}

// Len returns the number of resolved images.
func (a *AttachmentURLs) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.urls)
}

// Snapshot returns a copy suitable for RenderProps.AttachmentURLs.
func (a *AttachmentURLs) Snapshot() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.urls)
}

// MetadataFetcher resolves inline images from the URLs already present in
// their metadata, preferring URL over PreviewURL.
type MetadataFetcher struct {
	URLs *AttachmentURLs
}

// FetchAttachments stores the metadata URL of every image that has one.
func (f MetadataFetcher) FetchAttachments(ctx context.Context, images []InlineImage, _ string) error {
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case img.URL != "":
			f.URLs.Set(img.ID, img.URL)
		case img.PreviewURL != "":
			f.URLs.Set(img.ID, img.PreviewURL)
		}
	}
	return nil
}

// viewSnapshot is the set of inputs that re-triggers attachment fetching.
type viewSnapshot struct {
	messageID  string
	imageIDs   []string
	urlKeys    []string
	hasFetcher bool
}

func (s viewSnapshot) equal(o viewSnapshot) bool {
	return s.messageID == o.messageID &&
		slices.Equal(s.imageIDs, o.imageIDs) &&
		slices.Equal(s.urlKeys, o.urlKeys) &&
		s.hasFetcher == o.hasFetcher
}

// ContentView is one mounted message content instance. Re-rendering with
// changed inputs requests the still-unresolved inline images once.
type ContentView struct {
	renderer  *Renderer
	announcer Announcer
	run       func(func())
	logger    *zap.Logger

	mu            sync.Mutex
	last          *viewSnapshot
	lastAnnounced string
}

// ViewOption configures a ContentView.
type ViewOption func(*ContentView)

// WithAnnouncer sets the live-message announcer.
func WithAnnouncer(a Announcer) ViewOption {
	return func(v *ContentView) {
		v.announcer = a
	}
}

// WithEffectRunner sets how fetch requests are scheduled.
// The default runs each request on its own goroutine.
func WithEffectRunner(run func(func())) ViewOption {
	return func(v *ContentView) {
		if run != nil {
			v.run = run
		}
	}
}

// RunInline runs effects synchronously in the rendering goroutine.
func RunInline(effect func()) {
	effect()
}

// NewContentView creates a view rendering with r.
func NewContentView(r *Renderer, opts ...ViewOption) *ContentView {
	v := &ContentView{
		renderer: r,
		run:      func(effect func()) { go effect() },
		logger:   r.logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Render renders msg, scheduling an attachment fetch when the inputs changed
// and some inline images are unresolved.
func (v *ContentView) Render(ctx context.Context, msg Message, props RenderProps) *Result {
	if msg.ContentType.isHTML() {
		v.syncAttachments(ctx, msg, props)
	}

	res := v.renderer.Render(msg, props)
	v.announce(res.LiveMessage)
	return res
}

// syncAttachments is the change-triggered fetch effect.
func (v *ContentView) syncAttachments(ctx context.Context, msg Message, props RenderProps) {
	snap := viewSnapshot{
		messageID:  msg.MessageID,
		imageIDs:   msg.imageIDs(),
		urlKeys:    slices.Sorted(maps.Keys(props.AttachmentURLs)),
		hasFetcher: props.OnFetchAttachments != nil,
	}

	v.mu.Lock()
	changed := v.last == nil || !v.last.equal(snap)
	v.last = &snap
	v.mu.Unlock()
	if !changed || props.OnFetchAttachments == nil || props.AttachmentURLs == nil {
		return
	}

	var unresolved []InlineImage
	for _, img := range msg.InlineImages {
		if _, ok := props.AttachmentURLs[img.ID]; !ok {
			unresolved = append(unresolved, img)
		}
	}
	if len(unresolved) == 0 {
		return
	}

	fetcher := props.OnFetchAttachments
	fetchCtx := context.WithoutCancel(ctx)
	v.logger.Debug("fetching inline images",
		zap.String("message_id", msg.MessageID),
		zap.Int("count", len(unresolved)),
	)
	v.run(func() {
		if err := fetcher.FetchAttachments(fetchCtx, unresolved, msg.MessageID); err != nil {
			v.logger.Warn("inline image fetch failed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}
	})
}

// announce pushes a changed live message to the announcer.
func (v *ContentView) announce(live string) {
	if v.announcer == nil || live == "" {
		return
	}
	v.mu.Lock()
	if live == v.lastAnnounced {
		v.mu.Unlock()
		return
	}
	v.lastAnnounced = live
	v.mu.Unlock()
	v.announcer.Announce(live, PolitenessPolite)
}
