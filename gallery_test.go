package msgrender

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
}

func newTestGallery(t *testing.T, r *Renderer, opts ...GalleryOption) *Gallery {
	t.Helper()

	opts = append([]GalleryOption{WithGalleryClock(fixedClock)}, opts...)
	g, err := NewGallery(r, opts...)
	if err != nil {
		t.Fatalf("NewGallery() error = %v", err)
	}
	return g
}

func sampleStories() []Story {
	raised := &RaisedHand{OrderPosition: 1}
	return []Story{
		{
			Name:        "First Story",
			Description: "Renders **plain** text.",
			Messages: []Message{
				{
					MessageID: "m1", Content: "hello", ContentType: ContentTypeText, SenderDisplayName: "Alice",
					CreatedOn: time.Date(2026, 10, 19, 8, 15, 0, 0, time.UTC),
					EditedOn:  time.Date(2026, 10, 19, 8, 20, 0, 0, time.UTC),
				},
				{MessageID: "m2", Content: "<p>mine</p>", ContentType: ContentTypeHTML, Mine: true},
			},
			Source:   "func main() {}",
			Language: "go",
		},
		{
			Name: "Inline images",
			Messages: []Message{{
				MessageID: "m3", ContentType: ContentTypeHTML, SenderDisplayName: "Bob",
				Content:      `<p><img id="i1" src="blob:1"></p>`,
				InlineImages: []InlineImage{{ID: "i1", Name: "full.png", URL: "https://cdn.test/full.png"}},
			}},
			Blocked: []BlockedMessage{{
				MessageID: "b1", SenderDisplayName: ptr("Carol"), Link: ptr("https://help.test/dlp"),
			}},
		},
		{
			Name: "Roster",
			Participants: []CallParticipantListParticipant{
				participant("alice", StateConnected),
				func() CallParticipantListParticipant {
					p := participant("bob", StateConnected)
					p.RaisedHand = raised
					p.IsMuted = true
					return p
				}(),
			},
			Environment: &EnvironmentInfo{IsSupportedPlatform: true},
		},
	}
}

func TestGallery_Render(t *testing.T) {
	t.Parallel()

	g := newTestGallery(t, NewRenderer())
	doc, err := g.Render(context.Background(), sampleStories())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{name: "title", want: "<title>" + DefaultGalleryTitle + "</title>"},
		{name: "generated date", want: "Generated October 19, 2026"},
		{name: "index", want: `<nav class="index">`},
		{name: "index entry", want: `href="#first-story-title"`},
		{name: "source sub entry", want: `href="#first-story-source"`},
		{name: "markdown description", want: "<strong>plain</strong>"},
		{name: "text message aria", want: `aria-label="Alice said hello"`},
		{name: "own message", want: `class="message message-mine"`},
		{name: "own author", want: `<div class="message-author">You</div>`},
		{name: "message time", want: `<div class="message-time">8:15 AM (edited)</div>`},
		{name: "resolved inline image", want: `src="https://cdn.test/full.png"`},
		{name: "wrapped inline image", want: `<span data-ui-id="i1" role="button"`},
		{name: "blocked message", want: `data-ui-id="blocked-message"`},
		{name: "blocked link", want: `href="https://help.test/dlp"`},
		{name: "roster flags", want: "<td>muted, hand 1</td>"},
		{name: "gate page", want: `data-ui-id="unsupported-browser"`},
		{name: "highlighted source", want: `class="chroma"`},
		{name: "injected style", want: "<style>"},
		{name: "gallery style", want: ".story"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.Contains(doc, tt.want) {
				t.Errorf("Render() missing %q", tt.want)
			}
		})
	}

	if strings.Index(doc, "<td>bob</td>") > strings.Index(doc, "<td>alice</td>") {
		t.Error("Render() roster not ordered by raised hand")
	}
	if strings.Contains(doc, "blob:1") {
		t.Error("Render() kept the unresolved image source")
	}
}

func TestGallery_RenderEmpty(t *testing.T) {
	t.Parallel()

	g := newTestGallery(t, NewRenderer())
	if _, err := g.Render(context.Background(), nil); !errors.Is(err, ErrEmptyGallery) {
		t.Errorf("Render(nil) error = %v, want ErrEmptyGallery", err)
	}
}

func TestGallery_Options(t *testing.T) {
	t.Parallel()

	g := newTestGallery(t, NewRenderer(),
		WithGalleryTitle("Team gallery"),
		WithGalleryDate(""),
		WithIndexTitle(""),
	)
	doc, err := g.Render(context.Background(), []Story{{Name: "Only"}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(doc, "<h1>Team gallery</h1>") {
		t.Error("Render() ignored the custom title")
	}
	if strings.Contains(doc, "Generated") {
		t.Error("Render() shows a date with WithGalleryDate(\"\")")
	}
	if strings.Contains(doc, `class="index"`) {
		t.Error("Render() shows an index with WithIndexTitle(\"\")")
	}
}

func TestGallery_SupportedEnvironmentHasNoGate(t *testing.T) {
	t.Parallel()

	g := newTestGallery(t, NewRenderer())
	doc, err := g.Render(context.Background(), []Story{{
		Name:        "Supported",
		Environment: &EnvironmentInfo{IsSupportedPlatform: true, IsSupportedBrowser: true, IsSupportedBrowserVersion: true},
	}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(doc, `<div class="story-gate">`) {
		t.Error("Render() shows a gate for a supported environment")
	}
}

func TestGallery_BlockedFeatureDisabled(t *testing.T) {
	t.Parallel()

	r := NewRenderer(WithFeatures(Features{Mentions: true}))
	g := newTestGallery(t, r)
	doc, err := g.Render(context.Background(), []Story{{
		Name:    "Blocked",
		Blocked: []BlockedMessage{{MessageID: "b1"}},
	}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(doc, "blocked-message") {
		t.Error("Render() shows a blocked message with the feature disabled")
	}
}

func TestGallery_InvalidParticipant(t *testing.T) {
	t.Parallel()

	g := newTestGallery(t, NewRenderer())
	_, err := g.Render(context.Background(), []Story{{
		Name:         "Broken roster",
		Participants: []CallParticipantListParticipant{participant("", StateConnected)},
	}})
	if !errors.Is(err, ErrInvalidParticipant) {
		t.Errorf("Render() error = %v, want ErrInvalidParticipant", err)
	}
	if err != nil && !strings.Contains(err.Error(), "Broken roster") {
		t.Errorf("Render() error = %v, want story name in message", err)
	}
}

func TestGallery_RenderCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newTestGallery(t, NewRenderer())
	if _, err := g.Render(ctx, sampleStories()); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestNewGallery_InvalidAssetPath(t *testing.T) {
	t.Parallel()

	_, err := NewGallery(NewRenderer(), WithGalleryAssetPath("/nonexistent/gallery/assets"))
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewGallery() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestSlugger(t *testing.T) {
	t.Parallel()

	s := newSlugger()
	tests := []struct {
		name string
		want string
	}{
		{name: "First Story!", want: "first-story"},
		{name: "first   story", want: "first-story-2"},
		{name: "!!!", want: "story"},
		{name: "", want: "story-2"},
		{name: "Café 2", want: "caf-2"},
	}
	for _, tt := range tests {
		if got := s.slug(tt.name); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
