package msgrender

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestComposer_SetContent(t *testing.T) {
	t.Parallel()

	var changes []string
	c := NewComposer(ComposerOptions{
		InitialContent: "<p>draft</p><script>steal()</script>",
		OnChange:       func(s string) { changes = append(changes, s) },
	})

	if got := c.Content(); got != "<p>draft</p>" {
		t.Fatalf("Content() = %q, want sanitized initial content", got)
	}
	if len(changes) != 0 {
		t.Errorf("OnChange called %d times during construction", len(changes))
	}

	if c.SetContent("<p>draft</p>") {
		t.Error("SetContent() with identical content reported a change")
	}
	if c.SetContent(`<p onclick="x()">draft</p>`) {
		t.Error("SetContent() that only differs by stripped markup reported a change")
	}
	if !c.SetContent("<p>draft <b>v2</b></p>") {
		t.Error("SetContent() with new content reported no change")
	}

	if len(changes) != 1 || changes[0] != "<p>draft <b>v2</b></p>" {
		t.Errorf("OnChange calls = %q, want one call with the new content", changes)
	}
}

func TestComposer_Placeholder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "", want: "Type a message"},
		{name: "blank paragraph", content: "<p> </p>", want: "Type a message"},
		{name: "text", content: "<p>hi</p>", want: ""},
		{name: "image only", content: `<img id="i1" src="https://x.test/a.png">`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewComposer(ComposerOptions{InitialContent: tt.content, Placeholder: "Type a message"})
			if got := c.Placeholder(); got != tt.want {
				t.Errorf("Placeholder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposer_SetMarkdown(t *testing.T) {
	t.Parallel()

	c := NewComposer(ComposerOptions{})
	if err := c.SetMarkdown(context.Background(), "**bold** and `code`"); err != nil {
		t.Fatalf("SetMarkdown() error = %v", err)
	}
	for _, want := range []string{"<strong>bold</strong>", "<code>code</code>"} {
		if !strings.Contains(c.Content(), want) {
			t.Errorf("Content() = %q, missing %q", c.Content(), want)
		}
	}
}

func TestComposer_SetMarkdownCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewComposer(ComposerOptions{InitialContent: "<p>keep</p>"})
	if err := c.SetMarkdown(ctx, "# new"); err == nil {
		t.Fatal("SetMarkdown() with cancelled context returned nil error")
	}
	if got := c.Content(); got != "<p>keep</p>" {
		t.Errorf("Content() = %q, want unchanged", got)
	}
}

func TestComposer_InlineImages(t *testing.T) {
	t.Parallel()

	changes := 0
	c := NewComposer(ComposerOptions{
		InitialContent: "<p>look</p>",
		OnChange:       func(string) { changes++ },
	})

	img := c.InsertInlineImage(InlineImage{Name: "cat.png", URL: "https://cdn.test/cat.png"})
	if _, err := uuid.Parse(img.ID); err != nil {
		t.Fatalf("InsertInlineImage() id %q is not a UUID: %v", img.ID, err)
	}
	if !strings.Contains(c.Content(), `id="`+img.ID+`"`) {
		t.Errorf("Content() = %q, missing inserted image", c.Content())
	}
	if changes != 1 {
		t.Errorf("OnChange calls = %d, want 1", changes)
	}

	kept := c.InsertInlineImage(InlineImage{ID: "fixed-id", PreviewURL: "https://cdn.test/dog-small.png"})
	if kept.ID != "fixed-id" {
		t.Errorf("InsertInlineImage() id = %q, want the given id", kept.ID)
	}

	images := c.InlineImages()
	if len(images) != 2 || images[0].ID != img.ID || images[1].ID != "fixed-id" {
		t.Fatalf("InlineImages() = %+v, want both images in order", images)
	}

	if !c.RemoveInlineImage(img.ID) {
		t.Fatal("RemoveInlineImage() = false for a pending image")
	}
	if strings.Contains(c.Content(), img.ID) {
		t.Errorf("Content() = %q, still references removed image", c.Content())
	}
	if c.RemoveInlineImage(img.ID) {
		t.Error("RemoveInlineImage() = true for an already removed image")
	}
	if got := c.InlineImages(); len(got) != 1 || got[0].ID != "fixed-id" {
		t.Errorf("InlineImages() = %+v, want only fixed-id", got)
	}

	// Images deleted in the editor are no longer reported.
	c.SetContent("<p>look</p>")
	if got := c.InlineImages(); len(got) != 0 {
		t.Errorf("InlineImages() = %+v, want none", got)
	}
}

func TestComposer_Focus(t *testing.T) {
	t.Parallel()

	c := NewComposer(ComposerOptions{})
	if c.Focused() {
		t.Error("new composer is focused")
	}
	c.Focus()
	if !c.Focused() {
		t.Error("Focused() = false after Focus()")
	}
	c.Blur()
	if c.Focused() {
		t.Error("Focused() = true after Blur()")
	}
}

func TestComposer_Message(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	c := NewComposer(ComposerOptions{
		InitialContent: "<p>hello</p>",
		Now:            func() time.Time { return now },
	})
	img := c.InsertInlineImage(InlineImage{URL: "https://cdn.test/a.png"})

	sender := CommunicationParticipant{UserID: "u1", DisplayName: "Alice"}
	msg := c.Message(sender)

	if _, err := uuid.Parse(msg.MessageID); err != nil {
		t.Errorf("MessageID %q is not a UUID: %v", msg.MessageID, err)
	}
	if msg.ContentType != ContentTypeHTML || !msg.Mine || msg.Status != StatusDelivering {
		t.Errorf("Message() = %+v, want own delivering html message", msg)
	}
	if msg.SenderID != "u1" || msg.SenderDisplayName != "Alice" {
		t.Errorf("sender = %q/%q, want u1/Alice", msg.SenderID, msg.SenderDisplayName)
	}
	if !msg.CreatedOn.Equal(now) {
		t.Errorf("CreatedOn = %v, want %v", msg.CreatedOn, now)
	}
	if len(msg.InlineImages) != 1 || msg.InlineImages[0].ID != img.ID {
		t.Errorf("InlineImages = %+v, want the inserted image", msg.InlineImages)
	}
	if next := c.Message(sender); next.MessageID == msg.MessageID {
		t.Error("Message() reused a message id")
	}

	// The composed message renders with its inline image wrapped.
	res := NewRenderer().Render(msg, RenderProps{})
	if !res.Node.Dispatch(Event{Type: EventClick, Target: img.ID}) {
		t.Error("inline image of composed message is not interactive")
	}
}

func TestComposer_Clear(t *testing.T) {
	t.Parallel()

	c := NewComposer(ComposerOptions{InitialContent: "<p>x</p>", Placeholder: "Type"})
	c.InsertInlineImage(InlineImage{URL: "https://cdn.test/a.png"})
	c.Clear()

	if c.Content() != "" || len(c.InlineImages()) != 0 {
		t.Errorf("after Clear() content = %q, images = %d", c.Content(), len(c.InlineImages()))
	}
	if c.Placeholder() != "Type" {
		t.Errorf("Placeholder() = %q after Clear()", c.Placeholder())
	}
}

// ---------------------------------------------------------------------------
// TestComposer_Concurrent - Edits from many goroutines are all kept
// ---------------------------------------------------------------------------

func TestComposer_ConcurrentInsert(t *testing.T) {
	t.Parallel()

	const writers = 32
	var mu sync.Mutex
	changes := 0
	c := NewComposer(ComposerOptions{OnChange: func(string) {
		mu.Lock()
		changes++
		mu.Unlock()
	}})

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.InsertInlineImage(InlineImage{URL: "https://cdn.test/a.png"})
		}()
	}
	wg.Wait()

	if got := strings.Count(c.Content(), "<img"); got != writers {
		t.Errorf("content has %d images, want %d", got, writers)
	}
	if got := len(c.InlineImages()); got != writers {
		t.Errorf("InlineImages() = %d, want %d", got, writers)
	}
	if changes != writers {
		t.Errorf("OnChange called %d times, want %d", changes, writers)
	}
}

func TestComposer_ConcurrentInsertRemove(t *testing.T) {
	t.Parallel()

	c := NewComposer(ComposerOptions{})
	var kept []InlineImage
	for range 8 {
		kept = append(kept, c.InsertInlineImage(InlineImage{URL: "https://cdn.test/kept.png"}))
	}
	var removed []InlineImage
	for range 8 {
		removed = append(removed, c.InsertInlineImage(InlineImage{URL: "https://cdn.test/gone.png"}))
	}

	var wg sync.WaitGroup
	for _, img := range removed {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if !c.RemoveInlineImage(img.ID) {
				t.Errorf("RemoveInlineImage(%s) = false", img.ID)
			}
		}()
		go func() {
			defer wg.Done()
			c.InsertInlineImage(InlineImage{URL: "https://cdn.test/new.png"})
		}()
	}
	wg.Wait()

	content := c.Content()
	for _, img := range kept {
		if !strings.Contains(content, img.ID) {
			t.Errorf("kept image %s lost", img.ID)
		}
	}
	for _, img := range removed {
		if strings.Contains(content, img.ID) {
			t.Errorf("removed image %s still present", img.ID)
		}
	}
	if got := strings.Count(content, "new.png"); got != len(removed) {
		t.Errorf("content has %d new images, want %d", got, len(removed))
	}
}
