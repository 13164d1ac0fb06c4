package pipeline

import (
	"testing"
)

func TestImageRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		cfg      ImageRuleConfig
		expected string
	}{
		{
			name:  "known image with resolved URL",
			input: `<img id="i1" src="blob.png" name="cat.png">`,
			cfg: ImageRuleConfig{
				KnownIDs: map[string]bool{"i1": true},
				URLs:     map[string]string{"i1": "https://cdn.test/cat.png"},
			},
			expected: `<span data-ui-id="i1" role="button" tabindex="0" style="cursor: pointer">` +
				`<img id="i1" src="https://cdn.test/cat.png" name="cat.png" aria-label="cat.png"/></span>`,
		},
		{
			name:  "known image without resolved URL keeps src",
			input: `<img id="i1" src="blob.png" alt="a cat">`,
			cfg: ImageRuleConfig{
				KnownIDs: map[string]bool{"i1": true},
			},
			expected: `<span data-ui-id="i1" role="button" tabindex="0" style="cursor: pointer">` +
				`<img id="i1" src="blob.png" alt="a cat" aria-label="a cat"/></span>`,
		},
		{
			name:  "known image without label",
			input: `<img id="i1">`,
			cfg: ImageRuleConfig{
				KnownIDs: map[string]bool{"i1": true},
				URLs:     map[string]string{"i1": "u.png"},
			},
			expected: `<span data-ui-id="i1" role="button" tabindex="0" style="cursor: pointer">` +
				`<img id="i1" src="u.png"/></span>`,
		},
		{
			name:  "unknown image uses the default rendering",
			input: `<img id="other" src="x.png">`,
			cfg: ImageRuleConfig{
				KnownIDs: map[string]bool{"i1": true},
			},
			expected: `<img id="other" src="x.png"/>`,
		},
		{
			name:     "image without id uses the default rendering",
			input:    `<img src="x.png">`,
			cfg:      ImageRuleConfig{KnownIDs: map[string]bool{"": true}},
			expected: `<img src="x.png"/>`,
		},
		{
			name:  "event handlers on known images are dropped",
			input: `<img id="i1" onload="x()">`,
			cfg: ImageRuleConfig{
				KnownIDs: map[string]bool{"i1": true},
			},
			expected: `<span data-ui-id="i1" role="button" tabindex="0" style="cursor: pointer"><img id="i1"/></span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := New(NewImageRule(tt.cfg)).Process(tt.input)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if got := tree.HTML(); got != tt.expected {
				t.Errorf("HTML() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestImageRule_Activation(t *testing.T) {
	t.Parallel()

	var clicked []string
	rule := NewImageRule(ImageRuleConfig{
		KnownIDs: map[string]bool{"i1": true, "i2": true},
		OnClick:  func(id string) { clicked = append(clicked, id) },
	})
	tree, err := New(rule).Process(`<p><img id="i1"><img id="i2"></p>`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	tree.Dispatch(Event{Type: EventClick, Target: "i2"})
	tree.Dispatch(Event{Type: EventKeyDown, Key: "Enter", Target: "i1"})
	tree.Dispatch(Event{Type: EventKeyDown, Key: "Tab", Target: "i1"})

	if len(clicked) != 2 || clicked[0] != "i2" || clicked[1] != "i1" {
		t.Errorf("clicked = %v, want [i2 i1]", clicked)
	}
}

func TestImageRule_NilCallback(t *testing.T) {
	t.Parallel()

	tree, err := New(NewImageRule(ImageRuleConfig{KnownIDs: map[string]bool{"i1": true}})).Process(`<img id="i1">`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !tree.Dispatch(Event{Type: EventClick, Target: "i1"}) {
		t.Error("Dispatch() = false, want true for the interactive wrapper")
	}
}

func TestNewMentionRule_NilRenderer(t *testing.T) {
	t.Parallel()

	if _, ok := NewMentionRule(nil); ok {
		t.Error("NewMentionRule(nil) ok = true, want false")
	}

	tree, err := New().Process(`<msft-mention id="u1">Alice</msft-mention>`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	want := `<msft-mention id="u1">Alice</msft-mention>`
	if got := tree.HTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestMentionRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		render   MentionRenderer
		expected string
	}{
		{
			name:  "delegates to the default renderer",
			input: `<p>hi <msft-mention id="u1">Alice</msft-mention></p>`,
			render: func(m Mention, def func(Mention) *Node) *Node {
				return def(m)
			},
			expected: `<p>hi <span class="msft-mention" data-ui-id="mention-u1">Alice</span></p>`,
		},
		{
			name:  "custom rendering",
			input: `<msft-mention id="u1">Alice</msft-mention>`,
			render: func(m Mention, _ func(Mention) *Node) *Node {
				return Element("strong", Attrs("data-user", m.ID), Text("@"+m.DisplayText))
			},
			expected: `<strong data-user="u1">@Alice</strong>`,
		},
		{
			name:  "nil result falls back to the default",
			input: `<msft-mention id="u2">Bob</msft-mention>`,
			render: func(Mention, func(Mention) *Node) *Node {
				return nil
			},
			expected: `<span class="msft-mention" data-ui-id="mention-u2">Bob</span>`,
		},
		{
			name:  "mention without text",
			input: `<msft-mention id="u3"></msft-mention>`,
			render: func(m Mention, def func(Mention) *Node) *Node {
				return def(m)
			},
			expected: `<span class="msft-mention" data-ui-id="mention-u3"></span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule, ok := NewMentionRule(tt.render)
			if !ok {
				t.Fatal("NewMentionRule() ok = false")
			}
			tree, err := New(rule).Process(tt.input)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if got := tree.HTML(); got != tt.expected {
				t.Errorf("HTML() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMentionRule_ReceivesMention(t *testing.T) {
	t.Parallel()

	var got Mention
	rule, _ := NewMentionRule(func(m Mention, def func(Mention) *Node) *Node {
		got = m
		return def(m)
	})
	if _, err := New(rule).Process(`<msft-mention id="8:acs:42">Jane Doe</msft-mention>`); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if want := (Mention{ID: "8:acs:42", DisplayText: "Jane Doe"}); got != want {
		t.Errorf("mention = %+v, want %+v", got, want)
	}
}

func TestImageRemovalRule(t *testing.T) {
	t.Parallel()

	p := New(NewImageRemovalRule("gone"))
	got, err := p.Process(`<p>a<img id="gone" src="x.png">b<img id="kept"></p>`)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	expected := `<p>ab<img id="kept"/></p>`
	if html := got.HTML(); html != expected {
		t.Errorf("HTML() = %q, want %q", html, expected)
	}
}
