package pipeline

import (
	"slices"
	"testing"
)

func TestFormatString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		values   map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			template: "{author} said",
			values:   map[string]string{"author": "Alice"},
			expected: "Alice said",
		},
		{
			name:     "two placeholders",
			template: "{author} said {message}",
			values:   map[string]string{"author": "Alice", "message": "hi"},
			expected: "Alice said hi",
		},
		{
			name:     "missing value formats as empty",
			template: "{author} said {message}",
			values:   map[string]string{"message": "hi"},
			expected: " said hi",
		},
		{
			name:     "nil values",
			template: "You said {message}",
			values:   nil,
			expected: "You said ",
		},
		{
			name:     "no placeholders",
			template: "Edited",
			values:   map[string]string{"author": "x"},
			expected: "Edited",
		},
		{
			name:     "values are not re-expanded",
			template: "{message}",
			values:   map[string]string{"message": "{author}", "author": "Bob"},
			expected: "{author}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatString(tt.template, tt.values); got != tt.expected {
				t.Errorf("FormatString(%q) = %q, want %q", tt.template, got, tt.expected)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "plain", input: "hello", expected: "hello"},
		{name: "nested markup", input: "<p>Hello <b>world</b></p>", expected: "Hello world"},
		{name: "entities decoded", input: "a &amp; b", expected: "a & b"},
		{name: "script skipped", input: "<script>x()</script>hi", expected: "hi"},
		{name: "comments skipped", input: "a<!-- c -->b", expected: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractText(tt.input); got != tt.expected {
				t.Errorf("ExtractText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLinkifier_Linkify(t *testing.T) {
	t.Parallel()

	l := NewLinkifier()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "no links",
			input:    "just words",
			expected: "just words",
		},
		{
			name:     "URL with scheme",
			input:    "see https://go.dev/doc now",
			expected: `see <a target="_blank" href="https://go.dev/doc">https://go.dev/doc</a> now`,
		},
		{
			name:     "bare host gets http",
			input:    "visit example.com",
			expected: `visit <a target="_blank" href="http://example.com">example.com</a>`,
		},
		{
			name:     "e-mail gets mailto",
			input:    "mail bob@example.com",
			expected: `mail <a target="_blank" href="mailto:bob@example.com">bob@example.com</a>`,
		},
		{
			name:     "markup is not interpreted",
			input:    "<b>bold</b> & <script>x()</script>",
			expected: "&lt;b&gt;bold&lt;/b&gt; &amp; &lt;script&gt;x()&lt;/script&gt;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := l.Linkify(tt.input).HTML(); got != tt.expected {
				t.Errorf("Linkify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLinkifier_TextContentUnchanged(t *testing.T) {
	t.Parallel()

	input := "ping a@b.io or https://x.org/a?b=1 and <i>this</i>"
	if got := NewLinkifier().Linkify(input).TextContent(); got != input {
		t.Errorf("TextContent() = %q, want %q", got, input)
	}
}

func TestImageIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "no images", input: "<p>hi</p>", expected: nil},
		{
			name:     "document order",
			input:    `<p><img id="b" src="x"> and <img id="a"/></p>`,
			expected: []string{"b", "a"},
		},
		{
			name:     "duplicates and empty ids skipped",
			input:    `<img id="a"><img id=""><img><img id="a">`,
			expected: []string{"a"},
		},
		{name: "ids on other elements ignored", input: `<span id="s"></span>`, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ImageIDs(tt.input); !slices.Equal(got, tt.expected) {
				t.Errorf("ImageIDs(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
