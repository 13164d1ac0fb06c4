package pipeline

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips or restricts markup in untrusted message content.
type Sanitizer interface {
	// PlainText removes all markup and returns decoded, whitespace-collapsed text.
	PlainText(content string) string
	// RichText keeps the markup a message editor may produce and removes the rest.
	RichText(content string) string
}

// BluemondaySanitizer implements Sanitizer with bluemonday policies.
// Policies are safe for concurrent use once built.
type BluemondaySanitizer struct {
	strict *bluemonday.Policy
	rich   *bluemonday.Policy
}

// NewBluemondaySanitizer builds the strict and rich-text policies.
func NewBluemondaySanitizer() *BluemondaySanitizer {
	strict := bluemonday.StrictPolicy()
	strict.AddSpaceWhenStrippingTag(true)

	rich := bluemonday.UGCPolicy()
	rich.AllowAttrs("id", "name").OnElements("img")
	rich.AllowAttrs("id").OnElements(MentionTag)
	rich.AllowElements(MentionTag)
	rich.AllowDataURIImages()
	rich.AllowAttrs("class").Matching(codeClass).OnElements("code", "pre", "span")
	rich.AddTargetBlankToFullyQualifiedLinks(true)

	return &BluemondaySanitizer{strict: strict, rich: rich}
}

// codeClass limits class attributes to syntax-highlighting class names.
var codeClass = regexp.MustCompile(`^(?:language-[\w-]+|chroma|[a-z]{1,3})$`)

// angleEscaper keeps angle brackets encoded after entity decoding.
var angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// PlainText strips every tag, drops script and style content, decodes
// entities and collapses whitespace. Angle brackets stay encoded, so the
// result never contains raw markup characters.
func (s *BluemondaySanitizer) PlainText(content string) string {
	if content == "" {
		return ""
	}
	stripped := angleEscaper.Replace(html.UnescapeString(s.strict.Sanitize(content)))
	return strings.Join(strings.Fields(stripped), " ")
}

// RichText keeps formatting, links, lists, code, inline images and mentions.
func (s *BluemondaySanitizer) RichText(content string) string {
	if content == "" {
		return ""
	}
	return s.rich.Sanitize(content)
}

// Compile-time interface check.
var _ Sanitizer = (*BluemondaySanitizer)(nil)
