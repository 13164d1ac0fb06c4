package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// StyleInjector inserts a stylesheet into an HTML document.
type StyleInjector interface {
	InjectCSS(ctx context.Context, document, css string) string
}

// StyleInjection injects CSS as a <style> block.
type StyleInjection struct{}

// InjectCSS inserts a <style> block before </head>, else right after the
// opening <body> tag, else at the start of the document.
// A cancelled context leaves the document unchanged.
func (StyleInjection) InjectCSS(ctx context.Context, document, css string) string {
	if css == "" || ctx.Err() != nil {
		return document
	}

	block := "<style>" + escapeStyle(css) + "</style>"
	lower := strings.ToLower(document)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return document[:idx] + block + document[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.IndexByte(document[idx:], '>'); end != -1 {
			pos := idx + end + 1
			return document[:pos] + block + document[pos:]
		}
	}
	return block + document
}

// escapeStyle keeps CSS from closing the surrounding <style> element.
func escapeStyle(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// IndexEntry is a heading listed in a document index.
type IndexEntry struct {
	Level int
	ID    string
	Text  string
}

// CollectHeadings returns the h1-h6 headings that carry an id attribute and
// lie between minLevel and maxLevel inclusive, in document order.
func CollectHeadings(document string, minLevel, maxLevel int) []IndexEntry {
	z := html.NewTokenizer(strings.NewReader(document))

	var (
		entries []IndexEntry
		current *IndexEntry
		text    strings.Builder
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return entries
		case html.StartTagToken:
			tok := z.Token()
			level := headingLevel(tok.Data)
			if current != nil || level < minLevel || level > maxLevel {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "id" && a.Val != "" {
					current = &IndexEntry{Level: level, ID: a.Val}
					text.Reset()
				}
			}
		case html.TextToken:
			if current != nil {
				text.Write(z.Text())
			}
		case html.EndTagToken:
			tok := z.Token()
			if current != nil && headingLevel(tok.Data) == current.Level {
				current.Text = strings.Join(strings.Fields(text.String()), " ")
				entries = append(entries, *current)
				current = nil
			}
		}
	}
}

// headingLevel returns 1-6 for h1-h6 and 0 for every other tag.
func headingLevel(tag string) int {
	if len(tag) != 2 || tag[0] != 'h' || tag[1] < '1' || tag[1] > '6' {
		return 0
	}
	return int(tag[1] - '0')
}

// outline numbers entries hierarchically. The shallowest first entry becomes
// depth 1 and skipped levels collapse into direct children.
type outline struct {
	counters [6]int
	base     int
	last     int
}

func (o *outline) next(level int) (string, int) {
	if o.base == 0 {
		o.base = level
	}
	depth := max(level-o.base+1, 1)
	if o.last > 0 && depth > o.last+1 {
		depth = o.last + 1
	}
	for i := depth; i < len(o.counters); i++ {
		o.counters[i] = 0
	}
	o.counters[depth-1]++
	o.last = depth

	parts := make([]string, depth)
	for i := range depth {
		parts[i] = strconv.Itoa(o.counters[i])
	}
	return strings.Join(parts, ".") + ".", depth
}

// RenderIndex renders a numbered navigation block linking to entries.
// Returns "" when there are no entries.
func RenderIndex(entries []IndexEntry, title string) string {
	if len(entries) == 0 {
		return ""
	}

	var items []*Node
	var o outline
	for _, e := range entries {
		num, depth := o.next(e.Level)
		attrs := Attrs("class", "index-item")
		if depth > 1 {
			attrs = append(attrs, Attrs("style", fmt.Sprintf("padding-left:%.1fem", float64(depth-1)*1.5))...)
		}
		items = append(items, Element("div", attrs,
			Element("a", Attrs("href", "#"+e.ID), Text(num+" "+e.Text)),
		))
	}

	var heading *Node
	if title != "" {
		heading = Element("h2", Attrs("class", "index-title"), Text(title))
	}
	return Element("nav", Attrs("class", "index"),
		heading,
		Element("div", Attrs("class", "index-list"), items...),
	).HTML()
}

// InjectIndex inserts an index of the document's headings right after the
// opening <body> tag, or at the start when there is none.
func InjectIndex(ctx context.Context, document, title string, minLevel, maxLevel int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	index := RenderIndex(CollectHeadings(document, minLevel, maxLevel), title)
	if index == "" {
		return document, nil
	}

	lower := strings.ToLower(document)
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.IndexByte(document[idx:], '>'); end != -1 {
			pos := idx + end + 1
			return document[:pos] + index + document[pos:], nil
		}
	}
	return index + document, nil
}

// Compile-time interface check.
var _ StyleInjector = StyleInjection{}
