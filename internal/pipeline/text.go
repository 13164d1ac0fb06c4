package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"mvdan.cc/xurls/v2"
)

// placeholderPattern matches {name} placeholders in localized strings.
var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// FormatString replaces {name} placeholders with values.
// Placeholders without a value are replaced by the empty string.
func FormatString(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		return values[m[1:len(m)-1]]
	})
}

// ExtractText returns the text content of an HTML string, the way a browser
// reports textContent. Unparseable input is returned unchanged.
func ExtractText(content string) string {
	if content == "" {
		return ""
	}
	context := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return content
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.CommentNode:
			return
		case html.ElementNode:
			if droppedElements[n.Data] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return sb.String()
}

// Linkifier turns URL-like substrings of plain text into links.
type Linkifier struct {
	pattern    *regexp.Regexp
	emailGroup int
}

// NewLinkifier creates a Linkifier that also matches scheme-less URLs and
// e-mail addresses.
func NewLinkifier() *Linkifier {
	pattern := xurls.Relaxed()
	return &Linkifier{pattern: pattern, emailGroup: pattern.SubexpIndex("relaxedEmail")}
}

// Linkify renders text as text nodes and <a target="_blank"> links.
// No markup in text is interpreted.
func (l *Linkifier) Linkify(text string) *Node {
	matches := l.pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		if text == "" {
			return Fragment()
		}
		return Fragment(Text(text))
	}

	out := make([]*Node, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			out = append(out, Text(text[last:m[0]]))
		}
		match := text[m[0]:m[1]]
		out = append(out, Element("a", Attrs("target", "_blank", "href", l.href(match, m)), Text(match)))
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Text(text[last:]))
	}
	return Fragment(out...)
}

// href adds a scheme to scheme-less matches: mailto: for bare e-mail
// addresses, http:// for bare host names.
func (l *Linkifier) href(match string, loc []int) string {
	if l.emailGroup > 0 && loc[2*l.emailGroup] >= 0 {
		return "mailto:" + match
	}
	if schemePattern.MatchString(match) && !hostPortPattern.MatchString(match) {
		return match
	}
	return "http://" + match
}

var (
	// schemePattern matches a leading URL scheme such as https: or mailto:.
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	// hostPortPattern matches host:port prefixes such as example.com:8080/path.
	hostPortPattern = regexp.MustCompile(`^[^/:]+:\d+(?:/|$)`)
)

// ImageIDs returns the non-empty id attributes of img elements in document
// order, without duplicates.
func ImageIDs(content string) []string {
	var ids []string
	seen := make(map[string]bool)
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ids
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Img {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "id" && a.Val != "" && !seen[a.Val] {
					seen[a.Val] = true
					ids = append(ids, a.Val)
				}
			}
		}
	}
}
