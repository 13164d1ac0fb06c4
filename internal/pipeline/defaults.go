package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// droppedElements never reach the render tree. Their children are raw text
// when serialised, or they can execute code in the viewer.
var droppedElements = map[string]bool{
	"script":    true,
	"style":     true,
	"iframe":    true,
	"object":    true,
	"embed":     true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"xmp":       true,
	"svg":       true,
	"math":      true,
	"template":  true,
}

// urlAttributes hold URLs and are checked for script schemes.
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"poster":     true,
}

// DefaultTransform converts a parsed node into its plain rendering.
// Text stays text, elements keep their tag, safe attributes and children.
// Comments, doctypes and dropped elements render nothing.
func DefaultTransform(n *html.Node, children []*Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		if n.Namespace != "" || droppedElements[n.Data] {
			return nil
		}
		return Element(n.Data, safeAttrs(n.Attr), children...)
	case html.DocumentNode:
		return Fragment(children...)
	default:
		return nil
	}
}

// safeAttrs copies attributes, dropping event handlers and script URLs.
func safeAttrs(attrs []html.Attribute) []html.Attribute {
	out := make([]html.Attribute, 0, len(attrs))
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttributes[key] && isScriptURL(a.Val) {
			continue
		}
		out = append(out, html.Attribute{Key: a.Key, Val: a.Val})
	}
	return out
}

// isScriptURL detects javascript: and vbscript: URLs, ignoring case and
// embedded whitespace or control characters.
func isScriptURL(v string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, v)
	cleaned = strings.ToLower(cleaned)
	return strings.HasPrefix(cleaned, "javascript:") || strings.HasPrefix(cleaned, "vbscript:")
}

// attrValue returns the value of the named attribute of a parsed node.
func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
