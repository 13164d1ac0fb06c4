package pipeline

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// NodeKind identifies the kind of a render tree node.
type NodeKind int

// Render tree node kinds.
const (
	FragmentNode NodeKind = iota // children only, no markup of its own
	TextNode
	ElementNode
)

// EventType identifies a UI event delivered to the render tree.
type EventType int

// UI event types.
const (
	EventClick EventType = iota
	EventKeyDown
)

// Event is a UI event targeted at an interactive node.
// Target matches the node's data-ui-id attribute; empty targets the receiver.
type Event struct {
	Type   EventType
	Key    string // key name for EventKeyDown, e.g. "Enter"
	Target string
}

// activates reports whether the event activates an interactive element.
// Pointer clicks and the Enter key activate; every other key is ignored.
func (e Event) activates() bool {
	switch e.Type {
	case EventClick:
		return true
	case EventKeyDown:
		return e.Key == "Enter"
	}
	return false
}

// Node is a displayable render tree node.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    []html.Attribute
	Text     string
	Children []*Node

	onActivate func()
}

// Text creates a text node.
func Text(s string) *Node {
	return &Node{Kind: TextNode, Text: s}
}

// Element creates an element node with attributes given as key/value pairs.
func Element(tag string, attrs []html.Attribute, children ...*Node) *Node {
	return &Node{Kind: ElementNode, Tag: tag, Attrs: attrs, Children: compact(children)}
}

// Fragment groups nodes without adding markup.
func Fragment(children ...*Node) *Node {
	return &Node{Kind: FragmentNode, Children: compact(children)}
}

// Interactive wraps child in an element that runs onActivate when activated
// by a pointer click or the Enter key.
func Interactive(tag string, attrs []html.Attribute, onActivate func(), children ...*Node) *Node {
	n := Element(tag, attrs, children...)
	n.onActivate = onActivate
	return n
}

// compact drops nil children so transforms may return nil for "render nothing".
func compact(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute, keeping attribute order stable.
func (n *Node) SetAttr(key, val string) {
	for i, a := range n.Attrs {
		if a.Namespace == "" && a.Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, html.Attribute{Key: key, Val: val})
}

// IsInteractive reports whether the node owns an activation handler.
func (n *Node) IsInteractive() bool {
	return n != nil && n.onActivate != nil
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node, depth-first, for which match returns true.
func (n *Node) Find(match func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// Dispatch delivers ev to the first interactive node matching ev.Target.
// Returns true if an activation handler ran.
func (n *Node) Dispatch(ev Event) bool {
	target := n.Find(func(c *Node) bool {
		if !c.IsInteractive() {
			return false
		}
		if ev.Target == "" {
			return true
		}
		id, _ := c.Attr("data-ui-id")
		return id == ev.Target
	})
	if target == nil || !ev.activates() {
		return false
	}
	target.onActivate()
	return true
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Kind == TextNode {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}

// HTML serialises the tree. Text and attribute values are escaped.
func (n *Node) HTML() string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for _, hn := range n.toHTML() {
		// Render only fails on writer errors; bytes.Buffer does not fail.
		_ = html.Render(&buf, hn)
	}
	return buf.String()
}

// toHTML converts the node into parser nodes. Fragments flatten into their children.
func (n *Node) toHTML() []*html.Node {
	switch n.Kind {
	case TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Text}}
	case ElementNode:
		el := &html.Node{Type: html.ElementNode, Data: n.Tag, Attr: append([]html.Attribute(nil), n.Attrs...)}
		for _, c := range n.Children {
			for _, hc := range c.toHTML() {
				el.AppendChild(hc)
			}
		}
		return []*html.Node{el}
	default:
		var out []*html.Node
		for _, c := range n.Children {
			out = append(out, c.toHTML()...)
		}
		return out
	}
}

// Attrs builds an attribute list from alternating key/value strings.
func Attrs(kv ...string) []html.Attribute {
	attrs := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return attrs
}
