package pipeline

import (
	"golang.org/x/net/html"
)

// MentionTag is the element used for mentions in rich message content.
const MentionTag = "msft-mention"

// ImageRuleConfig configures the inline image override.
type ImageRuleConfig struct {
	// KnownIDs holds the ids of the message's inline images.
	KnownIDs map[string]bool
	// URLs maps image ids to resolved source URLs. May be nil.
	URLs map[string]string
	// OnClick runs with the image id on pointer click or Enter. May be nil.
	OnClick func(id string)
}

// NewImageRule returns the rule that makes known inline images interactive.
func NewImageRule(cfg ImageRuleConfig) Rule {
	return Rule{
		Name: "inline-image",
		Match: func(n *html.Node) bool {
			if n.Type != html.ElementNode || n.Data != "img" {
				return false
			}
			id, ok := attrValue(n, "id")
			return ok && id != "" && cfg.KnownIDs[id]
		},
		Transform: func(n *html.Node, children []*Node) *Node {
			id, _ := attrValue(n, "id")
			img := Element(n.Data, safeAttrs(n.Attr), children...)

			if label, ok := attrValue(n, "name"); ok {
				img.SetAttr("aria-label", label)
			} else if alt, ok := attrValue(n, "alt"); ok {
				img.SetAttr("aria-label", alt)
			}
			if src, ok := cfg.URLs[id]; ok {
				img.SetAttr("src", src)
			}

			onClick := func() {
				if cfg.OnClick != nil {
					cfg.OnClick(id)
				}
			}
			return Interactive("span", Attrs(
				"data-ui-id", id,
				"role", "button",
				"tabindex", "0",
				"style", "cursor: pointer",
			), onClick, img)
		},
	}
}

// Mention is a structured reference to a person embedded in rich content.
type Mention struct {
	ID          string
	DisplayText string
}

// MentionRenderer renders a mention, optionally delegating to defaultRender.
type MentionRenderer func(m Mention, defaultRender func(Mention) *Node) *Node

// DefaultMentionRender renders a mention as a labelled span.
func DefaultMentionRender(m Mention) *Node {
	return Element("span", Attrs(
		"class", MentionTag,
		"data-ui-id", "mention-"+m.ID,
	), Text(m.DisplayText))
}

// NewMentionRule returns the mention override, or false when render is nil.
// Without a custom renderer mentions fall through to the default rule.
func NewMentionRule(render MentionRenderer) (Rule, bool) {
	if render == nil {
		return Rule{}, false
	}
	return Rule{
		Name: "mention",
		Match: func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == MentionTag
		},
		Transform: func(n *html.Node, _ []*Node) *Node {
			id, _ := attrValue(n, "id")
			m := Mention{ID: id}
			if c := n.FirstChild; c != nil && c.Type == html.TextNode {
				m.DisplayText = c.Data
			}
			if out := render(m, DefaultMentionRender); out != nil {
				return out
			}
			return DefaultMentionRender(m)
		},
	}, true
}

// NewImageRemovalRule builds a rule that drops the img element with id.
func NewImageRemovalRule(id string) Rule {
	return Rule{
		Name: "remove-image",
		Match: func(n *html.Node) bool {
			if n.Type != html.ElementNode || n.Data != "img" {
				return false
			}
			v, ok := attrValue(n, "id")
			return ok && v == id
		},
		Transform: func(*html.Node, []*Node) *Node { return nil },
	}
}
