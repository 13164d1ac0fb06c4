package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse indicates the HTML content could not be parsed.
var ErrParse = errors.New("HTML parsing failed")

// Rule pairs a predicate over a parsed node with the transform that renders it.
// Transform receives the node's children already rendered.
type Rule struct {
	Name      string
	Match     func(n *html.Node) bool
	Transform func(n *html.Node, children []*Node) *Node
}

// Pipeline applies an ordered list of rules to every node of a parsed tree.
// The first matching rule wins. The fallback is held apart from the ordered
// rules and always runs last, so every node gets exactly one rendering.
type Pipeline struct {
	rules    []Rule
	fallback Rule
}

// New creates a Pipeline from rules in priority order.
// Rules with a nil Match or Transform are skipped.
func New(rules ...Rule) *Pipeline {
	p := &Pipeline{
		fallback: Rule{
			Name:      "default",
			Match:     func(*html.Node) bool { return true },
			Transform: DefaultTransform,
		},
	}
	for _, r := range rules {
		if r.Match == nil || r.Transform == nil {
			continue
		}
		p.rules = append(p.rules, r)
	}
	return p
}

// RuleNames lists the rules in evaluation order, fallback included.
func (p *Pipeline) RuleNames() []string {
	names := make([]string, 0, len(p.rules)+1)
	for _, r := range p.rules {
		names = append(names, r.Name)
	}
	return append(names, p.fallback.Name)
}

// Process parses rawHTML as a body fragment and renders it through the rules.
func (p *Pipeline) Process(rawHTML string) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(rawHTML), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.processNode(n))
	}
	return Fragment(out...), nil
}

// processNode renders children first so composite transforms can wrap them.
func (p *Pipeline) processNode(n *html.Node) *Node {
	var children []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if rendered := p.processNode(c); rendered != nil {
			children = append(children, rendered)
		}
	}
	return p.ruleFor(n).Transform(n, children)
}

// ruleFor returns the first rule whose predicate holds, or the fallback.
func (p *Pipeline) ruleFor(n *html.Node) Rule {
	for _, r := range p.rules {
		if r.Match(n) {
			return r
		}
	}
	return p.fallback
}
