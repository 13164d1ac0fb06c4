// Package pipeline implements the message content rendering stages.
//
// Raw HTML content is parsed with golang.org/x/net/html and rendered into a
// render tree by an ordered list of rules. The first rule whose predicate
// matches a node renders it; the default rule is held apart from the ordered
// rules and always runs last. Children are rendered before their parent, so a
// rule can wrap already-rendered content:
//   - inline image rule: interactive wrapper around known inline images
//   - mention rule: custom mention rendering, installed only on request
//   - default rule: safe plain rendering of everything else
//
// The package also holds the helpers around the tree: the bluemonday
// sanitizer used for accessibility text, the plain-text auto-linker, string
// template formatting, goldmark Markdown conversion, chroma source
// highlighting and stylesheet and index injection for documents.
package pipeline
