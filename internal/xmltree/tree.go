// Package xmltree reads an XML document into a generic, order-preserving
// element tree and writes such a tree back out as text.
//
// Names are kept exactly as written in the source (prefix:local), so a tree
// parsed from a document can be re-serialized without namespace rewriting.
package xmltree

import (
	"strings"
)

// Attr is a single attribute. Name is the qualified name as written.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the generic tree. Children keep document order and
// repeated tags are never collapsed, so a tag occurring once is still a
// one-element list when read through ChildrenNamed.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	// Text is the concatenated character data (including CDATA) found
	// directly inside this element.
	Text string
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ChildrenNamed returns the direct children with the given tag, in order.
// The result is empty (never nil-vs-scalar ambiguous) when there are none.
func (e *Element) ChildrenNamed(name string) []*Element {
	out := make([]*Element, 0, len(e.Children))
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first direct child with the given tag, or nil.
func (e *Element) FirstChild(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TextContent returns the element's text and whether it carries any.
// Leaf elements always carry text (possibly empty). Elements with child
// elements only carry text when it is not pure inter-element whitespace.
func (e *Element) TextContent() (string, bool) {
	if len(e.Children) == 0 {
		return e.Text, true
	}
	if strings.TrimSpace(e.Text) != "" {
		return e.Text, true
	}
	return "", false
}
