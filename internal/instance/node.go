// Package instance builds the typed instance tree of a place or model file
// from its generic XML tree.
package instance

import (
	"github.com/agentic-research/rbxmx2repo/internal/xmltree"
)

const (
	// DefaultClass is used for items that carry no class attribute.
	DefaultClass = "Folder"

	// RootClass names the synthetic root. It never collides with a real
	// service class.
	RootClass = "ROOT"

	itemTag       = "Item"
	propertiesTag = "Properties"
	classAttr     = "class"
)

// Node is one instance of the tree. Nodes only link to their children; use
// a ParentIndex for upward walks.
type Node struct {
	ID        uint32
	Name      string
	ClassName string
	Disabled  bool
	Source    string

	Properties PropertyBag
	Children   []*Node

	// Segment is the directory segment assigned by the export setup pass.
	Segment string

	// Raw is the item this node was built from, kept for re-serialization.
	// It is nil for the synthetic root.
	Raw *xmltree.Element

	root bool
}

// IsRoot reports whether n is the synthetic document root.
func (n *Node) IsRoot() bool { return n.root }

// Walk visits n and its descendants depth-first in document order.
// Returning an error from fn stops the walk.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Builder converts items into nodes. Identities come from a counter owned
// by the builder, so every parse starts again at 1.
type Builder struct {
	next uint32
}

// NewBuilder returns a Builder whose first node gets identity 1.
func NewBuilder() *Builder {
	return &Builder{next: 1}
}

// Count returns how many nodes the builder has produced.
func (b *Builder) Count() int { return int(b.next - 1) }

// Build converts one <Item> element and its nested items.
func (b *Builder) Build(item *xmltree.Element) *Node {
	className, ok := item.Attr(classAttr)
	if !ok {
		className = DefaultClass
	}
	props := NewPropertyBag(item.FirstChild(propertiesTag))

	name, ok := props.GetString("Name")
	if !ok {
		name = className
	}
	disabled, _ := props.GetBool("Disabled")
	source, _ := props.GetString("Source")

	n := &Node{
		ID:         b.next,
		Name:       name,
		ClassName:  className,
		Disabled:   disabled,
		Source:     source,
		Properties: props,
		Raw:        item,
	}
	b.next++

	items := item.ChildrenNamed(itemTag)
	n.Children = make([]*Node, 0, len(items))
	for _, child := range items {
		n.Children = append(n.Children, b.Build(child))
	}
	return n
}

// BuildRoot wraps the top-level items in a synthetic root with ID 0.
func (b *Builder) BuildRoot(items []*xmltree.Element) *Node {
	root := &Node{
		ID:        0,
		Name:      RootClass,
		ClassName: RootClass,
		Children:  make([]*Node, 0, len(items)),
		root:      true,
	}
	for _, item := range items {
		root.Children = append(root.Children, b.Build(item))
	}
	return root
}
