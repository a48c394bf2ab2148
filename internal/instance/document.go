package instance

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agentic-research/rbxmx2repo/internal/xmltree"
)

// ErrInputNotFound is returned when the input path is missing or is not a
// regular file.
var ErrInputNotFound = errors.New("input file not found")

// Document is a parsed place or model file.
type Document struct {
	RootTag   string
	RootAttrs []xmltree.Attr
	// RootExtras are the top-level elements that are not items (Meta,
	// External, SharedStrings, ...), in document order.
	RootExtras []*xmltree.Element
	RootItems  []*xmltree.Element
	Root       *Node

	// NodeCount is the number of nodes below the synthetic root.
	NodeCount int
}

// ParseDocument reads a document and builds its instance tree.
func ParseDocument(r io.Reader) (*Document, error) {
	top, err := xmltree.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		RootTag:   top.Name,
		RootAttrs: top.Attrs,
	}
	for _, el := range top.Children {
		if el.Name == itemTag {
			doc.RootItems = append(doc.RootItems, el)
		} else {
			doc.RootExtras = append(doc.RootExtras, el)
		}
	}

	b := NewBuilder()
	doc.Root = b.BuildRoot(doc.RootItems)
	doc.NodeCount = b.Count()
	return doc, nil
}

// ParseFile checks that path is a regular file and parses it.
func ParseFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
