package instance

import "github.com/agentic-research/rbxmx2repo/internal/xmltree"

// nameAttr is the attribute that names a property inside <Properties>.
const nameAttr = "name"

// Property is one type-tagged entry of a property bag.
type Property struct {
	Type  string // declared type tag, e.g. "string", "ProtectedString", "bool"
	Name  string
	Value string
	// HasText is false for structured values (e.g. CoordinateFrame) that
	// carry child elements instead of text.
	HasText bool
}

// PropertyBag holds the properties of one item in document order.
type PropertyBag struct {
	entries []Property
}

// NewPropertyBag reads the entries of a <Properties> element. A nil element
// yields an empty bag.
func NewPropertyBag(props *xmltree.Element) PropertyBag {
	if props == nil {
		return PropertyBag{}
	}
	bag := PropertyBag{entries: make([]Property, 0, len(props.Children))}
	for _, el := range props.Children {
		name, ok := el.Attr(nameAttr)
		if !ok {
			continue
		}
		text, hasText := el.TextContent()
		bag.entries = append(bag.entries, Property{
			Type:    el.Name,
			Name:    name,
			Value:   text,
			HasText: hasText,
		})
	}
	return bag
}

// Len returns the number of named entries.
func (b PropertyBag) Len() int { return len(b.entries) }

// Lookup returns the first text-bearing entry with the given type tag and
// name. An empty typeTag matches any type.
func (b PropertyBag) Lookup(typeTag, name string) (Property, bool) {
	for _, p := range b.entries {
		if p.Name != name || !p.HasText {
			continue
		}
		if typeTag != "" && p.Type != typeTag {
			continue
		}
		return p, true
	}
	return Property{}, false
}

// GetString returns the text of the first entry named name, whatever its
// type tag. The second result is false when no such entry exists, which is
// distinct from a present-but-empty value.
func (b PropertyBag) GetString(name string) (string, bool) {
	p, ok := b.Lookup("", name)
	if !ok {
		return "", false
	}
	return p.Value, true
}

// GetBool returns true only when the entry's text is exactly "true".
// The second result reports whether the entry exists at all.
func (b PropertyBag) GetBool(name string) (bool, bool) {
	v, ok := b.GetString(name)
	if !ok {
		return false, false
	}
	return v == "true", true
}
