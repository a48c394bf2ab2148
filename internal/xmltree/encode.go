package xmltree

import (
	"encoding/xml"
	"io"
)

// Encode writes root and its subtree as indented XML followed by a newline.
func Encode(w io.Writer, root *Element) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeElement(enc, root); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeElement(enc *xml.Encoder, el *Element) error {
	// Qualified names go into Local with an empty Space so the encoder
	// writes them verbatim instead of inventing namespace prefixes.
	start := xml.StartElement{Name: xml.Name{Local: el.Name}}
	if len(el.Attrs) > 0 {
		start.Attr = make([]xml.Attr, len(el.Attrs))
		for i, a := range el.Attrs {
			start.Attr[i] = xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value}
		}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text, ok := el.TextContent(); ok && text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	for _, c := range el.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
