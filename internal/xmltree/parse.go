package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is matched (via errors.Is) by every parse failure.
var ErrMalformed = errors.New("malformed document")

// ParseError reports where and why a document could not be read.
type ParseError struct {
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (line %d): %v", e.Message, e.Line, e.Err)
	}
	return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ParseError as an ErrMalformed.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// Parse reads a whole document and returns its single top-level element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var (
		root  *Element
		stack []*Element
	)
	fail := func(msg string, err error) error {
		line, _ := dec.InputPos()
		return &ParseError{Line: line, Message: msg, Err: err}
	}

	for {
		// RawToken keeps prefixes as written; tag matching is checked below.
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				return nil, &ParseError{Line: se.Line, Message: "xml syntax error", Err: err}
			}
			return nil, fail("read xml", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: qualify(t.Name)}
			if len(t.Attr) > 0 {
				el.Attrs = make([]Attr, len(t.Attr))
				for i, a := range t.Attr {
					el.Attrs[i] = Attr{Name: qualify(a.Name), Value: a.Value}
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fail(fmt.Sprintf("second top-level element <%s>", el.Name), nil)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			name := qualify(t.Name)
			if len(stack) == 0 {
				return nil, fail(fmt.Sprintf("unexpected </%s>", name), nil)
			}
			top := stack[len(stack)-1]
			if top.Name != name {
				return nil, fail(fmt.Sprintf("element <%s> closed by </%s>", top.Name, name), nil)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fail("text outside of the top-level element", nil)
				}
				continue
			}
			top := stack[len(stack)-1]
			top.Text += string(t)
		}
	}

	if len(stack) > 0 {
		return nil, fail(fmt.Sprintf("unexpected end of document inside <%s>", stack[len(stack)-1].Name), nil)
	}
	if root == nil {
		return nil, fail("no top-level element", nil)
	}
	return root, nil
}

func qualify(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
