// Package xmldoc parses XML into a small in-memory element tree with
// parent links, ordered attributes and document-order queries.
//
// encoding/xml struct decoding cannot express the access patterns the
// args dialect needs: walking a parameter's ancestor pages, scanning
// descendants in document order and reading arbitrary attributes by
// name. Parsing into an explicit tree keeps those operations cheap and
// obvious.
package xmldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
)

// Attr is one element attribute. Attribute order is the document order.
type Attr struct {
	Name  string
	Value string
}

// Node is one XML element.
type Node struct {
	Name     string
	Attrs    []Attr
	Parent   *Node
	Children []*Node
	Text     string // character data directly inside this element
}

// Parse reads one XML document from r and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var root, cur *Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Parent: cur}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			switch {
			case cur != nil:
				cur.Children = append(cur.Children, n)
			case root == nil:
				root = n
			default:
				return nil, fmt.Errorf("multiple root elements")
			}
			cur = n
		case xml.EndElement:
			cur = cur.Parent
		case xml.CharData:
			if cur != nil {
				cur.Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// ParseFile reads and parses the XML document at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the value of the named attribute, or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Descendants returns every descendant element with the given name, in
// document order. The receiver itself is never included.
func (n *Node) Descendants(name string) []*Node {
	var out []*Node
	n.walk(func(d *Node) {
		if d.Name == name {
			out = append(out, d)
		}
	})
	return out
}

// AllDescendants returns every descendant element in document order.
func (n *Node) AllDescendants() []*Node {
	var out []*Node
	n.walk(func(d *Node) { out = append(out, d) })
	return out
}

func (n *Node) walk(visit func(*Node)) {
	for _, c := range n.Children {
		visit(c)
		c.walk(visit)
	}
}
