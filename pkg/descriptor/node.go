// SPDX-License-Identifier: MPL-2.0

package descriptor

// IDAttr is the attribute carrying a descriptor's identifier.
const IDAttr = "id"

type (
	// Attr is a single element attribute. Qualified names keep their
	// prefix ("xml:lang").
	Attr struct {
		Name  string
		Value string
	}

	// Node is one element of a descriptor document.
	//
	// Text is the character data between the start tag and the first child
	// (or the end tag when there are no children). Tail is the character
	// data following the end tag, up to the next sibling or the parent's end
	// tag.
	Node struct {
		Name     string
		Attrs    []Attr
		Children []*Node
		Text     string
		Tail     string
	}
)

// NewNode returns an element with the given name and attributes.
func NewNode(name string, attrs ...Attr) *Node {
	return &Node{Name: name, Attrs: attrs}
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute. An existing attribute keeps its position;
// a new one is appended after all others.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// ID returns the value of the id attribute, or "" when absent.
func (n *Node) ID() string {
	id, _ := n.Attr(IDAttr)
	return id
}

// Append adds children after the existing ones.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Clone returns a deep copy of the node and its descendants.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name, Text: n.Text, Tail: n.Tail}
	if n.Attrs != nil {
		c.Attrs = make([]Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}
